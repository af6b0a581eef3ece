// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelamos/storefront/internal/catalog"
	"github.com/angelamos/storefront/internal/core"
)

var (
	ErrEmptyOrder     = errors.New("order has no items")
	ErrUnknownProduct = errors.New("unknown product in order")
	ErrOutOfStock     = errors.New("insufficient stock")
)

type ProductProvider interface {
	GetProducts(ctx context.Context, ids []int64) ([]catalog.Product, error)
}

type Service struct {
	repo     Repository
	products ProductProvider
}

func NewService(repo Repository, products ProductProvider) *Service {
	return &Service{
		repo:     repo,
		products: products,
	}
}

// Create builds an order from the submitted cart. Prices and names are
// snapshotted from the catalog and the total is computed server-side; the
// client-supplied body carries only product ids and quantities.
func (s *Service) Create(
	ctx context.Context,
	userID int64,
	req CreateOrderRequest,
) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	quantities := make(map[int64]int, len(req.Items))
	ids := make([]int64, 0, len(req.Items))
	for _, item := range req.Items {
		if _, seen := quantities[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	products, err := s.products.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	byID := make(map[int64]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items, total, err := buildItems(ids, quantities, byID)
	if err != nil {
		return nil, err
	}

	order := &Order{
		UserID:     userID,
		Items:      items,
		TotalCents: total,
		Status:     StatusPending,
	}

	// The repository reserves stock and inserts atomically; a guarded
	// decrement hitting zero rows means another order won the stock race.
	if err := s.repo.Create(ctx, order); err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			return nil, fmt.Errorf("create order: %w", ErrOutOfStock)
		}
		return nil, err
	}

	return order, nil
}

// buildItems resolves cart lines against the catalog snapshot and computes
// the order total.
func buildItems(
	ids []int64,
	quantities map[int64]int,
	byID map[int64]catalog.Product,
) (Items, int64, error) {
	items := make(Items, 0, len(ids))
	var total int64

	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return nil, 0, fmt.Errorf("product %d: %w", id, ErrUnknownProduct)
		}

		quantity := quantities[id]
		if !product.InStock(quantity) {
			return nil, 0, fmt.Errorf(
				"product %d: %w", id, ErrOutOfStock)
		}

		items = append(items, Item{
			ProductID:  product.ID,
			Name:       product.Name,
			PriceCents: product.PriceCents,
			Quantity:   quantity,
		})
		total += product.PriceCents * int64(quantity)
	}

	return items, total, nil
}

// Get returns an order if the requester owns it or holds staff privileges.
func (s *Service) Get(
	ctx context.Context,
	orderID, requesterID int64,
	requesterIsStaff bool,
) (*Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.BelongsTo(requesterID) && !requesterIsStaff {
		return nil, fmt.Errorf("get order: %w", core.ErrForbidden)
	}

	return order, nil
}

func (s *Service) ListForUser(
	ctx context.Context,
	params ListOrdersParams,
) ([]Order, int, error) {
	return s.repo.ListForUser(ctx, params)
}

func (s *Service) UpdateStatus(
	ctx context.Context,
	orderID int64,
	statusStr string,
) (*Order, error) {
	status, err := ParseStatus(statusStr)
	if err != nil {
		return nil, fmt.Errorf("update status: %w: %w", core.ErrInvalidInput, err)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, orderID)
}
