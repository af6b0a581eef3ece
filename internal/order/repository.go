// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/angelamos/storefront/internal/catalog"
	"github.com/angelamos/storefront/internal/core"
)

type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListForUser(ctx context.Context, params ListOrdersParams) ([]Order, int, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create reserves stock for every line and inserts the order in a single
// transaction. An oversell on any line rolls the whole order back, so stock
// never leaks when a later line or the insert itself fails.
func (r *repository) Create(ctx context.Context, order *Order) error {
	query := `
		INSERT INTO orders (user_id, items, total_cents, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		products := catalog.NewRepository(tx)
		for _, item := range order.Items {
			if err := products.DecrementStock(
				ctx,
				item.ProductID,
				item.Quantity,
			); err != nil {
				return err
			}
		}

		return tx.GetContext(ctx, order, query,
			order.UserID,
			order.Items,
			order.TotalCents,
			order.Status,
		)
	})
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	query := `
		SELECT id, user_id, items, total_cents, status,
		       created_at, updated_at
		FROM orders
		WHERE id = $1`

	var order Order
	err := r.db.GetContext(ctx, &order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	return &order, nil
}

func (r *repository) ListForUser(
	ctx context.Context,
	params ListOrdersParams,
) ([]Order, int, error) {
	params.Normalize()

	countQuery := `SELECT COUNT(*) FROM orders WHERE user_id = $1`

	var total int
	err := r.db.GetContext(ctx, &total, countQuery, params.UserID)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := `
		SELECT id, user_id, items, total_cents, status,
		       created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var orders []Order
	err = r.db.SelectContext(
		ctx,
		&orders,
		query,
		params.UserID,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id int64,
	status Status,
) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update order status: %w", core.ErrNotFound)
	}

	return nil
}
