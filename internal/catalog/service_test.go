// AngelaMos | 2026
// service_test.go

package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/storefront/internal/core"
)

type fakeRepo struct {
	nextID   int64
	products map[int64]*Product
}

func newFakeRepo(products ...Product) *fakeRepo {
	f := &fakeRepo{nextID: 1, products: make(map[int64]*Product)}
	for _, p := range products {
		stored := p
		f.products[p.ID] = &stored
		if p.ID >= f.nextID {
			f.nextID = p.ID + 1
		}
	}
	return f
}

func (f *fakeRepo) Create(_ context.Context, p *Product) error {
	p.ID = f.nextID
	f.nextID++
	stored := *p
	f.products[p.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeRepo) GetByIDs(
	_ context.Context,
	ids []int64,
) ([]Product, error) {
	var result []Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakeRepo) Update(_ context.Context, p *Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	stored := *p
	f.products[p.ID] = &stored
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}
	delete(f.products, id)
	return nil
}

func (f *fakeRepo) List(
	_ context.Context,
	_ ListProductsParams,
) ([]Product, int, error) {
	var result []Product
	for _, p := range f.products {
		result = append(result, *p)
	}
	return result, len(result), nil
}

func (f *fakeRepo) DecrementStock(
	_ context.Context,
	id int64,
	quantity int,
) error {
	p, ok := f.products[id]
	if !ok {
		return fmt.Errorf("decrement stock: %w", core.ErrNotFound)
	}
	if p.Stock < quantity {
		return fmt.Errorf("decrement stock: %w", core.ErrInvalidInput)
	}
	p.Stock -= quantity
	return nil
}

func ptr[T any](v T) *T { return &v }

func TestUpdateProductPartialPatch(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo(Product{
		ID:          1,
		Name:        "Espresso Cup",
		Description: "Stoneware, 90ml",
		PriceCents:  1250,
		Stock:       10,
	})
	svc := NewService(repo)

	updated, err := svc.UpdateProduct(ctx, 1, UpdateProductRequest{
		PriceCents: ptr(int64(1400)),
		Stock:      ptr(25),
	})
	require.NoError(t, err)

	// Only the supplied fields change.
	assert.Equal(t, "Espresso Cup", updated.Name)
	assert.Equal(t, "Stoneware, 90ml", updated.Description)
	assert.Equal(t, int64(1400), updated.PriceCents)
	assert.Equal(t, 25, updated.Stock)

	stored, err := svc.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1400), stored.PriceCents)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.UpdateProduct(
		context.Background(),
		42,
		UpdateProductRequest{Name: ptr("Anything")},
	)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateAndDeleteProduct(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	created, err := svc.CreateProduct(ctx, CreateProductRequest{
		Name:       "Drip Kettle",
		PriceCents: 6400,
		Stock:      3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))

	_, err = svc.GetProduct(ctx, created.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestProductInStock(t *testing.T) {
	p := Product{Stock: 3}

	assert.True(t, p.InStock(1))
	assert.True(t, p.InStock(3))
	assert.False(t, p.InStock(4))
	assert.False(t, p.InStock(0))
	assert.False(t, p.InStock(-1))
}

func TestListProductsParamsNormalize(t *testing.T) {
	params := ListProductsParams{Page: 0, PageSize: 500}
	params.Normalize()
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 100, params.PageSize)
	assert.Equal(t, 0, params.Offset())

	params = ListProductsParams{Page: 3, PageSize: 20}
	params.Normalize()
	assert.Equal(t, 40, params.Offset())
}
