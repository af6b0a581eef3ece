// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

// NewRepository returns a StoreStatsProvider backed by the primary database.
func NewRepository(db *sqlx.DB) StoreStatsProvider {
	return &repository{db: db}
}

func (r *repository) StoreCounts(ctx context.Context) (*StoreCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM products) AS products,
			(SELECT COUNT(*) FROM orders) AS orders,
			(SELECT COUNT(*) FROM orders WHERE status = 'pending') AS pending_orders`

	var counts StoreCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("counting store rows: %w", err)
	}

	return &counts, nil
}
