// AngelaMos | 2026
// entity.go

package catalog

import (
	"time"
)

type Product struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	PriceCents  int64     `db:"price_cents"`
	ImageURL    string    `db:"image_url"`
	Stock       int       `db:"stock"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (p *Product) InStock(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}
