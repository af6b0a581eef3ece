// AngelaMos | 2026
// entity.go

package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusShipped, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// Item is a line in an order. Name and price are snapshotted at purchase
// time so later catalog edits do not rewrite order history.
type Item struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// Items is stored as a single jsonb column.
type Items []Item

func (it Items) Value() (driver.Value, error) {
	b, err := json.Marshal(it)
	if err != nil {
		return nil, fmt.Errorf("marshal order items: %w", err)
	}
	return b, nil
}

func (it *Items) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, it)
	case string:
		return json.Unmarshal([]byte(v), it)
	default:
		return fmt.Errorf("scan order items: unsupported type %T", src)
	}
}

type Order struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	Items      Items     `db:"items"`
	TotalCents int64     `db:"total_cents"`
	Status     Status    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (o *Order) BelongsTo(userID int64) bool {
	return o.UserID == userID
}
