// internal/domain/category.go
package domain

import "time"

// Category is the read-only view of a category needed to label transactions.
// Category management lives outside this service.
type Category struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Type      TransactionType `db:"type" json:"type"`
	UserID    *string         `db:"user_id" json:"userId,omitempty"` // nil for system defaults
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
}
