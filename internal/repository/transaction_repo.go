// internal/repository/transaction_repo.go
package repository

import (
	"context"
	"time"

	"finflow-tracker/internal/domain"
	"finflow-tracker/internal/query"
)

// TransactionRepository defines the interface for transaction data operations.
// Every lookup is scoped to the owning user; a row owned by someone else is reported as not found.
type TransactionRepository interface {
	// Create stores a new transaction.
	Create(ctx context.Context, tx *domain.Transaction) error
	// GetByID retrieves a transaction owned by userID.
	GetByID(ctx context.Context, id, userID string) (*domain.Transaction, error)
	// Update overwrites the mutable fields of an existing transaction.
	Update(ctx context.Context, tx *domain.Transaction) error
	// Delete removes a transaction owned by userID.
	Delete(ctx context.Context, id, userID string) error
	// Find applies a normalized filter and returns one page plus the total match count.
	Find(ctx context.Context, userID string, filter domain.TransactionFilter) (query.Result, error)
	// ListByPeriod returns all of userID's transactions dated within the optional inclusive bounds.
	ListByPeriod(ctx context.Context, userID string, start, end *time.Time) ([]domain.Transaction, error)
}
