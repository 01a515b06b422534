// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finflow-tracker/internal/domain"
	"finflow-tracker/internal/query"
	"finflow-tracker/internal/repository"
	"finflow-tracker/internal/util"

	"github.com/jmoiron/sqlx"
)

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct {
	db *sqlx.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts a new transaction record.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	q := `INSERT INTO transactions (id, title, description, amount, type, status, date, attachment, tags,
	          is_recurring, recurring_frequency, category_id, user_id, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.ExecContext(ctx, q,
		tx.ID,
		tx.Title,
		tx.Description,
		tx.Amount,
		tx.Type,
		tx.Status,
		tx.Date.Format(domain.DateLayout),
		tx.Attachment,
		tx.Tags,
		tx.IsRecurring,
		tx.RecurringFrequency,
		tx.CategoryID,
		tx.UserID,
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction by id, scoped to its owner.
func (r *TransactionRepository) GetByID(ctx context.Context, id, userID string) (*domain.Transaction, error) {
	return getTransaction(ctx, r.db, id, userID)
}

func getTransaction(ctx context.Context, q repository.DBExecutor, id, userID string) (*domain.Transaction, error) {
	var tx domain.Transaction
	stmt := `SELECT ` + query.TransactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	if err := q.GetContext(ctx, &tx, stmt, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction %s: %w", id, err)
	}
	return &tx, nil
}

// Update overwrites every mutable column. user_id is never written.
func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	q := `UPDATE transactions
	      SET title = $1, description = $2, amount = $3, type = $4, status = $5, date = $6,
	          attachment = $7, tags = $8, is_recurring = $9, recurring_frequency = $10,
	          category_id = $11, updated_at = $12
	      WHERE id = $13 AND user_id = $14`

	result, err := r.db.ExecContext(ctx, q,
		tx.Title,
		tx.Description,
		tx.Amount,
		tx.Type,
		tx.Status,
		tx.Date.Format(domain.DateLayout),
		tx.Attachment,
		tx.Tags,
		tx.IsRecurring,
		tx.RecurringFrequency,
		tx.CategoryID,
		tx.UpdatedAt,
		tx.ID,
		tx.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", tx.ID, err)
	}
	return expectOneRow(result, util.ErrTransactionNotFound)
}

// Delete removes a transaction owned by userID.
func (r *TransactionRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	return expectOneRow(result, util.ErrTransactionNotFound)
}

// Find runs the filtered page query and its count query.
func (r *TransactionRepository) Find(ctx context.Context, userID string, filter domain.TransactionFilter) (query.Result, error) {
	stmt := query.Build(userID, filter)

	items := []domain.Transaction{}
	if err := r.db.SelectContext(ctx, &items, stmt.Query, stmt.Args...); err != nil {
		return query.Result{}, fmt.Errorf("failed to query transactions for user %s: %w", userID, err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, stmt.CountQuery, stmt.CountArgs...); err != nil {
		return query.Result{}, fmt.Errorf("failed to count transactions for user %s: %w", userID, err)
	}

	return query.Result{Items: items, Total: total}, nil
}

// ListByPeriod returns every transaction of userID within the optional date bounds.
func (r *TransactionRepository) ListByPeriod(ctx context.Context, userID string, start, end *time.Time) ([]domain.Transaction, error) {
	where, args := query.Where(userID, domain.TransactionFilter{StartDate: start, EndDate: end})
	stmt := `SELECT ` + query.TransactionColumns + ` FROM transactions WHERE ` + where + ` ORDER BY created_at ASC, id ASC`

	txs := []domain.Transaction{}
	if err := r.db.SelectContext(ctx, &txs, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to list transactions for user %s: %w", userID, err)
	}
	return txs, nil
}

func expectOneRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
