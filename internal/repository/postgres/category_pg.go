// internal/repository/postgres/category_pg.go
package postgres

import (
	"context"
	"fmt"

	"finflow-tracker/internal/repository"

	"github.com/jmoiron/sqlx"
)

// CategoryRepository implements repository.CategoryRepository for PostgreSQL.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) repository.CategoryRepository {
	return &CategoryRepository{db: db}
}

// NamesByUser returns the user's own categories plus the shared defaults, skipping soft-deleted rows.
func (r *CategoryRepository) NamesByUser(ctx context.Context, userID string) (map[string]string, error) {
	var rows []struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}
	q := `SELECT id, name FROM categories
	      WHERE (user_id = $1 OR user_id IS NULL) AND deleted_at IS NULL`
	if err := r.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, fmt.Errorf("failed to load category names for user %s: %w", userID, err)
	}

	names := make(map[string]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
