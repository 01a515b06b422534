// internal/repository/category_repo.go
package repository

import "context"

// CategoryRepository exposes the category lookups needed to label statistics.
type CategoryRepository interface {
	// NamesByUser maps the id of every category visible to userID to its display name.
	NamesByUser(ctx context.Context, userID string) (map[string]string, error)
}
