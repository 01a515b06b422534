// internal/repository/goal_repo.go
package repository

import (
	"context"

	"finflow-tracker/internal/domain"
)

// GoalMutator edits a goal read under lock. Returning an error aborts the write.
type GoalMutator func(goal *domain.Goal) error

// GoalRepository defines the interface for goal data operations.
type GoalRepository interface {
	// Create stores a new goal.
	Create(ctx context.Context, goal *domain.Goal) error
	// GetByID retrieves a goal owned by userID.
	GetByID(ctx context.Context, id, userID string) (*domain.Goal, error)
	// List returns userID's goals, newest first, optionally restricted to one status.
	List(ctx context.Context, userID string, status domain.GoalStatus) ([]domain.Goal, error)
	// Update overwrites the mutable fields of an existing goal.
	Update(ctx context.Context, goal *domain.Goal) error
	// Delete permanently removes a goal owned by userID.
	Delete(ctx context.Context, id, userID string) error
	// UpdateWithLock reads the goal, lets fn modify it and writes it back as one
	// unit, so concurrent progress updates on the same goal are serialized.
	UpdateWithLock(ctx context.Context, id, userID string, fn GoalMutator) (*domain.Goal, error)
}
