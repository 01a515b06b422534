// internal/repository/postgres/goal_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finflow-tracker/internal/domain"
	"finflow-tracker/internal/repository"
	"finflow-tracker/internal/util"
	"finflow-tracker/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
)

const goalColumns = `id, title, description, type, target_amount, current_amount, deadline, status,
	color, icon, is_automatic, rules, user_id, created_at, updated_at`

// GoalRepository implements repository.GoalRepository for PostgreSQL.
type GoalRepository struct {
	db         *sqlx.DB
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewGoalRepository creates a new GoalRepository using the pkg/db transaction helpers.
func NewGoalRepository(conn *sqlx.DB) repository.GoalRepository {
	return &GoalRepository{
		db:         conn,
		beginTx:    db.BeginTx,
		commitTx:   db.CommitTx,
		rollbackTx: db.RollbackTx,
	}
}

// Create inserts a new goal.
func (r *GoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	q := `INSERT INTO goals (id, title, description, type, target_amount, current_amount, deadline, status,
	          color, icon, is_automatic, rules, user_id, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.ExecContext(ctx, q,
		goal.ID,
		goal.Title,
		goal.Description,
		goal.Type,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Deadline.Format(domain.DateLayout),
		goal.Status,
		goal.Color,
		goal.Icon,
		goal.IsAutomatic,
		nullableJSON(goal.Rules),
		goal.UserID,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// GetByID retrieves a goal by id, scoped to its owner.
func (r *GoalRepository) GetByID(ctx context.Context, id, userID string) (*domain.Goal, error) {
	return getGoal(ctx, r.db, id, userID, false)
}

func getGoal(ctx context.Context, q repository.DBExecutor, id, userID string, forUpdate bool) (*domain.Goal, error) {
	stmt := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2`
	if forUpdate {
		stmt += ` FOR UPDATE`
	}

	var goal domain.Goal
	if err := q.GetContext(ctx, &goal, stmt, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to get goal %s: %w", id, err)
	}
	return &goal, nil
}

// List returns the user's goals, newest first.
func (r *GoalRepository) List(ctx context.Context, userID string, status domain.GoalStatus) ([]domain.Goal, error) {
	stmt := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		stmt += ` AND status = $2`
		args = append(args, status)
	}
	stmt += ` ORDER BY created_at DESC, id ASC`

	goals := []domain.Goal{}
	if err := r.db.SelectContext(ctx, &goals, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to list goals for user %s: %w", userID, err)
	}
	return goals, nil
}

// Update overwrites every mutable column of the goal.
func (r *GoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	return updateGoal(ctx, r.db, goal)
}

func updateGoal(ctx context.Context, q repository.DBExecutor, goal *domain.Goal) error {
	stmt := `UPDATE goals
	         SET title = $1, description = $2, type = $3, target_amount = $4, current_amount = $5,
	             deadline = $6, status = $7, color = $8, icon = $9, is_automatic = $10, rules = $11,
	             updated_at = $12
	         WHERE id = $13 AND user_id = $14`

	result, err := q.ExecContext(ctx, stmt,
		goal.Title,
		goal.Description,
		goal.Type,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Deadline.Format(domain.DateLayout),
		goal.Status,
		goal.Color,
		goal.Icon,
		goal.IsAutomatic,
		nullableJSON(goal.Rules),
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal %s: %w", goal.ID, err)
	}
	return expectOneRow(result, util.ErrGoalNotFound)
}

// Delete permanently removes a goal.
func (r *GoalRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal %s: %w", id, err)
	}
	return expectOneRow(result, util.ErrGoalNotFound)
}

// UpdateWithLock locks the goal row with SELECT ... FOR UPDATE, applies fn and
// writes the result in the same transaction.
func (r *GoalRepository) UpdateWithLock(ctx context.Context, id, userID string, fn repository.GoalMutator) (*domain.Goal, error) {
	txController, err := r.beginTx(ctx, r.db)
	if err != nil {
		return nil, fmt.Errorf("update goal %s: failed to begin transaction: %w", id, err)
	}
	defer r.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("update goal %s: transaction controller does not implement DBExecutor", id)
	}

	goal, err := getGoal(ctx, txExecutor, id, userID, true)
	if err != nil {
		return nil, err
	}
	if err := fn(goal); err != nil {
		return nil, err
	}
	if err := updateGoal(ctx, txExecutor, goal); err != nil {
		return nil, err
	}

	if err := r.commitTx(txController); err != nil {
		return nil, fmt.Errorf("update goal %s: failed to commit transaction: %w", id, err)
	}
	return goal, nil
}

func nullableJSON(j types.JSONText) any {
	if len(j) == 0 {
		return nil
	}
	return []byte(j)
}
