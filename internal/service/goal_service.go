// internal/service/goal_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"finflow-tracker/internal/domain"
	"finflow-tracker/internal/goals"
	"finflow-tracker/internal/metrics"
	"finflow-tracker/internal/repository"
	"finflow-tracker/internal/util"
)

// GoalService defines the interface for goal-related business logic.
// Every returned goal carries its derived progress fields.
type GoalService interface {
	Create(ctx context.Context, userID string, in domain.GoalInput) (*goals.View, error)
	Get(ctx context.Context, id, userID string) (*goals.View, error)
	List(ctx context.Context, userID string, status domain.GoalStatus) ([]goals.View, error)
	Update(ctx context.Context, id, userID string, patch domain.GoalPatch) (*goals.View, error)
	Delete(ctx context.Context, id, userID string) error
	ApplyProgress(ctx context.Context, id, userID string, amount decimal.Decimal, dir goals.Direction) (*goals.View, error)
	Active(ctx context.Context, userID string) ([]goals.View, error)
	Completed(ctx context.Context, userID string) ([]goals.View, error)
	Overdue(ctx context.Context, userID string) ([]goals.View, error)
	Stats(ctx context.Context, userID string) (*goals.Stats, error)
}

// goalService implements the GoalService interface.
type goalService struct {
	goalRepo repository.GoalRepository
	tracker  *goals.Tracker
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// NewGoalService creates a new instance of GoalService.
func NewGoalService(
	goalRepo repository.GoalRepository,
	tracker *goals.Tracker,
	collector *metrics.Collector,
	logger *slog.Logger,
) GoalService {
	return &goalService{
		goalRepo: goalRepo,
		tracker:  tracker,
		metrics:  collector,
		logger:   logger,
	}
}

// Create validates and stores a new goal. The deadline must be strictly in the future.
func (s *goalService) Create(ctx context.Context, userID string, in domain.GoalInput) (*goals.View, error) {
	if userID == "" {
		return nil, util.Invalid("userId is required")
	}
	goal, err := domain.NewGoal(userID, in)
	if err != nil {
		return nil, err
	}
	if err := s.tracker.ValidateDeadline(goal.Deadline); err != nil {
		return nil, err
	}
	if err := s.goalRepo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	s.logger.Debug("Goal created", "goal_id", goal.ID, "user_id", userID)
	return s.view(goal), nil
}

// Get retrieves one of userID's goals.
func (s *goalService) Get(ctx context.Context, id, userID string) (*goals.View, error) {
	goal, err := s.goalRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get goal %s: %w", id, err)
	}
	return s.view(goal), nil
}

// List returns userID's goals, newest first, optionally filtered by status.
func (s *goalService) List(ctx context.Context, userID string, status domain.GoalStatus) ([]goals.View, error) {
	if status != "" && !status.Valid() {
		return nil, util.Invalid("status must be active, completed, paused or cancelled")
	}
	list, err := s.goalRepo.List(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return s.tracker.Views(list), nil
}

// Update applies a partial update. A changed deadline must again be in the future.
// Editing amounts directly never changes the stored status.
func (s *goalService) Update(ctx context.Context, id, userID string, patch domain.GoalPatch) (*goals.View, error) {
	goal, err := s.goalRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("update goal %s: %w", id, err)
	}
	if err := goal.Apply(patch); err != nil {
		return nil, err
	}
	if patch.Deadline != nil {
		if err := s.tracker.ValidateDeadline(goal.Deadline); err != nil {
			return nil, err
		}
	}
	if err := s.goalRepo.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("update goal %s: %w", id, err)
	}
	return s.view(goal), nil
}

// Delete permanently removes one of userID's goals.
func (s *goalService) Delete(ctx context.Context, id, userID string) error {
	if err := s.goalRepo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("delete goal %s: %w", id, err)
	}
	return nil
}

// ApplyProgress adds or subtracts amount from the goal's accumulated amount.
// The read-modify-write runs under the repository's per-goal lock; invalid
// input is rejected before the lock is taken.
func (s *goalService) ApplyProgress(ctx context.Context, id, userID string, amount decimal.Decimal, dir goals.Direction) (*goals.View, error) {
	if err := goals.CheckProgress(amount, dir); err != nil {
		return nil, err
	}

	var completed bool
	goal, err := s.goalRepo.UpdateWithLock(ctx, id, userID, func(g *domain.Goal) error {
		updated, err := s.tracker.ApplyProgress(*g, amount, dir)
		if err != nil {
			return err
		}
		completed = g.Status != domain.GoalStatusCompleted && updated.Status == domain.GoalStatusCompleted
		*g = updated
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply progress to goal %s: %w", id, err)
	}

	if dir == goals.Add {
		s.metrics.ProgressApplied("add")
	} else {
		s.metrics.ProgressApplied("subtract")
	}
	if completed {
		s.metrics.GoalCompleted()
		s.logger.Info("Goal completed", "goal_id", id, "user_id", userID)
	}
	return s.view(goal), nil
}

// Active returns userID's active goals.
func (s *goalService) Active(ctx context.Context, userID string) ([]goals.View, error) {
	return s.List(ctx, userID, domain.GoalStatusActive)
}

// Completed returns userID's completed goals.
func (s *goalService) Completed(ctx context.Context, userID string) ([]goals.View, error) {
	return s.List(ctx, userID, domain.GoalStatusCompleted)
}

// Overdue returns userID's active goals whose deadline has passed.
func (s *goalService) Overdue(ctx context.Context, userID string) ([]goals.View, error) {
	list, err := s.goalRepo.List(ctx, userID, domain.GoalStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list overdue goals: %w", err)
	}
	out := []goals.View{}
	for _, g := range list {
		if s.tracker.IsPastDeadline(g) {
			out = append(out, s.tracker.View(g))
		}
	}
	return out, nil
}

// Stats summarizes all of userID's goals.
func (s *goalService) Stats(ctx context.Context, userID string) (*goals.Stats, error) {
	list, err := s.goalRepo.List(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("goal stats: %w", err)
	}
	out := s.tracker.Stats(list)
	return &out, nil
}

func (s *goalService) view(g *domain.Goal) *goals.View {
	v := s.tracker.View(*g)
	return &v
}
