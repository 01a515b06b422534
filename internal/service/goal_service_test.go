// internal/service/goal_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"finflow-tracker/internal/domain"
	"finflow-tracker/internal/goals"
	"finflow-tracker/internal/metrics"
	"finflow-tracker/internal/util"
)

var clock = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newGoalServiceWithMocks(collector *metrics.Collector) (GoalService, *MockGoalRepository) {
	repo := new(MockGoalRepository)
	tracker := goals.NewTracker(func() time.Time { return clock })
	return NewGoalService(repo, tracker, collector, discardLogger()), repo
}

func storedGoal(current string, status domain.GoalStatus) *domain.Goal {
	return &domain.Goal{
		ID:            "g-1",
		Title:         "New laptop",
		Type:          domain.GoalTypeSavings,
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.RequireFromString(current),
		Deadline:      time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:        status,
		UserID:        "u-1",
	}
}

// counterValue reads a counter from reg without depending on the exposition format.
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
		return sum
	}
	return 0
}

// TestGoalCreate tests the Create method of GoalService.
func TestGoalCreate(t *testing.T) {
	in := domain.GoalInput{
		Title:        "Holiday",
		TargetAmount: decimal.NewFromInt(2000),
		Deadline:     "2024-09-01",
	}

	t.Run("Successful", func(t *testing.T) {
		ctx := context.Background()
		service, repo := newGoalServiceWithMocks(nil)

		repo.On("Create", ctx, mock.AnythingOfType("*domain.Goal")).Return(nil).Once()

		view, err := service.Create(ctx, "u-1", in)

		require.NoError(t, err)
		assert.Equal(t, domain.GoalStatusActive, view.Status)
		assert.True(t, view.Progress.IsZero())
		assert.Greater(t, view.DaysRemaining, 0)
		repo.AssertExpectations(t)
	})

	t.Run("DeadlineToday", func(t *testing.T) {
		service, repo := newGoalServiceWithMocks(nil)

		today := in
		today.Deadline = "2024-06-15"
		_, err := service.Create(context.Background(), "u-1", today)

		assert.ErrorIs(t, err, util.ErrDeadlineNotInFuture)
		assert.ErrorIs(t, err, util.ErrInvalidInput)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

// TestGoalUpdate tests the Update method of GoalService.
func TestGoalUpdate(t *testing.T) {
	t.Run("UnchangedPastDeadlineIsAccepted", func(t *testing.T) {
		ctx := context.Background()
		service, repo := newGoalServiceWithMocks(nil)
		goal := storedGoal("100", domain.GoalStatusActive)
		goal.Deadline = clock.AddDate(0, 0, -10)
		title := "Renamed"

		repo.On("GetByID", ctx, "g-1", "u-1").Return(goal, nil).Once()
		repo.On("Update", ctx, mock.AnythingOfType("*domain.Goal")).Return(nil).Once()

		view, err := service.Update(ctx, "g-1", "u-1", domain.GoalPatch{Title: &title})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", view.Title)
		assert.True(t, view.IsOverdue)
		repo.AssertExpectations(t)
	})

	t.Run("ChangedDeadlineMustBeFuture", func(t *testing.T) {
		ctx := context.Background()
		service, repo := newGoalServiceWithMocks(nil)
		past := "2024-01-01"

		repo.On("GetByID", ctx, "g-1", "u-1").Return(storedGoal("0", domain.GoalStatusActive), nil).Once()

		_, err := service.Update(ctx, "g-1", "u-1", domain.GoalPatch{Deadline: &past})

		assert.ErrorIs(t, err, util.ErrDeadlineNotInFuture)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

// TestApplyProgress tests the ApplyProgress method of GoalService.
func TestApplyProgress(t *testing.T) {
	t.Run("CompletesGoalAndRecordsMetrics", func(t *testing.T) {
		ctx := context.Background()
		reg := prometheus.NewRegistry()
		collector := metrics.NewCollector("test")
		require.NoError(t, collector.Register(reg))
		service, repo := newGoalServiceWithMocks(collector)

		repo.On("UpdateWithLock", ctx, "g-1", "u-1", mock.Anything).Return(storedGoal("900", domain.GoalStatusActive), nil).Once()

		view, err := service.ApplyProgress(ctx, "g-1", "u-1", decimal.NewFromInt(150), goals.Add)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1050).Equal(view.CurrentAmount))
		assert.Equal(t, domain.GoalStatusCompleted, view.Status)
		assert.True(t, decimal.NewFromInt(100).Equal(view.Progress))
		assert.True(t, view.IsCompleted)
		assert.Equal(t, float64(1), counterValue(t, reg, "test_goal_completions_total"))
		assert.Equal(t, float64(1), counterValue(t, reg, "test_goal_progress_updates_total"))
		repo.AssertExpectations(t)
	})

	t.Run("SubtractFloorsAtZero", func(t *testing.T) {
		ctx := context.Background()
		service, repo := newGoalServiceWithMocks(nil)

		repo.On("UpdateWithLock", ctx, "g-1", "u-1", mock.Anything).Return(storedGoal("50", domain.GoalStatusActive), nil).Once()

		view, err := service.ApplyProgress(ctx, "g-1", "u-1", decimal.NewFromInt(80), goals.Subtract)

		require.NoError(t, err)
		assert.True(t, view.CurrentAmount.IsZero())
		assert.Equal(t, domain.GoalStatusActive, view.Status)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		service, repo := newGoalServiceWithMocks(nil)

		_, err := service.ApplyProgress(context.Background(), "g-1", "u-1", decimal.NewFromInt(-5), goals.Add)

		assert.ErrorIs(t, err, util.ErrNegativeAmount)
		repo.AssertNotCalled(t, "UpdateWithLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidDirection", func(t *testing.T) {
		service, repo := newGoalServiceWithMocks(nil)

		_, err := service.ApplyProgress(context.Background(), "g-1", "u-1", decimal.NewFromInt(5), goals.Direction(0))

		assert.ErrorIs(t, err, util.ErrInvalidDirection)
		repo.AssertNotCalled(t, "UpdateWithLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("GoalNotFound", func(t *testing.T) {
		ctx := context.Background()
		service, repo := newGoalServiceWithMocks(nil)

		repo.On("UpdateWithLock", ctx, "missing", "u-1", mock.Anything).Return(nil, util.ErrGoalNotFound).Once()

		_, err := service.ApplyProgress(ctx, "missing", "u-1", decimal.NewFromInt(5), goals.Add)

		assert.ErrorIs(t, err, util.ErrNotFound)
	})
}

// TestGoalLists tests the filtered listings and stats of GoalService.
func TestGoalLists(t *testing.T) {
	overdue := storedGoal("10", domain.GoalStatusActive)
	overdue.ID = "g-overdue"
	overdue.Deadline = clock.AddDate(0, 0, -1)
	onTrack := storedGoal("500", domain.GoalStatusActive)
	done := storedGoal("1000", domain.GoalStatusCompleted)
	done.ID = "g-done"

	t.Run("Overdue", func(t *testing.T) {
		ctx := context.Background()
		service, repo := newGoalServiceWithMocks(nil)

		repo.On("List", ctx, "u-1", domain.GoalStatusActive).Return([]domain.Goal{*overdue, *onTrack}, nil).Once()

		views, err := service.Overdue(ctx, "u-1")

		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "g-overdue", views[0].ID)
		assert.True(t, views[0].IsOverdue)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		service, repo := newGoalServiceWithMocks(nil)

		_, err := service.List(context.Background(), "u-1", "archived")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Stats", func(t *testing.T) {
		ctx := context.Background()
		service, repo := newGoalServiceWithMocks(nil)

		repo.On("List", ctx, "u-1", domain.GoalStatus("")).Return([]domain.Goal{*overdue, *onTrack, *done}, nil).Once()

		st, err := service.Stats(ctx, "u-1")

		require.NoError(t, err)
		assert.Equal(t, 3, st.Total)
		assert.Equal(t, 2, st.Active)
		assert.Equal(t, 1, st.Completed)
		assert.Equal(t, 1, st.Overdue)
		assert.True(t, decimal.NewFromInt(1510).Equal(st.TotalCurrentAmount))
		// (1 + 50 + 100) / 3
		assert.True(t, decimal.RequireFromString("50.33").Equal(st.AverageProgress), "got %s", st.AverageProgress)
	})
}
