// internal/goals/tracker_test.go
package goals

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finflow-tracker/internal/domain"
	"finflow-tracker/internal/util"
)

// noon keeps the clock away from midnight so day arithmetic is unambiguous.
var noon = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

var today = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func fixedTracker() *Tracker {
	return NewTracker(func() time.Time { return noon })
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func goal(target, current string, deadline time.Time, status domain.GoalStatus) domain.Goal {
	return domain.Goal{
		ID:            "g-1",
		Title:         "Vacation",
		Type:          domain.GoalTypeSavings,
		TargetAmount:  dec(target),
		CurrentAmount: dec(current),
		Deadline:      deadline,
		Status:        status,
		UserID:        "u-1",
	}
}

func TestApplyProgress_ReachingTargetCompletes(t *testing.T) {
	tr := fixedTracker()
	g := goal("1000", "900", today.AddDate(0, 0, 30), domain.GoalStatusActive)

	updated, err := tr.ApplyProgress(g, dec("150"), Add)
	require.NoError(t, err)

	assertDecimal(t, "1050", updated.CurrentAmount)
	assert.Equal(t, domain.GoalStatusCompleted, updated.Status)
	d := tr.Derive(updated)
	assertDecimal(t, "100", d.Progress)
	assert.True(t, d.IsCompleted)

	// The input value is untouched.
	assertDecimal(t, "900", g.CurrentAmount)
	assert.Equal(t, domain.GoalStatusActive, g.Status)
}

func TestApplyProgress_SubtractFloorsAtZero(t *testing.T) {
	tr := fixedTracker()
	g := goal("1000", "50", today.AddDate(0, 0, 30), domain.GoalStatusActive)

	updated, err := tr.ApplyProgress(g, dec("80"), Subtract)
	require.NoError(t, err)

	assertDecimal(t, "0", updated.CurrentAmount)
	assert.Equal(t, domain.GoalStatusActive, updated.Status)
}

func TestApplyProgress_CompletedGoalIsNeverReverted(t *testing.T) {
	tr := fixedTracker()
	g := goal("100", "100", today.AddDate(0, 0, 30), domain.GoalStatusCompleted)

	updated, err := tr.ApplyProgress(g, dec("60"), Subtract)
	require.NoError(t, err)

	assertDecimal(t, "40", updated.CurrentAmount)
	assert.Equal(t, domain.GoalStatusCompleted, updated.Status)
}

func TestApplyProgress_OnlyActiveGoalsComplete(t *testing.T) {
	tr := fixedTracker()
	g := goal("100", "90", today.AddDate(0, 0, 30), domain.GoalStatusPaused)

	updated, err := tr.ApplyProgress(g, dec("20"), Add)
	require.NoError(t, err)

	assert.Equal(t, domain.GoalStatusPaused, updated.Status)
	assert.True(t, tr.Derive(updated).IsCompleted, "derived completion is independent of stored status")
}

func TestApplyProgress_Rejects(t *testing.T) {
	tr := fixedTracker()
	g := goal("100", "10", today.AddDate(0, 0, 30), domain.GoalStatusActive)

	_, err := tr.ApplyProgress(g, dec("-1"), Add)
	assert.True(t, util.IsError(err, util.ErrNegativeAmount))
	assert.True(t, util.IsError(err, util.ErrInvalidInput))

	_, err = tr.ApplyProgress(g, dec("1"), Direction(2))
	assert.True(t, util.IsError(err, util.ErrInvalidDirection))
}

func TestCheckProgress(t *testing.T) {
	assert.NoError(t, CheckProgress(dec("0"), Subtract))
	assert.ErrorIs(t, CheckProgress(dec("-0.01"), Add), util.ErrNegativeAmount)
	assert.ErrorIs(t, CheckProgress(dec("5"), Direction(0)), util.ErrInvalidDirection)
}

func TestDerive_PastDeadline(t *testing.T) {
	tr := fixedTracker()
	g := goal("1000", "200", today.AddDate(0, 0, -5), domain.GoalStatusActive)

	d := tr.Derive(g)

	assert.True(t, d.IsOverdue)
	assert.Equal(t, -5, d.DaysRemaining)
	assertDecimal(t, "0", d.DailyTargetToReach)
	assertDecimal(t, "20", d.Progress)
	assert.True(t, tr.IsPastDeadline(g))
}

func TestDerive_DailyTarget(t *testing.T) {
	tr := fixedTracker()
	// Ten days out from today's midnight is 9.5 days from noon, which rounds up to 10.
	g := goal("1000", "250", today.AddDate(0, 0, 10), domain.GoalStatusActive)

	d := tr.Derive(g)

	assert.Equal(t, 10, d.DaysRemaining)
	assert.False(t, d.IsOverdue)
	assertDecimal(t, "75", d.DailyTargetToReach)
	assertDecimal(t, "25", d.Progress)
	assert.False(t, d.IsCompleted)
}

func TestDerive_ProgressRoundsAndCaps(t *testing.T) {
	tr := fixedTracker()

	d := tr.Derive(goal("3", "1", today.AddDate(0, 0, 1), domain.GoalStatusActive))
	assertDecimal(t, "33.33", d.Progress)

	d = tr.Derive(goal("100", "250", today.AddDate(0, 0, 1), domain.GoalStatusActive))
	assertDecimal(t, "100", d.Progress)
	assertDecimal(t, "0", d.DailyTargetToReach)
}

func TestValidateDeadline(t *testing.T) {
	tr := fixedTracker()

	assert.True(t, util.IsError(tr.ValidateDeadline(today), util.ErrDeadlineNotInFuture))
	assert.True(t, util.IsError(tr.ValidateDeadline(noon), util.ErrDeadlineNotInFuture))
	assert.NoError(t, tr.ValidateDeadline(today.AddDate(0, 0, 1)))
}

func TestIsPastDeadline_IgnoresInactiveGoals(t *testing.T) {
	tr := fixedTracker()
	past := today.AddDate(0, 0, -1)

	assert.True(t, tr.IsPastDeadline(goal("10", "0", past, domain.GoalStatusActive)))
	assert.False(t, tr.IsPastDeadline(goal("10", "0", past, domain.GoalStatusPaused)))
	assert.False(t, tr.IsPastDeadline(goal("10", "10", past, domain.GoalStatusCompleted)))
}

func TestStats(t *testing.T) {
	tr := fixedTracker()
	future := today.AddDate(0, 1, 0)
	gs := []domain.Goal{
		goal("100", "50", future, domain.GoalStatusActive),
		goal("200", "200", future, domain.GoalStatusCompleted),
		goal("100", "10", today.AddDate(0, 0, -3), domain.GoalStatusActive),
		goal("100", "0", future, domain.GoalStatusPaused),
	}

	st := tr.Stats(gs)

	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 2, st.Active)
	assert.Equal(t, 1, st.Completed)
	assert.Equal(t, 1, st.Overdue)
	assertDecimal(t, "500", st.TotalTargetAmount)
	assertDecimal(t, "260", st.TotalCurrentAmount)
	// (50 + 100 + 10 + 0) / 4
	assertDecimal(t, "40", st.AverageProgress)
}

func TestStats_Empty(t *testing.T) {
	st := fixedTracker().Stats(nil)

	assert.Equal(t, 0, st.Total)
	assert.True(t, st.AverageProgress.IsZero())
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 1, DaysUntil(noon, today.AddDate(0, 0, 1)))
	assert.Equal(t, 0, DaysUntil(noon, today))
	assert.Equal(t, -1, DaysUntil(noon, today.AddDate(0, 0, -1)))
}
