// Package goals owns goal progress: applying deltas, the active to completed
// transition and the metrics derived on every read.
package goals

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"finflow-tracker/internal/domain"
	"finflow-tracker/internal/util"
)

var hundred = decimal.NewFromInt(100)

// Direction is the sign of a progress delta.
type Direction int

const (
	Add      Direction = 1
	Subtract Direction = -1
)

// Valid reports whether d is +1 or -1.
func (d Direction) Valid() bool {
	return d == Add || d == Subtract
}

// Derived holds the values computed from a goal on read. They are never stored.
type Derived struct {
	Progress           decimal.Decimal `json:"progress"`
	IsCompleted        bool            `json:"isCompleted"`
	DaysRemaining      int             `json:"daysRemaining"`
	IsOverdue          bool            `json:"isOverdue"`
	DailyTargetToReach decimal.Decimal `json:"dailyTargetToReach"`
}

// View is a goal together with its derived fields, flattened on the wire.
type View struct {
	domain.Goal
	Derived
}

// Tracker applies progress and derives metrics against an injected clock.
type Tracker struct {
	now func() time.Time
}

// NewTracker creates a Tracker. A nil clock means time.Now.
func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{now: now}
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// ValidateDeadline rejects deadlines that are not strictly in the future.
func (t *Tracker) ValidateDeadline(deadline time.Time) error {
	if !deadline.After(t.now()) {
		return util.ErrDeadlineNotInFuture
	}
	return nil
}

// CheckProgress rejects a negative amount or an unknown direction.
func CheckProgress(amount decimal.Decimal, dir Direction) error {
	if amount.IsNegative() {
		return util.ErrNegativeAmount
	}
	if !dir.Valid() {
		return util.ErrInvalidDirection
	}
	return nil
}

// ApplyProgress adds amount×dir to the goal's current amount, flooring at zero.
// An active goal whose current amount reaches its target becomes completed;
// no other status changes, and a completed goal is never reverted.
func (t *Tracker) ApplyProgress(g domain.Goal, amount decimal.Decimal, dir Direction) (domain.Goal, error) {
	if err := CheckProgress(amount, dir); err != nil {
		return g, err
	}

	current := g.CurrentAmount.Add(amount.Mul(decimal.NewFromInt(int64(dir))))
	if current.IsNegative() {
		current = decimal.Zero
	}
	g.CurrentAmount = current

	if current.GreaterThanOrEqual(g.TargetAmount) && g.Status == domain.GoalStatusActive {
		g.Status = domain.GoalStatusCompleted
	}
	g.UpdatedAt = t.now().UTC()
	return g, nil
}

// Derive computes the read-time metrics of g.
func (t *Tracker) Derive(g domain.Goal) Derived {
	progress := decimal.Zero
	if g.TargetAmount.IsPositive() {
		progress = g.CurrentAmount.Div(g.TargetAmount).Mul(hundred)
		if progress.GreaterThan(hundred) {
			progress = hundred
		}
	}
	progress = progress.Round(2)

	days := DaysUntil(t.now(), g.Deadline)

	daily := decimal.Zero
	if days > 0 {
		remaining := decimal.Max(g.TargetAmount.Sub(g.CurrentAmount), decimal.Zero)
		daily = domain.RoundMoney(remaining.Div(decimal.NewFromInt(int64(days))))
	}

	return Derived{
		Progress:           progress,
		IsCompleted:        progress.GreaterThanOrEqual(hundred),
		DaysRemaining:      days,
		IsOverdue:          days < 0,
		DailyTargetToReach: daily,
	}
}

// View pairs g with its derived fields.
func (t *Tracker) View(g domain.Goal) View {
	return View{Goal: g, Derived: t.Derive(g)}
}

// Views derives every goal in gs.
func (t *Tracker) Views(gs []domain.Goal) []View {
	out := make([]View, 0, len(gs))
	for _, g := range gs {
		out = append(out, t.View(g))
	}
	return out
}

// IsPastDeadline reports whether an active goal's deadline has already passed.
// Goals in any other status are never overdue.
func (t *Tracker) IsPastDeadline(g domain.Goal) bool {
	return g.Status == domain.GoalStatusActive && g.Deadline.Before(t.now())
}

// DaysUntil is the number of whole days from now to deadline, rounded up; negative once passed.
func DaysUntil(now, deadline time.Time) int {
	diff := deadline.Sub(now)
	return int(math.Ceil(float64(diff) / float64(24*time.Hour)))
}
