// internal/domain/goal.go
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"finflow-tracker/internal/util"
)

// GoalType defines what a goal tracks.
type GoalType string

const (
	GoalTypeSavings      GoalType = "savings"
	GoalTypeExpenseLimit GoalType = "expense_limit"
	GoalTypeDebtPayment  GoalType = "debt_payment"
)

// Valid reports whether t is a known goal type.
func (t GoalType) Valid() bool {
	switch t {
	case GoalTypeSavings, GoalTypeExpenseLimit, GoalTypeDebtPayment:
		return true
	}
	return false
}

// GoalStatus is the stored lifecycle state of a goal.
// It is only moved from active to completed by progress updates; the derived
// IsCompleted flag is computed separately and may disagree with it.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
	GoalStatusCancelled GoalStatus = "cancelled"
)

// Valid reports whether s is a known goal status.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusPaused, GoalStatusCancelled:
		return true
	}
	return false
}

// Goal represents a savings, spending-limit or debt-payment target.
type Goal struct {
	ID            string          `db:"id" json:"id"`
	Title         string          `db:"title" json:"title"`
	Description   *string         `db:"description" json:"description,omitempty"`
	Type          GoalType        `db:"type" json:"type"`
	TargetAmount  decimal.Decimal `db:"target_amount" json:"targetAmount"`
	CurrentAmount decimal.Decimal `db:"current_amount" json:"currentAmount"`
	Deadline      time.Time       `db:"deadline" json:"deadline"`
	Status        GoalStatus      `db:"status" json:"status"`
	Color         *string         `db:"color" json:"color,omitempty"`
	Icon          *string         `db:"icon" json:"icon,omitempty"`
	IsAutomatic   bool            `db:"is_automatic" json:"isAutomatic"`
	Rules         types.JSONText  `db:"rules" json:"rules,omitempty"` // stored as-is, never evaluated
	UserID        string          `db:"user_id" json:"userId"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// GoalInput carries the caller-supplied fields of a new goal.
type GoalInput struct {
	Title         string           `json:"title"`
	Description   *string          `json:"description,omitempty"`
	Type          GoalType         `json:"type,omitempty"`
	TargetAmount  decimal.Decimal  `json:"targetAmount"`
	CurrentAmount *decimal.Decimal `json:"currentAmount,omitempty"`
	Deadline      string           `json:"deadline"`
	Status        GoalStatus       `json:"status,omitempty"`
	Color         *string          `json:"color,omitempty"`
	Icon          *string          `json:"icon,omitempty"`
	IsAutomatic   bool             `json:"isAutomatic"`
	Rules         types.JSONText   `json:"rules,omitempty"`
}

// NewGoal validates in and builds a Goal owned by userID.
// Deadline freshness is checked by the caller, which owns the clock.
func NewGoal(userID string, in GoalInput) (*Goal, error) {
	deadline, err := ParseDate(in.Deadline)
	if err != nil {
		return nil, err
	}
	goalType := in.Type
	if goalType == "" {
		goalType = GoalTypeSavings
	}
	status := in.Status
	if status == "" {
		status = GoalStatusActive
	}
	current := decimal.Zero
	if in.CurrentAmount != nil {
		current = *in.CurrentAmount
	}

	now := time.Now().UTC()
	g := &Goal{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(in.Title),
		Description:   trimmed(in.Description),
		Type:          goalType,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: current,
		Deadline:      deadline,
		Status:        status,
		Color:         in.Color,
		Icon:          in.Icon,
		IsAutomatic:   in.IsAutomatic,
		Rules:         in.Rules,
		UserID:        userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the record invariants.
func (g *Goal) Validate() error {
	if g.Title == "" {
		return util.Invalid("title must not be empty")
	}
	if err := RequirePositive("targetAmount", g.TargetAmount); err != nil {
		return err
	}
	if err := RequireNonNegative("currentAmount", g.CurrentAmount); err != nil {
		return err
	}
	if !g.Type.Valid() {
		return util.Invalid("type must be savings, expense_limit or debt_payment")
	}
	if !g.Status.Valid() {
		return util.Invalid("status must be active, completed, paused or cancelled")
	}
	if g.UserID == "" {
		return util.Invalid("userId is required")
	}
	return nil
}

// GoalPatch is a partial update of a goal's plain fields.
type GoalPatch struct {
	Title         *string          `json:"title,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Type          *GoalType        `json:"type,omitempty"`
	TargetAmount  *decimal.Decimal `json:"targetAmount,omitempty"`
	CurrentAmount *decimal.Decimal `json:"currentAmount,omitempty"`
	Deadline      *string          `json:"deadline,omitempty"`
	Status        *GoalStatus      `json:"status,omitempty"`
	Color         *string          `json:"color,omitempty"`
	Icon          *string          `json:"icon,omitempty"`
	IsAutomatic   *bool            `json:"isAutomatic,omitempty"`
	Rules         types.JSONText   `json:"rules,omitempty"`
}

// Apply copies the set fields of p onto g and re-validates the result.
// Status is written verbatim: a direct edit never triggers a transition.
func (g *Goal) Apply(p GoalPatch) error {
	if p.Title != nil {
		g.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		g.Description = trimmed(p.Description)
	}
	if p.Type != nil {
		g.Type = *p.Type
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		g.CurrentAmount = *p.CurrentAmount
	}
	if p.Deadline != nil {
		deadline, err := ParseDate(*p.Deadline)
		if err != nil {
			return err
		}
		g.Deadline = deadline
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	if p.Color != nil {
		g.Color = p.Color
	}
	if p.Icon != nil {
		g.Icon = p.Icon
	}
	if p.IsAutomatic != nil {
		g.IsAutomatic = *p.IsAutomatic
	}
	if len(p.Rules) > 0 {
		g.Rules = p.Rules
	}
	g.UpdatedAt = time.Now().UTC()
	return g.Validate()
}
