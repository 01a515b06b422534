package goals

import (
	"github.com/shopspring/decimal"

	"finflow-tracker/internal/domain"
)

// Stats summarizes all of a user's goals.
type Stats struct {
	Total              int             `json:"total"`
	Active             int             `json:"active"`
	Completed          int             `json:"completed"`
	Overdue            int             `json:"overdue"`
	TotalTargetAmount  decimal.Decimal `json:"totalTargetAmount"`
	TotalCurrentAmount decimal.Decimal `json:"totalCurrentAmount"`
	AverageProgress    decimal.Decimal `json:"averageProgress"`
}

// Stats counts goals by stored status and averages their derived progress.
func (t *Tracker) Stats(gs []domain.Goal) Stats {
	out := Stats{
		Total:              len(gs),
		TotalTargetAmount:  decimal.Zero,
		TotalCurrentAmount: decimal.Zero,
		AverageProgress:    decimal.Zero,
	}

	progressSum := decimal.Zero
	for _, g := range gs {
		switch g.Status {
		case domain.GoalStatusActive:
			out.Active++
		case domain.GoalStatusCompleted:
			out.Completed++
		}
		if t.IsPastDeadline(g) {
			out.Overdue++
		}
		out.TotalTargetAmount = out.TotalTargetAmount.Add(g.TargetAmount)
		out.TotalCurrentAmount = out.TotalCurrentAmount.Add(g.CurrentAmount)
		progressSum = progressSum.Add(t.Derive(g).Progress)
	}

	if len(gs) > 0 {
		out.AverageProgress = progressSum.Div(decimal.NewFromInt(int64(len(gs)))).Round(2)
	}
	return out
}
