// Package stats computes income/expense statistics over a user's transactions.
package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"finflow-tracker/internal/domain"
)

// UncategorizedLabel names a group whose category cannot be resolved.
const UncategorizedLabel = "no category"

// CategoryNames resolves category ids to display names.
type CategoryNames map[string]string

// Period echoes the requested bounds as YYYY-MM-DD, or "" when unbounded.
type Period struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// CategoryStats is the per-category group of TransactionStats.
// Type is the type of the last transaction folded into the group, even when
// the category mixes income and expense.
type CategoryStats struct {
	CategoryID   string                 `json:"categoryId"`
	CategoryName string                 `json:"categoryName"`
	Total        decimal.Decimal        `json:"total"`
	Count        int                    `json:"count"`
	Type         domain.TransactionType `json:"type"`
}

// MonthStats is part of the response shape but is never populated.
type MonthStats struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// TransactionStats is the aggregate view over a period.
type TransactionStats struct {
	TotalIncome         decimal.Decimal `json:"totalIncome"`
	TotalExpense        decimal.Decimal `json:"totalExpense"`
	Balance             decimal.Decimal `json:"balance"`
	TransactionCount    int             `json:"transactionCount"`
	AvgTransactionValue decimal.Decimal `json:"avgTransactionValue"`
	Period              Period          `json:"period"`
	ByCategory          []CategoryStats `json:"byCategory"`
	ByMonth             []MonthStats    `json:"byMonth"`
}

// Summary is the headline subset of TransactionStats.
type Summary struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transactionCount"`
}

// Summary projects the headline totals.
func (s TransactionStats) Summary() Summary {
	return Summary{
		TotalIncome:      s.TotalIncome,
		TotalExpense:     s.TotalExpense,
		Balance:          s.Balance,
		TransactionCount: s.TransactionCount,
	}
}

// Aggregate folds txs into statistics. Every status counts. When both start and
// end are set only transactions dated inside [start, end] are included; with a
// single bound nothing is filtered, though the bound is still echoed in Period.
// Category groups keep the order in which their first transaction appears.
func Aggregate(txs []domain.Transaction, names CategoryNames, start, end *time.Time) TransactionStats {
	out := TransactionStats{
		TotalIncome:         decimal.Zero,
		TotalExpense:        decimal.Zero,
		AvgTransactionValue: decimal.Zero,
		Period:              Period{StartDate: domain.FormatDate(start), EndDate: domain.FormatDate(end)},
		ByCategory:          []CategoryStats{},
		ByMonth:             []MonthStats{},
	}

	ranged := start != nil && end != nil
	groups := make(map[string]int)
	for _, tx := range txs {
		if ranged && (tx.Date.Before(*start) || tx.Date.After(*end)) {
			continue
		}

		switch tx.Type {
		case domain.TransactionTypeIncome:
			out.TotalIncome = out.TotalIncome.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			out.TotalExpense = out.TotalExpense.Add(tx.Amount)
		}
		out.TransactionCount++

		idx, ok := groups[tx.CategoryID]
		if !ok {
			name, found := names[tx.CategoryID]
			if !found || name == "" {
				name = UncategorizedLabel
			}
			out.ByCategory = append(out.ByCategory, CategoryStats{
				CategoryID:   tx.CategoryID,
				CategoryName: name,
				Total:        decimal.Zero,
			})
			idx = len(out.ByCategory) - 1
			groups[tx.CategoryID] = idx
		}
		g := &out.ByCategory[idx]
		g.Total = g.Total.Add(tx.Amount)
		g.Count++
		g.Type = tx.Type
	}

	out.Balance = out.TotalIncome.Sub(out.TotalExpense)
	if out.TransactionCount > 0 {
		gross := out.TotalIncome.Add(out.TotalExpense)
		out.AvgTransactionValue = domain.RoundMoney(gross.Div(decimal.NewFromInt(int64(out.TransactionCount))))
	}
	return out
}
