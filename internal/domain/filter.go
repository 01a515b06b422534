// internal/domain/filter.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finflow-tracker/internal/util"
)

// Pagination and sort defaults for transaction listings.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	OrderByDate      = "date"
	OrderByAmount    = "amount"
	OrderByTitle     = "title"
	OrderByCreatedAt = "createdAt"

	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

var validOrderBy = map[string]bool{
	OrderByDate:      true,
	OrderByAmount:    true,
	OrderByTitle:     true,
	OrderByCreatedAt: true,
}

// TransactionFilter selects, sorts and paginates a user's transactions.
// Zero values mean "no constraint" for every predicate field.
type TransactionFilter struct {
	Type       TransactionType
	Status     TransactionStatus
	CategoryID string
	StartDate  *time.Time
	EndDate    *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Search     string
	Tag        string

	Page    int
	Limit   int
	OrderBy string
	Order   string
}

// Normalize validates the filter and fills in defaults.
// An unknown OrderBy is not an error: it falls back to date.
func (f TransactionFilter) Normalize() (TransactionFilter, error) {
	if f.Type != "" && !f.Type.Valid() {
		return f, util.Invalid("type must be %q or %q", TransactionTypeIncome, TransactionTypeExpense)
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, util.Invalid("status must be pending, completed or cancelled")
	}
	if f.MinAmount != nil {
		if err := RequireNonNegative("minAmount", *f.MinAmount); err != nil {
			return f, err
		}
	}

	switch {
	case f.Page == 0:
		f.Page = DefaultPage
	case f.Page < 1:
		return f, util.Invalid("page must be at least 1")
	}
	switch {
	case f.Limit == 0:
		f.Limit = DefaultLimit
	case f.Limit < 1 || f.Limit > MaxLimit:
		return f, util.Invalid("limit must be between 1 and %d", MaxLimit)
	}

	if !validOrderBy[f.OrderBy] {
		f.OrderBy = OrderByDate
	}
	switch strings.ToUpper(strings.TrimSpace(f.Order)) {
	case "":
		f.Order = OrderDesc
	case OrderAsc:
		f.Order = OrderAsc
	case OrderDesc:
		f.Order = OrderDesc
	default:
		return f, util.Invalid("order must be ASC or DESC")
	}

	f.Search = strings.TrimSpace(f.Search)
	return f, nil
}

// Offset is the number of matching rows skipped before the requested page.
func (f TransactionFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// Descending reports whether the sort direction is DESC.
func (f TransactionFilter) Descending() bool {
	return f.Order != OrderAsc
}
