// Package query selects, orders and paginates a user's transactions.
//
// Apply evaluates a filter in memory; Build renders the same filter as
// PostgreSQL so the database can do the work. Both must agree on semantics:
// predicates are AND-ed, bounds are inclusive, tags match whole elements of
// the decoded tag list, and rows with equal sort keys keep creation order.
package query

import (
	"sort"
	"strings"

	"finflow-tracker/internal/domain"
)

// Result is one page of matching transactions plus the number of matches before paging.
type Result struct {
	Items []domain.Transaction
	Total int
}

// Apply filters txs down to userID's matching rows, sorts them and cuts out the
// requested page. f must already be normalized. txs is not modified.
func Apply(txs []domain.Transaction, userID string, f domain.TransactionFilter) Result {
	matched := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.UserID == userID && Matches(tx, f) {
			matched = append(matched, tx)
		}
	}

	// Pin the tie-break to creation order before the keyed sort.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	less := lessFunc(f.OrderBy)
	desc := f.Descending()
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	total := len(matched)
	offset := f.Offset()
	if offset >= total {
		return Result{Items: []domain.Transaction{}, Total: total}
	}
	end := offset + f.Limit
	if end > total {
		end = total
	}
	return Result{Items: matched[offset:end], Total: total}
}

// Matches reports whether tx satisfies every predicate set on f. Ownership is not checked.
func Matches(tx domain.Transaction, f domain.TransactionFilter) bool {
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.Status != "" && tx.Status != f.Status {
		return false
	}
	if f.CategoryID != "" && tx.CategoryID != f.CategoryID {
		return false
	}
	if f.StartDate != nil && tx.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && tx.Date.After(*f.EndDate) {
		return false
	}
	if f.MinAmount != nil && tx.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && tx.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.Search != "" && !matchesSearch(tx, f.Search) {
		return false
	}
	if f.Tag != "" && !tx.Tags.Contains(f.Tag) {
		return false
	}
	return true
}

func matchesSearch(tx domain.Transaction, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(tx.Title), needle) {
		return true
	}
	return tx.Description != nil && strings.Contains(strings.ToLower(*tx.Description), needle)
}

func lessFunc(orderBy string) func(a, b domain.Transaction) bool {
	switch orderBy {
	case domain.OrderByAmount:
		return func(a, b domain.Transaction) bool { return a.Amount.LessThan(b.Amount) }
	case domain.OrderByTitle:
		return func(a, b domain.Transaction) bool { return a.Title < b.Title }
	case domain.OrderByCreatedAt:
		return func(a, b domain.Transaction) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return func(a, b domain.Transaction) bool { return a.Date.Before(b.Date) }
	}
}
