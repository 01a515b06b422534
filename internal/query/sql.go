package query

import (
	"fmt"
	"strings"

	"finflow-tracker/internal/domain"
)

// TransactionColumns is the column list shared by every transaction select.
const TransactionColumns = `id, title, description, amount, type, status, date, attachment, tags,
	is_recurring, recurring_frequency, category_id, user_id, created_at, updated_at`

// Titles sort by byte value, matching Go string comparison in Apply.
var orderColumns = map[string]string{
	domain.OrderByDate:      "date",
	domain.OrderByAmount:    "amount",
	domain.OrderByTitle:     `title COLLATE "C"`,
	domain.OrderByCreatedAt: "created_at",
}

// Statement is a rendered page query and its companion count query.
type Statement struct {
	Query      string
	Args       []any
	CountQuery string
	CountArgs  []any
}

// Build renders f as PostgreSQL for userID. f must already be normalized.
func Build(userID string, f domain.TransactionFilter) Statement {
	where, args := Where(userID, f)

	column, ok := orderColumns[f.OrderBy]
	if !ok {
		column = orderColumns[domain.OrderByDate]
	}
	direction := domain.OrderDesc
	if !f.Descending() {
		direction = domain.OrderAsc
	}

	countArgs := append([]any(nil), args...)
	pageArgs := append(args, f.Limit, f.Offset())
	n := len(args)

	return Statement{
		Query: fmt.Sprintf(`SELECT %s
		FROM transactions
		WHERE %s
		ORDER BY %s %s, created_at ASC, id ASC
		LIMIT $%d OFFSET $%d`, TransactionColumns, where, column, direction, n+1, n+2),
		Args:       pageArgs,
		CountQuery: fmt.Sprintf(`SELECT COUNT(*) FROM transactions WHERE %s`, where),
		CountArgs:  countArgs,
	}
}

// Where renders the predicate part of f, always scoped to userID.
func Where(userID string, f domain.TransactionFilter) (string, []any) {
	clauses := []string{"user_id = $1"}
	args := []any{userID}
	add := func(format string, v any) {
		args = append(args, v)
		clauses = append(clauses, fmt.Sprintf(format, len(args)))
	}

	if f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.CategoryID != "" {
		add("category_id = $%d", f.CategoryID)
	}
	if f.StartDate != nil {
		add("date >= $%d", f.StartDate.Format(domain.DateLayout))
	}
	if f.EndDate != nil {
		add("date <= $%d", f.EndDate.Format(domain.DateLayout))
	}
	if f.MinAmount != nil {
		add("amount >= $%d", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		add("amount <= $%d", *f.MaxAmount)
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if f.Tag != "" {
		// Match against the decoded array so "art" never matches "cart".
		add("jsonb_exists(tags::jsonb, $%d)", f.Tag)
	}
	return strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
