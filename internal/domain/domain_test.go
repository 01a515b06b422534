// internal/domain/domain_test.go
package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finflow-tracker/internal/util"
)

func validTransactionInput() TransactionInput {
	return TransactionInput{
		Title:      "  Groceries ",
		Amount:     decimal.RequireFromString("45.50"),
		Type:       TransactionTypeExpense,
		Date:       "2024-03-15",
		CategoryID: "cat-food",
	}
}

func TestNewTransaction_Defaults(t *testing.T) {
	tx, err := NewTransaction("u-1", validTransactionInput())
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, "Groceries", tx.Title)
	assert.Equal(t, TransactionStatusCompleted, tx.Status)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, Tags{}, tx.Tags)
	assert.Equal(t, "u-1", tx.UserID)
}

func TestNewTransaction_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TransactionInput)
	}{
		{"zero amount", func(in *TransactionInput) { in.Amount = decimal.Zero }},
		{"negative amount", func(in *TransactionInput) { in.Amount = decimal.NewFromInt(-5) }},
		{"empty title", func(in *TransactionInput) { in.Title = "   " }},
		{"unknown type", func(in *TransactionInput) { in.Type = "transfer" }},
		{"unknown status", func(in *TransactionInput) { in.Status = "void" }},
		{"bad date", func(in *TransactionInput) { in.Date = "15/03/2024" }},
		{"missing category", func(in *TransactionInput) { in.CategoryID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validTransactionInput()
			tt.mutate(&in)
			_, err := NewTransaction("u-1", in)
			assert.True(t, util.IsError(err, util.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestTransactionApply(t *testing.T) {
	tx, err := NewTransaction("u-1", validTransactionInput())
	require.NoError(t, err)
	tx.Tags = Tags{"weekly"}

	amount := decimal.RequireFromString("60")
	date := "2024-04-01"
	require.NoError(t, tx.Apply(TransactionPatch{Amount: &amount, Date: &date}))

	assert.True(t, amount.Equal(tx.Amount))
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, Tags{"weekly"}, tx.Tags, "omitted tags are left untouched")

	var clearTags TransactionPatch
	require.NoError(t, json.Unmarshal([]byte(`{"tags":[]}`), &clearTags))
	require.NoError(t, tx.Apply(clearTags))
	assert.NotNil(t, tx.Tags)
	assert.Empty(t, tx.Tags, "an explicit empty list clears tags")

	zero := decimal.Zero
	err = tx.Apply(TransactionPatch{Amount: &zero})
	assert.True(t, util.IsError(err, util.ErrInvalidInput))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-02-29T18:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("yesterday")
	assert.True(t, util.IsError(err, util.ErrInvalidInput))
}

func TestTags_ValueAndScan(t *testing.T) {
	v, err := Tags{"art", "museum"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["art","museum"]`, v)

	v, err = Tags{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	for _, src := range []any{nil, "", []byte("null")} {
		var tags Tags
		require.NoError(t, tags.Scan(src))
		assert.Equal(t, Tags{}, tags)
	}

	var tags Tags
	require.NoError(t, tags.Scan([]byte(`["cart"]`)))
	assert.True(t, tags.Contains("cart"))
	assert.False(t, tags.Contains("art"))

	assert.Error(t, tags.Scan(42))
	assert.Error(t, tags.Scan(`{"not":"an array"}`))
}

func TestTags_MarshalNilAsEmptyArray(t *testing.T) {
	b, err := json.Marshal(struct {
		Tags Tags `json:"tags"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":[]}`, string(b))
}

func TestTransactionFilter_Normalize(t *testing.T) {
	f, err := TransactionFilter{Search: "  rent  ", Order: "asc", OrderBy: "nonsense"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, f.Page)
	assert.Equal(t, DefaultLimit, f.Limit)
	assert.Equal(t, OrderByDate, f.OrderBy)
	assert.Equal(t, OrderAsc, f.Order)
	assert.Equal(t, "rent", f.Search)
	assert.Equal(t, 0, f.Offset())

	f, err = TransactionFilter{Page: 3, Limit: 25}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, OrderDesc, f.Order)
	assert.True(t, f.Descending())
	assert.Equal(t, 50, f.Offset())

	negative := decimal.NewFromInt(-1)
	invalid := []TransactionFilter{
		{Type: "gift"},
		{Status: "lost"},
		{MinAmount: &negative},
		{Page: -1},
		{Limit: -1},
		{Limit: MaxLimit + 1},
		{Order: "sideways"},
	}
	for _, in := range invalid {
		_, err := in.Normalize()
		assert.True(t, util.IsError(err, util.ErrInvalidInput), "filter %+v", in)
	}
}

func validGoalInput() GoalInput {
	return GoalInput{
		Title:        "Emergency fund",
		TargetAmount: decimal.NewFromInt(1000),
		Deadline:     "2030-01-01",
	}
}

func TestNewGoal_Defaults(t *testing.T) {
	g, err := NewGoal("u-1", validGoalInput())
	require.NoError(t, err)

	assert.Equal(t, GoalTypeSavings, g.Type)
	assert.Equal(t, GoalStatusActive, g.Status)
	assert.True(t, g.CurrentAmount.IsZero())
	assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), g.Deadline)
}

func TestNewGoal_Rejects(t *testing.T) {
	negative := decimal.NewFromInt(-1)
	tests := []struct {
		name   string
		mutate func(*GoalInput)
	}{
		{"zero target", func(in *GoalInput) { in.TargetAmount = decimal.Zero }},
		{"negative current", func(in *GoalInput) { in.CurrentAmount = &negative }},
		{"unknown type", func(in *GoalInput) { in.Type = "wishlist" }},
		{"unknown status", func(in *GoalInput) { in.Status = "archived" }},
		{"empty title", func(in *GoalInput) { in.Title = "" }},
		{"bad deadline", func(in *GoalInput) { in.Deadline = "soon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validGoalInput()
			tt.mutate(&in)
			_, err := NewGoal("u-1", in)
			assert.True(t, util.IsError(err, util.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestGoalApply_StatusIsWrittenVerbatim(t *testing.T) {
	g, err := NewGoal("u-1", validGoalInput())
	require.NoError(t, err)

	// Reaching the target through a plain edit does not complete the goal.
	current := decimal.NewFromInt(5000)
	require.NoError(t, g.Apply(GoalPatch{CurrentAmount: &current}))
	assert.Equal(t, GoalStatusActive, g.Status)

	paused := GoalStatusPaused
	require.NoError(t, g.Apply(GoalPatch{Status: &paused, Rules: []byte(`{"source":"salary"}`)}))
	assert.Equal(t, GoalStatusPaused, g.Status)
	assert.JSONEq(t, `{"source":"salary"}`, string(g.Rules))
}
