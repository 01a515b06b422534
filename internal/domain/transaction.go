// internal/domain/transaction.go
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal" // For precise monetary calculations

	"finflow-tracker/internal/util"
)

// TransactionType defines the type of a financial transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// TransactionStatus defines the status of a financial transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Valid reports whether s is a known transaction status.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusCancelled:
		return true
	}
	return false
}

// Transaction represents an income or expense record owned by a single user.
type Transaction struct {
	ID                 string            `db:"id" json:"id"`
	Title              string            `db:"title" json:"title"`
	Description        *string           `db:"description" json:"description,omitempty"`
	Amount             decimal.Decimal   `db:"amount" json:"amount"` // NUMERIC(15, 2), always > 0
	Type               TransactionType   `db:"type" json:"type"`
	Status             TransactionStatus `db:"status" json:"status"`
	Date               time.Time         `db:"date" json:"date"` // calendar date, UTC midnight
	Attachment         *string           `db:"attachment" json:"attachment,omitempty"`
	Tags               Tags              `db:"tags" json:"tags"`
	IsRecurring        bool              `db:"is_recurring" json:"isRecurring"`
	RecurringFrequency *string           `db:"recurring_frequency" json:"recurringFrequency,omitempty"`
	CategoryID         string            `db:"category_id" json:"categoryId"`
	UserID             string            `db:"user_id" json:"userId"`
	CreatedAt          time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time         `db:"updated_at" json:"updatedAt"`
}

// TransactionInput carries the caller-supplied fields of a new transaction.
type TransactionInput struct {
	Title              string            `json:"title"`
	Description        *string           `json:"description,omitempty"`
	Amount             decimal.Decimal   `json:"amount"`
	Type               TransactionType   `json:"type"`
	Status             TransactionStatus `json:"status,omitempty"`
	Date               string            `json:"date"`
	Attachment         *string           `json:"attachment,omitempty"`
	Tags               []string          `json:"tags,omitempty"`
	IsRecurring        bool              `json:"isRecurring"`
	RecurringFrequency *string           `json:"recurringFrequency,omitempty"`
	CategoryID         string            `json:"categoryId"`
}

// NewTransaction validates in and builds a Transaction owned by userID.
func NewTransaction(userID string, in TransactionInput) (*Transaction, error) {
	date, err := ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = TransactionStatusCompleted
	}

	now := time.Now().UTC()
	t := &Transaction{
		ID:                 uuid.NewString(),
		Title:              strings.TrimSpace(in.Title),
		Description:        trimmed(in.Description),
		Amount:             in.Amount,
		Type:               in.Type,
		Status:             status,
		Date:               date,
		Attachment:         in.Attachment,
		Tags:               Tags(in.Tags),
		IsRecurring:        in.IsRecurring,
		RecurringFrequency: in.RecurringFrequency,
		CategoryID:         in.CategoryID,
		UserID:             userID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if t.Tags == nil {
		t.Tags = Tags{}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the record invariants.
func (t *Transaction) Validate() error {
	if t.Title == "" {
		return util.Invalid("title must not be empty")
	}
	if err := RequirePositive("amount", t.Amount); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return util.Invalid("type must be %q or %q", TransactionTypeIncome, TransactionTypeExpense)
	}
	if !t.Status.Valid() {
		return util.Invalid("status must be pending, completed or cancelled")
	}
	if t.CategoryID == "" {
		return util.Invalid("categoryId is required")
	}
	if t.UserID == "" {
		return util.Invalid("userId is required")
	}
	return nil
}

// TransactionPatch is a partial update. Nil fields are left untouched; the owner cannot change.
type TransactionPatch struct {
	Title              *string            `json:"title,omitempty"`
	Description        *string            `json:"description,omitempty"`
	Amount             *decimal.Decimal   `json:"amount,omitempty"`
	Type               *TransactionType   `json:"type,omitempty"`
	Status             *TransactionStatus `json:"status,omitempty"`
	Date               *string            `json:"date,omitempty"`
	Attachment         *string            `json:"attachment,omitempty"`
	Tags               []string           `json:"tags,omitempty"`
	IsRecurring        *bool              `json:"isRecurring,omitempty"`
	RecurringFrequency *string            `json:"recurringFrequency,omitempty"`
	CategoryID         *string            `json:"categoryId,omitempty"`
}

// Apply copies the set fields of p onto t and re-validates the result.
func (t *Transaction) Apply(p TransactionPatch) error {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = trimmed(p.Description)
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Date != nil {
		date, err := ParseDate(*p.Date)
		if err != nil {
			return err
		}
		t.Date = date
	}
	if p.Attachment != nil {
		t.Attachment = p.Attachment
	}
	// An absent list decodes to nil; an explicit [] clears the tags.
	if p.Tags != nil {
		t.Tags = Tags(p.Tags)
	}
	if p.IsRecurring != nil {
		t.IsRecurring = *p.IsRecurring
	}
	if p.RecurringFrequency != nil {
		t.RecurringFrequency = p.RecurringFrequency
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	t.UpdatedAt = time.Now().UTC()
	return t.Validate()
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
