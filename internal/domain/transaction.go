package domain

import (
	"math"
	"time"
)

// TransactionType enumerates supported movement directions.
type TransactionType string

const (
	TransactionIncome   TransactionType = "income"
	TransactionExpense  TransactionType = "expense"
	TransactionTransfer TransactionType = "transfer"
)

// ValidTransactionType reports whether t is a supported type.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionIncome, TransactionExpense, TransactionTransfer:
		return true
	}
	return false
}

// Transaction is a dated financial movement owned by exactly one user.
// Amounts are currency-unaware decimals; rounding happens at aggregation
// time, never at storage time.
type Transaction struct {
	ID          string
	UserID      string
	Type        TransactionType
	Amount      float64
	Category    string
	Description string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the invariants for a new transaction.
func (t *Transaction) Validate() error {
	if !ValidTransactionType(t.Type) {
		return NewValidationError("type must be income, expense or transfer")
	}
	if t.Amount <= 0 {
		return NewValidationError("amount must be greater than zero")
	}
	if t.Date.IsZero() {
		return NewValidationError("date is required")
	}
	if len(t.Description) > 500 {
		return NewValidationError("description must be at most 500 characters")
	}
	return nil
}

// TransactionPatch is a sparse update; nil fields are left untouched.
type TransactionPatch struct {
	Type        *TransactionType
	Amount      *float64
	Category    *string
	Description *string
	Date        *time.Time
}

// Empty reports whether the patch carries no effective fields.
func (p *TransactionPatch) Empty() bool {
	return p.Type == nil && p.Amount == nil && p.Category == nil && p.Description == nil && p.Date == nil
}

// Validate checks the populated fields of the patch.
func (p *TransactionPatch) Validate() error {
	if p.Empty() {
		return NewValidationError("update requires at least one field")
	}
	if p.Type != nil && !ValidTransactionType(*p.Type) {
		return NewValidationError("type must be income, expense or transfer")
	}
	if p.Amount != nil && *p.Amount <= 0 {
		return NewValidationError("amount must be greater than zero")
	}
	return nil
}

// MaxPageSize caps list pagination.
const MaxPageSize = 100

// TransactionFilter describes list queries over the ledger.
type TransactionFilter struct {
	Type     TransactionType
	Category string
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
	Sort     string
	Order    string
}

// Normalize clamps pagination and whitelists sort parameters.
func (f *TransactionFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	switch f.Sort {
	case "date", "amount", "created_at":
	default:
		f.Sort = "date"
	}
	switch f.Order {
	case "asc", "desc":
	default:
		f.Order = "desc"
	}
}

// Round2 rounds a monetary amount to two decimal places. Applied when
// aggregating, so stored precision is preserved.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
