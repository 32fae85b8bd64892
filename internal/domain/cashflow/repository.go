package cashflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListScope restricts list queries to one tenant dimension: admins list by
// organization, branch users by branch. Exactly one field is set.
type ListScope struct {
	OrgID    string
	BranchID *int64
}

// NewIncome is the insert payload for the income table
type NewIncome struct {
	BranchID   *int64
	UserID     uuid.UUID
	OrgID      string
	CreatedAt  time.Time
	Amount     decimal.Decimal
	IncomeType string
}

// NewExpense is the insert payload for the expense table
type NewExpense struct {
	BranchID        *int64
	UserID          uuid.UUID
	OrgID           string
	CreatedAt       time.Time
	Amount          decimal.Decimal
	ExpenseCategory string
	Description     *string
}

// IncomePatch is a partial update for an income row; nil fields are untouched
type IncomePatch struct {
	Amount     *decimal.Decimal
	CreatedAt  *time.Time
	IncomeType *string
}

// ExpensePatch is a partial update for an expense row; nil fields are untouched
type ExpensePatch struct {
	Amount          *decimal.Decimal
	CreatedAt       *time.Time
	ExpenseCategory *string
	Description     *string
}

// Repository defines persistence operations over the two transaction tables
type Repository interface {
	ListIncome(ctx context.Context, scope ListScope) ([]IncomeRow, error)
	ListExpense(ctx context.Context, scope ListScope) ([]ExpenseRow, error)

	// InsertIncome and InsertExpense return the echoed row, or nil when the
	// insert succeeded without echoing one.
	InsertIncome(ctx context.Context, in NewIncome) (*IncomeRow, error)
	InsertExpense(ctx context.Context, in NewExpense) (*ExpenseRow, error)

	// UpdateIncome and UpdateExpense return ErrRecordNotFound when no row
	// with the given id exists.
	UpdateIncome(ctx context.Context, id int64, patch IncomePatch) (*IncomeRow, error)
	UpdateExpense(ctx context.Context, id int64, patch ExpensePatch) (*ExpenseRow, error)

	DeleteIncome(ctx context.Context, id int64) error
	DeleteExpense(ctx context.Context, id int64) error

	// SetMirrorLink records the ledger mirror entry id on a row, or clears it
	// when entryID is nil.
	SetMirrorLink(ctx context.Context, table Table, id int64, entryID *string) error
}
