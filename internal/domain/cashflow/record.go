package cashflow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Table identifies which physical table backs a record. The same values
// double as the record category, since each table holds exactly one category.
type Table string

const (
	TableIncome  Table = "income"
	TableExpense Table = "expense"
)

// Valid reports whether t names a known backing table
func (t Table) Valid() bool {
	return t == TableIncome || t == TableExpense
}

// Record is the unified view over the income and expense tables.
// ID is the composite "{table}-{sourceID}" key, stable and collision-free
// across the two tables. MirrorEntryID is the weak back-reference to the
// ledger mirror entry created for this record; empty when the row predates
// the link or its mirror write failed.
type Record struct {
	ID            string          `json:"id"`
	SourceID      int64           `json:"source_id"`
	SourceTable   Table           `json:"source_table"`
	Name          string          `json:"name"`
	Category      Table           `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description,omitempty"`
	BranchID      *int64          `json:"branch_id,omitempty"`
	OrgID         string          `json:"org_id"`
	MirrorEntryID string          `json:"-"`
}

// UnifiedID builds the composite record key for a table row
func UnifiedID(table Table, sourceID int64) string {
	return fmt.Sprintf("%s-%d", table, sourceID)
}

// SplitID decomposes a unified record key into its table and row id
func SplitID(id string) (Table, int64, error) {
	name, raw, ok := strings.Cut(id, "-")
	if !ok {
		return "", 0, fmt.Errorf("malformed record id %q", id)
	}
	table := Table(name)
	if !table.Valid() {
		return "", 0, fmt.Errorf("malformed record id %q: unknown table %q", id, name)
	}
	sourceID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed record id %q: %w", id, err)
	}
	return table, sourceID, nil
}

// ErrRecordNotFound indicates the unified id is absent from current state
type ErrRecordNotFound struct {
	ID string
}

func (e ErrRecordNotFound) Error() string {
	return "cashflow record not found: " + e.ID
}

// Is implements the errors.Is interface for ErrRecordNotFound
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	if t.ID == "" {
		return true
	}
	return e.ID == t.ID
}

// IncomeRow mirrors the income_transactions table
type IncomeRow struct {
	ID             int64
	BranchID       *int64
	UserID         uuid.UUID
	OrgID          string
	CreatedAt      *time.Time
	Amount         decimal.Decimal
	IncomeType     string
	CashflowLinkID *string
}

// ExpenseRow mirrors the expense_transactions table
type ExpenseRow struct {
	ID              int64
	BranchID        *int64
	UserID          uuid.UUID
	OrgID           string
	CreatedAt       *time.Time
	Amount          decimal.Decimal
	ExpenseCategory string
	Description     *string
	CashflowLinkID  *string
}
