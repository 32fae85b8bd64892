package cashflow

import (
	"time"
)

// Accepted layouts for client-supplied dates, tried in order
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// ParseDateOrNow parses a client-supplied date string. A missing or
// unparseable value yields the current instant rather than an error; callers
// cannot distinguish "no date given" from "dated now", which is the intended
// tolerant default.
func ParseDateOrNow(raw string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

// normalizeRowDate applies the same tolerance to stored timestamps: a NULL
// or zero created_at maps to the current instant.
func normalizeRowDate(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// FromIncomeRow maps an income table row to the unified record shape.
// Income records never carry a description.
func FromIncomeRow(row IncomeRow) Record {
	return Record{
		ID:            UnifiedID(TableIncome, row.ID),
		SourceID:      row.ID,
		SourceTable:   TableIncome,
		Name:          row.IncomeType,
		Category:      TableIncome,
		Amount:        row.Amount,
		Date:          normalizeRowDate(row.CreatedAt),
		Description:   "",
		BranchID:      row.BranchID,
		OrgID:         row.OrgID,
		MirrorEntryID: deref(row.CashflowLinkID),
	}
}

// FromExpenseRow maps an expense table row to the unified record shape
func FromExpenseRow(row ExpenseRow) Record {
	return Record{
		ID:            UnifiedID(TableExpense, row.ID),
		SourceID:      row.ID,
		SourceTable:   TableExpense,
		Name:          row.ExpenseCategory,
		Category:      TableExpense,
		Amount:        row.Amount,
		Date:          normalizeRowDate(row.CreatedAt),
		Description:   deref(row.Description),
		BranchID:      row.BranchID,
		OrgID:         row.OrgID,
		MirrorEntryID: deref(row.CashflowLinkID),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
