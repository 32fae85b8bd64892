package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smecash/cashflow-ledger/internal/domain/cashflow"
	"github.com/smecash/cashflow-ledger/internal/domain/mirror"
	"github.com/smecash/cashflow-ledger/internal/domain/org"
	"github.com/smecash/cashflow-ledger/internal/domain/profile"
)

// ProfileResolver resolves an authenticated identity to its tenant scope
type ProfileResolver interface {
	// Resolve returns the caller's scope.
	// Fails with profile.ErrNotAuthenticated when no identity is present,
	// profile.ErrProfileNotFound when no profile row exists, and
	// profile.ErrMissingBranchAssignment when a user-role profile has no
	// branch.
	Resolve(ctx context.Context, identity profile.Identity) (*profile.Scope, error)
}

// FetchResult is the outcome of a successful Fetch
type FetchResult struct {
	Records []cashflow.Record
	Role    profile.Role
}

// AddInput describes a record to create
type AddInput struct {
	Name        string
	Category    cashflow.Table
	Amount      decimal.Decimal
	Date        string
	Description string
}

// UpdateInput is a partial update; nil fields are untouched. Description is
// silently dropped when the target is an income-table record.
type UpdateInput struct {
	Name        *string
	Amount      *decimal.Decimal
	Date        *string
	Description *string
}

// AddResult is the outcome of Add. Record is nil when the insert succeeded
// without echoing a row. Mirror reports what happened to the audit mirror.
type AddResult struct {
	Record *cashflow.Record
	Mirror mirror.Outcome
}

// UpdateResult is the outcome of Update
type UpdateResult struct {
	Record *cashflow.Record
	Mirror mirror.Outcome
}

// DeleteResult is the outcome of Delete
type DeleteResult struct {
	Mirror mirror.Outcome
}

// CashflowStore orchestrates role-scoped reads and dual-written mutations of
// the income and expense tables. Primary-store failures abort and propagate;
// mirror failures are contained in the returned outcome.
type CashflowStore interface {
	Fetch(ctx context.Context, identity profile.Identity) (*FetchResult, error)
	Add(ctx context.Context, identity profile.Identity, input AddInput) (*AddResult, error)
	Update(ctx context.Context, identity profile.Identity, id string, input UpdateInput) (*UpdateResult, error)
	Delete(ctx context.Context, identity profile.Identity, id string) (*DeleteResult, error)

	// EndSession tears down the caller's in-memory session state at logout
	EndSession(identity profile.Identity)

	// LastError returns the caller's last observed primary-store error, for
	// passive UI consumption.
	LastError(identity profile.Identity) string
}

// MonthSummary aggregates one calendar month of records
type MonthSummary struct {
	Month        string          `json:"month"` // YYYY-MM
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
	Count        int             `json:"count"`
}

// DashboardSummary aggregates the session's fetched records
type DashboardSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
	Count        int             `json:"count"`
	Months       []MonthSummary  `json:"months"`
}

// DashboardService computes read-only aggregations over already-fetched
// records; it never touches storage.
type DashboardService interface {
	// Summarize aggregates the caller's session records, optionally
	// restricted to one "YYYY-MM" month.
	Summarize(ctx context.Context, identity profile.Identity, month string) (*DashboardSummary, error)
}

// AuditService reads the ledger mirror for the caller's tenant
type AuditService interface {
	Entries(ctx context.Context, identity profile.Identity) ([]mirror.Entry, error)
	Summary(ctx context.Context, identity profile.Identity) (*mirror.Summary, error)
}

// BranchService manages organizational structure
type BranchService interface {
	// List returns the branches visible to the caller: all branches of the
	// org for admins, the caller's own branch otherwise.
	List(ctx context.Context, identity profile.Identity) ([]*org.Branch, error)

	// Create adds a branch to the caller's org. Admin only.
	Create(ctx context.Context, identity profile.Identity, name, address string) (*org.Branch, error)
}

// UserService manages profiles within an organization. Admin only.
type UserService interface {
	List(ctx context.Context, identity profile.Identity) ([]*profile.Profile, error)
	AssignBranch(ctx context.Context, identity profile.Identity, userID uuid.UUID, branchID int64) error
}
