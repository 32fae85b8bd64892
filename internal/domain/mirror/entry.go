// Package mirror defines the types and client contract for the external
// ledger mirror service, the append-only audit store transactions are
// dual-written to.
package mirror

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StatusRecorded is the blockchain status assigned to freshly mirrored entries
const StatusRecorded = "recorded"

// TenantKey builds the synthetic tenant key scoping mirror entries.
// The mirror has no native org/branch schema, so both are folded into one
// string; a missing branch contributes 0.
func TenantKey(orgID string, branchID *int64) string {
	var branch int64
	if branchID != nil {
		branch = *branchID
	}
	return fmt.Sprintf("%s-%d", orgID, branch)
}

// Entry is a transaction mirrored for audit purposes. It carries no foreign
// key back to the primary record; the primary side stores this entry's ID as
// a weak back-reference instead.
type Entry struct {
	ID               string          `json:"id"`
	SmeID            string          `json:"smeId"`
	Type             string          `json:"type"` // income or expense
	Amount           decimal.Decimal `json:"amount"`
	Category         string          `json:"category"`
	Description      string          `json:"description,omitempty"`
	Date             time.Time       `json:"date"`
	CreatedAt        time.Time       `json:"createdAt"`
	BlockchainStatus string          `json:"blockchainStatus"`
}

// NewEntry is the create payload for the mirror service
type NewEntry struct {
	SmeID       string          `json:"smeId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
}

// Summary aggregates the mirrored transactions of one tenant
type Summary struct {
	SmeID            string          `json:"smeId"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	NetCashflow      decimal.Decimal `json:"netCashflow"`
	TransactionCount int64           `json:"transactionCount"`
}

// SyncStatus classifies the outcome of one best-effort mirror write
type SyncStatus string

const (
	SyncOK      SyncStatus = "ok"
	SyncFailed  SyncStatus = "failed"
	SyncSkipped SyncStatus = "skipped"
)

// Outcome records what happened to the mirror during a primary-store
// mutation. Mirror failures never abort the primary operation; the outcome
// is how callers and tests observe drift.
type Outcome struct {
	Status  SyncStatus `json:"status"`
	EntryID string     `json:"entry_id,omitempty"`
	Reason  string     `json:"reason,omitempty"`
}
