package handler

import (
	"time"

	"github.com/smecash/cashflow-ledger/internal/domain/cashflow"
	"github.com/smecash/cashflow-ledger/internal/domain/mirror"
	"github.com/smecash/cashflow-ledger/internal/domain/org"
	"github.com/smecash/cashflow-ledger/internal/domain/profile"
)

// AddRecordRequest represents a request to create a cashflow record.
// Amount travels as a string so no precision is lost in transit.
type AddRecordRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required,oneof=income expense"`
	Amount      string `json:"amount" binding:"required"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateRecordRequest represents a partial update; absent fields are untouched
type UpdateRecordRequest struct {
	Name        *string `json:"name,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	Date        *string `json:"date,omitempty"`
	Description *string `json:"description,omitempty"`
}

// RecordResponse represents a cashflow record in API responses
type RecordResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	BranchID    *int64 `json:"branch_id,omitempty"`
}

// FetchRecordsResponse represents the record list in API responses
type FetchRecordsResponse struct {
	Records   []RecordResponse `json:"records"`
	Role      string           `json:"role"`
	LastError string           `json:"last_error,omitempty"`
}

// MutationResponse represents the outcome of an add, update, or delete
type MutationResponse struct {
	Record *RecordResponse `json:"record,omitempty"`
	Mirror mirror.Outcome  `json:"mirror"`
}

// MeResponse represents the caller's profile and organization.
// Organization is absent when the profile has no org or the lookup failed.
type MeResponse struct {
	Profile      *profile.Profile  `json:"profile"`
	Organization *org.Organization `json:"organization,omitempty"`
}

// CreateBranchRequest represents a request to create a branch
type CreateBranchRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address,omitempty"`
}

// AssignBranchRequest represents a request to move a profile onto a branch
type AssignBranchRequest struct {
	UserID   string `json:"user_id" binding:"required,uuid"`
	BranchID int64  `json:"branch_id" binding:"required"`
}

// mapRecordToResponse maps a cashflow record to a response DTO
func mapRecordToResponse(rec cashflow.Record) RecordResponse {
	return RecordResponse{
		ID:          rec.ID,
		Name:        rec.Name,
		Category:    string(rec.Category),
		Amount:      rec.Amount.String(),
		Date:        rec.Date.Format(time.RFC3339),
		Description: rec.Description,
		BranchID:    rec.BranchID,
	}
}
