package org

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyBranchName indicates a branch create with no name
var ErrEmptyBranchName = errors.New("branch name cannot be empty")

// Organization is a tenant: one business owning branches and profiles
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Branch is a physical location within an organization. Income and expense
// records are owned by exactly one branch/org pair at creation.
type Branch struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	OrgID   string `json:"org_id"`
}

// NewBranch validates and builds a branch for insertion
func NewBranch(name, address, orgID string) (*Branch, error) {
	if name == "" {
		return nil, ErrEmptyBranchName
	}
	return &Branch{
		Name:    name,
		Address: address,
		OrgID:   orgID,
	}, nil
}

// ErrBranchNotFound indicates a missing branch
type ErrBranchNotFound struct {
	BranchID int64
}

func (e ErrBranchNotFound) Error() string {
	return "branch not found: " + strconv.FormatInt(e.BranchID, 10)
}

// Is implements the errors.Is interface for ErrBranchNotFound
func (e ErrBranchNotFound) Is(target error) bool {
	t, ok := target.(ErrBranchNotFound)
	if !ok {
		return false
	}
	if t.BranchID == 0 {
		return true
	}
	return e.BranchID == t.BranchID
}
