package org

import (
	"context"
)

// Repository defines organization and branch persistence operations
type Repository interface {
	// GetOrganization retrieves an organization by id
	GetOrganization(ctx context.Context, id string) (*Organization, error)

	// GetBranch retrieves a branch by id.
	// Returns ErrBranchNotFound if no row exists.
	GetBranch(ctx context.Context, id int64) (*Branch, error)

	// ListBranches retrieves every branch of an organization
	ListBranches(ctx context.Context, orgID string) ([]*Branch, error)

	// CreateBranch inserts a branch and fills in its assigned id
	CreateBranch(ctx context.Context, b *Branch) error
}
