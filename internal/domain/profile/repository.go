package profile

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines profile persistence operations
type Repository interface {
	// GetByID retrieves a profile by its ID.
	// Returns ErrProfileNotFound if no row exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)

	// ListByOrg retrieves every profile belonging to an organization
	ListByOrg(ctx context.Context, orgID string) ([]*Profile, error)

	// AssignBranch sets the branch assignment for a profile.
	// Returns ErrProfileNotFound if no row exists.
	AssignBranch(ctx context.Context, id uuid.UUID, branchID int64) error
}
