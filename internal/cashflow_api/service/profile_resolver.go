package service

import (
	"context"
	"log/slog"

	"github.com/smecash/cashflow-ledger/internal/domain/profile"
)

// ProfileResolverImpl implements the ProfileResolver interface
type ProfileResolverImpl struct {
	profileRepo profile.Repository
	logger      *slog.Logger
}

// NewProfileResolver creates a new profile resolver
func NewProfileResolver(logger *slog.Logger, profileRepo profile.Repository) ProfileResolver {
	return &ProfileResolverImpl{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Resolve maps an authenticated identity to its tenant scope. Read-only;
// called at the start of every scoped operation.
func (r *ProfileResolverImpl) Resolve(ctx context.Context, identity profile.Identity) (*profile.Scope, error) {
	if identity.IsZero() {
		return nil, profile.ErrNotAuthenticated
	}

	p, err := r.profileRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	// Admins may operate without a branch; branch users may not.
	if !p.IsAdmin() && p.BranchID == nil {
		r.logger.Warn("Profile has no branch assignment", "user_id", identity.UserID.String())
		return nil, profile.ErrMissingBranchAssignment{UserID: identity.UserID}
	}

	var orgID string
	if p.OrgID != nil {
		orgID = *p.OrgID
	}

	return &profile.Scope{
		UserID:   p.ID,
		Role:     p.Role,
		OrgID:    orgID,
		BranchID: p.BranchID,
	}, nil
}
