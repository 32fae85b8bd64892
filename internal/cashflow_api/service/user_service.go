package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/smecash/cashflow-ledger/internal/domain/org"
	"github.com/smecash/cashflow-ledger/internal/domain/profile"
)

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	logger      *slog.Logger
	resolver    ProfileResolver
	profileRepo profile.Repository
	orgRepo     org.Repository
}

// NewUserService creates a new user service
func NewUserService(
	logger *slog.Logger,
	resolver ProfileResolver,
	profileRepo profile.Repository,
	orgRepo org.Repository,
) UserService {
	return &UserServiceImpl{
		logger:      logger,
		resolver:    resolver,
		profileRepo: profileRepo,
		orgRepo:     orgRepo,
	}
}

// List returns every profile of the caller's organization. Admin only.
func (s *UserServiceImpl) List(ctx context.Context, identity profile.Identity) ([]*profile.Profile, error) {
	scope, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !scope.IsAdmin() {
		return nil, profile.ErrAdminRequired{UserID: scope.UserID}
	}

	return s.profileRepo.ListByOrg(ctx, scope.OrgID)
}

// AssignBranch moves a profile of the caller's org onto a branch of the same
// org. Admin only; a branch from another org reads as not found.
func (s *UserServiceImpl) AssignBranch(ctx context.Context, identity profile.Identity, userID uuid.UUID, branchID int64) error {
	scope, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return err
	}
	if !scope.IsAdmin() {
		return profile.ErrAdminRequired{UserID: scope.UserID}
	}

	branch, err := s.orgRepo.GetBranch(ctx, branchID)
	if err != nil {
		return err
	}
	if branch.OrgID != scope.OrgID {
		return org.ErrBranchNotFound{BranchID: branchID}
	}

	target, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if target.OrgID == nil || *target.OrgID != scope.OrgID {
		return profile.ErrProfileNotFound{UserID: userID}
	}

	if err := s.profileRepo.AssignBranch(ctx, userID, branchID); err != nil {
		return err
	}

	s.logger.Info("Branch assigned", "user_id", userID.String(), "branch_id", branchID)
	return nil
}
