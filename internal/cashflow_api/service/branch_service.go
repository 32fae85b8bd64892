package service

import (
	"context"
	"log/slog"

	"github.com/smecash/cashflow-ledger/internal/domain/org"
	"github.com/smecash/cashflow-ledger/internal/domain/profile"
)

// BranchServiceImpl implements the BranchService interface
type BranchServiceImpl struct {
	logger   *slog.Logger
	resolver ProfileResolver
	orgRepo  org.Repository
}

// NewBranchService creates a new branch service
func NewBranchService(logger *slog.Logger, resolver ProfileResolver, orgRepo org.Repository) BranchService {
	return &BranchServiceImpl{
		logger:   logger,
		resolver: resolver,
		orgRepo:  orgRepo,
	}
}

// List returns the caller's visible branches: the whole org for admins, the
// caller's own branch otherwise.
func (s *BranchServiceImpl) List(ctx context.Context, identity profile.Identity) ([]*org.Branch, error) {
	scope, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	if scope.IsAdmin() {
		return s.orgRepo.ListBranches(ctx, scope.OrgID)
	}

	branch, err := s.orgRepo.GetBranch(ctx, *scope.BranchID)
	if err != nil {
		return nil, err
	}
	return []*org.Branch{branch}, nil
}

// Create adds a branch to the caller's organization. Admin only.
func (s *BranchServiceImpl) Create(ctx context.Context, identity profile.Identity, name, address string) (*org.Branch, error) {
	scope, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !scope.IsAdmin() {
		return nil, profile.ErrAdminRequired{UserID: scope.UserID}
	}

	branch, err := org.NewBranch(name, address, scope.OrgID)
	if err != nil {
		return nil, err
	}
	if err := s.orgRepo.CreateBranch(ctx, branch); err != nil {
		return nil, err
	}

	s.logger.Info("Branch created", "branch_id", branch.ID, "org_id", scope.OrgID)
	return branch, nil
}
