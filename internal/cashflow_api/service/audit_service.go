package service

import (
	"context"
	"log/slog"

	"github.com/smecash/cashflow-ledger/internal/domain/mirror"
	"github.com/smecash/cashflow-ledger/internal/domain/profile"
)

// AuditServiceImpl implements the AuditService interface. Reads go straight
// to the mirror service scoped by the caller's tenant key; unlike mutations,
// a mirror failure here is propagated since there is nothing else to return.
type AuditServiceImpl struct {
	logger   *slog.Logger
	resolver ProfileResolver
	mirror   mirror.Client
}

// NewAuditService creates a new audit service
func NewAuditService(logger *slog.Logger, resolver ProfileResolver, mirrorClient mirror.Client) AuditService {
	return &AuditServiceImpl{
		logger:   logger,
		resolver: resolver,
		mirror:   mirrorClient,
	}
}

// Entries returns the caller's tenant's mirror entries, newest first
func (s *AuditServiceImpl) Entries(ctx context.Context, identity profile.Identity) ([]mirror.Entry, error) {
	scope, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.mirror.ListBySme(ctx, mirror.TenantKey(scope.OrgID, scope.BranchID))
}

// Summary returns the caller's tenant's aggregate mirror totals
func (s *AuditServiceImpl) Summary(ctx context.Context, identity profile.Identity) (*mirror.Summary, error) {
	scope, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.mirror.Summary(ctx, mirror.TenantKey(scope.OrgID, scope.BranchID))
}
