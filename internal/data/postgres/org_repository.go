package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/smecash/cashflow-ledger/internal/domain/org"
	"github.com/smecash/cashflow-ledger/internal/platform/persistence"
)

// OrgRepository implements the org.Repository interface for PostgreSQL
type OrgRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewOrgRepository creates a new PostgreSQL organization/branch repository
func NewOrgRepository(logger *slog.Logger, db *persistence.PostgresDB) org.Repository {
	return &OrgRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetOrganization retrieves an organization by id
func (r *OrgRepository) GetOrganization(ctx context.Context, id string) (*org.Organization, error) {
	query := `
		SELECT id, name, created_by, created_at
		FROM organizations
		WHERE id = $1
	`

	var o org.Organization
	err := r.querier.QueryRow(ctx, query, id).Scan(&o.ID, &o.Name, &o.CreatedBy, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("organization not found: %s", id)
		}
		r.logger.Error("Failed to get organization", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &o, nil
}

// GetBranch retrieves a branch by id
func (r *OrgRepository) GetBranch(ctx context.Context, id int64) (*org.Branch, error) {
	query := `
		SELECT id, name, address, org_id
		FROM branches
		WHERE id = $1
	`

	var b org.Branch
	err := r.querier.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.Address, &b.OrgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, org.ErrBranchNotFound{BranchID: id}
		}
		r.logger.Error("Failed to get branch", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}

	return &b, nil
}

// ListBranches retrieves every branch of an organization
func (r *OrgRepository) ListBranches(ctx context.Context, orgID string) ([]*org.Branch, error) {
	query := `
		SELECT id, name, address, org_id
		FROM branches
		WHERE org_id = $1
		ORDER BY id
	`

	rows, err := r.querier.Query(ctx, query, orgID)
	if err != nil {
		r.logger.Error("Failed to list branches", "org_id", orgID, "error", err)
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	var branches []*org.Branch
	for rows.Next() {
		var b org.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.OrgID); err != nil {
			return nil, fmt.Errorf("failed to scan branch row: %w", err)
		}
		branches = append(branches, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read branch rows: %w", err)
	}

	return branches, nil
}

// CreateBranch inserts a branch and fills in its assigned id
func (r *OrgRepository) CreateBranch(ctx context.Context, b *org.Branch) error {
	query := `
		INSERT INTO branches (name, address, org_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query, b.Name, b.Address, b.OrgID).Scan(&b.ID)
	if err != nil {
		r.logger.Error("Failed to create branch", "name", b.Name, "org_id", b.OrgID, "error", err)
		return fmt.Errorf("failed to create branch: %w", err)
	}

	return nil
}
