// Package postgres provides PostgreSQL implementations of the domain
// repositories. It handles all primary-store operations for profiles,
// organizations, branches, and the two cashflow transaction tables.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/smecash/cashflow-ledger/internal/domain/profile"
	"github.com/smecash/cashflow-ledger/internal/platform/persistence"
)

// ProfileRepository implements the profile.Repository interface for PostgreSQL
type ProfileRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(logger *slog.Logger, db *persistence.PostgresDB) profile.Repository {
	return &ProfileRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetByID retrieves a profile by its ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	query := `
		SELECT id, full_name, email, role, org_id, branch_id, created_at
		FROM profiles
		WHERE id = $1
	`

	var p profile.Profile
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&p.Role,
		&p.OrgID,
		&p.BranchID,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound{UserID: id}
		}
		r.logger.Error("Failed to get profile", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

// ListByOrg retrieves every profile belonging to an organization
func (r *ProfileRepository) ListByOrg(ctx context.Context, orgID string) ([]*profile.Profile, error) {
	query := `
		SELECT id, full_name, email, role, org_id, branch_id, created_at
		FROM profiles
		WHERE org_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.querier.Query(ctx, query, orgID)
	if err != nil {
		r.logger.Error("Failed to list profiles", "org_id", orgID, "error", err)
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*profile.Profile
	for rows.Next() {
		var p profile.Profile
		if err := rows.Scan(&p.ID, &p.FullName, &p.Email, &p.Role, &p.OrgID, &p.BranchID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read profile rows: %w", err)
	}

	return profiles, nil
}

// AssignBranch sets the branch assignment for a profile
func (r *ProfileRepository) AssignBranch(ctx context.Context, id uuid.UUID, branchID int64) error {
	query := `
		UPDATE profiles
		SET branch_id = $1
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, branchID, id)
	if err != nil {
		r.logger.Error("Failed to assign branch", "id", id.String(), "branch_id", branchID, "error", err)
		return fmt.Errorf("failed to assign branch: %w", err)
	}

	if result.RowsAffected() == 0 {
		return profile.ErrProfileNotFound{UserID: id}
	}

	return nil
}
