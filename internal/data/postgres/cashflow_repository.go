package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/smecash/cashflow-ledger/internal/domain/cashflow"
	"github.com/smecash/cashflow-ledger/internal/platform/persistence"
)

const (
	incomeColumns  = "id, branch_id, user_id, org_id, created_at, amount, income_type, cashflow_link_id"
	expenseColumns = "id, branch_id, user_id, org_id, created_at, amount, expense_category, description, cashflow_link_id"
)

// CashflowRepository implements the cashflow.Repository interface for
// PostgreSQL, operating on the income_transactions and expense_transactions
// tables.
type CashflowRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewCashflowRepository creates a new PostgreSQL cashflow repository
func NewCashflowRepository(logger *slog.Logger, db *persistence.PostgresDB) cashflow.Repository {
	return &CashflowRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// scopeFilter renders the tenant filter: admins list by organization,
// branch users by branch.
func scopeFilter(scope cashflow.ListScope) (string, interface{}) {
	if scope.BranchID != nil {
		return "branch_id = $1", *scope.BranchID
	}
	return "org_id = $1", scope.OrgID
}

// ListIncome retrieves the income rows visible within the given scope
func (r *CashflowRepository) ListIncome(ctx context.Context, scope cashflow.ListScope) ([]cashflow.IncomeRow, error) {
	filter, arg := scopeFilter(scope)
	query := fmt.Sprintf(`
		SELECT %s
		FROM income_transactions
		WHERE %s
		ORDER BY created_at DESC
	`, incomeColumns, filter)

	rows, err := r.querier.Query(ctx, query, arg)
	if err != nil {
		r.logger.Error("Failed to list income transactions", "error", err)
		return nil, fmt.Errorf("failed to list income transactions: %w", err)
	}
	defer rows.Close()

	var result []cashflow.IncomeRow
	for rows.Next() {
		var row cashflow.IncomeRow
		if err := rows.Scan(&row.ID, &row.BranchID, &row.UserID, &row.OrgID, &row.CreatedAt, &row.Amount, &row.IncomeType, &row.CashflowLinkID); err != nil {
			return nil, fmt.Errorf("failed to scan income row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read income rows: %w", err)
	}

	return result, nil
}

// ListExpense retrieves the expense rows visible within the given scope
func (r *CashflowRepository) ListExpense(ctx context.Context, scope cashflow.ListScope) ([]cashflow.ExpenseRow, error) {
	filter, arg := scopeFilter(scope)
	query := fmt.Sprintf(`
		SELECT %s
		FROM expense_transactions
		WHERE %s
		ORDER BY created_at DESC
	`, expenseColumns, filter)

	rows, err := r.querier.Query(ctx, query, arg)
	if err != nil {
		r.logger.Error("Failed to list expense transactions", "error", err)
		return nil, fmt.Errorf("failed to list expense transactions: %w", err)
	}
	defer rows.Close()

	var result []cashflow.ExpenseRow
	for rows.Next() {
		var row cashflow.ExpenseRow
		if err := rows.Scan(&row.ID, &row.BranchID, &row.UserID, &row.OrgID, &row.CreatedAt, &row.Amount, &row.ExpenseCategory, &row.Description, &row.CashflowLinkID); err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expense rows: %w", err)
	}

	return result, nil
}

// InsertIncome stores a new income transaction and returns the echoed row
func (r *CashflowRepository) InsertIncome(ctx context.Context, in cashflow.NewIncome) (*cashflow.IncomeRow, error) {
	query := fmt.Sprintf(`
		INSERT INTO income_transactions (branch_id, user_id, org_id, created_at, amount, income_type, cashflow_link_id)
		VALUES ($1, $2, $3, $4, $5, $6, NULL)
		RETURNING %s
	`, incomeColumns)

	var row cashflow.IncomeRow
	err := r.querier.QueryRow(ctx, query,
		in.BranchID,
		in.UserID,
		in.OrgID,
		in.CreatedAt,
		in.Amount,
		in.IncomeType,
	).Scan(&row.ID, &row.BranchID, &row.UserID, &row.OrgID, &row.CreatedAt, &row.Amount, &row.IncomeType, &row.CashflowLinkID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Insert committed but echoed no row; callers treat this as
			// success without a confirmable record.
			return nil, nil
		}
		r.logger.Error("Failed to insert income transaction", "error", err)
		return nil, fmt.Errorf("failed to insert income transaction: %w", err)
	}

	return &row, nil
}

// InsertExpense stores a new expense transaction and returns the echoed row
func (r *CashflowRepository) InsertExpense(ctx context.Context, in cashflow.NewExpense) (*cashflow.ExpenseRow, error) {
	query := fmt.Sprintf(`
		INSERT INTO expense_transactions (branch_id, user_id, org_id, created_at, amount, expense_category, description, cashflow_link_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULL)
		RETURNING %s
	`, expenseColumns)

	var row cashflow.ExpenseRow
	err := r.querier.QueryRow(ctx, query,
		in.BranchID,
		in.UserID,
		in.OrgID,
		in.CreatedAt,
		in.Amount,
		in.ExpenseCategory,
		in.Description,
	).Scan(&row.ID, &row.BranchID, &row.UserID, &row.OrgID, &row.CreatedAt, &row.Amount, &row.ExpenseCategory, &row.Description, &row.CashflowLinkID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to insert expense transaction", "error", err)
		return nil, fmt.Errorf("failed to insert expense transaction: %w", err)
	}

	return &row, nil
}

// UpdateIncome applies a partial update to an income row; nil patch fields
// leave the stored value untouched.
func (r *CashflowRepository) UpdateIncome(ctx context.Context, id int64, patch cashflow.IncomePatch) (*cashflow.IncomeRow, error) {
	query := fmt.Sprintf(`
		UPDATE income_transactions
		SET amount = COALESCE($1, amount),
		    created_at = COALESCE($2, created_at),
		    income_type = COALESCE($3, income_type)
		WHERE id = $4
		RETURNING %s
	`, incomeColumns)

	var row cashflow.IncomeRow
	err := r.querier.QueryRow(ctx, query,
		patch.Amount,
		patch.CreatedAt,
		patch.IncomeType,
		id,
	).Scan(&row.ID, &row.BranchID, &row.UserID, &row.OrgID, &row.CreatedAt, &row.Amount, &row.IncomeType, &row.CashflowLinkID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cashflow.ErrRecordNotFound{ID: cashflow.UnifiedID(cashflow.TableIncome, id)}
		}
		r.logger.Error("Failed to update income transaction", "id", id, "error", err)
		return nil, fmt.Errorf("failed to update income transaction: %w", err)
	}

	return &row, nil
}

// UpdateExpense applies a partial update to an expense row
func (r *CashflowRepository) UpdateExpense(ctx context.Context, id int64, patch cashflow.ExpensePatch) (*cashflow.ExpenseRow, error) {
	query := fmt.Sprintf(`
		UPDATE expense_transactions
		SET amount = COALESCE($1, amount),
		    created_at = COALESCE($2, created_at),
		    expense_category = COALESCE($3, expense_category),
		    description = COALESCE($4, description)
		WHERE id = $5
		RETURNING %s
	`, expenseColumns)

	var row cashflow.ExpenseRow
	err := r.querier.QueryRow(ctx, query,
		patch.Amount,
		patch.CreatedAt,
		patch.ExpenseCategory,
		patch.Description,
		id,
	).Scan(&row.ID, &row.BranchID, &row.UserID, &row.OrgID, &row.CreatedAt, &row.Amount, &row.ExpenseCategory, &row.Description, &row.CashflowLinkID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cashflow.ErrRecordNotFound{ID: cashflow.UnifiedID(cashflow.TableExpense, id)}
		}
		r.logger.Error("Failed to update expense transaction", "id", id, "error", err)
		return nil, fmt.Errorf("failed to update expense transaction: %w", err)
	}

	return &row, nil
}

// DeleteIncome removes an income row by id
func (r *CashflowRepository) DeleteIncome(ctx context.Context, id int64) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM income_transactions WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete income transaction", "id", id, "error", err)
		return fmt.Errorf("failed to delete income transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return cashflow.ErrRecordNotFound{ID: cashflow.UnifiedID(cashflow.TableIncome, id)}
	}
	return nil
}

// DeleteExpense removes an expense row by id
func (r *CashflowRepository) DeleteExpense(ctx context.Context, id int64) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM expense_transactions WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete expense transaction", "id", id, "error", err)
		return fmt.Errorf("failed to delete expense transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return cashflow.ErrRecordNotFound{ID: cashflow.UnifiedID(cashflow.TableExpense, id)}
	}
	return nil
}

// SetMirrorLink records the ledger mirror entry id on a transaction row
func (r *CashflowRepository) SetMirrorLink(ctx context.Context, table cashflow.Table, id int64, entryID *string) error {
	var query string
	switch table {
	case cashflow.TableIncome:
		query = `UPDATE income_transactions SET cashflow_link_id = $1 WHERE id = $2`
	case cashflow.TableExpense:
		query = `UPDATE expense_transactions SET cashflow_link_id = $1 WHERE id = $2`
	default:
		return fmt.Errorf("unknown table %q", table)
	}

	result, err := r.querier.Exec(ctx, query, entryID, id)
	if err != nil {
		r.logger.Error("Failed to set mirror link", "table", table, "id", id, "error", err)
		return fmt.Errorf("failed to set mirror link: %w", err)
	}
	if result.RowsAffected() == 0 {
		return cashflow.ErrRecordNotFound{ID: cashflow.UnifiedID(table, id)}
	}
	return nil
}
