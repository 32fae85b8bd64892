package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/smecash/cashflow-ledger/internal/domain/cashflow"
	"github.com/smecash/cashflow-ledger/internal/domain/mirror"
	"github.com/smecash/cashflow-ledger/internal/domain/profile"
)

// CashflowStoreImpl implements the CashflowStore interface. It is the
// orchestration point between the primary relational store and the ledger
// mirror: primary writes commit first, the mirror is updated best-effort
// afterwards, and the two are allowed to diverge when the mirror is down.
type CashflowStoreImpl struct {
	logger   *slog.Logger
	resolver ProfileResolver
	repo     cashflow.Repository
	mirror   mirror.Client
	sessions *SessionRegistry
}

// NewCashflowStore creates a new cashflow store
func NewCashflowStore(
	logger *slog.Logger,
	resolver ProfileResolver,
	repo cashflow.Repository,
	mirrorClient mirror.Client,
	sessions *SessionRegistry,
) CashflowStore {
	return &CashflowStoreImpl{
		logger:   logger,
		resolver: resolver,
		repo:     repo,
		mirror:   mirrorClient,
		sessions: sessions,
	}
}

// listScopeFor derives the tenant filter from a resolved scope: admins see
// their whole organization, branch users only their branch.
func listScopeFor(scope *profile.Scope) cashflow.ListScope {
	if scope.IsAdmin() {
		return cashflow.ListScope{OrgID: scope.OrgID}
	}
	return cashflow.ListScope{BranchID: scope.BranchID}
}

// sortRecords orders merged records by date descending; the unified id
// breaks ties so the order is deterministic.
func sortRecords(records []cashflow.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.After(records[j].Date)
		}
		return records[i].ID < records[j].ID
	})
}

// Fetch loads the caller's visible records from both transaction tables.
// The two queries run concurrently; if either fails the whole fetch fails
// and no partial results are kept.
func (s *CashflowStoreImpl) Fetch(ctx context.Context, identity profile.Identity) (*FetchResult, error) {
	scope, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	sess := s.sessions.Get(scope.UserID)

	listScope := listScopeFor(scope)

	var incomeRows []cashflow.IncomeRow
	var expenseRows []cashflow.ExpenseRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.repo.ListIncome(gctx, listScope)
		if err != nil {
			return err
		}
		incomeRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.repo.ListExpense(gctx, listScope)
		if err != nil {
			return err
		}
		expenseRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		sess.Reset(err.Error())
		return nil, fmt.Errorf("failed to fetch cashflow records: %w", err)
	}

	records := make([]cashflow.Record, 0, len(incomeRows)+len(expenseRows))
	for _, row := range incomeRows {
		records = append(records, cashflow.FromIncomeRow(row))
	}
	for _, row := range expenseRows {
		records = append(records, cashflow.FromExpenseRow(row))
	}
	sortRecords(records)

	sess.SetRecords(records, scope.Role)

	return &FetchResult{Records: records, Role: scope.Role}, nil
}

// Add inserts a record into the category-appropriate table and mirrors it
// best-effort. A mirror failure never fails the add and never rolls back the
// committed insert.
func (s *CashflowStoreImpl) Add(ctx context.Context, identity profile.Identity, input AddInput) (*AddResult, error) {
	scope, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	sess := s.sessions.Get(scope.UserID)

	if !input.Category.Valid() {
		return nil, fmt.Errorf("unknown cashflow category %q", input.Category)
	}

	createdAt := cashflow.ParseDateOrNow(input.Date)

	var rec *cashflow.Record
	switch input.Category {
	case cashflow.TableIncome:
		row, err := s.repo.InsertIncome(ctx, cashflow.NewIncome{
			BranchID:   scope.BranchID,
			UserID:     scope.UserID,
			OrgID:      scope.OrgID,
			CreatedAt:  createdAt,
			Amount:     input.Amount,
			IncomeType: input.Name,
		})
		if err != nil {
			sess.SetError(err.Error())
			return nil, err
		}
		if row != nil {
			mapped := cashflow.FromIncomeRow(*row)
			rec = &mapped
		}
	case cashflow.TableExpense:
		var desc *string
		if input.Description != "" {
			desc = &input.Description
		}
		row, err := s.repo.InsertExpense(ctx, cashflow.NewExpense{
			BranchID:        scope.BranchID,
			UserID:          scope.UserID,
			OrgID:           scope.OrgID,
			CreatedAt:       createdAt,
			Amount:          input.Amount,
			ExpenseCategory: input.Name,
			Description:     desc,
		})
		if err != nil {
			sess.SetError(err.Error())
			return nil, err
		}
		if row != nil {
			mapped := cashflow.FromExpenseRow(*row)
			rec = &mapped
		}
	}

	if rec == nil {
		// Insert committed without echoing a row; nothing confirmable to
		// mirror or keep in session state.
		s.logger.Warn("Insert echoed no row; skipping mirror write", "category", input.Category)
		return &AddResult{Mirror: mirror.Outcome{Status: mirror.SyncSkipped, Reason: "insert echoed no row"}}, nil
	}

	outcome := s.mirrorCreate(ctx, rec)
	sess.Prepend(*rec)

	return &AddResult{Record: rec, Mirror: outcome}, nil
}

// Update mutates a record located in the caller's session state. The lookup
// deliberately does not re-fetch from the backing store: an id that is not
// in session state fails with ErrRecordNotFound without any store call.
func (s *CashflowStoreImpl) Update(ctx context.Context, identity profile.Identity, id string, input UpdateInput) (*UpdateResult, error) {
	scope, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	sess := s.sessions.Get(scope.UserID)

	prev, ok := sess.Find(id)
	if !ok {
		return nil, cashflow.ErrRecordNotFound{ID: id}
	}

	var rec cashflow.Record
	switch prev.SourceTable {
	case cashflow.TableIncome:
		if input.Description != nil {
			// The income table has no description column; the field is
			// stripped rather than rejected.
			s.logger.Debug("Dropping description from income update", "record_id", id)
		}
		patch := cashflow.IncomePatch{
			Amount:     input.Amount,
			IncomeType: input.Name,
		}
		if input.Date != nil {
			t := cashflow.ParseDateOrNow(*input.Date)
			patch.CreatedAt = &t
		}
		row, err := s.repo.UpdateIncome(ctx, prev.SourceID, patch)
		if err != nil {
			sess.SetError(err.Error())
			return nil, err
		}
		rec = cashflow.FromIncomeRow(*row)
	case cashflow.TableExpense:
		patch := cashflow.ExpensePatch{
			Amount:          input.Amount,
			ExpenseCategory: input.Name,
			Description:     input.Description,
		}
		if input.Date != nil {
			t := cashflow.ParseDateOrNow(*input.Date)
			patch.CreatedAt = &t
		}
		row, err := s.repo.UpdateExpense(ctx, prev.SourceID, patch)
		if err != nil {
			sess.SetError(err.Error())
			return nil, err
		}
		rec = cashflow.FromExpenseRow(*row)
	}

	outcome := s.mirrorReplace(ctx, prev, &rec)
	sess.Replace(rec)

	return &UpdateResult{Record: &rec, Mirror: outcome}, nil
}

// Delete removes a record located in the caller's session state, then
// best-effort removes its mirror entry.
func (s *CashflowStoreImpl) Delete(ctx context.Context, identity profile.Identity, id string) (*DeleteResult, error) {
	scope, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	sess := s.sessions.Get(scope.UserID)

	prev, ok := sess.Find(id)
	if !ok {
		return nil, cashflow.ErrRecordNotFound{ID: id}
	}

	switch prev.SourceTable {
	case cashflow.TableIncome:
		err = s.repo.DeleteIncome(ctx, prev.SourceID)
	case cashflow.TableExpense:
		err = s.repo.DeleteExpense(ctx, prev.SourceID)
	}
	if err != nil {
		sess.SetError(err.Error())
		return nil, err
	}

	outcome := s.mirrorRemove(ctx, prev)
	sess.Remove(id)

	return &DeleteResult{Mirror: outcome}, nil
}

// EndSession tears down the caller's session state at logout
func (s *CashflowStoreImpl) EndSession(identity profile.Identity) {
	if identity.IsZero() {
		return
	}
	s.sessions.End(identity.UserID)
}

// LastError returns the caller's last observed primary-store error
func (s *CashflowStoreImpl) LastError(identity profile.Identity) string {
	if identity.IsZero() {
		return ""
	}
	sess, ok := s.sessions.Peek(identity.UserID)
	if !ok {
		return ""
	}
	return sess.LastError()
}

// mirrorCreate appends a fresh mirror entry for a newly created record and
// stores its id back on the primary row as a weak back-reference. Failures
// are logged and reported in the outcome, never propagated.
func (s *CashflowStoreImpl) mirrorCreate(ctx context.Context, rec *cashflow.Record) mirror.Outcome {
	entry, err := s.mirror.Create(ctx, mirror.NewEntry{
		SmeID:       mirror.TenantKey(rec.OrgID, rec.BranchID),
		Type:        string(rec.Category),
		Amount:      rec.Amount,
		Category:    rec.Name,
		Description: rec.Description,
		Date:        rec.Date,
	})
	if err != nil {
		s.logger.Warn("Mirror create failed; primary record is kept without a mirror entry",
			"record_id", rec.ID, "error", err)
		return mirror.Outcome{Status: mirror.SyncFailed, Reason: err.Error()}
	}

	rec.MirrorEntryID = entry.ID
	if err := s.repo.SetMirrorLink(ctx, rec.SourceTable, rec.SourceID, &entry.ID); err != nil {
		s.logger.Warn("Failed to store mirror back-reference",
			"record_id", rec.ID, "entry_id", entry.ID, "error", err)
	}

	return mirror.Outcome{Status: mirror.SyncOK, EntryID: entry.ID}
}

// mirrorRemove deletes the mirror entry belonging to prev. When the record
// carries a back-reference the entry is deleted directly; otherwise the full
// mirror list is fetched and the first entry matching prev's pre-mutation
// {amount, name, category} triple is deleted. The value match is heuristic:
// with duplicate entries it may pick the wrong one, which is why the
// back-reference takes precedence.
func (s *CashflowStoreImpl) mirrorRemove(ctx context.Context, prev cashflow.Record) mirror.Outcome {
	if prev.MirrorEntryID != "" {
		if err := s.mirror.Delete(ctx, prev.MirrorEntryID); err != nil {
			var statusErr mirror.StatusError
			if errors.As(err, &statusErr) && statusErr.IsNotFound() {
				s.logger.Warn("Linked mirror entry already gone",
					"record_id", prev.ID, "entry_id", prev.MirrorEntryID)
				return mirror.Outcome{Status: mirror.SyncSkipped, EntryID: prev.MirrorEntryID, Reason: "linked mirror entry already gone"}
			}
			s.logger.Warn("Failed to delete linked mirror entry",
				"record_id", prev.ID, "entry_id", prev.MirrorEntryID, "error", err)
			return mirror.Outcome{Status: mirror.SyncFailed, EntryID: prev.MirrorEntryID, Reason: err.Error()}
		}
		return mirror.Outcome{Status: mirror.SyncOK, EntryID: prev.MirrorEntryID}
	}

	entries, err := s.mirror.List(ctx)
	if err != nil {
		s.logger.Warn("Failed to list mirror entries for reconciliation",
			"record_id", prev.ID, "error", err)
		return mirror.Outcome{Status: mirror.SyncFailed, Reason: err.Error()}
	}

	match, matches := findMirrorMatch(entries, prev)
	if match == nil {
		s.logger.Warn("No mirror entry matched record; mirror may be out of sync", "record_id", prev.ID)
		return mirror.Outcome{Status: mirror.SyncSkipped, Reason: "no matching mirror entry"}
	}
	if matches > 1 {
		s.logger.Warn("Multiple mirror entries matched record; deleting first in list order",
			"record_id", prev.ID, "matches", matches, "entry_id", match.ID)
	}

	if err := s.mirror.Delete(ctx, match.ID); err != nil {
		s.logger.Warn("Failed to delete matched mirror entry",
			"record_id", prev.ID, "entry_id", match.ID, "error", err)
		return mirror.Outcome{Status: mirror.SyncFailed, EntryID: match.ID, Reason: err.Error()}
	}

	return mirror.Outcome{Status: mirror.SyncOK, EntryID: match.ID}
}

// mirrorReplace reconciles the mirror after an update: remove the stale
// entry for prev, then append a fresh one from rec's post-update values.
// When the heuristic finds nothing to replace the create is skipped too and
// the mirror stays behind; the outcome makes that visible.
func (s *CashflowStoreImpl) mirrorReplace(ctx context.Context, prev cashflow.Record, rec *cashflow.Record) mirror.Outcome {
	removal := s.mirrorRemove(ctx, prev)
	if removal.Status == mirror.SyncFailed {
		return removal
	}
	if removal.Status == mirror.SyncSkipped && prev.MirrorEntryID == "" {
		return removal
	}

	entry, err := s.mirror.Create(ctx, mirror.NewEntry{
		SmeID:       mirror.TenantKey(rec.OrgID, rec.BranchID),
		Type:        string(rec.Category),
		Amount:      rec.Amount,
		Category:    rec.Name,
		Description: rec.Description,
		Date:        rec.Date,
	})
	if err != nil {
		s.logger.Warn("Mirror create failed after update; mirror entry is lost until the next reconciliation",
			"record_id", rec.ID, "error", err)
		return mirror.Outcome{Status: mirror.SyncFailed, Reason: err.Error()}
	}

	rec.MirrorEntryID = entry.ID
	if err := s.repo.SetMirrorLink(ctx, rec.SourceTable, rec.SourceID, &entry.ID); err != nil {
		s.logger.Warn("Failed to store mirror back-reference",
			"record_id", rec.ID, "entry_id", entry.ID, "error", err)
	}

	return mirror.Outcome{Status: mirror.SyncOK, EntryID: entry.ID}
}

// findMirrorMatch returns the first entry whose value triple equals the
// record's pre-mutation {amount, name, category}, plus the total number of
// entries that matched.
func findMirrorMatch(entries []mirror.Entry, prev cashflow.Record) (*mirror.Entry, int) {
	var match *mirror.Entry
	matches := 0
	for i := range entries {
		e := &entries[i]
		if e.Amount.Equal(prev.Amount) && e.Category == prev.Name && e.Type == string(prev.Category) {
			if match == nil {
				match = e
			}
			matches++
		}
	}
	return match, matches
}
