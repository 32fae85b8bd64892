package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/smecash/cashflow-ledger/internal/domain/cashflow"
	"github.com/smecash/cashflow-ledger/internal/domain/profile"
)

const monthLayout = "2006-01"

// DashboardServiceImpl implements the DashboardService interface. It
// aggregates over the caller's session records and never queries storage; a
// caller who has not fetched yet gets empty totals.
type DashboardServiceImpl struct {
	logger   *slog.Logger
	resolver ProfileResolver
	sessions *SessionRegistry
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(logger *slog.Logger, resolver ProfileResolver, sessions *SessionRegistry) DashboardService {
	return &DashboardServiceImpl{
		logger:   logger,
		resolver: resolver,
		sessions: sessions,
	}
}

// Summarize aggregates the caller's session records into overall and
// per-month totals, optionally restricted to one "YYYY-MM" month.
func (s *DashboardServiceImpl) Summarize(ctx context.Context, identity profile.Identity, month string) (*DashboardSummary, error) {
	scope, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Net:          decimal.Zero,
	}

	sess, ok := s.sessions.Peek(scope.UserID)
	if !ok {
		return summary, nil
	}
	records, _ := sess.Snapshot()

	byMonth := make(map[string]*MonthSummary)
	for _, rec := range records {
		m := rec.Date.Format(monthLayout)
		if month != "" && m != month {
			continue
		}

		ms, ok := byMonth[m]
		if !ok {
			ms = &MonthSummary{
				Month:        m,
				TotalIncome:  decimal.Zero,
				TotalExpense: decimal.Zero,
			}
			byMonth[m] = ms
		}

		switch rec.Category {
		case cashflow.TableIncome:
			summary.TotalIncome = summary.TotalIncome.Add(rec.Amount)
			ms.TotalIncome = ms.TotalIncome.Add(rec.Amount)
		case cashflow.TableExpense:
			summary.TotalExpense = summary.TotalExpense.Add(rec.Amount)
			ms.TotalExpense = ms.TotalExpense.Add(rec.Amount)
		}
		summary.Count++
		ms.Count++
	}

	summary.Net = summary.TotalIncome.Sub(summary.TotalExpense)
	for _, ms := range byMonth {
		ms.Net = ms.TotalIncome.Sub(ms.TotalExpense)
		summary.Months = append(summary.Months, *ms)
	}
	sort.Slice(summary.Months, func(i, j int) bool {
		return summary.Months[i].Month > summary.Months[j].Month
	})

	return summary, nil
}
