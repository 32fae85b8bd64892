package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/smecash/cashflow-ledger/internal/domain/cashflow"
	"github.com/smecash/cashflow-ledger/internal/domain/profile"
)

func TestDashboardServiceImpl_Summarize(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	may := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	june := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	records := []cashflow.Record{
		{ID: "income-1", Category: cashflow.TableIncome, Amount: decimal.NewFromInt(100), Date: june},
		{ID: "expense-1", Category: cashflow.TableExpense, Amount: decimal.NewFromInt(40), Date: june},
		{ID: "income-2", Category: cashflow.TableIncome, Amount: decimal.NewFromInt(10), Date: may},
	}

	newFixture := func() (*MockProfileResolver, *SessionRegistry, DashboardService) {
		resolver := new(MockProfileResolver)
		sessions := NewSessionRegistry()
		return resolver, sessions, NewDashboardService(logger, resolver, sessions)
	}

	t.Run("AggregatesAcrossMonths", func(t *testing.T) {
		userID := uuid.New()
		identity := profile.Identity{UserID: userID}
		resolver, sessions, dashboard := newFixture()
		resolver.On("Resolve", ctx, identity).Return(branchScope(userID, 1), nil).Once()
		sessions.Get(userID).SetRecords(records, profile.RoleUser)

		summary, err := dashboard.Summarize(ctx, identity, "")

		assert.NoError(t, err)
		assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(110)))
		assert.True(t, summary.TotalExpense.Equal(decimal.NewFromInt(40)))
		assert.True(t, summary.Net.Equal(decimal.NewFromInt(70)))
		assert.Equal(t, 3, summary.Count)

		// Months come back newest first.
		assert.Len(t, summary.Months, 2)
		assert.Equal(t, "2025-06", summary.Months[0].Month)
		assert.Equal(t, "2025-05", summary.Months[1].Month)
		assert.True(t, summary.Months[0].Net.Equal(decimal.NewFromInt(60)))
	})

	t.Run("MonthFilterRestricts", func(t *testing.T) {
		userID := uuid.New()
		identity := profile.Identity{UserID: userID}
		resolver, sessions, dashboard := newFixture()
		resolver.On("Resolve", ctx, identity).Return(branchScope(userID, 1), nil).Once()
		sessions.Get(userID).SetRecords(records, profile.RoleUser)

		summary, err := dashboard.Summarize(ctx, identity, "2025-05")

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Count)
		assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(10)))
		assert.Len(t, summary.Months, 1)
		assert.Equal(t, "2025-05", summary.Months[0].Month)
	})

	t.Run("EmptyWithoutSession", func(t *testing.T) {
		userID := uuid.New()
		identity := profile.Identity{UserID: userID}
		resolver, _, dashboard := newFixture()
		resolver.On("Resolve", ctx, identity).Return(branchScope(userID, 1), nil).Once()

		summary, err := dashboard.Summarize(ctx, identity, "")

		assert.NoError(t, err)
		assert.Equal(t, 0, summary.Count)
		assert.True(t, summary.Net.Equal(decimal.Zero))
		assert.Empty(t, summary.Months)
	})
}
