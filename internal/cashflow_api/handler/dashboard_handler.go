package handler

import (
	"log/slog"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/smecash/cashflow-ledger/internal/cashflow_api/middleware"
	"github.com/smecash/cashflow-ledger/internal/cashflow_api/service"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// DashboardHandler handles HTTP requests for dashboard aggregations
type DashboardHandler struct {
	dashboard service.DashboardService
	logger    *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(logger *slog.Logger, dashboard service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		logger:    logger,
	}
}

// Summary aggregates the caller's fetched records, optionally restricted to
// one month via the "month" query parameter (YYYY-MM).
func (h *DashboardHandler) Summary(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	month := c.Query("month")
	if month != "" && !monthPattern.MatchString(month) {
		RespondBadRequest(c, "Invalid month; expected YYYY-MM")
		return
	}

	summary, err := h.dashboard.Summarize(c.Request.Context(), identity, month)
	if err != nil {
		h.logger.Error("Failed to summarize records", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, summary)
}
