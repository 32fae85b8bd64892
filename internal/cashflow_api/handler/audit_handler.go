package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/smecash/cashflow-ledger/internal/cashflow_api/middleware"
	"github.com/smecash/cashflow-ledger/internal/cashflow_api/service"
)

// AuditHandler handles HTTP requests for reading the ledger mirror
type AuditHandler struct {
	audit  service.AuditService
	logger *slog.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(logger *slog.Logger, audit service.AuditService) *AuditHandler {
	return &AuditHandler{
		audit:  audit,
		logger: logger,
	}
}

// Entries returns the caller's tenant's mirror entries
func (h *AuditHandler) Entries(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	entries, err := h.audit.Entries(c.Request.Context(), identity)
	if err != nil {
		h.logger.Error("Failed to read mirror entries", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, entries)
}

// Summary returns the caller's tenant's aggregate mirror totals
func (h *AuditHandler) Summary(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	summary, err := h.audit.Summary(c.Request.Context(), identity)
	if err != nil {
		h.logger.Error("Failed to read mirror summary", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, summary)
}
