package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/smecash/cashflow-ledger/internal/cashflow_api/middleware"
	"github.com/smecash/cashflow-ledger/internal/cashflow_api/service"
)

// BranchHandler handles HTTP requests for branch management
type BranchHandler struct {
	branches service.BranchService
	logger   *slog.Logger
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(logger *slog.Logger, branches service.BranchService) *BranchHandler {
	return &BranchHandler{
		branches: branches,
		logger:   logger,
	}
}

// List returns the caller's visible branches
func (h *BranchHandler) List(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	branches, err := h.branches.List(c.Request.Context(), identity)
	if err != nil {
		h.logger.Error("Failed to list branches", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, branches)
}

// Create adds a branch to the caller's organization
func (h *BranchHandler) Create(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	branch, err := h.branches.Create(c.Request.Context(), identity, req.Name, req.Address)
	if err != nil {
		h.logger.Error("Failed to create branch", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondCreated(c, branch)
}
