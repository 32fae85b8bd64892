package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smecash/cashflow-ledger/internal/cashflow_api/middleware"
	"github.com/smecash/cashflow-ledger/internal/cashflow_api/service"
)

// UserHandler handles HTTP requests for profile administration
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(logger *slog.Logger, users service.UserService) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// List returns every profile of the caller's organization
func (h *UserHandler) List(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	profiles, err := h.users.List(c.Request.Context(), identity)
	if err != nil {
		h.logger.Error("Failed to list profiles", "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, profiles)
}

// AssignBranch moves a profile onto a branch of the caller's organization
func (h *UserHandler) AssignBranch(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req AssignBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.logger.Error("Invalid user ID", "user_id", req.UserID, "error", err)
		RespondBadRequest(c, "Invalid user ID")
		return
	}

	if err := h.users.AssignBranch(c.Request.Context(), identity, userID, req.BranchID); err != nil {
		h.logger.Error("Failed to assign branch", "user_id", req.UserID, "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondNoContent(c)
}
