package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/smecash/cashflow-ledger/internal/cashflow_api/middleware"
	"github.com/smecash/cashflow-ledger/internal/domain/org"
	"github.com/smecash/cashflow-ledger/internal/domain/profile"
)

// ProfileHandler handles HTTP requests for the caller's own profile
type ProfileHandler struct {
	profiles profile.Repository
	orgs     org.Repository
	logger   *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(logger *slog.Logger, profiles profile.Repository, orgs org.Repository) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		orgs:     orgs,
		logger:   logger,
	}
}

// Me returns the authenticated caller's profile together with their
// organization. A failed organization lookup degrades the response rather
// than failing it; the profile is the authoritative part.
func (h *ProfileHandler) Me(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity.IsZero() {
		RespondUnauthorized(c, "")
		return
	}

	p, err := h.profiles.GetByID(c.Request.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("Failed to load profile", "user_id", identity.UserID.String(), "error", err)
		RespondServiceError(c, err)
		return
	}

	response := MeResponse{Profile: p}
	if p.OrgID != nil {
		organization, err := h.orgs.GetOrganization(c.Request.Context(), *p.OrgID)
		if err != nil {
			h.logger.Warn("Failed to load organization", "org_id", *p.OrgID, "error", err)
		} else {
			response.Organization = organization
		}
	}

	RespondOK(c, response)
}
