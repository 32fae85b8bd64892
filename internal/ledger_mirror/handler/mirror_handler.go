package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smecash/cashflow-ledger/internal/domain/mirror"
)

// MirrorHandler handles HTTP requests for the ledger mirror store. Responses
// are plain JSON shapes, not envelopes; the cashflow API's client decodes
// them directly.
type MirrorHandler struct {
	store  mirror.Store
	logger *slog.Logger
}

// NewMirrorHandler creates a new mirror handler
func NewMirrorHandler(logger *slog.Logger, store mirror.Store) *MirrorHandler {
	return &MirrorHandler{
		store:  store,
		logger: logger,
	}
}

// Health reports service liveness
func (h *MirrorHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// List returns every mirror entry across all tenants
func (h *MirrorHandler) List(c *gin.Context) {
	entries, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list entries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list entries"})
		return
	}
	if entries == nil {
		entries = []mirror.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

// ListBySme returns one tenant's mirror entries
func (h *MirrorHandler) ListBySme(c *gin.Context) {
	smeID := c.Param("smeId")

	entries, err := h.store.ListBySme(c.Request.Context(), smeID)
	if err != nil {
		h.logger.Error("Failed to list entries", "sme_id", smeID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list entries"})
		return
	}
	if entries == nil {
		entries = []mirror.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

// Create appends a new mirror entry. The entry gets its id, creation time,
// and recorded status here; callers never choose them.
func (h *MirrorHandler) Create(c *gin.Context) {
	var in mirror.NewEntry
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if in.SmeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "smeId is required"})
		return
	}
	if in.Type != "income" && in.Type != "expense" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be income or expense"})
		return
	}

	now := time.Now().UTC()
	entry := mirror.Entry{
		ID:               uuid.New().String(),
		SmeID:            in.SmeID,
		Type:             in.Type,
		Amount:           in.Amount,
		Category:         in.Category,
		Description:      in.Description,
		Date:             in.Date,
		CreatedAt:        now,
		BlockchainStatus: mirror.StatusRecorded,
	}
	if entry.Date.IsZero() {
		entry.Date = now
	}

	if err := h.store.Insert(c.Request.Context(), &entry); err != nil {
		h.logger.Error("Failed to insert entry", "id", entry.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to insert entry"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Delete removes a mirror entry by id, returning 404 when no such entry exists
func (h *MirrorHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.DeleteByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, mirror.ErrEntryNotFound{}) {
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
			return
		}
		h.logger.Error("Failed to delete entry", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete entry"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Summary returns one tenant's aggregate totals
func (h *MirrorHandler) Summary(c *gin.Context) {
	smeID := c.Param("smeId")

	summary, err := h.store.SummarizeBySme(c.Request.Context(), smeID)
	if err != nil {
		h.logger.Error("Failed to summarize entries", "sme_id", smeID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to summarize entries"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
