package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/smecash/cashflow-ledger/internal/cashflow_api/middleware"
	"github.com/smecash/cashflow-ledger/internal/cashflow_api/service"
	"github.com/smecash/cashflow-ledger/internal/domain/cashflow"
)

// CashflowHandler handles HTTP requests for cashflow record operations
type CashflowHandler struct {
	store  service.CashflowStore
	logger *slog.Logger
}

// NewCashflowHandler creates a new cashflow handler
func NewCashflowHandler(logger *slog.Logger, store service.CashflowStore) *CashflowHandler {
	return &CashflowHandler{
		store:  store,
		logger: logger,
	}
}

// Fetch returns the caller's visible records, income and expense merged,
// newest first. The response carries the caller's last primary-store error
// so clients can surface it passively.
func (h *CashflowHandler) Fetch(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	result, err := h.store.Fetch(c.Request.Context(), identity)
	if err != nil {
		h.logger.Error("Failed to fetch records", "error", err)
		RespondServiceError(c, err)
		return
	}

	records := make([]RecordResponse, 0, len(result.Records))
	for _, rec := range result.Records {
		records = append(records, mapRecordToResponse(rec))
	}

	RespondOK(c, FetchRecordsResponse{
		Records:   records,
		Role:      string(result.Role),
		LastError: h.store.LastError(identity),
	})
}

// Add creates a record in the category-appropriate table and reports the
// mirror outcome alongside it.
func (h *CashflowHandler) Add(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req AddRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.logger.Error("Invalid amount", "amount", req.Amount, "error", err)
		RespondBadRequest(c, "Invalid amount")
		return
	}

	result, err := h.store.Add(c.Request.Context(), identity, service.AddInput{
		Name:        req.Name,
		Category:    cashflow.Table(req.Category),
		Amount:      amount,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("Failed to add record", "error", err)
		RespondServiceError(c, err)
		return
	}

	response := MutationResponse{Mirror: result.Mirror}
	if result.Record != nil {
		mapped := mapRecordToResponse(*result.Record)
		response.Record = &mapped
	}
	RespondCreated(c, response)
}

// Update applies a partial update to a record in the caller's session state
func (h *CashflowHandler) Update(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	id := c.Param("id")

	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := service.UpdateInput{
		Name:        req.Name,
		Date:        req.Date,
		Description: req.Description,
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			h.logger.Error("Invalid amount", "amount", *req.Amount, "error", err)
			RespondBadRequest(c, "Invalid amount")
			return
		}
		input.Amount = &amount
	}

	result, err := h.store.Update(c.Request.Context(), identity, id, input)
	if err != nil {
		h.logger.Error("Failed to update record", "id", id, "error", err)
		RespondServiceError(c, err)
		return
	}

	response := MutationResponse{Mirror: result.Mirror}
	if result.Record != nil {
		mapped := mapRecordToResponse(*result.Record)
		response.Record = &mapped
	}
	RespondOK(c, response)
}

// Delete removes a record from the caller's session state and storage
func (h *CashflowHandler) Delete(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	id := c.Param("id")

	result, err := h.store.Delete(c.Request.Context(), identity, id)
	if err != nil {
		h.logger.Error("Failed to delete record", "id", id, "error", err)
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, MutationResponse{Mirror: result.Mirror})
}

// Logout tears down the caller's session state
func (h *CashflowHandler) Logout(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	h.store.EndSession(identity)
	RespondNoContent(c)
}
