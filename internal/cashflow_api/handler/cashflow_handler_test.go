package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smecash/cashflow-ledger/internal/cashflow_api/middleware"
	"github.com/smecash/cashflow-ledger/internal/cashflow_api/service"
	"github.com/smecash/cashflow-ledger/internal/domain/cashflow"
	"github.com/smecash/cashflow-ledger/internal/domain/mirror"
	"github.com/smecash/cashflow-ledger/internal/domain/profile"
)

type MockCashflowStore struct {
	mock.Mock
}

func (m *MockCashflowStore) Fetch(ctx context.Context, identity profile.Identity) (*service.FetchResult, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FetchResult), args.Error(1)
}

func (m *MockCashflowStore) Add(ctx context.Context, identity profile.Identity, input service.AddInput) (*service.AddResult, error) {
	args := m.Called(ctx, identity, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AddResult), args.Error(1)
}

func (m *MockCashflowStore) Update(ctx context.Context, identity profile.Identity, id string, input service.UpdateInput) (*service.UpdateResult, error) {
	args := m.Called(ctx, identity, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UpdateResult), args.Error(1)
}

func (m *MockCashflowStore) Delete(ctx context.Context, identity profile.Identity, id string) (*service.DeleteResult, error) {
	args := m.Called(ctx, identity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DeleteResult), args.Error(1)
}

func (m *MockCashflowStore) EndSession(identity profile.Identity) {
	m.Called(identity)
}

func (m *MockCashflowStore) LastError(identity profile.Identity) string {
	args := m.Called(identity)
	return args.String(0)
}

func setupTestRouter(identity profile.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.IdentityKey, identity)
		c.Next()
	})
	return r
}

func TestCashflowHandler_Fetch(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	identity := profile.Identity{UserID: uuid.New()}

	t.Run("Success", func(t *testing.T) {
		mockStore := new(MockCashflowStore)
		handler := NewCashflowHandler(logger, mockStore)

		mockStore.On("Fetch", mock.Anything, identity).Return(&service.FetchResult{
			Records: []cashflow.Record{
				{ID: "income-1", Name: "sales", Category: cashflow.TableIncome, Amount: decimal.NewFromInt(100), Date: time.Now(), OrgID: "org-1"},
			},
			Role: profile.RoleUser,
		}, nil).Once()
		mockStore.On("LastError", identity).Return("").Once()

		router := setupTestRouter(identity)
		router.GET("/records", handler.Fetch)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/records", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data FetchRecordsResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "user", resp.Data.Role)
		require.Len(t, resp.Data.Records, 1)
		assert.Equal(t, "income-1", resp.Data.Records[0].ID)
		assert.Empty(t, resp.Data.LastError)
	})

	t.Run("MissingBranchMapsToConflict", func(t *testing.T) {
		mockStore := new(MockCashflowStore)
		handler := NewCashflowHandler(logger, mockStore)

		mockStore.On("Fetch", mock.Anything, identity).
			Return(nil, profile.ErrMissingBranchAssignment{UserID: identity.UserID}).Once()

		router := setupTestRouter(identity)
		router.GET("/records", handler.Fetch)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/records", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCashflowHandler_Add(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	identity := profile.Identity{UserID: uuid.New()}

	t.Run("SuccessIncludesMirrorOutcome", func(t *testing.T) {
		mockStore := new(MockCashflowStore)
		handler := NewCashflowHandler(logger, mockStore)

		record := cashflow.Record{
			ID: "income-1", Name: "sales", Category: cashflow.TableIncome,
			Amount: decimal.NewFromInt(250), Date: time.Now(), OrgID: "org-1",
		}
		mockStore.On("Add", mock.Anything, identity, mock.MatchedBy(func(in service.AddInput) bool {
			return in.Name == "sales" && in.Category == cashflow.TableIncome && in.Amount.Equal(decimal.NewFromInt(250))
		})).Return(&service.AddResult{
			Record: &record,
			Mirror: mirror.Outcome{Status: mirror.SyncOK, EntryID: "entry-1"},
		}, nil).Once()

		router := setupTestRouter(identity)
		router.POST("/records", handler.Add)

		body, _ := json.Marshal(AddRecordRequest{Name: "sales", Category: "income", Amount: "250"})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/records", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data MutationResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, mirror.SyncOK, resp.Data.Mirror.Status)
		assert.Equal(t, "entry-1", resp.Data.Mirror.EntryID)
		require.NotNil(t, resp.Data.Record)
		assert.Equal(t, "income-1", resp.Data.Record.ID)
	})

	t.Run("InvalidAmountRejected", func(t *testing.T) {
		mockStore := new(MockCashflowStore)
		handler := NewCashflowHandler(logger, mockStore)

		router := setupTestRouter(identity)
		router.POST("/records", handler.Add)

		body, _ := json.Marshal(AddRecordRequest{Name: "sales", Category: "income", Amount: "two hundred"})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/records", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockStore.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidCategoryRejected", func(t *testing.T) {
		mockStore := new(MockCashflowStore)
		handler := NewCashflowHandler(logger, mockStore)

		router := setupTestRouter(identity)
		router.POST("/records", handler.Add)

		body, _ := json.Marshal(AddRecordRequest{Name: "x", Category: "transfer", Amount: "10"})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/records", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCashflowHandler_Update(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	identity := profile.Identity{UserID: uuid.New()}

	t.Run("MissingRecordMapsToNotFound", func(t *testing.T) {
		mockStore := new(MockCashflowStore)
		handler := NewCashflowHandler(logger, mockStore)

		mockStore.On("Update", mock.Anything, identity, "income-99", mock.Anything).
			Return(nil, cashflow.ErrRecordNotFound{ID: "income-99"}).Once()

		router := setupTestRouter(identity)
		router.PATCH("/records/:id", handler.Update)

		body, _ := json.Marshal(UpdateRecordRequest{})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPatch, "/records/income-99", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	})
}

func TestCashflowHandler_Delete(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	identity := profile.Identity{UserID: uuid.New()}

	t.Run("ReportsSkippedMirror", func(t *testing.T) {
		mockStore := new(MockCashflowStore)
		handler := NewCashflowHandler(logger, mockStore)

		mockStore.On("Delete", mock.Anything, identity, "expense-2").Return(&service.DeleteResult{
			Mirror: mirror.Outcome{Status: mirror.SyncSkipped, Reason: "no matching mirror entry"},
		}, nil).Once()

		router := setupTestRouter(identity)
		router.DELETE("/records/:id", handler.Delete)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodDelete, "/records/expense-2", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data MutationResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, mirror.SyncSkipped, resp.Data.Mirror.Status)
	})
}

func TestCashflowHandler_Logout(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	identity := profile.Identity{UserID: uuid.New()}

	mockStore := new(MockCashflowStore)
	handler := NewCashflowHandler(logger, mockStore)
	mockStore.On("EndSession", identity).Once()

	router := setupTestRouter(identity)
	router.DELETE("/session", handler.Logout)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/session", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockStore.AssertExpectations(t)
}
