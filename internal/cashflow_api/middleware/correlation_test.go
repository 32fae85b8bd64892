package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCorrelationIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(captured *string) *gin.Engine {
		router := gin.New()
		router.Use(CorrelationID())
		router.GET("/test", func(c *gin.Context) {
			*captured = GetCorrelationID(c)
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("GeneratesIDWhenMissing", func(t *testing.T) {
		var contextID string
		router := newRouter(&contextID)

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		headerID := rr.Header().Get(CorrelationIDHeader)
		_, err := uuid.Parse(headerID)
		assert.NoError(t, err)
		assert.Equal(t, headerID, contextID)
	})

	t.Run("HonorsValidProvidedID", func(t *testing.T) {
		var contextID string
		router := newRouter(&contextID)
		providedID := uuid.New().String()

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(CorrelationIDHeader, providedID)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, providedID, rr.Header().Get(CorrelationIDHeader))
		assert.Equal(t, providedID, contextID)
	})

	t.Run("ReplacesNonUUIDProvidedID", func(t *testing.T) {
		var contextID string
		router := newRouter(&contextID)

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(CorrelationIDHeader, "spoofed; not a uuid")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		headerID := rr.Header().Get(CorrelationIDHeader)
		assert.NotEqual(t, "spoofed; not a uuid", headerID)
		_, err := uuid.Parse(headerID)
		assert.NoError(t, err)
		assert.Equal(t, headerID, contextID)
	})

	t.Run("GetCorrelationIDEmptyWhenUnset", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.Empty(t, GetCorrelationID(c))
	})
}
