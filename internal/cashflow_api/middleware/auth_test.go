package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smecash/cashflow-ledger/internal/domain/profile"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func authTestRouter() (*gin.Engine, *profile.Identity) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	captured := &profile.Identity{}
	router := gin.New()
	router.Use(Auth(logger, testSecret))
	router.GET("/test", func(c *gin.Context) {
		*captured = GetIdentity(c)
		c.Status(http.StatusOK)
	})
	return router, captured
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()

	t.Run("ValidTokenSetsIdentity", func(t *testing.T) {
		router, captured := authTestRouter()
		token := signToken(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AuthorizationHeader, "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, userID, captured.UserID)
	})

	t.Run("MissingHeaderRejected", func(t *testing.T) {
		router, _ := authTestRouter()

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
	})

	t.Run("ExpiredTokenRejected", func(t *testing.T) {
		router, _ := authTestRouter()
		token := signToken(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		})

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AuthorizationHeader, "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("WrongSecretRejected", func(t *testing.T) {
		router, _ := authTestRouter()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString([]byte("other-secret"))
		require.NoError(t, err)

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AuthorizationHeader, "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("NonUUIDSubjectRejected", func(t *testing.T) {
		router, _ := authTestRouter()
		token := signToken(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "not-a-profile-id",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AuthorizationHeader, "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("GetIdentityReturnsZeroWhenUnset", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		assert.True(t, GetIdentity(c).IsZero())
	})
}
