package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/smecash/cashflow-ledger/internal/domain/profile"
)

const (
	// AuthorizationHeader is the HTTP header carrying the bearer token
	AuthorizationHeader = "Authorization"

	bearerPrefix = "Bearer "

	// IdentityKey is the key used to store the authenticated identity in the context
	IdentityKey = "identity"
)

// Auth middleware validates the bearer token and stores the authenticated
// identity in the gin context. Tokens are HS256-signed; the subject claim
// carries the profile id issued at signup.
func Auth(logger *slog.Logger, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthorizationHeader)
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, "Missing bearer token")
			return
		}

		tokenString := strings.TrimPrefix(header, bearerPrefix)
		token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			logger.Warn("Rejected bearer token", "error", err)
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok || claims.Subject == "" {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			logger.Warn("Token subject is not a profile id", "subject", claims.Subject)
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(IdentityKey, profile.Identity{UserID: userID})
		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from the gin context.
// Returns a zero identity when the request was not authenticated.
func GetIdentity(c *gin.Context) profile.Identity {
	if v, exists := c.Get(IdentityKey); exists {
		if identity, ok := v.(profile.Identity); ok {
			return identity
		}
	}
	return profile.Identity{}
}

func abortUnauthorized(c *gin.Context, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, response)
}
