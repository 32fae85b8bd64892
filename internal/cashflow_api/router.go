package cashflow_api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smecash/cashflow-ledger/internal/cashflow_api/handler"
	"github.com/smecash/cashflow-ledger/internal/cashflow_api/middleware"
	"github.com/smecash/cashflow-ledger/internal/domain/mirror"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	jwtSecret string,
	cashflowHandler *handler.CashflowHandler,
	dashboardHandler *handler.DashboardHandler,
	auditHandler *handler.AuditHandler,
	branchHandler *handler.BranchHandler,
	userHandler *handler.UserHandler,
	profileHandler *handler.ProfileHandler,
	mirrorClient mirror.Client,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints; everything under here requires a bearer token
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(logger, jwtSecret))
	{
		v1.GET("/me", profileHandler.Me)
		v1.DELETE("/session", cashflowHandler.Logout)

		records := v1.Group("/records")
		{
			records.GET("", cashflowHandler.Fetch)
			records.POST("", cashflowHandler.Add)
			records.PATCH("/:id", cashflowHandler.Update)
			records.DELETE("/:id", cashflowHandler.Delete)
		}

		v1.GET("/dashboard/summary", dashboardHandler.Summary)

		audit := v1.Group("/audit")
		{
			audit.GET("/entries", auditHandler.Entries)
			audit.GET("/summary", auditHandler.Summary)
		}

		branches := v1.Group("/branches")
		{
			branches.GET("", branchHandler.List)
			branches.POST("", branchHandler.Create)
		}

		users := v1.Group("/users")
		{
			users.GET("", userHandler.List)
			users.POST("/assign-branch", userHandler.AssignBranch)
		}
	}

	// Health check endpoint for monitoring. Includes the mirror probe result;
	// an unreachable mirror degrades the report but not the status code, since
	// the service stays usable without it.
	r.GET("/health", func(c *gin.Context) {
		probeCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		mirrorStatus := "ok"
		if _, err := mirrorClient.Health(probeCtx); err != nil {
			logger.Warn("Mirror health probe failed", "error", err)
			mirrorStatus = "unreachable"
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"mirror":    mirrorStatus,
			"timestamp": time.Now().UTC(),
		})
	})
}
