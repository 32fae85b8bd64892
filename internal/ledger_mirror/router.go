package ledger_mirror

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/smecash/cashflow-ledger/internal/cashflow_api/middleware"
	"github.com/smecash/cashflow-ledger/internal/ledger_mirror/handler"
)

// setupRouter configures the mirror service routes and middleware
func setupRouter(logger *slog.Logger, r *gin.Engine, mirrorHandler *handler.MirrorHandler) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	api := r.Group("/api")
	{
		api.GET("/health", mirrorHandler.Health)

		transactions := api.Group("/transactions")
		{
			transactions.GET("", mirrorHandler.List)
			transactions.GET("/sme/:smeId", mirrorHandler.ListBySme)
			transactions.POST("", mirrorHandler.Create)
			transactions.DELETE("/:id", mirrorHandler.Delete)
		}

		api.GET("/summary/:smeId", mirrorHandler.Summary)
	}
}
