// Package cashflow_api wires the HTTP surface of the cashflow service:
// router, middleware chain, and server lifecycle.
package cashflow_api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smecash/cashflow-ledger/internal/cashflow_api/handler"
	"github.com/smecash/cashflow-ledger/internal/cashflow_api/service"
	"github.com/smecash/cashflow-ledger/internal/config"
	"github.com/smecash/cashflow-ledger/internal/domain/mirror"
	"github.com/smecash/cashflow-ledger/internal/domain/org"
	"github.com/smecash/cashflow-ledger/internal/domain/profile"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(
	log *slog.Logger,
	cfg *config.Config,
	store service.CashflowStore,
	dashboard service.DashboardService,
	audit service.AuditService,
	branches service.BranchService,
	users service.UserService,
	profiles profile.Repository,
	orgs org.Repository,
	mirrorClient mirror.Client,
) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	cashflowHandler := handler.NewCashflowHandler(log, store)
	dashboardHandler := handler.NewDashboardHandler(log, dashboard)
	auditHandler := handler.NewAuditHandler(log, audit)
	branchHandler := handler.NewBranchHandler(log, branches)
	userHandler := handler.NewUserHandler(log, users)
	profileHandler := handler.NewProfileHandler(log, profiles, orgs)

	setupRouter(log, httpRouter, cfg.Auth.JWTSecret,
		cashflowHandler, dashboardHandler, auditHandler, branchHandler, userHandler, profileHandler,
		mirrorClient)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
