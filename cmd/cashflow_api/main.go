package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/smecash/cashflow-ledger/internal/cashflow_api"
	"github.com/smecash/cashflow-ledger/internal/cashflow_api/service"
	"github.com/smecash/cashflow-ledger/internal/config"
	"github.com/smecash/cashflow-ledger/internal/data/mirrorhttp"
	"github.com/smecash/cashflow-ledger/internal/data/postgres"
	"github.com/smecash/cashflow-ledger/internal/logger"
	"github.com/smecash/cashflow-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("cashflow_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize the primary store with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize repositories and the mirror client
	profileRepo := postgres.NewProfileRepository(log, postgresDB)
	orgRepo := postgres.NewOrgRepository(log, postgresDB)
	cashflowRepo := postgres.NewCashflowRepository(log, postgresDB)
	mirrorClient := mirrorhttp.NewClient(log, &cfg.Mirror)

	// Initialize services
	sessions := service.NewSessionRegistry()
	resolver := service.NewProfileResolver(log, profileRepo)
	store := service.NewCashflowStore(log, resolver, cashflowRepo, mirrorClient, sessions)
	dashboard := service.NewDashboardService(log, resolver, sessions)
	audit := service.NewAuditService(log, resolver, mirrorClient)
	branches := service.NewBranchService(log, resolver, orgRepo)
	users := service.NewUserService(log, resolver, profileRepo, orgRepo)

	// Initialize REST server
	server := cashflow_api.NewServer(log, cfg, store, dashboard, audit, branches, users, profileRepo, orgRepo, mirrorClient)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
