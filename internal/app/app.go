// Package app initializes and orchestrates the main components of the
// ReviewLoop service. It wires together the configuration, server, review
// pipeline, and publish workers.
package app

import (
	"context"
	"log/slog"

	"github.com/reviewloop/reviewloop/internal/config"
	"github.com/reviewloop/reviewloop/internal/core"
	"github.com/reviewloop/reviewloop/internal/db"
	"github.com/reviewloop/reviewloop/internal/server"
)

// App holds the main application components.
type App struct {
	ctx        context.Context
	cfg        *config.Config
	server     *server.Server
	logger     *slog.Logger
	dispatcher core.JobDispatcher
	dbConn     *db.DB
}

// NewApp sets up the application with all its dependencies.
func NewApp(ctx context.Context, cfg *config.Config, srv *server.Server, dispatcher core.JobDispatcher, dbConn *db.DB, logger *slog.Logger) *App {
	logger.Info("initializing ReviewLoop application",
		"conversation_api", cfg.ConversationAPIURL,
		"allowed_repos", len(cfg.AllowedRepos),
		"auto_fix", cfg.AutoFix,
		"max_workers", cfg.MaxWorkers)

	return &App{
		ctx:        ctx,
		cfg:        cfg,
		server:     srv,
		logger:     logger,
		dispatcher: dispatcher,
		dbConn:     dbConn,
	}
}

// Start runs the HTTP server.
func (a *App) Start() error {
	a.logger.Info("starting ReviewLoop",
		"server_port", a.cfg.ServerPort,
		"max_workers", a.cfg.MaxWorkers)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly.
func (a *App) Stop() error {
	a.logger.Info("shutting down ReviewLoop services")

	// Stop the HTTP server first to prevent new incoming requests.
	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
		// Continue to stop other components even if the server failed.
	}

	// Stop the publish dispatcher, allowing in-flight jobs to finish.
	a.dispatcher.Stop()

	if serverErr != nil {
		a.logger.Error("ReviewLoop stopped with errors", "error", serverErr)
		return serverErr
	}

	a.logger.Info("ReviewLoop stopped successfully")
	return nil
}
