// Package app initializes and orchestrates the main components of the
// Review Courier service. It ties together the configuration, the HTTP
// server, the job dispatcher, and the tracker database.
package app

import (
	"log/slog"

	"github.com/avolkov/review-courier/internal/config"
	"github.com/avolkov/review-courier/internal/core"
	"github.com/avolkov/review-courier/internal/db"
	"github.com/avolkov/review-courier/internal/platform"
	"github.com/avolkov/review-courier/internal/server"
	"github.com/avolkov/review-courier/internal/tracker"
)

// App holds the main application components. The fields the CLI commands
// need are exported so they can drive reviews without the HTTP server.
type App struct {
	Cfg        *config.Config
	DB         *db.DB
	Store      tracker.Store
	Client     platform.Client
	ReviewJob  core.Job
	Dispatcher core.JobDispatcher
	Logger     *slog.Logger

	server *server.Server
}

// NewApp assembles the application from its wired components.
func NewApp(
	cfg *config.Config,
	dbConn *db.DB,
	store tracker.Store,
	client platform.Client,
	reviewJob core.Job,
	dispatcher core.JobDispatcher,
	srv *server.Server,
	logger *slog.Logger,
) *App {
	return &App{
		Cfg:        cfg,
		DB:         dbConn,
		Store:      store,
		Client:     client,
		ReviewJob:  reviewJob,
		Dispatcher: dispatcher,
		Logger:     logger,
		server:     srv,
	}
}

// Start runs the HTTP server.
func (a *App) Start() error {
	a.Logger.Info("starting review courier",
		"server_port", a.Cfg.ServerPort,
		"platform", a.Cfg.Platform,
		"max_workers", a.Cfg.MaxWorkers)

	err := a.server.Start()
	if err != nil {
		a.Logger.Error("failed to start HTTP server", "error", err)
		return err
	}

	return nil
}

// Stop shuts down the application cleanly.
func (a *App) Stop() error {
	a.Logger.Info("shutting down review courier services")

	// Stop the HTTP server first to prevent new incoming requests.
	serverErr := a.server.Stop()
	if serverErr != nil {
		a.Logger.Error("error during HTTP server shutdown", "error", serverErr)
		// Continue to stop other components even if the server failed.
	}

	// Stop the job dispatcher, allowing in-flight reviews to finish.
	a.Dispatcher.Stop()

	a.Logger.Info("closing database connection")
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("error closing database", "error", err)
	}

	if serverErr != nil {
		a.Logger.Error("review courier stopped with errors", "error", serverErr)
		return serverErr
	}

	a.Logger.Info("review courier stopped successfully")
	return nil
}
