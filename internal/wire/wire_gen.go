// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"

	"github.com/avolkov/review-courier/internal/app"
	"github.com/avolkov/review-courier/internal/config"
	"github.com/avolkov/review-courier/internal/db"
	"github.com/avolkov/review-courier/internal/delivery"
	"github.com/avolkov/review-courier/internal/diffext"
	"github.com/avolkov/review-courier/internal/gitcli"
	"github.com/avolkov/review-courier/internal/jobs"
	"github.com/avolkov/review-courier/internal/server"
	"github.com/avolkov/review-courier/internal/tracker"
	"github.com/avolkov/review-courier/internal/workspace"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	slogLogger := provideSlogLogger(provideLoggerConfig(cfg))

	// Database
	dbConn, dbCleanup, err := db.NewDatabase(provideDBConfig(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := dbConn.RunMigrations(); err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Tracker store
	store := tracker.NewStore(dbConn.DB, slogLogger)

	// Git client and workspaces
	gitClient := gitcli.NewClient(slogLogger)
	workspaces := workspace.NewManager(gitClient, provideWorkspaceRoot(cfg), slogLogger)
	extractor := diffext.NewExtractor(gitClient, slogLogger)

	// Platform client
	platformClient, err := providePlatformClient(ctx, cfg, slogLogger)
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to create platform client: %w", err)
	}

	// Feedback provider
	provider := provideFeedbackProvider(cfg, slogLogger)

	// Deliverer
	deliverer := delivery.NewDeliverer(platformClient, provideDeliveryConfig(cfg), slogLogger)

	// Review Job
	reviewJob := jobs.NewReviewJob(cfg, workspaces, extractor, provider, platformClient, deliverer, store, slogLogger)

	// Dispatcher
	dispatcher := jobs.NewDispatcher(reviewJob, provideMaxWorkers(cfg), slogLogger)

	// Server
	srv := server.NewServer(cfg, dispatcher, slogLogger)

	// App
	application := app.NewApp(cfg, dbConn, store, platformClient, reviewJob, dispatcher, srv, slogLogger)

	cleanup := func() {
		dbCleanup()
	}

	return application, cleanup, nil
}
