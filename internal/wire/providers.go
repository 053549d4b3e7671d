package wire

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/wire"

	"github.com/avolkov/review-courier/internal/app"
	"github.com/avolkov/review-courier/internal/config"
	"github.com/avolkov/review-courier/internal/core"
	"github.com/avolkov/review-courier/internal/db"
	"github.com/avolkov/review-courier/internal/delivery"
	"github.com/avolkov/review-courier/internal/diffext"
	"github.com/avolkov/review-courier/internal/feedback"
	"github.com/avolkov/review-courier/internal/gitcli"
	"github.com/avolkov/review-courier/internal/jobs"
	"github.com/avolkov/review-courier/internal/logger"
	"github.com/avolkov/review-courier/internal/platform"
	"github.com/avolkov/review-courier/internal/platform/gitee"
	"github.com/avolkov/review-courier/internal/platform/github"
	"github.com/avolkov/review-courier/internal/server"
	"github.com/avolkov/review-courier/internal/tracker"
	"github.com/avolkov/review-courier/internal/workspace"
)

var AppSet = wire.NewSet(
	app.NewApp,
	server.NewServer,
	config.LoadConfig,
	db.NewDatabase,
	tracker.NewStore,
	gitcli.NewClient,
	workspace.NewManager,
	diffext.NewExtractor,
	delivery.NewDeliverer,
	jobs.NewDispatcher,
	jobs.NewReviewJob,
	providePlatformClient,
	provideFeedbackProvider,
	provideGitRunner,
	provideWorkspaceRoot,
	provideDeliveryConfig,
	provideMaxWorkers,
	provideLoggerConfig,
	provideDBConfig,
	provideSlogLogger,
)

// providePlatformClient builds the review-delivery client for the configured
// platform. With GitHub App credentials it authenticates as the installation
// and reuses the installation token for git clones.
func providePlatformClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (platform.Client, error) {
	switch cfg.Platform {
	case "gitee":
		return gitee.NewClient(cfg.GiteeBaseURL, cfg.GiteeToken, logger), nil
	case "github":
		if cfg.GitHubAppID != 0 {
			client, token, err := github.NewInstallationClient(ctx, cfg.GitHubAppID, cfg.GitHubPrivateKeyPath, cfg.GitHubInstallationID, logger)
			if err != nil {
				return nil, fmt.Errorf("failed to authenticate GitHub App installation: %w", err)
			}
			if cfg.GitHubToken == "" {
				cfg.GitHubToken = token
			}
			return client, nil
		}
		return github.NewPATClient(ctx, cfg.GitHubToken, logger), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", cfg.Platform)
	}
}

func provideFeedbackProvider(cfg *config.Config, logger *slog.Logger) core.FeedbackProvider {
	return feedback.NewClient(cfg.FeedbackURL, cfg.FeedbackToken, logger)
}

func provideGitRunner(client *gitcli.Client) gitcli.Runner {
	return client
}

func provideWorkspaceRoot(cfg *config.Config) string {
	return cfg.WorkspaceRoot
}

func provideDeliveryConfig(cfg *config.Config) config.DeliveryConfig {
	return cfg.Delivery
}

func provideMaxWorkers(cfg *config.Config) int {
	return cfg.MaxWorkers
}

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logger
}

func provideDBConfig(cfg *config.Config) *config.DBConfig {
	return cfg.Database
}

func provideSlogLogger(loggerConfig logger.Config) *slog.Logger {
	// A nil writer lets the logger package resolve the destination, with
	// its stdout fallback when the log file cannot be opened.
	return logger.NewLogger(loggerConfig, nil)
}
