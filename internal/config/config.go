// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/avolkov/review-courier/internal/logger"
)

// DBConfig holds the Postgres connection settings for the review tracker.
type DBConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// minSplitLimit keeps the working split limit comfortably above the room
// the splitter reserves per part for headers and footers.
const minSplitLimit = 128

// DeliveryConfig bounds comment delivery for the destination platform.
type DeliveryConfig struct {
	// MaxCommentLen is the platform's hard comment-length ceiling.
	MaxCommentLen int
	// SplitLimit is the working limit used when splitting oversized
	// comments, kept below MaxCommentLen to leave room for part decoration.
	SplitLimit int
	// PartDelay is the pause between sequential part sends.
	PartDelay time.Duration
}

// Config holds the application's configuration values.
type Config struct {
	ServerPort string
	Logger     logger.Config

	// Platform selects the destination backend: "gitee" or "github".
	Platform string
	// Host identifies the platform instance for tracker records.
	Host string

	GiteeBaseURL string
	GiteeToken   string

	GitHubToken          string
	GitHubAppID          int64
	GitHubInstallationID int64
	GitHubPrivateKeyPath string

	// FeedbackURL is the endpoint of the external feedback generator.
	FeedbackURL   string
	FeedbackToken string

	// WorkspaceRoot is where per-review clone directories are created.
	// Empty means the system temp directory.
	WorkspaceRoot string
	ShallowClone  bool

	Delivery   DeliveryConfig
	MaxWorkers int
	Database   *DBConfig
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields. It uses the Viper
// library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	v := viper.GetViper()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("PLATFORM", "gitee")
	v.SetDefault("PLATFORM_HOST", "gitee.com")
	v.SetDefault("GITEE_BASE_URL", "https://gitee.com/api/v5")
	v.SetDefault("MAX_COMMENT_LEN", 8000)
	v.SetDefault("COMMENT_SPLIT_LIMIT", 7500)
	v.SetDefault("PART_DELAY_MS", 1000)
	v.SetDefault("MAX_WORKERS", 5)
	v.SetDefault("SHALLOW_CLONE", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "courier")
	v.SetDefault("DB_NAME", "review_courier")
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")

	// A missing .env is fine; a broken one is not. With SetConfigFile the
	// missing-file case surfaces as a plain path error, not viper's
	// ConfigFileNotFoundError.
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		ServerPort: v.GetString("SERVER_PORT"),
		Logger: logger.Config{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
		},
		Platform:             v.GetString("PLATFORM"),
		Host:                 v.GetString("PLATFORM_HOST"),
		GiteeBaseURL:         v.GetString("GITEE_BASE_URL"),
		GiteeToken:           v.GetString("GITEE_TOKEN"),
		GitHubToken:          v.GetString("GITHUB_TOKEN"),
		GitHubAppID:          v.GetInt64("GITHUB_APP_ID"),
		GitHubInstallationID: v.GetInt64("GITHUB_INSTALLATION_ID"),
		GitHubPrivateKeyPath: v.GetString("GITHUB_PRIVATE_KEY_PATH"),
		FeedbackURL:          v.GetString("FEEDBACK_URL"),
		FeedbackToken:        v.GetString("FEEDBACK_TOKEN"),
		WorkspaceRoot:        v.GetString("WORKSPACE_ROOT"),
		ShallowClone:         v.GetBool("SHALLOW_CLONE"),
		Delivery: DeliveryConfig{
			MaxCommentLen: v.GetInt("MAX_COMMENT_LEN"),
			SplitLimit:    v.GetInt("COMMENT_SPLIT_LIMIT"),
			PartDelay:     time.Duration(v.GetInt("PART_DELAY_MS")) * time.Millisecond,
		},
		MaxWorkers: v.GetInt("MAX_WORKERS"),
		Database: &DBConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			Username:        v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Database:        v.GetString("DB_NAME"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks platform credentials and delivery limits for consistency.
func (c *Config) Validate() error {
	switch c.Platform {
	case "gitee":
		if c.GiteeToken == "" {
			return fmt.Errorf("GITEE_TOKEN must be set for the gitee platform")
		}
	case "github":
		if c.GitHubToken == "" && c.GitHubAppID == 0 {
			return fmt.Errorf("GITHUB_TOKEN or GITHUB_APP_ID must be set for the github platform")
		}
		if c.GitHubAppID != 0 && c.GitHubPrivateKeyPath == "" {
			return fmt.Errorf("GITHUB_PRIVATE_KEY_PATH must be set when GITHUB_APP_ID is used")
		}
		if c.GitHubAppID != 0 && c.GitHubInstallationID == 0 {
			return fmt.Errorf("GITHUB_INSTALLATION_ID must be set when GITHUB_APP_ID is used")
		}
	default:
		return fmt.Errorf("unsupported platform: %q", c.Platform)
	}

	if c.FeedbackURL == "" {
		return fmt.Errorf("FEEDBACK_URL must be set")
	}
	if c.Delivery.MaxCommentLen <= 0 {
		return fmt.Errorf("MAX_COMMENT_LEN must be positive, got %d", c.Delivery.MaxCommentLen)
	}
	if c.Delivery.SplitLimit < minSplitLimit || c.Delivery.SplitLimit > c.Delivery.MaxCommentLen {
		return fmt.Errorf("COMMENT_SPLIT_LIMIT must be within [%d, %d], got %d",
			minSplitLimit, c.Delivery.MaxCommentLen, c.Delivery.SplitLimit)
	}
	return nil
}
