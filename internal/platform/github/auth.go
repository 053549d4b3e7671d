package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gh "github.com/google/go-github/v73/github"

	"github.com/avolkov/review-courier/internal/platform"
)

// NewInstallationClient creates a platform client authenticated as a GitHub
// App installation. It returns the client plus the raw installation token,
// which the git subprocess layer needs for authenticated clones.
func NewInstallationClient(ctx context.Context, appID int64, privateKeyPath string, installationID int64, logger *slog.Logger) (platform.Client, string, error) {
	privateKey, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read private key from %s: %w", privateKeyPath, err)
	}

	appTransport, err := ghinstallation.NewAppsTransport(http.DefaultTransport, appID, privateKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create GitHub App transport: %w", err)
	}
	appClient := gh.NewClient(&http.Client{Transport: appTransport})

	token, _, err := appClient.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create installation token for installation ID %d: %w", installationID, err)
	}
	if token.GetToken() == "" {
		return nil, "", fmt.Errorf("received an empty installation token")
	}
	logger.Info("created installation token",
		"installation_id", installationID, "expires_at", token.GetExpiresAt())

	return NewPATClient(ctx, token.GetToken(), logger), token.GetToken(), nil
}
