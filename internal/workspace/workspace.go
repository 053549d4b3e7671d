// Package workspace manages the isolated on-disk clone a single review
// operation works in.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/avolkov/review-courier/internal/gitcli"
)

// Manager acquires and releases per-operation clone directories. Directories
// are uniquely named, so concurrent operations never collide on disk.
type Manager struct {
	git    gitcli.Runner
	root   string
	logger *slog.Logger
}

// NewManager returns a Manager that creates workspaces under root. An empty
// root means the system temp directory.
func NewManager(git gitcli.Runner, root string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{git: git, root: root, logger: logger}
}

// Acquire creates a fresh workspace directory and clones the given branch
// into it. A failed clone removes the partial directory before the error is
// returned, so callers never see a half-built workspace.
func (m *Manager) Acquire(ctx context.Context, repoURL, branch string, shallow bool) (string, error) {
	path, err := os.MkdirTemp(m.root, "review-courier-*")
	if err != nil {
		return "", fmt.Errorf("failed to create workspace directory: %w", err)
	}

	if err := m.git.Clone(ctx, repoURL, path, branch, shallow); err != nil {
		m.Release(path)
		return "", fmt.Errorf("failed to clone %s into workspace: %w", gitcli.Redacted(repoURL), err)
	}

	m.logger.InfoContext(ctx, "workspace ready", "path", path, "branch", branch, "shallow", shallow)
	return path, nil
}

// Release removes the workspace tree. It is safe to call on a path that was
// never fully acquired; a missing directory is a no-op.
func (m *Manager) Release(path string) {
	if path == "" {
		return
	}
	if err := os.RemoveAll(path); err != nil {
		m.logger.Error("failed to remove workspace", "path", path, "error", err)
		return
	}
	m.logger.Debug("workspace removed", "path", path)
}
