// Package diffext materializes a pull request's changed files from a cloned
// workspace.
package diffext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/avolkov/review-courier/internal/config"
	"github.com/avolkov/review-courier/internal/core"
	"github.com/avolkov/review-courier/internal/gitcli"
)

// ErrBranchNotFound reports that a PR branch no longer exists on the remote,
// a common state when a branch was deleted or renamed after the PR opened.
var ErrBranchNotFound = errors.New("branch not found on remote")

// Extractor computes the changed-file set between two branches of a cloned
// repository, including per-file diff text and post-change content.
type Extractor struct {
	git    gitcli.Runner
	logger *slog.Logger
}

// NewExtractor returns a new Extractor.
func NewExtractor(git gitcli.Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{git: git, logger: logger}
}

// Extract fetches all remote branches into the workspace, verifies both PR
// branches still exist, and returns every changed file with its status, diff
// and head-side content. A failure on one file is recorded on that file's Err
// field and never aborts the rest of the batch.
func (e *Extractor) Extract(ctx context.Context, workspace, baseBranch, headBranch string) (*core.DiffResult, error) {
	if err := e.git.FetchAll(ctx, workspace); err != nil {
		return nil, fmt.Errorf("failed to fetch remote branches: %w", err)
	}

	if err := e.verifyBranches(ctx, workspace, baseBranch, headBranch); err != nil {
		return nil, err
	}

	baseRef := "origin/" + baseBranch
	headRef := "origin/" + headBranch

	entries, err := e.git.DiffNameStatus(ctx, workspace, baseRef, headRef)
	if err != nil {
		return nil, fmt.Errorf("failed to compute name-status diff %s..%s: %w", baseBranch, headBranch, err)
	}

	// Materialize head-side content on disk before reading individual files.
	if err := e.git.Checkout(ctx, workspace, headRef); err != nil {
		return nil, fmt.Errorf("failed to checkout head branch %q: %w", headBranch, err)
	}

	repoCfg := e.loadRepoConfig(workspace)

	result := &core.DiffResult{BaseRef: baseRef, HeadRef: headRef}
	for _, entry := range entries {
		if excluded(repoCfg, entry.Path) {
			e.logger.DebugContext(ctx, "skipping excluded file", "path", entry.Path)
			continue
		}
		result.Files = append(result.Files, e.extractFile(ctx, workspace, baseRef, headRef, entry))
	}

	e.logger.InfoContext(ctx, "diff extraction complete",
		"base", baseBranch,
		"head", headBranch,
		"files", len(result.Files),
	)
	return result, nil
}

// verifyBranches fails fast with a descriptive error when either PR branch is
// gone from the remote.
func (e *Extractor) verifyBranches(ctx context.Context, workspace, baseBranch, headBranch string) error {
	branches, err := e.git.ListRemoteBranches(ctx, workspace)
	if err != nil {
		return fmt.Errorf("failed to list remote branches: %w", err)
	}

	known := make(map[string]struct{}, len(branches))
	for _, b := range branches {
		known[b] = struct{}{}
	}

	for _, b := range []string{baseBranch, headBranch} {
		if _, ok := known[b]; !ok {
			return fmt.Errorf("%w: %q (it may have been deleted or renamed after the PR was opened)",
				ErrBranchNotFound, b)
		}
	}
	return nil
}

// extractFile retrieves the diff and, for non-deleted files, the head-side
// content for a single changed path. Failures are isolated on the entry.
func (e *Extractor) extractFile(ctx context.Context, workspace, baseRef, headRef string, entry gitcli.NameStatusEntry) core.FileChange {
	fc := core.FileChange{
		Path:   entry.Path,
		Status: core.StatusFromCode(entry.Code),
	}

	diff, err := e.git.DiffFile(ctx, workspace, baseRef, headRef, entry.Path)
	if err != nil {
		e.logger.WarnContext(ctx, "failed to read file diff", "path", entry.Path, "error", err)
		fc.Err = fmt.Sprintf("diff retrieval failed: %v", err)
		return fc
	}
	fc.Diff = diff

	if fc.Status == core.StatusDeleted {
		return fc
	}

	content, err := e.git.ShowFile(ctx, workspace, headRef, entry.Path)
	if err != nil {
		e.logger.WarnContext(ctx, "failed to read file content", "path", entry.Path, "error", err)
		fc.Err = fmt.Sprintf("content retrieval failed: %v", err)
		return fc
	}
	fc.Content = content
	return fc
}

func (e *Extractor) loadRepoConfig(workspace string) *core.RepoConfig {
	cfg, err := config.LoadRepoConfig(workspace)
	if err != nil {
		if !errors.Is(err, config.ErrRepoConfigNotFound) {
			e.logger.Warn("ignoring unreadable repo config", "error", err)
		}
		if cfg == nil {
			cfg = core.DefaultRepoConfig()
		}
	}
	return cfg
}

// excluded applies the repository's own exclusion rules to a changed path.
func excluded(cfg *core.RepoConfig, path string) bool {
	for _, dir := range cfg.ExcludeDirs {
		prefix := strings.TrimSuffix(dir, "/") + "/"
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, e := range cfg.ExcludeExts {
		if strings.TrimPrefix(e, ".") == ext && ext != "" {
			return true
		}
	}
	return false
}
