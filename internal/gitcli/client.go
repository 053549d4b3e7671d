// Package gitcli drives Git through the git executable, exposing the narrow
// set of capabilities the diff pipeline needs.
package gitcli

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// NameStatusEntry is one line of a name-status diff: a change code plus the
// affected path. For renames Path is the new path and OldPath the original.
type NameStatusEntry struct {
	Code    string
	Path    string
	OldPath string
}

// Runner is the capability interface for version-control access. Keeping it
// narrow lets alternate backends replace the subprocess implementation
// without touching the diff extractor.
//
//go:generate mockgen -destination=../mocks/mock_git_runner.go -package=mocks . Runner
type Runner interface {
	Clone(ctx context.Context, repoURL, path, branch string, shallow bool) error
	FetchAll(ctx context.Context, path string) error
	ListRemoteBranches(ctx context.Context, path string) ([]string, error)
	DiffNameStatus(ctx context.Context, path, baseRef, headRef string) ([]NameStatusEntry, error)
	DiffFile(ctx context.Context, path, baseRef, headRef, file string) (string, error)
	Checkout(ctx context.Context, path, ref string) error
	ShowFile(ctx context.Context, path, ref, file string) (string, error)
}

// Client is the subprocess-backed Runner implementation.
type Client struct {
	logger *slog.Logger
}

// NewClient returns a new Client instance.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{logger: logger}
}

// Clone clones a single branch of a repository into path. With shallow set,
// history depth is limited to 1 to keep large repositories fast.
func (c *Client) Clone(ctx context.Context, repoURL, path, branch string, shallow bool) error {
	c.logger.InfoContext(ctx, "cloning repository", "url", Redacted(repoURL), "branch", branch, "path", path)

	args := []string{"-c", "core.longpaths=true", "clone", "--branch", branch}
	if shallow {
		args = append(args, "--depth", "1")
	}
	args = append(args, repoURL, path)

	if out, err := c.run(ctx, "", args...); err != nil {
		return fmt.Errorf("git clone of branch %q failed: %s: %w", branch, out, err)
	}

	// Make sure the result is a repository go-git can open; a truncated
	// clone would otherwise surface much later in the pipeline.
	if _, err := git.PlainOpen(path); err != nil {
		return fmt.Errorf("failed to open cloned repo: %w", err)
	}
	return nil
}

// FetchAll fetches every remote branch into the repository at path, retrying
// transient failures with exponential backoff.
func (c *Client) FetchAll(ctx context.Context, path string) error {
	c.logger.InfoContext(ctx, "fetching all remote branches", "path", path)

	const maxRetries = 3
	const baseDelay = 2 * time.Second

	var err error
	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			delay := baseDelay * time.Duration(1<<(i-1))
			c.logger.WarnContext(ctx, "git fetch failed, retrying",
				"attempt", i,
				"max_retries", maxRetries,
				"delay", delay,
				"error", err,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		var out string
		if out, err = c.run(ctx, path, "fetch", "origin", "--force", "+refs/heads/*:refs/remotes/origin/*"); err != nil {
			err = fmt.Errorf("git fetch failed: %s: %w", out, err)
			continue
		}
		return nil
	}
	return err
}

// ListRemoteBranches returns the names of all origin branches known to the
// repository at path, without the "origin/" prefix. It uses go-git's
// reference iteration instead of parsing porcelain output.
func (c *Client) ListRemoteBranches(_ context.Context, path string) ([]string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}

	refs, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}

	var branches []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		if name.IsRemote() {
			short := strings.TrimPrefix(name.String(), "refs/remotes/origin/")
			if short != "HEAD" {
				branches = append(branches, short)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}
	return branches, nil
}

// DiffNameStatus reports the changed-file list between two refs, preserving
// the order git emits.
func (c *Client) DiffNameStatus(ctx context.Context, path, baseRef, headRef string) ([]NameStatusEntry, error) {
	out, err := c.run(ctx, path, "diff", "--name-status", baseRef, headRef)
	if err != nil {
		return nil, fmt.Errorf("git diff --name-status %s %s failed: %s: %w", baseRef, headRef, out, err)
	}
	return ParseNameStatus(out), nil
}

// DiffFile returns the unified diff between two refs scoped to a single file.
func (c *Client) DiffFile(ctx context.Context, path, baseRef, headRef, file string) (string, error) {
	out, err := c.run(ctx, path, "diff", baseRef, headRef, "--", file)
	if err != nil {
		return "", fmt.Errorf("git diff for %s failed: %s: %w", file, out, err)
	}
	return out, nil
}

// Checkout switches the repository's worktree to a ref.
func (c *Client) Checkout(ctx context.Context, path, ref string) error {
	c.logger.InfoContext(ctx, "checking out ref", "ref", ref)

	if out, err := c.run(ctx, path, "checkout", "--force", ref); err != nil {
		return fmt.Errorf("git checkout of %q failed: %s: %w", ref, out, err)
	}
	return nil
}

// ShowFile reads a file's content as of the given ref.
func (c *Client) ShowFile(ctx context.Context, path, ref, file string) (string, error) {
	out, err := c.run(ctx, path, "show", ref+":"+file)
	if err != nil {
		return "", fmt.Errorf("git show %s:%s failed: %s: %w", ref, file, out, err)
	}
	return out, nil
}

// run executes git with longpaths enabled and returns the combined output.
// Stderr chatter such as "Cloning into ..." only matters on a non-zero exit.
func (c *Client) run(ctx context.Context, dir string, args ...string) (string, error) {
	full := append([]string{"-c", "core.longpaths=true"}, args...)
	cmd := commandContext(ctx, "git", full...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return strings.TrimSpace(string(out)), err
	}
	return string(out), nil
}

// ParseNameStatus parses `git diff --name-status` output. Lines are
// tab-separated: code, path, and for renames the new path as a third field.
func ParseNameStatus(out string) []NameStatusEntry {
	var entries []NameStatusEntry
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		entry := NameStatusEntry{Code: fields[0], Path: fields[1]}
		if len(fields) >= 3 {
			entry.OldPath = fields[1]
			entry.Path = fields[2]
		}
		entries = append(entries, entry)
	}
	return entries
}

// AuthURL injects token credentials into an HTTP(S) clone URL. Local paths
// pass through untouched; non-HTTP schemes are rejected.
func AuthURL(repoURL, token string) (string, error) {
	if !strings.Contains(repoURL, "://") {
		return repoURL, nil
	}
	if !strings.HasPrefix(repoURL, "https://") && !strings.HasPrefix(repoURL, "http://") {
		return "", fmt.Errorf("invalid repository URL: %s", repoURL)
	}
	parsed, err := url.Parse(repoURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse repository URL %q: %w", repoURL, err)
	}
	if token != "" {
		parsed.User = url.UserPassword("x-access-token", token)
	}
	return parsed.String(), nil
}

// Redacted strips userinfo from a URL for logging.
func Redacted(repoURL string) string {
	parsed, err := url.Parse(repoURL)
	if err != nil || parsed.User == nil {
		return repoURL
	}
	parsed.User = nil
	return parsed.String()
}

// ParsePullRequestURL parses a pull request URL and extracts the host, owner,
// repo, and PR number. Supported formats:
//
//	https://gitee.com/{owner}/{repo}/pulls/{number}
//	https://github.com/{owner}/{repo}/pull/{number}
func ParsePullRequestURL(raw string) (host, owner, repo string, prNumber int, err error) {
	raw = strings.TrimSuffix(raw, "/")
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", "", 0, fmt.Errorf("invalid pull request URL: %w", err)
	}

	segs := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segs) != 4 || (segs[2] != "pull" && segs[2] != "pulls") {
		return "", "", "", 0, fmt.Errorf("invalid pull request URL format: %s", raw)
	}

	prNumber, err = strconv.Atoi(segs[3])
	if err != nil {
		return "", "", "", 0, fmt.Errorf("invalid PR number %q: %w", segs[3], err)
	}
	return parsed.Host, segs[0], segs[1], prNumber, nil
}
