package diffext

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/avolkov/review-courier/internal/core"
	"github.com/avolkov/review-courier/internal/gitcli"
	"github.com/avolkov/review-courier/internal/mocks"
)

func testExtractor(t *testing.T) (*Extractor, *mocks.MockRunner) {
	t.Helper()
	ctrl := gomock.NewController(t)
	git := mocks.NewMockRunner(ctrl)
	return NewExtractor(git, slog.New(slog.NewTextHandler(io.Discard, nil))), git
}

func TestExtract(t *testing.T) {
	e, git := testExtractor(t)
	ws := t.TempDir()

	git.EXPECT().FetchAll(gomock.Any(), ws).Return(nil)
	git.EXPECT().ListRemoteBranches(gomock.Any(), ws).Return([]string{"main", "feature/x"}, nil)
	git.EXPECT().DiffNameStatus(gomock.Any(), ws, "origin/main", "origin/feature/x").Return([]gitcli.NameStatusEntry{
		{Code: "A", Path: "new.go"},
		{Code: "M", Path: "changed.go"},
		{Code: "D", Path: "gone.go"},
		{Code: "R100", Path: "renamed.go", OldPath: "old.go"},
	}, nil)
	git.EXPECT().Checkout(gomock.Any(), ws, "origin/feature/x").Return(nil)

	git.EXPECT().DiffFile(gomock.Any(), ws, "origin/main", "origin/feature/x", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, _, file string) (string, error) {
			return "diff of " + file, nil
		}).Times(4)
	// Deleted files have no head-side content to read.
	git.EXPECT().ShowFile(gomock.Any(), ws, "origin/feature/x", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, file string) (string, error) {
			return "content of " + file, nil
		}).Times(3)

	result, err := e.Extract(context.Background(), ws, "main", "feature/x")

	require.NoError(t, err)
	assert.Equal(t, "origin/main", result.BaseRef)
	assert.Equal(t, "origin/feature/x", result.HeadRef)
	require.Len(t, result.Files, 4)

	assert.Equal(t, core.StatusAdded, result.Files[0].Status)
	assert.Equal(t, "diff of new.go", result.Files[0].Diff)
	assert.Equal(t, "content of new.go", result.Files[0].Content)

	deleted := result.Files[2]
	assert.Equal(t, core.StatusDeleted, deleted.Status)
	assert.Empty(t, deleted.Content)

	renamed := result.Files[3]
	assert.Equal(t, core.StatusRenamed, renamed.Status)
	assert.Equal(t, "renamed.go", renamed.Path)
}

func TestExtractMissingBranch(t *testing.T) {
	e, git := testExtractor(t)
	ws := t.TempDir()

	git.EXPECT().FetchAll(gomock.Any(), ws).Return(nil)
	git.EXPECT().ListRemoteBranches(gomock.Any(), ws).Return([]string{"main"}, nil)

	_, err := e.Extract(context.Background(), ws, "main", "feature/x")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBranchNotFound)
	assert.Contains(t, err.Error(), "deleted or renamed after the PR was opened")
}

func TestExtractFetchFailure(t *testing.T) {
	e, git := testExtractor(t)
	ws := t.TempDir()

	git.EXPECT().FetchAll(gomock.Any(), ws).Return(errors.New("network down"))

	_, err := e.Extract(context.Background(), ws, "main", "feature/x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch remote branches")
}

func TestExtractIsolatesPerFileFailures(t *testing.T) {
	e, git := testExtractor(t)
	ws := t.TempDir()

	entries := []gitcli.NameStatusEntry{
		{Code: "M", Path: "ok1.go"},
		{Code: "M", Path: "bad-diff.go"},
		{Code: "M", Path: "bad-content.go"},
		{Code: "M", Path: "ok2.go"},
		{Code: "M", Path: "ok3.go"},
	}

	git.EXPECT().FetchAll(gomock.Any(), ws).Return(nil)
	git.EXPECT().ListRemoteBranches(gomock.Any(), ws).Return([]string{"main", "dev"}, nil)
	git.EXPECT().DiffNameStatus(gomock.Any(), ws, "origin/main", "origin/dev").Return(entries, nil)
	git.EXPECT().Checkout(gomock.Any(), ws, "origin/dev").Return(nil)

	git.EXPECT().DiffFile(gomock.Any(), ws, "origin/main", "origin/dev", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, _, file string) (string, error) {
			if file == "bad-diff.go" {
				return "", errors.New("binary file")
			}
			return "diff", nil
		}).Times(5)
	git.EXPECT().ShowFile(gomock.Any(), ws, "origin/dev", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, file string) (string, error) {
			if file == "bad-content.go" {
				return "", errors.New("object not found")
			}
			return "content", nil
		}).Times(4)

	result, err := e.Extract(context.Background(), ws, "main", "dev")

	require.NoError(t, err)
	// One failing file must not shrink the batch: all five entries survive.
	require.Len(t, result.Files, 5)

	byPath := make(map[string]core.FileChange, len(result.Files))
	for _, fc := range result.Files {
		byPath[fc.Path] = fc
	}
	assert.Contains(t, byPath["bad-diff.go"].Err, "diff retrieval failed")
	assert.Contains(t, byPath["bad-content.go"].Err, "content retrieval failed")
	assert.Empty(t, byPath["ok1.go"].Err)
	assert.Empty(t, byPath["ok2.go"].Err)
	assert.Empty(t, byPath["ok3.go"].Err)
}

func TestExtractAppliesRepoExclusions(t *testing.T) {
	e, git := testExtractor(t)
	ws := t.TempDir()

	repoCfg := "exclude_dirs:\n  - dist\nexclude_exts:\n  - .lock\n"
	require.NoError(t, os.WriteFile(filepath.Join(ws, ".review-courier.yml"), []byte(repoCfg), 0600))

	entries := []gitcli.NameStatusEntry{
		{Code: "M", Path: "dist/bundle.js"},
		{Code: "M", Path: "go.lock"},
		{Code: "M", Path: "kept.go"},
	}

	git.EXPECT().FetchAll(gomock.Any(), ws).Return(nil)
	git.EXPECT().ListRemoteBranches(gomock.Any(), ws).Return([]string{"main", "dev"}, nil)
	git.EXPECT().DiffNameStatus(gomock.Any(), ws, "origin/main", "origin/dev").Return(entries, nil)
	git.EXPECT().Checkout(gomock.Any(), ws, "origin/dev").Return(nil)
	git.EXPECT().DiffFile(gomock.Any(), ws, "origin/main", "origin/dev", "kept.go").Return("diff", nil)
	git.EXPECT().ShowFile(gomock.Any(), ws, "origin/dev", "kept.go").Return("content", nil)

	result, err := e.Extract(context.Background(), ws, "main", "dev")

	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "kept.go", result.Files[0].Path)
}

func TestExcluded(t *testing.T) {
	cfg := &core.RepoConfig{
		ExcludeDirs: []string{"vendor", "docs/"},
		ExcludeExts: []string{".md", "log"},
	}

	tests := []struct {
		path     string
		expected bool
	}{
		{"vendor/pkg/mod.go", true},
		{"docs/guide.txt", true},
		{"README.md", true},
		{"server.log", true},
		{"vendored.go", false},
		{"internal/api.go", false},
		{"Makefile", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, excluded(cfg, tt.path))
		})
	}
}
