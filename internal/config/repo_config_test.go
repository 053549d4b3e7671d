package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRepoConfig(t *testing.T) {
	dir := t.TempDir()
	content := "exclude_dirs:\n  - dist\n  - vendor\nexclude_exts:\n  - .lock\n  - md\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".review-courier.yml"), []byte(content), 0600))

	cfg, err := LoadRepoConfig(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{"dist", "vendor"}, cfg.ExcludeDirs)
	assert.Equal(t, []string{".lock", "md"}, cfg.ExcludeExts)
}

func TestLoadRepoConfigMissingFile(t *testing.T) {
	cfg, err := LoadRepoConfig(t.TempDir())

	require.ErrorIs(t, err, ErrRepoConfigNotFound)
	// Defaults still come back so callers can proceed without branching.
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.ExcludeDirs)
	assert.Empty(t, cfg.ExcludeExts)
}

func TestLoadRepoConfigMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".review-courier.yml"), []byte("exclude_dirs: {broken"), 0600))

	_, err := LoadRepoConfig(dir)

	require.ErrorIs(t, err, ErrRepoConfigParsing)
}
