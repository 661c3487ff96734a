package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebundle/internal/adapters/config"
	"go.trai.ch/rebundle/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeConfig(t, `
version: "1"
root: web
persist: true
persistKey: web-dev
cacheDir: .cache/rebundle
noop: false
flushWindow: 250ms
ignore: ["dist", "*.map"]
`)
	dir := filepath.Dir(path)

	cfg, err := config.NewLoader(nil).Load(path)
	require.NoError(t, err)

	assert.Equal(t, domain.Config{
		Root:        filepath.Join(dir, "web"),
		Persist:     true,
		PersistKey:  "web-dev",
		CacheDir:    filepath.Join(dir, ".cache", "rebundle"),
		FlushWindow: 250 * time.Millisecond,
		Ignore:      []string{"dist", "*.map"},
	}, cfg)
	assert.Equal(t, filepath.Join(dir, ".cache", "rebundle", "cache-web-dev.json"), cfg.SnapshotPath())
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.NewLoader(nil).Load(filepath.Join(dir, domain.ConfigFileName))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Root)
	assert.False(t, cfg.PersistEnabled())
	assert.Equal(t, filepath.Join(dir, domain.DefaultCacheDirName), cfg.ResolvedCacheDir())
	assert.Equal(t, domain.DefaultFlushWindow, cfg.ResolvedFlushWindow())
}

func TestLoader_AbsolutePathsAreKept(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "cache")
	path := writeConfig(t, "cacheDir: "+abs+"\n")

	cfg, err := config.NewLoader(nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.CacheDir)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid yaml", content: "persist: [unterminated"},
		{name: "wrong type", content: "persist: maybe"},
		{name: "bad duration", content: "flushWindow: soon"},
		{name: "negative duration", content: "flushWindow: -1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.NewLoader(nil).Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}
