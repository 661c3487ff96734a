package domain

import (
	"path/filepath"
	"time"
)

// Config is the configuration surface of a rebundler.
type Config struct {
	// Root is the directory the build operates on.
	Root string
	// Persist enables the durable cache. It only takes effect with a PersistKey.
	Persist bool
	// PersistKey identifies the build configuration owning the durable cache.
	PersistKey string
	// CacheDir overrides the directory snapshots are written to.
	CacheDir string
	// Noop bypasses caching entirely.
	Noop bool
	// FlushWindow is the debounce window for snapshot writes.
	FlushWindow time.Duration
	// Ignore lists directory names skipped by the scan bundler and the watcher.
	Ignore []string
}

// ResolvedCacheDir returns CacheDir, or the default directory under Root.
func (c Config) ResolvedCacheDir() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	root := c.Root
	if root == "" {
		root = "."
	}
	return DefaultCacheDir(root)
}

// ResolvedFlushWindow returns FlushWindow, or DefaultFlushWindow when unset.
func (c Config) ResolvedFlushWindow() time.Duration {
	if c.FlushWindow <= 0 {
		return DefaultFlushWindow
	}
	return c.FlushWindow
}

// PersistEnabled reports whether durable reads and writes may occur.
func (c Config) PersistEnabled() bool {
	return c.Persist && c.PersistKey != ""
}

// SnapshotPath returns the snapshot file for this configuration.
// It returns "" when persistence is disabled.
func (c Config) SnapshotPath() string {
	if !c.PersistEnabled() {
		return ""
	}
	return filepath.Clean(CacheFilePath(c.ResolvedCacheDir(), c.PersistKey))
}
