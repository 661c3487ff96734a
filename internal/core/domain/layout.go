package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	// DefaultCacheDirName is the cache directory created under the build root.
	DefaultCacheDirName = ".rebundler-cache"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = ".rebundler.yaml"

	// CacheFilePrefix prefixes every snapshot file name.
	CacheFilePrefix = "cache-"

	// CacheFileExt is the snapshot file extension.
	CacheFileExt = ".json"

	// DefaultFlushWindow is the debounce window for snapshot writes.
	DefaultFlushWindow = time.Second

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

var safeKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// DefaultCacheDir returns the default cache directory for a build root.
func DefaultCacheDir(root string) string {
	return filepath.Join(root, DefaultCacheDirName)
}

// CacheFileName returns the snapshot file name for a persist key.
// Keys that are not safe as file names are replaced by their xxhash64 digest,
// so the mapping stays deterministic.
func CacheFileName(key string) string {
	if !safeKey.MatchString(key) || key == "." || key == ".." {
		key = KeyDigest(key)
	}
	return CacheFilePrefix + key + CacheFileExt
}

// CacheFilePath joins the cache directory and the snapshot file name for key.
func CacheFilePath(dir, key string) string {
	return filepath.Join(dir, CacheFileName(key))
}

// KeyDigest returns the 16 hex digit xxhash64 digest of a persist key.
func KeyDigest(key string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(key))
}
