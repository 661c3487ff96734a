// Package config provides the configuration loader for rebundle.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the configuration at path. A missing file yields defaults rooted
// at the file's directory. Relative root and cache directories are resolved
// against that directory.
func (l *Loader) Load(path string) (domain.Config, error) {
	dir := filepath.Dir(path)
	cfg := domain.Config{Root: dir}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if l.logger != nil {
				l.logger.Debug("no configuration file, using defaults", "path", path)
			}
			return cfg, nil
		}
		return domain.Config{}, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	var file Rebundlerfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(errors.Join(domain.ErrInvalidConfig, err), "failed to parse config file"), "path", path)
	}

	if file.Root != "" {
		cfg.Root = resolve(dir, file.Root)
	}
	if file.CacheDir != "" {
		cfg.CacheDir = resolve(dir, file.CacheDir)
	}
	cfg.Persist = file.Persist
	cfg.PersistKey = file.PersistKey
	cfg.Noop = file.Noop
	cfg.Ignore = file.Ignore

	if file.FlushWindow != "" {
		window, err := time.ParseDuration(file.FlushWindow)
		if err != nil || window <= 0 {
			return domain.Config{}, zerr.With(
				zerr.Wrap(domain.ErrInvalidConfig, "flushWindow must be a positive duration"),
				"flushWindow", file.FlushWindow,
			)
		}
		cfg.FlushWindow = window
	}

	return cfg, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
