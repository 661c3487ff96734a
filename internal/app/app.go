// Package app implements the application layer for rebundle.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/rebundle/internal/adapters/scan"     //nolint:depguard // Wired in app layer
	"go.trai.ch/rebundle/internal/adapters/snapshot" //nolint:depguard // Wired in app layer
	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/core/ports"
	"go.trai.ch/rebundle/internal/engine/rebundler"
	"go.trai.ch/zerr"
)

// DefaultWatchWindow is how long file events must be quiet before watch rebuilds.
const DefaultWatchWindow = 150 * time.Millisecond

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	tracer       ports.Tracer
	stater       ports.FileStater
	scans        *scan.Factory
	watchers     ports.WatcherFactory
	out          io.Writer
	watchWindow  time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	logger ports.Logger,
	tracer ports.Tracer,
	stater ports.FileStater,
	scans *scan.Factory,
	watchers ports.WatcherFactory,
) *App {
	return &App{
		configLoader: loader,
		logger:       logger,
		tracer:       tracer,
		stater:       stater,
		scans:        scans,
		watchers:     watchers,
		out:          os.Stdout,
		watchWindow:  DefaultWatchWindow,
	}
}

// WithOutput sets where reports are written.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithWatchWindow sets the quiet period watch waits for before rebuilding.
func (a *App) WithWatchWindow(window time.Duration) *App {
	a.watchWindow = window
	return a
}

// Overrides are command line values applied on top of the configuration file.
type Overrides struct {
	// ConfigPath points at the configuration file. Defaults to Root/.rebundler.yaml.
	ConfigPath string
	// Root is the build root given on the command line.
	Root string
	// Persist overrides the file's persist setting when non-nil.
	Persist    *bool
	PersistKey string
	CacheDir   string
	Noop       bool
}

// Config loads the configuration file and applies o. Root and CacheDir are made absolute.
func (a *App) Config(o Overrides) (domain.Config, error) {
	path := o.ConfigPath
	if path == "" {
		dir := o.Root
		if dir == "" {
			dir = "."
		}
		path = filepath.Join(dir, domain.ConfigFileName)
	}

	cfg, err := a.configLoader.Load(path)
	if err != nil {
		return domain.Config{}, zerr.Wrap(err, "failed to load configuration")
	}

	if o.ConfigPath != "" && o.Root != "" {
		cfg.Root = o.Root
	}
	if o.Persist != nil {
		cfg.Persist = *o.Persist
	}
	if o.PersistKey != "" {
		cfg.PersistKey = o.PersistKey
	}
	if o.CacheDir != "" {
		cfg.CacheDir = o.CacheDir
	}
	if o.Noop {
		cfg.Noop = true
	}

	if cfg.Root, err = filepath.Abs(cfg.Root); err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(err, "failed to resolve build root"), "root", cfg.Root)
	}
	if cfg.CacheDir != "" {
		if cfg.CacheDir, err = filepath.Abs(cfg.CacheDir); err != nil {
			return domain.Config{}, zerr.With(zerr.Wrap(err, "failed to resolve cache directory"), "cacheDir", cfg.CacheDir)
		}
	}
	return cfg, nil
}

// open creates a scan bundler over cfg.Root and the rebundler that caches it.
func (a *App) open(cfg domain.Config) (*rebundler.Rebundler, *scan.Bundler, error) {
	bundler := a.scans.New(cfg.Root, ignores(cfg))
	r, err := rebundler.New(bundler, cfg,
		rebundler.WithLogger(a.logger),
		rebundler.WithTracer(a.tracer),
		rebundler.WithStater(a.stater),
		rebundler.WithSnapshots(openSnapshot),
	)
	if err != nil {
		return nil, nil, err
	}
	return r, bundler, nil
}

// rebuild runs one build to completion.
func (a *App) rebuild(ctx context.Context, r *rebundler.Rebundler, b *scan.Bundler) (Report, error) {
	start := time.Now()

	s, err := r.Rebuild(ctx)
	if err != nil {
		return Report{}, err
	}
	s.Start(ctx)
	if err := s.Wait(); err != nil {
		return Report{}, zerr.Wrap(errors.Join(domain.ErrBuildFailed, err), "build did not complete")
	}

	scanned := b.Stats()
	return Report{
		Deps:     scanned.Hits + scanned.Misses,
		Packages: scanned.Packages,
		Hits:     scanned.Hits,
		Misses:   scanned.Misses,
		Evicted:  r.LastInvalidation().Total(),
		Cached:   r.Stats().Deps,
		Duration: time.Since(start),
	}, nil
}

func openSnapshot(path string) ports.SnapshotStore {
	return snapshot.NewFileStore(path)
}

// snapshotStore returns the snapshot for cfg's key regardless of the persist flag.
func snapshotStore(cfg domain.Config) (*snapshot.FileStore, error) {
	if cfg.PersistKey == "" {
		return nil, zerr.Wrap(domain.ErrInvalidConfig, "a persist key is required")
	}
	return snapshot.NewFileStore(domain.CacheFilePath(cfg.ResolvedCacheDir(), cfg.PersistKey)), nil
}

// ignores extends the configured ignore list with the cache directory.
func ignores(cfg domain.Config) []string {
	out := append([]string{}, cfg.Ignore...)
	return append(out, filepath.Base(cfg.ResolvedCacheDir()))
}
