// Package persist connects the in-memory cache store to durable snapshots.
package persist

import (
	"encoding/json"
	"errors"
	"io/fs"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/core/ports"
	"go.trai.ch/rebundle/internal/engine/cache"
	"go.trai.ch/rebundle/internal/engine/debounce"
)

// MissingKeyWarning is logged when persistence is requested without a persist key.
const MissingKeyWarning = `rebundler was configured with "persist: true" but no persist key. ` +
	`Without a key the cache cannot be invalidated when the bundle options change between ` +
	`process restarts, so no cache will be restored or written for this build.`

// Persister restores the cache at startup and writes it back, debounced, after builds.
type Persister struct {
	snapshots ports.SnapshotStore
	logger    ports.Logger
	debouncer *debounce.Debouncer

	mu          sync.Mutex
	store       *cache.Store
	fingerprint uint64
	written     bool
	writes      int
	err         error
}

// New creates a persister writing through snapshots. A nil snapshots store
// disables persistence: Load yields an empty cache and flushes do nothing.
func New(snapshots ports.SnapshotStore, logger ports.Logger, window time.Duration) *Persister {
	p := &Persister{
		snapshots: snapshots,
		logger:    logger,
	}
	if window <= 0 {
		window = domain.DefaultFlushWindow
	}
	p.debouncer = debounce.New(window, func([]string) {
		// Failures are remembered in p.err and surfaced by the next Flush or Err.
		_ = p.write()
	})
	return p
}

// Configure builds a persister from cfg, opening snapshots through open.
// Persist without a key logs MissingKeyWarning and disables persistence.
func Configure(cfg domain.Config, logger ports.Logger, open func(path string) ports.SnapshotStore) *Persister {
	if cfg.Persist && cfg.PersistKey == "" {
		logger.Warn(MissingKeyWarning)
	}
	var snapshots ports.SnapshotStore
	if cfg.PersistEnabled() {
		snapshots = open(cfg.SnapshotPath())
	}
	return New(snapshots, logger, cfg.ResolvedFlushWindow())
}

// Enabled reports whether snapshots are read and written.
func (p *Persister) Enabled() bool {
	return p.snapshots != nil
}

// Path returns the snapshot location, or "" when persistence is disabled.
func (p *Persister) Path() string {
	if p.snapshots == nil {
		return ""
	}
	return p.snapshots.Path()
}

// Load restores the cache store from the snapshot and binds it for later flushes.
// A missing snapshot yields an empty store silently; a corrupt or unreadable
// one yields an empty store and a warning.
func (p *Persister) Load() *cache.Store {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.store = cache.New()
	if p.snapshots == nil {
		return p.store
	}

	snap, err := p.snapshots.Read()
	switch {
	case err == nil:
		p.store = cache.FromSnapshot(snap)
		p.fingerprint, p.written = fingerprint(snap), true
		p.logger.Debug("restored cache",
			"deps", len(snap.Deps),
			"pkgs", len(snap.Pkgs),
			"path", p.snapshots.Path(),
		)
	case errors.Is(err, fs.ErrNotExist):
		p.logger.Debug("no cache snapshot found", "path", p.snapshots.Path())
	default:
		p.logger.Warn("ignoring unreadable cache snapshot", "path", p.snapshots.Path(), "error", err)
	}
	return p.store
}

// Bind attaches store without reading the snapshot.
func (p *Persister) Bind(store *cache.Store) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.store = store
}

// Schedule requests a flush once the debounce window has been quiet.
func (p *Persister) Schedule() {
	if p.snapshots == nil {
		return
	}
	p.debouncer.Add(p.snapshots.Path())
}

// Flush writes the current store state immediately, cancelling any scheduled flush.
func (p *Persister) Flush() error {
	if p.snapshots == nil {
		return nil
	}
	p.debouncer.Cancel()
	return p.write()
}

// Close flushes synchronously and stops the debouncer. Later schedules are ignored.
func (p *Persister) Close() error {
	if p.snapshots == nil {
		return p.Err()
	}
	p.debouncer.Stop()
	if err := p.write(); err != nil {
		return err
	}
	return p.Err()
}

// Err returns the first write failure, if any.
func (p *Persister) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// TakeErr returns the first write failure and clears it.
func (p *Persister) TakeErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.err
	p.err = nil
	return err
}

// Writes returns how many snapshots have been written.
func (p *Persister) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

func (p *Persister) write() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.store == nil {
		return nil
	}
	snap := p.store.Snapshot()
	sum := fingerprint(snap)
	if p.written && sum == p.fingerprint {
		return nil
	}

	if err := p.snapshots.Write(snap); err != nil {
		if p.err == nil {
			p.err = err
		}
		p.logger.Error(err)
		return err
	}
	p.fingerprint, p.written = sum, true
	p.writes++
	p.logger.Debug("wrote cache",
		"deps", len(snap.Deps),
		"pkgs", len(snap.Pkgs),
		"path", p.snapshots.Path(),
	)
	return nil
}

func fingerprint(snap domain.Snapshot) uint64 {
	data, err := json.Marshal(snap)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}
