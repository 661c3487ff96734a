// Package rebundler wraps a bundler with an mtime-validated, optionally persistent cache.
package rebundler

import (
	"context"
	"errors"
	"sync"

	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/core/ports"
	"go.trai.ch/rebundle/internal/engine/cache"
	"go.trai.ch/rebundle/internal/engine/invalidate"
	"go.trai.ch/rebundle/internal/engine/persist"
	"go.trai.ch/zerr"
)

// Rebundler owns the cache for one bundler configuration.
type Rebundler struct {
	bundler       ports.Bundler
	cfg           domain.Config
	logger        ports.Logger
	tracer        ports.Tracer
	stater        ports.FileStater
	openSnapshots func(path string) ports.SnapshotStore

	store     *cache.Store
	pass      *invalidate.Pass
	persister *persist.Persister

	mu       sync.Mutex
	state    State
	current  *build
	last     invalidate.Result
	deferred error
	builds   int
	closed   bool
}

// build tracks a single rebuild invocation from bundler call to commit or abandonment.
type build struct {
	id     int
	ctx    context.Context //nolint:containedctx // Parent of the commit span, which starts after Rebuild returns
	stream ports.BuildStream
	txn    *cache.Txn
	span   ports.Span
	// active is set by the first event; Done alone cannot tell an unstarted stream from a running one.
	active bool
}

// New creates a Rebundler. The snapshot, if persistence is enabled, is read here.
func New(bundler ports.Bundler, cfg domain.Config, opts ...Option) (*Rebundler, error) {
	if bundler == nil {
		return nil, domain.ErrNilBundler
	}

	r := &Rebundler{
		bundler: bundler,
		cfg:     cfg,
		logger:  nopLogger{},
		tracer:  nopTracer{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.stater == nil && !cfg.Noop {
		return nil, zerr.Wrap(domain.ErrInvalidConfig, "a file stater is required")
	}
	if r.openSnapshots == nil && cfg.PersistEnabled() && !cfg.Noop {
		return nil, zerr.Wrap(domain.ErrInvalidConfig, "persistence requires a snapshot store")
	}

	r.pass = invalidate.New(r.stater)
	if cfg.Noop {
		r.persister = persist.New(nil, r.logger, cfg.ResolvedFlushWindow())
		r.store = cache.New()
		r.persister.Bind(r.store)
		return r, nil
	}
	r.persister = persist.Configure(cfg, r.logger, r.openSnapshots)
	r.store = r.persister.Load()
	return r, nil
}

// Rebuild runs the invalidation pass and hands the surviving cache to the bundler.
// The returned stream is the bundler's own and must be started by the caller;
// completion handlers registered on it observe the committed cache.
func (r *Rebundler) Rebuild(ctx context.Context) (ports.BuildStream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, domain.ErrRebundlerClosed
	}
	if r.cfg.Noop {
		r.logger.Debug("rebuilding without cache")
		return r.bundler.Bundle(ctx, map[string]domain.Record{}, map[string]domain.Record{})
	}
	if r.inFlight() {
		return nil, domain.ErrBuildInFlight
	}
	if err := r.takeDeferred(); err != nil {
		return nil, err
	}
	if prev := r.current; prev != nil {
		// Never started; its transaction is superseded by the Begin below.
		prev.span.SetAttribute("build.superseded", true)
		prev.span.End()
		r.current = nil
	}

	r.builds++
	ctx, span := r.tracer.Start(ctx, "rebuild")
	span.SetAttribute("rebuild.id", r.builds)

	r.state = Invalidating
	res, err := r.invalidate(ctx)
	r.last = res
	if err != nil {
		r.state = Abandoned
		span.RecordError(err)
		span.End()
		return nil, err
	}

	deps, pkgs := r.store.Deps(), r.store.Pkgs()
	span.SetAttribute("cache.deps", len(deps))
	span.SetAttribute("cache.pkgs", len(pkgs))
	r.logger.Debug("rebuilding", "deps", len(deps), "pkgs", len(pkgs), "evicted", res.Total())

	b := &build{id: r.builds, ctx: ctx, span: span, txn: r.store.Begin(r.stater)}
	r.state = Bundling
	r.current = b

	_, bundleSpan := r.tracer.Start(ctx, "bundle")
	s, err := r.bundler.Bundle(ctx, deps, pkgs)
	bundleSpan.End()
	if err == nil && started(s) {
		err = domain.ErrStreamStarted
	}
	if err != nil {
		b.txn.Discard()
		r.current = nil
		r.state = Abandoned
		err = errors.Join(domain.ErrBuildFailed, err)
		span.RecordError(err)
		span.End()
		return nil, err
	}

	b.stream = s
	s.OnDep(func(rec domain.Record) { r.stage(b, rec) })
	s.OnPackage(func(rec domain.Record) { r.stagePackage(b, rec) })
	s.OnComplete(func() { r.commit(b) })
	s.OnError(func(err error) { r.abandon(b, err) })
	return s, nil
}

func (r *Rebundler) invalidate(ctx context.Context) (invalidate.Result, error) {
	_, span := r.tracer.Start(ctx, "invalidate")
	defer span.End()

	res, err := r.pass.Run(r.store)
	span.SetAttribute("invalidate.checked", res.Checked)
	span.SetAttribute("invalidate.evicted", res.Total())
	if err != nil {
		span.RecordError(err)
		return res, err
	}
	for _, id := range res.Evicted {
		r.logger.Debug("file changed since previous build, invalidating", "path", id)
	}
	for _, id := range res.Removed {
		r.logger.Debug("file removed since previous build, invalidating", "path", id)
	}
	return res, nil
}

func (r *Rebundler) stage(b *build, rec domain.Record) {
	r.mu.Lock()
	b.active = true
	r.mu.Unlock()

	if err := b.txn.Stage(rec); err != nil {
		r.logger.Error(err)
		r.recordFailure(b, err)
		return
	}
	r.persister.Schedule()
}

func (r *Rebundler) stagePackage(b *build, rec domain.Record) {
	r.mu.Lock()
	b.active = true
	r.mu.Unlock()

	if err := b.txn.StagePackage(rec); err != nil {
		r.logger.Error(err)
		r.recordFailure(b, err)
	}
}

func (r *Rebundler) commit(b *build) {
	defer b.span.End()

	_, span := r.tracer.Start(b.ctx, "commit")
	err := b.txn.Commit()
	span.SetAttribute("commit.staged", b.txn.Staged())
	if err != nil {
		span.RecordError(err)
	}
	span.End()

	r.mu.Lock()
	if r.current == b {
		r.current = nil
		if err != nil {
			r.state = Abandoned
		} else {
			r.state = Committed
		}
	}
	closed := r.closed
	r.mu.Unlock()

	b.span.SetAttribute("build.staged", b.txn.Staged())
	if err != nil {
		// Either superseded or poisoned by a staging failure that is already recorded.
		b.span.RecordError(err)
		r.logger.Debug("discarding staged cache entries", "build", b.id, "error", err)
		return
	}
	r.logger.Debug("committed cache", "build", b.id, "staged", b.txn.Staged())
	if closed {
		// The debouncer is stopped once Close returns.
		if err := r.persister.Flush(); err != nil {
			r.logger.Error(err)
		}
		return
	}
	r.persister.Schedule()
}

func (r *Rebundler) abandon(b *build, err error) {
	defer b.span.End()
	b.txn.Discard()
	b.span.RecordError(err)

	r.mu.Lock()
	if r.current == b {
		r.current = nil
		r.state = Abandoned
	}
	r.mu.Unlock()
	r.logger.Debug("build did not complete, keeping previous cache", "build", b.id, "error", err)
}

// recordFailure remembers a fatal error so the next Rebuild or Close returns it.
func (r *Rebundler) recordFailure(b *build, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deferred == nil {
		r.deferred = zerr.With(err, "build", b.id)
	}
}

func (r *Rebundler) takeDeferred() error {
	err := errors.Join(r.deferred, r.persister.TakeErr())
	r.deferred = nil
	return err
}

// inFlight reports whether the current build has started and not yet ended.
func (r *Rebundler) inFlight() bool {
	b := r.current
	if b == nil || b.stream == nil {
		return false
	}
	select {
	case <-b.stream.Done():
		return false
	default:
	}
	return b.active || started(b.stream)
}

func started(s ports.BuildStream) bool {
	if st, ok := s.(interface{ Started() bool }); ok {
		return st.Started()
	}
	return false
}

// State returns the lifecycle position of the most recent rebuild.
func (r *Rebundler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// LastInvalidation returns the result of the most recent invalidation pass.
func (r *Rebundler) LastInvalidation() invalidate.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Snapshot returns a copy of the live cache.
func (r *Rebundler) Snapshot() domain.Snapshot {
	return r.store.Snapshot()
}

// Stats returns the sizes of the live cache mappings.
func (r *Rebundler) Stats() cache.Stats {
	return r.store.Stats()
}

// SnapshotPath returns where the cache is persisted, or "" when persistence is disabled.
func (r *Rebundler) SnapshotPath() string {
	return r.persister.Path()
}

// Flush writes the live cache immediately when persistence is enabled.
func (r *Rebundler) Flush() error {
	return r.persister.Flush()
}

// Close waits for a build that is still emitting, then flushes the cache and
// releases the debouncer. It returns any deferred error not yet reported by
// Rebuild. Close must not be called from a stream handler.
// A stream that was returned but never started is not waited for; if it is
// started later, its commit is written immediately.
func (r *Rebundler) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	var running <-chan struct{}
	if r.inFlight() {
		running = r.current.stream.Done()
	}
	r.mu.Unlock()

	if running != nil {
		r.logger.Debug("waiting for running build before closing")
		<-running
	}

	r.mu.Lock()
	deferred := r.deferred
	r.deferred = nil
	r.mu.Unlock()

	return errors.Join(deferred, r.persister.Close())
}
