package rebundle

import (
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/rebundle/internal/adapters/fs"
	"go.trai.ch/rebundle/internal/adapters/snapshot"
	"go.trai.ch/rebundle/internal/adapters/telemetry"
	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/core/ports"
	"go.trai.ch/rebundle/internal/engine/rebundler"
	"go.trai.ch/rebundle/internal/engine/stream"
)

type (
	// Record is an opaque bundler payload. Dependency records carry their file path under "id".
	Record = domain.Record
	// Snapshot is the durable form of the cache.
	Snapshot = domain.Snapshot
	// Config is the configuration surface of a Rebundler.
	Config = domain.Config

	// Bundler runs one incremental build seeded with cached records.
	Bundler = ports.Bundler
	// BundleFunc adapts a function to Bundler.
	BundleFunc = ports.BundleFunc
	// BuildStream reports the records a build processed and how it ended.
	BuildStream = ports.BuildStream
	// Logger receives cache diagnostics.
	Logger = ports.Logger

	// Stream is a BuildStream driven by a ProduceFunc.
	Stream = stream.Stream
	// Emitter delivers records from a ProduceFunc.
	Emitter = stream.Emitter
	// ProduceFunc performs a build, emitting records as they are processed.
	ProduceFunc = stream.ProduceFunc

	// Rebundler owns the cache for one bundler configuration.
	Rebundler = rebundler.Rebundler
	// State is the lifecycle position of the most recent rebuild.
	State = rebundler.State
)

// Rebuild lifecycle states.
const (
	Idle         = rebundler.Idle
	Invalidating = rebundler.Invalidating
	Bundling     = rebundler.Bundling
	Committed    = rebundler.Committed
	Abandoned    = rebundler.Abandoned
)

// Errors returned by a Rebundler. Match them with errors.Is.
var (
	ErrStatFailed       = domain.ErrStatFailed
	ErrSnapshotWrite    = domain.ErrSnapshotWrite
	ErrBuildInFlight    = domain.ErrBuildInFlight
	ErrStaleTransaction = domain.ErrStaleTransaction
	ErrStreamStarted    = domain.ErrStreamStarted
	ErrRebundlerClosed  = domain.ErrRebundlerClosed
	ErrNilBundler       = domain.ErrNilBundler
	ErrBuildFailed      = domain.ErrBuildFailed
)

// NewStream returns an unstarted stream that runs produce once started.
func NewStream(produce ProduceFunc) *Stream {
	return stream.New(produce)
}

// Option configures New.
type Option func(*options)

type options struct {
	cfg    domain.Config
	logger ports.Logger
	tracer ports.Tracer
}

// WithConfig replaces the whole configuration. Later options still apply on top.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithPersist enables the durable cache under key. An empty key logs a
// warning and keeps the cache in memory only.
func WithPersist(key string) Option {
	return func(o *options) {
		o.cfg.Persist = true
		o.cfg.PersistKey = key
	}
}

// WithRoot sets the build root the default cache directory lives under.
func WithRoot(root string) Option {
	return func(o *options) { o.cfg.Root = root }
}

// WithCacheDir sets the directory snapshots are written to.
func WithCacheDir(dir string) Option {
	return func(o *options) { o.cfg.CacheDir = dir }
}

// WithFlushWindow sets how long snapshot writes are debounced.
func WithFlushWindow(window time.Duration) Option {
	return func(o *options) { o.cfg.FlushWindow = window }
}

// WithNoop disables caching: every build starts from empty mappings.
func WithNoop() Option {
	return func(o *options) { o.cfg.Noop = true }
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTracerProvider records rebuild, invalidate and commit spans through provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *options) { o.tracer = telemetry.NewOTelTracer(provider) }
}

// New wraps bundler with a cache. Snapshots, when enabled, are read here.
func New(bundler Bundler, opts ...Option) (*Rebundler, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ropts := []rebundler.Option{
		rebundler.WithStater(fs.NewStater()),
		rebundler.WithSnapshots(func(path string) ports.SnapshotStore {
			return snapshot.NewFileStore(path)
		}),
	}
	if o.logger != nil {
		ropts = append(ropts, rebundler.WithLogger(o.logger))
	}
	if o.tracer != nil {
		ropts = append(ropts, rebundler.WithTracer(o.tracer))
	}
	return rebundler.New(bundler, o.cfg, ropts...)
}
