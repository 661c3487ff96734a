package rebundler

import (
	"context"

	"go.trai.ch/rebundle/internal/core/ports"
)

// Option configures a Rebundler.
type Option func(*Rebundler)

// WithLogger sets the diagnostic logger.
func WithLogger(logger ports.Logger) Option {
	return func(r *Rebundler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracer sets the tracer used for rebuild spans.
func WithTracer(tracer ports.Tracer) Option {
	return func(r *Rebundler) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithStater sets the source of file modification times.
func WithStater(stater ports.FileStater) Option {
	return func(r *Rebundler) {
		r.stater = stater
	}
}

// WithSnapshots sets how the snapshot store is opened for a path.
func WithSnapshots(open func(path string) ports.SnapshotStore) Option {
	return func(r *Rebundler) {
		r.openSnapshots = open
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(error)          {}

type nopTracer struct{}

func (nopTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, nopSpan{}
}

type nopSpan struct{}

func (nopSpan) End()                     {}
func (nopSpan) RecordError(error)        {}
func (nopSpan) SetAttribute(string, any) {}
