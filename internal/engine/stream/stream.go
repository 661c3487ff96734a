// Package stream implements the build event stream shared by bundlers and the rebundler.
package stream

import (
	"context"
	"sync"

	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/core/ports"
)

var _ ports.BuildStream = (*Stream)(nil)

// ProduceFunc runs a build, reporting its progress through emit.
// Returning nil signals that the bundle is ready and fully ended.
type ProduceFunc func(ctx context.Context, emit *Emitter) error

// Stream is a single-use build event stream.
// Events are delivered serially on the producer goroutine, so handlers never
// run concurrently with each other.
type Stream struct {
	produce ProduceFunc

	mu         sync.Mutex
	onDep      []func(domain.Record)
	onPackage  []func(domain.Record)
	onComplete []func()
	onError    []func(error)
	started    bool

	done chan struct{}
	err  error
}

// New creates a stream that runs produce once started.
func New(produce ProduceFunc) *Stream {
	return &Stream{
		produce: produce,
		done:    make(chan struct{}),
	}
}

// OnDep registers fn for every dependency record.
func (s *Stream) OnDep(fn func(domain.Record)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDep = append(s.onDep, fn)
}

// OnPackage registers fn for every package record.
func (s *Stream) OnPackage(fn func(domain.Record)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPackage = append(s.onPackage, fn)
}

// OnComplete registers fn for successful completion.
func (s *Stream) OnComplete(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onComplete = append(s.onComplete, fn)
}

// OnError registers fn for failed or cancelled builds.
func (s *Stream) OnError(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = append(s.onError, fn)
}

// Start runs the producer in a new goroutine. Subsequent calls are no-ops.
func (s *Stream) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go s.run(ctx)
}

// Started reports whether Start has been called.
func (s *Stream) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Wait starts the stream if needed and blocks until it has ended.
func (s *Stream) Wait() error {
	s.Start(context.Background())
	<-s.done
	return s.err
}

// Done is closed once the final event's handlers have returned.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

func (s *Stream) run(ctx context.Context) {
	defer close(s.done)

	err := s.produce(ctx, &Emitter{ctx: ctx, stream: s})
	if err == nil {
		// A producer that ignored cancellation still did not complete.
		err = ctx.Err()
	}
	s.err = err

	if err != nil {
		for _, fn := range snapshot(&s.mu, &s.onError) {
			fn(err)
		}
		return
	}
	for _, fn := range snapshot(&s.mu, &s.onComplete) {
		fn()
	}
}

func snapshot[T any](mu *sync.Mutex, handlers *[]T) []T {
	mu.Lock()
	defer mu.Unlock()
	out := make([]T, len(*handlers))
	copy(out, *handlers)
	return out
}

// Emitter delivers events from a producer to the stream's handlers.
type Emitter struct {
	ctx    context.Context
	stream *Stream
}

// Dep reports a processed dependency record.
// It returns the context error once the build has been cancelled.
func (e *Emitter) Dep(rec domain.Record) error {
	if err := e.ctx.Err(); err != nil {
		return err
	}
	for _, fn := range snapshot(&e.stream.mu, &e.stream.onDep) {
		fn(rec)
	}
	return nil
}

// Package reports a resolved package record.
// It returns the context error once the build has been cancelled.
func (e *Emitter) Package(rec domain.Record) error {
	if err := e.ctx.Err(); err != nil {
		return err
	}
	for _, fn := range snapshot(&e.stream.mu, &e.stream.onPackage) {
		fn(rec)
	}
	return nil
}
