// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/rebundle/internal/core/domain"
)

// BuildStream is the live event stream of a single build.
//
// Handlers run serially, in registration order, on the goroutine producing the
// build. Handlers must be registered before Start; completion handlers fire
// only when the bundle is ready and fully ended, error handlers fire instead
// of completion when the build fails or is cancelled.
//
//go:generate go run go.uber.org/mock/mockgen -source=bundler.go -destination=mocks/mock_bundler.go -package=mocks
type BuildStream interface {
	// OnDep registers fn for every dependency record the bundler processes.
	OnDep(fn func(domain.Record))
	// OnPackage registers fn for every package record the bundler resolves.
	OnPackage(fn func(domain.Record))
	// OnComplete registers fn for successful completion.
	OnComplete(fn func())
	// OnError registers fn for failed or cancelled builds.
	OnError(fn func(error))
	// Start begins producing events. Calling it more than once has no effect.
	Start(ctx context.Context)
	// Wait blocks until the build has ended and returns its error, if any.
	// It starts the stream with a background context when Start was never called.
	Wait() error
	// Done is closed once every handler for the final event has returned.
	Done() <-chan struct{}
}

// Bundler is the external bundler placed behind the cache.
type Bundler interface {
	// Bundle starts a build from the previous dependency and package mappings.
	// The returned stream must not have been started.
	Bundle(ctx context.Context, deps, pkgs map[string]domain.Record) (BuildStream, error)
}

// BundleFunc adapts a function to the Bundler interface.
type BundleFunc func(ctx context.Context, deps, pkgs map[string]domain.Record) (BuildStream, error)

// Bundle calls f.
func (f BundleFunc) Bundle(ctx context.Context, deps, pkgs map[string]domain.Record) (BuildStream, error) {
	return f(ctx, deps, pkgs)
}
