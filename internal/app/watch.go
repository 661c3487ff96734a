package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"go.trai.ch/rebundle/internal/adapters/scan" //nolint:depguard // Wired in app layer
	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/engine/debounce"
	"go.trai.ch/rebundle/internal/engine/rebundler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Watch builds cfg.Root, then rebuilds whenever files below it change.
// It returns when ctx is cancelled.
func (a *App) Watch(ctx context.Context, cfg domain.Config) (err error) {
	r, bundler, err := a.open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, r.Close())
	}()

	w, err := a.watchers.NewWatcher(ignores(cfg))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	if err := w.Start(ctx, cfg.Root); err != nil {
		_ = w.Stop()
		return zerr.Wrap(err, "failed to start watching")
	}

	// Holds at most one pending batch; later batches are merged into it.
	trigger := make(chan []string, 1)
	deb := debounce.New(a.watchWindow, func(paths []string) {
		select {
		case trigger <- paths:
		default:
		}
	})

	a.logger.Info("watching for changes", "root", cfg.Root)
	a.build(ctx, r, bundler)

	cacheDir := cfg.ResolvedCacheDir() + string(filepath.Separator)
	g.Go(func() error {
		for event := range w.Events() {
			if strings.HasPrefix(event.Path, cacheDir) {
				continue
			}
			a.logger.Debug("file event", "op", event.Operation.String(), "path", event.Path)
			deb.Add(event.Path)
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case paths := <-trigger:
				a.logger.Info("change detected, rebuilding", "files", len(paths))
				a.build(ctx, r, bundler)
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		deb.Stop()
		return w.Stop()
	})

	return g.Wait()
}

// build runs one watch iteration. Failures are logged so the loop keeps going.
func (a *App) build(ctx context.Context, r *rebundler.Rebundler, b *scan.Bundler) {
	report, err := a.rebuild(ctx, r, b)
	if err != nil {
		if ctx.Err() == nil {
			a.logger.Error(err)
		}
		return
	}
	a.printReport(report)
}
