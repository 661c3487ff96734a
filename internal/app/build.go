package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/ui/style"
)

// Report summarises one build.
type Report struct {
	Deps     int
	Packages int
	Hits     int
	Misses   int
	Evicted  int
	// Cached is the number of dependency records in the committed cache.
	Cached   int
	Duration time.Duration
}

// Build runs a single cached build of cfg.Root and writes its report.
func (a *App) Build(ctx context.Context, cfg domain.Config) (err error) {
	r, bundler, err := a.open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, r.Close())
	}()

	report, err := a.rebuild(ctx, r, bundler)
	if err != nil {
		return err
	}
	a.printReport(report)
	return nil
}

func (a *App) printReport(r Report) {
	_, _ = fmt.Fprintf(a.out, "%s built %d deps and %d packages in %s\n",
		style.Success.Render(style.Check), r.Deps, r.Packages, r.Duration.Round(time.Millisecond))
	_, _ = fmt.Fprintf(a.out, "  %s hits=%d misses=%d evicted=%d\n",
		style.Label.Render("cache"), r.Hits, r.Misses, r.Evicted)
}
