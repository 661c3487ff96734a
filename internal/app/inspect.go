package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dustin/go-humanize"
	"go.trai.ch/rebundle/internal/adapters/snapshot" //nolint:depguard // Wired in app layer
	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/engine/cache"
	"go.trai.ch/rebundle/internal/engine/invalidate"
	"go.trai.ch/rebundle/internal/ui/style"
	"go.trai.ch/zerr"
)

// Inspect describes the snapshot for cfg's persist key. With asJSON the
// snapshot is printed as indented JSON instead.
func (a *App) Inspect(cfg domain.Config, asJSON bool) error {
	store, err := snapshotStore(cfg)
	if err != nil {
		return err
	}

	snap, err := store.Read()
	if errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintf(a.out, "%s no snapshot at %s\n", style.Notice.Render(style.Warning), store.Path())
		return nil
	}
	if err != nil {
		return err
	}

	if asJSON {
		data, err := snapshot.Encode(snap)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return zerr.Wrap(err, "failed to format snapshot")
		}
		buf.WriteByte('\n')
		_, err = a.out.Write(buf.Bytes())
		return err
	}

	stats := cache.FromSnapshot(snap).Stats()
	_, _ = fmt.Fprintln(a.out, style.Heading.Render("Snapshot"))
	a.printField("path", store.Path())
	a.printField("key", cfg.PersistKey)
	a.printField("deps", stats.Deps)
	a.printField("packages", stats.Pkgs)
	a.printField("tracked", stats.MTimes)
	if info, err := os.Stat(store.Path()); err == nil {
		a.printField("size", humanize.Bytes(uint64(info.Size()))) //nolint:gosec // File sizes are never negative
		a.printField("written", humanize.Time(info.ModTime()))
	}
	return nil
}

// Check reports which snapshot entries would be invalidated by the next build.
// With prune the stale entries are removed and the snapshot is written back.
func (a *App) Check(cfg domain.Config, prune bool) (invalidate.Result, error) {
	files, err := snapshotStore(cfg)
	if err != nil {
		return invalidate.Result{}, err
	}

	snap, err := files.Read()
	if errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintf(a.out, "%s no snapshot at %s\n", style.Notice.Render(style.Warning), files.Path())
		return invalidate.Result{}, nil
	}
	if err != nil {
		return invalidate.Result{}, err
	}

	store := cache.FromSnapshot(snap)
	pass := invalidate.New(a.stater)
	res, err := pass.Plan(store)
	if err != nil {
		return res, err
	}

	for _, id := range res.Evicted {
		_, _ = fmt.Fprintf(a.out, "%s %s\n", style.Notice.Render(style.Tilde), id)
	}
	for _, id := range res.Removed {
		_, _ = fmt.Fprintf(a.out, "%s %s\n", style.Failure.Render(style.Cross), id)
	}
	for _, id := range res.Unverified {
		_, _ = fmt.Fprintf(a.out, "%s %s\n", style.Notice.Render(style.Warning), id)
	}
	_, _ = fmt.Fprintf(a.out, "%s checked %d files, %d stale\n",
		style.Success.Render(style.Check), res.Checked, res.Total())

	if !prune || res.Total() == 0 {
		return res, nil
	}
	if _, err := pass.Run(store); err != nil {
		return res, err
	}
	if err := files.Write(store.Snapshot()); err != nil {
		return res, err
	}
	_, _ = fmt.Fprintf(a.out, "%s pruned %s\n", style.Success.Render(style.Check), files.Path())
	return res, nil
}

// Clean removes the snapshot for cfg's persist key, or the whole cache directory with all.
func (a *App) Clean(cfg domain.Config, all bool) error {
	if all {
		dir := cfg.ResolvedCacheDir()
		if err := os.RemoveAll(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove cache directory"), "path", dir)
		}
		_, _ = fmt.Fprintf(a.out, "%s removed %s\n", style.Success.Render(style.Check), dir)
		return nil
	}

	store, err := snapshotStore(cfg)
	if err != nil {
		return err
	}
	if err := store.Remove(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "%s removed %s\n", style.Success.Render(style.Check), store.Path())
	return nil
}

func (a *App) printField(label string, value any) {
	_, _ = fmt.Fprintf(a.out, "  %s %v\n", style.Label.Render(fmt.Sprintf("%-9s", label)), value)
}
