// Package scan implements a directory-scanning bundler that reuses cached records.
package scan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"go.trai.ch/rebundle/internal/adapters/fs"
	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/core/ports"
	"go.trai.ch/rebundle/internal/engine/stream"
	"go.trai.ch/zerr"
)

// PackageFileName marks a package manifest.
const PackageFileName = "package.json"

var _ ports.Bundler = (*Bundler)(nil)

// Stats counts cache use during the most recent build.
type Stats struct {
	Hits        int
	Misses      int
	Packages    int
	PackageHits int
}

// Bundler walks a root directory and emits one dependency record per file and
// one package record per package.json. Records offered by the cache are
// re-emitted as they are instead of being recomputed.
type Bundler struct {
	root    string
	ignores []string
	walker  *fs.Walker
	hasher  *fs.Hasher

	mu    sync.Mutex
	stats Stats
}

// NewBundler creates a bundler over root.
func NewBundler(root string, ignores []string, walker *fs.Walker, hasher *fs.Hasher) *Bundler {
	return &Bundler{
		root:    root,
		ignores: ignores,
		walker:  walker,
		hasher:  hasher,
	}
}

// Bundle returns an unstarted stream that scans the root when started.
func (b *Bundler) Bundle(_ context.Context, deps, pkgs map[string]domain.Record) (ports.BuildStream, error) {
	return stream.New(func(ctx context.Context, emit *stream.Emitter) error {
		var stats Stats
		defer b.setStats(&stats)

		for path := range b.walker.WalkFiles(b.root, b.ignores) {
			if err := ctx.Err(); err != nil {
				return err
			}
			var err error
			if filepath.Base(path) == PackageFileName {
				err = b.emitPackage(emit, pkgs, path, &stats)
			} else {
				err = b.emitDep(emit, deps, path, &stats)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}), nil
}

// Stats returns the counters of the most recent build.
func (b *Bundler) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

func (b *Bundler) setStats(stats *Stats) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats = *stats
}

func (b *Bundler) emitDep(emit *stream.Emitter, deps map[string]domain.Record, path string, stats *Stats) error {
	if rec, ok := deps[path]; ok {
		stats.Hits++
		return emit.Dep(rec)
	}

	digest, err := b.hasher.ComputeFileDigest(path)
	if err != nil {
		return err
	}
	stats.Misses++
	return emit.Dep(domain.Record{
		domain.RecordIDKey: path,
		"hash":             digest.Hash,
		"size":             digest.Size,
		"lines":            digest.Lines,
		"ext":              strings.TrimPrefix(filepath.Ext(path), "."),
	})
}

// emitPackage re-reads the manifest and reuses the cached record while its hash is unchanged.
func (b *Bundler) emitPackage(emit *stream.Emitter, pkgs map[string]domain.Record, path string, stats *Stats) error {
	stats.Packages++

	digest, err := b.hasher.ComputeFileDigest(path)
	if err != nil {
		return err
	}
	if rec, ok := pkgs[path]; ok && rec["hash"] == digest.Hash {
		stats.PackageHits++
		return emit.Package(rec)
	}

	data, err := os.ReadFile(path) //nolint:gosec // Path comes from walking the build root
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read package manifest"), "path", path)
	}
	if !gjson.ValidBytes(data) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidManifest, "failed to parse package manifest"), "path", path)
	}

	fields := gjson.GetManyBytes(data, "name", "version", "main")
	return emit.Package(domain.Record{
		domain.RecordIDKey: path,
		"hash":             digest.Hash,
		"name":             fields[0].String(),
		"version":          fields[1].String(),
		"main":             fields[2].String(),
	})
}
