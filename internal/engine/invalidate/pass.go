// Package invalidate prunes cache entries whose backing files changed since they were recorded.
package invalidate

import (
	"errors"
	"fmt"
	"io/fs"

	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/core/ports"
	"go.trai.ch/rebundle/internal/engine/cache"
	"go.trai.ch/zerr"
)

// Reason describes why an entry is invalid.
type Reason int

const (
	// Fresh means the entry is still valid.
	Fresh Reason = iota
	// Modified means the file's mtime is newer than the recorded one.
	Modified
	// Unusable means the file exists but reports no usable timestamp.
	Unusable
	// Removed means the file no longer exists.
	Removed
	// Unverified means a dependency record has no recorded mtime.
	Unverified
)

// String returns the lowercase name of the reason.
func (r Reason) String() string {
	switch r {
	case Fresh:
		return "fresh"
	case Modified:
		return "modified"
	case Unusable:
		return "unusable"
	case Removed:
		return "removed"
	case Unverified:
		return "unverified"
	default:
		return "unknown"
	}
}

// Result summarises one pass.
type Result struct {
	// Checked is the number of tracked files that were stat'ed.
	Checked int
	// Evicted lists files whose contents may have changed.
	Evicted []string
	// Removed lists files that no longer exist.
	Removed []string
	// Unverified lists dependency records dropped for lacking an mtime.
	Unverified []string
}

// Total returns the number of entries the pass invalidated.
func (r Result) Total() int {
	return len(r.Evicted) + len(r.Removed) + len(r.Unverified)
}

// Pass compares recorded mtimes against the file system.
type Pass struct {
	stater ports.FileStater
}

// New creates a pass that reads mtimes through stater.
func New(stater ports.FileStater) *Pass {
	return &Pass{stater: stater}
}

// Run evicts every stale entry from store in place.
// Package records are never touched. A stat failure other than absence
// aborts the pass and is returned; entries evicted before it stay evicted.
func (p *Pass) Run(store *cache.Store) (Result, error) {
	return p.walk(store, func(id string) { store.Evict(id) })
}

// Plan reports what Run would evict without mutating store.
func (p *Pass) Plan(store *cache.Store) (Result, error) {
	return p.walk(store, func(string) {})
}

func (p *Pass) walk(store *cache.Store, evict func(id string)) (Result, error) {
	var res Result
	for _, id := range store.Tracked() {
		recorded, _ := store.ModTime(id)
		reason, err := p.Check(id, recorded)
		res.Checked++
		if err != nil {
			return res, err
		}
		switch reason {
		case Fresh:
			continue
		case Removed:
			res.Removed = append(res.Removed, id)
		default:
			res.Evicted = append(res.Evicted, id)
		}
		evict(id)
	}

	for _, id := range store.Unverified() {
		res.Unverified = append(res.Unverified, id)
		evict(id)
	}
	return res, nil
}

// Check classifies a single tracked file against its recorded mtime.
func (p *Pass) Check(id string, recorded int64) (Reason, error) {
	current, err := p.stater.ModTime(id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Removed, nil
		}
		return Fresh, zerr.With(fmt.Errorf("%w: %w", domain.ErrStatFailed, err), "path", id)
	}
	switch {
	case current == 0:
		return Unusable, nil
	case current > recorded:
		return Modified, nil
	default:
		return Fresh, nil
	}
}
