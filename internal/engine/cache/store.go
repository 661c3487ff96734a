// Package cache implements the in-memory cache store of dependency, package and mtime mappings.
package cache

import (
	"maps"
	"slices"
	"sync"

	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/core/ports"
)

// Stats summarises the sizes of the store's mappings.
type Stats struct {
	Deps   int
	Pkgs   int
	MTimes int
}

// Store holds the live cache.
// Readers always receive copies; the live maps never leave the store.
type Store struct {
	mu     sync.RWMutex
	deps   map[string]domain.Record
	pkgs   map[string]domain.Record
	mtimes map[string]int64
	// gen is bumped by every Begin and Commit so that superseded transactions cannot commit.
	gen uint64
}

// New creates an empty store.
func New() *Store {
	return FromSnapshot(domain.NewSnapshot())
}

// FromSnapshot creates a store holding a copy of snap.
func FromSnapshot(snap domain.Snapshot) *Store {
	c := snap.Clone()
	return &Store{
		deps:   c.Deps,
		pkgs:   c.Pkgs,
		mtimes: c.MTimes,
	}
}

// Deps returns a copy of the dependency mapping.
func (s *Store) Deps() map[string]domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CopyRecords(s.deps)
}

// Pkgs returns a copy of the package mapping.
func (s *Store) Pkgs() map[string]domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CopyRecords(s.pkgs)
}

// MTimes returns a copy of the mtime mapping.
func (s *Store) MTimes() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CopyModTimes(s.mtimes)
}

// Dep returns the dependency record for id.
func (s *Store) Dep(id string) (domain.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.deps[id]
	return rec.Clone(), ok
}

// ModTime returns the recorded mtime for id.
func (s *Store) ModTime(id string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mtime, ok := s.mtimes[id]
	return mtime, ok
}

// Tracked returns the sorted ids of every file with a recorded mtime.
func (s *Store) Tracked() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.mtimes))
}

// Unverified returns the sorted ids of dependency records that have no mtime.
func (s *Store) Unverified() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id := range s.deps {
		if _, ok := s.mtimes[id]; !ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Evict removes the dependency record and mtime entry for id.
// Package records are never touched. It reports whether a dependency was removed.
func (s *Store) Evict(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.deps[id]
	delete(s.deps, id)
	delete(s.mtimes, id)
	return ok
}

// Len returns the number of dependency records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.deps)
}

// Stats returns the current mapping sizes.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{Deps: len(s.deps), Pkgs: len(s.pkgs), MTimes: len(s.mtimes)}
}

// Snapshot returns a copy of the whole store.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Snapshot{Deps: s.deps, Pkgs: s.pkgs, MTimes: s.mtimes}.Clone()
}

// Begin opens a shadow transaction seeded from the live mappings.
// Any transaction opened earlier can no longer commit.
func (s *Store) Begin(stater ports.FileStater) *Txn {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return &Txn{
		store:  s,
		stater: stater,
		gen:    s.gen,
		deps:   domain.CopyRecords(s.deps),
		pkgs:   domain.CopyRecords(s.pkgs),
		mtimes: domain.CopyModTimes(s.mtimes),
	}
}
