package cache

import (
	"errors"
	"fmt"
	"io/fs"

	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/core/ports"
	"go.trai.ch/zerr"
)

// Txn is the shadow set of one in-flight build.
// Staged records become visible only through Commit.
type Txn struct {
	store  *Store
	stater ports.FileStater
	gen    uint64

	deps   map[string]domain.Record
	pkgs   map[string]domain.Record
	mtimes map[string]int64

	staged int
	err    error
	closed bool
}

// Stage records a tentative dependency together with its current mtime.
// A file that no longer exists is dropped from the shadow set, so every
// staged dependency carries an mtime. Any other stat failure poisons the
// transaction: it is returned here and again by Commit.
func (t *Txn) Stage(rec domain.Record) error {
	if t.closed {
		return domain.ErrStaleTransaction
	}
	id := rec.ID()
	if id == "" {
		return zerr.Wrap(domain.ErrMissingRecordID, "cannot stage dependency")
	}

	mtime, err := t.stater.ModTime(id)
	switch {
	case err == nil:
		t.mtimes[id] = mtime
	case errors.Is(err, fs.ErrNotExist):
		delete(t.deps, id)
		delete(t.mtimes, id)
		return nil
	default:
		err = zerr.With(fmt.Errorf("%w: %w", domain.ErrStatFailed, err), "path", id)
		if t.err == nil {
			t.err = err
		}
		return err
	}

	t.deps[id] = rec
	t.staged++
	return nil
}

// StagePackage records a tentative package record keyed by its id.
func (t *Txn) StagePackage(rec domain.Record) error {
	if t.closed {
		return domain.ErrStaleTransaction
	}
	id := rec.ID()
	if id == "" {
		return zerr.Wrap(domain.ErrMissingRecordID, "cannot stage package")
	}
	t.pkgs[id] = rec
	return nil
}

// Staged returns the number of dependency records staged so far.
func (t *Txn) Staged() int {
	return t.staged
}

// Err returns the error that poisoned the transaction, if any.
func (t *Txn) Err() error {
	return t.err
}

// Commit replaces the live dependency, mtime and package mappings with the
// shadow set in one step. Nothing is applied when staging failed or when a
// newer transaction was opened in the meantime.
func (t *Txn) Commit() error {
	if t.closed {
		return domain.ErrStaleTransaction
	}
	t.closed = true
	if t.err != nil {
		return t.err
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != t.gen {
		return zerr.With(zerr.Wrap(domain.ErrStaleTransaction, "transaction superseded"), "generation", t.gen)
	}
	s.deps = t.deps
	s.mtimes = t.mtimes
	s.pkgs = t.pkgs
	s.gen++
	return nil
}

// Discard drops the shadow set. The live store is left untouched.
func (t *Txn) Discard() {
	t.closed = true
	t.deps = nil
	t.pkgs = nil
	t.mtimes = nil
}
