// Package snapshot persists cache snapshots as flat JSON files.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SnapshotStore = (*FileStore)(nil)

const (
	depsField   = "deps"
	pkgsField   = "pkgs"
	mtimesField = "mtimes"
)

// FileStore implements ports.SnapshotStore using a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: filepath.Clean(path)}
}

// Path returns the snapshot file location.
func (s *FileStore) Path() string {
	return s.path
}

// Read loads and validates the snapshot file.
func (s *FileStore) Read() (domain.Snapshot, error) {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.Snapshot{}, zerr.With(zerr.Wrap(err, "failed to read cache snapshot"), "path", s.path)
	}

	snap, err := Decode(data)
	if err != nil {
		return domain.Snapshot{}, zerr.With(err, "path", s.path)
	}
	return snap, nil
}

// Write replaces the snapshot file atomically: readers see either the old or
// the new contents, never a partial write.
func (s *FileStore) Write(snap domain.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return s.writeErr(err, "failed to create cache directory")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return s.writeErr(err, "failed to create temporary snapshot")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // Best effort cleanup; gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return s.writeErr(err, "failed to write temporary snapshot")
	}
	if err := tmp.Close(); err != nil {
		return s.writeErr(err, "failed to close temporary snapshot")
	}
	if err := os.Chmod(tmpPath, domain.FilePerm); err != nil {
		return s.writeErr(err, "failed to set snapshot permissions")
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return s.writeErr(err, "failed to replace snapshot")
	}
	return nil
}

// Remove deletes the snapshot file.
func (s *FileStore) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove cache snapshot"), "path", s.path)
	}
	return nil
}

func (s *FileStore) writeErr(err error, msg string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrSnapshotWrite, err), msg), "path", s.path)
}

// Encode serializes a snapshot. Nil mappings are written as empty objects.
func Encode(snap domain.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap.Clone())
	if err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrSnapshotWrite, err), "failed to marshal cache snapshot")
	}
	return data, nil
}

// Decode parses a snapshot, requiring deps, pkgs and mtimes to be JSON objects.
func Decode(data []byte) (domain.Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return domain.Snapshot{}, corrupt(err)
	}

	for _, name := range []string{depsField, pkgsField, mtimesField} {
		raw, ok := fields[name]
		if !ok {
			return domain.Snapshot{}, zerr.With(zerr.Wrap(domain.ErrCorruptSnapshot, "missing mapping"), "field", name)
		}
		if !isObject(raw) {
			return domain.Snapshot{}, zerr.With(zerr.Wrap(domain.ErrCorruptSnapshot, "mapping is not an object"), "field", name)
		}
	}

	snap := domain.NewSnapshot()
	if err := json.Unmarshal(fields[depsField], &snap.Deps); err != nil {
		return domain.Snapshot{}, corrupt(err)
	}
	if err := json.Unmarshal(fields[pkgsField], &snap.Pkgs); err != nil {
		return domain.Snapshot{}, corrupt(err)
	}
	if err := json.Unmarshal(fields[mtimesField], &snap.MTimes); err != nil {
		return domain.Snapshot{}, corrupt(err)
	}
	return snap, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func corrupt(err error) error {
	return zerr.Wrap(errors.Join(domain.ErrCorruptSnapshot, err), "failed to parse cache snapshot")
}
