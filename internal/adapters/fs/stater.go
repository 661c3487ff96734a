package fs

import (
	"os"

	"go.trai.ch/rebundle/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileStater = (*Stater)(nil)

// Stater reads modification times from the local file system.
type Stater struct{}

// NewStater creates a new Stater.
func NewStater() *Stater {
	return &Stater{}
}

// ModTime returns the file's modification time in Unix milliseconds.
// Errors keep their fs.ErrNotExist identity so callers can tell a deleted file apart.
func (s *Stater) ModTime(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	mtime := info.ModTime()
	if mtime.IsZero() {
		return 0, nil
	}
	ms := mtime.UnixMilli()
	if ms < 0 {
		return 0, nil
	}
	return ms, nil
}
