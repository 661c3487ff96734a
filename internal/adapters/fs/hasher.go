package fs

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Digest describes a file's content.
type Digest struct {
	Hash  string
	Size  int64
	Lines int
}

// Hasher computes content digests.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileDigest reads the file once, hashing it with XXHash and counting lines.
func (h *Hasher) ComputeFileDigest(path string) (Digest, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return Digest{}, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	counter := &lineCounter{}
	size, err := io.Copy(io.MultiWriter(hasher, counter), f)
	if err != nil {
		return Digest{}, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	lines := counter.lines
	if size > 0 && !counter.endsWithNewline {
		lines++
	}
	return Digest{
		Hash:  fmt.Sprintf("%016x", hasher.Sum64()),
		Size:  size,
		Lines: lines,
	}, nil
}

type lineCounter struct {
	lines           int
	endsWithNewline bool
}

func (c *lineCounter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	c.lines += bytes.Count(p, []byte{'\n'})
	c.endsWithNewline = p[len(p)-1] == '\n'
	return len(p), nil
}
