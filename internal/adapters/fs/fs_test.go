package fs_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	rfs "go.trai.ch/rebundle/internal/adapters/fs"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_WalkFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "config"), "git config")
	writeFile(t, filepath.Join(root, "node_modules", "dep", "index.js"), "module.exports = 1")
	writeFile(t, filepath.Join(root, "ignored", "file.js"), "ignored")
	writeFile(t, filepath.Join(root, "src", "main.js"), "main()")
	writeFile(t, filepath.Join(root, "src", "main.js.map"), "{}")
	writeFile(t, filepath.Join(root, "README.md"), "# Readme")

	walker := rfs.NewWalker()
	var got []string
	for path := range walker.WalkFiles(root, []string{"ignored", "*.map"}) {
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		got = append(got, filepath.ToSlash(rel))
	}
	slices.Sort(got)

	assert.Equal(t, []string{"README.md", "src/main.js"}, got)
}

func TestWalker_StopsEarly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.js"), "a")
	writeFile(t, filepath.Join(root, "b.js"), "b")

	count := 0
	for range rfs.NewWalker().WalkFiles(root, nil) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestStater_ModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.js")
	writeFile(t, path, "a")
	when := time.UnixMilli(1_700_000_000_123)
	require.NoError(t, os.Chtimes(path, when, when))

	mtime, err := rfs.NewStater().ModTime(path)
	require.NoError(t, err)
	assert.Equal(t, when.UnixMilli(), mtime)
}

func TestStater_MissingFile(t *testing.T) {
	_, err := rfs.NewStater().ModTime(filepath.Join(t.TempDir(), "missing.js"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestHasher_ComputeFileDigest(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.js")
	b := filepath.Join(dir, "b.js")
	writeFile(t, a, "one\ntwo\nthree")
	writeFile(t, b, "one\ntwo\nthree\n")

	h := rfs.NewHasher()
	da, err := h.ComputeFileDigest(a)
	require.NoError(t, err)
	db, err := h.ComputeFileDigest(b)
	require.NoError(t, err)

	assert.Equal(t, 3, da.Lines)
	assert.Equal(t, 3, db.Lines)
	assert.Equal(t, int64(13), da.Size)
	assert.Len(t, da.Hash, 16)
	assert.NotEqual(t, da.Hash, db.Hash)

	again, err := h.ComputeFileDigest(a)
	require.NoError(t, err)
	assert.Equal(t, da, again)
}

func TestHasher_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.js")
	writeFile(t, path, "")

	d, err := rfs.NewHasher().ComputeFileDigest(path)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Lines)
	assert.Equal(t, int64(0), d.Size)
}
