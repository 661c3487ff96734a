package invalidate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	rfs "go.trai.ch/rebundle/internal/adapters/fs"
	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/core/ports/mocks"
	"go.trai.ch/rebundle/internal/engine/cache"
	"go.trai.ch/rebundle/internal/engine/invalidate"
	"go.uber.org/mock/gomock"
)

func storeWith(mtimes map[string]int64, extraDeps ...string) *cache.Store {
	snap := domain.NewSnapshot()
	for id, mtime := range mtimes {
		snap.Deps[id] = domain.Record{"id": id}
		snap.MTimes[id] = mtime
	}
	for _, id := range extraDeps {
		snap.Deps[id] = domain.Record{"id": id}
	}
	snap.Pkgs["/package.json"] = domain.Record{"id": "/package.json"}
	return cache.FromSnapshot(snap)
}

func TestPass_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	stater := mocks.NewMockFileStater(ctrl)
	stater.EXPECT().ModTime("/fresh.js").Return(int64(1000), nil)
	stater.EXPECT().ModTime("/older.js").Return(int64(900), nil)
	stater.EXPECT().ModTime("/modified.js").Return(int64(1001), nil)
	stater.EXPECT().ModTime("/zero.js").Return(int64(0), nil)
	stater.EXPECT().ModTime("/gone.js").Return(int64(0), fs.ErrNotExist)

	store := storeWith(map[string]int64{
		"/fresh.js":    1000,
		"/older.js":    1000,
		"/modified.js": 1000,
		"/zero.js":     1000,
		"/gone.js":     1000,
	}, "/unverified.js")

	res, err := invalidate.New(stater).Run(store)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Checked)
	assert.Equal(t, []string{"/modified.js", "/zero.js"}, res.Evicted)
	assert.Equal(t, []string{"/gone.js"}, res.Removed)
	assert.Equal(t, []string{"/unverified.js"}, res.Unverified)
	assert.Equal(t, 4, res.Total())

	deps := store.Deps()
	assert.Len(t, deps, 2)
	assert.Contains(t, deps, "/fresh.js")
	assert.Contains(t, deps, "/older.js")
	assert.Equal(t, []string{"/fresh.js", "/older.js"}, store.Tracked())
	assert.Contains(t, store.Pkgs(), "/package.json")
}

func TestPass_StatFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	stater := mocks.NewMockFileStater(ctrl)
	stater.EXPECT().ModTime("/locked.js").Return(int64(0), fs.ErrPermission)

	store := storeWith(map[string]int64{"/locked.js": 1000})

	_, err := invalidate.New(stater).Run(store)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStatFailed)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Contains(t, store.Deps(), "/locked.js")
}

func TestPass_PlanDoesNotMutate(t *testing.T) {
	ctrl := gomock.NewController(t)
	stater := mocks.NewMockFileStater(ctrl)
	stater.EXPECT().ModTime("/gone.js").Return(int64(0), fs.ErrNotExist)

	store := storeWith(map[string]int64{"/gone.js": 1000}, "/unverified.js")

	res, err := invalidate.New(stater).Plan(store)
	require.NoError(t, err)
	assert.Equal(t, []string{"/gone.js"}, res.Removed)
	assert.Equal(t, []string{"/unverified.js"}, res.Unverified)
	assert.Len(t, store.Deps(), 2)
}

func TestPass_EmptyStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	res, err := invalidate.New(mocks.NewMockFileStater(ctrl)).Run(cache.New())
	require.NoError(t, err)
	assert.Zero(t, res.Total())
	assert.Zero(t, res.Checked)
}

func TestPass_RealFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))
	base := time.UnixMilli(1_700_000_000_000)
	require.NoError(t, os.Chtimes(path, base, base))

	stater := rfs.NewStater()
	store := cache.New()
	txn := store.Begin(stater)
	require.NoError(t, txn.Stage(domain.Record{"id": path}))
	require.NoError(t, txn.Commit())

	pass := invalidate.New(stater)
	res, err := pass.Run(store)
	require.NoError(t, err)
	assert.Zero(t, res.Total())

	later := base.Add(time.Millisecond)
	require.NoError(t, os.Chtimes(path, later, later))

	res, err = pass.Run(store)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, res.Evicted)
	assert.Zero(t, store.Len())
}

func TestReason_String(t *testing.T) {
	assert.Equal(t, "modified", invalidate.Modified.String())
	assert.Equal(t, "removed", invalidate.Removed.String())
	assert.Equal(t, "unknown", invalidate.Reason(42).String())
}
