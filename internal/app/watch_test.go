package app_test

import (
	"bytes"
	"context"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebundle/internal/core/ports"
	"go.trai.ch/rebundle/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func channelEvents(ch <-chan ports.WatchEvent) iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range ch {
			if !yield(event) {
				return
			}
		}
	}
}

func TestApp_Watch(t *testing.T) {
	root := setupRoot(t)
	cfg := persistConfig(root)

	ctrl := gomock.NewController(t)
	watchers := mocks.NewMockWatcherFactory(ctrl)
	w := mocks.NewMockWatcher(ctrl)
	events := make(chan ports.WatchEvent)

	watchers.EXPECT().NewWatcher(gomock.Any()).Return(w, nil)
	w.EXPECT().Start(gomock.Any(), root).Return(nil)
	w.EXPECT().Events().Return(channelEvents(events))
	w.EXPECT().Stop().DoAndReturn(func() error {
		close(events)
		return nil
	})

	out := &lockedBuffer{}
	a := newApp(t, out, nil, watchers).WithWatchWindow(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, cfg) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "misses=2")
	}, 5*time.Second, 10*time.Millisecond)

	added := filepath.Join(root, "src", "c.js")
	require.NoError(t, os.WriteFile(added, []byte("c()\n"), 0o600))
	events <- ports.WatchEvent{Path: filepath.Join(cfg.ResolvedCacheDir(), "cache-web.json"), Operation: ports.OpWrite}
	events <- ports.WatchEvent{Path: added, Operation: ports.OpCreate}

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "hits=2 misses=1")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}

	assert.Equal(t, 2, strings.Count(out.String(), "built "))
	assert.FileExists(t, cfg.SnapshotPath())
}

func TestApp_Watch_StartError(t *testing.T) {
	root := setupRoot(t)

	ctrl := gomock.NewController(t)
	watchers := mocks.NewMockWatcherFactory(ctrl)
	w := mocks.NewMockWatcher(ctrl)
	watchers.EXPECT().NewWatcher(gomock.Any()).Return(w, nil)
	w.EXPECT().Start(gomock.Any(), root).Return(os.ErrPermission)
	w.EXPECT().Stop().Return(nil)

	a := newApp(t, &lockedBuffer{}, nil, watchers)
	err := a.Watch(context.Background(), persistConfig(root))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
}
