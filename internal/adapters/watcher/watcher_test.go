package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebundle/internal/adapters/watcher"
	"go.trai.ch/rebundle/internal/core/ports"
)

// waitFor returns the first event for path, failing after a timeout.
func waitFor(t *testing.T, events <-chan ports.WatchEvent, path string) ports.WatchEvent {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event stream closed before %s", path)
			if ev.Path == path {
				return ev
			}
		case <-deadline:
			t.Fatalf("no event for %s", path)
		}
	}
}

func pump(w ports.Watcher) <-chan ports.WatchEvent {
	ch := make(chan ports.WatchEvent, 64)
	go func() {
		defer close(ch)
		for ev := range w.Events() {
			ch <- ev
		}
	}()
	return ch
}

func TestWatcher_ReportsWritesAndNewDirectories(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "a.js")
	require.NoError(t, os.WriteFile(existing, []byte("a"), 0o600))

	w, err := watcher.NewFactory(nil).NewWatcher(nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	require.NoError(t, w.Start(ctx, root))
	events := pump(w)

	require.NoError(t, os.WriteFile(existing, []byte("b"), 0o600))
	ev := waitFor(t, events, existing)
	assert.Contains(t, []ports.WatchOp{ports.OpWrite, ports.OpCreate}, ev.Operation)

	sub := filepath.Join(root, "lib")
	require.NoError(t, os.Mkdir(sub, 0o750))
	assert.Equal(t, ports.OpCreate, waitFor(t, events, sub).Operation)

	// Give the watcher a moment to follow the new directory.
	time.Sleep(100 * time.Millisecond)
	nested := filepath.Join(sub, "b.js")
	require.NoError(t, os.WriteFile(nested, []byte("b"), 0o600))
	waitFor(t, events, nested)
}

func TestWatcher_StopsWithContext(t *testing.T) {
	w, err := watcher.NewWatcher(nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, t.TempDir()))
	events := pump(w)
	cancel()

	select {
	case _, ok := <-events:
		for ok {
			_, ok = <-events
		}
	case <-time.After(5 * time.Second):
		t.Fatal("events were not closed after cancellation")
	}
}

func TestWatchOp_String(t *testing.T) {
	assert.Equal(t, "write", ports.OpWrite.String())
	assert.Equal(t, "unknown", ports.WatchOp(99).String())
}
