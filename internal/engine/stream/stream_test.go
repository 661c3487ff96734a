package stream_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebundle/internal/core/domain"
	"go.trai.ch/rebundle/internal/engine/stream"
)

func TestStream_DeliversEventsInOrder(t *testing.T) {
	s := stream.New(func(_ context.Context, emit *stream.Emitter) error {
		if err := emit.Dep(domain.Record{"id": "/a.js"}); err != nil {
			return err
		}
		if err := emit.Package(domain.Record{"id": "/package.json"}); err != nil {
			return err
		}
		return emit.Dep(domain.Record{"id": "/b.js"})
	})

	var events []string
	s.OnDep(func(rec domain.Record) { events = append(events, "dep:"+rec.ID()) })
	s.OnPackage(func(rec domain.Record) { events = append(events, "pkg:"+rec.ID()) })
	s.OnComplete(func() { events = append(events, "complete") })
	s.OnError(func(error) { events = append(events, "error") })

	require.NoError(t, s.Wait())
	assert.Equal(t, []string{"dep:/a.js", "pkg:/package.json", "dep:/b.js", "complete"}, events)
}

func TestStream_HandlersRunInRegistrationOrder(t *testing.T) {
	s := stream.New(func(context.Context, *stream.Emitter) error { return nil })

	var order []int
	s.OnComplete(func() { order = append(order, 1) })
	s.OnComplete(func() { order = append(order, 2) })

	require.NoError(t, s.Wait())
	assert.Equal(t, []int{1, 2}, order)
}

func TestStream_ProducerErrorSkipsCompletion(t *testing.T) {
	boom := errors.New("transform failed")
	s := stream.New(func(_ context.Context, emit *stream.Emitter) error {
		_ = emit.Dep(domain.Record{"id": "/a.js"})
		return boom
	})

	completed := false
	var got error
	s.OnComplete(func() { completed = true })
	s.OnError(func(err error) { got = err })

	err := s.Wait()
	require.ErrorIs(t, err, boom)
	assert.ErrorIs(t, got, boom)
	assert.False(t, completed)
}

func TestStream_CancelledContextSkipsCompletion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := stream.New(func(ctx context.Context, emit *stream.Emitter) error {
		cancel()
		// Ignore the emitter error to simulate a producer that does not check it.
		_ = emit.Dep(domain.Record{"id": "/a.js"})
		return nil
	})

	deps := 0
	completed := false
	s.OnDep(func(domain.Record) { deps++ })
	s.OnComplete(func() { completed = true })

	s.Start(ctx)
	err := s.Wait()

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, deps)
	assert.False(t, completed)
}

func TestStream_StartIsIdempotent(t *testing.T) {
	runs := 0
	s := stream.New(func(context.Context, *stream.Emitter) error {
		runs++
		return nil
	})

	assert.False(t, s.Started())
	s.Start(context.Background())
	s.Start(context.Background())
	require.NoError(t, s.Wait())

	<-s.Done()
	assert.True(t, s.Started())
	assert.Equal(t, 1, runs)
}
