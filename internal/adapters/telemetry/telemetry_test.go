package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/rebundle/internal/adapters/telemetry"
	"go.trai.ch/rebundle/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newRecorded(t *testing.T) (*telemetry.OTelTracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return telemetry.NewOTelTracer(provider), recorder
}

func TestOTelTracer_Attributes(t *testing.T) {
	tracer, recorder := newRecorded(t)

	_, span := tracer.Start(context.Background(), "rebuild")
	span.SetAttribute("cache.deps", 3)
	span.SetAttribute("cache.key", "web")
	span.SetAttribute("cache.mtime", int64(1700))
	span.SetAttribute("ratio", 0.5)
	span.SetAttribute("noop", false)
	span.SetAttribute("files", []string{"/a.js"})
	span.SetAttribute("state", struct{ N int }{N: 1})
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "rebuild", ended[0].Name())
	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.Int("cache.deps", 3),
		attribute.String("cache.key", "web"),
		attribute.Int64("cache.mtime", 1700),
		attribute.Float64("ratio", 0.5),
		attribute.Bool("noop", false),
		attribute.StringSlice("files", []string{"/a.js"}),
		attribute.String("state", "{1}"),
	}, ended[0].Attributes())
}

func TestOTelTracer_RecordError(t *testing.T) {
	tracer, recorder := newRecorded(t)

	_, span := tracer.Start(context.Background(), "commit")
	span.RecordError(errors.New("stale cache transaction"))
	span.RecordError(nil)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "stale cache transaction", ended[0].Status().Description)
	assert.Len(t, ended[0].Events(), 1)
}

func TestOTelTracer_ChildSpans(t *testing.T) {
	tracer, recorder := newRecorded(t)

	ctx, parent := tracer.Start(context.Background(), "rebuild")
	_, child := tracer.Start(ctx, "invalidate")
	child.End()
	parent.End()

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
}

func TestBridge_LogsFinishedSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug("span invalidate", gomock.Any()).Do(func(_ string, args ...any) {
		assert.Contains(t, args, "invalidate.evicted")
		assert.Contains(t, args, "error")
		assert.Contains(t, args, "boom")
	})

	provider := telemetry.NewProvider(logger)
	tracer := telemetry.NewOTelTracer(provider)

	_, span := tracer.Start(context.Background(), "invalidate")
	span.SetAttribute("invalidate.evicted", 2)
	span.RecordError(errors.New("boom"))
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestBridge_NilLogger(t *testing.T) {
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(nil)))
	_, span := provider.Tracer("test").Start(context.Background(), "noop")
	span.End()
	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()

	got, span := tracer.Start(ctx, "anything")
	span.SetAttribute("k", 1)
	span.RecordError(errors.New("ignored"))
	span.End()

	assert.Equal(t, ctx, got)
}
