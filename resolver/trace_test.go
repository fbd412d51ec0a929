package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestMapBatchEmitsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	store := newFakeStore()
	store.add("", "d2", rawDataset("d2", nil))
	r := newTestResolver(t, store, Config{Tracer: provider.Tracer("test")})

	top := rawDataset("d1", map[string]any{"tt_next": datasetRef("d2")})
	_, err := r.MapBatch(context.Background(), []map[string]any{top})
	require.NoError(t, err)

	var names []string
	var requestID string
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
		if span.Name() == "resolver.MapBatch" {
			for _, attr := range span.Attributes() {
				if string(attr.Key) == "request_id" {
					requestID = attr.Value.AsString()
				}
			}
		}
	}

	assert.Contains(t, names, "resolver.MapBatch")
	assert.Contains(t, names, "resolver.round")
	assert.NotEmpty(t, requestID)
}
