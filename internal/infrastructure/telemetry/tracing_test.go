package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/foodgram/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupTestTracer installs a tracer provider backed by an in-memory recorder.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)
	userID := uuid.New()

	_, span := telemetry.StartServiceSpan(context.Background(), "shopping_list", "download",
		telemetry.SpanAttrUserID, userID,
		telemetry.SpanAttrRows, 3,
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "shopping_list.download", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
	assert.Equal(t, "foodgram-backend", spans[0].InstrumentationScope().Name)

	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, userID.String(), attrs[telemetry.SpanAttrUserID].AsString())
	assert.Equal(t, int64(3), attrs[telemetry.SpanAttrRows].AsInt64())
}

func TestSetAttributes(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "recipe", "create")
	telemetry.SetAttributes(span,
		"name", "borscht",
		"bytes", int64(2048),
		"ratio", 0.5,
		"published", true,
		"tags", []string{"soup", "red"},
		42, "non-string key is skipped",
		"dangling",
	)
	span.End()

	attrs := attrMap(sr.Ended()[0].Attributes())
	assert.Len(t, attrs, 5)
	assert.Equal(t, "borscht", attrs["name"].AsString())
	assert.Equal(t, int64(2048), attrs["bytes"].AsInt64())
	assert.Equal(t, 0.5, attrs["ratio"].AsFloat64())
	assert.True(t, attrs["published"].AsBool())
	assert.Equal(t, []string{"soup", "red"}, attrs["tags"].AsStringSlice())
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "shopping_list", "download")
	telemetry.RecordError(span, nil)
	telemetry.RecordError(span, errors.New("aggregation failed"))
	span.End()

	ended := sr.Ended()[0]
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Equal(t, "aggregation failed", ended.Status().Description)
	require.Len(t, ended.Events(), 1)
	assert.Equal(t, "exception", ended.Events()[0].Name)
}

func TestAddEvent(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "shopping_list", "download")
	telemetry.AddEvent(span, "rendered", telemetry.SpanAttrPages, 2)
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "rendered", events[0].Name)
	assert.Equal(t, int64(2), attrMap(events[0].Attributes)[telemetry.SpanAttrPages].AsInt64())
}
