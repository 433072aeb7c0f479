package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestEnableSpanProfiles(t *testing.T) {
	t.Run("disabled tracing", func(t *testing.T) {
		tp, err := NewTracerProvider(context.Background(), Config{}, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, tp.EnableSpanProfiles())
	})

	t.Run("wraps the global provider", func(t *testing.T) {
		original := otel.GetTracerProvider()
		t.Cleanup(func() { otel.SetTracerProvider(original) })

		tp := &TracerProvider{provider: sdktrace.NewTracerProvider(), logger: zap.NewNop(), config: Config{Enabled: true}}
		t.Cleanup(func() { _ = tp.provider.Shutdown(context.Background()) })

		assert.True(t, tp.EnableSpanProfiles())
		assert.NotSame(t, tp.provider, otel.GetTracerProvider())

		_, span := otel.Tracer("test").Start(context.Background(), "op")
		assert.True(t, span.SpanContext().IsValid())
		span.End()
	})
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "ParentBased{root:AlwaysOnSampler"},
		{1.5, "ParentBased{root:AlwaysOnSampler"},
		{0, "ParentBased{root:AlwaysOffSampler"},
		{-1, "ParentBased{root:AlwaysOffSampler"},
		{0.25, "ParentBased{root:TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		assert.Contains(t, newSampler(tt.ratio).Description(), tt.want)
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("foodgram-test")
	require.NoError(t, err)

	value, ok := res.Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "foodgram-test", value.AsString())

	version, ok := res.Set().Value("service.version")
	require.True(t, ok)
	assert.Equal(t, ServiceVersion, version.AsString())
}
