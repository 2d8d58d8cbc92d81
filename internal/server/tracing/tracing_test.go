package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestSetup_EnabledBuildsProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := Setup(context.Background(), Options{Enabled: true, Endpoint: "127.0.0.1:4318", SampleRate: 0})
	require.NoError(t, err)

	ctx, span := StartSpan(context.Background(), "test")
	span.End()
	assert.NotNil(t, ctx)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
