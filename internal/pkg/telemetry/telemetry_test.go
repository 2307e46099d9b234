package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingProvider(t *testing.T) (*Provider, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	p := &Provider{
		tracerProvider: tp,
		meterProvider:  mp,
		tracer:         tp.Tracer(instrumentationName),
		meter:          mp.Meter(instrumentationName),
	}
	require.NoError(t, p.initInstruments())
	return p, recorder, reader
}

func sumOf(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestTrackOperation(t *testing.T) {
	ctx := context.Background()
	p, recorder, reader := newRecordingProvider(t)

	_, done := p.TrackOperation(ctx, "review.submit", attribute.String("product_id", "prod-1"))
	done(nil, "")

	_, done = p.TrackOperation(ctx, "review.submit")
	done(errors.New("boom"), "Internal")

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "review.submit", spans[0].Name())
	assert.Len(t, spans[1].Events(), 1) // recorded error

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	assert.Equal(t, int64(2), sumOf(t, rm, "storefront.operations.total"))
	assert.Equal(t, int64(1), sumOf(t, rm, "storefront.operations.errors"))

	require.NoError(t, p.Shutdown(ctx))
}

func TestDisabled(t *testing.T) {
	p := Disabled()
	ctx, done := p.TrackOperation(context.Background(), "noop")
	assert.NotNil(t, ctx)
	done(errors.New("ignored"), "Internal")
	assert.NoError(t, p.Shutdown(context.Background()))
}
