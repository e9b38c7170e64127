package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeterProvider(t *testing.T) {
	provider, err := NewMeterProvider("procurement-test", "0.0.1")
	require.NoError(t, err)
	require.NotNil(t, provider)
	defer provider.Shutdown(context.Background())

	assert.NotNil(t, provider.Meter())

	counter, err := provider.Counter("test_total", "a test counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	histogram, err := provider.Histogram("test_amount", "a test histogram", "EUR")
	require.NoError(t, err)
	histogram.Record(context.Background(), 12.5)
}

func TestProcurementMetrics(t *testing.T) {
	provider, err := NewMeterProvider("procurement-test", "0.0.1")
	require.NoError(t, err)
	defer provider.Shutdown(context.Background())

	metrics, err := NewProcurementMetrics(provider)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordOrderCreated(ctx, 104.60)
	metrics.RecordOrderCreated(ctx, 0)
	metrics.RecordTransition(ctx, "send", "draft", "sent")
	metrics.RecordTransition(ctx, "receive", "confirmed", "confirmed")
	metrics.RecordReceivedQuantity(ctx, 4)
	metrics.RecordOverReceipt(ctx)
}

func TestMetricsError(t *testing.T) {
	inner := assert.AnError
	err := &MetricsError{Op: "create counter", Err: inner}
	assert.Contains(t, err.Error(), "create counter")
	assert.ErrorIs(t, err, inner)
}
