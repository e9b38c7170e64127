package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// MetricsError wraps errors from the metrics subsystem
type MetricsError struct {
	Op  string
	Err error
}

func (e *MetricsError) Error() string {
	return fmt.Sprintf("telemetry: %s: %v", e.Op, e.Err)
}

func (e *MetricsError) Unwrap() error {
	return e.Err
}

// MeterProvider wraps the OTel meter provider with a Prometheus reader.
// Metrics are pulled by scraping the /metrics endpoint; there is no
// push pipeline.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	meter    metric.Meter
}

// NewMeterProvider creates a meter provider backed by the Prometheus
// exporter and registers it as the global provider
func NewMeterProvider(serviceName, serviceVersion string) (*MeterProvider, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, &MetricsError{Op: "create prometheus exporter", Err: err}
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", serviceVersion),
	)

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)

	return &MeterProvider{
		provider: provider,
		meter:    provider.Meter("github.com/ferretek/procurement"),
	}, nil
}

// Meter returns the underlying meter
func (m *MeterProvider) Meter() metric.Meter {
	return m.meter
}

// Shutdown flushes and stops the provider
func (m *MeterProvider) Shutdown(ctx context.Context) error {
	if err := m.provider.Shutdown(ctx); err != nil {
		return &MetricsError{Op: "shutdown meter provider", Err: err}
	}
	return nil
}

// Counter creates an int64 counter
func (m *MeterProvider) Counter(name, description string) (metric.Int64Counter, error) {
	counter, err := m.meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return nil, &MetricsError{Op: "create counter " + name, Err: err}
	}
	return counter, nil
}

// FloatCounter creates a float64 counter
func (m *MeterProvider) FloatCounter(name, description, unit string) (metric.Float64Counter, error) {
	counter, err := m.meter.Float64Counter(name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, &MetricsError{Op: "create counter " + name, Err: err}
	}
	return counter, nil
}

// Histogram creates a float64 histogram
func (m *MeterProvider) Histogram(name, description, unit string) (metric.Float64Histogram, error) {
	histogram, err := m.meter.Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, &MetricsError{Op: "create histogram " + name, Err: err}
	}
	return histogram, nil
}
