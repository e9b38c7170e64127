package middleware

import (
	"time"

	"github.com/ferretek/procurement/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// httpMetrics holds the HTTP server instruments
type httpMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	activeRequests  metric.Int64UpDownCounter
}

func newHTTPMetrics(provider *telemetry.MeterProvider) (*httpMetrics, error) {
	requestTotal, err := provider.Counter(
		"http_server_request_total",
		"Total number of HTTP requests",
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := provider.Histogram(
		"http_server_request_duration_seconds",
		"HTTP request latency distribution in seconds",
		"s",
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := provider.Meter().Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		activeRequests:  activeRequests,
	}, nil
}

// HTTPMetrics returns a middleware that records request count, latency
// and in-flight requests. A nil provider yields a no-op middleware so
// callers can wire it unconditionally.
func HTTPMetrics(provider *telemetry.MeterProvider) gin.HandlerFunc {
	if provider == nil {
		return func(c *gin.Context) { c.Next() }
	}

	metrics, err := newHTTPMetrics(provider)
	if err != nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		metrics.activeRequests.Add(ctx, 1)
		c.Next()
		metrics.activeRequests.Add(ctx, -1)

		duration := time.Since(start)

		// Use the route pattern, not the raw path, to keep label
		// cardinality bounded
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}

		attrs := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		}
		metrics.requestTotal.Add(ctx, 1, metric.WithAttributes(
			append(attrs, attribute.Int("http.status_code", c.Writer.Status()))...,
		))
		metrics.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	}
}
