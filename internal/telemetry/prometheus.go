package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// NewPrometheusReader builds an OTel metric reader that exposes every
// registered instrument through a Prometheus registry, bridging the
// collector's self-instrumentation metrics onto a pull-based /metrics
// endpoint without a separate OTLP collector.
func NewPrometheusReader() (*otelprom.Exporter, *prometheus.Registry, error) {
	registry := prometheus.NewRegistry()

	reader, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus reader: %w", err)
	}

	return reader, registry, nil
}

// MeterProviderWithPrometheus builds a meter provider backed by the given
// Prometheus reader, for use when Config.OTLPEndpoint is empty but a
// Prometheus scrape port was still requested.
func MeterProviderWithPrometheus(reader *otelprom.Exporter) *sdkmetric.MeterProvider {
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

// Handler returns the http.Handler to mount at /metrics.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
