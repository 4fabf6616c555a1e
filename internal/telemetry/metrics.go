// Package telemetry records scan metrics through the OTEL metric API.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments recorded during a run. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	resourcesTotal metric.Int64Counter
	errorsTotal    metric.Int64Counter
	regionDuration metric.Float64Histogram
	regionsScanned metric.Int64Counter
}

// NewMetrics creates the scan instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("skopa")
	m := &Metrics{}
	var err error

	m.resourcesTotal, err = meter.Int64Counter(
		"skopa_resources_total",
		metric.WithDescription("Total resources collected"),
	)
	if err != nil {
		return nil, fmt.Errorf("create resources counter: %w", err)
	}

	m.errorsTotal, err = meter.Int64Counter(
		"skopa_collector_errors_total",
		metric.WithDescription("Total collector listing failures"),
	)
	if err != nil {
		return nil, fmt.Errorf("create errors counter: %w", err)
	}

	m.regionDuration, err = meter.Float64Histogram(
		"skopa_region_duration_seconds",
		metric.WithDescription("Time taken to collect one region"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create region duration histogram: %w", err)
	}

	m.regionsScanned, err = meter.Int64Counter(
		"skopa_regions_scanned_total",
		metric.WithDescription("Total regions scanned"),
	)
	if err != nil {
		return nil, fmt.Errorf("create regions counter: %w", err)
	}

	return m, nil
}

// RecordResources counts rows collected for one kind in one region.
func (m *Metrics) RecordResources(ctx context.Context, region, kind string, count int) {
	if m == nil {
		return
	}
	m.resourcesTotal.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("region", region),
		attribute.String("kind", kind),
	))
}

// RecordError counts a failed listing call for one kind in one region.
func (m *Metrics) RecordError(ctx context.Context, region, kind string) {
	if m == nil {
		return
	}
	m.errorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("region", region),
		attribute.String("kind", kind),
	))
}

// RecordRegion counts a completed region and its duration.
func (m *Metrics) RecordRegion(ctx context.Context, region string, seconds float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("region", region))
	m.regionsScanned.Add(ctx, 1, attrs)
	m.regionDuration.Record(ctx, seconds, attrs)
}
