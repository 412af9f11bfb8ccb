package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCollectionsTotal   = "tracecore.collections.total"
	metricCollectionDuration = "tracecore.collection.duration.seconds"
	metricEventsHandedOff    = "tracecore.events.handed_off"
	metricActiveThreads      = "tracecore.threads.active"

	attrReason = "reason"

	reasonManual  = "manual"
	reasonHandoff = "handoff"
)

// collectionDurationBoundaries covers sub-millisecond hand-offs (demo
// workloads) through multi-second ones (long-running traced programs).
var collectionDurationBoundaries = []float64{
	0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10,
}

// CollectorMetrics holds the OTel instruments for the collector's own
// self-instrumentation: how often CreateCollection runs, how long it
// takes, and how many events and threads it processes. These never
// touch the Begin/End/CounterDelta hot path.
type CollectorMetrics struct {
	collectionsTotal   metric.Int64Counter
	collectionDuration metric.Float64Histogram
	eventsHandedOff     metric.Int64Counter
	activeThreads       metric.Int64UpDownCounter
}

// NewCollectorMetrics creates the collector's instruments from the given meter.
func NewCollectorMetrics(mt metric.Meter) (*CollectorMetrics, error) {
	collectionsTotal, err := mt.Int64Counter(metricCollectionsTotal,
		metric.WithDescription("Total number of CreateCollection calls"),
		metric.WithUnit("{collection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCollectionsTotal, err)
	}

	collectionDuration, err := mt.Float64Histogram(metricCollectionDuration,
		metric.WithDescription("Duration of CreateCollection in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(collectionDurationBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCollectionDuration, err)
	}

	eventsHandedOff, err := mt.Int64Counter(metricEventsHandedOff,
		metric.WithDescription("Total number of trace events handed off to a collection"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEventsHandedOff, err)
	}

	activeThreads, err := mt.Int64UpDownCounter(metricActiveThreads,
		metric.WithDescription("Number of threads with a live per-thread recorder"),
		metric.WithUnit("{thread}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricActiveThreads, err)
	}

	return &CollectorMetrics{
		collectionsTotal:   collectionsTotal,
		collectionDuration: collectionDuration,
		eventsHandedOff:    eventsHandedOff,
		activeThreads:      activeThreads,
	}, nil
}

// RecordCollection records one CreateCollection call: its trigger reason,
// wall-clock duration, and the number of events it bundled.
func (m *CollectorMetrics) RecordCollection(ctx context.Context, manual bool, duration time.Duration, eventCount int) {
	reason := reasonHandoff
	if manual {
		reason = reasonManual
	}

	attrs := metric.WithAttributes(attribute.String(attrReason, reason))

	m.collectionsTotal.Add(ctx, 1, attrs)
	m.collectionDuration.Record(ctx, duration.Seconds(), attrs)
	m.eventsHandedOff.Add(ctx, int64(eventCount), attrs)
}

// TrackThread increments the active-recorder gauge and returns a function
// to decrement it when the thread's recorder is torn down.
func (m *CollectorMetrics) TrackThread(ctx context.Context) func() {
	m.activeThreads.Add(ctx, 1)

	return func() {
		m.activeThreads.Add(ctx, -1)
	}
}
