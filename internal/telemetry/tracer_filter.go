package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// verboseSpanPrefixes names span-name prefixes that are only emitted
// when TraceVerbose is set. Collector self-instrumentation emits a
// handful of span names; everything outside this list is always kept.
var verboseSpanPrefixes = []string{
	"tracecore.recorder.",
	"tracecore.eventlist.",
}

// filteringTracerProvider drops low-value, high-frequency spans (the
// ones a per-thread recorder would emit if it were ever traced) unless
// verbose tracing was explicitly requested. It never touches the
// Begin/End hot path itself, only the rare self-instrumentation spans
// around CreateCollection and report building.
type filteringTracerProvider struct {
	embedded trace.TracerProvider
}

// NewFilteringTracerProvider wraps tp so that Tracer() calls return
// tracers that silently no-op spans whose name matches verboseSpanPrefixes.
func NewFilteringTracerProvider(tp trace.TracerProvider) trace.TracerProvider {
	return &filteringTracerProvider{embedded: tp}
}

func (p *filteringTracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return &filteringTracer{inner: p.embedded.Tracer(name, opts...)}
}

type filteringTracer struct {
	inner trace.Tracer
}

func (t *filteringTracer) Start(
	ctx context.Context, spanName string, opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	for _, prefix := range verboseSpanPrefixes {
		if len(spanName) >= len(prefix) && spanName[:len(prefix)] == prefix {
			return trace.ContextWithSpan(ctx, trace.SpanFromContext(ctx)), trace.SpanFromContext(ctx)
		}
	}

	return t.inner.Start(ctx, spanName, opts...)
}
