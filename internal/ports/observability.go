package ports

import "context"

// MetricsCollector records quantitative signals about dispatch and pipeline
// execution. Adapters back onto Prometheus (see infrastructure/metrics).
// Metric names in use:
//   - Counters:
//     proem_signal_triggers_total{event="...", matched="true|false"}
//     proem_signal_listener_invocations_total{event="..."}
//     proem_pipeline_runs_total{status="success|failure"}
//   - Gauges:
//     proem_pipeline_stages
//   - Histograms:
//     proem_pipeline_hook_duration_seconds{stage="...", hook="..."}
type MetricsCollector interface {
	IncCounter(ctx context.Context, name string, labels map[string]string)
	SetGauge(ctx context.Context, name string, value float64, labels map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, labels map[string]string)
}

// Tracer manages tracing spans. Span names follow `<component>.<operation>`
// (e.g. `filter.init`, `filter.request.preIn`, `bootstrap.init`).
type Tracer interface {
	StartSpan(ctx context.Context, name string, attributes ...interface{}) (context.Context, Span)
}

// Span represents an active tracing span.
type Span interface {
	SetAttribute(key string, value interface{})
	SetStatus(status SpanStatus, message string)
	End()
}

// SpanStatus provides strongly typed span result semantics.
type SpanStatus string

const (
	SpanStatusOK    SpanStatus = "ok"
	SpanStatusError SpanStatus = "error"
)

// Metric names shared between producers and the Prometheus adapter.
const (
	MetricSignalTriggers      = "proem_signal_triggers_total"
	MetricListenerInvocations = "proem_signal_listener_invocations_total"
	MetricPipelineRuns        = "proem_pipeline_runs_total"
	MetricHookDuration        = "proem_pipeline_hook_duration_seconds"
	MetricPipelineStages      = "proem_pipeline_stages"
)
