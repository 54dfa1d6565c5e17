// Package metrics implements ports.MetricsCollector on Prometheus.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/alexisbeaulieu97/proem/internal/ports"
)

// Collector routes the well-known metric names onto Prometheus vectors.
// Unknown names and mismatched label sets are dropped.
type Collector struct {
	registry   *prometheus.Registry
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// HookBuckets are the histogram buckets for hook durations, in seconds.
var HookBuckets = []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1}

// New creates a collector registered on registry. A nil registry gets a
// fresh one so tests and runs never share state.
func New(registry *prometheus.Registry) (*Collector, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		counters: map[string]*prometheus.CounterVec{
			ports.MetricSignalTriggers: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: ports.MetricSignalTriggers,
				Help: "Signals triggered, by event name and whether any listener matched.",
			}, []string{"event", "matched"}),
			ports.MetricListenerInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: ports.MetricListenerInvocations,
				Help: "Listener callbacks invoked, by event name.",
			}, []string{"event"}),
			ports.MetricPipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: ports.MetricPipelineRuns,
				Help: "Pipeline runs, by outcome.",
			}, []string{"status"}),
		},
		gauges: map[string]*prometheus.GaugeVec{
			ports.MetricPipelineStages: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: ports.MetricPipelineStages,
				Help: "Stages attached to the last pipeline run.",
			}, nil),
		},
		histograms: map[string]*prometheus.HistogramVec{
			ports.MetricHookDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    ports.MetricHookDuration,
				Help:    "Duration of stage hooks.",
				Buckets: HookBuckets,
			}, []string{"stage", "hook"}),
		},
	}

	for _, vec := range c.counters {
		if err := registry.Register(vec); err != nil {
			return nil, err
		}
	}
	for _, vec := range c.gauges {
		if err := registry.Register(vec); err != nil {
			return nil, err
		}
	}
	for _, vec := range c.histograms {
		if err := registry.Register(vec); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Registry returns the registry the collectors live in.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Gather returns the current metric families.
func (c *Collector) Gather() ([]*dto.MetricFamily, error) {
	return c.registry.Gather()
}

// IncCounter implements ports.MetricsCollector.
func (c *Collector) IncCounter(_ context.Context, name string, labels map[string]string) {
	vec, ok := c.counters[name]
	if !ok {
		return
	}
	counter, err := vec.GetMetricWith(labels)
	if err != nil {
		return
	}
	counter.Inc()
}

// SetGauge implements ports.MetricsCollector.
func (c *Collector) SetGauge(_ context.Context, name string, value float64, labels map[string]string) {
	vec, ok := c.gauges[name]
	if !ok {
		return
	}
	gauge, err := vec.GetMetricWith(labels)
	if err != nil {
		return
	}
	gauge.Set(value)
}

// ObserveHistogram implements ports.MetricsCollector.
func (c *Collector) ObserveHistogram(_ context.Context, name string, value float64, labels map[string]string) {
	vec, ok := c.histograms[name]
	if !ok {
		return
	}
	observer, err := vec.GetMetricWith(labels)
	if err != nil {
		return
	}
	observer.Observe(value)
}

var _ ports.MetricsCollector = (*Collector)(nil)
