package filter

import (
	"context"
	"sort"
	"time"

	"github.com/alexisbeaulieu97/proem/internal/domain/service"
	"github.com/alexisbeaulieu97/proem/internal/ports"
	proemerrors "github.com/alexisbeaulieu97/proem/pkg/errors"
)

type slot struct {
	stage    Stage
	priority int
	seq      int
}

// Manager is the default Pipeline. Stages run inbound in ascending priority
// order (attach order among ties) and outbound in the exact reverse.
type Manager struct {
	slots   []slot
	seq     int
	state   State
	err     error
	logger  ports.Logger
	metrics ports.MetricsCollector
	tracer  ports.Tracer
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for sweep and hook tracing.
func WithLogger(logger ports.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithMetrics sets the collector receiving hook durations and run outcomes.
func WithMetrics(metrics ports.MetricsCollector) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// WithTracer sets the tracer wrapping sweeps and hooks in spans.
func WithTracer(tracer ports.Tracer) Option {
	return func(m *Manager) { m.tracer = tracer }
}

// NewManager returns an idle manager with no stages.
func NewManager(opts ...Option) *Manager {
	m := &Manager{state: StateIdle}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Provides implements service.Provider.
func (m *Manager) Provides(c service.Capability) bool {
	return c == service.CapFilterManager
}

// Attach adds stage at priority and returns m. A nil stage is recorded as the
// manager's error and reported by Err and Init.
func (m *Manager) Attach(stage Stage, priority int) *Manager {
	if stage == nil {
		if m.err == nil {
			m.err = proemerrors.NewRegistrationError("", "stage is nil")
		}
		return m
	}
	m.seq++
	m.slots = append(m.slots, slot{stage: stage, priority: priority, seq: m.seq})
	return m
}

// Err returns the first attach error, if any.
func (m *Manager) Err() error { return m.err }

// State returns the current lifecycle state.
func (m *Manager) State() State { return m.state }

// Stages returns the attached stages in inbound order.
func (m *Manager) Stages() []Stage {
	ordered := m.ordered()
	stages := make([]Stage, len(ordered))
	for i, s := range ordered {
		stages[i] = s.stage
	}
	return stages
}

func (m *Manager) ordered() []slot {
	ordered := append([]slot(nil), m.slots...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].priority != ordered[j].priority {
			return ordered[i].priority < ordered[j].priority
		}
		return ordered[i].seq < ordered[j].seq
	})
	return ordered
}

// Init runs the inbound sweep then the outbound sweep. A manager runs once;
// a second call fails with a StateError. A hook error aborts the run, leaves
// the state at the failing sweep and is returned unchanged.
func (m *Manager) Init(ctx context.Context, c *service.Container) (err error) {
	if m.state != StateIdle {
		return &StateError{State: m.state}
	}
	if m.err != nil {
		return m.err
	}

	ctx, span := m.startSpan(ctx, "filter.init", "stages", len(m.slots))
	defer func() {
		m.finish(ctx, span, err)
	}()

	inbound := m.ordered()
	if m.metrics != nil {
		m.metrics.SetGauge(ctx, ports.MetricPipelineStages, float64(len(inbound)), nil)
	}
	m.state = StateInboundSweep
	m.debug(ctx, "inbound sweep started", "stages", len(inbound))
	for _, s := range inbound {
		for _, hook := range inboundHooks {
			if err := m.runHook(ctx, s.stage, hook, c); err != nil {
				return err
			}
		}
	}

	m.state = StateOutboundSweep
	m.debug(ctx, "outbound sweep started", "stages", len(inbound))
	for i := len(inbound) - 1; i >= 0; i-- {
		for _, hook := range outboundHooks {
			if err := m.runHook(ctx, inbound[i].stage, hook, c); err != nil {
				return err
			}
		}
	}

	m.state = StateDone
	return nil
}

func (m *Manager) runHook(ctx context.Context, stage Stage, hook Hook, c *service.Container) error {
	name := stage.Name()
	hookCtx, span := m.startSpan(ctx, "filter."+name+"."+string(hook), "stage", name, "hook", string(hook))
	start := time.Now()

	err := call(hookCtx, stage, hook, c)

	if m.metrics != nil {
		m.metrics.ObserveHistogram(ctx, ports.MetricHookDuration, time.Since(start).Seconds(), map[string]string{
			"stage": name,
			"hook":  string(hook),
		})
	}
	if span != nil {
		if err != nil {
			span.SetStatus(ports.SpanStatusError, err.Error())
		} else {
			span.SetStatus(ports.SpanStatusOK, "")
		}
		span.End()
	}
	if err != nil && m.logger != nil {
		m.logger.Error(ctx, "stage hook failed", "stage", name, "hook", string(hook), "error", err)
	}
	return err
}

func (m *Manager) startSpan(ctx context.Context, name string, attrs ...interface{}) (context.Context, ports.Span) {
	if m.tracer == nil {
		return ctx, nil
	}
	spanCtx, span := m.tracer.StartSpan(ctx, name, attrs...)
	if spanCtx == nil {
		spanCtx = ctx
	}
	return spanCtx, span
}

func (m *Manager) finish(ctx context.Context, span ports.Span, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	if m.metrics != nil {
		m.metrics.IncCounter(ctx, ports.MetricPipelineRuns, map[string]string{"status": status})
	}
	if span != nil {
		span.SetAttribute("state", m.state.String())
		if err != nil {
			span.SetStatus(ports.SpanStatusError, err.Error())
		} else {
			span.SetStatus(ports.SpanStatusOK, status)
		}
		span.End()
	}
	m.debug(ctx, "pipeline finished", "state", m.state.String(), "status", status)
}

func (m *Manager) debug(ctx context.Context, msg string, fields ...interface{}) {
	if m.logger == nil {
		return
	}
	m.logger.Debug(ctx, msg, fields...)
}

var _ Pipeline = (*Manager)(nil)
