package signal

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/alexisbeaulieu97/proem/internal/domain/service"
	"github.com/alexisbeaulieu97/proem/internal/ports"
)

// ErrNilEvent is returned when Trigger is called without an event.
var ErrNilEvent = errors.New("signal: nil event")

// ResultFunc receives every non-empty listener result (see IsEmptyResult),
// synchronously, before the next listener runs.
type ResultFunc func(result any) error

// Dispatcher is the capability stages look up under service.KeyEvents.
type Dispatcher interface {
	Trigger(ctx context.Context, e *Event, onResult ResultFunc) error
}

// Spec describes one listener for AttachMany.
type Spec struct {
	Name     string
	Names    []string
	Callback Callback
	Priority int
}

// Manager is the signal dispatcher: it owns a Registry and runs listeners in
// priority order. It is single-threaded; a run owns its Manager.
type Manager struct {
	registry *Registry
	logger   ports.Logger
	metrics  ports.MetricsCollector
	gen      IDGenerator
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for debug tracing of attachments and dispatch.
func WithLogger(logger ports.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithMetrics sets the collector counting triggers and listener invocations.
func WithMetrics(metrics ports.MetricsCollector) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// WithIDGenerator overrides the listener identity source.
func WithIDGenerator(gen IDGenerator) Option {
	return func(m *Manager) { m.gen = gen }
}

// NewManager creates a dispatcher with an empty registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}
	m.registry = NewRegistry(m.gen)
	return m
}

// Provides implements service.Provider.
func (m *Manager) Provides(c service.Capability) bool {
	return c == service.CapSignalManager
}

// Registry exposes the underlying listener registry.
func (m *Manager) Registry() *Registry { return m.registry }

// Attach registers cb for a single name or wildcard pattern.
func (m *Manager) Attach(name string, cb Callback, priority int) (ListenerID, error) {
	return m.AttachAll([]string{name}, cb, priority)
}

// AttachAll registers cb under one identity for every name.
func (m *Manager) AttachAll(names []string, cb Callback, priority int) (ListenerID, error) {
	id, err := m.registry.Attach(names, cb, priority)
	if err != nil {
		return "", err
	}
	m.debug(context.Background(), "listener attached",
		"listener", string(id),
		"events", strings.Join(names, ","),
		"priority", priority,
	)
	return id, nil
}

// AttachMany registers each spec in order and stops at the first failure.
func (m *Manager) AttachMany(specs []Spec) ([]ListenerID, error) {
	attached := make([]ListenerID, 0, len(specs))
	for _, spec := range specs {
		names := spec.Names
		if spec.Name != "" {
			names = append([]string{spec.Name}, names...)
		}
		id, err := m.AttachAll(names, spec.Callback, spec.Priority)
		if err != nil {
			return attached, err
		}
		attached = append(attached, id)
	}
	return attached, nil
}

// Remove deletes the queue for an exact event name. See Registry.Remove.
func (m *Manager) Remove(name string) bool {
	removed := m.registry.Remove(name)
	m.debug(context.Background(), "listener queue removed", "event", name, "removed", removed)
	return removed
}

// HasListeners reports whether triggering name would invoke any listener.
func (m *Manager) HasListeners(name string) bool {
	return m.registry.Matches(name)
}

// Trigger invokes every listener matching e's name, highest priority first.
// Listeners attached while a trigger is running do not see that trigger.
// Errors from listeners and from onResult are returned as-is and stop the
// dispatch. Triggering a name nobody listens to is a no-op.
func (m *Manager) Trigger(ctx context.Context, e *Event, onResult ResultFunc) error {
	if e == nil {
		return ErrNilEvent
	}
	name := e.Name()
	if name == "" {
		return nil
	}
	if err := validateConcrete(name); err != nil {
		return err
	}

	q, matched := m.registry.Resolve(name)
	m.count(ctx, ports.MetricSignalTriggers, map[string]string{"event": name, "matched": strconv.FormatBool(matched)})
	if !matched {
		m.debug(ctx, "signal triggered without listeners", "event", name)
		return nil
	}

	listeners := q.Listeners()
	m.debug(ctx, "signal triggered", "event", name, "listeners", len(listeners))

	for _, id := range listeners {
		cb, ok := m.registry.Callback(id)
		if !ok {
			continue
		}
		m.count(ctx, ports.MetricListenerInvocations, map[string]string{"event": name})

		result, err := cb(ctx, e)
		if err != nil {
			return err
		}
		if onResult == nil || IsEmptyResult(result) {
			continue
		}
		if err := onResult(result); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) debug(ctx context.Context, msg string, fields ...interface{}) {
	if m.logger == nil {
		return
	}
	m.logger.Debug(ctx, msg, fields...)
}

func (m *Manager) count(ctx context.Context, name string, labels map[string]string) {
	if m.metrics == nil {
		return
	}
	m.metrics.IncCounter(ctx, name, labels)
}

var (
	_ Dispatcher       = (*Manager)(nil)
	_ service.Provider = (*Manager)(nil)
)
