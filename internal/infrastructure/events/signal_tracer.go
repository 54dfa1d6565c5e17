package events

import (
	"context"
	"strings"

	"github.com/alexisbeaulieu97/proem/internal/domain/signal"
	"github.com/alexisbeaulieu97/proem/internal/ports"
)

// TracerPriority runs the tracer after ordinary listeners.
const TracerPriority = -1000

// SignalTracer is a root-wildcard listener that logs every fired signal and
// counts fires per name.
type SignalTracer struct {
	logger ports.Logger
	counts map[string]int
	order  []string
}

// NewSignalTracer returns a tracer writing through logger. A nil logger only counts.
func NewSignalTracer(logger ports.Logger) *SignalTracer {
	return &SignalTracer{
		logger: logger,
		counts: make(map[string]int),
	}
}

// Attach subscribes the tracer to every signal on m.
func (t *SignalTracer) Attach(m *signal.Manager, priority int) (signal.ListenerID, error) {
	return m.Attach(signal.RootWildcard, t.Listen, priority)
}

// Listen records e. It never returns a result.
func (t *SignalTracer) Listen(ctx context.Context, e *signal.Event) (any, error) {
	name := e.Name()
	if _, seen := t.counts[name]; !seen {
		t.order = append(t.order, name)
	}
	t.counts[name]++

	if t.logger == nil {
		return nil, nil
	}
	fields := []interface{}{"event", name, "count", t.counts[name]}
	if env := e.Environment(); env != "" {
		fields = append(fields, "environment", env)
	}
	if c := e.Container(); c != nil {
		fields = append(fields, "assets", strings.Join(c.Keys(), ","))
	}
	t.logger.Info(ctx, "signal fired", fields...)
	return nil, nil
}

// Fired returns signal names in first-fire order.
func (t *SignalTracer) Fired() []string {
	return append([]string(nil), t.order...)
}

// Count returns how often name fired.
func (t *SignalTracer) Count(name string) int {
	return t.counts[name]
}

// Total returns the number of fires across all names.
func (t *SignalTracer) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}
