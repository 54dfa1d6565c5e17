package signal

import "github.com/alexisbeaulieu97/proem/internal/domain/service"

// Event is one named occurrence. Its name is fixed at construction; the
// container it carries is the shared, mutable context of the current run.
type Event struct {
	name        string
	container   *service.Container
	environment string
	params      map[string]any
}

// NewEvent creates an event with the given dot-segmented name.
func NewEvent(name string) *Event {
	return &Event{name: name}
}

// Name returns the event name.
func (e *Event) Name() string { return e.name }

// WithContainer attaches the shared context and returns e.
func (e *Event) WithContainer(c *service.Container) *Event {
	e.container = c
	return e
}

// Container returns the shared context, possibly nil.
func (e *Event) Container() *service.Container { return e.container }

// WithEnvironment tags the event with an environment name and returns e.
func (e *Event) WithEnvironment(env string) *Event {
	e.environment = env
	return e
}

// Environment returns the environment tag, "" when unset.
func (e *Event) Environment() string { return e.environment }

// WithParam stores a free-form parameter and returns e.
func (e *Event) WithParam(key string, value any) *Event {
	if e.params == nil {
		e.params = make(map[string]any)
	}
	e.params[key] = value
	return e
}

// Param returns the parameter stored under key.
func (e *Event) Param(key string) (any, bool) {
	v, ok := e.params[key]
	return v, ok
}
