package routing

import (
	"context"
	"strings"

	"github.com/alexisbeaulieu97/proem/internal/domain/service"
	proemerrors "github.com/alexisbeaulieu97/proem/pkg/errors"
)

// Target is the part of a request a router looks at.
type Target interface {
	Method() string
	URI() string
	Host() string
}

// Router resolves a request into a payload. A nil payload means no match.
type Router interface {
	service.Provider
	Route(ctx context.Context, t Target) (*Payload, error)
}

// Dispatcher invokes whatever a payload resolved to. Request and response are
// read from the container.
type Dispatcher interface {
	service.Provider
	Dispatch(ctx context.Context, c *service.Container, p *Payload) error
}

// SegmentRouter maps "/controller/action/k1/v1/k2/v2" onto a payload.
// Missing controller or action segments fall back to the defaults.
type SegmentRouter struct {
	DefaultController string
	DefaultAction     string
}

// NewSegmentRouter returns a router defaulting to index/index.
func NewSegmentRouter() *SegmentRouter {
	return &SegmentRouter{DefaultController: "index", DefaultAction: "index"}
}

// Provides implements service.Provider.
func (r *SegmentRouter) Provides(c service.Capability) bool {
	return c == service.CapRouter
}

// Route splits the request path into controller, action and parameter pairs.
// A trailing key without a value is stored with an empty string.
func (r *SegmentRouter) Route(_ context.Context, t Target) (*Payload, error) {
	var segments []string
	for _, s := range strings.Split(strings.Trim(t.URI(), "/"), "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	p := NewPayload(nil).
		Set(ParamController, r.DefaultController).
		Set(ParamAction, r.DefaultAction)
	if len(segments) > 0 {
		p.Set(ParamController, segments[0])
	}
	if len(segments) > 1 {
		p.Set(ParamAction, segments[1])
	}
	for i := 2; i < len(segments); i += 2 {
		value := ""
		if i+1 < len(segments) {
			value = segments[i+1]
		}
		p.Set(segments[i], value)
	}
	return p, nil
}

// Handler serves one controller action.
type Handler func(ctx context.Context, c *service.Container, p *Payload) error

// Table dispatches on "controller.action" keys.
type Table struct {
	handlers map[string]Handler
}

// NewTable returns an empty dispatch table.
func NewTable() *Table {
	return &Table{handlers: make(map[string]Handler)}
}

// Provides implements service.Provider.
func (t *Table) Provides(c service.Capability) bool {
	return c == service.CapDispatcher
}

// Handle registers h for controller and action and returns t.
func (t *Table) Handle(controller, action string, h Handler) *Table {
	t.handlers[controller+"."+action] = h
	return t
}

// Dispatch runs the handler matching the payload's controller and action.
// Handler errors are returned unchanged.
func (t *Table) Dispatch(ctx context.Context, c *service.Container, p *Payload) error {
	key := p.String(ParamController, "") + "." + p.String(ParamAction, "")
	h, ok := t.handlers[key]
	if !ok {
		return proemerrors.NewLookupError(key, string(service.CapDispatcher))
	}
	return h(ctx, c, p)
}

var (
	_ Router     = (*SegmentRouter)(nil)
	_ Dispatcher = (*Table)(nil)
)
