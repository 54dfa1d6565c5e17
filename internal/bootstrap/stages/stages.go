package stages

import (
	"context"
	"io"

	"github.com/alexisbeaulieu97/proem/internal/domain/filter"
	"github.com/alexisbeaulieu97/proem/internal/domain/httpio"
	"github.com/alexisbeaulieu97/proem/internal/domain/routing"
	"github.com/alexisbeaulieu97/proem/internal/domain/service"
	"github.com/alexisbeaulieu97/proem/internal/domain/signal"
	proemerrors "github.com/alexisbeaulieu97/proem/pkg/errors"
)

// Response installs the run's response and optionally sends it on the way out.
type Response struct {
	signaler
	out io.Writer
}

// NewResponse returns the Response stage. A nil writer disables sending.
func NewResponse(prefix string, out io.Writer) *Response {
	return &Response{signaler: signaler{prefix: prefix, token: signal.StageResponse}, out: out}
}

// PreIn fires pre.in.response and installs the first io.response result.
func (s *Response) PreIn(ctx context.Context, c *service.Container) error {
	return s.preIn(ctx, c, service.KeyResponse, service.CapResponse)
}

// InBound registers a lazily built HTTPResponse when nothing provides one.
func (s *Response) InBound(_ context.Context, c *service.Container) error {
	if c.ProvidesAny(service.CapResponse) {
		return nil
	}
	c.Single(service.KeyResponse, []service.Capability{service.CapResponse}, func(*service.Container) (any, error) {
		return httpio.NewHTTPResponse(), nil
	})
	return nil
}

// OutBound sends the response body to the configured writer.
func (s *Response) OutBound(_ context.Context, c *service.Container) error {
	if s.out == nil {
		return nil
	}
	key, ok := c.Find(service.CapResponse)
	if !ok {
		return proemerrors.NewLookupError("", string(service.CapResponse))
	}
	resp, err := service.Require[httpio.Response](c, key, service.CapResponse)
	if err != nil {
		return err
	}
	_, err = resp.Send(s.out)
	return err
}

// RequestDefaults describes the request built when no listener supplies one.
type RequestDefaults struct {
	URL         string
	Method      string
	Body        []byte
	ContentType string
}

// Request installs the run's request.
type Request struct {
	signaler
	defaults RequestDefaults
}

// NewRequest returns the Request stage.
func NewRequest(prefix string, defaults RequestDefaults) *Request {
	return &Request{signaler: signaler{prefix: prefix, token: signal.StageRequest}, defaults: defaults}
}

// PreIn fires pre.in.request and installs the first io.request result.
func (s *Request) PreIn(ctx context.Context, c *service.Container) error {
	return s.preIn(ctx, c, service.KeyRequest, service.CapRequest)
}

// InBound registers a lazily built HTTPRequest when nothing provides one.
func (s *Request) InBound(_ context.Context, c *service.Container) error {
	if c.ProvidesAny(service.CapRequest) {
		return nil
	}
	d := s.defaults
	c.Single(service.KeyRequest, []service.Capability{service.CapRequest}, func(*service.Container) (any, error) {
		req, err := httpio.NewHTTPRequest(d.URL, d.Method, d.Body)
		if err != nil {
			return nil, err
		}
		if d.ContentType != "" {
			req.SetContentType(d.ContentType)
		}
		return req, nil
	})
	return nil
}

// OutBound is a no-op.
func (*Request) OutBound(context.Context, *service.Container) error { return nil }

// Route resolves the request into a payload when a router is present.
type Route struct {
	signaler
}

// NewRoute returns the Route stage.
func NewRoute(prefix string) *Route {
	return &Route{signaler: signaler{prefix: prefix, token: signal.StageRouter}}
}

// PreIn fires pre.in.router and installs the first routing.router result.
func (s *Route) PreIn(ctx context.Context, c *service.Container) error {
	return s.preIn(ctx, c, service.KeyRouter, service.CapRouter)
}

// InBound routes the request and stores a non-nil payload under
// service.KeyRoute, also injecting it into the request. Without a router
// the stage passes through.
func (s *Route) InBound(ctx context.Context, c *service.Container) error {
	routerKey, ok := c.Find(service.CapRouter)
	if !ok {
		return nil
	}
	router, err := service.Require[routing.Router](c, routerKey, service.CapRouter)
	if err != nil {
		return err
	}
	requestKey, ok := c.Find(service.CapRequest)
	if !ok {
		return proemerrors.NewLookupError("", string(service.CapRequest))
	}
	req, err := service.Require[httpio.Request](c, requestKey, service.CapRequest)
	if err != nil {
		return err
	}

	payload, err := router.Route(ctx, req)
	if err != nil {
		return err
	}
	if payload == nil {
		return nil
	}
	req.InjectPayload(payload)
	c.Set(service.KeyRoute, payload)
	return nil
}

// OutBound is a no-op.
func (*Route) OutBound(context.Context, *service.Container) error { return nil }

// Dispatch hands a routed payload to the dispatcher.
type Dispatch struct {
	signaler
}

// NewDispatch returns the Dispatch stage.
func NewDispatch(prefix string) *Dispatch {
	return &Dispatch{signaler: signaler{prefix: prefix, token: signal.StageDispatch}}
}

// PreIn fires pre.in.dispatch and installs the first dispatch.dispatcher result.
func (s *Dispatch) PreIn(ctx context.Context, c *service.Container) error {
	return s.preIn(ctx, c, service.KeyDispatch, service.CapDispatcher)
}

// InBound dispatches when a route payload exists. A payload without a
// dispatcher is a LookupError.
func (s *Dispatch) InBound(ctx context.Context, c *service.Container) error {
	if !c.Provides(service.KeyRoute, service.CapRoute) {
		return nil
	}
	payload, err := service.Require[*routing.Payload](c, service.KeyRoute, service.CapRoute)
	if err != nil {
		return err
	}
	key, ok := c.Find(service.CapDispatcher)
	if !ok {
		return proemerrors.NewLookupError("", string(service.CapDispatcher))
	}
	dispatcher, err := service.Require[routing.Dispatcher](c, key, service.CapDispatcher)
	if err != nil {
		return err
	}
	return dispatcher.Dispatch(ctx, c, payload)
}

// OutBound is a no-op.
func (*Dispatch) OutBound(context.Context, *service.Container) error { return nil }

var (
	_ filter.Stage = (*Response)(nil)
	_ filter.Stage = (*Request)(nil)
	_ filter.Stage = (*Route)(nil)
	_ filter.Stage = (*Dispatch)(nil)
)
