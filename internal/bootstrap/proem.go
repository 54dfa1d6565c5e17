// Package bootstrap wires the signal dispatcher, the shared container and
// the default pipeline into a single-use run.
package bootstrap

import (
	"context"
	"errors"
	"io"

	"github.com/alexisbeaulieu97/proem/internal/bootstrap/stages"
	"github.com/alexisbeaulieu97/proem/internal/config"
	"github.com/alexisbeaulieu97/proem/internal/domain/filter"
	"github.com/alexisbeaulieu97/proem/internal/domain/service"
	"github.com/alexisbeaulieu97/proem/internal/domain/signal"
	"github.com/alexisbeaulieu97/proem/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/proem/internal/ports"
	proemerrors "github.com/alexisbeaulieu97/proem/pkg/errors"
)

// Version is the release of the bootstrap runtime.
const Version = "0.7.0"

// ErrAlreadyRun is returned by a second Init on the same Proem.
var ErrAlreadyRun = errors.New("bootstrap: already initialised")

// Extension is initialised by a listener on the init signal (or another
// event chosen at attach time). Plugins and modules are extensions.
type Extension interface {
	Init(ctx context.Context, c *service.Container, environment string) error
}

// ExtensionFunc adapts a function to Extension.
type ExtensionFunc func(ctx context.Context, c *service.Container, environment string) error

// Init implements Extension.
func (f ExtensionFunc) Init(ctx context.Context, c *service.Container, environment string) error {
	return f(ctx, c, environment)
}

// Priorities are the attachment priorities of the default stages.
type Priorities struct {
	Response int
	Request  int
	Route    int
	Dispatch int
}

// DefaultPriorities orders Response, Request, Route, Dispatch.
func DefaultPriorities() Priorities {
	return Priorities{
		Response: config.DefaultResponsePriority,
		Request:  config.DefaultRequestPriority,
		Route:    config.DefaultRoutePriority,
		Dispatch: config.DefaultDispatchPriority,
	}
}

// Proem owns one dispatcher, one container and one pipeline for a run.
type Proem struct {
	prefix     string
	priorities Priorities
	request    stages.RequestDefaults
	output     io.Writer

	events    *signal.Manager
	container *service.Container
	pipeline  filter.Pipeline

	logger  ports.Logger
	metrics ports.MetricsCollector
	tracer  ports.Tracer
	ids     signal.IDGenerator

	err error
	ran bool
}

// Option configures a Proem.
type Option func(*Proem)

// WithPrefix sets the event name prefix.
func WithPrefix(prefix string) Option {
	return func(p *Proem) { p.prefix = prefix }
}

// WithPriorities overrides the default stage priorities.
func WithPriorities(priorities Priorities) Option {
	return func(p *Proem) { p.priorities = priorities }
}

// WithRequestDefaults sets the request built when no listener supplies one.
func WithRequestDefaults(defaults stages.RequestDefaults) Option {
	return func(p *Proem) { p.request = defaults }
}

// WithOutput sets where the response body is sent on the way out.
func WithOutput(w io.Writer) Option {
	return func(p *Proem) { p.output = w }
}

// WithLogger sets the logger shared by the dispatcher, pipeline and coordinator.
func WithLogger(logger ports.Logger) Option {
	return func(p *Proem) { p.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(metrics ports.MetricsCollector) Option {
	return func(p *Proem) { p.metrics = metrics }
}

// WithTracer sets the tracer.
func WithTracer(tracer ports.Tracer) Option {
	return func(p *Proem) { p.tracer = tracer }
}

// WithIDGenerator overrides listener identity generation.
func WithIDGenerator(gen signal.IDGenerator) Option {
	return func(p *Proem) { p.ids = gen }
}

// WithSettings applies prefix, stage priorities and request defaults from a
// loaded configuration.
func WithSettings(s *config.Settings) Option {
	return func(p *Proem) {
		if s == nil {
			return
		}
		if s.Prefix != "" {
			p.prefix = s.Prefix
		}
		p.priorities = Priorities{
			Response: s.Stages.Response,
			Request:  s.Stages.Request,
			Route:    s.Stages.Route,
			Dispatch: s.Stages.Dispatch,
		}
		p.request = stages.RequestDefaults{
			URL:         s.Request.URL,
			Method:      s.Request.Method,
			Body:        []byte(s.Request.Body),
			ContentType: s.Request.ContentType,
		}
	}
}

// New creates a coordinator with an empty dispatcher and container.
func New(opts ...Option) *Proem {
	p := &Proem{
		prefix:     config.DefaultPrefix,
		priorities: DefaultPriorities(),
		request: stages.RequestDefaults{
			URL:    config.DefaultRequestURL,
			Method: config.DefaultRequestMethod,
		},
		container: service.NewContainer(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrNoOp(p.logger).With("component", "bootstrap")

	signalOpts := []signal.Option{signal.WithLogger(p.logger.With("component", "signal"))}
	if p.metrics != nil {
		signalOpts = append(signalOpts, signal.WithMetrics(p.metrics))
	}
	if p.ids != nil {
		signalOpts = append(signalOpts, signal.WithIDGenerator(p.ids))
	}
	p.events = signal.NewManager(signalOpts...)
	return p
}

// Prefix returns the event name prefix.
func (p *Proem) Prefix() string { return p.prefix }

// Events returns the run's dispatcher.
func (p *Proem) Events() *signal.Manager { return p.events }

// Container returns the run's shared container.
func (p *Proem) Container() *service.Container { return p.container }

// Pipeline returns the pipeline executed by Init, nil before Init.
func (p *Proem) Pipeline() filter.Pipeline { return p.pipeline }

// Err returns the first attach error. Once set, later attach calls are ignored.
func (p *Proem) Err() error { return p.err }

// AttachEventListener attaches cb to name at priority and returns p.
func (p *Proem) AttachEventListener(name string, cb signal.Callback, priority int) *Proem {
	if p.err != nil {
		return p
	}
	if _, err := p.events.Attach(name, cb, priority); err != nil {
		p.err = err
	}
	return p
}

// AttachEventListeners attaches every spec in order and returns p.
func (p *Proem) AttachEventListeners(specs []signal.Spec) *Proem {
	if p.err != nil {
		return p
	}
	if _, err := p.events.AttachMany(specs); err != nil {
		p.err = err
	}
	return p
}

// AttachPlugin initialises plugin on the init signal at priority 0.
func (p *Proem) AttachPlugin(plugin Extension) *Proem {
	return p.AttachExtension(plugin, "", 0)
}

// AttachModule initialises module on event at priority. An empty event
// means the init signal.
func (p *Proem) AttachModule(module Extension, event string, priority int) *Proem {
	return p.AttachExtension(module, event, priority)
}

// AttachExtension attaches a listener on event (init when empty) that calls
// ext.Init with the event's container and environment.
func (p *Proem) AttachExtension(ext Extension, event string, priority int) *Proem {
	if p.err != nil {
		return p
	}
	if ext == nil {
		p.err = proemerrors.NewRegistrationError(event, "extension is nil")
		return p
	}
	if event == "" {
		event = signal.InitName(p.prefix)
	}
	return p.AttachEventListener(event, func(ctx context.Context, e *signal.Event) (any, error) {
		return nil, ext.Init(ctx, e.Container(), e.Environment())
	}, priority)
}

// Init runs the bootstrap once: it publishes the dispatcher under
// service.KeyEvents, fires the init signal, runs either the first pipeline
// returned by an init listener or the default four-stage pipeline, then fires
// the shutdown signal. Errors from listeners, extensions and stages are
// returned unchanged.
func (p *Proem) Init(ctx context.Context, environment string) (err error) {
	if p.ran {
		return ErrAlreadyRun
	}
	if p.err != nil {
		return p.err
	}
	p.ran = true

	if ports.GetRunID(ctx) == "" {
		ctx = ports.WithRunID(ctx, ports.GenerateRunID())
	}

	if p.tracer != nil {
		var span ports.Span
		ctx, span = p.tracer.StartSpan(ctx, "bootstrap.init", "prefix", p.prefix, "environment", environment)
		defer func() {
			if err != nil {
				span.SetStatus(ports.SpanStatusError, err.Error())
			} else {
				span.SetStatus(ports.SpanStatusOK, "")
			}
			span.End()
		}()
	}

	p.logger.Info(ctx, "bootstrap started", "prefix", p.prefix, "environment", environment)

	p.container.Set(service.KeyEvents, p.events)
	p.container.Set(service.KeyEnvironment, environment)

	var replacement filter.Pipeline
	initEvent := signal.NewEvent(signal.InitName(p.prefix)).
		WithContainer(p.container).
		WithEnvironment(environment)
	err = p.events.Trigger(ctx, initEvent, func(result any) error {
		if replacement != nil || signal.IsEmptyResult(result) || !service.Satisfies(result, service.CapFilterManager) {
			return nil
		}
		if pipeline, ok := result.(filter.Pipeline); ok {
			replacement = pipeline
		}
		return nil
	})
	if err != nil {
		p.logger.Error(ctx, "init signal failed", "error", err)
		return err
	}

	p.pipeline = replacement
	if p.pipeline == nil {
		p.pipeline = p.defaultPipeline()
	} else {
		p.logger.Info(ctx, "pipeline replaced by init listener")
	}

	if err = p.pipeline.Init(ctx, p.container); err != nil {
		p.logger.Error(ctx, "pipeline failed", "error", err)
		return err
	}

	shutdown := signal.NewEvent(signal.ShutdownName(p.prefix)).
		WithContainer(p.container).
		WithEnvironment(environment)
	if err = p.events.Trigger(ctx, shutdown, nil); err != nil {
		p.logger.Error(ctx, "shutdown signal failed", "error", err)
		return err
	}

	p.logger.Info(ctx, "bootstrap finished")
	return nil
}

func (p *Proem) defaultPipeline() *filter.Manager {
	opts := []filter.Option{filter.WithLogger(p.logger.With("component", "filter"))}
	if p.metrics != nil {
		opts = append(opts, filter.WithMetrics(p.metrics))
	}
	if p.tracer != nil {
		opts = append(opts, filter.WithTracer(p.tracer))
	}
	return filter.NewManager(opts...).
		Attach(stages.NewResponse(p.prefix, p.output), p.priorities.Response).
		Attach(stages.NewRequest(p.prefix, p.request), p.priorities.Request).
		Attach(stages.NewRoute(p.prefix), p.priorities.Route).
		Attach(stages.NewDispatch(p.prefix), p.priorities.Dispatch)
}
