package main

import (
	"bytes"
	"context"
	"io"

	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/proem/internal/bootstrap"
	"github.com/alexisbeaulieu97/proem/internal/config"
	"github.com/alexisbeaulieu97/proem/internal/domain/httpio"
	"github.com/alexisbeaulieu97/proem/internal/domain/routing"
	"github.com/alexisbeaulieu97/proem/internal/domain/service"
	cfginfra "github.com/alexisbeaulieu97/proem/internal/infrastructure/config"
	"github.com/alexisbeaulieu97/proem/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/proem/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/proem/internal/infrastructure/metrics"
	"github.com/alexisbeaulieu97/proem/internal/infrastructure/tracing"
	"github.com/alexisbeaulieu97/proem/internal/logger"
	"github.com/alexisbeaulieu97/proem/internal/ports"
)

type runOptions struct {
	ConfigPath  string
	Environment string
	URL         string
	Method      string
	Trace       bool
	Metrics     bool
	Verbose     bool
}

type signalCount struct {
	Name  string
	Count int
}

type runReport struct {
	Prefix      string
	Environment string
	Request     string
	Signals     []signalCount
	Total       int
	Body        string
	Metrics     []*dto.MetricFamily
}

var runCmdRunner = runPipeline

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the bootstrap pipeline once and print what happened",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			return runCmdRunner(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a proem.yaml or proem.toml file")
	cmd.Flags().StringVarP(&opts.Environment, "env", "e", "", "Environment passed to extensions")
	cmd.Flags().StringVar(&opts.URL, "url", "", "URL of the default request")
	cmd.Flags().StringVar(&opts.Method, "method", "", "Method of the default request")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "Log every signal as it fires")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "Print collected metrics after the run")

	return cmd
}

func runPipeline(ctx context.Context, stdout, stderr io.Writer, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	procLog, err := logger.New(logger.Options{Level: level, Writer: stderr})
	if err != nil {
		return err
	}

	// Loader output waits for the engine logger, whose level and format come from the file being loaded.
	pending := logging.NewEventBuffer(0)
	settings, err := cfginfra.NewFileLoader(logging.NewBufferedLogger(pending).With("component", "config")).Load(ctx, opts.ConfigPath)
	if err != nil {
		pending.Flush(procLog)
		return err
	}
	applyOverrides(settings, opts)
	if err := config.ValidateSettings(settings); err != nil {
		return err
	}

	report, err := execute(ctx, settings, pending, stderr, opts.Verbose)
	if err != nil {
		procLog.Error(ctx, "run failed", "error", err)
		return err
	}

	_, err = io.WriteString(stdout, renderReport(report)+"\n")
	return err
}

func applyOverrides(settings *config.Settings, opts runOptions) {
	if opts.Environment != "" {
		settings.Environment = opts.Environment
	}
	if opts.URL != "" {
		settings.Request.URL = opts.URL
	}
	if opts.Method != "" {
		settings.Request.Method = opts.Method
	}
	if opts.Trace {
		settings.Trace = true
	}
	if opts.Metrics {
		settings.Metrics = true
	}
}

func execute(ctx context.Context, settings *config.Settings, pending *logging.EventBuffer, logWriter io.Writer, verbose bool) (*runReport, error) {
	level := settings.Logging.Level
	if verbose {
		level = "debug"
	}
	engineLog, err := logging.New(logging.Options{
		Writer:    logWriter,
		Level:     level,
		Format:    settings.Logging.Format,
		Component: "engine",
	})
	if err != nil {
		return nil, err
	}
	if pending != nil {
		pending.Flush(engineLog)
	}

	var body bytes.Buffer
	opts := []bootstrap.Option{
		bootstrap.WithSettings(settings),
		bootstrap.WithOutput(&body),
		bootstrap.WithLogger(engineLog),
		bootstrap.WithTracer(tracing.New(nil)),
	}

	var collector *metrics.Collector
	if settings.Metrics {
		collector, err = metrics.New(nil)
		if err != nil {
			return nil, err
		}
		opts = append(opts, bootstrap.WithMetrics(collector))
	}

	p := bootstrap.New(opts...)

	var traceLog ports.Logger
	if settings.Trace {
		traceLog = engineLog.With("component", "trace")
	}
	tracer := events.NewSignalTracer(traceLog)
	if _, err := tracer.Attach(p.Events(), events.TracerPriority); err != nil {
		return nil, err
	}

	if err := p.AttachPlugin(demoApplication()).Init(ctx, settings.Environment); err != nil {
		return nil, err
	}

	report := &runReport{
		Prefix:      p.Prefix(),
		Environment: settings.Environment,
		Request:     settings.Request.Method + " " + settings.Request.URL,
		Total:       tracer.Total(),
		Body:        body.String(),
	}
	for _, name := range tracer.Fired() {
		report.Signals = append(report.Signals, signalCount{Name: name, Count: tracer.Count(name)})
	}
	if collector != nil {
		if report.Metrics, err = collector.Gather(); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// demoApplication installs a segment router and two actions:
// "/" greets, "/echo/json/..." echoes the route parameters and a JSON body.
func demoApplication() bootstrap.Extension {
	return bootstrap.ExtensionFunc(func(_ context.Context, c *service.Container, _ string) error {
		if !c.ProvidesAny(service.CapRouter) {
			c.Set(service.KeyRouter, routing.NewSegmentRouter())
		}
		if !c.ProvidesAny(service.CapDispatcher) {
			c.Set(service.KeyDispatch, routing.NewTable().
				Handle("index", "index", greet).
				Handle("echo", "json", echo))
		}
		return nil
	})
}

func greet(_ context.Context, c *service.Container, _ *routing.Payload) error {
	resp, err := service.Require[httpio.Response](c, service.KeyResponse, service.CapResponse)
	if err != nil {
		return err
	}
	resp.SetBody("Welcome to proem")
	return nil
}

func echo(_ context.Context, c *service.Container, p *routing.Payload) error {
	resp, err := service.Lookup[*httpio.HTTPResponse](c, service.KeyResponse)
	if err != nil {
		return err
	}
	req, err := service.Lookup[*httpio.HTTPRequest](c, service.KeyRequest)
	if err != nil {
		return err
	}

	out := make(map[string]any, len(p.Keys())+1)
	for _, key := range p.Keys() {
		out[key] = p.Get(key, nil)
	}
	if req.ContentType() == httpio.ContentTypeJSON && len(req.Body()) > 0 {
		var decoded any
		if err := req.DecodeJSON(&decoded); err != nil {
			return err
		}
		out["body"] = decoded
	}
	return resp.AppendJSON(out)
}
