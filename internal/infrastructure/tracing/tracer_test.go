package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/alexisbeaulieu97/proem/internal/domain/filter"
	"github.com/alexisbeaulieu97/proem/internal/domain/service"
	"github.com/alexisbeaulieu97/proem/internal/ports"
)

type recorded struct {
	name   string
	attrs  []attribute.KeyValue
	status codes.Code
	ended  bool
}

type recordingProvider struct {
	noop.TracerProvider
	spans *[]*recorded
}

func (p recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return recordingTracer{spans: p.spans}
}

type recordingTracer struct {
	noop.Tracer
	spans *[]*recorded
}

func (t recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	rec := &recorded{name: name, attrs: cfg.Attributes()}
	*t.spans = append(*t.spans, rec)
	return ctx, recordingSpan{rec: rec}
}

type recordingSpan struct {
	noop.Span
	rec *recorded
}

func (s recordingSpan) SetAttributes(kv ...attribute.KeyValue) { s.rec.attrs = append(s.rec.attrs, kv...) }

func (s recordingSpan) SetStatus(code codes.Code, _ string) { s.rec.status = code }

func (s recordingSpan) End(...trace.SpanEndOption) { s.rec.ended = true }

type failingStage struct {
	filter.Base
	err error
}

func (failingStage) Name() string { return "request" }

func (s failingStage) InBound(context.Context, *service.Container) error { return s.err }

func TestTracerConvertsAttributesAndStatus(t *testing.T) {
	t.Parallel()

	var spans []*recorded
	tracer := New(recordingProvider{spans: &spans})

	_, span := tracer.StartSpan(context.Background(), "filter.init", "stages", 4, "prefix", "proem", "dry", true)
	span.SetAttribute("state", filter.StateDone)
	span.SetStatus(ports.SpanStatusOK, "")
	span.End()

	require.Len(t, spans, 1)
	rec := spans[0]
	require.Equal(t, "filter.init", rec.name)
	require.Contains(t, rec.attrs, attribute.Int("stages", 4))
	require.Contains(t, rec.attrs, attribute.String("prefix", "proem"))
	require.Contains(t, rec.attrs, attribute.Bool("dry", true))
	require.Contains(t, rec.attrs, attribute.String("state", "done"))
	require.Equal(t, codes.Ok, rec.status)
	require.True(t, rec.ended)
}

func TestTracerMarksFailedHooks(t *testing.T) {
	t.Parallel()

	var spans []*recorded
	boom := errors.New("boom")
	m := filter.NewManager(filter.WithTracer(New(recordingProvider{spans: &spans}))).
		Attach(failingStage{err: boom}, 0)

	require.Same(t, boom, m.Init(context.Background(), service.NewContainer()))

	statuses := make(map[string]codes.Code, len(spans))
	for _, rec := range spans {
		require.True(t, rec.ended, rec.name)
		statuses[rec.name] = rec.status
	}
	require.Equal(t, codes.Ok, statuses["filter.request.preIn"])
	require.Equal(t, codes.Error, statuses["filter.request.inBound"])
	require.Equal(t, codes.Error, statuses["filter.init"])
	require.NotContains(t, statuses, "filter.request.postIn")
}

func TestNewFallsBackToGlobalProvider(t *testing.T) {
	t.Parallel()

	tracer := New(nil)
	ctx, span := tracer.StartSpan(context.Background(), "bootstrap.init")
	require.NotNil(t, ctx)
	require.NotPanics(t, func() {
		span.SetStatus(ports.SpanStatusError, "failed")
		span.End()
	})
}
