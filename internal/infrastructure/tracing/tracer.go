// Package tracing implements ports.Tracer on OpenTelemetry.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alexisbeaulieu97/proem/internal/ports"
)

// InstrumentationName identifies spans produced by this module.
const InstrumentationName = "github.com/alexisbeaulieu97/proem"

// Tracer adapts an OpenTelemetry tracer.
type Tracer struct {
	tracer trace.Tracer
}

// New returns a Tracer on provider, or on the global provider when nil.
func New(provider trace.TracerProvider) *Tracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &Tracer{tracer: provider.Tracer(InstrumentationName)}
}

// StartSpan implements ports.Tracer. attributes are alternating key/value pairs.
func (t *Tracer) StartSpan(ctx context.Context, name string, attributes ...interface{}) (context.Context, ports.Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attributes)...))
	return ctx, &Span{span: span}
}

// Span adapts trace.Span.
type Span struct {
	span trace.Span
}

// SetAttribute records one attribute.
func (s *Span) SetAttribute(key string, value interface{}) {
	s.span.SetAttributes(toAttribute(key, value))
}

// SetStatus maps ports.SpanStatus onto OpenTelemetry status codes.
func (s *Span) SetStatus(status ports.SpanStatus, message string) {
	switch status {
	case ports.SpanStatusError:
		s.span.SetStatus(codes.Error, message)
	case ports.SpanStatusOK:
		s.span.SetStatus(codes.Ok, "")
	default:
		s.span.SetStatus(codes.Unset, message)
	}
}

// End finishes the span.
func (s *Span) End() { s.span.End() }

func toAttributes(pairs []interface{}) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			key = fmt.Sprint(pairs[i])
		}
		attrs = append(attrs, toAttribute(key, pairs[i+1]))
	}
	return attrs
}

func toAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}

var (
	_ ports.Tracer = (*Tracer)(nil)
	_ ports.Span   = (*Span)(nil)
)
