package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	cblog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/proem/internal/ports"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := make(map[string]interface{})
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		out = append(out, entry)
	}
	return out
}

func TestLoggerIncludesRunIDAndComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(Options{
		Writer:    &buf,
		Level:     "debug",
		Format:    "json",
		Component: "signal",
	})
	require.NoError(t, err)

	ctx := ports.WithRunID(context.Background(), "run-1")
	logger.Debug(ctx, "listener attached", "event", "proem.init", "priority", 5)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	require.Equal(t, "listener attached", entries[0]["msg"])
	require.Equal(t, "signal", entries[0]["component"])
	require.Equal(t, "run-1", entries[0]["run_id"])
	require.Equal(t, "proem.init", entries[0]["event"])
}

func TestLoggerWithOverridesFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Formatter: cblog.JSONFormatter, Component: "bootstrap"})
	require.NoError(t, err)

	child := logger.With("component", "filter", "stage", "request")
	child.Warn(context.Background(), "hook slow", "stage", "router")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	require.Equal(t, "filter", entries[0]["component"])
	require.Equal(t, "router", entries[0]["stage"])
	_, hasRunID := entries[0]["run_id"]
	require.False(t, hasRunID)
}

func TestLoggerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Level: "warn", Format: "json"})
	require.NoError(t, err)

	logger.Info(context.Background(), "hidden")
	require.Zero(t, buf.Len())
	logger.Error(context.Background(), "shown")
	require.NotZero(t, buf.Len())
}

func TestNewRejectsBadOptions(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "chatty"})
	require.Error(t, err)

	_, err = New(Options{Format: "xml"})
	require.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]cblog.Formatter{
		"":       cblog.TextFormatter,
		"TEXT":   cblog.TextFormatter,
		"json":   cblog.JSONFormatter,
		"logfmt": cblog.LogfmtFormatter,
	} {
		got, err := ParseFormat(name)
		require.NoError(t, err)
		require.Equal(t, want, got, name)
	}
}

func TestNoOpLogger(t *testing.T) {
	t.Parallel()

	noOp := NewNoOpLogger()
	noOp.Info(context.Background(), "hello")
	require.Same(t, noOp, noOp.With("key", "value"))
	require.IsType(t, &NoOpLogger{}, OrNoOp(nil))

	logger, err := New(Options{Writer: &bytes.Buffer{}})
	require.NoError(t, err)
	require.Same(t, logger, OrNoOp(logger))
}

func TestBufferedLoggerStoresAndFlushes(t *testing.T) {
	t.Parallel()

	buffer := NewEventBuffer(10)
	bufLogger := NewBufferedLogger(buffer)

	ctx := ports.WithRunID(context.Background(), "buffered")
	bufLogger.Info(ctx, "loading configuration", "path", "proem.yaml")
	bufLogger.With("component", "config").Error(ctx, "failed", "attempt", 1)
	require.Equal(t, 2, buffer.Len())

	var output bytes.Buffer
	delegate, err := New(Options{Writer: &output, Format: "json"})
	require.NoError(t, err)

	buffer.Flush(delegate)
	require.Zero(t, buffer.Len())

	entries := decodeLines(t, &output)
	require.Len(t, entries, 2)
	require.Equal(t, "loading configuration", entries[0]["msg"])
	require.Equal(t, "proem.yaml", entries[0]["path"])
	require.Equal(t, "failed", entries[1]["msg"])
	require.Equal(t, "config", entries[1]["component"])
	require.Equal(t, "buffered", entries[1]["run_id"])
}

func TestEventBufferDropsOldest(t *testing.T) {
	t.Parallel()

	buffer := NewEventBuffer(2)
	logger := NewBufferedLogger(buffer)
	logger.Info(context.Background(), "one")
	logger.Info(context.Background(), "two")
	logger.Info(context.Background(), "three")

	var output bytes.Buffer
	delegate, err := New(Options{Writer: &output, Format: "json"})
	require.NoError(t, err)
	buffer.Flush(delegate)

	entries := decodeLines(t, &output)
	require.Len(t, entries, 2)
	require.Equal(t, "two", entries[0]["msg"])
	require.Equal(t, "three", entries[1]["msg"])
}
