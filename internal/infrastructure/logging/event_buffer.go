package logging

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/proem/internal/ports"
)

const defaultBufferLimit = 256

type logLevel int

const (
	levelDebug logLevel = iota
	levelInfo
	levelWarn
	levelError
)

type bufferedEntry struct {
	ctx    context.Context
	level  logLevel
	msg    string
	fields []interface{}
}

// EventBuffer holds log entries emitted before the configured logger exists,
// e.g. while the bootstrap configuration itself is being loaded. Once full,
// the oldest entry is dropped.
type EventBuffer struct {
	mu      sync.Mutex
	limit   int
	entries []bufferedEntry
}

// NewEventBuffer creates a buffer holding at most limit entries (256 when limit <= 0).
func NewEventBuffer(limit int) *EventBuffer {
	if limit <= 0 {
		limit = defaultBufferLimit
	}
	return &EventBuffer{
		limit:   limit,
		entries: make([]bufferedEntry, 0, limit),
	}
}

// Len reports the number of pending entries.
func (b *EventBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

func (b *EventBuffer) add(entry bufferedEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) == b.limit {
		copy(b.entries, b.entries[1:])
		b.entries[len(b.entries)-1] = entry
		return
	}
	b.entries = append(b.entries, entry)
}

// Flush replays pending entries into delegate in order and empties the buffer.
func (b *EventBuffer) Flush(delegate ports.Logger) {
	if delegate == nil {
		return
	}
	b.mu.Lock()
	pending := b.entries
	b.entries = make([]bufferedEntry, 0, b.limit)
	b.mu.Unlock()

	for _, entry := range pending {
		switch entry.level {
		case levelDebug:
			delegate.Debug(entry.ctx, entry.msg, entry.fields...)
		case levelWarn:
			delegate.Warn(entry.ctx, entry.msg, entry.fields...)
		case levelError:
			delegate.Error(entry.ctx, entry.msg, entry.fields...)
		default:
			delegate.Info(entry.ctx, entry.msg, entry.fields...)
		}
	}
}
