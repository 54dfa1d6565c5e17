package signal

import (
	"context"
	"fmt"
	"sync"
)

type counterGen struct{ n int }

func (g *counterGen) Next() string {
	g.n++
	return fmt.Sprintf("L%03d", g.n)
}

// recorder returns a callback appending label to calls.
func recorder(calls *[]string, label string) Callback {
	return func(context.Context, *Event) (any, error) {
		*calls = append(*calls, label)
		return nil, nil
	}
}

type fakeMetrics struct {
	mu       sync.Mutex
	counters map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{counters: make(map[string]int)}
}

func (f *fakeMetrics) IncCounter(_ context.Context, name string, labels map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[name+"|"+labels["event"]+"|"+labels["matched"]]++
}

func (f *fakeMetrics) SetGauge(context.Context, string, float64, map[string]string) {}

func (f *fakeMetrics) ObserveHistogram(context.Context, string, float64, map[string]string) {}
