package signal

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/proem/internal/infrastructure/ids"
	proemerrors "github.com/alexisbeaulieu97/proem/pkg/errors"
)

// Callback is invoked with the triggered event. A non-empty result is handed
// to the trigger's ResultFunc; a non-nil error aborts the dispatch.
type Callback func(ctx context.Context, e *Event) (any, error)

// ListenerID identifies one attachment. Attaching the same callback twice
// yields two identities.
type ListenerID string

// IDGenerator issues listener identities.
type IDGenerator interface {
	Next() string
}

// Registry stores listener callbacks by identity and listener entries by
// event name. Wildcard entries stay pending until a trigger matches them;
// they are then copied into the concrete queue of the triggered name once.
type Registry struct {
	queues    map[string]*Queue
	wildcards map[string][]entry
	promoted  map[string]map[uint64]struct{}
	callbacks map[ListenerID]Callback
	ids       IDGenerator
	seq       uint64

	// wildcardSearching short-circuits resolution until the first wildcard attach.
	wildcardSearching bool
}

// NewRegistry returns an empty registry. A nil generator falls back to ULIDs.
func NewRegistry(gen IDGenerator) *Registry {
	if gen == nil {
		gen = ids.NewGenerator()
	}
	return &Registry{
		queues:    make(map[string]*Queue),
		wildcards: make(map[string][]entry),
		promoted:  make(map[string]map[uint64]struct{}),
		callbacks: make(map[ListenerID]Callback),
		ids:       gen,
	}
}

// Attach registers cb under a fresh identity for every name. All names are
// validated before anything is stored.
func (r *Registry) Attach(names []string, cb Callback, priority int) (ListenerID, error) {
	if len(names) == 0 {
		return "", proemerrors.NewRegistrationError("", "no event names supplied")
	}
	if cb == nil {
		return "", proemerrors.NewRegistrationError(names[0], "callback is nil")
	}

	wildcard := make([]bool, len(names))
	keys := make([]string, len(names))
	for i, name := range names {
		isWildcard, err := parsePattern(name)
		if err != nil {
			return "", err
		}
		wildcard[i] = isWildcard
		keys[i] = normalizePattern(name)
	}

	id := ListenerID(r.ids.Next())
	if _, taken := r.callbacks[id]; taken {
		return "", proemerrors.NewRegistrationError(names[0], fmt.Sprintf("listener identity %q already issued", id))
	}
	r.callbacks[id] = cb

	for i, name := range keys {
		r.seq++
		e := entry{id: id, priority: priority, seq: r.seq}
		if wildcard[i] {
			r.wildcardSearching = true
			r.wildcards[name] = append(r.wildcards[name], e)
			continue
		}
		q, ok := r.queues[name]
		if !ok {
			q = newQueue()
			r.queues[name] = q
		}
		q.insert(e)
	}

	return id, nil
}

// Remove deletes the concrete queue for name, including wildcard entries
// already promoted into it. Pending wildcard registrations are untouched, so
// the next trigger of name promotes them again.
func (r *Registry) Remove(name string) bool {
	_, ok := r.queues[name]
	delete(r.queues, name)
	delete(r.promoted, name)
	return ok
}

// Resolve returns the queue for name after promoting any matching wildcard
// entries into it. ok is false when nothing listens for name.
func (r *Registry) Resolve(name string) (*Queue, bool) {
	q := r.queues[name]
	if r.wildcardSearching && name != "" {
		for _, candidate := range wildcardCandidates(name) {
			for _, e := range r.wildcards[candidate] {
				if r.isPromoted(name, e.seq) {
					continue
				}
				if q == nil {
					q = newQueue()
					r.queues[name] = q
				}
				q.insert(e)
				r.markPromoted(name, e.seq)
			}
		}
	}
	return q, q != nil
}

// Matches reports whether triggering name would reach any listener, without
// promoting wildcard entries.
func (r *Registry) Matches(name string) bool {
	if q, ok := r.queues[name]; ok && q.Len() > 0 {
		return true
	}
	if !r.wildcardSearching || name == "" {
		return false
	}
	for _, candidate := range wildcardCandidates(name) {
		if len(r.wildcards[candidate]) > 0 {
			return true
		}
	}
	return false
}

// Callback returns the callback registered under id.
func (r *Registry) Callback(id ListenerID) (Callback, bool) {
	cb, ok := r.callbacks[id]
	return cb, ok
}

// Names returns the concrete names that currently own a queue.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.queues))
	for name := range r.queues {
		names = append(names, name)
	}
	return names
}

func (r *Registry) isPromoted(name string, seq uint64) bool {
	_, ok := r.promoted[name][seq]
	return ok
}

func (r *Registry) markPromoted(name string, seq uint64) {
	set, ok := r.promoted[name]
	if !ok {
		set = make(map[uint64]struct{})
		r.promoted[name] = set
	}
	set[seq] = struct{}{}
}
