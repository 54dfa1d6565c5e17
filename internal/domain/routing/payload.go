// Package routing holds the routing and dispatch collaborator contracts
// consumed by the Route and Dispatch stages.
package routing

import (
	"fmt"
	"sort"

	"github.com/alexisbeaulieu97/proem/internal/domain/service"
)

// Well-known payload keys filled by SegmentRouter.
const (
	ParamController = "controller"
	ParamAction     = "action"
)

// Payload is the key/value result of routing a request.
type Payload struct {
	params map[string]any
}

// NewPayload returns a payload seeded with params.
func NewPayload(params map[string]any) *Payload {
	p := &Payload{params: make(map[string]any, len(params))}
	for k, v := range params {
		p.params[k] = v
	}
	return p
}

// Provides implements service.Provider.
func (p *Payload) Provides(c service.Capability) bool {
	return c == service.CapRoute
}

// Set stores value under key and returns p.
func (p *Payload) Set(key string, value any) *Payload {
	if p.params == nil {
		p.params = make(map[string]any)
	}
	p.params[key] = value
	return p
}

// Get returns the value under key, or def when absent.
func (p *Payload) Get(key string, def any) any {
	if v, ok := p.params[key]; ok {
		return v
	}
	return def
}

// String returns the value under key formatted as a string, or def when absent.
func (p *Payload) String(key, def string) string {
	v, ok := p.params[key]
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Has reports whether key is set.
func (p *Payload) Has(key string) bool {
	_, ok := p.params[key]
	return ok
}

// Populated reports whether any parameter is set.
func (p *Payload) Populated() bool {
	return p != nil && len(p.params) > 0
}

// Keys returns parameter names sorted.
func (p *Payload) Keys() []string {
	keys := make([]string, 0, len(p.params))
	for k := range p.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
