// Package service implements the shared, capability-indexed context threaded
// through a pipeline run.
package service

import (
	"reflect"
	"sort"

	proemerrors "github.com/alexisbeaulieu97/proem/pkg/errors"
)

// Well-known container keys.
const (
	KeyEvents      = "events"
	KeyRequest     = "request"
	KeyResponse    = "response"
	KeyRouter      = "router"
	KeyRoute       = "route"
	KeyDispatch    = "dispatch"
	KeyEnvironment = "environment"
)

// Factory builds a lazily constructed asset.
type Factory func(c *Container) (any, error)

type asset struct {
	value   any
	caps    []Capability
	factory Factory
	built   bool
}

// Container maps string keys to assets and keeps a parallel index from
// capability to the keys that provide it. It is owned by a single run and is
// not safe for concurrent use.
type Container struct {
	assets map[string]*asset
	order  []string
	index  map[Capability][]string
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{
		assets: make(map[string]*asset),
		index:  make(map[Capability][]string),
	}
}

// Set stores value under key, replacing any previous asset. Capabilities are
// taken from value when it is a Provider of any of the well-known capabilities.
func (c *Container) Set(key string, value any) *Container {
	c.put(key, &asset{value: value, caps: declared(value), built: true})
	return c
}

// Single registers a lazily built singleton under key. caps lists the
// capabilities the built value will provide, so lookups by capability do not
// force construction.
func (c *Container) Single(key string, caps []Capability, factory Factory) *Container {
	c.put(key, &asset{caps: append([]Capability(nil), caps...), factory: factory})
	return c
}

// Get returns the asset stored under key, building it on first access when it
// was registered with Single. Factory errors are returned unchanged.
func (c *Container) Get(key string) (any, error) {
	a, ok := c.assets[key]
	if !ok {
		return nil, proemerrors.NewLookupError(key, "")
	}
	if !a.built {
		value, err := a.factory(c)
		if err != nil {
			return nil, err
		}
		a.value = value
		a.built = true
	}
	return a.value, nil
}

// Has reports whether key is registered.
func (c *Container) Has(key string) bool {
	_, ok := c.assets[key]
	return ok
}

// Provides reports whether the asset under key declares capability cap.
func (c *Container) Provides(key string, capability Capability) bool {
	a, ok := c.assets[key]
	if !ok {
		return false
	}
	for _, declared := range a.caps {
		if declared == capability {
			return true
		}
	}
	return false
}

// ProvidesAny reports whether any asset declares capability cap.
func (c *Container) ProvidesAny(capability Capability) bool {
	return len(c.index[capability]) > 0
}

// Find returns the first key (in registration order) providing capability.
func (c *Container) Find(capability Capability) (string, bool) {
	keys := c.index[capability]
	if len(keys) == 0 {
		return "", false
	}
	return keys[0], true
}

// Keys returns registered keys in registration order.
func (c *Container) Keys() []string {
	return append([]string(nil), c.order...)
}

// Capabilities returns the capabilities declared by the asset under key, sorted.
func (c *Container) Capabilities(key string) []Capability {
	a, ok := c.assets[key]
	if !ok {
		return nil
	}
	caps := append([]Capability(nil), a.caps...)
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	return caps
}

func (c *Container) put(key string, a *asset) {
	if _, exists := c.assets[key]; exists {
		c.unindex(key)
	} else {
		c.order = append(c.order, key)
	}
	c.assets[key] = a
	for _, capability := range a.caps {
		c.index[capability] = append(c.index[capability], key)
	}
}

func (c *Container) unindex(key string) {
	for _, capability := range c.assets[key].caps {
		keys := c.index[capability]
		for i, k := range keys {
			if k == key {
				c.index[capability] = append(keys[:i:i], keys[i+1:]...)
				break
			}
		}
		if len(c.index[capability]) == 0 {
			delete(c.index, capability)
		}
	}
}

var knownCapabilities = []Capability{
	CapSignalManager,
	CapFilterManager,
	CapRequest,
	CapResponse,
	CapRouter,
	CapRoute,
	CapDispatcher,
}

// CapabilityLister is implemented by providers that can enumerate their
// capabilities, including ones outside the well-known set.
type CapabilityLister interface {
	Capabilities() []Capability
}

func declared(value any) []Capability {
	if lister, ok := value.(CapabilityLister); ok {
		return append([]Capability(nil), lister.Capabilities()...)
	}
	p, ok := value.(Provider)
	if !ok {
		return nil
	}
	var caps []Capability
	for _, capability := range knownCapabilities {
		if p.Provides(capability) {
			caps = append(caps, capability)
		}
	}
	return caps
}

// Lookup fetches key and asserts its type, failing with a LookupError when the
// key is missing or holds a value of another type.
func Lookup[T any](c *Container, key string) (T, error) {
	var zero T
	value, err := c.Get(key)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, proemerrors.NewLookupError(key, reflect.TypeOf((*T)(nil)).Elem().String())
	}
	return typed, nil
}

// Require fetches key and checks it declares capability.
func Require[T any](c *Container, key string, capability Capability) (T, error) {
	var zero T
	if !c.Provides(key, capability) {
		return zero, proemerrors.NewLookupError(key, string(capability))
	}
	value, err := c.Get(key)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, proemerrors.NewLookupError(key, string(capability))
	}
	return typed, nil
}
