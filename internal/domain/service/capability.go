package service

// Capability names a contract an object can satisfy. Objects declare the
// capabilities they implement through Provider; the container never probes
// concrete types.
type Capability string

const (
	CapSignalManager Capability = "signal.manager"
	CapFilterManager Capability = "filter.manager"
	CapRequest       Capability = "io.request"
	CapResponse      Capability = "io.response"
	CapRouter        Capability = "routing.router"
	CapRoute         Capability = "routing.route"
	CapDispatcher    Capability = "dispatch.dispatcher"
)

// Provider is implemented by every object that participates in capability lookups.
type Provider interface {
	Provides(c Capability) bool
}

// Satisfies reports whether v is a Provider declaring c.
func Satisfies(v any, c Capability) bool {
	p, ok := v.(Provider)
	return ok && p.Provides(c)
}
