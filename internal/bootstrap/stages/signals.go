// Package stages implements the default Response, Request, Route and
// Dispatch pipeline stages.
package stages

import (
	"context"

	"github.com/alexisbeaulieu97/proem/internal/domain/service"
	"github.com/alexisbeaulieu97/proem/internal/domain/signal"
)

// signaler fires the four boundary signals of one stage. Without a
// dispatcher under service.KeyEvents every fire is skipped.
type signaler struct {
	prefix string
	token  string
}

// Name implements filter.Stage.
func (s signaler) Name() string { return s.token }

func (s signaler) fire(ctx context.Context, c *service.Container, phase, dir string, onResult signal.ResultFunc) error {
	if !c.Provides(service.KeyEvents, service.CapSignalManager) {
		return nil
	}
	events, err := service.Require[signal.Dispatcher](c, service.KeyEvents, service.CapSignalManager)
	if err != nil {
		return err
	}
	e := signal.NewEvent(signal.StageName(s.prefix, phase, dir, s.token)).
		WithContainer(c).
		WithEnvironment(Environment(c))
	return events.Trigger(ctx, e, onResult)
}

// preIn fires pre.in and installs the first result providing capability
// under key.
func (s signaler) preIn(ctx context.Context, c *service.Container, key string, capability service.Capability) error {
	return s.fire(ctx, c, signal.PhasePre, signal.DirIn, InstallFirst(c, key, capability))
}

// PostIn fires <prefix>.post.in.<stage>.
func (s signaler) PostIn(ctx context.Context, c *service.Container) error {
	return s.fire(ctx, c, signal.PhasePost, signal.DirIn, nil)
}

// PreOut fires <prefix>.pre.out.<stage>.
func (s signaler) PreOut(ctx context.Context, c *service.Container) error {
	return s.fire(ctx, c, signal.PhasePre, signal.DirOut, nil)
}

// PostOut fires <prefix>.post.out.<stage>.
func (s signaler) PostOut(ctx context.Context, c *service.Container) error {
	return s.fire(ctx, c, signal.PhasePost, signal.DirOut, nil)
}

// InstallFirst returns a ResultFunc that stores the first result providing
// capability under key and ignores every later one. Empty results, typed
// nil pointers included, never claim the slot.
func InstallFirst(c *service.Container, key string, capability service.Capability) signal.ResultFunc {
	installed := false
	return func(result any) error {
		if installed || signal.IsEmptyResult(result) || !service.Satisfies(result, capability) {
			return nil
		}
		c.Set(key, result)
		installed = true
		return nil
	}
}

// Environment returns the run's environment tag, "" when unset.
func Environment(c *service.Container) string {
	if !c.Has(service.KeyEnvironment) {
		return ""
	}
	env, err := service.Lookup[string](c, service.KeyEnvironment)
	if err != nil {
		return ""
	}
	return env
}
