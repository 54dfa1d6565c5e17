// Package filter runs an ordered chain of stages through an inbound and an
// outbound sweep.
package filter

import (
	"context"

	"github.com/alexisbeaulieu97/proem/internal/domain/service"
)

// Hook names one of the six stage entry points.
type Hook string

const (
	HookPreIn    Hook = "preIn"
	HookInBound  Hook = "inBound"
	HookPostIn   Hook = "postIn"
	HookPreOut   Hook = "preOut"
	HookOutBound Hook = "outBound"
	HookPostOut  Hook = "postOut"
)

var (
	inboundHooks  = []Hook{HookPreIn, HookInBound, HookPostIn}
	outboundHooks = []Hook{HookPreOut, HookOutBound, HookPostOut}
)

// Stage is one phase of the pipeline. Every hook receives the run's shared
// container and may fail the run by returning an error.
type Stage interface {
	Name() string
	PreIn(ctx context.Context, c *service.Container) error
	InBound(ctx context.Context, c *service.Container) error
	PostIn(ctx context.Context, c *service.Container) error
	PreOut(ctx context.Context, c *service.Container) error
	OutBound(ctx context.Context, c *service.Container) error
	PostOut(ctx context.Context, c *service.Container) error
}

// Base implements every hook as a no-op. Embed it and override what you need.
type Base struct{}

func (Base) PreIn(context.Context, *service.Container) error    { return nil }
func (Base) InBound(context.Context, *service.Container) error  { return nil }
func (Base) PostIn(context.Context, *service.Container) error   { return nil }
func (Base) PreOut(context.Context, *service.Container) error   { return nil }
func (Base) OutBound(context.Context, *service.Container) error { return nil }
func (Base) PostOut(context.Context, *service.Container) error  { return nil }

// Pipeline is anything that can drive a run over a container. An init
// listener returning a Pipeline that provides service.CapFilterManager
// replaces the default manager.
type Pipeline interface {
	service.Provider
	Init(ctx context.Context, c *service.Container) error
}

func call(ctx context.Context, s Stage, hook Hook, c *service.Container) error {
	switch hook {
	case HookPreIn:
		return s.PreIn(ctx, c)
	case HookInBound:
		return s.InBound(ctx, c)
	case HookPostIn:
		return s.PostIn(ctx, c)
	case HookPreOut:
		return s.PreOut(ctx, c)
	case HookOutBound:
		return s.OutBound(ctx, c)
	case HookPostOut:
		return s.PostOut(ctx, c)
	}
	return nil
}
