package filter

import (
	"errors"
	"fmt"
)

// State is the lifecycle position of a Manager.
type State int

const (
	StateIdle State = iota
	StateInboundSweep
	StateOutboundSweep
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInboundSweep:
		return "inbound"
	case StateOutboundSweep:
		return "outbound"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrNotIdle is returned when Init is called on a manager that already ran.
var ErrNotIdle = errors.New("filter: manager is not idle")

// StateError reports the state a manager was in when Init was refused.
type StateError struct {
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("filter: cannot init from state %s", e.State)
}

// Unwrap lets errors.Is match ErrNotIdle.
func (e *StateError) Unwrap() error { return ErrNotIdle }
