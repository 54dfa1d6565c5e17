package signal

import "strings"

// Phase and direction tokens used in stage event names.
const (
	PhasePre  = "pre"
	PhasePost = "post"
	DirIn     = "in"
	DirOut    = "out"
)

// Stage tokens used in stage event names.
const (
	StageResponse = "response"
	StageRequest  = "request"
	StageRouter   = "router"
	StageDispatch = "dispatch"
)

// Name joins segments with dots.
func Name(segments ...string) string {
	return strings.Join(segments, ".")
}

// InitName returns "<prefix>.init".
func InitName(prefix string) string { return Name(prefix, "init") }

// ShutdownName returns "<prefix>.shutdown".
func ShutdownName(prefix string) string { return Name(prefix, "shutdown") }

// StageName returns "<prefix>.<phase>.<dir>.<stage>", e.g. "proem.pre.in.request".
func StageName(prefix, phase, dir, stage string) string {
	return Name(prefix, phase, dir, stage)
}

// Vocabulary lists every well-known event name for prefix in firing order
// of a default run.
func Vocabulary(prefix string) []string {
	stages := []string{StageResponse, StageRequest, StageRouter, StageDispatch}
	names := []string{InitName(prefix)}
	for _, stage := range stages {
		names = append(names,
			StageName(prefix, PhasePre, DirIn, stage),
			StageName(prefix, PhasePost, DirIn, stage),
		)
	}
	for i := len(stages) - 1; i >= 0; i-- {
		names = append(names,
			StageName(prefix, PhasePre, DirOut, stages[i]),
			StageName(prefix, PhasePost, DirOut, stages[i]),
		)
	}
	return append(names, ShutdownName(prefix))
}
