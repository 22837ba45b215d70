package flappy

import "github.com/vovakirdan/tui-flappy/internal/core"

// EndReason records what ended a run.
type EndReason int

const (
	EndNone    EndReason = iota // Run still going or never started
	EndPipe                     // Hit a pipe segment
	EndCeiling                  // Left the field through the top
	EndFloor                    // Left the field through the bottom
)

// String returns a human-readable name for the reason.
func (r EndReason) String() string {
	switch r {
	case EndPipe:
		return "pipe"
	case EndCeiling:
		return "ceiling"
	case EndFloor:
		return "floor"
	default:
		return "none"
	}
}

// ParseEndReason is the inverse of EndReason.String.
// Unknown names map to EndNone.
func ParseEndReason(name string) EndReason {
	for r := EndPipe; r <= EndFloor; r++ {
		if r.String() == name {
			return r
		}
	}
	return EndNone
}

// PipeView is the drawable part of a pipe.
type PipeView struct {
	Top    core.Box
	Bottom core.Box
	Passed bool
}

// Button is a clickable menu rectangle.
type Button struct {
	Label string
	Box   core.Box
	Color core.Color
}

// Snapshot is a read-only view of one frame, handed to render surfaces.
// It shares no memory with the game.
type Snapshot struct {
	Phase     core.Phase
	Score     int
	Frame     int
	Field     core.Box // Always anchored at the origin
	Bird      core.Box
	Velocity  float64
	Pipes     []PipeView
	Buttons   []Button // Only populated on the menu
	EndReason EndReason
}
