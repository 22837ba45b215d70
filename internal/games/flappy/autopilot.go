package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Autopilot is a headless input source that plays the game.
// On the menu it clicks Start; while playing it flaps whenever the bird
// is predicted to sink below the middle of the next gap; once the run
// has ended it asks to quit.
type Autopilot struct {
	game *Game
}

// NewAutopilot creates an autopilot watching the given game.
func NewAutopilot(g *Game) *Autopilot {
	return &Autopilot{game: g}
}

// Poll returns the input for the next frame.
func (a *Autopilot) Poll() core.InputFrame {
	in := core.NewInputFrame()
	snap := a.game.Snapshot()

	switch snap.Phase {
	case core.PhaseMenu:
		start := a.game.Config().StartButton()
		in.Press(core.Point{X: start.X + start.W/2, Y: start.Y + start.H/2})
	case core.PhasePlaying:
		if a.shouldFlap(snap) {
			in.Set(core.ActionFlap)
		}
	case core.PhaseEnded:
		in.Set(core.ActionQuit)
	}

	return in
}

// shouldFlap predicts the bird center after one unpowered tick and
// compares it with the target height.
func (a *Autopilot) shouldFlap(snap Snapshot) bool {
	phys := a.game.Config().Physics
	next := (snap.Velocity + phys.Gravity) * phys.Damping
	center := snap.Bird.Y + snap.Bird.H/2 + next
	return center > a.target(snap)
}

// target returns the gap middle of the first pipe the bird has not cleared,
// or mid-field when there is none, kept a body length away from the edges.
func (a *Autopilot) target(snap Snapshot) float64 {
	target := snap.Field.H / 2
	for _, p := range snap.Pipes {
		if p.Top.Right() >= snap.Bird.X {
			target = p.Top.Bottom() + (p.Bottom.Y-p.Top.Bottom())/2
			break
		}
	}
	return core.ClampF(target, snap.Bird.H, snap.Field.H-snap.Bird.H)
}
