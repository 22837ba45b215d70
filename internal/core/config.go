package core

// RuntimeConfig contains the terminal settings a front end starts with.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Simulation ticks per second (default 30)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// Phase is the current mode of a game session.
type Phase int

const (
	PhaseMenu    Phase = iota // Waiting on the start menu
	PhasePlaying              // Simulation running
	PhaseEnded                // Collision happened, state frozen
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhasePlaying:
		return "playing"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(name string) (Phase, bool) {
	for p := PhaseMenu; p <= PhaseEnded; p++ {
		if p.String() == name {
			return p, true
		}
	}
	return PhaseMenu, false
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score int   // Current score
	Phase Phase // Current phase
	Frame int   // Frames stepped since the session was created
}

// GameOver reports whether the session has ended.
func (s GameState) GameOver() bool {
	return s.Phase == PhaseEnded
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	Quit  bool // Quit was requested this frame; the loop stops after it
}
