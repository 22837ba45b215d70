// Package flappy implements a Flappy Bird-style game.
// The player controls a bird that must navigate through gaps in vertical pipes.
//
// The simulation is headless: Step advances one frame from an input batch,
// Snapshot exposes the frame for rendering, and Render draws a snapshot
// onto a core.Screen.
package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Visual characters for rendering
const (
	PlayerChar    = '▶'
	PlayerBody    = '●'
	PipeChar      = '█'
	PipeCapTop    = '▄'
	PipeCapBottom = '▀'
)

// Menu button labels
const (
	StartLabel = "Start"
	QuitLabel  = "Quit"
)

// Game owns the whole session state: bird, pipes, score and phase.
// It is not safe for concurrent use; the frame loop is single-threaded.
type Game struct {
	cfg    config.FlappyConfig
	seed   int64
	bird   Bird
	pipes  *PipeManager
	score  int
	phase  core.Phase
	reason EndReason
	frame  int // Number of steps since creation, across restarts
}

// New validates the configuration and creates a game on the menu.
// An invalid configuration yields a *config.ConfigurationError.
func New(cfg config.FlappyConfig, seed int64) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		cfg:   cfg,
		seed:  seed,
		pipes: NewPipeManager(seed, cfg),
	}
	g.restart()
	return g, nil
}

// ID returns the identifier used for replays and logs.
func (g *Game) ID() string {
	return "flappy"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Flappy Bird"
}

// Config returns the configuration the game was created with.
func (g *Game) Config() config.FlappyConfig {
	return g.cfg
}

// Seed returns the RNG seed the game was created with.
func (g *Game) Seed() int64 {
	return g.seed
}

// restart puts the bird back at rest, clears pipes and score and returns to the menu.
func (g *Game) restart() {
	g.bird = NewBird(g.cfg)
	g.pipes.Clear()
	g.score = 0
	g.phase = core.PhaseMenu
	g.reason = EndNone
}

// Step advances the game by one frame. Input is applied before physics.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.frame++
	quit := in.Has(core.ActionQuit)

	switch g.phase {
	case core.PhaseMenu:
		if g.stepMenu(in) {
			quit = true
		}
	case core.PhasePlaying:
		g.stepPlaying(in)
	case core.PhaseEnded:
		if in.Has(core.ActionRestart) {
			g.restart()
		}
	}

	return core.StepResult{State: g.State(), Quit: quit}
}

// stepMenu hit-tests pointer presses against the menu buttons.
// The first press that lands on a button wins. Returns true if quit was clicked.
func (g *Game) stepMenu(in core.InputFrame) bool {
	start, quit := g.cfg.StartButton(), g.cfg.QuitButton()

	for _, p := range in.Pointers {
		switch {
		case start.Contains(p):
			g.phase = core.PhasePlaying
			return false
		case quit.Contains(p):
			return true
		}
	}

	if in.Has(core.ActionConfirm) {
		g.phase = core.PhasePlaying
	}
	return false
}

// stepPlaying runs one simulation tick.
func (g *Game) stepPlaying(in core.InputFrame) {
	if in.Has(core.ActionFlap) {
		g.bird.Flap()
	}
	g.bird.Advance()

	g.pipes.MaybeSpawn(g.cfg.Field.Width, g.cfg.Obstacles.SpawnThreshold)
	g.pipes.AdvanceAll()

	// Collisions use post-advance pipe positions
	box := g.bird.Box()

	if g.cfg.Rules.BoundaryCollision && OutOfBounds(box, g.cfg.Field.Height) {
		if box.Y < 0 {
			g.end(EndCeiling)
		} else {
			g.end(EndFloor)
		}
		return
	}

	for p := range g.pipes.All() {
		if Collides(box, p) {
			g.end(EndPipe)
			return
		}
		if p.MarkPassedIfCleared(g.bird.X) {
			g.score++
		}
	}
}

func (g *Game) end(reason EndReason) {
	g.phase = core.PhaseEnded
	g.reason = reason
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score: g.score,
		Phase: g.phase,
		Frame: g.frame,
	}
}

// EndReason returns why the last run ended, or EndNone.
func (g *Game) EndReason() EndReason {
	return g.reason
}

// Snapshot captures the current frame for presentation.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:     g.phase,
		Score:     g.score,
		Frame:     g.frame,
		Field:     core.NewBox(0, 0, g.cfg.Field.Width, g.cfg.Field.Height),
		Bird:      g.bird.Box(),
		Velocity:  g.bird.Velocity,
		Pipes:     make([]PipeView, 0, g.pipes.Len()),
		EndReason: g.reason,
	}

	for p := range g.pipes.All() {
		snap.Pipes = append(snap.Pipes, PipeView{
			Top:    p.TopRect(),
			Bottom: p.BottomRect(),
			Passed: p.Passed,
		})
	}

	if g.phase == core.PhaseMenu {
		snap.Buttons = []Button{
			{Label: StartLabel, Box: g.cfg.StartButton(), Color: core.ColorGreen},
			{Label: QuitLabel, Box: g.cfg.QuitButton(), Color: core.ColorRed},
		}
	}

	return snap
}
