// Package loop drives the game frame by frame outside of Bubble Tea.
// Each frame waits for the clock, polls one input batch, steps the game and
// presents the resulting snapshot.
package loop

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/clock"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

// Source yields the input batch for the next frame.
type Source interface {
	Poll() core.InputFrame
}

// SourceFunc adapts a function to a Source.
type SourceFunc func() core.InputFrame

// Poll calls f.
func (f SourceFunc) Poll() core.InputFrame { return f() }

// Surface receives a snapshot after every frame.
type Surface interface {
	Present(snap flappy.Snapshot) error
}

// SurfaceFunc adapts a function to a Surface.
type SurfaceFunc func(flappy.Snapshot) error

// Present calls f.
func (f SurfaceFunc) Present(snap flappy.Snapshot) error { return f(snap) }

// Discard is a surface that drops every frame.
var Discard Surface = SurfaceFunc(func(flappy.Snapshot) error { return nil })

// Game is the simulation the loop steps.
type Game interface {
	Step(in core.InputFrame) core.StepResult
	Snapshot() flappy.Snapshot
}

// Runner bundles everything one run of the loop needs.
// Surface and Logger are optional.
type Runner struct {
	Clock   clock.Clock
	Source  Source
	Surface Surface
	Game    Game
	Logger  *log.Logger
}

// Result describes how a run finished.
type Result struct {
	State  core.GameState
	Frames int  // Frames stepped by this run
	Quit   bool // True if the run stopped because quit was requested
}

// Run steps the game until quit is requested, the clock runs out or ctx is
// cancelled. The frame in which quit fires is completed and presented.
// Clock exhaustion is a normal stop; cancellation returns ctx.Err().
func Run(ctx context.Context, r Runner) (Result, error) {
	if r.Clock == nil || r.Source == nil || r.Game == nil {
		return Result{}, errors.New("loop: clock, source and game are required")
	}
	surface := r.Surface
	if surface == nil {
		surface = Discard
	}
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var res Result
	phase := r.Game.Snapshot().Phase

	for {
		if err := r.Clock.WaitForNextTick(ctx); err != nil {
			if errors.Is(err, clock.ErrExhausted) {
				logger.Debug("clock exhausted", "frames", res.Frames)
				return res, nil
			}
			return res, err
		}

		step := r.Game.Step(r.Source.Poll())
		res.Frames++
		res.State = step.State

		if step.State.Phase != phase {
			logger.Info("phase changed",
				"from", phase,
				"to", step.State.Phase,
				"frame", step.State.Frame,
				"score", step.State.Score,
			)
			phase = step.State.Phase
		}

		if err := surface.Present(r.Game.Snapshot()); err != nil {
			return res, fmt.Errorf("loop: present frame %d: %w", step.State.Frame, err)
		}

		if step.Quit {
			logger.Info("quit requested", "frame", step.State.Frame, "score", step.State.Score)
			res.Quit = true
			return res, nil
		}
	}
}
