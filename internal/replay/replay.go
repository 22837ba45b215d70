// Package replay records input streams and plays them back.
// A replay is the seed, the configuration and every input event with its
// frame index; re-simulating it reproduces the run exactly.
package replay

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/clock"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/loop"
)

// ErrMismatch is returned by Verify when a re-simulation diverges from the
// recorded outcome.
var ErrMismatch = errors.New("replay: outcome mismatch")

// Event is one input that happened on a given frame.
// Pointer events carry their field position in X and Y.
type Event struct {
	Frame  int
	Action core.Action
	X, Y   float64
}

// Outcome is where a run stood when recording stopped.
type Outcome struct {
	Frames    int
	Phase     core.Phase
	Score     int
	EndReason flappy.EndReason
}

// Replay is a complete recorded run.
type Replay struct {
	ID        int64
	GameID    string
	Seed      int64
	Config    config.FlappyConfig
	Events    []Event
	Outcome   Outcome
	CreatedAt time.Time
}

// Recorder wraps a source and records everything it yields.
type Recorder struct {
	src    loop.Source
	frame  int
	events []Event
}

// NewRecorder starts recording the given source. src may be nil when the
// caller polls on its own and only uses Record.
func NewRecorder(src loop.Source) *Recorder {
	return &Recorder{src: src}
}

// Poll forwards the next input batch and records it.
func (r *Recorder) Poll() core.InputFrame {
	in := r.src.Poll()
	r.frame++
	r.Record(r.frame, in)
	return in
}

// Record appends the events of one input batch under the given frame.
// Front ends that poll on their own call this directly.
func (r *Recorder) Record(frame int, in core.InputFrame) {
	r.events = append(r.events, Events(frame, in)...)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	return slices.Clone(r.events)
}

// Events flattens an input batch into events in a stable order:
// plain actions by value, then pointer presses in arrival order.
func Events(frame int, in core.InputFrame) []Event {
	var events []Event

	actions := make([]core.Action, 0, len(in.Actions))
	for a, on := range in.Actions {
		if on && a != core.ActionPointer && a != core.ActionNone {
			actions = append(actions, a)
		}
	}
	slices.Sort(actions)

	for _, a := range actions {
		events = append(events, Event{Frame: frame, Action: a})
	}
	for _, p := range in.Pointers {
		events = append(events, Event{Frame: frame, Action: core.ActionPointer, X: p.X, Y: p.Y})
	}
	return events
}

// Source plays recorded events back one frame per Poll.
type Source struct {
	events []Event
	next   int
	frame  int
}

// NewSource creates a playback source. Events are ordered by frame first.
func NewSource(events []Event) *Source {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int {
		return cmp.Compare(a.Frame, b.Frame)
	})
	return &Source{events: sorted}
}

// Poll returns the batch for the next frame.
func (s *Source) Poll() core.InputFrame {
	s.frame++
	in := core.NewInputFrame()

	// Skip anything recorded for frames already played
	for s.next < len(s.events) && s.events[s.next].Frame < s.frame {
		s.next++
	}
	for s.next < len(s.events) && s.events[s.next].Frame == s.frame {
		e := s.events[s.next]
		if e.Action == core.ActionPointer {
			in.Press(core.Point{X: e.X, Y: e.Y})
		} else {
			in.Set(e.Action)
		}
		s.next++
	}
	return in
}

// Done reports whether every event has been handed out.
func (s *Source) Done() bool {
	return s.next >= len(s.events)
}

// Simulate re-runs a replay headlessly and returns its outcome.
func Simulate(ctx context.Context, r Replay) (Outcome, error) {
	g, err := flappy.New(r.Config, r.Seed)
	if err != nil {
		return Outcome{}, err
	}

	// A manual clock without a limit never stops, so an empty replay is
	// just the initial state.
	if r.Outcome.Frames <= 0 {
		return outcomeOf(g, g.State()), nil
	}

	res, err := loop.Run(ctx, loop.Runner{
		Clock:  clock.NewManual(r.Outcome.Frames),
		Source: NewSource(r.Events),
		Game:   g,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("replay: simulate: %w", err)
	}

	return outcomeOf(g, res.State), nil
}

func outcomeOf(g *flappy.Game, state core.GameState) Outcome {
	return Outcome{
		Frames:    state.Frame,
		Phase:     state.Phase,
		Score:     state.Score,
		EndReason: g.EndReason(),
	}
}

// Verify re-simulates a replay and checks it reaches the recorded outcome.
// On divergence it returns the re-simulated outcome with ErrMismatch.
func Verify(ctx context.Context, r Replay) (Outcome, error) {
	got, err := Simulate(ctx, r)
	if err != nil {
		return got, err
	}
	if got != r.Outcome {
		return got, fmt.Errorf("%w: recorded %+v, got %+v", ErrMismatch, r.Outcome, got)
	}
	return got, nil
}
