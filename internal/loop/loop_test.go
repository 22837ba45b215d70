package loop

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/clock"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

func newGame(t *testing.T) *flappy.Game {
	t.Helper()
	g, err := flappy.New(config.DefaultFlappyConfig(), 1)
	if err != nil {
		t.Fatalf("flappy.New() failed: %v", err)
	}
	return g
}

// scripted returns a source that replays the given frames, then idles.
func scripted(frames ...core.InputFrame) Source {
	i := 0
	return SourceFunc(func() core.InputFrame {
		if i >= len(frames) {
			return core.NewInputFrame()
		}
		f := frames[i]
		i++
		return f
	})
}

func action(a core.Action) core.InputFrame {
	in := core.NewInputFrame()
	in.Set(a)
	return in
}

func TestRunStopsOnExhaustedClock(t *testing.T) {
	var presented int
	res, err := Run(context.Background(), Runner{
		Clock:  clock.NewManual(10),
		Source: scripted(),
		Game:   newGame(t),
		Surface: SurfaceFunc(func(flappy.Snapshot) error {
			presented++
			return nil
		}),
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if res.Frames != 10 || presented != 10 {
		t.Errorf("frames = %d, presented = %d, expected 10 each", res.Frames, presented)
	}
	if res.Quit {
		t.Error("run should not report quit")
	}
	if res.State.Phase != core.PhaseMenu {
		t.Errorf("idle menu should stay on menu, got %v", res.State.Phase)
	}
}

func TestRunQuitCompletesFrame(t *testing.T) {
	var last flappy.Snapshot
	res, err := Run(context.Background(), Runner{
		Clock:  clock.NewManual(0),
		Source: scripted(action(core.ActionConfirm), core.NewInputFrame(), action(core.ActionQuit)),
		Game:   newGame(t),
		Surface: SurfaceFunc(func(s flappy.Snapshot) error {
			last = s
			return nil
		}),
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !res.Quit {
		t.Error("run should stop on quit")
	}
	if res.Frames != 3 {
		t.Errorf("frames = %d, expected 3", res.Frames)
	}
	// The quit frame is still simulated and presented
	if last.Frame != 3 {
		t.Errorf("last presented frame = %d, expected 3", last.Frame)
	}
	if last.Bird.Y == 325 {
		t.Error("physics should have run during the quit frame")
	}
}

func TestRunMenuQuitButton(t *testing.T) {
	g := newGame(t)
	q := g.Config().QuitButton()

	in := core.NewInputFrame()
	in.Press(core.Point{X: q.X + 1, Y: q.Y + 1})

	res, err := Run(context.Background(), Runner{
		Clock:  clock.NewManual(100),
		Source: scripted(in),
		Game:   g,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Quit || res.Frames != 1 {
		t.Errorf("quit click should stop after one frame, got %+v", res)
	}
}

func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Runner{
		Clock:  clock.NewManual(0),
		Source: scripted(),
		Game:   newGame(t),
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunSurfaceError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Run(context.Background(), Runner{
		Clock:   clock.NewManual(5),
		Source:  scripted(),
		Game:    newGame(t),
		Surface: SurfaceFunc(func(flappy.Snapshot) error { return boom }),
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped surface error, got %v", err)
	}
}

func TestRunRequiresParts(t *testing.T) {
	if _, err := Run(context.Background(), Runner{}); err == nil {
		t.Error("empty runner should be rejected")
	}
}

func TestRunLogsPhaseChanges(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	_, err := Run(context.Background(), Runner{
		Clock:  clock.NewManual(0),
		Source: scripted(action(core.ActionConfirm), action(core.ActionQuit)),
		Game:   newGame(t),
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "phase changed") || !strings.Contains(out, "playing") {
		t.Errorf("expected a menu to playing transition in the log, got:\n%s", out)
	}
	if !strings.Contains(out, "quit requested") {
		t.Errorf("expected quit to be logged, got:\n%s", out)
	}
}

func TestRunAutopilot(t *testing.T) {
	g := newGame(t)
	res, err := Run(context.Background(), Runner{
		Clock:  clock.NewManual(300),
		Source: flappy.NewAutopilot(g),
		Game:   g,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.State.Score < 1 {
		t.Errorf("autopilot run scored %d, expected at least 1", res.State.Score)
	}
}
