package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/clock"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/loop"
	"github.com/vovakirdan/tui-flappy/internal/replay"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagFrames   int
	flagRecord   bool
	flagRealtime bool
	flagShow     bool
	flagWidth    int
	flagHeight   int
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the autopilot headlessly",
	Long: `Run the game without a terminal UI, driven by the built-in autopilot.

The autopilot clicks Start, flaps toward the middle of the next gap and
quits once the run ends. The run stops after --frames frames at the latest;
--frames must be positive.

By default frames are simulated as fast as possible; --realtime paces
them at the configured tick rate.

Examples:
  flappy sim
  flappy sim --seed 7 --frames 5000 --record
  flappy sim --realtime --show`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagFrames, "frames", 3000, "Maximum number of frames to simulate")
	simCmd.Flags().BoolVar(&flagRecord, "record", false, "Store the run as a replay")
	simCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Pace frames at the tick rate")
	simCmd.Flags().BoolVar(&flagShow, "show", false, "Print the final frame")
	simCmd.Flags().IntVar(&flagWidth, "width", 70, "Columns for --show")
	simCmd.Flags().IntVar(&flagHeight, "height", 32, "Rows for --show")
}

func runSim(cmd *cobra.Command, args []string) {
	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		fail("%v", err)
	}
	defer closeLog()

	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}

	seed := resolveSeed()
	game, err := flappy.New(cfg, seed)
	if err != nil {
		fail("%v", err)
	}

	clk, limit, stopClock, err := newSimClock(flagFrames, flagRealtime, cfg.Loop.TickRate)
	if err != nil {
		fail("%v", err)
	}
	defer stopClock()
	if bc, ok := clk.(*boundedClock); ok {
		logger.Debug("pacing on the wall clock", "interval", bc.inner.Interval())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	recorder := replay.NewRecorder(flappy.NewAutopilot(game))

	var last flappy.Snapshot
	logger.Info("simulating", "seed", seed, "frames", flagFrames, "realtime", flagRealtime)

	res, err := loop.Run(ctx, loop.Runner{
		Clock:  clk,
		Source: recorder,
		Game:   game,
		Surface: loop.SurfaceFunc(func(s flappy.Snapshot) error {
			last = s
			return nil
		}),
		Logger: logger,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fail("%v", err)
	}
	logger.Debug("simulation stopped", "ticks", limit.Ticks(), "quit", res.Quit)

	outcome := replay.Outcome{
		Frames:    res.State.Frame,
		Phase:     res.State.Phase,
		Score:     res.State.Score,
		EndReason: game.EndReason(),
	}

	if flagShow {
		screen := core.NewScreen(flagWidth, flagHeight)
		flappy.Render(screen, last)
		fmt.Println(screen.String())
	}

	fmt.Printf("seed %d: score %d after %d frames (%s, %s)\n",
		seed, outcome.Score, outcome.Frames, outcome.Phase, outcome.EndReason)

	if !flagRecord {
		return
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening replay database: %v", err)
	}
	defer store.Close()

	id, err := saveSimReplay(store, replay.Replay{
		GameID:  game.ID(),
		Seed:    seed,
		Config:  cfg,
		Events:  recorder.Events(),
		Outcome: outcome,
	})
	if err != nil {
		fail("%v", err)
	}
	logger.Info("replay saved", "id", id, "events", len(recorder.Events()))
	fmt.Printf("replay #%d saved\n", id)
}

// errNothingRecorded is returned when a run ended before its first frame.
var errNothingRecorded = errors.New("no frames were simulated, nothing to record")

// newSimClock builds the clock for a sim run. The run is always bounded by
// frames, even when paced on the wall clock; limit counts the frames taken.
func newSimClock(frames int, realtime bool, tickRate int) (clk clock.Clock, limit *clock.Manual, stop func(), err error) {
	if frames <= 0 {
		return nil, nil, nil, fmt.Errorf("--frames must be positive, got %d", frames)
	}

	limit = clock.NewManual(frames)
	if !realtime {
		return limit, limit, func() {}, nil
	}

	ticker := clock.NewTicker(tickRate)
	return &boundedClock{inner: ticker, limit: limit}, limit, ticker.Stop, nil
}

// saveSimReplay stores a finished run. Runs without frames are refused.
func saveSimReplay(store *storage.Store, r replay.Replay) (int64, error) {
	if r.Outcome.Frames <= 0 {
		return 0, errNothingRecorded
	}
	return store.SaveReplay(r)
}

// boundedClock paces on a wall clock but stops after a frame limit.
type boundedClock struct {
	inner *clock.Ticker
	limit *clock.Manual
}

func (c *boundedClock) WaitForNextTick(ctx context.Context) error {
	if err := c.limit.WaitForNextTick(ctx); err != nil {
		return err
	}
	return c.inner.WaitForNextTick(ctx)
}
