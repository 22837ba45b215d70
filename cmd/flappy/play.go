package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var flagNoRecord bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the game",
	Long: `Start the game in the terminal.

Controls:
  Enter / click Start  - Start a run
  Space/Up/W           - Flap
  R                    - Back to the menu (after game over)
  Ctrl+S               - Save a screenshot
  Q/Ctrl+C             - Quit

Every finished run is stored as a replay unless --no-record is given.

Examples:
  flappy play
  flappy play --seed 42
  flappy play --config ./my-flappy.yaml --log-file flappy.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not store replays")
}

func runPlay(cmd *cobra.Command, args []string) {
	logger, closeLog, err := newLogger(io.Discard)
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

	rt := core.DefaultConfig()
	rt.TickRate = cfg.Loop.TickRate

	// Get terminal size early so the first frame is scaled correctly
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rt.ScreenW = w
		rt.ScreenH = h
	}

	var store *storage.Store
	if !flagNoRecord {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			// Continue without storage - game still works
			logger.Warn("could not open replay database", "error", err)
			store = nil
		}
	}

	logger.Info("starting game", "game", game.Title(), "seed", seed, "tick_rate", rt.TickRate, "width", rt.ScreenW, "height", rt.ScreenH)

	runErr := tui.Run(game, store, logger, rt)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
