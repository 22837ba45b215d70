package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/replay"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Re-simulate a recorded replay",
	Long: `Load a replay, run it through the simulation again and compare the
result with what was recorded. Exits non-zero if the outcomes differ.

Examples:
  flappy replay 3`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fail("invalid replay id %q", args[0])
	}

	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		fail("%v", err)
	}
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening replay database: %v", err)
	}
	r, err := store.Replay(id)
	store.Close()
	if err != nil {
		fail("%v", err)
	}

	logger.Debug("loaded replay", "id", r.ID, "seed", r.Seed, "events", len(r.Events))

	got, err := replay.Verify(context.Background(), r)
	fmt.Printf("replay #%d (seed %d): score %d after %d frames (%s, %s)\n",
		r.ID, r.Seed, got.Score, got.Frames, got.Phase, got.EndReason)

	switch {
	case errors.Is(err, replay.ErrMismatch):
		fmt.Printf("recorded: score %d after %d frames (%s, %s)\n",
			r.Outcome.Score, r.Outcome.Frames, r.Outcome.Phase, r.Outcome.EndReason)
		fail("replay #%d diverged from its recording", r.ID)
	case err != nil:
		fail("%v", err)
	}

	fmt.Println("outcome matches the recording")
}
