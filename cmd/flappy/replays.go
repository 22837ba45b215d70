package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagLimit  int
	flagBrowse bool
	flagDelete int64
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "List recorded replays",
	Long: `Display the most recent replays stored in the replay database.

With --browse an interactive table opens where replays can be verified
(enter) or deleted (d).

Examples:
  flappy replays
  flappy replays --limit 50
  flappy replays --browse
  flappy replays --delete 4`,
	Args: cobra.NoArgs,
	Run:  runReplays,
}

func init() {
	replaysCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of replays to list")
	replaysCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Open the interactive replay browser")
	replaysCmd.Flags().Int64Var(&flagDelete, "delete", 0, "Delete the replay with this ID")
}

func runReplays(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening replay database: %v", err)
	}
	defer store.Close()

	if flagDelete != 0 {
		if err := store.DeleteReplay(flagDelete); err != nil {
			store.Close()
			fail("%v", err)
		}
		fmt.Printf("replay #%d deleted\n", flagDelete)
		return
	}

	if flagBrowse {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunReplayBrowser(store, width, height); err != nil {
			store.Close()
			fail("%v", err)
		}
		return
	}

	replays, err := store.ListReplays(flagLimit)
	if err != nil {
		store.Close()
		fail("%v", err)
	}

	fmt.Println("Replays")
	fmt.Println()

	if len(replays) == 0 {
		fmt.Println("No replays recorded yet.")
		fmt.Println()
		fmt.Println("Play 'flappy play' or run 'flappy sim --record' to record one.")
		return
	}

	fmt.Printf("  %-5s  %-20s  %-6s  %-7s  %-7s  %-7s  %s\n", "ID", "Seed", "Score", "Frames", "Events", "End", "Date")
	fmt.Printf("  %-5s  %-20s  %-6s  %-7s  %-7s  %-7s  %s\n", "--", "----", "-----", "------", "------", "---", "----")

	for _, r := range replays {
		fmt.Printf("  %-5d  %-20d  %-6d  %-7d  %-7d  %-7s  %s\n",
			r.ID, r.Seed, r.Score, r.Frames, r.Events, r.EndReason, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Println("Run 'flappy replay <id>' to re-simulate a replay.")
}
