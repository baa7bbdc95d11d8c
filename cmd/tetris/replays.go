package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	flagVerify bool
	flagLimit  int
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "Browse recorded games",
	Long: `Open an interactive list of recorded games, newest first.
Press enter to watch one, x to delete it.

Examples:
  tetris replays
  tetris replays ls --limit 5
  tetris replays rm 3f2a9c1d`,
	Args: cobra.NoArgs,
	RunE: runReplays,
}

var replaysListCmd = &cobra.Command{
	Use:   "ls",
	Short: "Print recorded games",
	Args:  cobra.NoArgs,
	RunE:  runReplaysList,
}

var replaysRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a recorded game",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplaysRemove,
}

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Watch or verify a recorded game",
	Long: `Play a recorded game back in the terminal. The id may be any unique
prefix, as shown by 'tetris replays ls'.

With --verify the game is re-simulated without a terminal and the final
score, lines and piece count are compared with the recorded ones.

Examples:
  tetris replay 3f2a9c1d
  tetris replay 3f2a --verify`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replaysListCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of replays to show")
	replaysCmd.AddCommand(replaysListCmd)
	replaysCmd.AddCommand(replaysRemoveCmd)

	replayCmd.Flags().BoolVar(&flagVerify, "verify", false, "Re-simulate headlessly and check the result")
}

func openStore() (*storage.Store, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening replay database: %w", err)
	}
	return store, nil
}

func runReplays(_ *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := terminalConfig()
	for {
		id, err := tui.RunReplayBrowser(store, cfg.ScreenW, cfg.ScreenH)
		if err != nil {
			return err
		}
		if id == "" {
			return nil
		}
		if err := watch(store, id); err != nil {
			return err
		}
	}
}

func runReplaysList(_ *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	replays, err := store.RecentReplays(flagLimit)
	if err != nil {
		return err
	}
	if len(replays) == 0 {
		fmt.Println("No replays recorded yet.")
		fmt.Println()
		fmt.Println("Play 'tetris play' and finish a game to record one.")
		return nil
	}

	fmt.Printf("  %-8s  %-16s  %8s  %5s  %6s  %s\n", "ID", "Date", "Score", "Lines", "Pieces", "Time")
	fmt.Printf("  %-8s  %-16s  %8s  %5s  %6s  %s\n", "--", "----", "-----", "-----", "------", "----")
	for _, r := range replays {
		fmt.Printf("  %-8s  %-16s  %8d  %5d  %6d  %s\n",
			r.ID[:min(8, len(r.ID))],
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Score, r.Lines, r.Pieces,
			r.Duration.Round(time.Second),
		)
	}
	return nil
}

func runReplaysRemove(_ *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.ResolveID(args[0])
	if err != nil {
		return err
	}
	if err := store.DeleteReplay(id); err != nil {
		return err
	}
	fmt.Printf("Deleted replay %s\n", id)
	return nil
}

func runReplay(_ *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.ResolveID(args[0])
	if err != nil {
		return err
	}
	if flagVerify {
		return verify(store, id)
	}
	return watch(store, id)
}

func watch(store *storage.Store, id string) error {
	r, err := store.Replay(id)
	if err != nil {
		return err
	}
	return tui.RunReplay(r, terminalConfig())
}

func verify(store *storage.Store, id string) error {
	r, err := store.Replay(id)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	snap, err := tetris.Verify(ctx, r)
	if errors.Is(err, tetris.ErrReplayMismatch) {
		logger.Warn("final state", "seed", r.Seed, "frames", len(r.Frames), "phase", snap.Phase)
		return err
	}
	if err != nil {
		return err
	}

	logger.Info("replay verified",
		"id", id,
		"frames", len(r.Frames),
		"score", snap.Score,
		"lines", snap.Lines,
		"pieces", snap.Pieces,
		"took", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
