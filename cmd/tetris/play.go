package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a new game. Finished games are recorded to the replay database.

Controls:
  Left/Right, A/D  - Move
  Up/X             - Rotate clockwise
  Z                - Rotate counter-clockwise
  Down/S           - Soft drop
  Space            - Hard drop
  C                - Hold
  P/Esc            - Pause
  R                - Restart (after game over)
  Ctrl+S           - Save screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Slow gravity, long lock delay
  normal - Somewhat faster than the settings file
  hard   - Fast gravity, short lock delay, high level
  fixed  - Exactly the settings file

Examples:
  tetris play
  tetris play --difficulty hard
  tetris play --seed 42
  tetris play --config ./my-tetris.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

// terminalConfig builds the runtime config from the terminal size and
// global flags.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func applyGameFlags() error {
	tetris.SetConfigPath(flagConfig)
	tetris.SetDifficultyPreset(flagDifficulty)
	// Fail here instead of silently falling back to defaults in the game.
	if _, err := tetris.LoadConfig(); err != nil {
		return err
	}
	return nil
}

func runPlay(_ *cobra.Command, _ []string) error {
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}
	if err := applyGameFlags(); err != nil {
		return err
	}

	game, err := registry.Create(tetris.GameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	// Open replay storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open replay database, game will not be recorded", "err", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(game, store, terminalConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		return fmt.Errorf("running game: %w", runErr)
	}
	return nil
}
