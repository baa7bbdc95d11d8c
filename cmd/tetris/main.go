// tetris is a block-stacking puzzle game for the terminal.
//
// Usage:
//
//	tetris play              - Play a game
//	tetris list              - List available games
//	tetris serve             - Start SSH server for remote play
//	tetris replays           - Browse recorded games
//	tetris replay <id>       - Watch or verify a recorded game
//	tetris config            - Print the effective settings
//
// Global flags:
//
//	--fps <rate>           - Set tick rate (default: 60)
//	--seed <value>         - Set RNG seed for reproducible gameplay
//	--db <path>            - Set database path (default: ~/.tetris/replays.db)
//	--config <path>        - Use a custom settings file
//	--difficulty <preset>  - easy, normal, hard or fixed
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "tetris"})

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetris",
	Short: "Tetris - stack blocks in your terminal",
	Long: `A block-stacking puzzle game for the terminal with SRS rotation,
a 7-piece bag, hold, ghost piece and recorded replays.

Available commands:
  play     - Start a game
  list     - Show all available games
  serve    - Start SSH server for remote play
  replays  - Browse recorded games
  replay   - Watch or verify one recorded game
  config   - Print the effective settings as YAML

Examples:
  tetris play
  tetris play --difficulty hard
  tetris serve --ssh :2222
  tetris replays
  tetris replay 3f2a9c1d --verify`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tetris/replays.db", "Path to replay database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom settings YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
}
