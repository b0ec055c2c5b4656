// sonar is a terminal sonar-flight game: steer a dragon through invisible
// caverns and pulse your sonar to see the walls.
//
// Usage:
//
//	sonar list               - List game modes
//	sonar play [mode]        - Fly a mode (default: classic)
//	sonar menu               - Pick modes interactively
//	sonar serve              - Start SSH server for remote play
//	sonar scores [mode]      - Show high scores
//	sonar settings           - Show or change pulse audio settings
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible levels
//	--db <path>         - Set database path (default: ~/.sonar/scores.db)
//	--player <name>     - Identity for scores and settings
//	--config <path>     - Custom game config YAML
//	--difficulty <name> - easy, normal or hard
//	--log <path>        - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import modes to register them
	_ "github.com/vovakirdan/tui-sonar/internal/games/sonar"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagPlayer     string
	flagConfig     string
	flagDifficulty string
	flagLogPath    string
	flagDebug      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sonar",
	Short: "Sonar Flight - fly blind, pulse to see",
	Long: `Sonar Flight is a side-scrolling survival game for the terminal.
The caverns are dark; a sonar pulse lights up nearby walls for a moment
and costs energy. Collect IMMUNITY, FIREBALL and PLASMA powerups.

Available commands:
  list      - Show game modes
  play      - Fly a mode directly
  menu      - Interactive mode picker
  serve     - Start SSH server for remote play
  scores    - View high scores
  settings  - Pulse audio settings

Examples:
  sonar play
  sonar play hardcore --seed 42
  sonar play --spectate :8080
  sonar serve --ssh :2222
  sonar settings set --volume 80`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.sonar/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player name (default: $USER)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(settingsCmd)
}
