package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-sonar/internal/games/sonar"
	"github.com/vovakirdan/tui-sonar/internal/platform/tui"
	"github.com/vovakirdan/tui-sonar/internal/registry"
	"github.com/vovakirdan/tui-sonar/internal/sim"
	"github.com/vovakirdan/tui-sonar/internal/spectate"
)

var (
	flagSpectate string
	flagMute     bool
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Fly a game mode",
	Long: `Start flying the given mode (classic or hardcore, default classic).

Controls:
  W/A/S/D, arrows  - Fly (up, brake, dive, push)
  Space            - Sonar pulse, start a run
  Esc/P            - Pause
  Enter            - Select menu entry (mouse works too)
  R                - Restart after a crash
  M                - Toggle pulse sound
  Q/Ctrl+C         - Quit

Difficulty options:
  easy    - Fewer paired pillars, wider spacing, cheaper pulses
  normal  - Mode defaults
  hard    - Denser caverns, costlier pulses

Spectating:
  --spectate :8080 streams JSON snapshots to websocket viewers at ws://host:8080/ws

Examples:
  sonar play
  sonar play hardcore
  sonar play --difficulty easy --seed 7
  sonar play --config ./my-sonar.yaml
  sonar play --spectate :8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a websocket spectator feed on this address")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Do not open the audio device")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := sonar.ModeClassic
	if len(args) > 0 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown mode %q, run 'sonar list' to see available modes", gameID)
	}

	cfg, err := runtimeConfig()
	if err != nil {
		return err
	}

	logger, closeLog := newLogger()
	defer closeLog()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	var sounder sim.PulseSounder
	if !flagMute {
		s, cleanup := newSounder(logger)
		defer cleanup()
		sounder = s
	}

	game, err := registry.Create(gameID, tui.NewEnv(store, sounder, logger))
	if err != nil {
		return err
	}

	opts := tui.Options{Logger: logger}
	if flagSpectate != "" {
		hub := spectate.NewHub(logger.WithPrefix("spectate"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := spectate.ListenAndServe(ctx, flagSpectate, hub); err != nil {
				logger.Error("spectator feed stopped", "err", err)
			}
		}()
		opts.Publisher = hub
		fmt.Fprintf(os.Stderr, "Spectator feed on ws://%s/ws\n", flagSpectate)
	}

	return tui.Run(game, cfg, opts)
}
