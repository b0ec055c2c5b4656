package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-sonar/internal/sim"
	"github.com/vovakirdan/tui-sonar/internal/storage"
)

const settingsTimeout = 5 * time.Second

var (
	flagSetVolume  int
	flagSetEnabled bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change pulse audio settings",
	Long: `Pulse audio settings are stored per player in the scores database.

Examples:
  sonar settings
  sonar settings set --volume 80
  sonar settings set --enabled=false --player ada`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change pulse audio settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsSet,
}

func init() {
	settingsSetCmd.Flags().IntVar(&flagSetVolume, "volume", 50, "Pulse volume 0-100")
	settingsSetCmd.Flags().BoolVar(&flagSetEnabled, "enabled", true, "Play the pulse sound")
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsShow(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), settingsTimeout)
	defer cancel()

	player := playerName()
	s, err := store.FetchSettings(ctx, player)
	if err != nil {
		return err
	}
	printSettings(player, s)
	return nil
}

// runSettingsSet changes only the flags given on the command line.
func runSettingsSet(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), settingsTimeout)
	defer cancel()

	player := playerName()
	s, err := store.FetchSettings(ctx, player)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("volume") {
		s.PulseVolume = sim.ClampVolume(float64(flagSetVolume))
	}
	if cmd.Flags().Changed("enabled") {
		s.PulseAudioEnabled = flagSetEnabled
	}

	if err := store.SaveSettings(ctx, player, s); err != nil {
		return err
	}
	printSettings(player, s)
	return nil
}

func printSettings(player string, s sim.Settings) {
	state := "on"
	if !s.PulseAudioEnabled {
		state = "off"
	}
	fmt.Printf("Settings - %s\n\n", player)
	fmt.Printf("  pulse sound   %s\n", state)
	fmt.Printf("  pulse volume  %d\n", s.PulseVolume)
}
