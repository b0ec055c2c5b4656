package tui

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-sonar/internal/registry"
	"github.com/vovakirdan/tui-sonar/internal/sim"
	"github.com/vovakirdan/tui-sonar/internal/storage"
)

// NewEnv wires a store and an optional sounder into a game environment.
// A nil store leaves every persistence collaborator unset.
func NewEnv(store *storage.Store, sounder sim.PulseSounder, logger *log.Logger) registry.Env {
	env := registry.Env{Sounder: sounder, Logger: logger}
	if store != nil {
		env.Scores = store
		env.Settings = store
		env.SettingsSink = store
		env.Identity = store
	}
	return env
}
