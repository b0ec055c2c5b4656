package main

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-sonar/internal/audio"
	"github.com/vovakirdan/tui-sonar/internal/config"
	"github.com/vovakirdan/tui-sonar/internal/core"
	"github.com/vovakirdan/tui-sonar/internal/sim"
	"github.com/vovakirdan/tui-sonar/internal/storage"
)

// newLogger returns a file logger when --log is set. The terminal belongs to
// the game, so without a file nothing is logged.
func newLogger() (*log.Logger, func()) {
	if flagLogPath == "" {
		return log.New(io.Discard), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(flagLogPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create log directory: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return log.New(io.Discard), func() {}
	}

	level := log.InfoLevel
	if flagDebug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "sonar",
		Level:           level,
	})
	return logger, func() { f.Close() }
}

// openStore opens the scores database. Failure is reported and the game
// continues without persistence.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// newSounder opens the speaker. Without an audio device the game is silent.
func newSounder(logger *log.Logger) (sim.PulseSounder, func()) {
	s := audio.NewPulseSound()
	if err := s.Initialize(); err != nil {
		logger.Warn("audio unavailable, pulses are silent", "err", err)
		return nil, func() {}
	}
	return s, s.Cleanup
}

// playerName resolves the identity used for scores and settings.
func playerName() string {
	if flagPlayer != "" {
		return flagPlayer
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return storage.DefaultPlayer
}

// runtimeConfig builds the platform config from flags and terminal size.
func runtimeConfig() (core.RuntimeConfig, error) {
	if _, err := config.ParsePreset(flagDifficulty); err != nil {
		return core.RuntimeConfig{}, err
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	return core.RuntimeConfig{
		ScreenW:    width,
		ScreenH:    height,
		TickRate:   flagFPS,
		Seed:       flagSeed,
		Player:     playerName(),
		ConfigPath: flagConfig,
		Difficulty: flagDifficulty,
	}, nil
}
