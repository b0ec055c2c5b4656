// Package storage provides SQLite-based persistence for scores, player
// records and settings. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-sonar/internal/sim"
)

// DefaultPlayer is recorded when a submission carries no player name.
const DefaultPlayer = "guest"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Store backs every persistence collaborator of the simulation.
var (
	_ sim.ScoreSink      = (*Store)(nil)
	_ sim.SettingsSource = (*Store)(nil)
	_ sim.SettingsSink   = (*Store)(nil)
	_ sim.IdentitySource = (*Store)(nil)
)

// ScoreEntry represents a single score record.
type ScoreEntry struct {
	ID        int64
	GameMode  string
	Player    string
	Score     int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// Submissions arrive from background goroutines; one connection keeps
	// SQLite writes serialized instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_mode TEXT NOT NULL,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_mode, score DESC);
		CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player);

		CREATE TABLE IF NOT EXISTS players (
			name TEXT PRIMARY KEY,
			best_score INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS settings (
			player TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func playerName(p string) string {
	if p == "" {
		return DefaultPlayer
	}
	return p
}

// parseTimestamp handles both time.Time and string values from the driver.
func parseTimestamp(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveScore records a score without touching the player's best.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameMode, player string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_mode, player, score) VALUES (?, ?, ?)",
		gameMode, playerName(player), score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SubmitScore records a finished run and raises the player's best score.
// Returns the best score after the update.
func (s *Store) SubmitScore(ctx context.Context, sub sim.ScoreSubmission) (int, error) {
	player := playerName(sub.Player)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin submission: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO scores (game_mode, player, score) VALUES (?, ?, ?)",
		sub.GameMode, player, sub.Score,
	); err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO players (name, best_score) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   best_score = MAX(best_score, excluded.best_score),
		   updated_at = CURRENT_TIMESTAMP`,
		player, sub.Score,
	); err != nil {
		return 0, fmt.Errorf("storage: cannot update player: %w", err)
	}

	var best int
	if err := tx.QueryRowContext(ctx,
		"SELECT best_score FROM players WHERE name = ?", player,
	).Scan(&best); err != nil {
		return 0, fmt.Errorf("storage: cannot read best score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit submission: %w", err)
	}
	return best, nil
}

// BestScore returns the player's best score, 0 for unknown players.
func (s *Store) BestScore(ctx context.Context, player string) (int, error) {
	var best int
	err := s.db.QueryRowContext(ctx,
		"SELECT best_score FROM players WHERE name = ?", playerName(player),
	).Scan(&best)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	return best, nil
}

// Rank returns the 1-based leaderboard position a score would take in a mode.
func (s *Store) Rank(gameMode string, score int) (int, error) {
	var above int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM scores WHERE game_mode = ? AND score > ?",
		gameMode, score,
	).Scan(&above)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query rank: %w", err)
	}
	return above + 1, nil
}

// TopScores retrieves the top N scores for the given mode.
// Results are ordered by score descending.
func (s *Store) TopScores(gameMode string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(
		`SELECT id, game_mode, player, score, created_at
		 FROM scores
		 WHERE game_mode = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameMode, limit,
	)
}

// PlayerScores retrieves a player's most recent scores across all modes.
func (s *Store) PlayerScores(player string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryScores(
		`SELECT id, game_mode, player, score, created_at
		 FROM scores
		 WHERE player = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		playerName(player), limit,
	)
}

func (s *Store) queryScores(query string, args ...any) ([]ScoreEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameMode, &e.Player, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given mode.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameMode string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_mode = ?",
		gameMode,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given mode.
func (s *Store) ClearScores(gameMode string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_mode = ?", gameMode)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// FetchSettings returns the player's stored settings, or the defaults if
// none were saved. Stored payloads are validated field by field.
func (s *Store) FetchSettings(ctx context.Context, player string) (sim.Settings, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM settings WHERE player = ?", playerName(player),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return sim.DefaultSettings(), nil
	}
	if err != nil {
		return sim.DefaultSettings(), fmt.Errorf("storage: cannot query settings: %w", err)
	}
	return sim.ParseSettings([]byte(payload)), nil
}

// SaveSettings stores the player's settings, clamping the volume.
func (s *Store) SaveSettings(ctx context.Context, player string, settings sim.Settings) error {
	payload, err := json.Marshal(settings.Normalize())
	if err != nil {
		return fmt.Errorf("storage: cannot encode settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (player, payload) VALUES (?, ?)
		 ON CONFLICT(player) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		playerName(player), string(payload),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save settings: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for a mode.
type GameStats struct {
	GameMode   string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific mode.
func (s *Store) GetGameStats(gameMode string) (*GameStats, error) {
	stats := &GameStats{GameMode: gameMode}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0)
		 FROM scores WHERE game_mode = ?`,
		gameMode,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE game_mode = ? ORDER BY id DESC LIMIT 1`,
		gameMode,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}
