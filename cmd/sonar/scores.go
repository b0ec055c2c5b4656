package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-sonar/internal/games/sonar"
	"github.com/vovakirdan/tui-sonar/internal/registry"
	"github.com/vovakirdan/tui-sonar/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresMine  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores",
	Long: `Display the top scores for a mode (default classic), or the
current player's own runs with --mine.

Examples:
  sonar scores
  sonar scores hardcore --limit 20
  sonar scores --mine --player ada`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresMine, "mine", false, "Show the current player's runs across modes")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := sonar.ModeClassic
	if len(args) > 0 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown mode %q, run 'sonar list' to see available modes", gameID)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagScoresMine {
		return printPlayerScores(store, playerName())
	}

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n\n", titleOf(gameID))
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'sonar play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-8s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %s\n", "----", "------", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-16s  %-8d  %s\n", i+1, entry.Player, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GetGameStats(gameID); err == nil {
		fmt.Printf("\n%d runs, best %d, average %.0f\n", stats.GamesCount, stats.HighScore, stats.AvgScore)
	}
	return nil
}

func printPlayerScores(store *storage.Store, player string) error {
	scores, err := store.PlayerScores(player, flagScoresLimit)
	if err != nil {
		return err
	}
	best, err := store.BestScore(context.Background(), player)
	if err != nil {
		return err
	}

	fmt.Printf("Runs - %s (best %d)\n\n", player, best)
	if len(scores) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-10s  %-8s  %-6s  %s\n", "Mode", "Score", "Rank", "Date")
	fmt.Printf("  %-10s  %-8s  %-6s  %s\n", "----", "-----", "----", "----")
	for _, entry := range scores {
		rank := "-"
		if r, err := store.Rank(entry.GameMode, entry.Score); err == nil {
			rank = fmt.Sprintf("#%d", r)
		}
		fmt.Printf("  %-10s  %-8d  %-6s  %s\n", entry.GameMode, entry.Score, rank, entry.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func titleOf(id string) string {
	for _, g := range registry.List() {
		if g.ID == id {
			return g.Title
		}
	}
	return id
}
