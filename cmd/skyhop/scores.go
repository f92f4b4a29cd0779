package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyhop/internal/storage"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores for a mode",
	Long: `Display the top high scores for the specified mode (default: skyhop).

Examples:
  skyhop scores
  skyhop scores skyhop-hard --limit 25`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
}

func runScores(_ *cobra.Command, args []string) error {
	mode, err := modeArg(args)
	if err != nil {
		return err
	}

	store, err := storage.Open(loadSettings().DBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	scores, err := store.TopScores(mode.ID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", mode.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'skyhop play %s' to set the first high score!\n", mode.ID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-12s  %-8s  %s\n", "Rank", "Score", "Player", "Vanished", "Date")
	fmt.Printf("  %-4s  %-8s  %-12s  %-8s  %s\n", "----", "-----", "------", "--------", "----")

	for i, entry := range scores {
		player := entry.Player
		if player == "" {
			player = "-"
		}
		fmt.Printf("  %-4d  %-8d  %-12s  %-8d  %s\n",
			i+1, entry.Score, player, entry.Vanished, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(mode.ID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Runs: %d  Players: %d\n", stats.HighScore, stats.GamesCount, stats.Players)
	}
	return nil
}
