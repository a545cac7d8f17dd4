package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresJSON  bool
	flagScoresAll   bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores <board>",
	Short: "Show high scores for a board",
	Long: `Display the top scores recorded for a board.

Examples:
  t2048 scores 2048
  t2048 scores 2048-5x5 --limit 25
  t2048 scores 2048 --json
  t2048 scores 2048-3x3 --all
  t2048 scores 2048 --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresJSON, "json", false, "Print scores as JSON")
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "Show every recorded game, ignoring --limit")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the score history of the board (the best score is kept)")
	scoresCmd.MarkFlagsMutuallyExclusive("clear", "json")
	scoresCmd.MarkFlagsMutuallyExclusive("clear", "all")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := args[0]
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown board %q, run 't2048 list' to see available boards", gameID)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Printf("Cleared score history for %s.\n", game.Title())
		return nil
	}

	var scores []storage.ScoreEntry
	if flagScoresAll {
		scores, err = store.AllScores(gameID)
	} else {
		scores, err = store.TopScores(gameID, flagScoresLimit)
	}
	if err != nil {
		return err
	}

	if flagScoresJSON {
		if scores == nil {
			scores = []storage.ScoreEntry{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(scores)
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 't2048 play %s' to set the first high score!\n", gameID)
		return nil
	}

	now := time.Now()
	fmt.Printf("  %-4s  %-10s  %-6s  %-6s  %s\n", "Rank", "Score", "Max", "Moves", "When")
	fmt.Printf("  %-4s  %-10s  %-6s  %-6s  %s\n", "----", "-----", "---", "-----", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-10s  %-6d  %-6d  %s\n",
			i+1, humanize.Comma(int64(e.Score)), e.MaxTile, e.Moves,
			humanize.RelTime(e.CreatedAt, now, "ago", "from now"))
	}

	if stats, err := store.GetGameStats(gameID); err == nil && stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("Best: %s  Games: %d  Average: %s  Best tile: %d\n",
			humanize.Comma(int64(stats.HighScore)), stats.GamesCount,
			humanize.Comma(int64(stats.AvgScore)), stats.MaxTile)
	}
	return nil
}
