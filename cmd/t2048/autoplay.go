package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagAutoJSON     bool
	flagAutoPolicy   []string
	flagAutoMaxMoves int
	flagAutoNoDB     bool
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay [board]",
	Short: "Play a seeded game headless with a fixed move cycle",
	Long: `Play a whole game without a terminal UI. Moves are taken from the
policy in turn; a direction that changes nothing is skipped. The game runs
until no move is left or --max-moves is reached.

The same --seed and --policy always produce the same game.

Examples:
  t2048 autoplay --seed 42
  t2048 autoplay 2048-3x3 --policy up,left --json
  t2048 autoplay --no-db --max-moves 100`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAutoplay,
}

func init() {
	f := autoplayCmd.Flags()
	f.BoolVar(&flagAutoJSON, "json", false, "Print the final snapshot as JSON")
	f.StringSliceVar(&flagAutoPolicy, "policy", []string{"left", "down", "right", "up"}, "Move cycle (up/down/left/right or w/a/s/d)")
	f.IntVar(&flagAutoMaxMoves, "max-moves", 100000, "Stop after this many accepted moves")
	f.BoolVar(&flagAutoNoDB, "no-db", false, "Keep the best score in memory instead of the database")
}

// autoplayResult is the --json output.
type autoplayResult struct {
	Board    string         `json:"board"`
	Seed     int64          `json:"seed"`
	Policy   []string       `json:"policy"`
	Duration string         `json:"duration"`
	Snapshot t2048.Snapshot `json:"snapshot"`
}

func runAutoplay(_ *cobra.Command, args []string) error {
	presetID := t2048.DefaultPresetID
	if len(args) == 1 {
		presetID = args[0]
	}
	preset, ok := gameConfig.Preset(presetID)
	if !ok {
		return fmt.Errorf("unknown board %q, run 't2048 list' to see available boards", presetID)
	}

	policy, err := parsePolicy(flagAutoPolicy)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(os.Stderr, "autoplay")
	if err != nil {
		return err
	}
	defer closeLog()

	var prefs core.BestScoreStore = storage.NewMemoryPrefs()
	var store *storage.Store
	if !flagAutoNoDB {
		if store = openStore(logger); store != nil {
			defer store.Close()
			prefs = store
		}
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	session, err := t2048.NewSession(t2048.Config{
		Width:  preset.Width,
		Height: preset.Height,
		Tiers:  gameConfig.Tiers,
	}, t2048.WithSeed(seed), t2048.WithBestScoreStore(prefs, t2048.BestKeyFor(preset.ID)))
	if err != nil {
		return err
	}

	start := time.Now()
	if err := session.NewGame(); err != nil {
		logger.Warn("best score", "err", err)
	}
	for _, err := range autoplay(session, policy, flagAutoMaxMoves) {
		logger.Warn("move", "err", err)
	}
	elapsed := time.Since(start)
	snap := session.Snapshot()

	if store != nil && snap.Score > 0 {
		if _, err := store.SaveScore(storage.ScoreEntry{
			GameID:  preset.ID,
			Score:   snap.Score,
			MaxTile: snap.MaxTile,
			Moves:   snap.Moves,
		}); err != nil {
			logger.Warn("could not save score", "err", err)
		}
	}
	logger.Debug("autoplay finished", "board", preset.ID, "seed", seed, "moves", snap.Moves, "elapsed", elapsed)

	if flagAutoJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(autoplayResult{
			Board:    preset.ID,
			Seed:     seed,
			Policy:   flagAutoPolicy,
			Duration: elapsed.String(),
			Snapshot: snap,
		})
	}

	fmt.Println(boardTable(snap.Cells))
	fmt.Printf("State: %s  Score: %d  Best: %d  Max tile: %d  Moves: %d  Seed: %d\n",
		snap.State, snap.Score, snap.Best, snap.MaxTile, snap.Moves, seed)
	return nil
}

func parsePolicy(names []string) ([]t2048.Direction, error) {
	if len(names) == 0 {
		return nil, errors.New("--policy needs at least one direction")
	}
	policy := make([]t2048.Direction, 0, len(names))
	for _, n := range names {
		d, err := t2048.ParseDirection(n)
		if err != nil {
			return nil, fmt.Errorf("--policy: %w", err)
		}
		policy = append(policy, d)
	}
	return policy, nil
}

// autoplay plays s until the game is over, no direction in the policy
// changes the board, or maxMoves moves were accepted. Errors from
// SubmitMove do not stop the game and are returned for logging.
func autoplay(s *t2048.Session, policy []t2048.Direction, maxMoves int) []error {
	var errs []error
	next := 0
	for s.State() != t2048.StateGameOver && s.Moves() < maxMoves {
		moved := false
		for tries := 0; tries < len(policy) && !moved; tries++ {
			dir := policy[next%len(policy)]
			next++
			changed, err := s.SubmitMove(dir)
			if err != nil {
				errs = append(errs, err)
			}
			moved = changed
		}
		if !moved {
			// The policy cannot move; a restricted policy can stall
			// before the board is actually full.
			break
		}
		// Settle is a no-op when the session settles synchronously.
		s.Settle()
	}
	return errs
}

func boardTable(cells [][]int) string {
	rows := make([][]string, len(cells))
	for y, row := range cells {
		rows[y] = make([]string, len(row))
		for x, v := range row {
			if v == 0 {
				rows[y][x] = "."
				continue
			}
			rows[y][x] = strconv.Itoa(v)
		}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(true).
		StyleFunc(func(_, _ int) lipgloss.Style {
			return lipgloss.NewStyle().Width(6).Align(lipgloss.Center)
		}).
		Rows(rows...).
		String()
}
