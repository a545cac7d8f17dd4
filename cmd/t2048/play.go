package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-2048/internal/broadcast"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/platform/web"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var flagPlayHTTP string

var playCmd = &cobra.Command{
	Use:   "play [board]",
	Short: "Play a board",
	Long: `Start playing the given board, or the classic 4x4 board.

Controls:
  Arrows/WASD/hjkl  - Slide tiles
  P/Space           - Pause
  R                 - New game (when paused or over)
  B/Esc             - Leave (when paused or over)
  Ctrl+S            - Save a screenshot to ~/.t2048/screenshots
  Q/Ctrl+C          - Quit

With --http the game can be watched live at /ws/<session>.

Examples:
  t2048 play
  t2048 play 2048-3x3
  t2048 play --seed 7
  t2048 play --http :8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayHTTP, "http", "", "Serve the spectator API on this address while playing")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := t2048.DefaultPresetID
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown board %q, run 't2048 list' to see available boards", gameID)
	}

	logger, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	var spectator *tui.Spectator
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	if flagPlayHTTP != "" {
		hub := broadcast.NewHub(t2048.BoardEvent{}.Kind())
		spectator = tui.NewSpectator(hub, os.Getenv("USER"))
		srv := web.New(hub, store, logger.WithPrefix("http"))
		g.Go(func() error { return srv.ListenAndServe(ctx, flagPlayHTTP) })
		defer hub.Shutdown()
	}
	logTopic(logger, spectator.Attach(game), flagPlayHTTP)

	res, runErr := tui.Run(game, store, logger, runtimeConfig())
	spectator.Stop()
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("spectator server", "err", err)
	}
	if runErr != nil {
		return fmt.Errorf("running game: %w", runErr)
	}

	if res.Score > 0 {
		fmt.Printf("Score: %d  Max tile: %d  Moves: %d\n", res.Score, res.MaxTile, res.Moves)
	}
	return nil
}

// logTopic is shared by play and menu to tell the player where to watch.
func logTopic(logger *log.Logger, topic, addr string) {
	if topic == "" {
		return
	}
	logger.Info("spectator topic", "topic", topic, "addr", addr)
	fmt.Fprintf(os.Stderr, "Spectate: ws://%s/ws/%s\n", displayAddr(addr), topic)
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
