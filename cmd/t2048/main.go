// t2048 is the 2048 sliding-tile game for the terminal.
//
// Usage:
//
//	t2048 list              - List available boards
//	t2048 play [board]      - Play a board (default: 2048)
//	t2048 menu              - Pick boards interactively
//	t2048 serve             - Serve games over SSH and spectators over HTTP
//	t2048 scores <board>    - Show high scores for a board
//	t2048 autoplay [board]  - Play a seeded game headless
//
// Global flags:
//
//	--fps <rate>         - Simulation tick rate (default: 30)
//	--seed <value>       - RNG seed for reproducible games
//	--db <path>          - Scores database (default: ~/.t2048/scores.db, env T2048_DB)
//	--config <path>      - Game config YAML (env T2048_CONFIG)
//	--log-level <level>  - debug, info, warn or error
//	--log-file <path>    - Write logs to a file (interactive commands log nowhere otherwise)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const defaultDBPath = "~/.t2048/scores.db"

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfigPath string
	flagLogLevel   string
	flagLogFile    string

	// gameConfig is the validated config loaded before every command.
	gameConfig config.T2048Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 in your terminal",
	Long: `t2048 is the 2048 sliding-tile puzzle for the terminal.

Slide the board with the arrow keys, WASD or hjkl. Equal tiles merge and
add their value to your score. The game ends when no move is left.

Examples:
  t2048 play
  t2048 play 2048-5x5
  t2048 menu
  t2048 serve --ssh :2222 --http :8080
  t2048 autoplay --seed 42 --json`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", defaultDBPath, "Path to scores database")
	pf.StringVar(&flagConfigPath, "config", "", "Path to a t2048.yaml config")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Append logs to this file")

	rootCmd.AddCommand(listCmd, playCmd, menuCmd, serveCmd, scoresCmd, autoplayCmd, configCmd)
}

// setup loads .env, applies environment defaults and installs the game
// config. An invalid config stops the command.
func setup(cmd *cobra.Command, _ []string) error {
	// A missing .env is normal.
	_ = godotenv.Load()

	flags := cmd.Flags()
	if v := os.Getenv("T2048_DB"); v != "" && !flags.Changed("db") {
		flagDBPath = v
	}
	if v := os.Getenv("T2048_CONFIG"); v != "" && !flags.Changed("config") {
		flagConfigPath = v
	}
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}

	logger, closeLog, err := newLogger(os.Stderr, "config")
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := config.LoadT2048(flagConfigPath, logger)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := t2048.RegisterPresets(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	gameConfig = cfg
	return nil
}

// newLogger builds a logger writing to w, or to --log-file when set.
// The returned func closes the log file.
func newLogger(w io.Writer, prefix string) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("--log-level: %w", err)
	}

	closer := func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("--log-file: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closer, nil
}

// tuiLogger is newLogger for full-screen commands, which must not write
// to the terminal.
func tuiLogger() (*log.Logger, func(), error) {
	return newLogger(io.Discard, "t2048")
}

// openStore opens the scores database. Interactive play continues
// without it, so failures are logged and nil is returned.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
