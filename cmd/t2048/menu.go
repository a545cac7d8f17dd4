package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick boards from an interactive menu",
	Long: `Start in menu mode. After each game you return to the menu.

Controls:
  Up/Down/j/k  - Navigate
  Enter/Space  - Play the selected board
  Tab          - Scoreboard
  Q            - Quit

Examples:
  t2048 menu
  t2048 menu --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			return err
		}

		// Each game from the menu gets a fresh seed unless one was given.
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		res, err := tui.Run(game, store, logger, cfg)
		if err != nil {
			return fmt.Errorf("running game: %w", err)
		}
		if !res.BackToMenu {
			return nil
		}
	}
}
