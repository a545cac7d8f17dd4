package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available boards",
	Long:  `Shows every board preset from the active config.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No boards available.")
		return
	}

	sizes := make(map[string]string, len(gameConfig.Presets))
	for _, p := range gameConfig.Presets {
		sizes[p.ID] = fmt.Sprintf("%dx%d", p.Width, p.Height)
	}

	maxIDLen := 2
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Println("Available boards:")
	fmt.Println()
	fmt.Printf("  %-*s  %-5s  %s\n", maxIDLen, "ID", "Size", "Title")
	fmt.Printf("  %-*s  %-5s  %s\n", maxIDLen, "--", "----", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %-5s  %s\n", maxIDLen, g.ID, sizes[g.ID], g.Title)
	}
	fmt.Println()
	fmt.Println("Run 't2048 play <id>' to play a board.")
}
