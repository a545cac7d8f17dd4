package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
)

var (
	flagConfigInit  bool
	flagConfigForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print or install the default config",
	Long: `Print the built-in t2048.yaml, or write it to ~/.t2048/configs so it
can be edited.

Examples:
  t2048 config > my-boards.yaml
  t2048 config --init
  t2048 config --init --force`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigInit, "init", false, "Write the default config to ~/.t2048/configs/t2048.yaml")
	configCmd.Flags().BoolVar(&flagConfigForce, "force", false, "Overwrite an existing config with --init")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if !flagConfigInit {
		_, err := os.Stdout.Write(config.DefaultYAML())
		return err
	}

	path := config.UserConfigPath()
	if path == "" {
		return errors.New("cannot locate home directory")
	}
	if err := config.WriteDefault(path, flagConfigForce); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
