package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/games/skyhop"
)

var configCmd = &cobra.Command{
	Use:   "config [mode]",
	Short: "Print the effective engine tuning",
	Long: `Print the tuning a mode runs with, after --config and the mode's
difficulty preset are applied. The output is valid input for --config.

Examples:
  skyhop config
  skyhop config skyhop-hard > hard.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func runConfig(_ *cobra.Command, args []string) error {
	mode, err := modeArg(args)
	if err != nil {
		return err
	}
	tuning, err := loadTuning(loadSettings())
	if err != nil {
		return err
	}

	game := skyhop.New(mode)
	game.Configure(tuning, nil)

	out, err := config.Marshal(game.Tuning())
	if err != nil {
		return fmt.Errorf("cannot render config: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
