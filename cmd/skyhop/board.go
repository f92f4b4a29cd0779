package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/skyhop/internal/platform/tui"
	"github.com/vovakirdan/skyhop/internal/storage"
)

var boardCmd = &cobra.Command{
	Use:   "board [mode]",
	Short: "Browse high scores interactively",
	Long: `Open the scoreboard for all modes. Tab and the arrow keys switch modes.

Examples:
  skyhop board
  skyhop board skyhop-zen`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBoard,
}

func runBoard(_ *cobra.Command, args []string) error {
	mode, err := modeArg(args)
	if err != nil {
		return err
	}

	store, err := storage.Open(loadSettings().DBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	return tui.RunScoreboard(store, mode.ID, width, height)
}
