package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/skyhop/internal/audio"
	"github.com/vovakirdan/skyhop/internal/core"
	"github.com/vovakirdan/skyhop/internal/games/skyhop"
	"github.com/vovakirdan/skyhop/internal/platform/tui"
	"github.com/vovakirdan/skyhop/internal/storage"
)

// musicLoadTimeout bounds decoding of a --music file before play starts.
const musicLoadTimeout = 5 * time.Second

var (
	flagMusic   string
	flagNoAudio bool
	flagPlayer  string
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play skyhop",
	Long: `Start a run of the given mode, or pick one from the menu.

Controls:
  Left/Right, A/D  - Move
  Space/Up/W       - Jump (hold to bunny-hop)
  P/Esc            - Pause
  R                - Restart (after game over)
  S                - Save to chain (after game over)
  M                - Mute music
  +/-              - Music volume
  B                - Back to menu (menu sessions)
  Q/Ctrl+C         - Quit

Logs go to ~/.skyhop/skyhop.log so the game screen stays clean.

Examples:
  skyhop play
  skyhop play skyhop-easy
  skyhop play --seed 42 --music ./theme.mp3
  skyhop play skyhop --config ./my-skyhop.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMusic, "music", "", "MP3 file to loop as background music (built-in loop when empty)")
	playCmd.Flags().BoolVar(&flagNoAudio, "no-audio", false, "Disable background music")
	playCmd.Flags().StringVar(&flagPlayer, "player", os.Getenv("USER"), "Player name recorded with scores")
}

func runPlay(_ *cobra.Command, args []string) error {
	s := loadSettings()

	var mode *skyhop.Mode
	if len(args) > 0 {
		m, err := modeArg(args)
		if err != nil {
			return err
		}
		mode = &m
	}

	tuning, err := loadTuning(s)
	if err != nil {
		return err
	}

	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger, err := newLogger(logFile, s.LogLevel)
	if err != nil {
		return err
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: s.FPS,
		Seed:     s.Seed,
	}

	store, err := storage.Open(s.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("scores disabled", "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	opts := tui.Options{
		Store:  store,
		Logger: logger,
		Tuning: &tuning,
		Player: flagPlayer,
	}
	if !flagNoAudio {
		music := newMusic(logger)
		defer music.Close()
		opts.Music = music
	}

	logger.Info("play started", "mode", modeID(mode), "fps", cfg.TickRate, "seed", cfg.Seed)

	if mode == nil {
		err = tui.RunSession(cfg, opts)
	} else {
		err = tui.Run(skyhop.New(*mode), cfg, opts)
	}
	if err != nil {
		logger.Error("tui stopped", "err", err)
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}

func modeID(m *skyhop.Mode) string {
	if m == nil {
		return "menu"
	}
	return m.ID
}

// newMusic attaches the --music file, falling back to the built-in loop.
func newMusic(logger *log.Logger) *audio.Music {
	music := audio.NewMusic(audio.Speaker())

	track := audio.NewSynthTrack()
	if flagMusic != "" {
		ctx, cancel := context.WithTimeout(context.Background(), musicLoadTimeout)
		defer cancel()

		loaded, err := audio.NewLoader().Load(ctx, flagMusic)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load music: %v\n", err)
			logger.Warn("music file unusable, using built-in loop", "path", flagMusic, "err", err)
		} else {
			track = loaded
		}
	}

	music.Attach(track)
	logger.Debug("music ready", "track", track.Name)
	return music
}

// openLogFile opens ~/.skyhop/skyhop.log for appending.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot get home directory: %w", err)
	}
	dir := filepath.Join(home, ".skyhop")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "skyhop.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, nil
}
