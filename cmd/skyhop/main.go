// skyhop is a vertical platformer for the terminal: jump from platform to
// platform before they vanish.
//
// Usage:
//
//	skyhop list              - List available modes
//	skyhop play [mode]       - Play a mode (menu when omitted)
//	skyhop scores [mode]     - Show high scores
//	skyhop board [mode]      - Browse high scores interactively
//	skyhop serve             - Start SSH server for remote play
//	skyhop simulate [mode]   - Run a headless autopilot game
//	skyhop config [mode]     - Print the effective tuning
//
// Global flags (also read from SKYHOP_* environment variables):
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.skyhop/scores.db)
//	--config <path>      - Engine tuning YAML
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/games/skyhop"
)

// envPrefix namespaces environment overrides, e.g. SKYHOP_FPS=30.
const envPrefix = "SKYHOP"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skyhop",
	Short: "Skyhop - a vertical platformer for your terminal",
	Long: `Skyhop is a vertical platformer: climb a ladder of platforms that
vanish a few seconds after you land on them. The higher you climb,
the faster they go.

Available commands:
  list      - Show all modes
  play      - Play (mode picker when no mode is given)
  scores    - Print high scores
  board     - Interactive scoreboard
  serve     - Start SSH server for remote play
  simulate  - Headless autopilot run
  config    - Print the effective tuning

Examples:
  skyhop play
  skyhop play skyhop-hard
  skyhop scores skyhop
  skyhop serve --ssh :2222
  SKYHOP_FPS=30 skyhop play`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Int("fps", 60, "Tick rate (frames per second)")
	flags.Int64("seed", 0, "RNG seed (0 = random based on time)")
	flags.String("db", "~/.skyhop/scores.db", "Path to scores database")
	flags.String("config", "", "Path to engine tuning YAML")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")

	for _, name := range []string{"fps", "seed", "db", "config", "log-level"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(configCmd)
}

// settings are the global options after flags and environment are merged.
type settings struct {
	FPS        int
	Seed       int64
	DBPath     string
	ConfigPath string
	LogLevel   string
}

func loadSettings() settings {
	return settings{
		FPS:        viper.GetInt("fps"),
		Seed:       viper.GetInt64("seed"),
		DBPath:     viper.GetString("db"),
		ConfigPath: viper.GetString("config"),
		LogLevel:   viper.GetString("log-level"),
	}
}

// newLogger builds the structured logger every command uses.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "skyhop",
		Level:           lvl,
	})
	return logger, nil
}

// modeArg returns the mode named by the first argument, or the default mode.
func modeArg(args []string) (skyhop.Mode, error) {
	id := skyhop.DefaultModeID
	if len(args) > 0 {
		id = args[0]
	}
	mode, ok := skyhop.ModeByID(id)
	if !ok {
		return skyhop.Mode{}, fmt.Errorf("unknown mode %q (run 'skyhop list' to see available modes)", id)
	}
	return mode, nil
}

// loadTuning reads the engine tuning named by --config or found on disk.
func loadTuning(s settings) (config.Config, error) {
	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		return cfg, fmt.Errorf("cannot load config: %w", err)
	}
	return cfg, nil
}
