package skyhop

import (
	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/registry"
)

// Mode is a registered variant of the game. Each mode applies a difficulty
// preset on top of the loaded tuning.
type Mode struct {
	ID          string
	Title       string
	Description string
	Preset      config.DifficultyPreset
}

// Modes lists every playable variant. The first one is the default.
var Modes = []Mode{
	{
		ID:          "skyhop",
		Title:       "Skyhop",
		Description: "Tuning as loaded from skyhop.yaml",
	},
	{
		ID:          "skyhop-easy",
		Title:       "Skyhop (Easy)",
		Description: "Slow vanish, respawn on the start platform early on",
		Preset:      config.DifficultyEasy,
	},
	{
		ID:          "skyhop-hard",
		Title:       "Skyhop (Hard)",
		Description: "Fast vanish ramp, no respawn",
		Preset:      config.DifficultyHard,
	},
	{
		ID:          "skyhop-zen",
		Title:       "Skyhop (Zen)",
		Description: "Platforms never speed up their vanish",
		Preset:      config.DifficultyFixed,
	},
}

// DefaultModeID is the mode played when none is given.
const DefaultModeID = "skyhop"

func init() {
	for _, m := range Modes {
		registry.Register(m.ID, func() registry.Game { return New(m) })
	}
}

// ModeByID returns the mode registered under id.
func ModeByID(id string) (Mode, bool) {
	for _, m := range Modes {
		if m.ID == id {
			return m, true
		}
	}
	return Mode{}, false
}
