package config

import (
	"fmt"
	"math"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI value to a preset. An empty string means "keep the
// config as loaded" and returns an empty preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Vanish.BaseTime = 5.0
		cfg.Vanish.MinTime = 2.0
		cfg.Vanish.ScoreFactor = 0.0002
		cfg.Safety.ScoreThreshold = 150
		cfg.Safety.ForgivingRespawn = true
	case DifficultyNormal:
		d := DefaultConfig()
		cfg.Vanish = d.Vanish
		cfg.Safety.ScoreThreshold = d.Safety.ScoreThreshold
		cfg.Safety.ForgivingRespawn = d.Safety.ForgivingRespawn
	case DifficultyHard:
		cfg.Vanish.BaseTime = 2.5
		cfg.Vanish.MinTime = 0.8
		cfg.Vanish.ScoreFactor = 0.0008
		cfg.Safety.ScoreThreshold = 0
		cfg.Safety.ForgivingRespawn = false
	case DifficultyFixed:
		// No ramp: every platform lives for the base time.
		cfg.Vanish.ScoreFactor = 0
	}
}

// Duration returns how long a platform stepped on at the given score
// survives. It never drops below MinTime.
func (v VanishConfig) Duration(score int) float64 {
	return math.Max(v.MinTime, v.BaseTime-float64(score)*v.ScoreFactor)
}

// Level returns how far the vanish ramp has progressed at the given score,
// from 0.0 (base time) to 1.0 (minimum time).
func (v VanishConfig) Level(score int) float64 {
	span := v.BaseTime - v.MinTime
	if span <= 0 || v.ScoreFactor == 0 {
		return 0
	}
	return clampF((v.BaseTime-v.Duration(score))/span, 0.0, 1.0)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
