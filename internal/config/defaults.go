package config

import (
	_ "embed"
)

//go:embed defaults/skyhop.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in tuning. It matches defaults/skyhop.yaml
// and is used when the embedded file cannot be parsed.
func DefaultConfig() Config {
	return Config{
		Stage: StageConfig{
			Width:          480,
			Height:         720,
			ScrollTriggerY: 280,
			GameOverOffset: 120,
		},
		Player: PlayerConfig{
			Width:           48,
			Height:          48,
			StartY:          560,
			HorizontalSpeed: 5,
		},
		Physics: PhysicsConfig{
			Gravity:      0.42,
			JumpImpulse:  -14,
			MaxFallSpeed: 16,
			DefaultDelta: 1.0 / 60.0,
		},
		Platforms: PlatformConfig{
			PoolSize:        12,
			VerticalSpacing: 110,
			Height:          18,
			MinWidth:        96,
			MaxWidth:        168,
			RecycleBuffer:   40,
		},
		Vanish: VanishConfig{
			BaseTime:    3.5,
			MinTime:     1.2,
			ScoreFactor: 0.0004,
		},
		Safety: SafetyConfig{
			StartPlatformIndex: 0,
			ScoreThreshold:     0,
			ForgivingRespawn:   false,
		},
		Scoring: ScoringConfig{
			PerPixel: 1,
		},
	}
}
