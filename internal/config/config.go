// Package config provides YAML-based tuning for the skyhop engine and the
// difficulty presets that reshape it.
package config

import (
	"errors"
	"fmt"
)

// Config contains all tuning for one skyhop run. Distances are world pixels,
// velocities are pixels per frame and times are seconds.
type Config struct {
	Stage     StageConfig    `yaml:"stage"`
	Player    PlayerConfig   `yaml:"player"`
	Physics   PhysicsConfig  `yaml:"physics"`
	Platforms PlatformConfig `yaml:"platforms"`
	Vanish    VanishConfig   `yaml:"vanish"`
	Safety    SafetyConfig   `yaml:"safety"`
	Scoring   ScoringConfig  `yaml:"scoring"`
}

// StageConfig defines the visible world area and camera behavior.
type StageConfig struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	ScrollTriggerY float64 `yaml:"scroll_trigger_y"` // Screen Y above which the camera follows the player
	GameOverOffset float64 `yaml:"game_over_offset"` // Distance below the stage bottom that ends the run
}

// PlayerConfig defines the player body.
type PlayerConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	StartY          float64 `yaml:"start_y"`
	HorizontalSpeed float64 `yaml:"horizontal_speed"`
}

// PhysicsConfig defines the integrator constants.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"`
	JumpImpulse  float64 `yaml:"jump_impulse"`  // Negative = up
	MaxFallSpeed float64 `yaml:"max_fall_speed"` // Terminal velocity
	DefaultDelta float64 `yaml:"default_delta"`  // Frame time used when the host supplies none
}

// PlatformConfig defines the platform pool.
type PlatformConfig struct {
	PoolSize        int     `yaml:"pool_size"`
	VerticalSpacing float64 `yaml:"vertical_spacing"`
	Height          float64 `yaml:"height"`
	MinWidth        float64 `yaml:"min_width"`
	MaxWidth        float64 `yaml:"max_width"`
	RecycleBuffer   float64 `yaml:"recycle_buffer"` // Distance below the stage bottom before a platform is recycled
}

// VanishConfig defines how long a platform survives after being stepped on.
type VanishConfig struct {
	BaseTime    float64 `yaml:"base_time"`
	MinTime     float64 `yaml:"min_time"`
	ScoreFactor float64 `yaml:"score_factor"` // Seconds removed per point of score
}

// SafetyConfig defines the safe-start platform and the respawn rule.
// Both gate on ScoreThreshold.
type SafetyConfig struct {
	StartPlatformIndex int  `yaml:"start_platform_index"`
	ScoreThreshold     int  `yaml:"score_threshold"`
	ForgivingRespawn   bool `yaml:"forgiving_respawn"`
}

// ScoringConfig defines the height-to-score conversion.
type ScoringConfig struct {
	PerPixel float64 `yaml:"per_pixel"`
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Validate checks the tuning for values the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Stage.Width > 0 && c.Stage.Height > 0, "stage size must be positive")
	check(c.Player.Width > 0 && c.Player.Height > 0, "player size must be positive")
	check(c.Player.Width <= c.Stage.Width, "player wider than stage")
	check(c.Player.HorizontalSpeed >= 0, "horizontal speed must not be negative")
	check(c.Physics.Gravity > 0, "gravity must be positive")
	check(c.Physics.JumpImpulse < 0, "jump impulse must be negative (upward)")
	check(c.Physics.MaxFallSpeed > 0, "max fall speed must be positive")
	check(c.Physics.DefaultDelta > 0, "default delta must be positive")
	check(c.Platforms.PoolSize > 0, "platform pool size must be positive")
	check(c.Platforms.VerticalSpacing > 0, "vertical spacing must be positive")
	check(c.Platforms.Height > 0, "platform height must be positive")
	check(c.Platforms.MinWidth > 0 && c.Platforms.MinWidth <= c.Platforms.MaxWidth,
		"platform widths must satisfy 0 < min_width <= max_width")
	check(c.Platforms.MaxWidth <= c.Stage.Width, "platform max width exceeds stage width")
	check(c.Physics.MaxFallSpeed < c.Platforms.Height,
		"max fall speed %.2f lets the player tunnel through platforms", c.Physics.MaxFallSpeed)
	check(c.Vanish.MinTime > 0 && c.Vanish.MinTime <= c.Vanish.BaseTime,
		"vanish times must satisfy 0 < min_time <= base_time")
	check(c.Vanish.ScoreFactor >= 0, "vanish score factor must not be negative")
	check(c.Safety.StartPlatformIndex >= 0 && c.Safety.StartPlatformIndex < c.Platforms.PoolSize,
		"start platform index %d outside pool", c.Safety.StartPlatformIndex)
	check(c.Scoring.PerPixel > 0, "score per pixel must be positive")

	return errors.Join(errs...)
}
