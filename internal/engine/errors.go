package engine

import "errors"

// Error kinds returned across the engine boundary. Callers match them with
// errors.Is; returned errors usually wrap one of these with context.
var (
	// ErrConfigurationInvalid reports missing collaborators or unusable tuning.
	ErrConfigurationInvalid = errors.New("engine: configuration invalid")

	// ErrSchedulerMissing reports a host without a frame scheduler.
	ErrSchedulerMissing = errors.New("engine: frame scheduler missing")

	// ErrSpriteUpdateInvalid reports a sprite update without a sprite.
	ErrSpriteUpdateInvalid = errors.New("engine: sprite update invalid")

	// ErrStageMissing reports a renderer that could not provide sprites.
	ErrStageMissing = errors.New("engine: stage missing")

	// ErrGameOver reports an attempt to resume a finished run without Reset.
	ErrGameOver = errors.New("engine: run is over, reset required")
)
