// Package engine implements the skyhop simulation core: a player body, a
// fixed pool of recyclable platforms with vanish timers, an upward-scrolling
// camera, and the lifecycle that registers the per-frame step with a host
// scheduler.
//
// The engine never reads back from the rendering layer. It pushes entity
// state into sprites, reports score and game over through callbacks and an
// event queue, and leaves timing to the host.
package engine

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
)

// Host bundles the collaborators the engine needs from its environment.
type Host struct {
	Scheduler Scheduler
	Renderer  Renderer
}

// Options configures callbacks and determinism.
type Options struct {
	// Controls is polled once per frame. Required.
	Controls func() core.ControlResult
	// OnScore fires whenever the score changes, and with 0 on initialization.
	OnScore func(score int)
	// OnGameOver fires exactly once per run when the player falls off stage.
	OnGameOver func()
	// Logger receives per-frame failures. Nil discards them.
	Logger *log.Logger
	// Seed drives platform placement.
	Seed int64
}

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	Score           int
	Camera          float64
	HighestAltitude float64
	Player          Player
	Platforms       []Platform
	Initialized     bool
	Running         bool
	GameOver        bool
}

// Engine owns all entity and run state of one game. It is not safe for
// concurrent use; lifecycle calls and scheduler ticks must come from the
// same goroutine.
type Engine struct {
	cfg      config.Config
	host     Host
	controls func() core.ControlResult
	onScore  func(int)
	onOver   func()
	logger   *log.Logger

	player          Player
	pool            *Pool
	playerSprite    Sprite
	platformSprites []Sprite

	score           int
	highestAltitude float64
	camera          float64

	initialized bool
	running     bool
	gameOver    bool

	events  eventQueue
	stepper *frameStepper
}

// frameStepper adapts the engine to the Scheduler's Stepper interface.
// A dedicated pointer keeps Add/Remove identity stable.
type frameStepper struct {
	e *Engine
}

// OnFrame runs one simulation step and logs non-fatal failures.
func (s *frameStepper) OnFrame(dt float64) {
	if err := s.e.Step(dt); err != nil {
		s.e.logger.Warn("frame step failed", "err", err)
	}
}

// New validates the host and tuning and returns an uninitialized engine.
func New(cfg config.Config, host Host, opts Options) (*Engine, error) {
	if host.Scheduler == nil {
		return nil, ErrSchedulerMissing
	}
	if host.Renderer == nil {
		return nil, fmt.Errorf("%w: renderer is nil", ErrConfigurationInvalid)
	}
	if opts.Controls == nil {
		return nil, fmt.Errorf("%w: control source is nil", ErrConfigurationInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigurationInvalid, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := &Engine{
		cfg:             cfg,
		host:            host,
		controls:        opts.Controls,
		onScore:         opts.OnScore,
		onOver:          opts.OnGameOver,
		logger:          logger,
		highestAltitude: cfg.Player.StartY,
	}
	e.pool = NewPool(opts.Seed, &e.cfg)
	e.stepper = &frameStepper{e: e}
	return e, nil
}

// InitializeStage builds the player, the platform pool and their sprites,
// resets score and camera, and reports score 0. It is a no-op when the stage
// is already initialized.
func (e *Engine) InitializeStage() error {
	if e.initialized {
		return nil
	}

	e.player = newPlayer(e.cfg)
	e.highestAltitude = e.player.Y

	sprite, err := e.host.Renderer.NewPlayerSprite()
	if err != nil {
		return fmt.Errorf("engine: create player sprite: %w: %w", ErrStageMissing, err)
	}
	e.playerSprite = sprite

	e.pool.Rebuild()
	e.platformSprites = e.platformSprites[:0]
	for i := 0; i < e.pool.Len(); i++ {
		sprite, err := e.host.Renderer.NewPlatformSprite()
		if err != nil {
			return fmt.Errorf("engine: create platform sprite %d: %w: %w", i, ErrStageMissing, err)
		}
		if err := updateSprite(sprite, platformState(i, e.pool.At(i))); err != nil {
			return fmt.Errorf("engine: sync platform sprite %d: %w", i, err)
		}
		e.platformSprites = append(e.platformSprites, sprite)
	}

	if err := updateSprite(e.playerSprite, playerState(e.player)); err != nil {
		return fmt.Errorf("engine: sync player sprite: %w", err)
	}

	e.camera = 0
	e.host.Renderer.SetCamera(e.camera)
	e.score = 0
	e.initialized = true
	e.gameOver = false

	e.emitScore()
	return nil
}

// Start initializes the stage if needed and registers the step with the
// scheduler. Starting a running engine is a no-op; starting a finished run
// returns ErrGameOver until Reset is called.
func (e *Engine) Start() error {
	if e.gameOver {
		return ErrGameOver
	}
	if !e.initialized {
		if err := e.InitializeStage(); err != nil {
			return err
		}
	}
	if e.running {
		return nil
	}

	e.host.Scheduler.Add(e.stepper)
	e.running = true
	return nil
}

// Stop deregisters the step. Stopping an idle engine is a no-op.
func (e *Engine) Stop() error {
	if !e.running {
		return nil
	}
	e.host.Scheduler.Remove(e.stepper)
	e.running = false
	return nil
}

// Reset stops the engine, clears every entity and builds a fresh stage.
// It reports score 0 once and never reports game over.
func (e *Engine) Reset() error {
	if err := e.Stop(); err != nil {
		return err
	}

	e.host.Renderer.Clear()
	e.playerSprite = nil
	e.platformSprites = e.platformSprites[:0]
	e.pool.Clear()
	e.events.reset()

	e.camera = 0
	e.score = 0
	e.initialized = false
	e.gameOver = false

	return e.InitializeStage()
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.score
}

// IsGameOver reports whether the run has ended.
func (e *Engine) IsGameOver() bool {
	return e.gameOver
}

// IsRunning reports whether the step is registered with the scheduler.
func (e *Engine) IsRunning() bool {
	return e.running
}

// Camera returns the vertical stage offset. Screen Y is world Y plus Camera.
func (e *Engine) Camera() float64 {
	return e.camera
}

// Player returns a copy of the player body.
func (e *Engine) Player() Player {
	return e.player
}

// Platforms returns a copy of the platform pool in pool order.
func (e *Engine) Platforms() []Platform {
	return e.pool.Platforms()
}

// Config returns the tuning the engine was built with.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// VanishDuration returns the vanish time a platform landed on now would get.
func (e *Engine) VanishDuration() float64 {
	return e.cfg.Vanish.Duration(e.score)
}

// Snapshot returns a copy of the full engine state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Score:           e.score,
		Camera:          e.camera,
		HighestAltitude: e.highestAltitude,
		Player:          e.player,
		Platforms:       e.pool.Platforms(),
		Initialized:     e.initialized,
		Running:         e.running,
		GameOver:        e.gameOver,
	}
}

// DrainEvents returns the events emitted since the last call, oldest first.
func (e *Engine) DrainEvents() []Event {
	return e.events.drain()
}

// ScreenY converts a world Y to screen space.
func (e *Engine) ScreenY(worldY float64) float64 {
	return worldY + e.camera
}

func (e *Engine) emitScore() {
	e.events.push(ScoreChanged{Score: e.score})
	if e.onScore != nil {
		e.onScore(e.score)
	}
}

// finish ends the run: stop first, then notify exactly once.
func (e *Engine) finish() {
	e.gameOver = true
	if err := e.Stop(); err != nil {
		e.logger.Error("stop after game over", "err", err)
	}
	e.events.push(GameOver{Score: e.score})
	e.logger.Info("game over", "score", e.score, "camera", math.Round(e.camera))
	if e.onOver != nil {
		e.onOver()
	}
}

// joinSpriteErr records a non-fatal adapter failure for the current step.
func joinSpriteErr(errs []error, kind EntityKind, index int, err error) []error {
	if err == nil {
		return errs
	}
	return append(errs, fmt.Errorf("engine: update %s sprite %d: %w", kind, index, err))
}

// stepError folds adapter failures into one error.
func stepError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
