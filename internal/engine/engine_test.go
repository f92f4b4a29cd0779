package engine

import (
	"errors"
	"testing"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
)

func TestNewValidation(t *testing.T) {
	controls := func() core.ControlResult { return core.NoControls() }
	scheduler := NewFrameScheduler()
	renderer := &fakeRenderer{}

	tests := []struct {
		name     string
		cfg      func(*config.Config)
		host     Host
		opts     Options
		expected error
	}{
		{
			name:     "missing scheduler",
			host:     Host{Renderer: renderer},
			opts:     Options{Controls: controls},
			expected: ErrSchedulerMissing,
		},
		{
			name:     "missing renderer",
			host:     Host{Scheduler: scheduler},
			opts:     Options{Controls: controls},
			expected: ErrConfigurationInvalid,
		},
		{
			name:     "missing control source",
			host:     Host{Scheduler: scheduler, Renderer: renderer},
			expected: ErrConfigurationInvalid,
		},
		{
			name:     "invalid tuning",
			cfg:      func(c *config.Config) { c.Platforms.PoolSize = 0 },
			host:     Host{Scheduler: scheduler, Renderer: renderer},
			opts:     Options{Controls: controls},
			expected: config.ErrInvalid,
		},
		{
			name: "valid",
			host: Host{Scheduler: scheduler, Renderer: renderer},
			opts: Options{Controls: controls},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			if tc.cfg != nil {
				tc.cfg(&cfg)
			}
			e, err := New(cfg, tc.host, tc.opts)
			if tc.expected == nil {
				if err != nil || e == nil {
					t.Fatalf("New() = %v, %v; expected engine", e, err)
				}
				return
			}
			if !errors.Is(err, tc.expected) {
				t.Errorf("New() error = %v, expected %v", err, tc.expected)
			}
			if e != nil {
				t.Error("New() should not return an engine on error")
			}
		})
	}

	if scheduler.Len() != 0 {
		t.Error("construction must never register with the scheduler")
	}
}

func TestInitializeStage(t *testing.T) {
	// Scenario A: fresh stage reports score 0 once and spawns centered.
	h := newHarness(t, nil)

	if err := h.e.InitializeStage(); err != nil {
		t.Fatalf("InitializeStage() error = %v", err)
	}

	if len(h.scores) != 1 || h.scores[0] != 0 {
		t.Errorf("score callbacks = %v, expected [0]", h.scores)
	}

	p := h.e.Player()
	if p.X != (480-48)/2.0 || p.Y != 560 {
		t.Errorf("player at (%v, %v), expected (216, 560)", p.X, p.Y)
	}
	if p.VelocityY != 0 || p.Grounded {
		t.Errorf("fresh player should be at rest and airborne, got vy=%v grounded=%v", p.VelocityY, p.Grounded)
	}

	if got := len(h.e.Platforms()); got != 12 {
		t.Errorf("pool size = %d, expected 12", got)
	}
	if len(h.renderer.platforms) != 12 || h.renderer.player == nil {
		t.Errorf("renderer got %d platform sprites, expected 12 plus the player", len(h.renderer.platforms))
	}
	if h.renderer.player.updates != 1 {
		t.Errorf("player sprite updates = %d, expected 1", h.renderer.player.updates)
	}

	// Idempotent
	if err := h.e.InitializeStage(); err != nil {
		t.Fatalf("second InitializeStage() error = %v", err)
	}
	if len(h.scores) != 1 {
		t.Errorf("second InitializeStage() fired score again: %v", h.scores)
	}

	events := h.e.DrainEvents()
	if len(events) != 1 || events[0] != (ScoreChanged{Score: 0}) {
		t.Errorf("events = %v, expected [ScoreChanged{0}]", events)
	}
	if h.e.DrainEvents() != nil {
		t.Error("DrainEvents() should empty the queue")
	}
}

func TestInitializeStageSpriteFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.renderer.createErr = errSpriteBroken

	err := h.e.InitializeStage()
	if !errors.Is(err, ErrStageMissing) || !errors.Is(err, errSpriteBroken) {
		t.Fatalf("InitializeStage() error = %v, expected ErrStageMissing wrapping the sprite error", err)
	}
	if err := h.e.Start(); err == nil {
		t.Error("Start() should surface the initialization failure")
	}
	if h.scheduler.Len() != 0 {
		t.Error("failed initialization must not register the step")
	}
}

func TestStartStop(t *testing.T) {
	h := newHarness(t, nil)

	if err := h.e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !h.e.IsRunning() || h.scheduler.Len() != 1 {
		t.Fatal("Start() should register exactly one stepper")
	}
	if len(h.scores) != 1 {
		t.Errorf("Start() on a fresh engine should initialize once, scores = %v", h.scores)
	}

	// Already running is a no-op
	if err := h.e.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if h.scheduler.Len() != 1 {
		t.Errorf("scheduler has %d steppers, expected 1", h.scheduler.Len())
	}

	h.tick(5)
	y := h.e.Player().Y
	if y <= 560 {
		t.Errorf("player should fall while running, y = %v", y)
	}

	if err := h.e.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if h.e.IsRunning() || h.scheduler.Len() != 0 {
		t.Fatal("Stop() should deregister the stepper")
	}
	h.tick(5)
	if h.e.Player().Y != y {
		t.Error("stopped engine should not advance")
	}

	// Not running is a no-op
	if err := h.e.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestGameOver(t *testing.T) {
	// Scenario E: falling below the stage above the safe threshold ends the run.
	h := newHarness(t, nil)
	if err := h.e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	deactivateAll(h.e)
	h.e.score = 10

	for i := 0; i < 300 && !h.e.IsGameOver(); i++ {
		h.tick(1)
	}

	if !h.e.IsGameOver() {
		t.Fatal("player should have fallen off the stage")
	}
	if h.e.IsRunning() || h.scheduler.Len() != 0 {
		t.Error("game over must deregister the step")
	}
	if h.gameOvers != 1 {
		t.Errorf("game over callbacks = %d, expected 1", h.gameOvers)
	}

	screenY := h.e.ScreenY(h.e.Player().Y)
	if screenY <= 720+120 {
		t.Errorf("game over at screen y %v, expected below %v", screenY, 720+120)
	}

	y := h.e.Player().Y
	h.tick(10)
	if h.e.Player().Y != y || h.gameOvers != 1 {
		t.Error("no step should run after game over")
	}
	if err := h.e.Step(1.0 / 60.0); err != nil || h.e.Player().Y != y {
		t.Error("direct Step after game over should be a no-op")
	}

	var overs int
	for _, ev := range h.e.DrainEvents() {
		if _, ok := ev.(GameOver); ok {
			overs++
		}
	}
	if overs != 1 {
		t.Errorf("GameOver events = %d, expected 1", overs)
	}

	if err := h.e.Start(); !errors.Is(err, ErrGameOver) {
		t.Errorf("Start() after game over = %v, expected ErrGameOver", err)
	}
}

func TestResetAfterGameOver(t *testing.T) {
	// Scenario F
	h := newHarness(t, nil)
	if err := h.e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	deactivateAll(h.e)
	h.e.score = 10
	for i := 0; i < 300 && !h.e.IsGameOver(); i++ {
		h.tick(1)
	}
	if !h.e.IsGameOver() {
		t.Fatal("setup: expected game over")
	}

	h.scores = nil
	if err := h.e.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	if h.e.Score() != 0 || h.e.IsGameOver() || h.e.IsRunning() {
		t.Errorf("after Reset: score=%d gameOver=%v running=%v", h.e.Score(), h.e.IsGameOver(), h.e.IsRunning())
	}
	if len(h.scores) != 1 || h.scores[0] != 0 {
		t.Errorf("Reset() score callbacks = %v, expected [0]", h.scores)
	}
	if h.gameOvers != 1 {
		t.Errorf("Reset() must not fire game over, callbacks = %d", h.gameOvers)
	}
	if h.e.Camera() != 0 || h.renderer.camera != 0 {
		t.Errorf("camera = %v, expected 0", h.e.Camera())
	}
	if h.renderer.clears != 1 {
		t.Errorf("renderer cleared %d times, expected 1", h.renderer.clears)
	}

	platforms := h.e.Platforms()
	if len(platforms) != 12 {
		t.Fatalf("pool size after Reset = %d, expected 12", len(platforms))
	}
	for i, p := range platforms {
		if !p.Active || p.VanishTriggered {
			t.Errorf("platform %d not fresh after Reset: %+v", i, p)
		}
	}

	if err := h.e.Start(); err != nil {
		t.Errorf("Start() after Reset error = %v", err)
	}
}

func TestIndependentEngines(t *testing.T) {
	a := newHarness(t, nil)
	b := newHarness(t, nil)
	if err := a.e.Start(); err != nil {
		t.Fatal(err)
	}
	if err := b.e.InitializeStage(); err != nil {
		t.Fatal(err)
	}

	a.tick(20)
	if b.e.Player().Y != 560 {
		t.Error("ticking one engine must not move another")
	}
}
