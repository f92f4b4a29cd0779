package engine

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
)

// standOnSlotOne puts a non-safe platform 4px under the player's feet and
// moves the safe platform out of the way.
func standOnSlotOne(t *testing.T, h *harness) {
	t.Helper()
	if err := h.e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	placePlatform(h.e, 0, 0, 626, 100)
	placePlatform(h.e, 1, 200, 612, 100)
}

func TestStepLanding(t *testing.T) {
	// Scenario B: a falling player crossing a top edge lands on it.
	h := newHarness(t, nil)
	standOnSlotOne(t, h)

	landed := false
	for i := 0; i < 10 && !landed; i++ {
		h.tick(1)
		landed = h.e.Player().Grounded
	}
	if !landed {
		t.Fatal("player never landed")
	}

	p := h.e.Player()
	if p.Y != 612-48 {
		t.Errorf("player y = %v, expected %v", p.Y, 612-48)
	}
	if p.VelocityY != 0 {
		t.Errorf("velocity = %v, expected 0", p.VelocityY)
	}

	plat := h.e.Platforms()[1]
	if !plat.VanishTriggered {
		t.Error("landing should trigger the vanish timer")
	}
	if plat.VanishDuration != 3.5 {
		t.Errorf("vanish duration = %v, expected 3.5 at score 0", plat.VanishDuration)
	}

	// Standing is stable across frames.
	h.tick(5)
	if p := h.e.Player(); p.Y != 564 || !p.Grounded {
		t.Errorf("player should stay on the platform, got y=%v grounded=%v", p.Y, p.Grounded)
	}
}

func TestStepBunnyHop(t *testing.T) {
	// Scenario C: landing with jump held relaunches on the same frame.
	h := newHarness(t, nil)
	standOnSlotOne(t, h)
	h.hold(core.ControlSnapshot{JumpActive: true})

	for i := 0; i < 10; i++ {
		h.tick(1)
		if p := h.e.Player(); p.VelocityY < 0 {
			if p.VelocityY != -14 {
				t.Errorf("velocity = %v, expected jump impulse -14", p.VelocityY)
			}
			if p.Grounded {
				t.Error("bunny-hop should leave the player airborne")
			}
			if p.Y != 564 {
				t.Errorf("player y = %v, expected the landing height 564", p.Y)
			}
			if !h.e.Platforms()[1].VanishTriggered {
				t.Error("bunny-hop still triggers the vanish timer")
			}
			return
		}
	}
	t.Fatal("player never relaunched")
}

func TestStepVanish(t *testing.T) {
	// Scenario D: an elapsed timer deactivates the platform and collision skips it.
	h := newHarness(t, nil)
	standOnSlotOne(t, h)
	h.tick(10)
	if !h.e.Player().Grounded {
		t.Fatal("setup: player should stand on slot 1")
	}
	h.e.DrainEvents()

	h.e.pool.platforms[1].RemainingVanishTime = 0.05
	h.tick(4)

	plat := h.e.Platforms()[1]
	if plat.Active {
		t.Fatal("platform should be inactive once its timer elapsed")
	}
	if plat.RemainingVanishTime != 0 {
		t.Errorf("remaining time = %v, expected 0", plat.RemainingVanishTime)
	}

	var vanished []int
	for _, ev := range h.e.DrainEvents() {
		if v, ok := ev.(PlatformVanished); ok {
			vanished = append(vanished, v.Index)
		}
	}
	if !reflect.DeepEqual(vanished, []int{1}) {
		t.Errorf("vanished events = %v, expected [1]", vanished)
	}

	h.tick(30)
	if p := h.e.Player(); p.Y <= 612 {
		t.Errorf("player should fall through the vanished platform, y = %v", p.Y)
	}
}

func TestStepDeltaTime(t *testing.T) {
	tests := []struct {
		name      string
		dt        float64
		remaining float64
		active    bool
	}{
		{"zero uses default delta", 0, 1.0 / 60.0, false},
		{"NaN uses default delta", math.NaN(), 1.0 / 60.0, false},
		{"negative skips timers", -1, 1.0 / 60.0, true},
		{"infinite skips timers", math.Inf(1), 1.0 / 60.0, true},
		{"explicit delta", 0.5, 0.4, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, nil)
			if err := h.e.InitializeStage(); err != nil {
				t.Fatal(err)
			}
			h.e.pool.TriggerVanish(5, tc.remaining)

			if err := h.e.Step(tc.dt); err != nil {
				t.Fatalf("Step() error = %v", err)
			}
			if got := h.e.Platforms()[5].Active; got != tc.active {
				t.Errorf("active = %v, expected %v", got, tc.active)
			}
		})
	}
}

func TestStepSafePlatform(t *testing.T) {
	tests := []struct {
		name      string
		score     int
		triggered bool
	}{
		{"at threshold stays", 0, false},
		{"above threshold vanishes", 10, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, nil)
			if err := h.e.Start(); err != nil {
				t.Fatal(err)
			}
			h.e.score = tc.score
			h.tick(15)

			if !h.e.Player().Grounded {
				t.Fatal("player should land on the safe platform")
			}
			if got := h.e.Platforms()[0].VanishTriggered; got != tc.triggered {
				t.Errorf("safe platform triggered = %v, expected %v", got, tc.triggered)
			}
		})
	}
}

func TestStepForgivingRespawn(t *testing.T) {
	tests := []struct {
		name      string
		safeOn    bool
		score     int
		respawned bool
	}{
		{"safe platform visible", true, 0, true},
		{"safe platform vanished", false, 0, false},
		{"score above threshold", true, 10, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, func(c *config.Config) { c.Safety.ForgivingRespawn = true })
			if err := h.e.Start(); err != nil {
				t.Fatal(err)
			}
			deactivateAll(h.e)
			h.e.pool.platforms[0].Active = tc.safeOn
			h.e.player.X = 0
			h.e.score = tc.score
			h.e.DrainEvents()

			respawned := false
			for i := 0; i < 300 && !respawned && !h.e.IsGameOver(); i++ {
				h.tick(1)
				for _, ev := range h.e.DrainEvents() {
					if _, ok := ev.(Respawned); ok {
						respawned = true
					}
				}
			}

			if respawned != tc.respawned {
				t.Fatalf("respawned = %v, expected %v", respawned, tc.respawned)
			}
			if tc.respawned {
				safe := h.e.Platforms()[0]
				p := h.e.Player()
				if p.Y != safe.Y-p.Height || !p.Grounded {
					t.Errorf("player at y=%v grounded=%v, expected on safe platform top %v", p.Y, p.Grounded, safe.Y)
				}
				if h.e.IsGameOver() || h.gameOvers != 0 {
					t.Error("respawn must not end the run")
				}
			} else if !h.e.IsGameOver() || h.gameOvers != 1 {
				t.Error("fall without respawn should end the run")
			}
		})
	}
}

func TestStepCameraAndScore(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.e.Start(); err != nil {
		t.Fatal(err)
	}
	h.e.player.Y = 200
	h.tick(1)

	p := h.e.Player()
	if got := h.e.ScreenY(p.Y); math.Abs(got-280) > 1e-9 {
		t.Errorf("player screen y = %v, expected pinned at the trigger line 280", got)
	}
	if h.e.Camera() <= 0 || h.renderer.camera != h.e.Camera() {
		t.Errorf("camera = %v (renderer %v), expected positive and forwarded", h.e.Camera(), h.renderer.camera)
	}

	expected := int(math.Floor(560 - p.Y))
	if h.e.Score() != expected {
		t.Errorf("score = %d, expected %d", h.e.Score(), expected)
	}
	if last := h.scores[len(h.scores)-1]; last != expected {
		t.Errorf("last reported score = %d, expected %d", last, expected)
	}

	// Falling back never lowers the score or the camera.
	camera := h.e.Camera()
	reported := len(h.scores)
	h.tick(20)
	if h.e.Score() != expected || h.e.Camera() != camera {
		t.Errorf("score/camera changed while falling: %d/%v", h.e.Score(), h.e.Camera())
	}
	if len(h.scores) != reported {
		t.Errorf("score callbacks fired without a change: %v", h.scores[reported:])
	}
}

func TestStepHorizontalBounds(t *testing.T) {
	tests := []struct {
		name     string
		controls core.ControlSnapshot
		expected float64
	}{
		{"left wall", core.ControlSnapshot{MovingLeft: true}, 0},
		{"right wall", core.ControlSnapshot{MovingRight: true}, 480 - 48},
		{"both cancel", core.ControlSnapshot{MovingLeft: true, MovingRight: true}, 216},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Full-width platforms keep the player on stage while walking.
			h := newHarness(t, func(c *config.Config) {
				c.Platforms.MinWidth = 480
				c.Platforms.MaxWidth = 480
			})
			if err := h.e.Start(); err != nil {
				t.Fatal(err)
			}
			h.hold(tc.controls)
			h.tick(60)
			if got := h.e.Player().X; got != tc.expected {
				t.Errorf("x = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestStepUnavailableControls(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.e.Start(); err != nil {
		t.Fatal(err)
	}
	h.controls = core.ControlResult{
		Status:   core.ControlsUnavailable,
		Snapshot: core.ControlSnapshot{MovingLeft: true, JumpActive: true},
	}
	h.tick(30)

	p := h.e.Player()
	if p.X != 216 {
		t.Errorf("unavailable controls moved the player to x=%v", p.X)
	}
	if p.VelocityY < 0 {
		t.Error("unavailable controls triggered a jump")
	}
}

func TestStepSpriteFailureIsNonFatal(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.e.Start(); err != nil {
		t.Fatal(err)
	}
	h.renderer.failPlatforms(errSpriteBroken)

	before := h.e.Player().Y
	err := h.e.Step(1.0 / 60.0)
	if !errors.Is(err, errSpriteBroken) {
		t.Fatalf("Step() error = %v, expected sprite failure", err)
	}
	if h.e.Player().Y == before {
		t.Error("simulation should advance despite sprite failures")
	}

	h.tick(5)
	if !h.e.IsRunning() {
		t.Error("sprite failures must not stop the engine")
	}

	h.e.playerSprite = nil
	if err := h.e.Step(1.0 / 60.0); !errors.Is(err, ErrSpriteUpdateInvalid) {
		t.Errorf("Step() with no player sprite = %v, expected ErrSpriteUpdateInvalid", err)
	}
}

func TestStepInvariants(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Vanish.BaseTime = 1.5 })
	if err := h.e.Start(); err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(7))

	lastScore := 0
	for frame := 0; frame < 5000 && !h.e.IsGameOver(); frame++ {
		if frame%20 == 0 {
			h.hold(core.ControlSnapshot{
				MovingLeft:  rng.Intn(3) == 0,
				MovingRight: rng.Intn(3) == 0,
				JumpActive:  rng.Intn(2) == 0,
			})
		}
		h.tick(1)

		p := h.e.Player()
		if p.X < 0 || p.X > 480-p.Width {
			t.Fatalf("frame %d: x = %v out of bounds", frame, p.X)
		}
		if p.VelocityY > 16 {
			t.Fatalf("frame %d: velocity %v above the fall ceiling", frame, p.VelocityY)
		}
		if n := len(h.e.Platforms()); n != 12 {
			t.Fatalf("frame %d: pool size %d", frame, n)
		}
		if h.e.Score() < lastScore {
			t.Fatalf("frame %d: score dropped from %d to %d", frame, lastScore, h.e.Score())
		}
		lastScore = h.e.Score()

		for i, plat := range h.e.Platforms() {
			if plat.Width < 96 || plat.Width > 168 {
				t.Fatalf("frame %d: platform %d width %v", frame, i, plat.Width)
			}
			if plat.X < 0 || plat.X+plat.Width > 480 {
				t.Fatalf("frame %d: platform %d off stage at x=%v", frame, i, plat.X)
			}
		}
	}

	for i := 1; i < len(h.scores); i++ {
		if h.scores[i] <= h.scores[i-1] {
			t.Fatalf("score callbacks not strictly increasing: %v", h.scores)
		}
	}
}

func TestStepDeterminism(t *testing.T) {
	run := func() Snapshot {
		h := newHarness(t, nil)
		if err := h.e.Start(); err != nil {
			t.Fatal(err)
		}
		for frame := 0; frame < 600 && !h.e.IsGameOver(); frame++ {
			h.hold(core.ControlSnapshot{
				MovingLeft:  frame%90 < 30,
				MovingRight: frame%90 >= 60,
				JumpActive:  frame%40 < 5,
			})
			h.tick(1)
		}
		return h.e.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Determinism failed:\nrun1=%+v\nrun2=%+v", a, b)
	}
}
