package engine

import (
	"math"
	"testing"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
)

func newTestPool(t *testing.T, seed int64) (*Pool, *config.Config) {
	t.Helper()
	cfg := config.DefaultConfig()
	p := NewPool(seed, &cfg)
	p.Rebuild()
	return p, &cfg
}

func TestPoolRebuild(t *testing.T) {
	p, cfg := newTestPool(t, 1)

	if p.Len() != cfg.Platforms.PoolSize {
		t.Fatalf("Len() = %d, expected %d", p.Len(), cfg.Platforms.PoolSize)
	}

	for i, plat := range p.Platforms() {
		expectedY := 560.0 + 48 + 18 - float64(i)*110
		if plat.Y != expectedY {
			t.Errorf("platform %d y = %v, expected %v", i, plat.Y, expectedY)
		}
		if plat.Width < 96 || plat.Width > 168 {
			t.Errorf("platform %d width %v out of range", i, plat.Width)
		}
		if plat.X < 0 || plat.X+plat.Width > 480 {
			t.Errorf("platform %d off stage: x=%v w=%v", i, plat.X, plat.Width)
		}
		if plat.Height != 18 || !plat.Active || plat.VanishTriggered {
			t.Errorf("platform %d not fresh: %+v", i, plat)
		}
		if plat.Safe != (i == 0) {
			t.Errorf("platform %d safe = %v", i, plat.Safe)
		}
	}

	safe, ok := p.Safe()
	if !ok {
		t.Fatal("Safe() found no platform")
	}
	if center := safe.X + safe.Width/2; math.Abs(center-240) > 1e-9 {
		t.Errorf("safe platform centered at %v, expected 240", center)
	}

	if p.Highest() != 626-11*110 {
		t.Errorf("Highest() = %v, expected %v", p.Highest(), 626-11*110)
	}

	p.Clear()
	if p.Len() != 0 {
		t.Errorf("Len() after Clear = %d", p.Len())
	}
	if _, ok := p.Safe(); ok {
		t.Error("Safe() on an empty pool should report false")
	}
}

func TestPoolFindLanding(t *testing.T) {
	p, _ := newTestPool(t, 1)
	p.platforms[3] = Platform{X: 100, Y: 300, Width: 100, Height: 18}
	p.platforms[3].resetRuntime()
	p.platforms[5] = Platform{X: 120, Y: 302, Width: 100, Height: 18}
	p.platforms[5].resetRuntime()

	tests := []struct {
		name           string
		previousBottom float64
		body           core.RectF
		expected       int
		found          bool
	}{
		{"crossing top", 295, core.NewRectF(130, 258, 48, 48), 3, true},
		{"first match wins", 299, core.NewRectF(130, 260, 48, 48), 3, true},
		{"starting on the surface", 300, core.NewRectF(130, 253, 48, 48), 3, true},
		{"not yet reached", 290, core.NewRectF(130, 250, 48, 48), -1, false},
		{"already below", 301, core.NewRectF(130, 256, 48, 48), 5, true},
		{"touching edge only", 295, core.NewRectF(52, 258, 48, 48), -1, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			i, ok := p.FindLanding(tc.previousBottom, tc.body)
			if i != tc.expected || ok != tc.found {
				t.Errorf("FindLanding() = (%d, %v), expected (%d, %v)", i, ok, tc.expected, tc.found)
			}
		})
	}

	p.platforms[3].Active = false
	if i, _ := p.FindLanding(295, core.NewRectF(130, 258, 48, 48)); i == 3 {
		t.Error("inactive platforms must not be collidable")
	}
}

func TestPoolVanishTimers(t *testing.T) {
	p, _ := newTestPool(t, 1)

	if !p.TriggerVanish(2, 0.1) {
		t.Fatal("first TriggerVanish() should start the timer")
	}
	if p.TriggerVanish(2, 5) {
		t.Error("second TriggerVanish() should be ignored")
	}
	if got := p.At(2).VanishDuration; got != 0.1 {
		t.Errorf("duration = %v, expected the first trigger's 0.1", got)
	}

	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if vanished := p.UpdateTimers(dt); vanished != nil {
			t.Errorf("UpdateTimers(%v) = %v, expected no change", dt, vanished)
		}
	}
	if got := p.At(2).RemainingVanishTime; got != 0.1 {
		t.Errorf("remaining = %v after invalid deltas, expected 0.1", got)
	}

	if vanished := p.UpdateTimers(0.06); vanished != nil {
		t.Errorf("UpdateTimers() = %v, expected none yet", vanished)
	}
	if progress := p.At(2).VanishProgress(); math.Abs(progress-0.4) > 1e-9 {
		t.Errorf("VanishProgress() = %v, expected 0.4", progress)
	}

	vanished := p.UpdateTimers(0.06)
	if len(vanished) != 1 || vanished[0] != 2 {
		t.Fatalf("UpdateTimers() = %v, expected [2]", vanished)
	}
	plat := p.At(2)
	if plat.Active || plat.RemainingVanishTime != 0 || plat.VanishProgress() != 0 {
		t.Errorf("vanished platform state: %+v", plat)
	}

	if vanished := p.UpdateTimers(1); vanished != nil {
		t.Errorf("a vanished platform must not report again: %v", vanished)
	}
}

func TestPoolRecycle(t *testing.T) {
	p, cfg := newTestPool(t, 1)
	p.TriggerVanish(0, 1)
	p.UpdateTimers(2)

	highest := p.Highest()
	limit := cfg.Stage.Height + cfg.Platforms.RecycleBuffer

	// Camera scrolled far enough that slots 0 and 1 are below the limit.
	camera := limit - 516 + 1
	recycled := p.Recycle(camera, limit)
	if len(recycled) != 2 || recycled[0] != 0 || recycled[1] != 1 {
		t.Fatalf("Recycle() = %v, expected [0 1]", recycled)
	}

	first, second := p.At(0), p.At(1)
	if first.Y != highest-110 {
		t.Errorf("first recycled y = %v, expected %v", first.Y, highest-110)
	}
	if second.Y != highest-220 {
		t.Errorf("second recycled y = %v, expected %v", second.Y, highest-220)
	}
	if !first.Active || first.VanishTriggered || first.RemainingVanishTime != 0 {
		t.Errorf("recycled platform keeps runtime state: %+v", first)
	}
	for _, plat := range []Platform{first, second} {
		if plat.Width < 96 || plat.Width > 168 || plat.X < 0 || plat.X+plat.Width > 480 {
			t.Errorf("recycled platform out of range: %+v", plat)
		}
	}
	if p.Len() != cfg.Platforms.PoolSize {
		t.Errorf("Len() = %d after recycle", p.Len())
	}

	if again := p.Recycle(camera, limit); again != nil {
		t.Errorf("second Recycle() = %v, expected nothing", again)
	}
}

func TestPoolDeterminism(t *testing.T) {
	a, _ := newTestPool(t, 99)
	b, _ := newTestPool(t, 99)
	c, _ := newTestPool(t, 100)

	same := true
	for i := 0; i < a.Len(); i++ {
		if a.At(i) != b.At(i) {
			t.Fatalf("platform %d differs for equal seeds", i)
		}
		if a.At(i) != c.At(i) {
			same = false
		}
	}
	if same {
		t.Error("different seeds should produce different layouts")
	}
}
