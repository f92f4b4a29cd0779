package engine

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
)

// Platform is one slot of the recyclable pool.
type Platform struct {
	X, Y          float64 // Top-left corner; Y is the landing surface
	Width, Height float64
	Active        bool // Drawn and collidable
	Safe          bool // Spawn anchor that ignores vanish triggers below the safety threshold

	VanishTriggered     bool
	VanishDuration      float64
	RemainingVanishTime float64
}

// Rect returns the collision rectangle for this platform.
func (p Platform) Rect() core.RectF {
	return core.NewRectF(p.X, p.Y, p.Width, p.Height)
}

// VanishProgress returns the fraction of the vanish timer still left, 1.0 for
// an untouched platform and 0.0 for one that has vanished.
func (p Platform) VanishProgress() float64 {
	if !p.VanishTriggered || p.VanishDuration <= 0 {
		if p.Active {
			return 1
		}
		return 0
	}
	return core.ClampF(p.RemainingVanishTime/p.VanishDuration, 0, 1)
}

// resetRuntime clears the vanish state and reactivates the platform.
func (p *Platform) resetRuntime() {
	p.Active = true
	p.VanishTriggered = false
	p.VanishDuration = 0
	p.RemainingVanishTime = 0
}

// Pool owns a fixed number of platforms that form a vertical ladder. Slots are
// never added or removed; off-screen platforms are moved to the top instead.
type Pool struct {
	platforms []Platform
	rng       *rand.Rand
	cfg       *config.Config
}

// NewPool creates an empty pool with the given RNG seed. Call Rebuild to lay
// out the initial ladder.
func NewPool(seed int64, cfg *config.Config) *Pool {
	return &Pool{
		platforms: make([]Platform, 0, cfg.Platforms.PoolSize),
		rng:       rand.New(rand.NewSource(seed)),
		cfg:       cfg,
	}
}

// Rebuild lays out a fresh ladder below and above the spawn point.
// Platform i sits i spacings above the lowest one; the safe slot is centered
// under the spawn point.
func (p *Pool) Rebuild() {
	p.platforms = p.platforms[:0]

	base := p.cfg.Player.StartY + p.cfg.Player.Height + p.cfg.Platforms.Height
	for i := 0; i < p.cfg.Platforms.PoolSize; i++ {
		plat := Platform{
			Y:      base - float64(i)*p.cfg.Platforms.VerticalSpacing,
			Width:  p.randomWidth(),
			Height: p.cfg.Platforms.Height,
			Safe:   i == p.cfg.Safety.StartPlatformIndex,
		}
		if plat.Safe {
			plat.X = math.Max(0, (p.cfg.Stage.Width-plat.Width)/2)
		} else {
			plat.X = p.randomX(plat.Width)
		}
		plat.resetRuntime()
		p.platforms = append(p.platforms, plat)
	}
}

// Clear drops every platform. Used between Reset and the next Rebuild.
func (p *Pool) Clear() {
	p.platforms = p.platforms[:0]
}

// Len returns the number of platforms in the pool.
func (p *Pool) Len() int {
	return len(p.platforms)
}

// At returns a copy of platform i.
func (p *Pool) At(i int) Platform {
	return p.platforms[i]
}

// Platforms returns a copy of the pool in pool order.
func (p *Pool) Platforms() []Platform {
	out := make([]Platform, len(p.platforms))
	copy(out, p.platforms)
	return out
}

// SafeIndex returns the slot of the safe-start platform.
func (p *Pool) SafeIndex() int {
	return p.cfg.Safety.StartPlatformIndex
}

// Safe returns the safe-start platform, if the pool has one.
func (p *Pool) Safe() (Platform, bool) {
	i := p.SafeIndex()
	if i < 0 || i >= len(p.platforms) {
		return Platform{}, false
	}
	return p.platforms[i], true
}

// Highest returns the smallest Y in the pool, i.e. the topmost platform.
func (p *Pool) Highest() float64 {
	highest := math.Inf(1)
	for i := range p.platforms {
		highest = math.Min(highest, p.platforms[i].Y)
	}
	return highest
}

// FindLanding returns the first active platform, in pool order, whose top the
// body's feet crossed between previousBottom and the body's current bottom
// while the horizontal spans overlap.
func (p *Pool) FindLanding(previousBottom float64, body core.RectF) (int, bool) {
	for i := range p.platforms {
		plat := &p.platforms[i]
		if !plat.Active {
			continue
		}
		top := plat.Y
		if previousBottom <= top && body.Bottom() >= top && body.OverlapsX(plat.Rect()) {
			return i, true
		}
	}
	return -1, false
}

// TriggerVanish starts the vanish timer of platform i. A platform runs at
// most one timer; it returns false when the timer was already running.
func (p *Pool) TriggerVanish(i int, duration float64) bool {
	plat := &p.platforms[i]
	if plat.VanishTriggered {
		return false
	}
	plat.VanishTriggered = true
	plat.Active = true
	plat.VanishDuration = duration
	plat.RemainingVanishTime = duration
	return true
}

// UpdateTimers counts down every running vanish timer by dt seconds and
// deactivates platforms whose timer ran out. It returns the indices that
// vanished during this call. A non-finite or non-positive dt is ignored.
func (p *Pool) UpdateTimers(dt float64) []int {
	if !core.IsFinitePositive(dt) {
		return nil
	}

	var vanished []int
	for i := range p.platforms {
		plat := &p.platforms[i]
		if !plat.Active || !plat.VanishTriggered || plat.RemainingVanishTime <= 0 {
			continue
		}

		plat.RemainingVanishTime = math.Max(0, plat.RemainingVanishTime-dt)
		if plat.RemainingVanishTime <= 0 {
			plat.Active = false
			vanished = append(vanished, i)
		}
	}
	return vanished
}

// Recycle moves every platform whose screen Y (world Y plus camera) is past
// limit to one spacing above the current top of the ladder, with a new width
// and position. It returns the recycled indices.
func (p *Pool) Recycle(camera, limit float64) []int {
	if len(p.platforms) == 0 {
		return nil
	}

	highest := p.Highest()
	var recycled []int
	for i := range p.platforms {
		plat := &p.platforms[i]
		if plat.Y+camera <= limit {
			continue
		}

		plat.Y = highest - p.cfg.Platforms.VerticalSpacing
		plat.Width = p.randomWidth()
		plat.X = p.randomX(plat.Width)
		plat.resetRuntime()
		highest = plat.Y
		recycled = append(recycled, i)
	}
	return recycled
}

// randomWidth returns a width in [MinWidth, MaxWidth].
func (p *Pool) randomWidth() float64 {
	minW := p.cfg.Platforms.MinWidth
	maxW := p.cfg.Platforms.MaxWidth
	return minW + p.rng.Float64()*(maxW-minW)
}

// randomX returns a left edge that keeps a platform of the given width on stage.
func (p *Pool) randomX(width float64) float64 {
	span := math.Max(0, p.cfg.Stage.Width-width)
	if span == 0 {
		return 0
	}
	return p.rng.Float64() * span
}
