// Package sprite renders engine entities into a terminal cell buffer.
// A Stage implements engine.Renderer: the engine pushes world-space state
// into its sprites and the TUI draws the stage into a core.Screen.
package sprite

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/skyhop/internal/core"
	"github.com/vovakirdan/skyhop/internal/engine"
)

// ErrInvalidState reports entity state a sprite cannot draw.
var ErrInvalidState = errors.New("sprite: invalid entity state")

// Visual characters
const (
	PlayerChar          = '█'
	PlatformChar        = '▀'
	PlatformFadingChar  = '▒'
	PlatformFadingLate  = '░'
	cellAspect          = 2.0 // terminal cells are roughly twice as tall as wide
	lateVanishThreshold = 0.5
)

// Sprite holds the last state pushed by the engine for one entity.
type Sprite struct {
	kind  engine.EntityKind
	state engine.EntityState
	ready bool
}

// Update stores the entity state after validating it.
func (s *Sprite) Update(state engine.EntityState) error {
	if state.Kind != s.kind {
		return fmt.Errorf("%w: %s sprite got %s state", ErrInvalidState, s.kind, state.Kind)
	}
	for _, v := range []float64{state.X, state.Y, state.Width, state.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite geometry", ErrInvalidState)
		}
	}
	if state.Width <= 0 || state.Height <= 0 {
		return fmt.Errorf("%w: size %.1fx%.1f", ErrInvalidState, state.Width, state.Height)
	}
	s.state = state
	s.ready = true
	return nil
}

// State returns the last accepted state and whether one was pushed.
func (s *Sprite) State() (engine.EntityState, bool) {
	return s.state, s.ready
}

// Stage maps the engine's world onto terminal cells.
type Stage struct {
	worldW, worldH float64
	camera         float64
	player         *Sprite
	platforms      []*Sprite
}

// NewStage creates a stage for a world of the given size in world pixels.
func NewStage(worldW, worldH float64) *Stage {
	return &Stage{worldW: worldW, worldH: worldH}
}

// NewPlayerSprite replaces the player sprite.
func (s *Stage) NewPlayerSprite() (engine.Sprite, error) {
	s.player = &Sprite{kind: engine.EntityPlayer}
	return s.player, nil
}

// NewPlatformSprite appends a platform sprite.
func (s *Stage) NewPlatformSprite() (engine.Sprite, error) {
	sp := &Sprite{kind: engine.EntityPlatform}
	s.platforms = append(s.platforms, sp)
	return sp, nil
}

// SetCamera records the vertical stage offset.
func (s *Stage) SetCamera(offset float64) {
	s.camera = offset
}

// Camera returns the current vertical stage offset.
func (s *Stage) Camera() float64 {
	return s.camera
}

// Clear drops every sprite and resets the camera.
func (s *Stage) Clear() {
	s.player = nil
	s.platforms = nil
	s.camera = 0
}

// SpriteCount returns the number of live sprites, player included.
func (s *Stage) SpriteCount() int {
	n := len(s.platforms)
	if s.player != nil {
		n++
	}
	return n
}

// Fit returns the largest area inside a width x height cell region that
// keeps the world's aspect ratio, centered horizontally.
func (s *Stage) Fit(width, height int) core.Rect {
	if width <= 0 || height <= 0 {
		return core.Rect{}
	}
	w := int(math.Round(float64(height) * s.worldW / s.worldH * cellAspect))
	h := height
	if w > width {
		w = width
		h = int(math.Round(float64(width) * s.worldH / s.worldW / cellAspect))
		h = core.Min(h, height)
	}
	w = core.Max(w, 1)
	h = core.Max(h, 1)
	return core.NewRect((width-w)/2, 0, w, h)
}

// Render draws platforms, then the player, into area. Cells outside the
// area are left untouched.
func (s *Stage) Render(dst *core.Screen, area core.Rect) {
	if area.W <= 0 || area.H <= 0 {
		return
	}

	for _, sp := range s.platforms {
		st, ok := sp.State()
		if !ok || !st.Visible {
			continue
		}
		ch, color := platformLook(st)
		s.fill(dst, area, st, ch, color, true)
	}

	if s.player != nil {
		if st, ok := s.player.State(); ok && st.Visible {
			s.fill(dst, area, st, PlayerChar, core.ColorGold, false)
		}
	}
}

// DrawBorder outlines area on dst, one cell outside it where possible.
func (s *Stage) DrawBorder(dst *core.Screen, area core.Rect) {
	left, right := area.X-1, area.Right()
	for y := area.Y; y < area.Bottom(); y++ {
		dst.SetColored(left, y, '│', core.ColorGray)
		dst.SetColored(right, y, '│', core.ColorGray)
	}
}

// fill paints the cells covered by an entity. Thin entities (platforms)
// collapse to a single row.
func (s *Stage) fill(dst *core.Screen, area core.Rect, st engine.EntityState, ch rune, color core.Color, thin bool) {
	sx := float64(area.W) / s.worldW
	sy := float64(area.H) / s.worldH

	screenY := st.Y + s.camera
	x0 := int(math.Floor(st.X * sx))
	x1 := int(math.Ceil((st.X+st.Width)*sx)) - 1
	y0 := int(math.Floor(screenY * sy))
	y1 := int(math.Ceil((screenY+st.Height)*sy)) - 1
	if thin {
		y1 = y0
	}
	x1 = core.Max(x1, x0)
	y1 = core.Max(y1, y0)

	for y := y0; y <= y1; y++ {
		if y < 0 || y >= area.H {
			continue
		}
		for x := x0; x <= x1; x++ {
			if x < 0 || x >= area.W {
				continue
			}
			dst.SetColored(area.X+x, area.Y+y, ch, color)
		}
	}
}

// platformLook picks the glyph and color for a platform's vanish stage.
func platformLook(st engine.EntityState) (rune, core.Color) {
	switch {
	case !st.Vanishing:
		return PlatformChar, core.ColorSlate
	case st.VanishProgress > lateVanishThreshold:
		return PlatformFadingChar, core.ColorOrange
	default:
		return PlatformFadingLate, core.ColorGray
	}
}
