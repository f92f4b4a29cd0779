package engine

import (
	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
)

// Player is the single physics body the user controls.
// Y grows downward; a negative VelocityY moves the player up.
type Player struct {
	X, Y          float64
	VelocityY     float64
	Width, Height float64
	Grounded      bool
}

// newPlayer places a fresh body at the spawn point, horizontally centered.
func newPlayer(cfg config.Config) Player {
	return Player{
		X:      (cfg.Stage.Width - cfg.Player.Width) / 2,
		Y:      cfg.Player.StartY,
		Width:  cfg.Player.Width,
		Height: cfg.Player.Height,
	}
}

// Rect returns the player's bounding box in world space.
func (p Player) Rect() core.RectF {
	return core.NewRectF(p.X, p.Y, p.Width, p.Height)
}

// Bottom returns the world Y of the player's feet.
func (p Player) Bottom() float64 {
	return p.Y + p.Height
}

// moveHorizontal shifts the player and keeps it inside the stage.
func (p *Player) moveHorizontal(dx, stageWidth float64) {
	p.X = core.ClampF(p.X+dx, 0, stageWidth-p.Width)
}

// jump launches the player upward and leaves the ground.
func (p *Player) jump(impulse float64) {
	p.VelocityY = impulse
	p.Grounded = false
}

// integrate applies one frame of gravity with a terminal velocity cap.
func (p *Player) integrate(gravity, maxFallSpeed float64) {
	p.VelocityY = min(p.VelocityY+gravity, maxFallSpeed)
	p.Y += p.VelocityY
}

// landOn snaps the player's feet to a surface.
func (p *Player) landOn(top float64) {
	p.Y = top - p.Height
	p.VelocityY = 0
	p.Grounded = true
}
