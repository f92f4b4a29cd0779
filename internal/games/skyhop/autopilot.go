package skyhop

import (
	"math"

	"github.com/vovakirdan/skyhop/internal/core"
	"github.com/vovakirdan/skyhop/internal/engine"
)

// Autopilot steers a run without a human: it keeps jump held and walks
// toward the nearest active platform above the player's feet. The headless
// simulate command and the tests use it.
type Autopilot struct {
	// Deadzone is the horizontal distance at which the player stops steering.
	Deadzone float64
}

// NewAutopilot returns an autopilot with a sensible deadzone.
func NewAutopilot() *Autopilot {
	return &Autopilot{Deadzone: 6}
}

// Next returns the input for the coming tick.
func (a *Autopilot) Next(snap engine.Snapshot) core.InputFrame {
	in := core.NewInputFrame()
	in.Set(core.ActionJump)

	target, ok := a.target(snap)
	if !ok {
		return in
	}

	center := snap.Player.X + snap.Player.Width/2
	switch dx := target - center; {
	case dx < -a.Deadzone:
		in.Set(core.ActionLeft)
	case dx > a.Deadzone:
		in.Set(core.ActionRight)
	}
	return in
}

// target picks the center of the lowest active platform above the feet.
func (a *Autopilot) target(snap engine.Snapshot) (float64, bool) {
	feet := snap.Player.Bottom()
	best := math.Inf(-1)
	center := 0.0
	for _, p := range snap.Platforms {
		if !p.Active || p.Y >= feet {
			continue
		}
		if p.Y > best {
			best = p.Y
			center = p.X + p.Width/2
		}
	}
	return center, !math.IsInf(best, -1)
}
