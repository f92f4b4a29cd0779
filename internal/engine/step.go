package engine

import (
	"math"

	"github.com/vovakirdan/skyhop/internal/core"
)

// Step advances the simulation by one frame. dt is the frame delta in
// seconds and only drives vanish timers; zero or NaN means the configured
// default delta. Step is a no-op before initialization and after game over.
//
// Sprite adapter failures do not stop the frame; they are joined and
// returned once the whole step has run.
func (e *Engine) Step(dt float64) error {
	if !e.initialized || e.gameOver {
		return nil
	}
	if dt == 0 || math.IsNaN(dt) {
		dt = e.cfg.Physics.DefaultDelta
	}

	var errs []error

	controls := e.readControls()
	e.applyControls(controls)

	previousY := e.player.Y
	e.player.integrate(e.cfg.Physics.Gravity, e.cfg.Physics.MaxFallSpeed)
	e.resolveCollisions(previousY, controls.JumpActive)
	errs = joinSpriteErr(errs, EntityPlayer, 0, updateSprite(e.playerSprite, playerState(e.player)))

	e.updateScore()
	e.updateCamera()

	for _, i := range e.pool.UpdateTimers(dt) {
		e.events.push(PlatformVanished{Index: i})
	}

	errs = append(errs, e.recycle()...)
	e.checkTermination()

	return stepError(errs)
}

// readControls polls the control source; an unavailable source is neutral.
func (e *Engine) readControls() core.ControlSnapshot {
	return e.controls().Resolve()
}

// applyControls moves the player horizontally and starts a grounded jump.
func (e *Engine) applyControls(c core.ControlSnapshot) {
	speed := e.cfg.Player.HorizontalSpeed
	if c.MovingLeft {
		e.player.moveHorizontal(-speed, e.cfg.Stage.Width)
	}
	if c.MovingRight {
		e.player.moveHorizontal(speed, e.cfg.Stage.Width)
	}
	if c.JumpActive && e.player.Grounded {
		e.player.jump(e.cfg.Physics.JumpImpulse)
	}
}

// resolveCollisions lands a falling player on the first platform, in pool
// order, whose top the feet crossed this frame.
func (e *Engine) resolveCollisions(previousY float64, jumpActive bool) {
	e.player.Grounded = false
	if e.player.VelocityY <= 0 {
		return
	}

	previousBottom := previousY + e.player.Height
	i, ok := e.pool.FindLanding(previousBottom, e.player.Rect())
	if !ok {
		return
	}

	plat := e.pool.At(i)
	e.player.landOn(plat.Y)
	if jumpActive {
		e.player.jump(e.cfg.Physics.JumpImpulse)
	}

	if plat.Safe && e.score <= e.cfg.Safety.ScoreThreshold {
		return
	}
	e.pool.TriggerVanish(i, e.cfg.Vanish.Duration(e.score))
}

// updateScore recomputes the score when the player reaches a new height.
func (e *Engine) updateScore() {
	if e.player.Y >= e.highestAltitude {
		return
	}
	e.highestAltitude = e.player.Y

	climbed := (e.cfg.Player.StartY - e.highestAltitude) * e.cfg.Scoring.PerPixel
	score := max(0, int(math.Floor(climbed)))
	if score == e.score {
		return
	}
	e.score = score
	e.emitScore()
}

// updateCamera pins a climbing player to the scroll trigger line.
func (e *Engine) updateCamera() {
	screenY := e.ScreenY(e.player.Y)
	if screenY >= e.cfg.Stage.ScrollTriggerY {
		return
	}
	e.camera += e.cfg.Stage.ScrollTriggerY - screenY
	e.host.Renderer.SetCamera(e.camera)
}

// recycle moves platforms below the stage to the top of the ladder and
// syncs every platform sprite.
func (e *Engine) recycle() []error {
	limit := e.cfg.Stage.Height + e.cfg.Platforms.RecycleBuffer
	e.pool.Recycle(e.camera, limit)

	var errs []error
	for i := 0; i < e.pool.Len(); i++ {
		var sprite Sprite
		if i < len(e.platformSprites) {
			sprite = e.platformSprites[i]
		}
		errs = joinSpriteErr(errs, EntityPlatform, i, updateSprite(sprite, platformState(i, e.pool.At(i))))
	}
	return errs
}

// checkTermination ends the run, or respawns the player, once it has fallen
// below the stage.
func (e *Engine) checkTermination() {
	if e.ScreenY(e.player.Y) <= e.cfg.Stage.Height+e.cfg.Stage.GameOverOffset {
		return
	}
	if e.tryRespawn() {
		return
	}
	e.finish()
}

// tryRespawn places the player on the safe platform when the forgiving rule
// applies and that platform is still visible.
func (e *Engine) tryRespawn() bool {
	safety := e.cfg.Safety
	if !safety.ForgivingRespawn || e.score > safety.ScoreThreshold {
		return false
	}

	safe, ok := e.pool.Safe()
	if !ok || !safe.Active {
		return false
	}
	screenY := e.ScreenY(safe.Y)
	if screenY < 0 || screenY > e.cfg.Stage.Height {
		return false
	}

	e.player.X = core.ClampF(safe.X+(safe.Width-e.player.Width)/2, 0, e.cfg.Stage.Width-e.player.Width)
	e.player.landOn(safe.Y)
	if err := updateSprite(e.playerSprite, playerState(e.player)); err != nil {
		e.logger.Warn("respawn sprite sync failed", "err", err)
	}
	e.events.push(Respawned{Score: e.score})
	e.logger.Debug("respawned on safe platform", "score", e.score)
	return true
}
