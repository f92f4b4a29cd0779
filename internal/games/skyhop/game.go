// Package skyhop adapts the engine to the registry.Game contract the TUI
// host drives: one InputFrame per tick in, a rendered core.Screen out.
package skyhop

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
	"github.com/vovakirdan/skyhop/internal/engine"
	"github.com/vovakirdan/skyhop/internal/sprite"
)

// noticeTicks is how long a HUD notice stays on screen.
const noticeTicks = 90

// Game implements registry.Game for one skyhop mode.
type Game struct {
	mode   Mode
	tuning config.Config
	logger *log.Logger

	runtime   core.RuntimeConfig
	scheduler *engine.FrameScheduler
	stage     *sprite.Stage
	eng       *engine.Engine
	controls  core.ControlSnapshot

	paused     bool
	err        error
	events     []engine.Event
	notice     string
	noticeLeft int
	vanished   int
	tickCount  int
}

// New creates an unstarted game for the given mode with default tuning.
func New(mode Mode) *Game {
	return &Game{
		mode:   mode,
		tuning: config.DefaultConfig(),
		logger: log.New(io.Discard),
	}
}

// ID returns the mode identifier.
func (g *Game) ID() string {
	return g.mode.ID
}

// Title returns the mode name.
func (g *Game) Title() string {
	return g.mode.Title
}

// Description returns the one-line mode summary.
func (g *Game) Description() string {
	return g.mode.Description
}

// Configure sets the tuning and logger used from the next Reset on.
func (g *Game) Configure(tuning config.Config, logger *log.Logger) {
	g.tuning = tuning
	if logger != nil {
		g.logger = logger
	}
}

// Tuning returns the effective engine tuning for this mode.
func (g *Game) Tuning() config.Config {
	cfg := g.tuning
	config.ApplyPreset(&cfg, g.mode.Preset)
	return cfg
}

// Reset builds a fresh engine and starts it.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.runtime = cfg
	g.paused = false
	g.err = nil
	g.events = nil
	g.notice = ""
	g.noticeLeft = 0
	g.vanished = 0
	g.tickCount = 0
	g.controls = core.ControlSnapshot{}

	tuning := g.Tuning()
	g.scheduler = engine.NewFrameScheduler()
	g.stage = sprite.NewStage(tuning.Stage.Width, tuning.Stage.Height)

	eng, err := engine.New(tuning, engine.Host{Scheduler: g.scheduler, Renderer: g.stage}, engine.Options{
		Controls: g.readControls,
		Logger:   g.logger,
		Seed:     cfg.Seed,
	})
	if err != nil {
		g.fail(fmt.Errorf("skyhop: build engine: %w", err))
		return
	}
	g.eng = eng

	if err := g.eng.Start(); err != nil {
		g.fail(fmt.Errorf("skyhop: start engine: %w", err))
		return
	}
	g.logger.Debug("run started", "mode", g.mode.ID, "seed", cfg.Seed)
}

func (g *Game) fail(err error) {
	g.err = err
	g.eng = nil
	g.logger.Error("cannot start run", "mode", g.mode.ID, "err", err)
}

// readControls is the engine's control source. A game without a run has no
// controls to offer.
func (g *Game) readControls() core.ControlResult {
	if g.eng == nil {
		return core.NoControls()
	}
	return core.Controls(g.controls)
}

// Step advances one tick through the frame scheduler.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.events = nil
	if g.eng == nil {
		return core.StepResult{State: g.State(), Err: g.err}
	}
	if g.eng.IsGameOver() {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++
	g.controls = core.SnapshotFromFrame(in)
	g.scheduler.Tick(g.runtime.FrameDelta())

	g.events = g.eng.DrainEvents()
	for _, ev := range g.events {
		switch e := ev.(type) {
		case engine.PlatformVanished:
			g.vanished++
		case engine.Respawned:
			g.setNotice("Caught by the start platform!")
		case engine.GameOver:
			g.logger.Info("run finished", "mode", g.mode.ID, "score", e.Score, "ticks", g.tickCount)
		}
	}
	if g.noticeLeft > 0 {
		g.noticeLeft--
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) setNotice(msg string) {
	g.notice = msg
	g.noticeLeft = noticeTicks
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.eng == nil {
		return core.GameState{GameOver: g.err != nil, Paused: g.paused}
	}
	return core.GameState{
		Score:    g.eng.Score(),
		GameOver: g.eng.IsGameOver(),
		Paused:   g.paused,
	}
}

// Events returns the engine events drained during the last Step.
func (g *Game) Events() []engine.Event {
	return g.events
}

// Snapshot returns the engine state, or false when no run is active.
func (g *Game) Snapshot() (engine.Snapshot, bool) {
	if g.eng == nil {
		return engine.Snapshot{}, false
	}
	return g.eng.Snapshot(), true
}

// Vanished returns how many platforms vanished during this run.
func (g *Game) Vanished() int {
	return g.vanished
}

// Ticks returns how many unpaused ticks this run has simulated.
func (g *Game) Ticks() int {
	return g.tickCount
}

// Render draws the stage, the HUD and any overlay.
func (g *Game) Render(dst *core.Screen) {
	if g.eng == nil {
		msg := "no run"
		if g.err != nil {
			msg = g.err.Error()
		}
		dst.DrawMessageBox("CANNOT START", msg)
		return
	}

	area := g.stage.Fit(dst.Width()-2, dst.Height()-1)
	area.X++
	area.Y++
	g.stage.Render(dst, area)
	g.stage.DrawBorder(dst, area)

	g.renderHUD(dst)

	switch {
	case g.eng.IsGameOver():
		dst.DrawMessageBox("GAME OVER",
			fmt.Sprintf("Score: %d", g.eng.Score()),
			"R restart  S save to chain  Q quit")
	case g.paused:
		dst.DrawMessageBox("PAUSED", "Press P to resume")
	case g.noticeLeft > 0:
		dst.DrawTextCentered(dst.Height()-1, g.notice)
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	score := g.eng.Score()
	vanish := g.eng.VanishDuration()

	left := fmt.Sprintf(" Score: %d ", score)
	dst.DrawTextColored(1, 0, left, core.ColorBrightWhite)

	color := core.ColorGreen
	switch level := g.eng.Config().Vanish.Level(score); {
	case level >= 0.75:
		color = core.ColorRed
	case level >= 0.4:
		color = core.ColorYellow
	}
	right := fmt.Sprintf(" Vanish: %.1fs ", vanish)
	dst.DrawTextColored(dst.Width()-len(right)-1, 0, right, color)
}
