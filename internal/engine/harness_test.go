package engine

import (
	"errors"
	"testing"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
)

type fakeSprite struct {
	updates int
	last    EntityState
	err     error
}

func (s *fakeSprite) Update(state EntityState) error {
	s.updates++
	s.last = state
	return s.err
}

type fakeRenderer struct {
	player    *fakeSprite
	platforms []*fakeSprite
	camera    float64
	clears    int

	platformErr error // returned by platform sprite updates once set
	createErr   error // returned by sprite constructors
}

func (r *fakeRenderer) NewPlayerSprite() (Sprite, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.player = &fakeSprite{}
	return r.player, nil
}

func (r *fakeRenderer) NewPlatformSprite() (Sprite, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	s := &fakeSprite{}
	r.platforms = append(r.platforms, s)
	return s, nil
}

func (r *fakeRenderer) SetCamera(offset float64) { r.camera = offset }

func (r *fakeRenderer) Clear() {
	r.clears++
	r.player = nil
	r.platforms = nil
}

func (r *fakeRenderer) failPlatforms(err error) {
	for _, s := range r.platforms {
		s.err = err
	}
}

// harness wires an engine to fake collaborators and records callbacks.
type harness struct {
	e         *Engine
	scheduler *FrameScheduler
	renderer  *fakeRenderer
	controls  core.ControlResult
	scores    []int
	gameOvers int
}

func newHarness(t *testing.T, mutate func(*config.Config)) *harness {
	t.Helper()

	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	h := &harness{
		scheduler: NewFrameScheduler(),
		renderer:  &fakeRenderer{},
		controls:  core.Controls(core.ControlSnapshot{}),
	}
	e, err := New(cfg, Host{Scheduler: h.scheduler, Renderer: h.renderer}, Options{
		Controls:   func() core.ControlResult { return h.controls },
		OnScore:    func(score int) { h.scores = append(h.scores, score) },
		OnGameOver: func() { h.gameOvers++ },
		Seed:       42,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h.e = e
	return h
}

func (h *harness) hold(s core.ControlSnapshot) {
	h.controls = core.Controls(s)
}

// tick drives the engine through the scheduler like the host does.
func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.scheduler.Tick(1.0 / 60.0)
	}
}

// placePlatform moves pool slot i to an exact position with fresh state.
func placePlatform(e *Engine, i int, x, y, w float64) {
	p := &e.pool.platforms[i]
	p.X, p.Y, p.Width = x, y, w
	p.resetRuntime()
}

// deactivateAll makes every platform non-collidable.
func deactivateAll(e *Engine) {
	for i := range e.pool.platforms {
		e.pool.platforms[i].Active = false
	}
}

var errSpriteBroken = errors.New("sprite broken")
