// Package registry keeps the playable skyhop modes. Each mode registers a
// factory from an init() function so the CLI and the SSH server can list and
// create modes without importing them directly.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/skyhop/internal/core"
)

// Game is what the TUI host drives once per tick. Implementations keep the
// simulation free of Bubble Tea; the host maps keys to an InputFrame and
// draws into a core.Screen.
type Game interface {
	// ID is the mode identifier used on the command line and in score rows.
	ID() string

	// Title is the human-readable mode name.
	Title() string

	// Reset starts a fresh run for the given screen and seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances one tick. Per-tick failures that did not stop the run are
	// reported in StepResult.Err.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current frame. The screen is pre-cleared.
	Render(dst *core.Screen)

	// State returns score, game over and pause flags.
	State() core.GameState
}

// GameInfo describes a registered mode.
type GameInfo struct {
	ID          string
	Title       string
	Description string
}

// Describer is implemented by modes that provide a one-line description.
type Describer interface {
	Description() string
}

// Factory creates a new, unstarted game instance.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
)

// Register adds a mode. It panics on a duplicate ID, which can only happen
// through a programming error in an init() function.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	g := f()
	info := GameInfo{ID: id, Title: g.Title()}
	if d, ok := g.(Describer); ok {
		info.Description = d.Description()
	}

	factories[id] = f
	infos[id] = info
}

// List returns every registered mode sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a mode by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Info returns the metadata of a registered mode.
func Info(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	info, ok := infos[id]
	return info, ok
}
