package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/skyhop/internal/audio"
	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
	"github.com/vovakirdan/skyhop/internal/registry"
	"github.com/vovakirdan/skyhop/internal/storage"
)

// statusTicks is how long a status line stays on screen.
const statusTicks = 180

// ChainSaveNotice is shown when the player asks to save a finished run on chain.
const ChainSaveNotice = "Blockchain save queued. Integration pending. Score: %d."

// Options are the collaborators a game screen runs with. Every field is optional.
type Options struct {
	Store     *storage.Store
	Music     *audio.Music
	Logger    *log.Logger
	Tuning    *config.Config // Applied to games that accept tuning; nil keeps theirs
	Player    string         // Recorded with saved runs
	CanGoBack bool           // B returns to the menu after game over or pause
}

// configurable is implemented by games that take engine tuning and a logger.
type configurable interface {
	Configure(tuning config.Config, logger *log.Logger)
}

// runStats is implemented by games that count ticks and vanished platforms.
type runStats interface {
	Ticks() int
	Vanished() int
}

// Model is the Bubble Tea model for one game screen.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	logger     *log.Logger
	config     core.RuntimeConfig
	fixedSeed  bool
	keyMapper  *KeyMapper
	latch      *core.ControlLatch
	inputFrame core.InputFrame
	gameState  core.GameState
	status     string
	statusLeft int
	lastRun    *storage.Run
	stepErr    error
	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the current finished run has been stored
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fixedSeed := cfg.Seed != 0
	if !fixedSeed {
		cfg.Seed = time.Now().UnixNano()
	}

	if c, ok := game.(configurable); ok && opts.Tuning != nil {
		c.Configure(*opts.Tuning, logger)
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		opts:       opts,
		logger:     logger,
		config:     cfg,
		fixedSeed:  fixedSeed,
		keyMapper:  NewKeyMapper(),
		latch:      core.NewControlLatch(holdTicks(cfg.TickRate)),
		inputFrame: core.NewInputFrame(),
	}
}

// Init starts the run, the music and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// gameState is picked up on the first tick (value receiver)

	if m.opts.Music != nil {
		if err := m.opts.Music.Play(); err != nil {
			m.logger.Warn("music unavailable", "err", err)
		}
	}

	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The stage scales to any size, so the run keeps going.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case "b":
		if m.opts.CanGoBack && (m.gameState.GameOver || m.gameState.Paused) {
			m.backToMenu = true
		}
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	if IsHeld(action) {
		m.latch.Press(action)
		return m, nil
	}

	switch action {
	case core.ActionPause:
		m.inputFrame.Set(core.ActionPause)
	case core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}
	case core.ActionSave:
		if m.gameState.GameOver {
			m.requestChainSave()
		}
	case core.ActionMute:
		if m.opts.Music != nil {
			if m.opts.Music.ToggleMute() {
				m.setStatus("Music muted")
			} else {
				m.setStatus("Music on")
			}
		}
	case core.ActionVolumeUp:
		if m.opts.Music != nil {
			m.setStatus(fmt.Sprintf("Volume %.0f%%", m.opts.Music.VolumeUp()*100))
		}
	case core.ActionVolumeDown:
		if m.opts.Music != nil {
			m.setStatus(fmt.Sprintf("Volume %.0f%%", m.opts.Music.VolumeDown()*100))
		}
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.restart()
		return m, tickCmd(m.config.TickRate)
	}

	m.latch.Apply(&m.inputFrame)
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if result.Err != nil && (m.stepErr == nil || m.stepErr.Error() != result.Err.Error()) {
		m.logger.Warn("step failed", "game", m.game.ID(), "err", result.Err)
	}
	m.stepErr = result.Err

	if m.gameState.GameOver && !m.runSaved {
		m.latch.Release()
		m.saveRun()
		m.runSaved = true
	}

	if m.statusLeft > 0 {
		m.statusLeft--
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// restart begins a new run, with a new seed unless one was given.
func (m *Model) restart() {
	if !m.fixedSeed {
		m.config.Seed = time.Now().UnixNano()
	}
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.runSaved = false
	m.lastRun = nil
	m.stepErr = nil
	m.latch.Release()
	m.inputFrame.Clear()
}

// saveRun stores the finished run. Empty runs are not worth a row.
func (m *Model) saveRun() {
	if m.opts.Store == nil || m.gameState.Score <= 0 {
		return
	}

	run := storage.Run{
		RunID:  uuid.New(),
		GameID: m.game.ID(),
		Player: m.opts.Player,
		Score:  m.gameState.Score,
		Seed:   m.config.Seed,
	}
	if s, ok := m.game.(runStats); ok {
		run.Ticks = s.Ticks()
		run.Vanished = s.Vanished()
	}

	saved, err := m.opts.Store.SaveRun(run)
	if err != nil {
		m.logger.Warn("could not save run", "game", run.GameID, "err", err)
		return
	}
	m.lastRun = &saved
	m.logger.Info("run saved", "run", saved.RunID, "game", saved.GameID, "score", saved.Score)
}

// requestChainSave acknowledges the on-chain save request. Only the notice
// and the log line exist until a chain client is wired in.
func (m *Model) requestChainSave() {
	score := m.gameState.Score
	runID := "unsaved"
	if m.lastRun != nil {
		runID = m.lastRun.RunID.String()
	}
	m.logger.Info("chain save requested", "run", runID, "game", m.game.ID(), "score", score)
	m.setStatus(fmt.Sprintf(ChainSaveNotice, score))
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusLeft = statusTicks
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".skyhop", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot dir", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "err", err)
		return
	}
	m.setStatus("Screenshot saved")
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	if m.statusLeft > 0 && m.status != "" {
		x := max(0, (m.screen.Width()-len(m.status))/2)
		m.screen.DrawTextColored(x, m.screen.Height()-1, m.status, core.ColorCyan)
	}

	return RenderScreen(m.screen)
}

// Status returns the status line currently on screen, if any.
func (m Model) Status() string {
	if m.statusLeft <= 0 {
		return ""
	}
	return m.status
}

// LastRun returns the stored record of the last finished run.
func (m Model) LastRun() (storage.Run, bool) {
	if m.lastRun == nil {
		return storage.Run{}, false
	}
	return *m.lastRun, true
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
