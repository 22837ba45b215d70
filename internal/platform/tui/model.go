package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/replay"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// Model is the Bubble Tea model for running the game.
// Every mutation happens inside Update, so the simulation stays single-threaded.
type Model struct {
	game        *flappy.Game
	screen      *core.Screen
	store       *storage.Store
	logger      *log.Logger
	recorder    *replay.Recorder
	config      core.RuntimeConfig
	inputFrame  core.InputFrame
	gameState   core.GameState
	keys        KeyMap
	help        help.Model
	status      string
	quitting    bool
	replaySaved bool // Whether the current game over has been stored
}

// NewModel creates a new Bubble Tea model for the given game.
// store and logger may be nil.
func NewModel(game *flappy.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := help.New()
	h.ShowAll = false

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     logger,
		recorder:   replay.NewRecorder(nil),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		gameState:  game.State(),
		keys:       DefaultKeyMap(),
		help:       h,
	}
	m.fitScreen()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		MapMouseToFrame(msg, m.scale(), &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input. Game keys are queued for the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.fitScreen()
		return m, nil
	}

	m.keys.MapKeyToFrame(msg, &m.inputFrame)
	return m, nil
}

// handleResize processes window resize events.
// The field has a fixed size in world units, so only the scale changes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	m.fitScreen()
	return m, nil
}

// footer renders the help line and status below the playfield.
func (m Model) footer() string {
	return renderFooter(m.help.View(m.keys), m.status, m.config.ScreenW)
}

// fitScreen gives the playfield every row the footer does not use.
// The footer grows when the full help is shown.
func (m *Model) fitScreen() {
	m.screen.Resize(m.config.ScreenW, max(m.config.ScreenH-lipgloss.Height(m.footer()), 0))
}

// handleTick runs one simulation frame with the input gathered since the last tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	prev := m.gameState.Phase

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.recorder.Record(result.State.Frame, m.inputFrame)

	// Clear input for next frame
	m.inputFrame.Clear()

	if m.gameState.Phase != prev {
		m.logger.Debug("phase changed", "from", prev, "to", m.gameState.Phase, "frame", m.gameState.Frame)
		if prev == core.PhaseEnded {
			m.replaySaved = false
			m.status = ""
		}
	}

	// Save the run on game over (once)
	if m.gameState.GameOver() && !m.replaySaved {
		m.saveReplay()
		m.replaySaved = true
	}

	if result.Quit {
		m.quitting = true
		m.logger.Info("quit", "frame", m.gameState.Frame, "score", m.gameState.Score)
		return m, tea.Quit
	}

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// saveReplay stores everything played so far. Failures are logged, the game
// continues regardless.
func (m *Model) saveReplay() {
	m.logger.Info("game over",
		"score", m.gameState.Score,
		"reason", m.game.EndReason(),
		"frame", m.gameState.Frame,
	)
	if m.store == nil {
		return
	}

	id, err := m.store.SaveReplay(m.currentReplay())
	if err != nil {
		m.logger.Error("could not save replay", "error", err)
		m.status = "replay not saved"
		return
	}
	m.logger.Info("replay saved", "id", id)
	m.status = fmt.Sprintf("replay #%d saved", id)
}

// currentReplay packages the session recorded so far.
func (m *Model) currentReplay() replay.Replay {
	return replay.Replay{
		GameID: m.game.ID(),
		Seed:   m.game.Seed(),
		Config: m.game.Config(),
		Events: m.recorder.Events(),
		Outcome: replay.Outcome{
			Frames:    m.gameState.Frame,
			Phase:     m.gameState.Phase,
			Score:     m.gameState.Score,
			EndReason: m.game.EndReason(),
		},
	}
}

// scale maps screen cells onto field units for the current screen size.
func (m Model) scale() core.Scale {
	field := m.game.Config().Field
	return core.NewScale(field.Width, field.Height, m.screen.Width(), m.screen.Height())
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	flappy.Render(m.screen, m.game.Snapshot())

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	dir := filepath.Join(home, ".flappy", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
	m.status = "screenshot saved"
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	flappy.Render(m.screen, m.game.Snapshot())
	return RenderScreen(m.screen) + "\n" + m.footer()
}

// State returns the last observed game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run starts the Bubble Tea program with the given game.
func Run(game *flappy.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, logger, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Menu buttons are clickable
	)

	_, err := p.Run()
	return err
}
