package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/replay"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

func newTestModel(t *testing.T, store *storage.Store) Model {
	t.Helper()
	g, err := flappy.New(config.DefaultFlappyConfig(), 5)
	if err != nil {
		t.Fatalf("flappy.New() failed: %v", err)
	}
	// 70x66 leaves a 70x65 playfield: 10 field units per cell
	return NewModel(g, store, nil, core.RuntimeConfig{ScreenW: 70, ScreenH: 66, TickRate: 30})
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelStartsWithEnter(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = send(m, keyMsg("enter"))
	if m.State().Phase != core.PhaseMenu {
		t.Fatal("keys must wait for the next tick")
	}

	m, cmd := send(m, TickMsg{})
	if m.State().Phase != core.PhasePlaying {
		t.Errorf("enter + tick should start the game, got %v", m.State().Phase)
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
}

func TestModelMouseClickStarts(t *testing.T) {
	m := newTestModel(t, nil)

	// Start button spans field (275..425, 325..375) = cells (27..42, 32..37)
	m, _ = send(m, tea.MouseMsg{X: 35, Y: 34, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = send(m, TickMsg{})

	if m.State().Phase != core.PhasePlaying {
		t.Errorf("click on start should begin play, got %v", m.State().Phase)
	}
}

func TestModelMouseReleaseIgnored(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = send(m, tea.MouseMsg{X: 35, Y: 34, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m, _ = send(m, TickMsg{})

	if m.State().Phase != core.PhaseMenu {
		t.Errorf("mouse release should not press buttons, got %v", m.State().Phase)
	}
}

func TestModelQuitAfterFrame(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := send(m, keyMsg("q"))
	if cmd != nil {
		t.Fatal("quit should wait for the frame to run")
	}

	m, cmd = send(m, TickMsg{})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("tick with quit input should return tea.Quit")
	}
	if m.View() != "" {
		t.Error("view should be empty once quitting")
	}
}

func TestModelInputClearedEachTick(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = send(m, keyMsg("enter"))
	m, _ = send(m, TickMsg{})

	m, _ = send(m, keyMsg(" "))
	m, _ = send(m, TickMsg{})
	afterFlap := m.game.Snapshot().Velocity

	m, _ = send(m, TickMsg{})
	if v := m.game.Snapshot().Velocity; v <= afterFlap {
		t.Errorf("flap must only apply once: velocity %f then %f", afterFlap, v)
	}
}

func TestModelSavesReplayOnGameOver(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	m := newTestModel(t, store)
	m, _ = send(m, keyMsg("enter"))

	// Without flapping the bird falls to the floor
	for i := 0; i < 200 && !m.State().GameOver(); i++ {
		m, _ = send(m, TickMsg{})
	}
	if !m.State().GameOver() {
		t.Fatal("bird should have hit the floor")
	}

	// More ticks while ended must not save again
	m, _ = send(m, TickMsg{})
	m, _ = send(m, TickMsg{})

	list, err := store.ListReplays(10)
	if err != nil {
		t.Fatalf("ListReplays() failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one saved replay, got %d", len(list))
	}
	if !strings.Contains(m.status, "saved") {
		t.Errorf("status = %q, expected a saved message", m.status)
	}

	r, err := store.Replay(list[0].ID)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if _, err := replay.Verify(t.Context(), r); err != nil {
		t.Errorf("saved replay does not reproduce: %v", err)
	}
}

func TestModelRestartClearsSavedFlag(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = send(m, keyMsg("enter"))
	for i := 0; i < 200 && !m.State().GameOver(); i++ {
		m, _ = send(m, TickMsg{})
	}
	if !m.replaySaved {
		t.Fatal("game over should mark the run as handled")
	}

	m, _ = send(m, keyMsg("r"))
	m, _ = send(m, TickMsg{})
	if m.State().Phase != core.PhaseMenu {
		t.Fatalf("r should return to the menu, got %v", m.State().Phase)
	}
	if m.replaySaved {
		t.Error("leaving game over should reset the saved flag")
	}
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 40})

	if m.screen.Width() != 100 || m.screen.Height() != 39 {
		t.Errorf("screen = %dx%d, expected 100x39", m.screen.Width(), m.screen.Height())
	}
	if !strings.Contains(m.View(), "F L A P P Y") {
		t.Error("menu title should be rendered after resize")
	}
}

func TestModelHelpToggleKeepsHeight(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m, _ = send(m, keyMsg("?"))
	if !m.help.ShowAll {
		t.Fatal("? should show the full help")
	}
	if m.screen.Height() >= 39 {
		t.Errorf("full help should take rows from the playfield, screen height = %d", m.screen.Height())
	}
	if h := lipgloss.Height(m.View()); h != 40 {
		t.Errorf("view is %d rows tall, expected 40", h)
	}

	m, _ = send(m, keyMsg("?"))
	if m.screen.Height() != 39 {
		t.Errorf("short help should give the rows back, screen height = %d", m.screen.Height())
	}
	if h := lipgloss.Height(m.View()); h != 40 {
		t.Errorf("view is %d rows tall, expected 40", h)
	}
}
