package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/replay"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// maxReplays is how many replays the browser loads.
const maxReplays = 100

// ReplayKeyMap defines the key bindings for the replay browser.
type ReplayKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Verify key.Binding
	Delete key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ReplayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Verify, k.Delete, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ReplayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Verify, k.Delete, k.Quit},
	}
}

// DefaultReplayKeyMap returns default key bindings.
func DefaultReplayKeyMap() ReplayKeyMap {
	return ReplayKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Verify: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter", "verify"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ReplayStore is the part of the store the browser needs.
type ReplayStore interface {
	ListReplays(limit int) ([]storage.ReplaySummary, error)
	Replay(id int64) (replay.Replay, error)
	DeleteReplay(id int64) error
}

// ReplayBrowser is the Bubble Tea model for the replay list.
type ReplayBrowser struct {
	store    ReplayStore
	replays  []storage.ReplaySummary
	table    table.Model
	help     help.Model
	keys     ReplayKeyMap
	status   string
	width    int
	height   int
	quitting bool
}

// NewReplayBrowser creates a browser over the given store.
func NewReplayBrowser(store ReplayStore, width, height int) ReplayBrowser {
	h := help.New()
	h.ShowAll = false

	m := ReplayBrowser{
		store:  store,
		keys:   DefaultReplayKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadReplays()
	return m
}

// createTable creates a new table sized to the window.
func (m *ReplayBrowser) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Seed", Width: 20},
		{Title: "Score", Width: 7},
		{Title: "Frames", Width: 8},
		{Title: "End", Width: 8},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadReplays refreshes the table from the store.
func (m *ReplayBrowser) loadReplays() {
	if m.store == nil {
		m.replays = nil
		m.updateTableRows()
		return
	}

	replays, err := m.store.ListReplays(maxReplays)
	if err != nil {
		m.replays = nil
		m.status = fmt.Sprintf("cannot list replays: %v", err)
	} else {
		m.replays = replays
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current replays.
func (m *ReplayBrowser) updateTableRows() {
	rows := make([]table.Row, len(m.replays))
	for i, r := range m.replays {
		rows[i] = table.Row{
			strconv.FormatInt(r.ID, 10),
			strconv.FormatInt(r.Seed, 10),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Frames),
			r.EndReason.String(),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.GotoBottom()
	}
}

// selected returns the replay under the cursor.
func (m ReplayBrowser) selected() (storage.ReplaySummary, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.replays) {
		return storage.ReplaySummary{}, false
	}
	return m.replays[i], true
}

// Init initializes the browser.
func (m ReplayBrowser) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m ReplayBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Verify):
			if sum, ok := m.selected(); ok {
				m.status = m.verify(sum.ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if sum, ok := m.selected(); ok {
				if err := m.store.DeleteReplay(sum.ID); err != nil {
					m.status = fmt.Sprintf("delete #%d failed: %v", sum.ID, err)
				} else {
					m.status = fmt.Sprintf("replay #%d deleted", sum.ID)
				}
				m.loadReplays()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// verify re-simulates one replay and describes the result.
func (m ReplayBrowser) verify(id int64) string {
	r, err := m.store.Replay(id)
	if err != nil {
		return fmt.Sprintf("load #%d failed: %v", id, err)
	}

	got, err := replay.Verify(context.Background(), r)
	switch {
	case errors.Is(err, replay.ErrMismatch):
		return fmt.Sprintf("#%d diverged: score %d (recorded %d)", id, got.Score, r.Outcome.Score)
	case err != nil:
		return fmt.Sprintf("#%d failed: %v", id, err)
	}
	return fmt.Sprintf("#%d ok: score %d after %d frames (%s)", id, got.Score, got.Frames, got.EndReason)
}

// View renders the browser.
func (m ReplayBrowser) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("REPLAYS", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ReplayBrowser) renderTableContent() string {
	if len(m.replays) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No replays recorded yet.\nFinish a game to record one!")
	}
	return m.table.View()
}

// Status returns the last status message.
func (m ReplayBrowser) Status() string {
	return m.status
}

// centerText pads text so it sits in the middle of the given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// RunReplayBrowser runs the replay browser until the user quits.
func RunReplayBrowser(store ReplayStore, width, height int) error {
	p := tea.NewProgram(
		NewReplayBrowser(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
