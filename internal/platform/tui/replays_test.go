package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/replay"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// memStore keeps replays in memory for browser tests.
type memStore struct {
	replays map[int64]replay.Replay
	order   []int64
}

func (s *memStore) ListReplays(limit int) ([]storage.ReplaySummary, error) {
	var out []storage.ReplaySummary
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		r := s.replays[s.order[i]]
		out = append(out, storage.ReplaySummary{
			ID:        r.ID,
			Seed:      r.Seed,
			Score:     r.Outcome.Score,
			Frames:    r.Outcome.Frames,
			EndReason: r.Outcome.EndReason,
			Events:    len(r.Events),
		})
	}
	return out, nil
}

func (s *memStore) Replay(id int64) (replay.Replay, error) {
	r, ok := s.replays[id]
	if !ok {
		return replay.Replay{}, storage.ErrNotFound
	}
	return r, nil
}

func (s *memStore) DeleteReplay(id int64) error {
	if _, ok := s.replays[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.replays, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// fallingReplay is a run where the player starts and never flaps.
func fallingReplay(id int64) replay.Replay {
	cfg := config.DefaultFlappyConfig()
	g, _ := flappy.New(cfg, id)

	in := core.NewInputFrame()
	in.Set(core.ActionConfirm)
	res := g.Step(in)
	for !res.State.GameOver() {
		res = g.Step(core.NewInputFrame())
	}

	return replay.Replay{
		ID:     id,
		GameID: g.ID(),
		Seed:   id,
		Config: cfg,
		Events: []replay.Event{{Frame: 1, Action: core.ActionConfirm}},
		Outcome: replay.Outcome{
			Frames:    res.State.Frame,
			Phase:     res.State.Phase,
			Score:     res.State.Score,
			EndReason: g.EndReason(),
		},
	}
}

func newMemStore(ids ...int64) *memStore {
	s := &memStore{replays: make(map[int64]replay.Replay)}
	for _, id := range ids {
		s.replays[id] = fallingReplay(id)
		s.order = append(s.order, id)
	}
	return s
}

func browse(m ReplayBrowser, msg tea.Msg) ReplayBrowser {
	next, _ := m.Update(msg)
	return next.(ReplayBrowser)
}

func TestReplayBrowserEmpty(t *testing.T) {
	m := NewReplayBrowser(newMemStore(), 80, 24)
	if !strings.Contains(m.View(), "No replays recorded yet") {
		t.Error("empty store should show the placeholder")
	}
}

func TestReplayBrowserVerify(t *testing.T) {
	m := NewReplayBrowser(newMemStore(1, 2), 80, 24)

	// Newest first, so the cursor starts on #2
	m = browse(m, keyMsg("enter"))
	if !strings.HasPrefix(m.Status(), "#2 ok") {
		t.Errorf("status = %q, expected #2 to verify", m.Status())
	}
	if !strings.Contains(m.Status(), "floor") {
		t.Errorf("status = %q, expected the end reason", m.Status())
	}
}

func TestReplayBrowserVerifyMismatch(t *testing.T) {
	store := newMemStore(1)
	r := store.replays[1]
	r.Outcome.Score = 99
	store.replays[1] = r

	m := NewReplayBrowser(store, 80, 24)
	m = browse(m, keyMsg("v"))
	if !strings.Contains(m.Status(), "diverged") {
		t.Errorf("status = %q, expected divergence", m.Status())
	}
}

func TestReplayBrowserDelete(t *testing.T) {
	store := newMemStore(1, 2, 3)
	m := NewReplayBrowser(store, 80, 24)

	m = browse(m, tea.KeyMsg{Type: tea.KeyDown})
	m = browse(m, keyMsg("d"))

	if _, err := store.Replay(2); !errors.Is(err, storage.ErrNotFound) {
		t.Error("the selected replay (#2) should be deleted")
	}
	if len(m.replays) != 2 {
		t.Errorf("table should reload with 2 replays, got %d", len(m.replays))
	}
	if !strings.Contains(m.Status(), "#2 deleted") {
		t.Errorf("status = %q", m.Status())
	}
}

func TestReplayBrowserQuit(t *testing.T) {
	m := NewReplayBrowser(newMemStore(1), 80, 24)
	next, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if next.(ReplayBrowser).View() != "" {
		t.Error("view should be empty once quitting")
	}
}
