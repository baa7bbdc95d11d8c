package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

func seedStore(t *testing.T, n int) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for i := 0; i < n; i++ {
		_, err := store.SaveReplay(&storage.Replay{
			ReplaySummary: storage.ReplaySummary{GameID: "tetris", Seed: int64(i), Score: i * 100},
			Settings:      engine.DefaultSettings(),
			Frames:        []engine.TimedFrame{{At: 0}},
		})
		if err != nil {
			t.Fatalf("SaveReplay: %v", err)
		}
	}
	return store
}

func TestReplaysModelSelect(t *testing.T) {
	store := seedStore(t, 3)
	m := NewReplaysModel(store, 80, 24)
	if len(m.replays) != 3 {
		t.Fatalf("loaded %d replays, want 3", len(m.replays))
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected quit after selecting")
	}
	got := next.(ReplaysModel).Selected()
	if got != m.replays[0].ID {
		t.Errorf("Selected() = %q, want newest replay %q", got, m.replays[0].ID)
	}
}

func TestReplaysModelDelete(t *testing.T) {
	store := seedStore(t, 2)
	m := NewReplaysModel(store, 80, 24)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = next.(ReplaysModel)
	if len(m.replays) != 1 {
		t.Fatalf("%d replays after delete, want 1", len(m.replays))
	}
	if m.err != nil {
		t.Errorf("unexpected error: %v", m.err)
	}
}

func TestReplaysModelEmpty(t *testing.T) {
	m := NewReplaysModel(nil, 80, 24)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || next.(ReplaysModel).Selected() != "" {
		t.Error("nothing to select in an empty browser")
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(125*time.Second + 400*time.Millisecond); got != "2:05" {
		t.Errorf("formatDuration = %q, want 2:05", got)
	}
}
