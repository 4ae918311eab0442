package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"tyfold/internal/driver"
)

func TestProgressModelTracksCases(t *testing.T) {
	events := make(chan driver.CaseEvent)
	m := NewProgressModel("erase pairs.toml", []string{"alpha", "beta"}, events)

	view := m.View()
	if !strings.Contains(view, "(0/2)") || strings.Count(view, "queued") != 2 {
		t.Fatalf("initial view:\n%s", view)
	}

	m, _ = m.Update(eventMsg{Index: 0, Name: "alpha", Status: driver.CaseDone})
	m, _ = m.Update(eventMsg{Index: 1, Name: "beta", Status: driver.CaseFolding})
	m, _ = m.Update(eventMsg{Index: 7, Name: "ghost", Status: driver.CaseFailed})
	m, _ = m.Update(eventMsg{Index: 2, Name: "gamma", Status: driver.CaseQueued})
	view = m.View()
	if strings.Contains(view, "ghost") {
		t.Fatalf("out of range event was applied:\n%s", view)
	}
	for _, want := range []string{"(1/3)", "done", "folding", "gamma"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	m, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	m, cmd := m.Update(doneMsg{})
	if cmd == nil {
		t.Fatalf("expected quit command after doneMsg")
	}
	if !strings.Contains(m.View(), "done: ") {
		t.Fatalf("final view:\n%s", m.View())
	}
}

func TestListenForEventClosed(t *testing.T) {
	events := make(chan driver.CaseEvent)
	close(events)
	m := NewProgressModel("t", []string{"a"}, events).(*progressModel)
	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Fatalf("closed channel should yield doneMsg")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 8); got != "abcde..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("日本語テキスト", 6); runewidth.StringWidth(got) > 6 {
		t.Fatalf("truncate wide = %q", got)
	}
}
