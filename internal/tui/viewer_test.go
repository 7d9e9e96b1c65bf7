package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/hillfit/internal/dataset"
	"github.com/san-kum/hillfit/internal/hill"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	ref := dataset.Reference()
	rep, err := hill.Fit(context.Background(), ref.X, ref.Y)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	return New("", ref, rep, 4)
}

func press(m Model, key tea.KeyMsg) Model {
	next, _ := m.Update(key)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabCycling(t *testing.T) {
	m := newTestModel(t)
	if m.Tab() != TabCurve {
		t.Fatalf("expected curve tab first, got %s", m.Tab())
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Tab() != TabResiduals {
		t.Errorf("expected residuals after tab, got %s", m.Tab())
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.Tab() != TabCurve {
		t.Errorf("expected wrap to curve, got %s", m.Tab())
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.Tab() != TabParams {
		t.Errorf("expected wrap back to parameters, got %s", m.Tab())
	}
}

func TestTabJump(t *testing.T) {
	m := newTestModel(t)
	tests := []struct {
		key  string
		want Tab
	}{
		{"3", TabParams},
		{"1", TabCurve},
		{"2", TabResiduals},
	}
	for _, tt := range tests {
		m = press(m, runes(tt.key))
		if m.Tab() != tt.want {
			t.Errorf("key %s: expected %s, got %s", tt.key, tt.want, m.Tab())
		}
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestWindowSize(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	if m.width != 120 || m.height != 40 {
		t.Errorf("expected 120x40, got %dx%d", m.width, m.height)
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t)

	views := map[Tab]string{
		TabCurve:     "R² =",
		TabResiduals: "residuals",
		TabParams:    "ec50",
	}
	for tab, want := range views {
		m.tab = tab
		out := m.View()
		if !strings.Contains(out, want) {
			t.Errorf("%s view: expected %q in output", tab, want)
		}
		if !strings.Contains(out, "reference") {
			t.Errorf("%s view: expected the series name as title", tab)
		}
	}
}

func TestTabString(t *testing.T) {
	if TabParams.String() != "parameters" || Tab(7).String() != "unknown" {
		t.Error("unexpected tab names")
	}
}
