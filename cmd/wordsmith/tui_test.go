package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"wordsmith/internal/client"
	"wordsmith/internal/storage"
	"wordsmith/internal/types"
	"wordsmith/internal/view"
)

func TestGameKey(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want string
		ok   bool
	}{
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, client.KeyEnter, true},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, client.KeyBackspace, true},
		{"letter", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, "a", true},
		{"alt letter", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}, Alt: true}, "", false},
		{"paste", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")}, "", false},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := gameKey(tt.msg)
			if got != tt.want || ok != tt.ok {
				t.Errorf("gameKey = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRenderBoard(t *testing.T) {
	st := &types.GameState{
		GameActive:  true,
		WordLength:  5,
		MaxAttempts: 3,
		Guesses: []types.Guess{{
			Word:     "slate",
			Feedback: []types.Feedback{types.FeedbackGrey, types.FeedbackGrey, types.FeedbackGreen, types.FeedbackGrey, types.FeedbackGreen},
		}},
	}
	out := renderBoard(view.Project(view.Input{Screen: types.ScreenGame, State: st, Buffer: "CR"}))
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d rows, want 3:\n%s", len(lines), out)
	}
	for _, letter := range []string{"S", "L", "A", "T", "E"} {
		if !strings.Contains(lines[0], letter) {
			t.Errorf("first row %q is missing %s", lines[0], letter)
		}
	}
	if !strings.HasPrefix(lines[1], "> ") || !strings.Contains(lines[1], "C") || !strings.Contains(lines[1], "R") {
		t.Errorf("active row = %q", lines[1])
	}
	if strings.HasPrefix(lines[2], "> ") {
		t.Errorf("only the active row is marked: %q", lines[2])
	}
}

func TestRenderSuggestions(t *testing.T) {
	m := view.Model{ShowSuggestions: true, Suggestions: []string{"CRANE", "CRATE"}, Selected: 1}
	out := renderSuggestions(m)
	if !strings.Contains(out, "  CRANE") || !strings.Contains(out, "> CRATE") {
		t.Errorf("suggestions = %q", out)
	}
	if renderSuggestions(view.Model{}) != "" {
		t.Error("hidden suggestions rendered")
	}
}

func newTestModel(t *testing.T) *model {
	t.Helper()
	session := client.New(client.Options{Store: storage.NewMemoryStore(), Affordances: view.AllAffordances})
	return newModel(context.Background(), session)
}

func TestStartScreenKeys(t *testing.T) {
	m := newTestModel(t)
	if m.view.Screen != types.ScreenStart {
		t.Fatalf("initial screen = %q", m.view.Screen)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if got := m.session.Screen(); got != types.ScreenLength {
		t.Fatalf("after n: screen %q", got)
	}

	m.Update(modelMsg(m.session.View()))
	if m.input.Value() != "5" || !m.input.Focused() {
		t.Errorf("length field = %q focused %v", m.input.Value(), m.input.Focused())
	}
	if !strings.Contains(m.View(), "Word length?") {
		t.Errorf("view does not prompt for the length:\n%s", m.View())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.session.Screen(); got != types.ScreenStart {
		t.Errorf("esc went to %q", got)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestLengthFormRejectsNonNumbers(t *testing.T) {
	m := newTestModel(t)
	m.session.ShowCreateGame()
	m.Update(modelMsg(m.session.View()))

	m.input.SetValue("five")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v := m.session.View()
	if v.Screen != types.ScreenLength || !strings.Contains(v.Error, "not a number") {
		t.Errorf("screen %q error %q", v.Screen, v.Error)
	}

	m.input.SetValue("6")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if length, _ := m.session.Selection(); length != 6 || m.session.Screen() != types.ScreenAttempts {
		t.Errorf("length %d screen %q", length, m.session.Screen())
	}
}

func TestStaleModelsAreDropped(t *testing.T) {
	m := newTestModel(t)
	m.setView(view.Model{Screen: types.ScreenJoin, Version: 5})
	m.setView(view.Model{Screen: types.ScreenStart, Version: 3})
	if m.view.Screen != types.ScreenJoin || m.view.Version != 5 {
		t.Errorf("kept %q v%d", m.view.Screen, m.view.Version)
	}
}

func TestCopyShareCode(t *testing.T) {
	orig := clipboardWrite
	defer func() { clipboardWrite = orig }()
	var copied string
	clipboardWrite = func(s string) error { copied = s; return nil }

	m := newTestModel(t)
	m.copyShareCode()
	if copied != "" || !strings.Contains(m.info, "Share the game first") {
		t.Errorf("copied %q info %q", copied, m.info)
	}

	m.view.ShareCode = "ABCD"
	m.copyShareCode()
	if copied != "ABCD" || m.info != "Share code copied to clipboard." {
		t.Errorf("copied %q info %q", copied, m.info)
	}

	clipboardWrite = func(string) error { return errors.New("no display") }
	m.copyShareCode()
	if !strings.Contains(m.info, "no display") {
		t.Errorf("info = %q", m.info)
	}
}

func TestPrefixTabActivatesSuggestion(t *testing.T) {
	m := newTestModel(t)
	m.session.ShowCreateGame()
	m.session.SubmitLength(5)
	m.session.SubmitAttempts(6)
	m.Update(modelMsg(m.session.View()))
	if m.view.Screen != types.ScreenPrefix {
		t.Fatalf("screen = %q", m.view.Screen)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if cmd == nil {
		t.Fatal("tab returned no command")
	}
	done, ok := cmd().(opDoneMsg)
	if !ok || done.op != "start" || !errors.Is(done.err, client.ErrNoSelection) {
		t.Errorf("tab result = %#v", done)
	}
	if v := m.session.View(); v.Error != client.MsgSelectWord {
		t.Errorf("Error = %q", v.Error)
	}
}
