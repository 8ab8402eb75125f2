package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"wordsmith/internal/client"
	"wordsmith/internal/logging"
	"wordsmith/internal/types"
	"wordsmith/internal/view"
)

// modelMsg carries a fresh projection from the session renderer.
type modelMsg view.Model

// opDoneMsg reports the end of a network-bound session operation.
type opDoneMsg struct {
	op  string
	err error
}

var clipboardWrite = clipboard.WriteAll

type model struct {
	ctx     context.Context
	session *client.Session

	view  view.Model
	input textinput.Model
	info  string
	width int
}

func newModel(ctx context.Context, session *client.Session) *model {
	ti := textinput.New()
	ti.CharLimit = 16
	ti.Width = 24
	m := &model{ctx: ctx, session: session, input: ti}
	m.setView(session.View())
	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.run("restore", m.session.Restore), textinput.Blink)
}

// run executes a blocking session call off the update loop.
func (m *model) run(op string, f func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: f(ctx)}
	}
}

// setView installs a projection unless a newer one is already shown.
func (m *model) setView(v view.Model) {
	if v.Version < m.view.Version {
		return
	}
	prev := m.view.Screen
	m.view = v
	if v.Screen == prev && m.input.Focused() {
		return
	}
	length, attempts := m.session.Selection()
	switch v.Screen {
	case types.ScreenLength:
		m.resetInput("word length", strconv.Itoa(length))
	case types.ScreenAttempts:
		m.resetInput("attempts", strconv.Itoa(attempts))
	case types.ScreenPrefix:
		m.resetInput("first letters", "")
	case types.ScreenJoin:
		m.resetInput("game code", "")
	default:
		m.input.Blur()
	}
}

func (m *model) resetInput(placeholder, value string) {
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case modelMsg:
		m.setView(view.Model(msg))
		return m, nil
	case opDoneMsg:
		if msg.err != nil {
			logging.Warn("%s: %v", msg.op, msg.err)
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.info = ""
		switch m.view.Screen {
		case types.ScreenStart:
			return m.updateStart(msg)
		case types.ScreenGame:
			return m.updateGame(msg)
		default:
			return m.updateForm(msg)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) updateStart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		m.session.ShowCreateGame()
	case "j":
		m.session.ShowJoinGame()
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.session.CancelPending()
		m.session.NavigateBack()
		return m, nil
	case tea.KeyEnter:
		return m, m.submitForm()
	case tea.KeyTab:
		if m.view.Screen == types.ScreenPrefix {
			i := max(m.view.Selected, 0)
			return m, m.run("start", func(ctx context.Context) error {
				return m.session.ActivateSuggestion(ctx, i)
			})
		}
	case tea.KeyUp:
		if m.view.Screen == types.ScreenPrefix {
			m.session.SelectSuggestion(m.view.Selected - 1)
			return m, nil
		}
	case tea.KeyDown:
		if m.view.Screen == types.ScreenPrefix {
			m.session.SelectSuggestion(m.view.Selected + 1)
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.view.Screen == types.ScreenPrefix && m.input.Value() != before {
		m.session.PrefixInput(m.input.Value())
	}
	return m, cmd
}

func (m *model) submitForm() tea.Cmd {
	value := strings.TrimSpace(m.input.Value())
	switch m.view.Screen {
	case types.ScreenLength, types.ScreenAttempts:
		n, err := strconv.Atoi(value)
		if err != nil {
			m.session.SetManualError(fmt.Sprintf("%q is not a number.", value))
			return nil
		}
		if m.view.Screen == types.ScreenLength {
			m.session.SubmitLength(n)
		} else {
			m.session.SubmitAttempts(n)
		}
	case types.ScreenPrefix:
		return m.run("start", m.session.ConfirmPrefix)
	case types.ScreenJoin:
		return m.run("join", func(ctx context.Context) error {
			return m.session.JoinGame(ctx, value)
		})
	}
	return nil
}

func (m *model) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.session.NavigateBack()
		return m, nil
	case "ctrl+s":
		return m, m.run("share", m.session.ShareGame)
	case "ctrl+f":
		return m, m.solve(types.SolverFast)
	case "ctrl+e":
		return m, m.solve(types.SolverEfficient)
	case "ctrl+r":
		return m, m.run("reset", m.session.ResetGame)
	case "ctrl+d":
		m.session.DismissError()
		return m, nil
	case "ctrl+y":
		m.copyShareCode()
		return m, nil
	}

	key, ok := gameKey(msg)
	if !ok {
		return m, nil
	}
	ev := client.KeyEvent{Key: key}
	if key == client.KeyEnter {
		return m, m.run("guess", func(ctx context.Context) error {
			return m.session.HandleKey(ctx, ev)
		})
	}
	// Letters and Backspace only touch the buffer, so they stay in order.
	if err := m.session.HandleKey(m.ctx, ev); err != nil {
		logging.Warn("key %q: %v", key, err)
	}
	return m, nil
}

func (m *model) solve(kind string) tea.Cmd {
	return m.run("solve "+kind, func(ctx context.Context) error {
		return m.session.RunSolver(ctx, kind)
	})
}

func (m *model) copyShareCode() {
	if m.view.ShareCode == "" {
		m.info = "Nothing to copy yet. Share the game first."
		return
	}
	if err := clipboardWrite(m.view.ShareCode); err != nil {
		m.info = fmt.Sprintf("Clipboard copy failed: %v", err)
		return
	}
	m.info = "Share code copied to clipboard."
}

// gameKey maps a terminal key to the key names the guess input understands.
func gameKey(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		return client.KeyEnter, true
	case tea.KeyBackspace:
		return client.KeyBackspace, true
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && !msg.Alt {
			return string(msg.Runes), true
		}
	}
	return "", false
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("wordsmith"))
	b.WriteString("\n\n")

	v := m.view
	switch v.Screen {
	case types.ScreenStart:
		var opts []string
		if v.ShowCreateButton {
			opts = append(opts, "[n] new game")
		}
		if v.ShowJoinButton {
			opts = append(opts, "[j] join game")
		}
		opts = append(opts, "[q] quit")
		b.WriteString(strings.Join(opts, "   "))
		b.WriteString("\n")
	case types.ScreenLength, types.ScreenAttempts, types.ScreenPrefix, types.ScreenJoin:
		b.WriteString(formPrompt(v.Screen))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if s := renderSuggestions(v); s != "" {
			b.WriteString("\n" + s + "\n")
		}
	}

	if v.ShowGame {
		if v.Screen != types.ScreenGame {
			b.WriteString("\n")
		}
		b.WriteString(renderBoard(v))
		b.WriteString("\n\n")
	}
	if v.Possibilities != "" {
		b.WriteString(v.Possibilities + "\n")
	}
	if v.SolverStatus != "" {
		b.WriteString(statusStyle.Render(v.SolverStatus) + "\n")
	}
	if v.ShowResult {
		b.WriteString(resultStyle.Render(v.ResultTitle) + "\n")
		for _, line := range v.ResultLines {
			b.WriteString(line + "\n")
		}
	}
	if v.ShowShareCode && v.ShareCode != "" {
		b.WriteString("Share code: " + codeStyle.Render(v.ShareCode) + "\n")
	}
	if v.Error != "" {
		b.WriteString(errorStyle.Render(v.Error) + "\n")
	}
	if m.info != "" {
		b.WriteString(statusStyle.Render(m.info) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpLine(v)))
	return b.String()
}

func formPrompt(screen types.Screen) string {
	switch screen {
	case types.ScreenLength:
		return "Word length?"
	case types.ScreenAttempts:
		return "How many attempts?"
	case types.ScreenPrefix:
		return "Type the start of the secret word and pick one:"
	default:
		return "Enter a game code:"
	}
}

func helpLine(v view.Model) string {
	if v.Screen != types.ScreenGame {
		if v.Screen == types.ScreenStart {
			return "ctrl+c quit"
		}
		if v.Screen == types.ScreenPrefix {
			return "↑/↓ choose • enter confirm • tab start with highlighted word • esc back • ctrl+c quit"
		}
		return "enter confirm • esc back • ctrl+c quit"
	}
	parts := []string{"esc back"}
	if v.ShowGuessEntry {
		parts = append(parts, "ctrl+f solve fast", "ctrl+e solve efficient")
	}
	if v.ShowShareButton {
		parts = append(parts, "ctrl+s share")
	}
	if v.ShareCode != "" {
		parts = append(parts, "ctrl+y copy code")
	}
	if v.Error != "" {
		parts = append(parts, "ctrl+d dismiss")
	}
	parts = append(parts, "ctrl+r reset", "ctrl+c quit")
	return strings.Join(parts, " • ")
}
