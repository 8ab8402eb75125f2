// Package view turns client state into a render-ready Model. Project is pure:
// it never mutates its input and the same input always yields the same Model.
package view

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"wordsmith/internal/nav"
	"wordsmith/internal/types"
)

// Status lines shown under the board.
const (
	StatusPlaying  = "Type your guess and press Enter."
	StatusComplete = "Game complete. Start a new game to play again."
	StatusIdle     = "Select a word to start a new game."
)

// LongWordThreshold is the word length above which the board switches to its wide layout.
const LongWordThreshold = 10

// Affordances says which optional pieces of UI the front end actually has.
// Operations behind a missing affordance are no-ops.
type Affordances struct {
	CreateGame     bool
	JoinGame       bool
	SuggestionList bool
}

// AllAffordances enables everything.
var AllAffordances = Affordances{CreateGame: true, JoinGame: true, SuggestionList: true}

// Renderer is the paint collaborator.
type Renderer interface {
	Render(Model)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Model)

func (f RendererFunc) Render(m Model) { f(m) }

// Preview sizes a blank board before a game exists.
type Preview struct {
	WordLength  int
	MaxAttempts int
}

// Input is everything the projection reads.
type Input struct {
	Screen       types.Screen
	State        *types.GameState
	Fallback     []types.Guess // display-only guesses used while State has none
	Buffer       string
	Preview      *Preview
	Error        string
	SolverStatus string // overrides the derived status while a solver runs
	ShareCode    string
	Suggestions  []string
	Selected     int
	Affordances  Affordances
}

// Cell is one board square.
type Cell struct {
	Letter   string
	Feedback types.Feedback // empty when unscored
	Filled   bool
}

// Model is the render-ready projection.
type Model struct {
	Screen           types.Screen
	ShowBack         bool
	ShowCreateButton bool
	ShowJoinButton   bool

	ShowGame        bool
	ShowGuessEntry  bool
	ShowResult      bool
	ShowShareButton bool
	ShowShareCode   bool
	ActiveRow       int // -1 when no row is editable
	LongWord        bool
	Board           [][]Cell

	Error         string
	Possibilities string
	SolverStatus  string
	ResultTitle   string
	ResultLines   []string
	ShareCode     string

	ShowSuggestions bool
	Suggestions     []string
	Selected        int

	// Version orders models produced by a session; Project leaves it zero.
	Version uint64
}

// Project derives the Model from in.
func Project(in Input) Model {
	st := in.State
	m := Model{
		Screen:          in.Screen,
		ShowBack:        nav.ShowsBack(in.Screen),
		ActiveRow:       -1,
		Error:           in.Error,
		ShowShareButton: st == nil || !st.GameActive,
		Selected:        -1,
	}
	m.ShowCreateButton = in.Screen == types.ScreenStart && in.Affordances.CreateGame
	m.ShowJoinButton = in.Screen == types.ScreenStart && in.Affordances.JoinGame

	if st != nil {
		m.ShowGame = st.GameActive
		m.ShowGuessEntry = st.Playing()
		m.ShowResult = st.IsGameOver
		m.LongWord = st.WordLength > LongWordThreshold
		if !st.IsGameOver {
			m.ActiveRow = len(displayGuesses(in))
		}
		if in.Error == "" && st.Error != nil {
			m.Error = *st.Error
		}
		if st.GameActive && st.Possibilities != nil {
			m.Possibilities = "Remaining possibilities: " + humanize.Comma(int64(*st.Possibilities))
		}
		if st.IsGameOver {
			m.ResultTitle, m.ResultLines = result(st)
		}
	}

	switch {
	case in.SolverStatus != "":
		m.SolverStatus = in.SolverStatus
	case st.Playing():
		m.SolverStatus = StatusPlaying
	case st != nil && st.GameActive:
		m.SolverStatus = StatusComplete
	default:
		m.SolverStatus = StatusIdle
	}

	m.Board = board(in, m.ActiveRow)

	m.ShareCode = in.ShareCode
	if st != nil && st.ShareCode != nil && *st.ShareCode != "" {
		m.ShareCode = *st.ShareCode
	}
	m.ShowShareCode = m.ShareCode != ""

	if in.Affordances.SuggestionList && len(in.Suggestions) > 0 {
		m.ShowSuggestions = true
		m.Suggestions = make([]string, len(in.Suggestions))
		for i, w := range in.Suggestions {
			m.Suggestions[i] = Upper(w)
		}
		m.Selected = in.Selected
	}
	return m
}

// Upper renders a word the way the board shows it.
func Upper(word string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Upper(language.Und).String(word)
}

// ShareMessage is the notice shown after a code is issued.
func ShareMessage(code string, already bool) string {
	expiry := durafmt.Parse(types.ShareCodeTTL).LimitFirstN(1).String()
	if already {
		return fmt.Sprintf("Game already shared! Code: %s (expires in %s)", code, expiry)
	}
	return fmt.Sprintf("Game shared! Code: %s (expires in %s)", code, expiry)
}

func displayGuesses(in Input) []types.Guess {
	if in.State != nil && len(in.State.Guesses) > 0 {
		return in.State.Guesses
	}
	return in.Fallback
}

func result(st *types.GameState) (string, []string) {
	var title string
	var lines []string
	if st.IsWon {
		n := len(st.Guesses)
		suffix := "es"
		if n == 1 {
			suffix = ""
		}
		title = "Victory!"
		lines = append(lines, fmt.Sprintf("Solved in %d guess%s.", n, suffix))
	} else {
		reveal := "UNKNOWN"
		if st.SecretWord != nil && *st.SecretWord != "" {
			reveal = Upper(*st.SecretWord)
		}
		title = "Game Over"
		lines = append(lines, fmt.Sprintf("The word was %s.", reveal))
	}
	if st.RemainingAttempts != nil {
		lines = append(lines, fmt.Sprintf("Remaining attempts: %d", *st.RemainingAttempts))
	}
	return title, lines
}

func board(in Input, activeRow int) [][]Cell {
	rows, width := 0, 0
	switch {
	case in.State != nil && in.State.GameActive:
		rows, width = in.State.MaxAttempts, in.State.WordLength
	case in.Preview != nil:
		rows, width = in.Preview.MaxAttempts, in.Preview.WordLength
	}
	if rows <= 0 || width <= 0 {
		return nil
	}

	guesses := displayGuesses(in)
	out := make([][]Cell, rows)
	for r := 0; r < rows; r++ {
		out[r] = make([]Cell, width)
		var g *types.Guess
		if r < len(guesses) {
			g = &guesses[r]
		}
		var letters []rune
		if g != nil {
			letters = []rune(Upper(g.Word))
		}
		buf := []rune(in.Buffer)
		for col := 0; col < width; col++ {
			cell := Cell{}
			switch {
			case g != nil && col < len(letters):
				cell.Letter, cell.Filled = string(letters[col]), true
			case r == activeRow && col < len(buf):
				cell.Letter, cell.Filled = string(buf[col]), true
			}
			if g != nil && col < len(g.Feedback) && g.Feedback[col].Known() {
				cell.Feedback = g.Feedback[col]
			}
			out[r][col] = cell
		}
	}
	return out
}
