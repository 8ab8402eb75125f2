package types

import (
	"time"

	"github.com/samber/lo"
)

// Screen is one step of the setup/play flow.
type Screen string

const (
	ScreenStart    Screen = "start"
	ScreenLength   Screen = "length"
	ScreenAttempts Screen = "attempts"
	ScreenPrefix   Screen = "prefix"
	ScreenJoin     Screen = "join"
	ScreenGame     Screen = "game"
)

// Screens lists every valid screen in flow order.
var Screens = []Screen{ScreenStart, ScreenLength, ScreenAttempts, ScreenPrefix, ScreenJoin, ScreenGame}

// Valid reports whether s is one of the known screens.
func (s Screen) Valid() bool {
	return lo.Contains(Screens, s)
}

// ParseScreen maps a persisted value to a Screen, falling back to Start.
func ParseScreen(v string) Screen {
	s := Screen(v)
	if !s.Valid() {
		return ScreenStart
	}
	return s
}

// Feedback is the per-letter score attached to a confirmed guess.
type Feedback string

const (
	FeedbackGreen  Feedback = "green"
	FeedbackYellow Feedback = "yellow"
	FeedbackGrey   Feedback = "grey"
)

// Known reports whether f is a colour the board knows how to paint.
func (f Feedback) Known() bool {
	return f == FeedbackGreen || f == FeedbackYellow || f == FeedbackGrey
}

// Solver kinds accepted by /solve.
const (
	SolverFast      = "fast"
	SolverEfficient = "efficient"
)

// Game defaults used when a selection is missing or invalid.
const (
	DefaultWordLength = 5
	DefaultAttempts   = 6
)

// ShareCodeTTL is how long the server keeps a share code alive.
const ShareCodeTTL = time.Hour

type Guess struct {
	Word     string     `json:"word"`
	Feedback []Feedback `json:"feedback"`
}

// GameState is the authoritative snapshot returned by /state and /join.
type GameState struct {
	GameActive        bool    `json:"gameActive"`
	IsGameOver        bool    `json:"isGameOver"`
	IsWon             bool    `json:"isWon"`
	WordLength        int     `json:"wordLength"`
	MaxAttempts       int     `json:"maxAttempts"`
	RemainingAttempts *int    `json:"remainingAttempts"`
	Possibilities     *int    `json:"possibilities"`
	SecretWord        *string `json:"secretWord"`
	Guesses           []Guess `json:"guesses"`
	ShareCode         *string `json:"shareCode"`
	Error             *string `json:"error"`
	SessionID         string  `json:"sessionId,omitempty"`
}

// Playing reports whether the board accepts another guess.
func (g *GameState) Playing() bool {
	return g != nil && g.GameActive && !g.IsGameOver
}

type StartResponse struct {
	SessionID string `json:"sessionId"`
	ShareCode string `json:"shareCode,omitempty"`
}

type ShareResponse struct {
	Code string `json:"code"`
}

type ConfigResponse struct {
	Port int `json:"port,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Ptr returns a pointer to v; handy for the optional GameState fields.
func Ptr[T any](v T) *T {
	return &v
}
