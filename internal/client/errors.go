package client

import (
	"errors"

	"wordsmith/internal/api"
)

// User-facing messages. Every failure ends up as one of these lines, a
// rejected guess followed by the server's reason when it sent one.
const (
	MsgBackendUnreachable = "Unable to reach the backend service."
	MsgGuessLength        = "Enter a %d-letter word."
	MsgNoSession          = "No active session. Please start a new game."
	MsgGuessFailed        = "Guess failed. Check the word and try again."
	MsgSolverFailed       = "Solver request failed."
	MsgSuggestionsFailed  = "Unable to fetch word suggestions."
	MsgSelectWord         = "Select a word from the list to start the game."
	MsgStartFailed        = "Unable to start the game. Please try again."
	MsgEnterCode          = "Please enter a game code."
	MsgJoinFailed         = "Invalid or expired game code."
	MsgNoActiveGame       = "No active game to share."
	MsgShareFailed        = "Failed to share game."
	MsgResetFailed        = "Unable to reset the game."
)

var (
	ErrSubmitInFlight = errors.New("guess submission already in flight")
	ErrSolverInFlight = errors.New("solver already running")
	ErrGameOver       = errors.New("game is over")
	ErrGuessLength    = errors.New("guess length does not match word length")
	ErrNoSession      = errors.New("no active session")
	ErrNoSelection    = errors.New("no suggestion selected")
	ErrEmptyJoinCode  = errors.New("empty join code")
	ErrNoActiveGame   = errors.New("no active game")
)

// withServerMessage appends the server's own reason to msg when err carries one.
func withServerMessage(msg string, err error) string {
	var se *api.StatusError
	if errors.As(err, &se) && se.Message != "" {
		return msg + " " + se.Message
	}
	return msg
}
