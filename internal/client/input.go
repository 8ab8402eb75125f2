package client

import (
	"context"
	"fmt"
	"strings"

	"wordsmith/internal/logging"
	"wordsmith/internal/types"
)

// Named keys understood by HandleKey; anything else must be a single letter.
const (
	KeyEnter     = "Enter"
	KeyBackspace = "Backspace"
)

// KeyEvent is one key press. InTextField is set when focus is inside a text
// input or select, where typing belongs to the form and not the board.
type KeyEvent struct {
	Key         string
	InTextField bool
}

func isLetter(key string) bool {
	if len(key) != 1 {
		return false
	}
	c := key[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// HandleKey applies a key press to the guess buffer. Keys are ignored unless
// a game is being played and focus is outside form fields. Enter submits only
// when the buffer is full.
func (s *Session) HandleKey(ctx context.Context, ev KeyEvent) error {
	s.mu.Lock()
	if ev.InTextField || !s.state.Playing() {
		s.mu.Unlock()
		return nil
	}
	width := s.state.WordLength

	switch {
	case ev.Key == KeyEnter:
		ready := len(s.buffer) == width
		s.mu.Unlock()
		if !ready {
			return nil
		}
		return s.SubmitGuess(ctx)
	case ev.Key == KeyBackspace:
		if s.buffer == "" {
			s.mu.Unlock()
			return nil
		}
		s.buffer = s.buffer[:len(s.buffer)-1]
	case isLetter(ev.Key):
		if len(s.buffer) >= width {
			s.mu.Unlock()
			return nil
		}
		s.buffer += strings.ToUpper(ev.Key)
	default:
		s.mu.Unlock()
		return nil
	}
	s.unlockAndRender()
	return nil
}

// SubmitGuess sends the buffer as a guess. Only one submission may be in
// flight; a second call while one is pending returns ErrSubmitInFlight and
// sends nothing. On failure the buffer is kept so the player can edit it.
func (s *Session) SubmitGuess(ctx context.Context) error {
	s.mu.Lock()
	if s.submitInFlight {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	if s.state == nil || s.state.IsGameOver {
		s.mu.Unlock()
		return ErrGameOver
	}
	if len(s.buffer) != s.state.WordLength {
		s.setErrorLocked(fmt.Sprintf(MsgGuessLength, s.state.WordLength))
		s.unlockAndRender()
		return ErrGuessLength
	}
	sessionID, ok := s.sessionID()
	if !ok {
		s.setErrorLocked(MsgNoSession)
		s.unlockAndRender()
		return ErrNoSession
	}
	s.submitInFlight = true
	guess := strings.ToLower(s.buffer)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitInFlight = false
		s.mu.Unlock()
	}()

	logging.Info("Submitting guess %q for session %s", guess, sessionID)
	if err := s.backend.Guess(ctx, sessionID, guess); err != nil {
		logging.Warn("Guess %q failed: %v", guess, err)
		s.SetManualError(withServerMessage(MsgGuessFailed, err))
		return fmt.Errorf("submit guess: %w", err)
	}

	s.mu.Lock()
	s.buffer = ""
	s.unlockAndRender()
	return s.Refresh(ctx)
}

// RunSolver asks the server to play using the given solver. It has its own
// in-flight guard, independent of guess submission.
func (s *Session) RunSolver(ctx context.Context, kind string) error {
	if kind != types.SolverEfficient {
		kind = types.SolverFast
	}

	s.mu.Lock()
	if s.solverInFlight {
		s.mu.Unlock()
		return ErrSolverInFlight
	}
	if !s.state.Playing() {
		s.mu.Unlock()
		return nil
	}
	sessionID, ok := s.sessionID()
	if !ok {
		s.setErrorLocked(MsgNoSession)
		s.unlockAndRender()
		return ErrNoSession
	}
	s.solverInFlight = true
	s.solverStatus = fmt.Sprintf("Running %s solver...", kind)
	s.unlockAndRender()

	defer func() {
		s.mu.Lock()
		s.solverInFlight = false
		s.solverStatus = ""
		s.unlockAndRender()
	}()

	logging.Info("Running %s solver for session %s", kind, sessionID)
	if err := s.backend.Solve(ctx, sessionID, kind); err != nil {
		logging.Warn("Solver %s failed: %v", kind, err)
		s.SetManualError(MsgSolverFailed)
		return fmt.Errorf("run %s solver: %w", kind, err)
	}
	return s.Refresh(ctx)
}
