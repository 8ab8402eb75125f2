package client

import (
	"context"
	"fmt"
	"strings"

	"wordsmith/internal/logging"
	"wordsmith/internal/storage"
	"wordsmith/internal/types"
	"wordsmith/internal/view"
)

// ShowCreateGame enters the create flow at the word-length step.
func (s *Session) ShowCreateGame() {
	if !s.affordances.CreateGame {
		return
	}
	s.nav.NavigateTo(types.ScreenLength)
	s.render()
}

// ShowJoinGame opens the join-by-code screen.
func (s *Session) ShowJoinGame() {
	if !s.affordances.JoinGame {
		return
	}
	s.nav.NavigateTo(types.ScreenJoin)
	s.render()
}

// SubmitLength records the word length and moves on to attempts.
func (s *Session) SubmitLength(length int) {
	if length <= 0 {
		length = types.DefaultWordLength
	}
	s.mu.Lock()
	s.length = length
	s.mu.Unlock()
	s.nav.NavigateTo(types.ScreenAttempts)
	s.render()
}

// SubmitAttempts records the attempt budget and moves on to the starting
// word. The prefix screen previews a blank board of the chosen size.
func (s *Session) SubmitAttempts(attempts int) {
	if attempts <= 0 {
		attempts = types.DefaultAttempts
	}
	s.mu.Lock()
	s.attempts = attempts
	s.mu.Unlock()
	s.nav.NavigateTo(types.ScreenPrefix)
	s.render()
}

// JoinGame attaches to a shared game by code.
func (s *Session) JoinGame(ctx context.Context, code string) error {
	if !s.affordances.JoinGame {
		return nil
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		s.SetManualError(MsgEnterCode)
		return ErrEmptyJoinCode
	}

	state, err := s.backend.Join(ctx, code)
	if err != nil {
		logging.Warn("Join with code %s failed: %v", code, err)
		s.SetManualError(MsgJoinFailed)
		return fmt.Errorf("join %s: %w", code, err)
	}

	s.mu.Lock()
	s.rememberSessionLocked(state.SessionID)
	s.storeLocked(storage.KeyShareCode, code)
	s.storeLocked(storage.KeyGuesses, "[]")
	s.applyLocked(state)
	s.mu.Unlock()

	s.nav.NavigateTo(types.ScreenGame)
	s.render()
	return s.Refresh(ctx)
}

// ShareGame asks the server for a share code for the running game.
func (s *Session) ShareGame(ctx context.Context) error {
	s.mu.Lock()
	if s.state == nil || !s.state.GameActive {
		s.setErrorLocked(MsgNoActiveGame)
		s.unlockAndRender()
		return ErrNoActiveGame
	}
	if existing := s.shareCodeLocked(); existing != "" {
		s.setErrorLocked(view.ShareMessage(existing, true))
		s.unlockAndRender()
		return nil
	}
	s.mu.Unlock()

	code, err := s.backend.Share(ctx)
	if err != nil {
		logging.Warn("Share failed: %v", err)
		s.SetManualError(MsgShareFailed)
		return fmt.Errorf("share game: %w", err)
	}

	s.mu.Lock()
	if err := s.store.Set(storage.KeyShareCode, code); err != nil {
		logging.Warn("Failed to persist share code: %v", err)
	}
	s.setErrorLocked(view.ShareMessage(code, false))
	s.unlockAndRender()
	return nil
}

// ResetGame discards the game on the server and, only if that worked, wipes
// local session data and returns to the start screen.
func (s *Session) ResetGame(ctx context.Context) error {
	if err := s.backend.Reset(ctx); err != nil {
		logging.Warn("Reset failed: %v", err)
		s.SetManualError(MsgResetFailed)
		return fmt.Errorf("reset game: %w", err)
	}

	s.suggest.Cancel()
	s.mu.Lock()
	s.buffer = ""
	s.length = types.DefaultWordLength
	s.attempts = types.DefaultAttempts
	s.suggestSeq++
	s.clearSuggestionsLocked()
	s.fallback = nil
	for _, key := range []string{storage.KeySessionID, storage.KeyShareCode, storage.KeyGuesses} {
		if err := s.store.Remove(key); err != nil {
			logging.Warn("Failed to remove %s: %v", key, err)
		}
	}
	s.mu.Unlock()

	s.nav.Reset()
	s.render()
	return s.Refresh(ctx)
}

func (s *Session) shareCodeLocked() string {
	if s.state != nil && s.state.ShareCode != nil && *s.state.ShareCode != "" {
		return *s.state.ShareCode
	}
	code, _ := s.store.Get(storage.KeyShareCode)
	return code
}
