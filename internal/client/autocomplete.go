package client

import (
	"context"
	"fmt"

	"wordsmith/internal/logging"
	"wordsmith/internal/storage"
	"wordsmith/internal/types"
)

// PrefixInput reacts to the starting-word field changing. The pending query
// is cancelled outright and a new one is scheduled after the quiet period;
// an empty prefix clears the list at once.
func (s *Session) PrefixInput(prefix string) {
	s.suggest.Cancel()

	s.mu.Lock()
	s.suggestSeq++
	seq, length := s.suggestSeq, s.length
	if prefix == "" {
		s.clearSuggestionsLocked()
		s.unlockAndRender()
		return
	}
	s.mu.Unlock()

	s.suggest.Schedule(func() {
		s.fetchSuggestions(seq, length, prefix)
	})
}

// CancelPending drops a scheduled suggestion query that has not fired yet.
func (s *Session) CancelPending() bool {
	return s.suggest.Cancel()
}

func (s *Session) fetchSuggestions(seq uint64, length int, prefix string) {
	words, err := s.backend.Suggestions(context.Background(), length, prefix)

	s.mu.Lock()
	if seq != s.suggestSeq {
		s.mu.Unlock()
		logging.Info("Dropping stale suggestions for %q", prefix)
		return
	}
	if err != nil {
		logging.Warn("Suggestions for %q failed: %v", prefix, err)
		s.clearSuggestionsLocked()
		s.setErrorLocked(MsgSuggestionsFailed)
		s.unlockAndRender()
		return
	}
	s.suggestions = words
	s.selected = -1
	if len(words) > 0 {
		s.selected = 0
	}
	s.unlockAndRender()
}

// Suggestions returns the current candidate list and the selected index.
func (s *Session) Suggestions() ([]string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.suggestions...), s.selected
}

// SelectSuggestion highlights the i-th candidate. Out of range is ignored.
func (s *Session) SelectSuggestion(i int) {
	s.mu.Lock()
	if i < 0 || i >= len(s.suggestions) {
		s.mu.Unlock()
		return
	}
	s.selected = i
	s.unlockAndRender()
}

// ActivateSuggestion is a double activation: select and confirm in one step.
func (s *Session) ActivateSuggestion(ctx context.Context, i int) error {
	if !s.affordances.SuggestionList {
		return nil
	}
	s.SelectSuggestion(i)
	return s.ConfirmPrefix(ctx)
}

// ConfirmPrefix starts a game with the selected candidate.
func (s *Session) ConfirmPrefix(ctx context.Context) error {
	s.mu.Lock()
	word := s.selectedWordLocked()
	length, attempts := s.length, s.attempts
	if word == "" {
		s.setErrorLocked(MsgSelectWord)
		s.unlockAndRender()
		return ErrNoSelection
	}
	s.mu.Unlock()

	logging.Info("Starting game: length=%d attempts=%d word=%s", length, attempts, word)
	res, err := s.backend.Start(ctx, length, attempts, word)
	if err != nil {
		logging.Warn("Start failed: %v", err)
		s.SetManualError(MsgStartFailed)
		return fmt.Errorf("start game: %w", err)
	}

	s.suggest.Cancel()
	s.mu.Lock()
	s.rememberSessionLocked(res.SessionID)
	if res.ShareCode != "" {
		s.storeLocked(storage.KeyShareCode, res.ShareCode)
	} else {
		s.forgetLocked(storage.KeyShareCode)
	}
	s.storeLocked(storage.KeyGuesses, "[]")
	s.suggestSeq++
	s.clearSuggestionsLocked()
	s.mu.Unlock()

	s.nav.NavigateTo(types.ScreenGame)
	s.render()
	return s.Refresh(ctx)
}

func (s *Session) selectedWordLocked() string {
	if s.selected < 0 || s.selected >= len(s.suggestions) {
		return ""
	}
	return s.suggestions[s.selected]
}

func (s *Session) clearSuggestionsLocked() {
	s.suggestions = nil
	s.selected = -1
}
