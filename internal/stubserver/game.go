package stubserver

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"

	"wordsmith/internal/logging"
	"wordsmith/internal/types"
)

var errGameOver = errors.New(ErrorGameOver)

// game is one puzzle. Several clients may hold the same game through a
// share code; every access goes through App.gameMutex.
type game struct {
	id             string
	secret         string
	wordLength     int
	maxAttempts    int
	guesses        []types.Guess
	over           bool
	won            bool
	shareCode      string
	lastAccessTime time.Time
}

func newGame(id, secret string, attempts int, now time.Time) *game {
	return &game{
		id:             id,
		secret:         secret,
		wordLength:     len(secret),
		maxAttempts:    attempts,
		guesses:        []types.Guess{},
		lastAccessTime: now,
	}
}

// checkGuess scores guess against target. Exact matches are taken first so a
// repeated letter is only marked yellow while unmatched copies remain.
func checkGuess(guess, target string) []types.Feedback {
	g, t := []rune(guess), []rune(target)
	result := make([]types.Feedback, len(g))
	remaining := make(map[rune]int, len(t))

	for i := range g {
		if i < len(t) && g[i] == t[i] {
			result[i] = types.FeedbackGreen
			continue
		}
		if i < len(t) {
			remaining[t[i]]++
		}
	}
	for i := range g {
		if result[i] != "" {
			continue
		}
		if remaining[g[i]] > 0 {
			result[i] = types.FeedbackYellow
			remaining[g[i]]--
		} else {
			result[i] = types.FeedbackGrey
		}
	}
	return result
}

// consistent reports whether candidate could still be the secret given the
// scored guesses so far.
func consistent(candidate string, guesses []types.Guess) bool {
	return lo.EveryBy(guesses, func(g types.Guess) bool {
		return slices.Equal(checkGuess(g.Word, candidate), g.Feedback)
	})
}

// validateGuess checks a normalized guess against the game rules and the
// dictionary. The returned error text is shown to the player as-is.
func (app *App) validateGuess(g *game, guess string) error {
	if g.over {
		return errGameOver
	}
	if len(guess) != g.wordLength {
		return fmt.Errorf(ErrorInvalidLength, g.wordLength)
	}
	if !app.dict.contains(guess) {
		return errors.New(ErrorNotInWordList)
	}
	if lo.ContainsBy(g.guesses, func(prev types.Guess) bool { return prev.Word == guess }) {
		return errors.New(ErrorDuplicateGuess)
	}
	return nil
}

// applyGuess records a validated guess and settles win/lose.
func (app *App) applyGuess(ctx context.Context, g *game, guess string) {
	reqID := requestID(ctx)
	g.guesses = append(g.guesses, types.Guess{Word: guess, Feedback: checkGuess(guess, g.secret)})
	g.lastAccessTime = app.now()

	switch {
	case guess == g.secret:
		g.won, g.over = true, true
		logging.Info("[request_id=%s] Game %s won in %d guesses", reqID, g.id, len(g.guesses))
	case len(g.guesses) >= g.maxAttempts:
		g.over = true
		logging.Info("[request_id=%s] Game %s lost. Target word was: %s", reqID, g.id, g.secret)
	}
}

// state projects g into the wire shape.
func (app *App) state(g *game) types.GameState {
	remaining := g.maxAttempts - len(g.guesses)
	st := types.GameState{
		GameActive:        true,
		IsGameOver:        g.over,
		IsWon:             g.won,
		WordLength:        g.wordLength,
		MaxAttempts:       g.maxAttempts,
		RemainingAttempts: &remaining,
		Guesses:           slices.Clone(g.guesses),
		SessionID:         g.id,
	}
	if !g.over {
		n := lo.CountBy(app.dict.ofLength(g.wordLength), func(w string) bool {
			return consistent(w, g.guesses)
		})
		st.Possibilities = &n
	} else {
		st.SecretWord = types.Ptr(g.secret)
	}
	if g.shareCode != "" {
		st.ShareCode = types.Ptr(g.shareCode)
	}
	return st
}
