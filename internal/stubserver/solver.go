package stubserver

import (
	"context"

	"github.com/samber/lo"

	"wordsmith/internal/logging"
	"wordsmith/internal/types"
)

// solve plays g to the end. The fast solver takes the first remaining
// candidate; the efficient one prefers candidates covering the most frequent
// unseen letters. Both only ever guess words consistent with the feedback, so
// each wrong guess shrinks the candidate set.
func (app *App) solve(ctx context.Context, g *game, kind string) {
	pick := firstCandidate
	if kind == types.SolverEfficient {
		pick = bestCoverage
	}
	for !g.over {
		candidates := lo.Filter(app.dict.ofLength(g.wordLength), func(w string, _ int) bool {
			return consistent(w, g.guesses)
		})
		if len(candidates) == 0 {
			// the secret was not in the dictionary; give up rather than loop
			logging.Warn("[request_id=%s] Solver for game %s ran out of candidates", requestID(ctx), g.id)
			return
		}
		app.applyGuess(ctx, g, pick(candidates))
	}
}

func firstCandidate(candidates []string) string {
	return candidates[0]
}

func bestCoverage(candidates []string) string {
	freq := make(map[rune]int)
	for _, w := range candidates {
		for _, r := range lo.Uniq([]rune(w)) {
			freq[r]++
		}
	}
	return lo.MaxBy(candidates, func(a, b string) bool {
		return coverage(a, freq) > coverage(b, freq)
	})
}

func coverage(word string, freq map[rune]int) int {
	return lo.SumBy(lo.Uniq([]rune(word)), func(r rune) int { return freq[r] })
}
