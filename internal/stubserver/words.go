package stubserver

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"wordsmith/internal/logging"
)

//go:embed data/words.json
var embeddedWords []byte

// WordList is the JSON layout of the embedded dictionary.
type WordList struct {
	Words []string `json:"words"`
}

// dictionary indexes words by length. Every slice is sorted and lowercase.
type dictionary struct {
	byLength map[int][]string
	set      map[string]struct{}
}

func loadDictionary(override []string) (*dictionary, error) {
	words := override
	if len(words) == 0 {
		var wl WordList
		if err := json.Unmarshal(embeddedWords, &wl); err != nil {
			return nil, fmt.Errorf("parse embedded words: %w", err)
		}
		words = wl.Words
	}

	words = lo.Uniq(lo.FilterMap(words, func(w string, _ int) (string, bool) {
		w = strings.ToLower(strings.TrimSpace(w))
		if !isAlpha(w) || len(w) < MinWordLength || len(w) > MaxWordLength {
			if w != "" {
				logging.Warn("Skipping word %q: not %d-%d letters", w, MinWordLength, MaxWordLength)
			}
			return "", false
		}
		return w, true
	}))
	if len(words) == 0 {
		return nil, errors.New("dictionary is empty")
	}
	slices.Sort(words)

	d := &dictionary{
		byLength: lo.GroupBy(words, func(w string) int { return len(w) }),
		set:      make(map[string]struct{}, len(words)),
	}
	lo.ForEach(words, func(w string, _ int) {
		d.set[w] = struct{}{}
	})
	return d, nil
}

func (d *dictionary) size() int {
	return len(d.set)
}

func (d *dictionary) contains(word string) bool {
	_, ok := d.set[word]
	return ok
}

func (d *dictionary) ofLength(n int) []string {
	return d.byLength[n]
}

// suggest returns up to limit words of the given length starting with prefix.
func (d *dictionary) suggest(length int, prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	words := d.byLength[length]
	start, _ := slices.BinarySearch(words, prefix)
	out := []string{}
	for _, w := range words[start:] {
		if !strings.HasPrefix(w, prefix) || len(out) == limit {
			break
		}
		out = append(out, w)
	}
	return out
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// normalizeGuess trims and lowercases a guess string for comparison.
func normalizeGuess(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
