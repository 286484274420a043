package evidence

import (
	"strings"

	"github.com/spigell/cv-screener/internal/textnorm"
)

const (
	// minSubstringRunes is the shortest term accepted as a plain substring.
	// Shorter terms must match on token boundaries.
	minSubstringRunes = 4
	// minFuzzyRunes is the shortest term allowed one substitution.
	minFuzzyRunes = 5
)

// Match reports whether term occurs in text. Both must be normalized.
// Rules in order: token-boundary containment, plain substring containment for
// terms of at least 4 runes, and one-substitution tolerance for terms of at
// least 5 runes.
func Match(text, term string) bool {
	if term == "" || text == "" {
		return false
	}
	if textnorm.ContainsPhrase(text, term) {
		return true
	}

	n := len([]rune(term))
	if n >= minSubstringRunes && strings.Contains(text, term) {
		return true
	}
	if n >= minFuzzyRunes {
		return WithinOneSubstitution(text, term)
	}
	return false
}

// WithinOneSubstitution reports whether some window of text with the length
// of term differs from term in at most one rune (Hamming distance <= 1).
// Insertions and deletions are not tolerated. Worst case O(len(text)*len(term)).
func WithinOneSubstitution(text, term string) bool {
	t := []rune(text)
	p := []rune(term)
	m := len(p)
	if m == 0 || m > len(t) {
		return m == 0
	}

	for start := 0; start+m <= len(t); start++ {
		mismatches := 0
		for i := 0; i < m; i++ {
			if t[start+i] != p[i] {
				mismatches++
				if mismatches > 1 {
					break
				}
			}
		}
		if mismatches <= 1 {
			return true
		}
	}
	return false
}
