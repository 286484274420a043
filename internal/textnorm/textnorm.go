// Package textnorm turns raw resume and job description text into normalized
// tokens, n-gram phrases and frequency bags.
package textnorm

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxPhraseSize is the longest n-gram produced by Bag and Phrases.
const MaxPhraseSize = 3

// Normalize folds diacritics, lower-cases the text and collapses every rune
// that is not a letter, digit, '+' or '#' into a single space.
func Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}

	return b.String()
}

// Tokens returns the normalized token stream without stop-words and
// single-rune tokens.
func Tokens(text string) []string {
	fields := strings.Fields(Normalize(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 || IsStopWord(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// NGrams returns all n-grams for n in [minN, maxN] using a sliding window
// without wraparound. Shorter n-grams come first.
func NGrams(tokens []string, minN, maxN int) []string {
	if minN < 1 {
		minN = 1
	}
	var out []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// Bag is a phrase frequency map.
type Bag map[string]int

// NewBag counts the 1- to 3-gram phrases of text. Empty text yields an empty bag.
func NewBag(text string) Bag {
	bag := make(Bag)
	for _, phrase := range NGrams(Tokens(text), 1, MaxPhraseSize) {
		bag[phrase]++
	}
	return bag
}

// Cosine returns the cosine similarity of two bags in [0, 1].
func Cosine(a, b Bag) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot, normA, normB float64
	for k, va := range a {
		normA += float64(va * va)
		if vb, ok := b[k]; ok {
			dot += float64(va * vb)
		}
	}
	for _, vb := range b {
		normB += float64(vb * vb)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Phrase is a counted n-gram.
type Phrase struct {
	Text  string
	Count int
	Size  int
	// First is the token position of the first occurrence.
	First int
}

// Phrases counts the 1..maxN-grams of tokens, skipping phrases that contain a
// purely numeric token. The result is in first-occurrence order.
func Phrases(tokens []string, maxN int) []Phrase {
	index := make(map[string]int)
	var out []Phrase
	for i := range tokens {
		for n := 1; n <= maxN && i+n <= len(tokens); n++ {
			window := tokens[i : i+n]
			if hasNumeric(window) {
				break
			}
			text := strings.Join(window, " ")
			if idx, ok := index[text]; ok {
				out[idx].Count++
				continue
			}
			index[text] = len(out)
			out = append(out, Phrase{Text: text, Count: 1, Size: n, First: i})
		}
	}
	return out
}

// SortPhrases orders phrases by count descending, then shorter phrases first,
// then earlier first occurrence. The order is fully deterministic.
func SortPhrases(phrases []Phrase) {
	sort.SliceStable(phrases, func(i, j int) bool {
		a, b := phrases[i], phrases[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Size != b.Size {
			return a.Size < b.Size
		}
		return a.First < b.First
	})
}

// ContainsPhrase reports whether phrase occurs in text on token boundaries.
// Both arguments must already be normalized.
func ContainsPhrase(text, phrase string) bool {
	if phrase == "" || text == "" {
		return false
	}
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}

func hasNumeric(tokens []string) bool {
	for _, t := range tokens {
		numeric := true
		for _, r := range t {
			if !unicode.IsDigit(r) {
				numeric = false
				break
			}
		}
		if numeric {
			return true
		}
	}
	return false
}
