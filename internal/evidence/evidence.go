// Package evidence measures how much of a requirement set is evidenced in
// resume text.
package evidence

import (
	"github.com/spigell/cv-screener/internal/requirements"
	"github.com/spigell/cv-screener/internal/textnorm"
)

const (
	MustWeight = 0.75
	NiceWeight = 0.25
)

// Result is the evidence found for one resume.
type Result struct {
	Coverage float64 `json:"coverage"`
	// Matched holds canonical names of matched items, must tier first.
	Matched []string `json:"matched"`
	// Missing holds unmatched must items in requirement order.
	Missing     []string `json:"missing"`
	MustMatched int      `json:"must_matched"`
	NiceMatched int      `json:"nice_matched"`
}

// Score matches every requirement item against the resume text.
func Score(resumeText string, set requirements.Set) Result {
	text := textnorm.Normalize(resumeText)

	var res Result
	for _, item := range set.Must {
		if ItemMatches(text, item) {
			res.MustMatched++
			res.Matched = append(res.Matched, item.Name)
			continue
		}
		res.Missing = append(res.Missing, item.Name)
	}
	for _, item := range set.Nice {
		if ItemMatches(text, item) {
			res.NiceMatched++
			res.Matched = append(res.Matched, item.Name)
		}
	}

	res.Coverage = Coverage(res.MustMatched, len(set.Must), res.NiceMatched, len(set.Nice))
	return res
}

// ItemMatches reports whether any synonym of item (or its name) matches the
// normalized text.
func ItemMatches(normalizedText string, item requirements.Item) bool {
	if Match(normalizedText, textnorm.Normalize(item.Name)) {
		return true
	}
	for _, syn := range item.Synonyms {
		if Match(normalizedText, textnorm.Normalize(syn)) {
			return true
		}
	}
	return false
}

// Coverage is 0.75*must + 0.25*nice. An empty must tier counts as fully
// covered; an empty nice tier contributes nothing unless both tiers are empty.
func Coverage(mustMatched, mustTotal, niceMatched, niceTotal int) float64 {
	if mustTotal == 0 && niceTotal == 0 {
		return 1
	}

	mustCov := 1.0
	if mustTotal > 0 {
		mustCov = float64(mustMatched) / float64(mustTotal)
	}
	niceCov := float64(niceMatched) / float64(max(1, niceTotal))

	return clamp01(MustWeight*mustCov + NiceWeight*niceCov)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
