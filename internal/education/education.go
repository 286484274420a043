// Package education maps free-text education to a coarse level and scores
// it against a required level.
package education

import (
	"strings"
	"unicode"

	"github.com/spigell/cv-screener/internal/ai"
	"github.com/spigell/cv-screener/internal/textnorm"
)

// Level is an ordinal education level.
type Level int

const (
	Unknown Level = iota
	IntermediateOrHighSchool
	Bachelor
	Master
	PhD
)

func (l Level) String() string {
	switch l {
	case PhD:
		return "PhD"
	case Master:
		return "Master"
	case Bachelor:
		return "Bachelor"
	case IntermediateOrHighSchool:
		return "Intermediate/High school"
	default:
		return "Unknown"
	}
}

// Checked in order; the first rule with a matching keyword wins.
// Abbreviations also read as US state codes ("Boston, MA"), so they only
// count when they are the whole text or a word follows them.
var levelRules = []struct {
	level    Level
	phrases  []string
	abbrevs  []string
	prefixes []string
}{
	{level: PhD, phrases: []string{"phd", "ph d", "doctorate", "doctoral", "dphil"}, prefixes: []string{"doctor"}},
	{level: Master, phrases: []string{"msc", "mba", "meng", "m sc"}, abbrevs: []string{"ms", "m s", "m a"}, prefixes: []string{"master", "magist"}},
	{level: Bachelor, phrases: []string{"bsc", "beng", "b sc", "undergraduate"}, abbrevs: []string{"bs", "ba", "b s", "b a"}, prefixes: []string{"bachelor", "baccalaur"}},
	{level: IntermediateOrHighSchool, phrases: []string{"high school", "secondary school", "ged", "diploma"}, abbrevs: []string{"hs"}, prefixes: []string{"intermediate"}},
}

// abbrevAt reports whether abbrev occurs in words either as the whole text
// or followed by a word that is not a number.
func abbrevAt(words []string, abbrev string) bool {
	parts := strings.Fields(abbrev)
	if len(parts) == len(words) {
		return strings.Join(words, " ") == abbrev
	}
	for i := 0; i+len(parts) < len(words); i++ {
		if strings.Join(words[i:i+len(parts)], " ") != abbrev {
			continue
		}
		next := words[i+len(parts)]
		if strings.IndexFunc(next, unicode.IsLetter) >= 0 {
			return true
		}
	}
	return false
}

// MapLevel maps free text to a Level using ordered keyword checks.
func MapLevel(text string) Level {
	norm := textnorm.Normalize(text)
	if norm == "" {
		return Unknown
	}
	words := strings.Fields(norm)

	for _, rule := range levelRules {
		for _, phrase := range rule.phrases {
			if textnorm.ContainsPhrase(norm, phrase) {
				return rule.level
			}
		}
		for _, abbrev := range rule.abbrevs {
			if abbrevAt(words, abbrev) {
				return rule.level
			}
		}
		for _, prefix := range rule.prefixes {
			for _, w := range words {
				if strings.HasPrefix(w, prefix) {
					return rule.level
				}
			}
		}
	}
	return Unknown
}

// Label returns the level name, or the trimmed raw text when no level is
// recognized.
func Label(text string) string {
	if lvl := MapLevel(text); lvl != Unknown {
		return lvl.String()
	}
	return strings.TrimSpace(text)
}

// Fit scores the candidate's education text against the required text.
// Ties favor the candidate.
func Fit(required, have string) float64 {
	if strings.TrimSpace(required) == "" {
		return 0.7
	}

	got := MapLevel(have)
	switch MapLevel(required) {
	case PhD:
		if got == PhD {
			return 1.0
		}
		return 0.6
	case Master:
		switch got {
		case Master, PhD:
			return 1.0
		case Bachelor:
			return 0.7
		default:
			return 0.4
		}
	case Bachelor:
		if got >= Bachelor {
			return 1.0
		}
		return 0.5
	default:
		if strings.TrimSpace(have) != "" {
			return 0.7
		}
		return 0.3
	}
}

// Summary joins the model-extracted education entries into one line.
func Summary(entries []ai.Education) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		var fields []string
		for _, v := range []ai.Value[string]{e.Degree, e.Field, e.Institution} {
			if s, ok := v.Get(); ok && strings.TrimSpace(s) != "" {
				fields = append(fields, strings.TrimSpace(s))
			}
		}
		if len(fields) > 0 {
			parts = append(parts, strings.Join(fields, ", "))
		}
	}
	return strings.Join(parts, "; ")
}

var institutionCues = []string{"university", "college", "institute", "school", "academy", "degree", "universidad", "politecnico"}

// FindInText returns the first resume line that names a recognizable level
// together with an institution or degree cue.
func FindInText(resumeText string) string {
	for _, line := range strings.Split(resumeText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len([]rune(line)) > 200 {
			continue
		}
		if MapLevel(line) == Unknown {
			continue
		}
		norm := textnorm.Normalize(line)
		for _, cue := range institutionCues {
			if strings.Contains(norm, cue) {
				return line
			}
		}
	}
	return ""
}
