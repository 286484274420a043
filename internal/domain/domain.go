// Package domain infers the topical tokens of a job and gates resumes whose
// vocabulary does not belong to that field.
package domain

import (
	"math"
	"strings"

	"github.com/spigell/cv-screener/internal/textnorm"
)

// Config holds the tunable gate constants.
type Config struct {
	// TokenLimit caps the number of inferred domain tokens.
	TokenLimit int `mapstructure:"token-limit"`
	// TitleWeight multiplies the counts of phrases found in the job title.
	TitleWeight int `mapstructure:"title-weight"`
	// SmallSetSize is the largest token set that needs a single hit.
	SmallSetSize int `mapstructure:"small-set-size"`
	// MinHitRatio is the fraction of tokens larger sets must hit (rounded up).
	MinHitRatio float64 `mapstructure:"min-hit-ratio"`
}

// DefaultConfig: 8 tokens, title x3, one hit for up to 3 tokens, else 30%.
func DefaultConfig() Config {
	return Config{
		TokenLimit:   8,
		TitleWeight:  3,
		SmallSetSize: 3,
		MinHitRatio:  0.3,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TokenLimit <= 0 {
		c.TokenLimit = def.TokenLimit
	}
	if c.TitleWeight <= 0 {
		c.TitleWeight = def.TitleWeight
	}
	if c.SmallSetSize <= 0 {
		c.SmallSetSize = def.SmallSetSize
	}
	if c.MinHitRatio <= 0 || c.MinHitRatio > 1 {
		c.MinHitRatio = def.MinHitRatio
	}
	return c
}

// Infer returns the most frequent unigrams and repeated bigrams of the job
// title and description. Title phrases are weighted by Config.TitleWeight.
func Infer(title, description string, cfg Config) []string {
	cfg = cfg.withDefaults()

	titlePhrases := textnorm.Phrases(textnorm.Tokens(title), 2)
	descPhrases := textnorm.Phrases(textnorm.Tokens(description), 2)

	index := make(map[string]int)
	var merged []textnorm.Phrase
	add := func(p textnorm.Phrase, weight, offset int) {
		if idx, ok := index[p.Text]; ok {
			merged[idx].Count += p.Count * weight
			return
		}
		index[p.Text] = len(merged)
		p.Count *= weight
		p.First += offset
		merged = append(merged, p)
	}
	for _, p := range titlePhrases {
		add(p, cfg.TitleWeight, 0)
	}
	offset := len(titlePhrases) + 1
	for _, p := range descPhrases {
		add(p, 1, offset)
	}

	textnorm.SortPhrases(merged)

	tokens := make([]string, 0, cfg.TokenLimit)
	for _, p := range merged {
		if len(tokens) >= cfg.TokenLimit {
			break
		}
		if p.Size > 1 && p.Count < 2 {
			continue
		}
		tokens = append(tokens, p.Text)
	}
	return tokens
}

// Decision is the outcome of a gate check.
type Decision struct {
	Match    bool     `json:"match"`
	Hits     []string `json:"hits"`
	Required int      `json:"required"`
}

type Gate struct {
	cfg Config
}

func NewGate(cfg Config) *Gate {
	return &Gate{cfg: cfg.withDefaults()}
}

// Required returns how many of n domain tokens a resume must contain.
func (g *Gate) Required(n int) int {
	switch {
	case n <= 0:
		return 0
	case n <= g.cfg.SmallSetSize:
		return 1
	default:
		return int(math.Ceil(g.cfg.MinHitRatio*float64(n) - 1e-9))
	}
}

// Check counts domain tokens present in the resume on word boundaries.
// An empty token set always matches.
func (g *Gate) Check(resumeText string, tokens []string) Decision {
	required := g.Required(len(tokens))
	if required == 0 {
		return Decision{Match: true, Required: 0}
	}

	text := textnorm.Normalize(resumeText)
	var hits []string
	for _, tok := range tokens {
		if containsWithPlural(text, textnorm.Normalize(tok)) {
			hits = append(hits, tok)
		}
	}

	return Decision{Match: len(hits) >= required, Hits: hits, Required: required}
}

func containsWithPlural(text, token string) bool {
	if textnorm.ContainsPhrase(text, token) || textnorm.ContainsPhrase(text, token+"s") {
		return true
	}
	if trimmed := strings.TrimSuffix(token, "s"); trimmed != token && len(trimmed) > 2 {
		return textnorm.ContainsPhrase(text, trimmed)
	}
	return false
}
