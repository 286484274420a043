// Package requirements derives the must-have and nice-to-have requirement set
// of a job description.
package requirements

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/ai"
	"github.com/spigell/cv-screener/internal/logger"
	"github.com/spigell/cv-screener/internal/textnorm"
)

const (
	MaxMust = 10
	MaxNice = 8

	// fallbackPhrases is how many frequent JD phrases the fallback keeps.
	fallbackPhrases = MaxMust + MaxNice
)

// Source tells where a requirement set came from.
type Source string

const (
	SourceModel     Source = "model"
	SourceFrequency Source = "frequency"
	SourceWords     Source = "words"
)

// Item is one requirement with its lower-cased synonym variants.
// Synonyms always include Name.
type Item struct {
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms"`
}

// Set is the requirement set of one job. It is read-only once built.
type Set struct {
	Must   []Item `json:"must"`
	Nice   []Item `json:"nice"`
	Source Source `json:"source"`
}

// Names returns the canonical names of items.
func Names(items []Item) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

type Extractor struct {
	suggester ai.RequirementSuggester
	timeout   time.Duration
	logger    *zap.Logger
}

// NewExtractor builds an extractor. suggester may be nil.
func NewExtractor(suggester ai.RequirementSuggester, timeout time.Duration, log *zap.Logger) *Extractor {
	return &Extractor{
		suggester: suggester,
		timeout:   timeout,
		logger:    logger.WithFields(log, zap.String(logger.FieldCollaborator, "requirements")),
	}
}

// Extract never fails: model suggestions are used when available, otherwise
// the most frequent JD phrases, otherwise the JD words themselves.
func (e *Extractor) Extract(ctx context.Context, title, description string) Set {
	if e.suggester != nil {
		if set, ok := e.fromModel(ctx, title, description); ok {
			return set
		}
	}
	return Fallback(title, description)
}

func (e *Extractor) fromModel(ctx context.Context, title, description string) (Set, bool) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	suggestion, err := e.suggester.SuggestRequirements(ctx, title, description)
	if err != nil {
		e.logger.Warn("requirement suggestion failed, using frequency fallback", zap.Error(err))
		return Set{}, false
	}
	if suggestion == nil {
		return Set{}, false
	}

	set := Normalize(fromCompetencies(suggestion.Must, MaxMust), fromCompetencies(suggestion.Nice, MaxNice))
	if len(set.Must) == 0 {
		e.logger.Warn("requirement suggestion had no usable must items, using frequency fallback")
		return Set{}, false
	}
	set.Source = SourceModel

	e.logger.Debug("requirements suggested by model",
		zap.Strings("must", Names(set.Must)),
		zap.Strings("nice", Names(set.Nice)),
	)
	return set, true
}

func fromCompetencies(list []ai.Competency, limit int) []Item {
	items := make([]Item, 0, len(list))
	for _, c := range list {
		if len(items) >= limit {
			break
		}
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		items = append(items, Item{Name: c.Name, Synonyms: c.Synonyms})
	}
	return items
}

// Fallback builds the requirement set from phrase frequency in the JD.
// Repeated phrases of two or three words compete with single words; phrases
// seen once are only kept as single words.
func Fallback(title, description string) Set {
	tokens := textnorm.Tokens(title + "\n" + description)
	phrases := textnorm.Phrases(tokens, textnorm.MaxPhraseSize)
	textnorm.SortPhrases(phrases)

	names := make([]string, 0, fallbackPhrases)
	for _, p := range phrases {
		if len(names) >= fallbackPhrases {
			break
		}
		if p.Size > 1 && p.Count < 2 {
			continue
		}
		names = append(names, p.Text)
	}

	if len(names) > 0 {
		must := names[:min(MaxMust, len(names))]
		nice := names[len(must):]
		set := Normalize(toItems(must), toItems(nice))
		set.Source = SourceFrequency
		return set
	}

	// Only stop-words or one-letter tokens: fall back to the raw words.
	words := strings.Fields(textnorm.Normalize(title + " " + description))
	set := Normalize(toItems(uniqueLimit(words, MaxMust)), nil)
	set.Source = SourceWords
	return set
}

func toItems(names []string) []Item {
	items := make([]Item, 0, len(names))
	for _, n := range names {
		items = append(items, Item{Name: n})
	}
	return items
}

func uniqueLimit(words []string, limit int) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, limit)
	for _, w := range words {
		if len(out) >= limit {
			break
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Normalize lower-cases and deduplicates names and synonyms, expands every
// item with Synonyms and drops nice items already listed as must.
func Normalize(must, nice []Item) Set {
	seen := make(map[string]struct{})
	return Set{
		Must: normalizeTier(must, seen),
		Nice: normalizeTier(nice, seen),
	}
}

func normalizeTier(items []Item, seen map[string]struct{}) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		name := cleanName(it.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		synonyms := Synonyms(name)
		known := make(map[string]struct{}, len(synonyms))
		for _, s := range synonyms {
			known[s] = struct{}{}
		}
		for _, extra := range it.Synonyms {
			for _, s := range Synonyms(extra) {
				if _, ok := known[s]; ok {
					continue
				}
				known[s] = struct{}{}
				synonyms = append(synonyms, s)
			}
		}

		out = append(out, Item{Name: name, Synonyms: synonyms})
	}
	return out
}
