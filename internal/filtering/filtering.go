// Package filtering narrows a ranked candidate list down to a shortlist.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/screening"
)

// Filter represents a single filtering step applied to candidates.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, candidates []screening.Candidate) ([]screening.Candidate, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains the shortlist settings consumed by the filters.
type Config struct {
	MinScore       int     `mapstructure:"min-score"`
	MinYears       float64 `mapstructure:"min-years"`
	DropMismatched bool    `mapstructure:"drop-mismatched"`
	ExcludeFile    string  `mapstructure:"exclude-file"`
	Top            int     `mapstructure:"top"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Default returns the standard chain. Order matters: top is applied last.
func Default() []Filter {
	return []Filter{
		NewDomainMismatch(),
		NewMinScore(),
		NewMinYears(),
		NewExcludeFile(),
		NewTop(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially. The input slice is not
// modified and the relative order of candidates is preserved.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, candidates []screening.Candidate) ([]screening.Candidate, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	left := append([]screening.Candidate(nil), candidates...)
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Debug("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, left)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		left = next
	}

	return left, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep returns the candidates for which pred holds along with the dropped files.
func keep(candidates []screening.Candidate, pred func(screening.Candidate) bool) ([]screening.Candidate, []string, Step) {
	kept := make([]screening.Candidate, 0, len(candidates))
	var dropped []string
	for _, c := range candidates {
		if pred(c) {
			kept = append(kept, c)
			continue
		}
		dropped = append(dropped, c.File)
	}
	return kept, dropped, Step{Initial: len(candidates), Dropped: len(dropped), Left: len(kept)}
}
