package filtering

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/screening"
)

// toggle carries the enabled state shared by every filter.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

type domainMismatchFilter struct {
	toggle
	drop bool
}

// NewDomainMismatch creates a filter that removes candidates whose resume
// failed the domain gate. It only acts when drop-mismatched is set.
func NewDomainMismatch() Filter {
	return &domainMismatchFilter{}
}

func (f *domainMismatchFilter) Name() string { return "domain_mismatch" }

func (f *domainMismatchFilter) Validate(cfg *Config) error {
	f.drop = cfg != nil && cfg.DropMismatched
	return nil
}

func (f *domainMismatchFilter) Apply(_ context.Context, deps Deps, candidates []screening.Candidate) ([]screening.Candidate, Step, error) {
	if !f.drop {
		return candidates, Step{Initial: len(candidates), Left: len(candidates)}, nil
	}

	kept, dropped, step := keep(candidates, func(c screening.Candidate) bool { return !c.DomainMismatch })
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding candidates outside the job domain",
			zap.Strings("excluded_files", dropped),
			zap.Int("candidates_left", len(kept)),
		)
	}
	return kept, step, nil
}

func (f *domainMismatchFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"drop": strconv.FormatBool(f.drop)},
	}
}

type minScoreFilter struct {
	toggle
	min int
}

// NewMinScore creates a filter that removes candidates below min-score.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Validate(cfg *Config) error {
	f.min = 0
	if cfg == nil {
		return nil
	}
	if cfg.MinScore < 0 || cfg.MinScore > 100 {
		return fmt.Errorf("min score must be within [0, 100], got %d", cfg.MinScore)
	}
	f.min = cfg.MinScore
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, candidates []screening.Candidate) ([]screening.Candidate, Step, error) {
	kept, dropped, step := keep(candidates, func(c screening.Candidate) bool { return c.MatchScore >= f.min })
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding candidates below the minimum score",
			zap.Int("min_score", f.min),
			zap.Strings("excluded_files", dropped),
		)
	}
	return kept, step, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min_score": strconv.Itoa(f.min)},
	}
}

type minYearsFilter struct {
	toggle
	min float64
}

// NewMinYears creates a filter that removes candidates with less experience than min-years.
func NewMinYears() Filter {
	return &minYearsFilter{}
}

func (f *minYearsFilter) Name() string { return "min_years" }

func (f *minYearsFilter) Validate(cfg *Config) error {
	f.min = 0
	if cfg == nil {
		return nil
	}
	if cfg.MinYears < 0 {
		return fmt.Errorf("min years must not be negative, got %v", cfg.MinYears)
	}
	f.min = cfg.MinYears
	return nil
}

func (f *minYearsFilter) Apply(_ context.Context, deps Deps, candidates []screening.Candidate) ([]screening.Candidate, Step, error) {
	kept, dropped, step := keep(candidates, func(c screening.Candidate) bool { return c.YearsExperience >= f.min })
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding candidates with too little experience",
			zap.Float64("min_years", f.min),
			zap.Strings("excluded_files", dropped),
		)
	}
	return kept, step, nil
}

func (f *minYearsFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min_years": strconv.FormatFloat(f.min, 'f', -1, 64)},
	}
}

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes candidates whose file name is
// listed in the exclude file, one name per line. Lines starting with # are ignored.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, candidates []screening.Candidate) ([]screening.Candidate, Step, error) {
	if f.path == "" {
		return candidates, Step{Initial: len(candidates), Left: len(candidates)}, nil
	}

	excluded, err := readExcluded(f.path)
	if err != nil {
		return nil, Step{}, fmt.Errorf("getting excluded files: %w", err)
	}

	kept, dropped, step := keep(candidates, func(c screening.Candidate) bool { return !excluded[c.File] })
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding candidates based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_files", dropped),
		)
	}
	return kept, step, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

func readExcluded(path string) (map[string]bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]bool{}, nil
		}
		return nil, err
	}
	defer file.Close()

	excluded := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		excluded[line] = true
	}
	return excluded, scanner.Err()
}

type topFilter struct {
	toggle
	n int
}

// NewTop creates a filter that keeps only the first n candidates.
func NewTop() Filter {
	return &topFilter{}
}

func (f *topFilter) Name() string { return "top" }

func (f *topFilter) Validate(cfg *Config) error {
	f.n = 0
	if cfg == nil {
		return nil
	}
	if cfg.Top < 0 {
		return fmt.Errorf("top must not be negative, got %d", cfg.Top)
	}
	f.n = cfg.Top
	return nil
}

func (f *topFilter) Apply(_ context.Context, _ Deps, candidates []screening.Candidate) ([]screening.Candidate, Step, error) {
	if f.n == 0 || len(candidates) <= f.n {
		return candidates, Step{Initial: len(candidates), Left: len(candidates)}, nil
	}
	return candidates[:f.n], Step{Initial: len(candidates), Dropped: len(candidates) - f.n, Left: f.n}, nil
}

func (f *topFilter) Status() Status {
	details := map[string]string{}
	if f.n > 0 {
		details["top"] = strconv.Itoa(f.n)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
