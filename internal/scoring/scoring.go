// Package scoring combines the per-resume signals into one match score and
// builds the explanation shown next to it.
package scoring

import (
	"math"

	"github.com/spigell/cv-screener/internal/ai"
)

// Weights of the composite score. They should sum to 1.
type Weights struct {
	Coverage   float64 `mapstructure:"coverage"`
	Experience float64 `mapstructure:"experience"`
	Education  float64 `mapstructure:"education"`
	Model      float64 `mapstructure:"model"`
}

func DefaultWeights() Weights {
	return Weights{Coverage: 0.55, Experience: 0.25, Education: 0.10, Model: 0.10}
}

func (w Weights) isZero() bool {
	return w == Weights{}
}

// Signals are the inputs of one composite score.
type Signals struct {
	Coverage     float64
	Years        float64
	MinYears     *float64
	EducationFit float64
	ModelScore   ai.Value[float64]
	DomainMatch  bool
	// Similarity is reported in the breakdown only.
	Similarity float64
}

// Breakdown keeps every component so a zeroed score stays explainable.
type Breakdown struct {
	Coverage      float64 `json:"coverage"`
	ExperienceFit float64 `json:"experience_fit"`
	EducationFit  float64 `json:"education_fit"`
	ModelGrade    float64 `json:"model_grade"`
	Similarity    float64 `json:"similarity"`
	Overall       float64 `json:"overall"`
}

type Score struct {
	MatchScore        int       `json:"match_score"`
	SkillsEvidencePct int       `json:"skills_evidence_pct"`
	DomainMismatch    bool      `json:"domain_mismatch"`
	Breakdown         Breakdown `json:"breakdown"`
}

// Compute applies the weights and the domain override. A zero Weights value
// means DefaultWeights.
func Compute(s Signals, w Weights) Score {
	if w.isZero() {
		w = DefaultWeights()
	}

	b := Breakdown{
		Coverage:      clamp01(s.Coverage),
		ExperienceFit: ExperienceFit(s.Years, s.MinYears),
		EducationFit:  clamp01(s.EducationFit),
		ModelGrade:    ModelGradeNorm(s.ModelScore),
		Similarity:    round2(clamp01(s.Similarity)),
	}
	b.Overall = w.Coverage*b.Coverage + w.Experience*b.ExperienceFit + w.Education*b.EducationFit + w.Model*b.ModelGrade
	if !s.DomainMatch {
		b.Overall = 0
	}
	b.Overall = round2(clamp01(b.Overall))

	return Score{
		MatchScore:        percent(b.Overall),
		SkillsEvidencePct: percent(b.Coverage),
		DomainMismatch:    !s.DomainMatch,
		Breakdown:         b,
	}
}

// ExperienceFit is years/minYears clamped to [0,1]; without a minimum it is 1.
func ExperienceFit(years float64, minYears *float64) float64 {
	if minYears == nil {
		return 1
	}
	return clamp01(years / math.Max(0.1, *minYears))
}

// ModelGradeNorm maps a 0-100 model score to [0,1]. Scores already in [0,1]
// are taken as fractions. Missing or invalid scores count as 0.
func ModelGradeNorm(score ai.Value[float64]) float64 {
	v, ok := score.Get()
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	if v <= 1 {
		return v
	}
	return clamp01(v / 100)
}

func percent(v float64) int {
	return int(math.Round(100 * clamp01(v)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
