// Package experience estimates total work experience from resume text.
package experience

import (
	"math"
	"time"

	"github.com/spigell/cv-screener/internal/ai"
)

const MaxYears = 40

// Source tells where an estimate came from.
type Source string

const (
	SourceModel    Source = "model"
	SourcePeriods  Source = "periods"
	SourceExplicit Source = "explicit"
	SourceNone     Source = "none"
)

// Estimate is the experience figure reported for a candidate.
type Estimate struct {
	Years   float64  `json:"years"`
	Source  Source   `json:"source"`
	Periods []Period `json:"periods,omitempty"`
}

// Estimator computes experience with an injectable clock.
type Estimator struct {
	Now func() time.Time
}

func NewEstimator() *Estimator {
	return &Estimator{Now: time.Now}
}

// FromText estimates years from date ranges in text, falling back to an
// explicit "<n> years" mention when no range is found.
func (e *Estimator) FromText(text string) Estimate {
	now := time.Now
	if e != nil && e.Now != nil {
		now = e.Now
	}

	periods := Merge(NewParser(now()).Periods(text))
	if len(periods) > 0 {
		return Estimate{
			Years:   normalizeYears(float64(TotalMonths(periods)) / 12),
			Source:  SourcePeriods,
			Periods: periods,
		}
	}

	if years, ok := ExplicitYears(text); ok {
		return Estimate{Years: normalizeYears(years), Source: SourceExplicit}
	}
	return Estimate{Source: SourceNone}
}

// Resolve prefers a finite positive model figure over the text estimate.
// Profile extraction is checked before the grading estimate.
func (e *Estimator) Resolve(text string, profileYears, gradeYears ai.Value[float64]) Estimate {
	for _, v := range []ai.Value[float64]{profileYears, gradeYears} {
		if years, ok := ai.PreferPositive(v, 0); ok {
			return Estimate{Years: normalizeYears(years), Source: SourceModel}
		}
	}
	return e.FromText(text)
}

// normalizeYears clamps to [0, MaxYears], rounds to whole months and reports
// two decimals.
func normalizeYears(years float64) float64 {
	if math.IsNaN(years) || years < 0 {
		return 0
	}
	years = math.Min(years, MaxYears)
	months := math.Round(years * 12)
	return math.Round(months/12*100) / 100
}
