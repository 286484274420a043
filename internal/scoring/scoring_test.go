package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/cv-screener/internal/ai"
	"github.com/spigell/cv-screener/internal/evidence"
)

func floatPtr(v float64) *float64 { return &v }

func TestExperienceFit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, ExperienceFit(0, nil))
	assert.Equal(t, 0.5, ExperienceFit(2.5, floatPtr(5)))
	assert.Equal(t, 1.0, ExperienceFit(8, floatPtr(5)))
	assert.Equal(t, 1.0, ExperienceFit(0.5, floatPtr(0)), "minimum is floored at 0.1 years")
	assert.Equal(t, 0.0, ExperienceFit(0, floatPtr(3)))
}

func TestModelGradeNorm(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, ModelGradeNorm(ai.None[float64]()))
	assert.Equal(t, 0.8, ModelGradeNorm(ai.Some(80.0)))
	assert.Equal(t, 0.8, ModelGradeNorm(ai.Some(0.8)))
	assert.Equal(t, 1.0, ModelGradeNorm(ai.Some(140.0)))
	assert.Equal(t, 0.0, ModelGradeNorm(ai.Some(-5.0)))
}

func TestComputeComposite(t *testing.T) {
	t.Parallel()

	s := Compute(Signals{
		Coverage:     0.8,
		Years:        6,
		MinYears:     floatPtr(5),
		EducationFit: 0.7,
		ModelScore:   ai.Some(90.0),
		DomainMatch:  true,
	}, Weights{})

	// 0.55*0.8 + 0.25*1 + 0.10*0.7 + 0.10*0.9 = 0.85
	assert.Equal(t, 85, s.MatchScore)
	assert.Equal(t, 80, s.SkillsEvidencePct)
	assert.False(t, s.DomainMismatch)
	assert.InDelta(t, 0.85, s.Breakdown.Overall, 1e-9)
}

func TestComputeDomainMismatchForcesZero(t *testing.T) {
	t.Parallel()

	s := Compute(Signals{
		Coverage:     1,
		Years:        20,
		MinYears:     floatPtr(2),
		EducationFit: 1,
		ModelScore:   ai.Some(100.0),
		DomainMatch:  false,
	}, DefaultWeights())

	assert.Zero(t, s.MatchScore)
	assert.True(t, s.DomainMismatch)
	assert.Equal(t, 100, s.SkillsEvidencePct, "other signals are still reported")
	assert.Equal(t, 1.0, s.Breakdown.ExperienceFit)
	assert.Equal(t, 1.0, s.Breakdown.ModelGrade)
}

func TestComputeBounds(t *testing.T) {
	t.Parallel()

	for _, cov := range []float64{-1, 0, 0.33, 1, 2} {
		for _, edu := range []float64{0, 0.3, 1} {
			s := Compute(Signals{Coverage: cov, EducationFit: edu, Years: 3, DomainMatch: true}, Weights{})
			assert.GreaterOrEqual(t, s.MatchScore, 0)
			assert.LessOrEqual(t, s.MatchScore, 100)
			assert.GreaterOrEqual(t, s.SkillsEvidencePct, 0)
			assert.LessOrEqual(t, s.SkillsEvidencePct, 100)
		}
	}
}

func TestBuildNarrativeWithoutModel(t *testing.T) {
	t.Parallel()

	ev := evidence.Result{
		Matched: []string{"adp", "payroll"},
		Missing: []string{"garnishments", "workday", "sox", "kronos"},
	}

	n := BuildNarrative(ev, nil, true)

	assert.Equal(t, []string{"evidence in resume for: adp, payroll"}, n.Strengths)
	assert.Equal(t, []string{"missing vs JD: garnishments, workday, sox, kronos"}, n.Weaknesses)
	assert.Len(t, n.Gaps, 4)
	assert.Equal(t, `no evidence of "garnishments" in the resume`, n.Gaps[0])
	assert.Equal(t, []string{"ramp-up on garnishments", "ramp-up on workday", "ramp-up on sox"}, n.MentoringNeeds)
	require.Len(t, n.Questions, 3)
	assert.Contains(t, n.Questions[0], "garnishments")
}

func TestBuildNarrativePrefersModelText(t *testing.T) {
	t.Parallel()

	grade := &ai.Grade{
		Strengths:  []string{"  Strong ADP   background ", "", "a", "b", "c", "d", "e", "f"},
		Weaknesses: []string{"No Workday"},
		Questions:  []string{"How did you handle multi-state payroll?"},
	}
	ev := evidence.Result{Matched: []string{"adp"}, Missing: []string{"workday"}}

	n := BuildNarrative(ev, grade, true)

	assert.Len(t, n.Strengths, maxModelItems)
	assert.Equal(t, "Strong ADP background", n.Strengths[0])
	assert.Equal(t, []string{"No Workday", "missing vs JD: workday"}, n.Weaknesses)
	assert.Equal(t, []string{"How did you handle multi-state payroll?"}, n.Questions)
}

func TestBuildNarrativeDomainMismatchHasNoQuestions(t *testing.T) {
	t.Parallel()

	grade := &ai.Grade{Questions: []string{"should be dropped"}}
	ev := evidence.Result{Missing: []string{"payroll"}}

	n := BuildNarrative(ev, grade, false)

	assert.NotNil(t, n.Questions)
	assert.Empty(t, n.Questions)
	assert.Contains(t, n.Weaknesses, "resume vocabulary does not match the job domain")
	assert.Contains(t, n.Weaknesses, "missing vs JD: payroll")
}

func TestBuildNarrativeMissingLineCapsAtEight(t *testing.T) {
	t.Parallel()

	ev := evidence.Result{Missing: []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10"}}
	n := BuildNarrative(ev, nil, true)

	assert.Equal(t, []string{"missing vs JD: a1, a2, a3, a4, a5, a6, a7, a8"}, n.Weaknesses)
	assert.Len(t, n.Gaps, 10)
	assert.Empty(t, n.Strengths)
}
