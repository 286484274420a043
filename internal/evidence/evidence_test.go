package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/cv-screener/internal/requirements"
	"github.com/spigell/cv-screener/internal/textnorm"
)

func TestWithinOneSubstitution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		term string
		want bool
	}{
		{name: "exact", text: "kubernetes admin", term: "kubernetes", want: true},
		{name: "one substitution", text: "kubernetas admin", term: "kubernetes", want: true},
		{name: "two substitutions", text: "kubarnetas admin", term: "kubernetes", want: false},
		{name: "deletion is not tolerated", text: "kubrnetes", term: "kubernetes", want: false},
		{name: "term longer than text", text: "go", term: "golang", want: false},
		{name: "empty term", text: "anything", term: "", want: true},
		{name: "unicode runes", text: "gestión nómina", term: "nomina", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, WithinOneSubstitution(tt.text, tt.term))
		})
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	text := textnorm.Normalize("Built React/TypeScript UIs; managed payrol for 200 staff. JS tooling.")

	assert.True(t, Match(text, "js"), "short term on token boundary")
	assert.False(t, Match(text, "ui"), "short term inside a word is not a match")
	assert.True(t, Match(text, "typescript"))
	assert.True(t, Match(text, "payroll"[:6]), "substring for 4+ runes")
	assert.True(t, Match(text, "payrel"), "one substitution for 5+ runes")
	assert.False(t, Match(text, "pyroll"), "deletions are not tolerated")
	assert.False(t, Match(text, "stuf"), "4 runes is too short for a substitution")
	assert.False(t, Match(text, ""))
	assert.False(t, Match("", "react"))
}

func TestMatchLengthFloors(t *testing.T) {
	t.Parallel()

	text := textnorm.Normalize("Senior accountant, react native apps")

	assert.False(t, Match(text, "act"), "3 runes never match inside a word")
	assert.True(t, Match(text, "coun"), "4 runes match as a substring")
	assert.False(t, Match(text, "coon"), "4 runes get no substitution")
	assert.True(t, Match(text, "nitive"[:5]), "5 runes get one substitution")
	assert.True(t, Match(text, "senior"))
}

func TestCoverageBounds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, Coverage(0, 0, 0, 0))
	assert.Equal(t, 0.75, Coverage(0, 0, 0, 3), "empty must tier counts as covered")
	assert.Equal(t, 0.0, Coverage(0, 4, 0, 0))
	assert.Equal(t, 0.75, Coverage(4, 4, 0, 0))
	assert.InDelta(t, 0.75*0.5+0.25*(2.0/3.0), Coverage(2, 4, 2, 3), 1e-9)

	for must := 1; must <= 5; must++ {
		for mm := 0; mm <= must; mm++ {
			for nice := 0; nice <= 4; nice++ {
				for nm := 0; nm <= nice; nm++ {
					c := Coverage(mm, must, nm, nice)
					assert.GreaterOrEqual(t, c, 0.0)
					assert.LessOrEqual(t, c, 1.0)
				}
			}
		}
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	set := requirements.Normalize(
		[]requirements.Item{{Name: "ADP"}, {Name: "payroll compliance"}, {Name: "garnishments"}, {Name: "Workday"}},
		[]requirements.Item{{Name: "Excel"}, {Name: "SAP"}},
	)

	res := Score("Payroll lead: ADP processing, payroll-compliance audits, wage garnishment handling, advanced Excel.", set)

	assert.Equal(t, 3, res.MustMatched)
	assert.Equal(t, 1, res.NiceMatched)
	assert.Equal(t, []string{"adp", "payroll compliance", "garnishments", "excel"}, res.Matched)
	assert.Equal(t, []string{"workday"}, res.Missing)
	assert.InDelta(t, 0.75*0.75+0.25*0.5, res.Coverage, 1e-9)
}

func TestScoreMissingExcludesNiceItems(t *testing.T) {
	t.Parallel()

	set := requirements.Normalize([]requirements.Item{{Name: "kubernetes"}}, []requirements.Item{{Name: "terraform"}})
	res := Score("nothing relevant here", set)

	assert.Equal(t, []string{"kubernetes"}, res.Missing)
	assert.Empty(t, res.Matched)
	assert.Zero(t, res.Coverage)
}

func TestScoreMonotonicInSynonyms(t *testing.T) {
	t.Parallel()

	resume := "Maintained K8s clusters and wrote Helm charts."
	base := requirements.Set{Must: []requirements.Item{{Name: "container orchestration", Synonyms: []string{"container orchestration"}}}}
	before := Score(resume, base)

	extended := requirements.Set{Must: []requirements.Item{{
		Name:     "container orchestration",
		Synonyms: []string{"container orchestration", "k8s"},
	}}}
	after := Score(resume, extended)

	require.GreaterOrEqual(t, after.Coverage, before.Coverage)
	assert.Equal(t, 0.75, after.Coverage)
	assert.Empty(t, after.Missing)
}
