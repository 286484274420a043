package education

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spigell/cv-screener/internal/ai"
)

func TestMapLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want Level
	}{
		{text: "Ph.D. in Chemistry", want: PhD},
		{text: "Doctor of Philosophy", want: PhD},
		{text: "MSc Computer Science", want: Master},
		{text: "Master's degree in Finance", want: Master},
		{text: "M.S., Statistics", want: Master},
		{text: "Bachelor of Arts", want: Bachelor},
		{text: "B.Sc. Accounting", want: Bachelor},
		{text: "BS in Economics", want: Bachelor},
		{text: "High School Diploma", want: IntermediateOrHighSchool},
		{text: "Intermediate (FSc)", want: IntermediateOrHighSchool},
		{text: "Coursera certificates", want: Unknown},
		{text: "", want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapLevel(tt.text))
		})
	}
}

func TestFit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		required string
		have     string
		want     float64
	}{
		{required: "Master", have: "Bachelor", want: 0.7},
		{required: "PhD", have: "PhD", want: 1.0},
		{required: "", have: "Bachelor", want: 0.7},
		{required: "PhD", have: "Master", want: 0.6},
		{required: "Master", have: "PhD", want: 1.0},
		{required: "Master", have: "High school", want: 0.4},
		{required: "Bachelor", have: "MSc", want: 1.0},
		{required: "Bachelor", have: "", want: 0.5},
		{required: "High school", have: "self-taught", want: 0.7},
		{required: "High school", have: "", want: 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.required+"/"+tt.have, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Fit(tt.required, tt.have))
		})
	}
}

func TestLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Master", Label("MBA, Wharton"))
	assert.Equal(t, "Bootcamp", Label("  Bootcamp "))
	assert.Equal(t, "", Label(""))
}

func TestSummary(t *testing.T) {
	t.Parallel()

	entries := []ai.Education{
		{Degree: ai.Some("BSc"), Field: ai.Some("Accounting"), Institution: ai.Some("State University")},
		{Degree: ai.Some("  "), Institution: ai.Some("Night School")},
		{},
	}
	assert.Equal(t, "BSc, Accounting, State University; Night School", Summary(entries))
}

func TestFindInText(t *testing.T) {
	t.Parallel()

	resume := `Jane Roe
Payroll Specialist with ADP experience
EDUCATION
B.Sc. Accounting, State University, 2012`

	assert.Equal(t, "B.Sc. Accounting, State University, 2012", FindInText(resume))
	assert.Empty(t, FindInText("Senior Payroll Specialist\nMS Excel power user"))
}

func TestMapLevelIgnoresTrailingStateCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want Level
	}{
		{text: "B.S. Computer Science, University of Massachusetts, Amherst, MA", want: Bachelor},
		{text: "Bachelor of Arts, Boston College, Chestnut Hill, MA", want: Bachelor},
		{text: "High School Diploma, Lincoln High School, Boston, MA", want: IntermediateOrHighSchool},
		{text: "Jackson State University, Jackson, MS", want: Unknown},
		{text: "M.A. History, Boston University, Boston, MA", want: Master},
		{text: "MS", want: Master},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapLevel(tt.text))
		})
	}

	assert.Equal(t, 0.7, Fit("Master", "B.S. Computer Science, University of Massachusetts, Amherst, MA"))
	assert.Equal(t, 0.4, Fit("Master", "High School Diploma, Lincoln High School, Boston, MA"))
	assert.Equal(t, "Bachelor of Arts, Boston College, Chestnut Hill, MA",
		FindInText("Jane Roe\nBachelor of Arts, Boston College, Chestnut Hill, MA"))
}
