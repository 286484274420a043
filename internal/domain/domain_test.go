package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	payrollTitle = "Senior Payroll Specialist"
	payrollJD    = `Run end-to-end payroll in ADP for 400 employees. Own payroll compliance,
payroll tax filings and garnishments. Partner with HR on onboarding. ADP Workforce Now required.`
)

func TestInferWeightsTitle(t *testing.T) {
	t.Parallel()

	tokens := Infer(payrollTitle, payrollJD, DefaultConfig())

	require.NotEmpty(t, tokens)
	assert.LessOrEqual(t, len(tokens), 8)
	assert.Equal(t, "payroll", tokens[0])
	assert.Contains(t, tokens, "specialist")
	assert.Contains(t, tokens, "adp")
	assert.NotContains(t, tokens, "senior")
}

func TestInferIsIndependentAndDeterministic(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Infer(payrollTitle, payrollJD, Config{}), Infer(payrollTitle, payrollJD, DefaultConfig()))
	assert.Empty(t, Infer("", "", DefaultConfig()))
}

func TestRequired(t *testing.T) {
	t.Parallel()

	gate := NewGate(DefaultConfig())
	tests := []struct {
		n    int
		want int
	}{
		{n: 0, want: 0},
		{n: 1, want: 1},
		{n: 3, want: 1},
		{n: 4, want: 2},
		{n: 8, want: 3},
		{n: 10, want: 3},
		{n: 11, want: 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gate.Required(tt.n), "n=%d", tt.n)
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	gate := NewGate(DefaultConfig())
	tokens := Infer(payrollTitle, payrollJD, DefaultConfig())

	match := gate.Check("Payroll Specialist at Acme. Processed bi-weekly payrolls in ADP; compliance audits.", tokens)
	assert.True(t, match.Match)
	assert.GreaterOrEqual(t, len(match.Hits), match.Required)

	mismatch := gate.Check("Backend engineer. Go, Kubernetes, gRPC, PostgreSQL.", tokens)
	assert.False(t, mismatch.Match)
	assert.Empty(t, mismatch.Hits)

	assert.True(t, gate.Check("anything", nil).Match)
}

func TestCheckSmallSetNeedsOneHit(t *testing.T) {
	t.Parallel()

	gate := NewGate(DefaultConfig())
	d := gate.Check("Certified nurse, ICU.", []string{"nurse", "icu", "pediatrics"})
	assert.True(t, d.Match)
	assert.Equal(t, 1, d.Required)
}
