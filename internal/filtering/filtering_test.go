package filtering

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/cv-screener/internal/screening"
)

func candidates() []screening.Candidate {
	return []screening.Candidate{
		{File: "anna.pdf", MatchScore: 91, YearsExperience: 6},
		{File: "boris.docx", MatchScore: 74, YearsExperience: 2.5},
		{File: "clara.txt", MatchScore: 40, YearsExperience: 10},
		{File: "dan.pdf", MatchScore: 0, YearsExperience: 8, DomainMismatch: true},
	}
}

func files(cs []screening.Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.File)
	}
	return out
}

func TestRunDefaultsKeepEverything(t *testing.T) {
	t.Parallel()

	in := candidates()
	out, err := Run(context.Background(), &Config{}, Deps{}, Default(), in)
	require.NoError(t, err)
	assert.Equal(t, files(in), files(out))
}

func TestRunChain(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	cfg := &Config{MinScore: 30, MinYears: 3, DropMismatched: true}

	in := candidates()
	out, err := Run(context.Background(), cfg, Deps{Logger: zap.New(core)}, Default(), in)
	require.NoError(t, err)
	assert.Equal(t, []string{"anna.pdf", "clara.txt"}, files(out))
	assert.Len(t, in, 4, "input must not be modified")

	steps := logs.FilterMessage("filter step").All()
	require.Len(t, steps, len(Default()))
	assert.Equal(t, "domain_mismatch", steps[0].ContextMap()["name"])
	assert.EqualValues(t, 1, steps[0].ContextMap()["dropped"])
}

func TestRunTop(t *testing.T) {
	t.Parallel()

	out, err := Run(context.Background(), &Config{Top: 2}, Deps{}, Default(), candidates())
	require.NoError(t, err)
	assert.Equal(t, []string{"anna.pdf", "boris.docx"}, files(out))
}

func TestRunValidation(t *testing.T) {
	t.Parallel()

	for name, cfg := range map[string]*Config{
		"score above range": {MinScore: 101},
		"negative years":    {MinYears: -1},
		"negative top":      {Top: -3},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Run(context.Background(), cfg, Deps{}, Default(), candidates())
			require.Error(t, err)
		})
	}
}

func TestDisableByName(t *testing.T) {
	t.Parallel()

	steps := Default()
	DisableByName(steps, "min_score", "requested")

	out, err := Run(context.Background(), &Config{MinScore: 90}, Deps{}, steps, candidates())
	require.NoError(t, err)
	assert.Len(t, out, 4)

	for _, status := range Describe(steps) {
		if status.Name == "min_score" {
			assert.False(t, status.Enabled)
			assert.Equal(t, "requested", status.Reason)
		}
	}
}

func TestExcludeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "exclude.txt")
	require.NoError(t, os.WriteFile(path, []byte("# already interviewed\nboris.docx\n\n  clara.txt  \n"), 0o600))

	out, err := Run(context.Background(), &Config{ExcludeFile: path}, Deps{}, Default(), candidates())
	require.NoError(t, err)
	assert.Equal(t, []string{"anna.pdf", "dan.pdf"}, files(out))

	missing := filepath.Join(t.TempDir(), "absent.txt")
	out, err = Run(context.Background(), &Config{ExcludeFile: missing}, Deps{}, Default(), candidates())
	require.NoError(t, err)
	assert.Len(t, out, 4)
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, &Config{}, Deps{}, Default(), candidates())
	require.ErrorIs(t, err, context.Canceled)
}
