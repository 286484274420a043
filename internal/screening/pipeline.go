package screening

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/ai"
	"github.com/spigell/cv-screener/internal/education"
	"github.com/spigell/cv-screener/internal/evidence"
	"github.com/spigell/cv-screener/internal/logger"
	"github.com/spigell/cv-screener/internal/scoring"
	"github.com/spigell/cv-screener/internal/textnorm"
	"github.com/spigell/cv-screener/internal/utils"
)

const (
	collaboratorProfile = "profile"
	collaboratorGrade   = "grade"

	logPreviewLimit = 200
)

var errNoText = errors.New("no text could be extracted")

// evaluate is the per-resume pipeline. Only extraction failures are returned;
// collaborator failures degrade to heuristic-only values.
func (e *Engine) evaluate(ctx context.Context, b *batch, file File, log *zap.Logger) (*Candidate, error) {
	text, err := e.deps.Extractor.Extract(ctx, file.Data, file.Name)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, errNoText
	}
	log.Debug("resume text extracted",
		zap.Int("runes", len([]rune(text))),
		zap.String("preview", utils.TruncateForLog(text, logPreviewLimit)),
	)

	decision := e.domainGate.Check(text, b.tokens)
	ev := evidence.Score(text, b.set)

	profile := e.extractProfile(ctx, text, log)
	var grade *ai.Grade
	if decision.Match {
		grade = e.grade(ctx, b.jobText, text, log)
	}

	var gradeYears, gradeScore ai.Value[float64]
	var gradeEducation ai.Value[string]
	var gradeSkills []string
	if grade != nil {
		gradeYears = grade.YearsExperienceEstimate
		gradeScore = grade.Score
		gradeEducation = grade.EducationSummary
		gradeSkills = grade.MatchedSkills
	}

	exp := e.estimator.Resolve(text, profile.YearsExperience, gradeYears)

	educationText := education.Summary(profile.Education)
	if educationText == "" {
		educationText = gradeEducation.Or("")
	}
	if strings.TrimSpace(educationText) == "" {
		educationText = education.FindInText(text)
	}

	score := scoring.Compute(scoring.Signals{
		Coverage:     ev.Coverage,
		Years:        exp.Years,
		MinYears:     b.job.MinYearsExperience,
		EducationFit: education.Fit(b.job.EducationLevel, educationText),
		ModelScore:   gradeScore,
		DomainMatch:  decision.Match,
		Similarity:   textnorm.Cosine(b.jobBag, textnorm.NewBag(text)),
	}, e.cfg.Weights)

	skills := utils.AppendUnique(nil, profile.Skills...)
	skills = utils.AppendUnique(skills, gradeSkills...)
	skills = utils.AppendUnique(skills, ev.Matched...)
	if skills == nil {
		skills = []string{}
	}

	log.Info("resume scored",
		zap.Int("match_score", score.MatchScore),
		zap.Int("skills_evidence_pct", score.SkillsEvidencePct),
		zap.Bool("domain_mismatch", score.DomainMismatch),
		zap.Float64("years", exp.Years),
		zap.String("experience_source", string(exp.Source)),
	)

	return &Candidate{
		File:              file.Name,
		Name:              profile.Name.Or(""),
		Email:             profile.Email.Or(""),
		Phone:             profile.Phone.Or(""),
		Location:          profile.Location.Or(""),
		Headline:          profile.Headline.Or(""),
		Summary:           profile.Summary.Or(""),
		YearsExperience:   exp.Years,
		ExperienceSource:  exp.Source,
		EducationLabel:    education.Label(educationText),
		Skills:            skills,
		MatchScore:        score.MatchScore,
		SkillsEvidencePct: score.SkillsEvidencePct,
		DomainMismatch:    score.DomainMismatch,
		DomainHits:        nonNil(decision.Hits),
		Breakdown:         score.Breakdown,
		Missing:           nonNil(ev.Missing),
		Narrative:         scoring.BuildNarrative(ev, grade, decision.Match),
	}, nil
}

// extractProfile never returns nil; failures yield an empty profile.
func (e *Engine) extractProfile(ctx context.Context, text string, log *zap.Logger) *ai.Profile {
	if e.deps.Profiles == nil {
		return &ai.Profile{}
	}
	ctx, cancel := context.WithTimeout(ctx, e.cfg.CollaboratorTimeout)
	defer cancel()

	profile, err := e.deps.Profiles.ExtractProfile(ctx, text)
	if err != nil || profile == nil {
		e.collaboratorFailed(log, collaboratorProfile, err)
		return &ai.Profile{}
	}
	return profile
}

// grade returns nil when grading is unavailable or failed.
func (e *Engine) grade(ctx context.Context, jobText, text string, log *zap.Logger) *ai.Grade {
	if e.deps.Grader == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, e.cfg.CollaboratorTimeout)
	defer cancel()

	grade, err := e.deps.Grader.Grade(ctx, jobText, text)
	if err != nil || grade == nil {
		e.collaboratorFailed(log, collaboratorGrade, err)
		return nil
	}
	return grade
}

func (e *Engine) collaboratorFailed(log *zap.Logger, name string, err error) {
	if err == nil {
		err = errors.New("empty response")
	}
	e.deps.Metrics.CollaboratorFailed(name)
	logger.WithFields(log, zap.String(logger.FieldCollaborator, name)).
		Warn("collaborator unavailable; using heuristic values", zap.Error(err), zap.Bool("timeout", errors.Is(err, context.DeadlineExceeded)))
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
