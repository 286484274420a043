package gemini

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/ai"
	"github.com/spigell/cv-screener/internal/logger"
	"github.com/spigell/cv-screener/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

var (
	//go:embed prompts/profile.md
	profilePrompt string
	//go:embed prompts/grade.md
	gradePrompt string
	//go:embed prompts/requirements.md
	requirementsPrompt string
)

const (
	defaultMaxLogLength = 200
	maxInputRunes       = 24000
)

// Assistant implements the optional model collaborators on top of a
// content generator.
type Assistant struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var (
	_ ai.ProfileExtractor     = (*Assistant)(nil)
	_ ai.Grader               = (*Assistant)(nil)
	_ ai.RequirementSuggester = (*Assistant)(nil)
)

func NewAssistant(generator contentGenerator, log *zap.Logger, maxLogLength int) *Assistant {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	model := ""
	if generator != nil {
		model = generator.Model()
	}
	return &Assistant{
		generator: generator,
		logger:    logger.WithCommonFields(log, Provider, model),
		maxLogLen: maxLogLength,
	}
}

func (a *Assistant) ExtractProfile(ctx context.Context, resumeText string) (*ai.Profile, error) {
	message := section("Resume", resumeText)

	var payload profilePayload
	if _, err := a.ask(ctx, "profile", profilePrompt, message, profileSchemaLoader, &payload); err != nil {
		return nil, err
	}
	return payload.toProfile(), nil
}

func (a *Assistant) Grade(ctx context.Context, jobText, resumeText string) (*ai.Grade, error) {
	message := section("Job description", jobText) + "\n\n" + section("Resume", resumeText)

	var payload gradePayload
	raw, err := a.ask(ctx, "grade", gradePrompt, message, gradeSchemaLoader, &payload)
	if err != nil {
		return nil, err
	}
	return payload.toGrade(raw), nil
}

func (a *Assistant) SuggestRequirements(ctx context.Context, title, description string) (*ai.RequirementSuggestion, error) {
	message := section("Job title", title) + "\n\n" + section("Job description", description)

	var payload requirementsPayload
	if _, err := a.ask(ctx, "requirements", requirementsPrompt, message, requirementsSchemaLoader, &payload); err != nil {
		return nil, err
	}
	return payload.toSuggestion(), nil
}

func (a *Assistant) ask(ctx context.Context, kind, system, message string, schema gojsonschema.JSONLoader, out any) (string, error) {
	if a == nil || a.generator == nil {
		return "", fmt.Errorf("%s: gemini assistant is not initialized", kind)
	}

	a.logger.Debug("gemini generate content request",
		zap.String(logger.FieldCollaborator, kind),
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, system, message)
	if err != nil {
		return "", fmt.Errorf("%s: %w", kind, err)
	}

	a.logger.Debug("gemini generate content response",
		zap.String(logger.FieldCollaborator, kind),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	if err := decodeResponse(raw, schema, out); err != nil {
		return raw, fmt.Errorf("%s: %w", kind, err)
	}
	return raw, nil
}

// section wraps text in a labelled block, clipped to maxInputRunes.
func section(label, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "(empty)"
	}
	if utf8.RuneCountInString(text) > maxInputRunes {
		text = string([]rune(text)[:maxInputRunes])
	}
	return fmt.Sprintf("[%s]\n%s\n[/%s]", label, text, label)
}
