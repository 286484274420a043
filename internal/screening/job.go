package screening

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/spigell/cv-screener/internal/domain"
	"github.com/spigell/cv-screener/internal/scoring"
)

const DefaultMaxFiles = 100

// ErrInvalidInput is returned before any pipeline runs.
var ErrInvalidInput = errors.New("invalid input")

// Job is the requirement every resume of a batch is screened against.
type Job struct {
	Title              string   `json:"title" validate:"max=300"`
	Description        string   `json:"description" validate:"required,nonblank,hasword"`
	MinYearsExperience *float64 `json:"min_years_experience,omitempty" validate:"omitempty,gte=0,lte=60"`
	EducationLevel     string   `json:"education_level,omitempty" validate:"max=200"`
}

// Text is the job as one block for collaborators that take free text.
func (j Job) Text() string {
	if strings.TrimSpace(j.Title) == "" {
		return j.Description
	}
	return j.Title + "\n\n" + j.Description
}

// File is one submitted resume.
type File struct {
	Name string `validate:"required"`
	Data []byte
}

// Config tunes an Engine. Zero values fall back to the defaults.
type Config struct {
	MaxFiles            int             `mapstructure:"max-files"`
	CollaboratorTimeout time.Duration   `mapstructure:"collaborator-timeout"`
	RequirementsTimeout time.Duration   `mapstructure:"requirements-timeout"`
	Domain              domain.Config   `mapstructure:"domain"`
	Weights             scoring.Weights `mapstructure:"weights"`
}

const defaultCollaboratorTimeout = 45 * time.Second

func (c Config) withDefaults() Config {
	if c.MaxFiles <= 0 {
		c.MaxFiles = DefaultMaxFiles
	}
	if c.CollaboratorTimeout <= 0 {
		c.CollaboratorTimeout = defaultCollaboratorTimeout
	}
	if c.RequirementsTimeout <= 0 {
		c.RequirementsTimeout = c.CollaboratorTimeout
	}
	return c
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// A description without a single letter or digit yields no requirements.
	_ = v.RegisterValidation("hasword", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) >= 0
	})
	return v
}

func (e *Engine) validate(job Job, files []File) error {
	if err := e.validator.Struct(job); err != nil {
		return fmt.Errorf("%w: job: %s", ErrInvalidInput, describeValidation(err))
	}
	switch {
	case len(files) == 0:
		return fmt.Errorf("%w: no resume files", ErrInvalidInput)
	case len(files) > e.cfg.MaxFiles:
		return fmt.Errorf("%w: %d files exceed the batch limit of %d", ErrInvalidInput, len(files), e.cfg.MaxFiles)
	}
	for i, f := range files {
		if err := e.validator.Struct(f); err != nil {
			return fmt.Errorf("%w: file #%d %q: %s", ErrInvalidInput, i+1, f.Name, describeValidation(err))
		}
	}
	return nil
}

func describeValidation(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return fmt.Sprintf("%s failed %q", strings.ToLower(ve[0].Field()), ve[0].Tag())
	}
	return err.Error()
}
