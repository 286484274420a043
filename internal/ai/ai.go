// Package ai defines the optional language-model collaborators used by the
// screening engine. Every collaborator output field is optional.
package ai

import "context"

// Education is one education entry reported by a profile extraction.
type Education struct {
	Degree      Value[string]
	Field       Value[string]
	Institution Value[string]
}

// Profile is the structured view of a resume returned by a ProfileExtractor.
type Profile struct {
	Name            Value[string]
	Email           Value[string]
	Phone           Value[string]
	Location        Value[string]
	Headline        Value[string]
	Summary         Value[string]
	Skills          []string
	YearsExperience Value[float64]
	Education       []Education
}

// Grade is a model judgement of one resume against one job.
type Grade struct {
	// Score is on a 0-100 scale.
	Score                   Value[float64]
	MatchedSkills           []string
	Strengths               []string
	Weaknesses              []string
	Questions               []string
	YearsExperienceEstimate Value[float64]
	EducationSummary        Value[string]
	Raw                     string
}

// Competency is a requirement name with its alternative spellings.
type Competency struct {
	Name     string
	Synonyms []string
}

// RequirementSuggestion is the model-proposed requirement set for a job.
type RequirementSuggestion struct {
	Must []Competency
	Nice []Competency
}

type ProfileExtractor interface {
	ExtractProfile(ctx context.Context, resumeText string) (*Profile, error)
}

type Grader interface {
	Grade(ctx context.Context, jobText, resumeText string) (*Grade, error)
}

type RequirementSuggester interface {
	SuggestRequirements(ctx context.Context, title, description string) (*RequirementSuggestion, error)
}
