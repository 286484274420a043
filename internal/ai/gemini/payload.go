package gemini

import (
	"reflect"

	"github.com/spigell/cv-screener/internal/ai"
)

var (
	competencyType = reflect.TypeOf(competencyPayload{})
	educationType  = reflect.TypeOf(educationPayload{})
)

type educationPayload struct {
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Institution string `json:"institution"`
}

type profilePayload struct {
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone"`
	Location        string             `json:"location"`
	Headline        string             `json:"headline"`
	Summary         string             `json:"summary"`
	Skills          []string           `json:"skills"`
	YearsExperience *float64           `json:"years_experience"`
	Education       []educationPayload `json:"education"`
}

func (p profilePayload) toProfile() *ai.Profile {
	profile := &ai.Profile{
		Name:            ai.NonBlank(p.Name),
		Email:           ai.NonBlank(p.Email),
		Phone:           ai.NonBlank(p.Phone),
		Location:        ai.NonBlank(p.Location),
		Headline:        ai.NonBlank(p.Headline),
		Summary:         ai.NonBlank(p.Summary),
		Skills:          nonBlank(p.Skills),
		YearsExperience: optionalFloat(p.YearsExperience),
	}
	for _, e := range p.Education {
		entry := ai.Education{
			Degree:      ai.NonBlank(e.Degree),
			Field:       ai.NonBlank(e.Field),
			Institution: ai.NonBlank(e.Institution),
		}
		if entry.Degree.IsSet() || entry.Field.IsSet() || entry.Institution.IsSet() {
			profile.Education = append(profile.Education, entry)
		}
	}
	return profile
}

type gradePayload struct {
	Score                   *float64 `json:"score"`
	MatchedSkills           []string `json:"matched_skills"`
	Strengths               []string `json:"strengths"`
	Weaknesses              []string `json:"weaknesses"`
	Questions               []string `json:"questions"`
	YearsExperienceEstimate *float64 `json:"years_experience_estimate"`
	EducationSummary        string   `json:"education_summary"`
}

func (p gradePayload) toGrade(raw string) *ai.Grade {
	return &ai.Grade{
		Score:                   optionalFloat(p.Score),
		MatchedSkills:           nonBlank(p.MatchedSkills),
		Strengths:               nonBlank(p.Strengths),
		Weaknesses:              nonBlank(p.Weaknesses),
		Questions:               nonBlank(p.Questions),
		YearsExperienceEstimate: optionalFloat(p.YearsExperienceEstimate),
		EducationSummary:        ai.NonBlank(p.EducationSummary),
		Raw:                     raw,
	}
}

type competencyPayload struct {
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms"`
}

type requirementsPayload struct {
	Must []competencyPayload `json:"must"`
	Nice []competencyPayload `json:"nice"`
}

func (p requirementsPayload) toSuggestion() *ai.RequirementSuggestion {
	convert := func(items []competencyPayload) []ai.Competency {
		out := make([]ai.Competency, 0, len(items))
		for _, it := range items {
			name := ai.NonBlank(it.Name)
			if !name.IsSet() {
				continue
			}
			out = append(out, ai.Competency{Name: name.Or(""), Synonyms: nonBlank(it.Synonyms)})
		}
		return out
	}
	return &ai.RequirementSuggestion{Must: convert(p.Must), Nice: convert(p.Nice)}
}

func optionalFloat(v *float64) ai.Value[float64] {
	if v == nil {
		return ai.None[float64]()
	}
	return ai.Some(*v)
}

func nonBlank(items []string) []string {
	var out []string
	for _, s := range items {
		if v := ai.NonBlank(s); v.IsSet() {
			out = append(out, v.Or(""))
		}
	}
	return out
}
