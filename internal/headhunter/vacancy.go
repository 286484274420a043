package headhunter

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/spigell/cv-screener/internal/screening"
)

// Experience bucket ids used by hh.ru.
const (
	ExperienceNone       = "noExperience"
	ExperienceOneToThree = "between1And3"
	ExperienceThreeToSix = "between3And6"
	ExperienceMoreThan6  = "moreThan6"
)

var minYearsByBucket = map[string]float64{
	ExperienceNone:       0,
	ExperienceOneToThree: 1,
	ExperienceThreeToSix: 3,
	ExperienceMoreThan6:  6,
}

type Vacancy struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Area struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"area,omitempty"`
	Experience struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"experience,omitempty"`
	Employer struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"employer,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
	Description  string `json:"description,omitempty"`
	KeySkills    []struct {
		Name string `json:"name,omitempty"`
	} `json:"key_skills,omitempty"`
	ProfessionalRoles []struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"professional_roles,omitempty"`
	Archived bool `json:"archived,omitempty"`
}

// MinYears maps the experience bucket to the lower bound of the range.
func (v *Vacancy) MinYears() (float64, bool) {
	years, ok := minYearsByBucket[v.Experience.ID]
	return years, ok
}

// Skills returns the non-empty key skill names.
func (v *Vacancy) Skills() []string {
	skills := make([]string, 0, len(v.KeySkills))
	for _, s := range v.KeySkills {
		if name := strings.TrimSpace(s.Name); name != "" {
			skills = append(skills, name)
		}
	}
	return skills
}

// Job converts the vacancy into a screening job. The HTML description is
// rendered as markdown and key skills are appended as a bullet list.
func (v *Vacancy) Job() (screening.Job, error) {
	description, err := htmltomarkdown.ConvertString(v.Description)
	if err != nil {
		return screening.Job{}, fmt.Errorf("convert vacancy %s description: %w", v.ID, err)
	}
	description = strings.TrimSpace(description)

	if skills := v.Skills(); len(skills) > 0 {
		var b strings.Builder
		b.WriteString(description)
		b.WriteString("\n\nKey skills:\n")
		for _, s := range skills {
			b.WriteString("- ")
			b.WriteString(s)
			b.WriteString("\n")
		}
		description = strings.TrimSpace(b.String())
	}

	job := screening.Job{
		Title:       strings.TrimSpace(v.Name),
		Description: description,
	}
	if years, ok := v.MinYears(); ok {
		job.MinYearsExperience = &years
	}
	return job, nil
}
