package screening

import (
	"sort"

	"github.com/spigell/cv-screener/internal/experience"
	"github.com/spigell/cv-screener/internal/requirements"
	"github.com/spigell/cv-screener/internal/scoring"
)

// Candidate is the immutable result for one resume file.
type Candidate struct {
	File     string `json:"file"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Headline string `json:"headline,omitempty"`
	Summary  string `json:"summary,omitempty"`

	YearsExperience  float64           `json:"years_experience"`
	ExperienceSource experience.Source `json:"experience_source"`
	EducationLabel   string            `json:"education_label"`
	Skills           []string          `json:"skills"`

	MatchScore        int               `json:"match_score"`
	SkillsEvidencePct int               `json:"skills_evidence_pct"`
	DomainMismatch    bool              `json:"domain_mismatch"`
	DomainHits        []string          `json:"domain_hits"`
	Breakdown         scoring.Breakdown `json:"breakdown"`
	Missing           []string          `json:"missing"`

	scoring.Narrative

	order int
}

// FileError is a per-file failure. The file is excluded from candidates.
type FileError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

type Stats struct {
	Files        int     `json:"files"`
	Succeeded    int     `json:"succeeded"`
	Failed       int     `json:"failed"`
	PeakInFlight int     `json:"peak_in_flight"`
	Seconds      float64 `json:"seconds"`
}

type Meta struct {
	BatchID      string           `json:"batch_id"`
	Requirements requirements.Set `json:"requirements"`
	DomainTokens []string         `json:"domain_tokens"`
	Stats        Stats            `json:"stats"`
}

type Report struct {
	Candidates []Candidate `json:"candidates"`
	Errors     []FileError `json:"errors"`
	Meta       Meta        `json:"meta"`
}

// Find returns the candidate built from file, if any.
func (r *Report) Find(file string) (Candidate, bool) {
	for _, c := range r.Candidates {
		if c.File == file {
			return c, true
		}
	}
	return Candidate{}, false
}

// rank sorts by match score descending. Equal scores keep submission order.
func rank(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].MatchScore != candidates[j].MatchScore {
			return candidates[i].MatchScore > candidates[j].MatchScore
		}
		return candidates[i].order < candidates[j].order
	})
}
