package scoring

import (
	"fmt"
	"strings"

	"github.com/spigell/cv-screener/internal/ai"
	"github.com/spigell/cv-screener/internal/evidence"
	"github.com/spigell/cv-screener/internal/utils"
)

const (
	maxModelItems     = 6
	maxModelRunes     = 240
	maxQuestions      = 5
	maxMissingInLine  = 8
	maxMatchedInLine  = 8
	maxMentoringItems = 3
	maxDerivedAsk     = 3
)

// Narrative is the human-readable part of a candidate result.
type Narrative struct {
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	Gaps           []string `json:"gaps"`
	MentoringNeeds []string `json:"mentoring_needs"`
	Questions      []string `json:"questions"`
}

// BuildNarrative prefers model text where present and always adds the
// deterministic evidence lines. Questions stay empty when the domain gate
// failed. grade may be nil.
func BuildNarrative(ev evidence.Result, grade *ai.Grade, domainMatch bool) Narrative {
	n := Narrative{
		Strengths:      []string{},
		Weaknesses:     []string{},
		Gaps:           []string{},
		MentoringNeeds: []string{},
		Questions:      []string{},
	}

	if grade != nil {
		n.Strengths = utils.CapStrings(grade.Strengths, maxModelItems, maxModelRunes)
		n.Weaknesses = utils.CapStrings(grade.Weaknesses, maxModelItems, maxModelRunes)
	}
	if len(n.Strengths) == 0 && len(ev.Matched) > 0 {
		n.Strengths = append(n.Strengths, "evidence in resume for: "+joinTop(ev.Matched, maxMatchedInLine))
	}

	if !domainMatch {
		n.Weaknesses = utils.AppendUnique(n.Weaknesses, "resume vocabulary does not match the job domain")
	}
	if len(ev.Missing) > 0 {
		n.Weaknesses = utils.AppendUnique(n.Weaknesses, "missing vs JD: "+joinTop(ev.Missing, maxMissingInLine))
	}

	for _, item := range ev.Missing {
		n.Gaps = append(n.Gaps, fmt.Sprintf("no evidence of %q in the resume", item))
	}
	for i, item := range ev.Missing {
		if i == maxMentoringItems {
			break
		}
		n.MentoringNeeds = append(n.MentoringNeeds, fmt.Sprintf("ramp-up on %s", item))
	}

	if !domainMatch {
		return n
	}
	if grade != nil {
		n.Questions = utils.CapStrings(grade.Questions, maxQuestions, maxModelRunes)
	}
	if len(n.Questions) == 0 {
		n.Questions = derivedQuestions(ev)
	}
	return n
}

func derivedQuestions(ev evidence.Result) []string {
	out := []string{}
	for i, item := range ev.Missing {
		if i == maxDerivedAsk {
			break
		}
		out = append(out, fmt.Sprintf("The resume does not mention %s. What hands-on experience do you have with it?", item))
	}
	if len(out) == 0 && len(ev.Matched) > 0 {
		out = append(out, fmt.Sprintf("Walk us through a recent piece of work where you relied on %s.", ev.Matched[0]))
	}
	return out
}

func joinTop(items []string, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ", ")
}
