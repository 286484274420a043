package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = message
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestAssistantExtractProfile(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + `{
  "name": " Jane Roe ",
  "email": "jane@example.com",
  "phone": null,
  "skills": ["ADP", "", "Excel", 401],
  "years_experience": "7.5",
  "education": [{"degree": "BSc", "field": "Accounting", "institution": "State University"}, "MBA", {}]
}` + "\n```"}

	assistant := NewAssistant(stub, zap.NewNop(), 0)
	profile, err := assistant.ExtractProfile(context.Background(), "Jane Roe, payroll")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := profile.Name.Or(""); got != "Jane Roe" {
		t.Fatalf("unexpected name: %q", got)
	}
	if profile.Phone.IsSet() {
		t.Fatalf("expected phone to be unset")
	}
	if got, ok := profile.YearsExperience.Get(); !ok || got != 7.5 {
		t.Fatalf("expected years 7.5, got %v (%v)", got, ok)
	}
	if strings.Join(profile.Skills, ",") != "ADP,Excel,401" {
		t.Fatalf("unexpected skills: %v", profile.Skills)
	}
	if len(profile.Education) != 2 {
		t.Fatalf("expected 2 education entries, got %d", len(profile.Education))
	}
	if got := profile.Education[1].Degree.Or(""); got != "MBA" {
		t.Fatalf("unexpected degree: %q", got)
	}

	if !strings.Contains(stub.lastPrompt, "[Resume]\nJane Roe, payroll\n[/Resume]") {
		t.Fatalf("resume block missing from prompt: %s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastSystem, "structured profile") {
		t.Fatalf("expected profile system prompt, got: %s", stub.lastSystem)
	}
}

func TestAssistantGrade(t *testing.T) {
	stub := &stubGenerator{response: `Here you go: {"score": 82, "matched_skills": ["ADP"], "strengths": "Strong payroll background", "questions": ["How do you run garnishments?"], "years_experience_estimate": 6}`}

	assistant := NewAssistant(stub, zap.NewNop(), 0)
	grade, err := assistant.Grade(context.Background(), "Payroll Specialist", "Jane Roe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, ok := grade.Score.Get(); !ok || got != 82 {
		t.Fatalf("expected score 82, got %v", got)
	}
	if len(grade.Strengths) != 1 || grade.Strengths[0] != "Strong payroll background" {
		t.Fatalf("unexpected strengths: %v", grade.Strengths)
	}
	if grade.EducationSummary.IsSet() {
		t.Fatalf("expected education summary to be unset")
	}
	if grade.Raw == "" {
		t.Fatalf("expected raw response to be kept")
	}
	if !strings.Contains(stub.lastPrompt, "[Job description]\nPayroll Specialist") {
		t.Fatalf("job block missing from prompt: %s", stub.lastPrompt)
	}
}

func TestAssistantGradeRejectsMalformedResponses(t *testing.T) {
	cases := map[string]string{
		"not json":      "I think this candidate is great",
		"missing score": `{"strengths": ["ok"]}`,
		"bad score":     `{"score": {"value": 3}}`,
		"array root":    `[1, 2, 3]`,
	}

	for name, response := range cases {
		t.Run(name, func(t *testing.T) {
			assistant := NewAssistant(&stubGenerator{response: response}, zap.NewNop(), 0)
			if _, err := assistant.Grade(context.Background(), "job", "resume"); err == nil {
				t.Fatalf("expected error for %q", response)
			}
		})
	}
}

func TestAssistantSuggestRequirements(t *testing.T) {
	stub := &stubGenerator{response: `{"must": [{"name": "ADP", "synonyms": ["ADP Workforce Now"]}, "payroll compliance", {"name": " "}], "nice": null}`}

	assistant := NewAssistant(stub, zap.NewNop(), 0)
	suggestion, err := assistant.SuggestRequirements(context.Background(), "Payroll Specialist", "Run payroll in ADP")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(suggestion.Must) != 2 {
		t.Fatalf("expected 2 must items, got %+v", suggestion.Must)
	}
	if suggestion.Must[0].Name != "ADP" || len(suggestion.Must[0].Synonyms) != 1 {
		t.Fatalf("unexpected first item: %+v", suggestion.Must[0])
	}
	if suggestion.Must[1].Name != "payroll compliance" {
		t.Fatalf("unexpected second item: %+v", suggestion.Must[1])
	}
	if len(suggestion.Nice) != 0 {
		t.Fatalf("expected no nice items, got %+v", suggestion.Nice)
	}
}

func TestAssistantPropagatesGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota")}
	assistant := NewAssistant(stub, zap.NewNop(), 0)

	_, err := assistant.ExtractProfile(context.Background(), "resume")
	if err == nil || !strings.Contains(err.Error(), "profile: quota") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```":         `{"a":1}`,
		"```\n{\"a\":1}```":               `{"a":1}`,
		"Sure! {\"a\": {\"b\": 2}} Done.": `{"a": {"b": 2}}`,
		"{\"a\":1}":                       `{"a":1}`,
	}
	for in, want := range cases {
		if got := extractJSON(in); got != want {
			t.Fatalf("extractJSON(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSectionClipsLongInput(t *testing.T) {
	long := strings.Repeat("я", maxInputRunes+10)
	block := section("Resume", long)
	if got := strings.Count(block, "я"); got != maxInputRunes {
		t.Fatalf("expected %d runes kept, got %d", maxInputRunes, got)
	}
	if section("Resume", " ") != "[Resume]\n(empty)\n[/Resume]" {
		t.Fatalf("unexpected empty section: %q", section("Resume", " "))
	}
}
