package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
)

const profileSchema = `{
  "type": "object",
  "properties": {
    "skills": {"type": ["array", "string", "null"]},
    "years_experience": {"type": ["number", "string", "null"]},
    "education": {"type": ["array", "null"], "items": {"type": ["object", "string"]}}
  }
}`

const gradeSchema = `{
  "type": "object",
  "required": ["score"],
  "properties": {
    "score": {"type": ["number", "string"]},
    "matched_skills": {"type": ["array", "null"]},
    "strengths": {"type": ["array", "string", "null"]},
    "weaknesses": {"type": ["array", "string", "null"]},
    "questions": {"type": ["array", "string", "null"]},
    "years_experience_estimate": {"type": ["number", "string", "null"]},
    "education_summary": {"type": ["string", "null"]}
  }
}`

const requirementsSchema = `{
  "type": "object",
  "required": ["must"],
  "properties": {
    "must": {"type": "array", "items": {"type": ["object", "string"]}},
    "nice": {"type": ["array", "null"], "items": {"type": ["object", "string"]}}
  }
}`

var (
	profileSchemaLoader      = gojsonschema.NewStringLoader(profileSchema)
	gradeSchemaLoader        = gojsonschema.NewStringLoader(gradeSchema)
	requirementsSchemaLoader = gojsonschema.NewStringLoader(requirementsSchema)
)

var errMalformed = errors.New("malformed model response")

// extractJSON strips markdown fences and any prose around the outermost
// JSON object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	if !strings.HasPrefix(raw, "{") {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start != -1 && end > start {
			raw = raw[start : end+1]
		}
	}
	return raw
}

// decodeResponse validates the model JSON against schema and decodes it into
// out with weak typing, so "7" and 7 are both accepted for numbers.
func decodeResponse(raw string, schema gojsonschema.JSONLoader, out any) error {
	var data any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(data))
	if err != nil {
		return fmt.Errorf("validate model response: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("%w: %s", errMalformed, strings.Join(msgs, "; "))
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
		DecodeHook:       namedItemHook,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	return nil
}

// namedItemHook lets a bare string stand for an object with only a name,
// e.g. "payroll" for {"name": "payroll"}.
func namedItemHook(_, to reflect.Type, data any) (any, error) {
	s, ok := data.(string)
	if !ok || to.Kind() != reflect.Struct {
		return data, nil
	}
	switch to {
	case competencyType:
		return map[string]any{"name": s}, nil
	case educationType:
		return map[string]any{"degree": s}, nil
	}
	return data, nil
}
