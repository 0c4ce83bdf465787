package summarize

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"leaseintake/internal/util"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var assessmentSchema = map[string]any{
	"type":     "object",
	"required": []string{"gist", "has_signature_field", "has_date_range"},
	"properties": map[string]any{
		"gist":                map[string]any{"type": "string"},
		"has_signature_field": map[string]any{"enum": []string{"yes", "no", "unknown"}},
		"has_date_range":      map[string]any{"enum": []string{"yes", "no", "unknown"}},
		"lease_dates": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
}

var (
	compiledOnce sync.Once
	compiled     *jsonschema.Schema
	compileErr   error
)

func assessmentValidator() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiled, compileErr = util.CompileSchema("assessment.json", assessmentSchema)
	})
	return compiled, compileErr
}

// ParseAssessment decodes a model response into an Assessment. The response
// may be wrapped in a markdown code fence.
func ParseAssessment(raw string) (*Assessment, error) {
	raw = stripCodeFence(strings.TrimSpace(raw))
	if raw == "" {
		return nil, fmt.Errorf("empty assessment")
	}
	schema, err := assessmentValidator()
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("unmarshal assessment: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("assessment does not match schema: %w", err)
	}
	var a Assessment
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("decode assessment: %w", err)
	}
	a.Gist = strings.TrimSpace(a.Gist)
	return &a, nil
}

func stripCodeFence(s string) string {
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
