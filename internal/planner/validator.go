package planner

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/zeon-ai/zeon/internal/catalog"
)

// defaultInputSchema applies when a skill declares no input contract:
// any JSON object passes, anything else fails.
var defaultInputSchema = []byte(`{"type":"object"}`)

// ValidateSteps checks candidate steps against one catalog snapshot, in
// order, aborting at the first failure. Each accepted step gets its
// 1-based position as Order regardless of any order the provider claimed.
func ValidateSteps(snap *catalog.Snapshot, steps []RawStep) ([]Step, error) {
	validated := make([]Step, 0, len(steps))

	for i, raw := range steps {
		pos := i + 1

		spec, ok := snap.Get(raw.Skill)
		if !ok {
			return nil, &UnknownSkillError{Skill: raw.Skill, Step: pos}
		}

		resolved, err := compileInputSchema(spec)
		if err != nil {
			return nil, &SchemaError{Skill: spec.Name, Err: err}
		}

		inputs := raw.Inputs
		if inputs == nil {
			inputs = map[string]any{}
		}
		if err := resolved.Validate(inputs); err != nil {
			return nil, &InputValidationError{Step: pos, Skill: spec.Name, Err: err}
		}

		validated = append(validated, Step{
			Order:     pos,
			Skill:     spec.Name,
			Inputs:    inputs,
			Rationale: raw.Rationale,
		})
	}

	return validated, nil
}

func compileInputSchema(spec *catalog.SkillSpec) (*jsonschema.Resolved, error) {
	raw := spec.InputSchema
	if len(raw) == 0 {
		raw = defaultInputSchema
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, err
	}
	return schema.Resolve(nil)
}
