package planner

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/zeon-ai/zeon/internal/catalog"
)

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot([]*catalog.SkillSpec{
		{
			Name:    "move",
			Version: "1.0.0",
			Tier:    catalog.TierAtomic,
			InputSchema: json.RawMessage(`{
				"type": "object",
				"required": ["x", "y"],
				"properties": {
					"x": {"type": "number"},
					"y": {"type": "number"}
				}
			}`),
		},
		{
			Name:    "grasp",
			Version: "1.0.0",
			Tier:    catalog.TierAtomic,
		},
		{
			Name:        "broken_contract",
			Version:     "1.0.0",
			InputSchema: json.RawMessage(`{"type": 123}`),
		},
	})
}

func TestValidateStepsAssignsSequentialOrder(t *testing.T) {
	steps, err := ValidateSteps(testSnapshot(), []RawStep{
		{Skill: "move", Inputs: map[string]any{"x": 1.0, "y": 2.0}, Order: 99},
		{Skill: "grasp", Rationale: "close the gripper", Order: 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(steps))
	}
	for i, s := range steps {
		if s.Order != i+1 {
			t.Fatalf("step %d: Order = %d, want %d", i, s.Order, i+1)
		}
	}
	if steps[1].Rationale != "close the gripper" {
		t.Fatalf("rationale lost: %+v", steps[1])
	}
}

func TestValidateStepsUnknownSkillAborts(t *testing.T) {
	_, err := ValidateSteps(testSnapshot(), []RawStep{
		{Skill: "grasp"},
		{Skill: "teleport"},
		{Skill: "move"}, // would also fail, but must never be reached
	})

	var unknown *UnknownSkillError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownSkillError", err)
	}
	if unknown.Skill != "teleport" || unknown.Step != 2 {
		t.Fatalf("UnknownSkillError = %+v", unknown)
	}
}

func TestValidateStepsRejectsBadInputs(t *testing.T) {
	_, err := ValidateSteps(testSnapshot(), []RawStep{
		{Skill: "move", Inputs: map[string]any{"x": "left"}},
	})

	var invalid *InputValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InputValidationError", err)
	}
	if invalid.Step != 1 || invalid.Skill != "move" {
		t.Fatalf("InputValidationError = %+v", invalid)
	}
}

func TestValidateStepsBrokenContractIsSchemaError(t *testing.T) {
	_, err := ValidateSteps(testSnapshot(), []RawStep{
		{Skill: "broken_contract", Inputs: map[string]any{}},
	})

	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want SchemaError", err)
	}
	if se.Skill != "broken_contract" {
		t.Fatalf("SchemaError.Skill = %q", se.Skill)
	}
}

func TestValidateStepsDefaultsMissingPieces(t *testing.T) {
	// No declared input contract: any object passes. No inputs at all:
	// treated as the empty object.
	steps, err := ValidateSteps(testSnapshot(), []RawStep{
		{Skill: "grasp"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if steps[0].Inputs == nil {
		t.Fatal("missing inputs must normalize to an empty object")
	}
}

func TestValidateStepsEmptyPlan(t *testing.T) {
	steps, err := ValidateSteps(testSnapshot(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if steps == nil || len(steps) != 0 {
		t.Fatalf("steps = %#v, want empty slice", steps)
	}
}
