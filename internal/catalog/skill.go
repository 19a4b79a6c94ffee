// Package catalog holds the registered robot skills: tiered, versioned
// definitions with declared subskill composition and JSON Schema input
// contracts. The catalog is the source of truth for the composition graph
// and the plan validator; it is replaced wholesale and atomically on load.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tier classifies a skill by composability level.
type Tier string

const (
	TierAtomic    Tier = "T0" // atomic actions, no subskills
	TierPattern   Tier = "T1" // reusable patterns composed of atomic actions
	TierProcedure Tier = "T2" // procedures composed of patterns and atomic actions
)

// NormalizeTier maps accepted tier spellings to the canonical T0/T1/T2 form.
// Unrecognized values are returned unchanged.
func NormalizeTier(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t0", "atomic":
		return TierAtomic
	case "t1", "pattern":
		return TierPattern
	case "t2", "procedure", "procedural":
		return TierProcedure
	}
	return Tier(s)
}

// SkillSpec is one registered skill definition.
//
// InputSchema, OutputSchema, and ErrorSchema are raw JSON Schema documents;
// they are compiled lazily at validation time so a malformed schema surfaces
// as a data-integrity error on the skill, not as a load failure.
type SkillSpec struct {
	Name           string          `json:"name"`
	Version        string          `json:"version"`
	Description    string          `json:"description,omitempty"`
	Tier           Tier            `json:"tier,omitempty"`
	InputSchema    json.RawMessage `json:"input_schema,omitempty"`
	OutputSchema   json.RawMessage `json:"output_schema,omitempty"`
	ErrorSchema    json.RawMessage `json:"error_schema,omitempty"`
	Subskills      []string        `json:"declared_subskills,omitempty"`
	Preconditions  []any           `json:"preconditions,omitempty"`
	Postconditions []any           `json:"postconditions,omitempty"`
	Invariants     []any           `json:"invariants,omitempty"`
	TimeoutS       int             `json:"timeout_s,omitempty"`
	Vendor         string          `json:"vendor,omitempty"`
	Endpoint       string          `json:"endpoint,omitempty"`
	Deprecated     bool            `json:"deprecated,omitempty"`

	// Extra holds unrecognized definition fields, preserved but unused.
	Extra map[string]json.RawMessage `json:"-"`
}

var knownSpecFields = []string{
	"name", "version", "description", "tier",
	"input_schema", "output_schema", "error_schema",
	"declared_subskills", "preconditions", "postconditions", "invariants",
	"timeout_s", "vendor", "endpoint", "deprecated",
}

func (s *SkillSpec) UnmarshalJSON(data []byte) error {
	type alias SkillSpec
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range knownSpecFields {
		delete(raw, k)
	}
	if len(raw) > 0 {
		a.Extra = raw
	}

	a.Tier = NormalizeTier(string(a.Tier))
	*s = SkillSpec(a)
	return nil
}

// Validate checks the definition for the fields every skill must carry.
func (s *SkillSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("skill name is required")
	}
	if s.Version == "" {
		return fmt.Errorf("skill %q: version is required", s.Name)
	}
	return nil
}

// SkillSummary is the lightweight display projection of a skill.
type SkillSummary struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Tier        Tier   `json:"tier,omitempty"`
	Description string `json:"description,omitempty"`
}

// Summary returns the display projection of the spec.
func (s *SkillSpec) Summary() SkillSummary {
	return SkillSummary{
		Name:        s.Name,
		Version:     s.Version,
		Tier:        s.Tier,
		Description: s.Description,
	}
}
