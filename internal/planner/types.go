// Package planner turns a task description into a validated execution plan.
// A planning provider drafts candidate steps; the validator checks every
// step against the catalog's input contracts before anything is returned
// to a caller. Provider output is untrusted input, full stop.
package planner

import (
	"encoding/json"
	"time"
)

// RawStep is one candidate step as proposed by a provider. Any order the
// provider claims is ignored; validation assigns its own.
type RawStep struct {
	Skill     string         `json:"skill"`
	Inputs    map[string]any `json:"inputs"`
	Rationale string         `json:"rationale,omitempty"`
	Order     int            `json:"order,omitempty"`
}

// Step is one validated plan step. Order is 1-based sequence position.
type Step struct {
	Order     int            `json:"order"`
	Skill     string         `json:"skill"`
	Inputs    map[string]any `json:"inputs"`
	Rationale string         `json:"rationale,omitempty"`
}

// Plan is a fully validated plan ready to hand to an executor.
type Plan struct {
	ID    string `json:"id"`
	Task  string `json:"task"`
	Steps []Step `json:"steps"`
	Notes string `json:"notes,omitempty"`
}

// Request describes one planning call.
type Request struct {
	Task     string         `json:"task"`
	Context  map[string]any `json:"context,omitempty"`
	Provider string         `json:"provider,omitempty"`
	Model    string         `json:"model,omitempty"`
	Timeout  time.Duration  `json:"-"`
}

// ProjectedSkill is the planning-relevant slice of a skill record handed
// to providers. Composition edges and transport details stay out.
type ProjectedSkill struct {
	Name           string          `json:"name"`
	Version        string          `json:"version"`
	Tier           string          `json:"tier,omitempty"`
	Description    string          `json:"description,omitempty"`
	InputSchema    json.RawMessage `json:"input_schema,omitempty"`
	OutputSchema   json.RawMessage `json:"output_schema,omitempty"`
	Preconditions  []any           `json:"preconditions,omitempty"`
	Postconditions []any           `json:"postconditions,omitempty"`
	Invariants     []any           `json:"invariants,omitempty"`
}
