package planner

import (
	"fmt"
	"time"
)

// UnknownSkillError reports a plan step referencing a skill that is not
// in the catalog.
type UnknownSkillError struct {
	Skill string
	Step  int
}

func (e *UnknownSkillError) Error() string {
	return fmt.Sprintf("step %d: unknown skill in plan: %s", e.Step, e.Skill)
}

// SchemaError reports a skill whose stored input contract is not itself a
// valid schema. This is a data problem on the skill, surfaced lazily at
// validation time.
type SchemaError struct {
	Skill string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("skill %s: invalid input schema: %v", e.Skill, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// InputValidationError reports a step whose inputs violate the skill's
// input contract.
type InputValidationError struct {
	Step  int
	Skill string
	Err   error
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("step %d (%s): input validation failed: %v", e.Step, e.Skill, e.Err)
}

func (e *InputValidationError) Unwrap() error { return e.Err }

// ProviderError reports a provider call that failed or returned output
// that could not be interpreted as candidate steps.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ProviderTimeoutError reports a provider call cut off by its deadline.
type ProviderTimeoutError struct {
	Provider string
	Timeout  time.Duration
}

func (e *ProviderTimeoutError) Error() string {
	return fmt.Sprintf("provider %s: no response within %s", e.Provider, e.Timeout)
}
