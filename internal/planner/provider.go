package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/zeon-ai/zeon/internal/catalog"
	"github.com/zeon-ai/zeon/internal/models"
)

// Provider drafts candidate steps for a task. Implementations receive the
// planning projection of the catalog and nothing else; whatever they
// return goes through validation before any caller sees it.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request, skills []ProjectedSkill) ([]RawStep, error)
}

// ProviderResolver maps a requested provider name to a Provider. An empty
// name selects the default.
type ProviderResolver interface {
	Resolve(name string) (Provider, error)
}

// Project extracts the planning-relevant fields of every skill in the
// snapshot, name-ascending.
func Project(snap *catalog.Snapshot) []ProjectedSkill {
	out := make([]ProjectedSkill, 0, snap.Len())
	for _, spec := range snap.All() {
		out = append(out, ProjectedSkill{
			Name:           spec.Name,
			Version:        spec.Version,
			Tier:           string(spec.Tier),
			Description:    spec.Description,
			InputSchema:    spec.InputSchema,
			OutputSchema:   spec.OutputSchema,
			Preconditions:  spec.Preconditions,
			Postconditions: spec.Postconditions,
			Invariants:     spec.Invariants,
		})
	}
	return out
}

// ModelResolver resolves provider names against the model registry.
type ModelResolver struct {
	Registry *models.Registry
}

// Resolve returns a chat-model backed provider for the named registry
// entry, or the default entry when name is empty.
func (r *ModelResolver) Resolve(name string) (Provider, error) {
	if name == "" {
		name = r.Registry.DefaultName()
	}
	if name == "" {
		return nil, fmt.Errorf("no model providers configured")
	}
	return &ModelProvider{registry: r.Registry, name: name}, nil
}

// ModelProvider drafts plans through a chat model from the registry.
type ModelProvider struct {
	registry *models.Registry
	name     string
}

func (p *ModelProvider) Name() string { return p.name }

// Generate asks the model for a JSON plan and parses the raw steps out of
// its reply. The reply is not trusted beyond JSON shape.
func (p *ModelProvider) Generate(ctx context.Context, req Request, skills []ProjectedSkill) ([]RawStep, error) {
	entry := p.name
	if req.Model != "" {
		entry = req.Model
	}
	chatModel, err := p.registry.Get(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("get model: %w", err)
	}

	user, err := buildPlanPrompt(req, skills)
	if err != nil {
		return nil, err
	}

	msgs := []*schema.Message{
		{Role: schema.System, Content: "You return only valid JSON. No markdown, no prose."},
		{Role: schema.User, Content: user},
	}

	result, err := chatModel.Generate(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	return parsePlanResponse(result.Content)
}

func buildPlanPrompt(req Request, skills []ProjectedSkill) (string, error) {
	var sb strings.Builder

	sb.WriteString("You are a robotics task planner. Given a user task and a library of skills, ")
	sb.WriteString("produce a minimal, deterministic sequence of steps. Each step must reference an existing ")
	sb.WriteString("skill name and provide an 'inputs' object that validates against that skill's input_schema.\n")
	sb.WriteString("Constraints:\n")
	sb.WriteString("- Only use skills provided.\n")
	sb.WriteString("- No free-form actions.\n")
	sb.WriteString("- Be conservative and explicit.\n")
	sb.WriteString(`- Return strictly JSON matching this schema: {"steps":[{"skill":string,"inputs":object,"rationale":string}]}`)
	sb.WriteString("\n\nUser task: ")
	sb.WriteString(req.Task)
	sb.WriteString("\n")

	if len(req.Context) > 0 {
		ctxJSON, err := json.Marshal(req.Context)
		if err != nil {
			return "", fmt.Errorf("marshal context: %w", err)
		}
		sb.WriteString("\nContext:\n")
		sb.Write(ctxJSON)
		sb.WriteString("\n")
	}

	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return "", fmt.Errorf("marshal skills: %w", err)
	}
	sb.WriteString("\nSkills:\n")
	sb.Write(skillsJSON)

	return sb.String(), nil
}

func parsePlanResponse(content string) ([]RawStep, error) {
	content = strings.TrimSpace(content)

	// Strip markdown code fences if present.
	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		var jsonLines []string
		inBlock := false
		for _, line := range lines {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				inBlock = !inBlock
				continue
			}
			if inBlock {
				jsonLines = append(jsonLines, line)
			}
		}
		content = strings.Join(jsonLines, "\n")
	}

	var payload struct {
		Steps []RawStep `json:"steps"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("parse plan response: %w", err)
	}
	if payload.Steps == nil {
		return nil, fmt.Errorf("plan response missing 'steps' list")
	}
	return payload.Steps, nil
}
