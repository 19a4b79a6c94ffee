// Package mcp exposes the skill catalog and plan validation as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zeon-ai/zeon/internal/composition"
	"github.com/zeon-ai/zeon/internal/planner"
)

// NewServer creates an MCP server over the current skill catalog.
// Tool handlers read through the store, so a catalog reload is picked up
// by the next call without restarting the server.
func NewServer(store *composition.Store, p *planner.Planner) *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "zeon",
		Version: "0.1.0",
	}, nil)

	server.AddTool(&mcpsdk.Tool{
		Name:        "skills_list",
		Description: "List all skills in the catalog with name, version, tier and description",
		InputSchema: objectSchema(nil),
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		return textResult(store.View().Catalog.List())
	})

	server.AddTool(&mcpsdk.Tool{
		Name:        "skill_get",
		Description: "Get a skill's full definition plus its dependency closure and usage",
		InputSchema: objectSchema(map[string]any{
			"name": map[string]any{"type": "string", "description": "Skill name"},
		}, "name"),
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		name, err := stringArg(req, "name")
		if err != nil {
			return errorResult(err), nil
		}

		view := store.View()
		spec, ok := view.Catalog.Get(name)
		if !ok {
			return errorResult(&composition.NotFoundError{Skill: name}), nil
		}
		return textResult(map[string]any{
			"name":         spec.Name,
			"version":      spec.Version,
			"tier":         view.Graph.Tier(spec.Name),
			"description":  spec.Description,
			"subskills":    view.Graph.Subskills(spec.Name),
			"dependencies": view.Analyzer.Closure(spec.Name),
			"usage":        view.Analyzer.UsageOf(spec.Name),
		})
	})

	server.AddTool(&mcpsdk.Tool{
		Name:        "skill_closure",
		Description: "Resolve the full set of skills a skill depends on, directly or transitively",
		InputSchema: objectSchema(map[string]any{
			"name": map[string]any{"type": "string", "description": "Skill name"},
		}, "name"),
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		name, err := stringArg(req, "name")
		if err != nil {
			return errorResult(err), nil
		}

		view := store.View()
		if !view.Graph.Has(name) {
			return errorResult(&composition.NotFoundError{Skill: name}), nil
		}
		return textResult(map[string]any{
			"skill":        name,
			"dependencies": view.Analyzer.Closure(name),
		})
	})

	server.AddTool(&mcpsdk.Tool{
		Name:        "skill_usage",
		Description: "List the skills that declare a skill as a direct subskill",
		InputSchema: objectSchema(map[string]any{
			"name": map[string]any{"type": "string", "description": "Skill name"},
		}, "name"),
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		name, err := stringArg(req, "name")
		if err != nil {
			return errorResult(err), nil
		}

		view := store.View()
		if !view.Graph.Has(name) {
			return errorResult(&composition.NotFoundError{Skill: name}), nil
		}
		return textResult(map[string]any{
			"skill":   name,
			"used_by": view.Analyzer.UsageOf(name),
		})
	})

	server.AddTool(&mcpsdk.Tool{
		Name:        "skill_statistics",
		Description: "Aggregate catalog statistics: totals, tier counts, most complex and most used skills",
		InputSchema: objectSchema(nil),
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		return textResult(store.View().Analyzer.Stats())
	})

	server.AddTool(&mcpsdk.Tool{
		Name:        "plan_validate",
		Description: "Validate a sequence of plan steps against the catalog's skill input contracts",
		InputSchema: objectSchema(map[string]any{
			"task": map[string]any{"type": "string", "description": "What the plan is meant to accomplish"},
			"steps": map[string]any{
				"type":        "array",
				"description": "Ordered plan steps",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"skill":     map[string]any{"type": "string"},
						"inputs":    map[string]any{"type": "object"},
						"rationale": map[string]any{"type": "string"},
					},
					"required": []string{"skill"},
				},
			},
		}, "task", "steps"),
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		var args struct {
			Task  string            `json:"task"`
			Steps []planner.RawStep `json:"steps"`
		}
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return errorResult(err), nil
		}

		plan, err := p.Validate(args.Task, args.Steps)
		if err != nil {
			slog.Debug("mcp plan rejected", "task", args.Task, "error", err)
			return errorResult(err), nil
		}
		return textResult(plan)
	})

	return server
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	if props == nil {
		props = map[string]any{}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringArg(req *mcpsdk.CallToolRequest, key string) (string, error) {
	var args map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return "", err
	}
	value, _ := args[key].(string)
	if value == "" {
		return "", &MissingArgumentError{Name: key}
	}
	return value, nil
}

func textResult(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

func errorResult(err error) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		IsError: true,
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
	}
}

// MissingArgumentError reports a required tool argument that was absent or empty.
type MissingArgumentError struct {
	Name string
}

func (e *MissingArgumentError) Error() string {
	return "missing required argument: " + e.Name
}
