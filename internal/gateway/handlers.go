package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zeon-ai/zeon/internal/composition"
	"github.com/zeon-ai/zeon/internal/events"
	"github.com/zeon-ai/zeon/internal/planner"
)

// apiError is the structured error body: the taxonomy kind plus whatever
// locates the failure (step index, skill, provider).
type apiError struct {
	Error    string `json:"error"`
	Kind     string `json:"kind"`
	Step     int    `json:"step,omitempty"`
	Skill    string `json:"skill,omitempty"`
	Provider string `json:"provider,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	var (
		notFound     *composition.NotFoundError
		unknownSkill *planner.UnknownSkillError
		badInputs    *planner.InputValidationError
		badSchema    *planner.SchemaError
		provTimeout  *planner.ProviderTimeoutError
		provFailed   *planner.ProviderError
	)

	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, apiError{
			Error: err.Error(), Kind: "not_found", Skill: notFound.Skill,
		})
	case errors.As(err, &unknownSkill):
		writeJSON(w, http.StatusNotFound, apiError{
			Error: err.Error(), Kind: "unknown_skill",
			Step: unknownSkill.Step, Skill: unknownSkill.Skill,
		})
	case errors.As(err, &badInputs):
		writeJSON(w, http.StatusUnprocessableEntity, apiError{
			Error: err.Error(), Kind: "input_validation",
			Step: badInputs.Step, Skill: badInputs.Skill,
		})
	case errors.As(err, &badSchema):
		writeJSON(w, http.StatusUnprocessableEntity, apiError{
			Error: err.Error(), Kind: "invalid_schema", Skill: badSchema.Skill,
		})
	case errors.As(err, &provTimeout):
		writeJSON(w, http.StatusGatewayTimeout, apiError{
			Error: err.Error(), Kind: "provider_timeout", Provider: provTimeout.Provider,
		})
	case errors.As(err, &provFailed):
		writeJSON(w, http.StatusBadGateway, apiError{
			Error: err.Error(), Kind: "provider_error", Provider: provFailed.Provider,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, apiError{
			Error: err.Error(), Kind: "internal",
		})
	}
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	view := s.store.View()
	writeJSON(w, http.StatusOK, view.Catalog.List())
}

func (s *Server) handleSkillDetails(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	view := s.store.View()

	hierarchy, err := view.Analyzer.Hierarchy(name)
	if err != nil {
		writeError(w, err)
		return
	}

	spec, _ := view.Catalog.Get(name)

	writeJSON(w, http.StatusOK, map[string]any{
		"name":            name,
		"version":         spec.Version,
		"description":     spec.Description,
		"tier":            view.Graph.Tier(name),
		"hierarchy":       hierarchy,
		"dependencies":    view.Analyzer.Closure(name),
		"usage":           view.Analyzer.UsageOf(name),
		"execution_order": view.Analyzer.ExecutionOrder(name),
		"subskills":       view.Graph.Subskills(name),
	})
}

func (s *Server) handleSkillComposition(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	view := s.store.View()

	if !view.Graph.Has(name) {
		writeError(w, &composition.NotFoundError{Skill: name})
		return
	}

	type compEntry struct {
		Name      string   `json:"name"`
		Tier      string   `json:"tier"`
		Subskills []string `json:"subskills"`
	}

	subskills := view.Graph.Subskills(name)
	comp := make([]compEntry, 0, len(subskills))
	for _, sub := range subskills {
		comp = append(comp, compEntry{
			Name:      sub,
			Tier:      view.Graph.Tier(sub),
			Subskills: view.Graph.Subskills(sub),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"skill":       name,
		"tier":        view.Graph.Tier(name),
		"composition": comp,
	})
}

func (s *Server) handleExecutionPath(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	view := s.store.View()

	if !view.Graph.Has(name) {
		writeError(w, &composition.NotFoundError{Skill: name})
		return
	}

	type pathEntry struct {
		Name      string   `json:"name"`
		Tier      string   `json:"tier"`
		Subskills []string `json:"subskills"`
		IsAtomic  bool     `json:"is_atomic"`
	}

	order := view.Analyzer.ExecutionOrder(name)
	path := make([]pathEntry, 0, len(order))
	for _, skill := range order {
		subs := view.Graph.Subskills(skill)
		path = append(path, pathEntry{
			Name:      skill,
			Tier:      view.Graph.Tier(skill),
			Subskills: subs,
			IsAtomic:  len(subs) == 0,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"skill":          name,
		"execution_path": path,
		"total_steps":    len(path),
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	view := s.store.View()
	writeJSON(w, http.StatusOK, view.Analyzer.Stats())
}

func (s *Server) handleDAG(w http.ResponseWriter, r *http.Request) {
	view := s.store.View()
	writeJSON(w, http.StatusOK, view.Analyzer.Export())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	tier := r.URL.Query().Get("tier")
	view := s.store.View()

	type searchResult struct {
		Name        string   `json:"name"`
		Version     string   `json:"version"`
		Tier        string   `json:"tier"`
		Description string   `json:"description,omitempty"`
		Subskills   []string `json:"subskills"`
		Usage       []string `json:"usage"`
	}

	matches := view.Search(query, tier)
	results := make([]searchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, searchResult{
			Name:        m.Name,
			Version:     m.Version,
			Tier:        view.Graph.Tier(m.Name),
			Description: m.Description,
			Subskills:   view.Graph.Subskills(m.Name),
			Usage:       view.Analyzer.UsageOf(m.Name),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":       query,
		"tier_filter": tier,
		"results":     results,
		"count":       len(results),
	})
}

func (s *Server) handleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	names := r.URL.Query()["skills"]
	if len(names) == 0 {
		writeJSON(w, http.StatusBadRequest, apiError{
			Error: "no skills specified", Kind: "bad_request",
		})
		return
	}

	view := s.store.View()

	depSet := make(map[string]bool)
	for _, name := range names {
		if !view.Graph.Has(name) {
			writeError(w, &composition.NotFoundError{Skill: name})
			return
		}
		for _, dep := range view.Analyzer.Closure(name) {
			depSet[dep] = true
		}
	}

	deps := make([]string, 0, len(depSet))
	for dep := range depSet {
		deps = append(deps, dep)
	}
	sort.Strings(deps)

	orderSet := make(map[string]bool, len(names)+len(deps))
	for _, name := range names {
		orderSet[name] = true
	}
	for _, dep := range deps {
		orderSet[dep] = true
	}
	order := make([]string, 0, len(orderSet))
	for skill := range orderSet {
		order = append(order, skill)
	}
	sort.Strings(order)

	writeJSON(w, http.StatusOK, map[string]any{
		"skills":          names,
		"total_skills":    len(names),
		"dependencies":    deps,
		"execution_order": order,
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.reload(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError{
			Error: err.Error(), Kind: "reload_failed",
		})
		return
	}

	view := s.store.View()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "reloaded",
		"total_skills": view.Catalog.Len(),
		"warnings":     len(view.Catalog.Warnings()),
	})
}

type planRequest struct {
	Task     string         `json:"task"`
	Context  map[string]any `json:"context,omitempty"`
	Provider string         `json:"provider,omitempty"`
	Model    string         `json:"model,omitempty"`
	Timeout  string         `json:"timeout,omitempty"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var body planRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{
			Error: "invalid request body: " + err.Error(), Kind: "bad_request",
		})
		return
	}
	if body.Task == "" {
		writeJSON(w, http.StatusBadRequest, apiError{
			Error: "task is required", Kind: "bad_request",
		})
		return
	}

	req := planner.Request{
		Task:     body.Task,
		Context:  body.Context,
		Provider: body.Provider,
		Model:    body.Model,
	}
	if body.Timeout != "" {
		timeout, err := time.ParseDuration(body.Timeout)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{
				Error: "invalid timeout: " + err.Error(), Kind: "bad_request",
			})
			return
		}
		req.Timeout = timeout
	}

	s.bus.Publish(events.NewEvent(events.EventPlanRequested, events.SourceGateway, map[string]any{
		"task":     body.Task,
		"provider": body.Provider,
	}))

	plan, err := s.planner.Plan(r.Context(), req)
	if err != nil {
		s.bus.Publish(events.NewEvent(events.EventPlanRejected, events.SourceGateway, map[string]any{
			"task":  body.Task,
			"error": err.Error(),
		}))
		writeError(w, err)
		return
	}

	s.bus.Publish(events.NewEvent(events.EventPlanValidated, events.SourceGateway, map[string]any{
		"plan_id": plan.ID,
		"task":    plan.Task,
		"steps":   len(plan.Steps),
	}))
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleValidatePlan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Task  string            `json:"task"`
		Steps []planner.RawStep `json:"steps"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{
			Error: "invalid request body: " + err.Error(), Kind: "bad_request",
		})
		return
	}

	plan, err := s.planner.Validate(body.Task, body.Steps)
	if err != nil {
		s.bus.Publish(events.NewEvent(events.EventPlanRejected, events.SourceGateway, map[string]any{
			"task":  body.Task,
			"error": err.Error(),
		}))
		writeError(w, err)
		return
	}

	s.bus.Publish(events.NewEvent(events.EventPlanValidated, events.SourceGateway, map[string]any{
		"plan_id": plan.ID,
		"task":    plan.Task,
		"steps":   len(plan.Steps),
	}))
	writeJSON(w, http.StatusOK, plan)
}
