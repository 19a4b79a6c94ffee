package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/zeon-ai/zeon/internal/catalog"
	"github.com/zeon-ai/zeon/internal/composition"
	"github.com/zeon-ai/zeon/internal/events"
	"github.com/zeon-ai/zeon/internal/planner"
)

type staticSource struct {
	specs []*catalog.SkillSpec
}

func (s *staticSource) Read(ctx context.Context) ([]*catalog.SkillSpec, []catalog.LoadWarning, error) {
	return s.specs, nil, nil
}

type stubProvider struct {
	steps []planner.RawStep
	err   error
	block bool
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(ctx context.Context, req planner.Request, skills []planner.ProjectedSkill) ([]planner.RawStep, error) {
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return p.steps, p.err
}

type stubResolver struct {
	provider planner.Provider
}

func (r *stubResolver) Resolve(name string) (planner.Provider, error) {
	return r.provider, nil
}

func testSpecs() []*catalog.SkillSpec {
	return []*catalog.SkillSpec{
		{
			Name:    "move",
			Version: "1.0.0",
			Tier:    catalog.TierAtomic,
			InputSchema: json.RawMessage(`{
				"type": "object",
				"required": ["x"],
				"properties": {"x": {"type": "number"}}
			}`),
		},
		{Name: "grasp", Version: "1.0.0", Tier: catalog.TierAtomic},
		{Name: "detect_object", Version: "1.0.0", Tier: catalog.TierAtomic},
		{
			Name:      "approach_object",
			Version:   "1.2.0",
			Tier:      catalog.TierPattern,
			Subskills: []string{"detect_object", "move"},
		},
		{
			Name:      "pick_object",
			Version:   "2.0.0",
			Tier:      catalog.TierPattern,
			Subskills: []string{"approach_object", "grasp"},
		},
		{
			Name:      "transfer_object",
			Version:   "1.0.0",
			Tier:      catalog.TierProcedure,
			Subskills: []string{"pick_object"},
		},
	}
}

func newTestServer(t *testing.T, provider planner.Provider) (*Server, *catalog.Catalog) {
	t.Helper()

	cat := catalog.New(&staticSource{specs: testSpecs()})
	if err := cat.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	bus := events.NewBus(64)
	t.Cleanup(bus.Close)

	store := composition.NewStore(cat.Snapshot())
	p := planner.New(cat, &stubResolver{provider: provider}, time.Second)

	s := NewServer(Config{
		Host:    "127.0.0.1",
		Port:    0,
		Bus:     bus,
		Catalog: cat,
		Store:   store,
		Planner: p,
		Reload: func(ctx context.Context) error {
			if err := cat.Load(ctx); err != nil {
				return err
			}
			store.Swap(cat.Snapshot())
			return nil
		},
	})
	return s, cat
}

func doJSON(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			// Some endpoints return arrays; callers decode those themselves.
			decoded = nil
		}
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec, body := doJSON(t, s, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["status"] != "healthy" || body["total_skills"] != float64(6) {
		t.Fatalf("body = %v", body)
	}
}

func TestListSkills(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec, _ := doJSON(t, s, http.MethodGet, "/api/skills", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 6 {
		t.Fatalf("got %d skills", len(list))
	}
	if list[0]["name"] != "approach_object" {
		t.Fatalf("list not sorted: first = %v", list[0]["name"])
	}
}

func TestSkillDetails(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec, body := doJSON(t, s, http.MethodGet, "/api/skills/pick_object", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["tier"] != "T1" || body["version"] != "2.0.0" {
		t.Fatalf("body = %v", body)
	}
	deps, _ := body["dependencies"].([]any)
	if len(deps) != 4 {
		t.Fatalf("dependencies = %v", deps)
	}
}

func TestSkillDetailsNotFound(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec, body := doJSON(t, s, http.MethodGet, "/api/skills/levitate", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["kind"] != "not_found" {
		t.Fatalf("body = %v", body)
	}
}

func TestSkillComposition(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec, body := doJSON(t, s, http.MethodGet, "/api/skills/approach_object/composition", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	comp, _ := body["composition"].([]any)
	if len(comp) != 2 {
		t.Fatalf("composition = %v", comp)
	}
	first := comp[0].(map[string]any)
	if first["name"] != "detect_object" || first["tier"] != "T0" {
		t.Fatalf("first entry = %v", first)
	}
}

func TestExecutionPath(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec, body := doJSON(t, s, http.MethodGet, "/api/skills/grasp/execution-path", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	// grasp drops pick_object's remaining in-degree to zero, so pick_object
	// is released; transfer_object never reaches zero and stays out.
	if body["total_steps"] != float64(2) {
		t.Fatalf("body = %v", body)
	}
	path, _ := body["execution_path"].([]any)
	second := path[1].(map[string]any)
	if second["name"] != "pick_object" {
		t.Fatalf("path = %v", path)
	}
}

func TestStatistics(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec, body := doJSON(t, s, http.MethodGet, "/api/skills/statistics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["total_skills"] != float64(6) {
		t.Fatalf("body = %v", body)
	}
}

func TestSearch(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec, body := doJSON(t, s, http.MethodGet, "/api/skills/search?q=object&tier=T0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["count"] != float64(1) {
		t.Fatalf("body = %v", body)
	}
	results, _ := body["results"].([]any)
	first := results[0].(map[string]any)
	if first["name"] != "detect_object" {
		t.Fatalf("results = %v", results)
	}
}

func TestDAGExport(t *testing.T) {
	s, _ := newTestServer(t, nil)

	for _, path := range []string{"/api/skills/dag", "/api/export/dag"} {
		rec, body := doJSON(t, s, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", path, rec.Code)
		}
		nodes, _ := body["nodes"].([]any)
		edges, _ := body["edges"].([]any)
		if len(nodes) != 6 || len(edges) != 5 {
			t.Fatalf("%s: nodes=%d edges=%d", path, len(nodes), len(edges))
		}
		tiers, _ := body["tiers"].(map[string]any)
		if _, ok := tiers["T0"]; !ok {
			t.Fatalf("%s: tier metadata missing", path)
		}
	}
}

func TestCreateWorkflow(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec, body := doJSON(t, s, http.MethodGet, "/api/workflows/create?skills=pick_object", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	deps, _ := body["dependencies"].([]any)
	if len(deps) != 4 {
		t.Fatalf("dependencies = %v", deps)
	}

	rec, _ = doJSON(t, s, http.MethodGet, "/api/workflows/create", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty skills: status = %d", rec.Code)
	}
}

func TestReload(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec, body := doJSON(t, s, http.MethodPost, "/api/reload", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["status"] != "reloaded" || body["total_skills"] != float64(6) {
		t.Fatalf("body = %v", body)
	}
}

func TestValidatePlan(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec, body := doJSON(t, s, http.MethodPost, "/api/plan/validate",
		`{"task":"go there","steps":[{"skill":"move","inputs":{"x":3}}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", rec.Code, body)
	}
	steps, _ := body["steps"].([]any)
	if len(steps) != 1 {
		t.Fatalf("steps = %v", steps)
	}
	first := steps[0].(map[string]any)
	if first["order"] != float64(1) {
		t.Fatalf("first step = %v", first)
	}
}

func TestValidatePlanRejectsBadInputs(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec, body := doJSON(t, s, http.MethodPost, "/api/plan/validate",
		`{"task":"go there","steps":[{"skill":"move","inputs":{"x":"north"}}]}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["kind"] != "input_validation" || body["step"] != float64(1) {
		t.Fatalf("body = %v", body)
	}
}

func TestValidatePlanUnknownSkill(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec, body := doJSON(t, s, http.MethodPost, "/api/plan/validate",
		`{"task":"go there","steps":[{"skill":"teleport"}]}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["kind"] != "unknown_skill" {
		t.Fatalf("body = %v", body)
	}
}

func TestPlanEndToEnd(t *testing.T) {
	s, _ := newTestServer(t, &stubProvider{
		steps: []planner.RawStep{
			{Skill: "move", Inputs: map[string]any{"x": 1.0}},
			{Skill: "grasp"},
		},
	})

	rec, body := doJSON(t, s, http.MethodPost, "/api/plan", `{"task":"pick up the cup"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", rec.Code, body)
	}
	if body["notes"] != "Provider: stub" {
		t.Fatalf("notes = %v", body["notes"])
	}
	steps, _ := body["steps"].([]any)
	if len(steps) != 2 {
		t.Fatalf("steps = %v", steps)
	}
}

func TestPlanProviderFailure(t *testing.T) {
	s, _ := newTestServer(t, &stubProvider{err: fmt.Errorf("backend exploded")})

	rec, body := doJSON(t, s, http.MethodPost, "/api/plan", `{"task":"wave"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["kind"] != "provider_error" {
		t.Fatalf("body = %v", body)
	}
}

func TestPlanProviderTimeout(t *testing.T) {
	s, _ := newTestServer(t, &stubProvider{block: true})

	rec, body := doJSON(t, s, http.MethodPost, "/api/plan",
		`{"task":"wait","timeout":"20ms"}`)
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["kind"] != "provider_timeout" {
		t.Fatalf("body = %v", body)
	}
}

func TestPlanMissingTask(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec, _ := doJSON(t, s, http.MethodPost, "/api/plan", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
