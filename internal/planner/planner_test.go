package planner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/zeon-ai/zeon/internal/catalog"
)

type staticSource struct {
	specs []*catalog.SkillSpec
}

func (s *staticSource) Read(ctx context.Context) ([]*catalog.SkillSpec, []catalog.LoadWarning, error) {
	return s.specs, nil, nil
}

type stubProvider struct {
	name  string
	steps []RawStep
	err   error
	block bool
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Generate(ctx context.Context, req Request, skills []ProjectedSkill) ([]RawStep, error) {
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return p.steps, p.err
}

type stubResolver struct {
	provider Provider
	err      error
}

func (r *stubResolver) Resolve(name string) (Provider, error) {
	return r.provider, r.err
}

func testPlanner(t *testing.T, provider Provider) *Planner {
	t.Helper()
	cat := catalog.New(&staticSource{specs: []*catalog.SkillSpec{
		{Name: "move", Version: "1.0.0", Tier: catalog.TierAtomic},
		{Name: "grasp", Version: "1.0.0", Tier: catalog.TierAtomic},
	}})
	if err := cat.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return New(cat, &stubResolver{provider: provider}, time.Second)
}

func TestPlanSuccess(t *testing.T) {
	p := testPlanner(t, &stubProvider{
		name: "stub",
		steps: []RawStep{
			{Skill: "move", Inputs: map[string]any{"x": 1.0}},
			{Skill: "grasp"},
		},
	})

	plan, err := p.Plan(context.Background(), Request{Task: "pick up the cup"})
	if err != nil {
		t.Fatal(err)
	}

	if plan.ID == "" {
		t.Fatal("plan must carry an id")
	}
	if plan.Task != "pick up the cup" {
		t.Fatalf("Task = %q", plan.Task)
	}
	if plan.Notes != "Provider: stub" {
		t.Fatalf("Notes = %q", plan.Notes)
	}
	if len(plan.Steps) != 2 || plan.Steps[0].Order != 1 || plan.Steps[1].Order != 2 {
		t.Fatalf("steps = %+v", plan.Steps)
	}
}

func TestPlanRejectsUntrustedProviderOutput(t *testing.T) {
	p := testPlanner(t, &stubProvider{
		name:  "stub",
		steps: []RawStep{{Skill: "self_destruct"}},
	})

	_, err := p.Plan(context.Background(), Request{Task: "tidy up"})

	var unknown *UnknownSkillError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownSkillError", err)
	}
}

func TestPlanProviderFailure(t *testing.T) {
	p := testPlanner(t, &stubProvider{
		name: "stub",
		err:  fmt.Errorf("upstream said no"),
	})

	_, err := p.Plan(context.Background(), Request{Task: "wave"})

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if pe.Provider != "stub" {
		t.Fatalf("ProviderError.Provider = %q", pe.Provider)
	}
}

func TestPlanProviderTimeout(t *testing.T) {
	p := testPlanner(t, &stubProvider{name: "stub", block: true})

	_, err := p.Plan(context.Background(), Request{
		Task:    "wait forever",
		Timeout: 20 * time.Millisecond,
	})

	var te *ProviderTimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want ProviderTimeoutError", err)
	}
	if te.Timeout != 20*time.Millisecond {
		t.Fatalf("ProviderTimeoutError.Timeout = %s", te.Timeout)
	}
}

func TestValidateWithoutProvider(t *testing.T) {
	p := testPlanner(t, nil)

	plan, err := p.Validate("manual plan", []RawStep{{Skill: "move"}})
	if err != nil {
		t.Fatal(err)
	}
	if plan.Notes != "" {
		t.Fatalf("Notes = %q, want empty for caller-supplied plans", plan.Notes)
	}
	if len(plan.Steps) != 1 || plan.Steps[0].Order != 1 {
		t.Fatalf("steps = %+v", plan.Steps)
	}
}

func TestProjectKeepsPlanningFieldsOnly(t *testing.T) {
	snap := catalog.NewSnapshot([]*catalog.SkillSpec{
		{
			Name:        "approach_object",
			Version:     "2.1.0",
			Tier:        catalog.TierPattern,
			Description: "Approach a detected object",
			Subskills:   []string{"move", "detect_object"},
		},
	})

	projected := Project(snap)
	if len(projected) != 1 {
		t.Fatalf("got %d projections, want 1", len(projected))
	}
	got := projected[0]
	if got.Name != "approach_object" || got.Tier != "T1" || got.Version != "2.1.0" {
		t.Fatalf("projection = %+v", got)
	}
}

func TestParsePlanResponseStripsFences(t *testing.T) {
	content := "```json\n{\"steps\":[{\"skill\":\"move\",\"inputs\":{\"x\":1}}]}\n```"
	steps, err := parsePlanResponse(content)
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 1 || steps[0].Skill != "move" {
		t.Fatalf("steps = %+v", steps)
	}
}

func TestParsePlanResponseMissingSteps(t *testing.T) {
	if _, err := parsePlanResponse(`{"plan": []}`); err == nil {
		t.Fatal("missing steps list must fail")
	}
	if _, err := parsePlanResponse("not json at all"); err == nil {
		t.Fatal("non-JSON reply must fail")
	}
}
