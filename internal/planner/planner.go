package planner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zeon-ai/zeon/internal/catalog"
)

// DefaultTimeout bounds a provider call when neither the request nor the
// configuration says otherwise.
const DefaultTimeout = 60 * time.Second

// Planner orchestrates one planning call: resolve the provider, hand it
// the catalog projection under a deadline, validate whatever comes back.
type Planner struct {
	catalog  *catalog.Catalog
	resolver ProviderResolver
	timeout  time.Duration
}

// New builds a planner. timeout <= 0 falls back to DefaultTimeout.
func New(cat *catalog.Catalog, resolver ProviderResolver, timeout time.Duration) *Planner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Planner{catalog: cat, resolver: resolver, timeout: timeout}
}

// Plan produces a validated plan for the request's task. The catalog
// snapshot taken here serves both the provider projection and the step
// validation, so a reload mid-call cannot split the two.
func (p *Planner) Plan(ctx context.Context, req Request) (*Plan, error) {
	provider, err := p.resolver.Resolve(req.Provider)
	if err != nil {
		return nil, &ProviderError{Provider: req.Provider, Err: err}
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = p.timeout
	}

	snap := p.catalog.Snapshot()

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	raw, err := provider.Generate(cctx, req, Project(snap))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || cctx.Err() == context.DeadlineExceeded {
			return nil, &ProviderTimeoutError{Provider: provider.Name(), Timeout: timeout}
		}
		return nil, &ProviderError{Provider: provider.Name(), Err: err}
	}
	slog.Debug("provider returned candidate steps",
		"provider", provider.Name(),
		"steps", len(raw),
		"elapsed", time.Since(start))

	steps, err := ValidateSteps(snap, raw)
	if err != nil {
		return nil, err
	}

	return &Plan{
		ID:    uuid.NewString(),
		Task:  req.Task,
		Steps: steps,
		Notes: "Provider: " + provider.Name(),
	}, nil
}

// Validate checks caller-supplied steps against the current catalog
// without involving any provider.
func (p *Planner) Validate(task string, steps []RawStep) (*Plan, error) {
	validated, err := ValidateSteps(p.catalog.Snapshot(), steps)
	if err != nil {
		return nil, err
	}
	return &Plan{
		ID:    uuid.NewString(),
		Task:  task,
		Steps: validated,
	}, nil
}
