package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
)

// LoadWarning records one skill definition skipped or overridden during a
// load. Warnings are non-fatal: a malformed entry never aborts the load of
// the remaining definitions.
type LoadWarning struct {
	Source string `json:"source"` // file path or row identifier
	Reason string `json:"reason"`
}

func (w LoadWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Source, w.Reason)
}

// Source supplies raw skill definitions for a catalog load.
// Read returns every parseable definition plus a warning per entry it had
// to skip; the error is reserved for total source failure.
type Source interface {
	Read(ctx context.Context) ([]*SkillSpec, []LoadWarning, error)
}

// Snapshot is an immutable view of the catalog taken at a point in time.
// Readers always observe either the fully old or fully new snapshot.
type Snapshot struct {
	skills   map[string]*SkillSpec
	names    []string // ascending
	warnings []LoadWarning
}

func emptySnapshot() *Snapshot {
	return &Snapshot{skills: map[string]*SkillSpec{}}
}

// NewSnapshot builds a snapshot from a fixed set of specs. Later entries
// replace earlier ones with the same name.
func NewSnapshot(specs []*SkillSpec) *Snapshot {
	snap := &Snapshot{skills: make(map[string]*SkillSpec, len(specs))}
	for _, spec := range specs {
		if _, ok := snap.skills[spec.Name]; !ok {
			snap.names = append(snap.names, spec.Name)
		}
		snap.skills[spec.Name] = spec
	}
	sort.Strings(snap.names)
	return snap
}

// Get returns the named skill.
func (s *Snapshot) Get(name string) (*SkillSpec, bool) {
	spec, ok := s.skills[name]
	return spec, ok
}

// All returns the full skill records, name-ascending.
func (s *Snapshot) All() []*SkillSpec {
	out := make([]*SkillSpec, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.skills[name])
	}
	return out
}

// List returns the display summaries, name-ascending.
func (s *Snapshot) List() []SkillSummary {
	out := make([]SkillSummary, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.skills[name].Summary())
	}
	return out
}

// Names returns the registered skill names, ascending.
func (s *Snapshot) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Warnings returns the warnings recorded by the load that produced this snapshot.
func (s *Snapshot) Warnings() []LoadWarning {
	return s.warnings
}

// Len returns the number of registered skills.
func (s *Snapshot) Len() int {
	return len(s.skills)
}

// Catalog is the skill registry. Load replaces the whole snapshot atomically;
// Get/List/All operate on the snapshot current at call time and are safe to
// run concurrently with a reload.
type Catalog struct {
	source  Source
	mu      sync.Mutex // serializes Load
	current atomic.Pointer[Snapshot]
}

// New creates an empty catalog reading from source.
func New(source Source) *Catalog {
	c := &Catalog{source: source}
	c.current.Store(emptySnapshot())
	return c
}

// Load reads every definition from the source and atomically replaces the
// catalog. Malformed or duplicate entries are recorded as warnings and
// skipped; only a total source failure returns an error, in which case the
// previous snapshot stays in place.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	specs, warnings, err := c.source.Read(ctx)
	if err != nil {
		return fmt.Errorf("read skill definitions: %w", err)
	}

	skills := make(map[string]*SkillSpec, len(specs))
	for _, spec := range specs {
		if prev, exists := skills[spec.Name]; exists {
			// Last definition wins; the earlier one is discarded.
			warnings = append(warnings, LoadWarning{
				Source: spec.Name,
				Reason: fmt.Sprintf("duplicate definition replaces version %s", prev.Version),
			})
		}
		skills[spec.Name] = spec
	}

	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, w := range warnings {
		slog.Warn("skill definition skipped", "source", w.Source, "reason", w.Reason)
	}

	c.current.Store(&Snapshot{skills: skills, names: names, warnings: warnings})
	slog.Info("catalog loaded", "skills", len(skills), "warnings", len(warnings))
	return nil
}

// Snapshot returns the current immutable view (lock-free atomic read).
func (c *Catalog) Snapshot() *Snapshot {
	return c.current.Load()
}

// Get returns the named skill from the current snapshot.
func (c *Catalog) Get(name string) (*SkillSpec, bool) {
	return c.Snapshot().Get(name)
}

// List returns the display summaries from the current snapshot.
func (c *Catalog) List() []SkillSummary {
	return c.Snapshot().List()
}

// All returns the full skill records from the current snapshot.
func (c *Catalog) All() []*SkillSpec {
	return c.Snapshot().All()
}

// Warnings returns the last load's warnings.
func (c *Catalog) Warnings() []LoadWarning {
	return c.Snapshot().Warnings()
}

// Len returns the number of registered skills.
func (c *Catalog) Len() int {
	return c.Snapshot().Len()
}
