package composition

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/zeon-ai/zeon/internal/catalog"
)

// View binds one catalog snapshot to the graph and analyzer derived from
// it. Everything a query needs hangs off a single View, so a request that
// grabbed one keeps a consistent picture even while a reload swaps in the
// next.
type View struct {
	Catalog  *catalog.Snapshot
	Graph    *Graph
	Analyzer *Analyzer
}

// NewView derives the graph and analyzer for a catalog snapshot.
func NewView(snap *catalog.Snapshot) *View {
	g := Build(snap.All())
	return &View{Catalog: snap, Graph: g, Analyzer: NewAnalyzer(g)}
}

// Search returns summaries of skills whose name or description contains
// query, case-insensitive, optionally restricted to one tier. An empty
// query matches everything.
func (v *View) Search(query, tier string) []catalog.SkillSummary {
	q := strings.ToLower(query)
	t := catalog.NormalizeTier(tier)

	out := []catalog.SkillSummary{}
	for _, spec := range v.Catalog.All() {
		if t != "" && spec.Tier != t {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(spec.Name), q) &&
			!strings.Contains(strings.ToLower(spec.Description), q) {
			continue
		}
		out = append(out, spec.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Store publishes the current View. Readers load it without locking;
// reloads construct a full replacement and swap it in whole.
type Store struct {
	current atomic.Pointer[View]
}

// NewStore builds a store seeded from the catalog snapshot.
func NewStore(snap *catalog.Snapshot) *Store {
	s := &Store{}
	s.Swap(snap)
	return s
}

// View returns the published view.
func (s *Store) View() *View {
	return s.current.Load()
}

// Swap derives a fresh view from snap and publishes it.
func (s *Store) Swap(snap *catalog.Snapshot) *View {
	v := NewView(snap)
	s.current.Store(v)
	return v
}
