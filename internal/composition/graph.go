// Package composition derives the skill-composition graph from the catalog
// and answers structural queries over it: dependency closures, reverse
// usage, hierarchy trees, a scoped execution order, aggregate statistics,
// and a visualization export.
package composition

import (
	"sort"

	"github.com/zeon-ai/zeon/internal/catalog"
)

// Graph is the directed skill-composition graph: node = skill name,
// edge A→B = A declares B as a subskill and B is registered.
//
// The graph is derived, never mutated in place; it is rebuilt in full after
// every catalog replacement. It may contain cycles — every query tolerates
// them without nontermination.
type Graph struct {
	adjacency map[string][]string // declaration-ordered subskill lists
	tiers     map[string]catalog.Tier
	names     []string // ascending
}

// Build derives the graph from the catalog's skill records. Subskill
// references that do not name a registered skill are dropped silently:
// they are treated as non-skill calls, never as build failures.
func Build(specs []*catalog.SkillSpec) *Graph {
	g := &Graph{
		adjacency: make(map[string][]string, len(specs)),
		tiers:     make(map[string]catalog.Tier, len(specs)),
	}

	present := make(map[string]bool, len(specs))
	for _, spec := range specs {
		present[spec.Name] = true
	}

	for _, spec := range specs {
		var edges []string
		for _, sub := range spec.Subskills {
			if present[sub] {
				edges = append(edges, sub)
			}
		}
		g.adjacency[spec.Name] = edges
		g.tiers[spec.Name] = spec.Tier
		g.names = append(g.names, spec.Name)
	}
	sort.Strings(g.names)

	return g
}

// Has reports whether the skill is a node of the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.adjacency[name]
	return ok
}

// Nodes returns the node names, ascending.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Subskills returns the skill's direct composition edges in declaration order.
func (g *Graph) Subskills(name string) []string {
	return g.adjacency[name]
}

// Tier returns the skill's tier label, or "Unknown" when the skill carries none.
func (g *Graph) Tier(name string) string {
	if t, ok := g.tiers[name]; ok && t != "" {
		return string(t)
	}
	return "Unknown"
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.adjacency)
}

// EdgeCount returns the total number of composition edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, edges := range g.adjacency {
		n += len(edges)
	}
	return n
}
