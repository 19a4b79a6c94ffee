package composition

import (
	"fmt"
	"sort"
)

// NotFoundError reports a query against a skill that is not a graph node.
type NotFoundError struct {
	Skill string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("skill %q not found", e.Skill)
}

// Analyzer answers read-only structural queries over a single graph build.
// It holds no state beyond the graph, so it is safe for concurrent use.
type Analyzer struct {
	graph *Graph
}

// NewAnalyzer wraps a built graph.
func NewAnalyzer(g *Graph) *Analyzer {
	return &Analyzer{graph: g}
}

// Graph returns the underlying graph.
func (a *Analyzer) Graph() *Graph { return a.graph }

// Closure returns every skill transitively reachable from name, in breadth
// first discovery order. The root itself appears only if a cycle leads back
// to it. An unknown root yields an empty slice, never nil.
func (a *Analyzer) Closure(name string) []string {
	closure := []string{}
	seen := make(map[string]bool)
	queue := []string{name}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, sub := range a.graph.Subskills(current) {
			if !seen[sub] {
				seen[sub] = true
				closure = append(closure, sub)
				queue = append(queue, sub)
			}
		}
	}

	return closure
}

// UsageOf returns the skills that declare name as a direct subskill,
// ascending by name. Duplicate edges count once.
func (a *Analyzer) UsageOf(name string) []string {
	users := []string{}
	for _, skill := range a.graph.Nodes() {
		for _, sub := range a.graph.Subskills(skill) {
			if sub == name {
				users = append(users, skill)
				break
			}
		}
	}
	return users
}

// Node is one entry of a hierarchy tree.
//
// A leaf that genuinely has no subskills carries an empty Subskills slice;
// a node cut off by cycle detection carries Circular and no Subskills at all.
type Node struct {
	Name      string  `json:"name"`
	Tier      string  `json:"tier"`
	Circular  bool    `json:"circular,omitzero"`
	Subskills []*Node `json:"subskills,omitzero"`
}

// Hierarchy expands name into its full composition tree. Cycle detection is
// per branch: a skill revisited along its own ancestor chain becomes a
// Circular leaf, while the same skill reached on a sibling branch expands
// normally. Shared subtrees are therefore duplicated, not aliased.
func (a *Analyzer) Hierarchy(name string) (*Node, error) {
	if !a.graph.Has(name) {
		return nil, &NotFoundError{Skill: name}
	}
	return a.expand(name, map[string]bool{}), nil
}

func (a *Analyzer) expand(name string, ancestors map[string]bool) *Node {
	if ancestors[name] {
		return &Node{Name: name, Tier: a.graph.Tier(name), Circular: true}
	}
	ancestors[name] = true

	node := &Node{
		Name:      name,
		Tier:      a.graph.Tier(name),
		Subskills: []*Node{},
	}
	for _, sub := range a.graph.Subskills(name) {
		branch := make(map[string]bool, len(ancestors))
		for k := range ancestors {
			branch[k] = true
		}
		node.Subskills = append(node.Subskills, a.expand(sub, branch))
	}
	return node
}

// ExecutionOrder returns a dependency-aware ordering scoped to name.
//
// The walk starts from name and releases a skill once every one of its
// subskills has been emitted, so composites surface after their parts
// become available from this root's perspective. Skills whose in-degree
// was satisfied partly outside the reachable set are never released,
// which keeps the result scoped rather than global. Cycles drain without
// looping. An unknown root yields an empty slice, never nil.
func (a *Analyzer) ExecutionOrder(name string) []string {
	if !a.graph.Has(name) {
		return []string{}
	}

	deps := make(map[string]map[string]bool)
	for _, skill := range a.graph.Nodes() {
		for _, sub := range a.graph.Subskills(skill) {
			if deps[skill] == nil {
				deps[skill] = make(map[string]bool)
			}
			deps[skill][sub] = true
		}
	}

	depOrder := make([]string, 0, len(deps))
	for skill := range deps {
		depOrder = append(depOrder, skill)
	}
	sort.Strings(depOrder)

	inDegree := make(map[string]int)
	for skill := range deps {
		inDegree[skill] = 0
	}
	for _, set := range deps {
		for dep := range set {
			inDegree[dep]++
		}
	}

	result := []string{}
	queue := []string{name}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for _, skill := range depOrder {
			if deps[skill][current] {
				inDegree[skill]--
				if inDegree[skill] == 0 {
					queue = append(queue, skill)
				}
			}
		}
	}

	return result
}

// Statistics aggregates the whole graph.
type Statistics struct {
	TotalSkills      int            `json:"total_skills"`
	TierCounts       map[string]int `json:"tier_counts"`
	MostComplexSkill string         `json:"most_complex_skill,omitempty"`
	MostUsedSkill    string         `json:"most_used_skill,omitempty"`
}

// Stats computes aggregate figures for the graph. Both superlatives use
// strict maxima over ascending name order, so the first name encountered
// wins ties; an edgeless graph leaves both empty.
func (a *Analyzer) Stats() Statistics {
	stats := Statistics{
		TotalSkills: a.graph.Len(),
		TierCounts:  make(map[string]int),
	}

	names := a.graph.Nodes()
	for _, skill := range names {
		stats.TierCounts[a.graph.Tier(skill)]++
	}

	maxOut := 0
	for _, skill := range names {
		if n := len(a.graph.Subskills(skill)); n > maxOut {
			maxOut = n
			stats.MostComplexSkill = skill
		}
	}

	incoming := make(map[string]int)
	for _, skill := range names {
		for _, sub := range a.graph.Subskills(skill) {
			incoming[sub]++
		}
	}
	maxIn := 0
	for _, skill := range names {
		if incoming[skill] > maxIn {
			maxIn = incoming[skill]
			stats.MostUsedSkill = skill
		}
	}

	return stats
}

// ExportNode is one node of the visualization export.
type ExportNode struct {
	ID    string `json:"id"`
	Tier  string `json:"tier"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// ExportEdge is one composition edge of the visualization export.
type ExportEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// TierMeta is the fixed presentation metadata for one tier.
type TierMeta struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

// ExportData is the complete graph projection handed to visualization clients.
type ExportData struct {
	Nodes []ExportNode        `json:"nodes"`
	Edges []ExportEdge        `json:"edges"`
	Tiers map[string]TierMeta `json:"tiers"`
}

var tierMetadata = map[string]TierMeta{
	"T0": {Color: "#ff6b6b", Label: "Atomic Skills"},
	"T1": {Color: "#4ecdc4", Label: "Pattern Skills"},
	"T2": {Color: "#45b7d1", Label: "Procedural Skills"},
}

// Export projects the graph into node and edge lists plus the tier
// metadata table. Nodes ascend by name; edges follow declaration order
// within each source skill.
func (a *Analyzer) Export() ExportData {
	data := ExportData{
		Nodes: []ExportNode{},
		Edges: []ExportEdge{},
		Tiers: tierMetadata,
	}
	for _, skill := range a.graph.Nodes() {
		data.Nodes = append(data.Nodes, ExportNode{
			ID:    skill,
			Tier:  a.graph.Tier(skill),
			Label: skill,
			Type:  "skill",
		})
		for _, sub := range a.graph.Subskills(skill) {
			data.Edges = append(data.Edges, ExportEdge{
				Source: skill,
				Target: sub,
				Type:   "composition",
			})
		}
	}
	return data
}
