package composition

import (
	"reflect"
	"testing"

	"github.com/zeon-ai/zeon/internal/catalog"
)

func spec(name string, tier catalog.Tier, subskills ...string) *catalog.SkillSpec {
	return &catalog.SkillSpec{
		Name:      name,
		Version:   "1.0.0",
		Tier:      tier,
		Subskills: subskills,
	}
}

// robotSpecs mirrors a small pick-and-place skill set: four atomic
// skills, two patterns over them, one procedure over the patterns.
func robotSpecs() []*catalog.SkillSpec {
	return []*catalog.SkillSpec{
		spec("move", catalog.TierAtomic),
		spec("grasp", catalog.TierAtomic),
		spec("release", catalog.TierAtomic),
		spec("detect_object", catalog.TierAtomic),
		spec("approach_object", catalog.TierPattern, "detect_object", "move"),
		spec("pick_object", catalog.TierPattern, "approach_object", "grasp"),
		spec("place_object", catalog.TierPattern, "approach_object", "release"),
		spec("transfer_object", catalog.TierProcedure, "pick_object", "place_object"),
	}
}

func TestBuildDropsUnknownReferences(t *testing.T) {
	g := Build([]*catalog.SkillSpec{
		spec("move", catalog.TierAtomic),
		spec("patrol", catalog.TierPattern, "move", "log_event", "move"),
	})

	got := g.Subskills("patrol")
	want := []string{"move", "move"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Subskills(patrol) = %v, want %v", got, want)
	}
	if g.Has("log_event") {
		t.Fatal("unregistered reference must not become a node")
	}
}

func TestGraphNodesSortedAndCounted(t *testing.T) {
	g := Build(robotSpecs())

	if g.Len() != 8 {
		t.Fatalf("Len = %d, want 8", g.Len())
	}
	if g.EdgeCount() != 8 {
		t.Fatalf("EdgeCount = %d, want 8", g.EdgeCount())
	}
	nodes := g.Nodes()
	for i := 1; i < len(nodes); i++ {
		if nodes[i-1] >= nodes[i] {
			t.Fatalf("Nodes not ascending: %v", nodes)
		}
	}
}

func TestGraphTierFallback(t *testing.T) {
	g := Build([]*catalog.SkillSpec{
		spec("move", catalog.TierAtomic),
		{Name: "mystery", Version: "0.1.0"},
	})

	if got := g.Tier("move"); got != "T0" {
		t.Fatalf("Tier(move) = %q, want T0", got)
	}
	if got := g.Tier("mystery"); got != "Unknown" {
		t.Fatalf("Tier(mystery) = %q, want Unknown", got)
	}
	if got := g.Tier("absent"); got != "Unknown" {
		t.Fatalf("Tier(absent) = %q, want Unknown", got)
	}
}

func TestSubskillsKeepDeclarationOrder(t *testing.T) {
	g := Build(robotSpecs())

	got := g.Subskills("approach_object")
	want := []string{"detect_object", "move"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Subskills(approach_object) = %v, want %v", got, want)
	}
}
