package tree

import (
	"fmt"
	"testing"
)

// seqGen returns a deterministic id generator for tests.
func seqGen() func() string {
	i := 0
	return func() string {
		i++
		return fmt.Sprintf("gen%d", i)
	}
}

// sampleForest builds:
//
//	root (folder)
//	├── sub (folder)
//	│   └── c1 (component)
//	└── c2 (component)
func sampleForest() []*Node {
	sub := NewFolder("sub", "Roles")
	sub.Children = []*Node{NewComponent("c1", "Architect", "You are an architect.", TypeRole)}
	root := NewFolder("root", RootFolderName)
	root.Children = []*Node{sub, NewComponent("c2", "Be concise", "Keep answers short.", TypeInstruction)}
	return []*Node{root}
}

func TestFind(t *testing.T) {
	forest := sampleForest()

	tests := []struct {
		name   string
		nodeID string
		found  bool
	}{
		{"top level", "root", true},
		{"nested folder", "sub", true},
		{"deep component", "c1", true},
		{"missing", "nope", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Find(forest, tt.nodeID)
			if (n != nil) != tt.found {
				t.Fatalf("Find(%q) = %v, want found=%v", tt.nodeID, n, tt.found)
			}
			if n != nil && n.ID != tt.nodeID {
				t.Fatalf("Find(%q) returned node %q", tt.nodeID, n.ID)
			}
		})
	}
}

func TestInsertDoesNotMutateInput(t *testing.T) {
	forest := sampleForest()
	before := Find(forest, "sub")

	out := Insert(forest, "sub", NewComponent("c3", "Reviewer", "", TypeRole))

	if Find(out, "c3") == nil {
		t.Fatal("inserted node not found in result")
	}
	if Find(forest, "c3") != nil {
		t.Fatal("input forest was mutated")
	}
	if len(before.Children) != 1 {
		t.Fatalf("original sub folder has %d children, want 1", len(before.Children))
	}
	// Untouched siblings keep their identity across the copy.
	if Find(out, "c2") != Find(forest, "c2") {
		t.Fatal("untouched sibling was copied")
	}
}

func TestInsertFailsClosed(t *testing.T) {
	forest := sampleForest()

	tests := []struct {
		name     string
		parentID string
	}{
		{"unknown parent", "nope"},
		{"component parent", "c1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Insert(forest, tt.parentID, NewComponent("c3", "X", "", TypeContext))
			if &out[0] != &forest[0] || Find(out, "c3") != nil {
				t.Fatal("expected input forest returned unchanged")
			}
		})
	}
}

func TestRemove(t *testing.T) {
	forest := sampleForest()

	out := Remove(forest, "sub")
	if Find(out, "sub") != nil {
		t.Fatal("folder still present after remove")
	}
	if Find(out, "c1") != nil {
		t.Fatal("subtree survived folder removal")
	}
	if Find(forest, "sub") == nil {
		t.Fatal("input forest was mutated")
	}

	same := Remove(forest, "nope")
	if len(same) != len(forest) || same[0] != forest[0] {
		t.Fatal("removing a missing id should return the input unchanged")
	}
}

func TestMove(t *testing.T) {
	forest := sampleForest()

	out := Move(forest, "c2", "sub")
	sub := Find(out, "sub")
	if len(sub.Children) != 2 || sub.Children[1].ID != "c2" {
		t.Fatalf("c2 not appended to sub: %+v", sub.Children)
	}
	root := Find(out, "root")
	if len(root.Children) != 1 {
		t.Fatalf("root still has %d children, want 1", len(root.Children))
	}
}

func TestMoveFailsClosed(t *testing.T) {
	forest := sampleForest()

	tests := []struct {
		name            string
		dragged, target string
	}{
		{"unknown dragged", "nope", "sub"},
		{"unknown target", "c2", "nope"},
		{"component target", "c2", "c1"},
		{"target inside dragged subtree", "root", "sub"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Move(forest, tt.dragged, tt.target)
			if len(out) != len(forest) || out[0] != forest[0] {
				t.Fatal("expected input forest returned unchanged")
			}
		})
	}
}

func TestIsDescendant(t *testing.T) {
	forest := sampleForest()
	root := Find(forest, "root")

	if !IsDescendant(root, "c1") {
		t.Fatal("c1 should be a descendant of root")
	}
	if IsDescendant(root, "root") {
		t.Fatal("a node is not its own descendant")
	}
	if IsDescendant(Find(forest, "sub"), "c2") {
		t.Fatal("c2 is not under sub")
	}
}

func TestUpdate(t *testing.T) {
	forest := sampleForest()

	name := "Senior Architect"
	content := "You are a senior architect."
	out := Update(forest, "c1", Patch{Name: &name, Content: &content})

	got := Find(out, "c1")
	if got.Name != name || got.Content != content {
		t.Fatalf("got %q/%q, want %q/%q", got.Name, got.Content, name, content)
	}
	if got.ComponentType != TypeRole {
		t.Fatalf("unpatched field changed: %q", got.ComponentType)
	}
	orig := Find(forest, "c1")
	if orig.Name != "Architect" {
		t.Fatal("input forest was mutated")
	}

	same := Update(forest, "nope", Patch{Name: &name})
	if same[0] != forest[0] {
		t.Fatal("updating a missing id should return the input unchanged")
	}
}

func TestCloneWithNewIDs(t *testing.T) {
	forest := sampleForest()
	cp := CloneWithNewIDs(forest[0], seqGen())

	var walk func(a, b *Node)
	walk = func(a, b *Node) {
		if a.ID == b.ID {
			t.Fatalf("id %q not replaced", a.ID)
		}
		if a.Name != b.Name || a.Kind != b.Kind || a.Content != b.Content {
			t.Fatalf("clone diverged at %q", a.ID)
		}
		if len(a.Children) != len(b.Children) {
			t.Fatalf("child count diverged at %q", a.ID)
		}
		for i := range a.Children {
			walk(a.Children[i], b.Children[i])
		}
	}
	walk(forest[0], cp)
}

func TestNormalizeExpansion(t *testing.T) {
	sub := &Node{ID: "sub", Name: "Roles", Kind: KindFolder}
	collapsed := false
	root := &Node{ID: "root", Name: RootFolderName, Kind: KindFolder, Expanded: &collapsed, Children: []*Node{sub}}

	out := NormalizeExpansion([]*Node{root}, true)

	if got := Find(out, "root"); *got.Expanded {
		t.Fatal("explicit false was overwritten")
	}
	if got := Find(out, "sub"); got.Expanded == nil || !*got.Expanded {
		t.Fatal("absent expanded flag not defaulted to true")
	}

	// Idempotent: a second pass changes nothing.
	again := NormalizeExpansion(out, true)
	if *Find(again, "root").Expanded || !*Find(again, "sub").Expanded {
		t.Fatal("second normalization changed flags")
	}
}
