package model

import (
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func TestNewTreeRoot(t *testing.T) {
	tree := NewTree(DefaultRootName)
	root := tree.Root()

	if root.Name != "root" {
		t.Errorf("root name = %q, want %q", root.Name, "root")
	}
	if root.Children == nil || len(root.Children) != 0 {
		t.Errorf("expected root to start with an empty children sequence, got %#v", root.Children)
	}
	if root.Flags != nil {
		t.Errorf("expected root flags to be uninitialised, got %#v", root.Flags)
	}
	if !root.IsRoot() {
		t.Error("expected root.IsRoot() to be true")
	}
	if tree.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tree.Len())
	}
}

// TestAddChildScenario mirrors the basic editing flow: one child under the root.
func TestAddChildScenario(t *testing.T) {
	tree := NewTree(DefaultRootName)
	root := tree.Root()

	child, err := tree.AddChild(root.ID, "build", "build the project", "b")
	if err != nil {
		t.Fatalf("AddChild() error: %v", err)
	}

	if len(root.Children) != 1 || root.Children[0] != child {
		t.Fatalf("expected root to have exactly the new child, got %d children", len(root.Children))
	}
	if child.Name != "build" || child.Use != "build the project" || child.Short != "b" {
		t.Errorf("child fields = %q/%q/%q", child.Name, child.Use, child.Short)
	}
	if child.Children == nil || len(child.Children) != 0 {
		t.Errorf("expected child to have an empty children sequence, got %#v", child.Children)
	}
	if child.Parent() != root {
		t.Error("expected child's parent to be the root")
	}
	if root.Name != "root" || root.Use != "" || root.Short != "" || root.Flags != nil {
		t.Error("expected parent fields to be unchanged")
	}
}

func TestAddChildPreservesOrder(t *testing.T) {
	tree := NewTree(DefaultRootName)
	rootID := tree.Root().ID

	names := []string{"build", "test", "deploy", "clean"}
	for _, name := range names {
		if _, err := tree.AddChild(rootID, name, "", ""); err != nil {
			t.Fatalf("AddChild(%q) error: %v", name, err)
		}
	}

	children := tree.Root().Children
	if len(children) != len(names) {
		t.Fatalf("expected %d children, got %d", len(names), len(children))
	}
	for i, name := range names {
		if children[i].Name != name {
			t.Errorf("children[%d] = %q, want %q", i, children[i].Name, name)
		}
	}
}

func TestAddChildLazilyInitialisesChildren(t *testing.T) {
	tree := FromCommand(Command{Name: "root"})
	root := tree.Root()
	if root.Children != nil {
		t.Fatalf("expected parsed root without children key to have nil children")
	}

	if _, err := tree.AddChild(root.ID, "build", "", ""); err != nil {
		t.Fatalf("AddChild() error: %v", err)
	}
	if len(root.Children) != 1 {
		t.Errorf("expected 1 child after lazy init, got %d", len(root.Children))
	}
}

func TestAddChildInvalidParent(t *testing.T) {
	tree := NewTree(DefaultRootName)

	for _, id := range []NodeID{NoNode, 42, -1} {
		_, err := tree.AddChild(id, "x", "", "")
		if !errors.Is(err, ErrInvalidParent) {
			t.Errorf("AddChild(%d) error = %v, want ErrInvalidParent", id, err)
		}
	}
	if len(tree.Root().Children) != 0 {
		t.Error("expected tree to be unchanged after invalid adds")
	}
}

// TestAddFlagScenario attaches a flag to a nested command.
func TestAddFlagScenario(t *testing.T) {
	tree := NewTree(DefaultRootName)
	build, _ := tree.AddChild(tree.Root().ID, "build", "", "")

	if build.Flags != nil {
		t.Fatal("expected new command to have no flags yet")
	}

	f, err := tree.AddFlag(build.ID, "verbose", "bool", "enable verbose output")
	if err != nil {
		t.Fatalf("AddFlag() error: %v", err)
	}

	want := Flag{Name: "verbose", Type: "bool", Description: "enable verbose output"}
	if f != want {
		t.Errorf("returned flag = %+v, want %+v", f, want)
	}
	if len(build.Flags) != 1 || build.Flags[0] != want {
		t.Errorf("build.Flags = %+v, want [%+v]", build.Flags, want)
	}
}

func TestAddFlagInvalidTarget(t *testing.T) {
	tree := NewTree(DefaultRootName)

	_, err := tree.AddFlag(99, "verbose", "bool", "")
	if !errors.Is(err, ErrInvalidParent) {
		t.Errorf("AddFlag() error = %v, want ErrInvalidParent", err)
	}
}

func TestWalkOrder(t *testing.T) {
	tree := NewTree(DefaultRootName)
	rootID := tree.Root().ID
	a, _ := tree.AddChild(rootID, "a", "", "")
	tree.AddChild(a.ID, "a1", "", "")
	tree.AddChild(a.ID, "a2", "", "")
	tree.AddChild(rootID, "b", "", "")

	var got []string
	var depths []int
	tree.Walk(func(n *Node, depth int) bool {
		got = append(got, n.Name)
		depths = append(depths, depth)
		return true
	})

	want := []string{"root", "a", "a1", "a2", "b"}
	wantDepths := []int{0, 1, 2, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("Walk visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] || depths[i] != wantDepths[i] {
			t.Errorf("visit[%d] = %s@%d, want %s@%d", i, got[i], depths[i], want[i], wantDepths[i])
		}
	}
}

func TestWalkSkipSubtree(t *testing.T) {
	tree := NewTree(DefaultRootName)
	a, _ := tree.AddChild(tree.Root().ID, "a", "", "")
	tree.AddChild(a.ID, "hidden", "", "")

	count := 0
	tree.Walk(func(n *Node, depth int) bool {
		count++
		return n.Name != "a"
	})
	if count != 2 {
		t.Errorf("expected 2 visits when skipping a's subtree, got %d", count)
	}
}

func TestPaths(t *testing.T) {
	tree := NewTree(DefaultRootName)
	rootID := tree.Root().ID
	a, _ := tree.AddChild(rootID, "a", "", "")
	b, _ := tree.AddChild(rootID, "b", "", "")
	b1, _ := tree.AddChild(b.ID, "b1", "", "")
	b2, _ := tree.AddChild(b.ID, "b2", "", "")

	tests := []struct {
		id   NodeID
		path string
	}{
		{rootID, "0"},
		{a.ID, "1"},
		{b.ID, "2"},
		{b1.ID, "2.1"},
		{b2.ID, "2.2"},
	}
	for _, tt := range tests {
		got, ok := tree.PathOf(tt.id)
		if !ok || got != tt.path {
			t.Errorf("PathOf(%d) = %q,%v want %q", tt.id, got, ok, tt.path)
		}
		id, err := tree.Resolve(tt.path)
		if err != nil || id != tt.id {
			t.Errorf("Resolve(%q) = %d,%v want %d", tt.path, id, err, tt.id)
		}
	}

	for _, bad := range []string{"3", "2.3", "x", "1.1", "0.1", "-1"} {
		if _, err := tree.Resolve(bad); !errors.Is(err, ErrBadPath) {
			t.Errorf("Resolve(%q) error = %v, want ErrBadPath", bad, err)
		}
	}
	if _, ok := tree.PathOf(1000); ok {
		t.Error("expected PathOf on unknown id to fail")
	}
}

// TestAppendOnlyProperty checks that every add appends to exactly one
// container and leaves everything already there untouched.
func TestAppendOnlyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := NewTree(DefaultRootName)
		ids := []NodeID{tree.Root().ID}

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			target := rapid.SampledFrom(ids).Draw(t, "target")
			n, _ := tree.Node(target)
			before := snapshot(n)

			if rapid.Bool().Draw(t, "flag") {
				name := rapid.StringMatching(`[a-z][a-z-]{0,8}`).Draw(t, "flagName")
				typ := rapid.SampledFrom([]string{"string", "int", "bool"}).Draw(t, "flagType")
				f, err := tree.AddFlag(target, name, typ, "")
				if err != nil {
					t.Fatalf("AddFlag: %v", err)
				}
				if len(n.Flags) != len(before.Flags)+1 || n.Flags[len(n.Flags)-1] != f {
					t.Fatalf("flag not appended at the end")
				}
				for j := range before.Flags {
					if n.Flags[j] != before.Flags[j] {
						t.Fatalf("flag %d changed", j)
					}
				}
				if len(n.Children) != len(before.Children) {
					t.Fatalf("children changed by AddFlag")
				}
				continue
			}

			name := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "childName")
			child, err := tree.AddChild(target, name, rapid.String().Draw(t, "use"), rapid.String().Draw(t, "short"))
			if err != nil {
				t.Fatalf("AddChild: %v", err)
			}
			ids = append(ids, child.ID)

			if n.Name != before.Name || n.Use != before.Use || n.Short != before.Short {
				t.Fatalf("parent fields changed by AddChild")
			}
			if len(n.Flags) != len(before.Flags) {
				t.Fatalf("parent flags changed by AddChild")
			}
			if len(n.Children) != len(before.Children)+1 || n.Children[len(n.Children)-1] != child {
				t.Fatalf("child not appended at the end")
			}
			for j, c := range before.Children {
				if n.Children[j].Name != c.Name {
					t.Fatalf("child %d changed", j)
				}
			}
		}

		if tree.Len() != tree.Serialize().Count() {
			t.Fatalf("Len() = %d but snapshot has %d commands", tree.Len(), tree.Serialize().Count())
		}
	})
}
