package scene

import (
	"testing"

	"github.com/chazu/minbounds/pkg/kernel"
)

func boxNode(name string, x, y, z float64) *Node {
	return &Node{
		ID:   NewNodeID("box/" + name),
		Kind: NodePrimitive,
		Name: name,
		Data: PrimitiveData{Shape: ShapeBox, Size: kernel.Point3{X: x, Y: y, Z: z}},
	}
}

func TestNewScene(t *testing.T) {
	s := New()
	if s.Nodes == nil || s.NameIndex == nil {
		t.Fatal("maps should be initialized")
	}
	if s.NodeCount() != 0 {
		t.Errorf("empty scene should have 0 nodes, got %d", s.NodeCount())
	}
}

func TestAddNodeAndLookup(t *testing.T) {
	s := New()
	n := boxNode("base", 10, 20, 5)
	s.AddNode(n)
	s.AddRoot(n.ID)
	s.AddRoot(n.ID)

	if s.NodeCount() != 1 {
		t.Errorf("node count = %d, want 1", s.NodeCount())
	}
	if len(s.Roots) != 1 {
		t.Errorf("roots = %d, want 1", len(s.Roots))
	}
	if got := s.Lookup("base"); got != n {
		t.Errorf("Lookup(base) = %v, want %v", got, n)
	}
	if got := s.Get(n.ID); got != n {
		t.Errorf("Get returned wrong node")
	}
	if s.Lookup("missing") != nil {
		t.Error("Lookup(missing) should be nil")
	}
}

func TestChildrenSkipsDangling(t *testing.T) {
	s := New()
	a := boxNode("a", 1, 1, 1)
	s.AddNode(a)
	g := &Node{
		ID:       NewNodeID("group/g"),
		Kind:     NodeGroup,
		Name:     "g",
		Children: []NodeID{a.ID, NewNodeID("ghost")},
		Data:     GroupData{},
	}
	s.AddNode(g)

	children := s.Children(g)
	if len(children) != 1 || children[0] != a {
		t.Errorf("Children = %v, want [a]", children)
	}
}

func TestNodeIDs(t *testing.T) {
	a := NewNodeID("box/a")
	if a != NewNodeID("box/a") {
		t.Error("NewNodeID should be deterministic")
	}
	if a == NewNodeID("box/b") {
		t.Error("distinct paths should give distinct IDs")
	}
	if len(a.Short()) != 8 {
		t.Errorf("Short() = %q, want 8 chars", a.Short())
	}
	if !ZeroID.IsZero() || a.IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestKindStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{NodePrimitive.String(), "primitive"},
		{NodePoints.String(), "points"},
		{NodeTransform.String(), "transform"},
		{NodeGroup.String(), "group"},
		{NodeBoolean.String(), "boolean"},
		{NodeKind(99).String(), "unknown"},
		{ShapeBox.String(), "box"},
		{ShapeCylinder.String(), "cylinder"},
		{ShapeSphere.String(), "sphere"},
		{Shape(7).String(), "unknown"},
		{OpDifference.String(), "difference"},
		{OpIntersection.String(), "intersection"},
		{BooleanOp(3).String(), "unknown"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
