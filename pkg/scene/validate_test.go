package scene

import (
	"strings"
	"testing"

	"github.com/chazu/minbounds/pkg/kernel"
)

func TestValidateClean(t *testing.T) {
	s := New()
	a := boxNode("a", 1, 2, 3)
	s.AddNode(a)
	by := kernel.Point3{X: 5}
	tr := &Node{
		ID:       NewNodeID("translate/a"),
		Kind:     NodeTransform,
		Children: []NodeID{a.ID},
		Data:     TransformData{Translation: &by},
	}
	s.AddNode(tr)
	s.AddRoot(tr.ID)

	if errs := Validate(s); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateFindings(t *testing.T) {
	zero := kernel.Point3{}
	tests := []struct {
		name  string
		build func(s *Scene)
		want  string
	}{
		{
			name: "missing root",
			build: func(s *Scene) {
				s.AddRoot(NewNodeID("ghost"))
			},
			want: "does not exist",
		},
		{
			name: "dangling child",
			build: func(s *Scene) {
				s.AddNode(&Node{ID: NewNodeID("g"), Kind: NodeGroup, Children: []NodeID{NewNodeID("ghost")}, Data: GroupData{}})
			},
			want: "child",
		},
		{
			name: "cycle",
			build: func(s *Scene) {
				a, b := NewNodeID("a"), NewNodeID("b")
				s.AddNode(&Node{ID: a, Kind: NodeGroup, Children: []NodeID{b}, Data: GroupData{}})
				s.AddNode(&Node{ID: b, Kind: NodeGroup, Children: []NodeID{a}, Data: GroupData{}})
			},
			want: "cycle",
		},
		{
			name: "flat box",
			build: func(s *Scene) {
				s.AddNode(boxNode("flat", 1, 0, 1))
			},
			want: "box size",
		},
		{
			name: "bad cylinder",
			build: func(s *Scene) {
				s.AddNode(&Node{ID: NewNodeID("c"), Kind: NodePrimitive, Data: PrimitiveData{Shape: ShapeCylinder, Height: 1}})
			},
			want: "cylinder",
		},
		{
			name: "bad sphere",
			build: func(s *Scene) {
				s.AddNode(&Node{ID: NewNodeID("s"), Kind: NodePrimitive, Data: PrimitiveData{Shape: ShapeSphere, Radius: -1}})
			},
			want: "sphere",
		},
		{
			name: "empty points",
			build: func(s *Scene) {
				s.AddNode(&Node{ID: NewNodeID("p"), Kind: NodePoints, Data: PointsData{}})
			},
			want: "empty",
		},
		{
			name: "zero axis",
			build: func(s *Scene) {
				a := boxNode("a", 1, 1, 1)
				s.AddNode(a)
				s.AddNode(&Node{ID: NewNodeID("r"), Kind: NodeTransform, Children: []NodeID{a.ID}, Data: TransformData{Axis: &zero}})
			},
			want: "axis",
		},
		{
			name: "boolean with one child",
			build: func(s *Scene) {
				a := boxNode("a", 1, 1, 1)
				s.AddNode(a)
				s.AddNode(&Node{ID: NewNodeID("d"), Kind: NodeBoolean, Children: []NodeID{a.ID}, Data: BooleanData{Op: OpDifference}})
			},
			want: "difference needs at least two children",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			tt.build(s)
			errs := Validate(s)
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e.Error(), tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("no finding mentions %q: %v", tt.want, errs)
			}
		})
	}
}
