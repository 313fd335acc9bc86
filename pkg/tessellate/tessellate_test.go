package tessellate_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chazu/minbounds/pkg/engine"
	"github.com/chazu/minbounds/pkg/kernel"
	"github.com/chazu/minbounds/pkg/kernel/sdfx"
	"github.com/chazu/minbounds/pkg/scene"
	"github.com/chazu/minbounds/pkg/tessellate"
)

// newKernel returns a coarse sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return &sdfx.SdfxKernel{MeshCells: 30}
}

func makeBox(name string, x, y, z float64) *scene.Node {
	return &scene.Node{
		ID:   scene.NewNodeID("box/" + name),
		Kind: scene.NodePrimitive,
		Name: name,
		Data: scene.PrimitiveData{Shape: scene.ShapeBox, Size: kernel.Point3{X: x, Y: y, Z: z}},
	}
}

func makeTranslate(name string, tx, ty, tz float64, children ...scene.NodeID) *scene.Node {
	t := kernel.Point3{X: tx, Y: ty, Z: tz}
	return &scene.Node{
		ID:       scene.NewNodeID("translate/" + name),
		Kind:     scene.NodeTransform,
		Name:     name,
		Children: children,
		Data:     scene.TransformData{Translation: &t},
	}
}

func makeRotate(name string, axis kernel.Point3, deg float64, children ...scene.NodeID) *scene.Node {
	return &scene.Node{
		ID:       scene.NewNodeID("rotate/" + name),
		Kind:     scene.NodeTransform,
		Name:     name,
		Children: children,
		Data:     scene.TransformData{Axis: &axis, Angle: deg},
	}
}

func makeGroup(name string, children ...scene.NodeID) *scene.Node {
	return &scene.Node{
		ID:       scene.NewNodeID("union/" + name),
		Kind:     scene.NodeGroup,
		Name:     name,
		Children: children,
		Data:     scene.GroupData{},
	}
}

func centroid(m *kernel.Mesh) kernel.Point3 {
	var c kernel.Point3
	n := m.VertexCount()
	for i := 0; i < n; i++ {
		c.X += float64(m.Vertices[i*3])
		c.Y += float64(m.Vertices[i*3+1])
		c.Z += float64(m.Vertices[i*3+2])
	}
	return c.MulScalar(1 / float64(n))
}

func TestSingleBox(t *testing.T) {
	s := scene.New()
	box := makeBox("block", 20, 10, 4)
	s.AddNode(box)
	s.AddRoot(box.ID)

	meshes, err := tessellate.Tessellate(s, newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}
	m := meshes[0]
	if m.PartName != "block" {
		t.Errorf("PartName = %q, want %q", m.PartName, "block")
	}
	if m.TriangleCount() == 0 {
		t.Error("mesh should have triangles")
	}
}

func TestTranslatedBox(t *testing.T) {
	s := scene.New()
	box := makeBox("block", 10, 6, 4)
	s.AddNode(box)
	place := makeTranslate("move", 50, -20, 8, box.ID)
	s.AddNode(place)
	s.AddRoot(place.ID)

	meshes, err := tessellate.Tessellate(s, newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}

	// Boxes are centered, so the centroid lands near the translation.
	c := centroid(meshes[0])
	const tol = 2.0
	if math.Abs(c.X-50) > tol || math.Abs(c.Y+20) > tol || math.Abs(c.Z-8) > tol {
		t.Errorf("centroid = %v, want near (50,-20,8)", c)
	}
}

func TestGroupOfTransforms(t *testing.T) {
	s := scene.New()
	a := makeBox("a", 4, 4, 4)
	b := makeBox("b", 2, 8, 2)
	s.AddNode(a)
	s.AddNode(b)
	ta := makeTranslate("ta", -10, 0, 0, a.ID)
	rb := makeRotate("rb", kernel.Point3{Z: 1}, 90, b.ID)
	s.AddNode(ta)
	s.AddNode(rb)
	g := makeGroup("pair", ta.ID, rb.ID)
	s.AddNode(g)
	s.AddRoot(g.ID)

	meshes, err := tessellate.Tessellate(s, newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	names := map[string]bool{}
	for _, m := range meshes {
		if m.IsEmpty() {
			t.Errorf("mesh %q should not be empty", m.PartName)
		}
		names[m.PartName] = true
	}
	for _, want := range []string{"a", "b"} {
		if !names[want] {
			t.Errorf("missing mesh for %q", want)
		}
	}

	// b is 2 x 8 x 2; a quarter turn about Z makes it 8 wide in X.
	for _, m := range meshes {
		if m.PartName != "b" {
			continue
		}
		box, err := kernel.Extents(m.Points())
		if err != nil {
			t.Fatal(err)
		}
		span := box.Span()
		if span.X < 6 || span.Y > 4 {
			t.Errorf("rotated span = %v, want wide in X", span)
		}
	}
}

func TestPointCloudTransforms(t *testing.T) {
	s := scene.New()
	cloud := &scene.Node{
		ID:   scene.NewNodeID("points/c"),
		Kind: scene.NodePoints,
		Name: "c",
		Data: scene.PointsData{Points: []kernel.Point3{{X: 1}, {Y: 2}}},
	}
	s.AddNode(cloud)
	// Inner rotation, outer translation.
	rot := makeRotate("r", kernel.Point3{Z: 2}, 90, cloud.ID)
	s.AddNode(rot)
	move := makeTranslate("m", 0, 0, 5, rot.ID)
	s.AddNode(move)
	s.AddRoot(move.ID)

	meshes, err := tessellate.Tessellate(s, newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}
	m := meshes[0]
	if m.TriangleCount() != 0 {
		t.Errorf("point cloud should have no triangles, got %d", m.TriangleCount())
	}
	pts := m.Points()
	want := []kernel.Point3{{Y: 1, Z: 5}, {X: -2, Z: 5}}
	if len(pts) != len(want) {
		t.Fatalf("got %d points, want %d", len(pts), len(want))
	}
	for i := range want {
		d := pts[i].Sub(want[i]).Length()
		if d > 1e-6 {
			t.Errorf("point %d = %v, want %v", i, pts[i], want[i])
		}
	}

	// The source points are untouched.
	if cloud.Data.(scene.PointsData).Points[0] != (kernel.Point3{X: 1}) {
		t.Error("tessellation mutated the scene")
	}
}

func TestEmptyScene(t *testing.T) {
	meshes, err := tessellate.Tessellate(scene.New(), newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 0 {
		t.Fatalf("expected 0 meshes, got %d", len(meshes))
	}

	if _, err := tessellate.Points(scene.New(), newKernel()); !errors.Is(err, kernel.ErrEmptyInput) {
		t.Errorf("Points on empty scene: err = %v, want ErrEmptyInput", err)
	}

	if meshes, err := tessellate.Tessellate(nil, newKernel()); err != nil || meshes != nil {
		t.Errorf("nil scene: got %v, %v", meshes, err)
	}
}

func TestScriptToPoints(t *testing.T) {
	s, evalErrs, err := engine.NewEngine().Evaluate(`
(emit
  (translate (box 4 4 4) :by (vec3 10 0 0))
  (points (vec3 0 0 0) (vec3 0 0 1)))
`)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("evaluate: %v %v", err, evalErrs)
	}

	meshes, err := tessellate.Tessellate(s, newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}

	pts, err := tessellate.Points(s, newKernel())
	if err != nil {
		t.Fatalf("Points failed: %v", err)
	}
	box, err := kernel.Extents(pts)
	if err != nil {
		t.Fatal(err)
	}
	// The box reaches x = 12; the cloud pins x = 0.
	if box.Min.X > 0.01 || math.Abs(box.Max.X-12) > 1 {
		t.Errorf("extents = %v", box)
	}
}

// scriptExtents evaluates src, tessellates it and returns the extents of
// all vertices.
func scriptExtents(t *testing.T, src string) ([]*kernel.Mesh, kernel.Box6) {
	t.Helper()
	s, evalErrs, err := engine.NewEngine().Evaluate(src)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("evaluate: %v %v", err, evalErrs)
	}
	meshes, err := tessellate.Tessellate(s, newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	box, err := kernel.Extents(kernel.MergeMeshes(meshes).Points())
	if err != nil {
		t.Fatal(err)
	}
	return meshes, box
}

func TestBooleans(t *testing.T) {
	const tol = 0.3
	tests := []struct {
		name   string
		source string
		min    kernel.Point3
		max    kernel.Point3
	}{
		{
			name:   "difference keeps the uncut half",
			source: `(difference (box 4 4 4) (translate (box 4 4 4) :by (vec3 2 0 0)) :name "part")`,
			min:    kernel.Point3{X: -2, Y: -2, Z: -2},
			max:    kernel.Point3{X: 0, Y: 2, Z: 2},
		},
		{
			name:   "difference unions its cutters",
			source: `(difference (box 4 4 4)
  (translate (box 4 4 4) :by (vec3 3 0 0))
  (translate (box 4 4 4) :by (vec3 -3 0 0))
  :name "part")`,
			min: kernel.Point3{X: -1, Y: -2, Z: -2},
			max: kernel.Point3{X: 1, Y: 2, Z: 2},
		},
		{
			name:   "intersection",
			source: `(intersection (box 4 4 4) (box 2 6 2) :name "part")`,
			min:    kernel.Point3{X: -1, Y: -2, Z: -1},
			max:    kernel.Point3{X: 1, Y: 2, Z: 1},
		},
		{
			name:   "group operand",
			source: `(difference
  (union "bar" (box 4 4 4) (translate (box 4 4 4) :by (vec3 4 0 0)))
  (translate (box 2 6 6) :by (vec3 6 0 0))
  :name "part")`,
			min: kernel.Point3{X: -2, Y: -2, Z: -2},
			max: kernel.Point3{X: 5, Y: 2, Z: 2},
		},
		{
			name:   "outer transform",
			source: `(rotate
  (difference (box 4 4 4) (translate (box 4 4 4) :by (vec3 2 0 0)) :name "part")
  :axis (vec3 0 0 1) :angle 90)`,
			min: kernel.Point3{X: -2, Y: -2, Z: -2},
			max: kernel.Point3{X: 2, Y: 0, Z: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meshes, box := scriptExtents(t, tt.source)
			if len(meshes) != 1 {
				t.Fatalf("expected 1 mesh, got %d", len(meshes))
			}
			if meshes[0].PartName != "part" {
				t.Errorf("PartName = %q, want part", meshes[0].PartName)
			}
			if !near(box.Min, tt.min, tol) || !near(box.Max, tt.max, tol) {
				t.Errorf("extents = %v, want %v..%v", box, tt.min, tt.max)
			}
		})
	}
}

func near(a, b kernel.Point3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestIntersectionRoundsCorners(t *testing.T) {
	meshes, _ := scriptExtents(t, `(intersection (box 4 4 4) (sphere 2.5))`)
	for _, p := range meshes[0].Points() {
		if p.Length() > 2.5+0.3 {
			t.Fatalf("vertex %v lies outside the sphere", p)
		}
	}
}

func TestBooleanRejectsPointCloud(t *testing.T) {
	s, evalErrs, err := engine.NewEngine().Evaluate(`(difference (box 4 4 4) (points (vec3 0 0 0)))`)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("evaluate: %v %v", err, evalErrs)
	}
	if _, err := tessellate.Tessellate(s, newKernel()); err == nil || !strings.Contains(err.Error(), "point cloud") {
		t.Errorf("err = %v, want point cloud error", err)
	}
}
