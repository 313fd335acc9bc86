// Package tessellate walks a scene and produces meshes using a geometry
// kernel. One mesh is produced per primitive, point cloud or boolean.
package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/minbounds/pkg/kernel"
	"github.com/chazu/minbounds/pkg/scene"
)

// transformStack holds the transforms between the current node and its
// root, outermost first.
type transformStack struct {
	frames []scene.TransformData
}

func (ts *transformStack) push(td scene.TransformData) {
	ts.frames = append(ts.frames, td)
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 0 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

// applySolid applies the stack to a solid, innermost transform first.
func (ts *transformStack) applySolid(k kernel.Kernel, s kernel.Solid) kernel.Solid {
	for i := len(ts.frames) - 1; i >= 0; i-- {
		s = applyFrame(k, s, ts.frames[i])
	}
	return s
}

// applyFrame rotates then translates s by one transform.
func applyFrame(k kernel.Kernel, s kernel.Solid, f scene.TransformData) kernel.Solid {
	if f.Axis != nil && f.Angle != 0 {
		s = k.Rotate(s, *f.Axis, f.Angle)
	}
	if f.Translation != nil {
		t := *f.Translation
		s = k.Translate(s, t.X, t.Y, t.Z)
	}
	return s
}

// applyPoints applies the stack to a copy of pts, innermost transform first.
func (ts *transformStack) applyPoints(pts []kernel.Point3) ([]kernel.Point3, error) {
	out := append([]kernel.Point3(nil), pts...)
	for i := len(ts.frames) - 1; i >= 0; i-- {
		f := ts.frames[i]
		if f.Axis != nil && f.Angle != 0 {
			r, err := kernel.RotationFromAxisAngle(f.Axis.Normalize(), f.Angle*math.Pi/180)
			if err != nil {
				return nil, err
			}
			out = kernel.TransformPoints(out, r)
		}
		if f.Translation != nil {
			for j := range out {
				out[j] = out[j].Add(*f.Translation)
			}
		}
	}
	return out, nil
}

// Tessellate walks the scene roots and produces one mesh per primitive,
// point cloud or boolean. It never mutates the scene.
func Tessellate(s *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	ts := &transformStack{}

	for _, rootID := range s.Roots {
		root := s.Get(rootID)
		if root == nil {
			continue
		}
		collected, err := walkNode(s, k, root, ts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: root %s: %w", rootID.Short(), err)
		}
		meshes = append(meshes, collected...)
	}

	return meshes, nil
}

// Points tessellates the scene and returns the distinct vertices of all
// meshes.
func Points(s *scene.Scene, k kernel.Kernel) ([]kernel.Point3, error) {
	meshes, err := Tessellate(s, k)
	if err != nil {
		return nil, err
	}
	pts := kernel.MergeMeshes(meshes).Points()
	if len(pts) == 0 {
		return nil, fmt.Errorf("tessellate: %w", kernel.ErrEmptyInput)
	}
	return pts, nil
}

// walkNode recursively traverses a node and its children, collecting meshes.
func walkNode(s *scene.Scene, k kernel.Kernel, n *scene.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	switch n.Kind {
	case scene.NodePrimitive:
		return handlePrimitive(k, n, ts)

	case scene.NodePoints:
		return handlePoints(n, ts)

	case scene.NodeTransform:
		td, ok := n.Data.(scene.TransformData)
		if !ok {
			return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
		}
		ts.push(td)
		defer ts.pop()
		return walkChildren(s, k, n, ts)

	case scene.NodeGroup:
		return walkChildren(s, k, n, ts)

	case scene.NodeBoolean:
		return handleBoolean(s, k, n, ts)

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

func walkChildren(s *scene.Scene, k kernel.Kernel, n *scene.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for _, child := range s.Children(n) {
		collected, err := walkNode(s, k, child, ts)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// handlePrimitive builds, transforms and meshes a primitive node.
func handlePrimitive(k kernel.Kernel, n *scene.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	solid, err := primitiveSolid(k, n)
	if err != nil {
		return nil, err
	}
	return meshSolid(k, n, ts.applySolid(k, solid))
}

// handleBoolean builds the whole subtree as one solid, then meshes it.
func handleBoolean(s *scene.Scene, k kernel.Kernel, n *scene.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	solid, err := booleanSolid(s, k, n)
	if err != nil {
		return nil, err
	}
	return meshSolid(k, n, ts.applySolid(k, solid))
}

func meshSolid(k kernel.Kernel, n *scene.Node, solid kernel.Solid) ([]*kernel.Mesh, error) {
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("ToMesh failed for node %s: %w", n.ID.Short(), err)
	}
	mesh.PartName = partName(n)
	return []*kernel.Mesh{mesh}, nil
}

func primitiveSolid(k kernel.Kernel, n *scene.Node) (kernel.Solid, error) {
	data, ok := n.Data.(scene.PrimitiveData)
	if !ok {
		return nil, fmt.Errorf("primitive node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
	switch data.Shape {
	case scene.ShapeBox:
		return k.Box(data.Size.X, data.Size.Y, data.Size.Z), nil
	case scene.ShapeCylinder:
		return k.Cylinder(data.Height, data.Radius), nil
	case scene.ShapeSphere:
		return k.Sphere(data.Radius), nil
	}
	return nil, fmt.Errorf("primitive node %s has unknown shape %v", n.ID.Short(), data.Shape)
}

// solidOf builds the solid for the subtree at n, in n's parent frame.
// Groups and transforms with several children become unions.
func solidOf(s *scene.Scene, k kernel.Kernel, n *scene.Node) (kernel.Solid, error) {
	switch n.Kind {
	case scene.NodePrimitive:
		return primitiveSolid(k, n)

	case scene.NodeTransform:
		td, ok := n.Data.(scene.TransformData)
		if !ok {
			return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
		}
		u, err := unionOf(s, k, n, s.Children(n))
		if err != nil {
			return nil, err
		}
		return applyFrame(k, u, td), nil

	case scene.NodeGroup:
		return unionOf(s, k, n, s.Children(n))

	case scene.NodeBoolean:
		return booleanSolid(s, k, n)

	case scene.NodePoints:
		return nil, fmt.Errorf("point cloud %s has no volume for a boolean", partName(n))
	}
	return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
}

// unionOf builds each node in nodes and unions the results.
func unionOf(s *scene.Scene, k kernel.Kernel, parent *scene.Node, nodes []*scene.Node) (kernel.Solid, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("node %s has no solid children", parent.ID.Short())
	}
	var u kernel.Solid
	for _, c := range nodes {
		sd, err := solidOf(s, k, c)
		if err != nil {
			return nil, err
		}
		if u == nil {
			u = sd
		} else {
			u = k.Union(u, sd)
		}
	}
	return u, nil
}

// booleanSolid applies a boolean node's operation to its children. A
// difference removes the union of every later child from the first.
func booleanSolid(s *scene.Scene, k kernel.Kernel, n *scene.Node) (kernel.Solid, error) {
	data, ok := n.Data.(scene.BooleanData)
	if !ok {
		return nil, fmt.Errorf("boolean node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	children := s.Children(n)
	if len(children) < 2 {
		return nil, fmt.Errorf("%s node %s needs two operands, has %d", data.Op, n.ID.Short(), len(children))
	}
	base, err := solidOf(s, k, children[0])
	if err != nil {
		return nil, err
	}
	switch data.Op {
	case scene.OpDifference:
		cutter, err := unionOf(s, k, n, children[1:])
		if err != nil {
			return nil, err
		}
		return k.Difference(base, cutter), nil
	case scene.OpIntersection:
		for _, c := range children[1:] {
			sd, err := solidOf(s, k, c)
			if err != nil {
				return nil, err
			}
			base = k.Intersection(base, sd)
		}
		return base, nil
	}
	return nil, fmt.Errorf("boolean node %s has unknown op %v", n.ID.Short(), data.Op)
}

// handlePoints turns a point cloud into a vertex-only mesh.
func handlePoints(n *scene.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	data, ok := n.Data.(scene.PointsData)
	if !ok {
		return nil, fmt.Errorf("points node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
	pts, err := ts.applyPoints(data.Points)
	if err != nil {
		return nil, fmt.Errorf("points node %s: %w", n.ID.Short(), err)
	}

	mesh := &kernel.Mesh{
		Vertices: make([]float32, 0, 3*len(pts)),
		PartName: partName(n),
	}
	for _, p := range pts {
		mesh.Vertices = append(mesh.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	}
	return []*kernel.Mesh{mesh}, nil
}

// partName prefers the node's name and falls back to its short ID.
func partName(n *scene.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}
