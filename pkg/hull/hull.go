// Package hull computes the convex hull vertices that feed the orientation
// searches. Only hull vertices matter to an axis-aligned box, so reducing a
// mesh to its hull makes every box evaluation cheaper without changing any
// volume.
package hull

import (
	"fmt"
	"math"

	"github.com/chazu/minbounds/pkg/kernel"
)

// relEps scales the visibility tolerance by the input's bounding diagonal.
const relEps = 1e-9

// Provider turns a mesh into the vertices of its convex hull.
type Provider interface {
	ConvexHull(mesh *kernel.Mesh) ([]kernel.Point3, error)
}

// Quick is the default Provider. It runs Compute on the mesh's distinct
// vertices.
type Quick struct{}

var _ Provider = Quick{}

// ConvexHull implements Provider.
func (Quick) ConvexHull(mesh *kernel.Mesh) ([]kernel.Point3, error) {
	if mesh == nil || mesh.IsEmpty() {
		return nil, fmt.Errorf("hull: %w", kernel.ErrEmptyInput)
	}
	return Compute(mesh.Points())
}

// face is an outward-oriented hull triangle with plane n.p = d.
type face struct {
	v     [3]int
	n     kernel.Point3
	d     float64
	alive bool
}

type edge struct{ a, b int }

func newFace(pts []kernel.Point3, a, b, c int) face {
	n := pts[b].Sub(pts[a]).Cross(pts[c].Sub(pts[a]))
	if l := n.Length(); l > 0 {
		n = n.MulScalar(1 / l)
	}
	return face{v: [3]int{a, b, c}, n: n, d: n.Dot(pts[a]), alive: true}
}

func (f face) dist(p kernel.Point3) float64 {
	return f.n.Dot(p) - f.d
}

// Compute returns the vertices of the convex hull of points, in the order
// they first appear. Duplicates are dropped. When the points are collinear
// or coplanar, or there are fewer than four of them, every distinct point
// is returned; the result then still spans the same hull.
func Compute(points []kernel.Point3) ([]kernel.Point3, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("hull: %w", kernel.ErrEmptyInput)
	}
	pts := dedupe(points)
	if len(pts) < 4 {
		return pts, nil
	}

	box, err := kernel.Extents(pts)
	if err != nil {
		return nil, err
	}
	diag := box.Span().Length()
	if diag == 0 {
		return pts, nil
	}
	eps := relEps * diag

	tet, ok := initialTetrahedron(pts, eps)
	if !ok {
		return pts, nil
	}

	faces := seedFaces(pts, tet)
	used := map[int]bool{tet[0]: true, tet[1]: true, tet[2]: true, tet[3]: true}

	for i, p := range pts {
		if used[i] {
			continue
		}
		var visible []int
		for fi := range faces {
			if faces[fi].alive && faces[fi].dist(p) > eps {
				visible = append(visible, fi)
			}
		}
		if len(visible) == 0 {
			continue
		}

		directed := make(map[edge]bool, 3*len(visible))
		for _, fi := range visible {
			v := faces[fi].v
			directed[edge{v[0], v[1]}] = true
			directed[edge{v[1], v[2]}] = true
			directed[edge{v[2], v[0]}] = true
			faces[fi].alive = false
		}
		// Horizon edges border exactly one visible face. Walk the visible
		// faces in order so the new faces are created deterministically.
		for _, fi := range visible {
			v := faces[fi].v
			for k := 0; k < 3; k++ {
				e := edge{v[k], v[(k+1)%3]}
				if directed[edge{e.b, e.a}] {
					continue
				}
				faces = append(faces, newFace(pts, e.a, e.b, i))
			}
		}
		faces = compact(faces)
	}

	// Points that landed on a face or edge of the final hull are vertices
	// of the triangulation but not corners; their incident normals do not
	// span all three dimensions.
	incident := make(map[int][]kernel.Point3)
	for _, f := range faces {
		if !f.alive || f.n.Length() == 0 {
			continue
		}
		for _, v := range f.v {
			incident[v] = append(incident[v], f.n)
		}
	}
	out := make([]kernel.Point3, 0, len(incident))
	for i, p := range pts {
		if spans3(incident[i]) {
			out = append(out, p)
		}
	}
	return out, nil
}

// normalTol is the smallest sine between normals treated as distinct.
const normalTol = 1e-9

// spans3 reports whether the unit normals span three dimensions.
func spans3(ns []kernel.Point3) bool {
	if len(ns) < 3 {
		return false
	}
	var axis kernel.Point3
	found := false
	for _, n := range ns[1:] {
		c := ns[0].Cross(n)
		if l := c.Length(); l > normalTol {
			axis, found = c.MulScalar(1/l), true
			break
		}
	}
	if !found {
		return false
	}
	for _, n := range ns {
		if math.Abs(axis.Dot(n)) > normalTol {
			return true
		}
	}
	return false
}

// dedupe drops repeated points, keeping first-seen order.
func dedupe(points []kernel.Point3) []kernel.Point3 {
	seen := make(map[kernel.Point3]struct{}, len(points))
	out := make([]kernel.Point3, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// initialTetrahedron picks four affinely independent points: the lowest-X
// point, the point farthest from it, the point farthest from their line
// and the point farthest from their plane. ok is false for flat inputs.
func initialTetrahedron(pts []kernel.Point3, eps float64) (tet [4]int, ok bool) {
	for i, p := range pts {
		if p.X < pts[tet[0]].X {
			tet[0] = i
		}
	}
	a := pts[tet[0]]

	best := -1.0
	for i, p := range pts {
		if d := p.Sub(a).Length(); d > best {
			best, tet[1] = d, i
		}
	}
	if best <= eps {
		return tet, false
	}
	dir := pts[tet[1]].Sub(a).MulScalar(1 / best)

	best = -1
	for i, p := range pts {
		if d := p.Sub(a).Cross(dir).Length(); d > best {
			best, tet[2] = d, i
		}
	}
	if best <= eps {
		return tet, false
	}

	base := newFace(pts, tet[0], tet[1], tet[2])
	best = -1
	for i, p := range pts {
		if d := math.Abs(base.dist(p)); d > best {
			best, tet[3] = d, i
		}
	}
	if best <= eps {
		return tet, false
	}
	return tet, true
}

// seedFaces builds the four outward faces of the initial tetrahedron.
func seedFaces(pts []kernel.Point3, tet [4]int) []face {
	a, b, c, d := tet[0], tet[1], tet[2], tet[3]
	if newFace(pts, a, b, c).dist(pts[d]) > 0 {
		b, c = c, b
	}
	return []face{
		newFace(pts, a, b, c),
		newFace(pts, a, d, b),
		newFace(pts, b, d, c),
		newFace(pts, c, d, a),
	}
}

// compact drops dead faces in place.
func compact(faces []face) []face {
	out := faces[:0]
	for _, f := range faces {
		if f.alive {
			out = append(out, f)
		}
	}
	return out
}
