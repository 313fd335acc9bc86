// Package placement applies a chosen orientation to an object that already
// carries a translation, rotation and scale.
package placement

import (
	"math"

	"github.com/chazu/minbounds/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
)

// Transform is an object's decomposed world transform.
type Transform struct {
	Translation kernel.Point3
	Rotation    kernel.Rotation
	Scale       kernel.Point3
}

// Identity returns the transform that leaves an object in place.
func Identity() Transform {
	return Transform{Rotation: kernel.Identity(), Scale: kernel.Point3{X: 1, Y: 1, Z: 1}}
}

// Matrix returns Translate(T) * R * Scale(S).
func (t Transform) Matrix() sdf.M44 {
	return sdf.Translate3d(t.Translation).Mul(t.Rotation.M44()).Mul(sdf.Scale3d(t.Scale))
}

// Compose returns Translate(T) * R * chosen * Scale(S). The chosen rotation
// acts on the object's scaled local frame, before its existing rotation.
func Compose(t Transform, chosen kernel.Rotation) sdf.M44 {
	return sdf.Translate3d(t.Translation).
		Mul(t.Rotation.M44()).
		Mul(chosen.M44()).
		Mul(sdf.Scale3d(t.Scale))
}

// Reoriented returns t with its rotation replaced by R * chosen.
func Reoriented(t Transform, chosen kernel.Rotation) Transform {
	t.Rotation = t.Rotation.Mul(chosen)
	return t
}

// ApplyMesh returns a copy of mesh with every vertex transformed by m.
// Normals are transformed by the inverse transpose of m's linear part and
// renormalized.
func ApplyMesh(mesh *kernel.Mesh, m sdf.M44) *kernel.Mesh {
	out := &kernel.Mesh{
		Vertices: make([]float32, len(mesh.Vertices)),
		Normals:  make([]float32, len(mesh.Normals)),
		Indices:  append([]uint32(nil), mesh.Indices...),
		PartName: mesh.PartName,
	}
	for i := 0; i+2 < len(mesh.Vertices); i += 3 {
		p := m.MulPosition(kernel.Point3{
			X: float64(mesh.Vertices[i]),
			Y: float64(mesh.Vertices[i+1]),
			Z: float64(mesh.Vertices[i+2]),
		})
		out.Vertices[i], out.Vertices[i+1], out.Vertices[i+2] = float32(p.X), float32(p.Y), float32(p.Z)
	}

	if len(mesh.Normals) == 0 {
		return out
	}
	// Columns of the inverse's linear part are the rows of its transpose.
	inv := m.Inverse()
	o := inv.MulPosition(kernel.Point3{})
	cols := [3]kernel.Point3{
		inv.MulPosition(kernel.Point3{X: 1}).Sub(o),
		inv.MulPosition(kernel.Point3{Y: 1}).Sub(o),
		inv.MulPosition(kernel.Point3{Z: 1}).Sub(o),
	}
	for i := 0; i+2 < len(mesh.Normals); i += 3 {
		n := kernel.Point3{
			X: float64(mesh.Normals[i]),
			Y: float64(mesh.Normals[i+1]),
			Z: float64(mesh.Normals[i+2]),
		}
		r := kernel.Point3{X: cols[0].Dot(n), Y: cols[1].Dot(n), Z: cols[2].Dot(n)}
		if l := r.Length(); l > 0 && !math.IsInf(l, 0) {
			r = r.MulScalar(1 / l)
		}
		out.Normals[i], out.Normals[i+1], out.Normals[i+2] = float32(r.X), float32(r.Y), float32(r.Z)
	}
	return out
}
