package kernel

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
)

// Box6 is the axis-aligned extent (xmin,xmax,ymin,ymax,zmin,zmax) of a point
// set.
type Box6 struct {
	sdf.Box3
}

// Bounds returns the extents in (xmin,xmax,ymin,ymax,zmin,zmax) order.
func (b Box6) Bounds() [6]float64 {
	return [6]float64{b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z}
}

// Span returns the box size along each axis.
func (b Box6) Span() Point3 {
	return b.Max.Sub(b.Min)
}

// Volume is the product of the three spans. Flat boxes have volume 0.
func (b Box6) Volume() float64 {
	s := b.Span()
	return s.X * s.Y * s.Z
}

// Volume returns box.Volume().
func Volume(box Box6) float64 {
	return box.Volume()
}

// Extents computes the axis-aligned extents of points in a single pass.
func Extents(points []Point3) (Box6, error) {
	if len(points) == 0 {
		return Box6{}, ErrEmptyInput
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return Box6{sdf.Box3{Min: lo, Max: hi}}, nil
}

// BoxVolume rotates points by r and returns the volume and extents of the
// result without materializing the rotated slice.
func BoxVolume(points []Point3, r Rotation) (float64, Box6, error) {
	if len(points) == 0 {
		return 0, Box6{}, ErrEmptyInput
	}
	lo := r.m.MulPosition(points[0])
	hi := lo
	for _, p := range points[1:] {
		q := r.m.MulPosition(p)
		lo = lo.Min(q)
		hi = hi.Max(q)
	}
	box := Box6{sdf.Box3{Min: lo, Max: hi}}
	return box.Volume(), box, nil
}

// String formats the box as its six bounds.
func (b Box6) String() string {
	return fmt.Sprintf("x[%g,%g] y[%g,%g] z[%g,%g]",
		b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z)
}
