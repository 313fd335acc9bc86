package kernel

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/num/quat"
)

// Point3 is a 3D point or direction.
type Point3 = v3.Vec

// minAxisLength is the shortest axis accepted by RotationFromAxisAngle.
const minAxisLength = 1e-12

// Rotation is an orthonormal rotation held as a 4x4 homogeneous matrix.
// The zero value is not a valid rotation; use Identity.
type Rotation struct {
	m sdf.M44
}

// Identity returns the rotation that leaves every point in place.
func Identity() Rotation {
	return Rotation{m: sdf.Identity3d()}
}

// RotationFromAxisAngle returns the right-handed rotation of angle radians
// about axis. The axis must already be unit length; normalizing is left to
// the caller so that a zero axis is reported instead of turning into NaNs.
func RotationFromAxisAngle(axis Point3, angle float64) (Rotation, error) {
	l := axis.Length()
	if !(l > minAxisLength) || math.IsInf(l, 0) || math.IsNaN(angle) || math.IsInf(angle, 0) {
		return Rotation{}, fmt.Errorf("%w: |axis|=%g angle=%g", ErrDegenerateAxis, l, angle)
	}
	return Rotation{m: sdf.Rotate3d(axis, angle)}, nil
}

// Apply rotates a single point.
func (r Rotation) Apply(p Point3) Point3 {
	return r.m.MulPosition(p)
}

// Mul returns the rotation r * o (o is applied first).
func (r Rotation) Mul(o Rotation) Rotation {
	return Rotation{m: r.m.Mul(o.m)}
}

// M44 returns the homogeneous matrix, for composing with translations and
// scales.
func (r Rotation) M44() sdf.M44 {
	return r.m
}

// Matrix returns the 3x3 rotation as rows.
func (r Rotation) Matrix() [3][3]float64 {
	cols := [3]Point3{
		r.m.MulPosition(Point3{X: 1}),
		r.m.MulPosition(Point3{Y: 1}),
		r.m.MulPosition(Point3{Z: 1}),
	}
	var out [3][3]float64
	for c, v := range cols {
		out[0][c] = v.X
		out[1][c] = v.Y
		out[2][c] = v.Z
	}
	return out
}

// IsIdentity reports whether r is the identity within tol per element.
func (r Rotation) IsIdentity(tol float64) bool {
	m := r.Matrix()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(m[i][j]-want) > tol {
				return false
			}
		}
	}
	return true
}

// Quaternion returns the unit quaternion equivalent to r, with a
// non-negative real part.
func (r Rotation) Quaternion() quat.Number {
	m := r.Matrix()
	var q quat.Number
	tr := m[0][0] + m[1][1] + m[2][2]
	switch {
	case tr > 0:
		s := 2 * math.Sqrt(tr+1)
		q = quat.Number{
			Real: s / 4,
			Imag: (m[2][1] - m[1][2]) / s,
			Jmag: (m[0][2] - m[2][0]) / s,
			Kmag: (m[1][0] - m[0][1]) / s,
		}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := 2 * math.Sqrt(1+m[0][0]-m[1][1]-m[2][2])
		q = quat.Number{
			Real: (m[2][1] - m[1][2]) / s,
			Imag: s / 4,
			Jmag: (m[0][1] + m[1][0]) / s,
			Kmag: (m[0][2] + m[2][0]) / s,
		}
	case m[1][1] > m[2][2]:
		s := 2 * math.Sqrt(1+m[1][1]-m[0][0]-m[2][2])
		q = quat.Number{
			Real: (m[0][2] - m[2][0]) / s,
			Imag: (m[0][1] + m[1][0]) / s,
			Jmag: s / 4,
			Kmag: (m[1][2] + m[2][1]) / s,
		}
	default:
		s := 2 * math.Sqrt(1+m[2][2]-m[0][0]-m[1][1])
		q = quat.Number{
			Real: (m[1][0] - m[0][1]) / s,
			Imag: (m[0][2] + m[2][0]) / s,
			Jmag: (m[1][2] + m[2][1]) / s,
			Kmag: s / 4,
		}
	}
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	return q
}

// TransformPoints returns a new slice holding every point rotated by r.
func TransformPoints(points []Point3, r Rotation) []Point3 {
	out := make([]Point3, len(points))
	for i, p := range points {
		out[i] = r.m.MulPosition(p)
	}
	return out
}
