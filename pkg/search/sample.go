package search

import (
	"fmt"
	"math"

	"github.com/chazu/minbounds/pkg/kernel"
)

// QuarterTurn is the rotation angle reached at z = 1.
const QuarterTurn = math.Pi / 2

// Candidate is one evaluated rotation.
type Candidate struct {
	Volume   float64
	Rotation kernel.Rotation
	Axis     kernel.Point3
	Angle    float64

	// U, V, Z are the sampling parameters that produced the candidate.
	U, V, Z float64
}

// DirectionFromUV maps (u, v) to a unit vector. u scales the azimuth
// (theta = pi*u) and is used as given; v is wrapped into [0, 1) and picks
// the polar angle so that uniform v is uniform over sphere area.
func DirectionFromUV(u, v float64) kernel.Point3 {
	theta := math.Pi * u
	f := v - math.Floor(v)
	phi := math.Acos(2*f - 1)
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)
	return kernel.Point3{X: ct * sp, Y: st * sp, Z: cp}
}

// Evaluate rotates points about DirectionFromUV(u, v) by z quarter turns
// and returns the resulting box volume.
func Evaluate(points []kernel.Point3, u, v, z float64) (Candidate, error) {
	axis := DirectionFromUV(u, v)
	angle := QuarterTurn * z
	r, err := kernel.RotationFromAxisAngle(axis, angle)
	if err != nil {
		return Candidate{}, fmt.Errorf("search: evaluate (u=%g v=%g z=%g): %w", u, v, z, err)
	}
	vol, _, err := kernel.BoxVolume(points, r)
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{Volume: vol, Rotation: r, Axis: axis, Angle: angle, U: u, V: v, Z: z}, nil
}

// Sweep evaluates spinRes evenly spaced angles in [0, pi/2) about the
// axis for (u, v) and returns the lowest volume. Ties keep the smaller
// angle.
func Sweep(points []kernel.Point3, u, v float64, spinRes int) (Candidate, error) {
	if spinRes <= 0 {
		return Candidate{}, fmt.Errorf("%w: spin resolution %d", ErrInvalidParameter, spinRes)
	}
	var best Candidate
	for n := 0; n < spinRes; n++ {
		c, err := Evaluate(points, u, v, float64(n)/float64(spinRes))
		if err != nil {
			return Candidate{}, err
		}
		if n == 0 || c.Volume < best.Volume {
			best = c
		}
	}
	return best, nil
}
