package search

import (
	"fmt"

	"github.com/chazu/minbounds/pkg/kernel"
)

// Result is the outcome of a search after comparing against the identity.
type Result struct {
	Candidate

	// Baseline is the box volume of the unrotated points.
	Baseline float64

	// IdentityWon is set when no searched rotation beat the baseline.
	IdentityWon bool

	// Trace records the running best volume: once per round for Grid,
	// once per accepted improvement for Nudge.
	Trace []float64

	// Evaluations counts box volume computations.
	Evaluations int
}

// Ratio returns Volume / Baseline, or 1 when the baseline is zero.
func (r Result) Ratio() float64 {
	if r.Baseline == 0 {
		return 1
	}
	return r.Volume / r.Baseline
}

// identityCandidate is the unrotated fallback.
func identityCandidate(volume float64) Candidate {
	return Candidate{
		Volume:   volume,
		Rotation: kernel.Identity(),
		Axis:     kernel.Point3{Z: 1},
	}
}

// baselineVolume is the box volume of the points as given.
func baselineVolume(points []kernel.Point3) (float64, error) {
	box, err := kernel.Extents(points)
	if err != nil {
		return 0, fmt.Errorf("search: baseline: %w", err)
	}
	return box.Volume(), nil
}

// Select returns found when it is strictly smaller than the identity
// baseline and the identity otherwise.
func Select(found Candidate, baseline float64) Result {
	if found.Volume < baseline {
		return Result{Candidate: found, Baseline: baseline}
	}
	return Result{Candidate: identityCandidate(baseline), Baseline: baseline, IdentityWon: true}
}
