package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chazu/minbounds/pkg/kernel"
)

// DefaultIterations is the nudge search's default sample budget.
const DefaultIterations = 400

// RandomSource yields uniform samples in [0, 1). *math/rand.Rand and
// *math/rand/v2.Rand both satisfy it.
type RandomSource interface {
	Float64() float64
}

// Nudge is the stochastic strategy. Each iteration draws (u, v, z) noise
// centered on zero, scaled by (1 - step)^2 where step climbs from 0 to 1
// over the budget, and adds it to the most recently accepted candidate's
// parameters (or to (0.5, 0.5, 0.5) before the first acceptance). A sample
// is accepted when it is strictly smaller than the running best.
//
// It is a local refinement heuristic without a convergence guarantee and
// can do worse than Grid on adversarial inputs.
type Nudge struct {
	Iterations int
	Capacity   int // best-of set size; zero means DefaultCapacity
	Rand       RandomSource
	Logger     *slog.Logger
}

// Name implements Strategy.
func (n Nudge) Name() string { return "nudge" }

func (n Nudge) validate() error {
	switch {
	case n.Iterations <= 0:
		return fmt.Errorf("%w: iterations %d", ErrInvalidParameter, n.Iterations)
	case n.Capacity < 0:
		return fmt.Errorf("%w: capacity %d", ErrInvalidParameter, n.Capacity)
	case n.Rand == nil:
		return fmt.Errorf("%w: nil random source", ErrInvalidParameter)
	}
	return nil
}

// Search implements Strategy.
func (n Nudge) Search(ctx context.Context, points []kernel.Point3) (Result, error) {
	if len(points) == 0 {
		return Result{}, fmt.Errorf("search: nudge: %w", kernel.ErrEmptyInput)
	}
	if err := n.validate(); err != nil {
		return Result{}, err
	}
	baseline, err := baselineVolume(points)
	if err != nil {
		return Result{}, err
	}
	log := loggerOr(n.Logger).With("strategy", n.Name())

	capacity := n.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	kept := newBestOf(capacity)
	best := identityCandidate(baseline)
	var trace []float64

	step := 0.0
	inc := 1.0 / float64(n.Iterations)
	for i := 0; i < n.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, budgetError(ctx, err)
		}

		nse := (1 - step) * (1 - step)
		u := (n.Rand.Float64() - 0.5) * nse
		v := (n.Rand.Float64() - 0.5) * nse
		z := (n.Rand.Float64() - 0.5) * nse
		if last, ok := kept.Last(); ok {
			u, v, z = u+last.U, v+last.V, z+last.Z
		} else {
			u, v, z = u+0.5, v+0.5, z+0.5
		}

		c, err := Evaluate(points, u, v, z)
		if err != nil {
			return Result{}, err
		}
		if c.Volume < best.Volume {
			best = c
			kept.Add(c)
			trace = append(trace, c.Volume)
			log.Debug("nudge improved", "iteration", i, "volume", c.Volume, "noise", nse)
		}

		step += inc
		if step > 1 {
			step = 1
		}
	}

	res := Select(best, baseline)
	res.Trace = trace
	res.Evaluations = n.Iterations
	log.Debug("nudge done", "baseline", baseline, "volume", res.Volume,
		"accepted", len(trace), "identity", res.IdentityWon)
	return res, nil
}
