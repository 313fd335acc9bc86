package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/chazu/minbounds/pkg/kernel"
	"golang.org/x/sync/errgroup"
)

// Grid defaults.
const (
	DefaultSpread  = 4
	DefaultDepth   = 4
	DefaultSpinRes = 180
)

// Grid is the deterministic grid-refinement strategy.
//
// Each round sweeps the minimum corner of the current (u, v) rectangle and
// the centers of its Spread x Spread cells, then narrows the rectangle to
// the winning cell. Comparisons are strictly-less in the order corner,
// row-major cells, increasing angle, so the first sample wins ties.
type Grid struct {
	Spread  int // cells per side per round
	Depth   int // number of rounds
	SpinRes int // angle steps per sweep over [0, pi/2)

	// Workers bounds concurrent sweeps. Zero means GOMAXPROCS. Results do
	// not depend on it.
	Workers int

	Logger *slog.Logger
}

// DefaultGrid returns a Grid with the default resolution.
func DefaultGrid() Grid {
	return Grid{Spread: DefaultSpread, Depth: DefaultDepth, SpinRes: DefaultSpinRes}
}

// Name implements Strategy.
func (g Grid) Name() string { return "grid" }

func (g Grid) validate() error {
	switch {
	case g.Spread <= 0:
		return fmt.Errorf("%w: spread %d", ErrInvalidParameter, g.Spread)
	case g.Depth <= 0:
		return fmt.Errorf("%w: depth %d", ErrInvalidParameter, g.Depth)
	case g.SpinRes <= 0:
		return fmt.Errorf("%w: spin resolution %d", ErrInvalidParameter, g.SpinRes)
	case g.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidParameter, g.Workers)
	}
	return nil
}

func (g Grid) workers() int {
	if g.Workers > 0 {
		return g.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Search implements Strategy.
func (g Grid) Search(ctx context.Context, points []kernel.Point3) (Result, error) {
	if len(points) == 0 {
		return Result{}, fmt.Errorf("search: grid: %w", kernel.ErrEmptyInput)
	}
	if err := g.validate(); err != nil {
		return Result{}, err
	}
	baseline, err := baselineVolume(points)
	if err != nil {
		return Result{}, err
	}
	log := loggerOr(g.Logger).With("strategy", g.Name())

	minU, minV := 0.0, 0.0
	stepU, stepV := 1.0/float64(g.Spread), 1.0/float64(g.Spread)

	var best Candidate
	trace := make([]float64, 0, g.Depth)
	evaluations := 0
	samples := make([][2]float64, 0, 1+g.Spread*g.Spread)

	for round := 0; round < g.Depth; round++ {
		samples = samples[:0]
		samples = append(samples, [2]float64{minU, minV})
		for y := 0; y < g.Spread; y++ {
			for x := 0; x < g.Spread; x++ {
				samples = append(samples, [2]float64{
					minU + (float64(x)+0.5)*stepU,
					minV + (float64(y)+0.5)*stepV,
				})
			}
		}

		swept, err := g.sweepAll(ctx, points, samples)
		if err != nil {
			return Result{}, err
		}
		evaluations += len(samples) * g.SpinRes

		incumbent := swept[0]
		nextX, nextY := 0, 0
		for i, c := range swept[1:] {
			if c.Volume < incumbent.Volume {
				incumbent = c
				nextX, nextY = i%g.Spread, i/g.Spread
			}
		}
		if round == 0 || incumbent.Volume < best.Volume {
			best = incumbent
		}
		trace = append(trace, best.Volume)
		log.Debug("grid round",
			"round", round,
			"rect_u", minU, "rect_v", minV, "step_u", stepU, "step_v", stepV,
			"round_volume", incumbent.Volume, "best_volume", best.Volume)

		minU += float64(nextX) * stepU
		minV += float64(nextY) * stepV
		stepU /= float64(g.Spread)
		stepV /= float64(g.Spread)
	}

	res := Select(best, baseline)
	res.Trace = trace
	res.Evaluations = evaluations
	log.Debug("grid done", "baseline", baseline, "volume", res.Volume, "identity", res.IdentityWon)
	return res, nil
}

// sweepAll sweeps every sample and returns the results in sample order.
func (g Grid) sweepAll(ctx context.Context, points []kernel.Point3, samples [][2]float64) ([]Candidate, error) {
	out := make([]Candidate, len(samples))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers())
	for i, s := range samples {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			c, err := Sweep(points, s[0], s[1], g.SpinRes)
			if err != nil {
				return err
			}
			out[i] = c
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, budgetError(ctx, err)
	}
	return out, nil
}

// budgetError tags context expiry with ErrBudgetExceeded.
func budgetError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrBudgetExceeded, ctxErr)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrBudgetExceeded, err)
	}
	return err
}
