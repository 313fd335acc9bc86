package search

import (
	"context"
	"log/slog"

	"github.com/chazu/minbounds/pkg/kernel"
)

// Strategy is an orientation search over a fixed point set.
type Strategy interface {
	// Name identifies the strategy in logs and reports.
	Name() string

	// Search returns the best rotation found, never worse than the
	// identity. points must not be modified while the search runs.
	Search(ctx context.Context, points []kernel.Point3) (Result, error)
}

// Compile-time interface checks.
var (
	_ Strategy = Grid{}
	_ Strategy = Nudge{}
)

// SearchGrid runs the grid-refinement strategy with the given resolution,
// on all available CPUs.
func SearchGrid(points []kernel.Point3, spread, depth, spinRes int) (Result, error) {
	g := Grid{Spread: spread, Depth: depth, SpinRes: spinRes}
	return g.Search(context.Background(), points)
}

// SearchStochastic runs the nudge strategy for the given number of
// iterations, drawing from rng.
func SearchStochastic(points []kernel.Point3, iterations int, rng RandomSource) (Result, error) {
	n := Nudge{Iterations: iterations, Rand: rng}
	return n.Search(context.Background(), points)
}

func loggerOr(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
