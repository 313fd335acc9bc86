package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chazu/minbounds/pkg/config"
	"github.com/chazu/minbounds/pkg/hull"
	"github.com/chazu/minbounds/pkg/meshio"
	"github.com/chazu/minbounds/pkg/placement"
)

type orientOptions struct {
	flags config.Flags
	out   string
}

func newOrientCmd(root *rootOptions) *cobra.Command {
	opts := &orientOptions{}
	cmd := &cobra.Command{
		Use:   "orient <input>",
		Short: "Search for the rotation with the smallest bounding box",
		Long: `Search for the rotation with the smallest axis-aligned bounding box.

The input is an STL mesh, a YAML or JSON list of [x, y, z] points, or a
script (.zy, .lisp). The result is printed as YAML. With --out, an STL
input is written back rotated into the chosen orientation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrient(cmd, root, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.flags.Strategy, "strategy", "", "grid or nudge (default grid)")
	f.IntVar(&opts.flags.Spread, "spread", 0, "grid cells per side per round")
	f.IntVar(&opts.flags.Depth, "depth", 0, "grid refinement rounds")
	f.IntVar(&opts.flags.SpinRes, "spin-res", 0, "angle steps per sweep")
	f.IntVar(&opts.flags.Workers, "workers", 0, "concurrent grid sweeps (default all CPUs)")
	f.IntVar(&opts.flags.Iterations, "iterations", 0, "nudge sample budget")
	f.Uint64Var(&opts.flags.Seed, "seed", 0, "nudge random seed")
	f.DurationVar(&opts.flags.Timeout, "timeout", 0, "search time limit (default none)")
	f.StringVarP(&opts.out, "out", "o", "", "write the reoriented STL here")
	return cmd
}

func runOrient(cmd *cobra.Command, root *rootOptions, opts *orientOptions, input string) error {
	cfg, err := root.resolve(opts.flags)
	if err != nil {
		return err
	}
	log := newLogger(cmd.ErrOrStderr(), cfg)

	if opts.out != "" {
		format, err := meshio.DetectFormat(input)
		if err != nil {
			return err
		}
		if format != meshio.FormatSTL {
			return fmt.Errorf("orient: --out needs an STL input, got %s", format)
		}
	}

	strategy, err := cfg.NewStrategy(log)
	if err != nil {
		return err
	}

	mesh, err := newLoader(cfg).Load(input)
	if err != nil {
		return err
	}
	pts, err := hull.Quick{}.ConvexHull(mesh)
	if err != nil {
		return err
	}
	log.Info("hull computed", "input", input, "vertices", mesh.VertexCount(), "hull", len(pts))

	ctx := cmd.Context()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := strategy.Search(ctx, pts)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	log.Info("search done",
		"strategy", strategy.Name(),
		"baseline", res.Baseline,
		"volume", res.Volume,
		"evaluations", res.Evaluations,
		"elapsed", elapsed,
	)

	rep, err := newReport(input, strategy.Name(), pts, res, elapsed)
	if err != nil {
		return err
	}
	if opts.out != "" {
		m := placement.Compose(placement.Identity(), res.Rotation)
		if err := meshio.ReorientSTL(input, opts.out, m); err != nil {
			return err
		}
		rep.Output = opts.out
	}

	data, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("orient: encode report: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
