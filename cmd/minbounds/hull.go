package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chazu/minbounds/pkg/config"
	"github.com/chazu/minbounds/pkg/hull"
)

type hullReport struct {
	Input  string       `yaml:"input"`
	Count  int          `yaml:"count"`
	Points [][3]float64 `yaml:"points,flow"`
}

func newHullCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hull <input>",
		Short: "Print the convex hull vertices of an input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(config.Flags{})
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr(), cfg)

			mesh, err := newLoader(cfg).Load(args[0])
			if err != nil {
				return err
			}
			pts, err := hull.Quick{}.ConvexHull(mesh)
			if err != nil {
				return err
			}
			log.Debug("hull computed", "input", args[0], "vertices", mesh.VertexCount(), "hull", len(pts))

			r := hullReport{Input: args[0], Count: len(pts)}
			for _, p := range pts {
				r.Points = append(r.Points, [3]float64{p.X, p.Y, p.Z})
			}
			out, err := yaml.Marshal(r)
			if err != nil {
				return fmt.Errorf("hull: encode report: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
