package main

import (
	"math"
	"time"

	"github.com/chazu/minbounds/pkg/kernel"
	"github.com/chazu/minbounds/pkg/search"
)

// report is the YAML document printed by orient.
type report struct {
	Input       string        `yaml:"input"`
	Strategy    string        `yaml:"strategy"`
	HullPoints  int           `yaml:"hull_points"`
	Baseline    float64       `yaml:"baseline"`
	Volume      float64       `yaml:"volume"`
	Ratio       float64       `yaml:"ratio"`
	Axis        [3]float64    `yaml:"axis,flow"`
	Angle       float64       `yaml:"angle"` // radians
	AngleDeg    float64       `yaml:"angle_deg"`
	Matrix      [3][3]float64 `yaml:"matrix,flow"`
	Quaternion  [4]float64    `yaml:"quaternion,flow"` // w, x, y, z
	Bounds      [6]float64    `yaml:"bounds,flow"`     // rotated hull extents
	IdentityWon bool          `yaml:"identity_won"`
	Evaluations int           `yaml:"evaluations"`
	Elapsed     string        `yaml:"elapsed"`
	Output      string        `yaml:"output,omitempty"`
}

func newReport(input, strategy string, hull []kernel.Point3, res search.Result, elapsed time.Duration) (report, error) {
	q := res.Rotation.Quaternion()
	_, box, err := kernel.BoxVolume(hull, res.Rotation)
	if err != nil {
		return report{}, err
	}
	return report{
		Input:       input,
		Strategy:    strategy,
		HullPoints:  len(hull),
		Baseline:    res.Baseline,
		Volume:      res.Volume,
		Ratio:       res.Ratio(),
		Axis:        [3]float64{res.Axis.X, res.Axis.Y, res.Axis.Z},
		Angle:       res.Angle,
		AngleDeg:    res.Angle * 180 / math.Pi,
		Matrix:      res.Rotation.Matrix(),
		Quaternion:  [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag},
		Bounds:      box.Bounds(),
		IdentityWon: res.IdentityWon,
		Evaluations: res.Evaluations,
		Elapsed:     elapsed.Round(time.Millisecond).String(),
	}, nil
}
