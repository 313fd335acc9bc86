package search

import (
	"math"

	"github.com/chazu/minbounds/pkg/kernel"
)

// unitCube returns the 8 corners of [0,1]^3.
func unitCube() []kernel.Point3 {
	var pts []kernel.Point3
	for _, x := range []float64{0, 1} {
		for _, y := range []float64{0, 1} {
			for _, z := range []float64{0, 1} {
				pts = append(pts, kernel.Point3{X: x, Y: y, Z: z})
			}
		}
	}
	return pts
}

// tiltedRod returns the 8 corners of a 10 x 0.2 x 0.2 bar whose long axis
// points along (1,1,1).
func tiltedRod() []kernel.Point3 {
	d := kernel.Point3{X: 1, Y: 1, Z: 1}.MulScalar(1 / math.Sqrt(3))
	e1 := kernel.Point3{X: 1, Y: -1}.MulScalar(1 / math.Sqrt(2))
	e2 := d.Cross(e1)
	var pts []kernel.Point3
	for _, a := range []float64{-5, 5} {
		for _, b := range []float64{-0.1, 0.1} {
			for _, c := range []float64{-0.1, 0.1} {
				pts = append(pts, d.MulScalar(a).Add(e1.MulScalar(b)).Add(e2.MulScalar(c)))
			}
		}
	}
	return pts
}

// thinRod returns a 10-point rod from (0,0,0) to (10,0.1,0.1): each end
// plus four points 0.01 off it along y and z.
func thinRod() []kernel.Point3 {
	var pts []kernel.Point3
	for _, end := range []kernel.Point3{{}, {X: 10, Y: 0.1, Z: 0.1}} {
		pts = append(pts, end,
			end.Add(kernel.Point3{Y: 0.01}), end.Add(kernel.Point3{Y: -0.01}),
			end.Add(kernel.Point3{Z: 0.01}), end.Add(kernel.Point3{Z: -0.01}))
	}
	return pts
}

// scatter returns a deterministic lumpy point cloud.
func scatter(n int) []kernel.Point3 {
	pts := make([]kernel.Point3, n)
	for i := range pts {
		f := float64(i)
		pts[i] = kernel.Point3{
			X: 3 * math.Sin(f*1.7),
			Y: 1.5 * math.Cos(f*0.9+0.3),
			Z: 0.7 * math.Sin(f*2.3+1.1),
		}
	}
	return pts
}

func identityVolume(pts []kernel.Point3) float64 {
	box, err := kernel.Extents(pts)
	if err != nil {
		panic(err)
	}
	return box.Volume()
}
