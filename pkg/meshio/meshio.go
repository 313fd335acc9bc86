// Package meshio reads the inputs an orientation search runs on: STL
// meshes, point lists and zygomys scripts. It also rewrites STL files under
// a chosen transform.
package meshio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/minbounds/pkg/engine"
	"github.com/chazu/minbounds/pkg/kernel"
	"github.com/chazu/minbounds/pkg/kernel/sdfx"
	"github.com/chazu/minbounds/pkg/tessellate"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for unrecognized file extensions.
var ErrUnknownFormat = errors.New("meshio: unknown input format")

// Format identifies an input file type.
type Format int

const (
	FormatSTL    Format = iota // binary or ASCII STL
	FormatPoints               // YAML or JSON list of [x, y, z]
	FormatScript               // zygomys scene script
)

func (f Format) String() string {
	switch f {
	case FormatSTL:
		return "stl"
	case FormatPoints:
		return "points"
	case FormatScript:
		return "script"
	default:
		return "unknown"
	}
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return FormatSTL, nil
	case ".yaml", ".yml", ".json":
		return FormatPoints, nil
	case ".zy", ".lisp":
		return FormatScript, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// LoadSTL reads an STL file into a flat, unindexed mesh.
func LoadSTL(path string) (*kernel.Mesh, error) {
	tris, err := render.LoadSTL(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: load %s: %w", path, err)
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("meshio: %s: %w", path, kernel.ErrEmptyInput)
	}

	m := &kernel.Mesh{
		Vertices: make([]float32, 0, 9*len(tris)),
		Normals:  make([]float32, 0, 9*len(tris)),
		Indices:  make([]uint32, 0, 3*len(tris)),
		PartName: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}
	for i := range tris {
		n := tris[i].Normal()
		for j := 0; j < 3; j++ {
			v := tris[i][j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			m.Indices = append(m.Indices, uint32(3*i+j))
		}
	}
	return m, nil
}

// ReorientSTL loads in, transforms every vertex by m and writes the result
// to out.
func ReorientSTL(in, out string, m sdf.M44) error {
	tris, err := render.LoadSTL(in)
	if err != nil {
		return fmt.Errorf("meshio: load %s: %w", in, err)
	}
	for i := range tris {
		for j := 0; j < 3; j++ {
			tris[i][j] = m.MulPosition(tris[i][j])
		}
	}
	if err := render.SaveSTL(out, tris); err != nil {
		return fmt.Errorf("meshio: save %s: %w", out, err)
	}
	return nil
}

// LoadPoints reads a YAML or JSON list of [x, y, z] triples.
func LoadPoints(path string) ([]kernel.Point3, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: %w", err)
	}
	pts, err := ParsePoints(data)
	if err != nil {
		return nil, fmt.Errorf("meshio: %s: %w", path, err)
	}
	return pts, nil
}

// ParsePoints decodes a YAML or JSON list of [x, y, z] triples. JSON is
// valid YAML, so one decoder reads both.
func ParsePoints(data []byte) ([]kernel.Point3, error) {
	var raw [][]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode points: %w", err)
	}
	if len(raw) == 0 {
		return nil, kernel.ErrEmptyInput
	}
	pts := make([]kernel.Point3, len(raw))
	for i, r := range raw {
		if len(r) != 3 {
			return nil, fmt.Errorf("point %d has %d coordinates, want 3", i, len(r))
		}
		pts[i] = kernel.Point3{X: r[0], Y: r[1], Z: r[2]}
	}
	return pts, nil
}

// PointsMesh wraps points in a vertex-only mesh.
func PointsMesh(name string, pts []kernel.Point3) *kernel.Mesh {
	m := &kernel.Mesh{Vertices: make([]float32, 0, 3*len(pts)), PartName: name}
	for _, p := range pts {
		m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	}
	return m
}

// Loader turns any supported input file into a mesh.
type Loader struct {
	// Engine evaluates scripts. Nil means engine.NewEngine().
	Engine *engine.Engine

	// Kernel meshes script solids. Nil means sdfx.New().
	Kernel kernel.Kernel
}

// Load reads path according to its extension.
func (l Loader) Load(path string) (*kernel.Mesh, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatSTL:
		return LoadSTL(path)
	case FormatPoints:
		pts, err := LoadPoints(path)
		if err != nil {
			return nil, err
		}
		return PointsMesh(filepath.Base(path), pts), nil
	default:
		return l.loadScript(path)
	}
}

func (l Loader) loadScript(path string) (*kernel.Mesh, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: %w", err)
	}
	eng := l.Engine
	if eng == nil {
		eng = engine.NewEngine()
	}
	k := l.Kernel
	if k == nil {
		k = sdfx.New()
	}

	s, evalErrs, err := eng.Evaluate(string(src))
	if err != nil {
		return nil, fmt.Errorf("meshio: %s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = e
		}
		return nil, fmt.Errorf("meshio: %s: %w", path, errors.Join(errs...))
	}

	pts, err := tessellate.Points(s, k)
	if err != nil {
		return nil, fmt.Errorf("meshio: %s: %w", path, err)
	}
	return PointsMesh(filepath.Base(path), pts), nil
}
