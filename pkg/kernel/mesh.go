package kernel

// Mesh is a triangle mesh.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // scene node this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Points returns the distinct vertex positions in first-seen order.
// Marching-cubes and STL meshes repeat every shared vertex once per
// triangle, so this is usually much shorter than VertexCount.
func (m *Mesh) Points() []Point3 {
	n := m.VertexCount()
	seen := make(map[Point3]struct{}, n)
	out := make([]Point3, 0, n)
	for i := 0; i < n; i++ {
		p := Point3{
			X: float64(m.Vertices[i*3]),
			Y: float64(m.Vertices[i*3+1]),
			Z: float64(m.Vertices[i*3+2]),
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// MergeMeshes concatenates meshes into one, re-basing indices. If any
// mesh carries normals, vertices from meshes without them get zero normals
// so that normals stay parallel to vertices.
func MergeMeshes(meshes []*Mesh) *Mesh {
	withNormals := false
	for _, m := range meshes {
		if m != nil && len(m.Normals) > 0 {
			withNormals = true
		}
	}
	out := &Mesh{}
	for _, m := range meshes {
		if m == nil {
			continue
		}
		base := uint32(out.VertexCount())
		out.Vertices = append(out.Vertices, m.Vertices...)
		if withNormals {
			out.Normals = append(out.Normals, m.Normals...)
			for len(out.Normals) < len(out.Vertices) {
				out.Normals = append(out.Normals, 0)
			}
		}
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
	}
	return out
}
