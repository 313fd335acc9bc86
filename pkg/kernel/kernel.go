// Package kernel holds the geometry primitives shared by the hull provider,
// the orientation searches and the solid backends: points, rotations,
// axis-aligned extents and triangle meshes. It also defines the abstract
// solid-modeling interface used to build scripted inputs, so backends can be
// swapped without changing the rest of the system.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() Box6
}

// Kernel is the abstract solid-modeling interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, axis Point3, degrees float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
