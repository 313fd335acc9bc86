package scene

import "github.com/chazu/minbounds/pkg/kernel"

// Shape distinguishes between primitive solids.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeCylinder
	ShapeSphere
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// PrimitiveData describes a solid centered on the origin. Size is used by
// boxes, Height and Radius by cylinders, Radius by spheres.
type PrimitiveData struct {
	Shape  Shape         `json:"shape"`
	Size   kernel.Point3 `json:"size"`
	Height float64       `json:"height,omitempty"`
	Radius float64       `json:"radius,omitempty"`
}

func (PrimitiveData) nodeData() {}

// PointsData is a bare point cloud. It has no faces; only its vertices
// contribute to the hull.
type PointsData struct {
	Points []kernel.Point3 `json:"points"`
}

func (PointsData) nodeData() {}

// TransformData moves its children. When both are set the rotation is
// applied before the translation.
type TransformData struct {
	Translation *kernel.Point3 `json:"translation,omitempty"`
	Axis        *kernel.Point3 `json:"axis,omitempty"`
	Angle       float64        `json:"angle,omitempty"` // degrees about Axis
}

func (TransformData) nodeData() {}

// GroupData is a named union of its children.
type GroupData struct{}

func (GroupData) nodeData() {}

// BooleanOp selects the constructive operation of a boolean node.
type BooleanOp int

const (
	OpDifference   BooleanOp = iota // first child minus the rest
	OpIntersection                  // volume shared by all children
)

func (op BooleanOp) String() string {
	switch op {
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// BooleanData combines two or more solid children into one solid.
type BooleanData struct {
	Op BooleanOp `json:"op"`
}

func (BooleanData) nodeData() {}
