package scene

import (
	"fmt"
	"sort"
)

// ValidationError describes a single structural problem in a scene.
type ValidationError struct {
	NodeID  NodeID // zero for scene-level findings
	Message string
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return e.Message
	}
	return fmt.Sprintf("node %s: %s", e.NodeID.Short(), e.Message)
}

// Validate checks the scene for cycles, dangling references and
// degenerate payloads. An empty slice means the scene is valid. It never
// mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(s)...)
	errs = append(errs, validateReferences(s)...)
	errs = append(errs, validatePayloads(s)...)
	return errs
}

// sortedIDs returns node IDs in a stable order so findings are
// reproducible.
func sortedIDs(s *Scene) []NodeID {
	ids := make([]NodeID, 0, len(s.Nodes))
	for id := range s.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// validateDAG checks for cycles using DFS with 3-color marking.
func validateDAG(s *Scene) []ValidationError {
	const (
		white = iota
		gray
		black
	)
	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:  id,
				Message: fmt.Sprintf("cycle detected through node %s", id.Short()),
			})
			return true
		}
		color[id] = gray
		if n := s.Nodes[id]; n != nil {
			for _, c := range n.Children {
				if visit(c) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for _, id := range sortedIDs(s) {
		if color[id] == white && visit(id) {
			break
		}
	}
	return errs
}

func validateReferences(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, r := range s.Roots {
		if s.Nodes[r] == nil {
			errs = append(errs, ValidationError{Message: fmt.Sprintf("root %s does not exist", r.Short())})
		}
	}
	for _, id := range sortedIDs(s) {
		for _, c := range s.Nodes[id].Children {
			if s.Nodes[c] == nil {
				errs = append(errs, ValidationError{
					NodeID:  id,
					Message: fmt.Sprintf("child %s does not exist", c.Short()),
				})
			}
		}
	}
	return errs
}

func validatePayloads(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, id := range sortedIDs(s) {
		n := s.Nodes[id]
		var msg string
		switch d := n.Data.(type) {
		case PrimitiveData:
			msg = checkPrimitive(d)
		case PointsData:
			if len(d.Points) == 0 {
				msg = "point cloud is empty"
			}
		case TransformData:
			if d.Axis != nil && d.Axis.Length() == 0 {
				msg = "rotation axis is zero"
			}
			if len(n.Children) == 0 {
				msg = "transform has no children"
			}
		case BooleanData:
			if len(n.Children) < 2 {
				msg = fmt.Sprintf("%s needs at least two children, got %d", d.Op, len(n.Children))
			}
		}
		if msg != "" {
			errs = append(errs, ValidationError{NodeID: id, Message: msg})
		}
	}
	return errs
}

func checkPrimitive(d PrimitiveData) string {
	switch d.Shape {
	case ShapeBox:
		if d.Size.X <= 0 || d.Size.Y <= 0 || d.Size.Z <= 0 {
			return fmt.Sprintf("box size must be positive, got %v", d.Size)
		}
	case ShapeCylinder:
		if d.Height <= 0 || d.Radius <= 0 {
			return fmt.Sprintf("cylinder needs positive height and radius, got %g and %g", d.Height, d.Radius)
		}
	case ShapeSphere:
		if d.Radius <= 0 {
			return fmt.Sprintf("sphere radius must be positive, got %g", d.Radius)
		}
	default:
		return fmt.Sprintf("unknown shape %v", d.Shape)
	}
	return ""
}
