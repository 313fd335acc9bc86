package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/minbounds/pkg/kernel"
	"github.com/chazu/minbounds/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a scene.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   scene.NodeID
	name string // for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a kernel.Point3.
type sexpVec3 struct {
	vec kernel.Point3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			// Trailing keyword with no value.
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a SexpInt or SexpFloat.
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (scene.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return scene.ZeroID, fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Point3 from a sexpVec3.
func toVec3(s zygo.Sexp) (kernel.Point3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return kernel.Point3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// kwFloat reads a required numeric keyword.
func (pa kwArgs) kwFloat(fn, key string) (float64, error) {
	v, ok := pa.kw[key]
	if !ok {
		return 0, fmt.Errorf("%s requires :%s", fn, key)
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return f, nil
}

// kwVec3 reads a required vec3 keyword.
func (pa kwArgs) kwVec3(fn, key string) (kernel.Point3, error) {
	v, ok := pa.kw[key]
	if !ok {
		return kernel.Point3{}, fmt.Errorf("%s requires :%s (vec3 x y z)", fn, key)
	}
	vec, err := toVec3(v)
	if err != nil {
		return kernel.Point3{}, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return vec, nil
}

// name reads the optional :name keyword.
func (pa kwArgs) name(fn string) (string, error) {
	v, ok := pa.kw["name"]
	if !ok {
		return "", nil
	}
	s, err := toString(v)
	if err != nil {
		return "", fmt.Errorf("%s: name: %w", fn, err)
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Scene builder
// ---------------------------------------------------------------------------

// builder populates one scene during one evaluation. Anonymous nodes are
// numbered per kind, so the same script always yields the same IDs.
type builder struct {
	s     *scene.Scene
	anon  map[string]int
	order []scene.NodeID // creation order
}

func newBuilder(s *scene.Scene) *builder {
	return &builder{s: s, anon: make(map[string]int)}
}

// add assigns an ID to n from its kind label and name and stores it.
func (b *builder) add(label string, n *scene.Node) (*sexpNodeRef, error) {
	if n.Name != "" {
		if b.s.Lookup(n.Name) != nil {
			return nil, fmt.Errorf("%s: name %q already defined", label, n.Name)
		}
		n.ID = scene.NewNodeID(label + "/" + n.Name)
	} else {
		b.anon[label]++
		n.ID = scene.NewNodeID(fmt.Sprintf("%s/#%d", label, b.anon[label]))
	}
	b.s.AddNode(n)
	b.order = append(b.order, n.ID)
	return &sexpNodeRef{id: n.ID, name: n.Name}, nil
}

// unreferenced returns, in creation order, the nodes that are not a child
// of any other node.
func (b *builder) unreferenced() []scene.NodeID {
	used := make(map[scene.NodeID]bool)
	for _, n := range b.s.Nodes {
		for _, c := range n.Children {
			used[c] = true
		}
	}
	var tops []scene.NodeID
	for _, id := range b.order {
		if !used[id] {
			tops = append(tops, id)
		}
	}
	return tops
}

// primitive stores a shape node.
func (b *builder) primitive(label string, pa kwArgs, data scene.PrimitiveData) (zygo.Sexp, error) {
	name, err := pa.name(label)
	if err != nil {
		return zygo.SexpNull, err
	}
	ref, err := b.add(label, &scene.Node{Kind: scene.NodePrimitive, Name: name, Data: data})
	if err != nil {
		return zygo.SexpNull, err
	}
	return ref, nil
}

// transform wraps the node in pa.positional[0] with data.
func (b *builder) transform(label string, pa kwArgs, data scene.TransformData) (zygo.Sexp, error) {
	if len(pa.positional) < 1 {
		return zygo.SexpNull, fmt.Errorf("%s requires a node as first argument", label)
	}
	child, err := toNodeRef(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", label, err)
	}
	name, err := pa.name(label)
	if err != nil {
		return zygo.SexpNull, err
	}
	ref, err := b.add(label, &scene.Node{
		Kind:     scene.NodeTransform,
		Name:     name,
		Children: []scene.NodeID{child},
		Data:     data,
	})
	if err != nil {
		return zygo.SexpNull, err
	}
	return ref, nil
}

// boolean combines the positional nodes with op. The first node is the
// base for a difference.
func (b *builder) boolean(label string, pa kwArgs, op scene.BooleanOp) (zygo.Sexp, error) {
	if len(pa.positional) < 2 {
		return zygo.SexpNull, fmt.Errorf("%s requires at least two nodes, got %d", label, len(pa.positional))
	}
	children := make([]scene.NodeID, 0, len(pa.positional))
	for i, a := range pa.positional {
		id, err := toNodeRef(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", label, i+1, err)
		}
		children = append(children, id)
	}
	name, err := pa.name(label)
	if err != nil {
		return zygo.SexpNull, err
	}
	ref, err := b.add(label, &scene.Node{
		Kind:     scene.NodeBoolean,
		Name:     name,
		Children: children,
		Data:     scene.BooleanData{Op: op},
	})
	if err != nil {
		return zygo.SexpNull, err
	}
	return ref, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// register installs the DSL builtins into env. Source must go through
// preprocessSource first so that :keyword tokens are recognizable.
func (b *builder) register(env *zygo.Zlisp) {

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", "xyz"[i:i+1], err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: kernel.Point3{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// (box 10 20 5) or (box :size (vec3 10 20 5) :name "base")
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var size kernel.Point3
		switch {
		case len(pa.positional) == 3:
			var c [3]float64
			for i, a := range pa.positional {
				f, err := toFloat64(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("box: dimension %d: %w", i+1, err)
				}
				c[i] = f
			}
			size = kernel.Point3{X: c[0], Y: c[1], Z: c[2]}
		case len(pa.positional) == 1:
			v, err := toVec3(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %w", err)
			}
			size = v
		case len(pa.positional) == 0:
			v, err := pa.kwVec3("box", "size")
			if err != nil {
				return zygo.SexpNull, err
			}
			size = v
		default:
			return zygo.SexpNull, fmt.Errorf("box takes three dimensions or one vec3, got %d arguments", len(pa.positional))
		}
		return b.primitive("box", pa, scene.PrimitiveData{Shape: scene.ShapeBox, Size: size})
	})

	// (cylinder :height 40 :radius 5)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		h, err := pa.kwFloat("cylinder", "height")
		if err != nil {
			return zygo.SexpNull, err
		}
		r, err := pa.kwFloat("cylinder", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		return b.primitive("cylinder", pa, scene.PrimitiveData{Shape: scene.ShapeCylinder, Height: h, Radius: r})
	})

	// (sphere 3) or (sphere :radius 3)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var r float64
		var err error
		if len(pa.positional) == 1 {
			r, err = toFloat64(pa.positional[0])
			if err != nil {
				err = fmt.Errorf("sphere: radius: %w", err)
			}
		} else {
			r, err = pa.kwFloat("sphere", "radius")
		}
		if err != nil {
			return zygo.SexpNull, err
		}
		return b.primitive("sphere", pa, scene.PrimitiveData{Shape: scene.ShapeSphere, Radius: r})
	})

	// (points (vec3 0 0 0) (vec3 1 0 0) ...) or (points (list ...))
	env.AddFunction("points", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var pts []kernel.Point3
		for i, a := range pa.positional {
			if v, ok := a.(*sexpVec3); ok {
				pts = append(pts, v.vec)
				continue
			}
			items, err := sexpListToSlice(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("points: argument %d: %w", i+1, err)
			}
			for j, item := range items {
				v, err := toVec3(item)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("points: argument %d entry %d: %w", i+1, j+1, err)
				}
				pts = append(pts, v)
			}
		}
		if len(pts) == 0 {
			return zygo.SexpNull, fmt.Errorf("points requires at least one vec3")
		}
		nm, err := pa.name("points")
		if err != nil {
			return zygo.SexpNull, err
		}
		ref, err := b.add("points", &scene.Node{Kind: scene.NodePoints, Name: nm, Data: scene.PointsData{Points: pts}})
		if err != nil {
			return zygo.SexpNull, err
		}
		return ref, nil
	})

	// (translate node :by (vec3 0 0 10))
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		by, err := pa.kwVec3("translate", "by")
		if err != nil {
			return zygo.SexpNull, err
		}
		return b.transform("translate", pa, scene.TransformData{Translation: &by})
	})

	// (rotate node :axis (vec3 0 0 1) :angle 45)
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		axis, err := pa.kwVec3("rotate", "axis")
		if err != nil {
			return zygo.SexpNull, err
		}
		deg, err := pa.kwFloat("rotate", "angle")
		if err != nil {
			return zygo.SexpNull, err
		}
		return b.transform("rotate", pa, scene.TransformData{Axis: &axis, Angle: deg})
	})

	// (union "name" node node ...)
	env.AddFunction("union", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("union requires a name and at least one node")
		}
		groupName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("union: name: %w", err)
		}
		children := make([]scene.NodeID, 0, len(args)-1)
		for i, a := range args[1:] {
			id, err := toNodeRef(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("union: child %d: %w", i+1, err)
			}
			children = append(children, id)
		}
		ref, err := b.add("union", &scene.Node{
			Kind:     scene.NodeGroup,
			Name:     groupName,
			Children: children,
			Data:     scene.GroupData{},
		})
		if err != nil {
			return zygo.SexpNull, err
		}
		return ref, nil
	})

	// (difference base cutter ... :name "slot")
	env.AddFunction("difference", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return b.boolean("difference", parseArgs(args), scene.OpDifference)
	})

	// (intersection a b ...)
	env.AddFunction("intersection", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return b.boolean("intersection", parseArgs(args), scene.OpIntersection)
	})

	// (emit node ...) marks nodes as scene roots.
	env.AddFunction("emit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("emit requires at least one node")
		}
		for i, a := range args {
			id, err := toNodeRef(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("emit: argument %d: %w", i+1, err)
			}
			b.s.AddRoot(id)
		}
		return args[len(args)-1], nil
	})
}
