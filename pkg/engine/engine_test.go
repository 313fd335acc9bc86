package engine

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/minbounds/pkg/kernel"
	"github.com/chazu/minbounds/pkg/scene"
)

func TestEvaluateWithoutGeometry(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t  \n  "},
		{"arithmetic", "(+ 1 2)"},
		{"definitions", "(def x 10)\n(def y 20)\n(+ x y)"},
		{"comments", "; nothing here\n;; nor :here\n(+ 1 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := evalOK(t, tt.source)
			if s.NodeCount() != 0 || len(s.Roots) != 0 {
				t.Errorf("nodes = %d, roots = %d, want an empty scene", s.NodeCount(), len(s.Roots))
			}
		})
	}
}

func TestEvaluateRejects(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unclosed paren", "(+ 1 2"},
		{"undefined symbol", "(+ 1 undefined-symbol)"},
		{"unclosed on second line", "(+ 1 2)\n(+ 3"},
		{"wrong argument type", `(translate (box 1 1 1) :by 5)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
			}
			if s != nil {
				t.Fatal("expected nil scene")
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected eval errors")
			}
			if evalErrs[0].Message == "" {
				t.Error("eval error message is empty")
			}
		})
	}
}

func TestEvaluateKebabCaseAndKeywords(t *testing.T) {
	s := evalOK(t, `
;; names keep their hyphens; symbols lose them
(def base-plate (box :size (vec3 2 4 1) :name "base-plate"))
(def spun-plate (rotate base-plate :axis (vec3 0 0 1) :angle 30 :name "spun-plate"))
(translate spun-plate :by (vec3 0 0 5) :name "lifted")
`)
	if s.NodeCount() != 3 {
		t.Fatalf("expected 3 nodes, got %d", s.NodeCount())
	}
	lifted := lookup(t, s, "lifted")
	if len(s.Roots) != 1 || s.Roots[0] != lifted.ID {
		t.Fatalf("roots = %v, want [lifted]", s.Roots)
	}

	td := lifted.Data.(scene.TransformData)
	if td.Translation == nil || *td.Translation != (kernel.Point3{Z: 5}) {
		t.Errorf("translate data = %+v", td)
	}
	spun := lookup(t, s, "spun-plate")
	if lifted.Children[0] != spun.ID {
		t.Errorf("lifted child = %s, want spun-plate", lifted.Children[0].Short())
	}
	rd := spun.Data.(scene.TransformData)
	if rd.Axis == nil || *rd.Axis != (kernel.Point3{Z: 1}) || rd.Angle != 30 {
		t.Errorf("rotate data = %+v", rd)
	}
	plate := primitiveOf(t, lookup(t, s, "base-plate"))
	if plate.Size != (kernel.Point3{X: 2, Y: 4, Z: 1}) {
		t.Errorf("plate size = %v", plate.Size)
	}
}

func TestEvaluateIsRepeatable(t *testing.T) {
	src := `(emit (translate (box 1 2 3) :by (vec3 1 0 0)) (sphere 2))`
	eng := NewEngine()
	first := evalOK(t, src)
	for i := 0; i < 3; i++ {
		s, evalErrs, err := eng.Evaluate(src)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("run %d: %v %v", i, err, evalErrs)
		}
		if s == first {
			t.Fatal("each evaluation should build a new scene")
		}
		if len(s.Roots) != len(first.Roots) || s.NodeCount() != first.NodeCount() {
			t.Fatalf("run %d: %d roots, %d nodes", i, len(s.Roots), s.NodeCount())
		}
		for j := range s.Roots {
			if s.Roots[j] != first.Roots[j] {
				t.Errorf("run %d: root %d = %s, want %s", i, j, s.Roots[j].Short(), first.Roots[j].Short())
			}
		}
	}
}

func TestEvalErrorString(t *testing.T) {
	tests := []struct {
		err  EvalError
		want string
	}{
		{EvalError{Line: 5, Message: "something went wrong"}, "line 5: something went wrong"},
		{EvalError{Message: "no location"}, "no location"},
		{EvalError{Line: 0, Col: 3, Message: "column only"}, "column only"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWaitWithTimeout(t *testing.T) {
	done := scene.New()
	tests := []struct {
		name    string
		result  *evalResult // nil: the channel never delivers
		gen     uint64
		current uint64
		wantErr string
	}{
		{"delivered", &evalResult{scene: done}, 3, 3, ""},
		{"expired", nil, 1, 1, "timed out"},
		{"superseded", &evalResult{scene: done}, 1, 2, "superseded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mu sync.Mutex
			current := tt.current
			ch := make(chan evalResult, 1)
			if tt.result != nil {
				ch <- *tt.result
			}

			start := time.Now()
			s, _, err := waitWithTimeout(ch, tt.gen, &mu, &current, 50*time.Millisecond)
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Errorf("wait took %s", elapsed)
			}
			if tt.wantErr == "" {
				if err != nil || s != done {
					t.Errorf("got %v, %v; want the delivered scene", s, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestEngineTimeout(t *testing.T) {
	tests := []struct {
		name string
		eng  *Engine
		want time.Duration
	}{
		{"constructor", NewEngine(), DefaultTimeout},
		{"zero value", &Engine{}, DefaultTimeout},
		{"explicit", &Engine{Timeout: time.Second}, time.Second},
	}
	for _, tt := range tests {
		if got := tt.eng.timeout(); got != tt.want {
			t.Errorf("%s: timeout = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"bare line prefix", "line 3: bad form", 3, "bad form"},
		{"no line", "  some generic error ", 0, "some generic error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1", len(errs))
			}
			if errs[0].Line != tt.wantLine || errs[0].Message != tt.wantMsg {
				t.Errorf("got line %d %q, want line %d %q", errs[0].Line, errs[0].Message, tt.wantLine, tt.wantMsg)
			}
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }
