package sc

import (
	"strings"
	"testing"

	"github.com/curv-lang/curv/pkg/builtin"
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/shape"
	"github.com/curv-lang/curv/pkg/value"
)

func assertContains(t *testing.T, code, expected string) {
	t.Helper()
	if !strings.Contains(code, expected) {
		t.Errorf("expected generated code to contain %q, got:\n%s", expected, code)
	}
}

// rootModule wraps pkg/builtin's primitives in a Module so NonlocalRef
// lookups inside a hand-built Lambda body resolve the way they would for
// code the analyser compiled against analyser.Root.
func rootModule(names ...string) *eval.Module {
	root := builtin.Root()
	mod := eval.NewModule(len(names))
	for i, n := range names {
		mod.FieldNames = append(mod.FieldNames, n)
		mod.FieldSlot[n] = i
		mod.Kind[i] = eval.SlotValue
		mod.Slots[i] = root[n]
	}
	return mod
}

// sphereLambda builds `p -> mag(p) - 1`, the closure a `sphere` shape's
// `dist` field would hold after analysis.
func sphereLambda() *eval.Closure {
	pParam := eval.IdentifierPattern{Slot: 0, Name: "p"}
	magCall := eval.NewCallOp(location.Location{},
		eval.NewNonlocalRef(location.Location{}, "mag"),
		eval.NewLocalRef(location.Location{}, 0, "p"))
	subArgs := eval.NewListExpr(location.Location{}, []eval.Operation{
		magCall,
		eval.NewConstant(location.Location{}, value.Num(1)),
	})
	body := eval.NewCallOp(location.Location{},
		eval.NewNonlocalRef(location.Location{}, "sub"), subArgs)

	lam := &eval.Lambda{Name: "dist", Param: pParam, Body: body, NSlots: 1}
	return &eval.Closure{Lambda: lam, Nonlocals: rootModule("mag", "sub")}
}

func TestCompile_SphereDistGLSL(t *testing.T) {
	closure := sphereLambda()
	e := NewEmitter(GLSL)
	slots := make([]*Val, closure.Lambda.NSlots)
	ip := closure.Lambda.Param.(eval.IdentifierPattern)
	slots[ip.Slot] = &Val{Expr: "p", Type: Vec3}
	real := eval.NewFrame(nil, location.Location{}, closure.Nonlocals, closure.Lambda.NSlots)
	fr := &SCFrame{Slots: slots, Real: real, Nonlocal: map[string]*Val{}}

	v, err := e.Compile(closure.Lambda.Body, fr)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if v.Type != Num {
		t.Fatalf("expected Num result, got %v", v.Type)
	}
	assertContains(t, v.Expr, "length(p)")
}

func TestCompile_LetIntroducesTemporary(t *testing.T) {
	// let d = mag(p) in d - 1
	field := eval.ModuleField{
		Name: "d",
		Expr: eval.NewCallOp(location.Location{},
			eval.NewNonlocalRef(location.Location{}, "mag"),
			eval.NewLocalRef(location.Location{}, 0, "p")),
	}
	body := eval.NewCallOp(location.Location{},
		eval.NewNonlocalRef(location.Location{}, "sub"),
		eval.NewListExpr(location.Location{}, []eval.Operation{
			eval.NewNonlocalRef(location.Location{}, "d"),
			eval.NewConstant(location.Location{}, value.Num(1)),
		}))
	letOp := eval.NewLetOp(location.Location{}, []eval.ModuleField{field}, 0, body)

	e := NewEmitter(GLSL)
	fr := &SCFrame{
		Slots:    []*Val{{Expr: "p", Type: Vec3}},
		Real:     eval.NewFrame(nil, location.Location{}, rootModule("mag", "sub"), 1),
		Nonlocal: map[string]*Val{},
	}
	v, err := e.Compile(letOp, fr)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	assertContains(t, e.Source(), "float _t1 = length(p);")
	assertContains(t, v.Expr, "_t1")
}

func TestCompileShape_Sphere(t *testing.T) {
	closure := sphereLambda()
	colourLam := &eval.Lambda{
		Name:  "colour",
		Param: eval.IdentifierPattern{Slot: 0, Name: "p"},
		Body: eval.NewConstant(location.Location{},
			value.Ref(value.NewList([]value.Value{value.Num(1), value.Num(0), value.Num(0)}))),
		NSlots: 1,
	}
	s := &shape.Shape{
		Is3D:   true,
		Dist:   closure,
		Colour: &eval.Closure{Lambda: colourLam, Nonlocals: rootModule("mag", "sub")},
	}

	out, err := Compile(s, GLSL)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	assertContains(t, out.DistFunc, "float dist(vec4 p)")
	assertContains(t, out.ColourFunc, "vec3 colour(vec4 p)")
}

func TestCompileBoth_GLSLAndCPP(t *testing.T) {
	closure := sphereLambda()
	s := &shape.Shape{
		Is3D: true,
		Dist: closure,
		Colour: &eval.Closure{
			Lambda: &eval.Lambda{
				Name:  "colour",
				Param: eval.IdentifierPattern{Slot: 0, Name: "p"},
				Body: eval.NewConstant(location.Location{},
					value.Ref(value.NewList([]value.Value{value.Num(1), value.Num(1), value.Num(1)}))),
				NSlots: 1,
			},
			Nonlocals: rootModule("mag", "sub"),
		},
	}

	glsl, cpp, err := CompileBoth(s)
	if err != nil {
		t.Fatalf("CompileBoth failed: %v", err)
	}
	assertContains(t, glsl.DistFunc, "vec4 p")
	assertContains(t, cpp.DistFunc, "glm::dvec4& p")
}
