package builtin

import (
	"fmt"

	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/sc"
	"github.com/curv-lang/curv/pkg/value"
)

// scTestFn implements `sc_test` (spec.md §3's Metafunction examples list
// it alongside `if`/`include`; here it's an ordinary eagerly-evaluated
// builtin instead — see DESIGN.md's Open Question decision on why
// `pkg/analyser` never needs its own metafunction case for it).
//
// Grounded on `original_source/libcurv/geom/builtin.cc`'s
// `SC_Test_Action`: the argument is a record of named `Bool -> Bool`
// assertion functions; each is called once in the ordinary interpreter
// (asserting it returns true) and once through the shape compiler, to
// exercise the code generator the same way a real shape's dist/colour
// function would be exercised. The original also JIT-compiles and
// *runs* the generated C++ to cross-check the two results agree;
// spec.md §1 places "C++ JIT compilation of generated shader code" out
// of scope, so this only checks that the shape compiler accepts the
// function (produces GLSL and C++ text without error), not that running
// that text would agree with the interpreter.
func scTestFn(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
	ref, ok := arg.RefValue()
	if !ok {
		return value.Value{}, newErr(callSite, "sc_test: argument must be a record of test functions")
	}
	rec, ok := ref.(*value.Record)
	if !ok {
		return value.Value{}, newErr(callSite, "sc_test: argument must be a record of test functions")
	}

	for _, name := range rec.Keys() {
		fieldVal, _ := rec.Get(name)
		fn, ok := eval.AsFunction(fieldVal)
		if !ok {
			return value.Value{}, newErr(callSite, fmt.Sprintf("sc_test: %s is not a function", name))
		}

		result, err := fn.Call(f, callSite, value.Null)
		if err != nil {
			return value.Value{}, err
		}
		b, ok := result.Bool()
		if !ok || !b {
			return value.Value{}, newErr(callSite, fmt.Sprintf("sc_test: assertion failed in interpreter: %s", name))
		}

		if _, err := sc.CompileFunction(fn, sc.GLSL, name, "x", sc.Bool, sc.Bool); err != nil {
			return value.Value{}, newErr(callSite, fmt.Sprintf("sc_test: %s failed to compile to GLSL: %v", name, err))
		}
		if _, err := sc.CompileFunction(fn, sc.CPP, name, "x", sc.Bool, sc.Bool); err != nil {
			return value.Value{}, newErr(callSite, fmt.Sprintf("sc_test: %s failed to compile to C++: %v", name, err))
		}
	}
	return value.Null, nil
}

func addShapeCompilerTest(ns map[string]value.Value) {
	ns["sc_test"] = fn("sc_test", scTestFn)
}
