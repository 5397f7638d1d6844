// Package builtin implements Curv's root namespace: the primitive
// functions and constants every program sees without an explicit import
// (spec.md §4.3/§4.4, the operator-to-builtin-name table in
// pkg/analyser/compile.go). Grouped into arithmetic.go, predicates.go and
// collections.go by concern, the way the teacher's pkg/asm/asm.go groups
// its opcode tables by operand shape (zeroOperandOps, oneRegisterOps, ...)
// rather than one flat map.
package builtin

import (
	"math"

	"github.com/curv-lang/curv/pkg/diag"
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

func newErr(loc location.Location, msg string) error {
	return diag.New(msg).At(diag.AtPhrase{Loc: loc})
}

// fn wraps a Go function as a callable Curv value, mirroring
// `original_source/curv/builtin.cc`'s `make_ref_value<Function>(...)`
// namespace entries.
func fn(name string, f func(fr *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error)) value.Value {
	return value.Ref(&eval.Builtin{Name: name, Fn: f})
}

// asList reports whether v is a *value.List, used throughout for the
// array-broadcast numeric ops (`original_source/curv/math.cc`'s
// `Binary_Numeric_Array_Op`) and for the 2-element-argument-list calling
// convention every binary builtin in this package uses — Curv functions
// are single-argument, so `add`/`lt`/`and`/... all take one list of length
// two, exactly as the analyser's Binary-phrase compilation packs its two
// operands (see pkg/analyser/compile.go's Binary case).
func asList(v value.Value) (*value.List, bool) {
	ref, ok := v.RefValue()
	if !ok {
		return nil, false
	}
	l, ok := ref.(*value.List)
	return l, ok
}

func pair(name string, arg value.Value, loc location.Location) (value.Value, value.Value, error) {
	l, ok := asList(arg)
	if !ok || len(l.Elements) != 2 {
		return value.Value{}, value.Value{}, newErr(loc, name+": expects a 2-element argument list")
	}
	return l.Elements[0], l.Elements[1], nil
}

// Root builds the builtin namespace map used to seed
// analyser.Root.Builtins (spec.md §6's "System" builtin namespace, the
// part of it that needs no importer/host wiring).
func Root() map[string]value.Value {
	ns := map[string]value.Value{
		"pi":   value.Num(math.Pi),
		"tau":  value.Num(2 * math.Pi),
		"inf":  value.Num(math.Inf(1)),
		"null": value.Null,
		"true": value.Bool(true),
		"false": value.Bool(false),
	}
	addArithmetic(ns)
	addPredicates(ns)
	addCollections(ns)
	addPickers(ns)
	addShapeCompilerTest(ns)
	return ns
}
