package builtin

import (
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

// lenOp implements `original_source/curv/builtin.cc`'s `builtin_len`: the
// element count of a list, or the character count of a string.
func lenOp(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
	if l, ok := asList(arg); ok {
		return value.Num(float64(len(l.Elements))), nil
	}
	ref, ok := arg.RefValue()
	if ok {
		if s, ok := ref.(*value.String); ok {
			return value.Num(float64(len([]rune(s.Text)))), nil
		}
	}
	return value.Value{}, newErr(callSite, "len: argument must be a list or string")
}

// concatOp appends two lists, the list analogue of string concatenation;
// grounded on the same `Binary_Numeric_Array_Op`-adjacent section of
// math.cc showing Curv builtins recursing over *value.List.Elements.
func concatOp(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
	a, b, err := pair("concat", arg, callSite)
	if err != nil {
		return value.Value{}, err
	}
	al, aok := asList(a)
	bl, bok := asList(b)
	if !aok || !bok {
		return value.Value{}, newErr(callSite, "concat: arguments must be lists")
	}
	out := make([]value.Value, 0, len(al.Elements)+len(bl.Elements))
	out = append(out, al.Elements...)
	out = append(out, bl.Elements...)
	return value.Ref(value.NewList(out)), nil
}

// strOp renders any value the way it would print back as Curv source
// (spec.md §8 print_repr), wrapped as a builtin so programs can build
// diagnostic strings without a separate stringify metafunction.
func strOp(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
	return value.Ref(value.NewString(arg.Print())), nil
}

func addCollections(ns map[string]value.Value) {
	ns["len"] = fn("len", lenOp)
	ns["concat"] = fn("concat", concatOp)
	ns["str"] = fn("str", strOp)
}
