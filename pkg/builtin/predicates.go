package builtin

import (
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

// predicate wraps a Go test over value.Value as a unary Curv predicate
// function, the Go equivalent of `original_source/curv/value.cc`'s
// Value::is_num/is_bool/... accessors exposed to user code as
// `builtin_namespace` entries.
func predicate(test func(value.Value) bool) func(*eval.Frame, location.Location, value.Value) (value.Value, error) {
	return func(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
		return value.Bool(test(arg)), nil
	}
}

func refKindIs(kind string) func(value.Value) bool {
	return func(v value.Value) bool {
		r, ok := v.RefValue()
		if !ok {
			return false
		}
		return r.RefKind() == kind
	}
}

func addPredicates(ns map[string]value.Value) {
	ns["is_null"] = fn("is_null", predicate(func(v value.Value) bool { return v.IsNull() }))
	ns["is_bool"] = fn("is_bool", predicate(func(v value.Value) bool { return v.IsBool() }))
	ns["is_num"] = fn("is_num", predicate(func(v value.Value) bool { return v.IsNum() }))
	ns["is_char"] = fn("is_char", predicate(func(v value.Value) bool { return v.IsChar() }))
	ns["is_string"] = fn("is_string", predicate(refKindIs("string")))
	ns["is_list"] = fn("is_list", predicate(refKindIs("list")))
	ns["is_record"] = fn("is_record", predicate(func(v value.Value) bool {
		return refKindIs("record")(v) || refKindIs("module")(v)
	}))
	ns["is_fun"] = fn("is_fun", predicate(func(v value.Value) bool {
		_, ok := eval.AsFunction(v)
		return ok
	}))
}
