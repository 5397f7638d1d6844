package builtin

import (
	"math"

	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

// operandExpr recovers the Operation a primitive's operand stands for: a
// Reactive's own symbolic Expr, or a Constant wrapping a plain value,
// either way pure, so the CallOp built from them satisfies NewReactive's
// purity check (spec.md §4.4, §9).
func operandExpr(loc location.Location, v value.Value) eval.Operation {
	if r, ok := eval.AsReactive(v); ok {
		return r.Expr
	}
	return eval.NewConstant(loc, v)
}

// reactiveType picks the plex type a reactive primitive's result carries:
// whichever operand is itself Reactive already knows its type; a plain
// scalar combined with a Reactive broadcasts against that type the same
// way binaryNumeric broadcasts a concrete scalar against a concrete vector.
func reactiveType(a, b value.Value) eval.ReactiveType {
	if r, ok := eval.AsReactive(a); ok {
		return r.Type
	}
	if r, ok := eval.AsReactive(b); ok {
		return r.Type
	}
	return eval.ReactiveNum
}

// reactivePrimitive builds the Reactive result of applying the primitive
// named by self to operands a, b, at least one of which is itself Reactive
// (spec.md §4.4: "When a primitive is applied to operands that are plain
// numbers/vectors and Reactive_Expression values, the result is a new
// Reactive_Expression whose expr_ is the primitive applied to the operand
// expressions").
func reactivePrimitive(self *eval.Builtin, loc location.Location, a, b value.Value) value.Value {
	call := eval.NewCallOp(loc, eval.NewConstant(loc, value.Ref(self)),
		eval.NewListExpr(loc, []eval.Operation{operandExpr(loc, a), operandExpr(loc, b)}))
	return value.Ref(eval.NewReactive(call, reactiveType(a, b)))
}

// binaryNumeric implements `original_source/curv/math.cc`'s
// Binary_Numeric_Array_Op: a scalar numeric operator lifted to broadcast
// over lists (element-wise on two equal-length lists, or a scalar against
// every element of a list), so `[1,2,3] + 1` and `[1,2,3] + [4,5,6]` both
// work the way Curv's vector arithmetic requires. An operand that is itself
// Reactive short-circuits broadcasting and yields a new Reactive instead.
func binaryNumeric(name string, op func(a, b float64) float64) func(*eval.Frame, location.Location, value.Value) (value.Value, error) {
	var self *eval.Builtin
	var apply func(a, b value.Value, loc location.Location) (value.Value, error)
	apply = func(a, b value.Value, loc location.Location) (value.Value, error) {
		an, aNum := a.Num()
		bn, bNum := b.Num()
		if aNum && bNum {
			return value.Num(op(an, bn)), nil
		}
		if _, aReactive := eval.AsReactive(a); aReactive {
			return reactivePrimitive(self, loc, a, b), nil
		}
		if _, bReactive := eval.AsReactive(b); bReactive {
			return reactivePrimitive(self, loc, a, b), nil
		}
		al, aList := asList(a)
		bl, bList := asList(b)
		switch {
		case aList && bList:
			if len(al.Elements) != len(bl.Elements) {
				return value.Value{}, newErr(loc, name+": mismatched list lengths")
			}
			out := make([]value.Value, len(al.Elements))
			for i := range al.Elements {
				v, err := apply(al.Elements[i], bl.Elements[i], loc)
				if err != nil {
					return value.Value{}, err
				}
				out[i] = v
			}
			return value.Ref(value.NewList(out)), nil
		case aList && bNum:
			out := make([]value.Value, len(al.Elements))
			for i, e := range al.Elements {
				v, err := apply(e, b, loc)
				if err != nil {
					return value.Value{}, err
				}
				out[i] = v
			}
			return value.Ref(value.NewList(out)), nil
		case aNum && bList:
			out := make([]value.Value, len(bl.Elements))
			for i, e := range bl.Elements {
				v, err := apply(a, e, loc)
				if err != nil {
					return value.Value{}, err
				}
				out[i] = v
			}
			return value.Ref(value.NewList(out)), nil
		}
		return value.Value{}, newErr(loc, name+": domain error")
	}
	fn := func(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
		a, b, err := pair(name, arg, callSite)
		if err != nil {
			return value.Value{}, err
		}
		return apply(a, b, callSite)
	}
	self = &eval.Builtin{Name: name, Fn: fn}
	return fn
}

// unaryNumeric is binaryNumeric's one-argument counterpart (neg, pos),
// also broadcasting over lists and propagating a Reactive operand.
func unaryNumeric(name string, op func(float64) float64) func(*eval.Frame, location.Location, value.Value) (value.Value, error) {
	var self *eval.Builtin
	var apply func(v value.Value, loc location.Location) (value.Value, error)
	apply = func(v value.Value, loc location.Location) (value.Value, error) {
		if n, ok := v.Num(); ok {
			return value.Num(op(n)), nil
		}
		if r, ok := eval.AsReactive(v); ok {
			call := eval.NewCallOp(loc, eval.NewConstant(loc, value.Ref(self)), r.Expr)
			return value.Ref(eval.NewReactive(call, r.Type)), nil
		}
		if l, ok := asList(v); ok {
			out := make([]value.Value, len(l.Elements))
			for i, e := range l.Elements {
				r, err := apply(e, loc)
				if err != nil {
					return value.Value{}, err
				}
				out[i] = r
			}
			return value.Ref(value.NewList(out)), nil
		}
		return value.Value{}, newErr(loc, name+": domain error")
	}
	fn := func(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
		return apply(arg, callSite)
	}
	self = &eval.Builtin{Name: name, Fn: fn}
	return fn
}

// mathFn wraps a single-argument, domain-checked `math.*` function the way
// `original_source/curv/builtin.cc`'s `builtin_sqrt` checks for NaN and
// raises a domain-error exception instead of propagating NaN silently.
func mathFn(name string, f func(float64) float64) func(*eval.Frame, location.Location, value.Value) (value.Value, error) {
	return func(fr *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
		n, ok := arg.Num()
		if !ok {
			return value.Value{}, newErr(callSite, name+": argument must be a number")
		}
		r := f(n)
		if math.IsNaN(r) {
			return value.Value{}, newErr(callSite, name+"("+value.Num(n).Print()+"): domain error")
		}
		return value.Num(r), nil
	}
}

func comparison(name string, op func(a, b float64) bool) func(*eval.Frame, location.Location, value.Value) (value.Value, error) {
	return func(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
		av, bv, err := pair(name, arg, callSite)
		if err != nil {
			return value.Value{}, err
		}
		a, aok := av.Num()
		b, bok := bv.Num()
		if !aok || !bok {
			return value.Value{}, newErr(callSite, name+": arguments must be numbers")
		}
		return value.Bool(op(a, b)), nil
	}
}

func logical(name string, op func(a, b bool) bool) func(*eval.Frame, location.Location, value.Value) (value.Value, error) {
	return func(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
		av, bv, err := pair(name, arg, callSite)
		if err != nil {
			return value.Value{}, err
		}
		a, aok := av.Bool()
		b, bok := bv.Bool()
		if !aok || !bok {
			return value.Value{}, newErr(callSite, name+": arguments must be booleans")
		}
		return value.Bool(op(a, b)), nil
	}
}

func equality(negate bool) func(*eval.Frame, location.Location, value.Value) (value.Value, error) {
	name := "equal"
	if negate {
		name = "not_equal"
	}
	return func(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
		a, b, err := pair(name, arg, callSite)
		if err != nil {
			return value.Value{}, err
		}
		eq := a.Equal(b)
		if negate {
			eq = !eq
		}
		return value.Bool(eq), nil
	}
}

// dot implements generalized dot/matrix product, ported directly from
// `original_source/curv/math.cc`'s `dot(a, b, cx)`: a matrix (a list whose
// elements are themselves lists) dotted with b maps dot(row, b) over its
// rows; otherwise a and b are vectors and the result is sum(a .* b).
func dotOp(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
	a, b, err := pair("dot", arg, callSite)
	if err != nil {
		return value.Value{}, err
	}
	return dotValue(a, b, callSite)
}

func dotValue(a, b value.Value, loc location.Location) (value.Value, error) {
	al, aok := asList(a)
	bl, bok := asList(b)
	if !aok || !bok {
		return value.Value{}, newErr(loc, "dot: arguments must be lists")
	}
	if len(al.Elements) > 0 {
		if _, isMatrix := asList(al.Elements[0]); isMatrix {
			out := make([]value.Value, len(al.Elements))
			for i, row := range al.Elements {
				v, err := dotValue(row, b, loc)
				if err != nil {
					return value.Value{}, err
				}
				out[i] = v
			}
			return value.Ref(value.NewList(out)), nil
		}
	}
	if len(al.Elements) != len(bl.Elements) {
		return value.Value{}, newErr(loc, "dot: mismatched vector lengths")
	}
	sum := 0.0
	for i := range al.Elements {
		an, aok := al.Elements[i].Num()
		bn, bok := bl.Elements[i].Num()
		if !aok || !bok {
			return value.Value{}, newErr(loc, "dot: elements must be numbers")
		}
		sum += an * bn
	}
	return value.Num(sum), nil
}

// mag is the Euclidean norm of a vector, `sqrt(dot(v,v))`, the natural
// extension of math.cc's dot product that spec.md §4.6's shape `dist`
// fields need (distance fields are built from vector magnitudes).
func magOp(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
	l, ok := asList(arg)
	if !ok {
		return value.Value{}, newErr(callSite, "mag: argument must be a vector")
	}
	sum := 0.0
	for _, e := range l.Elements {
		n, ok := e.Num()
		if !ok {
			return value.Value{}, newErr(callSite, "mag: elements must be numbers")
		}
		sum += n * n
	}
	return value.Num(math.Sqrt(sum)), nil
}

func addArithmetic(ns map[string]value.Value) {
	ns["add"] = fn("add", binaryNumeric("add", func(a, b float64) float64 { return a + b }))
	ns["sub"] = fn("sub", binaryNumeric("sub", func(a, b float64) float64 { return a - b }))
	ns["mul"] = fn("mul", binaryNumeric("mul", func(a, b float64) float64 { return a * b }))
	ns["div"] = fn("div", binaryNumeric("div", func(a, b float64) float64 { return a / b }))
	ns["pow"] = fn("pow", binaryNumeric("pow", math.Pow))
	ns["neg"] = fn("neg", unaryNumeric("neg", func(a float64) float64 { return -a }))
	ns["pos"] = fn("pos", unaryNumeric("pos", func(a float64) float64 { return a }))

	ns["not"] = fn("not", func(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
		b, ok := arg.Bool()
		if !ok {
			return value.Value{}, newErr(callSite, "not: argument must be a boolean")
		}
		return value.Bool(!b), nil
	})
	ns["and"] = fn("and", logical("and", func(a, b bool) bool { return a && b }))
	ns["or"] = fn("or", logical("or", func(a, b bool) bool { return a || b }))

	ns["equal"] = fn("equal", equality(false))
	ns["not_equal"] = fn("not_equal", equality(true))
	ns["lt"] = fn("lt", comparison("lt", func(a, b float64) bool { return a < b }))
	ns["le"] = fn("le", comparison("le", func(a, b float64) bool { return a <= b }))
	ns["gt"] = fn("gt", comparison("gt", func(a, b float64) bool { return a > b }))
	ns["ge"] = fn("ge", comparison("ge", func(a, b float64) bool { return a >= b }))

	ns["sqrt"] = fn("sqrt", mathFn("sqrt", math.Sqrt))
	ns["abs"] = fn("abs", unaryNumeric("abs", math.Abs))
	ns["floor"] = fn("floor", unaryNumeric("floor", math.Floor))
	ns["ceil"] = fn("ceil", unaryNumeric("ceil", math.Ceil))
	ns["sin"] = fn("sin", unaryNumeric("sin", math.Sin))
	ns["cos"] = fn("cos", unaryNumeric("cos", math.Cos))
	ns["tan"] = fn("tan", unaryNumeric("tan", math.Tan))
	ns["log"] = fn("log", mathFn("log", math.Log))
	ns["exp"] = fn("exp", unaryNumeric("exp", math.Exp))
	ns["max"] = fn("max", binaryNumeric("max", math.Max))
	ns["min"] = fn("min", binaryNumeric("min", math.Min))

	ns["dot"] = fn("dot", dotOp)
	ns["mag"] = fn("mag", magOp)
}
