package builtin

import (
	"math"
	"testing"

	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

func callBuiltin(t *testing.T, ns map[string]value.Value, name string, arg value.Value) value.Value {
	t.Helper()
	fn, ok := eval.AsFunction(ns[name])
	if !ok {
		t.Fatalf("%s is not a function in the root namespace", name)
	}
	v, err := fn.Call(nil, location.Location{}, arg)
	if err != nil {
		t.Fatalf("%s(%s) failed: %v", name, arg.Print(), err)
	}
	return v
}

func vec(nums ...float64) value.Value {
	elems := make([]value.Value, len(nums))
	for i, n := range nums {
		elems[i] = value.Num(n)
	}
	return value.Ref(value.NewList(elems))
}

func pairArg(a, b value.Value) value.Value {
	return value.Ref(value.NewList([]value.Value{a, b}))
}

// TestArithmetic_ReactivePropagation exercises spec.md §4.4's reactive
// propagation directly at the primitive level: nothing in this subset's
// Curv-source surface constructs the first Reactive (that's pkg/sc's static
// symbolic compile, a separate mechanism — see DESIGN.md), so the operand is
// built by hand the way a future reactive-producing primitive would.
func TestArithmetic_ReactivePropagation(t *testing.T) {
	ns := Root()
	sentinel := eval.NewConstant(location.Location{}, value.Num(99))
	reactiveOperand := value.Ref(eval.NewReactive(sentinel, eval.ReactiveVec3))

	result := callBuiltin(t, ns, "add", pairArg(reactiveOperand, vec(1, 2, 3)))
	got, ok := eval.AsReactive(result)
	if !ok {
		t.Fatalf("add(reactive, vec) = %s, want a Reactive result", result.Print())
	}
	if got.Type != eval.ReactiveVec3 {
		t.Errorf("reactive type = %v, want ReactiveVec3 (broadcast from the reactive operand)", got.Type)
	}
	call, ok := got.Expr.(*eval.CallOp)
	if !ok {
		t.Fatalf("reactive Expr = %T, want *eval.CallOp wrapping add's own builtin", got.Expr)
	}
	if !call.Pure() {
		t.Errorf("reactive Expr must be pure, or NewReactive would have panicked (spec.md §9)")
	}

	// neg is unary: the propagated CallOp's Arg is the bare operand
	// expression, not a 2-element ListExpr (that's the binary convention).
	negResult := callBuiltin(t, ns, "neg", reactiveOperand)
	negReactive, ok := eval.AsReactive(negResult)
	if !ok {
		t.Fatalf("neg(reactive) = %s, want a Reactive result", negResult.Print())
	}
	if negReactive.Type != eval.ReactiveVec3 {
		t.Errorf("neg reactive type = %v, want ReactiveVec3 (inherited from the operand)", negReactive.Type)
	}
	negCall, ok := negReactive.Expr.(*eval.CallOp)
	if !ok {
		t.Fatalf("neg reactive Expr = %T, want *eval.CallOp", negReactive.Expr)
	}
	if negCall.Arg != eval.Operation(sentinel) {
		t.Errorf("neg reactive Expr.Arg = %v, want the bare operand expression", negCall.Arg)
	}
}

func TestArithmetic_ScalarBinary(t *testing.T) {
	ns := Root()
	cases := []struct {
		name     string
		a, b     float64
		expected float64
	}{
		{"add", 2, 3, 5},
		{"sub", 5, 3, 2},
		{"mul", 4, 3, 12},
		{"div", 9, 3, 3},
		{"pow", 2, 10, 1024},
		{"max", 2, 9, 9},
		{"min", 2, 9, 2},
	}
	for _, c := range cases {
		v := callBuiltin(t, ns, c.name, pairArg(value.Num(c.a), value.Num(c.b)))
		n, ok := v.Num()
		if !ok || n != c.expected {
			t.Errorf("%s(%v,%v) = %v, want %v", c.name, c.a, c.b, v.Print(), c.expected)
		}
	}
}

func TestArithmetic_BroadcastOverLists(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "add", pairArg(vec(1, 2, 3), value.Num(1)))
	l, ok := v.RefValue()
	if !ok {
		t.Fatalf("expected a list result, got %v", v.Print())
	}
	list := l.(*value.List)
	want := []float64{2, 3, 4}
	for i, e := range list.Elements {
		n, _ := e.Num()
		if n != want[i] {
			t.Errorf("element %d = %v, want %v", i, n, want[i])
		}
	}
}

func TestArithmetic_BroadcastElementwise(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "mul", pairArg(vec(1, 2, 3), vec(4, 5, 6)))
	l, _ := v.RefValue()
	list := l.(*value.List)
	want := []float64{4, 10, 18}
	for i, e := range list.Elements {
		n, _ := e.Num()
		if n != want[i] {
			t.Errorf("element %d = %v, want %v", i, n, want[i])
		}
	}
}

func TestArithmetic_MismatchedListLengthsError(t *testing.T) {
	ns := Root()
	fn, _ := eval.AsFunction(ns["add"])
	_, err := fn.Call(nil, location.Location{}, pairArg(vec(1, 2), vec(1, 2, 3)))
	if err == nil {
		t.Fatal("expected an error for mismatched list lengths")
	}
}

func TestArithmetic_UnaryNeg(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "neg", value.Num(5))
	n, _ := v.Num()
	if n != -5 {
		t.Errorf("neg(5) = %v, want -5", n)
	}
}

func TestArithmetic_SqrtDomainError(t *testing.T) {
	ns := Root()
	fn, _ := eval.AsFunction(ns["sqrt"])
	_, err := fn.Call(nil, location.Location{}, value.Num(-1))
	if err == nil {
		t.Fatal("expected a domain error for sqrt(-1)")
	}
}

func TestArithmetic_Comparisons(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "lt", pairArg(value.Num(1), value.Num(2)))
	b, ok := v.Bool()
	if !ok || !b {
		t.Errorf("lt(1,2) = %v, want true", v.Print())
	}
}

func TestArithmetic_Equality(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "equal", pairArg(vec(1, 2), vec(1, 2)))
	b, _ := v.Bool()
	if !b {
		t.Errorf("equal([1,2],[1,2]) = %v, want true", v.Print())
	}
	v = callBuiltin(t, ns, "not_equal", pairArg(value.Num(1), value.Num(2)))
	b, _ = v.Bool()
	if !b {
		t.Errorf("not_equal(1,2) = %v, want true", v.Print())
	}
}

func TestArithmetic_Logical(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "and", pairArg(value.Bool(true), value.Bool(false)))
	b, _ := v.Bool()
	if b {
		t.Errorf("and(true,false) = %v, want false", v.Print())
	}
	v = callBuiltin(t, ns, "not", value.Bool(false))
	b, _ = v.Bool()
	if !b {
		t.Errorf("not(false) = %v, want true", v.Print())
	}
}

func TestArithmetic_DotProduct(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "dot", pairArg(vec(1, 2, 3), vec(4, 5, 6)))
	n, ok := v.Num()
	if !ok || n != 32 {
		t.Errorf("dot([1,2,3],[4,5,6]) = %v, want 32", v.Print())
	}
}

func TestArithmetic_DotMatrix(t *testing.T) {
	ns := Root()
	matrix := value.Ref(value.NewList([]value.Value{vec(1, 0), vec(0, 1)}))
	v := callBuiltin(t, ns, "dot", pairArg(matrix, vec(3, 4)))
	l, ok := v.RefValue()
	if !ok {
		t.Fatalf("expected a list result, got %v", v.Print())
	}
	list := l.(*value.List)
	want := []float64{3, 4}
	for i, e := range list.Elements {
		n, _ := e.Num()
		if n != want[i] {
			t.Errorf("row %d = %v, want %v", i, n, want[i])
		}
	}
}

func TestArithmetic_Magnitude(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "mag", vec(3, 4))
	n, ok := v.Num()
	if !ok || n != 5 {
		t.Errorf("mag([3,4]) = %v, want 5", v.Print())
	}
}

func TestArithmetic_MathFunctions(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "sin", value.Num(0))
	n, _ := v.Num()
	if math.Abs(n) > 1e-12 {
		t.Errorf("sin(0) = %v, want 0", n)
	}
	v = callBuiltin(t, ns, "floor", value.Num(3.7))
	n, _ = v.Num()
	if n != 3 {
		t.Errorf("floor(3.7) = %v, want 3", n)
	}
}
