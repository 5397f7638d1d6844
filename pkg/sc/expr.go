package sc

import (
	"fmt"

	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

// isReactive reports whether op's result depends on a slot or nonlocal
// name the current SCFrame is compiling symbolically (the point/parameter
// the dist/colour function was called with), as opposed to something
// already resolvable to a constant via fr.Real. This is a different
// question than Operation.Pure(): Pure means "never touches System",
// unrelated to whether an operand is the shape's reactive parameter.
func isReactive(op eval.Operation, fr *SCFrame) bool {
	switch t := op.(type) {
	case *eval.Constant:
		return false
	case *eval.LocalRef:
		return t.Slot < len(fr.Slots) && fr.Slots[t.Slot] != nil
	case *eval.NonlocalRef:
		_, ok := fr.Nonlocal[t.Name]
		return ok
	case *eval.CallOp:
		return isReactive(t.Func, fr) || isReactive(t.Arg, fr)
	case *eval.IndexOp:
		if isReactive(t.Object, fr) {
			return true
		}
		return t.Elem != nil && isReactive(t.Elem, fr)
	case *eval.ListExpr:
		for _, e := range t.Elements {
			if isReactive(e, fr) {
				return true
			}
		}
		return false
	case *eval.IfElse:
		if isReactive(t.Cond, fr) || isReactive(t.Then, fr) {
			return true
		}
		return t.Else != nil && isReactive(t.Else, fr)
	case *eval.LetOp:
		for _, fl := range t.Fields {
			if fl.Expr != nil && isReactive(fl.Expr, fr) {
				return true
			}
		}
		return isReactive(t.Body, fr)
	default:
		return false
	}
}

// valueToVal renders a concrete runtime Value as a constant Val, the leaf
// case every fold-to-constant path bottoms out at.
func (e *Emitter) valueToVal(v value.Value, loc location.Location) (*Val, error) {
	if n, ok := v.Num(); ok {
		return &Val{Expr: formatFloat(n), Type: Num}, nil
	}
	if b, ok := v.Bool(); ok {
		if b {
			return &Val{Expr: "true", Type: Bool}, nil
		}
		return &Val{Expr: "false", Type: Bool}, nil
	}
	if l, ok := asListValue(v); ok {
		return e.vectorLiteral(l, loc)
	}
	return nil, newErr(loc, "shape compiler: value has no GLSL/C++ representation")
}

func (e *Emitter) vectorLiteral(elems []value.Value, loc location.Location) (*Val, error) {
	typ, ok := vecType(len(elems))
	if !ok {
		return nil, newErr(loc, fmt.Sprintf("shape compiler: cannot build a vector from %d elements", len(elems)))
	}
	parts := make([]string, len(elems))
	for i, el := range elems {
		n, ok := el.Num()
		if !ok {
			return nil, newErr(loc, "shape compiler: vector elements must be numbers")
		}
		parts[i] = formatFloat(n)
	}
	return &Val{Expr: e.call(typ.Name(e.Backend), parts...), Type: typ}, nil
}

func vecType(n int) (Type, bool) {
	switch n {
	case 2:
		return Vec2, true
	case 3:
		return Vec3, true
	case 4:
		return Vec4, true
	}
	return Num, false
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}

func asListValue(v value.Value) ([]value.Value, bool) {
	ref, ok := v.RefValue()
	if !ok {
		return nil, false
	}
	l, ok := ref.(*value.List)
	if !ok {
		return nil, false
	}
	return l.Elements, true
}

// call renders a target-language function-call expression, GLSL
// constructor syntax and C++ free-function syntax being identical for
// every name this package emits.
func (e *Emitter) call(name string, args ...string) string {
	s := name + "("
	for i, a := range args {
		if i > 0 {
			s += ", "
		}
		s += a
	}
	return s + ")"
}

// Compile lowers op to a Val under fr, dispatching over the restricted
// Operation subset spec.md §4.5 allows a shape's dist/colour body to use.
// Anything outside that subset (for, while, spread, amend paths, a call
// to a function SC cannot inline) is reported as a compile error rather
// than silently approximated — matching spec.md's framing of SC as
// operating over "a restricted subset of evaluated Curv functions".
func (e *Emitter) Compile(op eval.Operation, fr *SCFrame) (*Val, error) {
	if !isReactive(op, fr) {
		v, err := op.Eval(fr.Real)
		if err != nil {
			return nil, err
		}
		return e.valueToVal(v, op.Loc())
	}
	switch t := op.(type) {
	case *eval.LocalRef:
		return fr.Slots[t.Slot], nil
	case *eval.NonlocalRef:
		return fr.Nonlocal[t.Name], nil
	case *eval.CallOp:
		return e.compileCall(t, fr)
	case *eval.IndexOp:
		return e.compileIndex(t, fr)
	case *eval.ListExpr:
		return e.compileList(t, fr)
	case *eval.IfElse:
		return e.compileIfElse(t, fr)
	case *eval.LetOp:
		return e.compileLet(t, fr)
	default:
		return nil, newErr(op.Loc(), fmt.Sprintf("shape compiler: %T is not supported in a reactive shape expression", op))
	}
}

func (e *Emitter) compileList(l *eval.ListExpr, fr *SCFrame) (*Val, error) {
	vals := make([]*Val, len(l.Elements))
	for i, el := range l.Elements {
		v, err := e.Compile(el, fr)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	typ, ok := vecType(len(vals))
	if !ok {
		return nil, newErr(l.Loc(), fmt.Sprintf("shape compiler: cannot build a vector from %d elements", len(vals)))
	}
	args := make([]string, len(vals))
	for i, v := range vals {
		args[i] = v.Expr
	}
	return &Val{Expr: e.call(typ.Name(e.Backend), args...), Type: typ}, nil
}

func (e *Emitter) compileIndex(ix *eval.IndexOp, fr *SCFrame) (*Val, error) {
	obj, err := e.Compile(ix.Object, fr)
	if err != nil {
		return nil, err
	}
	if ix.Field != "" {
		swiz, ok := swizzle(ix.Field)
		if !ok {
			return nil, newErr(ix.Loc(), "shape compiler: unsupported field ."+ix.Field)
		}
		return &Val{Expr: obj.Expr + "." + swiz, Type: Num}, nil
	}
	n, err := e.Compile(ix.Elem, fr)
	if err != nil {
		return nil, err
	}
	return &Val{Expr: fmt.Sprintf("%s[int(%s)]", obj.Expr, n.Expr), Type: Num}, nil
}

func swizzle(field string) (string, bool) {
	switch field {
	case "x", "y", "z", "w":
		return field, true
	}
	return "", false
}

func (e *Emitter) compileIfElse(i *eval.IfElse, fr *SCFrame) (*Val, error) {
	cond, err := e.Compile(i.Cond, fr)
	if err != nil {
		return nil, err
	}
	then, err := e.Compile(i.Then, fr)
	if err != nil {
		return nil, err
	}
	if i.Else == nil {
		return nil, newErr(i.Loc(), "shape compiler: reactive if requires an else branch")
	}
	els, err := e.Compile(i.Else, fr)
	if err != nil {
		return nil, err
	}
	if then.Type != els.Type {
		return nil, newErr(i.Loc(), "shape compiler: if branches must produce the same type")
	}
	// Lowered to a plain ternary (spec.md §4.5's "phi-via-temporary" plan
	// collapses to this in GLSL/C++: both backends support conditional
	// expressions directly, so no temporary or control-flow statement is
	// needed).
	return &Val{Expr: "(" + cond.Expr + " ? " + then.Expr + " : " + els.Expr + ")", Type: then.Type}, nil
}

func (e *Emitter) compileLet(l *eval.LetOp, fr *SCFrame) (*Val, error) {
	child := &SCFrame{Slots: fr.Slots, Real: fr.Real, Nonlocal: make(map[string]*Val, len(fr.Nonlocal)+len(l.Fields))}
	for k, v := range fr.Nonlocal {
		child.Nonlocal[k] = v
	}
	for _, field := range l.Fields {
		if field.Lambda != nil {
			// Function-valued let bindings are inlined at their call site
			// (compileCall), not eagerly compiled here.
			continue
		}
		v, err := e.Compile(field.Expr, child)
		if err != nil {
			return nil, err
		}
		if isReactive(field.Expr, child) {
			tmp := e.newTemp()
			e.line("%s %s = %s;", v.Type.Name(e.Backend), tmp, v.Expr)
			v = &Val{Expr: tmp, Type: v.Type}
		}
		child.Nonlocal[field.Name] = v
	}
	return e.Compile(l.Body, child)
}

func (e *Emitter) compileCall(c *eval.CallOp, fr *SCFrame) (*Val, error) {
	fnVal, err := c.Func.Eval(fr.Real)
	if err != nil {
		return nil, newErr(c.Loc(), "shape compiler: cannot resolve called function: "+err.Error())
	}
	fn, ok := eval.AsFunction(fnVal)
	if !ok {
		return nil, newErr(c.Loc(), "shape compiler: called value is not a function")
	}
	switch f := fn.(type) {
	case *eval.Builtin:
		return e.compileBuiltinCall(f.Name, c, fr)
	case *eval.Closure:
		return e.compileClosureCall(f, c.Arg, fr, c.Loc())
	default:
		return nil, newErr(c.Loc(), "shape compiler: cannot inline this function")
	}
}

func (e *Emitter) compileClosureCall(cl *eval.Closure, argOp eval.Operation, fr *SCFrame, loc location.Location) (*Val, error) {
	if e.recursionGuard[cl.Lambda] {
		return nil, newErr(loc, "shape compiler: recursive calls are not supported")
	}
	ip, ok := cl.Lambda.Param.(eval.IdentifierPattern)
	if !ok {
		return nil, newErr(loc, "shape compiler: only a single identifier parameter can be inlined")
	}
	argVal, err := e.Compile(argOp, fr)
	if err != nil {
		return nil, err
	}
	e.recursionGuard[cl.Lambda] = true
	defer delete(e.recursionGuard, cl.Lambda)

	slots := make([]*Val, cl.Lambda.NSlots)
	slots[ip.Slot] = argVal
	nonlocal := map[string]*Val{}
	real := eval.NewFrame(fr.Real, loc, cl.Nonlocals, cl.Lambda.NSlots)
	real.System = fr.Real.System
	inner := &SCFrame{Slots: slots, Real: real, Nonlocal: nonlocal}
	return e.Compile(cl.Lambda.Body, inner)
}
