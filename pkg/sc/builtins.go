package sc

import (
	"fmt"

	"github.com/curv-lang/curv/pkg/eval"
)

var binaryOperator = map[string]string{
	"add": "+", "sub": "-", "mul": "*", "div": "/",
	"lt": "<", "le": "<=", "gt": ">", "ge": ">=",
	"equal": "==", "not_equal": "!=",
	"and": "&&", "or": "||",
}

var binaryFunc = map[string]string{
	"pow": "pow", "min": "min", "max": "max", "dot": "dot",
}

var unaryFunc = map[string]string{
	"sqrt": "sqrt", "abs": "abs", "floor": "floor", "ceil": "ceil",
	"sin": "sin", "cos": "cos", "tan": "tan", "log": "log", "exp": "exp",
	"mag": "length",
}

// compileBuiltinCall lowers a call to one of pkg/builtin's arithmetic
// primitives into the matching GLSL/C++ operator or library function. The
// binary primitives all share the 2-element-list calling convention
// (pkg/builtin/arithmetic.go), so c.Arg here is always a *eval.ListExpr of
// exactly two elements for anything in binaryOperator/binaryFunc.
func (e *Emitter) compileBuiltinCall(name string, c *eval.CallOp, fr *SCFrame) (*Val, error) {
	switch name {
	case "neg":
		v, err := e.Compile(c.Arg, fr)
		if err != nil {
			return nil, err
		}
		return &Val{Expr: "(-" + v.Expr + ")", Type: v.Type}, nil
	case "pos":
		return e.Compile(c.Arg, fr)
	case "not":
		v, err := e.Compile(c.Arg, fr)
		if err != nil {
			return nil, err
		}
		return &Val{Expr: "(!" + v.Expr + ")", Type: Bool}, nil
	}
	if fname, ok := unaryFunc[name]; ok {
		v, err := e.Compile(c.Arg, fr)
		if err != nil {
			return nil, err
		}
		rt := v.Type
		if name == "mag" {
			rt = Num
		}
		return &Val{Expr: e.call(fname, v.Expr), Type: rt}, nil
	}

	a, b, err := e.binaryOperands(c, fr)
	if err != nil {
		return nil, err
	}
	if op, ok := binaryOperator[name]; ok {
		rt := resultType(name, a.Type, b.Type)
		return &Val{Expr: "(" + a.Expr + " " + op + " " + b.Expr + ")", Type: rt}, nil
	}
	if fname, ok := binaryFunc[name]; ok {
		rt := a.Type
		if name == "dot" {
			rt = Num
		}
		return &Val{Expr: e.call(fname, a.Expr, b.Expr), Type: rt}, nil
	}
	return nil, newErr(c.Loc(), fmt.Sprintf("shape compiler: builtin %q cannot appear in a reactive shape expression", name))
}

func (e *Emitter) binaryOperands(c *eval.CallOp, fr *SCFrame) (*Val, *Val, error) {
	list, ok := c.Arg.(*eval.ListExpr)
	if !ok || len(list.Elements) != 2 {
		return nil, nil, newErr(c.Loc(), "shape compiler: expected a 2-element argument list")
	}
	a, err := e.Compile(list.Elements[0], fr)
	if err != nil {
		return nil, nil, err
	}
	b, err := e.Compile(list.Elements[1], fr)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// resultType mirrors pkg/builtin's scalar-broadcast rule at compile time:
// comparison/logical operators always yield Bool; a vector operand wins
// over a scalar one (`vec3 * float` and `float * vec3` both type as
// vec3), matching GLSL's own operator overloads.
func resultType(name string, a, b Type) Type {
	switch name {
	case "lt", "le", "gt", "ge", "equal", "not_equal", "and", "or":
		return Bool
	}
	if a != Num {
		return a
	}
	return b
}
