package analyser

import (
	"github.com/curv-lang/curv/pkg/diag"
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/phrase"
	"github.com/curv-lang/curv/pkg/value"
)

func errAt(loc location.Location, msg string) error {
	return diag.New(msg).At(diag.AtPhrase{Loc: loc})
}

// binaryBuiltin maps an infix operator spelling to the root-namespace
// function name the analyser compiles it into, spec.md §4.3's "primitive
// Operations (add, multiply, dot, ...) are analyser-time specialisations
// of ordinary calls to well-known builtins".
var binaryBuiltin = map[string]string{
	"+": "add", "-": "sub", "*": "mul", "/": "div", "^": "pow",
	"==": "equal", "!=": "not_equal",
	"<": "lt", "<=": "le", ">": "gt", ">=": "ge",
	"&&": "and", "||": "or",
}

var unaryBuiltin = map[string]string{
	"-": "neg", "+": "pos", "!": "not",
}

// Analyse compiles a phrase.Phrase into an eval.Operation within env's
// scope (spec.md §4.3).
func Analyse(env *Environ, p phrase.Phrase) (eval.Operation, error) {
	loc := p.Location()
	switch n := p.(type) {
	case *phrase.Empty:
		return eval.NewConstant(loc, value.Null), nil

	case *phrase.Identifier:
		op := env.Lookup(n.Name, loc)
		if op == nil {
			return nil, errAt(loc, "'"+n.Name+"' is not defined")
		}
		return op, nil

	case *phrase.Wildcard:
		return nil, errAt(loc, "'_' is not a value")

	case *phrase.Numeral:
		f, err := parseNumeral(n.Text, loc)
		if err != nil {
			return nil, err
		}
		return eval.NewConstant(loc, value.Num(f)), nil

	case *phrase.String:
		return compileString(env, n)

	case *phrase.Unary:
		name, ok := unaryBuiltin[n.Op]
		if !ok {
			return nil, errAt(loc, "unknown unary operator "+n.Op)
		}
		arg, err := Analyse(env, n.Arg)
		if err != nil {
			return nil, err
		}
		fn := env.Lookup(name, loc)
		if fn == nil {
			return nil, errAt(loc, "builtin '"+name+"' is not defined")
		}
		return eval.NewCallOp(loc, fn, arg), nil

	case *phrase.Binary:
		if n.Op == ".." {
			lo, err := Analyse(env, n.Left)
			if err != nil {
				return nil, err
			}
			hi, err := Analyse(env, n.Right)
			if err != nil {
				return nil, err
			}
			return eval.NewRangeExpr(loc, lo, hi), nil
		}
		name, ok := binaryBuiltin[n.Op]
		if !ok {
			return nil, errAt(loc, "unknown binary operator "+n.Op)
		}
		left, err := Analyse(env, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := Analyse(env, n.Right)
		if err != nil {
			return nil, err
		}
		fn := env.Lookup(name, loc)
		if fn == nil {
			return nil, errAt(loc, "builtin '"+name+"' is not defined")
		}
		return eval.NewCallOp(loc, fn, eval.NewListExpr(loc, []eval.Operation{left, right})), nil

	case *phrase.Call:
		fn, err := Analyse(env, n.Func)
		if err != nil {
			return nil, err
		}
		arg, err := Analyse(env, n.Arg)
		if err != nil {
			return nil, err
		}
		return eval.NewCallOp(loc, fn, arg), nil

	case *phrase.Index:
		obj, err := Analyse(env, n.Base)
		if err != nil {
			return nil, err
		}
		if n.Dot {
			id, ok := n.Index.(*phrase.Identifier)
			if !ok {
				return nil, errAt(n.Index.Location(), "field name must be an identifier")
			}
			return eval.NewFieldIndex(loc, obj, id.Name), nil
		}
		idx, err := Analyse(env, n.Index)
		if err != nil {
			return nil, err
		}
		return eval.NewElemIndex(loc, obj, idx), nil

	case *phrase.Paren:
		return Analyse(env, n.Body)

	case *phrase.List:
		return compileListBody(env, loc, n.Body)

	case *phrase.Record:
		return compileModuleLiteral(env, loc, n.Body)

	case *phrase.Spread:
		arg, err := Analyse(env, n.Arg)
		if err != nil {
			return nil, err
		}
		return eval.NewSpread(loc, arg), nil

	case *phrase.If:
		return compileIf(env, loc, n)

	case *phrase.Let:
		return compileLet(env, loc, n.Defs, n.Body)

	case *phrase.Where:
		return compileLet(env, loc, n.Defs, n.Body)

	case *phrase.Do:
		return compileDo(env, loc, n)

	case *phrase.For:
		return compileFor(env, loc, n)

	case *phrase.While:
		cond, err := Analyse(env, n.Cond)
		if err != nil {
			return nil, err
		}
		body, err := Analyse(NewBlockEnviron(env), n.Body)
		if err != nil {
			return nil, err
		}
		return eval.NewWhileGen(loc, cond, body), nil

	case *phrase.Lambda:
		lam, err := compileLambda(env, loc, "", n.Params, n.Body)
		if err != nil {
			return nil, err
		}
		return eval.NewLambdaExpr(loc, lam), nil

	case *phrase.Parametric:
		// A parametric shape's Params behave exactly like a `let`'s Defs
		// (each picker is a binding visible to Body), spec.md §4.6
		// parametric shape pickers; picker-specific semantics (the
		// slider/checkbox/colour UI metadata) are pkg/shape's concern, not
		// the analyser's.
		return compileLet(env, loc, n.Params, n.Body)

	case *phrase.Include:
		return nil, errAt(loc, "include is only legal in a let/where/record body")

	case *phrase.SemicolonList:
		return compileModuleLiteral(env, loc, n)

	case *phrase.CommaList:
		// A bare comma list only arises inside tuple-parens, e.g. `f(x,y)`'s
		// argument: it evaluates to a List value, the same way a
		// positional-argument tuple destructures against a list pattern.
		return compileListBody(env, loc, n)

	case *phrase.Program:
		return Analyse(env, n.Body)

	case *phrase.Assignment:
		return compileAssignment(env, loc, n)

	case *phrase.Definition:
		return nil, errAt(loc, "definition is only legal in a let/where/record body")
	}
	return nil, errAt(loc, "cannot analyse this phrase")
}
