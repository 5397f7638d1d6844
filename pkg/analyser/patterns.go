package analyser

import (
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/phrase"
	"github.com/curv-lang/curv/pkg/value"
)

// CompilePattern compiles a pattern-position phrase into an eval.Pattern,
// allocating a Frame slot in env for every identifier it binds (spec.md
// §4.3 Pattern). env must already be the scope the bound names should live
// in — a Lambda parameter pattern gets a fresh NewLambdaEnviron, a `for`
// pattern gets a NewBlockEnviron.
func CompilePattern(env *Environ, p phrase.Phrase) (eval.Pattern, error) {
	switch n := p.(type) {
	case *phrase.Identifier:
		slot := env.Alloc(n.Name)
		return eval.IdentifierPattern{Slot: slot, Name: n.Name}, nil

	case *phrase.Wildcard:
		return eval.WildcardPattern{}, nil

	case *phrase.Numeral:
		f, err := parseNumeral(n.Text, n.Location())
		if err != nil {
			return nil, err
		}
		return eval.ConstPattern{Value: value.Num(f)}, nil

	case *phrase.String:
		op, err := compileString(env, n)
		if err != nil {
			return nil, err
		}
		cst, ok := op.(*eval.Constant)
		if !ok {
			return nil, errAt(n.Location(), "string pattern must be a literal")
		}
		return eval.ConstPattern{Value: cst.Value}, nil

	case *phrase.Paren:
		return CompilePattern(env, n.Body)

	case *phrase.List:
		return compileListPattern(env, n)

	case *phrase.Record:
		return compileRecordPattern(env, n)

	case *phrase.TypeAnnotated:
		sub, err := CompilePattern(env, n.Pattern)
		if err != nil {
			return nil, err
		}
		pred, err := compileTypePredicate(env, n.Type)
		if err != nil {
			return nil, err
		}
		return eval.TypeAnnotatedPattern{Sub: sub, Pred: pred}, nil

	case *phrase.DefaultValue:
		// Legal only inside a record pattern's field list (compileRecordPattern
		// handles it there); a bare positional `(x = dflt)` parameter default
		// is not supported by this implementation, a deliberate scope trim.
		return nil, errAt(n.Location(), "default value pattern is only legal in a record pattern field")
	}
	return nil, errAt(p.Location(), "not a valid pattern")
}

// compileTypePredicate resolves a `:: Type` annotation's Type phrase to a
// Function value at analysis time: the predicate must be a compile-time
// constant (almost always a builtin like is_num), since eval.Pattern has
// no way to defer evaluating it per-match. This is a documented
// simplification relative to libcurv, which permits arbitrary predicate
// expressions.
func compileTypePredicate(env *Environ, typePhrase phrase.Phrase) (eval.Function, error) {
	op, err := Analyse(env, typePhrase)
	if err != nil {
		return nil, err
	}
	cst, ok := op.(*eval.Constant)
	if !ok {
		return nil, errAt(typePhrase.Location(), "type predicate must be a compile-time constant function")
	}
	pred, ok := eval.AsFunction(cst.Value)
	if !ok {
		return nil, errAt(typePhrase.Location(), "type predicate must be a function")
	}
	return pred, nil
}

func compileListPattern(env *Environ, n *phrase.List) (eval.Pattern, error) {
	elems := flattenBody(n.Body)
	pats := make([]eval.Pattern, len(elems))
	for i, e := range elems {
		pat, err := CompilePattern(env, e)
		if err != nil {
			return nil, err
		}
		pats[i] = pat
	}
	return eval.ListPattern{Elements: pats}, nil
}

func compileRecordPattern(env *Environ, n *phrase.Record) (eval.Pattern, error) {
	elems := flattenBody(n.Body)
	fields := make([]eval.RecordPatternField, 0, len(elems))
	for _, e := range elems {
		switch f := e.(type) {
		case *phrase.Identifier:
			slot := env.Alloc(f.Name)
			fields = append(fields, eval.RecordPatternField{
				Name: f.Name, Sub: eval.IdentifierPattern{Slot: slot, Name: f.Name},
			})

		case *phrase.DefaultValue:
			id, ok := f.Pattern.(*phrase.Identifier)
			if !ok {
				return nil, errAt(f.Location(), "record pattern default must name a field")
			}
			slot := env.Alloc(id.Name)
			defExpr, err := Analyse(env, f.Value)
			if err != nil {
				return nil, err
			}
			fields = append(fields, eval.RecordPatternField{
				Name: id.Name, Sub: eval.IdentifierPattern{Slot: slot, Name: id.Name}, Default: defExpr,
			})

		case *phrase.TypeAnnotated:
			id, ok := f.Pattern.(*phrase.Identifier)
			if !ok {
				return nil, errAt(f.Location(), "record pattern field must name an identifier")
			}
			sub, err := CompilePattern(env, f)
			if err != nil {
				return nil, err
			}
			fields = append(fields, eval.RecordPatternField{Name: id.Name, Sub: sub})

		default:
			return nil, errAt(e.Location(), "unsupported record pattern field")
		}
	}
	return eval.RecordPattern{Fields: fields}, nil
}
