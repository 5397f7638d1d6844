package analyser

import (
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/phrase"
	"github.com/curv-lang/curv/pkg/value"
)

// flattenBody normalises the three shapes a `;`/`,`-delimited body phrase
// can take (spec.md §4.2 grammar: Empty, a single phrase, or a Comma/
// Semicolon list) into a flat slice, in source order.
func flattenBody(body phrase.Phrase) []phrase.Phrase {
	switch n := body.(type) {
	case *phrase.Empty:
		return nil
	case *phrase.SemicolonList:
		return n.Elements
	case *phrase.CommaList:
		return n.Elements
	default:
		return []phrase.Phrase{body}
	}
}

// fieldDef is a Definition phrase after shorthand desugaring, still holding
// unanalysed sub-phrases; built during compileFieldDefs' first pass so that
// every field's name is declared (for mutual recursion) before any field's
// value is analysed.
type fieldDef struct {
	name         string
	isLambda     bool // true for `f x = expr` function-definition shorthand
	lambdaParams phrase.Phrase
	valueBody    phrase.Phrase
	loc          location.Location
}

// desugarDefinition recognises `name = expr` and the `name arg = expr`
// function-shorthand (spec.md §4.3's Definition, generalised the same way
// `original_source/curv/definition.cc` desugars Function_Definition_Expr).
// Multi-clause piecewise shorthand (`f 0 = ...; f n = ...`) is out of scope
// here; only a single function-shorthand clause per name is supported.
func desugarDefinition(p phrase.Phrase) (*fieldDef, bool, error) {
	def, ok := p.(*phrase.Definition)
	if !ok {
		return nil, false, nil
	}
	switch t := def.Target.(type) {
	case *phrase.Identifier:
		return &fieldDef{name: t.Name, valueBody: def.Value, loc: def.Location()}, true, nil
	case *phrase.Call:
		id, ok := t.Func.(*phrase.Identifier)
		if !ok {
			return nil, false, errAt(t.Location(), "function definition must name a function")
		}
		return &fieldDef{
			name: id.Name, isLambda: true, lambdaParams: t.Arg, valueBody: def.Value, loc: def.Location(),
		}, true, nil
	default:
		return nil, false, errAt(def.Location(), "unsupported definition target")
	}
}

// fieldSlot is one module-scope slot, either an already-resolved field
// spliced in by `include` or a pending definition still to be built once
// every sibling name has been declared.
type fieldSlot struct {
	name     string
	resolved *eval.ModuleField
	pend     *fieldDef
}

// compileFieldDefs compiles a module/let body into its lazily-evaluated
// fields (spec.md §3 Module) plus any trailing non-definition elements
// (spec.md §4.3 "a module literal may end in a sequence of list-literal
// elements", e.g. `{x=1; 2; 3}`). Every definition's name is declared in
// menv before any definition's value is analysed, so fields may refer to
// each other regardless of source order (newFieldFrame gives this the
// correct lazy-recursive runtime behaviour).
func compileFieldDefs(menv *Environ, body phrase.Phrase) ([]eval.ModuleField, []eval.Operation, error) {
	phrases := flattenBody(body)
	var slots []fieldSlot
	var elemPhrases []phrase.Phrase

	for _, p := range phrases {
		switch t := p.(type) {
		case *phrase.Empty:
			continue
		case *phrase.Include:
			incFields, err := compileIncludeFields(menv, t.Location(), t.Arg)
			if err != nil {
				return nil, nil, err
			}
			for _, fl := range incFields {
				idx := len(slots)
				menv.Declare(fl.Name, idx)
				fl := fl
				fl.Slot = idx
				slots = append(slots, fieldSlot{name: fl.Name, resolved: &fl})
			}
		default:
			fd, ok, err := desugarDefinition(p)
			if err != nil {
				return nil, nil, err
			}
			if ok {
				idx := len(slots)
				menv.Declare(fd.name, idx)
				slots = append(slots, fieldSlot{name: fd.name, pend: fd})
				continue
			}
			elemPhrases = append(elemPhrases, p)
		}
	}

	fields := make([]eval.ModuleField, len(slots))
	for i, s := range slots {
		if s.resolved != nil {
			fields[i] = *s.resolved
			continue
		}
		fd := s.pend
		if fd.isLambda {
			lam, err := compileLambda(menv, fd.loc, fd.name, fd.lambdaParams, fd.valueBody)
			if err != nil {
				return nil, nil, err
			}
			fields[i] = eval.ModuleField{Name: fd.name, Slot: i, Lambda: lam}
			continue
		}
		if lamP, isLambda := phrase.Nub(fd.valueBody).(*phrase.Lambda); isLambda {
			lam, err := compileLambda(menv, fd.loc, fd.name, lamP.Params, lamP.Body)
			if err != nil {
				return nil, nil, err
			}
			fields[i] = eval.ModuleField{Name: fd.name, Slot: i, Lambda: lam}
			continue
		}
		op, err := Analyse(menv, fd.valueBody)
		if err != nil {
			return nil, nil, err
		}
		fields[i] = eval.ModuleField{Name: fd.name, Slot: i, Expr: op}
	}

	elements := make([]eval.Operation, 0, len(elemPhrases))
	for _, e := range elemPhrases {
		op, err := Analyse(menv, e)
		if err != nil {
			return nil, nil, err
		}
		elements = append(elements, op)
	}
	return fields, elements, nil
}

func compileModuleLiteral(env *Environ, loc location.Location, body phrase.Phrase) (eval.Operation, error) {
	menv := NewModuleEnviron(env, nil)
	fields, elements, err := compileFieldDefs(menv, body)
	if err != nil {
		return nil, err
	}
	return eval.NewModuleExpr(loc, fields, elements, menv.NSlots()), nil
}

// compileLet handles both `let Defs in Body` and `Body where Defs`: Defs
// get the same lazy recursive-scope treatment as a module literal's
// fields, but the resulting Module never escapes — only Body sees it
// (spec.md §4.3 Let; see eval.LetOp).
func compileLet(env *Environ, loc location.Location, defsPhrase, bodyPhrase phrase.Phrase) (eval.Operation, error) {
	menv := NewModuleEnviron(env, nil)
	fields, elements, err := compileFieldDefs(menv, defsPhrase)
	if err != nil {
		return nil, err
	}
	if len(elements) > 0 {
		return nil, errAt(defsPhrase.Location(), "let/where bindings must be definitions")
	}
	bodyOp, err := Analyse(menv, bodyPhrase)
	if err != nil {
		return nil, err
	}
	return eval.NewLetOp(loc, fields, menv.NSlots(), bodyOp), nil
}

// compileIncludeFields resolves `include path` into the fields it splices
// into the enclosing module/let scope (spec.md §6 System importers). The
// imported value is folded into a single eval.Constant and each of its
// field names becomes `imported.name` via eval.NewFieldIndex, rather than
// inventing a new Operation kind for "read from a constant record" — this
// requires the include path to be a compile-time-constant string literal,
// a documented simplification relative to libcurv's more general include
// mechanism.
func compileIncludeFields(menv *Environ, loc location.Location, arg phrase.Phrase) ([]eval.ModuleField, error) {
	path, ok := literalString(arg)
	if !ok {
		return nil, errAt(loc, "include: argument must be a literal string path")
	}
	if menv.Root == nil || menv.Root.Include == nil {
		return nil, errAt(loc, "include: no importer configured")
	}
	imported, err := menv.Root.Include(path, loc)
	if err != nil {
		return nil, err
	}
	ref, ok := imported.RefValue()
	if !ok {
		return nil, errAt(loc, "include: imported value is not a record or module")
	}
	var names []string
	switch r := ref.(type) {
	case *value.Record:
		names = r.Keys()
	case *eval.Module:
		names = r.FieldNames
	default:
		return nil, errAt(loc, "include: imported value is not a record or module")
	}
	base := eval.NewConstant(loc, imported)
	fields := make([]eval.ModuleField, len(names))
	for i, name := range names {
		fields[i] = eval.ModuleField{Name: name, Expr: eval.NewFieldIndex(loc, base, name)}
	}
	return fields, nil
}
