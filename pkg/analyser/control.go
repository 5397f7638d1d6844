package analyser

import (
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/phrase"
)

// compileListBody compiles a `[ ... ]` list literal's body into a ListExpr,
// analysing each element in place so generator elements (for/while/if/
// spread) keep their Generate behaviour (spec.md §4.3/§4.4).
func compileListBody(env *Environ, loc location.Location, body phrase.Phrase) (eval.Operation, error) {
	elems := flattenBody(body)
	ops := make([]eval.Operation, 0, len(elems))
	for _, e := range elems {
		if _, ok := e.(*phrase.Empty); ok {
			continue
		}
		op, err := Analyse(env, e)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return eval.NewListExpr(loc, ops), nil
}

// compileIf compiles `if (Cond) Then [else Else]` directly into
// eval.IfElse. `if` is analysed as direct grammar, not as a generic
// metafunction dispatched through the builtin namespace: spec.md's
// GLOSSARY describes `if` as a metafunction conceptually, but nothing in
// the language requires that to be a literal implementation indirection,
// and a direct case lets the evaluator give reactive conditions their own
// diagnostic (see eval.IfElse.branch).
func compileIf(env *Environ, loc location.Location, n *phrase.If) (eval.Operation, error) {
	cond, err := Analyse(env, n.Cond)
	if err != nil {
		return nil, err
	}
	thenOp, err := Analyse(NewBlockEnviron(env), n.Then)
	if err != nil {
		return nil, err
	}
	var elseOp eval.Operation
	if _, empty := n.Else.(*phrase.Empty); !empty {
		elseOp, err = Analyse(NewBlockEnviron(env), n.Else)
		if err != nil {
			return nil, err
		}
	}
	return eval.NewIfElse(loc, cond, thenOp, elseOp), nil
}

// compileDo compiles `do Actions in Body` into an eval.Block: Actions run
// for effect only, Body supplies the value (spec.md §4.3 Do).
func compileDo(env *Environ, loc location.Location, n *phrase.Do) (eval.Operation, error) {
	benv := NewBlockEnviron(env)
	actionPhrases := flattenBody(n.Actions)
	actions := make([]eval.Operation, 0, len(actionPhrases))
	for _, p := range actionPhrases {
		if _, ok := p.(*phrase.Empty); ok {
			continue
		}
		op, err := Analyse(benv, p)
		if err != nil {
			return nil, err
		}
		actions = append(actions, op)
	}
	body, err := Analyse(benv, n.Body)
	if err != nil {
		return nil, err
	}
	return eval.NewBlock(loc, actions, body), nil
}

// compileFor compiles `for (Pattern in Seq) Body` (spec.md §4.3 For): Seq
// is analysed in the enclosing scope, Pattern and Body in a fresh block
// scope so the loop variable doesn't leak.
func compileFor(env *Environ, loc location.Location, n *phrase.For) (eval.Operation, error) {
	seq, err := Analyse(env, n.Seq)
	if err != nil {
		return nil, err
	}
	benv := NewBlockEnviron(env)
	pat, err := CompilePattern(benv, n.Pattern)
	if err != nil {
		return nil, err
	}
	body, err := Analyse(benv, n.Body)
	if err != nil {
		return nil, err
	}
	return eval.NewForGen(loc, pat, n.Pattern.Location(), seq, body), nil
}

// compileLambda compiles a lambda's parameter pattern and body into an
// eval.Lambda template. name is empty for an anonymous lambda expression,
// or the field name being defined for `f x = expr` shorthand (purely
// informational, used in stack traces).
func compileLambda(env *Environ, loc location.Location, name string, params, body phrase.Phrase) (*eval.Lambda, error) {
	lenv := NewLambdaEnviron(env)
	pat, err := CompilePattern(lenv, params)
	if err != nil {
		return nil, err
	}
	bodyOp, err := Analyse(lenv, body)
	if err != nil {
		return nil, err
	}
	return &eval.Lambda{
		Name: name, Param: pat, Body: bodyOp, NSlots: lenv.NSlots(), ParamLoc: params.Location(),
	}, nil
}

// lookupLocalSlot resolves name to a Frame slot only if it is a local
// binding reachable without crossing into an enclosing module's field
// scope (module fields are read-only from outside their own lazy
// evaluation and are never Assignment targets, spec.md §3 Non-goals:
// "mutation of already-evaluated data structures").
func lookupLocalSlot(env *Environ, name string) (int, bool) {
	for e := env; e != nil; e = e.Parent {
		if slot, ok := e.Names[name]; ok {
			if e.Kind != kindLocal {
				return 0, false
			}
			return slot, true
		}
	}
	return 0, false
}

// compileAssignment compiles `Target := Value` (spec.md §3 Non-goals note:
// rebinding a local slot is distinct from mutating a value, and is how
// `while` loop counters advance).
func compileAssignment(env *Environ, loc location.Location, n *phrase.Assignment) (eval.Operation, error) {
	id, ok := n.Target.(*phrase.Identifier)
	if !ok {
		return nil, errAt(n.Target.Location(), "assignment target must be a local name")
	}
	slot, ok := lookupLocalSlot(env, id.Name)
	if !ok {
		return nil, errAt(n.Target.Location(), "'"+id.Name+"' is not an assignable local")
	}
	expr, err := Analyse(env, n.Value)
	if err != nil {
		return nil, err
	}
	return eval.NewAssignment(loc, slot, id.Name, expr), nil
}
