package eval

import (
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

// ---- IfElse ----

// IfElse is Curv's conditional (spec.md §4.3 If). A reactive condition
// cannot be resolved by the tree-walking evaluator — symbolic branching is
// the shape compiler's job (pkg/sc's compileIfElse lowers an eval.IfElse
// to a GLSL/C++ ternary); the evaluator reports it as an error instead of
// guessing a branch.
type IfElse struct {
	base
	Cond Operation
	Then Operation
	Else Operation // nil: no else-branch, legal only in action/generator position
}

func NewIfElse(loc location.Location, cond, then, els Operation) *IfElse {
	pure := cond.Pure() && then.Pure() && (els == nil || els.Pure())
	return &IfElse{base: base{L: loc, IsPure: pure}, Cond: cond, Then: then, Else: els}
}

func (i *IfElse) branch(f *Frame) (Operation, error) {
	condVal, err := i.Cond.Eval(f)
	if err != nil {
		return nil, err
	}
	b, ok := condVal.Bool()
	if !ok {
		if _, isReactive := AsReactive(condVal); isReactive {
			return nil, newException(i.L, "if: reactive condition cannot be resolved outside the shape compiler")
		}
		return nil, newException(i.L, "if: condition must be a boolean")
	}
	if b {
		return i.Then, nil
	}
	return i.Else, nil
}

func (i *IfElse) Eval(f *Frame) (value.Value, error) {
	branch, err := i.branch(f)
	if err != nil {
		return value.Value{}, err
	}
	if branch == nil {
		return value.Null, nil
	}
	return branch.Eval(f)
}

func (i *IfElse) Generate(f *Frame, out *ListBuilder) error {
	branch, err := i.branch(f)
	if err != nil {
		return err
	}
	if branch == nil {
		return nil
	}
	return generateInto(branch, f, out)
}

func (i *IfElse) Exec(f *Frame) error {
	branch, err := i.branch(f)
	if err != nil {
		return err
	}
	if branch == nil {
		return nil
	}
	return execOp(branch, f)
}


// ---- LetOp ----

// LetOp implements `let Defs in Body` (spec.md §4.3 Let) as a local,
// unexported instance of Curv's lazy recursive scope: Defs may refer to
// each other in any order, same as module fields, but the resulting
// bindings are visible only to Body, never escaping as a value of their
// own (compare ModuleExpr, which is the exported/value-producing form of
// the identical mechanism — see newFieldFrame).
type LetOp struct {
	base
	Fields []ModuleField
	NSlots int
	Body   Operation
}

func NewLetOp(loc location.Location, fields []ModuleField, nslots int, body Operation) *LetOp {
	return &LetOp{base: base{L: loc, IsPure: false}, Fields: fields, NSlots: nslots, Body: body}
}

func (l *LetOp) Eval(f *Frame) (value.Value, error) {
	return l.Body.Eval(newFieldFrame(f, l.Fields, l.NSlots))
}

func (l *LetOp) Generate(f *Frame, out *ListBuilder) error {
	return generateInto(l.Body, newFieldFrame(f, l.Fields, l.NSlots), out)
}

func (l *LetOp) Exec(f *Frame) error {
	return execOp(l.Body, newFieldFrame(f, l.Fields, l.NSlots))
}

// ---- Assignment ----

// Assignment implements `local x := expr`, the one mutation Curv allows:
// rebinding a local slot already introduced by an enclosing pattern (a
// lambda parameter or `for` variable; `let`/`where` bindings are module
// fields and are not assignable, see pkg/analyser's lookupLocalSlot)
// (spec.md §3 Non-goals: "mutation of already-evaluated data structures"
// is excluded, but rebinding a slot to a brand new value is not the same
// thing and is how `while` loop counters work).
type Assignment struct {
	base
	Slot int
	Name string
	Expr Operation
}

func NewAssignment(loc location.Location, slot int, name string, expr Operation) *Assignment {
	return &Assignment{base: base{L: loc, IsPure: expr.Pure()}, Slot: slot, Name: name, Expr: expr}
}

func (a *Assignment) Exec(f *Frame) error {
	v, err := a.Expr.Eval(f)
	if err != nil {
		return err
	}
	f.Slots[a.Slot] = v
	return nil
}

func (a *Assignment) Eval(f *Frame) (value.Value, error) {
	if err := a.Exec(f); err != nil {
		return value.Value{}, err
	}
	return value.Null, nil
}

// ---- ForGen ----

// ForGen implements `for (pattern in seq) body`, both as a plain action
// (discard each body result) and as a generator (emit each body result
// into the enclosing list literal), spec.md §4.3 For.
type ForGen struct {
	base
	Pattern Pattern
	PLoc    location.Location
	Seq     Operation
	Body    Operation
}

func NewForGen(loc location.Location, pat Pattern, pLoc location.Location, seq, body Operation) *ForGen {
	return &ForGen{base: base{L: loc, IsPure: seq.Pure() && body.Pure()}, Pattern: pat, PLoc: pLoc, Seq: seq, Body: body}
}

func (fg *ForGen) elements(f *Frame) ([]value.Value, error) {
	seqVal, err := fg.Seq.Eval(f)
	if err != nil {
		return nil, err
	}
	ref, ok := seqVal.RefValue()
	if !ok {
		return nil, newException(fg.Seq.Loc(), "for: not a list")
	}
	list, ok := ref.(*value.List)
	if !ok {
		return nil, newException(fg.Seq.Loc(), "for: not a list")
	}
	return list.Elements, nil
}

func (fg *ForGen) loop(f *Frame, each func() error) error {
	elems, err := fg.elements(f)
	if err != nil {
		return err
	}
	for _, e := range elems {
		if err := fg.Pattern.Exec(f, e, fg.PLoc, f); err != nil {
			return err
		}
		if err := each(); err != nil {
			return err
		}
	}
	return nil
}

func (fg *ForGen) Eval(f *Frame) (value.Value, error) {
	err := fg.loop(f, func() error { return execOp(fg.Body, f) })
	return value.Null, err
}

func (fg *ForGen) Exec(f *Frame) error {
	return fg.loop(f, func() error { return execOp(fg.Body, f) })
}

func (fg *ForGen) Generate(f *Frame, out *ListBuilder) error {
	return fg.loop(f, func() error { return generateInto(fg.Body, f, out) })
}

// ---- WhileGen ----

// WhileGen implements `while (cond) body` (spec.md §4.3 While). Curv's
// while loops exist for their generator/action side effects (building a
// list, advancing an assignment) since the loop itself produces no value.
type WhileGen struct {
	base
	Cond Operation
	Body Operation
}

func NewWhileGen(loc location.Location, cond, body Operation) *WhileGen {
	return &WhileGen{base: base{L: loc, IsPure: false}, Cond: cond, Body: body}
}

func (w *WhileGen) test(f *Frame) (bool, error) {
	v, err := w.Cond.Eval(f)
	if err != nil {
		return false, err
	}
	b, ok := v.Bool()
	if !ok {
		return false, newException(w.Cond.Loc(), "while: condition must be a boolean")
	}
	return b, nil
}

func (w *WhileGen) Eval(f *Frame) (value.Value, error) {
	for {
		if f.Interrupted() {
			return value.Value{}, newException(w.L, "interrupted")
		}
		ok, err := w.test(f)
		if err != nil {
			return value.Value{}, err
		}
		if !ok {
			return value.Null, nil
		}
		if err := execOp(w.Body, f); err != nil {
			return value.Value{}, err
		}
	}
}

func (w *WhileGen) Exec(f *Frame) error {
	_, err := w.Eval(f)
	return err
}

func (w *WhileGen) Generate(f *Frame, out *ListBuilder) error {
	for {
		if f.Interrupted() {
			return newException(w.L, "interrupted")
		}
		ok, err := w.test(f)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := generateInto(w.Body, f, out); err != nil {
			return err
		}
	}
}

// ---- Spread ----

// Spread implements `...expr` inside a list literal: expr must evaluate
// to a List, whose elements are spliced in (spec.md §4.3 Spread).
type Spread struct {
	base
	Arg Operation
}

func NewSpread(loc location.Location, arg Operation) *Spread {
	return &Spread{base: base{L: loc, IsPure: arg.Pure()}, Arg: arg}
}

func (s *Spread) Eval(f *Frame) (value.Value, error) {
	out := NewListBuilder()
	if err := s.Generate(f, out); err != nil {
		return value.Value{}, err
	}
	return value.Ref(value.NewList(out.Elements)), nil
}

func (s *Spread) Generate(f *Frame, out *ListBuilder) error {
	v, err := s.Arg.Eval(f)
	if err != nil {
		return err
	}
	ref, ok := v.RefValue()
	if !ok {
		return newException(s.L, "...: not a list")
	}
	list, ok := ref.(*value.List)
	if !ok {
		return newException(s.L, "...: not a list")
	}
	for _, e := range list.Elements {
		if err := out.Emit(e); err != nil {
			return err
		}
	}
	return nil
}

// ---- RangeExpr ----

// RangeExpr implements `lo..hi`, eagerly expanded to a List of numerals
// (spec.md §8 scenario: `for (i in 1..3) i*i`). libcurv's range is lazy
// and supports a `by` step and open/half-open variants; this subset
// covers the inclusive integer range the spec's testable property needs
// and is a deliberate simplification, recorded in DESIGN.md.
type RangeExpr struct {
	base
	Lo, Hi Operation
}

func NewRangeExpr(loc location.Location, lo, hi Operation) *RangeExpr {
	return &RangeExpr{base: base{L: loc, IsPure: lo.Pure() && hi.Pure()}, Lo: lo, Hi: hi}
}

func (r *RangeExpr) Eval(f *Frame) (value.Value, error) {
	loVal, err := r.Lo.Eval(f)
	if err != nil {
		return value.Value{}, err
	}
	hiVal, err := r.Hi.Eval(f)
	if err != nil {
		return value.Value{}, err
	}
	lo, ok := loVal.Num()
	if !ok {
		return value.Value{}, newException(r.Lo.Loc(), "..: not a number")
	}
	hi, ok := hiVal.Num()
	if !ok {
		return value.Value{}, newException(r.Hi.Loc(), "..: not a number")
	}
	var elems []value.Value
	for n := lo; n <= hi; n++ {
		elems = append(elems, value.Num(n))
	}
	return value.Ref(value.NewList(elems)), nil
}
