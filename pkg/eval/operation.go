package eval

import (
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

// Operation is the base of Curv's Meaning IR (spec.md §3 Meaning,
// Operation). Every expression, statement and generator the analyser
// produces implements it. Eval is defined for every Operation because even
// action-only nodes (Assignment, a bare Do statement) are legal as the
// final expression of a sequence in Curv's expression-oriented grammar;
// for those, Eval returns value.Null.
type Operation interface {
	Loc() location.Location
	// Pure reports whether this Operation reads only its arguments/locals,
	// never the nonlocal System (spec.md §3's purity flag, §9's "purity
	// flag on Operations" design note, required for Reactive values).
	Pure() bool
	Eval(f *Frame) (value.Value, error)
}

// Generator is implemented by Operations that can appear in a list-literal
// generator position (spec.md §4.4 "for"/"while"/conditional generators,
// and spread). Plain expression Operations don't need to implement this;
// generateInto below falls back to a single Eval+Emit for them.
type Generator interface {
	Operation
	Generate(f *Frame, out *ListBuilder) error
}

// Action is implemented by Operations with an effect but no useful value
// (Assignment, a `local x := ...` write). execOp falls back to a plain Eval
// for anything that isn't one.
type Action interface {
	Operation
	Exec(f *Frame) error
}

type base struct {
	L    location.Location
	IsPure bool
}

func (b base) Loc() location.Location { return b.L }
func (b base) Pure() bool             { return b.IsPure }

// ---- Constant ----

// Constant is a literal Value baked in at analysis time (numerals,
// strings, booleans, and, per spec.md §4.3, compile-time-foldable
// subexpressions).
type Constant struct {
	base
	Value value.Value
}

func NewConstant(loc location.Location, v value.Value) *Constant {
	return &Constant{base: base{L: loc, IsPure: true}, Value: v}
}

func (c *Constant) Eval(*Frame) (value.Value, error) { return c.Value, nil }

func (c *Constant) Generate(f *Frame, out *ListBuilder) error {
	return out.Emit(c.Value)
}

// ---- LocalRef ----

// LocalRef reads a slot in the current Frame (spec.md §4.3 slot
// allocation; a `let`/parameter/local binding).
type LocalRef struct {
	base
	Slot int
	Name string
}

func NewLocalRef(loc location.Location, slot int, name string) *LocalRef {
	return &LocalRef{base: base{L: loc, IsPure: true}, Slot: slot, Name: name}
}

func (r *LocalRef) Eval(f *Frame) (value.Value, error) {
	v := f.Slots[r.Slot]
	if v.IsNull() {
		return value.Value{}, newException(r.L, "'"+r.Name+"' is used before it is defined")
	}
	return v, nil
}

// ---- NonlocalRef ----

// NonlocalRef reads a field of the Frame's captured Module (a closure
// reading a field defined in its enclosing scope, spec.md §4.4).
type NonlocalRef struct {
	base
	Name string
}

func NewNonlocalRef(loc location.Location, name string) *NonlocalRef {
	return &NonlocalRef{base: base{L: loc, IsPure: true}, Name: name}
}

func (r *NonlocalRef) Eval(f *Frame) (value.Value, error) {
	if f.Nonlocal == nil {
		return value.Value{}, newException(r.L, "'"+r.Name+"' is not defined")
	}
	v, ok, err := f.Nonlocal.GetByName(r.Name, r.L, f)
	if err != nil {
		return value.Value{}, err
	}
	if !ok {
		return value.Value{}, newException(r.L, "'"+r.Name+"' is not defined")
	}
	return v, nil
}

// ---- CallOp ----

// CallOp applies Func to Arg (spec.md §4.3/§4.4 function application).
// A Reactive argument is passed to Func unchanged; CallOp does not wrap
// the call in a Reactive itself — pkg/builtin's primitives build their own
// Reactive results when given a Reactive operand.
type CallOp struct {
	base
	Func Operation
	Arg  Operation
}

func NewCallOp(loc location.Location, fn, arg Operation) *CallOp {
	return &CallOp{base: base{L: loc, IsPure: fn.Pure() && arg.Pure()}, Func: fn, Arg: arg}
}

func (c *CallOp) Eval(f *Frame) (value.Value, error) {
	fnVal, err := c.Func.Eval(f)
	if err != nil {
		return value.Value{}, err
	}
	argVal, err := c.Arg.Eval(f)
	if err != nil {
		return value.Value{}, err
	}
	fn, ok := AsFunction(fnVal)
	if !ok {
		return value.Value{}, newException(c.L, "called value is not a function")
	}
	v, err := fn.Call(f, c.L, argVal)
	if err != nil {
		return value.Value{}, wrapFrame(err, f)
	}
	return v, nil
}

// ---- IndexOp ----

// IndexOp reads a record/module field or a list element (spec.md §4.3
// `.field` and `[i]` indexing).
type IndexOp struct {
	base
	Object Operation
	Field  string // non-empty for .field access
	Elem   Operation // non-nil for [expr] access
}

func NewFieldIndex(loc location.Location, obj Operation, field string) *IndexOp {
	return &IndexOp{base: base{L: loc, IsPure: obj.Pure()}, Object: obj, Field: field}
}

func NewElemIndex(loc location.Location, obj, elem Operation) *IndexOp {
	return &IndexOp{base: base{L: loc, IsPure: obj.Pure() && elem.Pure()}, Object: obj, Elem: elem}
}

func (ix *IndexOp) Eval(f *Frame) (value.Value, error) {
	objVal, err := ix.Object.Eval(f)
	if err != nil {
		return value.Value{}, err
	}
	if ix.Field != "" {
		return evalFieldAccess(objVal, ix.Field, ix.L, f)
	}
	elemVal, err := ix.Elem.Eval(f)
	if err != nil {
		return value.Value{}, err
	}
	return evalElemAccess(objVal, elemVal, ix.L)
}

func evalFieldAccess(objVal value.Value, field string, loc location.Location, f *Frame) (value.Value, error) {
	ref, ok := objVal.RefValue()
	if !ok {
		return value.Value{}, newException(loc, "value has no field ."+field)
	}
	switch r := ref.(type) {
	case *Module:
		v, found, err := r.GetByName(field, loc, f)
		if err != nil {
			return value.Value{}, err
		}
		if !found {
			return value.Value{}, newException(loc, "value has no field ."+field)
		}
		return v, nil
	case *value.Record:
		v, found := r.Get(field)
		if !found {
			return value.Value{}, newException(loc, "value has no field ."+field)
		}
		return v, nil
	}
	return value.Value{}, newException(loc, "value has no field ."+field)
}

func evalElemAccess(objVal, idxVal value.Value, loc location.Location) (value.Value, error) {
	ref, ok := objVal.RefValue()
	if !ok {
		return value.Value{}, newException(loc, "value is not indexable")
	}
	list, ok := ref.(*value.List)
	if !ok {
		return value.Value{}, newException(loc, "value is not a list")
	}
	i, ok := value.NumToInt(idxVal, 0, int64(len(list.Elements))-1)
	if !ok {
		return value.Value{}, newException(loc, "list index out of range")
	}
	return list.Elements[i], nil
}

// ---- StringInterp ----

// StringInterp concatenates a sequence of literal text and interpolated
// subexpressions into one string (spec.md §4.1/§4.3 `"...$[expr]..."`).
// An interpolated value already holding a string splices its text
// directly; anything else is rendered with its Print() form, matching
// `original_source/curv/string.cc`'s "interpolated values are stringified
// the same way the REPL would print them, except strings aren't
// re-quoted".
type StringInterp struct {
	base
	Parts []Operation // each is a Constant(string) for literal runs, or an arbitrary Operation
}

func NewStringInterp(loc location.Location, parts []Operation) *StringInterp {
	pure := true
	for _, p := range parts {
		pure = pure && p.Pure()
	}
	return &StringInterp{base: base{L: loc, IsPure: pure}, Parts: parts}
}

func (s *StringInterp) Eval(f *Frame) (value.Value, error) {
	var b []byte
	for _, p := range s.Parts {
		v, err := p.Eval(f)
		if err != nil {
			return value.Value{}, err
		}
		if ref, ok := v.RefValue(); ok {
			if str, ok := ref.(*value.String); ok {
				b = append(b, str.Text...)
				continue
			}
		}
		b = append(b, v.Print()...)
	}
	return value.Ref(value.NewString(string(b))), nil
}

// ---- ListExpr ----

// ListExpr builds a List value from a sequence of element/generator
// Operations (spec.md §4.3 list literal, §4.4 generator unrolling).
type ListExpr struct {
	base
	Elements []Operation
}

func NewListExpr(loc location.Location, elems []Operation) *ListExpr {
	pure := true
	for _, e := range elems {
		pure = pure && e.Pure()
	}
	return &ListExpr{base: base{L: loc, IsPure: pure}, Elements: elems}
}

func (l *ListExpr) Eval(f *Frame) (value.Value, error) {
	out := NewListBuilder()
	for _, e := range l.Elements {
		if err := generateInto(e, f, out); err != nil {
			return value.Value{}, err
		}
	}
	return value.Ref(value.NewList(out.Elements)), nil
}

func (l *ListExpr) Generate(f *Frame, out *ListBuilder) error {
	for _, e := range l.Elements {
		if err := generateInto(e, f, out); err != nil {
			return err
		}
	}
	return nil
}

// ---- RecordExpr ----

// RecordField is one static field of a record literal.
type RecordField struct {
	Name string
	Expr Operation
}

// RecordExpr builds a non-lazy value.Record (spec.md §4.3 record literal
// with no recursive/lazy field references; recursive records use
// ModuleExpr instead).
type RecordExpr struct {
	base
	Fields []RecordField
}

func NewRecordExpr(loc location.Location, fields []RecordField) *RecordExpr {
	pure := true
	for _, fl := range fields {
		pure = pure && fl.Expr.Pure()
	}
	return &RecordExpr{base: base{L: loc, IsPure: pure}, Fields: fields}
}

func (r *RecordExpr) Eval(f *Frame) (value.Value, error) {
	rec := value.NewRecord()
	for _, fl := range r.Fields {
		v, err := fl.Expr.Eval(f)
		if err != nil {
			return value.Value{}, err
		}
		rec.Set(fl.Name, v)
	}
	return value.Ref(rec), nil
}

// ---- ModuleExpr ----

// ModuleField describes one slot of a module template (spec.md §3 Module:
// a lazy, recursively-scoped record).
type ModuleField struct {
	Name   string
	Slot   int
	Lambda *Lambda   // non-nil for a function-valued field
	Expr   Operation // non-nil for a value-valued field, wrapped in a Thunk per instantiation
}

// ModuleExpr instantiates a fresh Module on every Eval, one whose closures
// can see each other and their own module (spec.md §3, §9: "closures are
// materialised on read, not at construction", breaking the module/closure
// reference cycle).
type ModuleExpr struct {
	base
	Fields   []ModuleField
	Elements []Operation // trailing list-literal elements, e.g. `{x=1; 2; 3}`
	NSlots   int
}

func NewModuleExpr(loc location.Location, fields []ModuleField, elements []Operation, nslots int) *ModuleExpr {
	return &ModuleExpr{base: base{L: loc, IsPure: false}, Fields: fields, Elements: elements, NSlots: nslots}
}

// newFieldFrame instantiates a fresh Module from fields and returns the
// Frame that module's own thunks/lambdas (and anything else nested inside
// this lexical scope) run in, with Nonlocal pointing back at the module
// itself. Shared by ModuleExpr (spec.md §4.3 record/module literal) and
// LetOp (spec.md §4.3 Let, which is a local, unexported instance of the
// same lazy recursive scope: `let defs in body` behaves like `{defs}`
// evaluated, except its fields are never visible outside body).
func newFieldFrame(parent *Frame, fields []ModuleField, nslots int) *Frame {
	mod := NewModule(len(fields))
	for i, fl := range fields {
		mod.FieldNames = append(mod.FieldNames, fl.Name)
		mod.FieldSlot[fl.Name] = i
		if fl.Lambda != nil {
			mod.Kind[i] = SlotLambda
			mod.Lambda[i] = fl.Lambda
		} else {
			mod.Kind[i] = SlotThunk
			mod.Thunk[i] = &Thunk{Expr: fl.Expr}
		}
	}
	f := NewFrame(parent, location.Location{}, mod, nslots)
	f.System = parent.System
	mod.SelfFrame = f
	return f
}

// ---- LambdaExpr ----

// LambdaExpr evaluates a lambda appearing directly in expression position
// (as opposed to a module field, which materialises its Closure lazily on
// read via Module.Get's SlotLambda case). Its Nonlocals is whatever Module
// lexically encloses the point of evaluation, matching
// pkg/analyser.NewLambdaEnviron's "nearest enclosing module" scope rule.
type LambdaExpr struct {
	base
	Lambda *Lambda
}

func NewLambdaExpr(loc location.Location, lam *Lambda) *LambdaExpr {
	return &LambdaExpr{base: base{L: loc, IsPure: true}, Lambda: lam}
}

func (l *LambdaExpr) Eval(f *Frame) (value.Value, error) {
	return value.Ref(&Closure{Lambda: l.Lambda, Nonlocals: f.Nonlocal}), nil
}

func (m *ModuleExpr) Eval(f *Frame) (value.Value, error) {
	modFrame := newFieldFrame(f, m.Fields, m.NSlots)
	mod := modFrame.Nonlocal
	for _, e := range m.Elements {
		v, err := e.Eval(modFrame)
		if err != nil {
			return value.Value{}, err
		}
		mod.Elements = append(mod.Elements, v)
	}
	if len(mod.Elements) > 0 {
		return value.Ref(value.NewList(mod.Elements)), nil
	}
	return value.Ref(mod), nil
}

// Denotes evaluates m the same way Eval does, but returns the Module and
// its trailing element list separately instead of collapsing to a plain
// List when elements are present — spec.md §6's
// `Program::denotes()` ("a (module?, element-list?) pair for programs
// ending in a sequence of generators"), needed by pkg/program because
// Eval's collapsing rule is lossy: a program can yield a module with
// bindings a caller wants to read *and* a trailing element sequence.
func (m *ModuleExpr) Denotes(f *Frame) (*Module, []value.Value, error) {
	modFrame := newFieldFrame(f, m.Fields, m.NSlots)
	mod := modFrame.Nonlocal
	for _, e := range m.Elements {
		v, err := e.Eval(modFrame)
		if err != nil {
			return nil, nil, err
		}
		mod.Elements = append(mod.Elements, v)
	}
	return mod, mod.Elements, nil
}
