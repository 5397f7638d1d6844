package eval

import (
	"fmt"
	"strings"

	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

// ---- Module: a record whose field backing store is a slot array shared
// with nested closures (spec.md §3 Value invariants, GLOSSARY "Module"). ----

// SlotKind tags what a Module slot currently holds.
type SlotKind int

const (
	// SlotThunk: a deferred value-field Operation, not yet forced.
	SlotThunk SlotKind = iota
	// SlotLambda: a function-field's code, materialised into a Closure
	// only when read (spec.md §4.4 "Lambdas are materialised as
	// Closures only on read").
	SlotLambda
	// SlotValue: a forced value.
	SlotValue
	// SlotMissing: the force-in-progress sentinel (spec.md §4.4,
	// original_source/curv/thunk.cc).
	SlotMissing
)

// Module is a boxed record backed by a slot array. Field order is
// preserved (spec.md §3 invariant).
type Module struct {
	FieldNames []string          // definition order
	FieldSlot  map[string]int    // name -> slot index
	Slots      []value.Value     // SlotValue entries, or zero Value otherwise
	Kind       []SlotKind        // parallel to Slots
	Thunk      []*Thunk          // for SlotThunk slots
	Lambda     []*Lambda         // for SlotLambda slots
	Elements   []value.Value     // trailing list-literal elements (spec.md: module `elements_`)

	// SelfFrame is the Frame this module's own fields are evaluated in
	// (its slots, with Nonlocal pointing back at this same Module). A
	// field thunk always forces in SelfFrame, never in whatever frame
	// happened to be reading the field, so two readers in different call
	// frames force the same field exactly once and see the same value.
	SelfFrame *Frame
}

func NewModule(n int) *Module {
	return &Module{
		FieldSlot: make(map[string]int, n),
		Slots:     make([]value.Value, n),
		Kind:      make([]SlotKind, n),
		Thunk:     make([]*Thunk, n),
		Lambda:    make([]*Lambda, n),
	}
}

func (m *Module) RefKind() string { return "module" }

func (m *Module) Print() string {
	var b strings.Builder
	b.WriteString("{")
	for _, name := range m.FieldNames {
		fmt.Fprintf(&b, "%s=<field>;", name)
	}
	b.WriteString("}")
	return b.String()
}

// Get forces slot i if needed and returns its Value, materialising a
// Lambda into a Closure bound to this Module (spec.md §4.4: "Lambdas are
// materialised as Closures only on read by Module::get(i), never stored
// as closures, which prevents the module↔closure cycle").
func (m *Module) Get(i int, errLoc location.Location, f *Frame) (value.Value, error) {
	switch m.Kind[i] {
	case SlotValue:
		return m.Slots[i], nil
	case SlotLambda:
		return value.Ref(&Closure{Lambda: m.Lambda[i], Nonlocals: m}), nil
	case SlotMissing:
		return value.Value{}, newException(errLoc, "illegal recursive reference")
	case SlotThunk:
		m.Kind[i] = SlotMissing
		evalFrame := m.SelfFrame
		if evalFrame == nil {
			evalFrame = f
		}
		v, err := m.Thunk[i].Expr.Eval(evalFrame)
		if err != nil {
			return value.Value{}, err
		}
		m.Slots[i] = v
		m.Kind[i] = SlotValue
		return v, nil
	}
	return value.Value{}, newException(errLoc, "illegal recursive reference")
}

// GetByName looks up a field by name, forcing it if necessary.
func (m *Module) GetByName(name string, errLoc location.Location, f *Frame) (value.Value, bool, error) {
	i, ok := m.FieldSlot[name]
	if !ok {
		return value.Value{}, false, nil
	}
	v, err := m.Get(i, errLoc, f)
	return v, true, err
}

// ---- Thunk: a deferred Operation sitting in a module slot until forced
// (spec.md §3, GLOSSARY; original_source/curv/thunk.h). ----

type Thunk struct {
	Expr Operation
}

func (*Thunk) RefKind() string { return "thunk" }
func (*Thunk) Print() string   { return "<thunk>" }

// ---- Lambda: code + parameter pattern + slot count, with no captured
// environment (spec.md §9 cyclic-ownership design). ----

type Lambda struct {
	Name     string
	Param    Pattern
	Body     Operation
	NSlots   int
	ParamLoc location.Location
}

func (*Lambda) RefKind() string { return "lambda" }
func (l *Lambda) Print() string { return fmt.Sprintf("<lambda %s>", l.Name) }

// ---- Closure: a Lambda paired with a captured Module environment
// (GLOSSARY "Closure"). ----

type Closure struct {
	Lambda    *Lambda
	Nonlocals *Module
}

func (*Closure) RefKind() string { return "function" }
func (c *Closure) Print() string {
	if c.Lambda.Name != "" {
		return "<function " + c.Lambda.Name + ">"
	}
	return "<function>"
}

// Call allocates a Frame of Lambda.NSlots, executes the parameter pattern
// against arg (hard failure), and evaluates the body (spec.md §4.4).
func (c *Closure) Call(parent *Frame, callSite location.Location, arg value.Value) (value.Value, error) {
	f := NewFrame(parent, callSite, c.Nonlocals, c.Lambda.NSlots)
	if err := c.Lambda.Param.Exec(f, arg, c.Lambda.ParamLoc, f); err != nil {
		return value.Value{}, err
	}
	return c.Lambda.Body.Eval(f)
}

// ---- Piecewise: an ordered list of Closures tried in turn via TryExec
// until one matches (spec.md §4.4). ----

type Piecewise struct {
	Name  string
	Cases []*Closure
}

func (*Piecewise) RefKind() string { return "function" }
func (p *Piecewise) Print() string {
	if p.Name != "" {
		return "<function " + p.Name + ">"
	}
	return "<function>"
}

func (p *Piecewise) Call(parent *Frame, callSite location.Location, arg value.Value) (value.Value, error) {
	for _, c := range p.Cases {
		f := NewFrame(parent, callSite, c.Nonlocals, c.Lambda.NSlots)
		ok, err := c.Lambda.Param.TryExec(f, arg, f)
		if err != nil {
			return value.Value{}, err
		}
		if ok {
			return c.Lambda.Body.Eval(f)
		}
	}
	return value.Value{}, newException(callSite, "no matching function case")
}

// ---- Builtin: a primitive, host-implemented function (spec.md GLOSSARY
// "System"; builtin namespace). ----

type Builtin struct {
	Name string
	Fn   func(f *Frame, callSite location.Location, arg value.Value) (value.Value, error)
}

func (*Builtin) RefKind() string { return "function" }
func (b *Builtin) Print() string { return "<function " + b.Name + ">" }

func (b *Builtin) Call(parent *Frame, callSite location.Location, arg value.Value) (value.Value, error) {
	return b.Fn(parent, callSite, arg)
}

// Function is implemented by every callable Ref_Value (Closure, Piecewise,
// Builtin).
type Function interface {
	value.RefValue
	Call(parent *Frame, callSite location.Location, arg value.Value) (value.Value, error)
}

// AsFunction extracts a Function from v, or ok=false.
func AsFunction(v value.Value) (Function, bool) {
	r, ok := v.RefValue()
	if !ok {
		return nil, false
	}
	fn, ok := r.(Function)
	return fn, ok
}

// ---- Reactive: a symbolic expression standing for an unknown value of a
// known plex type (spec.md §3, §4.4, §9). ----

// ReactiveType is the small set of plex base types a Reactive value's
// result can carry at evaluation time (before it ever reaches the Shape
// Compiler, which has its own richer PlexType in pkg/sc).
type ReactiveType int

const (
	ReactiveNum ReactiveType = iota
	ReactiveBool
	ReactiveVec2
	ReactiveVec3
	ReactiveVec4
)

// Reactive wraps a pure Operation that could not be fully evaluated
// because one of its operands is itself Reactive (spec.md §4.4, §9: "Only
// constructable from pure Operations... constructing one from an impure
// Operation is a bug and panics with the Operation's class name").
type Reactive struct {
	Expr Operation
	Type ReactiveType
}

func (*Reactive) RefKind() string { return "reactive" }
func (r *Reactive) Print() string { return "<reactive>" }

// NewReactive is the single constructor for Reactive values; it enforces
// the purity invariant spec.md §9 calls out as having "found bugs
// historically".
func NewReactive(expr Operation, typ ReactiveType) *Reactive {
	if !expr.Pure() {
		panic(fmt.Sprintf("implementation bug: constructed Reactive from impure Operation %T", expr))
	}
	return &Reactive{Expr: expr, Type: typ}
}

// AsReactive extracts a *Reactive from v, the Reactive counterpart of
// AsFunction, used by pkg/builtin's primitives to detect a symbolic operand
// (spec.md §4.4 reactive propagation).
func AsReactive(v value.Value) (*Reactive, bool) {
	ref, ok := v.RefValue()
	if !ok {
		return nil, false
	}
	r, ok := ref.(*Reactive)
	return r, ok
}

// ---- Index variants: This / TPath / TSlice (spec.md §3 Value Ref_Value
// kinds). These back generalized-indexing amend/update expressions; this
// implementation exercises them only for the plain nested-field case,
// which is what the rest of SPEC_FULL.md's operations need. ----

// This stands for "the value under construction", the root of an index
// path in a record-update expression.
type This struct{}

func (This) RefKind() string { return "index-this" }
func (This) Print() string   { return "." }

// TPath is a field/element access path: a sequence of string field names
// or integer element indices.
type TPath struct {
	Steps []interface{} // string (field) or int (element)
}

func (*TPath) RefKind() string { return "index-path" }
func (t *TPath) Print() string { return "<path>" }

// TSlice is a [lo,hi) element-range path component.
type TSlice struct {
	Lo, Hi int
}

func (*TSlice) RefKind() string { return "index-slice" }
func (t *TSlice) Print() string { return fmt.Sprintf("[%d..%d]", t.Lo, t.Hi) }
