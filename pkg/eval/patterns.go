package eval

import (
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

// Pattern is the runtime half of Curv's pattern-matching (spec.md §4.3
// Pattern). It has only the two operations a Frame/Value need: a hard
// bind that raises on mismatch (function parameters, `for`), and a
// soft try used by Piecewise function dispatch to pick the first matching
// case. Compile-time pattern analysis (scope/slot allocation from a
// phrase.Phrase) lives in pkg/analyser, which builds these values; keeping
// Pattern itself here, next to Frame and Lambda which already need it,
// avoids a cycle between pkg/analyser and pkg/eval (see DESIGN.md).
type Pattern interface {
	// Exec binds arg into f, raising a diag.Exception located at errLoc on
	// mismatch. evalFrame is the frame default-value subexpressions
	// evaluate in (normally == f).
	Exec(f *Frame, arg value.Value, errLoc location.Location, evalFrame *Frame) error
	// TryExec attempts the same bind but reports failure instead of
	// raising, for Piecewise dispatch (spec.md §4.4).
	TryExec(f *Frame, arg value.Value, evalFrame *Frame) (bool, error)
}

// IdentifierPattern binds arg unconditionally to a slot.
type IdentifierPattern struct {
	Slot int
	Name string
}

func (p IdentifierPattern) Exec(f *Frame, arg value.Value, _ location.Location, _ *Frame) error {
	f.Slots[p.Slot] = arg
	return nil
}

func (p IdentifierPattern) TryExec(f *Frame, arg value.Value, _ *Frame) (bool, error) {
	f.Slots[p.Slot] = arg
	return true, nil
}

// WildcardPattern matches anything and binds nothing (`_`).
type WildcardPattern struct{}

func (WildcardPattern) Exec(*Frame, value.Value, location.Location, *Frame) error { return nil }
func (WildcardPattern) TryExec(*Frame, value.Value, *Frame) (bool, error)         { return true, nil }

// ConstPattern matches only a specific literal Value (spec.md §4.3:
// numeral/string/boolean patterns used as a case discriminator).
type ConstPattern struct {
	Value value.Value
}

func (p ConstPattern) Exec(f *Frame, arg value.Value, errLoc location.Location, ef *Frame) error {
	ok, err := p.TryExec(f, arg, ef)
	if err != nil {
		return err
	}
	if !ok {
		return newException(errLoc, "argument does not match expected value "+p.Value.Print())
	}
	return nil
}

func (p ConstPattern) TryExec(_ *Frame, arg value.Value, _ *Frame) (bool, error) {
	return p.Value.Equal(arg), nil
}

// ListPattern matches a fixed-length list, binding each element pattern
// (spec.md §4.3: `[a,b,c]` destructuring).
type ListPattern struct {
	Elements []Pattern
}

func (p ListPattern) asList(arg value.Value) (*value.List, bool) {
	ref, ok := arg.RefValue()
	if !ok {
		return nil, false
	}
	l, ok := ref.(*value.List)
	if !ok || len(l.Elements) != len(p.Elements) {
		return nil, false
	}
	return l, true
}

func (p ListPattern) Exec(f *Frame, arg value.Value, errLoc location.Location, ef *Frame) error {
	l, ok := p.asList(arg)
	if !ok {
		return newException(errLoc, "argument is not a list of the expected length")
	}
	for i, sub := range p.Elements {
		if err := sub.Exec(f, l.Elements[i], errLoc, ef); err != nil {
			return err
		}
	}
	return nil
}

func (p ListPattern) TryExec(f *Frame, arg value.Value, ef *Frame) (bool, error) {
	l, ok := p.asList(arg)
	if !ok {
		return false, nil
	}
	for i, sub := range p.Elements {
		ok, err := sub.TryExec(f, l.Elements[i], ef)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// RecordField binds one named field, optionally falling back to Default
// when the field is absent (spec.md §4.3 DefaultValue pattern, used for
// keyword-style function arguments and shape pickers).
type RecordPatternField struct {
	Name    string
	Sub     Pattern
	Default Operation // nil: field is required
}

// RecordPattern matches a record with (at least) the named fields
// (spec.md §4.3: `{x, y}` / `{x, y=0}` destructuring).
type RecordPattern struct {
	Fields []RecordPatternField
}

func (p RecordPattern) fieldValue(arg value.Value, name string) (value.Value, bool) {
	ref, ok := arg.RefValue()
	if !ok {
		return value.Value{}, false
	}
	switch r := ref.(type) {
	case *value.Record:
		return r.Get(name)
	case *Module:
		if i, ok := r.FieldSlot[name]; ok {
			v, err := r.Get(i, location.Location{}, r.SelfFrame)
			return v, err == nil
		}
	}
	return value.Value{}, false
}

func (p RecordPattern) Exec(f *Frame, arg value.Value, errLoc location.Location, ef *Frame) error {
	for _, fl := range p.Fields {
		v, ok := p.fieldValue(arg, fl.Name)
		if !ok {
			if fl.Default == nil {
				return newException(errLoc, "argument is missing field ."+fl.Name)
			}
			var err error
			v, err = fl.Default.Eval(ef)
			if err != nil {
				return err
			}
		}
		if err := fl.Sub.Exec(f, v, errLoc, ef); err != nil {
			return err
		}
	}
	return nil
}

func (p RecordPattern) TryExec(f *Frame, arg value.Value, ef *Frame) (bool, error) {
	for _, fl := range p.Fields {
		v, ok := p.fieldValue(arg, fl.Name)
		if !ok {
			if fl.Default == nil {
				return false, nil
			}
			var err error
			v, err = fl.Default.Eval(ef)
			if err != nil {
				return false, err
			}
		}
		matched, err := fl.Sub.TryExec(f, v, ef)
		if err != nil || !matched {
			return false, err
		}
	}
	return true, nil
}

// TypeAnnotatedPattern matches Sub only if arg also satisfies Pred
// (spec.md §4.3 `pattern :: predicate`).
type TypeAnnotatedPattern struct {
	Sub  Pattern
	Pred Function
}

func (p TypeAnnotatedPattern) checkPred(f *Frame, arg value.Value) (bool, error) {
	result, err := p.Pred.Call(f, location.Location{}, arg)
	if err != nil {
		return false, err
	}
	ok, isBool := result.Bool()
	return isBool && ok, nil
}

func (p TypeAnnotatedPattern) Exec(f *Frame, arg value.Value, errLoc location.Location, ef *Frame) error {
	ok, err := p.checkPred(ef, arg)
	if err != nil {
		return err
	}
	if !ok {
		return newException(errLoc, "argument does not satisfy type predicate")
	}
	return p.Sub.Exec(f, arg, errLoc, ef)
}

func (p TypeAnnotatedPattern) TryExec(f *Frame, arg value.Value, ef *Frame) (bool, error) {
	ok, err := p.checkPred(ef, arg)
	if err != nil || !ok {
		return false, err
	}
	return p.Sub.TryExec(f, arg, ef)
}
