// Package value implements Curv's tagged runtime Value and the subset of
// Ref_Value variants that need no reference to IR/evaluator types (spec.md
// §3 Value). Module, Function, Lambda, Thunk and Reactive — the variants
// whose representation is intertwined with the Operation IR — live in
// pkg/eval instead; see DESIGN.md for why that avoids an import cycle.
//
// NaN-boxing is called out by spec.md as "an optimisation, not a
// requirement" and spec.md §9 gives the target-language-neutral
// equivalent directly: "a tagged union {Null, Bool, Char, Num(f64),
// Ref(Rc<RefValue>)}". That is exactly what this type is; Go's garbage
// collector stands in for the spec's reference counting.
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the tagged union.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindChar
	KindNum
	KindRef
)

// RefValue is implemented by every boxed reference kind. Concrete variants
// defined outside this package (Module, Function, Thunk, Reactive — see
// pkg/eval) also implement it, which is exactly why Value.Ref is an
// interface instead of a closed sum type: Go has no forward declarations,
// so the set of RefValue implementors cannot be fully closed within this
// package without creating the cycle this split exists to avoid.
type RefValue interface {
	// RefKind names the concrete variant, used for printing and by
	// diagnostics that need to name "the class of the offending value"
	// (spec.md §4.4 reactive-purity-violation panic).
	RefKind() string
	// Print renders the value the way it would appear if re-parsed as a
	// Curv expression (spec.md §8 print_repr round-trip property).
	Print() string
}

// Value is Curv's universal runtime value.
type Value struct {
	kind Kind
	b    bool
	ch   rune
	num  float64
	ref  RefValue
}

// Null is Curv's not-a-value sentinel, used internally (e.g. an absent
// optional field) but never observable as a genuine program result.
var Null = Value{kind: KindNull}

func Bool(b bool) Value   { return Value{kind: KindBool, b: b} }
func Char(c rune) Value   { return Value{kind: KindChar, ch: c} }
func Num(n float64) Value { return Value{kind: KindNum, num: n} }
func Ref(r RefValue) Value {
	if r == nil {
		return Null
	}
	return Value{kind: KindRef, ref: r}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) IsBool() bool { return v.kind == KindBool }
func (v Value) IsChar() bool { return v.kind == KindChar }
func (v Value) IsNum() bool  { return v.kind == KindNum }
func (v Value) IsRef() bool  { return v.kind == KindRef }

func (v Value) Bool() (bool, bool)       { return v.b, v.kind == KindBool }
func (v Value) Char() (rune, bool)       { return v.ch, v.kind == KindChar }
func (v Value) Num() (float64, bool)     { return v.num, v.kind == KindNum }
func (v Value) RefValue() (RefValue, bool) { return v.ref, v.kind == KindRef }

// Equal implements Curv's value equality: structural for refs, exact for
// immediates. NaN is never produced by well-formed Curv numerals, but a
// primitive computation can still yield NaN (e.g. 0/0); two NaNs compare
// unequal, matching IEEE-754 and therefore Go's native float comparison.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindChar:
		return v.ch == o.ch
	case KindNum:
		return v.num == o.num
	case KindRef:
		if eq, ok := v.ref.(interface{ Equal(RefValue) bool }); ok {
			return eq.Equal(o.ref)
		}
		return v.ref == o.ref
	}
	return false
}

// NumIsInt reports whether v is a Num whose value is an exact integer
// representable without loss (spec.md §8 testable property).
func NumIsInt(v Value) bool {
	n, ok := v.Num()
	if !ok {
		return false
	}
	return !math.IsNaN(n) && !math.IsInf(n, 0) && n == math.Trunc(n)
}

// NumToInt converts a Num to an int within [lo, hi], spec.md §8's
// num_is_int/num_to_int testable property.
func NumToInt(v Value, lo, hi int64) (int64, bool) {
	if !NumIsInt(v) {
		return 0, false
	}
	n, _ := v.Num()
	i := int64(n)
	if i < lo || i > hi {
		return 0, false
	}
	return i, true
}

// Print renders v the way Curv's printer does: a literal that, re-parsed,
// evaluates back to v for non-function/non-reactive/non-opaque values
// (spec.md §8).
func (v Value) Print() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindChar:
		return strconv.QuoteRune(v.ch)
	case KindNum:
		return formatNum(v.num)
	case KindRef:
		return v.ref.Print()
	}
	return "???"
}

func formatNum(n float64) string {
	if math.IsInf(n, 1) {
		return "inf"
	}
	if math.IsInf(n, -1) {
		return "-inf"
	}
	if math.IsNaN(n) {
		return "nan"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// ---- String ----

// String is Curv's immutable text value.
type String struct {
	Text string
}

func NewString(s string) *String     { return &String{Text: s} }
func (*String) RefKind() string      { return "string" }
func (s *String) Print() string      { return strconv.Quote(s.Text) }
func (s *String) Equal(o RefValue) bool {
	other, ok := o.(*String)
	return ok && other.Text == s.Text
}

// ---- Symbol ----

// Symbol is Curv's interned-identifier-like value, used for field names
// and enum-like literals (e.g. picker kinds).
type Symbol struct {
	Name string
}

func NewSymbol(name string) *Symbol { return &Symbol{Name: name} }
func (*Symbol) RefKind() string     { return "symbol" }
func (s *Symbol) Print() string     { return "#" + s.Name }
func (s *Symbol) Equal(o RefValue) bool {
	other, ok := o.(*Symbol)
	return ok && other.Name == s.Name
}

// ---- List ----

// List is Curv's immutable, reference-counted-by-GC list value.
type List struct {
	Elements []Value
}

func NewList(elems []Value) *List { return &List{Elements: elems} }
func (*List) RefKind() string     { return "list" }
func (l *List) Print() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.Print()
	}
	return "[" + strings.Join(parts, ",") + "]"
}
func (l *List) Equal(o RefValue) bool {
	other, ok := o.(*List)
	if !ok || len(other.Elements) != len(l.Elements) {
		return false
	}
	for i := range l.Elements {
		if !l.Elements[i].Equal(other.Elements[i]) {
			return false
		}
	}
	return true
}

// ---- Record (ordered dictionary variant) ----

// Record is Curv's ordered-dictionary record: a plain {k:v,...} literal
// with no lazy fields, as opposed to pkg/eval's Module (slot-array backed,
// with lazy Thunk/Lambda fields). Field order is insertion order
// (spec.md §3, §8 testable property).
type Record struct {
	keys   []string
	fields map[string]Value
}

func NewRecord() *Record {
	return &Record{fields: make(map[string]Value)}
}

// Set inserts or overwrites a field, preserving first-insertion order.
func (r *Record) Set(name string, v Value) {
	if _, exists := r.fields[name]; !exists {
		r.keys = append(r.keys, name)
	}
	r.fields[name] = v
}

func (r *Record) Get(name string) (Value, bool) {
	v, ok := r.fields[name]
	return v, ok
}

func (r *Record) HasField(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Keys returns field names in definition order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Len() int { return len(r.keys) }

func (*Record) RefKind() string { return "record" }

func (r *Record) Print() string {
	parts := make([]string, 0, len(r.keys))
	for _, k := range r.keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, r.fields[k].Print()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (r *Record) Equal(o RefValue) bool {
	other, ok := o.(*Record)
	if !ok || len(other.keys) != len(r.keys) {
		return false
	}
	sortedA, sortedB := append([]string(nil), r.keys...), append([]string(nil), other.keys...)
	sort.Strings(sortedA)
	sort.Strings(sortedB)
	for i := range sortedA {
		if sortedA[i] != sortedB[i] {
			return false
		}
		if !r.fields[sortedA[i]].Equal(other.fields[sortedB[i]]) {
			return false
		}
	}
	return true
}
