// Package phrase implements the concrete syntax tree produced by the
// parser: every variant preserves its Location so diagnostics can point
// back at exact source text (spec.md §3 Phrase).
//
// The closed-sum-type-via-unexported-marker-method pattern is grounded on
// the teacher's pkg/compiler/ast.go (`Expr`/`Stmt` interfaces with
// `exprNode()`/`stmtNode()`), collapsed here into one `Phrase` interface
// because Curv does not separate expression and statement syntax at the
// parse level (spec.md §4.3: that split is the Analyser's job).
package phrase

import "github.com/curv-lang/curv/pkg/location"

// Phrase is implemented by every concrete-syntax-tree node.
type Phrase interface {
	phraseNode()
	Location() location.Location
	String() string
}

type base struct {
	Loc location.Location
}

func (b base) phraseNode()                 {}
func (b base) Location() location.Location { return b.Loc }

// Empty represents the absence of a phrase, e.g. an omitted else-branch.
type Empty struct {
	base
}

func (e *Empty) String() string { return "" }

// Identifier is a bare name reference.
type Identifier struct {
	base
	Name string
}

func (i *Identifier) String() string { return i.Name }

// Numeral is a numeric literal, kept as source text until the Analyser
// parses it (so that e.g. unsigned-literal suffixes round-trip).
type Numeral struct {
	base
	Text string
}

func (n *Numeral) String() string { return n.Text }

// StringSegment is one literal or interpolated run of a string literal.
type StringSegment struct {
	base
	// Literal holds the segment text for a plain run; Interpolate holds
	// the embedded expression phrase for a `$[...]` run (nil for plain).
	Literal     string
	Interpolate Phrase
}

func (s *StringSegment) String() string {
	if s.Interpolate != nil {
		return "$[" + s.Interpolate.String() + "]"
	}
	return s.Literal
}

// String is a (possibly interpolated) string literal: a sequence of
// StringSegment phrases.
type String struct {
	base
	Segments []*StringSegment
}

func (s *String) String() string { return "\"...\"" }

// Unary represents `Op Arg` (e.g. `-x`, `!x`).
type Unary struct {
	base
	Op  string
	Arg Phrase
}

func (u *Unary) String() string { return u.Op + u.Arg.String() }

// Binary represents `Left Op Right`.
type Binary struct {
	base
	Op          string
	Left, Right Phrase
}

func (b *Binary) String() string { return "(" + b.Left.String() + b.Op + b.Right.String() + ")" }

// Call represents `Func Arg` (juxtaposition application, spec.md §4.2).
type Call struct {
	base
	Func, Arg Phrase
}

func (c *Call) String() string { return c.Func.String() + " " + c.Arg.String() }

// Index represents `Base . Field` or `Base [ Index ]`.
type Index struct {
	base
	Base, Index Phrase
	Dot         bool // true for `.field`, false for `[index]`
}

func (i *Index) String() string {
	if i.Dot {
		return i.Base.String() + "." + i.Index.String()
	}
	return i.Base.String() + "[" + i.Index.String() + "]"
}

// List represents `[ elements ]`.
type List struct {
	base
	Body Phrase // Empty, or a Comma-list, or a single element
}

func (l *List) String() string { return "[...]" }

// Record represents `{ fields }`.
type Record struct {
	base
	Body Phrase
}

func (r *Record) String() string { return "{...}" }

// Paren represents a parenthesised phrase `( Body )`.
type Paren struct {
	base
	Body Phrase
	// IsTuple is true for `(a,)` / `()` forms, which the Analyser treats
	// distinctly from a grouping paren around a single element.
	IsTuple bool
}

func (p *Paren) String() string { return "(" + p.Body.String() + ")" }

// CommaList represents `a, b, c` (used inside [] () {}).
type CommaList struct {
	base
	Elements []Phrase
}

func (c *CommaList) String() string { return "a,b,..." }

// SemicolonList represents `a; b; c` (an action/definition sequence).
type SemicolonList struct {
	base
	Elements []Phrase
}

func (s *SemicolonList) String() string { return "a;b;..." }

// Program wraps the top-level body phrase.
type Program struct {
	base
	Body Phrase
}

func (p *Program) String() string { return p.Body.String() }

// Let represents `let Defs in Body`.
type Let struct {
	base
	Defs, Body Phrase
}

func (l *Let) String() string { return "let " + l.Defs.String() + " in " + l.Body.String() }

// Where represents `Body where Defs`.
type Where struct {
	base
	Body, Defs Phrase
}

func (w *Where) String() string { return w.Body.String() + " where " + w.Defs.String() }

// If represents `if (Cond) Then [else Else]`.
type If struct {
	base
	Cond, Then, Else Phrase
}

func (i *If) String() string { return "if (" + i.Cond.String() + ") ..." }

// Do represents `do Actions in Body`, a block whose actions run before the
// final value-producing Body.
type Do struct {
	base
	Actions, Body Phrase
}

func (d *Do) String() string { return "do ... in " + d.Body.String() }

// For represents `for (Pattern in Seq) Body`.
type For struct {
	base
	Pattern, Seq, Body Phrase
}

func (f *For) String() string { return "for (...)" }

// While represents `while (Cond) Body`.
type While struct {
	base
	Cond, Body Phrase
}

func (w *While) String() string { return "while (...)" }

// Assignment represents `Target := Value` (a local-variable rebind inside
// an action sequence).
type Assignment struct {
	base
	Target, Value Phrase
}

func (a *Assignment) String() string { return a.Target.String() + ":=" + a.Value.String() }

// Definition represents `Target = Value` (a binding, not a rebind).
type Definition struct {
	base
	Target, Value Phrase
}

func (d *Definition) String() string { return d.Target.String() + "=" + d.Value.String() }

// Lambda represents `Params -> Body`.
type Lambda struct {
	base
	Params, Body Phrase
}

func (l *Lambda) String() string { return l.Params.String() + "->" + l.Body.String() }

// Spread represents `...Expr` inside a list or record literal.
type Spread struct {
	base
	Arg Phrase
}

func (s *Spread) String() string { return "..." + s.Arg.String() }

// Include represents `include Arg`.
type Include struct {
	base
	Arg Phrase
}

func (i *Include) String() string { return "include " + i.Arg.String() }

// Parametric represents `parametric Params in Body`.
type Parametric struct {
	base
	Params, Body Phrase
}

func (p *Parametric) String() string { return "parametric ..." }

// --- pattern-position phrases (reused for let/lambda patterns) ---

// Wildcard is `_`.
type Wildcard struct{ base }

func (w *Wildcard) String() string { return "_" }

// TypeAnnotated represents `Pattern :: Type`.
type TypeAnnotated struct {
	base
	Pattern, Type Phrase
}

func (t *TypeAnnotated) String() string { return t.Pattern.String() + "::" + t.Type.String() }

// DefaultValue represents `Pattern = Expr` in parameter-pattern position.
type DefaultValue struct {
	base
	Pattern, Value Phrase
}

func (d *DefaultValue) String() string { return d.Pattern.String() + "=" + d.Value.String() }

// NewEmpty builds an Empty phrase at loc.
func NewEmpty(loc location.Location) *Empty { return &Empty{base{loc}} }

// Constructors below exist so callers never build a bare struct literal
// without going through base{loc}; this keeps Location() total.

func NewIdentifier(loc location.Location, name string) *Identifier {
	return &Identifier{base{loc}, name}
}
func NewNumeral(loc location.Location, text string) *Numeral {
	return &Numeral{base{loc}, text}
}
func NewString(loc location.Location, segs []*StringSegment) *String {
	return &String{base{loc}, segs}
}
func NewStringSegment(loc location.Location, lit string, interp Phrase) *StringSegment {
	return &StringSegment{base{loc}, lit, interp}
}
func NewUnary(loc location.Location, op string, arg Phrase) *Unary {
	return &Unary{base{loc}, op, arg}
}
func NewBinary(loc location.Location, op string, l, r Phrase) *Binary {
	return &Binary{base{loc}, op, l, r}
}
func NewCall(loc location.Location, fn, arg Phrase) *Call {
	return &Call{base{loc}, fn, arg}
}
func NewIndex(loc location.Location, b, i Phrase, dot bool) *Index {
	return &Index{base{loc}, b, i, dot}
}
func NewList(loc location.Location, body Phrase) *List {
	return &List{base{loc}, body}
}
func NewRecord(loc location.Location, body Phrase) *Record {
	return &Record{base{loc}, body}
}
func NewParen(loc location.Location, body Phrase, tuple bool) *Paren {
	return &Paren{base{loc}, body, tuple}
}
func NewCommaList(loc location.Location, elems []Phrase) *CommaList {
	return &CommaList{base{loc}, elems}
}
func NewSemicolonList(loc location.Location, elems []Phrase) *SemicolonList {
	return &SemicolonList{base{loc}, elems}
}
func NewProgram(loc location.Location, body Phrase) *Program {
	return &Program{base{loc}, body}
}
func NewLet(loc location.Location, defs, body Phrase) *Let {
	return &Let{base{loc}, defs, body}
}
func NewWhere(loc location.Location, body, defs Phrase) *Where {
	return &Where{base{loc}, body, defs}
}
func NewIf(loc location.Location, cond, then, els Phrase) *If {
	return &If{base{loc}, cond, then, els}
}
func NewDo(loc location.Location, actions, body Phrase) *Do {
	return &Do{base{loc}, actions, body}
}
func NewFor(loc location.Location, pat, seq, body Phrase) *For {
	return &For{base{loc}, pat, seq, body}
}
func NewWhile(loc location.Location, cond, body Phrase) *While {
	return &While{base{loc}, cond, body}
}
func NewAssignment(loc location.Location, target, value Phrase) *Assignment {
	return &Assignment{base{loc}, target, value}
}
func NewDefinition(loc location.Location, target, value Phrase) *Definition {
	return &Definition{base{loc}, target, value}
}
func NewLambda(loc location.Location, params, body Phrase) *Lambda {
	return &Lambda{base{loc}, params, body}
}
func NewSpread(loc location.Location, arg Phrase) *Spread {
	return &Spread{base{loc}, arg}
}
func NewInclude(loc location.Location, arg Phrase) *Include {
	return &Include{base{loc}, arg}
}
func NewParametric(loc location.Location, params, body Phrase) *Parametric {
	return &Parametric{base{loc}, params, body}
}
func NewWildcard(loc location.Location) *Wildcard { return &Wildcard{base{loc}} }
func NewTypeAnnotated(loc location.Location, pat, typ Phrase) *TypeAnnotated {
	return &TypeAnnotated{base{loc}, pat, typ}
}
func NewDefaultValue(loc location.Location, pat, val Phrase) *DefaultValue {
	return &DefaultValue{base{loc}, pat, val}
}

// Nub strips Program, Let, Where, and non-tuple Paren wrappers to expose
// the "essential" phrase, used by value_phrase and shape recognition
// (spec.md §4.2 nub_phrase).
func Nub(p Phrase) Phrase {
	for {
		switch n := p.(type) {
		case *Program:
			p = n.Body
		case *Let:
			p = n.Body
		case *Where:
			p = n.Body
		case *Paren:
			if n.IsTuple {
				return p
			}
			p = n.Body
		default:
			return p
		}
	}
}
