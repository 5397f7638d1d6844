// Package sc implements the Shape Compiler (spec.md §4.5): a partial
// evaluator that specializes an evaluated `dist`/`colour` function over a
// restricted numeric subset of Curv into GLSL or C++ source text, so a
// shape can be handed to a GPU renderer instead of walked point-by-point
// by the tree interpreter.
//
// Grounded on the teacher's pkg/compiler/codegen.go: CodeGen there walks a
// parsed C AST and accumulates assembly text into a strings.Builder with
// newLabel()/line()/comment() helpers; Emitter here plays the same role
// for a restricted subset of eval.Operation, accumulating GLSL or C++
// expression text instead of assembly mnemonics. Where the teacher's
// CodeGen threads a SymbolTable for C declarations, Emitter threads an
// SCFrame pairing symbolic register-like Vals with a real eval.Frame, so
// a non-reactive subexpression (one that doesn't depend on the point
// argument) can be constant-folded by calling straight into eval rather
// than re-implemented in the emitter.
package sc

import (
	"fmt"
	"strings"

	"github.com/curv-lang/curv/pkg/diag"
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
)

// Backend names the target language an Emitter renders expression text
// for (spec.md §4.5 "GLSL and C++ backends").
type Backend int

const (
	GLSL Backend = iota
	CPP
)

func (b Backend) String() string {
	if b == CPP {
		return "c++"
	}
	return "glsl"
}

// Type is the plex type system SC values carry (spec.md §4.5): every SC
// Val knows its shape so operator dispatch (e.g. scalar `*` vector) can be
// resolved at compile time instead of at runtime the way the evaluator
// resolves it.
type Type int

const (
	Bool Type = iota
	Num
	Vec2
	Vec3
	Vec4
)

func (t Type) glsl() string {
	switch t {
	case Bool:
		return "bool"
	case Num:
		return "float"
	case Vec2:
		return "vec2"
	case Vec3:
		return "vec3"
	case Vec4:
		return "vec4"
	}
	return "float"
}

func (t Type) cpp() string {
	switch t {
	case Bool:
		return "bool"
	case Num:
		return "double"
	case Vec2:
		return "glm::dvec2"
	case Vec3:
		return "glm::dvec3"
	case Vec4:
		return "glm::dvec4"
	}
	return "double"
}

// Name renders t in b's syntax, used both for declarations and casts.
func (t Type) Name(b Backend) string {
	if b == CPP {
		return t.cpp()
	}
	return t.glsl()
}

// Val is an SC-time value: a fragment of target-language source text
// standing for the run-time value an eval.Operation would produce, tagged
// with its Type the way the evaluator tags a runtime value.Value with a
// Kind. Unlike value.Value, a Val never holds data — Expr is always
// source text to be spliced into the emitted function body, even for a
// compile-time-constant operand (e.g. Expr "3.5" for the constant 3.5).
type Val struct {
	Expr string
	Type Type
}

func newErr(loc location.Location, msg string) error {
	return diag.New(msg).At(diag.AtPhrase{Loc: loc})
}

// Emitter walks a restricted subset of eval.Operation (spec.md §4.5) and
// accumulates target-language source text, mirroring the teacher's
// CodeGen/strings.Builder/newLabel() shape.
type Emitter struct {
	Backend Backend
	out     strings.Builder
	tmp     int

	// recursionGuard rejects a Closure calling itself (directly or
	// mutually) while being inlined — SC has no call stack, so recursion
	// would not terminate the way CallOp.Eval's real stack does.
	recursionGuard map[*eval.Lambda]bool
}

func NewEmitter(b Backend) *Emitter {
	return &Emitter{Backend: b, recursionGuard: map[*eval.Lambda]bool{}}
}

func (e *Emitter) newTemp() string {
	e.tmp++
	return fmt.Sprintf("_t%d", e.tmp)
}

func (e *Emitter) line(format string, args ...any) {
	fmt.Fprintf(&e.out, format+"\n", args...)
}

func (e *Emitter) comment(format string, args ...any) {
	if e.Backend == GLSL {
		e.line("// "+format, args...)
	} else {
		e.line("// "+format, args...)
	}
}

// Source returns the accumulated target-language text.
func (e *Emitter) Source() string { return e.out.String() }

// SCFrame pairs the symbolic slots an Emitter reads LocalRef/NonlocalRef
// from with a real eval.Frame used to constant-fold any subexpression
// that doesn't touch a reactive slot (spec.md §4.5). expr.go's isReactive,
// not Operation.Pure, identifies these subexpressions.
type SCFrame struct {
	Slots    []*Val // nil entry means "not reactive, read Real instead"
	Real     *eval.Frame
	Nonlocal map[string]*Val
}

func NewSCFrame(real *eval.Frame, nslots int) *SCFrame {
	return &SCFrame{Slots: make([]*Val, nslots), Real: real, Nonlocal: map[string]*Val{}}
}
