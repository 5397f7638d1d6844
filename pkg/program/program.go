// Package program implements Curv's top-level compilation unit (spec.md
// §6): `Program(system, parent_frame?)` then `compile(source)`, followed
// by either `eval()` (a single Value) or `denotes()` (a module/
// element-list pair, for programs ending in a sequence of generators).
//
// Grounded on the teacher's `pkg/compiler/compile.go`, whose top-level
// `Compile` function threads one input through a fixed pipeline
// (preprocess → lex → parse → codegen → assemble) and returns either a
// result or the first error; `Program` plays the same role for Curv's
// parse → analyse → evaluate pipeline, generalized to carry pipeline
// state across the two compile/run steps instead of running end to end
// in one call.
package program

import (
	"github.com/curv-lang/curv/pkg/analyser"
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/parser"
	"github.com/curv-lang/curv/pkg/source"
	"github.com/curv-lang/curv/pkg/system"
	"github.com/curv-lang/curv/pkg/value"
)

// Program is one compilation unit: a Source compiled against a System,
// optionally nested inside a running evaluation via parentFrame (spec.md
// §6 "Program(system, parent_frame?)"), so that the top-level Frame of the
// sub-program keeps the caller's Frame as its parent for stack traces.
type Program struct {
	sys         *system.System
	parentFrame *eval.Frame

	src *source.Source
	op  eval.Operation
	env *analyser.Environ
}

// New starts a Program bound to sys. parentFrame may be nil for a
// top-level compilation (the common case: CLI, file import).
func New(sys *system.System, parentFrame *eval.Frame) *Program {
	return &Program{sys: sys, parentFrame: parentFrame}
}

// Compile parses src and analyses it into Operation IR within a fresh
// module-level scope rooted at the System's builtin namespace and
// include-importer (spec.md §6 "compile(source, scanner_opts?)"; no
// scanner options are implemented, matching spec.md's own "the parser
// never performs semantic checks" — there is nothing for scanner options
// to gate in this implementation).
func (p *Program) Compile(src *source.Source) error {
	ph, err := parser.ParseProgram(src)
	if err != nil {
		return err
	}
	root := &analyser.Root{Builtins: p.sys.Builtins(), Include: p.sys.Import}
	env := analyser.NewModuleEnviron(nil, root)
	op, err := analyser.Analyse(env, ph)
	if err != nil {
		return err
	}
	p.src = src
	p.op = op
	p.env = env
	return nil
}

// frame allocates the top-level evaluation Frame, nested under
// parentFrame when this Program is itself running inside another
// evaluation.
func (p *Program) frame() *eval.Frame {
	f := eval.NewFrame(p.parentFrame, location.Location{}, nil, p.env.NSlots())
	f.System = p.sys
	return f
}

// Eval runs the compiled program to a single Value (spec.md §6 "optional
// eval() yielding a Value").
func (p *Program) Eval() (value.Value, error) {
	return p.op.Eval(p.frame())
}

// Denotes runs the compiled program and returns its Module (fields, if
// any) and its trailing element list separately, rather than collapsing
// to a plain list the way Eval does (spec.md §6 "denotes() yielding a
// (module?, element-list?) pair for programs ending in a sequence of
// generators"). mod is nil when the top-level phrase didn't analyse to a
// module/record literal (e.g. a bare expression like `1+2`): in that case
// elements is nil too and the caller should use Eval instead.
func (p *Program) Denotes() (mod *eval.Module, elements []value.Value, err error) {
	me, ok := p.op.(*eval.ModuleExpr)
	if !ok {
		return nil, nil, nil
	}
	return me.Denotes(p.frame())
}
