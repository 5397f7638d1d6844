// Package analyser turns a phrase.Phrase tree into eval.Operation IR
// (spec.md §4.3 Analyser): it allocates Frame slots, resolves identifiers
// to LocalRef/NonlocalRef/builtin Constants, compiles patterns, and
// handles the two forms that are resolved at analysis time rather than as
// ordinary function calls: `if` (compiled directly to eval.IfElse) and
// `include` (spliced into a let/where/record body). `sc_test` is an
// ordinary runtime builtin in pkg/builtin, not an analyser case.
//
// Grounded on the teacher's pkg/compiler/symtable.go (SymbolTable with
// EnterScope/ExitScope, growing-offset Allocate, inner-scope-first
// Lookup), generalized from stack-offset bytes to Curv's per-Frame slot
// index model.
package analyser

import (
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

// frameCounter hands out increasing slot indices for one Frame. Every
// Environ chained within the same function body or module shares one of
// these; entering a Lambda or a module literal starts a fresh one.
type frameCounter struct{ n int }

func (c *frameCounter) alloc() int {
	s := c.n
	c.n++
	return s
}

// kind discriminates what an Environ's Names map means.
type kind int

const (
	// kindLocal: names are slots in the current Frame (LocalRef).
	kindLocal kind = iota
	// kindModule: names are fields of a Module under construction
	// (NonlocalRef; resolved by name at runtime, not by static slot).
	kindModule
)

// Environ is one lexical scope. The chain of Environs rooted at a
// top-level Program forms the static scope tree the analyser walks to
// resolve every identifier.
type Environ struct {
	Parent *Environ
	Kind   kind
	Names  map[string]int // kindLocal: frame slot; kindModule: module slot (informational)
	Frame  *frameCounter   // shared within kindLocal chains in one Frame
	Root   *Root
}

// Root is shared by every Environ in one analysis: the builtin namespace
// (spec.md §6 System) has no lexical scope of its own.
type Root struct {
	Builtins map[string]value.Value
	// Include resolves an `include "path"` literal to the record/module it
	// names, keyed by the analyser's position (spec.md §6 System
	// importers); nil in contexts that never analyse an Include (e.g. a
	// standalone REPL expression). Wired by pkg/program at compile time.
	Include func(path string, loc location.Location) (value.Value, error)
}

// NewModuleEnviron starts analysis of a top-level program or a record/
// module literal: a fresh Frame, a fresh field scope.
func NewModuleEnviron(parent *Environ, root *Root) *Environ {
	return &Environ{
		Parent: parent,
		Kind:   kindModule,
		Names:  map[string]int{},
		Frame:  &frameCounter{},
		Root:   rootOf(parent, root),
	}
}

func rootOf(parent *Environ, root *Root) *Root {
	if parent != nil {
		return parent.Root
	}
	return root
}

// NewLambdaEnviron starts analysis of a Lambda body: a fresh Frame whose
// unresolved local lookups fall through directly to the nearest enclosing
// Module scope, skipping any intervening function's locals. Curv
// closures only capture a Module's fields (spec.md §9's module/closure
// cycle-breaking design), not arbitrary enclosing-function locals; this
// is the one place SPEC_FULL.md trims scope relative to a fully general
// lexical-closure language, recorded in DESIGN.md.
func NewLambdaEnviron(enclosing *Environ) *Environ {
	return &Environ{
		Parent: nearestModule(enclosing),
		Kind:   kindLocal,
		Names:  map[string]int{},
		Frame:  &frameCounter{},
		Root:   enclosing.Root,
	}
}

// NewBlockEnviron opens a nested local scope (for/while/if/do body)
// inside the current Frame: same slot counter, fresh shadowing names.
func NewBlockEnviron(parent *Environ) *Environ {
	return &Environ{Parent: parent, Kind: kindLocal, Names: map[string]int{}, Frame: parent.Frame, Root: parent.Root}
}

func nearestModule(e *Environ) *Environ {
	for env := e; env != nil; env = env.Parent {
		if env.Kind == kindModule {
			return env
		}
	}
	return nil
}

// Alloc reserves a new slot in the current Environ's Frame and binds name
// to it in this scope.
func (e *Environ) Alloc(name string) int {
	s := e.Frame.alloc()
	e.Names[name] = s
	return s
}

// Declare binds name to an already-known slot (used for kindModule
// scopes, whose per-field storage lives in the Module's own slot array,
// indexed independently of the analyser's Frame counters).
func (e *Environ) Declare(name string, slot int) {
	e.Names[name] = slot
}

// Lookup resolves name against this Environ's scope chain, then the root
// builtin namespace. Returns nil if name is not found anywhere.
func (e *Environ) Lookup(name string, loc location.Location) eval.Operation {
	for env := e; env != nil; env = env.Parent {
		if slot, ok := env.Names[name]; ok {
			if env.Kind == kindModule {
				return eval.NewNonlocalRef(loc, name)
			}
			return eval.NewLocalRef(loc, slot, name)
		}
	}
	if e.Root != nil {
		if v, ok := e.Root.Builtins[name]; ok {
			return eval.NewConstant(loc, v)
		}
	}
	return nil
}

// NSlots reports the number of slots allocated in this Environ's Frame so
// far, used once a Lambda/module body finishes compiling to size its
// Frame (spec.md §3: "size is fixed at allocation").
func (e *Environ) NSlots() int { return e.Frame.n }
