// Package eval implements Curv's Meaning IR (Operation / Metafunction /
// Definition, spec.md §3) and the tree-walking evaluator that executes it
// (spec.md §4.4). See DESIGN.md for why the IR and its evaluator are one
// Go package instead of two.
package eval

import (
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

// Frame is a contiguous slot array plus the bookkeeping spec.md §3
// describes: a parent pointer used only for stack traces, the call-site
// Location, and an optional nonlocals Module for closures.
//
// Grounded on original_source/curv/frame.h: "parent_frame" is metadata for
// stack traces and the debugger, never consulted during evaluation itself;
// "nonlocal" is the slot array of the enclosing Module or Closure.
// Also echoes the teacher's pkg/cpu/cpu.go Frame-as-flat-register-array
// idiom, generalized from fixed hardware registers to a per-call slot
// count fixed at allocation time.
type Frame struct {
	Slots []value.Value

	ParentFrame *Frame
	CallLoc     location.Location // null unless this Frame is a function call
	Nonlocal    *Module           // nil for a call to a builtin function

	System Interrupter
}

// Interrupter lets a host check a cancellation flag at safe points
// (call dispatch, generator emit, primitive entry), spec.md §5.
type Interrupter interface {
	Interrupted() bool
}

// NewFrame allocates a Frame with nslots slots, per spec.md §3 ("size is
// fixed at allocation").
func NewFrame(parent *Frame, callLoc location.Location, nonlocal *Module, nslots int) *Frame {
	return &Frame{
		Slots:       make([]value.Value, nslots),
		ParentFrame: parent,
		CallLoc:     callLoc,
		Nonlocal:    nonlocal,
	}
}

// CallLocations implements diag.FrameLocator: it walks parent_frame,
// collecting each call site's Location (spec.md §4.7).
func (f *Frame) CallLocations(trace []location.Location) []location.Location {
	for fr := f; fr != nil; fr = fr.ParentFrame {
		if !fr.CallLoc.IsNull() {
			trace = append(trace, fr.CallLoc)
		}
	}
	return trace
}

// Interrupted reports whether the host has requested cancellation
// (spec.md §5).
func (f *Frame) Interrupted() bool {
	return f.System != nil && f.System.Interrupted()
}
