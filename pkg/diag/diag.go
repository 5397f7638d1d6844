// Package diag implements Curv's diagnostics: an Exception carrying an
// immutable message plus a list of Locations forming a stack trace
// (innermost first), and the Context variants that produce those
// Locations on demand (spec.md §4.7, §7).
//
// Grounded on _examples/original_source/curv/exception.h and context.cc:
// each Context subtype appends its own Location, then delegates to its
// parent frame/context for the rest of the trace.
package diag

import (
	"fmt"
	"strings"

	"github.com/curv-lang/curv/pkg/location"
)

// Context produces the list of Locations (innermost first) that should be
// attached to an Exception raised while this Context was active.
type Context interface {
	// Locations appends this context's Location(s) to trace, innermost
	// first, and returns the extended trace.
	Locations(trace []location.Location) []location.Location
	// Rewrite returns the possibly-rewritten message (e.g. At_Arg
	// prefixes "argument[i]: ").
	Rewrite(message string) string
}

// Exception is Curv's single error type: it is a Go error, carries a
// message, and accumulates Locations as it propagates through Context
// frames.
type Exception struct {
	Message string
	Trace   []location.Location
}

func New(message string) *Exception {
	return &Exception{Message: message}
}

// At attaches ctx to this Exception, appending its Locations and letting
// it rewrite the message. Call sites build up a trace by calling At as the
// error propagates outward, mirroring how C++ exceptions pick up Context
// at each catch/rethrow point in the original source.
func (e *Exception) At(ctx Context) *Exception {
	e.Message = ctx.Rewrite(e.Message)
	e.Trace = ctx.Locations(e.Trace)
	return e
}

func (e *Exception) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, loc := range e.Trace {
		fmt.Fprintf(&b, "\n  at %s", loc)
	}
	return b.String()
}

// ColorError is like Error but wraps the message and each location in ANSI
// colour codes when color is true, matching spec.md §4.7's "optional ANSI
// colour on a terminal".
func (e *Exception) ColorError(color bool) string {
	if !color {
		return e.Error()
	}
	const (
		red   = "\x1b[31m"
		dim   = "\x1b[2m"
		reset = "\x1b[0m"
	)
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s%s", red, e.Message, reset)
	for _, loc := range e.Trace {
		fmt.Fprintf(&b, "\n  %sat %s%s", dim, loc, reset)
	}
	return b.String()
}

// ---- Context variants (spec.md §4.7) ----

// AtPhrase attaches the Location of a single Phrase (held as a bare
// location.Location, so pkg/diag does not import pkg/phrase) plus an
// optional parent context.
type AtPhrase struct {
	Loc    location.Location
	Parent Context
}

func (c AtPhrase) Locations(trace []location.Location) []location.Location {
	trace = append(trace, c.Loc)
	if c.Parent != nil {
		trace = c.Parent.Locations(trace)
	}
	return trace
}
func (c AtPhrase) Rewrite(msg string) string {
	if c.Parent != nil {
		return c.Parent.Rewrite(msg)
	}
	return msg
}

// AtArg rewrites the message with an "argument[i]: " prefix, as the
// original does for bad-argument errors.
type AtArg struct {
	Index  int
	Parent Context
}

func (c AtArg) Locations(trace []location.Location) []location.Location {
	if c.Parent != nil {
		return c.Parent.Locations(trace)
	}
	return trace
}
func (c AtArg) Rewrite(msg string) string {
	msg = fmt.Sprintf("argument[%d]: %s", c.Index, msg)
	if c.Parent != nil {
		return c.Parent.Rewrite(msg)
	}
	return msg
}

// AtField rewrites the message with a ".field: " prefix.
type AtField struct {
	Name   string
	Parent Context
}

func (c AtField) Locations(trace []location.Location) []location.Location {
	if c.Parent != nil {
		return c.Parent.Locations(trace)
	}
	return trace
}
func (c AtField) Rewrite(msg string) string {
	msg = fmt.Sprintf(".%s: %s", c.Name, msg)
	if c.Parent != nil {
		return c.Parent.Rewrite(msg)
	}
	return msg
}

// FrameLocator is implemented by eval.Frame so diag doesn't need to import
// pkg/eval (which imports pkg/diag).
type FrameLocator interface {
	// CallLocations appends this frame's call-site Location, then its
	// parent's, and so on (spec.md §3 Frame: "a pointer to its parent
	// Frame (for stack trace only)").
	CallLocations(trace []location.Location) []location.Location
}

// AtFrame is a Context rooted at a runtime call Frame: the trace is the
// chain of call_phrase Locations up the parent_frame chain (spec.md §4.7).
type AtFrame struct {
	Frame FrameLocator
}

func (c AtFrame) Locations(trace []location.Location) []location.Location {
	if c.Frame != nil {
		return c.Frame.CallLocations(trace)
	}
	return trace
}
func (c AtFrame) Rewrite(msg string) string { return msg }

// AtSCFrame is the shape-compiler analogue of AtFrame: the trace is the
// chain of SC call frames (spec.md §4.5, §4.7).
type AtSCFrame struct {
	Frame FrameLocator
}

func (c AtSCFrame) Locations(trace []location.Location) []location.Location {
	if c.Frame != nil {
		return c.Frame.CallLocations(trace)
	}
	return trace
}
func (c AtSCFrame) Rewrite(msg string) string { return "SC: " + msg }

// AtSCArg combines AtArg's prefix with an SC frame trace.
type AtSCArg struct {
	Index int
	Frame FrameLocator
}

func (c AtSCArg) Locations(trace []location.Location) []location.Location {
	if c.Frame != nil {
		return c.Frame.CallLocations(trace)
	}
	return trace
}
func (c AtSCArg) Rewrite(msg string) string {
	return fmt.Sprintf("SC: argument[%d]: %s", c.Index, msg)
}

// AtSystem marks an error raised directly by the host System (outside any
// evaluation frame), e.g. an importer failure.
type AtSystem struct{}

func (AtSystem) Locations(trace []location.Location) []location.Location { return trace }
func (AtSystem) Rewrite(msg string) string                               { return msg }

// AtProgram marks an error at the top of a whole Program compile/eval,
// used when no more specific Context applies.
type AtProgram struct {
	Loc location.Location
}

func (c AtProgram) Locations(trace []location.Location) []location.Location {
	if c.Loc.IsNull() {
		return trace
	}
	return append(trace, c.Loc)
}
func (AtProgram) Rewrite(msg string) string { return msg }
