package eval

import (
	"github.com/curv-lang/curv/pkg/diag"
	"github.com/curv-lang/curv/pkg/location"
)

// newException builds a diag.Exception already located at loc, the shape
// every Eval/Exec/Generate error in this package returns (spec.md §4.7:
// every raised Exception is located at the Phrase that raised it before it
// propagates outward and picks up AtFrame context at each call boundary).
func newException(loc location.Location, message string) *diag.Exception {
	return diag.New(message).At(diag.AtPhrase{Loc: loc})
}

// wrapFrame adds the given Frame's call-site trace to an already-located
// Exception, spec.md §4.7's "at each call boundary".
func wrapFrame(err error, f *Frame) error {
	if err == nil || f == nil {
		return err
	}
	exc, ok := err.(*diag.Exception)
	if !ok {
		return err
	}
	return exc.At(diag.AtFrame{Frame: f})
}
