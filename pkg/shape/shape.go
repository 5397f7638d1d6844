// Package shape implements the shape recogniser (spec.md §4.6): given an
// arbitrary evaluated Value, attempt to interpret it as a 2D/3D
// signed-distance shape. Grounded on
// `_examples/original_source/curv/shape.{h,cc}`'s `Shape2D` and
// `BBox::from_value`, generalised to 3D per spec.md's bbox shape
// `[[xmin,ymin,zmin],[xmax,ymax,zmax]]`.
package shape

import (
	"math"

	"github.com/curv-lang/curv/pkg/diag"
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

// BBox is an axis-aligned bounding box; infinite bounds are legal (spec.md
// §4.6), mirroring `shape.cc`'s `BBox::from_value` but extended from 2D
// to 3D.
type BBox struct {
	Min [3]float64
	Max [3]float64
}

// Shape is a recognised 2D/3D shape (spec.md §4.6): a record exposing
// `is_2d`, `is_3d`, `bbox`, `dist`, `colour`. Params is non-nil only when
// the recognising context also supplied parametric parameter metadata
// (pkg/sc populates this from the pickers it observes while compiling);
// the recogniser itself never reconstructs picker identity from a bare
// Value, since `pkg/analyser` compiles `parametric` the same way it
// compiles `let` and the distinction doesn't survive to a Module value —
// see DESIGN.md's Open Question entry on `parametric`.
type Shape struct {
	Is2D   bool
	Is3D   bool
	Box    BBox
	Dist   eval.Function
	Colour eval.Function
	Params []Param
}

func fieldOf(v value.Value, name string, loc location.Location, f *eval.Frame) (value.Value, bool, error) {
	ref, ok := v.RefValue()
	if !ok {
		return value.Value{}, false, nil
	}
	switch r := ref.(type) {
	case *value.Record:
		fv, ok := r.Get(name)
		return fv, ok, nil
	case *eval.Module:
		return r.GetByName(name, loc, f)
	default:
		return value.Value{}, false, nil
	}
}

// Recognise attempts to interpret v as a shape. Recognition failure is
// soft: ok is false with a nil error whenever v simply isn't shaped like a
// shape record; err is non-nil only for a malformed bbox/dist/colour field
// on a value that otherwise commits to being a shape (spec.md §4.6
// "failure is soft (return false)").
func Recognise(v value.Value, loc location.Location, f *eval.Frame) (*Shape, bool, error) {
	is2dV, ok, err := fieldOf(v, "is_2d", loc, f)
	if err != nil || !ok {
		return nil, false, err
	}
	is3dV, ok, err := fieldOf(v, "is_3d", loc, f)
	if err != nil || !ok {
		return nil, false, err
	}
	bboxV, ok, err := fieldOf(v, "bbox", loc, f)
	if err != nil || !ok {
		return nil, false, err
	}
	distV, ok, err := fieldOf(v, "dist", loc, f)
	if err != nil || !ok {
		return nil, false, err
	}
	colourV, ok, err := fieldOf(v, "colour", loc, f)
	if err != nil || !ok {
		return nil, false, err
	}

	is2d, ok := is2dV.Bool()
	if !ok {
		return nil, false, nil
	}
	is3d, ok := is3dV.Bool()
	if !ok {
		return nil, false, nil
	}
	dist, ok := eval.AsFunction(distV)
	if !ok {
		return nil, false, nil
	}
	colour, ok := eval.AsFunction(colourV)
	if !ok {
		return nil, false, nil
	}
	box, err := BBoxFromValue(bboxV, loc)
	if err != nil {
		return nil, false, err
	}

	return &Shape{Is2D: is2d, Is3D: is3d, Box: box, Dist: dist, Colour: colour}, true, nil
}

// BBoxFromValue parses spec.md §4.6's `[[xmin,ymin,zmin],[xmax,ymax,zmax]]`
// bbox shape, the direct 3D generalisation of
// `curv/shape.cc`'s `BBox::from_value`.
func BBoxFromValue(v value.Value, loc location.Location) (BBox, error) {
	pair, ok := listOf(v, 2)
	if !ok {
		return BBox{}, diag.New("bbox: expected a 2-element list [min,max]").At(diag.AtPhrase{Loc: loc})
	}
	mins, ok := listOf(pair[0], 3)
	if !ok {
		return BBox{}, diag.New("bbox: min corner must be a 3-element list").At(diag.AtPhrase{Loc: loc})
	}
	maxs, ok := listOf(pair[1], 3)
	if !ok {
		return BBox{}, diag.New("bbox: max corner must be a 3-element list").At(diag.AtPhrase{Loc: loc})
	}
	var b BBox
	for i := 0; i < 3; i++ {
		n, ok := mins[i].Num()
		if !ok {
			return BBox{}, diag.New("bbox: corner components must be numbers").At(diag.AtPhrase{Loc: loc})
		}
		b.Min[i] = n
	}
	for i := 0; i < 3; i++ {
		n, ok := maxs[i].Num()
		if !ok {
			return BBox{}, diag.New("bbox: corner components must be numbers").At(diag.AtPhrase{Loc: loc})
		}
		b.Max[i] = n
	}
	return b, nil
}

func listOf(v value.Value, n int) ([]value.Value, bool) {
	ref, ok := v.RefValue()
	if !ok {
		return nil, false
	}
	l, ok := ref.(*value.List)
	if !ok || len(l.Elements) != n {
		return nil, false
	}
	return l.Elements, true
}

// Infinite reports whether f represents an unbounded extent, spec.md
// §4.6's "infinite bounds allowed".
func Infinite(f float64) bool { return math.IsInf(f, 0) }
