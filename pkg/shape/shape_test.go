package shape

import (
	"math"
	"testing"

	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

func vec(nums ...float64) value.Value {
	elems := make([]value.Value, len(nums))
	for i, n := range nums {
		elems[i] = value.Num(n)
	}
	return value.Ref(value.NewList(elems))
}

func trivialFunction() eval.Function {
	return &eval.Builtin{Name: "f", Fn: func(*eval.Frame, location.Location, value.Value) (value.Value, error) {
		return value.Num(0), nil
	}}
}

func shapeRecord(is2d, is3d bool, box, dist, colour value.Value) value.Value {
	r := value.NewRecord()
	r.Set("is_2d", value.Bool(is2d))
	r.Set("is_3d", value.Bool(is3d))
	r.Set("bbox", box)
	r.Set("dist", dist)
	r.Set("colour", colour)
	return value.Ref(r)
}

func TestRecognise_ValidSphere(t *testing.T) {
	box := value.Ref(value.NewList([]value.Value{vec(-1, -1, -1), vec(1, 1, 1)}))
	distFn := value.Ref(trivialFunction())
	colourFn := value.Ref(trivialFunction())
	v := shapeRecord(false, true, box, distFn, colourFn)

	s, ok, err := Recognise(v, location.Location{}, nil)
	if err != nil {
		t.Fatalf("Recognise failed: %v", err)
	}
	if !ok {
		t.Fatal("expected Recognise to accept a well-formed shape record")
	}
	if !s.Is3D || s.Is2D {
		t.Errorf("Is2D/Is3D = %v/%v, want false/true", s.Is2D, s.Is3D)
	}
	if s.Box.Min != [3]float64{-1, -1, -1} || s.Box.Max != [3]float64{1, 1, 1} {
		t.Errorf("unexpected bbox: %+v", s.Box)
	}
}

func TestRecognise_NotARecordIsSoftFailure(t *testing.T) {
	s, ok, err := Recognise(value.Num(5), location.Location{}, nil)
	if err != nil {
		t.Fatalf("expected no error for a non-shape value, got %v", err)
	}
	if ok || s != nil {
		t.Fatal("expected Recognise to report false for a plain number")
	}
}

func TestRecognise_MissingFieldIsSoftFailure(t *testing.T) {
	r := value.NewRecord()
	r.Set("is_2d", value.Bool(true))
	s, ok, err := Recognise(value.Ref(r), location.Location{}, nil)
	if err != nil {
		t.Fatalf("expected no error for a partial record, got %v", err)
	}
	if ok || s != nil {
		t.Fatal("expected Recognise to report false for a record missing bbox/dist/colour")
	}
}

func TestRecognise_MalformedBBoxIsHardFailure(t *testing.T) {
	distFn := value.Ref(trivialFunction())
	colourFn := value.Ref(trivialFunction())
	v := shapeRecord(true, false, value.Num(0), distFn, colourFn)

	_, ok, err := Recognise(v, location.Location{}, nil)
	if ok {
		t.Fatal("expected Recognise to reject a malformed bbox")
	}
	if err == nil {
		t.Fatal("expected a hard error for a record that commits to being a shape but has a bad bbox")
	}
}

func TestBBoxFromValue(t *testing.T) {
	v := value.Ref(value.NewList([]value.Value{vec(-2, -3, -4), vec(2, 3, 4)}))
	box, err := BBoxFromValue(v, location.Location{})
	if err != nil {
		t.Fatalf("BBoxFromValue failed: %v", err)
	}
	if box.Min != [3]float64{-2, -3, -4} {
		t.Errorf("Min = %v, want [-2,-3,-4]", box.Min)
	}
	if box.Max != [3]float64{2, 3, 4} {
		t.Errorf("Max = %v, want [2,3,4]", box.Max)
	}
}

func TestBBoxFromValue_Infinite(t *testing.T) {
	inf := math.Inf(1)
	ninf := math.Inf(-1)
	v := value.Ref(value.NewList([]value.Value{vec(ninf, ninf, ninf), vec(inf, inf, inf)}))
	box, err := BBoxFromValue(v, location.Location{})
	if err != nil {
		t.Fatalf("BBoxFromValue failed: %v", err)
	}
	if !Infinite(box.Min[0]) || !Infinite(box.Max[0]) {
		t.Error("expected infinite bounds to round-trip")
	}
}

func TestBBoxFromValue_WrongShape(t *testing.T) {
	if _, err := BBoxFromValue(value.Num(1), location.Location{}); err == nil {
		t.Fatal("expected an error for a non-list bbox value")
	}
	v := value.Ref(value.NewList([]value.Value{vec(1, 2, 3)}))
	if _, err := BBoxFromValue(v, location.Location{}); err == nil {
		t.Fatal("expected an error for a 1-element bbox list")
	}
}
