package builtin

import (
	"testing"

	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

func TestPicker_SliderDefaultsToLow(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "slider", vec(0, 10))
	n, _ := v.Num()
	if n != 0 {
		t.Errorf("slider([0,10]) = %v, want 0", n)
	}
}

func TestPicker_SliderExplicitDefault(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "slider", vec(0, 10, 4))
	n, _ := v.Num()
	if n != 4 {
		t.Errorf("slider([0,10,4]) = %v, want 4", n)
	}
}

func TestPicker_Checkbox(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "checkbox", value.Bool(true))
	b, _ := v.Bool()
	if !b {
		t.Errorf("checkbox(true) = %v, want true", v.Print())
	}
}

func TestPicker_ColourPickerByName(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "colour_picker", value.Ref(value.NewString("red")))
	l, ok := v.RefValue()
	if !ok {
		t.Fatalf("expected a [r,g,b] list, got %v", v.Print())
	}
	list := l.(*value.List)
	if len(list.Elements) != 3 {
		t.Fatalf("colour_picker(\"red\") has %d elements, want 3", len(list.Elements))
	}
	r, _ := list.Elements[0].Num()
	if r != 1 {
		t.Errorf("colour_picker(\"red\") red channel = %v, want 1", r)
	}
}

func TestPicker_ColourPickerUnknownName(t *testing.T) {
	ns := Root()
	fn, ok := eval.AsFunction(ns["colour_picker"])
	if !ok {
		t.Fatal("colour_picker is not a function in the root namespace")
	}
	if _, err := fn.Call(nil, location.Location{}, value.Ref(value.NewString("not-a-colour"))); err == nil {
		t.Fatal("expected an error for an unknown colour name")
	}
}
