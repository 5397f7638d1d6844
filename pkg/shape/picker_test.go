package shape

import "testing"

func TestPickerType_String(t *testing.T) {
	cases := map[PickerType]string{
		Slider:       "slider",
		IntSlider:    "int_slider",
		ScalePicker:  "scale_picker",
		Checkbox:     "checkbox",
		ColourPicker: "colour_picker",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", typ, got, want)
		}
	}
}

func TestResolveNamedColour(t *testing.T) {
	rgb, ok := ResolveNamedColour("red")
	if !ok {
		t.Fatal("expected \"red\" to resolve")
	}
	if rgb[0] != 1 || rgb[1] != 0 || rgb[2] != 0 {
		t.Errorf("red = %v, want [1,0,0]", rgb)
	}

	if _, ok := ResolveNamedColour("not-a-real-colour"); ok {
		t.Error("expected an unknown colour name to fail to resolve")
	}
}
