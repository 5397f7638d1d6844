package shape

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// PickerType enumerates the GUI widget kinds a parametric shape parameter
// can declare, ported from `original_source/libcurv/picker.h`'s
// `Picker::Type` enum.
type PickerType int

const (
	Slider PickerType = iota
	IntSlider
	ScalePicker
	Checkbox
	ColourPicker
)

func (t PickerType) String() string {
	switch t {
	case Slider:
		return "slider"
	case IntSlider:
		return "int_slider"
	case ScalePicker:
		return "scale_picker"
	case Checkbox:
		return "checkbox"
	case ColourPicker:
		return "colour_picker"
	}
	return "picker"
}

// Config is a picker's range/type metadata, `libcurv/picker.h`'s
// `Picker::Config` (the union of slider_/int_slider_ fields collapsed into
// plain Go fields since Go has no variant-active-field ambiguity to guard
// against).
type Config struct {
	Type PickerType
	Low  float64
	High float64
	ILow int
	IHigh int
}

// State is a picker's current value, `libcurv/picker.h`'s `Picker::State`.
// Only the field matching Config.Type is meaningful.
type State struct {
	Bool bool
	Int  int
	Num  float64
	Vec3 [3]float64
}

// Picker pairs a Config with its current State, the pseudo-value a
// parametric shape parameter carries (spec.md §4.6, GLOSSARY "Picker").
type Picker struct {
	Name   string
	Config Config
	State  State
}

// Param is one named parametric-shape parameter, spec.md §4.6's "map of
// named parameters each bound to a picker".
type Param struct {
	Name   string
	Picker Picker
}

// ResolveNamedColour looks up a CSS/X11 colour name the way
// `original_source/libcurv/picker.h`'s colour_picker default resolves a
// named default colour, using the teacher's own `golang.org/x/image`
// dependency (`colornames`) rather than hand-rolling a colour table.
func ResolveNamedColour(name string) ([3]float64, bool) {
	c, ok := colornames.Map[name]
	if !ok {
		return [3]float64{}, false
	}
	r, g, b, _ := colorToRGB(c)
	return [3]float64{r, g, b}, true
}

func colorToRGB(c color.Color) (r, g, b float64) {
	cr, cg, cb, _ := c.RGBA()
	return float64(cr) / 65535, float64(cg) / 65535, float64(cb) / 65535
}
