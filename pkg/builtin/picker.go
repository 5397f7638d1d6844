package builtin

import (
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/shape"
	"github.com/curv-lang/curv/pkg/value"
)

// Picker constructors (spec.md §4.6, GLOSSARY "Picker";
// `original_source/libcurv/picker.h`'s `Picker::Type` enum). These are
// ordinary builtin functions, not a distinct grammar form: calling one
// inside a `parametric` binding just evaluates to its default/current
// value, so the program tree-walks normally without the shape compiler;
// `pkg/sc` is the component that will eventually need to recognise these
// calls specifically to emit GLSL uniform declarations (spec.md §4.6's
// "these become GLSL uniforms") — that recognition isn't wired in this
// evaluator-level implementation, a documented simplification layered on
// top of `parametric` already compiling like an ordinary `let` (see the
// phrase.Parametric case of pkg/analyser's Analyse).
func addPickers(ns map[string]value.Value) {
	ns["slider"] = fn("slider", sliderFn)
	ns["int_slider"] = fn("int_slider", intSliderFn)
	ns["scale_picker"] = fn("scale_picker", scalePickerFn)
	ns["checkbox"] = fn("checkbox", checkboxFn)
	ns["colour_picker"] = fn("colour_picker", colourPickerFn)
}

// sliderFn takes `[low, high]` or `[low, high, default]` and returns its
// current value (low when no default is given).
func sliderFn(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
	l, ok := asList(arg)
	if !ok || len(l.Elements) < 2 {
		return value.Value{}, newErr(callSite, "slider: expects [low, high] or [low, high, default]")
	}
	low, ok1 := l.Elements[0].Num()
	_, ok2 := l.Elements[1].Num()
	if !ok1 || !ok2 {
		return value.Value{}, newErr(callSite, "slider: low/high must be numbers")
	}
	if len(l.Elements) >= 3 {
		if d, ok := l.Elements[2].Num(); ok {
			return value.Num(d), nil
		}
	}
	return value.Num(low), nil
}

func intSliderFn(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
	l, ok := asList(arg)
	if !ok || len(l.Elements) < 2 {
		return value.Value{}, newErr(callSite, "int_slider: expects [low, high] or [low, high, default]")
	}
	low, ok1 := l.Elements[0].Num()
	_, ok2 := l.Elements[1].Num()
	if !ok1 || !ok2 {
		return value.Value{}, newErr(callSite, "int_slider: low/high must be numbers")
	}
	if len(l.Elements) >= 3 {
		if d, ok := l.Elements[2].Num(); ok {
			return value.Num(d), nil
		}
	}
	return value.Num(low), nil
}

func scalePickerFn(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
	if n, ok := arg.Num(); ok {
		return value.Num(n), nil
	}
	return value.Num(1), nil
}

func checkboxFn(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
	if b, ok := arg.Bool(); ok {
		return value.Bool(b), nil
	}
	return value.Bool(false), nil
}

// colourPickerFn resolves a named default colour via pkg/shape's
// `golang.org/x/image/colornames` wiring, falling back to the argument
// itself when it is already a `[r,g,b]` vector.
func colourPickerFn(f *eval.Frame, callSite location.Location, arg value.Value) (value.Value, error) {
	ref, ok := arg.RefValue()
	if ok {
		if s, ok := ref.(*value.String); ok {
			rgb, found := shape.ResolveNamedColour(s.Text)
			if !found {
				return value.Value{}, newErr(callSite, "colour_picker: unknown colour name "+s.Text)
			}
			return value.Ref(value.NewList([]value.Value{
				value.Num(rgb[0]), value.Num(rgb[1]), value.Num(rgb[2]),
			})), nil
		}
	}
	if l, ok := asList(arg); ok && len(l.Elements) == 3 {
		return arg, nil
	}
	return value.Value{}, newErr(callSite, "colour_picker: expects a colour name or [r,g,b]")
}
