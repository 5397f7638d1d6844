package system

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

// gpuBundle mirrors spec.md §6's GPU program output JSON shape: either
// `{"value": <v>}` or `{"shape": {...}}`.
type gpuBundle struct {
	Value json.RawMessage `json:"value"`
	Shape *gpuShape       `json:"shape"`
}

type gpuShape struct {
	Is2D   bool        `json:"is_2d"`
	Is3D   bool        `json:"is_3d"`
	BBox   [2][3]json.Number `json:"bbox"`
	Shader string      `json:"shader"`
}

// importGPU reads a cached `.gpu` bundle (spec.md §6). A `{"value": ...}`
// bundle decodes straight to a Curv Value. A `{"shape": ...}` bundle can
// only recover the shape's bbox/is_2d/is_3d metadata and raw shader text,
// not its original `dist`/`colour` functions — shader source isn't
// executable by the tree-walking evaluator, so such a record exposes
// `shader` (the GLSL/C++ text) instead of callable `dist`/`colour` fields.
// This is a documented boundary of the `.gpu` format: it is meant to be
// consumed by a renderer, not re-imported as ordinary shape functions.
func importGPU(sys *System, path string, loc location.Location) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, err
	}
	var bundle gpuBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return value.Value{}, err
	}
	if bundle.Value != nil {
		return decodeJSONValue(bundle.Value)
	}
	if bundle.Shape != nil {
		rec := value.NewRecord()
		rec.Set("is_2d", value.Bool(bundle.Shape.Is2D))
		rec.Set("is_3d", value.Bool(bundle.Shape.Is3D))
		var mins, maxs []value.Value
		for _, n := range bundle.Shape.BBox[0] {
			f, _ := n.Float64()
			mins = append(mins, value.Num(f))
		}
		for _, n := range bundle.Shape.BBox[1] {
			f, _ := n.Float64()
			maxs = append(maxs, value.Num(f))
		}
		rec.Set("bbox", value.Ref(value.NewList([]value.Value{
			value.Ref(value.NewList(mins)), value.Ref(value.NewList(maxs)),
		})))
		rec.Set("shader", value.Ref(value.NewString(bundle.Shape.Shader)))
		return value.Ref(rec), nil
	}
	return value.Null, nil
}

// decodeJSONValue converts arbitrary JSON into a Curv Value, the inverse
// of the `{"value": <v>}` encoding spec.md §6 describes (`1e9999` for
// infinity, `null` for NaN — RFC-8259-tolerant extension).
func decodeJSONValue(raw json.RawMessage) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return value.Value{}, err
	}
	return jsonToValue(generic), nil
}

func jsonToValue(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null
	case bool:
		return value.Bool(t)
	case json.Number:
		// Float64 yields ±Inf for an out-of-range numeral such as 1e9999.
		n, _ := t.Float64()
		return value.Num(n)
	case string:
		return value.Ref(value.NewString(t))
	case []any:
		elems := make([]value.Value, len(t))
		for i, e := range t {
			elems[i] = jsonToValue(e)
		}
		return value.Ref(value.NewList(elems))
	case map[string]any:
		rec := value.NewRecord()
		for k, e := range t {
			rec.Set(k, jsonToValue(e))
		}
		return value.Ref(rec)
	}
	return value.Null
}
