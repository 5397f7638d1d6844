package builtin

import (
	"testing"

	"github.com/curv-lang/curv/pkg/value"
)

func TestCollections_Len(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "len", vec(1, 2, 3))
	n, ok := v.Num()
	if !ok || n != 3 {
		t.Errorf("len([1,2,3]) = %v, want 3", v.Print())
	}
	v = callBuiltin(t, ns, "len", value.Ref(value.NewString("abc")))
	n, ok = v.Num()
	if !ok || n != 3 {
		t.Errorf(`len("abc") = %v, want 3`, v.Print())
	}
}

func TestCollections_Concat(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "concat", pairArg(vec(1, 2), vec(3, 4)))
	l, ok := v.RefValue()
	if !ok {
		t.Fatalf("expected a list result, got %v", v.Print())
	}
	list := l.(*value.List)
	if len(list.Elements) != 4 {
		t.Fatalf("concat([1,2],[3,4]) has %d elements, want 4", len(list.Elements))
	}
	want := []float64{1, 2, 3, 4}
	for i, e := range list.Elements {
		n, _ := e.Num()
		if n != want[i] {
			t.Errorf("element %d = %v, want %v", i, n, want[i])
		}
	}
}

func TestCollections_Str(t *testing.T) {
	ns := Root()
	v := callBuiltin(t, ns, "str", value.Num(3.5))
	s, ok := v.RefValue()
	if !ok {
		t.Fatalf("expected a string result, got %v", v.Print())
	}
	if s.(*value.String).Text != "3.5" {
		t.Errorf("str(3.5) = %q, want %q", s.(*value.String).Text, "3.5")
	}
}
