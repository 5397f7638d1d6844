package builtin

import (
	"testing"

	"github.com/curv-lang/curv/pkg/value"
)

func TestPredicates_Kinds(t *testing.T) {
	ns := Root()
	cases := []struct {
		name string
		arg  value.Value
		want bool
	}{
		{"is_null", value.Null, true},
		{"is_null", value.Num(0), false},
		{"is_bool", value.Bool(true), true},
		{"is_num", value.Num(1), true},
		{"is_num", value.Bool(true), false},
		{"is_char", value.Char('a'), true},
		{"is_string", value.Ref(value.NewString("x")), true},
		{"is_string", value.Num(1), false},
		{"is_list", vec(1, 2, 3), true},
		{"is_record", value.Ref(value.NewRecord()), true},
		{"is_fun", ns["add"], true},
		{"is_fun", value.Num(1), false},
	}
	for _, c := range cases {
		v := callBuiltin(t, ns, c.name, c.arg)
		b, ok := v.Bool()
		if !ok || b != c.want {
			t.Errorf("%s(%v) = %v, want %v", c.name, c.arg.Print(), v.Print(), c.want)
		}
	}
}
