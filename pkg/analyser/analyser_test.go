package analyser

import (
	"testing"

	"github.com/curv-lang/curv/pkg/builtin"
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/parser"
	"github.com/curv-lang/curv/pkg/source"
	"github.com/curv-lang/curv/pkg/value"
)

// evalSource parses, analyses and evaluates text as a standalone program,
// the same three-step pipeline pkg/program.Program.Compile/Eval runs.
func evalSource(t *testing.T, text string) value.Value {
	t.Helper()
	src := source.FromString("-x", text, source.KindCurv)
	ph, err := parser.ParseProgram(src)
	if err != nil {
		t.Fatalf("parse %q failed: %v", text, err)
	}
	root := &Root{Builtins: builtin.Root()}
	env := NewModuleEnviron(nil, root)
	op, err := Analyse(env, ph)
	if err != nil {
		t.Fatalf("analyse %q failed: %v", text, err)
	}
	frame := eval.NewFrame(nil, location.Location{}, nil, env.NSlots())
	v, err := op.Eval(frame)
	if err != nil {
		t.Fatalf("eval %q failed: %v", text, err)
	}
	return v
}

func TestAnalyse_Arithmetic(t *testing.T) {
	v := evalSource(t, "1 + 2 * 3")
	n, ok := v.Num()
	if !ok || n != 7 {
		t.Errorf("1 + 2 * 3 = %v, want 7", v.Print())
	}
}

func TestAnalyse_Let(t *testing.T) {
	v := evalSource(t, "let x = 2; y = 3 in x * y")
	n, ok := v.Num()
	if !ok || n != 6 {
		t.Errorf("let x=2;y=3 in x*y = %v, want 6", v.Print())
	}
}

func TestAnalyse_IfElse(t *testing.T) {
	v := evalSource(t, "if (1 < 2) 10 else 20")
	n, ok := v.Num()
	if !ok || n != 10 {
		t.Errorf("if (1<2) 10 else 20 = %v, want 10", v.Print())
	}
	v = evalSource(t, "if (1 > 2) 10 else 20")
	n, ok = v.Num()
	if !ok || n != 20 {
		t.Errorf("if (1>2) 10 else 20 = %v, want 20", v.Print())
	}
}

func TestAnalyse_LambdaCall(t *testing.T) {
	v := evalSource(t, "(x -> x + 1) 5")
	n, ok := v.Num()
	if !ok || n != 6 {
		t.Errorf("(x -> x + 1) 5 = %v, want 6", v.Print())
	}
}

func TestAnalyse_RecursiveFunctionDefinitionShorthand(t *testing.T) {
	v := evalSource(t, "let fact n = if (n <= 1) 1 else n * fact (n - 1) in fact 5")
	n, ok := v.Num()
	if !ok || n != 120 {
		t.Errorf("fact 5 = %v, want 120", v.Print())
	}
}

func TestAnalyse_RecordFieldAccess(t *testing.T) {
	v := evalSource(t, "{x = 1, y = 2}.y")
	n, ok := v.Num()
	if !ok || n != 2 {
		t.Errorf("{x=1,y=2}.y = %v, want 2", v.Print())
	}
}

func TestAnalyse_ListIndexAndLen(t *testing.T) {
	v := evalSource(t, "len [10, 20, 30]")
	n, ok := v.Num()
	if !ok || n != 3 {
		t.Errorf("len [10,20,30] = %v, want 3", v.Print())
	}
	v = evalSource(t, "[10, 20, 30][1]")
	n, ok = v.Num()
	if !ok || n != 20 {
		t.Errorf("[10,20,30][1] = %v, want 20", v.Print())
	}
}

func TestAnalyse_Range(t *testing.T) {
	v := evalSource(t, "[for (i in 1..3) i*i]")
	want := []float64{1, 4, 9}
	ref, ok := v.RefValue()
	if !ok {
		t.Fatalf("[for (i in 1..3) i*i] = %v, want a list", v.Print())
	}
	list, ok := ref.(*value.List)
	if !ok || len(list.Elements) != len(want) {
		t.Fatalf("[for (i in 1..3) i*i] = %v, want %v", v.Print(), want)
	}
	for i, e := range list.Elements {
		n, ok := e.Num()
		if !ok || n != want[i] {
			t.Errorf("element %d = %v, want %v", i, e.Print(), want[i])
		}
	}
}

func TestAnalyse_RangeBindsLooserThanAdditive(t *testing.T) {
	// 1..1+2 parses as 1..(1+2), not (1..1)+2.
	v := evalSource(t, "[for (i in 1..1+2) i]")
	ref, _ := v.RefValue()
	list := ref.(*value.List)
	if len(list.Elements) != 3 {
		t.Fatalf("1..1+2 should range over 1,2,3, got %v", v.Print())
	}
}

func TestAnalyse_UndefinedNameErrors(t *testing.T) {
	src := source.FromString("-x", "totally_undefined_name", source.KindCurv)
	ph, err := parser.ParseProgram(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	root := &Root{Builtins: builtin.Root()}
	env := NewModuleEnviron(nil, root)
	if _, err := Analyse(env, ph); err == nil {
		t.Fatal("expected an analysis error for an undefined name")
	}
}
