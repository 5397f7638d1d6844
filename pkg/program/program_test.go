package program

import (
	"strings"
	"testing"

	"github.com/curv-lang/curv/pkg/source"
	"github.com/curv-lang/curv/pkg/system"
)

func TestProgram_EvalArithmeticExpression(t *testing.T) {
	sys := system.New()
	p := New(sys, nil)
	src := source.FromString("-x", "1 + 2 * 3", source.KindCurv)
	if err := p.Compile(src); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	v, err := p.Eval()
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	n, ok := v.Num()
	if !ok || n != 7 {
		t.Errorf("1 + 2 * 3 = %v, want 7", v.Print())
	}
}

func TestProgram_CompileErrorOnSyntaxError(t *testing.T) {
	sys := system.New()
	p := New(sys, nil)
	src := source.FromString("-x", "1 +", source.KindCurv)
	if err := p.Compile(src); err == nil {
		t.Fatal("expected a compile error for incomplete syntax")
	}
}

func TestProgram_CompileErrorOnUndefinedName(t *testing.T) {
	sys := system.New()
	p := New(sys, nil)
	src := source.FromString("-x", "undefined_name_xyz", source.KindCurv)
	err := p.Compile(src)
	if err == nil {
		t.Fatal("expected a compile error referencing an undefined name")
	}
	if !strings.Contains(err.Error(), "undefined_name_xyz") {
		t.Errorf("compile error %q does not name undefined_name_xyz", err.Error())
	}
}

func TestProgram_DenotesNilForBareExpression(t *testing.T) {
	sys := system.New()
	p := New(sys, nil)
	src := source.FromString("-x", "1 + 1", source.KindCurv)
	if err := p.Compile(src); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	mod, elements, err := p.Denotes()
	if err != nil {
		t.Fatalf("Denotes failed: %v", err)
	}
	if mod != nil || elements != nil {
		t.Error("expected Denotes to report nil/nil for a bare expression")
	}
}
