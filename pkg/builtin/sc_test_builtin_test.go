package builtin

import (
	"testing"

	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

// alwaysTrue builds `x -> true`, a trivial Bool->Bool closure sc_test can
// both run directly and push through the shape compiler.
func alwaysTrue(name string) *eval.Closure {
	lam := &eval.Lambda{
		Name:   name,
		Param:  eval.IdentifierPattern{Slot: 0, Name: "x"},
		Body:   eval.NewConstant(location.Location{}, value.Bool(true)),
		NSlots: 1,
	}
	return &eval.Closure{Lambda: lam}
}

// alwaysFalse builds `x -> false`, used to confirm sc_test rejects an
// assertion function whose interpreter result isn't true.
func alwaysFalse(name string) *eval.Closure {
	lam := &eval.Lambda{
		Name:   name,
		Param:  eval.IdentifierPattern{Slot: 0, Name: "x"},
		Body:   eval.NewConstant(location.Location{}, value.Bool(false)),
		NSlots: 1,
	}
	return &eval.Closure{Lambda: lam}
}

func TestSCTest_AllAssertionsPass(t *testing.T) {
	ns := Root()
	rec := value.NewRecord()
	rec.Set("trivial", value.Ref(alwaysTrue("trivial")))
	fn, ok := eval.AsFunction(ns["sc_test"])
	if !ok {
		t.Fatal("sc_test is not a function in the root namespace")
	}
	if _, err := fn.Call(nil, location.Location{}, value.Ref(rec)); err != nil {
		t.Fatalf("sc_test failed on a passing assertion: %v", err)
	}
}

func TestSCTest_FailingAssertionErrors(t *testing.T) {
	ns := Root()
	rec := value.NewRecord()
	rec.Set("broken", value.Ref(alwaysFalse("broken")))
	fn, _ := eval.AsFunction(ns["sc_test"])
	if _, err := fn.Call(nil, location.Location{}, value.Ref(rec)); err == nil {
		t.Fatal("expected sc_test to reject an assertion that returns false")
	}
}

func TestSCTest_NonRecordArgumentErrors(t *testing.T) {
	ns := Root()
	fn, _ := eval.AsFunction(ns["sc_test"])
	if _, err := fn.Call(nil, location.Location{}, value.Num(1)); err == nil {
		t.Fatal("expected sc_test to reject a non-record argument")
	}
}
