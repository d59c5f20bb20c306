package kernel

import (
	"reflect"
	"testing"

	"mech/internal/value"
)

// Dispatch must resolve math/add the same way whether its arguments are
// raw values, a single Reference, or both wrapped as References — a single
// level of unwrap is always enough, and the resulting kernel is the same
// concrete type regardless of which retry path found it (spec.md section
// 4.2's dispatch-unwrap "same kernel" property).
func TestDispatchUnwrapsReferencesToSameKernelType(t *testing.T) {
	c, ok := StandardRegistry().Lookup("math/add")
	if !ok {
		t.Fatal("math/add not registered")
	}

	raw, err := Dispatch(c, []value.Value{value.I64(2), value.I64(3)})
	if err != nil {
		t.Fatalf("Dispatch(raw): %v", err)
	}

	lhsRef := value.Reference{Cell: value.NewCell(value.I64(2))}
	oneWrapped, err := Dispatch(c, []value.Value{lhsRef, value.I64(3)})
	if err != nil {
		t.Fatalf("Dispatch(one wrapped): %v", err)
	}

	rhsRef := value.Reference{Cell: value.NewCell(value.I64(3))}
	bothWrapped, err := Dispatch(c, []value.Value{lhsRef, rhsRef})
	if err != nil {
		t.Fatalf("Dispatch(both wrapped): %v", err)
	}

	rawType := reflect.TypeOf(raw)
	if reflect.TypeOf(oneWrapped) != rawType {
		t.Errorf("single-unwrap kernel type = %T, want %T", oneWrapped, raw)
	}
	if reflect.TypeOf(bothWrapped) != rawType {
		t.Errorf("full-unwrap kernel type = %T, want %T", bothWrapped, raw)
	}

	for _, k := range []Kernel{raw, oneWrapped, bothWrapped} {
		out := solveAndGet(t, k)
		if out.(value.I64) != 5 {
			t.Errorf("dispatched kernel result = %v, want I64(5)", out)
		}
	}
}

func TestDispatchReportsUnhandledArgumentKind(t *testing.T) {
	c, _ := StandardRegistry().Lookup("math/add")
	if _, err := Dispatch(c, []value.Value{value.Str("x"), value.Str("y")}); err == nil {
		t.Fatal("expected Dispatch to fail for non-numeric arguments with no reference to unwrap")
	}
}
