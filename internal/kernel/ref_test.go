package kernel

import (
	"testing"

	"mech/internal/value"
)

func TestRefGetSetRoundTrip(t *testing.T) {
	r := NewRef(value.I64(1))
	if got := r.Get(); got != value.I64(1) {
		t.Fatalf("Get() = %v, want I64(1)", got)
	}
	r.Set(value.I64(2))
	if got := r.Get(); got != value.I64(2) {
		t.Fatalf("Get() after Set = %v, want I64(2)", got)
	}
}

func TestWrapRefSharesBackingCell(t *testing.T) {
	cell := value.NewCell(value.I64(10))
	a := WrapRef(cell)
	b := WrapRef(cell)

	set, release := a.BorrowMut()
	set(value.I64(20))
	release()

	if got := b.Get(); got != value.I64(20) {
		t.Errorf("second Ref over the same cell saw %v, want I64(20) written via the first", got)
	}
}

func TestRefBorrowReleaseAllowsSubsequentBorrow(t *testing.T) {
	r := NewRef(value.I64(5))
	v, release := r.Borrow()
	if v != value.I64(5) {
		t.Fatalf("Borrow() = %v, want I64(5)", v)
	}
	release()

	set, release2 := r.BorrowMut()
	set(value.I64(6))
	release2()

	if got := r.Get(); got != value.I64(6) {
		t.Errorf("Get() after BorrowMut = %v, want I64(6)", got)
	}
}
