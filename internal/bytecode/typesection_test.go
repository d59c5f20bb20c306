package bytecode

import (
	"testing"

	"mech/internal/value"
)

// Structural equality at the ValueKind level must yield pointer equality
// at the type-id level: interning the same kind twice, even built from
// independent calls, returns the same id.
func TestTypeInternerIdempotentOnStructuralEquality(t *testing.T) {
	in := NewTypeInterner()

	a := value.Matrix(value.Primitive(value.TagF64), value.ShapeMatrix2, []int{2, 2})
	b := value.Matrix(value.Primitive(value.TagF64), value.ShapeMatrix2, []int{2, 2})

	idA := in.Intern(a)
	idB := in.Intern(b)
	if idA != idB {
		t.Errorf("Intern(a) = %d, Intern(b) = %d, want equal for structurally identical kinds", idA, idB)
	}
	if len(in.Entries()) != 1 {
		t.Errorf("interning two structurally identical kinds produced %d entries, want 1", len(in.Entries()))
	}
}

func TestTypeInternerDistinctKindsGetDistinctIDs(t *testing.T) {
	in := NewTypeInterner()
	id1 := in.Intern(value.Primitive(value.TagI64))
	id2 := in.Intern(value.Primitive(value.TagF64))
	if id1 == id2 {
		t.Error("distinct primitive kinds received the same type id")
	}
}

// Composite kinds must intern their children before appending their own
// entry, so a referencing payload only ever names an already-existing id.
func TestTypeInternerRecordFieldsInternedBeforeParent(t *testing.T) {
	in := NewTypeInterner()
	rec := value.RecordKind([]value.RecordField{
		{Name: "x", Kind: value.Primitive(value.TagI64)},
		{Name: "y", Kind: value.Primitive(value.TagString)},
	})
	parentID := in.Intern(rec)

	entries := in.Entries()
	if int(parentID) != len(entries)-1 {
		t.Fatalf("parent id %d is not the last entry (len=%d) — children were not interned first", parentID, len(entries))
	}
	// x and y's primitive kinds should have been interned as their own
	// entries before the record's own entry was appended.
	if len(entries) < 3 {
		t.Fatalf("expected at least 3 entries (two fields + the record), got %d", len(entries))
	}
}
