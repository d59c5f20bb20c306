package value

import "testing"

func TestSetInsertDedupesAndRespectsMax(t *testing.T) {
	max := 2
	s := NewSet(Primitive(TagI64), &max)

	if err := s.Insert(I64(1)); err != nil {
		t.Fatalf("insert 1: %v", err)
	}
	if err := s.Insert(I64(1)); err != nil {
		t.Fatalf("duplicate insert should be a no-op, got error: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after duplicate insert", s.Len())
	}

	if err := s.Insert(I64(2)); err != nil {
		t.Fatalf("insert 2: %v", err)
	}
	if err := s.Insert(I64(3)); err == nil {
		t.Fatal("expected capacity error inserting past max")
	}
}

func TestSetContains(t *testing.T) {
	s := NewSet(Primitive(TagString), nil)
	_ = s.Insert(Str("a"))
	if !s.Contains(Str("a")) {
		t.Error("Contains(a) = false, want true")
	}
	if s.Contains(Str("b")) {
		t.Error("Contains(b) = true, want false")
	}
}

func TestMapInsertAndGet(t *testing.T) {
	m := NewMap(Primitive(TagString), Primitive(TagI64))
	m.Insert(Str("x"), I64(10))
	got, ok := m.Get(Str("x"))
	if !ok {
		t.Fatal("Get(x) ok = false, want true")
	}
	if got.(I64) != 10 {
		t.Errorf("Get(x) = %v, want 10", got)
	}
	if _, ok := m.Get(Str("y")); ok {
		t.Error("Get(y) ok = true, want false")
	}
}

func TestOptionSomeNone(t *testing.T) {
	some := Some(I64(5))
	if !some.IsSome() {
		t.Error("Some(5).IsSome() = false, want true")
	}
	if some.Size() != 1 {
		t.Errorf("Some(5).Size() = %d, want 1", some.Size())
	}

	none := None(Primitive(TagI64))
	if none.IsSome() {
		t.Error("None.IsSome() = true, want false")
	}
	if none.Size() != 0 {
		t.Errorf("None.Size() = %d, want 0", none.Size())
	}
}

func TestRecordFieldByName(t *testing.T) {
	r := Record{Names: []string{"a", "b"}, Values: []Value{I64(1), Str("two")}}
	v, ok := r.FieldByName("b")
	if !ok {
		t.Fatal("FieldByName(b) ok = false, want true")
	}
	if v.(Str) != "two" {
		t.Errorf("FieldByName(b) = %v, want two", v)
	}
	if _, ok := r.FieldByName("missing"); ok {
		t.Error("FieldByName(missing) ok = true, want false")
	}
}

func TestTupleKindPreservesElementOrder(t *testing.T) {
	tup := Tuple{Elems: []Value{I64(1), Str("x"), Bool(true)}}
	k := tup.Kind()
	if len(k.Elems) != 3 {
		t.Fatalf("Tuple.Kind().Elems has %d entries, want 3", len(k.Elems))
	}
	if k.Elems[0].Tag != TagI64 || k.Elems[1].Tag != TagString || k.Elems[2].Tag != TagBool {
		t.Errorf("Tuple.Kind().Elems = %v, order not preserved", k.Elems)
	}
}
