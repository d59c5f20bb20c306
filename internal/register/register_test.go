package register

import "testing"

func TestIndexMatches(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Index
		wantMatch bool
	}{
		{"both wildcard", AllIndex, AllIndex, true},
		{"wildcard vs concrete", AllIndex, At(3), true},
		{"concrete vs wildcard", At(3), AllIndex, true},
		{"equal concrete", At(3), At(3), true},
		{"unequal concrete", At(3), At(4), false},
	}
	for _, tt := range tests {
		if got := tt.a.Matches(tt.b); got != tt.wantMatch {
			t.Errorf("%s: Matches = %v, want %v", tt.name, got, tt.wantMatch)
		}
	}
}

func TestRegisterMatchesHonorsWildcardsPerAxis(t *testing.T) {
	concrete := New(1, 2, 3)
	rowWild := NewAll(1, AllIndex, At(3))
	colWild := NewAll(1, At(2), AllIndex)
	bothWild := NewAll(1, AllIndex, AllIndex)
	otherTable := New(2, 2, 3)
	otherCell := New(1, 5, 6)

	if !concrete.Matches(rowWild) {
		t.Error("row-wildcard register should match a concrete register sharing its column")
	}
	if !concrete.Matches(colWild) {
		t.Error("col-wildcard register should match a concrete register sharing its row")
	}
	if !concrete.Matches(bothWild) {
		t.Error("fully wildcard register should match any register on the same table")
	}
	if concrete.Matches(otherTable) {
		t.Error("registers on different tables must never match")
	}
	if concrete.Matches(otherCell) {
		t.Error("distinct concrete cells on the same table must not match")
	}
}

func TestRegisterKeyDistinguishesCells(t *testing.T) {
	a := New(1, 2, 3)
	b := New(1, 2, 4)
	if a.Key() == b.Key() {
		t.Errorf("distinct registers produced the same key: %s", a.Key())
	}
	c := New(1, 2, 3)
	if a.Key() != c.Key() {
		t.Errorf("identical registers produced different keys: %s vs %s", a.Key(), c.Key())
	}
}
