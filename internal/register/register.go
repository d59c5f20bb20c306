// Package register defines the dependency key used throughout the
// scheduler: a (table, row, column) triple identifying one cell (or a
// wildcard slice of cells) a block reads or writes. Grounded on
// original_source/src/core/src/schedule.rs, whose Schedule indexes are
// keyed on exactly this triple ((TableId, RegisterIndex, RegisterIndex)).
package register

import "fmt"

// Index is either a concrete zero-based row/column position (the same
// indexing the host boundary's cell writes use) or the All
// wildcard, matching spec.md section 3's "Register = (table-id,
// row-index, col-index) dependency key, with All wildcards".
type Index struct {
	All   bool
	Value int
}

// AllIndex is the wildcard index: "every row" or "every column".
var AllIndex = Index{All: true}

// At builds a concrete, non-wildcard index.
func At(v int) Index { return Index{Value: v} }

func (i Index) String() string {
	if i.All {
		return "*"
	}
	return fmt.Sprintf("%d", i.Value)
}

// Matches reports whether i and other refer to the same cell(s) — two
// wildcards match each other, a wildcard matches any concrete index, and
// two concrete indices match only if equal.
func (i Index) Matches(other Index) bool {
	if i.All || other.All {
		return true
	}
	return i.Value == other.Value
}

// Register is the scheduler's dependency key.
type Register struct {
	Table uint64
	Row   Index
	Col   Index
}

// New builds a concrete Register (no wildcards).
func New(table uint64, row, col int) Register {
	return Register{Table: table, Row: At(row), Col: At(col)}
}

// NewAll builds a Register whose row and/or column are wildcards.
func NewAll(table uint64, row, col Index) Register {
	return Register{Table: table, Row: row, Col: col}
}

// Key renders a canonical map key for Register, used as the key type in
// the scheduler's four indexes (a plain struct would work as a Go map
// key directly, but Key gives index construction and logging a stable
// string form independent of struct layout).
func (r Register) Key() string {
	return fmt.Sprintf("%d:%s:%s", r.Table, r.Row, r.Col)
}

func (r Register) String() string { return r.Key() }

// Matches reports whether r and other identify overlapping cells,
// honoring All wildcards on either side.
func (r Register) Matches(other Register) bool {
	return r.Table == other.Table && r.Row.Matches(other.Row) && r.Col.Matches(other.Col)
}
