// Package table implements Mech's typed, column-oriented Table
// described in spec.md section 3, grounded directly on
// original_source/src/core/src/structures/table.rs's MechTable: an
// insertion-ordered set of named, kinded columns, schema-checked before
// every append.
package table

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	mecherrors "mech/internal/errors"
	"mech/internal/value"
)

// Column is one ordered column of a Table: a name, its declared kind,
// and its backing values. Columns never reorder after construction —
// order is the wire/display order, matching the original's IndexMap.
type Column struct {
	Name string
	Kind value.ValueKind
	Data []value.Value
}

// Table is Mech's row/column typed table value.
type Table struct {
	Rows    int
	Cols    []Column
	index   map[string]int // column name -> index into Cols
	primary int             // index of the primary column, -1 if none
}

// New builds an empty table with the given column schema.
func New(cols []Column, primary int) *Table {
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[c.Name] = i
	}
	return &Table{Cols: cols, index: idx, primary: primary}
}

// NewSized builds a table from a bare (rows, cols) extent with no
// schema yet, as produced by the host boundary's NewTable change
// (spec.md section 6: "NewTable(id, rows, cols)" carries no column
// kinds). Columns are named positionally ("0", "1", ...) and every cell
// starts Empty; a later Set change both assigns a value and, on first
// write to a column, narrows that column's declared Kind to match.
func NewSized(rows, cols int) *Table {
	columns := make([]Column, cols)
	idx := make(map[string]int, cols)
	for c := 0; c < cols; c++ {
		name := fmt.Sprintf("%d", c)
		data := make([]value.Value, rows)
		for r := range data {
			data[r] = value.Empty{}
		}
		columns[c] = Column{Name: name, Kind: value.Primitive(value.TagEmpty), Data: data}
		idx[name] = c
	}
	return &Table{Rows: rows, Cols: columns, index: idx, primary: -1}
}

// SetCell writes v into (row, col), zero-based, narrowing that column's
// declared Kind on its first non-Empty write (NewSized leaves every
// column's kind as Empty until real data arrives).
func (t *Table) SetCell(row, col int, v value.Value) error {
	if col < 0 || col >= len(t.Cols) {
		return mecherrors.New(mecherrors.IndexOutOfBounds, "table: column index %d out of range", col)
	}
	if row < 0 || row >= t.Rows {
		return mecherrors.New(mecherrors.IndexOutOfBounds, "table: row index %d out of range", row)
	}
	if _, empty := v.(value.Empty); !empty {
		if t.Cols[col].Kind.Tag == value.TagEmpty {
			t.Cols[col].Kind = v.Kind()
		} else if !t.Cols[col].Kind.Equal(v.Kind()) {
			return mecherrors.NewKindMismatch(t.Cols[col].Kind, v.Kind(), "table: column %q kind mismatch", t.Cols[col].Name)
		}
	}
	t.Cols[col].Data[row] = v
	return nil
}

// RenameColumn assigns alias as the display name of column ix
// (spec.md section 6's RenameColumn(table, ix, alias) host change).
func (t *Table) RenameColumn(ix int, alias string) error {
	if ix < 0 || ix >= len(t.Cols) {
		return mecherrors.New(mecherrors.IndexOutOfBounds, "table: column index %d out of range", ix)
	}
	delete(t.index, t.Cols[ix].Name)
	t.Cols[ix].Name = alias
	t.index[alias] = ix
	return nil
}

func (t *Table) Kind() value.ValueKind {
	fields := make([]value.RecordField, len(t.Cols))
	for i, c := range t.Cols {
		fields[i] = value.RecordField{Name: c.Name, Kind: c.Kind}
	}
	return value.Table(fields, t.primary)
}

func (t *Table) Shape() []int { return []int{t.Rows, len(t.Cols)} }
func (t *Table) Size() int    { return t.Rows * len(t.Cols) }

func (t *Table) String() string {
	names := make([]string, len(t.Cols))
	for i, c := range t.Cols {
		names[i] = c.Name
	}
	return fmt.Sprintf("table[%dx%d](%s)", t.Rows, len(t.Cols), strings.Join(names, ","))
}

// Record is one row presented as a name -> value map, used both as the
// append-record input and as get_record's return type.
type Record struct {
	Names  []string
	Values []value.Value
}

// checkRecordSchema mirrors MechTable::check_record_schema: every field
// present in the record must match this table's column kind (name
// checked only when the table already names that column), and the
// record is not required to cover every column.
func (t *Table) checkRecordSchema(r Record) error {
	for i, name := range r.Names {
		colIdx, ok := t.index[name]
		if !ok {
			continue
		}
		expected := t.Cols[colIdx].Kind
		actual := r.Values[i].Kind()
		if !expected.Equal(actual) {
			return mecherrors.NewKindMismatch(expected, actual, "table: record field %q kind mismatch", name)
		}
	}
	return nil
}

// AppendRecord validates the record's schema against this table's
// columns and, on success, appends one row.
func (t *Table) AppendRecord(r Record) error {
	if err := t.checkRecordSchema(r); err != nil {
		return err
	}
	present := make(map[string]value.Value, len(r.Names))
	for i, n := range r.Names {
		present[n] = r.Values[i]
	}
	for i := range t.Cols {
		v, ok := present[t.Cols[i].Name]
		if !ok {
			v = value.Empty{}
		}
		t.Cols[i].Data = append(t.Cols[i].Data, v)
	}
	t.Rows++
	return nil
}

// checkTableSchema mirrors MechTable::check_table_schema: column names
// and kinds must match exactly, in both directions.
func (t *Table) checkTableSchema(other *Table) error {
	if len(t.Cols) != len(other.Cols) {
		return mecherrors.New(mecherrors.SchemaMismatch, "table: column count %d != %d", len(t.Cols), len(other.Cols))
	}
	for _, c := range t.Cols {
		oi, ok := other.index[c.Name]
		if !ok {
			return mecherrors.New(mecherrors.SchemaMismatch, "table: column %q not found in source table", c.Name)
		}
		if !c.Kind.Equal(other.Cols[oi].Kind) {
			return mecherrors.NewKindMismatch(c.Kind, other.Cols[oi].Kind, "table: column %q kind mismatch", c.Name)
		}
	}
	return nil
}

// AppendTable validates schema compatibility and appends every row of
// other onto t, in column order.
func (t *Table) AppendTable(other *Table) error {
	if err := t.checkTableSchema(other); err != nil {
		return err
	}
	for i := range t.Cols {
		oi := other.index[t.Cols[i].Name]
		t.Cols[i].Data = append(t.Cols[i].Data, other.Cols[oi].Data...)
	}
	t.Rows += other.Rows
	return nil
}

// GetRecord returns row ix (zero-based) as a Record, or ok=false if out
// of range.
func (t *Table) GetRecord(ix int) (Record, bool) {
	if ix < 0 || ix >= t.Rows {
		return Record{}, false
	}
	names := make([]string, len(t.Cols))
	vals := make([]value.Value, len(t.Cols))
	for i, c := range t.Cols {
		names[i] = c.Name
		vals[i] = c.Data[ix]
	}
	return Record{Names: names, Values: vals}, true
}

// DebugString renders a compact, human-oriented summary of the table's
// shape and approximate in-memory footprint, used by diagnostic logging
// rather than by any wire format.
func (t *Table) DebugString() string {
	approxBytes := uint64(t.Rows * len(t.Cols) * 8)
	return fmt.Sprintf("table[%dx%d] (~%s)", t.Rows, len(t.Cols), humanize.Bytes(approxBytes))
}
