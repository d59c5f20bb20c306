package interp

import (
	"testing"

	"mech/internal/block"
	"mech/internal/register"
	"mech/internal/value"
)

func TestProcessTransactionNewTableThenSet(t *testing.T) {
	c := NewCore()
	tx := Transaction{Changes: []Change{
		{Kind: ChangeNewTable, Table: 1, Rows: 2, Cols: 2},
		{Kind: ChangeSet, Table: 1, Cells: []CellWrite{
			{Row: 0, Col: 0, Value: value.I64(7)},
		}},
	}}
	if err := c.ProcessTransaction(tx); err != nil {
		t.Fatalf("ProcessTransaction: %v", err)
	}
	tbl, ok := c.Tables[1]
	if !ok {
		t.Fatal("table 1 was not created")
	}
	got := tbl.Cols[0].Data[0]
	if got != value.I64(7) {
		t.Errorf("cell (0,0) = %v, want I64(7)", got)
	}
}

func TestProcessTransactionSetOnMissingTableErrors(t *testing.T) {
	c := NewCore()
	tx := Transaction{Changes: []Change{
		{Kind: ChangeSet, Table: 99, Cells: []CellWrite{{Row: 0, Col: 0, Value: value.I64(1)}}},
	}}
	if err := c.ProcessTransaction(tx); err == nil {
		t.Fatal("expected error setting a cell on a nonexistent table")
	}
}

func TestProcessTransactionRemoveWritesEmpty(t *testing.T) {
	c := NewCore()
	tx := Transaction{Changes: []Change{
		{Kind: ChangeNewTable, Table: 1, Rows: 1, Cols: 1},
		{Kind: ChangeSet, Table: 1, Cells: []CellWrite{{Row: 0, Col: 0, Value: value.I64(5)}}},
		{Kind: ChangeRemove, Table: 1, Cells: []CellWrite{{Row: 0, Col: 0}}},
	}}
	if err := c.ProcessTransaction(tx); err != nil {
		t.Fatalf("ProcessTransaction: %v", err)
	}
	got := c.Tables[1].Cols[0].Data[0]
	if _, ok := got.(value.Empty); !ok {
		t.Errorf("cell after Remove = %v (%T), want value.Empty", got, got)
	}
}

func TestProcessTransactionRenameColumn(t *testing.T) {
	c := NewCore()
	tx := Transaction{Changes: []Change{
		{Kind: ChangeNewTable, Table: 1, Rows: 1, Cols: 1},
		{Kind: ChangeRenameColumn, Table: 1, ColIx: 0, Alias: "x"},
	}}
	if err := c.ProcessTransaction(tx); err != nil {
		t.Fatalf("ProcessTransaction: %v", err)
	}
	if c.Tables[1].Cols[0].Name != "x" {
		t.Errorf("column 0 name = %q, want x", c.Tables[1].Cols[0].Name)
	}
}

func TestProcessTransactionRemoveTable(t *testing.T) {
	c := NewCore()
	tx := Transaction{Changes: []Change{
		{Kind: ChangeNewTable, Table: 1, Rows: 1, Cols: 1},
		{Kind: ChangeRemoveTable, Table: 1},
	}}
	if err := c.ProcessTransaction(tx); err != nil {
		t.Fatalf("ProcessTransaction: %v", err)
	}
	if _, ok := c.Tables[1]; ok {
		t.Error("table 1 still present after RemoveTable")
	}
}

func TestProcessTransactionAbortsWithoutRollingBackPriorChanges(t *testing.T) {
	c := NewCore()
	tx := Transaction{Changes: []Change{
		{Kind: ChangeNewTable, Table: 1, Rows: 1, Cols: 1},
		{Kind: ChangeSet, Table: 1, Cells: []CellWrite{{Row: 0, Col: 0, Value: value.I64(3)}}},
		{Kind: ChangeSet, Table: 404, Cells: []CellWrite{{Row: 0, Col: 0, Value: value.I64(1)}}},
	}}
	if err := c.ProcessTransaction(tx); err == nil {
		t.Fatal("expected the transaction to fail on the unknown table")
	}
	got := c.Tables[1].Cols[0].Data[0]
	if got != value.I64(3) {
		t.Errorf("earlier Set in the failed transaction was rolled back: cell = %v, want I64(3)", got)
	}
}

// A Set on a register a scheduled block triggers on must run that
// block's schedule as part of the same transaction.
func TestProcessTransactionSetRunsScheduleForTouchedRegister(t *testing.T) {
	c := NewCore()
	ran := false
	trig := register.New(1, 0, 0)
	b := block.New(1, []register.Register{trig}, nil, nil)
	b.MarkReady()
	b.Plan = []block.Step{{Name: "count", Solve: func() error { ran = true; return nil }}}

	c.Schedule.AddBlock(b)
	if err := c.Schedule.ScheduleBlocks(); err != nil {
		t.Fatalf("ScheduleBlocks: %v", err)
	}

	tx := Transaction{Changes: []Change{
		{Kind: ChangeNewTable, Table: 1, Rows: 1, Cols: 1},
		{Kind: ChangeSet, Table: 1, Cells: []CellWrite{{Row: 0, Col: 0, Value: value.I64(1)}}},
	}}
	if err := c.ProcessTransaction(tx); err != nil {
		t.Fatalf("ProcessTransaction: %v", err)
	}
	if !ran {
		t.Error("Set on the block's trigger register did not run its schedule")
	}
}
