// Package interp implements the host <-> core boundary of spec.md
// section 6: the Transaction/Change types a host submits, and the Core
// that applies them to tables and drives the scheduler. Grounded on
// original_source/src/core/src/core.rs's Core::process_transaction, and
// on the teacher's internal/module/module.go for the "named registry of
// built-ins resolved by string" idiom this package reuses for
// io/print-style host callbacks.
package interp

import (
	"github.com/rs/zerolog"

	mecherrors "mech/internal/errors"
	"mech/internal/kernel"
	"mech/internal/register"
	"mech/internal/schedule"
	"mech/internal/table"
	"mech/internal/value"
)

var log = zerolog.Nop()

// SetLogger installs the package-level diagnostic logger.
func SetLogger(l zerolog.Logger) { log = l }

// ChangeKind discriminates the five host-submitted mutation shapes
// named by spec.md section 6's Change sum type.
type ChangeKind int

const (
	ChangeSet ChangeKind = iota
	ChangeRemove
	ChangeNewTable
	ChangeRemoveTable
	ChangeRenameColumn
)

// CellWrite is one (row, col, value) triple of a Set or Remove change.
// Remove ignores Value and writes value.Empty{} instead.
type CellWrite struct {
	Row, Col int
	Value    value.Value
}

// Change is one mutation a host asks the core to apply, mirroring
// spec.md section 6's `Change ∈ { Set, Remove, NewTable, RemoveTable,
// RenameColumn }` exactly; the fields that don't apply to a given Kind
// are left zero.
type Change struct {
	Kind  ChangeKind
	Table uint64
	Cells []CellWrite       // Set, Remove
	Rows  int               // NewTable
	Cols  int               // NewTable
	ColIx int               // RenameColumn
	Alias string            // RenameColumn
}

// Transaction is a batch of Changes applied atomically from the
// scheduler's point of view: every change in the batch is applied
// before any resulting schedule runs (spec.md section 6).
type Transaction struct {
	Changes []Change
}

// Core holds every table this runtime knows about plus the scheduler
// wired against their registers — the Go analogue of original_source's
// Core struct, scoped to what spec.md section 6 actually exposes at the
// boundary (table storage and schedule execution; block compilation is
// the caller's responsibility via internal/block and internal/compiler).
type Core struct {
	Tables   map[uint64]*table.Table
	Schedule *schedule.Schedule
	Natives  *kernel.Registry
}

// NewCore builds an empty Core with a standard native-function registry
// wired in, ready to accept AddTable/ProcessTransaction calls.
func NewCore() *Core {
	return &Core{
		Tables:   map[uint64]*table.Table{},
		Schedule: schedule.New(),
		Natives:  kernel.StandardRegistry(),
	}
}

// ProcessTransaction applies every change in tx in order, then runs the
// schedule for every register a Set/Remove change actually touched —
// mirroring Core::process_transaction's "apply, then propagate" policy.
// A change that fails (unknown table, schema mismatch, out-of-range
// cell) aborts the remaining changes in this transaction and returns
// the error; changes already applied are not rolled back, matching
// spec.md section 7's "no built-in timeouts / no interruption" stance
// on partial progress — the host decides how to recover.
func (c *Core) ProcessTransaction(tx Transaction) error {
	var touched []register.Register
	for _, ch := range tx.Changes {
		regs, err := c.applyChange(ch)
		if err != nil {
			if me, ok := err.(*mecherrors.MechError); ok {
				return me
			}
			return mecherrors.Wrap(err, mecherrors.GenericError, "transaction failed")
		}
		touched = append(touched, regs...)
	}
	for _, r := range touched {
		if err := c.Schedule.RunSchedule(r); err != nil {
			log.Debug().Str("register", r.String()).Err(err).Msg("no schedule for touched register")
		}
	}
	return nil
}

func (c *Core) applyChange(ch Change) ([]register.Register, error) {
	switch ch.Kind {
	case ChangeNewTable:
		c.Tables[ch.Table] = table.NewSized(ch.Rows, ch.Cols)
		return nil, nil

	case ChangeRemoveTable:
		if _, ok := c.Tables[ch.Table]; !ok {
			return nil, mecherrors.New(mecherrors.MissingTable, "remove_table: no table %d", ch.Table)
		}
		delete(c.Tables, ch.Table)
		return nil, nil

	case ChangeRenameColumn:
		t, ok := c.Tables[ch.Table]
		if !ok {
			return nil, mecherrors.New(mecherrors.MissingTable, "rename_column: no table %d", ch.Table)
		}
		if err := t.RenameColumn(ch.ColIx, ch.Alias); err != nil {
			return nil, err
		}
		return nil, nil

	case ChangeSet:
		t, ok := c.Tables[ch.Table]
		if !ok {
			return nil, mecherrors.New(mecherrors.MissingTable, "set: no table %d", ch.Table)
		}
		regs := make([]register.Register, 0, len(ch.Cells))
		for _, cell := range ch.Cells {
			if err := t.SetCell(cell.Row, cell.Col, cell.Value); err != nil {
				return nil, err
			}
			regs = append(regs, register.New(ch.Table, cell.Row, cell.Col))
		}
		return regs, nil

	case ChangeRemove:
		t, ok := c.Tables[ch.Table]
		if !ok {
			return nil, mecherrors.New(mecherrors.MissingTable, "remove: no table %d", ch.Table)
		}
		regs := make([]register.Register, 0, len(ch.Cells))
		for _, cell := range ch.Cells {
			if err := t.SetCell(cell.Row, cell.Col, value.Empty{}); err != nil {
				return nil, err
			}
			regs = append(regs, register.New(ch.Table, cell.Row, cell.Col))
		}
		return regs, nil

	default:
		return nil, mecherrors.New(mecherrors.GenericError, "unknown change kind %d", ch.Kind)
	}
}
