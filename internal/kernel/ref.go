package kernel

import "mech/internal/value"

// Ref is the scoped-acquisition handle kernels use to read and write
// their bound arguments and output (spec.md section 4.6). It wraps
// value.Cell, whose Borrow/BorrowMut already return a release function;
// Ref exists as the kernel-facing name so native_*.go files read as
// "borrow this argument, write that output" rather than reaching into
// the value package's lower-level cell directly.
type Ref struct {
	cell *value.Cell
}

// NewRef wraps a fresh cell holding v.
func NewRef(v value.Value) Ref { return Ref{cell: value.NewCell(v)} }

// WrapRef wraps an existing cell — used when a kernel's output cell is
// shared with a downstream block's input register.
func WrapRef(c *value.Cell) Ref { return Ref{cell: c} }

// Borrow acquires a shared read lock on the underlying value and
// returns a release function the caller must defer. Per spec.md section
// 4.6, a borrow must never be held across a plan-step boundary — each
// kernel's Solve acquires and releases its borrows within one call.
func (r Ref) Borrow() (value.Value, func()) { return r.cell.Borrow() }

// BorrowMut acquires the exclusive write lock, returning a setter and a
// release function. Exactly one kernel holds the mutable borrow of any
// given output register at a time, enforced structurally by the block
// compiler assigning disjoint output register sets per block rather
// than by any lock-ordering discipline here.
func (r Ref) BorrowMut() (set func(value.Value), release func()) { return r.cell.BorrowMut() }

// Get is a convenience non-scoped read.
func (r Ref) Get() value.Value { return r.cell.Get() }

// Set is a convenience non-scoped write.
func (r Ref) Set(v value.Value) { r.cell.Set(v) }

// Cell exposes the underlying cell, for code (e.g. the schedule's
// register wiring) that needs to share the same backing storage between
// a producing block's output and a consuming block's input.
func (r Ref) Cell() *value.Cell { return r.cell }
