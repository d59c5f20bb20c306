package value

import (
	"fmt"
	"math"
	"sync"

	"modernc.org/mathutil"

	mecherrors "mech/internal/errors"
)

// Value is the tagged sum described in spec.md section 3. Go has no sum
// types, so the sum is modeled as a closed set of concrete types
// implementing this interface — the same technique the teacher uses for
// its AST nodes, generalized here to a total, panic-free Kind().
type Value interface {
	Kind() ValueKind
	Shape() []int
	Size() int
	fmt.Stringer
}

// mismatchErr builds the canonical KindMismatch error returned by every
// As* conversion on failure (spec.md section 4.1, section 7).
func mismatchErr(expected Tag, found ValueKind) error {
	return mecherrors.NewKindMismatch(Primitive(expected), found, "expected %s, found %s", Primitive(expected), found)
}

// --- scalar primitives ---------------------------------------------------

type (
	U8    uint8
	U16   uint16
	U32   uint32
	U64   uint64
	U128  struct{ Hi, Lo uint64 }
	I8    int8
	I16   int16
	I32   int32
	I64   int64
	I128  struct{ Hi, Lo uint64 }
	Bool  bool
	Str   string
	ID    uint64 // 64-bit hash identifier
	Index uint64 // one-based position
)

func (U8) Kind() ValueKind    { return Primitive(TagU8) }
func (U16) Kind() ValueKind   { return Primitive(TagU16) }
func (U32) Kind() ValueKind   { return Primitive(TagU32) }
func (U64) Kind() ValueKind   { return Primitive(TagU64) }
func (U128) Kind() ValueKind  { return Primitive(TagU128) }
func (I8) Kind() ValueKind    { return Primitive(TagI8) }
func (I16) Kind() ValueKind   { return Primitive(TagI16) }
func (I32) Kind() ValueKind   { return Primitive(TagI32) }
func (I64) Kind() ValueKind   { return Primitive(TagI64) }
func (I128) Kind() ValueKind  { return Primitive(TagI128) }
func (Bool) Kind() ValueKind  { return Primitive(TagBool) }
func (Str) Kind() ValueKind   { return Primitive(TagString) }
func (ID) Kind() ValueKind    { return Primitive(TagID) }
func (Index) Kind() ValueKind { return Primitive(TagIndex) }

func (U8) Shape() []int    { return []int{1} }
func (U16) Shape() []int   { return []int{1} }
func (U32) Shape() []int   { return []int{1} }
func (U64) Shape() []int   { return []int{1} }
func (U128) Shape() []int  { return []int{1} }
func (I8) Shape() []int    { return []int{1} }
func (I16) Shape() []int   { return []int{1} }
func (I32) Shape() []int   { return []int{1} }
func (I64) Shape() []int   { return []int{1} }
func (I128) Shape() []int  { return []int{1} }
func (Bool) Shape() []int  { return []int{1} }
func (Str) Shape() []int   { return []int{1} }
func (ID) Shape() []int    { return []int{1} }
func (Index) Shape() []int { return []int{1} }

func (U8) Size() int     { return 1 }
func (U16) Size() int    { return 1 }
func (U32) Size() int    { return 1 }
func (U64) Size() int    { return 1 }
func (U128) Size() int   { return 1 }
func (I8) Size() int     { return 1 }
func (I16) Size() int    { return 1 }
func (I32) Size() int    { return 1 }
func (I64) Size() int    { return 1 }
func (I128) Size() int   { return 1 }
func (Bool) Size() int   { return 1 }
func (v Str) Size() int  { return len(v) }
func (ID) Size() int     { return 1 }
func (Index) Size() int  { return 1 }

func (v U8) String() string    { return fmt.Sprintf("%d", uint8(v)) }
func (v U16) String() string   { return fmt.Sprintf("%d", uint16(v)) }
func (v U32) String() string   { return fmt.Sprintf("%d", uint32(v)) }
func (v U64) String() string   { return fmt.Sprintf("%d", uint64(v)) }
func (v U128) String() string  { return fmt.Sprintf("0x%016x%016x", v.Hi, v.Lo) }
func (v I8) String() string    { return fmt.Sprintf("%d", int8(v)) }
func (v I16) String() string   { return fmt.Sprintf("%d", int16(v)) }
func (v I32) String() string   { return fmt.Sprintf("%d", int32(v)) }
func (v I64) String() string   { return fmt.Sprintf("%d", int64(v)) }
func (v I128) String() string  { return fmt.Sprintf("0x%016x%016x", v.Hi, v.Lo) }
func (v Bool) String() string  { return fmt.Sprintf("%t", bool(v)) }
func (v Str) String() string   { return string(v) }
func (v ID) String() string    { return fmt.Sprintf("id(%d)", uint64(v)) }
func (v Index) String() string { return fmt.Sprintf("ix(%d)", uint64(v)) }

// --- floats --------------------------------------------------------------

// F32 and F64 wrap the IEEE-754 primitives with a total order and a
// deterministic bit-pattern hash, per spec.md section 4.1 ("Numeric
// wrappers for floats enforce a total order and a deterministic hash
// (bit-pattern based) so floats are usable as map/set keys").
type F32 float32
type F64 float64

func (F32) Kind() ValueKind { return Primitive(TagF32) }
func (F64) Kind() ValueKind { return Primitive(TagF64) }
func (F32) Shape() []int    { return []int{1} }
func (F64) Shape() []int    { return []int{1} }
func (F32) Size() int       { return 1 }
func (F64) Size() int       { return 1 }
func (v F32) String() string { return fmt.Sprintf("%g", float32(v)) }
func (v F64) String() string { return fmt.Sprintf("%g", float64(v)) }

// Cmp gives F32 a total order: NaN sorts after every other value and
// equals only itself, matching the bit-pattern-hash requirement (a total
// order is needed for F32 to be a valid BTree/sorted-set key; IEEE-754's
// own partial order is not enough).
func (v F32) Cmp(other F32) int {
	a, b := float32(v), float32(other)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	default: // at least one NaN
		aNaN, bNaN := a != a, b != b
		switch {
		case aNaN && bNaN:
			return 0
		case aNaN:
			return 1
		default:
			return -1
		}
	}
}

func (v F64) Cmp(other F64) int {
	a, b := float64(v), float64(other)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	default:
		aNaN, bNaN := a != a, b != b
		switch {
		case aNaN && bNaN:
			return 0
		case aNaN:
			return 1
		default:
			return -1
		}
	}
}

// Hash returns a deterministic bit-pattern hash: -0.0 and +0.0 hash to the
// same value (both compare equal under Cmp) by canonicalizing to +0.0.
func (v F32) Hash() uint32 {
	f := float32(v)
	if f == 0 {
		f = 0
	}
	return math.Float32bits(f)
}

func (v F64) Hash() uint64 {
	f := float64(v)
	if f == 0 {
		f = 0
	}
	return math.Float64bits(f)
}

// --- rational --------------------------------------------------------------

// R64 is a rational number. Den is never 0; arithmetic normalizes sign
// into Num, per spec.md section 4.1.
type R64 struct {
	Num int64
	Den int64
}

func (R64) Kind() ValueKind { return Primitive(TagRational) }
func (R64) Shape() []int    { return []int{1} }
func (R64) Size() int       { return 1 }
func (v R64) String() string { return fmt.Sprintf("%d/%d", v.Num, v.Den) }

// NewR64 builds a reduced rational, num/den in lowest terms with Den
// always positive and any sign folded into Num, via
// modernc.org/mathutil.GCD the same way native_combinatorics.go's
// binomial reduces its intermediate products. Panics on a zero
// denominator rather than constructing an unusable 1/0 value.
func NewR64(num, den int64) R64 {
	if den == 0 {
		panic("value.NewR64: zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return R64{Num: 0, Den: 1}
	}
	if g := mathutil.GCD(abs64(num), den); g > 1 {
		num /= g
		den /= g
	}
	return R64{Num: num, Den: den}
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// Add, Sub, Mul, and Div all route their result through NewR64, so
// every rational produced by arithmetic comes out already reduced and
// sign-normalized.
func (a R64) Add(b R64) R64 { return NewR64(a.Num*b.Den+b.Num*a.Den, a.Den*b.Den) }
func (a R64) Sub(b R64) R64 { return NewR64(a.Num*b.Den-b.Num*a.Den, a.Den*b.Den) }
func (a R64) Mul(b R64) R64 { return NewR64(a.Num*b.Num, a.Den*b.Den) }

// Div panics on division by a zero rational, the same way NewR64
// panics on a zero denominator — both are the Den-!= 0 invariant
// crossing from "constructed" to "divided by".
func (a R64) Div(b R64) R64 { return NewR64(a.Num*b.Den, a.Den*b.Num) }

func (a R64) Equal(b R64) bool { return a.Num == b.Num && a.Den == b.Den }

// --- complex ---------------------------------------------------------------

// C64 provides field operations and bitwise-component equality per
// spec.md section 4.1.
type C64 struct {
	Re, Im float64
}

func (C64) Kind() ValueKind { return Primitive(TagComplex) }
func (C64) Shape() []int    { return []int{1} }
func (C64) Size() int       { return 1 }
func (v C64) String() string {
	if v.Im < 0 {
		return fmt.Sprintf("%g%gi", v.Re, v.Im)
	}
	return fmt.Sprintf("%g+%gi", v.Re, v.Im)
}

func (a C64) Add(b C64) C64 { return C64{a.Re + b.Re, a.Im + b.Im} }
func (a C64) Sub(b C64) C64 { return C64{a.Re - b.Re, a.Im - b.Im} }
func (a C64) Mul(b C64) C64 {
	return C64{a.Re*b.Re - a.Im*b.Im, a.Re*b.Im + a.Im*b.Re}
}
func (a C64) Equal(b C64) bool { return a.Re == b.Re && a.Im == b.Im }

// --- empty / atom ------------------------------------------------------------

type Empty struct{}

func (Empty) Kind() ValueKind  { return Primitive(TagEmpty) }
func (Empty) Shape() []int     { return []int{1} }
func (Empty) Size() int        { return 0 }
func (Empty) String() string   { return "<empty>" }

// Atom is an interned symbol with a dictionary back-reference (spec.md
// section 3). The Name is carried alongside the ID purely for debug
// display; dispatch and equality use ID only.
type Atom struct {
	ID   uint64
	Name string
}

func (a Atom) Kind() ValueKind { return AtomKind(a.ID) }
func (Atom) Shape() []int      { return []int{1} }
func (Atom) Size() int         { return 1 }
func (a Atom) String() string  { return "`" + a.Name }

// --- reference cell ----------------------------------------------------------

// Cell is the shared-ownership interior-mutable cell described in
// spec.md section 3 ("Reference cell") and section 4.6 ("Scoped
// Acquisition"). It is the only source of in-graph aliasing.
type Cell struct {
	mu  sync.RWMutex
	val Value
}

func NewCell(v Value) *Cell { return &Cell{val: v} }

// Borrow acquires a shared read lock and returns a release function; the
// caller must defer the release to satisfy the "no borrow held across a
// plan-step boundary" invariant.
func (c *Cell) Borrow() (Value, func()) {
	c.mu.RLock()
	return c.val, c.mu.RUnlock
}

// BorrowMut acquires the exclusive write lock. Exactly one kernel holds
// the mutable borrow of any output cell at a time (spec.md section 4.6).
func (c *Cell) BorrowMut() (set func(Value), release func()) {
	c.mu.Lock()
	return func(v Value) { c.val = v }, c.mu.Unlock
}

// Get is a convenience non-scoped read for call sites that do not need to
// hold the lock across further work (e.g. printing).
func (c *Cell) Get() Value {
	v, release := c.Borrow()
	defer release()
	return v
}

func (c *Cell) Set(v Value) {
	set, release := c.BorrowMut()
	defer release()
	set(v)
}

// Reference is a mutable-reference Value wrapping a Cell, per spec.md
// section 3. Dispatch unwraps it explicitly (section 4.2); it is never
// itself passed to a kernel's inner loop.
type Reference struct {
	Cell *Cell
}

func (r Reference) Kind() ValueKind { return ReferenceKind(r.Cell.Get().Kind()) }
func (Reference) Shape() []int      { return []int{1} }
func (Reference) Size() int         { return 1 }
func (r Reference) String() string  { return "&" + r.Cell.Get().String() }
