// Package value implements Mech's tagged runtime Value and its structural
// ValueKind, described in spec.md section 3 ("Value", "ValueKind").
package value

import (
	"fmt"
	"strings"
)

// Tag identifies the shape of a ValueKind. It is the Go analogue of the
// original implementation's ValueKind enum discriminant
// (original_source/src/core/src/compiler.rs TypeTag), kept separate from
// the bytecode TypeTag so this package has no dependency on the compiler.
type Tag uint8

const (
	TagU8 Tag = iota
	TagU16
	TagU32
	TagU64
	TagU128
	TagI8
	TagI16
	TagI32
	TagI64
	TagI128
	TagF32
	TagF64
	TagRational
	TagComplex
	TagString
	TagBool
	TagID
	TagIndex
	TagEmpty
	TagAtom
	TagMatrix
	TagRecord
	TagTable
	TagTuple
	TagSet
	TagMap
	TagOption
	TagReference
	TagEnum
)

func (t Tag) String() string {
	switch t {
	case TagU8:
		return "u8"
	case TagU16:
		return "u16"
	case TagU32:
		return "u32"
	case TagU64:
		return "u64"
	case TagU128:
		return "u128"
	case TagI8:
		return "i8"
	case TagI16:
		return "i16"
	case TagI32:
		return "i32"
	case TagI64:
		return "i64"
	case TagI128:
		return "i128"
	case TagF32:
		return "f32"
	case TagF64:
		return "f64"
	case TagRational:
		return "rational"
	case TagComplex:
		return "complex"
	case TagString:
		return "string"
	case TagBool:
		return "bool"
	case TagID:
		return "id"
	case TagIndex:
		return "index"
	case TagEmpty:
		return "empty"
	case TagAtom:
		return "atom"
	case TagMatrix:
		return "matrix"
	case TagRecord:
		return "record"
	case TagTable:
		return "table"
	case TagTuple:
		return "tuple"
	case TagSet:
		return "set"
	case TagMap:
		return "map"
	case TagOption:
		return "option"
	case TagReference:
		return "reference"
	case TagEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// MatrixShape is the closed set of matrix shapes from spec.md section 3.
type MatrixShape uint8

const (
	ShapeMatrix1 MatrixShape = iota
	ShapeMatrix2
	ShapeMatrix3
	ShapeMatrix4
	ShapeMatrix2x3
	ShapeMatrix3x2
	ShapeDMatrix
	ShapeVector2
	ShapeVector3
	ShapeVector4
	ShapeDVector
	ShapeRowVector2
	ShapeRowVector3
	ShapeRowVector4
	ShapeRowDVector
)

func (s MatrixShape) String() string {
	names := [...]string{
		"Matrix1", "Matrix2", "Matrix3", "Matrix4", "Matrix2x3", "Matrix3x2",
		"DMatrix", "Vector2", "Vector3", "Vector4", "DVector",
		"RowVector2", "RowVector3", "RowVector4", "RowDVector",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "UnknownShape"
}

// Dims returns the fixed (rows, cols) for shapes whose extent is known at
// compile time, and ok=false for the dynamic shapes (DMatrix/DVector/
// RowDVector), whose extents only exist at runtime on the Matrix value.
func (s MatrixShape) Dims() (rows, cols int, ok bool) {
	switch s {
	case ShapeMatrix1:
		return 1, 1, true
	case ShapeMatrix2:
		return 2, 2, true
	case ShapeMatrix3:
		return 3, 3, true
	case ShapeMatrix4:
		return 4, 4, true
	case ShapeMatrix2x3:
		return 2, 3, true
	case ShapeMatrix3x2:
		return 3, 2, true
	case ShapeVector2:
		return 2, 1, true
	case ShapeVector3:
		return 3, 1, true
	case ShapeVector4:
		return 4, 1, true
	case ShapeRowVector2:
		return 1, 2, true
	case ShapeRowVector3:
		return 1, 3, true
	case ShapeRowVector4:
		return 1, 4, true
	default:
		return 0, 0, false
	}
}

// RecordField is one (name, kind) entry of a Record or Table ValueKind.
// Order is significant: it is the column/field order used for dispatch,
// printing, and bytecode type-section encoding.
type RecordField struct {
	Name string
	Kind ValueKind
}

// Kind is the structural type of a Value (spec.md section 3, "ValueKind").
// Kinds compare structurally via Key(), which is how the bytecode
// compiler's type section canonicalizes them (spec.md section 4.5).
type ValueKind struct {
	Tag Tag

	// Matrix
	Elem *ValueKind
	Dims []int // len 2 for fixed shapes ([rows,cols]); len 0 means "unspecified" (rare)
	Shape MatrixShape

	// Record / Table
	Fields     []RecordField // also used for Table's ordered columns
	PrimaryCol int           // Table only

	// Tuple
	Elems []ValueKind

	// Set
	SetMax *int

	// Map
	MapKey *ValueKind
	MapVal *ValueKind

	// Option / Reference
	Inner *ValueKind

	// Enum / Atom
	SpaceID uint64
	AtomID  uint64
}

func Primitive(t Tag) ValueKind { return ValueKind{Tag: t} }

func Matrix(elem ValueKind, shape MatrixShape, dims []int) ValueKind {
	e := elem
	return ValueKind{Tag: TagMatrix, Elem: &e, Shape: shape, Dims: dims}
}

// RecordKind, TupleKind, SetKind, MapKind, and OptionKind build the
// ValueKind for their respective Value types (composite.go). Suffixed
// "Kind" because Go forbids a type and a function sharing one identifier
// in the same package, and the Value types themselves are named Record,
// Tuple, Set, Map, Option.
func RecordKind(fields []RecordField) ValueKind {
	return ValueKind{Tag: TagRecord, Fields: fields}
}

func Table(cols []RecordField, primaryCol int) ValueKind {
	return ValueKind{Tag: TagTable, Fields: cols, PrimaryCol: primaryCol}
}

func TupleKind(elems []ValueKind) ValueKind {
	return ValueKind{Tag: TagTuple, Elems: elems}
}

func SetKind(elem ValueKind, max *int) ValueKind {
	e := elem
	return ValueKind{Tag: TagSet, Elem: &e, SetMax: max}
}

func MapKind(key, val ValueKind) ValueKind {
	return ValueKind{Tag: TagMap, MapKey: &key, MapVal: &val}
}

func OptionKind(inner ValueKind) ValueKind {
	return ValueKind{Tag: TagOption, Inner: &inner}
}

// ReferenceKind builds the ValueKind for a Reference Value wrapping inner.
// Named distinctly from the Value type Reference (value.go) — Go forbids
// a type and a function sharing one identifier in the same package.
func ReferenceKind(inner ValueKind) ValueKind {
	return ValueKind{Tag: TagReference, Inner: &inner}
}

func Enum(spaceID uint64) ValueKind { return ValueKind{Tag: TagEnum, SpaceID: spaceID} }

// AtomKind builds the ValueKind for an Atom Value with the given interned
// id. Named distinctly from the Value type Atom (value.go).
func AtomKind(id uint64) ValueKind { return ValueKind{Tag: TagAtom, AtomID: id} }

// Key renders a canonical string for structural equality / map-keying.
// Two kinds with the same Key are the same ValueKind, which is exactly
// the property the bytecode type section's interner (spec.md section 4.5)
// relies on: "structural equality at the kind level yields pointer
// equality at the type-id level".
func (k ValueKind) Key() string {
	var b strings.Builder
	k.writeKey(&b)
	return b.String()
}

func (k ValueKind) writeKey(b *strings.Builder) {
	switch k.Tag {
	case TagMatrix:
		fmt.Fprintf(b, "Matrix(%s,%d", k.Elem.Key(), k.Shape)
		for _, d := range k.Dims {
			fmt.Fprintf(b, ",%d", d)
		}
		b.WriteByte(')')
	case TagRecord:
		b.WriteString("Record(")
		for i, f := range k.Fields {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(b, "%s:%s", f.Name, f.Kind.Key())
		}
		b.WriteByte(')')
	case TagTable:
		fmt.Fprintf(b, "Table(%d;", k.PrimaryCol)
		for i, f := range k.Fields {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(b, "%s:%s", f.Name, f.Kind.Key())
		}
		b.WriteByte(')')
	case TagTuple:
		b.WriteString("Tuple(")
		for i, e := range k.Elems {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(e.Key())
		}
		b.WriteByte(')')
	case TagSet:
		b.WriteString("Set(")
		b.WriteString(k.Elem.Key())
		if k.SetMax != nil {
			fmt.Fprintf(b, ",%d", *k.SetMax)
		}
		b.WriteByte(')')
	case TagMap:
		fmt.Fprintf(b, "Map(%s,%s)", k.MapKey.Key(), k.MapVal.Key())
	case TagOption:
		fmt.Fprintf(b, "Option(%s)", k.Inner.Key())
	case TagReference:
		fmt.Fprintf(b, "Reference(%s)", k.Inner.Key())
	case TagEnum:
		fmt.Fprintf(b, "Enum(%d)", k.SpaceID)
	case TagAtom:
		fmt.Fprintf(b, "Atom(%d)", k.AtomID)
	default:
		b.WriteString(k.Tag.String())
	}
}

func (k ValueKind) Equal(other ValueKind) bool { return k.Key() == other.Key() }

// ElemKind returns the element kind of a Matrix/Set ValueKind. Callers
// must only invoke this on a kind whose Tag is TagMatrix or TagSet.
func (k ValueKind) ElemKind() ValueKind { return *k.Elem }

func (k ValueKind) String() string { return k.Key() }

// IsNumeric reports whether k is one of the scalar numeric primitives.
func (k ValueKind) IsNumeric() bool {
	switch k.Tag {
	case TagU8, TagU16, TagU32, TagU64, TagU128,
		TagI8, TagI16, TagI32, TagI64, TagI128,
		TagF32, TagF64, TagRational, TagComplex:
		return true
	default:
		return false
	}
}
