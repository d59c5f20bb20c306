package bytecode

import (
	"bytes"
	"encoding/binary"

	"mech/internal/value"
)

// TypeTag is the on-disk type-section discriminant (spec.md section 6's
// "u16 tag"). Kept distinct from value.Tag per that package's own
// doc comment, so internal/value has no dependency on this package's
// wire format.
type TypeTag uint16

const (
	TTU8 TypeTag = iota
	TTU16
	TTU32
	TTU64
	TTU128
	TTI8
	TTI16
	TTI32
	TTI64
	TTI128
	TTF32
	TTF64
	TTRational
	TTComplex
	TTString
	TTBool
	TTID
	TTIndex
	TTEmpty
	TTAtom
	TTMatrix
	TTRecord
	TTTable
	TTTuple
	TTSet
	TTMap
	TTOption
	TTReference
	TTEnum
)

var tagToTypeTag = [...]TypeTag{
	value.TagU8: TTU8, value.TagU16: TTU16, value.TagU32: TTU32, value.TagU64: TTU64,
	value.TagU128: TTU128, value.TagI8: TTI8, value.TagI16: TTI16, value.TagI32: TTI32,
	value.TagI64: TTI64, value.TagI128: TTI128, value.TagF32: TTF32, value.TagF64: TTF64,
	value.TagRational: TTRational, value.TagComplex: TTComplex, value.TagString: TTString,
	value.TagBool: TTBool, value.TagID: TTID, value.TagIndex: TTIndex, value.TagEmpty: TTEmpty,
	value.TagAtom: TTAtom, value.TagMatrix: TTMatrix, value.TagRecord: TTRecord,
	value.TagTable: TTTable, value.TagTuple: TTTuple, value.TagSet: TTSet, value.TagMap: TTMap,
	value.TagOption: TTOption, value.TagReference: TTReference, value.TagEnum: TTEnum,
}

// TypeEntry is one on-disk type-section record (spec.md section 6): a
// tag, a flags word (unused by this runtime, carried for forward
// compatibility), an aux count whose meaning is tag-specific (dims
// count, field count, element count), and an opaque payload describing
// the kind's children by already-interned type-id.
type TypeEntry struct {
	Tag      TypeTag
	Flags    uint16
	AuxCount uint32
	Payload  []byte
}

func (e *TypeEntry) WriteTo(buf *bytes.Buffer) error {
	if err := binary.Write(buf, binary.LittleEndian, e.Tag); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, e.Flags); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, e.AuxCount); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, uint32(len(e.Payload))); err != nil {
		return err
	}
	_, err := buf.Write(e.Payload)
	return err
}

func ReadTypeEntry(r *bytes.Reader) (*TypeEntry, error) {
	var e TypeEntry
	var payloadLen uint32
	if err := binary.Read(r, binary.LittleEndian, &e.Tag); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &e.Flags); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &e.AuxCount); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &payloadLen); err != nil {
		return nil, err
	}
	e.Payload = make([]byte, payloadLen)
	if _, err := r.Read(e.Payload); err != nil {
		return nil, err
	}
	return &e, nil
}

// TypeInterner assigns each distinct ValueKind a stable type-id, content
// addressed on ValueKind.Key() (spec.md section 4.5: "structural
// equality at the kind level yields pointer equality at the type-id
// level"). Composite kinds intern their children first, so every
// type-id a payload references already exists by the time the
// referencing entry is appended.
type TypeInterner struct {
	ids     map[string]uint32
	entries []*TypeEntry
}

func NewTypeInterner() *TypeInterner {
	return &TypeInterner{ids: map[string]uint32{}}
}

func (t *TypeInterner) Entries() []*TypeEntry { return t.entries }

// Intern returns k's type-id, assigning and appending a new TypeEntry
// on first sight and returning the cached id on every subsequent call
// with a structurally equal kind.
func (t *TypeInterner) Intern(k value.ValueKind) uint32 {
	key := k.Key()
	if id, ok := t.ids[key]; ok {
		return id
	}
	id := uint32(len(t.entries))
	t.ids[key] = id
	t.entries = append(t.entries, t.buildEntry(k))
	return id
}

func (t *TypeInterner) buildEntry(k value.ValueKind) *TypeEntry {
	var buf bytes.Buffer
	aux := uint32(0)
	switch k.Tag {
	case value.TagMatrix:
		elemID := t.Intern(*k.Elem)
		binary.Write(&buf, binary.LittleEndian, elemID)
		binary.Write(&buf, binary.LittleEndian, uint8(k.Shape))
		binary.Write(&buf, binary.LittleEndian, uint32(len(k.Dims)))
		for _, d := range k.Dims {
			binary.Write(&buf, binary.LittleEndian, uint32(d))
		}
		aux = uint32(len(k.Dims))
	case value.TagRecord:
		binary.Write(&buf, binary.LittleEndian, uint32(len(k.Fields)))
		for _, f := range k.Fields {
			writeString(&buf, f.Name)
			binary.Write(&buf, binary.LittleEndian, t.Intern(f.Kind))
		}
		aux = uint32(len(k.Fields))
	case value.TagTable:
		binary.Write(&buf, binary.LittleEndian, uint32(k.PrimaryCol))
		binary.Write(&buf, binary.LittleEndian, uint32(len(k.Fields)))
		for _, f := range k.Fields {
			writeString(&buf, f.Name)
			binary.Write(&buf, binary.LittleEndian, t.Intern(f.Kind))
		}
		aux = uint32(len(k.Fields))
	case value.TagTuple:
		binary.Write(&buf, binary.LittleEndian, uint32(len(k.Elems)))
		for _, e := range k.Elems {
			binary.Write(&buf, binary.LittleEndian, t.Intern(e))
		}
		aux = uint32(len(k.Elems))
	case value.TagSet:
		binary.Write(&buf, binary.LittleEndian, t.Intern(*k.Elem))
		if k.SetMax != nil {
			binary.Write(&buf, binary.LittleEndian, uint8(1))
			binary.Write(&buf, binary.LittleEndian, uint32(*k.SetMax))
		} else {
			binary.Write(&buf, binary.LittleEndian, uint8(0))
		}
	case value.TagMap:
		binary.Write(&buf, binary.LittleEndian, t.Intern(*k.MapKey))
		binary.Write(&buf, binary.LittleEndian, t.Intern(*k.MapVal))
	case value.TagOption, value.TagReference:
		binary.Write(&buf, binary.LittleEndian, t.Intern(*k.Inner))
	case value.TagEnum:
		binary.Write(&buf, binary.LittleEndian, k.SpaceID)
	case value.TagAtom:
		binary.Write(&buf, binary.LittleEndian, k.AtomID)
	}
	return &TypeEntry{Tag: tagToTypeTag[k.Tag], AuxCount: aux, Payload: buf.Bytes()}
}

func writeString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.LittleEndian, uint32(len(s)))
	buf.WriteString(s)
}
