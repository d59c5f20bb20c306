package bytecode

import (
	"bytes"
	"encoding/binary"
	"math"

	mecherrors "mech/internal/errors"
	"mech/internal/value"
)

// Encoding identifies how a constant's bytes in the blob should be
// interpreted; the type-id alone (via the type section) already names
// the ValueKind, but the blob reader needs the physical layout before
// it can consult the type section.
type Encoding uint8

const (
	EncU8 Encoding = iota
	EncU16
	EncU32
	EncU64
	EncI8
	EncI16
	EncI32
	EncI64
	EncF32
	EncF64
	EncBool
	EncString
	EncEmpty
)

// ConstantEntry is the fixed 24-byte on-disk record from spec.md
// section 6: `type_id u32, enc u8, align u8, flags u8, pad u8, offset
// u64, length u64`.
type ConstantEntry struct {
	TypeID uint32
	Enc    Encoding
	Align  uint8
	Flags  uint8
	Pad    uint8
	Offset uint64
	Length uint64
}

func (e *ConstantEntry) WriteTo(buf *bytes.Buffer) error {
	return binary.Write(buf, binary.LittleEndian, e)
}

func ReadConstantEntry(r *bytes.Reader) (*ConstantEntry, error) {
	var e ConstantEntry
	if err := binary.Read(r, binary.LittleEndian, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ConstantPool accumulates constant table entries and their shared blob
// arena, padding each constant's blob offset to its natural alignment
// (spec.md section 4.5: "the blob is a byte arena with per-constant
// alignment padding").
type ConstantPool struct {
	Types   *TypeInterner
	Entries []*ConstantEntry
	Blob    bytes.Buffer
}

func NewConstantPool(types *TypeInterner) *ConstantPool {
	return &ConstantPool{Types: types}
}

// Intern appends v's encoded bytes to the blob (padded to its natural
// alignment) and returns its constant id.
func (p *ConstantPool) Intern(v value.Value) (uint32, error) {
	enc, align, data, err := encodeConstant(v)
	if err != nil {
		return 0, err
	}
	for p.Blob.Len()%int(align) != 0 {
		p.Blob.WriteByte(0)
	}
	offset := uint64(p.Blob.Len())
	p.Blob.Write(data)
	typeID := p.Types.Intern(v.Kind())
	id := uint32(len(p.Entries))
	p.Entries = append(p.Entries, &ConstantEntry{
		TypeID: typeID,
		Enc:    enc,
		Align:  align,
		Offset: offset,
		Length: uint64(len(data)),
	})
	return id, nil
}

func encodeConstant(v value.Value) (Encoding, uint8, []byte, error) {
	var buf bytes.Buffer
	switch x := v.(type) {
	case value.U8:
		buf.WriteByte(byte(x))
		return EncU8, 1, buf.Bytes(), nil
	case value.U16:
		binary.Write(&buf, binary.LittleEndian, uint16(x))
		return EncU16, 2, buf.Bytes(), nil
	case value.U32:
		binary.Write(&buf, binary.LittleEndian, uint32(x))
		return EncU32, 4, buf.Bytes(), nil
	case value.U64:
		binary.Write(&buf, binary.LittleEndian, uint64(x))
		return EncU64, 8, buf.Bytes(), nil
	case value.I8:
		buf.WriteByte(byte(x))
		return EncI8, 1, buf.Bytes(), nil
	case value.I16:
		binary.Write(&buf, binary.LittleEndian, int16(x))
		return EncI16, 2, buf.Bytes(), nil
	case value.I32:
		binary.Write(&buf, binary.LittleEndian, int32(x))
		return EncI32, 4, buf.Bytes(), nil
	case value.I64:
		binary.Write(&buf, binary.LittleEndian, int64(x))
		return EncI64, 8, buf.Bytes(), nil
	case value.F32:
		binary.Write(&buf, binary.LittleEndian, math.Float32bits(float32(x)))
		return EncF32, 4, buf.Bytes(), nil
	case value.F64:
		binary.Write(&buf, binary.LittleEndian, math.Float64bits(float64(x)))
		return EncF64, 8, buf.Bytes(), nil
	case value.Bool:
		if x {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
		return EncBool, 1, buf.Bytes(), nil
	case value.Str:
		buf.WriteString(string(x))
		return EncString, 1, buf.Bytes(), nil
	case value.ID:
		binary.Write(&buf, binary.LittleEndian, uint64(x))
		return EncU64, 8, buf.Bytes(), nil
	case value.Index:
		binary.Write(&buf, binary.LittleEndian, uint64(x))
		return EncU64, 8, buf.Bytes(), nil
	case value.Empty:
		return EncEmpty, 1, nil, nil
	default:
		return 0, 0, nil, mecherrors.New(mecherrors.UnableToConvertValueKind, "bytecode: %s is not constant-encodable", v.Kind())
	}
}

// DecodeConstant reverses encodeConstant given the raw slice and the
// encoding tag recorded in its ConstantEntry.
func DecodeConstant(enc Encoding, data []byte) (value.Value, error) {
	switch enc {
	case EncU8:
		return value.U8(data[0]), nil
	case EncU16:
		return value.U16(binary.LittleEndian.Uint16(data)), nil
	case EncU32:
		return value.U32(binary.LittleEndian.Uint32(data)), nil
	case EncU64:
		return value.U64(binary.LittleEndian.Uint64(data)), nil
	case EncI8:
		return value.I8(int8(data[0])), nil
	case EncI16:
		return value.I16(int16(binary.LittleEndian.Uint16(data))), nil
	case EncI32:
		return value.I32(int32(binary.LittleEndian.Uint32(data))), nil
	case EncI64:
		return value.I64(int64(binary.LittleEndian.Uint64(data))), nil
	case EncF32:
		return value.F32(math.Float32frombits(binary.LittleEndian.Uint32(data))), nil
	case EncF64:
		return value.F64(math.Float64frombits(binary.LittleEndian.Uint64(data))), nil
	case EncBool:
		return value.Bool(data[0] != 0), nil
	case EncString:
		return value.Str(string(data)), nil
	case EncEmpty:
		return value.Empty{}, nil
	default:
		return nil, mecherrors.New(mecherrors.UnableToConvertValueKind, "bytecode: unknown constant encoding %d", enc)
	}
}
