package bytecode

import (
	"bytes"
	"encoding/binary"

	mecherrors "mech/internal/errors"
)

// Magic is the fixed 4-byte signature every Mech bytecode file starts
// with (spec.md section 6).
var Magic = [4]byte{'M', 'E', 'C', 'H'}

// FormatVersion is this package's own encoding version, independent of
// MechVersion (the source language version the program was compiled
// against).
const FormatVersion uint16 = 1

// Header is the fixed-width prologue of a compiled program, laid out
// field-for-field per spec.md section 6 so that binary.Write/Read can
// serialize it directly with no manual byte-packing.
type Header struct {
	Magic        [4]byte
	FormatVer    uint16
	MechVer      uint16
	Flags        uint32
	RegCount     uint32
	InstrCount   uint32
	FeatureCount uint32
	FeatureOff   uint64
	TypesCount   uint32
	TypesOff     uint64
	ConstCount   uint32
	ConstTblOff  uint64
	ConstTblLen  uint64
	ConstBlobOff uint64
	ConstBlobLen uint64
	SymbolsLen   uint64
	SymbolsOff   uint64
	InstrOff     uint64
	InstrLen     uint64
	DictLen      uint64
	DictOff      uint64
	Reserved     uint32
}

// HeaderSize is the fixed on-disk size of Header, computed once from
// the struct layout rather than hand-counted, so it cannot drift from
// the field list above.
var HeaderSize = binary.Size(Header{})

func (h *Header) WriteTo(buf *bytes.Buffer) error {
	return binary.Write(buf, binary.LittleEndian, h)
}

func ReadHeader(r *bytes.Reader) (*Header, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, mecherrors.Wrap(err, mecherrors.BytecodeBadMagic, "bytecode: truncated header")
	}
	if h.Magic != Magic {
		return nil, mecherrors.New(mecherrors.BytecodeBadMagic, "bytecode: bad magic %q", h.Magic)
	}
	return &h, nil
}
