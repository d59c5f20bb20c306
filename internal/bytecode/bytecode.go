package bytecode

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"

	mecherrors "mech/internal/errors"
)

// instrWord packs one instruction's fixed-width opcode word: low byte
// is the Opcode, next byte the operand count (dst plus any trailing
// operands, so VarArg's count is explicit instead of opcode-implied),
// and the next four bytes are the dispatched function id. The
// remaining two bytes are reserved and always zero. This is the u64
// "opcode" spec.md section 4.5 names, with this runtime's own packing
// of the metadata a fixed-width decode needs.
func instrWord(op Opcode, operandCount int, fnID uint32) uint64 {
	return uint64(op) | uint64(uint8(operandCount))<<8 | uint64(fnID)<<16
}

func unpackInstrWord(w uint64) (op Opcode, operandCount int, fnID uint32) {
	op = Opcode(w & 0xff)
	operandCount = int((w >> 8) & 0xff)
	fnID = uint32((w >> 16) & 0xffffffff)
	return
}

func writeInstruction(buf *bytes.Buffer, in Instruction) error {
	count := len(in.Operands)
	if err := binary.Write(buf, binary.LittleEndian, instrWord(in.Op, count, in.FnID)); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, in.Dst); err != nil {
		return err
	}
	for _, o := range in.Operands {
		if err := binary.Write(buf, binary.LittleEndian, o); err != nil {
			return err
		}
	}
	return nil
}

func readInstruction(r *bytes.Reader) (Instruction, error) {
	var word uint64
	if err := binary.Read(r, binary.LittleEndian, &word); err != nil {
		return Instruction{}, err
	}
	op, count, fnID := unpackInstrWord(word)
	var dst uint32
	if err := binary.Read(r, binary.LittleEndian, &dst); err != nil {
		return Instruction{}, err
	}
	operands := make([]uint32, count)
	for i := range operands {
		if err := binary.Read(r, binary.LittleEndian, &operands[i]); err != nil {
			return Instruction{}, err
		}
	}
	return Instruction{Op: op, FnID: fnID, Dst: dst, Operands: operands}, nil
}

// Program is a fully assembled compile context, ready to be written to
// or read from the wire format of spec.md section 6.
type Program struct {
	RegCount     uint32
	MechVersion  uint16
	Flags        uint32
	Features     []uint64
	Types        *TypeInterner
	Consts       *ConstantPool
	Symbols      []*SymbolEntry
	Instructions []Instruction
	Dict         []*DictEntry
}

func NewProgram() *Program {
	types := NewTypeInterner()
	return &Program{
		Types:  types,
		Consts: NewConstantPool(types),
	}
}

// Write serializes p into the byte-exact, little-endian layout named by
// spec.md section 6: header, feature list, type section, constant
// table + blob, symbol table, instruction stream, dictionary, CRC32
// trailer. Offsets and lengths are filled in after each section is
// built, so the header always matches the body it describes.
func (p *Program) Write() ([]byte, error) {
	var features, types, consts, blob, symbols, instrs, dict bytes.Buffer

	for _, f := range p.Features {
		if err := binary.Write(&features, binary.LittleEndian, f); err != nil {
			return nil, err
		}
	}

	for _, e := range p.Types.Entries() {
		if err := e.WriteTo(&types); err != nil {
			return nil, err
		}
	}

	for _, e := range p.Consts.Entries {
		if err := e.WriteTo(&consts); err != nil {
			return nil, err
		}
	}
	blob.Write(p.Consts.Blob.Bytes())

	for _, s := range p.Symbols {
		if err := s.WriteTo(&symbols); err != nil {
			return nil, err
		}
	}

	for _, in := range p.Instructions {
		if err := writeInstruction(&instrs, in); err != nil {
			return nil, err
		}
	}

	for _, d := range p.Dict {
		if err := d.WriteTo(&dict); err != nil {
			return nil, err
		}
	}

	h := Header{
		Magic:        Magic,
		FormatVer:    FormatVersion,
		MechVer:      p.MechVersion,
		Flags:        p.Flags,
		RegCount:     p.RegCount,
		InstrCount:   uint32(len(p.Instructions)),
		FeatureCount: uint32(len(p.Features)),
		TypesCount:   uint32(len(p.Types.Entries())),
		ConstCount:   uint32(len(p.Consts.Entries)),
		ConstTblLen:  uint64(consts.Len()),
		ConstBlobLen: uint64(blob.Len()),
		SymbolsLen:   uint64(symbols.Len()),
		InstrLen:     uint64(instrs.Len()),
		DictLen:      uint64(dict.Len()),
	}

	pos := uint64(HeaderSize)
	h.FeatureOff = pos
	pos += uint64(features.Len())
	h.TypesOff = pos
	pos += uint64(types.Len())
	h.ConstTblOff = pos
	pos += h.ConstTblLen
	h.ConstBlobOff = pos
	pos += h.ConstBlobLen
	h.SymbolsOff = pos
	pos += h.SymbolsLen
	h.InstrOff = pos
	pos += h.InstrLen
	h.DictOff = pos

	var out bytes.Buffer
	if err := h.WriteTo(&out); err != nil {
		return nil, err
	}
	out.Write(features.Bytes())
	out.Write(types.Bytes())
	out.Write(consts.Bytes())
	out.Write(blob.Bytes())
	out.Write(symbols.Bytes())
	out.Write(instrs.Bytes())
	out.Write(dict.Bytes())

	crc := crc32.ChecksumIEEE(out.Bytes())
	if err := binary.Write(&out, binary.LittleEndian, crc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Read parses buf back into a Program, verifying the CRC32 trailer
// before trusting any section, then verifying that each section's
// recorded offset matches where the reader actually landed — spec.md
// section 6's "mismatches are a fatal internal error".
func Read(buf []byte) (*Program, error) {
	if len(buf) < 4 {
		return nil, mecherrors.New(mecherrors.BytecodeBadMagic, "bytecode: buffer too short")
	}
	body := buf[:len(buf)-4]
	wantCRC := binary.LittleEndian.Uint32(buf[len(buf)-4:])
	if gotCRC := crc32.ChecksumIEEE(body); gotCRC != wantCRC {
		return nil, mecherrors.New(mecherrors.BytecodeCRCMismatch, "bytecode: CRC mismatch: got %x, want %x", gotCRC, wantCRC)
	}

	r := bytes.NewReader(body)
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	p := &Program{RegCount: h.RegCount, MechVersion: h.MechVer, Flags: h.Flags}

	if err := expectPos(r, h.FeatureOff); err != nil {
		return nil, err
	}
	p.Features = make([]uint64, h.FeatureCount)
	for i := range p.Features {
		if err := binary.Read(r, binary.LittleEndian, &p.Features[i]); err != nil {
			return nil, err
		}
	}

	if err := expectPos(r, h.TypesOff); err != nil {
		return nil, err
	}
	p.Types = NewTypeInterner()
	for i := uint32(0); i < h.TypesCount; i++ {
		e, err := ReadTypeEntry(r)
		if err != nil {
			return nil, err
		}
		p.Types.entries = append(p.Types.entries, e)
	}

	if err := expectPos(r, h.ConstTblOff); err != nil {
		return nil, err
	}
	p.Consts = NewConstantPool(p.Types)
	for i := uint32(0); i < h.ConstCount; i++ {
		e, err := ReadConstantEntry(r)
		if err != nil {
			return nil, err
		}
		p.Consts.Entries = append(p.Consts.Entries, e)
	}

	if err := expectPos(r, h.ConstBlobOff); err != nil {
		return nil, err
	}
	blob := make([]byte, h.ConstBlobLen)
	if _, err := r.Read(blob); err != nil {
		return nil, err
	}
	p.Consts.Blob.Write(blob)

	if err := expectPos(r, h.SymbolsOff); err != nil {
		return nil, err
	}
	const symbolEntrySize = 13
	symbolCount := h.SymbolsLen / symbolEntrySize
	p.Symbols = make([]*SymbolEntry, 0, symbolCount)
	for i := uint64(0); i < symbolCount; i++ {
		e, err := ReadSymbolEntry(r)
		if err != nil {
			return nil, err
		}
		p.Symbols = append(p.Symbols, e)
	}

	if err := expectPos(r, h.InstrOff); err != nil {
		return nil, err
	}
	p.Instructions = make([]Instruction, 0, h.InstrCount)
	for i := uint32(0); i < h.InstrCount; i++ {
		in, err := readInstruction(r)
		if err != nil {
			return nil, err
		}
		p.Instructions = append(p.Instructions, in)
	}

	if err := expectPos(r, h.DictOff); err != nil {
		return nil, err
	}
	for r.Size()-int64(r.Len()) < int64(h.DictOff+h.DictLen) {
		e, err := ReadDictEntry(r)
		if err != nil {
			return nil, err
		}
		p.Dict = append(p.Dict, e)
	}

	return p, nil
}

func expectPos(r *bytes.Reader, want uint64) error {
	got := uint64(r.Size() - int64(r.Len()))
	if got != want {
		return mecherrors.New(mecherrors.GenericError, "bytecode: section offset mismatch: at %d, header says %d", got, want)
	}
	return nil
}
