package bytecode

import (
	"bytes"
	"encoding/binary"
)

// SymbolEntry is the fixed 13-byte on-disk record from spec.md section
// 6: `u64 id, u8 mutable, u32 register`.
type SymbolEntry struct {
	ID       uint64
	Mutable  uint8
	Register uint32
}

func (e *SymbolEntry) WriteTo(buf *bytes.Buffer) error {
	return binary.Write(buf, binary.LittleEndian, e)
}

func ReadSymbolEntry(r *bytes.Reader) (*SymbolEntry, error) {
	var e SymbolEntry
	if err := binary.Read(r, binary.LittleEndian, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DictEntry is one name-dictionary record: `u64 id, u32 name_len,
// u8[name_len]` (spec.md section 6). The dictionary is append-only and
// shared across symbols, giving every interned name one stable id.
type DictEntry struct {
	ID   uint64
	Name string
}

func (e *DictEntry) WriteTo(buf *bytes.Buffer) error {
	if err := binary.Write(buf, binary.LittleEndian, e.ID); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, uint32(len(e.Name))); err != nil {
		return err
	}
	_, err := buf.WriteString(e.Name)
	return err
}

func ReadDictEntry(r *bytes.Reader) (*DictEntry, error) {
	var e DictEntry
	var nameLen uint32
	if err := binary.Read(r, binary.LittleEndian, &e.ID); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return nil, err
	}
	name := make([]byte, nameLen)
	if _, err := r.Read(name); err != nil {
		return nil, err
	}
	e.Name = string(name)
	return &e, nil
}
