package emu

import (
	"encoding/binary"
	"fmt"
)

// DefaultMemoryBase is the address where the RAM image starts.
const DefaultMemoryBase uint32 = 0x80000000

// DefaultMemorySize is the default RAM size (16 MiB).
const DefaultMemorySize uint32 = 16 * 1024 * 1024

// AccessError reports a memory access outside the mapped range.
type AccessError struct {
	Addr  uint32 // Faulting address
	Size  uint32 // Access width in bytes
	Write bool   // true for stores, false for loads and fetches
}

func (e *AccessError) Error() string {
	kind := "read"
	if e.Write {
		kind = "write"
	}
	return fmt.Sprintf("out-of-bounds %d-byte %s at 0x%08X", e.Size, kind, e.Addr)
}

// Memory is a flat little-endian byte-addressable memory.
//
// Addresses are physical and start at the configured base. Accesses of any
// width may be unaligned; accesses that fall outside [base, base+size) fail
// with an *AccessError.
type Memory struct {
	base uint32
	data []byte
}

// NewMemory creates a memory of the default size at the default base.
func NewMemory() *Memory {
	return NewMemoryWithSize(DefaultMemoryBase, DefaultMemorySize)
}

// NewMemoryWithSize creates a memory of the given size at the given base.
func NewMemoryWithSize(base, size uint32) *Memory {
	return &Memory{
		base: base,
		data: make([]byte, size),
	}
}

// Base returns the lowest mapped address.
func (m *Memory) Base() uint32 {
	return m.base
}

// Size returns the mapped size in bytes.
func (m *Memory) Size() uint32 {
	return uint32(len(m.data))
}

// Data returns the backing byte slice. The slice indexes from the base
// address; callers that hold raw offsets use it for snapshot comparison.
func (m *Memory) Data() []byte {
	return m.data
}

// offset translates addr to an index into the backing slice, checking that
// size bytes starting at addr are mapped.
func (m *Memory) offset(addr, size uint32, write bool) (uint32, error) {
	off := addr - m.base
	if off >= uint32(len(m.data)) || uint32(len(m.data))-off < size {
		return 0, &AccessError{Addr: addr, Size: size, Write: write}
	}
	return off, nil
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint32) (uint8, error) {
	off, err := m.offset(addr, 1, false)
	if err != nil {
		return 0, err
	}
	return m.data[off], nil
}

// Read16 reads a little-endian halfword.
func (m *Memory) Read16(addr uint32) (uint16, error) {
	off, err := m.offset(addr, 2, false)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.data[off:]), nil
}

// Read32 reads a little-endian word.
func (m *Memory) Read32(addr uint32) (uint32, error) {
	off, err := m.offset(addr, 4, false)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[off:]), nil
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint32, value uint8) error {
	off, err := m.offset(addr, 1, true)
	if err != nil {
		return err
	}
	m.data[off] = value
	return nil
}

// Write16 writes a little-endian halfword.
func (m *Memory) Write16(addr uint32, value uint16) error {
	off, err := m.offset(addr, 2, true)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.data[off:], value)
	return nil
}

// Write32 writes a little-endian word.
func (m *Memory) Write32(addr uint32, value uint32) error {
	off, err := m.offset(addr, 4, true)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[off:], value)
	return nil
}

// LoadImage copies a program image into memory starting at addr.
func (m *Memory) LoadImage(addr uint32, image []byte) error {
	off, err := m.offset(addr, uint32(len(image)), true)
	if err != nil {
		return err
	}
	copy(m.data[off:], image)
	return nil
}
