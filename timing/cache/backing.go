package cache

import (
	"github.com/sarchlab/rv32sim/emu"
)

// MemoryBacking wraps emu.Memory as a BackingStore.
//
// Line fills near the end of the memory region can reach past the last
// mapped byte. Those bytes read as zero and writes to them are dropped;
// the emulator faults such accesses before they reach the cache.
type MemoryBacking struct {
	memory *emu.Memory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// Read fetches data from the backing memory.
func (m *MemoryBacking) Read(addr uint32, size int) []byte {
	data := make([]byte, size)
	for i := 0; i < size; i++ {
		b, err := m.memory.Read8(addr + uint32(i))
		if err != nil {
			continue
		}
		data[i] = b
	}
	return data
}

// Write stores data to the backing memory.
func (m *MemoryBacking) Write(addr uint32, data []byte) {
	for i, b := range data {
		_ = m.memory.Write8(addr+uint32(i), b)
	}
}
