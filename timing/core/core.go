// Package core provides a cycle-counting model on top of the emulator.
//
// The core executes instructions functionally through emu.Emulator and
// charges cycles per instruction class from a latency table. Loads and
// stores additionally pass through a data cache model that adds hit or
// miss latency.
package core

import (
	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
	"github.com/sarchlab/rv32sim/timing/cache"
	"github.com/sarchlab/rv32sim/timing/latency"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// CacheHits is the number of data cache hits.
	CacheHits uint64
	// CacheMisses is the number of data cache misses.
	CacheMisses uint64
}

// Core wraps an emulator with a latency table and a data cache.
type Core struct {
	emulator *emu.Emulator
	decoder  *insts.Decoder
	table    *latency.Table
	dcache   *cache.Cache

	stats Stats
}

// Option configures a Core.
type Option func(*Core)

// WithLatencyTable sets a custom latency table.
func WithLatencyTable(table *latency.Table) Option {
	return func(c *Core) {
		c.table = table
	}
}

// WithDataCache sets a custom data cache.
func WithDataCache(dcache *cache.Cache) Option {
	return func(c *Core) {
		c.dcache = dcache
	}
}

// NewCore creates a core around the given emulator. Unless overridden, the
// data cache takes its hit and miss latencies from the latency table's
// timing configuration and is backed by the emulator's memory.
func NewCore(emulator *emu.Emulator, opts ...Option) *Core {
	c := &Core{
		emulator: emulator,
		decoder:  insts.NewDecoder(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.table == nil {
		c.table = latency.NewTable()
	}
	if c.dcache == nil {
		config := cache.DefaultDCacheConfig()
		config.HitLatency = c.table.Config().CacheHitLatency
		config.MissLatency = c.table.Config().CacheMissLatency
		c.dcache = cache.New(config, cache.NewMemoryBacking(emulator.Memory()))
	}

	return c
}

// Emulator returns the wrapped emulator.
func (c *Core) Emulator() *emu.Emulator {
	return c.emulator
}

// Cache returns the data cache.
func (c *Core) Cache() *cache.Cache {
	return c.dcache
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	return c.stats
}

// Step executes one instruction and charges its cycles. Faulted steps
// charge nothing.
func (c *Core) Step() emu.StepResult {
	pc := c.emulator.RegFile().PC

	// Peek the instruction before executing: the effective address must be
	// computed from the pre-execution register values, and a load may
	// overwrite its own base register.
	var inst *insts.Instruction
	var effAddr uint32
	if word, err := c.emulator.Memory().Read32(pc); err == nil {
		inst = c.decoder.Decode(word)
		if inst != nil && c.table.IsMemoryOp(inst) {
			effAddr = c.emulator.RegFile().ReadReg(inst.Rs1) + uint32(inst.Imm)
		}
	}

	result := c.emulator.Step()
	if result.Fault != nil {
		return result
	}

	c.stats.Instructions++
	c.stats.Cycles += c.table.GetLatency(inst)

	if inst != nil && c.table.IsMemoryOp(inst) {
		c.accessCache(inst, effAddr)
	}

	return result
}

// accessCache runs a retired load or store through the data cache model.
// The emulator has already performed the access against memory, so stores
// replay the value that memory now holds to keep the cache coherent with
// its backing store.
func (c *Core) accessCache(inst *insts.Instruction, addr uint32) {
	size := accessSize(inst.Op)

	var access cache.AccessResult
	if inst.IsStore() {
		var value uint32
		switch size {
		case 1:
			b, _ := c.emulator.Memory().Read8(addr)
			value = uint32(b)
		case 2:
			h, _ := c.emulator.Memory().Read16(addr)
			value = uint32(h)
		default:
			value, _ = c.emulator.Memory().Read32(addr)
		}
		access = c.dcache.Write(addr, size, value)
	} else {
		access = c.dcache.Read(addr, size)
	}

	c.stats.Cycles += access.Latency
	if access.Hit {
		c.stats.CacheHits++
	} else {
		c.stats.CacheMisses++
	}
}

// Run executes instructions until the program stops, faults, reaches a PC
// fixed point, or exhausts the budget. A budget of 0 means no limit.
func (c *Core) Run(budget uint64) emu.RunResult {
	var result emu.RunResult

	for {
		if budget != 0 && result.Instructions >= budget {
			result.Reason = emu.StopBudget
			return result
		}

		pc := c.emulator.RegFile().PC
		step := c.Step()

		if step.Fault != nil {
			result.Reason = emu.StopFault
			result.Fault = step.Fault
			return result
		}

		result.Instructions++

		if step.Stopped {
			result.Reason = emu.StopEnvironmentCall
			return result
		}

		if c.emulator.RegFile().PC == pc {
			result.Reason = emu.StopFixedPoint
			return result
		}
	}
}

// Reset restores the emulator, cache, and statistics to their initial state.
func (c *Core) Reset() {
	c.emulator.Reset()
	c.dcache.Reset()
	c.stats = Stats{}
}

// accessSize returns the number of bytes moved by a load or store.
func accessSize(op insts.Op) int {
	switch op {
	case insts.OpLB, insts.OpLBU, insts.OpSB:
		return 1
	case insts.OpLH, insts.OpLHU, insts.OpSH:
		return 2
	default:
		return 4
	}
}
