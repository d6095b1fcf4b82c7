// Package latency provides instruction timing models for cycle counting.
//
// Latency values approximate a small in-order RV32 core and can be
// configured via TimingConfig.
package latency

import (
	"github.com/sarchlab/rv32sim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given
// instruction. Loads and stores return the pipeline cost only; cache hit
// and miss latencies are accounted separately by the core.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch {
	case inst.IsBranch():
		return t.config.BranchLatency

	case inst.IsJump():
		return t.config.JumpLatency

	case inst.IsLoad():
		return t.config.LoadLatency

	case inst.IsStore():
		return t.config.StoreLatency

	case inst.IsMulDiv():
		switch inst.Op {
		case insts.OpDIV, insts.OpDIVU, insts.OpREM, insts.OpREMU:
			return t.config.DivideLatency
		}
		return t.config.MultiplyLatency

	case inst.IsFP():
		switch inst.Op {
		case insts.OpFDIVS, insts.OpFSQRTS:
			return t.config.FPDivideLatency
		}
		return t.config.FPLatency
	}

	switch inst.Op {
	case insts.OpECALL, insts.OpEBREAK, insts.OpFENCE:
		return t.config.SystemLatency
	}

	return t.config.ALULatency
}

// IsMemoryOp returns true if the instruction accesses data memory.
func (t *Table) IsMemoryOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.IsLoad() || inst.IsStore()
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
