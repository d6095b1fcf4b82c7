package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds latency values for different instruction types.
// Values approximate a small in-order RV32 core.
type TimingConfig struct {
	// ALULatency is the execution latency for basic integer operations
	// (ADD, SUB, shifts, logic, comparisons). Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// BranchLatency is the base execution latency for conditional branches.
	// Default: 1 cycle.
	BranchLatency uint64 `json:"branch_latency"`

	// JumpLatency is the latency for JAL and JALR. Default: 2 cycles
	// (redirect through the fetch stage).
	JumpLatency uint64 `json:"jump_latency"`

	// LoadLatency is the latency for load operations assuming L1 cache hit.
	// Default: 2 cycles.
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency is the latency for store operations. Default: 1 cycle.
	StoreLatency uint64 `json:"store_latency"`

	// MultiplyLatency is the latency for MUL, MULH, MULHSU, and MULHU.
	// Default: 3 cycles.
	MultiplyLatency uint64 `json:"multiply_latency"`

	// DivideLatency is the latency for DIV, DIVU, REM, and REMU.
	// Default: 16 cycles (iterative divider).
	DivideLatency uint64 `json:"divide_latency"`

	// FPLatency is the latency for single-precision FP arithmetic
	// (FADD.S, FSUB.S, FMUL.S, fused multiply-add, conversions).
	// Default: 4 cycles.
	FPLatency uint64 `json:"fp_latency"`

	// FPDivideLatency is the latency for FDIV.S and FSQRT.S.
	// Default: 14 cycles.
	FPDivideLatency uint64 `json:"fp_divide_latency"`

	// SystemLatency is the latency for ECALL, EBREAK, and FENCE.
	// Default: 1 cycle.
	SystemLatency uint64 `json:"system_latency"`

	// CacheHitLatency is the data cache hit latency. Default: 2 cycles.
	CacheHitLatency uint64 `json:"cache_hit_latency"`

	// CacheMissLatency is the data cache miss latency, paid on top of the
	// hit latency when a line is filled from memory. Default: 40 cycles.
	CacheMissLatency uint64 `json:"cache_miss_latency"`
}

// DefaultTimingConfig returns a TimingConfig with in-order RV32 defaults.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:       1,
		BranchLatency:    1,
		JumpLatency:      2,
		LoadLatency:      2,
		StoreLatency:     1,
		MultiplyLatency:  3,
		DivideLatency:    16,
		FPLatency:        4,
		FPDivideLatency:  14,
		SystemLatency:    1,
		CacheHitLatency:  2,
		CacheMissLatency: 40,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0).
func (c *TimingConfig) Validate() error {
	if c.ALULatency == 0 {
		return fmt.Errorf("alu_latency must be > 0")
	}
	if c.BranchLatency == 0 {
		return fmt.Errorf("branch_latency must be > 0")
	}
	if c.JumpLatency == 0 {
		return fmt.Errorf("jump_latency must be > 0")
	}
	if c.LoadLatency == 0 {
		return fmt.Errorf("load_latency must be > 0")
	}
	if c.StoreLatency == 0 {
		return fmt.Errorf("store_latency must be > 0")
	}
	if c.MultiplyLatency == 0 {
		return fmt.Errorf("multiply_latency must be > 0")
	}
	if c.DivideLatency == 0 {
		return fmt.Errorf("divide_latency must be > 0")
	}
	if c.FPLatency == 0 {
		return fmt.Errorf("fp_latency must be > 0")
	}
	if c.FPDivideLatency == 0 {
		return fmt.Errorf("fp_divide_latency must be > 0")
	}
	if c.SystemLatency == 0 {
		return fmt.Errorf("system_latency must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
