// Package insts provides RV32 instruction definitions and decoding.
//
// This package implements decoding of RISC-V machine code into structured
// instruction representations. It covers the RV32I base integer instruction
// set, the M standard extension (multiply/divide), and the F standard
// extension (single-precision floating point).
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00A00093) // ADDI x1, x0, 10
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
package insts

// Op represents an RV32 opcode.
type Op uint16

// RV32IMF opcodes.
const (
	OpUnknown Op = iota

	// RV32I upper-immediate and jumps
	OpLUI
	OpAUIPC
	OpJAL
	OpJALR

	// RV32I conditional branches
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU

	// RV32I loads and stores
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU
	OpSB
	OpSH
	OpSW

	// RV32I register-immediate operations
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI

	// RV32I register-register operations
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND

	// M extension
	OpMUL
	OpMULH
	OpMULHSU
	OpMULHU
	OpDIV
	OpDIVU
	OpREM
	OpREMU

	// Memory ordering and environment
	OpFENCE
	OpECALL
	OpEBREAK

	// F extension loads and stores
	OpFLW
	OpFSW

	// F extension arithmetic
	OpFADDS
	OpFSUBS
	OpFMULS
	OpFDIVS
	OpFSQRTS

	// F extension sign injection
	OpFSGNJS
	OpFSGNJNS
	OpFSGNJXS

	// F extension min/max
	OpFMINS
	OpFMAXS

	// F extension conversions and moves
	OpFCVTWS
	OpFCVTWUS
	OpFCVTSW
	OpFCVTSWU
	OpFMVXW
	OpFMVWX

	// F extension comparison and classification
	OpFEQS
	OpFLTS
	OpFLES
	OpFCLASSS

	// F extension fused multiply-add
	OpFMADDS
	OpFMSUBS
	OpFNMSUBS
	OpFNMADDS
)

// Format represents an instruction encoding format.
type Format uint8

// RISC-V instruction formats.
const (
	FormatUnknown Format = iota
	FormatR              // Register-register: funct7 | rs2 | rs1 | funct3 | rd | opcode
	FormatI              // Register-immediate, loads, JALR, system
	FormatS              // Stores
	FormatB              // Conditional branches
	FormatU              // LUI, AUIPC
	FormatJ              // JAL
	FormatR4             // Fused multiply-add: rs3 | fmt | rs2 | rs1 | rm | rd | opcode
)

// Instruction represents a decoded RV32 instruction.
//
// Instructions are immutable once decoded; the emulator re-decodes on every
// fetch rather than mutating a cached descriptor.
type Instruction struct {
	Op     Op     // Operation code
	Format Format // Encoding format

	Rd  uint8 // Destination register
	Rs1 uint8 // First source register
	Rs2 uint8 // Second source register
	Rs3 uint8 // Third source register (R4 format only)

	// Imm is the sign-extended immediate. Its interpretation depends on the
	// format: byte offset for branches/jumps/loads/stores, already-shifted
	// upper bits for U-format, and the 5-bit shift amount for SLLI/SRLI/SRAI.
	Imm int32
}

// IsBranch reports whether the instruction is a conditional branch.
func (i *Instruction) IsBranch() bool {
	switch i.Op {
	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU:
		return true
	}
	return false
}

// IsJump reports whether the instruction is an unconditional jump.
func (i *Instruction) IsJump() bool {
	return i.Op == OpJAL || i.Op == OpJALR
}

// IsLoad reports whether the instruction reads memory.
func (i *Instruction) IsLoad() bool {
	switch i.Op {
	case OpLB, OpLH, OpLW, OpLBU, OpLHU, OpFLW:
		return true
	}
	return false
}

// IsStore reports whether the instruction writes memory.
func (i *Instruction) IsStore() bool {
	switch i.Op {
	case OpSB, OpSH, OpSW, OpFSW:
		return true
	}
	return false
}

// IsMulDiv reports whether the instruction is an M-extension operation.
func (i *Instruction) IsMulDiv() bool {
	switch i.Op {
	case OpMUL, OpMULH, OpMULHSU, OpMULHU, OpDIV, OpDIVU, OpREM, OpREMU:
		return true
	}
	return false
}

// IsFP reports whether the instruction executes on the floating-point unit.
func (i *Instruction) IsFP() bool {
	switch i.Op {
	case OpFADDS, OpFSUBS, OpFMULS, OpFDIVS, OpFSQRTS,
		OpFSGNJS, OpFSGNJNS, OpFSGNJXS, OpFMINS, OpFMAXS,
		OpFCVTWS, OpFCVTWUS, OpFCVTSW, OpFCVTSWU, OpFMVXW, OpFMVWX,
		OpFEQS, OpFLTS, OpFLES, OpFCLASSS,
		OpFMADDS, OpFMSUBS, OpFNMSUBS, OpFNMADDS:
		return true
	}
	return false
}
