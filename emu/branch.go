package emu

import "github.com/sarchlab/rv32sim/insts"

// BranchUnit resolves RV32 conditional branches against the register file.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// Taken evaluates the branch condition of op over rs1 and rs2.
// BGE and BGEU treat equal operands as taken.
func (b *BranchUnit) Taken(op insts.Op, rs1, rs2 uint8) bool {
	v1 := b.regFile.ReadReg(rs1)
	v2 := b.regFile.ReadReg(rs2)

	switch op {
	case insts.OpBEQ:
		return v1 == v2
	case insts.OpBNE:
		return v1 != v2
	case insts.OpBLT:
		return int32(v1) < int32(v2)
	case insts.OpBGE:
		return int32(v1) >= int32(v2)
	case insts.OpBLTU:
		return v1 < v2
	case insts.OpBGEU:
		return v1 >= v2
	}
	return false
}
