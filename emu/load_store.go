package emu

// LoadStoreUnit implements the RV32 load and store operations.
// Effective addresses are rs1 + sign-extended immediate; unaligned
// accesses succeed, out-of-range accesses return an *AccessError.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

func (lsu *LoadStoreUnit) effectiveAddr(rs1 uint8, imm int32) uint32 {
	return lsu.regFile.ReadReg(rs1) + uint32(imm)
}

// LB loads a byte and sign-extends it: rd = sext(mem[rs1 + imm]).
func (lsu *LoadStoreUnit) LB(rd, rs1 uint8, imm int32) error {
	value, err := lsu.memory.Read8(lsu.effectiveAddr(rs1, imm))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(rd, uint32(int32(int8(value))))
	return nil
}

// LBU loads a byte and zero-extends it.
func (lsu *LoadStoreUnit) LBU(rd, rs1 uint8, imm int32) error {
	value, err := lsu.memory.Read8(lsu.effectiveAddr(rs1, imm))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(rd, uint32(value))
	return nil
}

// LH loads a halfword and sign-extends it.
func (lsu *LoadStoreUnit) LH(rd, rs1 uint8, imm int32) error {
	value, err := lsu.memory.Read16(lsu.effectiveAddr(rs1, imm))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(rd, uint32(int32(int16(value))))
	return nil
}

// LHU loads a halfword and zero-extends it.
func (lsu *LoadStoreUnit) LHU(rd, rs1 uint8, imm int32) error {
	value, err := lsu.memory.Read16(lsu.effectiveAddr(rs1, imm))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(rd, uint32(value))
	return nil
}

// LW loads a word.
func (lsu *LoadStoreUnit) LW(rd, rs1 uint8, imm int32) error {
	value, err := lsu.memory.Read32(lsu.effectiveAddr(rs1, imm))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(rd, value)
	return nil
}

// SB stores the low byte of rs2: mem[rs1 + imm] = rs2[7:0].
func (lsu *LoadStoreUnit) SB(rs2, rs1 uint8, imm int32) error {
	return lsu.memory.Write8(lsu.effectiveAddr(rs1, imm),
		uint8(lsu.regFile.ReadReg(rs2)))
}

// SH stores the low halfword of rs2.
func (lsu *LoadStoreUnit) SH(rs2, rs1 uint8, imm int32) error {
	return lsu.memory.Write16(lsu.effectiveAddr(rs1, imm),
		uint16(lsu.regFile.ReadReg(rs2)))
}

// SW stores rs2.
func (lsu *LoadStoreUnit) SW(rs2, rs1 uint8, imm int32) error {
	return lsu.memory.Write32(lsu.effectiveAddr(rs1, imm),
		lsu.regFile.ReadReg(rs2))
}

// FLW loads a word into a floating-point register without reinterpretation.
func (lsu *LoadStoreUnit) FLW(rd, rs1 uint8, imm int32) error {
	value, err := lsu.memory.Read32(lsu.effectiveAddr(rs1, imm))
	if err != nil {
		return err
	}
	lsu.regFile.WriteFReg(rd, value)
	return nil
}

// FSW stores the bit pattern of a floating-point register.
func (lsu *LoadStoreUnit) FSW(rs2, rs1 uint8, imm int32) error {
	return lsu.memory.Write32(lsu.effectiveAddr(rs1, imm),
		lsu.regFile.ReadFReg(rs2))
}
