package emu

// ALU implements the RV32 integer arithmetic and logic operations,
// including the multiply/divide group.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// ADD performs addition: rd = rs1 + rs2, wrapping on overflow.
func (a *ALU) ADD(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)+a.regFile.ReadReg(rs2))
}

// ADDI performs addition with immediate: rd = rs1 + imm.
func (a *ALU) ADDI(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)+uint32(imm))
}

// SUB performs subtraction: rd = rs1 - rs2, wrapping on overflow.
func (a *ALU) SUB(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)-a.regFile.ReadReg(rs2))
}

// AND performs bitwise and: rd = rs1 & rs2.
func (a *ALU) AND(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)&a.regFile.ReadReg(rs2))
}

// ANDI performs bitwise and with immediate: rd = rs1 & imm.
func (a *ALU) ANDI(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)&uint32(imm))
}

// OR performs bitwise or: rd = rs1 | rs2.
func (a *ALU) OR(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)|a.regFile.ReadReg(rs2))
}

// ORI performs bitwise or with immediate: rd = rs1 | imm.
func (a *ALU) ORI(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)|uint32(imm))
}

// XOR performs bitwise exclusive or: rd = rs1 ^ rs2.
func (a *ALU) XOR(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)^a.regFile.ReadReg(rs2))
}

// XORI performs bitwise exclusive or with immediate: rd = rs1 ^ imm.
func (a *ALU) XORI(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)^uint32(imm))
}

// SLL performs a logical left shift by the low 5 bits of rs2.
func (a *ALU) SLL(rd, rs1, rs2 uint8) {
	shamt := a.regFile.ReadReg(rs2) & 0x1f
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)<<shamt)
}

// SLLI performs a logical left shift by an immediate amount.
func (a *ALU) SLLI(rd, rs1 uint8, shamt int32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)<<(uint32(shamt)&0x1f))
}

// SRL performs a logical right shift by the low 5 bits of rs2.
func (a *ALU) SRL(rd, rs1, rs2 uint8) {
	shamt := a.regFile.ReadReg(rs2) & 0x1f
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)>>shamt)
}

// SRLI performs a logical right shift by an immediate amount.
func (a *ALU) SRLI(rd, rs1 uint8, shamt int32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)>>(uint32(shamt)&0x1f))
}

// SRA performs an arithmetic right shift by the low 5 bits of rs2.
// Vacated bits replicate the sign bit.
func (a *ALU) SRA(rd, rs1, rs2 uint8) {
	shamt := a.regFile.ReadReg(rs2) & 0x1f
	a.regFile.WriteReg(rd, uint32(int32(a.regFile.ReadReg(rs1))>>shamt))
}

// SRAI performs an arithmetic right shift by an immediate amount.
func (a *ALU) SRAI(rd, rs1 uint8, shamt int32) {
	a.regFile.WriteReg(rd, uint32(int32(a.regFile.ReadReg(rs1))>>(uint32(shamt)&0x1f)))
}

// SLT performs a signed comparison: rd = 1 if rs1 < rs2, else 0.
func (a *ALU) SLT(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, boolToReg(
		int32(a.regFile.ReadReg(rs1)) < int32(a.regFile.ReadReg(rs2))))
}

// SLTI performs a signed comparison against an immediate.
func (a *ALU) SLTI(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, boolToReg(int32(a.regFile.ReadReg(rs1)) < imm))
}

// SLTU performs an unsigned comparison: rd = 1 if rs1 < rs2, else 0.
func (a *ALU) SLTU(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, boolToReg(
		a.regFile.ReadReg(rs1) < a.regFile.ReadReg(rs2)))
}

// SLTIU performs an unsigned comparison against the sign-extended immediate
// reinterpreted as unsigned.
func (a *ALU) SLTIU(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, boolToReg(a.regFile.ReadReg(rs1) < uint32(imm)))
}

// MUL computes the low 32 bits of rs1 * rs2.
func (a *ALU) MUL(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)*a.regFile.ReadReg(rs2))
}

// MULH computes the high 32 bits of the signed 64-bit product.
func (a *ALU) MULH(rd, rs1, rs2 uint8) {
	p := int64(int32(a.regFile.ReadReg(rs1))) * int64(int32(a.regFile.ReadReg(rs2)))
	a.regFile.WriteReg(rd, uint32(uint64(p)>>32))
}

// MULHSU computes the high 32 bits of the signed * unsigned 64-bit product.
func (a *ALU) MULHSU(rd, rs1, rs2 uint8) {
	p := int64(int32(a.regFile.ReadReg(rs1))) * int64(a.regFile.ReadReg(rs2))
	a.regFile.WriteReg(rd, uint32(uint64(p)>>32))
}

// MULHU computes the high 32 bits of the unsigned 64-bit product.
func (a *ALU) MULHU(rd, rs1, rs2 uint8) {
	p := uint64(a.regFile.ReadReg(rs1)) * uint64(a.regFile.ReadReg(rs2))
	a.regFile.WriteReg(rd, uint32(p>>32))
}

// DIV performs signed division. Division by zero yields -1; the overflow
// case INT_MIN / -1 yields INT_MIN. Neither traps.
func (a *ALU) DIV(rd, rs1, rs2 uint8) {
	dividend := int32(a.regFile.ReadReg(rs1))
	divisor := int32(a.regFile.ReadReg(rs2))

	var result int32
	switch {
	case divisor == 0:
		result = -1
	case dividend == -0x80000000 && divisor == -1:
		result = -0x80000000
	default:
		result = dividend / divisor
	}

	a.regFile.WriteReg(rd, uint32(result))
}

// DIVU performs unsigned division. Division by zero yields all ones.
func (a *ALU) DIVU(rd, rs1, rs2 uint8) {
	dividend := a.regFile.ReadReg(rs1)
	divisor := a.regFile.ReadReg(rs2)

	if divisor == 0 {
		a.regFile.WriteReg(rd, 0xffffffff)
		return
	}
	a.regFile.WriteReg(rd, dividend/divisor)
}

// REM computes the signed remainder. Division by zero yields the dividend;
// the overflow case INT_MIN % -1 yields 0.
func (a *ALU) REM(rd, rs1, rs2 uint8) {
	dividend := int32(a.regFile.ReadReg(rs1))
	divisor := int32(a.regFile.ReadReg(rs2))

	var result int32
	switch {
	case divisor == 0:
		result = dividend
	case dividend == -0x80000000 && divisor == -1:
		result = 0
	default:
		result = dividend % divisor
	}

	a.regFile.WriteReg(rd, uint32(result))
}

// REMU computes the unsigned remainder. Division by zero yields the dividend.
func (a *ALU) REMU(rd, rs1, rs2 uint8) {
	dividend := a.regFile.ReadReg(rs1)
	divisor := a.regFile.ReadReg(rs2)

	if divisor == 0 {
		a.regFile.WriteReg(rd, dividend)
		return
	}
	a.regFile.WriteReg(rd, dividend%divisor)
}

func boolToReg(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
