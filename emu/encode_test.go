package emu_test

import (
	"encoding/binary"

	"github.com/sarchlab/rv32sim/emu"
)

// Instruction assembly helpers used by the emulator and fixture tests.

func encR(opcode, funct3, funct7 uint32, rd, rs1, rs2 uint8) uint32 {
	return funct7<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 |
		funct3<<12 | uint32(rd)<<7 | opcode
}

func encI(opcode, funct3 uint32, rd, rs1 uint8, imm int32) uint32 {
	return (uint32(imm)&0xfff)<<20 | uint32(rs1)<<15 |
		funct3<<12 | uint32(rd)<<7 | opcode
}

func encS(opcode, funct3 uint32, rs1, rs2 uint8, imm int32) uint32 {
	u := uint32(imm)
	return (u>>5&0x7f)<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 |
		funct3<<12 | (u&0x1f)<<7 | opcode
}

func encB(funct3 uint32, rs1, rs2 uint8, imm int32) uint32 {
	u := uint32(imm)
	return (u>>12&0x1)<<31 | (u>>5&0x3f)<<25 | uint32(rs2)<<20 |
		uint32(rs1)<<15 | funct3<<12 |
		(u>>1&0xf)<<8 | (u>>11&0x1)<<7 | 0b1100011
}

func encU(opcode uint32, rd uint8, imm uint32) uint32 {
	return imm&0xfffff000 | uint32(rd)<<7 | opcode
}

func encJ(rd uint8, imm int32) uint32 {
	u := uint32(imm)
	return (u>>20&0x1)<<31 | (u>>1&0x3ff)<<21 | (u>>11&0x1)<<20 |
		(u>>12&0xff)<<12 | uint32(rd)<<7 | 0b1101111
}

// Mnemonic wrappers keep the fixture programs readable.

func lui(rd uint8, imm uint32) uint32 { return encU(0b0110111, rd, imm) }
func auipc(rd uint8, imm uint32) uint32 { return encU(0b0010111, rd, imm) }

func addi(rd, rs1 uint8, imm int32) uint32 { return encI(0b0010011, 0b000, rd, rs1, imm) }
func slti(rd, rs1 uint8, imm int32) uint32 { return encI(0b0010011, 0b010, rd, rs1, imm) }
func sltiu(rd, rs1 uint8, imm int32) uint32 { return encI(0b0010011, 0b011, rd, rs1, imm) }
func xori(rd, rs1 uint8, imm int32) uint32 { return encI(0b0010011, 0b100, rd, rs1, imm) }
func ori(rd, rs1 uint8, imm int32) uint32 { return encI(0b0010011, 0b110, rd, rs1, imm) }
func andi(rd, rs1 uint8, imm int32) uint32 { return encI(0b0010011, 0b111, rd, rs1, imm) }
func slli(rd, rs1 uint8, shamt int32) uint32 { return encI(0b0010011, 0b001, rd, rs1, shamt) }
func srli(rd, rs1 uint8, shamt int32) uint32 { return encI(0b0010011, 0b101, rd, rs1, shamt) }
func srai(rd, rs1 uint8, shamt int32) uint32 {
	return encI(0b0010011, 0b101, rd, rs1, shamt|0b0100000<<5)
}

func add(rd, rs1, rs2 uint8) uint32 { return encR(0b0110011, 0b000, 0b0000000, rd, rs1, rs2) }
func sub(rd, rs1, rs2 uint8) uint32 { return encR(0b0110011, 0b000, 0b0100000, rd, rs1, rs2) }
func sll(rd, rs1, rs2 uint8) uint32 { return encR(0b0110011, 0b001, 0b0000000, rd, rs1, rs2) }
func slt(rd, rs1, rs2 uint8) uint32 { return encR(0b0110011, 0b010, 0b0000000, rd, rs1, rs2) }
func sltu(rd, rs1, rs2 uint8) uint32 { return encR(0b0110011, 0b011, 0b0000000, rd, rs1, rs2) }
func xor(rd, rs1, rs2 uint8) uint32 { return encR(0b0110011, 0b100, 0b0000000, rd, rs1, rs2) }
func srl(rd, rs1, rs2 uint8) uint32 { return encR(0b0110011, 0b101, 0b0000000, rd, rs1, rs2) }
func sra(rd, rs1, rs2 uint8) uint32 { return encR(0b0110011, 0b101, 0b0100000, rd, rs1, rs2) }
func or(rd, rs1, rs2 uint8) uint32 { return encR(0b0110011, 0b110, 0b0000000, rd, rs1, rs2) }
func and(rd, rs1, rs2 uint8) uint32 { return encR(0b0110011, 0b111, 0b0000000, rd, rs1, rs2) }

func mul(rd, rs1, rs2 uint8) uint32 { return encR(0b0110011, 0b000, 0b0000001, rd, rs1, rs2) }
func div(rd, rs1, rs2 uint8) uint32 { return encR(0b0110011, 0b100, 0b0000001, rd, rs1, rs2) }
func rem(rd, rs1, rs2 uint8) uint32 { return encR(0b0110011, 0b110, 0b0000001, rd, rs1, rs2) }

func lb(rd, rs1 uint8, imm int32) uint32 { return encI(0b0000011, 0b000, rd, rs1, imm) }
func lh(rd, rs1 uint8, imm int32) uint32 { return encI(0b0000011, 0b001, rd, rs1, imm) }
func lw(rd, rs1 uint8, imm int32) uint32 { return encI(0b0000011, 0b010, rd, rs1, imm) }
func lbu(rd, rs1 uint8, imm int32) uint32 { return encI(0b0000011, 0b100, rd, rs1, imm) }
func lhu(rd, rs1 uint8, imm int32) uint32 { return encI(0b0000011, 0b101, rd, rs1, imm) }

func sb(rs2, rs1 uint8, imm int32) uint32 { return encS(0b0100011, 0b000, rs1, rs2, imm) }
func sh(rs2, rs1 uint8, imm int32) uint32 { return encS(0b0100011, 0b001, rs1, rs2, imm) }
func sw(rs2, rs1 uint8, imm int32) uint32 { return encS(0b0100011, 0b010, rs1, rs2, imm) }

func beq(rs1, rs2 uint8, imm int32) uint32 { return encB(0b000, rs1, rs2, imm) }
func bne(rs1, rs2 uint8, imm int32) uint32 { return encB(0b001, rs1, rs2, imm) }
func blt(rs1, rs2 uint8, imm int32) uint32 { return encB(0b100, rs1, rs2, imm) }
func bge(rs1, rs2 uint8, imm int32) uint32 { return encB(0b101, rs1, rs2, imm) }
func bltu(rs1, rs2 uint8, imm int32) uint32 { return encB(0b110, rs1, rs2, imm) }
func bgeu(rs1, rs2 uint8, imm int32) uint32 { return encB(0b111, rs1, rs2, imm) }

func jal(rd uint8, imm int32) uint32 { return encJ(rd, imm) }
func jalr(rd, rs1 uint8, imm int32) uint32 { return encI(0b1100111, 0b000, rd, rs1, imm) }

func flw(rd, rs1 uint8, imm int32) uint32 { return encI(0b0000111, 0b010, rd, rs1, imm) }
func fsw(rs2, rs1 uint8, imm int32) uint32 { return encS(0b0100111, 0b010, rs1, rs2, imm) }

func fadds(rd, rs1, rs2 uint8) uint32 { return encR(0b1010011, 0b111, 0b0000000, rd, rs1, rs2) }
func fmuls(rd, rs1, rs2 uint8) uint32 { return encR(0b1010011, 0b111, 0b0001000, rd, rs1, rs2) }
func fdivs(rd, rs1, rs2 uint8) uint32 { return encR(0b1010011, 0b111, 0b0001100, rd, rs1, rs2) }
func fsqrts(rd, rs1 uint8) uint32 { return encR(0b1010011, 0b111, 0b0101100, rd, rs1, 0) }
func fcvtws(rd, rs1 uint8) uint32 { return encR(0b1010011, 0b111, 0b1100000, rd, rs1, 0) }
func fclasss(rd, rs1 uint8) uint32 { return encR(0b1010011, 0b001, 0b1110000, rd, rs1, 0) }

const ecall uint32 = 0x00000073
const ebreak uint32 = 0x00100073

// loadWords assembles a word sequence into emulator memory at the base
// address and points the PC at it.
func loadWords(e *emu.Emulator, words []uint32) {
	image := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(image[i*4:], w)
	}
	if err := e.LoadProgram(e.Memory().Base(), image); err != nil {
		panic(err)
	}
}
