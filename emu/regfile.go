// Package emu provides functional RV32 emulation.
package emu

import "math"

// RegFile represents the RV32 register file.
// It contains 32 integer registers (x0-x31), 32 single-precision
// floating-point registers (f0-f31), and the program counter (PC).
type RegFile struct {
	// X holds integer registers x0-x31.
	// X[0] is the zero register, which always reads as 0.
	X [32]uint32

	// F holds floating-point registers f0-f31 as raw IEEE-754 bit patterns.
	F [32]uint32

	// PC is the program counter.
	PC uint32
}

// ReadReg reads an integer register. Register 0 returns 0.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	if reg == 0 {
		return 0
	}
	return r.X[reg]
}

// WriteReg writes a value to an integer register.
// Writes to register 0 are discarded.
func (r *RegFile) WriteReg(reg uint8, value uint32) {
	if reg == 0 {
		return
	}
	r.X[reg] = value
}

// ReadFReg reads a floating-point register as its raw bit pattern.
func (r *RegFile) ReadFReg(reg uint8) uint32 {
	return r.F[reg]
}

// WriteFReg writes a raw bit pattern to a floating-point register.
func (r *RegFile) WriteFReg(reg uint8, bits uint32) {
	r.F[reg] = bits
}

// ReadFReg32 reads a floating-point register as a float32 value.
func (r *RegFile) ReadFReg32(reg uint8) float32 {
	return math.Float32frombits(r.F[reg])
}

// WriteFReg32 writes a float32 value to a floating-point register.
func (r *RegFile) WriteFReg32(reg uint8, value float32) {
	r.F[reg] = math.Float32bits(value)
}
