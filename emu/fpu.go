package emu

import "math"

// CanonicalNaN is the quiet NaN produced by floating-point operations
// whose result is NaN.
const CanonicalNaN uint32 = 0x7fc00000

// Floating-point class bits as produced by FCLASS.S.
const (
	ClassNegInf       uint32 = 1 << 0
	ClassNegNormal    uint32 = 1 << 1
	ClassNegSubnormal uint32 = 1 << 2
	ClassNegZero      uint32 = 1 << 3
	ClassPosZero      uint32 = 1 << 4
	ClassPosSubnormal uint32 = 1 << 5
	ClassPosNormal    uint32 = 1 << 6
	ClassPosInf       uint32 = 1 << 7
	ClassSignalingNaN uint32 = 1 << 8
	ClassQuietNaN     uint32 = 1 << 9
)

// FPU implements the RV32F single-precision floating-point operations.
// Register contents are raw bit patterns; arithmetic rounds to nearest even.
type FPU struct {
	regFile *RegFile
}

// NewFPU creates a new FPU connected to the given register file.
func NewFPU(regFile *RegFile) *FPU {
	return &FPU{regFile: regFile}
}

// canonicalize returns the bit pattern of value, replacing any NaN with the
// canonical quiet NaN.
func canonicalize(value float32) uint32 {
	if value != value {
		return CanonicalNaN
	}
	return math.Float32bits(value)
}

// FADDS performs fd = fs1 + fs2.
func (f *FPU) FADDS(rd, rs1, rs2 uint8) {
	f.regFile.WriteFReg(rd,
		canonicalize(f.regFile.ReadFReg32(rs1)+f.regFile.ReadFReg32(rs2)))
}

// FSUBS performs fd = fs1 - fs2.
func (f *FPU) FSUBS(rd, rs1, rs2 uint8) {
	f.regFile.WriteFReg(rd,
		canonicalize(f.regFile.ReadFReg32(rs1)-f.regFile.ReadFReg32(rs2)))
}

// FMULS performs fd = fs1 * fs2.
func (f *FPU) FMULS(rd, rs1, rs2 uint8) {
	f.regFile.WriteFReg(rd,
		canonicalize(f.regFile.ReadFReg32(rs1)*f.regFile.ReadFReg32(rs2)))
}

// FDIVS performs fd = fs1 / fs2. Division by zero yields a correctly
// signed infinity; 0/0 yields the canonical NaN.
func (f *FPU) FDIVS(rd, rs1, rs2 uint8) {
	f.regFile.WriteFReg(rd,
		canonicalize(f.regFile.ReadFReg32(rs1)/f.regFile.ReadFReg32(rs2)))
}

// FSQRTS performs fd = sqrt(fs1). A negative operand other than -0 yields
// the canonical NaN.
func (f *FPU) FSQRTS(rd, rs1 uint8) {
	f.regFile.WriteFReg(rd,
		canonicalize(float32(math.Sqrt(float64(f.regFile.ReadFReg32(rs1))))))
}

// FSGNJS copies fs1 with the sign of fs2.
func (f *FPU) FSGNJS(rd, rs1, rs2 uint8) {
	f.regFile.WriteFReg(rd,
		f.regFile.ReadFReg(rs1)&0x7fffffff|f.regFile.ReadFReg(rs2)&0x80000000)
}

// FSGNJNS copies fs1 with the negated sign of fs2.
func (f *FPU) FSGNJNS(rd, rs1, rs2 uint8) {
	f.regFile.WriteFReg(rd,
		f.regFile.ReadFReg(rs1)&0x7fffffff|^f.regFile.ReadFReg(rs2)&0x80000000)
}

// FSGNJXS copies fs1 with its sign xored with the sign of fs2.
func (f *FPU) FSGNJXS(rd, rs1, rs2 uint8) {
	f.regFile.WriteFReg(rd,
		f.regFile.ReadFReg(rs1)^f.regFile.ReadFReg(rs2)&0x80000000)
}

// FMINS performs fd = min(fs1, fs2). If exactly one operand is NaN the
// other is returned; if both are NaN the canonical NaN is returned.
// min(-0, +0) is -0.
func (f *FPU) FMINS(rd, rs1, rs2 uint8) {
	f.regFile.WriteFReg(rd, f.minMax(rs1, rs2, true))
}

// FMAXS performs fd = max(fs1, fs2) with the same NaN handling as FMINS.
// max(-0, +0) is +0.
func (f *FPU) FMAXS(rd, rs1, rs2 uint8) {
	f.regFile.WriteFReg(rd, f.minMax(rs1, rs2, false))
}

func (f *FPU) minMax(rs1, rs2 uint8, min bool) uint32 {
	bits1 := f.regFile.ReadFReg(rs1)
	bits2 := f.regFile.ReadFReg(rs2)
	v1 := math.Float32frombits(bits1)
	v2 := math.Float32frombits(bits2)

	nan1 := v1 != v1
	nan2 := v2 != v2
	switch {
	case nan1 && nan2:
		return CanonicalNaN
	case nan1:
		return bits2
	case nan2:
		return bits1
	}

	// -0 and +0 compare equal, so the zeros are ordered by sign bit.
	if v1 == v2 {
		negFirst := bits1&0x80000000 != 0
		if negFirst == min {
			return bits1
		}
		return bits2
	}

	if (v1 < v2) == min {
		return bits1
	}
	return bits2
}

// FCVTWS converts fs1 to a signed 32-bit integer, truncating toward zero.
// NaN and values beyond the signed range clamp to the architecturally
// defined results.
func (f *FPU) FCVTWS(rd, rs1 uint8) {
	value := float64(f.regFile.ReadFReg32(rs1))

	var result uint32
	switch {
	case value != value:
		result = 0x7fffffff
	case value >= 2147483648:
		result = 0x7fffffff
	case value < -2147483648:
		result = 0x80000000
	default:
		result = uint32(int32(math.Trunc(value)))
	}

	f.regFile.WriteReg(rd, result)
}

// FCVTWUS converts fs1 to an unsigned 32-bit integer, truncating toward
// zero. NaN and values beyond the unsigned range clamp.
func (f *FPU) FCVTWUS(rd, rs1 uint8) {
	value := float64(f.regFile.ReadFReg32(rs1))

	var result uint32
	switch {
	case value != value:
		result = 0xffffffff
	case value >= 4294967296:
		result = 0xffffffff
	case value <= -1:
		result = 0
	default:
		result = uint32(math.Trunc(value))
	}

	f.regFile.WriteReg(rd, result)
}

// FCVTSW converts a signed 32-bit integer to single precision.
func (f *FPU) FCVTSW(rd, rs1 uint8) {
	f.regFile.WriteFReg32(rd, float32(int32(f.regFile.ReadReg(rs1))))
}

// FCVTSWU converts an unsigned 32-bit integer to single precision.
func (f *FPU) FCVTSWU(rd, rs1 uint8) {
	f.regFile.WriteFReg32(rd, float32(f.regFile.ReadReg(rs1)))
}

// FMVXW moves the raw bit pattern of fs1 to an integer register.
func (f *FPU) FMVXW(rd, rs1 uint8) {
	f.regFile.WriteReg(rd, f.regFile.ReadFReg(rs1))
}

// FMVWX moves the raw bit pattern of rs1 to a floating-point register.
func (f *FPU) FMVWX(rd, rs1 uint8) {
	f.regFile.WriteFReg(rd, f.regFile.ReadReg(rs1))
}

// FEQS sets rd to 1 if fs1 == fs2, else 0. NaN compares unordered.
func (f *FPU) FEQS(rd, rs1, rs2 uint8) {
	f.regFile.WriteReg(rd,
		boolToReg(f.regFile.ReadFReg32(rs1) == f.regFile.ReadFReg32(rs2)))
}

// FLTS sets rd to 1 if fs1 < fs2, else 0. NaN compares unordered.
func (f *FPU) FLTS(rd, rs1, rs2 uint8) {
	f.regFile.WriteReg(rd,
		boolToReg(f.regFile.ReadFReg32(rs1) < f.regFile.ReadFReg32(rs2)))
}

// FLES sets rd to 1 if fs1 <= fs2, else 0. NaN compares unordered.
func (f *FPU) FLES(rd, rs1, rs2 uint8) {
	f.regFile.WriteReg(rd,
		boolToReg(f.regFile.ReadFReg32(rs1) <= f.regFile.ReadFReg32(rs2)))
}

// FCLASSS writes the class mask of fs1 to rd.
func (f *FPU) FCLASSS(rd, rs1 uint8) {
	f.regFile.WriteReg(rd, Classify(f.regFile.ReadFReg(rs1)))
}

// Classify returns the one-hot class mask of a single-precision bit
// pattern. Exactly one bit is set for every input. A NaN is quiet when the
// most significant mantissa bit is set.
func Classify(bits uint32) uint32 {
	negative := bits&0x80000000 != 0
	exponent := bits >> 23 & 0xff
	mantissa := bits & 0x7fffff

	switch {
	case exponent == 0xff && mantissa != 0:
		if mantissa&0x400000 != 0 {
			return ClassQuietNaN
		}
		return ClassSignalingNaN
	case exponent == 0xff:
		if negative {
			return ClassNegInf
		}
		return ClassPosInf
	case exponent == 0 && mantissa == 0:
		if negative {
			return ClassNegZero
		}
		return ClassPosZero
	case exponent == 0:
		if negative {
			return ClassNegSubnormal
		}
		return ClassPosSubnormal
	default:
		if negative {
			return ClassNegNormal
		}
		return ClassPosNormal
	}
}

// fusedMulAdd computes a*b + c with a single rounding. The product is exact
// in float64, so the float64 fused operation followed by one conversion to
// float32 rounds once.
func fusedMulAdd(a, b, c float32) float32 {
	return float32(math.FMA(float64(a), float64(b), float64(c)))
}

// FMADDS performs fd = fs1*fs2 + fs3 with a single rounding.
func (f *FPU) FMADDS(rd, rs1, rs2, rs3 uint8) {
	f.regFile.WriteFReg(rd, canonicalize(fusedMulAdd(
		f.regFile.ReadFReg32(rs1),
		f.regFile.ReadFReg32(rs2),
		f.regFile.ReadFReg32(rs3))))
}

// FMSUBS performs fd = fs1*fs2 - fs3 with a single rounding.
func (f *FPU) FMSUBS(rd, rs1, rs2, rs3 uint8) {
	f.regFile.WriteFReg(rd, canonicalize(fusedMulAdd(
		f.regFile.ReadFReg32(rs1),
		f.regFile.ReadFReg32(rs2),
		-f.regFile.ReadFReg32(rs3))))
}

// FNMSUBS performs fd = -(fs1*fs2) + fs3 with a single rounding.
func (f *FPU) FNMSUBS(rd, rs1, rs2, rs3 uint8) {
	f.regFile.WriteFReg(rd, canonicalize(fusedMulAdd(
		-f.regFile.ReadFReg32(rs1),
		f.regFile.ReadFReg32(rs2),
		f.regFile.ReadFReg32(rs3))))
}

// FNMADDS performs fd = -(fs1*fs2) - fs3 with a single rounding.
func (f *FPU) FNMADDS(rd, rs1, rs2, rs3 uint8) {
	f.regFile.WriteFReg(rd, canonicalize(fusedMulAdd(
		-f.regFile.ReadFReg32(rs1),
		f.regFile.ReadFReg32(rs2),
		-f.regFile.ReadFReg32(rs3))))
}
