package insts

// Major opcodes (bits [6:0]) of the RV32 base encoding.
const (
	opcodeLUI     = 0b0110111
	opcodeAUIPC   = 0b0010111
	opcodeJAL     = 0b1101111
	opcodeJALR    = 0b1100111
	opcodeBranch  = 0b1100011
	opcodeLoad    = 0b0000011
	opcodeStore   = 0b0100011
	opcodeOpImm   = 0b0010011
	opcodeOp      = 0b0110011
	opcodeMiscMem = 0b0001111
	opcodeSystem  = 0b1110011
	opcodeLoadFP  = 0b0000111
	opcodeStoreFP = 0b0100111
	opcodeOpFP    = 0b1010011
	opcodeFMADD   = 0b1000011
	opcodeFMSUB   = 0b1000111
	opcodeFNMSUB  = 0b1001011
	opcodeFNMADD  = 0b1001111
)

// Decoder decodes RV32 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV32 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit RV32 instruction word.
//
// Decode never fails: encodings outside the supported RV32IMF subset,
// including 16-bit compressed encodings (low two bits != 0b11), produce an
// Instruction with OpUnknown. The caller decides whether that is a fault.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{Op: OpUnknown, Format: FormatUnknown}

	// All 32-bit encodings have the low two bits set. Anything else is a
	// compressed or reserved encoding, which this decoder does not support.
	if word&0b11 != 0b11 {
		return inst
	}

	switch word & 0x7f {
	case opcodeLUI:
		d.decodeU(word, inst, OpLUI)
	case opcodeAUIPC:
		d.decodeU(word, inst, OpAUIPC)
	case opcodeJAL:
		d.decodeJAL(word, inst)
	case opcodeJALR:
		d.decodeJALR(word, inst)
	case opcodeBranch:
		d.decodeBranch(word, inst)
	case opcodeLoad:
		d.decodeLoad(word, inst)
	case opcodeStore:
		d.decodeStore(word, inst)
	case opcodeOpImm:
		d.decodeOpImm(word, inst)
	case opcodeOp:
		d.decodeOp(word, inst)
	case opcodeMiscMem:
		d.decodeMiscMem(word, inst)
	case opcodeSystem:
		d.decodeSystem(word, inst)
	case opcodeLoadFP:
		d.decodeLoadFP(word, inst)
	case opcodeStoreFP:
		d.decodeStoreFP(word, inst)
	case opcodeOpFP:
		d.decodeOpFP(word, inst)
	case opcodeFMADD, opcodeFMSUB, opcodeFNMSUB, opcodeFNMADD:
		d.decodeFMA(word, inst)
	}

	return inst
}

// Field extraction helpers.

func rd(word uint32) uint8     { return uint8((word >> 7) & 0x1f) }
func rs1(word uint32) uint8    { return uint8((word >> 15) & 0x1f) }
func rs2(word uint32) uint8    { return uint8((word >> 20) & 0x1f) }
func rs3(word uint32) uint8    { return uint8((word >> 27) & 0x1f) }
func funct3(word uint32) uint8 { return uint8((word >> 12) & 0x7) }
func funct7(word uint32) uint8 { return uint8((word >> 25) & 0x7f) }

// immI extracts the I-format immediate, bits [31:20], sign-extended.
func immI(word uint32) int32 {
	return int32(word) >> 20
}

// immS extracts the S-format immediate, bits [31:25]|[11:7], sign-extended.
func immS(word uint32) int32 {
	imm := (word>>25)<<5 | (word>>7)&0x1f
	return int32(imm<<20) >> 20
}

// immB extracts the B-format immediate. The encoded bits are
// [12|10:5|4:1|11] scattered over [31|30:25|11:8|7]; bit 0 is always zero.
func immB(word uint32) int32 {
	imm := (word>>31)&0x1<<12 |
		(word>>7)&0x1<<11 |
		(word>>25)&0x3f<<5 |
		(word>>8)&0xf<<1
	return int32(imm<<19) >> 19
}

// immU extracts the U-format immediate, bits [31:12] already in position.
func immU(word uint32) int32 {
	return int32(word & 0xfffff000)
}

// immJ extracts the J-format immediate. The encoded bits are
// [20|10:1|11|19:12] scattered over [31|30:21|20|19:12]; bit 0 is always zero.
func immJ(word uint32) int32 {
	imm := (word>>31)&0x1<<20 |
		(word>>12)&0xff<<12 |
		(word>>20)&0x1<<11 |
		(word>>21)&0x3ff<<1
	return int32(imm<<11) >> 11
}

func (d *Decoder) decodeU(word uint32, inst *Instruction, op Op) {
	inst.Op = op
	inst.Format = FormatU
	inst.Rd = rd(word)
	inst.Imm = immU(word)
}

func (d *Decoder) decodeJAL(word uint32, inst *Instruction) {
	inst.Op = OpJAL
	inst.Format = FormatJ
	inst.Rd = rd(word)
	inst.Imm = immJ(word)
}

func (d *Decoder) decodeJALR(word uint32, inst *Instruction) {
	if funct3(word) != 0 {
		return
	}

	inst.Op = OpJALR
	inst.Format = FormatI
	inst.Rd = rd(word)
	inst.Rs1 = rs1(word)
	inst.Imm = immI(word)
}

func (d *Decoder) decodeBranch(word uint32, inst *Instruction) {
	ops := [8]Op{
		0b000: OpBEQ,
		0b001: OpBNE,
		0b100: OpBLT,
		0b101: OpBGE,
		0b110: OpBLTU,
		0b111: OpBGEU,
	}

	op := ops[funct3(word)]
	if op == OpUnknown {
		return
	}

	inst.Op = op
	inst.Format = FormatB
	inst.Rs1 = rs1(word)
	inst.Rs2 = rs2(word)
	inst.Imm = immB(word)
}

func (d *Decoder) decodeLoad(word uint32, inst *Instruction) {
	ops := [8]Op{
		0b000: OpLB,
		0b001: OpLH,
		0b010: OpLW,
		0b100: OpLBU,
		0b101: OpLHU,
	}

	op := ops[funct3(word)]
	if op == OpUnknown {
		return
	}

	inst.Op = op
	inst.Format = FormatI
	inst.Rd = rd(word)
	inst.Rs1 = rs1(word)
	inst.Imm = immI(word)
}

func (d *Decoder) decodeStore(word uint32, inst *Instruction) {
	ops := [8]Op{
		0b000: OpSB,
		0b001: OpSH,
		0b010: OpSW,
	}

	op := ops[funct3(word)]
	if op == OpUnknown {
		return
	}

	inst.Op = op
	inst.Format = FormatS
	inst.Rs1 = rs1(word)
	inst.Rs2 = rs2(word)
	inst.Imm = immS(word)
}

func (d *Decoder) decodeOpImm(word uint32, inst *Instruction) {
	f3 := funct3(word)
	f7 := funct7(word)

	var op Op
	switch f3 {
	case 0b000:
		op = OpADDI
	case 0b010:
		op = OpSLTI
	case 0b011:
		op = OpSLTIU
	case 0b100:
		op = OpXORI
	case 0b110:
		op = OpORI
	case 0b111:
		op = OpANDI
	case 0b001:
		if f7 != 0 {
			return
		}
		op = OpSLLI
	case 0b101:
		switch f7 {
		case 0b0000000:
			op = OpSRLI
		case 0b0100000:
			op = OpSRAI
		default:
			return
		}
	}

	inst.Op = op
	inst.Format = FormatI
	inst.Rd = rd(word)
	inst.Rs1 = rs1(word)

	// Shifts carry the shift amount in the rs2 field; the upper immediate
	// bits select the shift kind and are not part of the operand.
	switch op {
	case OpSLLI, OpSRLI, OpSRAI:
		inst.Imm = int32(rs2(word))
	default:
		inst.Imm = immI(word)
	}
}

func (d *Decoder) decodeOp(word uint32, inst *Instruction) {
	f3 := funct3(word)
	f7 := funct7(word)

	var op Op
	switch f7 {
	case 0b0000000:
		op = [8]Op{
			0b000: OpADD,
			0b001: OpSLL,
			0b010: OpSLT,
			0b011: OpSLTU,
			0b100: OpXOR,
			0b101: OpSRL,
			0b110: OpOR,
			0b111: OpAND,
		}[f3]
	case 0b0100000:
		switch f3 {
		case 0b000:
			op = OpSUB
		case 0b101:
			op = OpSRA
		}
	case 0b0000001:
		op = [8]Op{
			0b000: OpMUL,
			0b001: OpMULH,
			0b010: OpMULHSU,
			0b011: OpMULHU,
			0b100: OpDIV,
			0b101: OpDIVU,
			0b110: OpREM,
			0b111: OpREMU,
		}[f3]
	}

	if op == OpUnknown {
		return
	}

	inst.Op = op
	inst.Format = FormatR
	inst.Rd = rd(word)
	inst.Rs1 = rs1(word)
	inst.Rs2 = rs2(word)
}

func (d *Decoder) decodeMiscMem(word uint32, inst *Instruction) {
	// FENCE and FENCE.I; both are no-ops for a single in-order hart.
	if funct3(word) > 0b001 {
		return
	}

	inst.Op = OpFENCE
	inst.Format = FormatI
	inst.Rd = rd(word)
	inst.Rs1 = rs1(word)
	inst.Imm = immI(word)
}

func (d *Decoder) decodeSystem(word uint32, inst *Instruction) {
	if funct3(word) != 0 || rd(word) != 0 || rs1(word) != 0 {
		return
	}

	switch immI(word) {
	case 0:
		inst.Op = OpECALL
	case 1:
		inst.Op = OpEBREAK
	default:
		return
	}

	inst.Format = FormatI
}

func (d *Decoder) decodeLoadFP(word uint32, inst *Instruction) {
	if funct3(word) != 0b010 {
		return
	}

	inst.Op = OpFLW
	inst.Format = FormatI
	inst.Rd = rd(word)
	inst.Rs1 = rs1(word)
	inst.Imm = immI(word)
}

func (d *Decoder) decodeStoreFP(word uint32, inst *Instruction) {
	if funct3(word) != 0b010 {
		return
	}

	inst.Op = OpFSW
	inst.Format = FormatS
	inst.Rs1 = rs1(word)
	inst.Rs2 = rs2(word)
	inst.Imm = immS(word)
}

func (d *Decoder) decodeOpFP(word uint32, inst *Instruction) {
	f3 := funct3(word)
	f7 := funct7(word)

	var op Op
	switch f7 {
	case 0b0000000:
		op = OpFADDS
	case 0b0000100:
		op = OpFSUBS
	case 0b0001000:
		op = OpFMULS
	case 0b0001100:
		op = OpFDIVS
	case 0b0101100:
		if rs2(word) != 0 {
			return
		}
		op = OpFSQRTS
	case 0b0010000:
		switch f3 {
		case 0b000:
			op = OpFSGNJS
		case 0b001:
			op = OpFSGNJNS
		case 0b010:
			op = OpFSGNJXS
		default:
			return
		}
	case 0b0010100:
		switch f3 {
		case 0b000:
			op = OpFMINS
		case 0b001:
			op = OpFMAXS
		default:
			return
		}
	case 0b1100000:
		switch rs2(word) {
		case 0:
			op = OpFCVTWS
		case 1:
			op = OpFCVTWUS
		default:
			return
		}
	case 0b1101000:
		switch rs2(word) {
		case 0:
			op = OpFCVTSW
		case 1:
			op = OpFCVTSWU
		default:
			return
		}
	case 0b1110000:
		if rs2(word) != 0 {
			return
		}
		switch f3 {
		case 0b000:
			op = OpFMVXW
		case 0b001:
			op = OpFCLASSS
		default:
			return
		}
	case 0b1111000:
		if rs2(word) != 0 || f3 != 0 {
			return
		}
		op = OpFMVWX
	case 0b1010000:
		switch f3 {
		case 0b010:
			op = OpFEQS
		case 0b001:
			op = OpFLTS
		case 0b000:
			op = OpFLES
		default:
			return
		}
	default:
		return
	}

	inst.Op = op
	inst.Format = FormatR
	inst.Rd = rd(word)
	inst.Rs1 = rs1(word)
	inst.Rs2 = rs2(word)
}

func (d *Decoder) decodeFMA(word uint32, inst *Instruction) {
	// Bits [26:25] encode the operand width; 0b00 is single precision.
	if (word>>25)&0b11 != 0b00 {
		return
	}

	switch word & 0x7f {
	case opcodeFMADD:
		inst.Op = OpFMADDS
	case opcodeFMSUB:
		inst.Op = OpFMSUBS
	case opcodeFNMSUB:
		inst.Op = OpFNMSUBS
	case opcodeFNMADD:
		inst.Op = OpFNMADDS
	}

	inst.Format = FormatR4
	inst.Rd = rd(word)
	inst.Rs1 = rs1(word)
	inst.Rs2 = rs2(word)
	inst.Rs3 = rs3(word)
}
