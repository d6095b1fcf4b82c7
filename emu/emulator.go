package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/rv32sim/insts"
)

// State represents the execution state of the emulator.
type State uint8

// Emulator states.
const (
	// StateRunning means the emulator can execute further instructions.
	StateRunning State = iota

	// StateStopped means the program requested termination via ECALL or
	// EBREAK. The register file and memory hold the final program state.
	StateStopped

	// StateFaulted means execution trapped. The state is terminal; the
	// fault report identifies the faulting instruction.
	StateFaulted
)

// FaultReason identifies why the emulator faulted.
type FaultReason uint8

// Fault reasons.
const (
	// FaultIllegalInstruction marks an encoding the decoder rejects.
	FaultIllegalInstruction FaultReason = iota

	// FaultOutOfBoundsAccess marks a fetch, load, or store outside the
	// mapped memory range.
	FaultOutOfBoundsAccess
)

func (r FaultReason) String() string {
	switch r {
	case FaultIllegalInstruction:
		return "illegal instruction"
	case FaultOutOfBoundsAccess:
		return "out-of-bounds access"
	}
	return "unknown fault"
}

// Fault reports a trap: the PC of the faulting instruction, the reason,
// and for memory faults the offending address.
type Fault struct {
	PC     uint32
	Reason FaultReason
	Addr   uint32 // faulting address, valid for FaultOutOfBoundsAccess
}

func (f *Fault) Error() string {
	if f.Reason == FaultOutOfBoundsAccess {
		return fmt.Sprintf("%v at PC=0x%08X, addr=0x%08X", f.Reason, f.PC, f.Addr)
	}
	return fmt.Sprintf("%v at PC=0x%08X", f.Reason, f.PC)
}

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Stopped is true if the program requested termination (ECALL/EBREAK).
	Stopped bool

	// Fault is set if the instruction trapped.
	Fault *Fault
}

// StopReason identifies why Run returned.
type StopReason uint8

// Run stop reasons.
const (
	// StopEnvironmentCall means the program executed ECALL or EBREAK.
	StopEnvironmentCall StopReason = iota

	// StopFault means execution trapped; the fault report is attached.
	StopFault

	// StopBudget means the instruction budget ran out.
	StopBudget

	// StopFixedPoint means the PC stopped advancing (a jump or taken
	// branch to itself), the conventional end-of-program marker.
	StopFixedPoint
)

// RunResult represents the outcome of a Run call.
type RunResult struct {
	Reason       StopReason
	Instructions uint64 // instructions executed by this Run call
	Fault        *Fault // set when Reason is StopFault
}

// Emulator executes RV32IMF instructions functionally, one at a time.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit
	fpu        *FPU

	// I/O
	stderr io.Writer

	// Execution state
	state            State
	fault            *Fault
	instructionCount uint64
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stderr = w
	}
}

// WithMemory replaces the default memory.
func WithMemory(memory *Memory) EmulatorOption {
	return func(e *Emulator) {
		e.memory = memory
	}
}

// NewEmulator creates a new RV32 emulator with the PC at the memory base.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		memory:  NewMemory(),
		decoder: insts.NewDecoder(),
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.regFile.PC = e.memory.Base()

	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile)
	e.fpu = NewFPU(e.regFile)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// State returns the current execution state.
func (e *Emulator) State() State {
	return e.state
}

// Fault returns the fault report, or nil if the emulator has not faulted.
func (e *Emulator) Fault() *Fault {
	return e.fault
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram copies a program image to addr and points the PC at it.
func (e *Emulator) LoadProgram(addr uint32, image []byte) error {
	if err := e.memory.LoadImage(addr, image); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	e.regFile.PC = addr
	return nil
}

// Reset returns the emulator to its initial state with cleared memory.
func (e *Emulator) Reset() {
	e.regFile = &RegFile{}
	e.memory = NewMemoryWithSize(e.memory.Base(), e.memory.Size())
	e.regFile.PC = e.memory.Base()
	e.state = StateRunning
	e.fault = nil
	e.instructionCount = 0

	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile)
	e.fpu = NewFPU(e.regFile)
}

// Step executes a single instruction.
// Once the emulator is faulted, Step keeps returning the same fault.
func (e *Emulator) Step() StepResult {
	if e.state == StateFaulted {
		return StepResult{Fault: e.fault}
	}
	if e.state == StateStopped {
		return StepResult{Stopped: true}
	}

	// 1. Fetch
	word, err := e.memory.Read32(e.regFile.PC)
	if err != nil {
		return e.trap(FaultOutOfBoundsAccess, e.regFile.PC)
	}

	// 2. Decode
	inst := e.decoder.Decode(word)

	// 3. Execute
	result := e.execute(inst)

	if result.Fault == nil {
		e.instructionCount++
	}

	return result
}

// Run executes instructions until the program stops via ECALL/EBREAK, a
// fault occurs, the PC stops advancing, or the budget is exhausted.
// A budget of 0 means no limit.
func (e *Emulator) Run(budget uint64) RunResult {
	var executed uint64

	for budget == 0 || executed < budget {
		pc := e.regFile.PC

		result := e.Step()
		if result.Fault != nil {
			_, _ = fmt.Fprintf(e.stderr, "emulation fault: %v\n", result.Fault)
			return RunResult{
				Reason:       StopFault,
				Instructions: executed,
				Fault:        result.Fault,
			}
		}
		executed++

		if result.Stopped {
			return RunResult{Reason: StopEnvironmentCall, Instructions: executed}
		}
		if e.regFile.PC == pc {
			return RunResult{Reason: StopFixedPoint, Instructions: executed}
		}
	}

	return RunResult{Reason: StopBudget, Instructions: executed}
}

// trap moves the emulator to the faulted state.
func (e *Emulator) trap(reason FaultReason, addr uint32) StepResult {
	e.state = StateFaulted
	e.fault = &Fault{PC: e.regFile.PC, Reason: reason, Addr: addr}
	return StepResult{Fault: e.fault}
}

// trapMemory converts a load/store error into an out-of-bounds fault.
func (e *Emulator) trapMemory(err error) StepResult {
	if accessErr, ok := err.(*AccessError); ok {
		return e.trap(FaultOutOfBoundsAccess, accessErr.Addr)
	}
	return e.trap(FaultOutOfBoundsAccess, 0)
}

// execute dispatches a decoded instruction to its execution unit and
// advances the PC.
func (e *Emulator) execute(inst *insts.Instruction) StepResult {
	switch inst.Op {
	case insts.OpUnknown:
		return e.trap(FaultIllegalInstruction, 0)

	case insts.OpECALL, insts.OpEBREAK:
		e.state = StateStopped
		e.regFile.PC += 4
		return StepResult{Stopped: true}

	case insts.OpFENCE:
		e.regFile.PC += 4
		return StepResult{}

	case insts.OpLUI:
		e.regFile.WriteReg(inst.Rd, uint32(inst.Imm))

	case insts.OpAUIPC:
		e.regFile.WriteReg(inst.Rd, e.regFile.PC+uint32(inst.Imm))

	case insts.OpJAL:
		e.regFile.WriteReg(inst.Rd, e.regFile.PC+4)
		e.regFile.PC += uint32(inst.Imm)
		return StepResult{}

	case insts.OpJALR:
		target := (e.regFile.ReadReg(inst.Rs1) + uint32(inst.Imm)) &^ 1
		e.regFile.WriteReg(inst.Rd, e.regFile.PC+4)
		e.regFile.PC = target
		return StepResult{}

	case insts.OpBEQ, insts.OpBNE, insts.OpBLT,
		insts.OpBGE, insts.OpBLTU, insts.OpBGEU:
		if e.branchUnit.Taken(inst.Op, inst.Rs1, inst.Rs2) {
			e.regFile.PC += uint32(inst.Imm)
		} else {
			e.regFile.PC += 4
		}
		return StepResult{}

	case insts.OpLB, insts.OpLH, insts.OpLW, insts.OpLBU, insts.OpLHU,
		insts.OpSB, insts.OpSH, insts.OpSW, insts.OpFLW, insts.OpFSW:
		if err := e.executeMemory(inst); err != nil {
			return e.trapMemory(err)
		}

	case insts.OpADDI, insts.OpSLTI, insts.OpSLTIU, insts.OpXORI,
		insts.OpORI, insts.OpANDI, insts.OpSLLI, insts.OpSRLI, insts.OpSRAI:
		e.executeOpImm(inst)

	case insts.OpADD, insts.OpSUB, insts.OpSLL, insts.OpSLT, insts.OpSLTU,
		insts.OpXOR, insts.OpSRL, insts.OpSRA, insts.OpOR, insts.OpAND,
		insts.OpMUL, insts.OpMULH, insts.OpMULHSU, insts.OpMULHU,
		insts.OpDIV, insts.OpDIVU, insts.OpREM, insts.OpREMU:
		e.executeOp(inst)

	default:
		e.executeFP(inst)
	}

	e.regFile.PC += 4
	return StepResult{}
}

// executeMemory executes loads and stores through the load/store unit.
func (e *Emulator) executeMemory(inst *insts.Instruction) error {
	switch inst.Op {
	case insts.OpLB:
		return e.lsu.LB(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLH:
		return e.lsu.LH(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLW:
		return e.lsu.LW(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLBU:
		return e.lsu.LBU(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpLHU:
		return e.lsu.LHU(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSB:
		return e.lsu.SB(inst.Rs2, inst.Rs1, inst.Imm)
	case insts.OpSH:
		return e.lsu.SH(inst.Rs2, inst.Rs1, inst.Imm)
	case insts.OpSW:
		return e.lsu.SW(inst.Rs2, inst.Rs1, inst.Imm)
	case insts.OpFLW:
		return e.lsu.FLW(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpFSW:
		return e.lsu.FSW(inst.Rs2, inst.Rs1, inst.Imm)
	}
	return nil
}

// executeOpImm executes register-immediate ALU instructions.
func (e *Emulator) executeOpImm(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpADDI:
		e.alu.ADDI(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSLTI:
		e.alu.SLTI(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSLTIU:
		e.alu.SLTIU(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpXORI:
		e.alu.XORI(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpORI:
		e.alu.ORI(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpANDI:
		e.alu.ANDI(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSLLI:
		e.alu.SLLI(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSRLI:
		e.alu.SRLI(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSRAI:
		e.alu.SRAI(inst.Rd, inst.Rs1, inst.Imm)
	}
}

// executeOp executes register-register ALU instructions.
func (e *Emulator) executeOp(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpADD:
		e.alu.ADD(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSUB:
		e.alu.SUB(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSLL:
		e.alu.SLL(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSLT:
		e.alu.SLT(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSLTU:
		e.alu.SLTU(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpXOR:
		e.alu.XOR(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSRL:
		e.alu.SRL(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSRA:
		e.alu.SRA(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpOR:
		e.alu.OR(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpAND:
		e.alu.AND(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpMUL:
		e.alu.MUL(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpMULH:
		e.alu.MULH(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpMULHSU:
		e.alu.MULHSU(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpMULHU:
		e.alu.MULHU(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpDIV:
		e.alu.DIV(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpDIVU:
		e.alu.DIVU(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpREM:
		e.alu.REM(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpREMU:
		e.alu.REMU(inst.Rd, inst.Rs1, inst.Rs2)
	}
}

// executeFP executes floating-point instructions.
func (e *Emulator) executeFP(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpFADDS:
		e.fpu.FADDS(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpFSUBS:
		e.fpu.FSUBS(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpFMULS:
		e.fpu.FMULS(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpFDIVS:
		e.fpu.FDIVS(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpFSQRTS:
		e.fpu.FSQRTS(inst.Rd, inst.Rs1)
	case insts.OpFSGNJS:
		e.fpu.FSGNJS(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpFSGNJNS:
		e.fpu.FSGNJNS(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpFSGNJXS:
		e.fpu.FSGNJXS(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpFMINS:
		e.fpu.FMINS(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpFMAXS:
		e.fpu.FMAXS(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpFCVTWS:
		e.fpu.FCVTWS(inst.Rd, inst.Rs1)
	case insts.OpFCVTWUS:
		e.fpu.FCVTWUS(inst.Rd, inst.Rs1)
	case insts.OpFCVTSW:
		e.fpu.FCVTSW(inst.Rd, inst.Rs1)
	case insts.OpFCVTSWU:
		e.fpu.FCVTSWU(inst.Rd, inst.Rs1)
	case insts.OpFMVXW:
		e.fpu.FMVXW(inst.Rd, inst.Rs1)
	case insts.OpFMVWX:
		e.fpu.FMVWX(inst.Rd, inst.Rs1)
	case insts.OpFEQS:
		e.fpu.FEQS(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpFLTS:
		e.fpu.FLTS(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpFLES:
		e.fpu.FLES(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpFCLASSS:
		e.fpu.FCLASSS(inst.Rd, inst.Rs1)
	case insts.OpFMADDS:
		e.fpu.FMADDS(inst.Rd, inst.Rs1, inst.Rs2, inst.Rs3)
	case insts.OpFMSUBS:
		e.fpu.FMSUBS(inst.Rd, inst.Rs1, inst.Rs2, inst.Rs3)
	case insts.OpFNMSUBS:
		e.fpu.FNMSUBS(inst.Rd, inst.Rs1, inst.Rs2, inst.Rs3)
	case insts.OpFNMADDS:
		e.fpu.FNMADDS(inst.Rd, inst.Rs1, inst.Rs2, inst.Rs3)
	}
}
