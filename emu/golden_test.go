package emu_test

import (
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
)

// End-to-end fixture programs. Each assembles a small test kernel that
// writes its results to the conventional result area (0x80001100), spins on
// a self-jump when done, and is checked word by word.

const (
	scratchBase = 0x80001000
	resultBase  = 0x80001100
)

var _ = Describe("Fixture programs", func() {
	var emulator *emu.Emulator

	BeforeEach(func() {
		memory := emu.NewMemoryWithSize(0x80000000, 0x10000)
		emulator = emu.NewEmulator(
			emu.WithMemory(memory),
			emu.WithStderr(io.Discard),
		)
	})

	// x1 = scratch base, x3 = result base
	prologue := func() []uint32 {
		return []uint32{
			lui(1, scratchBase),
			addi(3, 1, 0x100),
		}
	}

	run := func(words []uint32) emu.RunResult {
		loadWords(emulator, words)
		result := emulator.Run(10000)
		Expect(result.Reason).To(Equal(emu.StopFixedPoint))
		return result
	}

	resultWord := func(offset uint32) uint32 {
		v, err := emulator.Memory().Read32(resultBase + offset)
		Expect(err).ToNot(HaveOccurred())
		return v
	}

	It("should pass the branch fixture", func() {
		// x5 = -1, x6 = 1, x8 = x9 = 7. Each block stores its marker k
		// only if the branch behaves as the comparison semantics demand.
		words := prologue()
		words = append(words,
			addi(5, 0, -1),
			addi(6, 0, 1),
			addi(8, 0, 7),
			addi(9, 0, 7),
		)

		takenBlock := func(branch uint32, marker int32, offset int32) []uint32 {
			return []uint32{
				addi(7, 0, marker),
				branch, // expected taken: skips the clobber
				addi(7, 0, 0),
				sw(7, 1, offset),
			}
		}
		notTakenBlock := func(branch uint32, marker int32, offset int32) []uint32 {
			return []uint32{
				addi(7, 0, 0),
				branch, // expected not taken: falls through to the marker
				addi(7, 0, marker),
				sw(7, 1, offset),
			}
		}

		words = append(words, takenBlock(beq(8, 9, 8), 1, 0)...)
		words = append(words, notTakenBlock(beq(8, 6, 8), 2, 4)...)
		words = append(words, takenBlock(bne(8, 6, 8), 3, 8)...)
		words = append(words, notTakenBlock(bne(8, 9, 8), 4, 12)...)
		words = append(words, takenBlock(blt(5, 6, 8), 5, 16)...)
		words = append(words, notTakenBlock(blt(6, 5, 8), 6, 20)...)
		words = append(words, takenBlock(bge(6, 5, 8), 7, 24)...)
		words = append(words, takenBlock(bge(8, 9, 8), 8, 28)...)
		words = append(words, takenBlock(bltu(6, 5, 8), 9, 32)...)
		words = append(words, notTakenBlock(bltu(5, 6, 8), 10, 36)...)
		words = append(words, takenBlock(bgeu(5, 6, 8), 11, 40)...)
		words = append(words, takenBlock(bgeu(8, 9, 8), 12, 44)...)
		words = append(words, jal(0, 0))

		run(words)

		for k := uint32(1); k <= 12; k++ {
			v, err := emulator.Memory().Read32(scratchBase + (k-1)*4)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(k), "branch test %d", k)
		}
	})

	It("should pass the compare fixture", func() {
		words := prologue()
		words = append(words,
			addi(5, 0, -1), // 0xFFFFFFFF
			addi(6, 0, 1),

			slt(7, 5, 6), // -1 < 1 signed
			sw(7, 3, 0),
			sltu(7, 5, 6), // huge < 1 unsigned
			sw(7, 3, 4),
			slt(7, 6, 5),
			sw(7, 3, 8),
			sltu(7, 6, 5),
			sw(7, 3, 12),
			slti(7, 5, 0),
			sw(7, 3, 16),
			sltiu(7, 5, -1), // 0xFFFFFFFF < 0xFFFFFFFF
			sw(7, 3, 20),

			jal(0, 0),
		)

		run(words)

		expected := []uint32{1, 0, 0, 1, 1, 0}
		for i, want := range expected {
			Expect(resultWord(uint32(i * 4))).To(Equal(want), "compare test %d", i)
		}
	})

	It("should pass the logic fixture", func() {
		words := prologue()
		words = append(words,
			// x5 = 0xFF00F0F0, x6 = 0x0FF0FF00
			lui(5, 0xFF00F000),
			addi(5, 5, 0x0F0),
			lui(6, 0x0FF10000),
			addi(6, 6, -256),

			and(7, 5, 6),
			sw(7, 3, 0),
			or(7, 5, 6),
			sw(7, 3, 4),
			xor(7, 5, 6),
			sw(7, 3, 8),
			andi(7, 5, -1),
			sw(7, 3, 12),
			ori(7, 5, 0x0F),
			sw(7, 3, 16),
			xori(7, 5, -1),
			sw(7, 3, 20),

			jal(0, 0),
		)

		run(words)

		Expect(resultWord(0)).To(Equal(uint32(0x0F00F000)))
		Expect(resultWord(4)).To(Equal(uint32(0xFFF0FFF0)))
		Expect(resultWord(8)).To(Equal(uint32(0xF0F00FF0)))
		Expect(resultWord(12)).To(Equal(uint32(0xFF00F0F0)))
		Expect(resultWord(16)).To(Equal(uint32(0xFF00F0FF)))
		Expect(resultWord(20)).To(Equal(uint32(0x00FF0F0F)))
	})

	It("should pass the shift fixture", func() {
		words := prologue()
		words = append(words,
			addi(5, 0, 1),
			addi(6, 0, 33),  // masks to 1
			addi(8, 0, -20), // 0xFFFFFFEC

			sll(7, 5, 6), // 1 << 1
			sw(7, 3, 0),
			slli(7, 5, 4), // 1 << 4
			sw(7, 3, 4),
			srai(7, 8, 2), // -20 >> 2 = -5
			sw(7, 3, 8),
			srli(7, 8, 28), // logical: 0x0000000F
			sw(7, 3, 12),
			sra(7, 8, 6), // -20 >> 1 = -10
			sw(7, 3, 16),
			srl(7, 8, 6), // 0x7FFFFFF6
			sw(7, 3, 20),

			jal(0, 0),
		)

		run(words)

		Expect(resultWord(0)).To(Equal(uint32(2)))
		Expect(resultWord(4)).To(Equal(uint32(16)))
		Expect(int32(resultWord(8))).To(Equal(int32(-5)))
		Expect(resultWord(12)).To(Equal(uint32(0x0000000F)))
		Expect(int32(resultWord(16))).To(Equal(int32(-10)))
		Expect(resultWord(20)).To(Equal(uint32(0x7FFFFFF6)))
	})

	It("should pass the memory fixture", func() {
		words := prologue()
		words = append(words,
			// x2 = 0x8A67DEFA
			lui(2, 0x8A67E000),
			addi(2, 2, 0xEFA-0x1000),
			sw(2, 1, 0), // scratch word

			lw(4, 1, 0),
			sw(4, 3, 0),
			lh(4, 1, 0),
			sw(4, 3, 4),
			lhu(4, 1, 0),
			sw(4, 3, 8),
			lb(4, 1, 3),
			sw(4, 3, 12),
			lbu(4, 1, 3),
			sw(4, 3, 16),

			sb(2, 3, 20),
			sh(2, 3, 22),
			sw(2, 3, 24),

			jal(0, 0),
		)

		run(words)

		Expect(resultWord(0)).To(Equal(uint32(0x8A67DEFA)))
		Expect(resultWord(4)).To(Equal(uint32(0xFFFFDEFA)))
		Expect(resultWord(8)).To(Equal(uint32(0x0000DEFA)))
		Expect(resultWord(12)).To(Equal(uint32(0xFFFFFF8A)))
		Expect(resultWord(16)).To(Equal(uint32(0x0000008A)))

		b, _ := emulator.Memory().Read8(resultBase + 20)
		h, _ := emulator.Memory().Read16(resultBase + 22)
		Expect(b).To(Equal(uint8(0xFA)))
		Expect(h).To(Equal(uint16(0xDEFA)))
		Expect(resultWord(24)).To(Equal(uint32(0x8A67DEFA)))
	})

	It("should pass the fp fixture", func() {
		words := prologue()
		words = append(words,
			// Scratch holds the bit patterns of 1.5 and 2.25.
			lui(2, 0x3FC00000), // 1.5
			sw(2, 1, 0),
			lui(2, 0x40100000), // 2.25
			sw(2, 1, 4),

			flw(0, 1, 0), // f0 = 1.5
			flw(1, 1, 4), // f1 = 2.25

			fadds(2, 0, 1), // 3.75
			fsw(2, 3, 0),
			fmuls(3, 0, 1), // 3.375
			fsw(3, 3, 4),
			fdivs(4, 0, 1), // 2/3
			fsw(4, 3, 8),
			fcvtws(4, 2), // trunc(3.75) = 3
			sw(4, 3, 12),
			fsqrts(5, 1), // 1.5
			fsw(5, 3, 16),
			fclasss(4, 0), // positive normal
			sw(4, 3, 20),

			jal(0, 0),
		)

		run(words)

		Expect(resultWord(0)).To(Equal(uint32(0x40700000)))  // 3.75
		Expect(resultWord(4)).To(Equal(uint32(0x40580000)))  // 3.375
		Expect(resultWord(8)).To(Equal(uint32(0x3F2AAAAB)))  // 2/3 rounded
		Expect(resultWord(12)).To(Equal(uint32(3)))
		Expect(resultWord(16)).To(Equal(uint32(0x3FC00000))) // 1.5
		Expect(resultWord(20)).To(Equal(emu.ClassPosNormal))
	})

	It("should pass an arithmetic loop fixture", func() {
		// Sum of 1..10 via a countdown loop, then 55*2 and 55/2.
		words := prologue()
		words = append(words,
			addi(5, 0, 10), // counter
			addi(6, 0, 0),  // accumulator
			// loop:
			add(6, 6, 5),
			addi(5, 5, -1),
			bne(5, 0, -8), // back to loop
			sw(6, 3, 0),

			addi(7, 0, 2),
			mul(8, 6, 7),
			sw(8, 3, 4),
			div(8, 6, 7),
			sw(8, 3, 8),
			rem(8, 6, 7),
			sw(8, 3, 12),

			jal(0, 0),
		)

		run(words)

		Expect(resultWord(0)).To(Equal(uint32(55)))
		Expect(resultWord(4)).To(Equal(uint32(110)))
		Expect(resultWord(8)).To(Equal(uint32(27)))
		Expect(resultWord(12)).To(Equal(uint32(1)))
	})
})
