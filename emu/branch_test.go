package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

var _ = Describe("BranchUnit", func() {
	var (
		regFile    *emu.RegFile
		branchUnit *emu.BranchUnit
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		branchUnit = emu.NewBranchUnit(regFile)

		regFile.WriteReg(1, 0xFFFFFFFF) // -1 signed
		regFile.WriteReg(2, 1)
		regFile.WriteReg(3, 7)
		regFile.WriteReg(4, 7)
	})

	It("should take BEQ on equal and BNE on unequal operands", func() {
		Expect(branchUnit.Taken(insts.OpBEQ, 3, 4)).To(BeTrue())
		Expect(branchUnit.Taken(insts.OpBEQ, 3, 2)).To(BeFalse())
		Expect(branchUnit.Taken(insts.OpBNE, 3, 2)).To(BeTrue())
		Expect(branchUnit.Taken(insts.OpBNE, 3, 4)).To(BeFalse())
	})

	It("should compare BLT signed and BLTU unsigned", func() {
		Expect(branchUnit.Taken(insts.OpBLT, 1, 2)).To(BeTrue())
		Expect(branchUnit.Taken(insts.OpBLTU, 1, 2)).To(BeFalse())
		Expect(branchUnit.Taken(insts.OpBLTU, 2, 1)).To(BeTrue())
	})

	It("should take BGE and BGEU on equal operands", func() {
		Expect(branchUnit.Taken(insts.OpBGE, 3, 4)).To(BeTrue())
		Expect(branchUnit.Taken(insts.OpBGEU, 3, 4)).To(BeTrue())
	})

	It("should compare BGE signed and BGEU unsigned", func() {
		Expect(branchUnit.Taken(insts.OpBGE, 2, 1)).To(BeTrue())
		Expect(branchUnit.Taken(insts.OpBGE, 1, 2)).To(BeFalse())
		Expect(branchUnit.Taken(insts.OpBGEU, 1, 2)).To(BeTrue())
	})

	It("should treat x0 as zero in comparisons", func() {
		Expect(branchUnit.Taken(insts.OpBLT, 1, 0)).To(BeTrue())  // -1 < 0
		Expect(branchUnit.Taken(insts.OpBLTU, 0, 1)).To(BeTrue()) // 0 < max
	})
})
