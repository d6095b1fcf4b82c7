package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
)

var _ = Describe("Memory", func() {
	var memory *emu.Memory

	BeforeEach(func() {
		memory = emu.NewMemoryWithSize(0x80000000, 0x1000)
	})

	It("should use the default base and size", func() {
		m := emu.NewMemory()

		Expect(m.Base()).To(Equal(uint32(0x80000000)))
		Expect(m.Size()).To(Equal(uint32(16 * 1024 * 1024)))
	})

	It("should store words little-endian", func() {
		Expect(memory.Write32(0x80000000, 0x12345678)).To(Succeed())

		b0, _ := memory.Read8(0x80000000)
		b1, _ := memory.Read8(0x80000001)
		b2, _ := memory.Read8(0x80000002)
		b3, _ := memory.Read8(0x80000003)
		Expect(b0).To(Equal(uint8(0x78)))
		Expect(b1).To(Equal(uint8(0x56)))
		Expect(b2).To(Equal(uint8(0x34)))
		Expect(b3).To(Equal(uint8(0x12)))
	})

	It("should round-trip halfwords", func() {
		Expect(memory.Write16(0x80000010, 0xBEEF)).To(Succeed())

		v, err := memory.Read16(0x80000010)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(uint16(0xBEEF)))
	})

	It("should allow unaligned access", func() {
		Expect(memory.Write32(0x80000001, 0xAABBCCDD)).To(Succeed())

		v, err := memory.Read32(0x80000001)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(uint32(0xAABBCCDD)))
	})

	It("should fail reads below the base", func() {
		_, err := memory.Read32(0x7FFFFFFC)

		var accessErr *emu.AccessError
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(accessErr))
		Expect(err.(*emu.AccessError).Addr).To(Equal(uint32(0x7FFFFFFC)))
		Expect(err.(*emu.AccessError).Write).To(BeFalse())
	})

	It("should fail writes past the end", func() {
		err := memory.Write8(0x80001000, 1)

		Expect(err).To(HaveOccurred())
		Expect(err.(*emu.AccessError).Write).To(BeTrue())
	})

	It("should fail accesses straddling the end", func() {
		_, err := memory.Read32(0x80000FFE)

		Expect(err).To(HaveOccurred())
		Expect(err.(*emu.AccessError).Addr).To(Equal(uint32(0x80000FFE)))
	})

	It("should succeed at the last mapped byte", func() {
		Expect(memory.Write8(0x80000FFF, 0xAB)).To(Succeed())

		v, err := memory.Read8(0x80000FFF)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(uint8(0xAB)))
	})

	It("should load program images at an offset", func() {
		image := []byte{1, 2, 3, 4}
		Expect(memory.LoadImage(0x80000100, image)).To(Succeed())

		v, _ := memory.Read32(0x80000100)
		Expect(v).To(Equal(uint32(0x04030201)))
	})

	It("should reject images that do not fit", func() {
		image := make([]byte, 8)

		Expect(memory.LoadImage(0x80000FFC, image)).ToNot(Succeed())
	})
})
