package cpu_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/headless"
	"github.com/beanboi7/chyp8/emu/opcode"
)

var _ = Describe("EMU", func() {
	var (
		e      *cpu.EMU
		screen *headless.Screen
		input  *stubInput
	)

	BeforeEach(func() {
		input = &stubInput{}
		e, screen = newTestEMU(input, 0xFF)
	})

	Describe("NewEMU", func() {
		It("should start at the program start with an empty state", func() {
			Expect(e.PC()).To(Equal(uint16(cpu.ProgramStart)))
			Expect(e.SP()).To(Equal(0))
			Expect(e.I).To(BeZero())
			Expect(e.Registers()).To(BeZero())
			Expect(e.DelayTimer()).To(BeZero())
			Expect(e.SoundTimer()).To(BeZero())
		})

		It("should load the font at address 0", func() {
			for i, b := range cpu.FontSet {
				Expect(e.Memory(uint16(i))).To(Equal(b))
			}
			Expect(e.Memory(uint16(len(cpu.FontSet)))).To(BeZero())
		})
	})

	Describe("NewDummy", func() {
		It("should use a headless screen and an idle keypad", func() {
			d := cpu.NewDummy()
			Expect(d.Output()).To(BeAssignableToTypeOf(&headless.Screen{}))

			d.Load(program(0x00E0, 0xE09E, 0xF10A))
			Expect(d.Step()).To(Succeed())
			Expect(d.Step()).To(Succeed())
			Expect(d.PC()).To(Equal(uint16(0x204)))

			d.V[1] = 9
			Expect(d.Step()).To(Succeed())
			Expect(d.V[1]).To(BeZero())
		})
	})

	Describe("Load", func() {
		It("should copy the program to the program start", func() {
			n := e.Load([]byte{0xDE, 0xAD, 0xBE, 0xEF})

			Expect(n).To(Equal(4))
			Expect(e.Memory(0x200)).To(Equal(uint8(0xDE)))
			Expect(e.Memory(0x201)).To(Equal(uint8(0xAD)))
			Expect(e.Memory(0x202)).To(Equal(uint8(0xBE)))
			Expect(e.Memory(0x203)).To(Equal(uint8(0xEF)))
		})

		It("should silently truncate programs that do not fit", func() {
			rom := make([]byte, cpu.MemorySize)
			for i := range rom {
				rom[i] = uint8(i)
			}

			n := e.Load(rom)

			Expect(n).To(Equal(cpu.MemorySize - cpu.ProgramStart))
			Expect(e.Memory(cpu.MaxAddress)).To(Equal(rom[n-1]))
			Expect(e.Memory(0)).To(Equal(cpu.FontSet[0]))
		})
	})

	Describe("Step", func() {
		It("should fetch, decode and execute the instruction at PC", func() {
			e.Load(program(0x6A23, 0x7A01))

			Expect(e.Step()).To(Succeed())
			Expect(e.V[0xA]).To(Equal(uint8(0x23)))
			Expect(e.PC()).To(Equal(uint16(0x202)))

			Expect(e.Step()).To(Succeed())
			Expect(e.V[0xA]).To(Equal(uint8(0x24)))
			Expect(e.PC()).To(Equal(uint16(0x204)))
		})

		It("should return after a call", func() {
			e.Load(program(0x2206, 0x0000, 0x0000, 0x00EE))

			Expect(e.Step()).To(Succeed())
			Expect(e.PC()).To(Equal(uint16(0x206)))
			Expect(e.SP()).To(Equal(1))

			Expect(e.Step()).To(Succeed())
			Expect(e.PC()).To(Equal(uint16(0x202)))
			Expect(e.SP()).To(Equal(0))
		})

		It("should halt on an invalid opcode without advancing", func() {
			e.Load(program(0xFFFF))

			err := e.Step()

			Expect(err).To(MatchError(opcode.ErrInvalidOpcode))
			var decodeErr *opcode.DecodeError
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
			Expect(decodeErr.Word.Value()).To(Equal(uint16(0xFFFF)))
			Expect(e.PC()).To(Equal(uint16(0x200)))
		})

		It("should fault when fetching past the end of memory", func() {
			Expect(e.Execute(opcode.Goto(cpu.MaxAddress))).To(Succeed())

			Expect(e.Step()).To(MatchError(cpu.ErrMemoryBounds))
		})

		It("should decrement the timers once per step", func() {
			e.Load(program(0x6003, 0xF015, 0xF018, 0x6100, 0x6100, 0x6100, 0x6100))

			for i := 0; i < 3; i++ {
				Expect(e.Step()).To(Succeed())
			}
			Expect(e.DelayTimer()).To(Equal(uint8(2)))
			Expect(e.SoundTimer()).To(Equal(uint8(3)))

			Expect(e.Step()).To(Succeed())
			Expect(e.DelayTimer()).To(Equal(uint8(1)))
			Expect(e.SoundTimer()).To(Equal(uint8(2)))

			for i := 0; i < 3; i++ {
				Expect(e.Step()).To(Succeed())
			}
			Expect(e.DelayTimer()).To(BeZero())
			Expect(e.SoundTimer()).To(BeZero())
		})

		It("should decrement the timers even when decoding fails", func() {
			Expect(e.ExecuteMany(opcode.SetConst(0, 5), opcode.SetDelay(0))).To(Succeed())
			e.Load(program(0x0000))

			Expect(e.Step()).To(HaveOccurred())
			Expect(e.DelayTimer()).To(Equal(uint8(4)))
		})
	})

	Describe("ExecuteMany", func() {
		It("should stop at the first fault", func() {
			err := e.ExecuteMany(
				opcode.SetConst(0, 1),
				opcode.Return(),
				opcode.SetConst(0, 2),
			)

			Expect(err).To(MatchError(cpu.ErrStackUnderflow))
			Expect(e.V[0]).To(Equal(uint8(1)))
		})

		It("should reject an instruction that was not decoded", func() {
			Expect(e.ExecuteMany(opcode.Instruction{})).To(MatchError(opcode.ErrInvalidOpcode))
		})
	})

	Describe("Output", func() {
		It("should be the device passed to NewEMU", func() {
			Expect(e.Output()).To(BeIdenticalTo(screen))
		})
	})
})
