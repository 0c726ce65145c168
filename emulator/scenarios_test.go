package emulator_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zeozeozeo/psxcore/emulator"
)

func scenarioASM(opcode, s, t, imm uint32) uint32 {
	return opcode<<26 | s<<21 | t<<16 | imm&0xffff
}

func scenarioASMR(s, t, d, shamt, funct uint32) uint32 {
	return s<<21 | t<<16 | d<<11 | shamt<<6 | funct
}

func newScenarioCpu() *emulator.Cpu {
	bios := &emulator.Bios{Data: make([]byte, emulator.BiosSize)}
	bus := emulator.NewBus(bios)
	return emulator.NewCpu(bus)
}

// loadScenarioProgram places words at the start of the BIOS image, so a
// freshly reset cpu fetches them from its reset vector (0xbfc00000).
func loadScenarioProgram(cpu *emulator.Cpu, bus *emulator.Bus, words []uint32) {
	for i, w := range words {
		binary.LittleEndian.PutUint32(bus.Bios.Data[i*4:], w)
	}
}

var _ = Describe("R3000A core", func() {
	Describe("LUI/ORI compose", func() {
		It("builds a 32-bit constant from an upper and lower half", func() {
			bios := &emulator.Bios{Data: make([]byte, emulator.BiosSize)}
			bus := emulator.NewBus(bios)
			cpu := emulator.NewCpu(bus)
			loadScenarioProgram(cpu, bus, []uint32{
				scenarioASM(0b001111, 0, 8, 0xdead), // LUI t0, 0xdead
				scenarioASM(0b001101, 8, 8, 0xbeef), // ORI t0, t0, 0xbeef
			})
			Expect(cpu.Step()).To(Succeed())
			Expect(cpu.Step()).To(Succeed())
			Expect(cpu.Reg(8)).To(Equal(uint32(0xdeadbeef)))
		})
	})

	Describe("branch delay slot", func() {
		It("always executes the instruction immediately after a branch", func() {
			bios := &emulator.Bios{Data: make([]byte, emulator.BiosSize)}
			bus := emulator.NewBus(bios)
			cpu := emulator.NewCpu(bus)
			loadScenarioProgram(cpu, bus, []uint32{
				scenarioASM(0b000100, 0, 0, 2),      // BEQ 0,0,+2
				scenarioASM(0b001001, 0, 8, 0xaaaa), // delay slot: ADDIU t0, 0xaaaa
				scenarioASM(0b001001, 0, 9, 0xbbbb), // skipped
				scenarioASM(0b001001, 0, 10, 0xcccc), // branch target
			})
			for i := 0; i < 3; i++ {
				Expect(cpu.Step()).To(Succeed())
			}
			// ADDIU sign-extends its immediate: 0xaaaa -> 0xffffaaaa.
			Expect(cpu.Reg(8)).To(Equal(uint32(0xffffaaaa)))
			Expect(cpu.Reg(9)).To(Equal(uint32(0)))
			Expect(cpu.Reg(10)).To(Equal(uint32(0xffffcccc)))
		})
	})

	Describe("load delay slot", func() {
		It("makes a loaded value visible only starting the next instruction", func() {
			bios := &emulator.Bios{Data: make([]byte, emulator.BiosSize)}
			bus := emulator.NewBus(bios)
			cpu := emulator.NewCpu(bus)
			bus.Ram.Store32(0x40, 0x01020304)
			loadScenarioProgram(cpu, bus, []uint32{
				scenarioASM(0b100011, 0, 8, 0x40),      // LW t0, 0x40(0)
				scenarioASMR(8, 0, 9, 0, 0b100001),     // ADDU t1, t0, 0  (too early)
				scenarioASMR(8, 0, 10, 0, 0b100001),    // ADDU t2, t0, 0  (sees it)
			})
			for i := 0; i < 3; i++ {
				Expect(cpu.Step()).To(Succeed())
			}
			Expect(cpu.Reg(9)).To(Equal(uint32(0)))
			Expect(cpu.Reg(10)).To(Equal(uint32(0x01020304)))
		})
	})

	Describe("cache-isolated store", func() {
		It("discards a store instead of writing through to RAM", func() {
			cpu := newScenarioCpu()
			cpu.Cop0.SetSR(1 << 16)
			loadScenarioProgram(cpu, cpu.Bus, []uint32{
				scenarioASM(0b001001, 0, 8, 0x80),   // ADDIU t0, 0x80
				scenarioASM(0b001001, 0, 9, 0x1234), // ADDIU t1, 0x1234
				scenarioASM(0b101011, 8, 9, 0),      // SW t1, 0(t0)
			})
			for i := 0; i < 3; i++ {
				Expect(cpu.Step()).To(Succeed())
			}
			Expect(cpu.Bus.Ram.Load32(0x80)).NotTo(Equal(uint32(0x1234)))
		})
	})

	Describe("signed overflow on ADD", func() {
		It("traps into the exception vector instead of writing the result", func() {
			cpu := newScenarioCpu()
			cpu.Cop0.SetSR(1 << 22) // BEV
			loadScenarioProgram(cpu, cpu.Bus, []uint32{
				scenarioASM(0b001111, 0, 8, 0x7fff),     // LUI t0, 0x7fff
				scenarioASM(0b001101, 8, 8, 0xffff),     // ORI t0, t0, 0xffff (MaxInt32)
				scenarioASM(0b001001, 0, 9, 1),          // ADDIU t1, 1
				scenarioASMR(8, 9, 10, 0, 0b100000),     // ADD t2, t0, t1 (overflows)
			})
			for i := 0; i < 4; i++ {
				Expect(cpu.Step()).To(Succeed())
			}
			Expect(cpu.Reg(10)).To(Equal(uint32(0)))
			Expect(cpu.PC).To(Equal(uint32(0xbfc00180)))
		})
	})

	Describe("DMA OTC list terminator", func() {
		It("writes the 0x00FFFFFF sentinel as the last entry of the table", func() {
			bios := &emulator.Bios{Data: make([]byte, emulator.BiosSize)}
			bus := emulator.NewBus(bios)

			const base = 0x2000
			const count = 8
			ch := bus.Dma.Channel(emulator.PortOtc)
			ch.SetBase(base)
			ch.SetBlockControl(count)
			ch.Direction = emulator.DirectionToRam
			ch.Step = emulator.StepDecrement
			ch.Sync = emulator.SyncImmediate
			ch.Enable = true
			ch.Trigger = true

			bus.Dma.Control = 1 << (4*uint(emulator.PortOtc) + 3)
			bus.Dma.Run(bus)

			last := bus.Ram.Load32(base - (count-1)*4)
			Expect(last).To(Equal(uint32(0x00ffffff)))
		})
	})
})
