package emulator

import "testing"

// asm packs NORMAL opcode and fields into an instruction word.
func asm(opcode, s, t, imm uint32) uint32 {
	return opcode<<26 | s<<21 | t<<16 | imm&0xffff
}

// asmR packs a SPECIAL (opcode 0) R-type instruction.
func asmR(s, t, d, shamt, funct uint32) uint32 {
	return s<<21 | t<<16 | d<<11 | shamt<<6 | funct
}

func newTestCpu() *Cpu {
	bios := &Bios{Data: make([]byte, BiosSize)}
	bus := NewBus(bios)
	cpu := NewCpu(bus)
	// make sure every register starts at zero so tests can assert on
	// exact register contents.
	for i := range cpu.regs {
		cpu.regs[i] = 0
	}
	cpu.outRegs = cpu.regs
	return cpu
}

// loadProgram writes words into RAM starting at physical 0 and points
// the CPU at kuseg address 0, so instructions are fetched from RAM
// instead of requiring a real BIOS image.
func loadProgram(cpu *Cpu, words []uint32) {
	for i, w := range words {
		cpu.Bus.Ram.Store32(uint32(i*4), w)
	}
	cpu.PC = 0
	cpu.nextPC = 4
}

func TestLuiOriCompose(t *testing.T) {
	cpu := newTestCpu()
	// LUI $t0, 0x1234 ; ORI $t0, $t0, 0x5678
	loadProgram(cpu, []uint32{
		asm(0b001111, 0, 8, 0x1234),
		asm(0b001101, 8, 8, 0x5678),
	})
	if err := cpu.Step(); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if err := cpu.Step(); err != nil {
		t.Fatalf("step 2: %v", err)
	}
	if got := cpu.Reg(8); got != 0x12345678 {
		t.Errorf("t0 = 0x%08x, want 0x12345678", got)
	}
}

func TestBranchDelaySlot(t *testing.T) {
	cpu := newTestCpu()
	// ADDIU $t0, $0, 1
	// BEQ   $0, $0, +2 (skip the instruction after the delay slot)
	// ADDIU $t1, $0, 0xbad  (delay slot: always executes)
	// ADDIU $t2, $0, 0xbad  (must be skipped)
	// ADDIU $t3, $0, 2      (branch target)
	loadProgram(cpu, []uint32{
		asm(0b001001, 0, 8, 1),
		asm(0b000100, 0, 0, 2),
		asm(0b001001, 0, 9, 0xbad),
		asm(0b001001, 0, 10, 0xbad),
		asm(0b001001, 0, 11, 2),
	})
	for i := 0; i < 4; i++ {
		if err := cpu.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := cpu.Reg(9); got != 0xbad {
		t.Errorf("delay slot instruction did not execute: t1 = 0x%x", got)
	}
	if got := cpu.Reg(10); got != 0 {
		t.Errorf("branch did not skip: t2 = 0x%x, want 0", got)
	}
	if got := cpu.Reg(11); got != 2 {
		t.Errorf("branch target did not run: t3 = 0x%x, want 2", got)
	}
}

func TestLoadDelaySlot(t *testing.T) {
	cpu := newTestCpu()
	cpu.Bus.Ram.Store32(0x100, 0xcafebabe)
	// LW $t0, 0x100($0)
	// ADDU $t1, $t0, $0   (must NOT see the loaded value yet)
	// ADDU $t2, $t0, $0   (must see it)
	loadProgram(cpu, []uint32{
		asm(0b100011, 0, 8, 0x100),
		asmR(8, 0, 9, 0, 0b100001),
		asmR(8, 0, 10, 0, 0b100001),
	})
	for i := 0; i < 3; i++ {
		if err := cpu.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := cpu.Reg(9); got != 0 {
		t.Errorf("load became visible one cycle too early: t1 = 0x%08x", got)
	}
	if got := cpu.Reg(10); got != 0xcafebabe {
		t.Errorf("load never became visible: t2 = 0x%08x", got)
	}
}

func TestCacheIsolatedStoreSuppressed(t *testing.T) {
	cpu := newTestCpu()
	cpu.Cop0.SetSR(1 << 16) // isolate cache
	// ADDIU $t0, $0, 0x200 ; ADDIU $t1, $0, 0x1234 ; SW $t1, 0($t0)
	loadProgram(cpu, []uint32{
		asm(0b001001, 0, 8, 0x200),
		asm(0b001001, 0, 9, 0x1234),
		asm(0b101011, 8, 9, 0),
	})
	for i := 0; i < 3; i++ {
		if err := cpu.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := cpu.Bus.Ram.Load32(0x200); got != 0xcdcdcdcd {
		t.Errorf("cache-isolated store reached RAM: 0x%08x", got)
	}
}

func TestAddOverflowTraps(t *testing.T) {
	cpu := newTestCpu()
	cpu.Cop0.SetSR(1 << 22) // BEV: vector at 0xbfc00180, reachable without real RAM mapping there
	// LUI $t0, 0x7fff ; ORI $t0, $t0, 0xffff (t0 = MaxInt32)
	// ADDIU $t1, $0, 1
	// ADD $t2, $t0, $t1  (overflow, should trap instead of writing t2)
	loadProgram(cpu, []uint32{
		asm(0b001111, 0, 8, 0x7fff),
		asm(0b001101, 8, 8, 0xffff),
		asm(0b001001, 0, 9, 1),
		asmR(8, 9, 10, 0, 0b100000),
	})
	for i := 0; i < 4; i++ {
		if err := cpu.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if cpu.Reg(10) != 0 {
		t.Errorf("ADD overflow did not trap: t2 = 0x%x", cpu.Reg(10))
	}
	if cpu.PC != 0xbfc00180 {
		t.Errorf("PC did not redirect to the exception vector: 0x%08x", cpu.PC)
	}
	cause := (cpu.Cop0.Cause() >> 2) & 0x1f
	if Exception(cause) != ExceptionOverflow {
		t.Errorf("cause = %s, want ARITHMETIC_OVERFLOW", Exception(cause))
	}
}

func TestRegisterZeroStaysZero(t *testing.T) {
	cpu := newTestCpu()
	loadProgram(cpu, []uint32{
		asm(0b001001, 0, 0, 0x1234), // ADDIU $0, $0, 0x1234
	})
	if err := cpu.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if cpu.Reg(0) != 0 {
		t.Errorf("r0 = 0x%x, want 0", cpu.Reg(0))
	}
}
