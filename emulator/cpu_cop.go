package emulator

// opCop0 dispatches coprocessor-0 instructions, distinguished by the
// rs field (instr.S()): MFC0/MTC0 move registers to/from a GPR, and
// rs==0b10000 selects a COP0 "operation" distinguished by funct. The
// PSX never uses COP0's TLB (kuseg/kseg0/kseg1 are unmapped), but BIOS
// code sometimes probes TLBR/TLBWI/TLBWR/TLBP anyway, so they're
// accepted as no-ops rather than trapping.
func (cpu *Cpu) opCop0(instr Instruction) {
	switch instr.S() {
	case 0b00000: // MFC0
		cpu.setPendingLoad(instr.T(), cpu.Cop0.MFC0(instr.D()))
	case 0b00010: // CFC0 (control move, same register file as MFC0)
		cpu.setPendingLoad(instr.T(), cpu.Cop0.MFC0(instr.D()))
	case 0b00100: // MTC0
		cpu.Cop0.MTC0(instr.D(), cpu.Reg(instr.T()))
	case 0b00110: // CTC0
		cpu.Cop0.CTC0(instr.D(), cpu.Reg(instr.T()))
	case 0b10000:
		switch instr.Funct() {
		case 0b010000: // RFE
			cpu.Cop0.ReturnFromException()
		case 0b000001, 0b000010, 0b000110, 0b001000: // TLBR, TLBWI, TLBWR, TLBP
		default:
			cpu.raiseException(ExceptionReservedInstruction, cpu.delaySlot, cpu.currentPC)
		}
	default:
		cpu.raiseException(ExceptionReservedInstruction, cpu.delaySlot, cpu.currentPC)
	}
}

// opCop2 is a stub: the GTE (geometry transform engine) is an
// explicit Non-goal and is not modeled. Any MFC2/CFC2/MTC2/CTC2 or GTE
// compute opcode traps coprocessor-unusable, same as the real
// COP1/COP3 slots that have no coprocessor behind them at all. The
// trap does not halt the emulator: execution continues at the
// exception vector.
func (cpu *Cpu) opCop2(instr Instruction) {
	cpu.raiseException(ExceptionCoprocessorUnusable, cpu.delaySlot, cpu.currentPC)
}

// opLWC2/opSWC2 likewise trap coprocessor-unusable: both are GTE
// memory transfers, and with no GTE register file modeled there is
// nothing faithful for either to do but trap.
func (cpu *Cpu) opLWC2(instr Instruction) {
	cpu.raiseException(ExceptionCoprocessorUnusable, cpu.delaySlot, cpu.currentPC)
}

func (cpu *Cpu) opSWC2(instr Instruction) {
	cpu.raiseException(ExceptionCoprocessorUnusable, cpu.delaySlot, cpu.currentPC)
}

// opSYSCALL: triggers a SYSCALL exception unconditionally; the BIOS's
// syscall dispatcher (A0/B0/C0 tables) runs entirely from the
// exception handler, not modeled here.
func (cpu *Cpu) opSYSCALL(Instruction) {
	cpu.raiseException(ExceptionSyscall, cpu.delaySlot, cpu.currentPC)
}

// opBREAK: triggers a BREAKPOINT exception unconditionally.
func (cpu *Cpu) opBREAK(Instruction) {
	cpu.raiseException(ExceptionBreakpoint, cpu.delaySlot, cpu.currentPC)
}
