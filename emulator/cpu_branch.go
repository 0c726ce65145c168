package emulator

// branchOffset computes a PC-relative branch target: the address of
// the delay-slot instruction (cpu.PC, already advanced this cycle)
// plus the sign-extended, word-shifted immediate.
func (cpu *Cpu) branchOffset(instr Instruction) uint32 {
	return cpu.PC + (instr.ImmSE() << 2)
}

// opJ: Jump. Target replaces the low 28 bits of the delay slot's own
// address region (the top 4 bits carry through unchanged).
func (cpu *Cpu) opJ(instr Instruction) {
	target := (cpu.PC & 0xf0000000) | (instr.Target() << 2)
	cpu.doBranch(target)
}

// opJAL: Jump And Link. Identical to J, but also stashes the return
// address (delay slot + 4) in $ra.
func (cpu *Cpu) opJAL(instr Instruction) {
	ra := cpu.PC + 4
	cpu.opJ(instr)
	cpu.SetReg(31, ra)
}

// opJR: Jump Register.
func (cpu *Cpu) opJR(instr Instruction) {
	cpu.doBranch(cpu.Reg(instr.S()))
}

// opJALR: Jump And Link Register.
func (cpu *Cpu) opJALR(instr Instruction) {
	ra := cpu.PC + 4
	cpu.doBranch(cpu.Reg(instr.S()))
	cpu.SetReg(instr.D(), ra)
}

// opBEQ: Branch on Equal.
func (cpu *Cpu) opBEQ(instr Instruction) {
	if cpu.Reg(instr.S()) == cpu.Reg(instr.T()) {
		cpu.doBranch(cpu.branchOffset(instr))
	}
}

// opBNE: Branch on Not Equal.
func (cpu *Cpu) opBNE(instr Instruction) {
	if cpu.Reg(instr.S()) != cpu.Reg(instr.T()) {
		cpu.doBranch(cpu.branchOffset(instr))
	}
}

// opBLEZ: Branch on Less than or Equal to Zero.
func (cpu *Cpu) opBLEZ(instr Instruction) {
	if int32(cpu.Reg(instr.S())) <= 0 {
		cpu.doBranch(cpu.branchOffset(instr))
	}
}

// opBGTZ: Branch on Greater Than Zero.
func (cpu *Cpu) opBGTZ(instr Instruction) {
	if int32(cpu.Reg(instr.S())) > 0 {
		cpu.doBranch(cpu.branchOffset(instr))
	}
}

// opBcondZ dispatches the BLTZ/BGEZ/BLTZAL/BGEZAL family, all of
// which share opcode 0b000001 and are distinguished by the rt field.
func (cpu *Cpu) opBcondZ(instr Instruction) {
	s := int32(cpu.Reg(instr.S()))
	t := instr.T()

	isGe := t&1 != 0
	isLink := t&0x1e == 0x10 // bits [4:1] == 0b1000: BLTZAL/BGEZAL

	var taken bool
	if isGe {
		taken = s >= 0
	} else {
		taken = s < 0
	}

	if isLink {
		cpu.SetReg(31, cpu.PC+4)
	}
	if taken {
		cpu.doBranch(cpu.branchOffset(instr))
	}
}
