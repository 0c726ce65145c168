package emulator

// opLUI: Load Upper Immediate.
func (cpu *Cpu) opLUI(instr Instruction) {
	cpu.SetReg(instr.T(), instr.Imm()<<16)
}

// opORI: Bitwise Or Immediate.
func (cpu *Cpu) opORI(instr Instruction) {
	cpu.SetReg(instr.T(), cpu.Reg(instr.S())|instr.Imm())
}

// opANDI: Bitwise And Immediate.
func (cpu *Cpu) opANDI(instr Instruction) {
	cpu.SetReg(instr.T(), cpu.Reg(instr.S())&instr.Imm())
}

// opXORI: Bitwise Exclusive Or Immediate.
func (cpu *Cpu) opXORI(instr Instruction) {
	cpu.SetReg(instr.T(), cpu.Reg(instr.S())^instr.Imm())
}

// opADDI: Add Immediate, trapping on signed overflow.
func (cpu *Cpu) opADDI(instr Instruction) {
	s := cpu.Reg(instr.S())
	imm := instr.ImmSE()
	if addOverflows32(s, imm) {
		cpu.raiseException(ExceptionOverflow, cpu.delaySlot, cpu.currentPC)
		return
	}
	cpu.SetReg(instr.T(), s+imm)
}

// opADDIU: Add Immediate Unsigned. Despite the name this still uses a
// sign-extended immediate; it simply never traps on overflow.
func (cpu *Cpu) opADDIU(instr Instruction) {
	cpu.SetReg(instr.T(), cpu.Reg(instr.S())+instr.ImmSE())
}

// opSLTI: Set on Less Than Immediate (signed).
func (cpu *Cpu) opSLTI(instr Instruction) {
	v := int32(cpu.Reg(instr.S())) < int32(instr.ImmSE())
	cpu.SetReg(instr.T(), oneIfTrue(v))
}

// opSLTIU: Set on Less Than Immediate Unsigned.
func (cpu *Cpu) opSLTIU(instr Instruction) {
	v := cpu.Reg(instr.S()) < instr.ImmSE()
	cpu.SetReg(instr.T(), oneIfTrue(v))
}

// opSLL: Shift Left Logical.
func (cpu *Cpu) opSLL(instr Instruction) {
	cpu.SetReg(instr.D(), cpu.Reg(instr.T())<<instr.Shamt())
}

// opSRL: Shift Right Logical.
func (cpu *Cpu) opSRL(instr Instruction) {
	cpu.SetReg(instr.D(), cpu.Reg(instr.T())>>instr.Shamt())
}

// opSRA: Shift Right Arithmetic.
func (cpu *Cpu) opSRA(instr Instruction) {
	v := int32(cpu.Reg(instr.T())) >> instr.Shamt()
	cpu.SetReg(instr.D(), uint32(v))
}

// opSLLV: Shift Left Logical Variable.
func (cpu *Cpu) opSLLV(instr Instruction) {
	cpu.SetReg(instr.D(), cpu.Reg(instr.T())<<(cpu.Reg(instr.S())&0x1f))
}

// opSRLV: Shift Right Logical Variable.
func (cpu *Cpu) opSRLV(instr Instruction) {
	cpu.SetReg(instr.D(), cpu.Reg(instr.T())>>(cpu.Reg(instr.S())&0x1f))
}

// opSRAV: Shift Right Arithmetic Variable.
func (cpu *Cpu) opSRAV(instr Instruction) {
	v := int32(cpu.Reg(instr.T())) >> (cpu.Reg(instr.S()) & 0x1f)
	cpu.SetReg(instr.D(), uint32(v))
}

// opADD: Add, trapping on signed overflow.
func (cpu *Cpu) opADD(instr Instruction) {
	s := cpu.Reg(instr.S())
	t := cpu.Reg(instr.T())
	if addOverflows32(s, t) {
		cpu.raiseException(ExceptionOverflow, cpu.delaySlot, cpu.currentPC)
		return
	}
	cpu.SetReg(instr.D(), s+t)
}

// opADDU: Add Unsigned, never traps.
func (cpu *Cpu) opADDU(instr Instruction) {
	cpu.SetReg(instr.D(), cpu.Reg(instr.S())+cpu.Reg(instr.T()))
}

// opSUB: Subtract, trapping on signed overflow.
func (cpu *Cpu) opSUB(instr Instruction) {
	s := cpu.Reg(instr.S())
	t := cpu.Reg(instr.T())
	if subOverflows32(s, t) {
		cpu.raiseException(ExceptionOverflow, cpu.delaySlot, cpu.currentPC)
		return
	}
	cpu.SetReg(instr.D(), s-t)
}

// opSUBU: Subtract Unsigned, never traps.
func (cpu *Cpu) opSUBU(instr Instruction) {
	cpu.SetReg(instr.D(), cpu.Reg(instr.S())-cpu.Reg(instr.T()))
}

// opAND: Bitwise And.
func (cpu *Cpu) opAND(instr Instruction) {
	cpu.SetReg(instr.D(), cpu.Reg(instr.S())&cpu.Reg(instr.T()))
}

// opOR: Bitwise Or.
func (cpu *Cpu) opOR(instr Instruction) {
	cpu.SetReg(instr.D(), cpu.Reg(instr.S())|cpu.Reg(instr.T()))
}

// opXOR: Bitwise Exclusive Or.
func (cpu *Cpu) opXOR(instr Instruction) {
	cpu.SetReg(instr.D(), cpu.Reg(instr.S())^cpu.Reg(instr.T()))
}

// opNOR: Bitwise Not Or.
func (cpu *Cpu) opNOR(instr Instruction) {
	cpu.SetReg(instr.D(), ^(cpu.Reg(instr.S()) | cpu.Reg(instr.T())))
}

// opSLT: Set on Less Than (signed).
func (cpu *Cpu) opSLT(instr Instruction) {
	v := int32(cpu.Reg(instr.S())) < int32(cpu.Reg(instr.T()))
	cpu.SetReg(instr.D(), oneIfTrue(v))
}

// opSLTU: Set on Less Than Unsigned.
func (cpu *Cpu) opSLTU(instr Instruction) {
	v := cpu.Reg(instr.S()) < cpu.Reg(instr.T())
	cpu.SetReg(instr.D(), oneIfTrue(v))
}

// opMFHI: Move From HI.
func (cpu *Cpu) opMFHI(instr Instruction) {
	cpu.SetReg(instr.D(), cpu.Hi)
}

// opMTHI: Move To HI.
func (cpu *Cpu) opMTHI(instr Instruction) {
	cpu.Hi = cpu.Reg(instr.S())
}

// opMFLO: Move From LO.
func (cpu *Cpu) opMFLO(instr Instruction) {
	cpu.SetReg(instr.D(), cpu.Lo)
}

// opMTLO: Move To LO.
func (cpu *Cpu) opMTLO(instr Instruction) {
	cpu.Lo = cpu.Reg(instr.S())
}

// opMULT: Multiply (signed). Cycle-accurate stall counters are an
// explicit Non-goal; only the 64-bit HI:LO result is modeled.
func (cpu *Cpu) opMULT(instr Instruction) {
	a := int64(int32(cpu.Reg(instr.S())))
	b := int64(int32(cpu.Reg(instr.T())))
	v := uint64(a * b)
	cpu.Hi = uint32(v >> 32)
	cpu.Lo = uint32(v)
}

// opMULTU: Multiply Unsigned.
func (cpu *Cpu) opMULTU(instr Instruction) {
	a := uint64(cpu.Reg(instr.S()))
	b := uint64(cpu.Reg(instr.T()))
	v := a * b
	cpu.Hi = uint32(v >> 32)
	cpu.Lo = uint32(v)
}

// opDIV: Divide (signed). Division by zero and MinInt32/-1 overflow
// produce the well-known R3000A fixed results instead of trapping:
// real PSX software (and the BIOS) relies on this behavior.
func (cpu *Cpu) opDIV(instr Instruction) {
	n := int32(cpu.Reg(instr.S()))
	d := int32(cpu.Reg(instr.T()))

	switch {
	case d == 0:
		if n >= 0 {
			negOne := int32(-1)
			cpu.Lo = uint32(negOne)
		} else {
			cpu.Lo = 1
		}
		cpu.Hi = uint32(n)
	case n == -0x80000000 && d == -1:
		cpu.Lo = 0x80000000
		cpu.Hi = 0
	default:
		cpu.Lo = uint32(n / d)
		cpu.Hi = uint32(n % d)
	}
}

// opDIVU: Divide Unsigned.
func (cpu *Cpu) opDIVU(instr Instruction) {
	n := cpu.Reg(instr.S())
	d := cpu.Reg(instr.T())

	if d == 0 {
		cpu.Lo = 0xffffffff
		cpu.Hi = n
		return
	}
	cpu.Lo = n / d
	cpu.Hi = n % d
}
