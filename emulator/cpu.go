package emulator

// pendingLoad is the single-entry load-delay shadow: the result of
// the most recently issued LB/LH/LW-family instruction, which only
// becomes visible to the register file at the start of the next cycle.
type pendingLoad struct {
	reg   uint32
	val   uint32
	valid bool
}

// Cpu is the R3000A core: its general-purpose register file, HI/LO
// multiply/divide registers, program counter, branch- and load-delay
// shadow state, and the COP0 it owns. Grounded on the teacher's
// cpu.go (LUI/ORI/SW tutorial skeleton), generalized to the full
// NORMAL/SPECIAL dispatch tables per
// original_source/neops/source/cpu/r3000a.cpp.
type Cpu struct {
	PC     uint32
	nextPC uint32

	// currentPC is the address of the instruction being executed this
	// cycle; used as the EPC source on exception entry.
	currentPC uint32

	// regs is the register file visible to this cycle's instruction
	// decode (i.e. as committed at the end of the previous cycle).
	// outRegs accumulates this cycle's writes and is committed into
	// regs once the instruction finishes, which is what gives ALU
	// and load results their one-cycle pipeline visibility.
	regs    [32]uint32
	outRegs [32]uint32

	Hi, Lo uint32

	pending pendingLoad

	// branchTaken/delaySlot track whether the instruction just
	// decoded was a taken branch/jump, and whether the current
	// instruction is itself executing in a branch-delay slot.
	branchTaken bool
	delaySlot   bool

	Cop0 *Cop0
	Bus  *Bus

	// lastException records the most recently entered COP0 exception,
	// purely for diagnostics (the debugger's fault dump); execution
	// itself never consults it.
	lastException *CpuExceptionError

	// fault is set by a load/store helper when the bus reports a
	// genuinely unmapped address, or when a store's DMA run fails;
	// Step() propagates it to its caller
	// once the current instruction's handler returns.
	fault error

	// debugger, when attached via Debugger.Attach, is consulted for
	// breakpoints and read/write watchpoints.
	debugger *Debugger
}

// NewCpu returns a freshly reset CPU attached to bus.
func NewCpu(bus *Bus) *Cpu {
	cpu := &Cpu{
		PC:     0xbfc00000, // BIOS reset vector
		nextPC: 0xbfc00004,
		Cop0:   NewCop0(),
		Bus:    bus,
	}
	// every GPR, HI and LO start at zero (the fields' zero values).
	return cpu
}

// Reg returns the value of register index as seen by this cycle's
// instruction (i.e. the value committed at the end of the last cycle).
func (cpu *Cpu) Reg(index uint32) uint32 {
	return cpu.regs[index]
}

// SetReg writes register index for this cycle's instruction. The
// write becomes visible to Reg() starting next cycle; r0 is always
// forced back to zero on commit.
func (cpu *Cpu) SetReg(index, val uint32) {
	cpu.outRegs[index] = val
	cpu.outRegs[0] = 0
}

// Step fetches, decodes, and executes one instruction, advancing PC
// and the branch-/load-delay shadow state. A non-nil error indicates
// a fatal *BusError (a genuinely unmapped address, fetched or
// accessed) or a *DmaError (a store that started a DMA program the
// controller cannot run), which the caller should treat as an
// unrecoverable fault; ordinary CPU exceptions (alignment, overflow, syscall, ...) are
// handled internally via COP0 and never surface here.
func (cpu *Cpu) Step() error {
	fetchPC := cpu.PC
	cpu.currentPC = fetchPC

	if cpu.debugger != nil {
		cpu.debugger.changedPc(fetchPC)
	}

	if fetchPC%4 != 0 {
		cpu.raiseException(ExceptionAddressErrorLoad, cpu.delaySlot, fetchPC)
		return nil
	}

	word, err := cpu.fetch(fetchPC)
	if err != nil {
		return err
	}

	cpu.delaySlot = cpu.branchTaken
	cpu.branchTaken = false

	cpu.PC = cpu.nextPC
	cpu.nextPC = cpu.PC + 4

	cpu.outRegs = cpu.regs

	if cpu.pending.valid {
		cpu.outRegs[cpu.pending.reg] = cpu.pending.val
		cpu.outRegs[0] = 0
		cpu.pending.valid = false
	}

	cpu.execute(Instruction(word))

	cpu.outRegs[0] = 0
	cpu.regs = cpu.outRegs

	if cpu.fault != nil {
		err := cpu.fault
		cpu.fault = nil
		return err
	}
	return nil
}

// fetch loads the instruction word at a virtual address. A bus error
// (an unmapped region) is returned to the caller unchanged; no COP0
// bus-error exception is entered.
func (cpu *Cpu) fetch(vaddr uint32) (uint32, error) {
	paddr := cpu.Cop0.Translate(vaddr)
	v, err := cpu.Bus.Load(paddr, AccessWord)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// setPendingLoad issues a new load-delay slot entry, overwriting
// whatever was pending (real hardware only ever has one load in
// flight at a time).
func (cpu *Cpu) setPendingLoad(reg, val uint32) {
	cpu.pending = pendingLoad{reg: reg, val: val, valid: true}
}

// raiseException enters the COP0 exception with the given cause at
// faultPC, redirecting PC to the exception vector (spec.md §4.4's
// faithful delivery: execution continues from the vector rather than
// halting the emulator).
func (cpu *Cpu) raiseException(cause Exception, inDelaySlot bool, faultPC uint32) {
	vector := cpu.Cop0.EnterException(cause, faultPC, inDelaySlot)
	cpu.lastException = &CpuExceptionError{Cause: cause, PC: faultPC}
	cpu.PC = vector
	cpu.nextPC = vector + 4
}

// doBranch schedules a branch/jump to target, taking effect after the
// instruction in the delay slot runs.
func (cpu *Cpu) doBranch(target uint32) {
	cpu.nextPC = target
	cpu.branchTaken = true
}

// execute decodes one instruction word and dispatches it through the
// NORMAL table (opcode bits [31:26]), falling into the SPECIAL table
// (funct bits [5:0]) when opcode is zero.
func (cpu *Cpu) execute(instr Instruction) {
	switch instr.Opcode() {
	case 0b000000:
		cpu.executeSpecial(instr)
	case 0b000001:
		cpu.opBcondZ(instr)
	case 0b000010:
		cpu.opJ(instr)
	case 0b000011:
		cpu.opJAL(instr)
	case 0b000100:
		cpu.opBEQ(instr)
	case 0b000101:
		cpu.opBNE(instr)
	case 0b000110:
		cpu.opBLEZ(instr)
	case 0b000111:
		cpu.opBGTZ(instr)
	case 0b001000:
		cpu.opADDI(instr)
	case 0b001001:
		cpu.opADDIU(instr)
	case 0b001010:
		cpu.opSLTI(instr)
	case 0b001011:
		cpu.opSLTIU(instr)
	case 0b001100:
		cpu.opANDI(instr)
	case 0b001101:
		cpu.opORI(instr)
	case 0b001110:
		cpu.opXORI(instr)
	case 0b001111:
		cpu.opLUI(instr)
	case 0b010000:
		cpu.opCop0(instr)
	case 0b010001:
		cpu.raiseException(ExceptionCoprocessorUnusable, cpu.delaySlot, cpu.currentPC)
	case 0b010010:
		cpu.opCop2(instr)
	case 0b010011:
		cpu.raiseException(ExceptionCoprocessorUnusable, cpu.delaySlot, cpu.currentPC)
	case 0b100000:
		cpu.opLB(instr)
	case 0b100001:
		cpu.opLH(instr)
	case 0b100010:
		cpu.opLWL(instr)
	case 0b100011:
		cpu.opLW(instr)
	case 0b100100:
		cpu.opLBU(instr)
	case 0b100101:
		cpu.opLHU(instr)
	case 0b100110:
		cpu.opLWR(instr)
	case 0b101000:
		cpu.opSB(instr)
	case 0b101001:
		cpu.opSH(instr)
	case 0b101010:
		cpu.opSWL(instr)
	case 0b101011:
		cpu.opSW(instr)
	case 0b101110:
		cpu.opSWR(instr)
	case 0b110010:
		cpu.opLWC2(instr)
	case 0b111010:
		cpu.opSWC2(instr)
	case 0b110000, 0b110001, 0b110011, 0b111000, 0b111001, 0b111011:
		// LWC0/LWC1/LWC3/SWC0/SWC1/SWC3: no such coprocessor is present.
		cpu.raiseException(ExceptionCoprocessorUnusable, cpu.delaySlot, cpu.currentPC)
	default:
		cpu.raiseException(ExceptionReservedInstruction, cpu.delaySlot, cpu.currentPC)
	}
}

// executeSpecial dispatches the SPECIAL table (opcode == 0).
func (cpu *Cpu) executeSpecial(instr Instruction) {
	switch instr.Funct() {
	case 0b000000:
		cpu.opSLL(instr)
	case 0b000010:
		cpu.opSRL(instr)
	case 0b000011:
		cpu.opSRA(instr)
	case 0b000100:
		cpu.opSLLV(instr)
	case 0b000110:
		cpu.opSRLV(instr)
	case 0b000111:
		cpu.opSRAV(instr)
	case 0b001000:
		cpu.opJR(instr)
	case 0b001001:
		cpu.opJALR(instr)
	case 0b001100:
		cpu.opSYSCALL(instr)
	case 0b001101:
		cpu.opBREAK(instr)
	case 0b010000:
		cpu.opMFHI(instr)
	case 0b010001:
		cpu.opMTHI(instr)
	case 0b010010:
		cpu.opMFLO(instr)
	case 0b010011:
		cpu.opMTLO(instr)
	case 0b011000:
		cpu.opMULT(instr)
	case 0b011001:
		cpu.opMULTU(instr)
	case 0b011010:
		cpu.opDIV(instr)
	case 0b011011:
		cpu.opDIVU(instr)
	case 0b100000:
		cpu.opADD(instr)
	case 0b100001:
		cpu.opADDU(instr)
	case 0b100010:
		cpu.opSUB(instr)
	case 0b100011:
		cpu.opSUBU(instr)
	case 0b100100:
		cpu.opAND(instr)
	case 0b100101:
		cpu.opOR(instr)
	case 0b100110:
		cpu.opXOR(instr)
	case 0b100111:
		cpu.opNOR(instr)
	case 0b101010:
		cpu.opSLT(instr)
	case 0b101011:
		cpu.opSLTU(instr)
	default:
		cpu.raiseException(ExceptionReservedInstruction, cpu.delaySlot, cpu.currentPC)
	}
}
