package emulator

// loadBus performs a CPU-initiated bus read at the virtual address
// vaddr, translating through COP0 and checking alignment first. A
// misaligned access enters an AddressErrorLoad exception and returns
// ok=false; the caller must then skip issuing the pending load. A
// genuinely unmapped address sets cpu.fault, which Step() propagates
// to its caller once the current instruction's handler returns.
func (cpu *Cpu) loadBus(vaddr uint32, size AccessSize) (val uint32, ok bool) {
	if cpu.debugger != nil {
		cpu.debugger.memoryRead(vaddr)
	}
	if cause, bad := cpu.Cop0.CheckAlignment(vaddr, size, false); bad {
		cpu.raiseException(cause, cpu.delaySlot, cpu.currentPC)
		return 0, false
	}
	paddr := cpu.Cop0.Translate(vaddr)
	v, err := cpu.Bus.Load(paddr, size)
	if err != nil {
		cpu.fault = err
		return 0, false
	}
	return v, true
}

// store performs a CPU-initiated bus write. Cache-isolated stores are
// discarded before reaching the bus: real software uses them purely to
// probe/invalidate the (unimplemented) instruction cache, per spec.md
// §4.4 and §4.6's cache-isolated-store scenario.
func (cpu *Cpu) store(vaddr uint32, size AccessSize, val uint32) {
	if cpu.debugger != nil {
		cpu.debugger.memoryWrite(vaddr)
	}
	if cause, bad := cpu.Cop0.CheckAlignment(vaddr, size, true); bad {
		cpu.raiseException(cause, cpu.delaySlot, cpu.currentPC)
		return
	}
	if cpu.Cop0.CacheIsolated() {
		return
	}
	paddr := cpu.Cop0.Translate(vaddr)
	if err := cpu.Bus.Store(paddr, size, val); err != nil {
		cpu.fault = err
	}
}

func (cpu *Cpu) opLB(instr Instruction) {
	addr := cpu.Reg(instr.S()) + instr.ImmSE()
	if v, ok := cpu.loadBus(addr, AccessByte); ok {
		cpu.setPendingLoad(instr.T(), signExtend16(uint16(int16(int8(v)))))
	}
}

func (cpu *Cpu) opLBU(instr Instruction) {
	addr := cpu.Reg(instr.S()) + instr.ImmSE()
	if v, ok := cpu.loadBus(addr, AccessByte); ok {
		cpu.setPendingLoad(instr.T(), v)
	}
}

func (cpu *Cpu) opLH(instr Instruction) {
	addr := cpu.Reg(instr.S()) + instr.ImmSE()
	if v, ok := cpu.loadBus(addr, AccessHalfword); ok {
		cpu.setPendingLoad(instr.T(), signExtend16(uint16(v)))
	}
}

func (cpu *Cpu) opLHU(instr Instruction) {
	addr := cpu.Reg(instr.S()) + instr.ImmSE()
	if v, ok := cpu.loadBus(addr, AccessHalfword); ok {
		cpu.setPendingLoad(instr.T(), v)
	}
}

func (cpu *Cpu) opLW(instr Instruction) {
	addr := cpu.Reg(instr.S()) + instr.ImmSE()
	if v, ok := cpu.loadBus(addr, AccessWord); ok {
		cpu.setPendingLoad(instr.T(), v)
	}
}

func (cpu *Cpu) opSB(instr Instruction) {
	addr := cpu.Reg(instr.S()) + instr.ImmSE()
	cpu.store(addr, AccessByte, cpu.Reg(instr.T()))
}

func (cpu *Cpu) opSH(instr Instruction) {
	addr := cpu.Reg(instr.S()) + instr.ImmSE()
	cpu.store(addr, AccessHalfword, cpu.Reg(instr.T()))
}

func (cpu *Cpu) opSW(instr Instruction) {
	addr := cpu.Reg(instr.S()) + instr.ImmSE()
	cpu.store(addr, AccessWord, cpu.Reg(instr.T()))
}

// unalignedWordLoad reads the aligned word containing vaddr, bypassing
// the normal alignment check; LWL/LWR/SWL/SWR are defined in terms of
// this aligned container word. ok is false if the bus faulted, in
// which case cpu.fault has already been set.
func (cpu *Cpu) unalignedWordLoad(vaddr uint32) (word uint32, ok bool) {
	aligned := vaddr &^ 3
	paddr := cpu.Cop0.Translate(aligned)
	v, err := cpu.Bus.Load(paddr, AccessWord)
	if err != nil {
		cpu.fault = err
		return 0, false
	}
	return v, true
}

func (cpu *Cpu) unalignedWordStore(vaddr uint32, val uint32) {
	if cpu.Cop0.CacheIsolated() {
		return
	}
	aligned := vaddr &^ 3
	paddr := cpu.Cop0.Translate(aligned)
	if err := cpu.Bus.Store(paddr, AccessWord, val); err != nil {
		cpu.fault = err
	}
}

// loadMergeBase returns the value LWL/LWR/SWL/SWR should treat as
// register t's "current" contents: if a load targeting t is still
// pending from the previous cycle, that value (already folded into
// outRegs at the top of Step) is what hardware would see.
func (cpu *Cpu) loadMergeBase(t uint32) uint32 {
	if cpu.pending.valid && cpu.pending.reg == t {
		return cpu.pending.val
	}
	return cpu.outRegs[t]
}

// opLWL: Load Word Left. Merges the high-order bytes of the addressed
// word into the high-order bytes of rt, preserving rt's current
// low-order bytes (little-endian table per
// original_source/neops/source/cpu/r3000a.cpp).
func (cpu *Cpu) opLWL(instr Instruction) {
	addr := cpu.Reg(instr.S()) + instr.ImmSE()
	cur := cpu.loadMergeBase(instr.T())

	word, ok := cpu.unalignedWordLoad(addr)
	if !ok {
		return
	}

	var v uint32
	switch addr & 3 {
	case 0:
		v = (cur & 0x00ffffff) | (word << 24)
	case 1:
		v = (cur & 0x0000ffff) | (word << 16)
	case 2:
		v = (cur & 0x000000ff) | (word << 8)
	default:
		v = word
	}
	cpu.setPendingLoad(instr.T(), v)
}

// opLWR: Load Word Right, the mirror image of LWL.
func (cpu *Cpu) opLWR(instr Instruction) {
	addr := cpu.Reg(instr.S()) + instr.ImmSE()
	cur := cpu.loadMergeBase(instr.T())

	word, ok := cpu.unalignedWordLoad(addr)
	if !ok {
		return
	}

	var v uint32
	switch addr & 3 {
	case 0:
		v = word
	case 1:
		v = (cur & 0xff000000) | (word >> 8)
	case 2:
		v = (cur & 0xffff0000) | (word >> 16)
	default:
		v = (cur & 0xffffff00) | (word >> 24)
	}
	cpu.setPendingLoad(instr.T(), v)
}

// opSWL: Store Word Left, the store-side mirror of LWL.
func (cpu *Cpu) opSWL(instr Instruction) {
	addr := cpu.Reg(instr.S()) + instr.ImmSE()
	t := cpu.Reg(instr.T())

	word, ok := cpu.unalignedWordLoad(addr)
	if !ok {
		return
	}

	var v uint32
	switch addr & 3 {
	case 0:
		v = (word & 0xffffff00) | (t >> 24)
	case 1:
		v = (word & 0xffff0000) | (t >> 16)
	case 2:
		v = (word & 0xff000000) | (t >> 8)
	default:
		v = t
	}
	cpu.unalignedWordStore(addr, v)
}

// opSWR: Store Word Right, the mirror image of SWL.
func (cpu *Cpu) opSWR(instr Instruction) {
	addr := cpu.Reg(instr.S()) + instr.ImmSE()
	t := cpu.Reg(instr.T())

	word, ok := cpu.unalignedWordLoad(addr)
	if !ok {
		return
	}

	var v uint32
	switch addr & 3 {
	case 0:
		v = t
	case 1:
		v = (word & 0x000000ff) | (t << 8)
	case 2:
		v = (word & 0x0000ffff) | (t << 16)
	default:
		v = (word & 0x00ffffff) | (t << 24)
	}
	cpu.unalignedWordStore(addr, v)
}
