package emulator

// COP0 register indices relevant to this implementation (the rest are
// present as storage only, matching real R3000A COP0's sparse layout).
const (
	Cop0BadVAddr = 8
	Cop0SR       = 12
	Cop0Cause    = 13
	Cop0EPC      = 14
)

const cop0NumRegs = 16
const cop0NumTlbEntries = 64

// Cop0 is coprocessor 0, system control: virtual-to-physical address
// translation, alignment checking, and exception entry/return.
type Cop0 struct {
	Regs [cop0NumRegs]uint32
	// TLB storage is kept but never consulted: kuseg/kseg0/kseg1 are
	// unmapped on the PSX, so no real translation table is needed.
	Tlb [cop0NumTlbEntries]uint32
}

// NewCop0 returns a freshly reset COP0.
func NewCop0() *Cop0 {
	return &Cop0{}
}

// SR returns the status register (register 12).
func (c *Cop0) SR() uint32 { return c.Regs[Cop0SR] }

// SetSR sets the status register.
func (c *Cop0) SetSR(v uint32) { c.Regs[Cop0SR] = v }

// Cause returns the cause register (register 13).
func (c *Cop0) Cause() uint32 { return c.Regs[Cop0Cause] }

// Epc returns the exception program counter (register 14).
func (c *Cop0) Epc() uint32 { return c.Regs[Cop0EPC] }

// CacheIsolated reports whether the SR's "isolate cache" bit (16) is
// set; while set, CPU stores are discarded instead of reaching RAM.
func (c *Cop0) CacheIsolated() bool {
	return c.SR()&0x00010000 != 0
}

// MFC0 reads a COP0 register for the MFC0 instruction.
func (c *Cop0) MFC0(reg uint32) uint32 {
	return c.Regs[reg&0xf]
}

// MTC0 writes a COP0 register for the MTC0 instruction.
func (c *Cop0) MTC0(reg, val uint32) {
	c.Regs[reg&0xf] = val
}

// CTC0 writes a COP0 control register. The R3000A's COP0 has a single
// unified register file, so CTC0 behaves exactly like MTC0.
func (c *Cop0) CTC0(reg, val uint32) {
	c.MTC0(reg, val)
}

// Segment identifies which of the four MIPS virtual-address segments a
// virtual address falls into.
type Segment int

const (
	SegKuseg Segment = iota
	SegKseg0
	SegKseg1
	SegKseg2
)

// segmentOf classifies a virtual address by its top 3 bits, per
// spec.md §4.4's prefix table.
func segmentOf(vaddr uint32) Segment {
	switch vaddr >> 29 {
	case 0, 1, 2, 3: // 0xx
		return SegKuseg
	case 4: // 100
		return SegKseg0
	case 5: // 101
		return SegKseg1
	default: // 110, 111 both fold into kseg2 (only 0xFFFE0000+ is meaningful)
		return SegKseg2
	}
}

// Translate converts a virtual address into a physical bus address.
// kseg2 (cache control and above) passes through untranslated.
func (c *Cop0) Translate(vaddr uint32) uint32 {
	switch segmentOf(vaddr) {
	case SegKseg0:
		return vaddr - 0x80000000
	case SegKseg1:
		return vaddr - 0xa0000000
	default: // kuseg, kseg2
		return vaddr
	}
}

// CheckAlignment validates that vaddr satisfies the alignment
// requirement for an access of the given size. On failure it returns
// the exception cause to raise (ADDRESS_ERROR_LOAD/STORE); the caller
// is responsible for entering the exception and aborting the access.
func (c *Cop0) CheckAlignment(vaddr uint32, size AccessSize, isStore bool) (Exception, bool) {
	var misaligned bool
	switch size {
	case AccessHalfword:
		misaligned = vaddr%2 != 0
	case AccessWord:
		misaligned = vaddr%4 != 0
	}
	if !misaligned {
		return 0, false
	}
	c.Regs[Cop0BadVAddr] = vaddr
	if isStore {
		return ExceptionAddressErrorStore, true
	}
	return ExceptionAddressErrorLoad, true
}

// EnterException saves exception state into COP0 and returns the
// address of the exception vector to jump to. pc is the address of the
// faulting instruction; inBranchDelay indicates it was executing in a
// branch-delay slot (EPC must then point at the branch itself).
func (c *Cop0) EnterException(cause Exception, pc uint32, inBranchDelay bool) uint32 {
	sr := StatusRegister(c.SR())
	sr.EnterException()
	c.SetSR(uint32(sr))

	causeReg := c.Cause() &^ 0x7c
	causeReg |= uint32(cause) << 2
	if inBranchDelay {
		c.Regs[Cop0EPC] = pc - 4
		causeReg |= 1 << 31
	} else {
		c.Regs[Cop0EPC] = pc
		causeReg &^= 1 << 31
	}
	c.Regs[Cop0Cause] = causeReg

	return sr.ExceptionHandler()
}

// ReturnFromException implements RFE: restore the previous
// kernel/user + interrupt-enable mode pair pushed by EnterException.
func (c *Cop0) ReturnFromException() {
	sr := StatusRegister(c.SR())
	sr.ReturnFromException()
	c.SetSR(uint32(sr))
}
