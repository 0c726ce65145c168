package emulator

// StatusRegister is COP0 register 12 (SR): interrupt-enable/kernel-mode
// mode stack, cache-isolation, and BEV (boot exception vector) bit.
type StatusRegister uint32

// CacheIsolated reports whether the cache-isolation bit is set.
func (sr StatusRegister) CacheIsolated() bool {
	return uint32(sr)&0x10000 != 0
}

// ExceptionHandler returns the exception vector address selected by
// the BEV bit (22): 0xbfc00180 when set, 0x80000080 otherwise.
func (sr StatusRegister) ExceptionHandler() uint32 {
	if uint32(sr)&(1<<22) != 0 {
		return 0xbfc00180
	}
	return 0x80000080
}

// EnterException shifts bits [5:0] of the SR two places to the left.
// Those bits are three pairs of Interrupt-Enable/User-Mode bits
// behaving like a stack of 3 entries deep. Entering an exception
// pushes a pair of zeroes by left-shifting the stack, which disables
// interrupts and puts the CPU in kernel mode. The original third entry
// is discarded (it's up to the kernel to handle more than two
// recursive exception levels).
func (sr *StatusRegister) EnterException() {
	mode := *sr & 0x3f
	*sr &^= 0x3f
	*sr |= (mode << 2) & 0x3f
}

// ReturnFromException pops the mode stack pushed by EnterException.
func (sr *StatusRegister) ReturnFromException() {
	mode := *sr & 0x3f
	*sr &^= 0xf
	*sr |= mode >> 2
}
