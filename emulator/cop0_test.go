package emulator

import "testing"

func TestSegmentTranslation(t *testing.T) {
	c := NewCop0()
	cases := []struct {
		vaddr, want uint32
	}{
		{0x00100000, 0x00100000}, // kuseg: identity
		{0x80100000, 0x00100000}, // kseg0: -0x80000000
		{0xa0100000, 0x00100000}, // kseg1: -0xa0000000
		{0xfffe0130, 0xfffe0130}, // kseg2: passthrough
	}
	for _, c2 := range cases {
		if got := c.Translate(c2.vaddr); got != c2.want {
			t.Errorf("Translate(0x%08x) = 0x%08x, want 0x%08x", c2.vaddr, got, c2.want)
		}
	}
}

func TestCheckAlignment(t *testing.T) {
	c := NewCop0()
	if _, bad := c.CheckAlignment(0x1000, AccessWord, false); bad {
		t.Error("aligned word access flagged as misaligned")
	}
	if cause, bad := c.CheckAlignment(0x1001, AccessWord, false); !bad || cause != ExceptionAddressErrorLoad {
		t.Errorf("misaligned word load: bad=%v cause=%s, want AddressErrorLoad", bad, cause)
	}
	if cause, bad := c.CheckAlignment(0x1001, AccessWord, true); !bad || cause != ExceptionAddressErrorStore {
		t.Errorf("misaligned word store: bad=%v cause=%s, want AddressErrorStore", bad, cause)
	}
	if _, bad := c.CheckAlignment(0x1002, AccessHalfword, false); bad {
		t.Error("aligned halfword access flagged as misaligned")
	}
}

func TestEnterAndReturnFromException(t *testing.T) {
	c := NewCop0()
	c.SetSR(0x1) // bit 0 (IEc) set: interrupts enabled, kernel mode

	vector := c.EnterException(ExceptionSyscall, 0x80010000, false)
	if vector != 0x80000080 {
		t.Errorf("vector = 0x%08x, want 0x80000080", vector)
	}
	if c.Epc() != 0x80010000 {
		t.Errorf("EPC = 0x%08x, want 0x80010000", c.Epc())
	}
	if c.SR()&0x3f != 0x4 {
		t.Errorf("SR low bits after entry = 0x%x, want 4 (kernel mode, interrupts disabled, previous mode preserved)", c.SR()&0x3f)
	}

	c.ReturnFromException()
	if c.SR()&0x3 != 0x1 {
		t.Errorf("SR low bits after RFE = 0x%x, want 1 (restored mode)", c.SR()&0x3)
	}
}

func TestEnterExceptionInBranchDelaySlot(t *testing.T) {
	c := NewCop0()
	c.EnterException(ExceptionOverflow, 0x80010004, true)
	if c.Epc() != 0x80010000 {
		t.Errorf("EPC = 0x%08x, want 0x80010000 (branch instruction, not delay slot)", c.Epc())
	}
	if c.Cause()&(1<<31) == 0 {
		t.Error("Cause.BD bit not set for an exception in a branch-delay slot")
	}
}
