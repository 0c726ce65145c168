package emulator

import "testing"

func TestDmaChannelEnabledBitFix(t *testing.T) {
	d := NewDma()
	d.Control = 0 // nothing enabled
	for p := Port(0); p < 7; p++ {
		if d.channelEnabled(p) {
			t.Errorf("port %d reported enabled with DPCR=0", p)
		}
	}

	// Per spec.md's fix, channel c is enabled by bit 4*c+3, not the
	// ambiguous original OR-chain.
	d.Control = 1 << (4*uint(PortGpu) + 3)
	if !d.channelEnabled(PortGpu) {
		t.Error("GPU channel not enabled despite its DPCR bit being set")
	}
	if d.channelEnabled(PortSpu) {
		t.Error("SPU channel reported enabled when its DPCR bit is clear")
	}
}

func TestDmaOtcListTerminator(t *testing.T) {
	bios := &Bios{Data: make([]byte, BiosSize)}
	bus := NewBus(bios)

	const base = 0x1000
	const count = 4
	ch := bus.Dma.Channel(PortOtc)
	ch.SetBase(base)
	ch.SetBlockControl(count) // block size = count, count field unused in immediate mode
	ch.Direction = DirectionToRam
	ch.Step = StepDecrement
	ch.Sync = SyncImmediate
	ch.Enable = true
	ch.Trigger = true

	bus.Dma.Control = 1 << (4*uint(PortOtc) + 3)
	bus.Dma.Run(bus)

	last := bus.Ram.Load32(base - (count-1)*4)
	if last != 0x00ffffff {
		t.Errorf("last OTC entry = 0x%08x, want 0x00ffffff terminator", last)
	}

	for i := uint32(1); i < count; i++ {
		addr := base - i*4
		want := (addr - 4) & 0x1fffff
		// the very last entry (i == count-1) is the terminator, checked above
		if i == count-1 {
			continue
		}
		if got := bus.Ram.Load32(addr); got != want {
			t.Errorf("OTC entry at 0x%x = 0x%08x, want 0x%08x", addr, got, want)
		}
	}

	if ch.Enable || ch.Trigger {
		t.Error("channel not marked done after the transfer completed")
	}
}

func TestDicrAcknowledge(t *testing.T) {
	d := NewDma()
	d.SetDicr(1 << 23) // master interrupt enable
	d.channelIrqEn = 1 << uint(PortGpu)
	d.transferDone(PortGpu, d.Channel(PortGpu))
	if !d.Irq() {
		t.Error("Irq() false after a monitored channel's transfer completed")
	}

	// writing 1 to the sticky flag bit acknowledges it; the master and
	// channel enables are written back set, so only the acknowledgement
	// can bring Irq() down.
	ack := uint32(1)<<23 | uint32(1)<<(16+uint(PortGpu)) | uint32(1)<<(24+uint(PortGpu))
	d.SetDicr(ack)
	if d.Irq() {
		t.Error("Irq() still true after acknowledging the only pending flag")
	}
}
