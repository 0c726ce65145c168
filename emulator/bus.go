package emulator

import "log"

// Bus is the PSX memory bus: the address-range decoder that routes
// every CPU load/store (and every DMA port access) to the right
// peripheral, in the precedence order spec.md §4.3 specifies.
// Grounded on original_source/neops/source/bus/bus.cpp's decode chain
// and the teacher's (much smaller) interconnect.go.
type Bus struct {
	Bios *Bios
	Ram  *Ram
	Dma  *Dma
	Gpu  *GpuStub
	Spu  *SpuStub
	Mem  *MemControl
	Tmr  *TimerStub
	Irq  *IrqState

	ramSizeReg uint32
}

// NewBus wires together a fresh bus around the given BIOS image.
func NewBus(bios *Bios) *Bus {
	return &Bus{
		Bios: bios,
		Ram:  NewRam(),
		Dma:  NewDma(),
		Gpu:  &GpuStub{},
		Spu:  &SpuStub{},
		Mem:  &MemControl{},
		Tmr:  &TimerStub{},
		Irq:  NewIrqState(),
	}
}

// Load reads `size` bytes at the physical address `addr`, already
// translated out of kuseg/kseg0/kseg1 by the caller (normally
// Cop0.Translate). Returns a *BusError for any address this map does
// not decode.
func (b *Bus) Load(addr uint32, size AccessSize) (uint32, error) {
	switch {
	case BiosRange.Contains(addr):
		return b.Bios.Load(BiosRange.Offset(addr), size), nil

	case MemControlRange.Contains(addr):
		return b.Mem.Read(addr), nil

	case RamSizeReg.Contains(addr):
		return b.ramSizeReg, nil

	case CacheControl.Contains(addr):
		// opaque register: spec.md has it write-logged and always read
		// as 0, not echoed back.
		return 0, nil

	case IrqRange.Contains(addr):
		return b.loadIrq(addr), nil

	case DmaChannels.Contains(addr):
		return b.loadDmaChannel(addr), nil

	case DmaDpcr.Contains(addr):
		return b.Dma.Control, nil

	case DmaDicr.Contains(addr):
		return b.Dma.Dicr(), nil

	case FuseA.Contains(addr):
		// hardware-trimmed silicon ID, constant on every console.
		return 0x7ffac68b, nil

	case FuseB.Contains(addr):
		return 0x00fffff7, nil

	case Timers.Contains(addr):
		return b.loadTimer(addr), nil

	case GpuGp0.Contains(addr):
		return b.Gpu.ReadResponse(), nil

	case GpuGp1.Contains(addr):
		return b.Gpu.ReadStatus(), nil

	case SpuReverb.Contains(addr), SpuMain.Contains(addr):
		return uint32(b.Spu.Read16(addr)), nil

	case Expansion1.Contains(addr):
		// no expansion cartridge is ever present: open bus reads every
		// lane high, so a byte read sees 0xFF, not 0xFFFFFFFF.
		return openBus(size), nil

	case Expansion2.Contains(addr):
		return openBus(size), nil

	case RamRange.Contains(addr):
		return b.Ram.Load(RamRange.Offset(addr), size), nil

	default:
		return 0, &BusError{Addr: addr, Write: false, Size: size}
	}
}

// Store writes `val` (truncated to `size`) at the physical address
// `addr`. Returns a *BusError for any address this map does not
// decode. A store that lands in the DMA register window runs the
// controller synchronously before returning, per spec.md §5's
// "transfers complete inside the triggering write" model.
func (b *Bus) Store(addr uint32, size AccessSize, val uint32) error {
	switch {
	case BiosRange.Contains(addr):
		// BIOS ROM is read-only; writes are silently discarded, matching
		// the real console (the BIOS chip ignores CPU writes).
		return nil

	case MemControlRange.Contains(addr):
		b.Mem.Write(addr, val)
		return nil

	case RamSizeReg.Contains(addr):
		b.ramSizeReg = val
		return nil

	case CacheControl.Contains(addr):
		log.Printf("bus: cache control write 0x%08x", val)
		return nil

	case IrqRange.Contains(addr):
		b.storeIrq(addr, val)
		return nil

	case DmaChannels.Contains(addr):
		b.storeDmaChannel(addr, val)
		return b.Dma.Run(b)

	case DmaDpcr.Contains(addr):
		b.Dma.Control = val
		return b.Dma.Run(b)

	case DmaDicr.Contains(addr):
		b.Dma.SetDicr(val)
		return nil

	case FuseA.Contains(addr), FuseB.Contains(addr):
		return nil

	case Timers.Contains(addr):
		b.storeTimer(addr, val)
		return nil

	case GpuGp0.Contains(addr):
		b.Gpu.WriteGP0(val)
		return nil

	case GpuGp1.Contains(addr):
		b.Gpu.WriteGP1(val)
		return nil

	case SpuReverb.Contains(addr), SpuMain.Contains(addr):
		b.Spu.Write16(addr, uint16(val))
		return nil

	case Expansion1.Contains(addr), Expansion2.Contains(addr):
		return nil // no expansion device ever latches a write

	case RamRange.Contains(addr):
		b.Ram.Store(RamRange.Offset(addr), size, val)
		return nil

	default:
		return &BusError{Addr: addr, Write: true, Size: size}
	}
}

// openBus returns the all-ones value for an access of the given
// width: what a real bus floats back when no device latches the read.
func openBus(size AccessSize) uint32 {
	return uint32(1)<<(8*size) - 1
}

// loadIrq always reads back 0: spec.md's IRQ range is an opaque stub
// (writes absorbed, reads return 0), not a maintained status/mask
// register a game could poll. The underlying IrqState still tracks
// which sources are pending internally for RaiseInterrupt bookkeeping.
func (b *Bus) loadIrq(addr uint32) uint32 {
	return 0
}

func (b *Bus) storeIrq(addr uint32, val uint32) {
	if IrqRange.Offset(addr) < 4 {
		b.Irq.Acknowledge(uint16(val))
	} else {
		b.Irq.SetMask(uint16(val))
	}
}

func (b *Bus) loadTimer(addr uint32) uint32 {
	off := Timers.Offset(addr)
	return b.Tmr.Read(int(off/0x10), off%0x10)
}

func (b *Bus) storeTimer(addr uint32, val uint32) {
	off := Timers.Offset(addr)
	b.Tmr.Write(int(off/0x10), off%0x10, val)
}

// DMA channel registers are laid out as seven 0x10-byte blocks:
// +0x0 base, +0x4 block control, +0x8 channel control.
func (b *Bus) loadDmaChannel(addr uint32) uint32 {
	off := DmaChannels.Offset(addr)
	ch := b.Dma.Channel(PortFromIndex(off / 0x10))
	switch off % 0x10 {
	case 0x0:
		return ch.Base
	case 0x4:
		return ch.BlockControl()
	default:
		return ch.Control()
	}
}

func (b *Bus) storeDmaChannel(addr uint32, val uint32) {
	off := DmaChannels.Offset(addr)
	ch := b.Dma.Channel(PortFromIndex(off / 0x10))
	switch off % 0x10 {
	case 0x0:
		ch.SetBase(val)
	case 0x4:
		ch.SetBlockControl(val)
	default:
		ch.SetControl(val)
	}
}

// The following methods implement the dmaBus interface the DMA
// controller uses to move words without holding a reference back to
// Bus's full decode table.

func (b *Bus) RamLoad32(addr uint32) uint32 {
	return b.Ram.Load32(addr & (RamSize - 1))
}

func (b *Bus) RamStore32(addr uint32, val uint32) {
	b.Ram.Store32(addr&(RamSize-1), val)
}

func (b *Bus) DmaPortRead(port Port) uint32 {
	if port == PortGpu {
		return b.Gpu.ReadResponse()
	}
	// MDEC/CD-ROM/SPU/PIO are Non-goal peripherals with no real data
	// source behind this DMA port; reads report zero.
	return 0
}

func (b *Bus) DmaPortWrite(port Port, val uint32) {
	if port == PortGpu {
		b.Gpu.WriteGP0(val)
	}
	// other ports silently absorb the word.
}

func (b *Bus) RaiseInterrupt(i Interrupt) {
	b.Irq.SetHigh(i)
}
