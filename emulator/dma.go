package emulator

// Port identifies one of the seven fixed DMA channels by its hardwired
// channel number. Grounded on original_source/neops/source/dma/dma.cpp's
// port table and spec.md §4.5's channel list.
type Port uint32

const (
	PortMdecIn  Port = 0
	PortMdecOut Port = 1
	PortGpu     Port = 2
	PortCdRom   Port = 3
	PortSpu     Port = 4
	PortPio     Port = 5
	PortOtc     Port = 6
)

// PortFromIndex maps a channel index (0..6) to its Port value. Every
// index in range maps to a port 1:1, so this never fails.
func PortFromIndex(index uint32) Port {
	return Port(index & 7)
}

// dmaBus is the narrow, non-owning view of the bus that the DMA
// engine needs to move words in and out of RAM and peripherals. Bus
// owns the DMA controller; the DMA controller only borrows this
// interface back, avoiding the bus<->DMA reference cycle spec.md's
// design notes call out.
type dmaBus interface {
	RamLoad32(addr uint32) uint32
	RamStore32(addr uint32, val uint32)
	DmaPortRead(port Port) uint32
	DmaPortWrite(port Port, val uint32)
	RaiseInterrupt(Interrupt)
}

// Dma is the DMA controller: the DPCR/DICR register pair plus the
// seven fixed channels.
type Dma struct {
	Control uint32 // DPCR, priority+per-channel enable bits

	irqEn          bool  // DICR bit 23, master interrupt enable
	channelIrqEn   uint8 // DICR bits [16:22], per-channel interrupt enable
	channelIrqFlag uint8 // DICR bits [24:30], per-channel interrupt flag (sticky)
	forceIrq       bool  // DICR bit 15, forces the master IRQ flag regardless of channelIrqFlag
	irqDummy       uint8 // DICR bits [0:5], unknown RW bits

	Channels [7]*Channel
}

// NewDma returns a freshly reset DMA controller. DPCR resets to
// 0x07654321: a fixed per-channel priority ramp with every channel's
// enable bit (bit 3 of its nibble) clear, so no channel runs until
// DPCR is written.
func NewDma() *Dma {
	d := &Dma{Control: 0x07654321}
	for i := range d.Channels {
		d.Channels[i] = NewChannel()
	}
	return d
}

func (d *Dma) Channel(port Port) *Channel {
	return d.Channels[port]
}

// Dicr reassembles the interrupt register from its component fields.
func (d *Dma) Dicr() uint32 {
	r := uint32(d.irqDummy) & 0x3f
	r |= oneIfTrue(d.forceIrq) << 15
	r |= uint32(d.channelIrqEn) << 16
	r |= oneIfTrue(d.irqEn) << 23
	r |= uint32(d.channelIrqFlag) << 24
	r |= oneIfTrue(d.Irq()) << 31
	return r
}

// SetDicr unpacks a write to DICR. Per spec.md §4.5, channel IRQ flag
// bits are acknowledged (cleared) by writing 1, not overwritten.
func (d *Dma) SetDicr(val uint32) {
	d.irqDummy = uint8(val & 0x3f)
	d.forceIrq = (val>>15)&1 != 0
	d.channelIrqEn = uint8((val >> 16) & 0x7f)
	d.irqEn = (val>>23)&1 != 0

	ack := uint8((val >> 24) & 0x7f)
	d.channelIrqFlag &^= ack
}

// Irq reports the DICR master interrupt flag (bit 31): set whenever
// forceIrq is set, or the master enable bit is set and any enabled
// channel's sticky flag is set.
func (d *Dma) Irq() bool {
	if d.forceIrq {
		return true
	}
	return d.irqEn && (d.channelIrqEn&d.channelIrqFlag) != 0
}

// channelEnabled resolves the spec.md §9 Open Question fix: channel c
// may run only when bit 4*c+3 of DPCR is set, replacing the original's
// inscrutable 7-way OR chain over scattered bit groups.
func (d *Dma) channelEnabled(port Port) bool {
	bit := uint(4*uint32(port) + 3)
	return (d.Control>>bit)&1 != 0
}

// transferDone runs the sticky-IRQ bookkeeping spec.md §4.5 requires
// once a channel's transfer completes: set the channel's sticky flag
// if its per-channel interrupt is enabled, clear enable/trigger, and
// let the master IRQ line re-evaluate on the next Dicr() read.
func (d *Dma) transferDone(port Port, ch *Channel) {
	ch.Done()
	if d.channelIrqEn&(1<<uint(port)) != 0 {
		d.channelIrqFlag |= 1 << uint(port)
	}
}

// Run executes every channel that is both DPCR-enabled and active, in
// port order. Peripherals in this repo never issue further DMA
// requests mid-transfer, so a single pass per call is sufficient.
// Returns a *DmaError if any channel is programmed with a
// configuration the controller cannot execute.
func (d *Dma) Run(bus dmaBus) error {
	for i := 0; i < len(d.Channels); i++ {
		port := PortFromIndex(uint32(i))
		ch := d.Channels[port]
		if d.channelEnabled(port) && ch.Active() {
			if err := d.runChannel(bus, port, ch); err != nil {
				return err
			}
		}
	}
	if d.Irq() {
		bus.RaiseInterrupt(InterruptDma)
	}
	return nil
}

// runChannel dispatches to the block-copy or linked-list-copy engine
// depending on the channel's sync mode, grounded on
// original_source/neops/source/dma/dma.cpp's dma_block_copy /
// dma_list_copy split.
func (d *Dma) runChannel(bus dmaBus, port Port, ch *Channel) error {
	if ch.Sync == SyncLinkedList {
		return d.runLinkedList(bus, port, ch)
	}
	d.runBlockCopy(bus, port, ch)
	return nil
}

// runBlockCopy moves a fixed number of words between RAM and a
// peripheral port, one word per address step. Port 6 (OTC, the GPU's
// ordering-table-clear helper) never talks to a real peripheral: in
// the to-RAM direction it generates each word itself and writes it to
// RAM, building a reverse-linked list that terminates in the sentinel
// word 0x00ffffff.
func (d *Dma) runBlockCopy(bus dmaBus, port Port, ch *Channel) {
	_, words := ch.TransferSize()
	addr := ch.Base

	increment := int32(4)
	if ch.Step == StepDecrement {
		increment = -4
	}

	for remaining := words; remaining > 0; remaining-- {
		curAddr := addr & 0x1ffffc

		switch ch.Direction {
		case DirectionFromRam:
			srcWord := bus.RamLoad32(curAddr)
			bus.DmaPortWrite(port, srcWord)

		case DirectionToRam:
			var srcWord uint32
			if port == PortOtc {
				if remaining == 1 {
					srcWord = 0x00ffffff // list terminator
				} else {
					srcWord = (addr - 4) & 0x1fffff
				}
			} else {
				srcWord = bus.DmaPortRead(port)
			}
			bus.RamStore32(curAddr, srcWord)
		}

		addr = uint32(int32(addr) + increment)
	}

	d.transferDone(port, ch)
}

// runLinkedList walks a GPU command-list in RAM. Each node is a
// 32-bit header (low 24 bits: pointer to the next node, masked to
// 0x1ffffc; high 8 bits: payload word count) followed by that many
// payload words, each written to GP0. The list ends at a node whose
// header has bit 23 set. Only the GPU port, reading from RAM, may run
// in this mode; anything else is a programming error and is fatal.
func (d *Dma) runLinkedList(bus dmaBus, port Port, ch *Channel) error {
	if port != PortGpu {
		return &DmaError{Port: port, Reason: "linked-list sync mode is only valid on the GPU port"}
	}
	if ch.Direction != DirectionFromRam {
		return &DmaError{Port: port, Reason: "linked-list sync mode requires the from-RAM direction"}
	}

	addr := ch.Base & 0x1ffffc

	for {
		header := bus.RamLoad32(addr)
		count := header >> 24

		cur := addr
		for i := uint32(0); i < count; i++ {
			cur = (cur + 4) & 0x1ffffc
			bus.DmaPortWrite(port, bus.RamLoad32(cur))
		}

		if header&0x800000 != 0 {
			break
		}
		addr = header & 0x1ffffc
	}

	d.transferDone(port, ch)
	return nil
}
