package emulator

// GpuStub absorbs GP0/GP1 command writes and reports the fixed
// status/response words spec.md §4.3 mandates. A real GPU rasterizer
// is an explicit Non-goal of this repo.
type GpuStub struct{}

// GpuStatus is the constant GPUSTAT value reported while no rendering
// ever occurs: ready-to-receive, ready-to-send VRAM, display enabled.
const GpuStatus uint32 = 0x1c000000

// ReadResponse returns the GPU's read-response port value (GPUREAD),
// always zero since no commands produce real pixel data here.
func (*GpuStub) ReadResponse() uint32 { return 0 }

// ReadStatus returns the fixed status word.
func (*GpuStub) ReadStatus() uint32 { return GpuStatus }

// WriteGP0 absorbs a GP0 (rendering/data) command.
func (*GpuStub) WriteGP0(uint32) {}

// WriteGP1 absorbs a GP1 (display control) command.
func (*GpuStub) WriteGP1(uint32) {}

// SpuStub is an opaque SPU register file: every write is stored and
// echoed back on read, with no audio synthesis. Grounded on spec.md
// §4.3's "SPU (stub)" entry and the teacher's mixer.go register-bank
// shape, trimmed to exactly this behavior.
type SpuStub struct {
	main   [0x140]uint16 // 0x1f801c00..0x1f801e80, in half-words
	reverb [0x20]uint16  // 0x1f801d80..0x1f801dc0, in half-words
}

func (s *SpuStub) Read16(addr uint32) uint16 {
	if SpuReverb.Contains(addr) {
		return s.reverb[SpuReverb.Offset(addr)/2]
	}
	return s.main[SpuMain.Offset(addr)/2]
}

func (s *SpuStub) Write16(addr uint32, val uint16) {
	if SpuReverb.Contains(addr) {
		s.reverb[SpuReverb.Offset(addr)/2] = val
		return
	}
	s.main[SpuMain.Offset(addr)/2] = val
}

// TimerStub models the three PSX timer register blocks as opaque,
// always-zero counters: writes are accepted (and available for a
// caller to log) but never change what a counter read reports, since
// cycle-accurate timing is an explicit Non-goal.
type TimerStub struct {
	lastWrite [3]struct {
		mode, target, counter uint32
	}
}

// Write records a write to one of a timer's three registers without
// giving it any functional effect.
func (t *TimerStub) Write(timer int, reg uint32, val uint32) {
	switch reg {
	case 0:
		t.lastWrite[timer].counter = val
	case 4:
		t.lastWrite[timer].mode = val
	case 8:
		t.lastWrite[timer].target = val
	}
}

// Read always reports zero: counter, mode, and target reads are all
// stubbed to zero per spec.md §4.3.
func (t *TimerStub) Read(int, uint32) uint32 { return 0 }

// MemControl stores the opaque memory-latency/expansion configuration
// registers the BIOS writes during boot; the bus simply stores and
// echoes them back, as spec.md §4.3 requires.
type MemControl struct {
	regs [9]uint32 // 36 bytes / 4
}

func (m *MemControl) Read(addr uint32) uint32 {
	return m.regs[MemControlRange.Offset(addr)/4]
}

func (m *MemControl) Write(addr uint32, val uint32) {
	m.regs[MemControlRange.Offset(addr)/4] = val
}
