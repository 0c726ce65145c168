package emulator

// Range is a half-open [Start, Start+Length) span of the physical
// address space, used by the bus to decode accesses.
type Range struct {
	Start  uint32 // Start address
	Length uint32 // Length of the mapping
}

func NewRange(start uint32, length uint32) Range {
	return Range{Start: start, Length: length}
}

// Contains returns whether `addr` is located inside this range
func (r *Range) Contains(addr uint32) bool {
	return addr >= r.Start && addr < r.Start+r.Length
}

// Offset returns the offset between `addr` and the `Start` of the range.
// Does not check if the range contains the address, so if `addr`
// is smaller than `Start`, there will be an overflow
func (r *Range) Offset(addr uint32) uint32 {
	return addr - r.Start
}

// Physical memory map, checked by the bus in the precedence order
// spec.md §4.3 lists (BIOS and memory-control ranges first, RAM last).
var (
	BiosRange       = NewRange(0x1fc00000, BiosSize)
	MemControlRange = NewRange(0x1f801000, 36)
	RamSizeReg      = NewRange(0x1f801060, 4)
	CacheControl    = NewRange(0xfffe0130, 4)
	IrqRange        = NewRange(0x1f801070, 8)
	DmaChannels     = NewRange(0x1f801080, 0x1f8010ec-0x1f801080+4)
	DmaDpcr         = NewRange(0x1f8010f0, 4)
	DmaDicr         = NewRange(0x1f8010f4, 4)
	FuseA           = NewRange(0x1f8010f8, 4)
	FuseB           = NewRange(0x1f8010fc, 4)
	Timers          = NewRange(0x1f801100, 0x1f80112f-0x1f801100+1)
	GpuGp0          = NewRange(0x1f801810, 4)
	GpuGp1          = NewRange(0x1f801814, 4)
	SpuMain         = NewRange(0x1f801c00, 0x1f801e80-0x1f801c00)
	SpuReverb       = NewRange(0x1f801d80, 0x1f801dbc-0x1f801d80+4)
	Expansion1      = NewRange(0x1f000000, 0x10000)
	Expansion2      = NewRange(0x1f802000, 0x1f802042-0x1f802000+1)
	RamRange        = NewRange(0x00000000, RamSize)
)
