package emulator

// RamSize is the amount of main PlayStation RAM: 2MiB.
const RamSize = 2 * 1024 * 1024

// Ram is the flat, mutable main-memory byte store.
type Ram struct {
	Data [RamSize]byte
}

// NewRam allocates a RAM instance filled with garbage, matching real
// hardware (and the BIOS's own assumptions about uninitialized RAM).
func NewRam() *Ram {
	ram := &Ram{}
	for i := range ram.Data {
		ram.Data[i] = 0xcd
	}
	return ram
}

// Load reads a value of the given size at offset, masked to the 2MiB
// RAM window (DMA and the bus may present larger raw addresses).
func (ram *Ram) Load(offset uint32, size AccessSize) uint32 {
	offset &= RamSize - 1
	var v uint32
	for i := uint32(0); i < uint32(size); i++ {
		v |= uint32(ram.Data[offset+i]) << (i * 8)
	}
	return v
}

// Store writes val (truncated to size) at offset.
func (ram *Ram) Store(offset uint32, size AccessSize, val uint32) {
	offset &= RamSize - 1
	for i := uint32(0); i < uint32(size); i++ {
		ram.Data[offset+i] = byte(val >> (i * 8))
	}
}

// Load32 returns the little-endian word at offset.
func (ram *Ram) Load32(offset uint32) uint32 { return ram.Load(offset, AccessWord) }

// Load16 returns the little-endian half-word at offset.
func (ram *Ram) Load16(offset uint32) uint16 { return uint16(ram.Load(offset, AccessHalfword)) }

// Load8 fetches the byte at offset.
func (ram *Ram) Load8(offset uint32) byte { return byte(ram.Load(offset, AccessByte)) }

// Store32 writes the little-endian word val at offset.
func (ram *Ram) Store32(offset, val uint32) { ram.Store(offset, AccessWord, val) }

// Store16 writes the little-endian half-word val at offset.
func (ram *Ram) Store16(offset uint32, val uint16) { ram.Store(offset, AccessHalfword, uint32(val)) }

// Store8 sets the byte at offset.
func (ram *Ram) Store8(offset uint32, val byte) { ram.Store(offset, AccessByte, uint32(val)) }
