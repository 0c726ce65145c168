package emulator

import (
	"fmt"
	"io"
)

// BiosSize is the exact size of a PSX BIOS image: 512KiB.
const BiosSize uint32 = 512 * 1024

// Bios stores the raw, read-only BIOS image. Byte 0 of the image maps
// to virtual address 0xbfc00000, the CPU reset vector.
type Bios struct {
	Data []byte
}

// LoadBios reads a BIOS image from r. The image must be exactly
// BiosSize bytes; any other size is reported as a ConfigError.
func LoadBios(r io.Reader) (*Bios, error) {
	data := make([]byte, BiosSize)
	n, err := io.ReadFull(r, data)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, &ConfigError{Reason: fmt.Sprintf("reading BIOS image: %v", err)}
	}
	if n != int(BiosSize) {
		return nil, &ConfigError{Reason: fmt.Sprintf("invalid BIOS size (expected %d, got %d bytes)", BiosSize, n)}
	}
	var extra [1]byte
	if m, _ := io.ReadFull(r, extra[:]); m != 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("invalid BIOS size (expected %d bytes, got more)", BiosSize)}
	}
	return &Bios{Data: data}, nil
}

// Load reads a value of the given size at offset, mirroring Ram's
// generic accessor so Bus can treat both uniformly.
func (bios *Bios) Load(offset uint32, size AccessSize) uint32 {
	switch size {
	case AccessByte:
		return uint32(bios.Load8(offset))
	case AccessHalfword:
		return uint32(bios.Load16(offset))
	default:
		return bios.Load32(offset)
	}
}

// Load8 fetches the byte at offset.
func (bios *Bios) Load8(offset uint32) byte {
	return bios.Data[offset]
}

// Load16 returns the little-endian half-word at offset.
func (bios *Bios) Load16(offset uint32) uint16 {
	return uint16(bios.Data[offset]) | uint16(bios.Data[offset+1])<<8
}

// Load32 returns the little-endian word at offset. The teacher's
// original composition duplicated byte 3 and dropped byte 2; this is
// the corrected little-endian sum spec.md's endianness invariant requires.
func (bios *Bios) Load32(offset uint32) uint32 {
	b0 := uint32(bios.Data[offset+0])
	b1 := uint32(bios.Data[offset+1])
	b2 := uint32(bios.Data[offset+2])
	b3 := uint32(bios.Data[offset+3])
	return b0 | (b1 << 8) | (b2 << 16) | (b3 << 24)
}
