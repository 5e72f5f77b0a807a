package cpu

import "math/bits"

// Flags holds the five semantically defined 8080 condition bits. Bits
// 1, 3 and 5 of the packed PSW form are fixed (1, 0, 0) and are never
// stored as state — Pack/Unpack apply them at the boundary.
type Flags struct {
	S  bool // sign, bit 7
	Z  bool // zero, bit 6
	AC bool // auxiliary carry, bit 4
	P  bool // parity (even), bit 2
	CY bool // carry, bit 0
}

func (f *Flags) reset() {
	*f = Flags{}
}

// Pack returns the 8-bit PSW byte, with the unused bits fixed per the
// Intel manual (bit1=1, bit3=0, bit5=0).
func (f Flags) Pack() uint8 {
	var b uint8
	if f.S {
		b |= 1 << 7
	}
	if f.Z {
		b |= 1 << 6
	}
	if f.AC {
		b |= 1 << 4
	}
	if f.P {
		b |= 1 << 2
	}
	b |= 1 << 1 // bit1 fixed 1
	if f.CY {
		b |= 1 << 0
	}
	return b
}

// Unpack loads S/Z/AC/P/CY from a packed PSW byte, masking out the
// fixed bits.
func (f *Flags) Unpack(b uint8) {
	f.S = b&(1<<7) != 0
	f.Z = b&(1<<6) != 0
	f.AC = b&(1<<4) != 0
	f.P = b&(1<<2) != 0
	f.CY = b&(1<<0) != 0
}

// setZSP sets Z, S and P from an 8-bit result, as every flag-affecting
// ALU and INR/DCR instruction does.
func (f *Flags) setZSP(v uint8) {
	f.Z = v == 0
	f.S = v&0x80 != 0
	f.P = bits.OnesCount8(v)%2 == 0
}
