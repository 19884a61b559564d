package vm

import "math/bits"

// AddQuad performs a four-limb ripple-carry add. Carry from limb i
// contributes to limb i+1; overflow out of the High limb is dropped
// silently, matching the 128-bit core's wraparound arithmetic.
func AddQuad(a, b Quad) Quad {
	var r Quad
	var carry uint64

	sum := uint64(a.Low) + uint64(b.Low)
	r.Low = uint32(sum)
	carry = sum >> 32

	sum = uint64(a.MidLow) + uint64(b.MidLow) + carry
	r.MidLow = uint32(sum)
	carry = sum >> 32

	sum = uint64(a.MidHigh) + uint64(b.MidHigh) + carry
	r.MidHigh = uint32(sum)
	carry = sum >> 32

	sum = uint64(a.High) + uint64(b.High) + carry
	r.High = uint32(sum)

	return r
}

// SubQuad performs a four-limb ripple-borrow subtract (a - b), via
// two's-complement addition of ^b + 1.
func SubQuad(a, b Quad) Quad {
	negB := AddQuad(Quad{
		Low:     ^b.Low,
		MidLow:  ^b.MidLow,
		MidHigh: ^b.MidHigh,
		High:    ^b.High,
	}, Quad{Low: 1})
	return AddQuad(a, negB)
}

// SignExtendQuad16 sign-extends a 16-bit two's-complement value to a
// full 128-bit quadword: ones-fill on negative, zero-fill on
// non-negative.
func SignExtendQuad16(imm16 int32) Quad {
	if imm16 < 0 {
		return Quad{
			Low:     uint32(imm16) & 0xFFFF | 0xFFFF0000,
			MidLow:  0xFFFFFFFF,
			MidHigh: 0xFFFFFFFF,
			High:    0xFFFFFFFF,
		}
	}
	return Quad{Low: uint32(imm16) & 0xFFFF}
}

// CLZ128 counts leading zero bits across the 128-bit value, scanning
// High -> MidHigh -> MidLow -> Low. The all-zero input yields 128.
func CLZ128(q Quad) uint32 {
	limbs := [4]uint32{q.High, q.MidHigh, q.MidLow, q.Low}
	count := uint32(0)
	for _, limb := range limbs {
		if limb == 0 {
			count += 32
			continue
		}
		count += uint32(bits.LeadingZeros32(limb))
		break
	}
	return count
}
