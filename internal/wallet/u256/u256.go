// Package u256 implements the 256-bit little-endian unsigned integer used
// for every amount that touches consensus — UTXO values, transaction
// outputs, fees. It intentionally does not reuse a generic bignum or a
// reinterpret-casted union: spec.md §9 calls out the "uint256_t as nested
// unions" pattern specifically to warn against it, since overlapping views
// of the same 32 bytes behave differently across compilers and, ported
// naively, across encodings. This package is four plain uint64 fields and a
// serializer that fixes the byte order once and for all.
package u256

import (
	"fmt"
	"math/bits"
)

// U256 is a 256-bit unsigned integer stored as four 64-bit limbs. The names
// mirror the Cellframe SDK's nested-union field names: the value conceptually
// splits into a high 128-bit half (HiHi:HiLo) and a low 128-bit half
// (LoHi:LoLo), each half itself split into two 64-bit limbs.
//
//	value = HiHi*2^192 + HiLo*2^128 + LoHi*2^64 + LoLo
type U256 struct {
	HiHi uint64
	HiLo uint64
	LoHi uint64
	LoLo uint64
}

// Zero returns the additive identity.
func Zero() U256 { return U256{} }

// FromU64 widens a uint64 into a U256.
func FromU64(v uint64) U256 { return U256{LoLo: v} }

// limbs returns the four limbs ordered least-significant first, the order
// arithmetic carries/borrows propagate in.
func (u U256) limbs() [4]uint64 { return [4]uint64{u.LoLo, u.LoHi, u.HiLo, u.HiHi} }

func fromLimbs(l [4]uint64) U256 {
	return U256{LoLo: l[0], LoHi: l[1], HiLo: l[2], HiHi: l[3]}
}

// IsZero reports whether u is zero.
func (u U256) IsZero() bool {
	return u.HiHi == 0 && u.HiLo == 0 && u.LoHi == 0 && u.LoLo == 0
}

// Equals reports whether a and b represent the same value.
func (a U256) Equals(b U256) bool {
	return a.HiHi == b.HiHi && a.HiLo == b.HiLo && a.LoHi == b.LoHi && a.LoLo == b.LoLo
}

// Compare returns -1, 0, or 1 as a is less than, equal to, or greater than b.
// Comparison proceeds from the most significant limb down, making it a
// total, strict order over all 2^256 values.
func (a U256) Compare(b U256) int {
	if a.HiHi != b.HiHi {
		return cmpU64(a.HiHi, b.HiHi)
	}
	if a.HiLo != b.HiLo {
		return cmpU64(a.HiLo, b.HiLo)
	}
	if a.LoHi != b.LoHi {
		return cmpU64(a.LoHi, b.LoHi)
	}
	return cmpU64(a.LoLo, b.LoLo)
}

func cmpU64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Add returns a+b and reports whether the addition overflowed 256 bits.
func (a U256) Add(b U256) (sum U256, overflow bool) {
	al, bl := a.limbs(), b.limbs()
	var out [4]uint64
	var carry uint64
	for i := 0; i < 4; i++ {
		out[i], carry = bits.Add64(al[i], bl[i], carry)
	}
	return fromLimbs(out), carry != 0
}

// Sub returns a-b and reports whether the subtraction underflowed.
func (a U256) Sub(b U256) (diff U256, underflow bool) {
	al, bl := a.limbs(), b.limbs()
	var out [4]uint64
	var borrow uint64
	for i := 0; i < 4; i++ {
		out[i], borrow = bits.Sub64(al[i], bl[i], borrow)
	}
	return fromLimbs(out), borrow != 0
}

// MulChecked multiplies a by b via a 512-bit intermediate and returns the
// low 256 bits together with whether the high 256 bits are non-zero (i.e.
// the true product didn't fit in 256 bits).
func (a U256) MulChecked(b U256) (low U256, overflow bool) {
	al, bl := a.limbs(), b.limbs()

	// Schoolbook 4x4 limb multiplication accumulating into an 8-limb
	// result, exactly as a 256x256->512 bit multiply would on paper.
	var acc [8]uint64
	for i := 0; i < 4; i++ {
		if al[i] == 0 {
			continue
		}
		var carry uint64
		for j := 0; j < 4; j++ {
			hi, lo := bits.Mul64(al[i], bl[j])
			var c1 uint64
			lo, c1 = bits.Add64(lo, carry, 0)
			hi, _ = bits.Add64(hi, 0, c1)

			var c2 uint64
			acc[i+j], c2 = bits.Add64(acc[i+j], lo, 0)
			carry = hi + c2
		}
		// propagate remaining carry through the rest of the accumulator
		k := i + 4
		for carry != 0 {
			var c uint64
			acc[k], c = bits.Add64(acc[k], carry, 0)
			carry = c
			k++
		}
	}

	low = fromLimbs([4]uint64{acc[0], acc[1], acc[2], acc[3]})
	overflow = acc[4] != 0 || acc[5] != 0 || acc[6] != 0 || acc[7] != 0
	return low, overflow
}

// ShiftLeft shifts u left by n bits (0 <= n < 256), discarding bits shifted
// past the top.
func (u U256) ShiftLeft(n uint) U256 {
	if n == 0 {
		return u
	}
	if n >= 256 {
		return Zero()
	}
	l := u.limbs()
	var out [4]uint64
	wordShift := n / 64
	bitShift := n % 64
	for i := 3; i >= 0; i-- {
		srcIdx := i - int(wordShift)
		if srcIdx < 0 {
			continue
		}
		v := l[srcIdx] << bitShift
		if bitShift != 0 && srcIdx-1 >= 0 {
			v |= l[srcIdx-1] >> (64 - bitShift)
		}
		out[i] = v
	}
	return fromLimbs(out)
}

// ShiftRight shifts u right by n bits (0 <= n < 256), discarding bits
// shifted past the bottom.
func (u U256) ShiftRight(n uint) U256 {
	if n == 0 {
		return u
	}
	if n >= 256 {
		return Zero()
	}
	l := u.limbs()
	var out [4]uint64
	wordShift := n / 64
	bitShift := n % 64
	for i := 0; i < 4; i++ {
		srcIdx := i + int(wordShift)
		if srcIdx > 3 {
			continue
		}
		v := l[srcIdx] >> bitShift
		if bitShift != 0 && srcIdx+1 <= 3 {
			v |= l[srcIdx+1] << (64 - bitShift)
		}
		out[i] = v
	}
	return fromLimbs(out)
}

// Or returns the bitwise OR of a and b.
func (a U256) Or(b U256) U256 {
	return U256{
		HiHi: a.HiHi | b.HiHi,
		HiLo: a.HiLo | b.HiLo,
		LoHi: a.LoHi | b.LoHi,
		LoLo: a.LoLo | b.LoLo,
	}
}

// Bytes serializes u into the Cellframe wire layout (spec.md §3): bytes
// 0-7=HiLo, 8-15=HiHi, 16-23=LoLo, 24-31=LoHi, each limb little-endian. This interleaving (not a
// naive big/little-endian full-width encoding) is the wire contract; do not
// "simplify" it.
func (u U256) Bytes() [32]byte {
	var out [32]byte
	putU64LE(out[0:8], u.HiLo)
	putU64LE(out[8:16], u.HiHi)
	putU64LE(out[16:24], u.LoLo)
	putU64LE(out[24:32], u.LoHi)
	return out
}

// FromBytes parses the Cellframe wire layout produced by Bytes.
func FromBytes(b [32]byte) U256 {
	return U256{
		HiLo: getU64LE(b[0:8]),
		HiHi: getU64LE(b[8:16]),
		LoLo: getU64LE(b[16:24]),
		LoHi: getU64LE(b[24:32]),
	}
}

// BigEndianBytes serializes u as a standard 32-byte big-endian integer, the
// form Ethereum's RLP and ABI encodings expect (spec.md §4.8/§4.9) — not the
// Cellframe interleaved layout Bytes produces.
func (u U256) BigEndianBytes() [32]byte {
	var out [32]byte
	putU64BE(out[0:8], u.HiHi)
	putU64BE(out[8:16], u.HiLo)
	putU64BE(out[16:24], u.LoHi)
	putU64BE(out[24:32], u.LoLo)
	return out
}

// FromBigEndianBytes parses a standard 32-byte big-endian integer (the
// inverse of BigEndianBytes).
func FromBigEndianBytes(b [32]byte) U256 {
	return U256{
		HiHi: getU64BE(b[0:8]),
		HiLo: getU64BE(b[8:16]),
		LoHi: getU64BE(b[16:24]),
		LoLo: getU64BE(b[24:32]),
	}
}

func putU64BE(dst []byte, v uint64) {
	for i := 0; i < 8; i++ {
		dst[7-i] = byte(v >> (8 * uint(i)))
	}
}

func getU64BE(src []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(src[i])
	}
	return v
}

func putU64LE(dst []byte, v uint64) {
	for i := 0; i < 8; i++ {
		dst[i] = byte(v >> (8 * uint(i)))
	}
}

func getU64LE(src []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(src[i]) << (8 * uint(i))
	}
	return v
}

// divModSmall divides u by a single-word divisor (10 for decimal
// formatting) using schoolbook long division from the most
// significant limb down.
func (u U256) divModSmall(divisor uint64) (quotient U256, remainder uint64) {
	l := u.limbs() // least-significant first
	var q [4]uint64
	var rem uint64
	for i := 3; i >= 0; i-- {
		var quo uint64
		quo, rem = bits.Div64(rem, l[i], divisor)
		q[i] = quo
	}
	return fromLimbs(q), rem
}

// DivModSmall divides u by a single-word divisor, returning the quotient
// and remainder. Used outside this package for percentage-style scaling
// (e.g. Ethereum gas-price speed tiering, spec.md §4.9) where the divisor
// is always a small constant.
func (u U256) DivModSmall(divisor uint64) (quotient U256, remainder uint64) {
	return u.divModSmall(divisor)
}

// String renders u as a base-10 integer string (no grouping, no sign — u is
// unsigned).
func (u U256) String() string {
	if u.IsZero() {
		return "0"
	}
	var digits []byte
	cur := u
	for !cur.IsZero() {
		var rem uint64
		cur, rem = cur.divModSmall(10)
		digits = append(digits, byte('0')+byte(rem))
	}
	// digits were collected least-significant first; reverse.
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// GoString supports %#v / debug printing.
func (u U256) GoString() string {
	return fmt.Sprintf("u256.U256{%s}", u.String())
}
