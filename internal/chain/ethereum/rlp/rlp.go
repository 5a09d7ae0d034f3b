// Package rlp implements the subset of Ethereum's Recursive Length Prefix
// encoding this module needs: byte strings, unsigned integers, and lists of
// items, following the item rules of spec.md §4.8. Hand-written rather than
// imported — the wire form is consensus-observable and the rule set is
// small enough to keep local, the way the teacher's crypto package hand-
// rolls its own signing envelopes instead of reaching for a generic codec.
package rlp

import "fmt"

// Item is anything EncodeList can append: either a byte string (produced by
// EncodeBytes et al.) or a nested, already-RLP-encoded list.
type Item = []byte

// EncodeBytes encodes a byte string per the item rules:
//   - a single byte in 0x00..0x7f encodes as itself
//   - length 0-55 gets the 0x80+len prefix
//   - length >55 gets the 0xb7+len-of-len prefix followed by the big-endian
//     length
func EncodeBytes(s []byte) []byte {
	if len(s) == 1 && s[0] <= 0x7f {
		return []byte{s[0]}
	}
	if len(s) <= 55 {
		out := make([]byte, 0, 1+len(s))
		out = append(out, byte(0x80+len(s)))
		return append(out, s...)
	}
	lenBytes := minimalBigEndian(uint64(len(s)))
	out := make([]byte, 0, 1+len(lenBytes)+len(s))
	out = append(out, byte(0xb7+len(lenBytes)))
	out = append(out, lenBytes...)
	return append(out, s...)
}

// EncodeUint64 encodes a u64 as its minimal big-endian byte string; zero
// encodes as the empty string (0x80).
func EncodeUint64(v uint64) []byte {
	if v == 0 {
		return EncodeBytes(nil)
	}
	return EncodeBytes(minimalBigEndian(v))
}

// EncodeBigEndian encodes an arbitrary-width unsigned integer given as a
// big-endian byte slice (e.g. a U256's 32-byte form), trimming leading
// zero bytes to its minimal non-zero suffix before applying the byte-string
// rules. A fully-zero input encodes as the empty string.
func EncodeBigEndian(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return EncodeBytes(b[i:])
}

// EncodeList wraps already-encoded items in a list header per the item
// rules (0xc0+len for payload <=55, 0xf7+len-of-len + big-endian length
// otherwise).
func EncodeList(items ...Item) []byte {
	var payload []byte
	for _, it := range items {
		payload = append(payload, it...)
	}
	if len(payload) <= 55 {
		out := make([]byte, 0, 1+len(payload))
		out = append(out, byte(0xc0+len(payload)))
		return append(out, payload...)
	}
	lenBytes := minimalBigEndian(uint64(len(payload)))
	out := make([]byte, 0, 1+len(lenBytes)+len(payload))
	out = append(out, byte(0xf7+len(lenBytes)))
	out = append(out, lenBytes...)
	return append(out, payload...)
}

func minimalBigEndian(v uint64) []byte {
	if v == 0 {
		return nil
	}
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	i := 0
	for i < 8 && buf[i] == 0 {
		i++
	}
	return buf[i:]
}

// DecodeBytes decodes a single RLP byte string (not a list) from the front
// of buf, returning the decoded value and the remaining buffer. Used only
// by tests to assert the encode/decode round trip (spec.md §8 RLP
// property).
func DecodeBytes(buf []byte) (value []byte, rest []byte, err error) {
	if len(buf) == 0 {
		return nil, nil, fmt.Errorf("rlp: empty input")
	}
	prefix := buf[0]
	switch {
	case prefix <= 0x7f:
		return buf[0:1], buf[1:], nil
	case prefix <= 0xb7:
		n := int(prefix - 0x80)
		if len(buf) < 1+n {
			return nil, nil, fmt.Errorf("rlp: short string truncated")
		}
		return buf[1 : 1+n], buf[1+n:], nil
	case prefix <= 0xbf:
		lenOfLen := int(prefix - 0xb7)
		if len(buf) < 1+lenOfLen {
			return nil, nil, fmt.Errorf("rlp: long string length truncated")
		}
		n := 0
		for _, b := range buf[1 : 1+lenOfLen] {
			n = n<<8 | int(b)
		}
		start := 1 + lenOfLen
		if len(buf) < start+n {
			return nil, nil, fmt.Errorf("rlp: long string truncated")
		}
		return buf[start : start+n], buf[start+n:], nil
	default:
		return nil, nil, fmt.Errorf("rlp: expected a byte string, found a list prefix %#x", prefix)
	}
}
