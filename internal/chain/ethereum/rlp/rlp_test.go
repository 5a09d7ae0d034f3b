package rlp

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestEncodeBytesSingleByte(t *testing.T) {
	for b := byte(0); b <= 0x7f; b++ {
		got := EncodeBytes([]byte{b})
		if len(got) != 1 || got[0] != b {
			t.Fatalf("EncodeBytes([%#x]) = % x, want itself", b, got)
		}
	}
}

func TestEncodeBytesShortString(t *testing.T) {
	s := []byte("dog")
	got := EncodeBytes(s)
	want := []byte{0x83, 'd', 'o', 'g'}
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeBytes(dog) = % x, want % x", got, want)
	}
}

func TestEncodeBytesEmpty(t *testing.T) {
	got := EncodeBytes(nil)
	if !bytes.Equal(got, []byte{0x80}) {
		t.Fatalf("EncodeBytes(nil) = % x, want [0x80]", got)
	}
}

func TestEncodeBytesLongString(t *testing.T) {
	s := bytes.Repeat([]byte{'a'}, 56)
	got := EncodeBytes(s)
	if got[0] != 0xb7+1 {
		t.Fatalf("long-string prefix = %#x, want %#x", got[0], 0xb8)
	}
	if got[1] != 56 {
		t.Fatalf("long-string length byte = %d, want 56", got[1])
	}
	if !bytes.Equal(got[2:], s) {
		t.Fatalf("long-string payload mismatch")
	}
}

func TestEncodeUint64Zero(t *testing.T) {
	got := EncodeUint64(0)
	if !bytes.Equal(got, []byte{0x80}) {
		t.Fatalf("EncodeUint64(0) = % x, want [0x80]", got)
	}
}

func TestEncodeUint64Minimal(t *testing.T) {
	got := EncodeUint64(1024)
	want := EncodeBytes([]byte{0x04, 0x00})
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeUint64(1024) = % x, want % x", got, want)
	}
}

func TestEncodeBigEndianTrimsLeadingZeros(t *testing.T) {
	in := make([]byte, 32)
	in[30] = 0x01
	in[31] = 0x00
	got := EncodeBigEndian(in)
	want := EncodeBytes([]byte{0x01, 0x00})
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeBigEndian = % x, want % x", got, want)
	}
}

func TestEncodeBigEndianAllZero(t *testing.T) {
	got := EncodeBigEndian(make([]byte, 32))
	if !bytes.Equal(got, []byte{0x80}) {
		t.Fatalf("EncodeBigEndian(zero) = % x, want [0x80]", got)
	}
}

func TestEncodeListShort(t *testing.T) {
	got := EncodeList(EncodeBytes([]byte("cat")), EncodeBytes([]byte("dog")))
	want := []byte{0xc8, 0x83, 'c', 'a', 't', 0x83, 'd', 'o', 'g'}
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeList = % x, want % x", got, want)
	}
}

func TestEncodeListLong(t *testing.T) {
	item := EncodeBytes(bytes.Repeat([]byte{'x'}, 60))
	got := EncodeList(item)
	if got[0] != 0xf7+1 {
		t.Fatalf("long-list prefix = %#x, want %#x", got[0], 0xf8)
	}
}

func TestRoundTripBytesStrings(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		n := rng.Intn(200)
		s := make([]byte, n)
		rng.Read(s)
		encoded := EncodeBytes(s)
		decoded, rest, err := DecodeBytes(encoded)
		if err != nil {
			t.Fatalf("decode error for len %d: %v", n, err)
		}
		if len(rest) != 0 {
			t.Fatalf("unexpected trailing bytes after decode: % x", rest)
		}
		if !bytes.Equal(decoded, s) && !(len(s) == 0 && len(decoded) == 0) {
			t.Fatalf("round trip mismatch: got % x, want % x", decoded, s)
		}
	}
}
