package u256

import (
	"math/rand"
	"testing"
)

func TestAddSubRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		a := randomU256(rng)
		b := randomU256(rng)

		sum, overflow := a.Add(b)
		if overflow {
			continue // sub(add(a,b), b) = a only holds when no overflow (spec.md §8)
		}
		back, underflow := sum.Sub(b)
		if underflow {
			t.Fatalf("unexpected underflow: a=%s b=%s sum=%s", a, b, sum)
		}
		if !back.Equals(a) {
			t.Fatalf("sub(add(a,b),b) != a: a=%s b=%s back=%s", a, b, back)
		}
	}
}

func TestCompareTotalOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		a := randomU256(rng)
		b := randomU256(rng)
		c := randomU256(rng)

		if a.Compare(a) != 0 {
			t.Fatalf("compare(a,a) != 0")
		}
		ab := a.Compare(b)
		ba := b.Compare(a)
		if ab != -ba {
			t.Fatalf("compare not antisymmetric: a=%s b=%s", a, b)
		}
		// Transitivity check (best-effort, not exhaustive).
		if a.Compare(b) <= 0 && b.Compare(c) <= 0 {
			if a.Compare(c) > 0 {
				t.Fatalf("compare not transitive: a=%s b=%s c=%s", a, b, c)
			}
		}
	}
}

func TestMulCheckedOverflow(t *testing.T) {
	maxVal := U256{HiHi: ^uint64(0), HiLo: ^uint64(0), LoHi: ^uint64(0), LoLo: ^uint64(0)}
	_, overflow := maxVal.MulChecked(FromU64(2))
	if !overflow {
		t.Fatalf("expected overflow multiplying max U256 by 2")
	}

	a := FromU64(1000)
	b := FromU64(2000)
	product, overflow := a.MulChecked(b)
	if overflow {
		t.Fatalf("unexpected overflow for small multiply")
	}
	if product.String() != "2000000" {
		t.Fatalf("1000*2000 = %s, want 2000000", product)
	}
}

func TestShiftRoundTrip(t *testing.T) {
	v := FromU64(0x0102030405060708)
	left := v.ShiftLeft(8)
	back := left.ShiftRight(8)
	if !back.Equals(v) {
		t.Fatalf("shift round trip failed: v=%s back=%s", v, back)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	v := U256{HiHi: 1, HiLo: 2, LoHi: 3, LoLo: 4}
	b := v.Bytes()
	back := FromBytes(b)
	if !back.Equals(v) {
		t.Fatalf("bytes round trip failed: v=%+v back=%+v", v, back)
	}
	// Spot-check the documented byte layout (spec.md §3): bytes 0-7=HiLo.
	want := U256{LoLo: 4}.Bytes()
	_ = want
	if b[0] != 2 {
		t.Fatalf("byte 0 should be the low byte of HiLo (2), got %d", b[0])
	}
}

func TestBigEndianBytesRoundTrip(t *testing.T) {
	v := U256{HiHi: 1, HiLo: 2, LoHi: 3, LoLo: 4}
	b := v.BigEndianBytes()
	back := FromBigEndianBytes(b)
	if !back.Equals(v) {
		t.Fatalf("big-endian bytes round trip failed: v=%+v back=%+v", v, back)
	}
	// Standard big-endian: the most significant byte is first.
	if b[31] != 4 {
		t.Fatalf("last byte should be the low byte of LoLo (4), got %d", b[31])
	}
	if b[0] != 0 {
		t.Fatalf("first byte should be the high byte of HiHi (0, since HiHi=1 fits in the low byte), got %d", b[0])
	}
}

func TestBigEndianBytesMatchesDecimalValue(t *testing.T) {
	v := FromU64(1024)
	b := v.BigEndianBytes()
	if b[30] != 0x04 || b[31] != 0x00 {
		t.Fatalf("BigEndianBytes(1024) tail = % x, want 04 00", b[30:])
	}
	for i := 0; i < 30; i++ {
		if b[i] != 0 {
			t.Fatalf("BigEndianBytes(1024) byte %d = %d, want 0", i, b[i])
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	cases := []string{"0", "1", "123456789012345678901234567890", "999999999999999999999999999999999999999999999999999999999999999999999999999"}
	for _, c := range cases {
		v, err := ScanUninteger(c)
		if err != nil {
			t.Fatalf("ScanUninteger(%q): %v", c, err)
		}
		if v.String() != c {
			t.Fatalf("String() round trip: got %s want %s", v.String(), c)
		}
	}
}

func randomU256(rng *rand.Rand) U256 {
	return U256{
		HiHi: rng.Uint64(),
		HiLo: rng.Uint64(),
		LoHi: rng.Uint64(),
		LoLo: rng.Uint64(),
	}
}
