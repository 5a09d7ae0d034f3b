package u256

import "testing"

func TestFormatFixedTrimsTrailingZeros(t *testing.T) {
	v, _ := ScanUninteger("1500000000000000000") // 1.5 * 10^18
	got := FormatFixed(v, 18)
	if got != "1.5" {
		t.Fatalf("got %s want 1.5", got)
	}
}

func TestFormatFixedWholeNumber(t *testing.T) {
	v, _ := ScanUninteger("2000000000000000000")
	got := FormatFixed(v, 18)
	if got != "2.0" {
		t.Fatalf("got %s want 2.0", got)
	}
}

func TestFormatFixedSmallAmount(t *testing.T) {
	v, _ := ScanUninteger("1")
	got := FormatFixed(v, 18)
	if got != "0.000000000000000001" {
		t.Fatalf("got %s want 0.000000000000000001", got)
	}
}
