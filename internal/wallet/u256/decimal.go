package u256

import (
	"fmt"
	"strings"
)

// maxDecimalDigits is the longest digit sequence ScanUninteger accepts
// (spec.md §4.1: "up to 78 characters" — 10^77 is the largest power of ten
// that still fits in 256 bits).
const maxDecimalDigits = 78

// pow10Table holds 10^0 .. 10^77, built once by repeated multiplication by
// ten. Its entries are unit-tested against iterated MulChecked by ten in
// decimal_test.go, per spec.md §4.1's requirement that the table be
// reproducible that way.
var pow10Table = buildPow10Table()

func buildPow10Table() [maxDecimalDigits]U256 {
	var table [maxDecimalDigits]U256
	table[0] = FromU64(1)
	ten := FromU64(10)
	for i := 1; i < maxDecimalDigits; i++ {
		v, overflow := table[i-1].MulChecked(ten)
		if overflow {
			panic(fmt.Sprintf("u256: pow10 table overflowed at 10^%d", i))
		}
		table[i] = v
	}
	return table
}

// ScanUninteger parses a plain (no sign, no point) digit string into a
// U256, failing with an overflow error if the value doesn't fit in 256
// bits or the string is malformed (spec.md §4.1).
//
// Algorithm: right-to-left, for each digit position i multiply the digit by
// the precomputed 10^i and accumulate; any per-digit multiply overflow or
// accumulator-sum overflow fails the parse.
func ScanUninteger(s string) (U256, error) {
	if s == "" {
		return Zero(), fmt.Errorf("u256: empty digit string")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return Zero(), fmt.Errorf("u256: %q is not a decimal digit string", s)
		}
	}
	if len(s) > maxDecimalDigits {
		return Zero(), fmt.Errorf("u256: %w: digit string %q exceeds %d characters", errOverflow, s, maxDecimalDigits)
	}

	acc := Zero()
	n := len(s)
	for pos := 0; pos < n; pos++ {
		// s[n-1-pos] is the digit at decimal position `pos` (0 = units).
		digit := uint64(s[n-1-pos] - '0')
		if digit == 0 {
			continue
		}
		term, overflow := pow10Table[pos].MulChecked(FromU64(digit))
		if overflow {
			return Zero(), fmt.Errorf("u256: %w: digit at position %d", errOverflow, pos)
		}
		sum, overflow := acc.Add(term)
		if overflow {
			return Zero(), fmt.Errorf("u256: %w: accumulating position %d", errOverflow, pos)
		}
		acc = sum
	}
	return acc, nil
}

var errOverflow = fmt.Errorf("numeric overflow")

// ErrOverflow is the sentinel wrapped by ScanUninteger/FromAmountString on
// any arithmetic overflow; callers can match it with errors.Is.
var ErrOverflow = errOverflow

// FromAmountString parses a fixed-point amount string of the form "D" or
// "D.F" (F at most 18 digits) into datoshi/wei — i.e. the value multiplied
// by 10^18 — matching the SDK convention that 1 whole unit = 10^18 smallest
// units (spec.md §4.1). A missing decimal point is treated as a whole-unit
// amount.
func FromAmountString(s string) (U256, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero(), fmt.Errorf("u256: empty amount string")
	}

	whole, frac, hasPoint := strings.Cut(s, ".")
	if whole == "" {
		return Zero(), fmt.Errorf("u256: amount %q has no integer part", s)
	}
	if !hasPoint {
		frac = ""
	}
	if len(frac) > 18 {
		return Zero(), fmt.Errorf("u256: amount %q has more than 18 fractional digits", s)
	}
	frac = frac + strings.Repeat("0", 18-len(frac))

	return ScanUninteger(whole + frac)
}
