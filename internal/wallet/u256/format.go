package u256

import "strings"

// FormatFixed renders u (a smallest-unit integer, e.g. datoshi or wei) as a
// decimal string with up to `decimals` fractional digits, trimming trailing
// zeros (spec.md §4.9 "format ... trimming trailing zeros"). decimals is
// typically 18.
func FormatFixed(u U256, decimals int) string {
	digits := u.String()
	if decimals <= 0 {
		return digits
	}
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}
	whole := digits[:len(digits)-decimals]
	frac := digits[len(digits)-decimals:]
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return whole + ".0"
	}
	return whole + "." + frac
}
