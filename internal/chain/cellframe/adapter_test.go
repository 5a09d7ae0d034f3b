package cellframe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/u256"
)

func TestSelectUTXOsSufficientFunds(t *testing.T) {
	outs := []ledgerOut{
		{PrevHash: "aa", Idx: 0, Value: "400000000000000000"},
		{PrevHash: "bb", Idx: 1, Value: "700000000000000000"},
	}
	required := u256mustFromU64(t, "1000000000000000000")

	selected, total, err := selectUTXOs(outs, required)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(selected) != 2 {
		t.Fatalf("selected %d outs, want 2 (no fee optimization, accumulate in order)", len(selected))
	}
	if total.Compare(required) < 0 {
		t.Fatalf("accumulated total %s is less than required %s", total.String(), required.String())
	}
}

func TestSelectUTXOsExactMatch(t *testing.T) {
	outs := []ledgerOut{
		{PrevHash: "aa", Idx: 0, Value: "1000000000000000000"},
	}
	required := u256mustFromU64(t, "1000000000000000000")

	selected, total, err := selectUTXOs(outs, required)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(selected) != 1 {
		t.Fatalf("selected %d outs, want 1", len(selected))
	}
	if !total.Equals(required) {
		t.Fatalf("total = %s, want exactly %s", total.String(), required.String())
	}
}

// TestSelectUTXOsInsufficientFunds mirrors the literal spec.md §8 scenario:
// available 0.005 CELL against a required 0.0121 CELL.
func TestSelectUTXOsInsufficientFunds(t *testing.T) {
	outs := []ledgerOut{
		{PrevHash: "aa", Idx: 0, Value: "5000000000000000"},
	}
	required := u256mustFromU64(t, "12100000000000000")

	_, _, err := selectUTXOs(outs, required)
	if err == nil {
		t.Fatalf("expected an insufficient-funds error")
	}
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("error %v does not wrap ErrInsufficientFunds", err)
	}
	if !strings.Contains(err.Error(), "required=") || !strings.Contains(err.Error(), "available=") {
		t.Fatalf("error message %q missing required/available figures", err.Error())
	}
}

func TestSelectUTXOsSkipsUnparsableValues(t *testing.T) {
	outs := []ledgerOut{
		{PrevHash: "aa", Idx: 0, Value: "not-a-number"},
		{PrevHash: "bb", Idx: 1, Value: "1000000000000000000"},
	}
	required := u256mustFromU64(t, "1000000000000000000")

	selected, _, err := selectUTXOs(outs, required)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(selected) != 1 || selected[0].PrevHash != "bb" {
		t.Fatalf("expected the single parsable out to be selected, got %+v", selected)
	}
}

func TestSelectUTXOsEmptyOutsYieldsInsufficientFunds(t *testing.T) {
	required := u256mustFromU64(t, "1")
	_, _, err := selectUTXOs(nil, required)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds for an empty out set, got %v", err)
	}
}

func TestValidateAddressDelegatesToAddresscodec(t *testing.T) {
	a := NewAdapter(DefaultConfig("http://127.0.0.1:8079"))
	if a.ValidateAddress("not-a-real-address") {
		t.Fatalf("expected a malformed address to be rejected")
	}
}

func TestEstimateFeeReturnsFixedTotal(t *testing.T) {
	a := NewAdapter(DefaultConfig("http://127.0.0.1:8079"))
	est, err := a.EstimateFee(context.Background(), domain.SpeedFast)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := DefaultNetworkFeeDatoshi.Add(DefaultValidatorFeeDatoshi)
	if est.Fee != want.String() {
		t.Fatalf("EstimateFee = %s, want %s (speed tier must not affect Cellframe fees)", est.Fee, want.String())
	}
}

// TestBalanceFallsBackToZeroOnRPCFailure exercises the "empty or malformed
// response yields 0 rather than failing" rule (spec.md §4.7 "Balance
// query") against an RPC endpoint that is guaranteed to fail (nothing is
// listening on it).
func TestBalanceFallsBackToZeroOnRPCFailure(t *testing.T) {
	a := NewAdapter(DefaultConfig("http://127.0.0.1:1"))
	bal, err := a.Balance(context.Background(), "someaddr", "CELL")
	if err != nil {
		t.Fatalf("Balance must not surface an RPC error, got %v", err)
	}
	if bal != "0" {
		t.Fatalf("Balance = %q, want \"0\" on RPC failure", bal)
	}
}

func TestNameAndType(t *testing.T) {
	a := NewAdapter(DefaultConfig("http://127.0.0.1:8079"))
	if a.Name() != "cellframe" {
		t.Fatalf("Name() = %q, want cellframe", a.Name())
	}
	if a.Type() != domain.ChainCellframe {
		t.Fatalf("Type() = %q, want %q", a.Type(), domain.ChainCellframe)
	}
}

func u256mustFromU64(t *testing.T, s string) u256.U256 {
	t.Helper()
	v, err := u256.ScanUninteger(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}
