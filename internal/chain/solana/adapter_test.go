package solana

import (
	"context"
	"testing"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
)

func TestNameTypeAndValidateAddress(t *testing.T) {
	a := NewAdapter(Config{RPCURL: "http://127.0.0.1:1"})
	if a.Name() != "solana" {
		t.Fatalf("Name() = %q, want solana", a.Name())
	}
	if a.Type() != domain.ChainSolana {
		t.Fatalf("Type() = %q, want %q", a.Type(), domain.ChainSolana)
	}
	if !a.ValidateAddress("11111111111111111111111111111111") {
		t.Fatalf("expected the system program address to validate")
	}
	if a.ValidateAddress("not-an-address") {
		t.Fatalf("expected a malformed address to be rejected")
	}
}

func TestEstimateFeeReturnsFixedBaseFee(t *testing.T) {
	a := NewAdapter(Config{RPCURL: "http://127.0.0.1:1"})
	fee, err := a.EstimateFee(context.Background(), domain.SpeedFast)
	if err != nil {
		t.Fatal(err)
	}
	if fee.Fee != "0.000005" {
		t.Fatalf("EstimateFee = %q, want 0.000005", fee.Fee)
	}
}

func TestBalanceRejectsTokenArgument(t *testing.T) {
	a := NewAdapter(Config{RPCURL: "http://127.0.0.1:1"})
	_, err := a.Balance(context.Background(), "11111111111111111111111111111111", "some-mint")
	if err == nil {
		t.Fatalf("expected Balance to reject a non-empty token argument")
	}
}

func TestBalanceSurfacesRPCFailure(t *testing.T) {
	a := NewAdapter(Config{RPCURL: "http://127.0.0.1:1"})
	_, err := a.Balance(context.Background(), "11111111111111111111111111111111", "")
	if err == nil {
		t.Fatalf("expected an error when the RPC endpoint is unreachable")
	}
}

func TestHistoryIsUnimplemented(t *testing.T) {
	a := NewAdapter(Config{RPCURL: "http://127.0.0.1:1"})
	_, err := a.History(context.Background(), "11111111111111111111111111111111", "")
	if err == nil {
		t.Fatalf("expected History to report not implemented")
	}
}
