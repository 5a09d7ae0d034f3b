package tron

import (
	"context"
	"testing"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/addresscodec"
)

func sampleTronAddress() string {
	var coords [64]byte
	for i := range coords {
		coords[i] = byte(i)
	}
	return addresscodec.ComposeTronAddress(coords)
}

func TestNameTypeAndValidateAddress(t *testing.T) {
	a := NewAdapter(Config{NodeURL: "http://127.0.0.1:1"})
	if a.Name() != "tron" {
		t.Fatalf("Name() = %q, want tron", a.Name())
	}
	if a.Type() != domain.ChainTron {
		t.Fatalf("Type() = %q, want %q", a.Type(), domain.ChainTron)
	}
	if !a.ValidateAddress(sampleTronAddress()) {
		t.Fatalf("expected a correctly composed address to validate")
	}
	if a.ValidateAddress("not-an-address") {
		t.Fatalf("expected a malformed address to be rejected")
	}
}

func TestEstimateFeeReturnsFixedBaseFee(t *testing.T) {
	a := NewAdapter(Config{NodeURL: "http://127.0.0.1:1"})
	fee, err := a.EstimateFee(context.Background(), domain.SpeedNormal)
	if err != nil {
		t.Fatal(err)
	}
	if fee.Fee != "0.1" {
		t.Fatalf("EstimateFee = %q, want 0.1", fee.Fee)
	}
}

func TestBalanceRejectsTokenArgument(t *testing.T) {
	a := NewAdapter(Config{NodeURL: "http://127.0.0.1:1"})
	_, err := a.Balance(context.Background(), sampleTronAddress(), "some-contract")
	if err == nil {
		t.Fatalf("expected Balance to reject a non-empty token argument")
	}
}

func TestBalanceSurfacesRPCFailure(t *testing.T) {
	a := NewAdapter(Config{NodeURL: "http://127.0.0.1:1"})
	_, err := a.Balance(context.Background(), sampleTronAddress(), "")
	if err == nil {
		t.Fatalf("expected an error when the node is unreachable")
	}
}

func TestHistoryIsUnimplemented(t *testing.T) {
	a := NewAdapter(Config{NodeURL: "http://127.0.0.1:1"})
	_, err := a.History(context.Background(), sampleTronAddress(), "")
	if err == nil {
		t.Fatalf("expected History to report not implemented")
	}
}
