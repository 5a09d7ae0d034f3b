package ethereum

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/u256"
)

func TestSpeedMultiplierPercent(t *testing.T) {
	cases := map[domain.Speed]uint64{
		domain.SpeedSlow:   80,
		domain.SpeedNormal: 100,
		domain.SpeedFast:   150,
	}
	for speed, want := range cases {
		if got := speedMultiplierPercent(speed); got != want {
			t.Fatalf("speedMultiplierPercent(%s) = %d, want %d", speed, got, want)
		}
	}
}

func TestParseHexU256(t *testing.T) {
	v, err := parseHexU256("0x3e8")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "1000" {
		t.Fatalf("parseHexU256(0x3e8) = %s, want 1000", v.String())
	}
}

func TestParseHexU256EmptyIsZero(t *testing.T) {
	v, err := parseHexU256("0x")
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsZero() {
		t.Fatalf("parseHexU256(0x) = %s, want 0", v.String())
	}
}

func TestParseHexU256OddLength(t *testing.T) {
	v, err := parseHexU256("0xf")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "15" {
		t.Fatalf("parseHexU256(0xf) = %s, want 15", v.String())
	}
}

func TestParseHexU256RejectsOverflow(t *testing.T) {
	overLong := "0x" + strings.Repeat("ff", 33)
	if _, err := parseHexU256(overLong); err == nil {
		t.Fatalf("expected an overflow error for a 33-byte hex integer")
	}
}

func TestNameTypeAndValidateAddress(t *testing.T) {
	a := NewAdapter(Config{RPCURL: "http://127.0.0.1:1", ChainID: 1})
	if a.Name() != "ethereum" {
		t.Fatalf("Name() = %q, want ethereum", a.Name())
	}
	if a.Type() != domain.ChainEthereum {
		t.Fatalf("Type() = %q, want %q", a.Type(), domain.ChainEthereum)
	}
	if !a.ValidateAddress("0x52908400098527886E0F7030069857D2E4169EE7") {
		t.Fatalf("expected a correctly checksummed address to validate")
	}
	if a.ValidateAddress("not-an-address") {
		t.Fatalf("expected a malformed address to be rejected")
	}
}

func TestFormatBalanceDisplayClampsAboveU64Max(t *testing.T) {
	huge := u256.U256{LoHi: 1} // 2^64, one bit past u64::MAX
	got := formatBalanceDisplay(huge, "999999999.0")
	if got != "999999999.0" {
		t.Fatalf("formatBalanceDisplay(>u64::MAX) = %q, want the sentinel", got)
	}
}

func TestFormatBalanceDisplayPassesThroughWithinU64Max(t *testing.T) {
	small := u256.FromU64(1_000_000_000_000_000_000) // 1 ETH in wei, fits in a u64
	got := formatBalanceDisplay(small, "999999999.0")
	if got != "1.0" {
		t.Fatalf("formatBalanceDisplay(1 ETH) = %q, want 1.0", got)
	}
}

func TestBalanceSurfacesRPCFailure(t *testing.T) {
	a := NewAdapter(Config{RPCURL: "http://127.0.0.1:1", ChainID: 1})
	_, err := a.Balance(context.Background(), "0x52908400098527886E0F7030069857D2E4169EE7", "")
	if err == nil {
		t.Fatalf("expected an error when the RPC endpoint is unreachable")
	}
}

func TestHistoryWithoutExplorerConfiguredReturnsError(t *testing.T) {
	a := NewAdapter(Config{RPCURL: "http://127.0.0.1:1", ChainID: 1})
	_, err := a.History(context.Background(), "0x52908400098527886E0F7030069857D2E4169EE", "")
	if err == nil {
		t.Fatalf("expected an error when no explorer base URL is configured")
	}
}

func TestHistoryParsesExplorerResponse(t *testing.T) {
	const addr = "0x52908400098527886e0f7030069857d2e4169ee"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":[
			{"hash":"0xabc","from":"0x52908400098527886e0f7030069857d2e4169ee","to":"0xdef","value":"1000000000000000000","timeStamp":"1700000000","isError":"0","contractAddress":""},
			{"hash":"0xdef","from":"0x999","to":"0x52908400098527886e0f7030069857d2e4169ee","value":"2000000000000000000","timeStamp":"1700000100","isError":"1","contractAddress":""}
		]}`))
	}))
	defer srv.Close()

	a := NewAdapter(Config{RPCURL: "http://127.0.0.1:1", ChainID: 1, ExplorerBaseURL: srv.URL})
	entries, err := a.History(context.Background(), addr, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if !entries[0].IsOutgoing || entries[0].Amount != "1.0" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].IsOutgoing || entries[1].Status != domain.TxStatusFailed {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}
