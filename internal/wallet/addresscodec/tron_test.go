package addresscodec

import "testing"

func TestComposeDecomposeTronAddressRoundTrip(t *testing.T) {
	var coords [64]byte
	for i := range coords {
		coords[i] = byte(i)
	}

	addr := ComposeTronAddress(coords)
	if addr[0] != 'T' {
		t.Fatalf("tron address %q does not start with T", addr)
	}
	if !ValidateTronAddress(addr) {
		t.Fatalf("freshly composed address failed validation")
	}

	decoded, err := DecodeTronAddress(addr)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded) != 20 {
		t.Fatalf("decoded payload length = %d, want 20", len(decoded))
	}
}

func TestTronAddressDeterministic(t *testing.T) {
	var coords [64]byte
	for i := range coords {
		coords[i] = 0x42
	}
	if ComposeTronAddress(coords) != ComposeTronAddress(coords) {
		t.Fatalf("ComposeTronAddress is not deterministic")
	}
}

func TestValidateTronAddressRejectsBadChecksum(t *testing.T) {
	var coords [64]byte
	addr := ComposeTronAddress(coords)
	mutated := []byte(addr)
	mutated[len(mutated)-1] = 'X'
	if ValidateTronAddress(string(mutated)) {
		t.Fatalf("expected a corrupted tron address to fail validation")
	}
}

func TestValidateTronAddressRejectsEthereumAddress(t *testing.T) {
	if ValidateTronAddress("0x52908400098527886E0F7030069857D2E4169EE") {
		t.Fatalf("expected an ethereum-shaped address to be rejected")
	}
}
