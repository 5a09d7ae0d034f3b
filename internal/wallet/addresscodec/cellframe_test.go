package addresscodec

import (
	"bytes"
	"testing"
)

func TestComposeDecomposeCellframeAddressRoundTrip(t *testing.T) {
	pubKey := bytes.Repeat([]byte{0x7a}, 1196)
	netID := uint64(0x0404202200000000) // Backbone net id shape

	addr := ComposeCellframeAddress(pubKey, netID)

	if len(addr) < cellframeAddressMinLen || len(addr) > cellframeAddressMaxLen {
		t.Fatalf("address length %d outside [%d,%d]", len(addr), cellframeAddressMinLen, cellframeAddressMaxLen)
	}

	fields, err := DecodeCellframeAddress(addr)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if fields.VersionByte != 0 {
		t.Fatalf("version byte = %d, want 0", fields.VersionByte)
	}
	if fields.NetID != netID {
		t.Fatalf("net id = %#x, want %#x", fields.NetID, netID)
	}
	if fields.TypeMarker != cellframeTypeMarker {
		t.Fatalf("type marker = %#x, want %#x", fields.TypeMarker, cellframeTypeMarker)
	}
	if !ValidateCellframeAddress(addr) {
		t.Fatalf("freshly composed address failed validation")
	}
}

func TestComposeCellframeAddressDeterministic(t *testing.T) {
	pubKey := bytes.Repeat([]byte{0x11}, 1196)
	a1 := ComposeCellframeAddress(pubKey, 1)
	a2 := ComposeCellframeAddress(pubKey, 1)
	if a1 != a2 {
		t.Fatalf("composing the same key twice produced different addresses")
	}
	a3 := ComposeCellframeAddress(pubKey, 2)
	if a1 == a3 {
		t.Fatalf("different net ids produced the same address")
	}
}

func TestDecodeCellframeAddressRejectsBadChecksum(t *testing.T) {
	pubKey := bytes.Repeat([]byte{0x55}, 1196)
	addr := ComposeCellframeAddress(pubKey, 1)

	mutated := []byte(addr)
	if mutated[len(mutated)/2] == 'a' {
		mutated[len(mutated)/2] = 'b'
	} else {
		mutated[len(mutated)/2] = 'a'
	}

	if ValidateCellframeAddress(string(mutated)) {
		t.Fatalf("mutated address unexpectedly validated")
	}
}

func TestDecodeCellframeAddressRejectsBadLength(t *testing.T) {
	if ValidateCellframeAddress("short") {
		t.Fatalf("short string unexpectedly validated")
	}
}
