package addresscodec

import "testing"

func TestComposeDecomposeSolanaAddressRoundTrip(t *testing.T) {
	var pubKey [32]byte
	for i := range pubKey {
		pubKey[i] = byte(i)
	}

	addr := ComposeSolanaAddress(pubKey)
	if !ValidateSolanaAddress(addr) {
		t.Fatalf("freshly composed address failed validation")
	}

	decoded, err := DecodeSolanaAddress(addr)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded != pubKey {
		t.Fatalf("decoded pubkey = %x, want %x", decoded, pubKey)
	}
}

func TestValidateSolanaAddressRejectsWrongLength(t *testing.T) {
	if ValidateSolanaAddress("abc") {
		t.Fatalf("expected a too-short address to be rejected")
	}
}

func TestValidateSolanaAddressRejectsEthereumAddress(t *testing.T) {
	if ValidateSolanaAddress("0x52908400098527886E0F7030069857D2E4169EE") {
		t.Fatalf("expected an ethereum-shaped address to be rejected")
	}
}
