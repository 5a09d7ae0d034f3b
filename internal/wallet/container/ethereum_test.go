package container

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/addresscodec"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestDeriveEthereumFromMnemonicDeterministic(t *testing.T) {
	w1, err := DeriveEthereumFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatal(err)
	}
	w2, err := DeriveEthereumFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatal(err)
	}
	if w1.Address != w2.Address {
		t.Fatalf("deriving twice from the same mnemonic gave different addresses")
	}
	if len(w1.PrivateKey) != 32 {
		t.Fatalf("private key length = %d, want 32", len(w1.PrivateKey))
	}
}

func TestDeriveEthereumFromMnemonicRejectsInvalid(t *testing.T) {
	_, err := DeriveEthereumFromMnemonic("not a valid mnemonic at all", "")
	if err == nil {
		t.Fatalf("expected error for invalid mnemonic")
	}
}

func TestDeriveEthereumAddressChecksumValidates(t *testing.T) {
	w, err := DeriveEthereumFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatal(err)
	}
	checksummed := addresscodec.ChecksumEthereumAddress(w.Address)
	if !addresscodec.ValidateEthereumAddress(checksummed) {
		t.Fatalf("derived address checksum failed validation")
	}
}

func TestWriteReadKeystoreRoundTrip(t *testing.T) {
	w, err := DeriveEthereumFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "keystore.json")

	if err := WriteKeystore(path, w, "2026-07-31T00:00:00Z"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("keystore file mode = %v, want 0600", info.Mode().Perm())
	}

	ks, err := ReadKeystore(path)
	if err != nil {
		t.Fatal(err)
	}
	if ks.Version != 1 {
		t.Fatalf("keystore version = %d, want 1", ks.Version)
	}
	if ks.Blockchain != "ethereum" || ks.Network != "mainnet" {
		t.Fatalf("unexpected keystore metadata: %+v", ks)
	}
	if ks.Address != addresscodec.ChecksumEthereumAddress(w.Address) {
		t.Fatalf("keystore address mismatch")
	}
}
