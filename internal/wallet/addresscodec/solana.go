package addresscodec

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
)

const solanaAddressLen = 32

// ComposeSolanaAddress base58-encodes a 32-byte public key directly, with no
// checksum (Solana's address format, unlike Cellframe's and TRON's, is a
// bare base58-encoded key).
func ComposeSolanaAddress(pubKey [32]byte) string {
	return base58.Encode(pubKey[:])
}

// ValidateSolanaAddress reports whether addr base58-decodes to exactly 32
// bytes.
func ValidateSolanaAddress(addr string) bool {
	_, err := DecodeSolanaAddress(addr)
	return err == nil
}

// DecodeSolanaAddress base58-decodes addr into its 32-byte public key.
func DecodeSolanaAddress(addr string) ([32]byte, error) {
	var out [32]byte
	raw := base58.Decode(addr)
	if len(raw) != solanaAddressLen {
		return out, fmt.Errorf("%w: solana address must decode to 32 bytes", domain.ErrInvalidInput)
	}
	copy(out[:], raw)
	return out, nil
}
