package addresscodec

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/pq"
)

const (
	tronAddressPrefix = 0x41
	tronPayloadLen    = 1 + 20 // prefix byte + 20-byte keccak-derived address
)

// ComposeTronAddress derives a TRON address from an uncompressed secp256k1
// public key's 64-byte coordinate pair (spec.md §1 non-goal: "Solana and
// TRON adapters... share Ethereum's structural shape"). TRON reuses
// Ethereum's Keccak-256-of-pubkey-then-last-20-bytes rule, then prefixes
// 0x41 and base58check-encodes with Bitcoin's double-SHA256 checksum instead
// of Ethereum's EIP-55 mixed-case scheme.
func ComposeTronAddress(pubKeyCoords [64]byte) string {
	hash := pq.Keccak256(pubKeyCoords[:])
	var payload [tronPayloadLen]byte
	payload[0] = tronAddressPrefix
	copy(payload[1:], hash[12:])

	checksum := doubleSHA256(payload[:])
	full := append(append([]byte{}, payload[:]...), checksum[:4]...)
	return base58.Encode(full)
}

// ValidateTronAddress reports whether addr decodes to a well-formed,
// checksum-correct TRON address.
func ValidateTronAddress(addr string) bool {
	_, err := DecodeTronAddress(addr)
	return err == nil
}

// DecodeTronAddress base58check-decodes addr, verifies its checksum and
// 0x41 prefix, and returns the 20-byte address payload.
func DecodeTronAddress(addr string) ([20]byte, error) {
	var out [20]byte
	raw := base58.Decode(addr)
	if len(raw) != tronPayloadLen+4 {
		return out, fmt.Errorf("%w: malformed tron address length", domain.ErrInvalidInput)
	}
	payload, checksum := raw[:tronPayloadLen], raw[tronPayloadLen:]
	want := doubleSHA256(payload)
	if string(checksum) != string(want[:4]) {
		return out, fmt.Errorf("%w: tron address checksum mismatch", domain.ErrInvalidInput)
	}
	if payload[0] != tronAddressPrefix {
		return out, fmt.Errorf("%w: tron address missing 0x41 prefix", domain.ErrInvalidInput)
	}
	copy(out[:], payload[1:])
	return out, nil
}

func doubleSHA256(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}
