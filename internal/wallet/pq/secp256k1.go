package pq

import (
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Keccak256 hashes data with Keccak-256 (spec.md §4.2). Delegated to
// go-ethereum's crypto package — the teacher's own choice of Keccak-256
// provider (internal/crypto/signer.go uses the same function).
func Keccak256(data ...[]byte) [32]byte {
	return [32]byte(ethcrypto.Keccak256(data...))
}

// Secp256k1Signature is a recoverable secp256k1 signature: r and s are
// 32-byte big-endian scalars, RecoveryID is 0..3.
type Secp256k1Signature struct {
	R          [32]byte
	S          [32]byte
	RecoveryID byte
}

// Secp256k1SignRecoverable signs a 32-byte hash with a 32-byte secp256k1
// private key, returning a recoverable signature (spec.md §4.2). Failure is
// limited to a malformed private key (ErrMalformedKey).
func Secp256k1SignRecoverable(sk [32]byte, hash [32]byte) (Secp256k1Signature, error) {
	priv, err := ethcrypto.ToECDSA(sk[:])
	if err != nil {
		return Secp256k1Signature{}, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	sig, err := ethcrypto.Sign(hash[:], priv)
	if err != nil {
		return Secp256k1Signature{}, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	var out Secp256k1Signature
	copy(out.R[:], sig[0:32])
	copy(out.S[:], sig[32:64])
	out.RecoveryID = sig[64]
	return out, nil
}

// Secp256k1PubkeyFromSk derives the uncompressed 65-byte public key
// (0x04 || X || Y) for a 32-byte secp256k1 private key (spec.md §4.2).
func Secp256k1PubkeyFromSk(sk [32]byte) ([65]byte, error) {
	priv, err := ethcrypto.ToECDSA(sk[:])
	if err != nil {
		return [65]byte{}, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	var out [65]byte
	copy(out[:], ethcrypto.FromECDSAPub(&priv.PublicKey))
	return out, nil
}
