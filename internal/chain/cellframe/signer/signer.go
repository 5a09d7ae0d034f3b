// Package signer builds the 3306-byte dap_sign_t envelope that wraps a
// Cellframe transaction's signature (spec.md §4.6). The envelope is built
// from three concatenated byte ranges (header, serialized public key,
// serialized signature) per spec.md §9's explicit guidance, not a packed
// struct with a variable-length tail.
package signer

import (
	"encoding/binary"
	"fmt"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/pq"
)

const (
	dapSignType     = 0x0102
	dapSignHashType = 0x01

	serializedSigTotal    = 2096
	serializedSigKind     = 1
	serializedSigAttached = 2076

	serializedPkTotal = 1196
	serializedPkKind  = 1

	dapSignHeaderLen = 14
	dapSignTotalLen  = dapSignHeaderLen + serializedPkTotal + serializedSigTotal // 3306
)

// unwrapFramedKey strips the `[len:u64][kind:u32]` framing from a key buffer
// if present, detected by checking whether the declared length equals the
// buffer length (spec.md §4.6 step 2).
func unwrapFramedKey(buf []byte) []byte {
	if len(buf) < 12 {
		return buf
	}
	declared := binary.LittleEndian.Uint64(buf[0:8])
	if declared == uint64(len(buf)) {
		return buf[12:]
	}
	return buf
}

// SignTransaction signs signingData with the Dilithium MODE-1 keypair and
// builds the dap_sign_t bytes to be wrapped by a SIG item (spec.md §4.6).
func SignTransaction(signingData []byte, skSerialized []byte, pkSerialized []byte) ([]byte, error) {
	hash := pq.SHA3_256(signingData)

	skRaw := unwrapFramedKey(skSerialized)
	pkRaw := unwrapFramedKey(pkSerialized)

	sigDetached, err := pq.DilithiumSignDetached(skRaw, hash[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKeyError, err)
	}

	sigAttached := make([]byte, serializedSigAttached)
	copy(sigAttached, sigDetached)
	// A detached 2044-byte signature is padded with 32 zero bytes to reach
	// the 2076-byte attached form (spec.md §4.6 step 3).

	serializedSig := make([]byte, 0, serializedSigTotal)
	serializedSig = appendU64LE(serializedSig, serializedSigTotal)
	serializedSig = appendU32LE(serializedSig, serializedSigKind)
	serializedSig = appendU64LE(serializedSig, serializedSigAttached)
	serializedSig = append(serializedSig, sigAttached...)

	serializedPk := make([]byte, 0, serializedPkTotal)
	serializedPk = appendU64LE(serializedPk, serializedPkTotal)
	serializedPk = appendU32LE(serializedPk, serializedPkKind)
	serializedPk = append(serializedPk, pkRaw...)

	header := make([]byte, 0, dapSignHeaderLen)
	header = appendU32LE(header, dapSignType)
	header = append(header, dapSignHashType)
	header = append(header, 0) // pad
	header = appendU32LE(header, serializedSigTotal)
	header = appendU32LE(header, serializedPkTotal)

	out := make([]byte, 0, dapSignTotalLen)
	out = append(out, header...)
	out = append(out, serializedPk...)
	out = append(out, serializedSig...)
	return out, nil
}

func appendU64LE(b []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(b, buf[:]...)
}

func appendU32LE(b []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}
