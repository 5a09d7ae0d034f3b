// Package container reads and writes wallet containers: the Cellframe
// `.dwallet` binary file (spec.md §3/§4.4) and the Ethereum unencrypted JSON
// keystore. Byte layout is grounded on spec.md directly; derivation is
// grounded on the teacher pack's OKaluzny-wallet-demo/internal/wallet/eth.go,
// which walks the same BIP-32 m/44'/60'/0'/0/0 path with tyler-smith/go-bip32.
package container

import (
	"encoding/binary"
	"fmt"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/addresscodec"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/pq"
)

const (
	dwalletMagic       = "DWALLET\x00"
	dwalletHeaderLen   = 23
	dwalletCertHeader  = 8
	dwalletPaddingLen  = 89
	dwalletVersionV1   = 1
	dwalletVersionV2   = 2
	serializedKeyKind  = 1
	serializedKeyFrame = 12 // u64 total_length + u32 kind
)

var dwalletCertHeaderBytes = [dwalletCertHeader]byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}

// Wallet is the in-memory representation of a loaded or derived Cellframe
// wallet (spec.md §4.4).
type Wallet struct {
	Name       string
	Protected  bool
	Address    string
	PublicKey  []byte // raw Dilithium public key (1184 bytes), empty if Protected
	PrivateKey []byte // raw Dilithium private key (2800 bytes), empty if Protected
}

// serializeKey wraps a raw key with the `[len:u64][kind:u32][raw]` framing
// (spec.md §3 "Serialized PQ key"). total_length counts the 12-byte frame
// plus the raw key.
func serializeKey(raw []byte) []byte {
	out := make([]byte, 0, serializedKeyFrame+len(raw))
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(raw)+serializedKeyFrame))
	out = append(out, lenBuf[:]...)
	var kindBuf [4]byte
	binary.LittleEndian.PutUint32(kindBuf[:], serializedKeyKind)
	out = append(out, kindBuf[:]...)
	out = append(out, raw...)
	return out
}

// deserializeKey reads a `[len:u64][kind:u32][raw]`-framed key starting at
// offset, returning the raw key bytes and the offset just past it.
func deserializeKey(buf []byte, offset int) (raw []byte, next int, err error) {
	if offset+8 > len(buf) {
		return nil, 0, fmt.Errorf("%w: truncated key frame at offset %d", domain.ErrIoError, offset)
	}
	totalLength := binary.LittleEndian.Uint64(buf[offset : offset+8])
	if totalLength < serializedKeyFrame || int(totalLength) > len(buf)-offset {
		return nil, 0, fmt.Errorf("%w: key frame total_length %d out of bounds", domain.ErrIoError, totalLength)
	}
	rawLen := int(totalLength) - serializedKeyFrame
	rawStart := offset + serializedKeyFrame
	raw = buf[rawStart : rawStart+rawLen]
	return raw, offset + int(totalLength), nil
}

// EncodeV1 serializes an unprotected wallet into the `.dwallet` v1 byte
// layout (spec.md §3/§4.4): 23-byte header, name, cert header, zero
// padding, serialized public key, serialized private key.
func EncodeV1(w Wallet) []byte {
	nameBytes := []byte(w.Name)

	header := make([]byte, dwalletHeaderLen)
	copy(header[0:8], dwalletMagic)
	binary.LittleEndian.PutUint32(header[8:12], dwalletVersionV1)
	header[12] = 0 // type
	// bytes 13..20 are the 8 zero bytes
	binary.LittleEndian.PutUint16(header[21:23], uint16(len(nameBytes)))

	out := make([]byte, 0, dwalletHeaderLen+len(nameBytes)+dwalletCertHeader+dwalletPaddingLen+len(w.PublicKey)+len(w.PrivateKey)+2*serializedKeyFrame)
	out = append(out, header...)
	out = append(out, nameBytes...)
	out = append(out, dwalletCertHeaderBytes[:]...)
	out = append(out, make([]byte, dwalletPaddingLen)...)
	out = append(out, serializeKey(w.PublicKey)...)
	out = append(out, serializeKey(w.PrivateKey)...)
	return out
}

// DecodeWallet parses a `.dwallet` file's raw bytes (spec.md §4.4 "Load v1"
// / "Detect v2"). A v2 (protected) file is recognized and returned with
// Protected=true; its keys are never decoded. The file itself carries no
// net id, so the caller must supply the active net's netID; the address is
// composed against it, matching whatever net DeriveFromSeed originally used
// (spec.md §8 round-trip property: identical public key, private key, and
// address).
func DecodeWallet(buf []byte, netID uint64) (Wallet, error) {
	if len(buf) < dwalletHeaderLen {
		return Wallet{}, fmt.Errorf("%w: file too short for dwallet header", domain.ErrIoError)
	}
	if string(buf[0:8]) != dwalletMagic {
		return Wallet{}, fmt.Errorf("%w: bad dwallet magic", domain.ErrInvalidInput)
	}
	version := binary.LittleEndian.Uint32(buf[8:12])
	nameLength := int(binary.LittleEndian.Uint16(buf[21:23]))

	if dwalletHeaderLen+nameLength > len(buf) {
		return Wallet{}, fmt.Errorf("%w: name_length overruns file", domain.ErrIoError)
	}
	name := string(buf[dwalletHeaderLen : dwalletHeaderLen+nameLength])

	if version == dwalletVersionV2 {
		return Wallet{Name: name, Protected: true}, nil
	}
	if version != dwalletVersionV1 {
		return Wallet{}, fmt.Errorf("%w: unknown dwallet version %d", domain.ErrInvalidInput, version)
	}

	pubKeyOffset := dwalletHeaderLen + nameLength + dwalletCertHeader + dwalletPaddingLen
	if pubKeyOffset > len(buf) {
		return Wallet{}, fmt.Errorf("%w: computed public key offset overruns file", domain.ErrIoError)
	}

	pubKey, privKeyOffset, err := deserializeKey(buf, pubKeyOffset)
	if err != nil {
		return Wallet{}, err
	}
	privKey, _, err := deserializeKey(buf, privKeyOffset)
	if err != nil {
		return Wallet{}, err
	}

	w := Wallet{
		Name:       name,
		Protected:  false,
		PublicKey:  append([]byte(nil), pubKey...),
		PrivateKey: append([]byte(nil), privKey...),
	}
	w.Address = addresscodec.ComposeCellframeAddress(serializeKey(w.PublicKey), netID)
	return w, nil
}

// DeriveFromMnemonic derives a Cellframe wallet deterministically from a
// mnemonic string (spec.md §4.4 "Derive from mnemonic"): this is explicitly
// not BIP-39 — the seed is SHA3-256 of the mnemonic's literal string form,
// matching Cellframe's own wallet tooling.
func DeriveFromMnemonic(name, mnemonic string, netID uint64) (Wallet, error) {
	seed := pq.SHA3_256([]byte(mnemonic))
	return DeriveFromSeed(name, seed[:], netID)
}

// DeriveFromSeed derives a Cellframe wallet deterministically from a 32-byte
// seed (spec.md §4.4): dilithium_keypair_from_seed(seed), frame both keys,
// derive the address from the serialized public key.
func DeriveFromSeed(name string, seed []byte, netID uint64) (Wallet, error) {
	kp, err := pq.DilithiumKeypairFromSeed(seed)
	if err != nil {
		return Wallet{}, err
	}
	w := Wallet{
		Name:       name,
		PublicKey:  append([]byte(nil), kp.Public[:]...),
		PrivateKey: append([]byte(nil), kp.Private[:]...),
	}
	w.Address = addresscodec.ComposeCellframeAddress(serializeKey(w.PublicKey), netID)
	return w, nil
}
