// Package addresscodec composes, decomposes, and validates chain addresses:
// the 77-byte packed Cellframe address (base58) and the Ethereum 20-byte hex
// address with its EIP-55 checksum. Grounded on the teacher pack's BTC
// address codec (OKaluzny-wallet-demo/internal/wallet/btc.go), which
// version-prefixes a payload, checksums it, and base58-encodes the result —
// the same shape the Cellframe address uses, with SHA3-256 in place of
// double-SHA256+Hash160.
package addresscodec

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/pq"
)

const (
	cellframeAddressLen  = 77
	cellframePrefixLen   = 45
	cellframeVersionByte = 0
	cellframeTypeMarker  = 0x00000102

	cellframeAddressMinLen = 100
	cellframeAddressMaxLen = 110
)

// ComposeCellframeAddress derives a Cellframe address from a serialized
// public key and a network id (spec.md §4.3). Steps: hash the serialized
// key, build the 45-byte prefix {version, net_id, type marker, key hash},
// hash the prefix for the checksum, concatenate, base58-encode.
func ComposeCellframeAddress(serializedPubKey []byte, netID uint64) string {
	return base58.Encode(ComposeCellframeAddressRaw(serializedPubKey, netID))
}

// ComposeCellframeAddressRaw builds the packed 77-byte structure without
// base58-encoding it — used by the transaction builder, which embeds raw
// address bytes directly in OUT/OUT_EXT items (spec.md §3 item table).
func ComposeCellframeAddressRaw(serializedPubKey []byte, netID uint64) [cellframeAddressLen]byte {
	keyHash := pq.SHA3_256(serializedPubKey)

	prefix := make([]byte, 0, cellframePrefixLen)
	prefix = append(prefix, cellframeVersionByte)
	prefix = appendU64LE(prefix, netID)
	prefix = appendU32LE(prefix, cellframeTypeMarker)
	prefix = append(prefix, keyHash[:]...)

	checksum := pq.SHA3_256(prefix)

	var raw [cellframeAddressLen]byte
	copy(raw[:cellframePrefixLen], prefix)
	copy(raw[cellframePrefixLen:], checksum[:])
	return raw
}

// CellframeAddressFields holds the fields DecodeCellframeAddress splits out
// of a packed address, reversing ComposeCellframeAddress's packing.
type CellframeAddressFields struct {
	VersionByte byte
	NetID       uint64
	TypeMarker  uint32
	KeyHash     [32]byte
	Checksum    [32]byte
}

// DecodeCellframeAddress base58-decodes addr and splits it into its fields,
// verifying length and checksum (spec.md §4.3 "Validate").
func DecodeCellframeAddress(addr string) (CellframeAddressFields, error) {
	if len(addr) < cellframeAddressMinLen || len(addr) > cellframeAddressMaxLen {
		return CellframeAddressFields{}, fmt.Errorf("%w: address length %d outside [%d,%d]", domain.ErrInvalidInput, len(addr), cellframeAddressMinLen, cellframeAddressMaxLen)
	}

	raw := base58.Decode(addr)
	if len(raw) != cellframeAddressLen {
		return CellframeAddressFields{}, fmt.Errorf("%w: decoded address is %d bytes, want %d", domain.ErrInvalidInput, len(raw), cellframeAddressLen)
	}

	prefix := raw[:cellframePrefixLen]
	wantChecksum := pq.SHA3_256(prefix)
	var gotChecksum [32]byte
	copy(gotChecksum[:], raw[cellframePrefixLen:])
	if gotChecksum != wantChecksum {
		return CellframeAddressFields{}, fmt.Errorf("%w: checksum mismatch", domain.ErrInvalidInput)
	}

	var fields CellframeAddressFields
	fields.VersionByte = prefix[0]
	if fields.VersionByte != cellframeVersionByte {
		return CellframeAddressFields{}, fmt.Errorf("%w: version byte %d, want %d", domain.ErrInvalidInput, fields.VersionByte, cellframeVersionByte)
	}
	fields.NetID = readU64LE(prefix[1:9])
	fields.TypeMarker = readU32LE(prefix[9:13])
	copy(fields.KeyHash[:], prefix[13:45])
	fields.Checksum = gotChecksum

	return fields, nil
}

// ValidateCellframeAddress reports whether addr is a well-formed, correctly
// checksummed Cellframe address.
func ValidateCellframeAddress(addr string) bool {
	_, err := DecodeCellframeAddress(addr)
	return err == nil
}

// DecodeCellframeAddressRaw base58-decodes and validates addr, returning its
// raw 77-byte packed form for embedding directly into a transaction item.
func DecodeCellframeAddressRaw(addr string) ([cellframeAddressLen]byte, error) {
	var raw [cellframeAddressLen]byte
	if _, err := DecodeCellframeAddress(addr); err != nil {
		return raw, err
	}
	copy(raw[:], base58.Decode(addr))
	return raw, nil
}

func appendU64LE(b []byte, v uint64) []byte {
	for i := 0; i < 8; i++ {
		b = append(b, byte(v))
		v >>= 8
	}
	return b
}

func appendU32LE(b []byte, v uint32) []byte {
	for i := 0; i < 4; i++ {
		b = append(b, byte(v))
		v >>= 8
	}
	return b
}

func readU64LE(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func readU32LE(b []byte) uint32 {
	var v uint32
	for i := 3; i >= 0; i-- {
		v = v<<8 | uint32(b[i])
	}
	return v
}
