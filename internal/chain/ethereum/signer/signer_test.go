package signer

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/nocdem/dna-messenger/walletcore/internal/chain/ethereum/rlp"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/u256"
)

func scenarioTx(t *testing.T) Transaction {
	t.Helper()
	gasPrice := u256.FromU64(30_000_000_000) // 30 gwei
	value, err := u256.ScanUninteger("100000000000000000") // 0.1 ETH
	if err != nil {
		t.Fatal(err)
	}
	var to [20]byte
	for i := range to {
		to[i] = byte(0x10 + i)
	}
	return Transaction{
		Nonce:    5,
		GasPrice: gasPrice,
		GasLimit: 21000,
		To:       to,
		Value:    value,
		Data:     nil,
		ChainID:  1,
	}
}

func TestSigningPreimageDecodesToNineFieldsWithZeroRS(t *testing.T) {
	tx := scenarioTx(t)
	preimage := tx.SigningPreimage()

	items, err := decodeListItems(preimage, 9)
	if err != nil {
		t.Fatal(err)
	}
	assertUint(t, items[0], tx.Nonce, "nonce")
	assertUint(t, items[6], tx.ChainID, "chain_id placeholder")
	if len(items[7]) != 0 {
		t.Fatalf("signing preimage's r placeholder must be empty, got % x", items[7])
	}
	if len(items[8]) != 0 {
		t.Fatalf("signing preimage's s placeholder must be empty, got % x", items[8])
	}
	if !bytes.Equal(items[3], tx.To[:]) {
		t.Fatalf("to field = % x, want % x", items[3], tx.To[:])
	}
}

func TestSignProducesValidRecoverableSignature(t *testing.T) {
	tx := scenarioTx(t)
	var sk [32]byte
	for i := range sk {
		sk[i] = byte(i + 1)
	}

	signed, err := Sign(tx, sk)
	if err != nil {
		t.Fatal(err)
	}

	// v = recovery_id + chain_id*2 + 35; chain_id=1 so v in {37,38}.
	if signed.V != 37 && signed.V != 38 {
		t.Fatalf("v = %d, want 37 or 38 for chain_id=1", signed.V)
	}

	final := signed.Encode()
	items, err := decodeListItems(final, 9)
	if err != nil {
		t.Fatal(err)
	}
	assertUint(t, items[6], signed.V, "v")
	if !bytes.Equal(trimLeadingZeros(items[7]), trimLeadingZeros(signed.R[:])) {
		t.Fatalf("encoded r does not match signed.R")
	}
	if !bytes.Equal(trimLeadingZeros(items[8]), trimLeadingZeros(signed.S[:])) {
		t.Fatalf("encoded s does not match signed.S")
	}
}

func TestSignIsDeterministicForFixedKeyAndTx(t *testing.T) {
	tx := scenarioTx(t)
	var sk [32]byte
	sk[31] = 7

	a, err := Sign(tx, sk)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Sign(tx, sk)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Encode(), b.Encode()) {
		t.Fatalf("signing the same transaction twice with the same key produced different bytes")
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("transaction hash is not deterministic")
	}
}

func TestHashChangesWithDifferentNonce(t *testing.T) {
	tx := scenarioTx(t)
	var sk [32]byte
	sk[0] = 42

	signedA, err := Sign(tx, sk)
	if err != nil {
		t.Fatal(err)
	}

	tx.Nonce = 6
	signedB, err := Sign(tx, sk)
	if err != nil {
		t.Fatal(err)
	}

	if signedA.Hash() == signedB.Hash() {
		t.Fatalf("changing the nonce must change the transaction hash")
	}
}

func assertUint(t *testing.T, encoded []byte, want uint64, label string) {
	t.Helper()
	got := uint64(0)
	for _, b := range trimLeadingZeros(encoded) {
		got = got<<8 | uint64(b)
	}
	if got != want {
		t.Fatalf("%s = %d, want %d", label, got, want)
	}
}

func trimLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return b[i:]
}

// decodeListItems decodes an RLP list header and then wantCount byte-string
// items from its payload, using rlp.DecodeBytes item-by-item (this module's
// decoder is byte-string-only; it is enough to verify encode's shape).
func decodeListItems(buf []byte, wantCount int) ([][]byte, error) {
	payload, err := stripListHeader(buf)
	if err != nil {
		return nil, err
	}
	items := make([][]byte, 0, wantCount)
	rest := payload
	for len(rest) > 0 {
		var item []byte
		item, rest, err = rlp.DecodeBytes(rest)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) != wantCount {
		return nil, fmt.Errorf("decoded %d items, want %d", len(items), wantCount)
	}
	return items, nil
}

func stripListHeader(buf []byte) ([]byte, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("empty buffer")
	}
	prefix := buf[0]
	switch {
	case prefix >= 0xc0 && prefix <= 0xf7:
		n := int(prefix - 0xc0)
		return buf[1 : 1+n], nil
	case prefix > 0xf7:
		lenOfLen := int(prefix - 0xf7)
		n := 0
		for _, b := range buf[1 : 1+lenOfLen] {
			n = n<<8 | int(b)
		}
		start := 1 + lenOfLen
		return buf[start : start+n], nil
	default:
		return nil, fmt.Errorf("buffer is not an RLP list, prefix %#x", prefix)
	}
}
