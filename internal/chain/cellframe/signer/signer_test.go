package signer

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/pq"
)

func TestSignTransactionProducesExactSize(t *testing.T) {
	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	kp, err := pq.DilithiumKeypairFromSeed(seed[:])
	if err != nil {
		t.Fatal(err)
	}

	signingData := []byte("a signing-form transaction buffer")
	out, err := SignTransaction(signingData, kp.Private[:], kp.Public[:])
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != dapSignTotalLen {
		t.Fatalf("dap_sign_t length = %d, want %d", len(out), dapSignTotalLen)
	}
}

func TestSignTransactionHeaderFields(t *testing.T) {
	var seed [32]byte
	seed[0] = 9
	kp, _ := pq.DilithiumKeypairFromSeed(seed[:])

	out, err := SignTransaction([]byte("msg"), kp.Private[:], kp.Public[:])
	if err != nil {
		t.Fatal(err)
	}

	gotType := binary.LittleEndian.Uint32(out[0:4])
	if gotType != dapSignType {
		t.Fatalf("type = %#x, want %#x", gotType, dapSignType)
	}
	if out[4] != dapSignHashType {
		t.Fatalf("hash_type = %#x, want %#x", out[4], dapSignHashType)
	}
	if out[5] != 0 {
		t.Fatalf("pad byte must be zero")
	}
	gotSignSize := binary.LittleEndian.Uint32(out[6:10])
	if gotSignSize != serializedSigTotal {
		t.Fatalf("sign_size = %d, want %d", gotSignSize, serializedSigTotal)
	}
	gotPkeySize := binary.LittleEndian.Uint32(out[10:14])
	if gotPkeySize != serializedPkTotal {
		t.Fatalf("pkey_size = %d, want %d", gotPkeySize, serializedPkTotal)
	}
}

func TestSignTransactionEmbedsSerializedPubkeyThenSignature(t *testing.T) {
	var seed [32]byte
	seed[1] = 77
	kp, _ := pq.DilithiumKeypairFromSeed(seed[:])

	out, err := SignTransaction([]byte("payload"), kp.Private[:], kp.Public[:])
	if err != nil {
		t.Fatal(err)
	}

	pkSection := out[dapSignHeaderLen : dapSignHeaderLen+serializedPkTotal]
	pkTotalLen := binary.LittleEndian.Uint64(pkSection[0:8])
	if pkTotalLen != serializedPkTotal {
		t.Fatalf("embedded pk total_length = %d, want %d", pkTotalLen, serializedPkTotal)
	}
	if !bytes.Equal(pkSection[12:], kp.Public[:]) {
		t.Fatalf("embedded raw public key does not match the keypair's public key")
	}

	sigSection := out[dapSignHeaderLen+serializedPkTotal:]
	sigTotalLen := binary.LittleEndian.Uint64(sigSection[0:8])
	if sigTotalLen != serializedSigTotal {
		t.Fatalf("embedded sig total_length = %d, want %d", sigTotalLen, serializedSigTotal)
	}
	payloadLen := binary.LittleEndian.Uint64(sigSection[12:20])
	if payloadLen != serializedSigAttached {
		t.Fatalf("embedded sig payload_len = %d, want %d", payloadLen, serializedSigAttached)
	}
	// The trailing 32 bytes of the attached-form payload are the detached
	// signature's zero padding (spec.md §4.6 step 3).
	attached := sigSection[20:]
	if len(attached) != serializedSigAttached {
		t.Fatalf("attached signature payload length = %d, want %d", len(attached), serializedSigAttached)
	}
	tail := attached[len(attached)-32:]
	if !bytes.Equal(tail, make([]byte, 32)) {
		t.Fatalf("expected 32 trailing zero padding bytes in the attached signature")
	}
}

func TestSignTransactionUnwrapsFramedKeys(t *testing.T) {
	var seed [32]byte
	seed[2] = 3
	kp, _ := pq.DilithiumKeypairFromSeed(seed[:])

	framedSk := frameKey(kp.Private[:])
	framedPk := frameKey(kp.Public[:])

	outFramed, err := SignTransaction([]byte("x"), framedSk, framedPk)
	if err != nil {
		t.Fatal(err)
	}
	outRaw, err := SignTransaction([]byte("x"), kp.Private[:], kp.Public[:])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(outFramed, outRaw) {
		t.Fatalf("signing with framed keys should produce the same dap_sign_t as raw keys")
	}
}

func frameKey(raw []byte) []byte {
	out := make([]byte, 0, 12+len(raw))
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(raw)+12))
	out = append(out, lenBuf[:]...)
	var kindBuf [4]byte
	binary.LittleEndian.PutUint32(kindBuf[:], 1)
	out = append(out, kindBuf[:]...)
	out = append(out, raw...)
	return out
}
