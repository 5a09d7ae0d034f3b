package ethereum

import (
	"bytes"
	"testing"

	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/u256"
)

func TestERC20BalanceOfCallData(t *testing.T) {
	var addr [20]byte
	for i := range addr {
		addr[i] = byte(i + 1)
	}
	data := ERC20BalanceOfCallData(addr)
	if len(data) != 4+32 {
		t.Fatalf("call data length = %d, want 36", len(data))
	}
	if !bytes.Equal(data[0:4], []byte{0x70, 0xa0, 0x82, 0x31}) {
		t.Fatalf("selector = % x, want 70a08231", data[0:4])
	}
	if !bytes.Equal(data[4:24], make([]byte, 20)) {
		t.Fatalf("left-pad region must be zero")
	}
	if !bytes.Equal(data[24:44], addr[:]) {
		t.Fatalf("address suffix mismatch")
	}
}

func TestERC20TransferCallData(t *testing.T) {
	var to [20]byte
	to[19] = 0xff
	amount := u256.FromU64(1_000_000)

	data := ERC20TransferCallData(to, amount)
	if len(data) != 4+32+32 {
		t.Fatalf("call data length = %d, want 68", len(data))
	}
	if !bytes.Equal(data[0:4], []byte{0xa9, 0x05, 0x9c, 0xbb}) {
		t.Fatalf("selector = % x, want a9059cbb", data[0:4])
	}
	if !bytes.Equal(data[4:36], leftPad32(to[:])[:]) {
		t.Fatalf("to word mismatch")
	}
	amountWord := data[36:68]
	if amountWord[29] != 0x0f || amountWord[30] != 0x42 || amountWord[31] != 0x40 {
		t.Fatalf("amount word tail = % x, want the big-endian encoding of 1000000 (0x0f4240)", amountWord[29:])
	}
}

func TestDecodeERC20BalanceOfResultRoundTrip(t *testing.T) {
	v, err := u256.ScanUninteger("123456789012345678")
	if err != nil {
		t.Fatal(err)
	}
	b := v.BigEndianBytes()
	got := DecodeERC20BalanceOfResult(b[:])
	if !got.Equals(v) {
		t.Fatalf("DecodeERC20BalanceOfResult round trip failed: got %s, want %s", got.String(), v.String())
	}
}
