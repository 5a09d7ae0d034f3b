// Package txbuilder assembles the Cellframe wire transaction byte-for-byte
// (spec.md §3 "Cellframe transaction item types", §4.5). Structurally
// grounded on the teacher pack's wire transaction serializer
// (other_examples/22f400c6_UCIS-pktd__wire-msgtx.go.go): an append-only
// buffer built item by item with binary.LittleEndian field writes, rather
// than a single packed-struct cast — the same approach spec.md's design
// notes require here because the IN item's padding depends on the buffer's
// current length, not a fixed offset.
package txbuilder

import (
	"encoding/binary"
	"fmt"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/u256"
)

const (
	itemTypeIn      = 0x00
	itemTypeOutExt  = 0x11
	itemTypeOut     = 0x12
	itemTypeOutCond = 0x61
	itemTypeTSD     = 0x80
	itemTypeSig     = 0x30

	outCondSubtypeFee = 0x04

	headerLen = 12 // ts_created:u64 + tx_items_size:u32
)

// Builder assembles a Cellframe transaction's item buffer in the exact
// order items are appended — item ordering is consensus-observable
// (spec.md §4.7 "Output ordering").
type Builder struct {
	buf       []byte
	timestamp uint64
}

// NewBuilder starts a new transaction with the 12-byte header written with
// tx_items_size = 0 (spec.md §4.5 "At construction").
func NewBuilder(timestamp uint64) *Builder {
	b := &Builder{timestamp: timestamp}
	b.buf = make([]byte, 0, 512)
	var hdr [headerLen]byte
	binary.LittleEndian.PutUint64(hdr[0:8], timestamp)
	binary.LittleEndian.PutUint32(hdr[8:12], 0)
	b.buf = append(b.buf, hdr[:]...)
	return b
}

// AddIn appends an IN item: 1-byte type, 32-byte previous tx hash, dynamic
// padding to the next 4-byte buffer boundary, then the 4-byte prev index
// (spec.md §4.5 "add_in"). The padding amount depends on the buffer's
// current length at the time of the call, not a fixed layout.
func (b *Builder) AddIn(prevHash [32]byte, prevIdx uint32) {
	b.buf = append(b.buf, itemTypeIn)
	b.buf = append(b.buf, prevHash[:]...)
	for len(b.buf)%4 != 0 {
		b.buf = append(b.buf, 0)
	}
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], prevIdx)
	b.buf = append(b.buf, idx[:]...)
}

// AddOut appends an OUT item: type, 32-byte U256 value, 77-byte address
// (spec.md §3 item table: 110 bytes total). Self-aligned, no padding.
func (b *Builder) AddOut(value u256.U256, addr [77]byte) {
	b.buf = append(b.buf, itemTypeOut)
	valBytes := value.Bytes()
	b.buf = append(b.buf, valBytes[:]...)
	b.buf = append(b.buf, addr[:]...)
}

// AddOutExt appends an OUT_EXT item: type, value, address, 10-byte ticker
// (spec.md §3 item table: 120 bytes total).
func (b *Builder) AddOutExt(value u256.U256, addr [77]byte, ticker string) error {
	if len(ticker) > 10 {
		return fmt.Errorf("%w: ticker %q longer than 10 bytes", domain.ErrInvalidInput, ticker)
	}
	b.buf = append(b.buf, itemTypeOutExt)
	valBytes := value.Bytes()
	b.buf = append(b.buf, valBytes[:]...)
	b.buf = append(b.buf, addr[:]...)
	var tickerBuf [10]byte
	copy(tickerBuf[:], ticker)
	b.buf = append(b.buf, tickerBuf[:]...)
	return nil
}

// AddFee appends the 340-byte OUT_COND item used for the validator fee
// (spec.md §4.5 "add_fee"): item_type, subtype=0x04, value, 6 pad,
// ts_expires=0, srv_uid=0, 8 pad, 272-byte zero union, tsd_size=0.
func (b *Builder) AddFee(value u256.U256) {
	b.buf = append(b.buf, itemTypeOutCond)
	b.buf = append(b.buf, outCondSubtypeFee)
	valBytes := value.Bytes()
	b.buf = append(b.buf, valBytes[:]...)
	b.buf = append(b.buf, make([]byte, 6)...) // pad
	b.buf = append(b.buf, make([]byte, 8)...) // ts_expires = 0
	b.buf = append(b.buf, make([]byte, 8)...) // srv_uid = 0
	b.buf = append(b.buf, make([]byte, 8)...) // pad
	b.buf = append(b.buf, make([]byte, 272)...)
	b.buf = append(b.buf, make([]byte, 4)...) // tsd_size = 0
}

// AddTSD appends a TSD item: {0x80, 7 pad, size:u64 = 6+data_size}, then
// {inner_type:u16, data_size:u32, data} (spec.md §4.5 "add_tsd").
func (b *Builder) AddTSD(innerType uint16, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: TSD data_size must be non-zero", domain.ErrInvalidInput)
	}
	b.buf = append(b.buf, itemTypeTSD)
	b.buf = append(b.buf, make([]byte, 7)...)
	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(6+len(data)))
	b.buf = append(b.buf, sizeBuf[:]...)

	var innerTypeBuf [2]byte
	binary.LittleEndian.PutUint16(innerTypeBuf[:], innerType)
	b.buf = append(b.buf, innerTypeBuf[:]...)
	var innerSizeBuf [4]byte
	binary.LittleEndian.PutUint32(innerSizeBuf[:], uint32(len(data)))
	b.buf = append(b.buf, innerSizeBuf[:]...)
	b.buf = append(b.buf, data...)
	return nil
}

// AddSignature appends the SIG item: 6-byte header {0x30, version=1,
// sig_size:u32}, then the dap_sign_t bytes (spec.md §4.5 "add_signature").
func (b *Builder) AddSignature(dapSign []byte) {
	b.buf = append(b.buf, itemTypeSig)
	b.buf = append(b.buf, 1) // version
	var sizeBuf [4]byte
	binary.LittleEndian.PutUint32(sizeBuf[:], uint32(len(dapSign)))
	b.buf = append(b.buf, sizeBuf[:]...)
	b.buf = append(b.buf, dapSign...)
}

// GetSigningData returns a copy of the current buffer with tx_items_size
// forced to zero in the header (spec.md §4.5 "get_signing_data") — the form
// that gets hashed and signed, never the form that is broadcast.
func (b *Builder) GetSigningData() []byte {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	binary.LittleEndian.PutUint32(out[8:12], 0)
	return out
}

// GetFinalData returns the buffer with tx_items_size rewritten to the
// item-bytes length, excluding the 12-byte header (spec.md §4.5
// "get_final_data"). Call only after AddSignature.
func (b *Builder) GetFinalData() []byte {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(out)-headerLen))
	return out
}

// Len reports the current buffer length, including the 12-byte header.
func (b *Builder) Len() int {
	return len(b.buf)
}
