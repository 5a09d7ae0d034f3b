package ethereum

import (
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/u256"
)

// erc20BalanceOfSelector and erc20TransferSelector are the first four bytes
// of Keccak256("balanceOf(address)") and Keccak256("transfer(address,uint256)")
// respectively (spec.md §4.9 "ERC-20").
var (
	erc20BalanceOfSelector = [4]byte{0x70, 0xa0, 0x82, 0x31}
	erc20TransferSelector  = [4]byte{0xa9, 0x05, 0x9c, 0xbb}
)

// leftPad32 left-pads b with zero bytes to a 32-byte word, the ABI encoding
// used for both addresses and uint256 arguments.
func leftPad32(b []byte) [32]byte {
	var out [32]byte
	copy(out[32-len(b):], b)
	return out
}

// ERC20BalanceOfCallData builds the call data for `balanceOf(addr)`: selector
// ‖ left-pad(addr, 32) (spec.md §4.9).
func ERC20BalanceOfCallData(addr [20]byte) []byte {
	word := leftPad32(addr[:])
	out := make([]byte, 0, 4+32)
	out = append(out, erc20BalanceOfSelector[:]...)
	out = append(out, word[:]...)
	return out
}

// ERC20TransferCallData builds the call data for `transfer(to, amount)`:
// selector ‖ left-pad(to, 32) ‖ big-endian(amount, 32) (spec.md §4.9).
func ERC20TransferCallData(to [20]byte, amount u256.U256) []byte {
	toWord := leftPad32(to[:])
	amountBytes := amount.BigEndianBytes()
	out := make([]byte, 0, 4+32+32)
	out = append(out, erc20TransferSelector[:]...)
	out = append(out, toWord[:]...)
	out = append(out, amountBytes[:]...)
	return out
}

// ERC20TransferGasLimit is the fixed gas limit for an ERC-20 transfer
// (spec.md §4.9).
const ERC20TransferGasLimit = 100_000

// DecodeERC20BalanceOfResult decodes a 32-byte big-endian return value from
// a `balanceOf` call into a U256.
func DecodeERC20BalanceOfResult(ret []byte) u256.U256 {
	var buf [32]byte
	if len(ret) >= 32 {
		copy(buf[:], ret[len(ret)-32:])
	} else {
		copy(buf[32-len(ret):], ret)
	}
	return u256.FromBigEndianBytes(buf)
}
