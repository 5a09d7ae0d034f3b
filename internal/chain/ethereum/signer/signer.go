// Package signer assembles and signs EIP-155 Ethereum transactions (spec.md
// §4.8), the same way the teacher's crypto package builds a signing preimage,
// hashes it, and concatenates r/s/v into a final form — just against RLP
// instead of a Cellframe-shaped byte buffer.
package signer

import (
	"fmt"

	"github.com/nocdem/dna-messenger/walletcore/internal/chain/ethereum/rlp"
	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/pq"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/u256"
)

// Transaction holds the fields of a legacy (EIP-155) Ethereum transaction
// before signing.
type Transaction struct {
	Nonce    uint64
	GasPrice u256.U256
	GasLimit uint64
	To       [20]byte
	Value    u256.U256
	Data     []byte
	ChainID  uint64
}

// SigningPreimage builds RLP([nonce, gas_price, gas_limit, to, value, data,
// chain_id, 0, 0]) (spec.md §4.8 "Signing preimage").
func (tx Transaction) SigningPreimage() []byte {
	var zero [32]byte
	return tx.encode(tx.ChainID, zero, zero)
}

// FinalForm builds RLP([nonce, gas_price, gas_limit, to, value, data, v, r,
// s]) (spec.md §4.8 "Final form").
func (tx Transaction) FinalForm(v uint64, r, s [32]byte) []byte {
	return tx.encode(v, r, s)
}

func (tx Transaction) encode(vLike uint64, r, s [32]byte) []byte {
	gasPrice := tx.GasPrice.BigEndianBytes()
	value := tx.Value.BigEndianBytes()
	items := []rlp.Item{
		rlp.EncodeUint64(tx.Nonce),
		rlp.EncodeBigEndian(gasPrice[:]),
		rlp.EncodeUint64(tx.GasLimit),
		rlp.EncodeBytes(tx.To[:]),
		rlp.EncodeBigEndian(value[:]),
		rlp.EncodeBytes(tx.Data),
		rlp.EncodeUint64(vLike),
		rlp.EncodeBigEndian(r[:]),
		rlp.EncodeBigEndian(s[:]),
	}
	return rlp.EncodeList(items...)
}

// SignedTransaction is a Transaction plus its EIP-155 signature.
type SignedTransaction struct {
	Transaction
	V uint64
	R [32]byte
	S [32]byte
}

// Sign hashes tx's signing preimage with Keccak-256, signs it recoverably
// with sk, and computes v = recovery_id + chain_id*2 + 35 (spec.md §4.8).
func Sign(tx Transaction, sk [32]byte) (SignedTransaction, error) {
	hash := pq.Keccak256(tx.SigningPreimage())
	sig, err := pq.Secp256k1SignRecoverable(sk, hash)
	if err != nil {
		return SignedTransaction{}, fmt.Errorf("%w: %v", domain.ErrKeyError, err)
	}
	v := uint64(sig.RecoveryID) + tx.ChainID*2 + 35
	return SignedTransaction{Transaction: tx, V: v, R: sig.R, S: sig.S}, nil
}

// Encode produces the final RLP-encoded, signed transaction bytes.
func (stx SignedTransaction) Encode() []byte {
	return stx.FinalForm(stx.V, stx.R, stx.S)
}

// Hash is the Keccak-256 hash of the final encoded transaction (spec.md
// §4.8 "Transaction hash").
func (stx SignedTransaction) Hash() [32]byte {
	return pq.Keccak256(stx.Encode())
}
