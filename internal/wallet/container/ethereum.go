package container

import (
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/addresscodec"
)

// ethCoinType is the BIP-44 coin type in the derivation path m/44'/60'/0'/0/0
// (spec.md §4.4 "Ethereum wallet").
const ethCoinType = 60

// EthereumWallet is the in-memory Ethereum counterpart to Wallet.
type EthereumWallet struct {
	Address    [20]byte
	PrivateKey []byte // 32-byte secp256k1 scalar
}

// EthereumKeystore is the unencrypted JSON keystore record written to disk
// (spec.md §4.4 "Ethereum wallet").
type EthereumKeystore struct {
	Version     int    `json:"version"`
	Address     string `json:"address"`
	PrivateKey  string `json:"private_key"`
	CreatedAt   string `json:"created_at"`
	Blockchain  string `json:"blockchain"`
	Network     string `json:"network"`
}

// DeriveEthereumFromMnemonic derives an Ethereum wallet deterministically
// from a BIP-39 mnemonic, following m/44'/60'/0'/0/0 (spec.md §4.4), the
// same path walked by the teacher pack's BIP-32/BIP-44 derivation helper.
func DeriveEthereumFromMnemonic(mnemonic, passphrase string) (EthereumWallet, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return EthereumWallet{}, fmt.Errorf("%w: invalid BIP-39 mnemonic", domain.ErrInvalidInput)
	}
	seed := bip39.NewSeed(mnemonic, passphrase)
	return DeriveEthereumFromSeed(seed)
}

// DeriveEthereumFromSeed derives an Ethereum wallet from a 64-byte BIP-32
// master seed along m/44'/60'/0'/0/0.
func DeriveEthereumFromSeed(seed []byte) (EthereumWallet, error) {
	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return EthereumWallet{}, fmt.Errorf("%w: %v", domain.ErrKeyError, err)
	}

	purpose, err := masterKey.NewChildKey(bip32.FirstHardenedChild + 44)
	if err != nil {
		return EthereumWallet{}, fmt.Errorf("%w: derive purpose: %v", domain.ErrKeyError, err)
	}
	coin, err := purpose.NewChildKey(bip32.FirstHardenedChild + ethCoinType)
	if err != nil {
		return EthereumWallet{}, fmt.Errorf("%w: derive coin: %v", domain.ErrKeyError, err)
	}
	account, err := coin.NewChildKey(bip32.FirstHardenedChild + 0)
	if err != nil {
		return EthereumWallet{}, fmt.Errorf("%w: derive account: %v", domain.ErrKeyError, err)
	}
	change, err := account.NewChildKey(0)
	if err != nil {
		return EthereumWallet{}, fmt.Errorf("%w: derive change: %v", domain.ErrKeyError, err)
	}
	child, err := change.NewChildKey(0)
	if err != nil {
		return EthereumWallet{}, fmt.Errorf("%w: derive index: %v", domain.ErrKeyError, err)
	}

	var sk [32]byte
	copy(sk[:], child.Key)

	priv, err := ethcrypto.ToECDSA(sk[:])
	if err != nil {
		return EthereumWallet{}, fmt.Errorf("%w: %v", domain.ErrKeyError, err)
	}

	addr, err := ethereumAddressFromPub(&priv.PublicKey)
	if err != nil {
		return EthereumWallet{}, err
	}

	return EthereumWallet{Address: addr, PrivateKey: append([]byte(nil), sk[:]...)}, nil
}

func ethereumAddressFromPub(pub *ecdsa.PublicKey) ([20]byte, error) {
	full := ethcrypto.FromECDSAPub(pub)
	hash := ethcrypto.Keccak256(full[1:])
	var addr [20]byte
	copy(addr[:], hash[12:])
	return addr, nil
}

// WriteKeystore writes an unencrypted JSON keystore record to path with mode
// 0600 (spec.md §4.4).
func WriteKeystore(path string, w EthereumWallet, createdAt string) error {
	ks := EthereumKeystore{
		Version:    1,
		Address:    addresscodec.ChecksumEthereumAddress(w.Address),
		PrivateKey: hex.EncodeToString(w.PrivateKey),
		CreatedAt:  createdAt,
		Blockchain: "ethereum",
		Network:    "mainnet",
	}
	data, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIoError, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIoError, err)
	}
	return nil
}

// ReadKeystore reads and parses an unencrypted JSON keystore record.
func ReadKeystore(path string) (EthereumKeystore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EthereumKeystore{}, fmt.Errorf("%w: %v", domain.ErrIoError, err)
	}
	var ks EthereumKeystore
	if err := json.Unmarshal(data, &ks); err != nil {
		return EthereumKeystore{}, fmt.Errorf("%w: %v", domain.ErrIoError, err)
	}
	return ks, nil
}
