package addresscodec

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/pq"
)

const ethAddressHexLen = 40

// ChecksumEthereumAddress applies EIP-55 mixed-case checksumming to a 20-byte
// address (spec.md §4.3 "Ethereum addresses"): hash the lowercase hex with
// Keccak-256, then uppercase each hex digit whose corresponding hash nibble
// is >= 8.
func ChecksumEthereumAddress(addr [20]byte) string {
	lower := hex.EncodeToString(addr[:])
	hash := pq.Keccak256([]byte(lower))

	out := make([]byte, ethAddressHexLen)
	for i := 0; i < ethAddressHexLen; i++ {
		c := lower[i]
		nibble := hash[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if c >= 'a' && c <= 'f' && nibble >= 8 {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return "0x" + string(out)
}

// ValidateEthereumAddress accepts a 42-character "0x"-prefixed address that
// is either all-lowercase or correctly EIP-55 checksummed; it rejects mixed
// case that fails the checksum (spec.md §4.3).
func ValidateEthereumAddress(addr string) bool {
	_, err := DecodeEthereumAddress(addr)
	return err == nil
}

// DecodeEthereumAddress parses and validates a "0x"+40-hex-char address,
// returning the raw 20 bytes.
func DecodeEthereumAddress(addr string) ([20]byte, error) {
	var out [20]byte
	if len(addr) != 2+ethAddressHexLen || !strings.HasPrefix(addr, "0x") {
		return out, fmt.Errorf("%w: ethereum address must be 42 characters starting with 0x", domain.ErrInvalidInput)
	}
	hexPart := addr[2:]
	raw, err := hex.DecodeString(strings.ToLower(hexPart))
	if err != nil {
		return out, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	copy(out[:], raw)

	if hexPart == strings.ToLower(hexPart) {
		return out, nil
	}

	checksummed := ChecksumEthereumAddress(out)
	if checksummed != addr {
		return out, fmt.Errorf("%w: mixed-case address fails EIP-55 checksum", domain.ErrInvalidInput)
	}
	return out, nil
}
