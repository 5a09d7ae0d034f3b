package cellframe

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/pq"
)

// nowUnix is the Cellframe transaction header's ts_created value. Wrapped
// so the adapter's send path has a single seam.
func nowUnix() int64 {
	return time.Now().Unix()
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIoError, err)
	}
	return data, nil
}

// unwrapIfFramed strips a `[len:u64][kind:u32]` frame from buf if the
// declared total_length equals len(buf) (spec.md §4.6 step 2 — the same
// detection rule the signer package uses).
func unwrapIfFramed(buf []byte) []byte {
	if len(buf) < 12 {
		return buf
	}
	declared := binary.LittleEndian.Uint64(buf[0:8])
	if declared == uint64(len(buf)) {
		return buf[12:]
	}
	return buf
}

// derivePublicFromPrivate recovers the raw Dilithium public key embedded in
// this façade's private key layout (seed || public || padding, see
// wallet/pq.DilithiumKeypairFromSeed).
func derivePublicFromPrivate(sk []byte) ([]byte, error) {
	raw := unwrapIfFramed(sk)
	if len(raw) != pq.DilithiumPrivateKeySize {
		return nil, fmt.Errorf("%w: private key is %d bytes, want %d", domain.ErrKeyError, len(raw), pq.DilithiumPrivateKeySize)
	}
	pub := raw[pq.DilithiumSeedSize : pq.DilithiumSeedSize+pq.DilithiumPublicKeySize]
	return append([]byte(nil), pub...), nil
}

// serializeKeyFraming wraps raw with the `[len:u64][kind:u32=1][raw]` frame
// (spec.md §3 "Serialized PQ key").
func serializeKeyFraming(raw []byte, totalLen int) []byte {
	out := make([]byte, 0, totalLen)
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(totalLen))
	out = append(out, lenBuf[:]...)
	var kindBuf [4]byte
	binary.LittleEndian.PutUint32(kindBuf[:], 1)
	out = append(out, kindBuf[:]...)
	out = append(out, raw...)
	return out
}

func serializePubkeyFraming(raw []byte) []byte {
	return serializeKeyFraming(raw, publicKeyTotalLen)
}
