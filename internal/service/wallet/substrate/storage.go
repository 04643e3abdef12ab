package substrate

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

// ErrShortAccountInfo is returned when a System.Account value is too small to hold balances.
var ErrShortAccountInfo = errors.New("account info too short")

// Twox128 is the 128-bit xxhash used to prefix pallet and storage item names.
func Twox128(data []byte) []byte {
	out := make([]byte, 16)
	for i := 0; i < 2; i++ {
		h := xxhash.NewWithSeed(uint64(i))
		_, _ = h.Write(data)
		binary.LittleEndian.PutUint64(out[i*8:], h.Sum64())
	}
	return out
}

// Blake2_128Concat hashes data with a 16-byte blake2b digest and appends data itself.
func Blake2_128Concat(data []byte) []byte {
	h, _ := blake2b.New(16, nil)
	h.Write(data)
	return append(h.Sum(nil), data...)
}

// SystemAccountKey builds the storage key of System.Account for an account id.
func SystemAccountKey(accountID []byte) []byte {
	key := make([]byte, 0, 32+16+len(accountID))
	key = append(key, Twox128([]byte("System"))...)
	key = append(key, Twox128([]byte("Account"))...)
	return append(key, Blake2_128Concat(accountID)...)
}

// AccountInfo is the decoded prefix of frame_system::AccountInfo.
type AccountInfo struct {
	Nonce       uint32
	Consumers   uint32
	Providers   uint32
	Sufficients uint32
	Free        *big.Int
	Reserved    *big.Int
}

// DecodeAccountInfo reads nonce, ref counts and the free and reserved balances from a SCALE value.
func DecodeAccountInfo(raw []byte) (AccountInfo, error) {
	if len(raw) < 48 {
		return AccountInfo{}, fmt.Errorf("%w: %d bytes", ErrShortAccountInfo, len(raw))
	}
	return AccountInfo{
		Nonce:       binary.LittleEndian.Uint32(raw[0:4]),
		Consumers:   binary.LittleEndian.Uint32(raw[4:8]),
		Providers:   binary.LittleEndian.Uint32(raw[8:12]),
		Sufficients: binary.LittleEndian.Uint32(raw[12:16]),
		Free:        decodeU128(raw[16:32]),
		Reserved:    decodeU128(raw[32:48]),
	}, nil
}

func decodeU128(le []byte) *big.Int {
	be := make([]byte, len(le))
	for i := range le {
		be[len(le)-1-i] = le[i]
	}
	return new(big.Int).SetBytes(be)
}

// FormatUnits renders planck as a decimal token amount with the given precision, rounding half away from zero.
func FormatUnits(planck *big.Int, decimals, places int) string {
	if planck == nil {
		planck = new(big.Int)
	}
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Rat).SetFrac(planck, denom).FloatString(places)
}
