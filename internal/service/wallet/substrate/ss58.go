// Package substrate holds the small slice of the Substrate wire formats needed to
// read an account balance: SS58 addresses, storage keys and SCALE AccountInfo.
package substrate

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// PolkadotPrefix is the SS58 network prefix of Polkadot relay chain addresses.
const PolkadotPrefix uint16 = 0

var (
	ErrInvalidAddress  = errors.New("invalid ss58 address")
	ErrChecksumInvalid = errors.New("ss58 checksum mismatch")
)

var ss58Pre = []byte("SS58PRE")

const (
	accountIDLen    = 32
	checksumLen     = 2
	maxSimplePrefix = 63
)

// DecodeAddress parses an SS58 address carrying a 32-byte account id.
func DecodeAddress(address string) (accountID []byte, prefix uint16, err error) {
	raw, err := base58.Decode(address)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) < 1 {
		return nil, 0, ErrInvalidAddress
	}

	prefixLen := 1
	switch {
	case raw[0] <= maxSimplePrefix:
		prefix = uint16(raw[0])
	case raw[0] < 128:
		if len(raw) < 2 {
			return nil, 0, ErrInvalidAddress
		}
		prefixLen = 2
		lower := (raw[0] << 2) | (raw[1] >> 6)
		upper := raw[1] & 0x3f
		prefix = uint16(lower) | uint16(upper)<<8
	default:
		return nil, 0, fmt.Errorf("%w: reserved prefix byte %d", ErrInvalidAddress, raw[0])
	}

	if len(raw) != prefixLen+accountIDLen+checksumLen {
		return nil, 0, fmt.Errorf("%w: unexpected length %d", ErrInvalidAddress, len(raw))
	}

	body := raw[:len(raw)-checksumLen]
	sum := checksum(body)
	if !bytes.Equal(sum, raw[len(raw)-checksumLen:]) {
		return nil, 0, ErrChecksumInvalid
	}

	accountID = make([]byte, accountIDLen)
	copy(accountID, raw[prefixLen:prefixLen+accountIDLen])
	return accountID, prefix, nil
}

// EncodeAddress renders a 32-byte account id as an SS58 address for the given prefix.
func EncodeAddress(accountID []byte, prefix uint16) (string, error) {
	if len(accountID) != accountIDLen {
		return "", fmt.Errorf("%w: account id must be %d bytes", ErrInvalidAddress, accountIDLen)
	}
	if prefix > 16383 {
		return "", fmt.Errorf("%w: prefix %d out of range", ErrInvalidAddress, prefix)
	}

	var body []byte
	if prefix <= maxSimplePrefix {
		body = append(body, byte(prefix))
	} else {
		first := byte((prefix&0x00fc)>>2) | 0x40
		second := byte(prefix>>8) | byte(prefix&0x0003)<<6
		body = append(body, first, second)
	}
	body = append(body, accountID...)
	body = append(body, checksum(body)...)
	return base58.Encode(body), nil
}

func checksum(body []byte) []byte {
	h, _ := blake2b.New512(nil)
	h.Write(ss58Pre)
	h.Write(body)
	return h.Sum(nil)[:checksumLen]
}
