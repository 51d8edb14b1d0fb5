// Package hexcodec converts between raw bytes, fixed-width 32-byte hex words
// and the ASCII or numeric values packed into them by the pool contracts.
//
// Words are written as lower-case, 0x-prefixed hex. The all-zero word is
// canonicalised to the sentinel "0x0" on output.
package hexcodec

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/holiman/uint256"

	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
)

// WordSize is the width of a topic or data word in bytes.
const WordSize = 32

const (
	// Sentinel is the compact form of every all-zero value.
	Sentinel = "0x0"

	EmptyHash    = "0x0000000000000000000000000000000000000000000000000000000000000000"
	EmptyKey     = EmptyHash
	EmptyAddress = "0x0000000000000000000000000000000000000000"
)

// Kind selects the canonical zero pattern IsEmpty compares against.
type Kind int

const (
	KindHash Kind = iota
	KindKey
	KindAddress
)

var (
	hashPattern    = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	keyPattern     = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

// IsEmpty reports whether value denotes "not supplied" for the given kind.
func IsEmpty(value string, kind Kind) bool {
	switch value {
	case "", "0", Sentinel:
		return true
	}
	zero := EmptyHash
	switch kind {
	case KindKey:
		zero = EmptyKey
	case KindAddress:
		zero = EmptyAddress
	}
	return value == zero || value == strings.TrimPrefix(zero, "0x")
}

// HasHexPrefix reports whether s starts with 0x or 0X.
func HasHexPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func trimPrefix(s string) string {
	if HasHexPrefix(s) {
		return s[2:]
	}
	return s
}

// BytesToHex encodes b as 0x-prefixed lower-case hex. A non-empty all-zero
// sequence is returned as the sentinel "0x0".
func BytesToHex(b []byte) string {
	if len(b) > 0 && isZero(b) {
		return Sentinel
	}
	return "0x" + hex.EncodeToString(b)
}

// HexToBytes decodes hex with or without prefix. The sentinel "0x0" decodes
// to a zero word; any other odd-length or non-hex input is a decode error.
func HexToBytes(s string) ([]byte, error) {
	if s == Sentinel {
		return make([]byte, WordSize), nil
	}
	raw := trimPrefix(s)
	if len(raw)%2 != 0 {
		return nil, ledgererrors.NewDecodeError(fmt.Sprintf("hex value %q has odd length", s), nil)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return nil, ledgererrors.NewDecodeError(fmt.Sprintf("hex value %q is malformed", s), err)
	}
	return b, nil
}

// PadRight32 right-pads hex with zero bytes to one word. Input longer than
// one word is a DECODE error.
func PadRight32(s string) (string, error) {
	b, err := HexToBytes(s)
	if err != nil {
		return "", err
	}
	if len(b) > WordSize {
		return "", ledgererrors.NewDecodeError(fmt.Sprintf("value %q exceeds 32 bytes", s), nil)
	}
	word := make([]byte, WordSize)
	copy(word, b)
	return "0x" + hex.EncodeToString(word), nil
}

// PadLeft32 left-pads hex with zero bytes to one word.
func PadLeft32(s string) (string, error) {
	b, err := HexToBytes(s)
	if err != nil {
		return "", err
	}
	if len(b) > WordSize {
		return "", ledgererrors.NewDecodeError(fmt.Sprintf("value %q exceeds 32 bytes", s), nil)
	}
	word := make([]byte, WordSize)
	copy(word[WordSize-len(b):], b)
	return "0x" + hex.EncodeToString(word), nil
}

// AddressFromTopic extracts the low-order 20 bytes of a left-padded topic.
func AddressFromTopic(word string) (string, error) {
	raw := strings.ToLower(trimPrefix(word))
	if len(raw) != 2*WordSize {
		return "", ledgererrors.NewDecodeError(fmt.Sprintf("topic %q is not a 32-byte word", word), nil)
	}
	if _, err := hex.DecodeString(raw); err != nil {
		return "", ledgererrors.NewDecodeError(fmt.Sprintf("topic %q is malformed", word), err)
	}
	return "0x" + raw[24:], nil
}

// AddressToTopic left-pads a 20-byte address into a topic word.
func AddressToTopic(address string) (string, error) {
	raw := strings.ToLower(trimPrefix(address))
	if len(raw) != 40 {
		return "", ledgererrors.NewDecodeError(fmt.Sprintf("address %q must be 20 bytes", address), nil)
	}
	if _, err := hex.DecodeString(raw); err != nil {
		return "", ledgererrors.NewDecodeError(fmt.Sprintf("address %q is malformed", address), err)
	}
	return "0x000000000000000000000000" + raw, nil
}

// DecodeASCII strips the zero-byte padding around a word and decodes the rest
// as ASCII. Bytes outside the 7-bit range are rendered as '?'.
func DecodeASCII(word string) (string, error) {
	b, err := HexToBytes(word)
	if err != nil {
		return "", err
	}
	b = bytes.Trim(b, "\x00")
	out := make([]byte, len(b))
	for i, c := range b {
		if c > 0x7f {
			c = '?'
		}
		out[i] = c
	}
	return string(out), nil
}

// ASCIIToWord packs text into a right-padded word, truncating past 32 bytes.
func ASCIIToWord(text string) string {
	word := make([]byte, WordSize)
	copy(word, text)
	return "0x" + hex.EncodeToString(word)
}

func wordInt(word string) (*uint256.Int, error) {
	b, err := HexToBytes(word)
	if err != nil {
		return nil, err
	}
	if len(b) > WordSize {
		return nil, ledgererrors.NewDecodeError(fmt.Sprintf("word %q exceeds 32 bytes", word), nil)
	}
	return new(uint256.Int).SetBytes(b), nil
}

// Uint64FromWord reads a big-endian word as an unsigned integer.
func Uint64FromWord(word string) (uint64, error) {
	v, err := wordInt(word)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, ledgererrors.NewDecodeError(fmt.Sprintf("word %q overflows uint64", word), nil)
	}
	return v.Uint64(), nil
}

// DecimalFromWord renders a word as a base-10 integer of up to 256 bits.
func DecimalFromWord(word string) (string, error) {
	v, err := wordInt(word)
	if err != nil {
		return "", err
	}
	return v.Dec(), nil
}

// Uint64ToWord writes v as a left-padded numeric word.
func Uint64ToWord(v uint64) string {
	w := uint256.NewInt(v).Bytes32()
	return "0x" + hex.EncodeToString(w[:])
}

// ValidHash reports whether s has the shape of a 32-byte hash. Empty values
// are accepted unless required is set.
func ValidHash(s string, required bool) bool {
	if IsEmpty(s, KindHash) {
		return !required
	}
	return hashPattern.MatchString(s)
}

// ValidAddress reports whether s has the shape of a 20-byte address.
func ValidAddress(s string, required bool) bool {
	if IsEmpty(s, KindAddress) {
		return !required
	}
	return addressPattern.MatchString(s)
}

// ValidPrivateKey reports whether s has the shape of an unprefixed signing key.
func ValidPrivateKey(s string, required bool) bool {
	if IsEmpty(s, KindKey) {
		return !required
	}
	return keyPattern.MatchString(s)
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
