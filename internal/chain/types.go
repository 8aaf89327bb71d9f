// Package chain defines the wire-level primitives shared by every
// component of the bridging engine: addresses, hashes, byte strings and
// the 256-bit value type, plus the keccak helpers used to derive
// ResponseKeys and CREATE2 salts.
package chain

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Address is a 20-byte opaque identifier on either chain.
type Address = common.Address

// Hash32 is a 32-byte content digest.
type Hash32 = common.Hash

// Bytes is a variable-length byte string.
type Bytes = []byte

// Value is a 256-bit non-negative integer (native token amount or gas
// cap). The spec's Value type maps directly onto holiman/uint256, the
// same 256-bit integer type go-ethereum itself uses for EVM words.
type Value = uint256.Int

// ZeroHash is the well-known all-zero Hash32, used as the genesis
// prev_root and as the sentinel "no value" in a few places below.
var ZeroHash Hash32

// Keccak256Hash hashes the concatenation of the given byte slices.
func Keccak256Hash(data ...[]byte) Hash32 {
	return crypto.Keccak256Hash(data...)
}

// BytesHash is keccak(Bytes), as defined in spec §3.
func BytesHash(b Bytes) Hash32 {
	return Keccak256Hash(b)
}

// ValueFromUint64 builds a Value from a plain uint64, a convenience used
// heavily in tests and in fixed protocol constants.
func ValueFromUint64(v uint64) *Value {
	return new(uint256.Int).SetUint64(v)
}

// EncodeUint64 big-endian encodes a uint64, used when hashing ordinal
// fields (block numbers, log indices) into ResponseKey-adjacent digests.
func EncodeUint64(v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return buf[:]
}

// ValueString renders a Value the way operator logs and HTTP responses want
// it: a decimal string, never scientific notation, never truncated.
func ValueString(v *Value) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

// MustParseValue parses a decimal string into a Value, panicking on
// malformed input; hex literals are rejected. Used for compiled-in
// protocol constants only; runtime inputs go through uint256.FromDecimal
// directly and handle the error.
func MustParseValue(s string) *Value {
	v, err := stringToValue(s)
	if err != nil {
		panic(fmt.Sprintf("chain: invalid value literal %q: %v", s, err))
	}
	return v
}

func stringToValue(s string) (*Value, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("not a valid decimal uint256: %q", s)
	}
	return v, nil
}
