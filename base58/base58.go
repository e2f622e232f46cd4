/*
Package base58 provides base58 encoding/decoding helpers and a byte slice
type that marshals as base58 text.

It's a thin wrapper for github.com/mr-tron/base58, the reason for having it
is to make sure every boundary type renders hashes and addresses the same
way the indexing service and wallets do.
*/
package base58

import (
	"bytes"
	"errors"

	"github.com/mr-tron/base58"
)

// HashLength is the length of tree node hashes and account addresses.
const HashLength = 32

// Bytes is a byte slice that marshals to/from base58 text in JSON.
type Bytes []byte

func Encode(src []byte) []byte {
	return []byte(base58.Encode(src))
}

func Decode(src []byte) ([]byte, error) {
	return base58.Decode(string(src))
}

// DecodeString decodes a base58 string into raw bytes.
func DecodeString(src string) ([]byte, error) {
	return base58.Decode(src)
}

func (b Bytes) String() string {
	return base58.Encode(b)
}

func (b Bytes) Eq(other Bytes) bool {
	return bytes.Equal(b, other)
}

func (b Bytes) MarshalText() ([]byte, error) {
	return Encode(b), nil
}

// UnmarshalText decodes base58 text. Empty input yields nil, matching
// MarshalText on a nil value; index responses carry empty hash fields on
// items that have none.
func (b *Bytes) UnmarshalText(src []byte) error {
	if b == nil {
		return errors.New("UnmarshalText on nil pointer")
	}
	if len(src) == 0 {
		*b = nil
		return nil
	}
	res, err := Decode(src)
	if err == nil {
		*b = res
	}
	return err
}

// IsHash reports whether the value decodes to exactly HashLength bytes.
func IsHash(src string) bool {
	res, err := base58.Decode(src)
	return err == nil && len(res) == HashLength
}
