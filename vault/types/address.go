package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLen is the byte length of an account or token reference.
const AddressLen = 20

// Address is a 20-byte account or token reference, rendered as 0x-prefixed hex.
type Address [AddressLen]byte

// ZeroAddress is the null reference; never a valid collateral kind or signer.
var ZeroAddress Address

// AddressFromHex parses a 0x-prefixed (or bare) 40-character hex string.
func AddressFromHex(s string) (Address, error) {
	var a Address
	h := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	raw, err := hex.DecodeString(h)
	if err != nil {
		return a, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if len(raw) != AddressLen {
		return a, fmt.Errorf("invalid address %q: expected %d bytes, got %d", s, AddressLen, len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// MustAddressFromHex is AddressFromHex that panics on malformed input. For tests
// and static configuration only.
func MustAddressFromHex(s string) Address {
	a, err := AddressFromHex(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether the address is the null reference.
func (a Address) IsZero() bool {
	return bytes.Equal(a[:], ZeroAddress[:])
}

// Bytes returns a copy of the raw 20 bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLen)
	copy(out, a[:])
	return out
}

// MarshalText implements encoding.TextMarshaler so addresses serialize as hex
// in JSON bodies and journal attributes.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := AddressFromHex(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
