// Package interfaces defines the core types and contracts shared between the
// removal coordinator, the on-chain registry client and the local deployment
// manifests. It provides the contract between different components without
// implementation details.
package interfaces

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ContractAddress represents an Ethereum contract address.
type ContractAddress [20]byte

// NewContractAddressFromBytes creates a contract address from a raw byte slice.
func NewContractAddressFromBytes(addr []byte) (ContractAddress, error) {
	if len(addr) != 20 {
		return ContractAddress{}, errors.New("invalid address length: must be 20 bytes")
	}

	var res ContractAddress
	copy(res[:], addr)
	return res, nil
}

// NewContractAddressFromHex creates a contract address from a hex string,
// with or without the 0x prefix.
func NewContractAddressFromHex(addr string) (ContractAddress, error) {
	clean := strings.TrimPrefix(addr, "0x")
	if len(clean) != 40 {
		return ContractAddress{}, errors.New("invalid address length: hex string must be 40 characters")
	}

	addrBytes, err := hex.DecodeString(clean)
	if err != nil {
		return ContractAddress{}, fmt.Errorf("invalid hex format: %w", err)
	}

	return NewContractAddressFromBytes(addrBytes)
}

// String returns the hex string representation of the contract address.
func (addr ContractAddress) String() string {
	return hex.EncodeToString(addr[:])
}

// Hex returns the 0x-prefixed hex representation used in manifest files.
func (addr ContractAddress) Hex() string {
	return "0x" + hex.EncodeToString(addr[:])
}

// Bytes returns the raw 20-byte address.
func (addr ContractAddress) Bytes() []byte {
	return addr[:]
}

// Equal compares two contract addresses for equality.
func (addr ContractAddress) Equal(other ContractAddress) bool {
	return addr == other
}

// IsZero reports whether the address is the zero address.
func (addr ContractAddress) IsZero() bool {
	return addr == ContractAddress{}
}

// MarshalText implements encoding.TextMarshaler using the 0x-prefixed form.
func (addr ContractAddress) MarshalText() ([]byte, error) {
	return []byte(addr.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting hex with or
// without the 0x prefix.
func (addr *ContractAddress) UnmarshalText(text []byte) error {
	parsed, err := NewContractAddressFromHex(string(text))
	if err != nil {
		return err
	}
	*addr = parsed
	return nil
}

var symbolRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]{0,31}$`)

// Symbol is the short currency-style code identifying one synth, stable
// across the contract registry and the synth list.
type Symbol string

// NewSymbol creates a symbol with validation. Symbols must start with a
// letter, contain only letters and digits, and fit in a bytes32 key.
func NewSymbol(s string) (Symbol, error) {
	if !symbolRegex.MatchString(s) {
		return Symbol(""), fmt.Errorf("invalid synth symbol %q", s)
	}
	return Symbol(s), nil
}

// String returns the symbol as a string.
func (s Symbol) String() string {
	return string(s)
}

// Bytes32 returns the right-padded bytes32 key used by registry contract
// calls.
func (s Symbol) Bytes32() [32]byte {
	var key [32]byte
	copy(key[:], s)
	return key
}

// Validate checks if the symbol has a valid format.
func (s Symbol) Validate() error {
	_, err := NewSymbol(string(s))
	return err
}
