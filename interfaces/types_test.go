package interfaces

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractAddressHexRoundTrip(t *testing.T) {
	addr, err := NewContractAddressFromHex("0x1234567890abcdef1234567890abcdef12345678")
	require.NoError(t, err)
	assert.Equal(t, "0x1234567890abcdef1234567890abcdef12345678", addr.Hex())
	assert.Equal(t, "1234567890abcdef1234567890abcdef12345678", addr.String())

	bare, err := NewContractAddressFromHex("1234567890abcdef1234567890abcdef12345678")
	require.NoError(t, err)
	assert.True(t, addr.Equal(bare))
}

func TestContractAddressRejectsMalformed(t *testing.T) {
	_, err := NewContractAddressFromHex("0x1234")
	assert.Error(t, err)

	_, err = NewContractAddressFromHex("zz34567890abcdef1234567890abcdef12345678")
	assert.Error(t, err)
}

func TestContractAddressJSON(t *testing.T) {
	addr, err := NewContractAddressFromHex("0x1234567890abcdef1234567890abcdef12345678")
	require.NoError(t, err)

	data, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"0x1234567890abcdef1234567890abcdef12345678"`, string(data))

	var decoded ContractAddress
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
}

func TestSymbolValidation(t *testing.T) {
	for _, valid := range []string{"cUSD", "cAUD", "X", "Synth42"} {
		_, err := NewSymbol(valid)
		assert.NoError(t, err, valid)
	}

	for _, invalid := range []string{"", "4USD", "c-USD", "c USD", "abcdefghijklmnopqrstuvwxyzABCDEFG"} {
		_, err := NewSymbol(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 2, ExitCode(fmt.Errorf("wrapped: %w", ErrUnknownSynth)))
	assert.Equal(t, 2, ExitCode(ErrProtectedSynth))
	assert.Equal(t, 3, ExitCode(fmt.Errorf("wrapped: %w", ErrPersistence)))
	assert.Equal(t, 1, ExitCode(ErrStateDivergence))
	assert.Equal(t, 1, ExitCode(ErrNonZeroBalance))
	assert.Equal(t, 1, ExitCode(ErrTransaction))
	assert.Equal(t, 1, ExitCode(errors.New("anything else")))
}
