package registry

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthforge/deploytool/interfaces"
)

func TestNewOnchainRegistryClient(t *testing.T) {
	addr := common.HexToAddress("0x1234567890abcdef1234567890abcdef12345678")

	client, err := NewOnchainRegistryClient(nil, nil, addr)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ContractAddress(addr), client.Address())
}

func TestRemoveSynthRequiresTransactOpts(t *testing.T) {
	addr := common.HexToAddress("0x1234567890abcdef1234567890abcdef12345678")

	client, err := NewOnchainRegistryClient(nil, nil, addr)
	require.NoError(t, err)

	symbol, err := interfaces.NewSymbol("cAUD")
	require.NoError(t, err)

	_, err = client.RemoveSynth(context.Background(), symbol)
	assert.ErrorIs(t, err, ErrNoTransactOpts)
}

func TestSymbolBytes32Key(t *testing.T) {
	symbol, err := interfaces.NewSymbol("cUSD")
	require.NoError(t, err)

	key := symbol.Bytes32()
	assert.Equal(t, byte('c'), key[0])
	assert.Equal(t, byte('U'), key[1])
	assert.Equal(t, byte('S'), key[2])
	assert.Equal(t, byte('D'), key[3])
	for i := 4; i < 32; i++ {
		assert.Zero(t, key[i])
	}
}
