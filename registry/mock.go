package registry

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"

	"github.com/synthforge/deploytool/interfaces"
)

// MockRegistry mocks the SynthRegistry interface
type MockRegistry struct {
	mock.Mock
}

// SynthAddress mocks the SynthAddress method
func (m *MockRegistry) SynthAddress(ctx context.Context, symbol interfaces.Symbol) (interfaces.ContractAddress, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(interfaces.ContractAddress), args.Error(1)
}

// SynthTotalSupply mocks the SynthTotalSupply method
func (m *MockRegistry) SynthTotalSupply(ctx context.Context, token interfaces.ContractAddress) (*big.Int, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(*big.Int), args.Error(1)
}

// Owner mocks the Owner method
func (m *MockRegistry) Owner(ctx context.Context) (interfaces.ContractAddress, error) {
	args := m.Called(ctx)
	return args.Get(0).(interfaces.ContractAddress), args.Error(1)
}

// RemoveSynth mocks the RemoveSynth method
func (m *MockRegistry) RemoveSynth(ctx context.Context, symbol interfaces.Symbol) (*types.Receipt, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Receipt), args.Error(1)
}
