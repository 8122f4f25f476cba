package interfaces

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
)

// SynthRegistry is the on-chain view of the top-level registry contract: the
// authoritative mapping from synth symbol to its serving contract address,
// plus the administrative owner role.
type SynthRegistry interface {
	// SynthAddress returns the contract address currently serving the given
	// symbol, or the zero address if the symbol is not registered.
	SynthAddress(ctx context.Context, symbol Symbol) (ContractAddress, error)

	// SynthTotalSupply returns the circulating supply of the synth token
	// contract at the given address.
	SynthTotalSupply(ctx context.Context, token ContractAddress) (*big.Int, error)

	// Owner returns the current administrative owner of the registry.
	Owner(ctx context.Context) (ContractAddress, error)

	// RemoveSynth submits the removal transaction for the given symbol and
	// blocks until it is mined or fails.
	RemoveSynth(ctx context.Context, symbol Symbol) (*types.Receipt, error)
}
