// Package registry provides an interface to interact with the on-chain
// registry contract holding the authoritative synth address book and the
// administrative owner role.
package registry

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/synthforge/deploytool/interfaces"
)

// ErrNoTransactOpts is returned when a transaction is attempted without first
// setting transaction options.
var ErrNoTransactOpts = errors.New("no authorized transactor available")

// registryABI covers the registry contract surface this tool consumes: the
// symbol-to-address mapping, the owner role and the removal entrypoint.
const registryABI = `[
	{"type":"function","name":"synths","stateMutability":"view","inputs":[{"name":"currencyKey","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"removeSynth","stateMutability":"nonpayable","inputs":[{"name":"currencyKey","type":"bytes32"}],"outputs":[]}
]`

// synthTokenABI covers the synth token contract surface: circulating supply.
const synthTokenABI = `[
	{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

// OnchainRegistryClient implements the interfaces.SynthRegistry interface for
// interacting with a registry contract deployed on a blockchain.
type OnchainRegistryClient struct {
	contract *bind.BoundContract
	tokenABI abi.ABI
	client   bind.ContractBackend
	backend  bind.DeployBackend
	address  common.Address
	auth     *bind.TransactOpts
}

// NewOnchainRegistryClient creates a new client for interacting with the
// registry contract at the specified address. It requires a ContractBackend
// for reading from the blockchain and a DeployBackend for transaction
// confirmation.
func NewOnchainRegistryClient(client bind.ContractBackend, backend bind.DeployBackend, address common.Address) (*OnchainRegistryClient, error) {
	parsed, err := abi.JSON(strings.NewReader(registryABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry ABI: %w", err)
	}

	tokenParsed, err := abi.JSON(strings.NewReader(synthTokenABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse synth token ABI: %w", err)
	}

	return &OnchainRegistryClient{
		contract: bind.NewBoundContract(address, parsed, client, client, client),
		tokenABI: tokenParsed,
		client:   client,
		backend:  backend,
		address:  address,
	}, nil
}

// SetTransactOpts sets the transaction options required for functions that
// modify state. This must be called before using RemoveSynth.
func (c *OnchainRegistryClient) SetTransactOpts(auth *bind.TransactOpts) {
	c.auth = auth
}

// Address returns the registry contract address this client is bound to.
func (c *OnchainRegistryClient) Address() interfaces.ContractAddress {
	return interfaces.ContractAddress(c.address)
}

// SynthAddress returns the contract address the registry currently records
// for the given symbol. The zero address means the symbol is not registered.
func (c *OnchainRegistryClient) SynthAddress(ctx context.Context, symbol interfaces.Symbol) (interfaces.ContractAddress, error) {
	opts := &bind.CallOpts{Context: ctx}

	var out []interface{}
	if err := c.contract.Call(opts, &out, "synths", symbol.Bytes32()); err != nil {
		return interfaces.ContractAddress{}, fmt.Errorf("synths(%s) call failed: %w", symbol, err)
	}

	addr := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	return interfaces.ContractAddress(addr), nil
}

// SynthTotalSupply returns the circulating supply of the synth token contract
// at the given address.
func (c *OnchainRegistryClient) SynthTotalSupply(ctx context.Context, token interfaces.ContractAddress) (*big.Int, error) {
	opts := &bind.CallOpts{Context: ctx}
	bound := bind.NewBoundContract(common.Address(token), c.tokenABI, c.client, nil, nil)

	var out []interface{}
	if err := bound.Call(opts, &out, "totalSupply"); err != nil {
		return nil, fmt.Errorf("totalSupply call failed: %w", err)
	}

	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

// Owner returns the current administrative owner of the registry contract.
func (c *OnchainRegistryClient) Owner(ctx context.Context) (interfaces.ContractAddress, error) {
	opts := &bind.CallOpts{Context: ctx}

	var out []interface{}
	if err := c.contract.Call(opts, &out, "owner"); err != nil {
		return interfaces.ContractAddress{}, fmt.Errorf("owner call failed: %w", err)
	}

	addr := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	return interfaces.ContractAddress(addr), nil
}

// RemoveSynth submits the removal transaction for the given symbol and waits
// until it is mined. A reverted receipt is reported as an error.
func (c *OnchainRegistryClient) RemoveSynth(ctx context.Context, symbol interfaces.Symbol) (*types.Receipt, error) {
	if c.auth == nil {
		return nil, ErrNoTransactOpts
	}

	tx, err := c.contract.Transact(c.auth, "removeSynth", symbol.Bytes32())
	if err != nil {
		return nil, fmt.Errorf("removeSynth(%s) submission failed: %w", symbol, err)
	}

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("removeSynth(%s) confirmation failed: %w", symbol, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("removeSynth(%s) reverted in tx %s", symbol, tx.Hash().Hex())
	}

	return receipt, nil
}
