// Package signer loads the transaction signing key for a run and produces
// transaction options with the configured gas policy. Keys come either from a
// hex-encoded private key (flag or environment) or from a HashiCorp Vault KV
// secret.
package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"
	vault "github.com/hashicorp/vault/api"

	"github.com/synthforge/deploytool/interfaces"
)

// Signer wraps the run's private key.
type Signer struct {
	key *ecdsa.PrivateKey
}

// FromHex parses a hex-encoded private key, with or without the 0x prefix.
func FromHex(hexkey string) (*Signer, error) {
	if len(hexkey) > 1 && hexkey[0] == '0' && (hexkey[1] == 'x' || hexkey[1] == 'X') {
		hexkey = hexkey[2:]
	}

	key, err := crypto.HexToECDSA(hexkey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return &Signer{key: key}, nil
}

// VaultConfig locates a private key in a Vault KV v2 secret. The Vault token
// comes from the standard VAULT_TOKEN environment variable.
type VaultConfig struct {
	Address string // Vault server address, e.g. https://vault.example.com:8200
	Mount   string // KV v2 mount path, e.g. "secret"
	Path    string // path within the mount, e.g. "deploy/signer"
	Field   string // secret field holding the hex key, e.g. "privkey"
}

// FromVault reads a hex-encoded private key from a Vault KV v2 secret.
func FromVault(ctx context.Context, cfg VaultConfig) (*Signer, error) {
	vaultCfg := vault.DefaultConfig()
	vaultCfg.Address = cfg.Address

	client, err := vault.NewClient(vaultCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}

	secret, err := client.KVv2(cfg.Mount).Get(ctx, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read Vault secret %s/%s: %w", cfg.Mount, cfg.Path, err)
	}

	hexkey, ok := secret.Data[cfg.Field].(string)
	if !ok {
		return nil, fmt.Errorf("Vault secret %s/%s has no string field %q", cfg.Mount, cfg.Path, cfg.Field)
	}

	return FromHex(hexkey)
}

// Address returns the address derived from the signing key.
func (s *Signer) Address() interfaces.ContractAddress {
	return interfaces.ContractAddress(crypto.PubkeyToAddress(s.key.PublicKey))
}

// TransactOpts builds transaction options bound to the chain ID with the
// run's fixed gas price and limit.
func (s *Signer) TransactOpts(chainID *big.Int, gasPrice *big.Int, gasLimit uint64) (*bind.TransactOpts, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(s.key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorized transactor: %w", err)
	}

	auth.GasPrice = gasPrice
	auth.GasLimit = gasLimit
	return auth, nil
}
