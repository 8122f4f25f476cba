package interfaces

import "context"

// RegistryEntry is one row in the local contract registry, keyed by contract
// name (role-prefixed composite names such as "ProxycUSD").
type RegistryEntry struct {
	Address ContractAddress `json:"address"`
	Source  string          `json:"source"`
}

// SynthEntry is one record of the local synth list.
type SynthEntry struct {
	Symbol   Symbol          `json:"symbol"`
	Name     string          `json:"name"`
	Address  ContractAddress `json:"address"`
	Decimals uint8           `json:"decimals"`
	Source   string          `json:"source"`
}

// SynthContracts holds the resolved addresses of the three contracts backing
// one synth.
type SynthContracts struct {
	Proxy      ContractAddress
	TokenState ContractAddress
	Synth      ContractAddress
}

// PendingAction records a privileged operation the current caller could not
// execute directly, awaiting execution by the registry owner.
type PendingAction struct {
	Target   ContractAddress `json:"target"`
	Action   string          `json:"action"`
	Complete bool            `json:"complete"`
}

// DeploymentStore is the in-memory view of the two coupled manifest files:
// the contract registry and the synth list. Implementations load both at
// construction and persist both immediately on every commit.
type DeploymentStore interface {
	// Synths returns the synth list in file order.
	Synths() []SynthEntry

	// HasSynth reports whether the symbol is present in the synth list.
	HasSynth(symbol Symbol) bool

	// ResolveSynthContracts resolves the proxy, token state and synth
	// contract addresses for a symbol from the registry. Returns an error
	// wrapping ErrAddressResolution if any expected entry is absent.
	ResolveSynthContracts(symbol Symbol) (SynthContracts, error)

	// CommitRemoval drops the symbol's registry rows and synth list entry
	// and persists both manifest files. Errors wrap ErrPersistence.
	CommitRemoval(ctx context.Context, symbol Symbol) error
}

// PendingActionLog records privileged actions for later execution by the
// registry owner. Recording an existing key overwrites it.
type PendingActionLog interface {
	Record(ctx context.Context, key string, target ContractAddress, action string) error
}

// Confirmer obtains operator confirmation before irreversible actions.
type Confirmer interface {
	// Confirm presents the prompt and reports whether the operator agreed.
	Confirm(prompt string) (bool, error)
}
