// Package removal implements the synth removal protocol: per-symbol
// validation against on-chain state, the owner-vs-delegate dispatch branch
// and the per-symbol commit of both local manifests.
package removal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/synthforge/deploytool/interfaces"
)

// protectedSynths can never be removed. The core stable synth backs the rest
// of the system.
var protectedSynths = map[interfaces.Symbol]struct{}{
	"cUSD": {},
}

// Protected reports whether the symbol belongs to the protected set.
func Protected(symbol interfaces.Symbol) bool {
	_, ok := protectedSynths[symbol]
	return ok
}

// PendingActionKey derives the idempotency key under which a deferred removal
// is recorded. The key is deterministic per symbol so re-runs update the same
// entry.
func PendingActionKey(symbol interfaces.Symbol) string {
	return fmt.Sprintf("Registry.removeSynth(%s)", symbol)
}

// dispatchOutcome is the result of the authorization branch for one symbol.
type dispatchOutcome int

const (
	// outcomeExecuted means the removal transaction was submitted and mined.
	outcomeExecuted dispatchOutcome = iota
	// outcomeDeferred means the caller is not the registry owner and the
	// removal was recorded as a pending owner action instead.
	outcomeDeferred
)

// Config wires the coordinator's collaborators.
type Config struct {
	Registry interfaces.SynthRegistry
	Store    interfaces.DeploymentStore
	Pending  interfaces.PendingActionLog
	Confirm  interfaces.Confirmer

	// Signer is the address transactions would be sent from, compared
	// against the registry owner to pick the dispatch branch.
	Signer interfaces.ContractAddress

	// RegistryAddress is the registry contract address, recorded as the
	// target of deferred owner actions.
	RegistryAddress interfaces.ContractAddress

	// DryRun runs all validation and the authorization probe but mutates
	// nothing, on chain or locally.
	DryRun bool

	Log *slog.Logger
}

// Coordinator drives the removal of a set of synths to a consistent end
// state across chain and local manifests, committing per symbol.
type Coordinator struct {
	cfg Config
	log *slog.Logger
}

// New creates a coordinator. All collaborators in cfg are required.
func New(cfg Config) *Coordinator {
	return &Coordinator{cfg: cfg, log: cfg.Log}
}

// RemoveSynths removes the given symbols in order. Input validation covers
// the whole batch before any chain interaction; afterwards each symbol is
// independently validated and independently committed. A failure stops the
// remaining batch but never rolls back symbols already committed.
func (c *Coordinator) RemoveSynths(ctx context.Context, symbols []interfaces.Symbol) error {
	if len(symbols) == 0 {
		c.log.Info("No synths requested, nothing to do")
		return nil
	}

	for _, symbol := range symbols {
		if !c.cfg.Store.HasSynth(symbol) {
			return fmt.Errorf("%w: %s", interfaces.ErrUnknownSynth, symbol)
		}
		if Protected(symbol) {
			return fmt.Errorf("%w: %s", interfaces.ErrProtectedSynth, symbol)
		}
	}

	if !c.cfg.DryRun {
		names := make([]string, len(symbols))
		for i, symbol := range symbols {
			names[i] = symbol.String()
		}
		ok, err := c.cfg.Confirm.Confirm(fmt.Sprintf("Remove synths [%s] from the registry and local manifests?", strings.Join(names, ", ")))
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			c.log.Info("Cancelled by operator, no changes made")
			return nil
		}
	}

	for _, symbol := range symbols {
		if err := c.removeOne(ctx, symbol); err != nil {
			return err
		}
	}

	return nil
}

// removeOne takes one symbol from Pending through Validated and the dispatch
// branch to Committed. Chain or queued action always happens before the local
// record deletion, so the manifests never run ahead of true removal state.
func (c *Coordinator) removeOne(ctx context.Context, symbol interfaces.Symbol) error {
	log := c.log.With(slog.String("symbol", symbol.String()))

	contracts, err := c.cfg.Store.ResolveSynthContracts(symbol)
	if err != nil {
		return err
	}

	chainAddr, err := c.cfg.Registry.SynthAddress(ctx, symbol)
	if err != nil {
		return fmt.Errorf("failed to query on-chain synth address for %s: %w", symbol, err)
	}
	if !chainAddr.Equal(contracts.Synth) {
		return fmt.Errorf("%w: %s is %s on-chain but %s locally, re-sync the deployment manifests",
			interfaces.ErrStateDivergence, symbol, chainAddr.Hex(), contracts.Synth.Hex())
	}

	supply, err := c.cfg.Registry.SynthTotalSupply(ctx, contracts.Synth)
	if err != nil {
		return fmt.Errorf("failed to query total supply for %s: %w", symbol, err)
	}
	if supply.Sign() != 0 {
		return fmt.Errorf("%w: %s has supply %s, reduce it to zero first",
			interfaces.ErrNonZeroBalance, symbol, supply)
	}

	owner, err := c.cfg.Registry.Owner(ctx)
	if err != nil {
		return fmt.Errorf("failed to query registry owner: %w", err)
	}

	if c.cfg.DryRun {
		if owner.Equal(c.cfg.Signer) {
			log.Info("Dry run: would submit removal transaction")
		} else {
			log.Info("Dry run: would record pending owner action",
				slog.String("key", PendingActionKey(symbol)))
		}
		return nil
	}

	outcome, err := c.dispatch(ctx, symbol, owner)
	if err != nil {
		return err
	}

	switch outcome {
	case outcomeExecuted:
		log.Info("Removed synth on-chain")
	case outcomeDeferred:
		log.Info("Deferred removal to registry owner",
			slog.String("key", PendingActionKey(symbol)),
			slog.String("owner", owner.Hex()))
	}

	if err := c.cfg.Store.CommitRemoval(ctx, symbol); err != nil {
		return err
	}

	return nil
}

// dispatch executes the authorization branch: the owner removes directly, any
// other signer records a pending owner action. Deferral is the designed path
// for delegates, not a failure.
func (c *Coordinator) dispatch(ctx context.Context, symbol interfaces.Symbol, owner interfaces.ContractAddress) (dispatchOutcome, error) {
	if owner.Equal(c.cfg.Signer) {
		receipt, err := c.cfg.Registry.RemoveSynth(ctx, symbol)
		if err != nil {
			return outcomeExecuted, fmt.Errorf("%w: %s: %s", interfaces.ErrTransaction, symbol, err)
		}
		c.log.Debug("Removal transaction mined",
			slog.String("symbol", symbol.String()),
			slog.String("tx", receipt.TxHash.Hex()))
		return outcomeExecuted, nil
	}

	err := c.cfg.Pending.Record(ctx, PendingActionKey(symbol), c.cfg.RegistryAddress, fmt.Sprintf("removeSynth(%s)", symbol))
	if err != nil {
		return outcomeDeferred, err
	}
	return outcomeDeferred, nil
}
