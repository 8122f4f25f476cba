// Package manifest persists the local deployment records: the contract
// registry file, the synth list file and the pending owner action log. The
// two manifest files are coupled and always rewritten together, immediately
// after each committed removal.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/synthforge/deploytool/interfaces"
)

const (
	// RegistryFileName is the contract registry manifest inside the
	// deployment directory.
	RegistryFileName = "deployment.json"

	// SynthsFileName is the synth list manifest inside the deployment
	// directory.
	SynthsFileName = "synths.json"

	// PendingFileName is the pending owner action log inside the deployment
	// directory.
	PendingFileName = "owner-actions.json"

	// RegistryContractName is the registry row holding the top-level
	// registry contract address.
	RegistryContractName = "Registry"
)

// synthContractRoles are the registry row prefixes backing one synth, in the
// order they appear in SynthContracts.
var synthContractRoles = []string{"Proxy", "TokenState", "Synth"}

type registryFile struct {
	Targets map[string]interfaces.RegistryEntry `json:"targets"`
}

// Store implements interfaces.DeploymentStore over the two JSON manifest
// files in a deployment directory. It holds both files in memory for the
// duration of one invocation and never caches across invocations.
type Store struct {
	dir     string
	log     *slog.Logger
	mirrors []Mirror

	targets map[string]interfaces.RegistryEntry
	synths  []interfaces.SynthEntry
}

// Load reads both manifest files from the deployment directory. Mirrors, if
// any, receive a copy of every file persisted later; mirror failures are
// logged but never fatal.
func Load(dir string, log *slog.Logger, mirrors ...Mirror) (*Store, error) {
	s := &Store{dir: dir, log: log, mirrors: mirrors}

	regData, err := os.ReadFile(filepath.Join(dir, RegistryFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read contract registry: %w", err)
	}
	var reg registryFile
	if err := json.Unmarshal(regData, &reg); err != nil {
		return nil, fmt.Errorf("malformed contract registry: %w", err)
	}
	s.targets = reg.Targets
	if s.targets == nil {
		s.targets = map[string]interfaces.RegistryEntry{}
	}

	synthData, err := os.ReadFile(filepath.Join(dir, SynthsFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read synth list: %w", err)
	}
	if err := json.Unmarshal(synthData, &s.synths); err != nil {
		return nil, fmt.Errorf("malformed synth list: %w", err)
	}

	log.Debug("Loaded deployment manifests",
		slog.String("dir", dir),
		slog.Int("targets", len(s.targets)),
		slog.Int("synths", len(s.synths)))

	return s, nil
}

// Synths returns the synth list in file order.
func (s *Store) Synths() []interfaces.SynthEntry {
	return s.synths
}

// HasSynth reports whether the symbol is present in the synth list.
func (s *Store) HasSynth(symbol interfaces.Symbol) bool {
	for _, entry := range s.synths {
		if entry.Symbol == symbol {
			return true
		}
	}
	return false
}

// RegistryAddress resolves the top-level registry contract address from the
// contract registry.
func (s *Store) RegistryAddress() (interfaces.ContractAddress, error) {
	entry, ok := s.targets[RegistryContractName]
	if !ok {
		return interfaces.ContractAddress{}, fmt.Errorf("%w: missing %s entry", interfaces.ErrAddressResolution, RegistryContractName)
	}
	return entry.Address, nil
}

// ResolveSynthContracts resolves the proxy, token state and synth contract
// addresses for a symbol from the contract registry.
func (s *Store) ResolveSynthContracts(symbol interfaces.Symbol) (interfaces.SynthContracts, error) {
	var resolved [3]interfaces.ContractAddress
	for i, role := range synthContractRoles {
		name := role + symbol.String()
		entry, ok := s.targets[name]
		if !ok {
			return interfaces.SynthContracts{}, fmt.Errorf("%w: missing %s entry", interfaces.ErrAddressResolution, name)
		}
		resolved[i] = entry.Address
	}

	return interfaces.SynthContracts{
		Proxy:      resolved[0],
		TokenState: resolved[1],
		Synth:      resolved[2],
	}, nil
}

// CommitRemoval drops the symbol's registry rows and synth list entry from
// the in-memory state and persists both manifest files immediately. A write
// failure leaves chain and local consistency suspect and is reported as a
// persistence error.
func (s *Store) CommitRemoval(ctx context.Context, symbol interfaces.Symbol) error {
	for _, role := range synthContractRoles {
		delete(s.targets, role+symbol.String())
	}

	kept := s.synths[:0]
	for _, entry := range s.synths {
		if entry.Symbol != symbol {
			kept = append(kept, entry)
		}
	}
	s.synths = kept

	if err := s.saveRegistry(ctx); err != nil {
		return err
	}
	if err := s.saveSynths(ctx); err != nil {
		return err
	}

	s.log.Info("Committed removal to local manifests", slog.String("symbol", symbol.String()))
	return nil
}

func (s *Store) saveRegistry(ctx context.Context) error {
	// Top-level map keys are emitted sorted, keeping the file diff-friendly.
	data, err := json.MarshalIndent(registryFile{Targets: s.targets}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding contract registry: %s", interfaces.ErrPersistence, err)
	}
	data = append(data, '\n')

	return s.writeFile(ctx, RegistryFileName, data)
}

func (s *Store) saveSynths(ctx context.Context) error {
	data, err := json.MarshalIndent(s.synths, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding synth list: %s", interfaces.ErrPersistence, err)
	}
	data = append(data, '\n')

	return s.writeFile(ctx, SynthsFileName, data)
}

func (s *Store) writeFile(ctx context.Context, name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: writing %s: %s", interfaces.ErrPersistence, path, err)
	}

	for _, mirror := range s.mirrors {
		if err := mirror.Push(ctx, name, data); err != nil {
			s.log.Warn("Manifest mirror push failed",
				slog.String("mirror", mirror.Name()),
				slog.String("file", name),
				"err", err)
		}
	}

	return nil
}
