package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/synthforge/deploytool/interfaces"
)

// PendingActions implements interfaces.PendingActionLog over the owner action
// file. Keys are idempotent: re-recording an existing key overwrites its
// entry instead of appending a duplicate.
type PendingActions struct {
	path string
	log  *slog.Logger
}

// OpenPendingActions returns a pending action log backed by the given file.
// The file is created on first Record if it does not exist.
func OpenPendingActions(path string, log *slog.Logger) *PendingActions {
	return &PendingActions{path: path, log: log}
}

// Record writes or updates the pending action under key and persists the log.
func (p *PendingActions) Record(ctx context.Context, key string, target interfaces.ContractAddress, action string) error {
	actions, err := p.load()
	if err != nil {
		return err
	}

	actions[key] = interfaces.PendingAction{
		Target: target,
		Action: action,
	}

	data, err := json.MarshalIndent(actions, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding pending actions: %s", interfaces.ErrPersistence, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(p.path, data, 0644); err != nil {
		return fmt.Errorf("%w: writing %s: %s", interfaces.ErrPersistence, p.path, err)
	}

	p.log.Info("Recorded pending owner action",
		slog.String("key", key),
		slog.String("target", target.Hex()))
	return nil
}

func (p *PendingActions) load() (map[string]interfaces.PendingAction, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]interfaces.PendingAction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %s", interfaces.ErrPersistence, p.path, err)
	}

	var actions map[string]interfaces.PendingAction
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("%w: malformed pending action log %s: %s", interfaces.ErrPersistence, p.path, err)
	}
	if actions == nil {
		actions = map[string]interfaces.PendingAction{}
	}
	return actions, nil
}
