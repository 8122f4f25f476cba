package manifest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthforge/deploytool/interfaces"
)

func TestRecordCreatesLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), PendingFileName)
	pending := OpenPendingActions(path, testLogger())

	target, err := interfaces.NewContractAddressFromHex("0x0000000000000000000000000000000000000042")
	require.NoError(t, err)

	require.NoError(t, pending.Record(context.Background(), "Registry.removeSynth(cAUD)", target, "removeSynth(cAUD)"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var actions map[string]interfaces.PendingAction
	require.NoError(t, json.Unmarshal(data, &actions))
	require.Contains(t, actions, "Registry.removeSynth(cAUD)")
	assert.Equal(t, target, actions["Registry.removeSynth(cAUD)"].Target)
	assert.Equal(t, "removeSynth(cAUD)", actions["Registry.removeSynth(cAUD)"].Action)
	assert.False(t, actions["Registry.removeSynth(cAUD)"].Complete)
}

func TestRecordIsIdempotentPerKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), PendingFileName)
	pending := OpenPendingActions(path, testLogger())

	first, err := interfaces.NewContractAddressFromHex("0x0000000000000000000000000000000000000001")
	require.NoError(t, err)
	second, err := interfaces.NewContractAddressFromHex("0x0000000000000000000000000000000000000002")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, pending.Record(ctx, "Registry.removeSynth(cAUD)", first, "removeSynth(cAUD)"))
	require.NoError(t, pending.Record(ctx, "Registry.removeSynth(cAUD)", second, "removeSynth(cAUD)"))
	require.NoError(t, pending.Record(ctx, "Registry.removeSynth(cEUR)", first, "removeSynth(cEUR)"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var actions map[string]interfaces.PendingAction
	require.NoError(t, json.Unmarshal(data, &actions))
	require.Len(t, actions, 2)
	assert.Equal(t, second, actions["Registry.removeSynth(cAUD)"].Target)
}

func TestRecordPreservesExistingEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), PendingFileName)
	existing := `{"Registry.setFeeRate": {"target": "0x00000000000000000000000000000000000000aa", "action": "setFeeRate(10)", "complete": true}}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0644))

	pending := OpenPendingActions(path, testLogger())
	target, err := interfaces.NewContractAddressFromHex("0x0000000000000000000000000000000000000042")
	require.NoError(t, err)
	require.NoError(t, pending.Record(context.Background(), "Registry.removeSynth(cAUD)", target, "removeSynth(cAUD)"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var actions map[string]interfaces.PendingAction
	require.NoError(t, json.Unmarshal(data, &actions))
	require.Len(t, actions, 2)
	assert.True(t, actions["Registry.setFeeRate"].Complete)
}
