package manifest

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthforge/deploytool/interfaces"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeFixtures(t *testing.T, dir string) {
	t.Helper()

	registry := `{
  "targets": {
    "Registry": {"address": "0x0000000000000000000000000000000000000001", "source": "Registry"},
    "ProxycAUD": {"address": "0x0000000000000000000000000000000000000010", "source": "Proxy"},
    "TokenStatecAUD": {"address": "0x0000000000000000000000000000000000000011", "source": "TokenState"},
    "SynthcAUD": {"address": "0x0000000000000000000000000000000000000012", "source": "Synth"},
    "ProxycUSD": {"address": "0x0000000000000000000000000000000000000020", "source": "Proxy"},
    "TokenStatecUSD": {"address": "0x0000000000000000000000000000000000000021", "source": "TokenState"},
    "SynthcUSD": {"address": "0x0000000000000000000000000000000000000022", "source": "Synth"}
  }
}`
	synths := `[
  {"symbol": "cUSD", "name": "Synthetic USD", "address": "0x0000000000000000000000000000000000000022", "decimals": 18, "source": "Synth"},
  {"symbol": "cAUD", "name": "Synthetic AUD", "address": "0x0000000000000000000000000000000000000012", "decimals": 18, "source": "Synth"}
]`

	require.NoError(t, os.WriteFile(filepath.Join(dir, RegistryFileName), []byte(registry), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, SynthsFileName), []byte(synths), 0644))
}

func TestLoadAndResolve(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)

	store, err := Load(dir, testLogger())
	require.NoError(t, err)

	assert.Len(t, store.Synths(), 2)
	assert.True(t, store.HasSynth("cAUD"))
	assert.False(t, store.HasSynth("cJPY"))

	regAddr, err := store.RegistryAddress()
	require.NoError(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000000001", regAddr.Hex())

	contracts, err := store.ResolveSynthContracts("cAUD")
	require.NoError(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000000010", contracts.Proxy.Hex())
	assert.Equal(t, "0x0000000000000000000000000000000000000011", contracts.TokenState.Hex())
	assert.Equal(t, "0x0000000000000000000000000000000000000012", contracts.Synth.Hex())
}

func TestResolveMissingEntry(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)

	store, err := Load(dir, testLogger())
	require.NoError(t, err)

	// cJPY has a synth list entry in neither manifest; resolution must name
	// the resolution error class.
	_, err = store.ResolveSynthContracts("cJPY")
	assert.ErrorIs(t, err, interfaces.ErrAddressResolution)
}

func TestCommitRemovalRewritesBothFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)

	store, err := Load(dir, testLogger())
	require.NoError(t, err)

	require.NoError(t, store.CommitRemoval(context.Background(), "cAUD"))

	// Registry rows for cAUD are gone, cUSD rows survive.
	regData, err := os.ReadFile(filepath.Join(dir, RegistryFileName))
	require.NoError(t, err)
	var reg registryFile
	require.NoError(t, json.Unmarshal(regData, &reg))
	assert.NotContains(t, reg.Targets, "ProxycAUD")
	assert.NotContains(t, reg.Targets, "TokenStatecAUD")
	assert.NotContains(t, reg.Targets, "SynthcAUD")
	assert.Contains(t, reg.Targets, "SynthcUSD")
	assert.Contains(t, reg.Targets, "Registry")

	// Synth list drops cAUD, keeps order of the rest.
	synthData, err := os.ReadFile(filepath.Join(dir, SynthsFileName))
	require.NoError(t, err)
	var synths []interfaces.SynthEntry
	require.NoError(t, json.Unmarshal(synthData, &synths))
	require.Len(t, synths, 1)
	assert.Equal(t, interfaces.Symbol("cUSD"), synths[0].Symbol)

	// A reload no longer knows the removed synth.
	reloaded, err := Load(dir, testLogger())
	require.NoError(t, err)
	assert.False(t, reloaded.HasSynth("cAUD"))
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := Load(t.TempDir(), testLogger())
	assert.Error(t, err)
}

type recordingMirror struct {
	pushed map[string][]byte
	fail   bool
}

func (m *recordingMirror) Push(ctx context.Context, name string, data []byte) error {
	if m.fail {
		return assert.AnError
	}
	if m.pushed == nil {
		m.pushed = map[string][]byte{}
	}
	m.pushed[name] = data
	return nil
}

func (m *recordingMirror) Name() string { return "recording" }

func TestCommitRemovalPushesMirrors(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)

	mirror := &recordingMirror{}
	store, err := Load(dir, testLogger(), mirror)
	require.NoError(t, err)

	require.NoError(t, store.CommitRemoval(context.Background(), "cAUD"))
	assert.Contains(t, mirror.pushed, RegistryFileName)
	assert.Contains(t, mirror.pushed, SynthsFileName)
}

func TestMirrorFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)

	store, err := Load(dir, testLogger(), &recordingMirror{fail: true})
	require.NoError(t, err)

	assert.NoError(t, store.CommitRemoval(context.Background(), "cAUD"))
}

func TestNewMirrorRejectsUnknownScheme(t *testing.T) {
	_, err := NewMirror("ftp://example.com/manifests", testLogger())
	assert.Error(t, err)
}
