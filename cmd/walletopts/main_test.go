package main

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	opts "github.com/imchaeyun/wallet-options"
	"github.com/imchaeyun/wallet-options/pkg/state"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	cmd := newRootCmd(log)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func settingsFile(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func TestRootCmdIncludesCommands(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd(logrus.New())
	got := map[string]bool{}
	for _, c := range cmd.Commands() {
		got[c.Name()] = true
	}
	for _, want := range []string{"list", "get", "set", "reset", "trace", "eval", "export", "schema"} {
		assert.True(t, got[want], "expected command %q", want)
	}
	for _, flag := range []string{"dbcache", "par", "lang", "proxy", "onion", "upnp", "listen", "spendzeroconfchange"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "expected override flag %q", flag)
	}
}

func TestSetPersistsAcrossRuns(t *testing.T) {
	t.Parallel()
	path := settingsFile(t, "settings.yaml")

	out, err := run(t, "--settings", path, "set", "theme", "dark")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme = dark")
	assert.NotContains(t, out, "restart required")

	out, err = run(t, "--settings", path, "get", "Theme")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	out, err = run(t, "--settings", path, "set", "dbcache", "1024")
	require.NoError(t, err)
	assert.Contains(t, out, "restart required")

	out, err = run(t, "--settings", path, "get", "nDatabaseCache")
	require.NoError(t, err)
	assert.Equal(t, "1024\n", out)
}

func TestSetRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	path := settingsFile(t, "settings.toml")

	_, err := run(t, "--settings", path, "set", "ProxyPort", "70000")
	assert.ErrorIs(t, err, opts.ErrInvalidValue)

	_, err = run(t, "--settings", path, "set", "listen", "maybe")
	assert.Error(t, err)

	_, err = run(t, "--settings", path, "set", "nosuchoption", "1")
	assert.ErrorContains(t, err, "unknown option")

	out, err := run(t, "--settings", path, "get", "ProxyPort")
	require.NoError(t, err)
	assert.Equal(t, "9050\n", out)
}

func TestFlagOverridesAreNotSaved(t *testing.T) {
	t.Parallel()
	path := settingsFile(t, "settings.yaml")

	out, err := run(t, "--settings", path, "--dbcache", "900", "get", "DatabaseCache")
	require.NoError(t, err)
	assert.Equal(t, "900\n", out)

	out, err = run(t, "--settings", path, "--dbcache", "900", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Overridden for this run: -dbcache=900")
	assert.Contains(t, out, "override")

	out, err = run(t, "--settings", path, "get", "DatabaseCache")
	require.NoError(t, err)
	assert.Equal(t, "450\n", out)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("WALLET_LANG", "de")
	path := settingsFile(t, "settings.yaml")

	out, err := run(t, "--settings", path, "get", "Language")
	require.NoError(t, err)
	assert.Equal(t, "de\n", out)

	out, err = run(t, "--settings", path, "--lang", "fr", "get", "Language")
	require.NoError(t, err)
	assert.Equal(t, "fr\n", out, "flags outrank the environment")
}

func TestExportFormats(t *testing.T) {
	t.Parallel()
	path := settingsFile(t, "settings.json")

	_, err := run(t, "--settings", path, "set", "Theme", "dark")
	require.NoError(t, err)

	out, err := run(t, "--settings", path, "export")
	require.NoError(t, err)
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	assert.Equal(t, "dark", fromYAML["theme"])
	assert.Equal(t, opts.DefaultDatabaseCache, fromYAML["nDatabaseCache"])
	assert.Len(t, fromYAML, int(opts.OptionIDRowCount))

	out, err = run(t, "--settings", path, "export", "--format", "toml")
	require.NoError(t, err)
	var fromTOML map[string]any
	require.NoError(t, toml.Unmarshal([]byte(out), &fromTOML))
	assert.Equal(t, "dark", fromTOML["theme"])
	assert.Equal(t, true, fromTOML["fListen"])

	out, err = run(t, "--settings", path, "export", "--format", "json")
	require.NoError(t, err)
	var fromJSON map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &fromJSON))
	assert.Equal(t, "127.0.0.1", fromJSON["addrProxyIP"])

	_, err = run(t, "--settings", path, "export", "--format", "ini")
	assert.ErrorContains(t, err, "unknown export format")
}

func TestResetClearsSettings(t *testing.T) {
	t.Parallel()
	path := settingsFile(t, "settings.yaml")

	_, err := run(t, "--settings", path, "set", "MiningPool", "stratum+tcp://pool.example:3333")
	require.NoError(t, err)

	out, err := run(t, "--settings", path, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "settings cleared")

	out, err = run(t, "--settings", path, "get", "MiningPool")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
}

func TestTraceAndEval(t *testing.T) {
	t.Parallel()
	path := settingsFile(t, "settings.yaml")

	_, err := run(t, "--settings", path, "set", "ProxyPort", "1080")
	require.NoError(t, err)

	out, err := run(t, "--settings", path, "trace", "ProxyPort")
	require.NoError(t, err)
	trace, err := opts.TraceFromJSON([]byte(out))
	require.NoError(t, err)
	effective, ok := trace.Effective()
	require.True(t, ok)
	assert.Equal(t, "settings", effective.Scope.Name)
	assert.Len(t, trace.Layers, 3)

	for _, engine := range []string{"expr", "cel"} {
		out, err = run(t, "--settings", path, "--engine", engine, "eval", "settings.nProxyPort == 1080")
		require.NoError(t, err, engine)
		assert.Equal(t, "true\n", out, engine)
	}

	_, err = run(t, "--settings", path, "--engine", "lua", "get", "Theme")
	assert.ErrorIs(t, err, opts.ErrNoEvaluator)
}

func TestSchemaFormats(t *testing.T) {
	t.Parallel()

	out, err := run(t, "schema")
	require.NoError(t, err)
	var document map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &document))
	assert.Contains(t, document, "components")

	out, err = run(t, "schema", "--format", "descriptors")
	require.NoError(t, err)
	var descriptors []opts.FieldDescriptor
	require.NoError(t, json.Unmarshal([]byte(out), &descriptors))
	assert.Len(t, descriptors, int(opts.OptionIDRowCount))

	_, err = run(t, "schema", "--format", "xml")
	assert.Error(t, err)
}

func TestLockedSettingsFile(t *testing.T) {
	t.Parallel()
	path := settingsFile(t, "settings.yaml")

	store, err := state.OpenFileStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = run(t, "--settings", path, "get", "Theme")
	assert.ErrorIs(t, err, state.ErrStoreLocked)
}
