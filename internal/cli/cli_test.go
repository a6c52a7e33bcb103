package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// runCairn executes the root command with the given args and returns
// captured stdout.
func runCairn(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

// isolate points config and data directories at temp space.
func isolate(t *testing.T) (configDir, dataDir string) {
	t.Helper()
	configDir = t.TempDir()
	dataDir = t.TempDir()
	t.Setenv("CAIRN_CONFIG_DIR", configDir)
	t.Setenv("CAIRN_DATA_DIR", dataDir)
	return configDir, dataDir
}

func TestVersionOutput(t *testing.T) {
	out := runCairn(t, "version")
	require.Contains(t, out, "cairn v")
	require.Contains(t, out, modulePath)
}

func TestInitCreatesConfigAndData(t *testing.T) {
	configDir, dataDir := isolate(t)

	out := runCairn(t, "init")
	require.Contains(t, out, "initialized")

	// config.yaml written on first run.
	_, err := os.Stat(filepath.Join(configDir, configFileExt))
	require.NoError(t, err)

	// Database file created by Attach.
	entries, err := os.ReadDir(dataDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	// Re-running init is idempotent.
	runCairn(t, "init")
}

func TestPrefsRoundTripThroughCLI(t *testing.T) {
	isolate(t)
	runCairn(t, "init")

	out := runCairn(t, "prefs", "get", "theme")
	require.Equal(t, "light\n", out)

	runCairn(t, "prefs", "set", "theme", "dark")
	out = runCairn(t, "prefs", "get", "theme")
	require.Equal(t, "dark\n", out)

	runCairn(t, "prefs", "set", "weekStart", "0")
	out = runCairn(t, "prefs", "get", "weekStart")
	require.Equal(t, "0\n", out)

	runCairn(t, "prefs", "reset")
	out = runCairn(t, "prefs", "get", "theme")
	require.Equal(t, "light\n", out)
}

func TestPrefsGetAllEmitsJSON(t *testing.T) {
	isolate(t)

	out := runCairn(t, "prefs", "get")
	require.Contains(t, out, `"theme": "light"`)
	require.Contains(t, out, `"weekStart": 1`)
}

func TestCacheSweepOnFreshStore(t *testing.T) {
	isolate(t)

	out := runCairn(t, "cache", "sweep")
	require.Equal(t, "removed 0 expired entries\n", out)
}

func TestParsePrefValue(t *testing.T) {
	require.Equal(t, true, parsePrefValue("true"))
	require.Equal(t, float64(2), parsePrefValue("2"))
	require.Equal(t, "dark", parsePrefValue("dark"))
	require.Equal(t, "09:00", parsePrefValue("09:00"))
}
