package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "obs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"rpc": {"listen_on": "[::1]:51000"},
		"exchanges": [{"name": "binance", "enable": true}]
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "[::1]:51000", cfg.RPC.ListenOn)
	require.Equal(t, 10, cfg.Depth.Levels) // inherited from Default()
	require.Len(t, cfg.Exchanges, 1)
	require.Equal(t, "binance", cfg.Exchanges[0].Name)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/path/obs.json")
	require.Error(t, err)
}
