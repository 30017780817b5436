package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Default(t *testing.T) {
	home := t.TempDir()

	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, home, cfg.RootDir)
	require.Equal(t, DefaultChainID, cfg.ChainID())
	require.Equal(t, DefaultCacheSize, cfg.CacheSize)
	require.Equal(t, filepath.Join(home, "data"), cfg.DBDir())
}

func TestWriteAndLoadConfig(t *testing.T) {
	home := t.TempDir()

	cfg := DefaultConfig("test-chain").SetRoot(home)
	cfg.CacheSize = 123
	cfg.LogLevel = "debug"
	require.NoError(t, WriteConfigFile(cfg))

	_, err := os.Stat(ConfigFilePath(home))
	require.NoError(t, err)

	loaded, err := LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, "test-chain", loaded.ChainID())
	require.Equal(t, 123, loaded.CacheSize)
	require.Equal(t, "debug", loaded.LogLevel)
}

func TestLoadConfig_Env(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, WriteConfigFile(DefaultConfig("file-chain").SetRoot(home)))

	t.Setenv("FACTORY_CHAIN_ID", "env-chain")
	loaded, err := LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, "env-chain", loaded.ChainID())
}
