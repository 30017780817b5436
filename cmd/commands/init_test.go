package commands

import (
	"testing"

	cfg "github.com/beatoz/beatoz-factory/cmd/config"
	"github.com/beatoz/beatoz-factory/genesis"
	"github.com/beatoz/beatoz-factory/types"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

func Test_InitFilesWith(t *testing.T) {
	logger = tmlog.NewNopLogger()
	config := cfg.DefaultConfig().SetRoot(t.TempDir())

	gf := &genesis.GenesisFactory{
		Admin:       types.RandAddress(),
		Treasury:    types.RandAddress(),
		BaseFee:     "100",
		MetadataFee: "10",
	}
	require.NoError(t, InitFilesWith("init-test-chain", config, gf))

	loaded, err := cfg.LoadConfig(config.RootDir)
	require.NoError(t, err)
	require.Equal(t, "init-test-chain", loaded.ChainID())

	genDoc, err := genesis.GenesisDocFromFile(config.GenesisFile())
	require.NoError(t, err)
	require.Equal(t, "init-test-chain", genDoc.ChainID)
	require.NotNil(t, genDoc.Factory)
	require.Equal(t, gf.Admin, genDoc.Factory.Admin)
	require.Equal(t, gf.Treasury, genDoc.Factory.Treasury)
	require.Equal(t, "100", genDoc.Factory.BaseFee)
	require.Empty(t, genDoc.Tokens)

	// the existing files are kept.
	require.NoError(t, InitFilesWith("other-chain", config, nil))
	genDoc2, err := genesis.GenesisDocFromFile(config.GenesisFile())
	require.NoError(t, err)
	require.Equal(t, "init-test-chain", genDoc2.ChainID)
	require.NotNil(t, genDoc2.Factory)
}

func Test_InitFilesWith_InvalidFee(t *testing.T) {
	logger = tmlog.NewNopLogger()
	config := cfg.DefaultConfig().SetRoot(t.TempDir())

	gf := &genesis.GenesisFactory{
		Admin:       types.RandAddress(),
		Treasury:    types.RandAddress(),
		BaseFee:     "-1",
		MetadataFee: "0",
	}
	require.Error(t, InitFilesWith("init-test-chain", config, gf))
}
