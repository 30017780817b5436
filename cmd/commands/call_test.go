package commands

import (
	"testing"

	cfg "github.com/beatoz/beatoz-factory/cmd/config"
	"github.com/beatoz/beatoz-factory/node"
	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/crypto"
	"github.com/stretchr/testify/require"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

func Test_InitializeAndUpdateFees(t *testing.T) {
	logger = tmlog.NewNopLogger()
	rootConfig = cfg.DefaultConfig().SetRoot(t.TempDir())
	require.NoError(t, InitFilesWith("call-test-chain", rootConfig, nil))

	t.Setenv(EnvKeySecret, "1111")
	wk, err := crypto.NewWalletKeyFile(t.TempDir(), []byte("1111"))
	require.NoError(t, err)
	treasury := types.RandAddress()

	cmd := NewInitializeCmd()
	cmd.SetArgs([]string{"--key", wk.Path, "--treasury", treasury.String(), "--base_fee", "100", "--metadata_fee", "10"})
	require.NoError(t, cmd.Execute())

	cmd = NewUpdateFeesCmd()
	cmd.SetArgs([]string{"--key", wk.Path, "--metadata_fee", "20"})
	require.NoError(t, cmd.Execute())

	// the second initialize fails and changes nothing.
	cmd = NewInitializeCmd()
	cmd.SetArgs([]string{"--key", wk.Path, "--treasury", types.RandAddress().String()})
	require.Error(t, cmd.Execute())

	app, err := node.NewFactoryApp(rootConfig, logger)
	require.NoError(t, err)
	defer func() { require.NoError(t, app.Close()) }()

	resp := app.Query(abcitypes.RequestQuery{Path: "factory/state"})
	require.Equal(t, abcitypes.CodeTypeOK, resp.Code, resp.Log)
	require.Contains(t, string(resp.Value), wk.Address().String())
	require.Contains(t, string(resp.Value), treasury.String())
	require.Contains(t, string(resp.Value), `"100"`)
	require.Contains(t, string(resp.Value), `"20"`)
}

func Test_AddressOrSigner(t *testing.T) {
	signer := types.RandAddress()

	addr, err := addressOrSigner("", signer)
	require.NoError(t, err)
	require.Equal(t, signer, addr)

	other := types.RandAddress()
	addr, err = addressOrSigner("0x"+other.String(), signer)
	require.NoError(t, err)
	require.Equal(t, other, addr)

	_, err = addressOrSigner("0x1234", signer)
	require.Error(t, err)
}
