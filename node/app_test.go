package node

import (
	"crypto/ecdsa"
	"encoding/binary"
	"strconv"
	"testing"
	"time"

	cfg "github.com/beatoz/beatoz-factory/cmd/config"
	"github.com/beatoz/beatoz-factory/ctrlers/factory"
	ctrlertypes "github.com/beatoz/beatoz-factory/ctrlers/types"
	"github.com/beatoz/beatoz-factory/genesis"
	"github.com/beatoz/beatoz-factory/libs/jsonx"
	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

const testChainID = "app-test-chain"

type testWallet struct {
	prv  *ecdsa.PrivateKey
	addr types.Address
}

func newTestWallet(t *testing.T) *testWallet {
	prv, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	return &testWallet{prv: prv, addr: types.PubKeyToAddress(&prv.PublicKey)}
}

type appFixture struct {
	app    *FactoryApp
	config *cfg.Config
	now    time.Time
	tokenX types.Address
	holder *testWallet
}

// newAppFixture starts from a genesis registering the token X, of which `holder` has 50.
func newAppFixture(t *testing.T) *appFixture {
	config := cfg.DefaultConfig(testChainID).SetRoot(t.TempDir())
	app, err := NewFactoryApp(config, tmlog.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.Close()
	})

	f := &appFixture{
		app:    app,
		config: config,
		now:    time.Unix(1700000000, 0).UTC(),
		tokenX: types.RandAddress(),
		holder: newTestWallet(t),
	}
	app.SetClock(func() time.Time { return f.now })

	genDoc := genesis.NewGenesisDoc(testChainID, nil, &genesis.GenesisToken{
		Address:  f.tokenX,
		Name:     "Token X",
		Symbol:   "X",
		Decimals: 0,
		Creator:  types.RandAddress(),
		Holders: []*genesis.GenesisHolder{
			{Address: f.holder.addr, Balance: uint256.NewInt(50)},
			{Address: types.RandAddress(), Balance: uint256.NewInt(950)},
		},
	})
	_, xerr := app.InitChain(genDoc)
	require.NoError(t, xerr)
	require.Equal(t, int64(1), app.LastHeight())
	return f
}

func (f *appFixture) call(t *testing.T, method string, params interface{}, signers ...*testWallet) *ctrlertypes.Call {
	call, xerr := ctrlertypes.NewCall(testChainID, f.app.CallCount(), method, params)
	require.NoError(t, xerr)
	for _, w := range signers {
		_, xerr = call.SignWith(w.prv)
		require.NoError(t, xerr)
	}
	return call
}

func (f *appFixture) query(t *testing.T, path string, data []byte, resp interface{}) uint32 {
	res := f.app.Query(abcitypes.RequestQuery{Path: path, Data: data})
	if res.Code == abcitypes.CodeTypeOK && resp != nil {
		require.NoError(t, jsonx.Unmarshal(res.Value, resp))
	}
	return res.Code
}

func (f *appFixture) balance(t *testing.T, tokenAddr, holder types.Address) string {
	resp := &struct {
		Amount string `json:"amount"`
	}{}
	require.Equal(t, abcitypes.CodeTypeOK, f.query(t, "token/balance", append(tokenAddr.Copy(), holder...), resp))
	return resp.Amount
}

func (f *appFixture) registrySupply(t *testing.T) string {
	resp := &struct {
		Info *ctrlertypes.TokenInfo `json:"info"`
	}{}
	require.Equal(t, abcitypes.CodeTypeOK, f.query(t, "factory/token", f.tokenX, resp))
	return resp.Info.TotalSupply.Dec()
}

func TestFactoryApp_EndToEnd(t *testing.T) {
	f := newAppFixture(t)
	admin, treasury := newTestWallet(t), newTestWallet(t)

	_, xerr := f.app.Execute(f.call(t, ctrlertypes.METHOD_INITIALIZE, &ctrlertypes.InitializeParams{
		Admin:       admin.addr,
		Treasury:    treasury.addr,
		BaseFee:     "100",
		MetadataFee: "50",
	}), true)
	require.NoError(t, xerr)
	_, _, xerr = f.app.Commit()
	require.NoError(t, xerr)

	state := &struct {
		Admin       types.Address `json:"admin"`
		Treasury    types.Address `json:"treasury"`
		BaseFee     string        `json:"base_fee"`
		MetadataFee string        `json:"metadata_fee"`
		TokenCount  uint32        `json:"token_count"`
	}{}
	require.Equal(t, abcitypes.CodeTypeOK, f.query(t, "factory/state", nil, state))
	require.Equal(t, admin.addr, state.Admin)
	require.Equal(t, treasury.addr, state.Treasury)
	require.Equal(t, "100", state.BaseFee)
	require.Equal(t, "50", state.MetadataFee)
	require.Equal(t, uint32(1), state.TokenCount)

	res, xerr := f.app.Execute(f.call(t, ctrlertypes.METHOD_BURN, &ctrlertypes.BurnParams{
		Token:  f.tokenX,
		From:   f.holder.addr,
		Amount: "30",
	}, f.holder), true)
	require.NoError(t, xerr)
	_, _, xerr = f.app.Commit()
	require.NoError(t, xerr)

	require.Equal(t, "20", f.balance(t, f.tokenX, f.holder.addr))
	require.Equal(t, "970", f.registrySupply(t))

	require.Len(t, res.Events, 1)
	evt := res.Events[0]
	require.Equal(t, factory.EVENT_TYPE_BURN, evt.Type)
	for k, v := range map[string]string{
		ctrlertypes.EVENT_ATTR_TOKEN:     f.tokenX.String(),
		ctrlertypes.EVENT_ATTR_FROM:      f.holder.addr.String(),
		ctrlertypes.EVENT_ATTR_AMOUNT:    "30",
		ctrlertypes.EVENT_ATTR_TIMESTAMP: strconv.FormatInt(f.now.Unix(), 10),
	} {
		val, ok := ctrlertypes.EventAttr(evt, k)
		require.True(t, ok, k)
		require.Equal(t, v, val, k)
	}
}

func TestFactoryApp_BurnZero(t *testing.T) {
	f := newAppFixture(t)

	res, xerr := f.app.Execute(f.call(t, ctrlertypes.METHOD_BURN, &ctrlertypes.BurnParams{
		Token:  f.tokenX,
		From:   f.holder.addr,
		Amount: "0",
	}, f.holder), true)
	require.Nil(t, res)
	require.True(t, xerr.Contains(xerrors.ErrInvalidBurnAmount))

	_, _, xerr = f.app.Commit()
	require.NoError(t, xerr)
	require.Equal(t, "50", f.balance(t, f.tokenX, f.holder.addr))
	require.Equal(t, "1000", f.registrySupply(t))
}

func TestFactoryApp_Unsigned(t *testing.T) {
	f := newAppFixture(t)

	// signed by someone else
	_, xerr := f.app.Execute(f.call(t, ctrlertypes.METHOD_BURN, &ctrlertypes.BurnParams{
		Token:  f.tokenX,
		From:   f.holder.addr,
		Amount: "10",
	}, newTestWallet(t)), true)
	require.True(t, xerr.Contains(xerrors.ErrAuthRequired))

	// signed, then tampered
	signed := f.call(t, ctrlertypes.METHOD_BURN, &ctrlertypes.BurnParams{
		Token:  f.tokenX,
		From:   f.holder.addr,
		Amount: "10",
	}, f.holder)
	call := f.call(t, ctrlertypes.METHOD_BURN, &ctrlertypes.BurnParams{
		Token:  f.tokenX,
		From:   f.holder.addr,
		Amount: "50",
	})
	call.Sigs = signed.Sigs
	_, xerr = f.app.Execute(call, true)
	require.True(t, xerr.Contains(xerrors.ErrAuthRequired))

	require.Equal(t, "50", f.balance(t, f.tokenX, f.holder.addr))
}

func TestFactoryApp_AbortRevertsAll(t *testing.T) {
	f := newAppFixture(t)
	admin := newTestWallet(t)

	_, xerr := f.app.Execute(f.call(t, ctrlertypes.METHOD_INITIALIZE, &ctrlertypes.InitializeParams{
		Admin:       admin.addr,
		Treasury:    admin.addr,
		BaseFee:     "1",
		MetadataFee: "-1",
	}), true)
	require.True(t, xerr.Contains(xerrors.ErrInvalidParameters))

	_, _, xerr = f.app.Commit()
	require.NoError(t, xerr)
	require.Equal(t, xerrors.ErrCodeNotInitialized, f.query(t, "factory/state", nil, nil))

	_, xerr = f.app.Execute(f.call(t, ctrlertypes.METHOD_UPDATE_FEES, &ctrlertypes.UpdateFeesParams{Admin: admin.addr}, admin), true)
	require.Equal(t, xerrors.ErrNotInitialized, xerr)
}

func TestFactoryApp_UpdateFees(t *testing.T) {
	f := newAppFixture(t)
	admin, other := newTestWallet(t), newTestWallet(t)

	_, xerr := f.app.Execute(f.call(t, ctrlertypes.METHOD_INITIALIZE, &ctrlertypes.InitializeParams{
		Admin:       admin.addr,
		Treasury:    admin.addr,
		BaseFee:     "100",
		MetadataFee: "50",
	}), true)
	require.NoError(t, xerr)

	fee := "7"
	_, xerr = f.app.Execute(f.call(t, ctrlertypes.METHOD_UPDATE_FEES, &ctrlertypes.UpdateFeesParams{
		Admin:   other.addr,
		BaseFee: &fee,
	}, other), true)
	require.True(t, xerr.Contains(xerrors.ErrUnauthorized))

	_, xerr = f.app.Execute(f.call(t, ctrlertypes.METHOD_UPDATE_FEES, &ctrlertypes.UpdateFeesParams{
		Admin:   admin.addr,
		BaseFee: &fee,
	}, admin), true)
	require.NoError(t, xerr)
	_, _, xerr = f.app.Commit()
	require.NoError(t, xerr)

	state := &struct {
		BaseFee     string `json:"base_fee"`
		MetadataFee string `json:"metadata_fee"`
	}{}
	require.Equal(t, abcitypes.CodeTypeOK, f.query(t, "factory/state", nil, state))
	require.Equal(t, "7", state.BaseFee)
	require.Equal(t, "50", state.MetadataFee)
}

func TestFactoryApp_Simulation(t *testing.T) {
	f := newAppFixture(t)

	res, xerr := f.app.Execute(f.call(t, ctrlertypes.METHOD_BURN, &ctrlertypes.BurnParams{
		Token:  f.tokenX,
		From:   f.holder.addr,
		Amount: "30",
	}, f.holder), false)
	require.NoError(t, xerr)
	require.Len(t, res.Events, 1)

	_, _, xerr = f.app.Commit()
	require.NoError(t, xerr)
	require.Equal(t, "50", f.balance(t, f.tokenX, f.holder.addr))
	require.Equal(t, "1000", f.registrySupply(t))
}

func TestFactoryApp_InvalidCalls(t *testing.T) {
	f := newAppFixture(t)

	_, xerr := f.app.Execute(f.call(t, "mint", struct{}{}), true)
	require.True(t, xerr.Contains(xerrors.ErrUnknownMethod))

	call := f.call(t, ctrlertypes.METHOD_BURN, &ctrlertypes.BurnParams{})
	call.ChainID = "other-chain"
	_, xerr = f.app.Execute(call, true)
	require.True(t, xerr.Contains(xerrors.ErrInvalidCall))

	call = f.call(t, ctrlertypes.METHOD_BURN, nil)
	call.Params = []byte("{")
	_, xerr = f.app.Execute(call, true)
	require.True(t, xerr.Contains(xerrors.ErrInvalidParams))

	res := f.app.Query(abcitypes.RequestQuery{Path: "unknown"})
	require.Equal(t, xerrors.ErrCodeInvalidQueryPath, res.Code)
}

func TestFactoryApp_Reopen(t *testing.T) {
	f := newAppFixture(t)

	_, xerr := f.app.Execute(f.call(t, ctrlertypes.METHOD_BURN, &ctrlertypes.BurnParams{
		Token:  f.tokenX,
		From:   f.holder.addr,
		Amount: "5",
	}, f.holder), true)
	require.NoError(t, xerr)
	appHash, height, xerr := f.app.Commit()
	require.NoError(t, xerr)
	require.NoError(t, f.app.Close())

	app, err := NewFactoryApp(f.config, tmlog.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.Close()
	})
	f.app = app

	require.Equal(t, height, app.LastHeight())
	require.Equal(t, appHash, []byte(app.LastAppHash()))
	require.Equal(t, "45", f.balance(t, f.tokenX, f.holder.addr))

	res := app.Query(abcitypes.RequestQuery{Path: "call_count"})
	require.Equal(t, uint64(1), binary.BigEndian.Uint64(res.Value))

	_, xerr = app.InitChain(genesis.NewGenesisDoc(testChainID, nil))
	require.True(t, xerr.Contains(xerrors.ErrInitLedger))
}

func TestFactoryApp_Replay(t *testing.T) {
	f := newAppFixture(t)

	bz, xerr := f.call(t, ctrlertypes.METHOD_BURN, &ctrlertypes.BurnParams{
		Token:  f.tokenX,
		From:   f.holder.addr,
		Amount: "20",
	}, f.holder).Encode()
	require.NoError(t, xerr)

	call, xerr := ctrlertypes.DecodeCall(bz)
	require.NoError(t, xerr)
	_, xerr = f.app.Execute(call, true)
	require.NoError(t, xerr)
	_, _, xerr = f.app.Commit()
	require.NoError(t, xerr)

	// the same signed call again
	call, xerr = ctrlertypes.DecodeCall(bz)
	require.NoError(t, xerr)
	_, xerr = f.app.Execute(call, true)
	require.True(t, xerr.Contains(xerrors.ErrInvalidNonce))
	_, xerr = f.app.Execute(call, false)
	require.True(t, xerr.Contains(xerrors.ErrInvalidNonce))
	_, _, xerr = f.app.Commit()
	require.NoError(t, xerr)

	require.Equal(t, "30", f.balance(t, f.tokenX, f.holder.addr))
	require.Equal(t, "980", f.registrySupply(t))

	// a nonce ahead of the call count is rejected too
	call = f.call(t, ctrlertypes.METHOD_BURN, &ctrlertypes.BurnParams{
		Token:  f.tokenX,
		From:   f.holder.addr,
		Amount: "1",
	})
	call.Nonce++
	_, xerr = call.SignWith(f.holder.prv)
	require.NoError(t, xerr)
	_, xerr = f.app.Execute(call, true)
	require.True(t, xerr.Contains(xerrors.ErrInvalidNonce))
}

func TestFactoryApp_RollbackUnpairedCommit(t *testing.T) {
	f := newAppFixture(t)

	_, xerr := f.app.Execute(f.call(t, ctrlertypes.METHOD_BURN, &ctrlertypes.BurnParams{
		Token:  f.tokenX,
		From:   f.holder.addr,
		Amount: "5",
	}, f.holder), true)
	require.NoError(t, xerr)

	// only the factory ledger is saved, as if the token ledger failed to commit.
	_, ver, xerr := f.app.factoryCtrler.Commit()
	require.NoError(t, xerr)
	require.Equal(t, int64(2), ver)
	require.NoError(t, f.app.Close())

	app, err := NewFactoryApp(f.config, tmlog.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.Close()
	})
	f.app = app

	require.Equal(t, int64(1), app.LastHeight())
	require.Equal(t, int64(1), app.factoryCtrler.Version())
	require.Equal(t, int64(1), app.tokenCtrler.Version())
	require.Equal(t, "1000", f.registrySupply(t))

	_, height, xerr := app.Commit()
	require.NoError(t, xerr)
	require.Equal(t, int64(2), height)
}
