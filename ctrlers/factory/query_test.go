package factory

import (
	"testing"

	"github.com/beatoz/beatoz-factory/libs/jsonx"
	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	"github.com/stretchr/testify/require"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

func TestQuery(t *testing.T) {
	ctrler := newTestCtrler(t)

	_, xerr := ctrler.Query(abcitypes.RequestQuery{Path: "state"})
	require.Equal(t, xerrors.ErrNotInitialized, xerr)

	admin, treasury := types.RandAddress(), types.RandAddress()
	initialize(t, ctrler, admin, treasury, 100, 50)
	tokens := registerTokens(t, ctrler, 2)
	_, _, xerr = ctrler.Commit()
	require.NoError(t, xerr)

	bz, xerr := ctrler.Query(abcitypes.RequestQuery{Path: "state"})
	require.NoError(t, xerr)
	st := &stateResponse{}
	require.NoError(t, jsonx.Unmarshal(bz, st))
	require.Equal(t, admin, st.Admin)
	require.Equal(t, treasury, st.Treasury)
	require.Equal(t, "100", st.BaseFee)
	require.Equal(t, "50", st.MetadataFee)
	require.Equal(t, uint32(2), st.TokenCount)

	bz, xerr = ctrler.Query(abcitypes.RequestQuery{Path: "token_count"})
	require.NoError(t, xerr)
	require.Equal(t, "2", string(bz))

	bz, xerr = ctrler.Query(abcitypes.RequestQuery{Path: "token_info", Data: []byte("1")})
	require.NoError(t, xerr)
	tr := &tokenResponse{}
	require.NoError(t, jsonx.Unmarshal(bz, tr))
	require.Equal(t, uint32(1), tr.Index)
	require.Equal(t, tokens[1].Address, tr.Info.Address)
	require.Equal(t, "1", tr.FormattedSupply) // 1000 with 3 decimals

	bz, xerr = ctrler.Query(abcitypes.RequestQuery{Path: "token", Data: tokens[0].Address})
	require.NoError(t, xerr)
	require.NoError(t, jsonx.Unmarshal(bz, tr))
	require.Equal(t, uint32(0), tr.Index)

	bz, xerr = ctrler.Query(abcitypes.RequestQuery{Path: "tokens"})
	require.NoError(t, xerr)
	var trs []*tokenResponse
	require.NoError(t, jsonx.Unmarshal(bz, &trs))
	require.Len(t, trs, 2)

	_, xerr = ctrler.Query(abcitypes.RequestQuery{Path: "token_info", Data: []byte("2")})
	require.True(t, xerr.Contains(xerrors.ErrTokenNotFound))
	_, xerr = ctrler.Query(abcitypes.RequestQuery{Path: "token_info", Data: []byte("x")})
	require.True(t, xerr.Contains(xerrors.ErrInvalidQueryParams))
	_, xerr = ctrler.Query(abcitypes.RequestQuery{Path: "unknown"})
	require.Equal(t, xerrors.ErrInvalidQueryPath, xerr)
}
