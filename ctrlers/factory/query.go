package factory

import (
	"strconv"

	ctrlertypes "github.com/beatoz/beatoz-factory/ctrlers/types"
	"github.com/beatoz/beatoz-factory/libs/jsonx"
	v1 "github.com/beatoz/beatoz-factory/ledger/v1"
	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type stateResponse struct {
	Admin       types.Address `json:"admin"`
	Treasury    types.Address `json:"treasury"`
	BaseFee     string        `json:"base_fee"`
	MetadataFee string        `json:"metadata_fee"`
	TokenCount  uint32        `json:"token_count"`
}

type tokenResponse struct {
	Index           uint32                 `json:"index"`
	Info            *ctrlertypes.TokenInfo `json:"info"`
	FormattedSupply string                 `json:"formatted_supply"`
}

func newTokenResponse(idx uint32, ti *ctrlertypes.TokenInfo) *tokenResponse {
	return &tokenResponse{
		Index:           idx,
		Info:            ti,
		FormattedSupply: types.FormattedAmount(ti.TotalSupply, ti.Decimals),
	}
}

// Query reads the factory at the committed height `req.Height`.
//
//	state        the factory state
//	token_count  the number of registered tokens
//	token_info   the token at the index in `req.Data` (decimal string)
//	token        the token of the address in `req.Data`
//	tokens       all registered tokens
func (ctrler *FactoryCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	immuLedger, xerr := ctrler.factoryState.ImitableLedgerAt(req.Height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}
	store := NewFactoryStore(v1.NewImitableState(immuLedger))

	var resp interface{}
	switch req.Path {
	case "state":
		st := store.GetFactoryState(false)
		if !st.IsInitialized() {
			return nil, xerrors.ErrNotInitialized
		}
		resp = &stateResponse{
			Admin:       st.Admin,
			Treasury:    st.Treasury,
			BaseFee:     st.BaseFee.Dec(),
			MetadataFee: st.MetadataFee.Dec(),
			TokenCount:  st.TokenCount,
		}
	case "token_count":
		resp = store.GetTokenCount(false)
	case "token_info":
		idx, err := strconv.ParseUint(string(req.Data), 10, 32)
		if err != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
		}
		ti, ok := store.GetTokenInfo(uint32(idx), false)
		if !ok {
			return nil, xerrors.ErrTokenNotFound.Wrapf("index: %d", idx)
		}
		resp = newTokenResponse(uint32(idx), ti)
	case "token":
		if !types.IsValidAddress(req.Data) {
			return nil, xerrors.ErrInvalidQueryParams.Wrapf("address: %X", req.Data)
		}
		ti, idx, ok := store.FindTokenInfo(req.Data, false)
		if !ok {
			return nil, xerrors.ErrTokenNotFound.Wrapf("address: %X", req.Data)
		}
		resp = newTokenResponse(idx, ti)
	case "tokens":
		var tokens []*tokenResponse
		if xerr := store.IterateTokenInfos(func(idx uint32, ti *ctrlertypes.TokenInfo) xerrors.XError {
			tokens = append(tokens, newTokenResponse(idx, ti))
			return nil
		}, false); xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		resp = tokens
	default:
		return nil, xerrors.ErrInvalidQueryPath
	}

	bz, err := jsonx.Marshal(resp)
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return bz, nil
}
