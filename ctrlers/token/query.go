package token

import (
	"github.com/beatoz/beatoz-factory/ctrlers/types"
	"github.com/beatoz/beatoz-factory/libs/jsonx"
	v1 "github.com/beatoz/beatoz-factory/ledger/v1"
	btztypes "github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

// Query reads the token ledger at `req.Height`.
// For "balance", `req.Data` is the token address followed by the holder address.
// For "supply", it is the token address.
func (ctrler *TokenCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	immuLedger, xerr := ctrler.tokenState.ImitableLedgerAt(req.Height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}

	var key v1.LedgerKey
	switch req.Path {
	case "balance":
		if len(req.Data) != btztypes.AddrSize*2 {
			return nil, xerrors.ErrInvalidQueryParams.Wrapf("wrong length of data: %d", len(req.Data))
		}
		key = v1.LedgerKeyBalance(req.Data[:btztypes.AddrSize], req.Data[btztypes.AddrSize:])
	case "supply":
		if !btztypes.IsValidAddress(req.Data) {
			return nil, xerrors.ErrInvalidQueryParams.Wrapf("wrong length of data: %d", len(req.Data))
		}
		key = v1.LedgerKeySupply(req.Data)
	default:
		return nil, xerrors.ErrInvalidQueryPath
	}

	amount := "0"
	if item, xerr := immuLedger.Get(key); xerr == nil {
		amount = item.(*types.AmountItem).Amount.Dec()
	}

	bz, err := jsonx.Marshal(&struct {
		Amount string `json:"amount"`
	}{Amount: amount})
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return bz, nil
}
