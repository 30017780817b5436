package factory

import (
	"math/big"
	"strconv"

	ctrlertypes "github.com/beatoz/beatoz-factory/ctrlers/types"
	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	"github.com/holiman/uint256"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const EVENT_TYPE_BURN = "burn"

// Burn destroys `amount` of the token held by `from` and reduces the registry supply.
// The balance is checked before the token burns,
// and the registry is updated only after the token burned successfully.
func (ctrler *FactoryCtrler) Burn(ctx *ctrlertypes.CallContext, tokenAddr, from types.Address, amount *big.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if xerr := ctx.RequireAuth(from); xerr != nil {
		return xerr
	}

	if amount == nil || amount.Sign() <= 0 {
		return xerrors.ErrInvalidBurnAmount.Wrapf("amount: %v", amount)
	}
	amt, overflow := uint256.FromBig(amount)
	if overflow {
		return xerrors.ErrBurnAmountExceedsBalance.Wrapf("amount: %v", amount)
	}

	if ctx.TokenHandler == nil {
		return xerrors.ErrCall.Wrapf("no token handler")
	}
	balance, xerr := ctx.TokenHandler.Balance(ctx, tokenAddr, from)
	if xerr != nil {
		return xerr
	}
	if balance.Lt(amt) {
		return xerrors.ErrBurnAmountExceedsBalance.Wrapf("balance: %v, amount: %v", balance.Dec(), amt.Dec())
	}

	if xerr := ctx.TokenHandler.Burn(ctx, tokenAddr, from, amt); xerr != nil {
		return xerr
	}

	updated, xerr := ctrler.store.UpdateTokenSupply(tokenAddr, new(big.Int).Neg(amount), ctx.Exec)
	if xerr != nil {
		return xerr
	}
	if !updated {
		ctrler.logger.Debug("burn of unregistered token", "token", tokenAddr)
	}

	ctx.EmitEvent(abcitypes.Event{
		Type: EVENT_TYPE_BURN,
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_TOKEN), Value: []byte(tokenAddr.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_FROM), Value: []byte(from.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_AMOUNT), Value: []byte(amt.Dec()), Index: false},
			{Key: []byte(ctrlertypes.EVENT_ATTR_TIMESTAMP), Value: []byte(strconv.FormatUint(ctx.Timestamp(), 10)), Index: false},
		},
	})

	ctrler.logger.Debug("burn", "token", tokenAddr, "from", from, "amount", amt.Dec(), "height", ctx.Height)
	return nil
}
