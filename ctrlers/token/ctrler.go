package token

import (
	"sync"

	cfg "github.com/beatoz/beatoz-factory/cmd/config"
	ctrlertypes "github.com/beatoz/beatoz-factory/ctrlers/types"
	"github.com/beatoz/beatoz-factory/genesis"
	v1 "github.com/beatoz/beatoz-factory/ledger/v1"
	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	"github.com/holiman/uint256"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// TokenCtrler keeps the balances and the total supply of every fungible token
// hosted with the factory. It serves the factory as its token contracts.
type TokenCtrler struct {
	tokenState v1.IStateLedger

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewTokenCtrler(config *cfg.Config, logger tmlog.Logger) (*TokenCtrler, xerrors.XError) {
	lg := logger.With("module", "factory_TokenCtrler")

	_state, xerr := v1.NewStateLedger("tokens", config.DBDir(), config.CacheSize, func(key v1.LedgerKey) v1.ILedgerItem { return &ctrlertypes.AmountItem{} }, lg)
	if xerr != nil {
		return nil, xerr
	}
	return &TokenCtrler{
		tokenState: _state,
		logger:     lg,
	}, nil
}

func (ctrler *TokenCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genDoc, ok := req.(*genesis.GenesisDoc)
	if !ok {
		return xerrors.ErrInitLedger.Wrapf("wrong parameter: TokenCtrler::InitLedger requires *genesis.GenesisDoc")
	}

	for _, gt := range genDoc.Tokens {
		for _, holder := range gt.Holders {
			if xerr := ctrler.mint(gt.Address, holder.Address, holder.Balance, true); xerr != nil {
				return xerrors.ErrInitLedger.Wrap(xerr)
			}
		}
	}
	return nil
}

func (ctrler *TokenCtrler) Balance(ctx *ctrlertypes.CallContext, tokenAddr, holder types.Address) (*uint256.Int, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.getAmount(v1.LedgerKeyBalance(tokenAddr, holder), ctx.Exec), nil
}

func (ctrler *TokenCtrler) TotalSupply(tokenAddr types.Address, exec bool) *uint256.Int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.getAmount(v1.LedgerKeySupply(tokenAddr), exec)
}

// Burn decreases the balance of `holder` and the total supply together.
// `holder` must have authorized the call.
func (ctrler *TokenCtrler) Burn(ctx *ctrlertypes.CallContext, tokenAddr, holder types.Address, amt *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if xerr := ctx.RequireAuth(holder); xerr != nil {
		return xerr
	}

	balKey := v1.LedgerKeyBalance(tokenAddr, holder)
	bal := ctrler.getAmount(balKey, ctx.Exec)
	if bal.Lt(amt) {
		return xerrors.ErrInsufficientFund.Wrapf("balance: %v, amount: %v", bal.Dec(), amt.Dec())
	}
	supplyKey := v1.LedgerKeySupply(tokenAddr)
	supply := ctrler.getAmount(supplyKey, ctx.Exec)
	if supply.Lt(amt) {
		return xerrors.ErrInsufficientFund.Wrapf("supply: %v, amount: %v", supply.Dec(), amt.Dec())
	}

	if xerr := ctrler.tokenState.Set(balKey, ctrlertypes.NewAmountItem(new(uint256.Int).Sub(bal, amt)), ctx.Exec); xerr != nil {
		return xerr
	}
	return ctrler.tokenState.Set(supplyKey, ctrlertypes.NewAmountItem(new(uint256.Int).Sub(supply, amt)), ctx.Exec)
}

// Mint increases the balance of `holder` and the total supply together.
func (ctrler *TokenCtrler) Mint(tokenAddr, holder types.Address, amt *uint256.Int, exec bool) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.mint(tokenAddr, holder, amt, exec)
}

func (ctrler *TokenCtrler) mint(tokenAddr, holder types.Address, amt *uint256.Int, exec bool) xerrors.XError {
	balKey := v1.LedgerKeyBalance(tokenAddr, holder)
	bal, overflow := new(uint256.Int).AddOverflow(ctrler.getAmount(balKey, exec), amt)
	if overflow {
		return xerrors.ErrOverFlow.Wrapf("balance of %v", holder)
	}
	supplyKey := v1.LedgerKeySupply(tokenAddr)
	supply, overflow := new(uint256.Int).AddOverflow(ctrler.getAmount(supplyKey, exec), amt)
	if overflow {
		return xerrors.ErrOverFlow.Wrapf("supply of %v", tokenAddr)
	}

	if xerr := ctrler.tokenState.Set(balKey, ctrlertypes.NewAmountItem(bal), exec); xerr != nil {
		return xerr
	}
	return ctrler.tokenState.Set(supplyKey, ctrlertypes.NewAmountItem(supply), exec)
}

func (ctrler *TokenCtrler) getAmount(key v1.LedgerKey, exec bool) *uint256.Int {
	item, xerr := ctrler.tokenState.Get(key, exec)
	if xerr != nil {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Set(item.(*ctrlertypes.AmountItem).Amount)
}

func (ctrler *TokenCtrler) Snapshot(exec bool) int {
	return ctrler.tokenState.Snapshot(exec)
}

func (ctrler *TokenCtrler) RevertToSnapshot(snap int, exec bool) xerrors.XError {
	return ctrler.tokenState.RevertToSnapshot(snap, exec)
}

func (ctrler *TokenCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h, v, xerr := ctrler.tokenState.Commit()
	if xerr != nil {
		return nil, 0, xerrors.ErrCommit.Wrap(xerr)
	}
	return h, v, nil
}

func (ctrler *TokenCtrler) Version() int64 {
	return ctrler.tokenState.Version()
}

func (ctrler *TokenCtrler) Rollback(ver int64) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.tokenState.Rollback(ver)
}

func (ctrler *TokenCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.tokenState != nil {
		if xerr := ctrler.tokenState.Close(); xerr != nil {
			ctrler.logger.Error("tokenState.Close() returns error", "error", xerr.Error())
		}
		ctrler.logger.Debug("close ledgers")
		ctrler.tokenState = nil
	}
	return nil
}

var _ ctrlertypes.ILedgerHandler = (*TokenCtrler)(nil)
var _ ctrlertypes.ISnapshotHandler = (*TokenCtrler)(nil)
var _ ctrlertypes.ITokenHandler = (*TokenCtrler)(nil)
