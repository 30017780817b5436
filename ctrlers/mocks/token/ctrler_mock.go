package token

import (
	ctrlertypes "github.com/beatoz/beatoz-factory/ctrlers/types"
	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	"github.com/holiman/uint256"
)

type burnRecord struct {
	Token  types.Address
	Holder types.Address
	Amount *uint256.Int
}

// TokenHandlerMock is an in-memory ITokenHandler.
// BalanceErr and BurnErr, if set, are returned by Balance and Burn.
type TokenHandlerMock struct {
	balances map[string]*uint256.Int
	supplies map[string]*uint256.Int

	BalanceErr xerrors.XError
	BurnErr    xerrors.XError

	BalanceCalls int
	Burns        []burnRecord
}

var _ ctrlertypes.ITokenHandler = (*TokenHandlerMock)(nil)

func NewTokenHandlerMock() *TokenHandlerMock {
	return &TokenHandlerMock{
		balances: make(map[string]*uint256.Int),
		supplies: make(map[string]*uint256.Int),
	}
}

func balanceKey(tokenAddr, holder types.Address) string {
	return tokenAddr.String() + "/" + holder.String()
}

func (mock *TokenHandlerMock) Mint(tokenAddr, holder types.Address, amt *uint256.Int) {
	k := balanceKey(tokenAddr, holder)
	bal, ok := mock.balances[k]
	if !ok {
		bal = uint256.NewInt(0)
	}
	mock.balances[k] = new(uint256.Int).Add(bal, amt)

	supply, ok := mock.supplies[tokenAddr.String()]
	if !ok {
		supply = uint256.NewInt(0)
	}
	mock.supplies[tokenAddr.String()] = new(uint256.Int).Add(supply, amt)
}

func (mock *TokenHandlerMock) BalanceOf(tokenAddr, holder types.Address) *uint256.Int {
	if bal, ok := mock.balances[balanceKey(tokenAddr, holder)]; ok {
		return new(uint256.Int).Set(bal)
	}
	return uint256.NewInt(0)
}

func (mock *TokenHandlerMock) SupplyOf(tokenAddr types.Address) *uint256.Int {
	if supply, ok := mock.supplies[tokenAddr.String()]; ok {
		return new(uint256.Int).Set(supply)
	}
	return uint256.NewInt(0)
}

//
// ITokenHandler interfaces

func (mock *TokenHandlerMock) Balance(_ *ctrlertypes.CallContext, tokenAddr, holder types.Address) (*uint256.Int, xerrors.XError) {
	mock.BalanceCalls++
	if mock.BalanceErr != nil {
		return nil, mock.BalanceErr
	}
	return mock.BalanceOf(tokenAddr, holder), nil
}

func (mock *TokenHandlerMock) Burn(ctx *ctrlertypes.CallContext, tokenAddr, holder types.Address, amt *uint256.Int) xerrors.XError {
	if mock.BurnErr != nil {
		return mock.BurnErr
	}
	if xerr := ctx.RequireAuth(holder); xerr != nil {
		return xerr
	}

	bal := mock.BalanceOf(tokenAddr, holder)
	if bal.Lt(amt) {
		return xerrors.ErrInsufficientFund
	}
	mock.balances[balanceKey(tokenAddr, holder)] = new(uint256.Int).Sub(bal, amt)
	mock.supplies[tokenAddr.String()] = new(uint256.Int).Sub(mock.SupplyOf(tokenAddr), amt)
	mock.Burns = append(mock.Burns, burnRecord{Token: tokenAddr, Holder: holder, Amount: new(uint256.Int).Set(amt)})
	return nil
}
