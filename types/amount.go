package types

import (
	"fmt"
	"math/big"

	"github.com/beatoz/beatoz-factory/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// ParseAmount parses a signed decimal integer.
// A negative value is accepted here; it is the callee's business to reject it.
func ParseAmount(s string) (*big.Int, error) {
	amt, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %q", s)
	}
	return amt, nil
}

// ToUint256 converts a non-negative amount.
func ToUint256(amt *big.Int) (*uint256.Int, xerrors.XError) {
	if amt == nil || amt.Sign() < 0 {
		return nil, xerrors.ErrInvalidParameters.Wrapf("negative amount: %v", amt)
	}
	ret, overflow := uint256.FromBig(amt)
	if overflow {
		return nil, xerrors.ErrOverFlow.Wrapf("amount: %v", amt)
	}
	return ret, nil
}

// FormattedAmount renders `amt` in whole token units, e.g. 1500 with 3 decimals is "1.5".
func FormattedAmount(amt *uint256.Int, decimals uint32) string {
	if amt == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amt.ToBig(), -int32(decimals)).String()
}
