package types

import (
	"fmt"
	"math/big"
)

// FeeChange tells whether a fee is replaced and by which value.
// The zero value leaves the fee unchanged.
type FeeChange struct {
	set   bool
	value *big.Int
}

func Unchanged() FeeChange {
	return FeeChange{}
}

func SetTo(v *big.Int) FeeChange {
	return FeeChange{set: true, value: v}
}

func (fc FeeChange) IsSet() bool {
	return fc.set
}

func (fc FeeChange) Value() *big.Int {
	return fc.value
}

func (fc FeeChange) String() string {
	if !fc.set {
		return "unchanged"
	}
	return fmt.Sprintf("set(%v)", fc.value)
}

// FeeUpdate is the request to replace zero, one or both fees.
type FeeUpdate struct {
	BaseFee     FeeChange
	MetadataFee FeeChange
}
