package mocks

import (
	"time"

	ctrlertypes "github.com/beatoz/beatoz-factory/ctrlers/types"
	"github.com/beatoz/beatoz-factory/types"
)

var currHeight int64

// NewCallCtx returns the context of a call authorized by `signers`,
// at the next height and at the current time.
func NewCallCtx(exec bool, token ctrlertypes.ITokenHandler, signers ...types.Address) *ctrlertypes.CallContext {
	currHeight++
	return ctrlertypes.NewCallContext(
		"mocks-chain", currHeight, time.Now(), exec, nil,
		ctrlertypes.NewAuthorizedSigners(signers...), token)
}

// NewCallCtxAt is like NewCallCtx but fixes the height and the time.
func NewCallCtxAt(height int64, tm time.Time, exec bool, token ctrlertypes.ITokenHandler, signers ...types.Address) *ctrlertypes.CallContext {
	return ctrlertypes.NewCallContext(
		"mocks-chain", height, tm, exec, nil,
		ctrlertypes.NewAuthorizedSigners(signers...), token)
}
