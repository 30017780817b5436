package types

import (
	"github.com/beatoz/beatoz-factory/types"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	"github.com/holiman/uint256"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type ILedgerHandler interface {
	InitLedger(interface{}) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Query(abcitypes.RequestQuery) ([]byte, xerrors.XError)
	Close() xerrors.XError
}

// ISnapshotHandler is implemented by the handlers whose changes the host
// must be able to discard when a call aborts.
// IVersionedLedger can discard the versions committed after a given one.
type IVersionedLedger interface {
	Version() int64
	Rollback(int64) xerrors.XError
}

type ISnapshotHandler interface {
	Snapshot(bool) int
	RevertToSnapshot(int, bool) xerrors.XError
}

// IAuthorizer verifies that the current call was sanctioned by the given principal.
// It fails with xerrors.ErrAuthRequired.
type IAuthorizer interface {
	RequireAuth(types.Address) xerrors.XError
}

// ITokenHandler is the narrow interface of the external token contracts.
// The first address of each method is the token contract's address.
type ITokenHandler interface {
	Balance(*CallContext, types.Address, types.Address) (*uint256.Int, xerrors.XError)
	// Burn decreases both the holder's balance and the total supply of the token.
	// It fails if the balance is insufficient or the holder has not authorized the call.
	Burn(*CallContext, types.Address, types.Address, *uint256.Int) xerrors.XError
}
