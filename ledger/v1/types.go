package v1

import (
	"github.com/beatoz/beatoz-factory/types/xerrors"
	"github.com/cosmos/iavl"
)

type FuncNewItemFor func(LedgerKey) ILedgerItem
type FuncIterate func(LedgerKey, ILedgerItem) xerrors.XError

type IGettable interface {
	Get(LedgerKey) (ILedgerItem, xerrors.XError)
	Iterate(FuncIterate) xerrors.XError
	Seek([]byte, bool, FuncIterate) xerrors.XError
}

type ISettable interface {
	Set(LedgerKey, ILedgerItem) xerrors.XError
	Del(LedgerKey) xerrors.XError
	Snapshot() int
	RevertToSnapshot(int) xerrors.XError
}

type ICommittable interface {
	Commit() ([]byte, int64, xerrors.XError)
}

type IImitable interface {
	IGettable
	ISettable
}

type IMutable interface {
	IGettable
	ISettable
	ICommittable
	Version() int64
	GetReadOnlyTree(int64) (*iavl.ImmutableTree, xerrors.XError)
	Rollback(int64) xerrors.XError
	Close() xerrors.XError
}

// IKVState reads and writes items on either the committable ledger or the imitable one.
type IKVState interface {
	Get(LedgerKey, bool) (ILedgerItem, xerrors.XError)
	Seek([]byte, bool, FuncIterate, bool) xerrors.XError
	Set(LedgerKey, ILedgerItem, bool) xerrors.XError
	Del(LedgerKey, bool) xerrors.XError
}

// IStateLedger routes every access either to the committable ledger (`exec` is true)
// or to the in-memory ledger built over the last committed version (`exec` is false).
type IStateLedger interface {
	Version() int64
	Get(LedgerKey, bool) (ILedgerItem, xerrors.XError)
	Iterate(FuncIterate, bool) xerrors.XError
	Seek([]byte, bool, FuncIterate, bool) xerrors.XError
	Set(LedgerKey, ILedgerItem, bool) xerrors.XError
	Del(LedgerKey, bool) xerrors.XError
	Snapshot(bool) int
	RevertToSnapshot(int, bool) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Rollback(int64) xerrors.XError
	Close() xerrors.XError
	ImitableLedgerAt(int64) (IImitable, xerrors.XError)
}

type ILedgerItem interface {
	Encode() ([]byte, xerrors.XError)
	Decode([]byte) xerrors.XError
}

type LedgerKey = []byte
