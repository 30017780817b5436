package v1

import (
	"github.com/beatoz/beatoz-factory/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"sync"
)

type StateLedger struct {
	commitLedger   *MutableLedger
	imitableLedger *MemLedger

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ IStateLedger = (*StateLedger)(nil)

func NewStateLedger(name, dbDir string, cacheSize int, newItem FuncNewItemFor, lg tmlog.Logger) (*StateLedger, xerrors.XError) {
	_commitLedger, xerr := NewMutableLedger(name, dbDir, cacheSize, newItem, lg)
	if xerr != nil {
		return nil, xerr
	}
	_imitableLedger, xerr := NewMemLedgerAt(_commitLedger.Version(), _commitLedger, lg)
	if xerr != nil {
		_ = _commitLedger.Close()
		return nil, xerr
	}

	return &StateLedger{
		commitLedger:   _commitLedger,
		imitableLedger: _imitableLedger,
		logger:         lg.With("ledger", "StateLedger"),
	}, nil
}

func (ledger *StateLedger) getLedger(exec bool) IImitable {
	if exec {
		return ledger.commitLedger
	}
	return ledger.imitableLedger
}

func (ledger *StateLedger) Version() int64 {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.commitLedger.Version()
}

func (ledger *StateLedger) Get(key LedgerKey, exec bool) (ILedgerItem, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.getLedger(exec).Get(key)
}

func (ledger *StateLedger) Iterate(cb FuncIterate, exec bool) xerrors.XError {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.getLedger(exec).Iterate(cb)
}

func (ledger *StateLedger) Seek(prefix []byte, ascending bool, cb FuncIterate, exec bool) xerrors.XError {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.getLedger(exec).Seek(prefix, ascending, cb)
}

func (ledger *StateLedger) Set(key LedgerKey, item ILedgerItem, exec bool) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	return ledger.getLedger(exec).Set(key, item)
}

func (ledger *StateLedger) Del(key LedgerKey, exec bool) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	return ledger.getLedger(exec).Del(key)
}

func (ledger *StateLedger) Snapshot(exec bool) int {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.getLedger(exec).Snapshot()
}

func (ledger *StateLedger) RevertToSnapshot(snap int, exec bool) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	return ledger.getLedger(exec).RevertToSnapshot(snap)
}

// Commit saves a new version and rebuilds the imitable ledger over it,
// discarding what was simulated on the previous one.
func (ledger *StateLedger) Commit() ([]byte, int64, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	h, v, xerr := ledger.commitLedger.Commit()
	if xerr != nil {
		return nil, 0, xerr
	}

	_imitableLedger, xerr := NewMemLedgerAt(v, ledger.commitLedger, ledger.logger)
	if xerr != nil {
		return nil, 0, xerr
	}
	ledger.imitableLedger = _imitableLedger
	return h, v, nil
}

// Rollback discards the versions after `ver` and rebuilds the imitable ledger over `ver`.
func (ledger *StateLedger) Rollback(ver int64) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if xerr := ledger.commitLedger.Rollback(ver); xerr != nil {
		return xerr
	}
	_imitableLedger, xerr := NewMemLedgerAt(ver, ledger.commitLedger, ledger.logger)
	if xerr != nil {
		return xerr
	}
	ledger.imitableLedger = _imitableLedger
	return nil
}

func (ledger *StateLedger) Close() xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if ledger.commitLedger != nil {
		if xerr := ledger.commitLedger.Close(); xerr != nil {
			return xerr
		}
		ledger.commitLedger = nil
	}
	ledger.imitableLedger = nil
	return nil
}

// ImitableLedgerAt returns the ledger that reads the committed version `height`.
// The changes on the returned ledger are never committed.
// `height` 0 or less means the latest version.
func (ledger *StateLedger) ImitableLedgerAt(height int64) (IImitable, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	if height <= 0 {
		height = ledger.commitLedger.Version()
	}
	return NewMemLedgerAt(height, ledger.commitLedger, ledger.logger)
}

// ImitableState serves IKVState over a single imitable ledger, ignoring `exec`.
type ImitableState struct {
	ledger IImitable
}

var _ IKVState = (*ImitableState)(nil)

func NewImitableState(ledger IImitable) *ImitableState {
	return &ImitableState{ledger: ledger}
}

func (s *ImitableState) Get(key LedgerKey, _ bool) (ILedgerItem, xerrors.XError) {
	return s.ledger.Get(key)
}

func (s *ImitableState) Seek(prefix []byte, ascending bool, cb FuncIterate, _ bool) xerrors.XError {
	return s.ledger.Seek(prefix, ascending, cb)
}

func (s *ImitableState) Set(key LedgerKey, item ILedgerItem, _ bool) xerrors.XError {
	return s.ledger.Set(key, item)
}

func (s *ImitableState) Del(key LedgerKey, _ bool) xerrors.XError {
	return s.ledger.Del(key)
}
