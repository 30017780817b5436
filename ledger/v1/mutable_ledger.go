package v1

import (
	"bytes"
	"github.com/beatoz/beatoz-factory/types/xerrors"
	"github.com/cosmos/iavl"
	dbm "github.com/cosmos/iavl/db"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"sync"
	"unsafe"
)

type MutableLedger struct {
	db         dbm.DB
	tree       *iavl.MutableTree
	revisions  *revisionList[[]byte]
	cachedObjs map[string]ILedgerItem

	newItemFor FuncNewItemFor
	cacheSize  int

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewMutableLedger(name, dbDir string, cacheSize int, newItem FuncNewItemFor, lg tmlog.Logger) (*MutableLedger, xerrors.XError) {
	db, err := dbm.NewGoLevelDB(name, dbDir)
	if err != nil {
		return nil, xerrors.Wrap(err, "goleveldb open failed")
	}

	tree := iavl.NewMutableTree(db, cacheSize, false, iavl.NewNopLogger(), iavl.SyncOption(true))
	if _, err := tree.LoadVersion(0); err != nil {
		_ = tree.Close()
		return nil, xerrors.Wrap(err, "tree's LoadVersion failed")
	}

	return &MutableLedger{
		db:         db,
		tree:       tree,
		revisions:  newRevisionList[[]byte](),
		cachedObjs: make(map[string]ILedgerItem),
		newItemFor: newItem,
		cacheSize:  cacheSize,
		logger:     lg.With("ledger", "MutableLedger"),
	}, nil
}

func (ledger *MutableLedger) NewItemFor() FuncNewItemFor {
	return ledger.newItemFor
}

func (ledger *MutableLedger) Get(key LedgerKey) (ILedgerItem, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	keystr := unsafe.String(&key[0], len(key))
	if obj, ok := ledger.cachedObjs[keystr]; ok {
		return obj, nil
	}

	item, xerr := ledger.get(key)
	if xerr != nil {
		return nil, xerr
	}
	ledger.cachedObjs[string(key)] = item
	return item, nil
}

func (ledger *MutableLedger) get(key LedgerKey) (ILedgerItem, xerrors.XError) {
	if bz, err := ledger.tree.Get(key); err != nil {
		return nil, xerrors.From(err)
	} else if bz == nil {
		return nil, xerrors.ErrNotFoundResult
	} else {
		item := ledger.newItemFor(key)
		if xerr := item.Decode(bz); xerr != nil {
			return nil, xerr
		}
		return item, nil
	}
}

func (ledger *MutableLedger) Iterate(cb FuncIterate) xerrors.XError {
	return ledger.Seek(nil, true, cb)
}

func (ledger *MutableLedger) Seek(prefix []byte, ascending bool, cb FuncIterate) xerrors.XError {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	iter, err := ledger.tree.Iterator(prefix, prefixEnd(prefix), ascending)
	if err != nil {
		return xerrors.From(err)
	}
	defer func() {
		_ = iter.Close()
	}()

	for ; iter.Valid(); iter.Next() {
		key := iter.Key()
		if !bytes.HasPrefix(key, prefix) {
			break
		}

		// the callee must not update the ledger while iterating.
		item := ledger.newItemFor(key)
		if xerr := item.Decode(iter.Value()); xerr != nil {
			return xerr
		}
		if xerr := cb(key, item); xerr != nil {
			return xerr
		}
	}

	return nil
}

func (ledger *MutableLedger) Set(key LedgerKey, item ILedgerItem) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if xerr := ledger.set(key, item); xerr != nil {
		return xerr
	}

	ledger.cachedObjs[string(key)] = item
	return nil
}

func (ledger *MutableLedger) set(key LedgerKey, item ILedgerItem) xerrors.XError {
	oldVal, err := ledger.tree.Get(key)
	if err != nil {
		return xerrors.From(err)
	}
	newVal, xerr := item.Encode()
	if xerr != nil {
		return xerr
	}

	_, err = ledger.tree.Set(key, newVal)
	if err != nil {
		return xerrors.From(err)
	}

	ledger.logger.Debug("set item to tree", "key", key, "oldVal", oldVal, "newVal", newVal)

	if !bytes.Equal(oldVal, newVal) {
		// if `oldVal` is `nil`, the item is created, and it should be removed in reverting.
		// otherwise, `oldVal` will be restored in reverting.
		ledger.revisions.set(key, oldVal, oldVal != nil)
	}
	return nil
}

func (ledger *MutableLedger) Del(key LedgerKey) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	oldVal, removed, err := ledger.tree.Remove(key)
	if err != nil {
		return xerrors.From(err)
	}
	ledger.logger.Debug("delete item from tree", "key", key, "value", oldVal, "removed", removed)

	if removed {
		// In reverting, `oldVal` will be restored.
		ledger.revisions.set(key, oldVal, true)
	}

	delete(ledger.cachedObjs, string(key))
	return nil
}

func (ledger *MutableLedger) Snapshot() int {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.revisions.snapshot()
}

func (ledger *MutableLedger) RevertToSnapshot(snap int) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	restores := ledger.revisions.since(snap)
	for i := len(restores) - 1; i >= 0; i-- {
		kv := restores[i]
		if kv.existed {
			if _, err := ledger.tree.Set(kv.key, kv.val); err != nil {
				return xerrors.From(err)
			}
		} else {
			if _, _, err := ledger.tree.Remove(kv.key); err != nil {
				return xerrors.From(err)
			}
		}
		delete(ledger.cachedObjs, string(kv.key))
	}
	ledger.revisions.revert(snap)
	return nil
}

func (ledger *MutableLedger) Commit() ([]byte, int64, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.tree.SetCommitting()
	defer ledger.tree.UnsetCommitting()

	r1, r2, err := ledger.tree.SaveVersion()
	if err != nil {
		return r1, r2, xerrors.From(err)
	}

	ledger.logger.Debug("tree save version", "hash", r1, "version", r2)

	ledger.revisions.reset()
	ledger.cachedObjs = make(map[string]ILedgerItem)
	return r1, r2, nil
}

// Rollback deletes every version after `ver` and makes `ver` the working version.
func (ledger *MutableLedger) Rollback(ver int64) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if ver <= 0 || ver > ledger.tree.Version() {
		return xerrors.ErrCommon.Wrapf("can not roll back to version %d (latest: %d)", ver, ledger.tree.Version())
	}
	if err := ledger.tree.LoadVersionForOverwriting(ver); err != nil {
		return xerrors.From(err)
	}

	ledger.logger.Info("tree rollback", "version", ver)

	ledger.revisions.reset()
	ledger.cachedObjs = make(map[string]ILedgerItem)
	return nil
}

func (ledger *MutableLedger) Version() int64 {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.tree.Version()
}

// GetReadOnlyTree returns nil without error for the version 0, which means the empty tree.
func (ledger *MutableLedger) GetReadOnlyTree(ver int64) (*iavl.ImmutableTree, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	if ver == 0 {
		return nil, nil
	}
	tree, err := ledger.tree.GetImmutable(ver)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return tree, nil
}

func (ledger *MutableLedger) Close() xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if ledger.tree != nil {
		if err := ledger.tree.Close(); err != nil {
			return xerrors.From(err)
		}
	}
	ledger.tree = nil

	if ledger.db != nil {
		if err := ledger.db.Close(); err != nil {
			return xerrors.From(err)
		}
	}
	ledger.db = nil

	ledger.revisions.reset()

	return nil
}

var _ IMutable = (*MutableLedger)(nil)
