package v1

import (
	"bytes"
	"sort"
	"sync"

	"github.com/beatoz/beatoz-factory/types/xerrors"
	"github.com/cosmos/iavl"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// MemLedger cannot be committed, everything else is like MutableLedger.
// It reads through to the immutable tree of a committed version and keeps its changes in memory.
type MemLedger struct {
	immuTree   *iavl.ImmutableTree
	items      map[string]ILedgerItem
	revisions  *revisionList[ILedgerItem]
	newItemFor FuncNewItemFor
	logger     tmlog.Logger
	mtx        sync.RWMutex
}

var _ IImitable = (*MemLedger)(nil)

func NewMemLedgerAt(ver int64, from *MutableLedger, lg tmlog.Logger) (*MemLedger, xerrors.XError) {
	tree, xerr := from.GetReadOnlyTree(ver)
	if xerr != nil {
		return nil, xerr
	}

	return &MemLedger{
		immuTree:   tree,
		items:      make(map[string]ILedgerItem),
		revisions:  newRevisionList[ILedgerItem](),
		newItemFor: from.NewItemFor(),
		logger:     lg.With("ledger", "MemLedger"),
	}, nil
}

func (ledger *MemLedger) Get(key LedgerKey) (ILedgerItem, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	return ledger.get(key)
}

func (ledger *MemLedger) get(key LedgerKey) (ILedgerItem, xerrors.XError) {
	item, ok := ledger.items[string(key)]
	if ok {
		if item == nil {
			// the item was deleted on MemLedger.
			return nil, xerrors.ErrNotFoundResult
		}
		return item, nil
	}

	if ledger.immuTree == nil {
		return nil, xerrors.ErrNotFoundResult
	}

	bz, err := ledger.immuTree.Get(key)
	if err != nil {
		return nil, xerrors.From(err)
	} else if bz == nil {
		return nil, xerrors.ErrNotFoundResult
	}

	item = ledger.newItemFor(key)
	if xerr := item.Decode(bz); xerr != nil {
		return nil, xerr
	}
	return item, nil
}

func (ledger *MemLedger) Iterate(cb FuncIterate) xerrors.XError {
	return ledger.Seek(nil, true, cb)
}

// Seek visits the keys having `prefix` in the tree and in memory, in key order.
func (ledger *MemLedger) Seek(prefix []byte, ascending bool, cb FuncIterate) xerrors.XError {
	ledger.mtx.RLock()

	keys := make(map[string]struct{})
	if ledger.immuTree != nil {
		iter, err := ledger.immuTree.Iterator(prefix, prefixEnd(prefix), ascending)
		if err != nil {
			ledger.mtx.RUnlock()
			return xerrors.From(err)
		}
		for ; iter.Valid(); iter.Next() {
			if !bytes.HasPrefix(iter.Key(), prefix) {
				break
			}
			keys[string(iter.Key())] = struct{}{}
		}
		_ = iter.Close()
	}
	for k := range ledger.items {
		if bytes.HasPrefix([]byte(k), []byte(prefix)) {
			keys[k] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if ascending {
			return sorted[i] < sorted[j]
		}
		return sorted[i] > sorted[j]
	})

	type kv struct {
		key  LedgerKey
		item ILedgerItem
	}
	var visits []kv
	for _, k := range sorted {
		item, xerr := ledger.get([]byte(k))
		if xerr == xerrors.ErrNotFoundResult {
			continue // deleted
		} else if xerr != nil {
			ledger.mtx.RUnlock()
			return xerr
		}
		visits = append(visits, kv{key: []byte(k), item: item})
	}
	ledger.mtx.RUnlock()

	for _, v := range visits {
		if xerr := cb(v.key, v.item); xerr != nil {
			return xerr
		}
	}
	return nil
}

func (ledger *MemLedger) Set(key LedgerKey, item ILedgerItem) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	oldItem, ok := ledger.items[string(key)]
	if !ok {
		// the item may exist in the tree.
		if _item, xerr := ledger.get(key); xerr == nil {
			oldItem, ok = _item, true
		}
	}
	ledger.revisions.set(key, oldItem, ok)
	ledger.items[string(key)] = item
	return nil
}

func (ledger *MemLedger) Del(key LedgerKey) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	oldItem, xerr := ledger.get(key)
	if xerr == xerrors.ErrNotFoundResult {
		return nil
	} else if xerr != nil {
		return xerr
	}
	ledger.revisions.set(key, oldItem, true)
	ledger.items[string(key)] = nil
	return nil
}

func (ledger *MemLedger) Snapshot() int {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.revisions.snapshot()
}

func (ledger *MemLedger) RevertToSnapshot(snap int) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	restores := ledger.revisions.since(snap)
	for i := len(restores) - 1; i >= 0; i-- {
		kv := restores[i]
		if kv.existed {
			ledger.items[string(kv.key)] = kv.val
		} else {
			delete(ledger.items, string(kv.key))
		}
	}
	ledger.revisions.revert(snap)
	return nil
}
