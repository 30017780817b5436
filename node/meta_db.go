package node

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/beatoz/beatoz-factory/types/bytes"
	tmdb "github.com/tendermint/tm-db"
)

const (
	keyLastHeight  = "lh"
	keyLastAppHash = "ah"
	keyLastTime    = "lt"
	keyCallCount   = "cn"
)

// MetaDB keeps what the app needs to resume after restart:
// the last committed height, its app hash and time, and the number of executed calls.
type MetaDB struct {
	db tmdb.DB

	lastHeight  int64
	lastAppHash bytes.HexBytes
	lastTime    time.Time
	callCount   uint64

	mtx sync.RWMutex
}

func OpenMetaDB(name, dir string) (*MetaDB, error) {
	// The returned 'db' instance is safe in concurrent use.
	db, err := tmdb.NewDB(name, "goleveldb", dir)
	if err != nil {
		return nil, err
	}

	stdb := &MetaDB{db: db}
	if v := stdb.get(keyLastHeight); v != nil {
		stdb.lastHeight = int64(binary.BigEndian.Uint64(v))
	}
	stdb.lastAppHash = stdb.get(keyLastAppHash)
	if v := stdb.get(keyLastTime); v != nil {
		stdb.lastTime = time.Unix(0, int64(binary.BigEndian.Uint64(v))).UTC()
	}
	if v := stdb.get(keyCallCount); v != nil {
		stdb.callCount = binary.BigEndian.Uint64(v)
	}
	return stdb, nil
}

func (stdb *MetaDB) Close() error {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	return stdb.db.Close()
}

func (stdb *MetaDB) LastHeight() int64 {
	stdb.mtx.RLock()
	defer stdb.mtx.RUnlock()

	return stdb.lastHeight
}

func (stdb *MetaDB) LastAppHash() bytes.HexBytes {
	stdb.mtx.RLock()
	defer stdb.mtx.RUnlock()

	return bytes.Copy(stdb.lastAppHash)
}

func (stdb *MetaDB) LastTime() time.Time {
	stdb.mtx.RLock()
	defer stdb.mtx.RUnlock()

	return stdb.lastTime
}

func (stdb *MetaDB) PutLastBlock(height int64, appHash []byte, tm time.Time) error {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	batch := stdb.db.NewBatch()
	defer func() {
		_ = batch.Close()
	}()

	hbz := make([]byte, 8)
	binary.BigEndian.PutUint64(hbz, uint64(height))
	tbz := make([]byte, 8)
	binary.BigEndian.PutUint64(tbz, uint64(tm.UnixNano()))
	if err := batch.Set([]byte(keyLastHeight), hbz); err != nil {
		return err
	}
	if err := batch.Set([]byte(keyLastAppHash), appHash); err != nil {
		return err
	}
	if err := batch.Set([]byte(keyLastTime), tbz); err != nil {
		return err
	}
	if err := batch.WriteSync(); err != nil {
		return err
	}

	stdb.lastHeight = height
	stdb.lastAppHash = bytes.Copy(appHash)
	stdb.lastTime = tm.UTC()
	return nil
}

func (stdb *MetaDB) CallCount() uint64 {
	stdb.mtx.RLock()
	defer stdb.mtx.RUnlock()

	return stdb.callCount
}

func (stdb *MetaDB) PutCallCount(n uint64) error {
	stdb.mtx.Lock()
	defer stdb.mtx.Unlock()

	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, n)
	if err := stdb.put(keyCallCount, bz); err != nil {
		return err
	}
	stdb.callCount = n
	return nil
}

func (stdb *MetaDB) get(k string) []byte {
	if v, err := stdb.db.Get([]byte(k)); err == nil {
		return v
	}
	return nil
}

func (stdb *MetaDB) put(k string, v []byte) error {
	if err := stdb.db.SetSync([]byte(k), v); err != nil {
		return err
	}
	return nil
}
