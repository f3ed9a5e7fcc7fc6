package appdb

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/tendermint/tm-db"
)

const (
	hashPath        = "hash"
	heightPath      = "height"
	startHeightPath = "startHeight"
	blockTimePath   = "blockTime"
)

// AppDB is responsible for storing basic information about app state on disk
type AppDB struct {
	db db.DB

	startHeight uint64
	lastHeight  uint64
}

func NewAppDB(database db.DB) *AppDB {
	return &AppDB{
		db: database,
	}
}

// Close closes db connection
func (appDB *AppDB) Close() error {
	return appDB.db.Close()
}

// GetLastBlockHash returns latest block hash stored on disk
func (appDB *AppDB) GetLastBlockHash() []byte {
	rawHash, err := appDB.db.Get([]byte(hashPath))
	if err != nil {
		panic(err)
	}

	if len(rawHash) == 0 {
		return nil
	}

	var hash [32]byte
	copy(hash[:], rawHash)
	return hash[:]
}

// SetLastBlockHash stores given block hash on disk, panics on error
func (appDB *AppDB) SetLastBlockHash(hash []byte) {
	if err := appDB.db.Set([]byte(hashPath), hash); err != nil {
		panic(err)
	}
}

// GetLastHeight returns latest block height stored on disk
func (appDB *AppDB) GetLastHeight() uint64 {
	val := atomic.LoadUint64(&appDB.lastHeight)
	if val != 0 {
		return val
	}

	val = appDB.getUint64(heightPath)
	atomic.StoreUint64(&appDB.lastHeight, val)

	return val
}

// SetLastHeight stores given block height on disk, panics on error
func (appDB *AppDB) SetLastHeight(height uint64) {
	appDB.setUint64(heightPath, height)
	atomic.StoreUint64(&appDB.lastHeight, height)
}

// SetStartHeight stores given block height on disk as start height, panics on error
func (appDB *AppDB) SetStartHeight(height uint64) {
	appDB.setUint64(startHeightPath, height)
	atomic.StoreUint64(&appDB.startHeight, height)
}

// GetStartHeight returns start height stored on disk
func (appDB *AppDB) GetStartHeight() uint64 {
	val := atomic.LoadUint64(&appDB.startHeight)
	if val != 0 {
		return val
	}

	val = appDB.getUint64(startHeightPath)
	atomic.StoreUint64(&appDB.startHeight, val)

	return val
}

// GetLastBlockTime returns timestamp of the last committed block in unix nanoseconds
func (appDB *AppDB) GetLastBlockTime() uint64 {
	return appDB.getUint64(blockTimePath)
}

func (appDB *AppDB) SetLastBlockTime(timestamp uint64) {
	appDB.setUint64(blockTimePath, timestamp)
}

// IsInitialized reports whether genesis has been imported
func (appDB *AppDB) IsInitialized() bool {
	has, err := appDB.db.Has([]byte(startHeightPath))
	if err != nil {
		panic(err)
	}

	return has
}

func (appDB *AppDB) getUint64(path string) uint64 {
	result, err := appDB.db.Get([]byte(path))
	if err != nil {
		panic(err)
	}

	if len(result) == 0 {
		return 0
	}

	return binary.BigEndian.Uint64(result)
}

func (appDB *AppDB) setUint64(path string, value uint64) {
	h := make([]byte, 8)
	binary.BigEndian.PutUint64(h, value)

	if err := appDB.db.Set([]byte(path), h); err != nil {
		panic(err)
	}
}
