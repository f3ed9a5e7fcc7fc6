package ledger

import (
	"fmt"
	"sync/atomic"

	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"

	eventsdb "github.com/poolescrow/poold/coreV2/events"
	"github.com/poolescrow/poold/coreV2/state"
	"github.com/poolescrow/poold/coreV2/statistics"
	"github.com/poolescrow/poold/coreV2/types"
)

// CurrentState returns immutable state of the Ledger
func (ledger *Ledger) CurrentState() *state.CheckState {
	ledger.lock.RLock()
	defer ledger.lock.RUnlock()

	return ledger.stateCheck
}

// AvailableVersions returns all available state versions in ascending order
func (ledger *Ledger) AvailableVersions() []int {
	ledger.lock.RLock()
	defer ledger.lock.RUnlock()

	return ledger.stateDeliver.Tree().AvailableVersions()
}

// GetStateForHeight returns immutable state of the Ledger for given height
func (ledger *Ledger) GetStateForHeight(height uint64) (*state.CheckState, error) {
	if height == 0 {
		return ledger.CurrentState(), nil
	}

	startHeight := ledger.appDB.GetStartHeight()
	if height <= startHeight || height > ledger.appDB.GetLastHeight() {
		return nil, fmt.Errorf("height %d is not available", height)
	}

	return state.NewCheckStateAtHeight(height-startHeight, ledger.storages.StateDB())
}

// Export returns the last committed state as genesis
func (ledger *Ledger) Export() types.AppState {
	ledger.stateDeliver.RLock()
	defer ledger.stateDeliver.RUnlock()

	return ledger.stateDeliver.Export()
}

// Height returns current height of the Ledger
func (ledger *Ledger) Height() uint64 {
	return atomic.LoadUint64(&ledger.height)
}

// BlockTime returns timestamp of the current block in unix nanoseconds
func (ledger *Ledger) BlockTime() uint64 {
	return atomic.LoadUint64(&ledger.blockTime)
}

func (ledger *Ledger) GetEventsDB() eventsdb.IEventsDB {
	return ledger.eventsDB
}

// SetStatisticData used for collection statistics about ledger operations
func (ledger *Ledger) SetStatisticData(statisticData *statistics.Data) *statistics.Data {
	ledger.statisticData = statisticData
	return ledger.statisticData
}

// StatisticData used for collection statistics about ledger operations
func (ledger *Ledger) StatisticData() *statistics.Data {
	return ledger.statisticData
}

func GetDbOpts(memLimit int) *opt.Options {
	if memLimit < 1024 {
		panic(fmt.Sprintf("Not enough memory given to StateDB. Expected >1024M, given %d", memLimit))
	}
	return &opt.Options{
		OpenFilesCacheCapacity: memLimit,
		BlockCacheCapacity:     memLimit / 2 * opt.MiB,
		WriteBuffer:            memLimit / 4 * opt.MiB, // Two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	}
}
