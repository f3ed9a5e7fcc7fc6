package ledger

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	abciTypes "github.com/tendermint/tendermint/abci/types"
	tmlog "github.com/tendermint/tendermint/libs/log"

	"github.com/poolescrow/poold/cmd/utils"
	"github.com/poolescrow/poold/config"
	"github.com/poolescrow/poold/coreV2/appdb"
	eventsdb "github.com/poolescrow/poold/coreV2/events"
	"github.com/poolescrow/poold/coreV2/settlement"
	"github.com/poolescrow/poold/coreV2/state"
	"github.com/poolescrow/poold/coreV2/statistics"
	"github.com/poolescrow/poold/coreV2/transaction"
	"github.com/poolescrow/poold/coreV2/types"
	"github.com/poolescrow/poold/version"
)

// Ledger is the host ledger application running pool operations
type Ledger struct {
	abciTypes.BaseApplication

	logger tmlog.Logger

	executor      *transaction.Executor
	settler       *settlement.Settler
	statisticData *statistics.Data

	appDB        *appdb.AppDB
	eventsDB     eventsdb.IEventsDB
	stateDeliver *state.State
	stateCheck   *state.CheckState
	height       uint64 // current Ledger height
	blockTime    uint64 // current block timestamp in unix nanoseconds

	cfg      *config.Config
	storages *utils.Storage
	lock     sync.RWMutex
}

// NewLedger creates Ledger instance over opened storages
func NewLedger(storages *utils.Storage, cfg *config.Config, logger tmlog.Logger) *Ledger {
	if logger == nil {
		logger = tmlog.NewNopLogger()
	}

	app := &Ledger{
		logger:   logger.With("module", "ledger"),
		executor: transaction.NewExecutor(transaction.GetData),
		settler:  settlement.NewSettler(logger),
		appDB:    appdb.NewAppDB(storages.AppDB()),
		eventsDB: eventsdb.NewEventsStore(storages.EventDB()),
		cfg:      cfg,
		storages: storages,
	}

	if app.appDB.IsInitialized() {
		app.initState()
	}

	return app
}

// initState loads the state committed by the last block. Tree versions
// count blocks since the start height.
func (ledger *Ledger) initState() {
	startHeight := ledger.appDB.GetStartHeight()
	currentHeight := ledger.appDB.GetLastHeight()

	var treeVersion uint64
	if currentHeight > startHeight {
		treeVersion = currentHeight - startHeight
	}

	stateDeliver, err := state.NewState(treeVersion,
		ledger.storages.StateDB(),
		ledger.eventsDB,
		ledger.cfg.StateCacheSize,
		ledger.cfg.KeepLastStates)
	if err != nil {
		panic(err)
	}

	height := currentHeight
	if height == 0 {
		height = startHeight
	}
	atomic.StoreUint64(&ledger.height, height)
	atomic.StoreUint64(&ledger.blockTime, ledger.appDB.GetLastBlockTime())

	ledger.lock.Lock()
	ledger.stateDeliver = stateDeliver
	ledger.stateCheck = state.NewCheckState(stateDeliver)
	ledger.lock.Unlock()
}

// InitChain imports genesis state. It is committed together with the first block.
func (ledger *Ledger) InitChain(req abciTypes.RequestInitChain) abciTypes.ResponseInitChain {
	var genesisState types.AppState
	if err := json.Unmarshal(req.AppStateBytes, &genesisState); err != nil {
		panic(err)
	}

	var initialHeight uint64
	if req.InitialHeight > 1 {
		initialHeight = uint64(req.InitialHeight) - 1
	}

	ledger.appDB.SetStartHeight(initialHeight)
	ledger.appDB.SetLastHeight(initialHeight)
	ledger.initState()

	if err := ledger.stateDeliver.Import(genesisState); err != nil {
		panic(err)
	}

	ledger.logger.Info("Genesis imported",
		"admin", genesisState.Admin,
		"accounts", len(genesisState.Accounts),
		"pools", len(genesisState.Pools),
		"payouts", len(genesisState.Payouts))

	return abciTypes.ResponseInitChain{}
}

// BeginBlock signals the beginning of a block.
func (ledger *Ledger) BeginBlock(req abciTypes.RequestBeginBlock) abciTypes.ResponseBeginBlock {
	height := uint64(req.Header.Height)
	if ledger.stateDeliver == nil {
		ledger.initState()
	}

	if data := ledger.StatisticData(); data != nil {
		data.SetStartBlock(height, time.Now())
	}

	atomic.StoreUint64(&ledger.height, height)
	atomic.StoreUint64(&ledger.blockTime, uint64(req.Header.Time.UnixNano()))

	return abciTypes.ResponseBeginBlock{}
}

// DeliverTx deliver a tx for full processing
func (ledger *Ledger) DeliverTx(req abciTypes.RequestDeliverTx) abciTypes.ResponseDeliverTx {
	ledger.stateDeliver.Lock()
	response := ledger.executor.RunTx(ledger.stateDeliver, req.Tx, ledger.BlockTime())
	ledger.stateDeliver.Unlock()

	if data := ledger.StatisticData(); data != nil {
		data.AddTx(response.Code)
	}

	return abciTypes.ResponseDeliverTx{
		Code: response.Code,
		Data: response.Data,
		Log:  response.Log,
		Info: response.Info,
		Events: []abciTypes.Event{
			{
				Type:       "tags",
				Attributes: response.Tags,
			},
		},
	}
}

// CheckTx validates a tx for the mempool
func (ledger *Ledger) CheckTx(req abciTypes.RequestCheckTx) abciTypes.ResponseCheckTx {
	ledger.stateDeliver.RLock()
	response := ledger.executor.RunTx(ledger.CurrentState(), req.Tx, ledger.BlockTime())
	ledger.stateDeliver.RUnlock()

	return abciTypes.ResponseCheckTx{
		Code: response.Code,
		Data: response.Data,
		Log:  response.Log,
		Info: response.Info,
	}
}

// EndBlock settles transfers requested during the block and verifies custody
func (ledger *Ledger) EndBlock(req abciTypes.RequestEndBlock) abciTypes.ResponseEndBlock {
	height := uint64(req.Height)

	ledger.stateDeliver.Lock()
	result := ledger.settler.Settle(ledger.stateDeliver, height)
	ledger.stateDeliver.Unlock()

	if result.Settled+result.Failed > 0 {
		ledger.logger.Info("Payouts processed", "height", height, "settled", result.Settled, "failed", result.Failed)
	}

	if ledger.cfg.CheckInvariants {
		if err := ledger.stateDeliver.Check(); err != nil {
			panic(errors.Wrap(err, fmt.Sprintf("height %d", height)))
		}
	}

	if data := ledger.StatisticData(); data != nil {
		defer data.SetEndBlockDuration(time.Now(), height)
	}

	return abciTypes.ResponseEndBlock{}
}

// Info return application info. Used for synchronization between Tendermint and Ledger
func (ledger *Ledger) Info(_ abciTypes.RequestInfo) (resInfo abciTypes.ResponseInfo) {
	hash := ledger.appDB.GetLastBlockHash()
	height := int64(ledger.appDB.GetLastHeight())
	return abciTypes.ResponseInfo{
		Version:          version.Version,
		AppVersion:       version.AppVer,
		LastBlockHeight:  height,
		LastBlockAppHash: hash,
	}
}

// Commit persists the block state and its events
func (ledger *Ledger) Commit() abciTypes.ResponseCommit {
	height := ledger.Height()

	ledger.stateDeliver.Lock()
	defer ledger.stateDeliver.Unlock()

	// Flush events db
	if err := ledger.eventsDB.CommitEvents(uint32(height)); err != nil {
		panic(err)
	}

	hash, err := ledger.stateDeliver.Commit()
	if err != nil {
		panic(err)
	}

	// Persist application hash and height
	ledger.appDB.SetLastBlockHash(hash)
	ledger.appDB.SetLastHeight(height)
	ledger.appDB.SetLastBlockTime(ledger.BlockTime())

	if data := ledger.StatisticData(); data != nil {
		pending, failed := ledger.stateDeliver.Payouts.Count()
		data.SetLedger(
			ledger.stateDeliver.Pools.Count(),
			pending,
			failed,
			ledger.stateDeliver.Accounts.GetBalance(types.EscrowAccount),
			ledger.stateDeliver.App.GetTotalStranded())
	}

	return abciTypes.ResponseCommit{
		Data: hash,
	}
}

// Close closes the databases of the ledger
func (ledger *Ledger) Close() error {
	return ledger.storages.Close()
}
