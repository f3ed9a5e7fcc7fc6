package app

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/poolescrow/poold/coreV2/state/bus"
	"github.com/poolescrow/poold/coreV2/types"
)

const mainPrefix = 'd'

type RApp interface {
	Export(state *types.AppState)
	GetAdmin() types.AccountRef
	VerifyWinners() bool
	GetTotalStranded() *big.Int
	GetNextPayoutID() uint64
}

// App keeps ledger-wide settings and counters
type App struct {
	model   *Model
	isDirty bool

	db atomic.Value

	bus *bus.Bus
	mx  sync.Mutex
}

func NewApp(stateBus *bus.Bus, db *iavl.ImmutableTree) *App {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	app := &App{bus: stateBus, db: immutableTree}
	app.bus.SetApp(NewBus(app))

	return app
}

func (a *App) immutableTree() *iavl.ImmutableTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (a *App) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	a.db.Store(immutableTree)
}

func (a *App) Commit(db *iavl.MutableTree) error {
	a.mx.Lock()
	defer a.mx.Unlock()

	if !a.isDirty {
		return nil
	}

	a.isDirty = false

	data, err := rlp.EncodeToBytes(a.model)
	if err != nil {
		return fmt.Errorf("can't encode app model: %s", err)
	}

	path := []byte{mainPrefix}
	db.Set(path, data)

	return nil
}

func (a *App) GetAdmin() types.AccountRef {
	return a.getOrNew().getAdmin()
}

func (a *App) SetAdmin(admin types.AccountRef) {
	a.getOrNew().setAdmin(admin)
}

func (a *App) VerifyWinners() bool {
	return a.getOrNew().verifyWinners()
}

func (a *App) SetVerifyWinners(verify bool) {
	a.getOrNew().setVerifyWinners(verify)
}

func (a *App) GetTotalStranded() *big.Int {
	return a.getOrNew().getTotalStranded()
}

func (a *App) SetTotalStranded(amount *big.Int) {
	a.getOrNew().setTotalStranded(big.NewInt(0).Set(amount))
}

// AddTotalStranded accounts value left in escrow custody by a resolution
func (a *App) AddTotalStranded(amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}

	model := a.getOrNew()
	model.setTotalStranded(big.NewInt(0).Add(model.getTotalStranded(), amount))
}

func (a *App) GetNextPayoutID() uint64 {
	return a.getOrNew().getNextPayoutID()
}

func (a *App) SetNextPayoutID(id uint64) {
	a.getOrNew().setNextPayoutID(id)
}

func (a *App) AllocatePayoutID() uint64 {
	return a.getOrNew().allocatePayoutID()
}

func (a *App) Export(state *types.AppState) {
	state.Admin = a.GetAdmin()
	state.VerifyWinners = a.VerifyWinners()
	state.TotalStranded = a.GetTotalStranded().String()
	state.NextPayoutID = a.GetNextPayoutID()
}

func (a *App) get() *Model {
	a.mx.Lock()
	defer a.mx.Unlock()

	if a.model != nil {
		return a.model
	}

	path := []byte{mainPrefix}
	_, enc := a.immutableTree().Get(path)
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := rlp.DecodeBytes(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode app model: %s", err))
	}

	a.model = model
	a.model.markDirty = a.markDirty
	return a.model
}

func (a *App) getOrNew() *Model {
	model := a.get()
	if model == nil {
		model = &Model{
			TotalStranded: big.NewInt(0),
			markDirty:     a.markDirty,
		}
		a.mx.Lock()
		a.model = model
		a.mx.Unlock()
	}

	return model
}

func (a *App) markDirty() {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.isDirty = true
}
