package state

import (
	"fmt"
	"log"
	"math/big"
	"sync"

	"github.com/cosmos/iavl"
	eventsdb "github.com/poolescrow/poold/coreV2/events"
	"github.com/poolescrow/poold/coreV2/state/accounts"
	"github.com/poolescrow/poold/coreV2/state/app"
	"github.com/poolescrow/poold/coreV2/state/bus"
	"github.com/poolescrow/poold/coreV2/state/checker"
	"github.com/poolescrow/poold/coreV2/state/payouts"
	"github.com/poolescrow/poold/coreV2/state/pools"
	"github.com/poolescrow/poold/coreV2/types"
	"github.com/poolescrow/poold/helpers"
	"github.com/poolescrow/poold/tree"
	db "github.com/tendermint/tm-db"
)

type Interface interface {
	isValue_State()
}

type CheckState struct {
	state *State
}

func NewCheckState(state *State) *CheckState {
	return &CheckState{state: state}
}

func (cs *CheckState) isValue_State() {}

func (cs *CheckState) Export() types.AppState {
	appState := new(types.AppState)
	cs.App().Export(appState)
	cs.Accounts().Export(appState)
	cs.Pools().Export(appState)
	cs.Payouts().Export(appState)

	return *appState
}

func (cs *CheckState) Lock() {
	cs.state.lock.Lock()
}

func (cs *CheckState) Unlock() {
	cs.state.lock.Unlock()
}

func (cs *CheckState) RLock() {
	cs.state.lock.RLock()
}

func (cs *CheckState) RUnlock() {
	cs.state.lock.RUnlock()
}

func (cs *CheckState) Height() int64 {
	return cs.state.height
}

func (cs *CheckState) App() app.RApp {
	return cs.state.App
}

func (cs *CheckState) Accounts() accounts.RAccounts {
	return cs.state.Accounts
}

func (cs *CheckState) Pools() pools.RPools {
	return cs.state.Pools
}

func (cs *CheckState) Payouts() payouts.RPayouts {
	return cs.state.Payouts
}

type State struct {
	App            *app.App
	Accounts       *accounts.Accounts
	Pools          *pools.Pools
	Payouts        *payouts.Payouts
	Checker        *checker.Checker
	db             db.DB
	events         eventsdb.IEventsDB
	tree           tree.MTree
	keepLastStates int64

	bus    *bus.Bus
	lock   sync.RWMutex
	height int64
}

func (s *State) isValue_State() {}

func NewState(height uint64, db db.DB, events eventsdb.IEventsDB, cacheSize int, keepLastStates int64) (*State, error) {
	iavlTree, err := tree.NewMutableTree(height, db, cacheSize)
	if err != nil {
		return nil, err
	}

	state := newStateForTree(iavlTree.GetLastImmutable(), events, db, keepLastStates)
	state.tree = iavlTree
	state.height = iavlTree.Version()

	return state, nil
}

func NewCheckStateAtHeight(height uint64, db db.DB) (*CheckState, error) {
	immutableTree, err := tree.NewImmutableTree(height, db)
	if err != nil {
		return nil, err
	}

	return NewCheckState(newStateForTree(immutableTree, nil, db, 0)), nil
}

func (s *State) Tree() tree.MTree {
	return s.tree
}

func (s *State) Events() eventsdb.IEventsDB {
	return s.bus.Events()
}

func (s *State) Height() int64 {
	return s.height
}

func (s *State) Lock() {
	s.lock.Lock()
}

func (s *State) Unlock() {
	s.lock.Unlock()
}

func (s *State) RLock() {
	s.lock.RLock()
}

func (s *State) RUnlock() {
	s.lock.RUnlock()
}

// Check verifies that no value appeared or vanished during the block and
// that escrow custody covers every pool, payout and the stranded residual
func (s *State) Check() error {
	if err := s.Checker.Check(); err != nil {
		return err
	}

	return s.CheckCustody()
}

func (s *State) CheckCustody() error {
	owed := s.Pools.TotalEscrowed()
	owed.Add(owed, s.Payouts.Total())
	owed.Add(owed, s.App.GetTotalStranded())

	custody := s.Accounts.GetBalance(types.EscrowAccount)
	if custody.Cmp(owed) != 0 {
		return fmt.Errorf("invariants error: escrow holds %s, pools, payouts and stranded value sum to %s", custody, owed)
	}

	return nil
}

func (s *State) Commit() ([]byte, error) {
	s.Checker.Reset()

	hash, version, err := s.tree.Commit(
		s.App,
		s.Accounts,
		s.Pools,
		s.Payouts,
	)
	if err != nil {
		return hash, err
	}

	s.height = version

	versionToDelete := version - s.keepLastStates - 1
	if s.keepLastStates == 0 || versionToDelete < 1 {
		return hash, nil
	}

	if err := s.tree.DeleteVersion(versionToDelete); err != nil {
		log.Printf("DeleteVersion %d error: %s\n", versionToDelete, err)
	}

	return hash, nil
}

// Import loads a verified genesis state. Balances set here are not
// movements, so the checker is reset afterwards.
func (s *State) Import(state types.AppState) error {
	if err := state.Verify(); err != nil {
		return err
	}

	s.App.SetAdmin(state.Admin)
	s.App.SetVerifyWinners(state.VerifyWinners)
	s.App.SetTotalStranded(helpers.StringToBigInt(state.TotalStranded))
	s.App.SetNextPayoutID(state.NextPayoutID)

	for _, a := range state.Accounts {
		s.Accounts.SetNonce(a.Address, a.Nonce)
		s.Accounts.SetBalance(a.Address, helpers.StringToBigInt(a.Balance))
	}

	if err := s.Pools.Import(&state); err != nil {
		return err
	}

	if err := s.Payouts.Import(&state); err != nil {
		return err
	}

	s.Checker.Reset()

	return s.CheckCustody()
}

func (s *State) Export() types.AppState {
	state, err := NewCheckStateAtHeight(uint64(s.tree.Version()), s.db)
	if err != nil {
		log.Panicf("Create new state at height %d failed: %s", s.tree.Version(), err)
	}

	return state.Export()
}

// TotalValue sums all account balances, used by metrics
func (s *State) TotalValue() *big.Int {
	appState := new(types.AppState)
	s.Accounts.Export(appState)

	total := big.NewInt(0)
	for _, account := range appState.Accounts {
		total.Add(total, helpers.StringToBigInt(account.Balance))
	}

	return total
}

func newStateForTree(immutableTree *iavl.ImmutableTree, events eventsdb.IEventsDB, db db.DB, keepLastStates int64) *State {
	stateBus := bus.NewBus()
	stateBus.SetEvents(events)

	stateChecker := checker.NewChecker(stateBus)

	appState := app.NewApp(stateBus, immutableTree)

	accountsState := accounts.NewAccounts(stateBus, immutableTree)

	poolsState := pools.NewPools(stateBus, immutableTree)

	payoutsState := payouts.NewPayouts(stateBus, immutableTree)

	return &State{
		App:      appState,
		Accounts: accountsState,
		Pools:    poolsState,
		Payouts:  payoutsState,
		Checker:  stateChecker,

		height:         immutableTree.Version(),
		bus:            stateBus,
		db:             db,
		events:         events,
		keepLastStates: keepLastStates,
	}
}
