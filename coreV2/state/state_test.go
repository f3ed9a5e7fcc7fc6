package state

import (
	"math/big"
	"reflect"
	"testing"

	eventsdb "github.com/poolescrow/poold/coreV2/events"
	"github.com/poolescrow/poold/coreV2/state/pools"
	"github.com/poolescrow/poold/coreV2/types"
	db "github.com/tendermint/tm-db"
)

func genesis() types.AppState {
	return types.AppState{
		Admin:         "admin",
		VerifyWinners: true,
		TotalStranded: "3",
		NextPayoutID:  2,
		Accounts: []types.Account{
			{Address: "alice", Balance: "1000", Nonce: 1},
			{Address: "bob", Balance: "500"},
			{Address: types.EscrowAccount, Balance: "403"},
		},
		Pools: []types.Pool{
			{
				Key:                 "p1",
				Creator:             "admin",
				Stake:               "100",
				MaxParticipants:     4,
				CurrentParticipants: 3,
				CreatedAt:           1,
				Participants:        []types.AccountRef{"alice", "bob", "carol"},
			},
		},
		Payouts: []types.Payout{
			{ID: 1, PoolKey: "p0", Owner: "admin", Recipient: "dave", Amount: "100", Status: types.PayoutStatusFailed},
		},
	}
}

func TestStateExport(t *testing.T) {
	t.Parallel()

	state, err := NewState(0, db.NewMemDB(), eventsdb.NewEventsStore(db.NewMemDB()), 1024, 2)
	if err != nil {
		t.Fatal(err)
	}

	appState := genesis()
	if err := state.Import(appState); err != nil {
		t.Fatal(err)
	}
	if err := state.Check(); err != nil {
		t.Fatal(err)
	}

	if _, err := state.Commit(); err != nil {
		t.Fatal(err)
	}

	exported := state.Export()
	if !reflect.DeepEqual(exported, appState) {
		t.Fatalf("export differs from genesis\n%+v\n%+v", exported, appState)
	}
}

func TestStateCheckCustody(t *testing.T) {
	t.Parallel()

	state, err := NewState(0, db.NewMemDB(), nil, 1024, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := state.Import(genesis()); err != nil {
		t.Fatal(err)
	}

	// a balanced movement that leaves escrow unbacked
	state.Accounts.Transfer(types.EscrowAccount, "alice", big.NewInt(100))
	if err := state.Checker.Check(); err != nil {
		t.Fatal(err)
	}
	if err := state.Check(); err == nil {
		t.Fatal("custody mismatch passed the check")
	}

	state.Payouts.Settle(1)
	if err := state.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestStateImportRejectsInvalidGenesis(t *testing.T) {
	t.Parallel()

	state, err := NewState(0, db.NewMemDB(), nil, 1024, 0)
	if err != nil {
		t.Fatal(err)
	}

	appState := genesis()
	appState.Admin = ""
	if err := state.Import(appState); err == nil {
		t.Fatal("genesis without admin imported")
	}
}

func TestStateReload(t *testing.T) {
	t.Parallel()
	memDB := db.NewMemDB()

	state, err := NewState(0, memDB, nil, 1024, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := state.Import(genesis()); err != nil {
		t.Fatal(err)
	}
	if _, err := state.Commit(); err != nil {
		t.Fatal(err)
	}

	state.Pools.Delete("p1")
	if _, err := state.Pools.Create("p1", "admin", big.NewInt(9), 2, 5, pools.Namespace("p1")); err != nil {
		t.Fatal(err)
	}
	if _, err := state.Commit(); err != nil {
		t.Fatal(err)
	}
	if _, err := state.Commit(); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewState(0, memDB, nil, 1024, 1)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Height() != 3 {
		t.Fatalf("height is %d", reloaded.Height())
	}

	pool := reloaded.Pools.GetPool("p1")
	if pool == nil || pool.GetStake().Cmp(big.NewInt(9)) != 0 || len(reloaded.Pools.Participants("p1")) != 0 {
		t.Fatal("recreated pool is not persisted")
	}
	if reloaded.App.GetAdmin() != "admin" {
		t.Fatal("admin is not persisted")
	}

	if _, err := NewCheckStateAtHeight(1, memDB); err == nil {
		t.Fatal("pruned version is still available")
	}

	old, err := NewCheckStateAtHeight(2, memDB)
	if err != nil {
		t.Fatal(err)
	}
	if old.Pools().GetPool("p1").GetStake().Cmp(big.NewInt(9)) != 0 {
		t.Fatal("wrong state at height 2")
	}
}
