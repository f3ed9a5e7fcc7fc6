package payouts

import (
	"math/big"
	"testing"

	"github.com/poolescrow/poold/coreV2/state/app"
	"github.com/poolescrow/poold/coreV2/state/bus"
	"github.com/poolescrow/poold/coreV2/types"
	"github.com/poolescrow/poold/tree"
	db "github.com/tendermint/tm-db"
)

func TestPayoutsLifecycle(t *testing.T) {
	t.Parallel()
	b := bus.NewBus()
	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024)
	if err != nil {
		t.Fatal(err)
	}

	appState := app.NewApp(b, mutableTree.GetLastImmutable())
	payouts := NewPayouts(b, mutableTree.GetLastImmutable())

	first := payouts.Request("p1", "admin", "alice", big.NewInt(150))
	second := payouts.Request("p1", "admin", "Bad Account", big.NewInt(150))
	if first.ID() != 0 || second.ID() != 1 {
		t.Fatalf("wrong ids %d %d", first.ID(), second.ID())
	}

	if pending := payouts.Pending(); len(pending) != 2 || pending[0].ID() != 0 {
		t.Fatal("wrong pending list")
	}
	if payouts.Total().Cmp(big.NewInt(300)) != 0 {
		t.Fatalf("total is %s", payouts.Total())
	}

	payouts.Settle(first.ID())
	payouts.MarkFailed(second.ID())

	if _, _, err := mutableTree.Commit(appState, payouts); err != nil {
		t.Fatal(err)
	}

	reloaded := NewPayouts(bus.NewBus(), mutableTree.GetLastImmutable())
	if reloaded.GetPayout(0) != nil {
		t.Fatal("settled payout is still stored")
	}

	failed := reloaded.GetPayout(1)
	if failed == nil || !failed.IsFailed() || failed.GetAttempts() != 1 {
		t.Fatal("failed payout is not stored")
	}
	if pending, failedCount := reloaded.Count(); pending != 0 || failedCount != 1 {
		t.Fatalf("wrong counts %d %d", pending, failedCount)
	}
	if len(reloaded.Pending()) != 0 {
		t.Fatal("failed payout is pending")
	}

	reloaded.Retry(1, "bob")
	if failed.IsFailed() || failed.GetRecipient() != "bob" {
		t.Fatal("retry did not reset the payout")
	}

	exported := new(types.AppState)
	reloaded.Export(exported)
	if len(exported.Payouts) != 1 || exported.Payouts[0].Status != types.PayoutStatusPending || exported.Payouts[0].Recipient != "bob" {
		t.Fatalf("wrong export %+v", exported.Payouts)
	}

	if next := app.NewApp(bus.NewBus(), mutableTree.GetLastImmutable()).GetNextPayoutID(); next != 2 {
		t.Fatalf("next payout id is %d", next)
	}
}

func TestPayoutsImport(t *testing.T) {
	t.Parallel()
	b := bus.NewBus()
	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024)
	if err != nil {
		t.Fatal(err)
	}
	app.NewApp(b, mutableTree.GetLastImmutable())
	payouts := NewPayouts(b, mutableTree.GetLastImmutable())

	err = payouts.Import(&types.AppState{Payouts: []types.Payout{
		{ID: 4, PoolKey: "p1", Owner: "admin", Recipient: "alice", Amount: "10", Status: types.PayoutStatusFailed},
	}})
	if err != nil {
		t.Fatal(err)
	}

	payout := payouts.GetPayout(4)
	if payout == nil || !payout.IsFailed() || payout.GetAmount().Cmp(big.NewInt(10)) != 0 {
		t.Fatal("payout is not imported")
	}

	err = payouts.Import(&types.AppState{Payouts: []types.Payout{
		{ID: 5, Amount: "10", Status: "lost"},
	}})
	if err == nil {
		t.Fatal("unknown status imported")
	}
}
