package pools

import (
	"math/big"
	"reflect"
	"testing"

	"github.com/poolescrow/poold/coreV2/state/bus"
	"github.com/poolescrow/poold/coreV2/types"
	"github.com/poolescrow/poold/tree"
	db "github.com/tendermint/tm-db"
)

func newPools(t *testing.T) (*Pools, tree.MTree) {
	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024)
	if err != nil {
		t.Fatal(err)
	}

	return NewPools(bus.NewBus(), mutableTree.GetLastImmutable()), mutableTree
}

func TestPoolsCreate(t *testing.T) {
	t.Parallel()
	pools, _ := newPools(t)

	pool, err := pools.Create("p1", "admin", big.NewInt(100), 4, 10, Namespace("p1"))
	if err != nil {
		t.Fatal(err)
	}

	if pool.GetCurrentParticipants() != 0 || pool.GetMaxParticipants() != 4 || pool.GetStake().Cmp(big.NewInt(100)) != 0 {
		t.Fatal("invalid pool data")
	}
	if pool.GetCreator() != "admin" || pool.GetCreatedAt() != 10 {
		t.Fatal("invalid pool data")
	}

	if _, err := pools.Create("p1", "admin", big.NewInt(1), 1, 11, Namespace("p1")); err != ErrPoolExists {
		t.Fatalf("expected ErrPoolExists, got %v", err)
	}

	if pools.GetPool("p2") != nil || pools.Exists("p2") {
		t.Fatal("unknown pool found")
	}
}

func TestPoolsParticipants(t *testing.T) {
	t.Parallel()
	pools, mutableTree := newPools(t)

	if _, err := pools.Create("p1", "admin", big.NewInt(100), 4, 0, Namespace("p1")); err != nil {
		t.Fatal(err)
	}
	if _, err := pools.Create("p2", "admin", big.NewInt(5), 2, 0, Namespace("p2")); err != nil {
		t.Fatal(err)
	}

	for _, account := range []types.AccountRef{"carol", "alice", "bob"} {
		if err := pools.AddParticipant("p1", account); err != nil {
			t.Fatal(err)
		}
	}
	if err := pools.AddParticipant("p2", "dave"); err != nil {
		t.Fatal(err)
	}

	if err := pools.AddParticipant("p1", "alice"); err != ErrAlreadyMember {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	if _, _, err := mutableTree.Commit(pools); err != nil {
		t.Fatal(err)
	}

	if err := pools.RemoveParticipant("p1", "bob"); err != nil {
		t.Fatal(err)
	}
	if err := pools.RemoveParticipant("p1", "bob"); err != ErrNotAMember {
		t.Fatalf("expected ErrNotAMember, got %v", err)
	}
	if err := pools.RemoveParticipant("p3", "bob"); err != ErrPoolNotFound {
		t.Fatalf("expected ErrPoolNotFound, got %v", err)
	}

	want := []types.AccountRef{"alice", "carol"}
	if got := pools.Participants("p1"); !reflect.DeepEqual(got, want) {
		t.Fatalf("participants before commit %v", got)
	}

	if _, _, err := mutableTree.Commit(pools); err != nil {
		t.Fatal(err)
	}

	reloaded := NewPools(bus.NewBus(), mutableTree.GetLastImmutable())
	if got := reloaded.Participants("p1"); !reflect.DeepEqual(got, want) {
		t.Fatalf("participants after reload %v", got)
	}
	if got := reloaded.Participants("p2"); !reflect.DeepEqual(got, []types.AccountRef{"dave"}) {
		t.Fatalf("participants of p2 %v", got)
	}
	if reloaded.GetPool("p1").GetCurrentParticipants() != 2 {
		t.Fatal("participants counter is not persisted")
	}
	if !reloaded.IsParticipant("p1", "carol") || reloaded.IsParticipant("p1", "bob") || reloaded.IsParticipant("p1", "dave") {
		t.Fatal("wrong membership")
	}

	if reloaded.TotalEscrowed().Cmp(big.NewInt(205)) != 0 {
		t.Fatalf("total escrowed is %s", reloaded.TotalEscrowed())
	}
	if reloaded.Count() != 2 {
		t.Fatalf("count is %d", reloaded.Count())
	}
}

func TestPoolsDeleteFreesKey(t *testing.T) {
	t.Parallel()
	pools, mutableTree := newPools(t)

	if _, err := pools.Create("p1", "admin", big.NewInt(100), 4, 0, Namespace("p1")); err != nil {
		t.Fatal(err)
	}
	_ = pools.AddParticipant("p1", "alice")
	_ = pools.AddParticipant("p1", "bob")

	if _, _, err := mutableTree.Commit(pools); err != nil {
		t.Fatal(err)
	}

	pools.Delete("p1")
	pools.Delete("p1")
	if pools.Exists("p1") {
		t.Fatal("deleted pool exists")
	}

	if _, err := pools.Create("p1", "admin", big.NewInt(7), 2, 1, Namespace("p1")); err != nil {
		t.Fatal(err)
	}
	if len(pools.Participants("p1")) != 0 || pools.IsParticipant("p1", "alice") {
		t.Fatal("recreated pool inherited participants")
	}
	_ = pools.AddParticipant("p1", "carol")

	if _, _, err := mutableTree.Commit(pools); err != nil {
		t.Fatal(err)
	}

	reloaded := NewPools(bus.NewBus(), mutableTree.GetLastImmutable())
	if got := reloaded.Participants("p1"); !reflect.DeepEqual(got, []types.AccountRef{"carol"}) {
		t.Fatalf("participants after recreation %v", got)
	}

	reloaded.Delete("p1")
	if _, _, err := mutableTree.Commit(reloaded); err != nil {
		t.Fatal(err)
	}

	empty := NewPools(bus.NewBus(), mutableTree.GetLastImmutable())
	if empty.Exists("p1") {
		t.Fatal("pool survived deletion")
	}

	stale := 0
	start, end := getMembersRange(Namespace("p1"))
	mutableTree.GetLastImmutable().IterateRange(start, end, true, func([]byte, []byte) bool {
		stale++
		return false
	})
	if stale != 0 {
		t.Fatalf("%d participants left in storage", stale)
	}
}

func TestPoolsExportImport(t *testing.T) {
	t.Parallel()
	pools, mutableTree := newPools(t)

	state := &types.AppState{
		Pools: []types.Pool{
			{
				Key:                 "p1",
				Creator:             "admin",
				Stake:               "101",
				MaxParticipants:     3,
				CurrentParticipants: 2,
				CreatedAt:           5,
				Participants:        []types.AccountRef{"alice", "bob"},
			},
		},
	}
	if err := pools.Import(state); err != nil {
		t.Fatal(err)
	}
	if _, _, err := mutableTree.Commit(pools); err != nil {
		t.Fatal(err)
	}

	exported := new(types.AppState)
	NewPools(bus.NewBus(), mutableTree.GetLastImmutable()).Export(exported)

	if !reflect.DeepEqual(exported.Pools, state.Pools) {
		t.Fatalf("export differs: %+v", exported.Pools)
	}
}

func TestMembersRange(t *testing.T) {
	t.Parallel()

	start, end := getMembersRange([]byte{1, 0xff})
	if !reflect.DeepEqual(start, []byte{membersPrefix, 1, 0xff}) || !reflect.DeepEqual(end, []byte{membersPrefix, 2, 0}) {
		t.Fatalf("wrong range %v %v", start, end)
	}
}
