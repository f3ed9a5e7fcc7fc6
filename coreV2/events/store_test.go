package events

import (
	"testing"

	db "github.com/tendermint/tm-db"
)

func TestIEventsDB(t *testing.T) {
	store := NewEventsStore(db.NewMemDB())

	store.AddEvent(&PoolCreatedEvent{
		Key:             "p1",
		Creator:         "admin",
		Stake:           "100",
		MaxParticipants: 4,
	})
	store.AddEvent(&PoolJoinedEvent{
		Key:     "p1",
		Account: "alice",
		Amount:  "100",
	})
	err := store.CommitEvents(12)
	if err != nil {
		t.Fatal(err)
	}

	store.AddEvent(&PoolResolvedEvent{
		Key:          "p1",
		Creator:      "admin",
		Winners:      []string{"alice", "bob"},
		Participants: 3,
		Payout:       "150",
		Pot:          "303",
		Residual:     "3",
	})
	store.AddEvent(&PayoutFailedEvent{
		PayoutID:  7,
		PoolKey:   "p1",
		Recipient: "Bad Account",
		Amount:    "150",
		Reason:    "invalid account",
	})
	err = store.CommitEvents(14)
	if err != nil {
		t.Fatal(err)
	}

	loadEvents := store.LoadEvents(12)

	if len(loadEvents) != 2 {
		t.Fatalf("count of events not equal 2, got %d", len(loadEvents))
	}

	if loadEvents[0].Type() != TypePoolCreatedEvent {
		t.Fatal("invalid event type")
	}
	if loadEvents[0].(*PoolCreatedEvent).MaxParticipants != 4 {
		t.Fatal("invalid max participants")
	}
	if loadEvents[1].(*PoolJoinedEvent).Account != "alice" {
		t.Fatal("invalid account")
	}

	loadEvents = store.LoadEvents(14)

	if len(loadEvents) != 2 {
		t.Fatalf("count of events not equal 2, got %d", len(loadEvents))
	}

	resolved, ok := loadEvents[0].(*PoolResolvedEvent)
	if !ok {
		t.Fatalf("invalid event type %s", loadEvents[0].Type())
	}
	if resolved.Residual != "3" || len(resolved.Winners) != 2 || resolved.Winners[1] != "bob" {
		t.Fatalf("invalid resolved event %+v", resolved)
	}

	failed := loadEvents[1].(*PayoutFailedEvent)
	if failed.PayoutID != 7 || failed.Reason != "invalid account" {
		t.Fatalf("invalid failed event %+v", failed)
	}
}

func TestLoadEventsOfEmptyHeight(t *testing.T) {
	store := NewEventsStore(db.NewMemDB())

	if err := store.CommitEvents(1); err != nil {
		t.Fatal(err)
	}

	if events := store.LoadEvents(1); len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}
