package events

import (
	"encoding/binary"
	"sync"

	"github.com/tendermint/go-amino"
	db "github.com/tendermint/tm-db"
)

// IEventsDB is an interface of Events
type IEventsDB interface {
	AddEvent(event Event)
	LoadEvents(height uint32) Events
	CommitEvents(height uint32) error
}

type eventsStore struct {
	cdc *amino.Codec
	sync.RWMutex
	db      db.DB
	pending pendingEvents
}

type pendingEvents struct {
	sync.Mutex
	items Events
}

// NewEventsStore creates new events store in given DB
func NewEventsStore(db db.DB) IEventsDB {
	codec := amino.NewCodec()
	codec.RegisterInterface((*Event)(nil), nil)
	codec.RegisterConcrete(&PoolCreatedEvent{}, TypePoolCreatedEvent, nil)
	codec.RegisterConcrete(&PoolJoinedEvent{}, TypePoolJoinedEvent, nil)
	codec.RegisterConcrete(&PoolLeftEvent{}, TypePoolLeftEvent, nil)
	codec.RegisterConcrete(&PoolResolvedEvent{}, TypePoolResolvedEvent, nil)
	codec.RegisterConcrete(&TransferRequestedEvent{}, TypeTransferRequestedEvent, nil)
	codec.RegisterConcrete(&PayoutSettledEvent{}, TypePayoutSettledEvent, nil)
	codec.RegisterConcrete(&PayoutFailedEvent{}, TypePayoutFailedEvent, nil)
	codec.RegisterConcrete(&StrandedSweptEvent{}, TypeStrandedSweptEvent, nil)
	codec.RegisterConcrete(&AdminRotatedEvent{}, TypeAdminRotatedEvent, nil)

	return &eventsStore{
		cdc:     codec,
		RWMutex: sync.RWMutex{},
		db:      db,
		pending: pendingEvents{},
	}
}

func (store *eventsStore) AddEvent(event Event) {
	store.pending.Lock()
	defer store.pending.Unlock()

	store.pending.items = append(store.pending.items, event)
}

func (store *eventsStore) LoadEvents(height uint32) Events {
	store.RLock()
	bytes, err := store.db.Get(uint32ToBytes(height))
	store.RUnlock()
	if err != nil {
		panic(err)
	}
	if len(bytes) == 0 {
		return Events{}
	}

	var items Events
	if err := store.cdc.UnmarshalBinaryBare(bytes, &items); err != nil {
		panic(err)
	}

	return items
}

// CommitEvents writes the events collected since the previous commit under height
func (store *eventsStore) CommitEvents(height uint32) error {
	store.pending.Lock()
	defer store.pending.Unlock()

	if len(store.pending.items) == 0 {
		return nil
	}

	bytes, err := store.cdc.MarshalBinaryBare(store.pending.items)
	if err != nil {
		return err
	}

	store.Lock()
	defer store.Unlock()
	if err := store.db.Set(uint32ToBytes(height), bytes); err != nil {
		return err
	}

	store.pending.items = nil

	return nil
}

func uint32ToBytes(height uint32) []byte {
	var h = make([]byte, 4)
	binary.BigEndian.PutUint32(h, height)
	return h
}
