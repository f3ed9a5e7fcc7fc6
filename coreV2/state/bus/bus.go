package bus

import (
	eventsdb "github.com/poolescrow/poold/coreV2/events"
)

// Bus links state modules with each other without import cycles
type Bus struct {
	accounts Accounts
	app      App
	checker  Checker
	events   eventsdb.IEventsDB
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SetAccounts(accounts Accounts) {
	b.accounts = accounts
}

func (b *Bus) Accounts() Accounts {
	return b.accounts
}

func (b *Bus) SetApp(app App) {
	b.app = app
}

func (b *Bus) App() App {
	return b.app
}

func (b *Bus) SetChecker(checker Checker) {
	b.checker = checker
}

func (b *Bus) Checker() Checker {
	return b.checker
}

func (b *Bus) SetEvents(events eventsdb.IEventsDB) {
	b.events = events
}

// Events returns the events store, or a store that drops events when none is set
func (b *Bus) Events() eventsdb.IEventsDB {
	if b.events == nil {
		return eventsdb.MockEvents{}
	}
	return b.events
}
