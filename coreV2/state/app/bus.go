package app

import "math/big"

type Bus struct {
	app *App
}

func NewBus(app *App) *Bus {
	return &Bus{app: app}
}

func (b *Bus) AllocatePayoutID() uint64 {
	return b.app.AllocatePayoutID()
}

func (b *Bus) AddTotalStranded(amount *big.Int) {
	b.app.AddTotalStranded(amount)
}
