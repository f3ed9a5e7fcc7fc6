package accounts

import (
	"math/big"

	"github.com/poolescrow/poold/coreV2/types"
)

type Bus struct {
	accounts *Accounts
}

func NewBus(accounts *Accounts) *Bus {
	return &Bus{accounts: accounts}
}

func (b *Bus) GetBalance(address types.AccountRef) *big.Int {
	return b.accounts.GetBalance(address)
}

func (b *Bus) AddBalance(address types.AccountRef, value *big.Int) {
	b.accounts.AddBalance(address, value)
}

func (b *Bus) SubBalance(address types.AccountRef, value *big.Int) {
	b.accounts.SubBalance(address, value)
}
