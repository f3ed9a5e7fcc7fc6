package accounts

import (
	"math/big"
	"sync"

	"github.com/poolescrow/poold/coreV2/types"
)

type Model struct {
	Balance *big.Int
	Nonce   uint64

	address types.AccountRef

	markDirty func(types.AccountRef)
	lock      sync.RWMutex
}

func (model *Model) Address() types.AccountRef {
	return model.address
}

func (model *Model) getBalance() *big.Int {
	model.lock.RLock()
	defer model.lock.RUnlock()

	if model.Balance == nil {
		return big.NewInt(0)
	}

	return big.NewInt(0).Set(model.Balance)
}

func (model *Model) setBalance(value *big.Int) {
	model.lock.Lock()
	model.Balance = value
	model.lock.Unlock()

	model.markDirty(model.address)
}

func (model *Model) getNonce() uint64 {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return model.Nonce
}

func (model *Model) setNonce(nonce uint64) {
	model.lock.Lock()
	model.Nonce = nonce
	model.lock.Unlock()

	model.markDirty(model.address)
}

func (model *Model) isEmpty() bool {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return model.Nonce == 0 && (model.Balance == nil || model.Balance.Sign() == 0)
}
