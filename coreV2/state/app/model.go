package app

import (
	"math/big"
	"sync"

	"github.com/poolescrow/poold/coreV2/types"
)

type Model struct {
	Admin         types.AccountRef
	VerifyWinners bool
	TotalStranded *big.Int
	NextPayoutID  uint64

	markDirty func()
	mx        sync.RWMutex
}

func (model *Model) getAdmin() types.AccountRef {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.Admin
}

func (model *Model) setAdmin(admin types.AccountRef) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.Admin != admin {
		model.markDirty()
	}
	model.Admin = admin
}

func (model *Model) verifyWinners() bool {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.VerifyWinners
}

func (model *Model) setVerifyWinners(verify bool) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.VerifyWinners != verify {
		model.markDirty()
	}
	model.VerifyWinners = verify
}

func (model *Model) getTotalStranded() *big.Int {
	model.mx.RLock()
	defer model.mx.RUnlock()

	if model.TotalStranded == nil {
		return big.NewInt(0)
	}

	return big.NewInt(0).Set(model.TotalStranded)
}

func (model *Model) setTotalStranded(totalStranded *big.Int) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.TotalStranded == nil || model.TotalStranded.Cmp(totalStranded) != 0 {
		model.markDirty()
	}
	model.TotalStranded = totalStranded
}

func (model *Model) getNextPayoutID() uint64 {
	model.mx.RLock()
	defer model.mx.RUnlock()

	return model.NextPayoutID
}

func (model *Model) setNextPayoutID(id uint64) {
	model.mx.Lock()
	defer model.mx.Unlock()

	if model.NextPayoutID != id {
		model.markDirty()
	}
	model.NextPayoutID = id
}

func (model *Model) allocatePayoutID() uint64 {
	model.mx.Lock()
	defer model.mx.Unlock()

	id := model.NextPayoutID
	model.NextPayoutID++
	model.markDirty()

	return id
}
