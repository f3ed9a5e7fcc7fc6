package payouts

import (
	"math/big"
	"sync"

	"github.com/poolescrow/poold/coreV2/types"
)

const (
	StatusPending uint8 = iota
	StatusFailed
)

// Model is a transfer out of escrow custody that has not been settled yet
type Model struct {
	PoolKey   string
	Owner     types.AccountRef
	Recipient types.AccountRef
	Amount    *big.Int
	Status    uint8
	Attempts  uint32

	id      uint64
	deleted bool

	markDirty func(id uint64)
	lock      sync.RWMutex
}

func (m *Model) ID() uint64 {
	return m.id
}

func (m *Model) GetPoolKey() string {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.PoolKey
}

func (m *Model) GetOwner() types.AccountRef {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.Owner
}

func (m *Model) GetRecipient() types.AccountRef {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.Recipient
}

func (m *Model) GetAmount() *big.Int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return big.NewInt(0).Set(m.Amount)
}

func (m *Model) GetStatus() uint8 {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.Status
}

func (m *Model) GetAttempts() uint32 {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.Attempts
}

func (m *Model) IsFailed() bool {
	return m.GetStatus() == StatusFailed
}

// StatusString returns the status name used in genesis and the API
func (m *Model) StatusString() string {
	return StatusToString(m.GetStatus())
}

func StatusToString(status uint8) string {
	if status == StatusFailed {
		return types.PayoutStatusFailed
	}
	return types.PayoutStatusPending
}

func StatusFromString(status string) (uint8, bool) {
	switch status {
	case types.PayoutStatusPending:
		return StatusPending, true
	case types.PayoutStatusFailed:
		return StatusFailed, true
	}
	return 0, false
}

func (m *Model) isDeleted() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.deleted
}

func (m *Model) delete() {
	m.lock.Lock()
	m.deleted = true
	m.lock.Unlock()

	m.markDirty(m.id)
}

func (m *Model) fail() {
	m.lock.Lock()
	m.Status = StatusFailed
	m.Attempts++
	m.lock.Unlock()

	m.markDirty(m.id)
}

func (m *Model) retry(recipient types.AccountRef) {
	m.lock.Lock()
	m.Status = StatusPending
	if !recipient.IsEmpty() {
		m.Recipient = recipient
	}
	m.lock.Unlock()

	m.markDirty(m.id)
}
