package pools

import (
	"math/big"
	"sync"

	"github.com/poolescrow/poold/coreV2/types"
)

// Model is a pool record. Participants are not part of the record, they live
// under the pool namespace.
type Model struct {
	Creator             types.AccountRef
	MaxParticipants     uint32
	CurrentParticipants uint32
	CreatedAt           uint64
	Stake               *big.Int
	Namespace           []byte

	key          string
	deleted      bool
	resetMembers bool
	members      map[types.AccountRef]bool

	markDirty func(key string)
	lock      sync.RWMutex
}

func (m *Model) Key() string {
	return m.key
}

func (m *Model) GetCreator() types.AccountRef {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.Creator
}

func (m *Model) GetStake() *big.Int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return big.NewInt(0).Set(m.Stake)
}

func (m *Model) GetMaxParticipants() uint32 {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.MaxParticipants
}

func (m *Model) GetCurrentParticipants() uint32 {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.CurrentParticipants
}

func (m *Model) GetCreatedAt() uint64 {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.CreatedAt
}

func (m *Model) IsFull() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.CurrentParticipants >= m.MaxParticipants
}

// Pot is the value escrowed by the current participants
func (m *Model) Pot() *big.Int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return big.NewInt(0).Mul(m.Stake, big.NewInt(int64(m.CurrentParticipants)))
}

func (m *Model) namespace() []byte {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.Namespace
}

func (m *Model) isDeleted() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.deleted
}

func (m *Model) delete() {
	m.lock.Lock()
	m.deleted = true
	m.members = map[types.AccountRef]bool{}
	m.lock.Unlock()

	m.markDirty(m.key)
}

// member reports the cached membership of account, known is false when the
// persisted set has to be consulted
func (m *Model) member(account types.AccountRef) (isMember bool, known bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if isMember, ok := m.members[account]; ok {
		return isMember, true
	}

	return false, m.resetMembers
}

func (m *Model) addMember(account types.AccountRef) {
	m.lock.Lock()
	m.members[account] = true
	m.CurrentParticipants++
	m.lock.Unlock()

	m.markDirty(m.key)
}

func (m *Model) removeMember(account types.AccountRef) {
	m.lock.Lock()
	m.members[account] = false
	m.CurrentParticipants--
	m.lock.Unlock()

	m.markDirty(m.key)
}
