package pools

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/poolescrow/poold/coreV2/state/bus"
	"github.com/poolescrow/poold/coreV2/types"
	"github.com/tendermint/tendermint/crypto/tmhash"
)

const (
	mainPrefix    = byte('p')
	membersPrefix = byte('m')
)

var (
	ErrPoolExists    = errors.New("pool already exists")
	ErrPoolNotFound  = errors.New("pool not found")
	ErrAlreadyMember = errors.New("account is already a participant")
	ErrNotAMember    = errors.New("account is not a participant")
)

type RPools interface {
	Export(state *types.AppState)
	GetPool(key string) *Model
	Exists(key string) bool
	IsParticipant(key string, account types.AccountRef) bool
	Participants(key string) []types.AccountRef
	Iterate(fn func(pool *Model) (stop bool))
	Count() int
	TotalEscrowed() *big.Int
}

// Pools is the registry of live pools. A key maps to at most one pool,
// resolution deletes the pool together with its participant set.
type Pools struct {
	list  map[string]*Model
	dirty map[string]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewPools(stateBus *bus.Bus, db *iavl.ImmutableTree) *Pools {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Pools{bus: stateBus, db: immutableTree, list: map[string]*Model{}, dirty: map[string]struct{}{}}
}

// Namespace derives the storage namespace of the participant set of key
func Namespace(key string) []byte {
	return tmhash.Sum([]byte(key))
}

func (p *Pools) immutableTree() *iavl.ImmutableTree {
	db := p.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (p *Pools) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	p.db.Store(immutableTree)
}

func (p *Pools) Commit(db *iavl.MutableTree) error {
	for _, key := range p.getOrderedDirty() {
		pool := p.getFromMap(key)

		p.lock.Lock()
		delete(p.dirty, key)
		p.lock.Unlock()

		pool.lock.Lock()
		if pool.deleted || pool.resetMembers {
			p.purgeMembers(db, pool.Namespace)
		}

		if pool.deleted {
			pool.lock.Unlock()

			p.lock.Lock()
			if p.list[key] == pool {
				delete(p.list, key)
			}
			p.lock.Unlock()

			db.Remove(getPath(key))
			continue
		}

		accounts := make([]types.AccountRef, 0, len(pool.members))
		for account := range pool.members {
			accounts = append(accounts, account)
		}
		sort.Slice(accounts, func(i, j int) bool {
			return accounts[i] < accounts[j]
		})
		for _, account := range accounts {
			path := getMemberPath(pool.Namespace, account)
			if pool.members[account] {
				db.Set(path, []byte{1})
			} else {
				db.Remove(path)
			}
		}
		pool.members = map[types.AccountRef]bool{}
		pool.resetMembers = false

		data, err := rlp.EncodeToBytes(pool)
		pool.lock.Unlock()
		if err != nil {
			return fmt.Errorf("can't encode pool %s: %v", key, err)
		}

		db.Set(getPath(key), data)
	}

	return nil
}

// purgeMembers removes the persisted participant set of a namespace
func (p *Pools) purgeMembers(db *iavl.MutableTree, namespace []byte) {
	var paths [][]byte
	start, end := getMembersRange(namespace)
	p.immutableTree().IterateRange(start, end, true, func(key []byte, _ []byte) bool {
		paths = append(paths, append([]byte(nil), key...))
		return false
	})

	for _, path := range paths {
		db.Remove(path)
	}
}

// Create registers a new pool, it fails if key refers to a live pool
func (p *Pools) Create(key string, creator types.AccountRef, stake *big.Int, maxParticipants uint32, createdAt uint64, namespace []byte) (*Model, error) {
	if existing := p.get(key); existing != nil {
		return nil, ErrPoolExists
	}

	pool := &Model{
		Creator:         creator,
		MaxParticipants: maxParticipants,
		CreatedAt:       createdAt,
		Stake:           big.NewInt(0).Set(stake),
		Namespace:       append([]byte(nil), namespace...),
		key:             key,
		resetMembers:    true,
		members:         map[types.AccountRef]bool{},
		markDirty:       p.markDirty,
	}
	p.setToMap(key, pool)
	p.markDirty(key)

	return pool, nil
}

func (p *Pools) GetPool(key string) *Model {
	return p.get(key)
}

func (p *Pools) Exists(key string) bool {
	return p.get(key) != nil
}

// Delete removes the pool and its participants, missing keys are ignored
func (p *Pools) Delete(key string) {
	pool := p.get(key)
	if pool == nil {
		return
	}

	pool.delete()
}

func (p *Pools) AddParticipant(key string, account types.AccountRef) error {
	pool := p.get(key)
	if pool == nil {
		return ErrPoolNotFound
	}

	if p.isMember(pool, account) {
		return ErrAlreadyMember
	}

	pool.addMember(account)

	return nil
}

func (p *Pools) RemoveParticipant(key string, account types.AccountRef) error {
	pool := p.get(key)
	if pool == nil {
		return ErrPoolNotFound
	}

	if !p.isMember(pool, account) {
		return ErrNotAMember
	}

	pool.removeMember(account)

	return nil
}

func (p *Pools) IsParticipant(key string, account types.AccountRef) bool {
	pool := p.get(key)
	if pool == nil {
		return false
	}

	return p.isMember(pool, account)
}

func (p *Pools) isMember(pool *Model, account types.AccountRef) bool {
	if isMember, known := pool.member(account); known {
		return isMember
	}

	_, value := p.immutableTree().Get(getMemberPath(pool.namespace(), account))

	return len(value) != 0
}

// Participants lists the members of a pool in account order. Only the pool
// namespace is scanned.
func (p *Pools) Participants(key string) []types.AccountRef {
	pool := p.get(key)
	if pool == nil {
		return nil
	}

	set := map[types.AccountRef]struct{}{}

	pool.lock.RLock()
	reset := pool.resetMembers
	namespace := pool.Namespace
	pool.lock.RUnlock()

	if !reset {
		start, end := getMembersRange(namespace)
		prefixLen := len(start)
		p.immutableTree().IterateRange(start, end, true, func(key []byte, _ []byte) bool {
			set[types.BytesToAccountRef(key[prefixLen:])] = struct{}{}
			return false
		})
	}

	pool.lock.RLock()
	for account, isMember := range pool.members {
		if isMember {
			set[account] = struct{}{}
		} else {
			delete(set, account)
		}
	}
	pool.lock.RUnlock()

	participants := make([]types.AccountRef, 0, len(set))
	for account := range set {
		participants = append(participants, account)
	}
	sort.Slice(participants, func(i, j int) bool {
		return participants[i] < participants[j]
	})

	return participants
}

// Iterate walks live pools in key order
func (p *Pools) Iterate(fn func(pool *Model) (stop bool)) {
	for _, key := range p.keys() {
		pool := p.get(key)
		if pool == nil {
			continue
		}

		if fn(pool) {
			return
		}
	}
}

func (p *Pools) Count() int {
	count := 0
	p.Iterate(func(*Model) bool {
		count++
		return false
	})

	return count
}

// TotalEscrowed sums the pots of all live pools
func (p *Pools) TotalEscrowed() *big.Int {
	total := big.NewInt(0)
	p.Iterate(func(pool *Model) bool {
		total.Add(total, pool.Pot())
		return false
	})

	return total
}

func (p *Pools) Export(state *types.AppState) {
	p.Iterate(func(pool *Model) bool {
		state.Pools = append(state.Pools, types.Pool{
			Key:                 pool.Key(),
			Creator:             pool.GetCreator(),
			Stake:               pool.GetStake().String(),
			MaxParticipants:     pool.GetMaxParticipants(),
			CurrentParticipants: pool.GetCurrentParticipants(),
			CreatedAt:           pool.GetCreatedAt(),
			Participants:        p.Participants(pool.Key()),
		})
		return false
	})
}

func (p *Pools) Import(state *types.AppState) error {
	for _, pool := range state.Pools {
		stake, ok := big.NewInt(0).SetString(pool.Stake, 10)
		if !ok {
			return fmt.Errorf("pool %s: invalid stake %q", pool.Key, pool.Stake)
		}

		if _, err := p.Create(pool.Key, pool.Creator, stake, pool.MaxParticipants, pool.CreatedAt, Namespace(pool.Key)); err != nil {
			return fmt.Errorf("pool %s: %w", pool.Key, err)
		}

		for _, participant := range pool.Participants {
			if err := p.AddParticipant(pool.Key, participant); err != nil {
				return fmt.Errorf("pool %s, participant %s: %w", pool.Key, participant, err)
			}
		}
	}

	return nil
}

// keys lists persisted and cached pool keys in order
func (p *Pools) keys() []string {
	seen := map[string]struct{}{}
	p.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, _ []byte) bool {
		seen[string(key[1:])] = struct{}{}
		return false
	})

	p.lock.RLock()
	for key := range p.list {
		seen[key] = struct{}{}
	}
	p.lock.RUnlock()

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

func (p *Pools) get(key string) *Model {
	if pool := p.getFromMap(key); pool != nil {
		if pool.isDeleted() {
			return nil
		}
		return pool
	}

	_, enc := p.immutableTree().Get(getPath(key))
	if len(enc) == 0 {
		return nil
	}

	pool := &Model{}
	if err := rlp.DecodeBytes(enc, pool); err != nil {
		panic(fmt.Sprintf("failed to decode pool %s: %s", key, err))
	}

	pool.key = key
	pool.members = map[types.AccountRef]bool{}
	pool.markDirty = p.markDirty

	p.setToMap(key, pool)

	return pool
}

func (p *Pools) markDirty(key string) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.dirty[key] = struct{}{}
}

func (p *Pools) getOrderedDirty() []string {
	p.lock.RLock()
	keys := make([]string, 0, len(p.dirty))
	for k := range p.dirty {
		keys = append(keys, k)
	}
	p.lock.RUnlock()

	sort.Strings(keys)

	return keys
}

func (p *Pools) getFromMap(key string) *Model {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.list[key]
}

func (p *Pools) setToMap(key string, model *Model) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.list[key] = model
}

func getPath(key string) []byte {
	return append([]byte{mainPrefix}, key...)
}

func getMemberPath(namespace []byte, account types.AccountRef) []byte {
	path := make([]byte, 0, 1+len(namespace)+len(account))
	path = append(path, membersPrefix)
	path = append(path, namespace...)

	return append(path, account.Bytes()...)
}

func getMembersRange(namespace []byte) (start []byte, end []byte) {
	start = append([]byte{membersPrefix}, namespace...)

	end = append([]byte(nil), start...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return start, end
		}
	}

	return start, nil
}
