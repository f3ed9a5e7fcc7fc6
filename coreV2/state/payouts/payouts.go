package payouts

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/poolescrow/poold/coreV2/state/bus"
	"github.com/poolescrow/poold/coreV2/types"
)

const mainPrefix = byte('o')

type RPayouts interface {
	Export(state *types.AppState)
	GetPayout(id uint64) *Model
	Iterate(fn func(payout *Model) (stop bool))
	Total() *big.Int
	Count() (pending int, failed int)
}

// Payouts holds requested transfers until the settlement moves the value
// out of escrow. Settled payouts are removed, failed ones wait for a retry.
type Payouts struct {
	list  map[uint64]*Model
	dirty map[uint64]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewPayouts(stateBus *bus.Bus, db *iavl.ImmutableTree) *Payouts {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Payouts{bus: stateBus, db: immutableTree, list: map[uint64]*Model{}, dirty: map[uint64]struct{}{}}
}

func (p *Payouts) immutableTree() *iavl.ImmutableTree {
	db := p.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (p *Payouts) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	p.db.Store(immutableTree)
}

func (p *Payouts) Commit(db *iavl.MutableTree) error {
	for _, id := range p.getOrderedDirty() {
		payout := p.getFromMap(id)
		path := getPath(id)

		p.lock.Lock()
		delete(p.dirty, id)
		p.lock.Unlock()

		if payout.isDeleted() {
			p.lock.Lock()
			delete(p.list, id)
			p.lock.Unlock()

			db.Remove(path)
			continue
		}

		payout.lock.RLock()
		data, err := rlp.EncodeToBytes(payout)
		payout.lock.RUnlock()
		if err != nil {
			return fmt.Errorf("can't encode payout %d: %v", id, err)
		}

		db.Set(path, data)
	}

	return nil
}

// Request records a pending transfer of amount from escrow to recipient
func (p *Payouts) Request(poolKey string, owner, recipient types.AccountRef, amount *big.Int) *Model {
	id := p.bus.App().AllocatePayoutID()

	return p.add(id, &Model{
		PoolKey:   poolKey,
		Owner:     owner,
		Recipient: recipient,
		Amount:    big.NewInt(0).Set(amount),
		Status:    StatusPending,
	})
}

func (p *Payouts) add(id uint64, payout *Model) *Model {
	payout.id = id
	payout.markDirty = p.markDirty

	p.setToMap(id, payout)
	p.markDirty(id)

	return payout
}

func (p *Payouts) GetPayout(id uint64) *Model {
	return p.get(id)
}

// Settle removes a payout whose value has left escrow
func (p *Payouts) Settle(id uint64) {
	payout := p.get(id)
	if payout == nil {
		return
	}

	payout.delete()
}

// MarkFailed keeps the payout in escrow until it is retried
func (p *Payouts) MarkFailed(id uint64) {
	payout := p.get(id)
	if payout == nil {
		return
	}

	payout.fail()
}

// Retry returns a failed payout to the settlement queue, optionally with a new recipient
func (p *Payouts) Retry(id uint64, recipient types.AccountRef) {
	payout := p.get(id)
	if payout == nil {
		return
	}

	payout.retry(recipient)
}

// Pending returns payouts waiting for settlement in id order
func (p *Payouts) Pending() []*Model {
	var list []*Model
	p.Iterate(func(payout *Model) bool {
		if !payout.IsFailed() {
			list = append(list, payout)
		}
		return false
	})

	return list
}

// Iterate walks payouts in id order
func (p *Payouts) Iterate(fn func(payout *Model) (stop bool)) {
	for _, id := range p.ids() {
		payout := p.get(id)
		if payout == nil {
			continue
		}

		if fn(payout) {
			return
		}
	}
}

// Total sums the amounts of all unsettled payouts
func (p *Payouts) Total() *big.Int {
	total := big.NewInt(0)
	p.Iterate(func(payout *Model) bool {
		total.Add(total, payout.GetAmount())
		return false
	})

	return total
}

func (p *Payouts) Count() (pending int, failed int) {
	p.Iterate(func(payout *Model) bool {
		if payout.IsFailed() {
			failed++
		} else {
			pending++
		}
		return false
	})

	return pending, failed
}

func (p *Payouts) Export(state *types.AppState) {
	p.Iterate(func(payout *Model) bool {
		state.Payouts = append(state.Payouts, types.Payout{
			ID:        payout.ID(),
			PoolKey:   payout.GetPoolKey(),
			Owner:     payout.GetOwner(),
			Recipient: payout.GetRecipient(),
			Amount:    payout.GetAmount().String(),
			Status:    payout.StatusString(),
		})
		return false
	})
}

func (p *Payouts) Import(state *types.AppState) error {
	for _, payout := range state.Payouts {
		amount, ok := big.NewInt(0).SetString(payout.Amount, 10)
		if !ok {
			return fmt.Errorf("payout %d: invalid amount %q", payout.ID, payout.Amount)
		}

		status, ok := StatusFromString(payout.Status)
		if !ok {
			return fmt.Errorf("payout %d: unknown status %q", payout.ID, payout.Status)
		}

		p.add(payout.ID, &Model{
			PoolKey:   payout.PoolKey,
			Owner:     payout.Owner,
			Recipient: payout.Recipient,
			Amount:    amount,
			Status:    status,
		})
	}

	return nil
}

func (p *Payouts) ids() []uint64 {
	seen := map[uint64]struct{}{}
	p.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, _ []byte) bool {
		seen[binary.BigEndian.Uint64(key[1:])] = struct{}{}
		return false
	})

	p.lock.RLock()
	for id := range p.list {
		seen[id] = struct{}{}
	}
	p.lock.RUnlock()

	ids := make([]uint64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})

	return ids
}

func (p *Payouts) get(id uint64) *Model {
	if payout := p.getFromMap(id); payout != nil {
		if payout.isDeleted() {
			return nil
		}
		return payout
	}

	_, enc := p.immutableTree().Get(getPath(id))
	if len(enc) == 0 {
		return nil
	}

	payout := &Model{}
	if err := rlp.DecodeBytes(enc, payout); err != nil {
		panic(fmt.Sprintf("failed to decode payout %d: %s", id, err))
	}

	payout.id = id
	payout.markDirty = p.markDirty

	p.setToMap(id, payout)

	return payout
}

func (p *Payouts) markDirty(id uint64) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.dirty[id] = struct{}{}
}

func (p *Payouts) getOrderedDirty() []uint64 {
	p.lock.RLock()
	keys := make([]uint64, 0, len(p.dirty))
	for k := range p.dirty {
		keys = append(keys, k)
	}
	p.lock.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})

	return keys
}

func (p *Payouts) getFromMap(id uint64) *Model {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.list[id]
}

func (p *Payouts) setToMap(id uint64, model *Model) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.list[id] = model
}

func getPath(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)

	return append([]byte{mainPrefix}, b...)
}
