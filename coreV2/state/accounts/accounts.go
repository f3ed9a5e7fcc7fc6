package accounts

import (
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

const mainPrefix = byte('a')

type RAccounts interface {
	Export(state *types.AppState)
	GetBalance(address types.AccountRef) *big.Int
	GetNonce(address types.AccountRef) uint64
}

type Accounts struct {
	list  map[types.AccountRef]*Model
	dirty map[types.AccountRef]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewAccounts(stateBus *bus.Bus, db *iavl.ImmutableTree) *Accounts {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	accounts := &Accounts{db: immutableTree, bus: stateBus, list: map[types.AccountRef]*Model{}, dirty: map[types.AccountRef]struct{}{}}
	accounts.bus.SetAccounts(NewBus(accounts))

	return accounts
}

func (a *Accounts) immutableTree() *iavl.ImmutableTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (a *Accounts) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	a.db.Store(immutableTree)
}

func (a *Accounts) Commit(db *iavl.MutableTree) error {
	for _, address := range a.getOrderedDirty() {
		account := a.getFromMap(address)
		a.lock.Lock()
		delete(a.dirty, address)
		a.lock.Unlock()

		path := getPath(address)
		if account.isEmpty() {
			db.Remove(path)
			continue
		}

		if account.getBalance().Sign() == -1 {
			panic(fmt.Sprintf("Account %s has negative balance: %s", address, account.getBalance()))
		}

		account.lock.RLock()
		data, err := rlp.EncodeToBytes(account)
		account.lock.RUnlock()
		if err != nil {
			return fmt.Errorf("can't encode account %s: %v", address, err)
		}

		db.Set(path, data)
	}

	return nil
}

func (a *Accounts) getOrderedDirty() []types.AccountRef {
	a.lock.RLock()
	keys := make([]types.AccountRef, 0, len(a.dirty))
	for k := range a.dirty {
		keys = append(keys, k)
	}
	a.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})

	return keys
}

func (a *Accounts) GetBalance(address types.AccountRef) *big.Int {
	account := a.get(address)
	if account == nil {
		return big.NewInt(0)
	}

	return account.getBalance()
}

func (a *Accounts) SetBalance(address types.AccountRef, amount *big.Int) {
	a.getOrNew(address).setBalance(big.NewInt(0).Set(amount))
}

func (a *Accounts) AddBalance(address types.AccountRef, amount *big.Int) {
	account := a.getOrNew(address)
	account.setBalance(big.NewInt(0).Add(account.getBalance(), amount))
	a.bus.Checker().AddValue(amount, "credit", address.String())
}

func (a *Accounts) SubBalance(address types.AccountRef, amount *big.Int) {
	account := a.getOrNew(address)
	account.setBalance(big.NewInt(0).Sub(account.getBalance(), amount))
	a.bus.Checker().AddValue(big.NewInt(0).Neg(amount), "debit", address.String())
}

// Transfer moves amount between two accounts
func (a *Accounts) Transfer(from, to types.AccountRef, amount *big.Int) {
	a.SubBalance(from, amount)
	a.AddBalance(to, amount)
}

func (a *Accounts) GetNonce(address types.AccountRef) uint64 {
	account := a.get(address)
	if account == nil {
		return 0
	}

	return account.getNonce()
}

func (a *Accounts) SetNonce(address types.AccountRef, nonce uint64) {
	a.getOrNew(address).setNonce(nonce)
}

func (a *Accounts) Export(state *types.AppState) {
	for _, address := range a.addresses() {
		account := a.get(address)
		if account == nil || account.isEmpty() {
			continue
		}

		state.Accounts = append(state.Accounts, types.Account{
			Address: address,
			Balance: account.getBalance().String(),
			Nonce:   account.getNonce(),
		})
	}
}

// addresses lists persisted and cached accounts in key order
func (a *Accounts) addresses() []types.AccountRef {
	seen := map[types.AccountRef]struct{}{}
	a.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, _ []byte) bool {
		seen[types.BytesToAccountRef(key[1:])] = struct{}{}
		return false
	})

	a.lock.RLock()
	for address := range a.list {
		seen[address] = struct{}{}
	}
	a.lock.RUnlock()

	list := make([]types.AccountRef, 0, len(seen))
	for address := range seen {
		list = append(list, address)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i] < list[j]
	})

	return list
}

func (a *Accounts) getOrNew(address types.AccountRef) *Model {
	account := a.get(address)
	if account == nil {
		account = &Model{
			Balance:   big.NewInt(0),
			address:   address,
			markDirty: a.markDirty,
		}
		a.setToMap(address, account)
	}

	return account
}

func (a *Accounts) get(address types.AccountRef) *Model {
	if account := a.getFromMap(address); account != nil {
		return account
	}

	_, enc := a.immutableTree().Get(getPath(address))
	if len(enc) == 0 {
		return nil
	}

	account := &Model{}
	if err := rlp.DecodeBytes(enc, account); err != nil {
		panic(fmt.Sprintf("failed to decode account %s: %s", address, err))
	}

	account.address = address
	account.markDirty = a.markDirty

	a.setToMap(address, account)

	return account
}

func (a *Accounts) markDirty(address types.AccountRef) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.dirty[address] = struct{}{}
}

func (a *Accounts) getFromMap(address types.AccountRef) *Model {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.list[address]
}

func (a *Accounts) setToMap(address types.AccountRef, model *Model) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.list[address] = model
}

func getPath(address types.AccountRef) []byte {
	return append([]byte{mainPrefix}, address.Bytes()...)
}
