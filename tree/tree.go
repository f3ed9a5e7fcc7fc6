package tree

import (
	"sync"

	"github.com/cosmos/iavl"
	dbm "github.com/tendermint/tm-db"
)

// Saver is a state module persisted in the tree
type Saver interface {
	Commit(db *iavl.MutableTree) error
	SetImmutableTree(immutableTree *iavl.ImmutableTree)
}

type MTree interface {
	Commit(savers ...Saver) ([]byte, int64, error)
	GetLastImmutable() *iavl.ImmutableTree
	GetImmutableAtHeight(version int64) (*iavl.ImmutableTree, error)
	Version() int64
	Hash() []byte
	AvailableVersions() []int
	DeleteVersion(version int64) error
}

// NewMutableTree opens the tree stored in db. Height 0 loads the latest saved version,
// any other height rolls the tree back to it.
func NewMutableTree(height uint64, db dbm.DB, cacheSize int) (MTree, error) {
	tree, err := iavl.NewMutableTree(db, cacheSize)
	if err != nil {
		return nil, err
	}

	if height == 0 {
		if _, err := tree.LoadVersion(0); err != nil {
			return nil, err
		}
	} else if _, err := tree.LoadVersionForOverwriting(int64(height)); err != nil {
		return nil, err
	}

	m := &mutableTree{tree: tree}
	last, err := m.GetImmutableAtHeight(tree.Version())
	if err != nil {
		return nil, err
	}
	m.lastImmutable = last

	return m, nil
}

// NewImmutableTree returns a read-only view of the tree at height
func NewImmutableTree(height uint64, db dbm.DB) (*iavl.ImmutableTree, error) {
	tree, err := iavl.NewMutableTree(db, 1024)
	if err != nil {
		return nil, err
	}

	if _, err := tree.LazyLoadVersion(int64(height)); err != nil {
		return nil, err
	}

	if tree.Version() == 0 {
		return emptyImmutable(), nil
	}

	return tree.GetImmutable(tree.Version())
}

type mutableTree struct {
	tree          *iavl.MutableTree
	lastImmutable *iavl.ImmutableTree

	lock sync.RWMutex
}

func (t *mutableTree) Commit(savers ...Saver) ([]byte, int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for _, saver := range savers {
		if err := saver.Commit(t.tree); err != nil {
			return nil, 0, err
		}
	}

	hash, version, err := t.tree.SaveVersion()
	if err != nil {
		return nil, 0, err
	}

	immutable, err := t.tree.GetImmutable(version)
	if err != nil {
		return nil, 0, err
	}
	t.lastImmutable = immutable

	for _, saver := range savers {
		saver.SetImmutableTree(immutable)
	}

	return hash, version, nil
}

func (t *mutableTree) GetLastImmutable() *iavl.ImmutableTree {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.lastImmutable
}

func (t *mutableTree) GetImmutableAtHeight(version int64) (*iavl.ImmutableTree, error) {
	if version == 0 {
		return emptyImmutable(), nil
	}

	return t.tree.GetImmutable(version)
}

func (t *mutableTree) Version() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Version()
}

func (t *mutableTree) Hash() []byte {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Hash()
}

func (t *mutableTree) AvailableVersions() []int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.AvailableVersions()
}

// DeleteVersion removes version if it is still stored
func (t *mutableTree) DeleteVersion(version int64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.tree.VersionExists(version) {
		return nil
	}

	return t.tree.DeleteVersion(version)
}

func emptyImmutable() *iavl.ImmutableTree {
	return iavl.NewImmutableTree(dbm.NewMemDB(), 0)
}
