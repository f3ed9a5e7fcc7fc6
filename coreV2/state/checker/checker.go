package checker

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"

	"github.com/poolescrow/poold/coreV2/state/bus"
)

// Checker sums every balance movement of a block. Value is never minted or
// burned after genesis, so the sum has to be zero.
type Checker struct {
	delta   *big.Int
	sources map[string]*big.Int

	lock sync.RWMutex
}

func NewChecker(bus *bus.Bus) *Checker {
	checker := &Checker{
		delta:   big.NewInt(0),
		sources: map[string]*big.Int{},
	}
	bus.SetChecker(checker)

	return checker
}

// AddValue registers a balance change, msg optionally names its origin
func (c *Checker) AddValue(value *big.Int, msg ...string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.delta.Add(c.delta, value)

	if len(msg) == 0 {
		return
	}
	source := strings.Join(msg, " ")
	sValue, exists := c.sources[source]
	if !exists {
		sValue = big.NewInt(0)
		c.sources[source] = sValue
	}
	sValue.Add(sValue, value)
}

// Reset resets checker data
func (c *Checker) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.delta = big.NewInt(0)
	c.sources = map[string]*big.Int{}
}

func (c *Checker) Delta() *big.Int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return big.NewInt(0).Set(c.delta)
}

func (c *Checker) Check() error {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.delta.Sign() == 0 {
		return nil
	}

	names := make([]string, 0, len(c.sources))
	for name := range c.sources {
		names = append(names, name)
	}
	sort.Strings(names)

	details := make([]string, 0, len(names))
	for _, name := range names {
		details = append(details, fmt.Sprintf("%s: %s", name, c.sources[name]))
	}

	return fmt.Errorf("invariants error: balances changed by %s [%s]", c.delta.String(), strings.Join(details, ", "))
}
