package transaction

import (
	"math/big"

	eventsdb "github.com/poolescrow/poold/coreV2/events"
	"github.com/poolescrow/poold/coreV2/state"
	"github.com/poolescrow/poold/coreV2/types"
	"github.com/tendermint/tendermint/crypto/tmhash"
)

// Runtime is the view of the host ledger available to an operation
type Runtime interface {
	Caller() types.AccountRef
	BlockTimestamp() uint64
	AttachedValue() *big.Int
	// RequestTransfer asks the ledger to move amount out of escrow custody.
	// It returns at once, the transfer settles at the end of the block.
	RequestTransfer(to types.AccountRef, amount *big.Int)
	ContentHash(data []byte) []byte
}

type ledgerRuntime struct {
	tx        *Transaction
	blockTime uint64
	poolKey   string

	// nil while checking
	deliver *state.State
}

func newRuntime(tx *Transaction, context state.Interface, blockTime uint64) *ledgerRuntime {
	runtime := &ledgerRuntime{
		tx:        tx,
		blockTime: blockTime,
	}

	if deliverState, ok := context.(*state.State); ok {
		runtime.deliver = deliverState
	}

	if scoped, ok := tx.decodedData.(poolScoped); ok {
		runtime.poolKey = scoped.poolKey()
	}

	return runtime
}

func (r *ledgerRuntime) Caller() types.AccountRef {
	return r.tx.Caller
}

func (r *ledgerRuntime) BlockTimestamp() uint64 {
	return r.blockTime
}

func (r *ledgerRuntime) AttachedValue() *big.Int {
	return r.tx.AttachedValue()
}

func (r *ledgerRuntime) RequestTransfer(to types.AccountRef, amount *big.Int) {
	if r.deliver == nil || amount.Sign() == 0 {
		return
	}

	payout := r.deliver.Payouts.Request(r.poolKey, r.tx.Caller, to, amount)

	r.deliver.Events().AddEvent(&eventsdb.TransferRequestedEvent{
		PayoutID:  payout.ID(),
		PoolKey:   r.poolKey,
		Recipient: to.String(),
		Amount:    amount.String(),
	})
}

func (r *ledgerRuntime) ContentHash(data []byte) []byte {
	return tmhash.Sum(data)
}
