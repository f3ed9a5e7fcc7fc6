package bus

import "math/big"

type App interface {
	AllocatePayoutID() uint64
	AddTotalStranded(*big.Int)
}
