package bus

import (
	"math/big"

	"github.com/poolescrow/poold/coreV2/types"
)

type Accounts interface {
	GetBalance(types.AccountRef) *big.Int
	AddBalance(types.AccountRef, *big.Int)
	SubBalance(types.AccountRef, *big.Int)
}
