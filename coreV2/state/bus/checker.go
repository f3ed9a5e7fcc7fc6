package bus

import "math/big"

type Checker interface {
	AddValue(*big.Int, ...string)
}
