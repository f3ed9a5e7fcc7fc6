package transaction

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

func GetData(txType TxType) (Data, bool) {
	switch txType {
	case TypeCreatePool:
		return &CreatePoolData{}, true
	case TypeJoinPool:
		return &JoinPoolData{}, true
	case TypeLeavePool:
		return &LeavePoolData{}, true
	case TypeResolvePool:
		return &ResolvePoolData{}, true
	case TypeRotateAdmin:
		return &RotateAdminData{}, true
	case TypeRetryPayout:
		return &RetryPayoutData{}, true
	case TypeSweepStranded:
		return &SweepStrandedData{}, true
	default:
		return nil, false
	}
}

func (e *Executor) DecodeFromBytes(buf []byte) (*Transaction, error) {
	var tx Transaction
	err := rlp.DecodeBytes(buf, &tx)

	if err != nil {
		return nil, err
	}

	if tx.Data == nil {
		return nil, errors.New("incorrect tx data")
	}

	if tx.Caller.IsEmpty() {
		return nil, errors.New("tx has no caller")
	}

	d, ok := e.decodeTxFunc(tx.Type)

	if !ok {
		return nil, fmt.Errorf("tx type %x is not registered", tx.Type)
	}

	err = rlp.DecodeBytes(tx.Data, d)

	if err != nil {
		return nil, err
	}

	tx.SetDecodedData(d)

	return &tx, nil
}
