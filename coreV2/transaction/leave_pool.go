package transaction

import (
	"fmt"

	abcTypes "github.com/tendermint/tendermint/abci/types"

	"github.com/poolescrow/poold/coreV2/code"
	eventsdb "github.com/poolescrow/poold/coreV2/events"
	"github.com/poolescrow/poold/coreV2/state"
)

type LeavePoolData struct {
	Key string
}

func (data LeavePoolData) TxType() TxType {
	return TypeLeavePool
}

func (data LeavePoolData) poolKey() string {
	return data.Key
}

func (data LeavePoolData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	if !context.Pools().Exists(data.Key) {
		return poolNotFound(data.Key)
	}

	if !context.Pools().IsParticipant(data.Key, tx.Caller) {
		return &Response{
			Code: code.NotAMember,
			Log:  fmt.Sprintf("%s is not a participant of pool %s", tx.Caller, data.Key),
			Info: EncodeError(code.NewNotAMember(data.Key, tx.Caller.String())),
		}
	}

	return checkNoDeposit(tx)
}

func (data LeavePoolData) String() string {
	return fmt.Sprintf("LEAVE POOL key:%s", data.Key)
}

// Run removes the caller from the pool and refunds the stake
func (data LeavePoolData) Run(tx *Transaction, context state.Interface, runtime Runtime) Response {
	var checkState *state.CheckState
	var isCheck bool
	if checkState, isCheck = context.(*state.CheckState); !isCheck {
		checkState = state.NewCheckState(context.(*state.State))
	}

	response := data.basicCheck(tx, checkState)
	if response != nil {
		return *response
	}

	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		caller := runtime.Caller()
		refund := deliverState.Pools.GetPool(data.Key).GetStake()

		if err := deliverState.Pools.RemoveParticipant(data.Key, caller); err != nil {
			panic(fmt.Sprintf("leave pool %s: %s", data.Key, err))
		}
		runtime.RequestTransfer(caller, refund)

		deliverState.Events().AddEvent(&eventsdb.PoolLeftEvent{
			Key:     data.Key,
			Account: caller.String(),
			Refund:  refund.String(),
		})

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.pool"), Value: []byte(data.Key), Index: true},
			{Key: []byte("tx.refund"), Value: []byte(refund.String())},
		}
	}

	return Response{
		Code: code.OK,
		Tags: tags,
	}
}
