package transaction

import (
	"fmt"
	"strconv"

	abcTypes "github.com/tendermint/tendermint/abci/types"

	"github.com/poolescrow/poold/coreV2/code"
	eventsdb "github.com/poolescrow/poold/coreV2/events"
	"github.com/poolescrow/poold/coreV2/state"
	"github.com/poolescrow/poold/coreV2/types"
)

type JoinPoolData struct {
	Key string
}

func (data JoinPoolData) TxType() TxType {
	return TypeJoinPool
}

func (data JoinPoolData) poolKey() string {
	return data.Key
}

func (data JoinPoolData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	pool := context.Pools().GetPool(data.Key)
	if pool == nil {
		return poolNotFound(data.Key)
	}

	if pool.IsFull() {
		return &Response{
			Code: code.PoolFull,
			Log:  fmt.Sprintf("Pool %s is full", data.Key),
			Info: EncodeError(code.NewPoolFull(data.Key, strconv.FormatUint(uint64(pool.GetMaxParticipants()), 10))),
		}
	}

	if stake, value := pool.GetStake(), tx.AttachedValue(); stake.Cmp(value) != 0 {
		return &Response{
			Code: code.WrongDeposit,
			Log:  fmt.Sprintf("Attached value must be exactly %s, got %s", stake, value),
			Info: EncodeError(code.NewWrongDeposit(data.Key, stake.String(), value.String())),
		}
	}

	if context.Pools().IsParticipant(data.Key, tx.Caller) {
		return &Response{
			Code: code.AlreadyJoined,
			Log:  fmt.Sprintf("%s already joined pool %s", tx.Caller, data.Key),
			Info: EncodeError(code.NewAlreadyJoined(data.Key, tx.Caller.String())),
		}
	}

	return nil
}

func (data JoinPoolData) String() string {
	return fmt.Sprintf("JOIN POOL key:%s", data.Key)
}

func (data JoinPoolData) Run(tx *Transaction, context state.Interface, runtime Runtime) Response {
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
		caller, value := runtime.Caller(), runtime.AttachedValue()

		deliverState.Accounts.Transfer(caller, types.EscrowAccount, value)
		if err := deliverState.Pools.AddParticipant(data.Key, caller); err != nil {
			panic(fmt.Sprintf("join pool %s: %s", data.Key, err))
		}

		deliverState.Events().AddEvent(&eventsdb.PoolJoinedEvent{
			Key:     data.Key,
			Account: caller.String(),
			Amount:  value.String(),
		})

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.pool"), Value: []byte(data.Key), Index: true},
			{Key: []byte("tx.deposit"), Value: []byte(value.String())},
		}
	}

	return Response{
		Code: code.OK,
		Tags: tags,
	}
}

func poolNotFound(key string) *Response {
	return &Response{
		Code: code.PoolNotFound,
		Log:  fmt.Sprintf("Pool %s not found", key),
		Info: EncodeError(code.NewPoolNotFound(key)),
	}
}
