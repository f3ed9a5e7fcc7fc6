package transaction

import (
	"fmt"
	"math/big"
	"strconv"

	abcTypes "github.com/tendermint/tendermint/abci/types"

	"github.com/poolescrow/poold/coreV2/code"
	eventsdb "github.com/poolescrow/poold/coreV2/events"
	"github.com/poolescrow/poold/coreV2/state"
	"github.com/poolescrow/poold/helpers"
)

type CreatePoolData struct {
	Key             string
	Stake           *big.Int
	MaxParticipants uint32
}

func (data CreatePoolData) TxType() TxType {
	return TypeCreatePool
}

func (data CreatePoolData) poolKey() string {
	return data.Key
}

func (data CreatePoolData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	admin := context.App().GetAdmin()
	if tx.Caller != admin {
		return &Response{
			Code: code.Unauthorized,
			Log:  "Only admin can create pools",
			Info: EncodeError(code.NewUnauthorized(tx.Caller.String(), admin.String())),
		}
	}

	if pool := context.Pools().GetPool(data.Key); pool != nil {
		return &Response{
			Code: code.PoolAlreadyExists,
			Log:  fmt.Sprintf("Pool %s already exists", data.Key),
			Info: EncodeError(code.NewPoolAlreadyExists(data.Key, pool.GetCreator().String())),
		}
	}

	if response := checkNoDeposit(tx); response != nil {
		return response
	}

	if !helpers.IsValidAmount(data.Stake) {
		return &Response{
			Code: code.ValueOverflow,
			Log:  fmt.Sprintf("Stake %s is out of range", data.Stake),
			Info: EncodeError(code.NewValueOverflow(fmt.Sprint(data.Stake), helpers.MaxUint128.String())),
		}
	}

	return nil
}

func (data CreatePoolData) String() string {
	return fmt.Sprintf("CREATE POOL key:%s stake:%s max:%d", data.Key, data.Stake, data.MaxParticipants)
}

func (data CreatePoolData) Run(tx *Transaction, context state.Interface, runtime Runtime) Response {
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
		creator := runtime.Caller()
		_, err := deliverState.Pools.Create(data.Key, creator, data.Stake, data.MaxParticipants, runtime.BlockTimestamp(), runtime.ContentHash([]byte(data.Key)))
		if err != nil {
			panic(fmt.Sprintf("create pool %s: %s", data.Key, err))
		}

		deliverState.Events().AddEvent(&eventsdb.PoolCreatedEvent{
			Key:             data.Key,
			Creator:         creator.String(),
			Stake:           data.Stake.String(),
			MaxParticipants: data.MaxParticipants,
		})

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.pool"), Value: []byte(data.Key), Index: true},
			{Key: []byte("tx.stake"), Value: []byte(data.Stake.String())},
			{Key: []byte("tx.max_participants"), Value: []byte(strconv.FormatUint(uint64(data.MaxParticipants), 10))},
		}
	}

	return Response{
		Code: code.OK,
		Tags: tags,
	}
}
