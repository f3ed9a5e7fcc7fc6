package transaction

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	abcTypes "github.com/tendermint/tendermint/abci/types"

	"github.com/poolescrow/poold/coreV2/code"
	eventsdb "github.com/poolescrow/poold/coreV2/events"
	"github.com/poolescrow/poold/coreV2/state"
	"github.com/poolescrow/poold/coreV2/types"
)

type ResolvePoolData struct {
	Key     string
	Winners []types.AccountRef
}

// Distribution is the outcome of a pool resolution
type Distribution struct {
	Payout   *big.Int `json:"payout"`
	Pot      *big.Int `json:"pot"`
	Residual *big.Int `json:"residual"`
}

// Distribute splits a pool between winners. Every winner gets
// floor(stake/winners)*participants, so the residual left from the pot is
// pot - payout*winners. It is never negative.
func Distribute(stake *big.Int, participants uint32, winners int) Distribution {
	current := big.NewInt(int64(participants))

	payout := big.NewInt(0).Div(stake, big.NewInt(int64(winners)))
	payout.Mul(payout, current)

	pot := big.NewInt(0).Mul(stake, current)

	residual := big.NewInt(0).Mul(payout, big.NewInt(int64(winners)))
	residual.Sub(pot, residual)

	return Distribution{
		Payout:   payout,
		Pot:      pot,
		Residual: residual,
	}
}

func (data ResolvePoolData) TxType() TxType {
	return TypeResolvePool
}

func (data ResolvePoolData) poolKey() string {
	return data.Key
}

func (data ResolvePoolData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	pool := context.Pools().GetPool(data.Key)
	if pool == nil {
		return poolNotFound(data.Key)
	}

	if creator := pool.GetCreator(); tx.Caller != creator {
		return &Response{
			Code: code.Unauthorized,
			Log:  "Only pool creator can resolve the pool",
			Info: EncodeError(code.NewUnauthorized(tx.Caller.String(), creator.String())),
		}
	}

	if len(data.Winners) == 0 {
		return &Response{
			Code: code.NoWinners,
			Log:  "Winners list is empty",
			Info: EncodeError(code.NewNoWinners(data.Key)),
		}
	}

	if current := pool.GetCurrentParticipants(); uint64(len(data.Winners)) > uint64(current) {
		return &Response{
			Code: code.TooManyWinners,
			Log:  fmt.Sprintf("Pool %s has %d participants, got %d winners", data.Key, current, len(data.Winners)),
			Info: EncodeError(code.NewTooManyWinners(data.Key, strconv.Itoa(len(data.Winners)), strconv.FormatUint(uint64(current), 10))),
		}
	}

	for _, winner := range data.Winners {
		if winner.IsReserved() {
			return &Response{
				Code: code.WrongRecipient,
				Log:  types.ErrReservedAccount.Error(),
				Info: EncodeError(code.NewWrongRecipient(winner.String(), types.ErrReservedAccount.Error())),
			}
		}
	}

	if context.App().VerifyWinners() {
		for _, winner := range data.Winners {
			if !context.Pools().IsParticipant(data.Key, winner) {
				return &Response{
					Code: code.WinnerNotParticipant,
					Log:  fmt.Sprintf("Winner %s is not a participant of pool %s", winner, data.Key),
					Info: EncodeError(code.NewWinnerNotParticipant(data.Key, winner.String())),
				}
			}
		}
	}

	return checkNoDeposit(tx)
}

func (data ResolvePoolData) String() string {
	return fmt.Sprintf("RESOLVE POOL key:%s winners:%v", data.Key, data.Winners)
}

// Run requests one payout per listed winner and deletes the pool. The
// rounding residual stays in escrow as stranded value.
func (data ResolvePoolData) Run(tx *Transaction, context state.Interface, runtime Runtime) Response {
	var checkState *state.CheckState
	var isCheck bool
	if checkState, isCheck = context.(*state.CheckState); !isCheck {
		checkState = state.NewCheckState(context.(*state.State))
	}

	response := data.basicCheck(tx, checkState)
	if response != nil {
		return *response
	}

	pool := checkState.Pools().GetPool(data.Key)
	distribution := Distribute(pool.GetStake(), pool.GetCurrentParticipants(), len(data.Winners))

	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		for _, winner := range data.Winners {
			runtime.RequestTransfer(winner, distribution.Payout)
		}

		deliverState.App.AddTotalStranded(distribution.Residual)
		deliverState.Pools.Delete(data.Key)

		deliverState.Events().AddEvent(&eventsdb.PoolResolvedEvent{
			Key:          data.Key,
			Creator:      runtime.Caller().String(),
			Winners:      types.AccountRefsToStrings(data.Winners),
			Participants: pool.GetCurrentParticipants(),
			Payout:       distribution.Payout.String(),
			Pot:          distribution.Pot.String(),
			Residual:     distribution.Residual.String(),
		})

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.pool"), Value: []byte(data.Key), Index: true},
			{Key: []byte("tx.payout"), Value: []byte(distribution.Payout.String())},
			{Key: []byte("tx.residual"), Value: []byte(distribution.Residual.String())},
		}
	}

	encoded, err := json.Marshal(distribution)
	if err != nil {
		panic(err)
	}

	return Response{
		Code: code.OK,
		Data: encoded,
		Tags: tags,
	}
}
