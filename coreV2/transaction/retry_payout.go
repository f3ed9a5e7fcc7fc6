package transaction

import (
	"fmt"
	"strconv"

	abcTypes "github.com/tendermint/tendermint/abci/types"

	"github.com/poolescrow/poold/coreV2/code"
	"github.com/poolescrow/poold/coreV2/state"
	"github.com/poolescrow/poold/coreV2/types"
)

// RetryPayoutData requeues a failed payout. An empty Recipient keeps the
// original one.
type RetryPayoutData struct {
	ID        uint64
	Recipient types.AccountRef
}

func (data RetryPayoutData) TxType() TxType {
	return TypeRetryPayout
}

func (data RetryPayoutData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	id := strconv.FormatUint(data.ID, 10)

	payout := context.Payouts().GetPayout(data.ID)
	if payout == nil {
		return &Response{
			Code: code.PayoutNotFound,
			Log:  fmt.Sprintf("Payout %d not found", data.ID),
			Info: EncodeError(code.NewPayoutNotFound(id)),
		}
	}

	if !payout.IsFailed() {
		return &Response{
			Code: code.PayoutNotFailed,
			Log:  fmt.Sprintf("Payout %d is %s", data.ID, payout.StatusString()),
			Info: EncodeError(code.NewPayoutNotFailed(id, payout.StatusString())),
		}
	}

	if owner, admin := payout.GetOwner(), context.App().GetAdmin(); tx.Caller != owner && tx.Caller != admin {
		return &Response{
			Code: code.Unauthorized,
			Log:  "Only payout owner or admin can retry the payout",
			Info: EncodeError(code.NewUnauthorized(tx.Caller.String(), owner.String())),
		}
	}

	if !data.Recipient.IsEmpty() {
		if err := data.Recipient.ValidateRecipient(); err != nil {
			return &Response{
				Code: code.WrongRecipient,
				Log:  err.Error(),
				Info: EncodeError(code.NewWrongRecipient(data.Recipient.String(), err.Error())),
			}
		}
	}

	return checkNoDeposit(tx)
}

func (data RetryPayoutData) String() string {
	return fmt.Sprintf("RETRY PAYOUT id:%d recipient:%s", data.ID, data.Recipient)
}

func (data RetryPayoutData) Run(tx *Transaction, context state.Interface, runtime Runtime) Response {
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
		deliverState.Payouts.Retry(data.ID, data.Recipient)

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.payout"), Value: []byte(strconv.FormatUint(data.ID, 10)), Index: true},
			{Key: []byte("tx.recipient"), Value: []byte(deliverState.Payouts.GetPayout(data.ID).GetRecipient().String())},
		}
	}

	return Response{
		Code: code.OK,
		Tags: tags,
	}
}
