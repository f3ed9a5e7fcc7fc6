package transaction

import (
	"math/big"

	abcTypes "github.com/tendermint/tendermint/abci/types"

	"github.com/poolescrow/poold/coreV2/code"
	eventsdb "github.com/poolescrow/poold/coreV2/events"
	"github.com/poolescrow/poold/coreV2/state"
)

// SweepStrandedData pays the accumulated resolution residual out to the admin
type SweepStrandedData struct{}

func (data SweepStrandedData) TxType() TxType {
	return TypeSweepStranded
}

func (data SweepStrandedData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	if response := checkAdmin(tx, context); response != nil {
		return response
	}

	if context.App().GetTotalStranded().Sign() == 0 {
		return &Response{
			Code: code.NothingToSweep,
			Log:  "There is no stranded value",
			Info: EncodeError(code.NewNothingToSweep()),
		}
	}

	return checkNoDeposit(tx)
}

func (data SweepStrandedData) String() string {
	return "SWEEP STRANDED"
}

func (data SweepStrandedData) Run(tx *Transaction, context state.Interface, runtime Runtime) Response {
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
		amount := deliverState.App.GetTotalStranded()

		deliverState.App.SetTotalStranded(big.NewInt(0))
		runtime.RequestTransfer(runtime.Caller(), amount)

		deliverState.Events().AddEvent(&eventsdb.StrandedSweptEvent{
			Admin:  runtime.Caller().String(),
			Amount: amount.String(),
		})

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.swept"), Value: []byte(amount.String())},
		}
	}

	return Response{
		Code: code.OK,
		Tags: tags,
	}
}

