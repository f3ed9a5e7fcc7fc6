package transaction

import (
	"encoding/json"
	"fmt"

	abcTypes "github.com/tendermint/tendermint/abci/types"

	"github.com/poolescrow/poold/coreV2/code"
	"github.com/poolescrow/poold/coreV2/state"
	"github.com/poolescrow/poold/coreV2/types"
	"github.com/poolescrow/poold/helpers"
)

const (
	maxPayloadLength = 1024
	maxTxLength      = 6144 + maxPayloadLength
)

// Response represents standard response from tx delivery/check
type Response struct {
	Code uint32                    `json:"code,omitempty"`
	Data []byte                    `json:"data,omitempty"`
	Log  string                    `json:"log,omitempty"`
	Info string                    `json:"-"`
	Tags []abcTypes.EventAttribute `json:"tags,omitempty"`
}

type Executor struct {
	decodeTxFunc func(txType TxType) (Data, bool)
}

func NewExecutor(decodeTxFunc func(txType TxType) (Data, bool)) *Executor {
	return &Executor{decodeTxFunc: decodeTxFunc}
}

// RunTx executes transaction in given context. A failed transaction leaves
// the state untouched and moves no value.
func (e *Executor) RunTx(context state.Interface, rawTx []byte, blockTime uint64) Response {
	lenRawTx := len(rawTx)
	if lenRawTx > maxTxLength {
		return Response{
			Code: code.TxTooLarge,
			Log:  fmt.Sprintf("TX length is over %d bytes", maxTxLength),
			Info: EncodeError(code.NewTxTooLarge(fmt.Sprintf("%d", maxTxLength), fmt.Sprintf("%d", lenRawTx))),
		}
	}

	tx, err := e.DecodeFromBytes(rawTx)
	if err != nil {
		return Response{
			Code: code.DecodeError,
			Log:  err.Error(),
			Info: EncodeError(code.NewDecodeError()),
		}
	}

	if tx.ChainID != types.CurrentChainID {
		return Response{
			Code: code.WrongChainID,
			Log:  "Wrong chain id",
			Info: EncodeError(code.NewWrongChainID(fmt.Sprintf("%d", types.CurrentChainID), fmt.Sprintf("%d", tx.ChainID))),
		}
	}

	if len(tx.Payload) > maxPayloadLength {
		return Response{
			Code: code.TxTooLarge,
			Log:  fmt.Sprintf("TX payload length is over %d bytes", maxPayloadLength),
			Info: EncodeError(code.NewTxTooLarge(fmt.Sprintf("%d", maxPayloadLength), fmt.Sprintf("%d", len(tx.Payload)))),
		}
	}

	if tx.Caller.IsReserved() {
		return Response{
			Code: code.ReservedAccount,
			Log:  fmt.Sprintf("Account %s can not call pool operations", tx.Caller),
			Info: EncodeError(code.NewReservedAccount(tx.Caller.String())),
		}
	}

	var checkState *state.CheckState
	var isCheck bool
	if checkState, isCheck = context.(*state.CheckState); !isCheck {
		checkState = state.NewCheckState(context.(*state.State))
	}

	value := tx.AttachedValue()
	if !helpers.IsValidAmount(value) {
		return Response{
			Code: code.ValueOverflow,
			Log:  fmt.Sprintf("Attached value %s is out of range", value),
			Info: EncodeError(code.NewValueOverflow(value.String(), helpers.MaxUint128.String())),
		}
	}

	if expectedNonce := checkState.Accounts().GetNonce(tx.Caller) + 1; expectedNonce != tx.Nonce {
		return Response{
			Code: code.WrongNonce,
			Log:  fmt.Sprintf("Unexpected nonce. Expected: %d, got %d.", expectedNonce, tx.Nonce),
			Info: EncodeError(code.NewWrongNonce(fmt.Sprintf("%d", expectedNonce), fmt.Sprintf("%d", tx.Nonce))),
		}
	}

	if value.Sign() != 0 {
		if balance := checkState.Accounts().GetBalance(tx.Caller); balance.Cmp(value) < 0 {
			return Response{
				Code: code.InsufficientFunds,
				Log:  fmt.Sprintf("Insufficient funds for sender account: %s. Wanted %s", tx.Caller, value),
				Info: EncodeError(code.NewInsufficientFunds(tx.Caller.String(), value.String(), balance.String())),
			}
		}
	}

	response := tx.decodedData.Run(tx, context, newRuntime(tx, context, blockTime))
	if response.Code != code.OK {
		return response
	}

	if deliverState, ok := context.(*state.State); ok {
		deliverState.Accounts.SetNonce(tx.Caller, tx.Nonce)
	}

	if isCheck {
		response.Tags = nil
	} else {
		response.Tags = append(response.Tags,
			abcTypes.EventAttribute{Key: []byte("tx.from"), Value: []byte(tx.Caller.String()), Index: true},
			abcTypes.EventAttribute{Key: []byte("tx.type"), Value: []byte(tx.decodedData.TxType().String()), Index: true},
			abcTypes.EventAttribute{Key: []byte("tx.hash"), Value: []byte(tx.Hash().String())},
		)
	}

	return response
}

// EncodeError encodes error to json
func EncodeError(data interface{}) string {
	marshaled, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return string(marshaled)
}

// checkNoDeposit rejects value attached to operations that take none
func checkNoDeposit(tx *Transaction) *Response {
	if tx.AttachedValue().Sign() == 0 {
		return nil
	}

	return &Response{
		Code: code.UnexpectedDeposit,
		Log:  fmt.Sprintf("Transaction %s does not accept attached value", tx.Type),
		Info: EncodeError(code.NewUnexpectedDeposit(tx.Type.String(), tx.AttachedValue().String())),
	}
}
