package transaction

import (
	"fmt"

	abcTypes "github.com/tendermint/tendermint/abci/types"

	"github.com/poolescrow/poold/coreV2/code"
	eventsdb "github.com/poolescrow/poold/coreV2/events"
	"github.com/poolescrow/poold/coreV2/state"
	"github.com/poolescrow/poold/coreV2/types"
)

type RotateAdminData struct {
	NewAdmin types.AccountRef
}

func (data RotateAdminData) TxType() TxType {
	return TypeRotateAdmin
}

func (data RotateAdminData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	if response := checkAdmin(tx, context); response != nil {
		return response
	}

	if data.NewAdmin.IsEmpty() || data.NewAdmin.ValidateRecipient() != nil {
		return &Response{
			Code: code.WrongAdmin,
			Log:  fmt.Sprintf("Invalid admin account %q", data.NewAdmin),
			Info: EncodeError(code.NewWrongAdmin(data.NewAdmin.String())),
		}
	}

	return checkNoDeposit(tx)
}

func (data RotateAdminData) String() string {
	return fmt.Sprintf("ROTATE ADMIN new:%s", data.NewAdmin)
}

func (data RotateAdminData) Run(tx *Transaction, context state.Interface, runtime Runtime) Response {
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
		deliverState.App.SetAdmin(data.NewAdmin)

		deliverState.Events().AddEvent(&eventsdb.AdminRotatedEvent{
			OldAdmin: runtime.Caller().String(),
			NewAdmin: data.NewAdmin.String(),
		})

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.new_admin"), Value: []byte(data.NewAdmin.String()), Index: true},
		}
	}

	return Response{
		Code: code.OK,
		Tags: tags,
	}
}

func checkAdmin(tx *Transaction, context *state.CheckState) *Response {
	admin := context.App().GetAdmin()
	if tx.Caller == admin {
		return nil
	}

	return &Response{
		Code: code.Unauthorized,
		Log:  "Only admin can perform this operation",
		Info: EncodeError(code.NewUnauthorized(tx.Caller.String(), admin.String())),
	}
}
