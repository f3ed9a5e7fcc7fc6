package cmd

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	abciTypes "github.com/tendermint/tendermint/abci/types"

	"github.com/poolescrow/poold/coreV2/transaction"
	"github.com/poolescrow/poold/coreV2/types"
)

var TxCommand = &cobra.Command{
	Use:   "tx",
	Short: "Apply a pool operation in a new block",
}

func init() {
	TxCommand.PersistentFlags().String("caller", "", "account calling the operation")
	TxCommand.PersistentFlags().String("value", "0", "value attached to the call")
	TxCommand.PersistentFlags().String("payload", "", "arbitrary payload")
	_ = TxCommand.MarkPersistentFlagRequired("caller")

	createPool := &cobra.Command{
		Use:   "create-pool <key> <stake> <max participants>",
		Short: "Create a pool",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			stake, ok := big.NewInt(0).SetString(args[1], 10)
			if !ok {
				return errors.Errorf("wrong stake %q", args[1])
			}
			max, err := strconv.ParseUint(args[2], 10, 32)
			if err != nil {
				return errors.Wrap(err, "wrong max participants")
			}
			return applyTx(cmd, &transaction.CreatePoolData{Key: args[0], Stake: stake, MaxParticipants: uint32(max)})
		},
	}

	joinPool := &cobra.Command{
		Use:   "join-pool <key>",
		Short: "Join a pool, --value must equal the pool stake",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyTx(cmd, &transaction.JoinPoolData{Key: args[0]})
		},
	}

	leavePool := &cobra.Command{
		Use:   "leave-pool <key>",
		Short: "Leave a pool and get the stake back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyTx(cmd, &transaction.LeavePoolData{Key: args[0]})
		},
	}

	resolvePool := &cobra.Command{
		Use:   "resolve-pool <key> <winner>...",
		Short: "Resolve a pool and pay the winners",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyTx(cmd, &transaction.ResolvePoolData{Key: args[0], Winners: types.StringsToAccountRefs(args[1:])})
		},
	}

	rotateAdmin := &cobra.Command{
		Use:   "rotate-admin <new admin>",
		Short: "Hand the admin role over",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyTx(cmd, &transaction.RotateAdminData{NewAdmin: types.AccountRef(args[0])})
		},
	}

	retryPayout := &cobra.Command{
		Use:   "retry-payout <id> [recipient]",
		Short: "Retry a failed payout, optionally to another recipient",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return errors.Wrap(err, "wrong payout id")
			}
			data := &transaction.RetryPayoutData{ID: id}
			if len(args) == 2 {
				data.Recipient = types.AccountRef(args[1])
			}
			return applyTx(cmd, data)
		},
	}

	sweepStranded := &cobra.Command{
		Use:   "sweep-stranded",
		Short: "Pay the stranded residual out to the admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyTx(cmd, &transaction.SweepStrandedData{})
		},
	}

	TxCommand.AddCommand(createPool, joinPool, leavePool, resolvePool, rotateAdmin, retryPayout, sweepStranded)
}

type txResult struct {
	Height uint64            `json:"height"`
	Code   uint32            `json:"code"`
	Log    string            `json:"log,omitempty"`
	Info   json.RawMessage   `json:"info,omitempty"`
	Data   json.RawMessage   `json:"data,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

func applyTx(cmd *cobra.Command, data transaction.Data) error {
	caller, _ := cmd.Flags().GetString("caller")
	valueStr, _ := cmd.Flags().GetString("value")
	payload, _ := cmd.Flags().GetString("payload")

	value, ok := big.NewInt(0).SetString(valueStr, 10)
	if !ok {
		return errors.Errorf("wrong value %q", valueStr)
	}

	app, err := openInitializedLedger()
	if err != nil {
		return err
	}
	defer app.Close()

	nonce := app.CurrentState().Accounts().GetNonce(types.AccountRef(caller)) + 1
	tx, err := transaction.Encode(types.AccountRef(caller), nonce, data, value, []byte(payload))
	if err != nil {
		return errors.Wrap(err, "encode transaction")
	}

	responses, _ := app.ApplyBlock(time.Now(), tx)

	out, err := json.MarshalIndent(newTxResult(app.Height(), responses[0]), "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if responses[0].Code != 0 {
		return errors.Errorf("%s failed with code %d", data.TxType(), responses[0].Code)
	}

	return nil
}

func newTxResult(height uint64, response abciTypes.ResponseDeliverTx) txResult {
	result := txResult{
		Height: height,
		Code:   response.Code,
		Log:    response.Log,
	}

	if json.Valid([]byte(response.Info)) {
		result.Info = json.RawMessage(response.Info)
	}

	if json.Valid(response.Data) {
		result.Data = response.Data
	}

	for _, event := range response.Events {
		for _, attr := range event.Attributes {
			if result.Tags == nil {
				result.Tags = map[string]string{}
			}
			result.Tags[string(attr.Key)] = string(attr.Value)
		}
	}

	return result
}

func hashString(hash []byte) string {
	return fmt.Sprintf("%X", hash)
}
