package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	abciTypes "github.com/tendermint/tendermint/abci/types"
)

var QueryCommand = &cobra.Command{
	Use:   "query <pool|payout|account> <key>",
	Short: "Read a pool, payout or account from the committed state",
	Args:  cobra.ExactArgs(2),
	RunE:  query,
}

func query(cmd *cobra.Command, args []string) error {
	app, err := openInitializedLedger()
	if err != nil {
		return err
	}
	defer app.Close()

	resp := app.Query(abciTypes.RequestQuery{Path: args[0] + "/" + args[1]})
	if resp.Code != 0 {
		return errors.Errorf("query failed with code %d: %s", resp.Code, resp.Log)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, resp.Value, "", "  "); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out.String())

	return nil
}
