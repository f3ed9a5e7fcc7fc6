package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/poolescrow/poold/log"
)

var ExportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger state as genesis json",
	RunE:  export,
}

func init() {
	ExportCommand.Flags().Uint64("height", 0, "height to export, 0 for the latest")
	ExportCommand.Flags().String("output", "", "file to write, stdout when empty")
	ExportCommand.Flags().Bool("indent", true, "indent json")
}

func export(cmd *cobra.Command, _ []string) error {
	height, _ := cmd.Flags().GetUint64("height")
	output, _ := cmd.Flags().GetString("output")
	indent, _ := cmd.Flags().GetBool("indent")

	app, err := openInitializedLedger()
	if err != nil {
		return err
	}
	defer app.Close()

	if height == 0 {
		height = app.Height()
	}

	cState, err := app.GetStateForHeight(height)
	if err != nil {
		return errors.Wrapf(err, "state at height %d", height)
	}

	appState := cState.Export()
	appState.Note = fmt.Sprintf("exported at height %d", height)

	if err := appState.Verify(); err != nil {
		return errors.Wrap(err, "verify exported state")
	}

	var data []byte
	if indent {
		data, err = json.MarshalIndent(appState, "", "  ")
	} else {
		data, err = json.Marshal(appState)
	}
	if err != nil {
		return err
	}

	if output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if err := os.WriteFile(output, data, 0600); err != nil {
		return errors.Wrap(err, "write genesis")
	}

	log.Info("State exported", "height", height, "file", output)

	return nil
}
