package cmd

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	abciTypes "github.com/tendermint/tendermint/abci/types"

	"github.com/poolescrow/poold/coreV2/types"
	"github.com/poolescrow/poold/helpers"
	"github.com/poolescrow/poold/log"
)

var InitCommand = &cobra.Command{
	Use:   "init",
	Short: "Import genesis state and commit the first block",
	Long: `Import genesis state and commit the first block.

The genesis is read from --genesis, or built from --admin and --account flags:
  poold init --admin admin --account alice=1000 --account bob=1000`,
	RunE: initLedger,
}

func init() {
	InitCommand.Flags().String("genesis", "", "path to genesis json")
	InitCommand.Flags().String("admin", "", "admin account of a new genesis")
	InitCommand.Flags().StringSlice("account", nil, "account=balance of a new genesis")
}

func initLedger(cmd *cobra.Command, _ []string) error {
	genesis, err := readGenesis(cmd)
	if err != nil {
		return err
	}

	if err := genesis.Verify(); err != nil {
		return errors.Wrap(err, "verify genesis")
	}

	app, err := openLedger()
	if err != nil {
		return err
	}
	defer app.Close()

	if app.CurrentState() != nil {
		return errors.New("ledger is already initialized")
	}

	appState, err := json.Marshal(genesis)
	if err != nil {
		return err
	}

	app.InitChain(abciTypes.RequestInitChain{AppStateBytes: appState, InitialHeight: 1})
	_, hash := app.ApplyBlock(time.Now())

	log.Info("Ledger initialized", "height", app.Height(), "hash", hashString(hash))

	return nil
}

func readGenesis(cmd *cobra.Command) (types.AppState, error) {
	var genesis types.AppState

	path, err := cmd.Flags().GetString("genesis")
	if err != nil {
		return genesis, err
	}

	if path == "" {
		path = cfg.GenesisFile()
		if _, err := os.Stat(path); err != nil {
			return buildGenesis(cmd)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return genesis, errors.Wrap(err, "read genesis")
	}

	if err := json.Unmarshal(data, &genesis); err != nil {
		return genesis, errors.Wrap(err, "parse genesis")
	}

	return genesis, nil
}

func buildGenesis(cmd *cobra.Command) (types.AppState, error) {
	admin, err := cmd.Flags().GetString("admin")
	if err != nil {
		return types.AppState{}, err
	}

	accounts, err := cmd.Flags().GetStringSlice("account")
	if err != nil {
		return types.AppState{}, err
	}

	genesis := types.AppState{
		Note:          "poold init",
		Admin:         types.AccountRef(admin),
		VerifyWinners: cfg.VerifyWinners,
		TotalStranded: "0",
	}

	for _, account := range accounts {
		name, balance, found := cut(account, "=")
		if !found || !helpers.IsValidBigInt(balance) {
			return genesis, errors.Errorf("wrong account %q, expected name=balance", account)
		}

		genesis.Accounts = append(genesis.Accounts, types.Account{
			Address: types.AccountRef(name),
			Balance: balance,
		})
	}

	return genesis, nil
}

func cut(s, sep string) (before, after string, found bool) {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}
