package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/poolescrow/poold/cmd/utils"
	"github.com/poolescrow/poold/config"
	"github.com/poolescrow/poold/coreV2/types"
	"github.com/poolescrow/poold/log"
	"github.com/poolescrow/poold/version"
)

var cfg *config.Config

var RootCmd = &cobra.Command{
	Use:           "poold",
	Short:         "Pool escrow ledger",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := viper.New()
		cfg = config.GetConfig()
		v.SetConfigFile(utils.GetPooldConfigPath())

		if err := v.ReadInConfig(); err != nil {
			return errors.Wrap(err, "read config")
		}

		if err := v.Unmarshal(cfg); err != nil {
			return errors.Wrap(err, "parse config")
		}

		if cfg.KeepLastStates < 0 {
			return errors.New("keep_last_states field should not be negative")
		}

		if err := log.InitLog(cfg); err != nil {
			return err
		}

		isTestnet, _ := cmd.Flags().GetBool("testnet")
		if isTestnet {
			types.CurrentChainID = types.ChainTestnet
			version.Version += "-testnet"
		}

		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&utils.PooldHome, "home", "", "base dir (default is $HOME/.poold or $POOLD_HOME)")
	RootCmd.PersistentFlags().StringVar(&utils.PooldConfig, "config", "", "config file (default is <home>/config/config.toml)")
	RootCmd.PersistentFlags().Bool("testnet", false, "use testnet chain id")

	RootCmd.AddCommand(
		InitCommand,
		TxCommand,
		QueryCommand,
		ExportCommand,
		APICommand,
		Version)
}
