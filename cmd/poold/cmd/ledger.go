package cmd

import (
	"github.com/pkg/errors"

	"github.com/poolescrow/poold/cmd/utils"
	"github.com/poolescrow/poold/coreV2/ledger"
	"github.com/poolescrow/poold/log"
)

// openLedger opens the node databases and loads the last committed state
func openLedger() (*ledger.Ledger, error) {
	storages := utils.NewStorage(cfg.RootDir, "").WithDataDir(cfg.DBDir())

	if cfg.DBBackend == "memdb" {
		storages = utils.NewMemStorage()
	} else {
		if _, err := storages.InitStateLevelDB(ledger.GetDbOpts(cfg.StateMemAvailable)); err != nil {
			return nil, errors.Wrap(err, "open state db")
		}
		if _, err := storages.InitEventLevelDB(nil); err != nil {
			return nil, errors.Wrap(err, "open events db")
		}
		if _, err := storages.InitAppDB(cfg.DBBackend); err != nil {
			return nil, errors.Wrap(err, "open app db")
		}
	}

	return ledger.NewLedger(storages, cfg, log.Logger()), nil
}

func openInitializedLedger() (*ledger.Ledger, error) {
	app, err := openLedger()
	if err != nil {
		return nil, err
	}

	if app.CurrentState() == nil {
		_ = app.Close()
		return nil, errors.New("ledger is not initialized, run \"poold init\" first")
	}

	return app, nil
}
