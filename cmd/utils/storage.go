package utils

import (
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb/opt"
	db "github.com/tendermint/tm-db"
)

const (
	stateDBName  = "state"
	eventsDBName = "events"
	appDBName    = "app"
)

// Storage owns the databases of a node
type Storage struct {
	pooldHome   string
	pooldConfig string
	dataDir     string

	stateDB  db.DB
	eventsDB db.DB
	appDB    db.DB
}

func NewStorage(home string, config string) *Storage {
	if home == "" {
		home = GetPooldHome()
	}
	if config == "" {
		config = GetPooldConfigPath()
	}

	return &Storage{pooldHome: home, pooldConfig: config, dataDir: filepath.Join(home, "data")}
}

// WithDataDir moves databases out of the default home data directory
func (s *Storage) WithDataDir(dir string) *Storage {
	s.dataDir = dir
	return s
}

// NewMemStorage keeps every database in memory
func NewMemStorage() *Storage {
	return &Storage{
		stateDB:  db.NewMemDB(),
		eventsDB: db.NewMemDB(),
		appDB:    db.NewMemDB(),
	}
}

// InitStateLevelDB opens the state tree database
func (s *Storage) InitStateLevelDB(opts *opt.Options) (db.DB, error) {
	levelDB, err := db.NewGoLevelDBWithOpts(stateDBName, s.dataDir, opts)
	if err != nil {
		return nil, err
	}

	s.stateDB = levelDB
	return s.stateDB, nil
}

func (s *Storage) InitEventLevelDB(opts *opt.Options) (db.DB, error) {
	levelDB, err := db.NewGoLevelDBWithOpts(eventsDBName, s.dataDir, opts)
	if err != nil {
		return nil, err
	}

	s.eventsDB = levelDB
	return s.eventsDB, nil
}

// InitAppDB opens the database with the last block info
func (s *Storage) InitAppDB(backend string) (db.DB, error) {
	appDB, err := db.NewDB(appDBName, db.BackendType(backend), s.dataDir)
	if err != nil {
		return nil, err
	}

	s.appDB = appDB
	return s.appDB, nil
}

func (s *Storage) StateDB() db.DB {
	return s.stateDB
}

func (s *Storage) EventDB() db.DB {
	return s.eventsDB
}

func (s *Storage) AppDB() db.DB {
	return s.appDB
}

func (s *Storage) GetPooldHome() string {
	return s.pooldHome
}

func (s *Storage) GetPooldConfigPath() string {
	return s.pooldConfig
}

// Close closes every opened database
func (s *Storage) Close() error {
	for _, database := range []db.DB{s.stateDB, s.eventsDB, s.appDB} {
		if database == nil {
			continue
		}
		if err := database.Close(); err != nil {
			return err
		}
	}

	return nil
}
