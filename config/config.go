package config

import (
	"path/filepath"

	"github.com/poolescrow/poold/cmd/utils"
)

const (
	// LogFormatPlain is a format for colored text
	LogFormatPlain = "plain"
	// LogFormatJSON is a format for json output
	LogFormatJSON = "json"

	defaultConfigDir = "config"
	defaultDataDir   = "data"

	defaultConfigFileName  = "config.toml"
	defaultGenesisJSONName = "genesis.json"
)

var (
	defaultConfigFilePath  = filepath.Join(defaultConfigDir, defaultConfigFileName)
	defaultGenesisJSONPath = filepath.Join(defaultConfigDir, defaultGenesisJSONName)
)

func DefaultConfig() *Config {
	return &Config{
		BaseConfig: DefaultBaseConfig(),
	}
}

// GetConfig returns default config rooted at the node home, creating the
// home layout on first use
func GetConfig() *Config {
	cfg := DefaultConfig()

	cfg.SetRoot(utils.GetPooldHome())
	EnsureRoot(utils.GetPooldHome())

	return cfg
}

// Config defines the top level configuration of a pool ledger node
type Config struct {
	// Top level options use an anonymous struct
	BaseConfig `mapstructure:",squash"`
}

// SetRoot sets the RootDir for all Config structs
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	return cfg
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration of a pool ledger node
type BaseConfig struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home"`

	// Path to the JSON file containing the initial ledger state
	Genesis string `mapstructure:"genesis_file"`

	// Output level for logging
	LogLevel string `mapstructure:"log_level"`

	// Output format: 'plain' (colored text) or 'json'
	LogFormat string `mapstructure:"log_format"`

	LogPath string `mapstructure:"log_path"`

	// Database backend: goleveldb | memdb
	DBBackend string `mapstructure:"db_backend"`

	// Database directory
	DBPath string `mapstructure:"db_dir"`

	StateCacheSize int `mapstructure:"state_cache_size"`

	// Memory limit of leveldb caches in megabytes
	StateMemAvailable int `mapstructure:"state_mem_available"`

	KeepLastStates int64 `mapstructure:"keep_last_states"`

	// Address to listen for API connections
	APIListenAddress string `mapstructure:"api_listen_addr"`

	APISimultaneousRequests int `mapstructure:"api_simultaneous_requests"`

	// Winners of a resolution have to be participants of the pool.
	// Applied to the genesis written by init.
	VerifyWinners bool `mapstructure:"verify_winners_are_participants"`

	// Run custody invariant checks at the end of every block
	CheckInvariants bool `mapstructure:"check_invariants"`
}

// DefaultBaseConfig returns a default base configuration of a pool ledger node
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		Genesis:                 defaultGenesisJSONPath,
		LogLevel:                DefaultPackageLogLevels(),
		LogFormat:               LogFormatPlain,
		LogPath:                 "stdout",
		DBBackend:               "goleveldb",
		DBPath:                  defaultDataDir,
		StateCacheSize:          1000000,
		StateMemAvailable:       1024,
		KeepLastStates:          120,
		APIListenAddress:        "tcp://0.0.0.0:8843",
		APISimultaneousRequests: 100,
		VerifyWinners:           false,
		CheckInvariants:         true,
	}
}

// GenesisFile returns the full path to the genesis.json file
func (cfg BaseConfig) GenesisFile() string {
	return rootify(cfg.Genesis, cfg.RootDir)
}

// DBDir returns the full path to the database directory
func (cfg BaseConfig) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

// DefaultLogLevel returns a default log level of "error"
func DefaultLogLevel() string {
	return "error"
}

// DefaultPackageLogLevels returns a default log level setting so all modules
// log at "error", while the ledger and settlement modules log at "info"
func DefaultPackageLogLevels() string {
	return "main:info,ledger:info,settlement:info,api:info,*:" + DefaultLogLevel()
}

//-----------------------------------------------------------------------------
// Utils

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
