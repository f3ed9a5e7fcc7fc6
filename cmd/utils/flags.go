package utils

import (
	"os"
	"path/filepath"
)

var (
	PooldHome   string
	PooldConfig string
)

func GetPooldHome() string {
	if PooldHome != "" {
		return PooldHome
	}

	home := os.Getenv("POOLD_HOME")

	if home != "" {
		return home
	}

	return os.ExpandEnv(filepath.Join("$HOME", ".poold"))
}

func GetPooldConfigPath() string {
	if PooldConfig != "" {
		return PooldConfig
	}

	return GetPooldHome() + "/config/config.toml"
}
