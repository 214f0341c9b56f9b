package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath names the environment variable overriding the config path.
const EnvConfigPath = "STRIPS_CONFIG"

// GetConfigPath returns $STRIPS_CONFIG, or ~/.go-strips/config.
func GetConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".go-strips", "config"), nil
}
