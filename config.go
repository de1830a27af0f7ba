package focus

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	DatabasePathEnv = "FOCUS_DB_PATH"
	LogLevelEnv     = "FOCUS_LOG_LEVEL"
	SettingsPathEnv = "FOCUS_SETTINGS_PATH"
)

type Config struct {
	DatabasePath string
	LogLevel     string
	SettingsPath string
}

// LoadConfig reads .env (prod) or .env.dev into the environment before
// resolving the FOCUS_* variables. Missing env files are not an error.
func LoadConfig(isProd bool) (Config, error) {
	if isProd {
		_ = godotenv.Load(".env")
	} else {
		_ = godotenv.Load(".env.dev")
	}

	config := Config{
		DatabasePath: os.Getenv(DatabasePathEnv),
		LogLevel:     os.Getenv(LogLevelEnv),
		SettingsPath: os.Getenv(SettingsPathEnv),
	}

	if config.DatabasePath == "" {
		config.DatabasePath = "focus.db"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.SettingsPath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve user config dir: %w", err)
		}
		config.SettingsPath = filepath.Join(configDir, "focus", "settings.yaml")
	}

	return config, nil
}
