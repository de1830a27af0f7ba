package focus

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(DatabasePathEnv, "")
	t.Setenv(LogLevelEnv, "")
	t.Setenv(SettingsPathEnv, "/tmp/focus-settings.yaml")

	cfg, err := LoadConfig(false)
	require.NoError(t, err)
	assert.Equal(t, "focus.db", cfg.DatabasePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "/tmp/focus-settings.yaml", cfg.SettingsPath)
}

func TestLoadConfig_DevEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(DatabasePathEnv, "")
	t.Setenv(LogLevelEnv, "")
	t.Setenv(SettingsPathEnv, "x.yaml")
	// godotenv never overrides variables that are already set, so unset the one under test
	require.NoError(t, os.Unsetenv(DatabasePathEnv))
	require.NoError(t, os.WriteFile(".env.dev", []byte(DatabasePathEnv+"=dev.db\n"), 0o644))

	cfg, err := LoadConfig(false)
	require.NoError(t, err)
	assert.Equal(t, "dev.db", cfg.DatabasePath)
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" HARD ")
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, d)

	_, err = ParseDifficulty("legendary")
	assert.Error(t, err)
}
