package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SOCIALFI_HOME", home)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 2*time.Second, cfg.LoanRefreshDelay)
	assert.Equal(t, "D", cfg.ChainID)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SOCIALFI_HOME", home)
	t.Setenv("SOCIALFI_LOG_LEVEL", "error")
	// Registered so the values the file exports are unset after the test.
	t.Setenv("SOCIALFI_API_URL", "")
	require.NoError(t, os.Unsetenv("SOCIALFI_API_URL"))
	t.Setenv("SOCIALFI_CHAIN_ID", "")
	require.NoError(t, os.Unsetenv("SOCIALFI_CHAIN_ID"))

	yaml := "api_url: http://api.example:9000\nlog_level: debug\nchain_id: T\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFilename), []byte(yaml), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://api.example:9000", cfg.APIURL)
	assert.Equal(t, "T", cfg.ChainID)
	assert.Equal(t, "error", cfg.LogLevel, "environment wins over the file")
}

func TestLoadConfig_EnvFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SOCIALFI_HOME", home)
	t.Setenv("SOCIALFI_PROJECT", "")
	require.NoError(t, os.Unsetenv("SOCIALFI_PROJECT"))

	_, err := LoadConfig(filepath.Join(home, "missing.env"))
	assert.ErrorContains(t, err, "load env file")

	envPath := filepath.Join(home, "dev.env")
	require.NoError(t, os.WriteFile(envPath, []byte("SOCIALFI_PROJECT=from-env-file\n"), 0o600))
	cfg, err := LoadConfig(envPath)
	require.NoError(t, err)
	assert.Equal(t, "from-env-file", cfg.ProjectName)
}

func TestLoadConfig_BadFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SOCIALFI_HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFilename), []byte("api_url: [unclosed"), 0o600))

	_, err := LoadConfig()
	assert.ErrorContains(t, err, ConfigFilename)
}

func TestConfigValidate(t *testing.T) {
	ok := Config{Home: "/tmp/x", APIURL: "http://a", NetworkURL: "http://n"}
	assert.NoError(t, ok.Validate())

	noHome := ok
	noHome.Home = ""
	assert.Error(t, noHome.Validate())

	neg := ok
	neg.HTTPTimeout = -time.Second
	assert.Error(t, neg.Validate())
}
