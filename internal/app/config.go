package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFilename is the optional YAML settings file inside the home
// directory. Keys are the SOCIALFI_* names without the prefix, lower-cased:
//
//	api_url: http://localhost:8000
//	log_level: debug
const ConfigFilename = "config.yaml"

// Config holds runtime wiring options for building the app.
type Config struct {
	// Home is the config directory, e.g. $HOME/.socialfi.
	Home        string `env:"SOCIALFI_HOME"`
	APIURL      string `env:"SOCIALFI_API_URL,default=http://localhost:8000"`
	NetworkURL  string `env:"SOCIALFI_NETWORK_URL,default=https://devnet-api.multiversx.com"`
	RelayURL    string `env:"SOCIALFI_RELAY_URL,default=ws://localhost:8000/ws"`
	ProjectName string `env:"SOCIALFI_PROJECT,default=social-fi-credit"`
	ChainID     string `env:"SOCIALFI_CHAIN_ID,default=D"`
	Passphrase  string `env:"SOCIALFI_PASSPHRASE"`

	HTTPTimeout time.Duration `env:"SOCIALFI_HTTP_TIMEOUT,default=10s"`
	// RateLimit is requests per second against the backend; 0 disables it.
	RateLimit        float64       `env:"SOCIALFI_RATE_LIMIT,default=10"`
	RateBurst        int           `env:"SOCIALFI_RATE_BURST,default=5"`
	LoanRefreshDelay time.Duration `env:"SOCIALFI_LOAN_REFRESH_DELAY,default=2s"`

	LogLevel  string `env:"SOCIALFI_LOG_LEVEL,default=warn"`
	LogFormat string `env:"SOCIALFI_LOG_FORMAT,default=text"`
}

// LoadConfig reads the given env files, or ./.env if none are named, and the
// optional config.yaml in the home directory, then SOCIALFI_* variables with
// defaults. The real environment wins over .env, which wins over config.yaml.
// Only the implicit ./.env may be missing.
func LoadConfig(envFiles ...string) (Config, error) {
	err := godotenv.Load(envFiles...)
	if err != nil && (len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist)) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	home := os.Getenv("SOCIALFI_HOME")
	if home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		home = filepath.Join(dir, ".socialfi")
	}
	if err := applyConfigFile(filepath.Join(home, ConfigFilename)); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	if cfg.Home == "" {
		cfg.Home = home
	}
	return cfg, cfg.Validate()
}

// applyConfigFile exports each key of the YAML file as SOCIALFI_<KEY> unless
// that variable is already set. A missing file is not an error.
func applyConfigFile(path string) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var values map[string]string
	if err := yaml.Unmarshal(b, &values); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for k, v := range values {
		name := "SOCIALFI_" + strings.ToUpper(strings.TrimSpace(k))
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, v); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects configurations the wire cannot be built from.
func (c Config) Validate() error {
	switch {
	case c.Home == "":
		return errors.New("config: home directory required")
	case c.APIURL == "":
		return errors.New("config: API URL required")
	case c.NetworkURL == "":
		return errors.New("config: network URL required")
	case c.HTTPTimeout < 0:
		return fmt.Errorf("config: negative HTTP timeout %s", c.HTTPTimeout)
	}
	return nil
}
