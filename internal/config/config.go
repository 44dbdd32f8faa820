package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the client configuration. Values come from the YAML config
// file when present, overridden by environment variables; command-line flags
// override both.
type Config struct {
	GatewayURL  string        `yaml:"gateway_url" env:"WALLETCTL_GATEWAY" env-default:"http://localhost:3000"`
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"WALLETCTL_HTTP_TIMEOUT" env-default:"30s"`
	LogLevel    string        `yaml:"log_level" env:"WALLETCTL_LOG_LEVEL" env-default:"info"`
	LogFormat   string        `yaml:"log_format" env:"WALLETCTL_LOG_FORMAT" env-default:"text"`
	DataDir     string        `yaml:"data_dir" env:"WALLETCTL_DATA_DIR"`
}

// Default returns the configuration from environment and defaults only.
func Default() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env config: %w", err)
	}
	return cfg, nil
}

// Load reads configuration from path, falling back to environment and
// defaults when the file does not exist.
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		return Default()
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveDataDir returns the data directory, defaulting to ~/.walletctl.
func (c Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".walletctl"), nil
}
