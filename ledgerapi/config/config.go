package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/insurepool/poolgate/ledgerapi/constant"
)

//go:embed default_config.json
var defaultConfigJSON []byte

func validateConfig(cfg *Config) error {
	// Validate log level
	if cfg.LogLevel < 0 || cfg.LogLevel > 5 {
		return fmt.Errorf("log level must be between 0 and 5")
	}

	// Validate log format
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("log format must be 'json' or 'console'")
	}

	if len(cfg.Web3URLs) == 0 {
		cfg.Web3URLs = []string{"http://localhost:8545"}
	}
	if cfg.DialRetries == 0 {
		cfg.DialRetries = 3
	}

	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = 8080
	}
	if cfg.HTTPPort < 0 || cfg.HTTPPort > 65535 {
		return fmt.Errorf("http port must be between 1 and 65535")
	}

	// Lazy loading defaults
	if cfg.DefaultNumberEntriesForLazyLoading == 0 {
		cfg.DefaultNumberEntriesForLazyLoading = 10
	}
	if cfg.DefaultBlockRangeForEventLogLoading == 0 {
		cfg.DefaultBlockRangeForEventLogLoading = 1000
	}

	// Transaction defaults
	if cfg.MaxWaitDurationForTransactionReceiptSeconds == 0 {
		cfg.MaxWaitDurationForTransactionReceiptSeconds = 30
	}
	if cfg.DefaultGasPrice == 0 {
		cfg.DefaultGasPrice = 20_000_000_000
	}
	if cfg.DefaultGasLimit == 0 {
		cfg.DefaultGasLimit = 4_712_388
	}

	if cfg.PingHistoryRetentionSeconds == 0 {
		cfg.PingHistoryRetentionSeconds = 7 * 24 * 3600
	}

	if cfg.NodeHome == "" {
		cfg.NodeHome = constant.DefaultNodeHome
	}

	return nil
}

// Validate applies defaults for unset fields and rejects invalid values.
func Validate(cfg *Config) error {
	return validateConfig(cfg)
}

// Save writes the given config to <NodeDir>/config/poolgate_config.json.
func Save(cfg *Config, basePath string) error {
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	configDir := filepath.Join(basePath, constant.ConfigSubdir)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configDir, constant.ConfigFileName)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Load reads <BasePath>/config/poolgate_config.json on top of the embedded
// defaults. POOLGATE_* environment variables override both.
func Load(basePath string) (Config, error) {
	v, err := newViper()
	if err != nil {
		return Config{}, err
	}

	configFile := filepath.Join(basePath, constant.ConfigSubdir, constant.ConfigFileName)
	v.SetConfigFile(filepath.Clean(configFile))
	if err := v.MergeInConfig(); err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadDefaultConfig loads the embedded defaults with environment overrides applied.
func LoadDefaultConfig() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
	}
	return &cfg, nil
}

// newViper seeds a viper instance with the embedded defaults so every key is
// known, which lets AutomaticEnv resolve overrides for all of them.
func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(constant.EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadConfig(bytes.NewReader(defaultConfigJSON)); err != nil {
		return nil, fmt.Errorf("failed to read default config: %w", err)
	}
	return v, nil
}
