package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurepool/poolgate/ledgerapi/constant"
)

func TestValidateConfig(t *testing.T) {
	testCases := []struct {
		name        string
		config      *Config
		expectError bool
		errorMsg    string
		validate    func(t *testing.T, cfg *Config)
	}{
		{
			name: "Valid config with all fields",
			config: &Config{
				LogLevel:                            2,
				LogFormat:                           "json",
				Web3URLs:                            []string{"http://node:8545"},
				HTTPPort:                            9000,
				DefaultNumberEntriesForLazyLoading:  25,
				DefaultBlockRangeForEventLogLoading: 5000,
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, uint64(25), cfg.DefaultNumberEntriesForLazyLoading)
				assert.Equal(t, uint64(5000), cfg.DefaultBlockRangeForEventLogLoading)
				assert.Equal(t, 9000, cfg.HTTPPort)
			},
		},
		{
			name: "Invalid log level (negative)",
			config: &Config{
				LogLevel:  -1,
				LogFormat: "json",
			},
			expectError: true,
			errorMsg:    "log level must be between 0 and 5",
		},
		{
			name: "Invalid log level (too high)",
			config: &Config{
				LogLevel:  6,
				LogFormat: "json",
			},
			expectError: true,
			errorMsg:    "log level must be between 0 and 5",
		},
		{
			name: "Invalid log format",
			config: &Config{
				LogLevel:  2,
				LogFormat: "xml",
			},
			expectError: true,
			errorMsg:    "log format must be 'json' or 'console'",
		},
		{
			name: "Invalid port",
			config: &Config{
				LogFormat: "json",
				HTTPPort:  70000,
			},
			expectError: true,
			errorMsg:    "http port must be between 1 and 65535",
		},
		{
			name: "Config with defaults applied",
			config: &Config{
				LogLevel:  1,
				LogFormat: "console",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"http://localhost:8545"}, cfg.Web3URLs)
				assert.Equal(t, 8080, cfg.HTTPPort)
				assert.Equal(t, 3, cfg.DialRetries)
				assert.Equal(t, uint64(10), cfg.DefaultNumberEntriesForLazyLoading)
				assert.Equal(t, uint64(1000), cfg.DefaultBlockRangeForEventLogLoading)
				assert.Equal(t, uint64(30), cfg.MaxWaitDurationForTransactionReceiptSeconds)
				assert.Equal(t, uint64(4_712_388), cfg.DefaultGasLimit)
				assert.Equal(t, constant.DefaultNodeHome, cfg.NodeHome)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateConfig(tc.config)
			if tc.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errorMsg)
				return
			}
			require.NoError(t, err)
			if tc.validate != nil {
				tc.validate(t, tc.config)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{
		DefaultNumberEntriesForLazyLoading:          7,
		DefaultBlockRangeForEventLogLoading:         300,
		MaxWaitDurationForTransactionReceiptSeconds: 12,
		DefaultGasPrice:                             1,
		DefaultGasLimit:                             2,
	}

	d := cfg.Defaults()
	assert.Equal(t, uint64(7), d.PageSize)
	assert.Equal(t, uint64(300), d.LookbackBlocks)
	assert.Equal(t, 12*time.Second, d.ReceiptWait)
	assert.Equal(t, uint64(1), d.GasPrice)
	assert.Equal(t, uint64(2), d.GasLimit)
}

func TestLoadDefaultConfig(t *testing.T) {
	cfg, err := LoadDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, []string{"http://localhost:8545"}, cfg.Web3URLs)
	assert.Equal(t, uint64(10), cfg.DefaultNumberEntriesForLazyLoading)
	assert.Equal(t, uint64(20_000_000_000), cfg.DefaultGasPrice)
	assert.True(t, cfg.DatabaseEnabled)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("POOLGATE_HTTP_PORT", "9191")
	t.Setenv("POOLGATE_WEB3_URLS", "http://a:8545,http://b:8545")
	t.Setenv("POOLGATE_LOG_FORMAT", "json")

	cfg, err := LoadDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.HTTPPort)
	assert.Equal(t, []string{"http://a:8545", "http://b:8545"}, cfg.Web3URLs)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{
		LogLevel:                            0,
		LogFormat:                           "json",
		EnvironmentName:                     "staging",
		Web3URLs:                            []string{"http://node-1:8545", "http://node-2:8545"},
		ChainID:                             1337,
		HTTPPort:                            8181,
		DefaultNumberEntriesForLazyLoading:  20,
		DefaultBlockRangeForEventLogLoading: 2000,
	}
	require.NoError(t, Save(cfg, dir))
	assert.FileExists(t, filepath.Join(dir, constant.ConfigSubdir, constant.ConfigFileName))

	loaded, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "staging", loaded.EnvironmentName)
	assert.Equal(t, cfg.Web3URLs, loaded.Web3URLs)
	assert.Equal(t, int64(1337), loaded.ChainID)
	assert.Equal(t, 8181, loaded.HTTPPort)
	assert.Equal(t, uint64(20), loaded.DefaultNumberEntriesForLazyLoading)
	assert.Equal(t, uint64(2000), loaded.DefaultBlockRangeForEventLogLoading)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(os.TempDir(), "poolgate-does-not-exist"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
