package config

import "time"

type Config struct {
	// Log Config
	LogLevel   int    `json:"log_level" mapstructure:"log_level"`     // e.g., 0 = debug, 1 = info, etc.
	LogFormat  string `json:"log_format" mapstructure:"log_format"`   // "json" or "console"
	LogSampler bool   `json:"log_sampler" mapstructure:"log_sampler"` // if true, samples logs (e.g., 1 in 5)

	// Node Config
	NodeHome        string `json:"node_home" mapstructure:"node_home"`               // Node home directory (default: ~/.poolgate)
	EnvironmentName string `json:"environment_name" mapstructure:"environment_name"` // Name of the hosting environment, reported by /config

	// Ledger connection
	Web3URLs    []string `json:"web3_urls" mapstructure:"web3_urls"`         // JSON-RPC endpoints, tried round-robin
	ChainID     int64    `json:"chain_id" mapstructure:"chain_id"`           // Expected chain id (0 skips verification)
	DialRetries int      `json:"dial_retries" mapstructure:"dial_retries"`   // Attempts to reach an endpoint at startup (default: 3)

	// HTTP server
	HTTPPort int `json:"http_port" mapstructure:"http_port"` // Port for the REST API (default: 8080)

	// Lazy loading
	DefaultNumberEntriesForLazyLoading  uint64 `json:"default_number_entries_for_lazy_loading" mapstructure:"default_number_entries_for_lazy_loading"`     // Page size for list walks (default: 10)
	DefaultBlockRangeForEventLogLoading uint64 `json:"default_block_range_for_event_log_loading" mapstructure:"default_block_range_for_event_log_loading"` // Lookback window for unfiltered log queries (default: 1000)

	// Transactions
	MaxWaitDurationForTransactionReceiptSeconds uint64 `json:"max_wait_duration_for_transaction_receipt_seconds" mapstructure:"max_wait_duration_for_transaction_receipt_seconds"` // Receipt polling limit (default: 30)
	DefaultGasPrice                             uint64 `json:"default_gas_price" mapstructure:"default_gas_price"`                                                               // Gas price in wei for submitted transactions
	DefaultGasLimit                             uint64 `json:"default_gas_limit" mapstructure:"default_gas_limit"`                                                               // Gas limit for submitted transactions

	// Ping history persistence
	DatabaseEnabled             bool `json:"database_enabled" mapstructure:"database_enabled"`                             // Persist ping executions in SQLite
	PingHistoryRetentionSeconds int  `json:"ping_history_retention_seconds" mapstructure:"ping_history_retention_seconds"` // How long ping records are kept (default: 604800)
}

// Defaults is the read-only snapshot of request-level settings handed to the services.
type Defaults struct {
	PageSize       uint64
	LookbackBlocks uint64
	ReceiptWait    time.Duration
	GasPrice       uint64
	GasLimit       uint64
}

// Defaults returns the request-level settings of this config.
func (c *Config) Defaults() Defaults {
	return Defaults{
		PageSize:       c.DefaultNumberEntriesForLazyLoading,
		LookbackBlocks: c.DefaultBlockRangeForEventLogLoading,
		ReceiptWait:    time.Duration(c.MaxWaitDurationForTransactionReceiptSeconds) * time.Second,
		GasPrice:       c.DefaultGasPrice,
		GasLimit:       c.DefaultGasLimit,
	}
}
