package constant

import "os"

// <NodeDir>/                    (e.g., /home/pool/.poolgate)
// └── config/
//	└── poolgate_config.json
// └── databases/
//	└── poolgate.db

const (
	NodeDir = ".poolgate"

	ConfigSubdir   = "config"
	ConfigFileName = "poolgate_config.json"

	DatabasesSubdir  = "databases"
	DatabaseFileName = "poolgate.db"

	// EnvPrefix prefixes environment overrides, e.g. POOLGATE_HTTP_PORT.
	EnvPrefix = "POOLGATE"
)

var DefaultNodeHome = os.ExpandEnv("$HOME/") + NodeDir
