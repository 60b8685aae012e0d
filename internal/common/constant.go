package common

// AppName names the config directory and the keyring service.
const AppName = "xbm"

// File names inside the config directory.
const (
	TokenFileName  = "oauth2_tokens.json"
	LedgerFileName = "bookmark_state.json"
	EnvFileName    = ".env"
)

// Environment variables read by the config loader.
const (
	EnvClientID     = "X_CLIENT_ID"
	EnvClientSecret = "X_CLIENT_SECRET"
	EnvConfigDir    = "XBM_CONFIG_DIR"
	EnvLogLevel     = "XBM_LOG_LEVEL"
	EnvTokenBackend = "XBM_TOKEN_BACKEND"
)
