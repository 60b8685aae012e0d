// Package config loads runtime configuration for the xbm CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with --config/-c. Files ending in .yaml
//     or .yml are parsed as YAML, everything else as JSON.
//  3. .env files: <config dir>/.env, then ./.env. A file readable by group or
//     others triggers a warning.
//  4. Environment variables, which override everything above.
//
// Supported environment variables
//
//	X_CLIENT_ID         OAuth client id (required for network operations)
//	X_CLIENT_SECRET     OAuth client secret (required for network operations)
//	XBM_CONFIG_DIR      directory for tokens, ledger and .env
//	XBM_LOG_LEVEL       debug, info, warn or error
//	XBM_TOKEN_BACKEND   file or keyring
//
// # File schema
//
// Intervals use timex.Duration, so values can be strings like "90s" or
// integer seconds:
//
//	{
//	  "callback_port": 8739,
//	  "callback_timeout": "2m",
//	  "token_backend": "keyring",
//	  "page_interval": 1
//	}
//
// Primary API
//
//   - type Config                                 — resolved settings
//   - func LoadConfig(path, log) (*Config, error) — defaults, file, .env, env
//   - func (*Config) LoadDefaults()               — sets sensible defaults
//   - func (*Config) RequireClientCredentials()   — ErrMissingCredentials check
package config
