package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/dmitrijs2005/xbm/internal/client/client"
	"github.com/dmitrijs2005/xbm/internal/client/oauth"
	"github.com/dmitrijs2005/xbm/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/xbm/internal/common"
	"github.com/dmitrijs2005/xbm/internal/logging"
)

// Config holds runtime settings for the xbm CLI.
//
// Units: all intervals are time.Duration.
type Config struct {
	// ConfigDir holds the token file, the ledger and the optional .env.
	ConfigDir string

	ClientID     string
	ClientSecret string

	CallbackPort    int
	CallbackTimeout time.Duration
	ExpiryMargin    time.Duration

	// TokenBackend is "file" or "keyring".
	TokenBackend string

	AuthURL    string
	TokenURL   string
	RevokeURL  string
	APIBaseURL string

	PageSize     int
	PageInterval time.Duration
	HTTPTimeout  time.Duration

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ConfigDir = defaultConfigDir()
	c.CallbackPort = 8739
	c.CallbackTimeout = 120 * time.Second
	c.ExpiryMargin = 60 * time.Second
	c.TokenBackend = tokens.BackendFile
	c.AuthURL = oauth.DefaultAuthURL
	c.TokenURL = oauth.DefaultTokenURL
	c.RevokeURL = oauth.DefaultRevokeURL
	c.APIBaseURL = client.DefaultBaseURL
	c.PageSize = 100
	c.PageInterval = time.Second
	c.HTTPTimeout = 30 * time.Second
	c.LogLevel = "warn"
}

func defaultConfigDir() string {
	if xdg.ConfigHome != "" {
		return filepath.Join(xdg.ConfigHome, common.AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", common.AppName)
	}
	return filepath.Join(home, ".config", common.AppName)
}

// LoadConfig constructs a Config from defaults, then the file at path (if
// not empty), then .env files, then the environment. Later sources take
// precedence over earlier ones.
func LoadConfig(path string, log logging.Logger) (*Config, error) {
	return newLoader(os.LookupEnv, log).load(path)
}

// Validate checks value ranges after all sources were applied.
func (c *Config) Validate() error {
	if c.ConfigDir == "" {
		return fmt.Errorf("config dir must not be empty")
	}
	if c.CallbackPort < 0 || c.CallbackPort > 65535 {
		return fmt.Errorf("callback port %d out of range", c.CallbackPort)
	}
	if c.CallbackTimeout <= 0 {
		return fmt.Errorf("callback timeout must be positive")
	}
	if c.ExpiryMargin < 0 {
		return fmt.Errorf("expiry margin must not be negative")
	}
	if c.TokenBackend != tokens.BackendFile && c.TokenBackend != tokens.BackendKeyring {
		return fmt.Errorf("token backend must be %q or %q, got %q", tokens.BackendFile, tokens.BackendKeyring, c.TokenBackend)
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("page size must be between 1 and 100, got %d", c.PageSize)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// RequireClientCredentials fails unless both client id and secret are set.
func (c *Config) RequireClientCredentials() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("%w: add them to %s or set them as environment variables",
			common.ErrMissingCredentials, filepath.Join(c.ConfigDir, common.EnvFileName))
	}
	return nil
}

// OAuth returns the oauth package view of c.
func (c *Config) OAuth() oauth.Config {
	return oauth.Config{
		ClientID:        c.ClientID,
		ClientSecret:    c.ClientSecret,
		AuthURL:         c.AuthURL,
		TokenURL:        c.TokenURL,
		RevokeURL:       c.RevokeURL,
		Scopes:          oauth.DefaultScopes,
		CallbackTimeout: c.CallbackTimeout,
	}
}

func (c *Config) TokenFile() string {
	return filepath.Join(c.ConfigDir, common.TokenFileName)
}

func (c *Config) LedgerFile() string {
	return filepath.Join(c.ConfigDir, common.LedgerFileName)
}
