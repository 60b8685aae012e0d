package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/xbm/internal/timex"
)

// FileConfig is a DTO used exclusively for unmarshalling config files. It
// relies on timex.Duration so intervals can be written as "3s" or as integer
// seconds. Empty fields leave the current value alone.
type FileConfig struct {
	ConfigDir       string         `json:"config_dir" yaml:"config_dir"`
	ClientID        string         `json:"client_id" yaml:"client_id"`
	ClientSecret    string         `json:"client_secret" yaml:"client_secret"`
	CallbackPort    int            `json:"callback_port" yaml:"callback_port"`
	CallbackTimeout timex.Duration `json:"callback_timeout" yaml:"callback_timeout"`
	ExpiryMargin    timex.Duration `json:"expiry_margin" yaml:"expiry_margin"`
	TokenBackend    string         `json:"token_backend" yaml:"token_backend"`
	AuthURL         string         `json:"auth_url" yaml:"auth_url"`
	TokenURL        string         `json:"token_url" yaml:"token_url"`
	RevokeURL       string         `json:"revoke_url" yaml:"revoke_url"`
	APIBaseURL      string         `json:"api_base_url" yaml:"api_base_url"`
	PageSize        int            `json:"page_size" yaml:"page_size"`
	PageInterval    timex.Duration `json:"page_interval" yaml:"page_interval"`
	HTTPTimeout     timex.Duration `json:"http_timeout" yaml:"http_timeout"`
	LogLevel        string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with the file at path. The format follows the
// extension: .yaml/.yml for YAML, anything else is read as JSON.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.ConfigDir, fc.ConfigDir)
	setString(&cfg.ClientID, fc.ClientID)
	setString(&cfg.ClientSecret, fc.ClientSecret)
	setString(&cfg.TokenBackend, fc.TokenBackend)
	setString(&cfg.AuthURL, fc.AuthURL)
	setString(&cfg.TokenURL, fc.TokenURL)
	setString(&cfg.RevokeURL, fc.RevokeURL)
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.LogLevel, fc.LogLevel)

	if fc.CallbackPort != 0 {
		cfg.CallbackPort = fc.CallbackPort
	}
	if fc.PageSize != 0 {
		cfg.PageSize = fc.PageSize
	}
	if fc.CallbackTimeout.Duration != 0 {
		cfg.CallbackTimeout = fc.CallbackTimeout.Duration
	}
	if fc.ExpiryMargin.Duration != 0 {
		cfg.ExpiryMargin = fc.ExpiryMargin.Duration
	}
	if fc.PageInterval.Duration != 0 {
		cfg.PageInterval = fc.PageInterval.Duration
	}
	if fc.HTTPTimeout.Duration != 0 {
		cfg.HTTPTimeout = fc.HTTPTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
