package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/xbm/internal/common"
	"github.com/dmitrijs2005/xbm/internal/logging"
)

type lookupFunc func(key string) (string, bool)

type loader struct {
	lookup lookupFunc
	log    logging.Logger

	// dotenv holds values read from .env files. The real environment wins
	// over them.
	dotenv map[string]string
}

func newLoader(lookup lookupFunc, log logging.Logger) *loader {
	return &loader{lookup: lookup, log: log, dotenv: map[string]string{}}
}

func (l *loader) load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}

	// The config dir decides where the .env file lives, so it is resolved
	// from the environment first.
	if v, ok := l.lookup(common.EnvConfigDir); ok && v != "" {
		cfg.ConfigDir = v
	}

	for _, p := range []string{filepath.Join(cfg.ConfigDir, common.EnvFileName), common.EnvFileName} {
		if err := l.readDotenv(p); err != nil {
			return nil, err
		}
	}

	l.applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readDotenv merges one .env file; files read earlier take precedence.
func (l *loader) readDotenv(path string) error {
	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	if runtime.GOOS != "windows" && fi.Mode().Perm()&0o077 != 0 {
		l.log.Warn(context.Background(), ".env file is readable by other users, consider chmod 600",
			"path", path, "mode", fi.Mode().Perm().String())
	}

	vals, err := godotenv.Read(path)
	if err != nil {
		return err
	}
	for k, v := range vals {
		if _, seen := l.dotenv[k]; !seen {
			l.dotenv[k] = v
		}
	}
	return nil
}

func (l *loader) get(key string) (string, bool) {
	if v, ok := l.lookup(key); ok {
		return v, true
	}
	v, ok := l.dotenv[key]
	return v, ok
}

func (l *loader) applyEnv(cfg *Config) {
	for key, dst := range map[string]*string{
		common.EnvClientID:     &cfg.ClientID,
		common.EnvClientSecret: &cfg.ClientSecret,
		common.EnvLogLevel:     &cfg.LogLevel,
		common.EnvTokenBackend: &cfg.TokenBackend,
	} {
		if v, ok := l.get(key); ok && v != "" {
			*dst = v
		}
	}
}
