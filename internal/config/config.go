package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreBackendKeyring = "keyring"
	StoreBackendBolt    = "bolt"
)

// Config holds all runtime configuration knobs for couponctl.
type Config struct {
	Upstream struct {
		BaseURL        string        `mapstructure:"base_url"`
		Timeout        time.Duration `mapstructure:"timeout"`
		RateLimit      float64       `mapstructure:"rate_limit"`
		UserAgent      string        `mapstructure:"user_agent"`
		AcceptLanguage string        `mapstructure:"accept_language"`
	} `mapstructure:"upstream"`
	Store struct {
		Backend string `mapstructure:"backend"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"store"`
	Session struct {
		ClearOnExit bool     `mapstructure:"clear_on_exit"`
		CookieNames []string `mapstructure:"cookie_names"`
	} `mapstructure:"session"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// Load reads the configuration from .env, the config file and the environment.
// An empty path falls back to DefaultPath; a missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("couponctl")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Upstream.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Upstream.BaseURL), "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("upstream.base_url must be an absolute URL, got %q", c.Upstream.BaseURL)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive")
	}
	if c.Upstream.RateLimit <= 0 {
		return fmt.Errorf("upstream.rate_limit must be positive")
	}
	switch c.Store.Backend {
	case StoreBackendKeyring, StoreBackendBolt:
	default:
		return fmt.Errorf("unknown store.backend %q (use %s or %s)", c.Store.Backend, StoreBackendKeyring, StoreBackendBolt)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path cannot be empty")
	}
	return nil
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".couponctl"
	}
	return filepath.Join(dir, "couponctl")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("upstream.base_url", "https://blackcat2.vankeservice.com")
	v.SetDefault("upstream.timeout", "10s")
	v.SetDefault("upstream.rate_limit", 5)
	v.SetDefault("upstream.user_agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1")
	v.SetDefault("upstream.accept_language", "zh-CN,zh;q=0.9")

	v.SetDefault("store.backend", StoreBackendKeyring)
	v.SetDefault("store.path", filepath.Join(configDir(), "store.db"))

	v.SetDefault("session.clear_on_exit", true)
	v.SetDefault("session.cookie_names", []string{"acw_tc", "JSESSIONID"})

	v.SetDefault("log.level", "info")
}
