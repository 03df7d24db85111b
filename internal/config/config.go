package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr        string     `yaml:"addr"`
	TLSCert     string     `yaml:"tls_cert"`
	TLSKey      string     `yaml:"tls_key"`
	DatabaseURL string     `yaml:"database_url"`
	StaticDir   string     `yaml:"static_dir"`
	GradesFile  string     `yaml:"grades_file"`
	Auth        AuthConfig `yaml:"auth"`
	Log         LogConfig  `yaml:"log"`
	Rate        RateConfig `yaml:"rate"`

	// GeneratedTokenKey is set when no token key was configured.
	GeneratedTokenKey bool `yaml:"-"`
}

type AuthConfig struct {
	User     string `yaml:"user"`
	Pass     string `yaml:"pass"`
	Disabled bool   `yaml:"disabled"`
	TokenKey string `yaml:"token_key"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type RateConfig struct {
	Limit float64 `yaml:"limit"`
	Burst int     `yaml:"burst"`
}

// Load reads .env when present, then the optional YAML file at path, then
// the environment, which wins over the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("ADDR", &c.Addr)
	str("TLS_CERT", &c.TLSCert)
	str("TLS_KEY", &c.TLSKey)
	str("DATABASE_URL", &c.DatabaseURL)
	str("STATIC_DIR", &c.StaticDir)
	str("GRADES_FILE", &c.GradesFile)
	str("AUTH_USER", &c.Auth.User)
	str("AUTH_PASS", &c.Auth.Pass)
	str("TOKEN_KEY", &c.Auth.TokenKey)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FILE", &c.Log.File)

	if v, ok := lookup("AUTH_DISABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AUTH_DISABLED: %w", err)
		}
		c.Auth.Disabled = b
	}
	if v, ok := lookup("RATE_LIMIT"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT: %w", err)
		}
		c.Rate.Limit = f
	}
	if v, ok := lookup("RATE_BURST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_BURST: %w", err)
		}
		c.Rate.Burst = n
	}
	return nil
}

func (c *Config) applyDefaults() error {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Auth.User == "" {
		c.Auth.User = "admin"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Rate.Limit == 0 {
		c.Rate.Limit = 5
	}
	if c.Rate.Burst == 0 {
		c.Rate.Burst = 10
	}
	if c.Auth.TokenKey == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return err
		}
		c.Auth.TokenKey = hex.EncodeToString(b)
		c.GeneratedTokenKey = true
	}
	return nil
}

func (c *Config) validate() error {
	if !c.Auth.Disabled && c.Auth.Pass == "" {
		return fmt.Errorf("AUTH_PASS is required unless AUTH_DISABLED=true")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return fmt.Errorf("TLS_CERT and TLS_KEY must be set together")
	}
	if c.Rate.Limit < 0 || c.Rate.Burst < 0 {
		return fmt.Errorf("rate limit and burst must not be negative")
	}
	if !strings.Contains(c.Addr, ":") {
		return fmt.Errorf("addr %q has no port", c.Addr)
	}
	if c.StaticDir != "" {
		fi, err := os.Stat(c.StaticDir)
		if err != nil {
			return fmt.Errorf("STATIC_DIR: %w", err)
		}
		if !fi.IsDir() {
			return fmt.Errorf("STATIC_DIR %s is not a directory", c.StaticDir)
		}
	}
	return nil
}

// TLS reports whether the server should listen with TLS.
func (c *Config) TLS() bool { return c.TLSCert != "" }
