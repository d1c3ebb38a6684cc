package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	OutputTable = "table"
	OutputJSON  = "json"

	DefaultSessionName = "iamaudit"
	DefaultDuration    = int32(3600)
	DefaultConcurrency = 8
)

var configPath = filepath.Join(os.Getenv("HOME"), ".iamaudit", "config.toml")

// Config holds the settings read from ~/.iamaudit/config.toml.
// Command line flags take precedence over every field.
type Config struct {
	Profile     string `toml:"profile"`
	Region      string `toml:"region"`
	RoleArn     string `toml:"role_arn"`
	MfaSerial   string `toml:"mfa_serial"`
	SessionName string `toml:"session_name"`
	Duration    int32  `toml:"duration"`
	Output      string `toml:"output"`
	Concurrency int    `toml:"concurrency"`
}

func DefaultConfig() *Config {
	return &Config{
		SessionName: DefaultSessionName,
		Duration:    DefaultDuration,
		Output:      OutputTable,
		Concurrency: DefaultConcurrency,
	}
}

// ConfigPath returns the default config file location
func ConfigPath() string {
	return configPath
}

// LoadConfig reads the config file at path, or the default location when path
// is empty. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = configPath
	}

	cfg := DefaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("output must be %q or %q, got %q", OutputTable, OutputJSON, c.Output)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	// STS rejects anything outside 15m..12h
	if c.Duration != 0 && (c.Duration < 900 || c.Duration > 43200) {
		return fmt.Errorf("duration must be between 900 and 43200 seconds, got %d", c.Duration)
	}
	if c.MfaSerial != "" && c.RoleArn == "" {
		return errors.New("mfa_serial requires role_arn")
	}
	return nil
}

// SessionOptions maps the config onto the options used to build a Session
func (c *Config) SessionOptions() SessionOptions {
	return SessionOptions{
		Profile:     c.Profile,
		Region:      c.Region,
		RoleArn:     c.RoleArn,
		SessionName: c.SessionName,
		MfaSerial:   c.MfaSerial,
		Duration:    c.Duration,
	}
}
