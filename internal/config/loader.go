package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file looked up in the working directory.
const DefaultConfigFile = ".commonword"

// xdgConfigFile is the configuration file name inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the structure of the YAML configuration file.
// Every field is optional; zero values leave the defaults in place.
type File struct {
	// MatchRatio is kept as text so that it goes through ParseMatchRatio
	// exactly like the command-line flag.
	MatchRatio string `yaml:"matchRatio,omitempty"`

	// MinWordLength overrides DefaultMinWordLength when set.
	MinWordLength *int `yaml:"minWordLength,omitempty"`

	// Mode selects the cleaner ("pattern" or "dom").
	Mode string `yaml:"mode,omitempty"`

	// Timeout is a Go duration string such as "45s".
	Timeout string `yaml:"timeout,omitempty"`

	// Delay is a Go duration string such as "500ms".
	Delay string `yaml:"delay,omitempty"`

	// UserAgent overrides DefaultUserAgent.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Headers are added to every request.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Proxy is a SOCKS5 proxy in "host:port" form.
	Proxy string `yaml:"proxy,omitempty"`

	// MaxBodySize is the maximum body size in bytes.
	MaxBodySize int64 `yaml:"maxBodySize,omitempty"`
}

// LoadConfigFile reads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	if cf.Headers == nil {
		cf.Headers = make(map[string]string)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. configPath, if specified
// 2. .commonword in the current directory
// 3. config.yaml in the XDG config directory
//
// Returns an empty string if none exists.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), xdgConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// Apply copies the values set in the file onto cfg.
func (cf *File) Apply(cfg *Config) error {
	if cf.MatchRatio != "" {
		cfg.MatchRatio = ParseMatchRatio(cf.MatchRatio)
	}
	if cf.MinWordLength != nil {
		cfg.MinWordLength = *cf.MinWordLength
	}
	if cf.Mode != "" {
		cfg.CleanMode = cf.Mode
	}
	if cf.Timeout != "" {
		d, err := time.ParseDuration(cf.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", cf.Timeout, err)
		}
		cfg.Timeout = d
	}
	if cf.Delay != "" {
		d, err := time.ParseDuration(cf.Delay)
		if err != nil {
			return fmt.Errorf("invalid delay %q: %w", cf.Delay, err)
		}
		cfg.Delay = d
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if len(cf.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		for k, v := range cf.Headers {
			cfg.Headers[k] = v
		}
	}
	if cf.Proxy != "" {
		cfg.ProxyAddress = cf.Proxy
	}
	if cf.MaxBodySize != 0 {
		cfg.MaxBodySize = cf.MaxBodySize
	}
	return nil
}
