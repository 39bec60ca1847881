package config

import (
	"fmt"
	"math"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "commonword"

	// DefaultMatchRatio requires a word to appear in every fetched document.
	DefaultMatchRatio = 1.00

	// DefaultOutputFile is where the blacklist is written when no path is given.
	DefaultOutputFile = "blacklist.txt"

	// DefaultMinWordLength is the length a token must exceed to be kept.
	DefaultMinWordLength = 4

	// DefaultTimeout bounds a single GET request including the body read.
	DefaultTimeout = 30 * time.Second

	// DefaultDelay is the pause between two requests. Zero means no pause.
	DefaultDelay = time.Duration(0)

	// DefaultUserAgent identifies the generator in HTTP requests.
	DefaultUserAgent = "commonword/1.0 (+https://github.com/nao1215/commonword)"

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// CleanModePattern strips markup with the ordered substitution passes.
	CleanModePattern = "pattern"

	// CleanModeDOM extracts text nodes with an HTML parser.
	CleanModeDOM = "dom"

	// LogFormatText and LogFormatJSON select the log handler.
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all options for a generation run.
// It is populated from defaults, the optional configuration file and CLI
// flags, in that order, and passed down explicitly.
type Config struct {
	// LinkFile is the path to the newline-separated list of URLs.
	LinkFile string

	// OutputFile is the path the blacklist is written to (created or truncated).
	OutputFile string

	// MatchRatio is the fraction of documents a word must appear in.
	// The absolute threshold is int(MatchRatio * documents), truncated.
	MatchRatio float64

	// MinWordLength is the length a token must exceed; tokens of exactly
	// this length are dropped.
	MinWordLength int

	// CleanMode is CleanModePattern or CleanModeDOM.
	CleanMode string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Delay is the pause enforced between consecutive requests.
	Delay time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// Headers are extra request headers sent with every request.
	Headers map[string]string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	ProxyAddress string

	// MaxBodySize is the maximum number of body bytes read per response.
	MaxBodySize int64

	// ReportFiles each receive a run summary in the format given by the
	// file extension.
	ReportFiles []string

	// SaveHistory records the run in the history database under HistoryDir.
	SaveHistory bool

	// HistoryDir is the directory holding the history database.
	HistoryDir string

	// Verbose enables debug logging.
	Verbose bool

	// LogFormat is LogFormatText or LogFormatJSON.
	LogFormat string
}

// NewConfig creates a Config populated with default values.
func NewConfig() *Config {
	return &Config{
		OutputFile:    DefaultOutputFile,
		MatchRatio:    DefaultMatchRatio,
		MinWordLength: DefaultMinWordLength,
		CleanMode:     CleanModePattern,
		Timeout:       DefaultTimeout,
		Delay:         DefaultDelay,
		UserAgent:     DefaultUserAgent,
		Headers:       make(map[string]string),
		MaxBodySize:   DefaultMaxBodySize,
		HistoryDir:    XDGDataDir(),
		LogFormat:     LogFormatText,
	}
}

// ParseMatchRatio converts the textual match ratio given on the command line
// or in the configuration file. Empty or unparsable input falls back to
// DefaultMatchRatio without an error, so "-r abc" behaves like "-r 1.00".
// NaN and infinities are treated as unparsable.
func ParseMatchRatio(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultMatchRatio
	}
	ratio, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return DefaultMatchRatio
	}
	return ratio
}

// XDGDataDir returns the data directory for commonword.
// On Linux: ~/.local/share/commonword
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the config directory for commonword.
// On Linux: ~/.config/commonword
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LinkFile) == "" {
		return ErrNoLinkFile
	}
	if strings.TrimSpace(c.OutputFile) == "" {
		return ErrNoOutputFile
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.MinWordLength < 0 {
		return ErrInvalidMinLength
	}
	if c.CleanMode != CleanModePattern && c.CleanMode != CleanModeDOM {
		return ErrInvalidCleanMode
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return ErrInvalidLogFormat
	}
	if c.ProxyAddress != "" && !isValidProxyAddress(c.ProxyAddress) {
		return ErrInvalidProxyAddress
	}
	return nil
}

// isValidProxyAddress reports whether address is "host:port" with a port in 1..65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// ParseHeader splits a "Key: Value" header given on the command line.
// Surrounding whitespace is trimmed; the value may be empty, the key may not.
func ParseHeader(s string) (string, string, error) {
	key, value, found := strings.Cut(s, ":")
	key = strings.TrimSpace(key)
	if !found || key == "" || strings.ContainsAny(key, " \t") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidHeader, s)
	}
	return key, strings.TrimSpace(value), nil
}
