package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers can match them with errors.Is.
var (
	// ErrNoLinkFile is returned when no link file path was given.
	ErrNoLinkFile = errors.New("no link file specified: provide the path to a file of URLs")

	// ErrNoOutputFile is returned when the output path is empty.
	ErrNoOutputFile = errors.New("no output file specified")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDelay is returned when the delay between requests is negative.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidMinLength is returned when the minimum word length is negative.
	ErrInvalidMinLength = errors.New("invalid minimum word length: must be non-negative")

	// ErrInvalidCleanMode is returned for a clean mode other than "pattern" or "dom".
	ErrInvalidCleanMode = errors.New(`invalid clean mode: must be "pattern" or "dom"`)

	// ErrInvalidProxyAddress is returned when the proxy is not in "host:port" form.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: must be host:port")

	// ErrInvalidLogFormat is returned for a log format other than "text" or "json".
	ErrInvalidLogFormat = errors.New(`invalid log format: must be "text" or "json"`)

	// ErrInvalidHeader is returned for a header that is not in "Key: Value" form.
	ErrInvalidHeader = errors.New(`invalid header: must be "Key: Value"`)
)
