package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrRequest wraps transport-level failures: malformed URL, DNS,
	// connection, TLS and timeouts.
	ErrRequest = errors.New("request failed")

	// ErrDecode wraps failures to read the body or convert it to text.
	ErrDecode = errors.New("could not decode response body")
)

// StatusError is returned when the server answers with a status other than 200.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %q returned status code %d", e.URL, e.StatusCode)
}
