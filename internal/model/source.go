package model

// SourceStatus describes how fetching a single URL ended.
type SourceStatus string

const (
	// SourceFetched means the URL answered 200 and the body was decoded.
	SourceFetched SourceStatus = "fetched"

	// SourceHTTPError means the server answered with a status other than 200.
	SourceHTTPError SourceStatus = "http_error"

	// SourceRequestFailed covers DNS, connection, TLS and timeout failures.
	SourceRequestFailed SourceStatus = "request_failed"

	// SourceDecodeFailed means the body could not be read as text.
	SourceDecodeFailed SourceStatus = "decode_failed"

	// SourceSkipped means the run was cancelled before the URL was requested.
	SourceSkipped SourceStatus = "skipped"
)

// SourceResult records the outcome of fetching one URL from the link file.
// Results are kept for every URL, in input order, whether or not the fetch
// produced a document.
type SourceResult struct {
	// URL is the line from the link file.
	URL string `json:"url"`

	// Status is the outcome of the fetch.
	Status SourceStatus `json:"status"`

	// StatusCode is the HTTP status code, or zero if no response was received.
	StatusCode int `json:"statusCode,omitempty"`

	// Bytes is the size of the decoded body.
	Bytes int `json:"bytes,omitempty"`

	// Truncated is set when the body exceeded the size limit and was cut
	// back to the last whitespace before the limit.
	Truncated bool `json:"truncated,omitempty"`

	// Body is the decoded response body. It is only set for SourceFetched.
	Body string `json:"-"`

	// Err is the failure, if any.
	Err error `json:"-"`

	// ErrorMessage is Err as text, for reports and history.
	ErrorMessage string `json:"error,omitempty"`
}

// OK reports whether the fetch produced a document.
func (r SourceResult) OK() bool {
	return r.Status == SourceFetched
}
