package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/proxy"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
	"golang.org/x/time/rate"

	"github.com/nao1215/commonword/internal/config"
	"github.com/nao1215/commonword/internal/model"
)

// Fetcher retrieves page bodies as UTF-8 text.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	headers      map[string]string
	maxBodySize  int64
	proxyAddress string
	delay        time.Duration
	limiter      *rate.Limiter
	logger       *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout. Ignored with WithHTTPClient.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) {
		f.userAgent = userAgent
	}
}

// WithHeaders adds headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		for k, v := range headers {
			f.headers[k] = v
		}
	}
}

// WithMaxBodySize limits how many body bytes are read. Zero keeps the default.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithProxy routes requests through a SOCKS5 proxy at "host:port".
// Ignored with WithHTTPClient.
func WithProxy(address string) Option {
	return func(f *Fetcher) {
		f.proxyAddress = address
	}
}

// WithDelay enforces a minimum pause between consecutive requests.
func WithDelay(delay time.Duration) Option {
	return func(f *Fetcher) {
		f.delay = delay
	}
}

// WithLogger sets the logger used for per-URL diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithHTTPClient uses client instead of building one.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// New creates a Fetcher.
func New(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:     config.DefaultTimeout,
		userAgent:   config.DefaultUserAgent,
		headers:     make(map[string]string),
		maxBodySize: config.DefaultMaxBodySize,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		client, err := newHTTPClient(f.timeout, f.proxyAddress)
		if err != nil {
			return nil, err
		}
		f.client = client
	}

	limit := rate.Inf
	if f.delay > 0 {
		limit = rate.Every(f.delay)
	}
	f.limiter = rate.NewLimiter(limit, 1)

	return f, nil
}

// newHTTPClient builds a client that optionally dials through a SOCKS5 proxy.
func newHTTPClient(timeout time.Duration, proxyAddress string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport

	if proxyAddress != "" {
		dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		contextDialer, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, errors.New("SOCKS5 dialer does not support contexts")
		}
		transport.Proxy = nil
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return contextDialer.DialContext(ctx, network, addr)
		}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}

// Fetch performs a GET request and returns the body as UTF-8 text.
// Errors are *StatusError, or wrap ErrRequest or ErrDecode.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	text, _, err := f.fetch(ctx, rawURL)
	return text, err
}

// fetch is Fetch that also reports whether the body exceeded the size limit.
func (f *Fetcher) fetch(ctx context.Context, rawURL string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	truncated := int64(len(body)) > f.maxBodySize
	if truncated {
		body = trimToWordBoundary(body[:f.maxBodySize])
		f.logger.Warn("response body exceeds size limit, truncated at last whitespace",
			"url", rawURL,
			"limit", f.maxBodySize,
			"kept", len(body),
		)
	}

	contentType := resp.Header.Get("Content-Type")
	text, err := decodeBody(body, f.declaredEncoding(rawURL, contentType), contentType)
	if err != nil {
		return "", truncated, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return text, truncated, nil
}

// trimToWordBoundary drops the trailing partial word of a cut body. A body
// without whitespace is returned as it is.
func trimToWordBoundary(body []byte) []byte {
	if i := bytes.LastIndexAny(body, " \t\r\n\f\v"); i >= 0 {
		return body[:i]
	}
	return body
}

// declaredEncoding returns the encoding named by the charset parameter of
// contentType, or nil when there is none or the label is unknown.
func (f *Fetcher) declaredEncoding(rawURL, contentType string) encoding.Encoding {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil
	}
	label := strings.TrimSpace(params["charset"])
	if label == "" {
		return nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		f.logger.Debug("unknown charset in Content-Type, sniffing body", "url", rawURL, "charset", label)
		return nil
	}
	return enc
}

// decodeBody converts body to UTF-8 from enc, or from the encoding sniffed
// from the content when enc is nil. Invalid byte sequences become U+FFFD.
func decodeBody(body []byte, enc encoding.Encoding, contentType string) (string, error) {
	if enc == nil {
		enc, _, _ = charset.DetermineEncoding(body, contentType)
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return "", err
	}
	return string(bytes.ToValidUTF8(decoded, []byte("\uFFFD"))), nil
}

// FetchAll fetches every URL in order and returns one result per URL.
// Failures are logged and recorded; only cancellation of ctx stops early,
// in which case the remaining URLs are reported as skipped.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []model.SourceResult {
	results := make([]model.SourceResult, 0, len(urls))

	for i, rawURL := range urls {
		if err := f.limiter.Wait(ctx); err != nil {
			for _, rest := range urls[i:] {
				results = append(results, model.SourceResult{
					URL:          rest,
					Status:       model.SourceSkipped,
					Err:          err,
					ErrorMessage: err.Error(),
				})
			}
			f.logger.Warn("fetching cancelled", "remaining", len(urls)-i, "error", err)
			return results
		}

		results = append(results, f.fetchOne(ctx, rawURL))
	}

	return results
}

// fetchOne fetches a single URL and classifies the outcome.
func (f *Fetcher) fetchOne(ctx context.Context, rawURL string) model.SourceResult {
	f.logger.Debug("fetching", "url", rawURL)

	text, truncated, err := f.fetch(ctx, rawURL)
	if err == nil {
		f.logger.Debug("fetched", "url", rawURL, "bytes", len(text))
		return model.SourceResult{
			URL:        rawURL,
			Status:     model.SourceFetched,
			StatusCode: http.StatusOK,
			Bytes:      len(text),
			Truncated:  truncated,
			Body:       text,
		}
	}

	result := model.SourceResult{
		URL:          rawURL,
		Truncated:    truncated,
		Err:          err,
		ErrorMessage: err.Error(),
	}

	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		result.Status = model.SourceHTTPError
		result.StatusCode = statusErr.StatusCode
		f.logger.Warn("failed to GET url: unexpected status code",
			"url", rawURL,
			"status", statusErr.StatusCode,
		)
	case errors.Is(err, ErrDecode):
		result.Status = model.SourceDecodeFailed
		result.StatusCode = http.StatusOK
		f.logger.Warn("failed to read response body as text", "url", rawURL, "error", err)
	default:
		result.Status = model.SourceRequestFailed
		f.logger.Warn("failed to GET url", "url", rawURL, "error", err)
	}

	return result
}

// NewFromConfig creates a Fetcher using the request settings of cfg.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Fetcher, error) {
	return New(
		WithTimeout(cfg.Timeout),
		WithUserAgent(cfg.UserAgent),
		WithHeaders(cfg.Headers),
		WithMaxBodySize(cfg.MaxBodySize),
		WithProxy(cfg.ProxyAddress),
		WithDelay(cfg.Delay),
		WithLogger(logger),
	)
}
