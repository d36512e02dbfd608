// Package fetcher downloads a page and runs it through the extractor.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	infraerrors "github.com/jonesrussell/pagestats/infrastructure/errors"
	infrahttp "github.com/jonesrussell/pagestats/infrastructure/http"
	"github.com/jonesrussell/pagestats/infrastructure/logger"
	"github.com/jonesrussell/pagestats/internal/domain"
	"github.com/jonesrussell/pagestats/internal/extractor"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 10 << 20
	DefaultUserAgent    = "pagestats/1.0 (+https://github.com/jonesrussell/pagestats)"
)

// Config tunes a Fetcher. Zero values take the defaults above.
type Config struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
}

// Error wraps every way a fetch can fail. StatusCode is set only when the
// server answered with a non-2xx status.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fetcher issues one GET per call. It never retries or caches.
type Fetcher struct {
	client       *http.Client
	maxBodyBytes int64
	log          logger.Logger
}

// New builds a Fetcher on the shared client factory.
func New(cfg Config, log logger.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	client := infrahttp.NewClient(&infrahttp.ClientConfig{
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
	})
	return NewWithClient(client, cfg.MaxBodyBytes, log)
}

// NewWithClient uses client as is.
func NewWithClient(client *http.Client, maxBodyBytes int64, log logger.Logger) *Fetcher {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Fetcher{client: client, maxBodyBytes: maxBodyBytes, log: log}
}

// Fetch downloads rawURL and extracts its structure. Any 2xx body is
// parsed whatever its content type. Bodies are transcoded to UTF-8 from
// their declared charset and truncated at the configured size.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (domain.ExtractionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return domain.ExtractionResult{}, &Error{URL: rawURL, Err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.ExtractionResult{}, &Error{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if err = infraerrors.CheckStatus(resp); err != nil {
		return domain.ExtractionResult{}, &Error{URL: rawURL, StatusCode: resp.StatusCode, Err: err}
	}

	body, err := f.readBody(resp)
	if err != nil {
		return domain.ExtractionResult{}, &Error{URL: rawURL, Err: err}
	}

	result, err := extractor.ExtractReader(body)
	if err != nil {
		return domain.ExtractionResult{}, &Error{URL: rawURL, Err: err}
	}

	f.log.Debug("Fetched page",
		logger.String("url", rawURL),
		logger.Int("status", resp.StatusCode),
		logger.Int("links", len(result.Links)),
	)
	return result, nil
}

func (f *Fetcher) readBody(resp *http.Response) (io.Reader, error) {
	limited := io.LimitReader(resp.Body, f.maxBodyBytes)

	utf8Body, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if errors.Is(err, io.EOF) {
		// Empty 2xx body: an empty document, not a failure.
		return http.NoBody, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}
	return utf8Body, nil
}
