// Package http builds the outbound HTTP clients used by pagestats.
package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	DefaultTimeout             = 30 * time.Second
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second
	DefaultTLSHandshakeTimeout = 10 * time.Second
	DefaultMaxRedirects        = 10
)

// ClientConfig tunes the client returned by NewClient. Zero values fall
// back to the package defaults.
type ClientConfig struct {
	// Timeout bounds the whole exchange, body read included.
	Timeout               time.Duration
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	// UserAgent is sent on requests that do not set one themselves.
	UserAgent string
	// MaxRedirects caps followed redirects. Negative disables following.
	MaxRedirects int
}

// NewClient returns an *http.Client with a tuned transport. A nil cfg
// uses defaults everywhere.
func NewClient(cfg *ClientConfig) *http.Client {
	if cfg == nil {
		cfg = &ClientConfig{}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = orDefault(cfg.MaxIdleConns, DefaultMaxIdleConns)
	transport.MaxIdleConnsPerHost = orDefault(cfg.MaxIdleConnsPerHost, DefaultMaxIdleConnsPerHost)
	transport.IdleConnTimeout = orDefault(cfg.IdleConnTimeout, DefaultIdleConnTimeout)
	transport.TLSHandshakeTimeout = orDefault(cfg.TLSHandshakeTimeout, DefaultTLSHandshakeTimeout)
	transport.ResponseHeaderTimeout = cfg.ResponseHeaderTimeout

	var rt http.RoundTripper = transport
	if cfg.UserAgent != "" {
		rt = &userAgentTransport{next: transport, userAgent: cfg.UserAgent}
	}

	return &http.Client{
		Timeout:       orDefault(cfg.Timeout, DefaultTimeout),
		Transport:     rt,
		CheckRedirect: redirectPolicy(cfg.MaxRedirects),
	}
}

// ErrTooManyRedirects is returned once a redirect chain exceeds the limit.
var ErrTooManyRedirects = errors.New("too many redirects")

func redirectPolicy(limit int) func(*http.Request, []*http.Request) error {
	if limit == 0 {
		limit = DefaultMaxRedirects
	}
	return func(_ *http.Request, via []*http.Request) error {
		if limit < 0 {
			return http.ErrUseLastResponse
		}
		if len(via) >= limit {
			return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, limit)
		}
		return nil
	}
}

type userAgentTransport struct {
	next      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(clone)
}

func orDefault[T int | time.Duration](v, def T) T {
	if v == 0 {
		return def
	}
	return v
}
