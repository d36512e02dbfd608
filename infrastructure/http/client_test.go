package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infrahttp "github.com/jonesrussell/pagestats/infrastructure/http"
)

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := infrahttp.NewClient(nil)
	assert.Equal(t, infrahttp.DefaultTimeout, c.Timeout)

	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok, "no user agent means a bare transport")
	assert.Equal(t, infrahttp.DefaultMaxIdleConnsPerHost, tr.MaxIdleConnsPerHost)
}

func TestNewClient_SetsUserAgent(t *testing.T) {
	t.Parallel()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = r.UserAgent()
	}))
	defer srv.Close()

	c := infrahttp.NewClient(&infrahttp.ClientConfig{UserAgent: "pagestats-test/1.0", Timeout: time.Second})

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, http.NoBody)
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "pagestats-test/1.0", got)
}

func TestNewClient_RedirectLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer srv.Close()

	c := infrahttp.NewClient(&infrahttp.ClientConfig{MaxRedirects: 2})

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, http.NoBody)
	require.NoError(t, err)
	resp, err := c.Do(req)
	if resp != nil {
		_ = resp.Body.Close()
	}
	require.Error(t, err)
	assert.True(t, errors.Is(err, infrahttp.ErrTooManyRedirects))
}
