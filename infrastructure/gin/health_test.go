package gin_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	ginpkg "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infragin "github.com/jonesrussell/pagestats/infrastructure/gin"
	"github.com/jonesrussell/pagestats/infrastructure/logger"
)

func TestBuild_HealthEndpoints(t *testing.T) {
	t.Parallel()

	srv := infragin.NewServerBuilder("pagestats", 8050).
		WithLogger(logger.NewNop()).
		WithVersion("1.2.3").
		WithDatabaseHealthCheck(func() error { return nil }).
		Build()

	w := serve(srv.Router(), httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)

	var body infragin.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, infragin.HealthStatusHealthy, body.Status)
	assert.Equal(t, "pagestats", body.Service)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Contains(t, body.Checks, "database")

	w = serve(srv.Router(), httptest.NewRequest(http.MethodHead, "/health", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(srv.Router(), httptest.NewRequest(http.MethodGet, "/health/memory", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "heap_alloc_mb")
}

func TestBuild_HealthStatusAggregation(t *testing.T) {
	t.Parallel()

	failing := func() error { return errors.New("down") }
	ok := func() error { return nil }

	tests := []struct {
		name     string
		dbPing   func() error
		redis    func() error
		wantCode int
		want     infragin.HealthStatus
	}{
		{"all healthy", ok, ok, http.StatusOK, infragin.HealthStatusHealthy},
		{"redis down degrades", ok, failing, http.StatusOK, infragin.HealthStatusDegraded},
		{"database down is unhealthy", failing, ok, http.StatusServiceUnavailable, infragin.HealthStatusUnhealthy},
		{"both down", failing, failing, http.StatusServiceUnavailable, infragin.HealthStatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := infragin.NewServerBuilder("pagestats", 8050).
				WithLogger(logger.NewNop()).
				WithDatabaseHealthCheck(tt.dbPing).
				WithRedisHealthCheck(tt.redis).
				Build()

			w := serve(srv.Router(), httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
			assert.Equal(t, tt.wantCode, w.Code)

			var body infragin.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Status)
		})
	}
}

func TestBuild_CustomRoutesAndMiddleware(t *testing.T) {
	t.Parallel()

	var hit bool
	srv := infragin.NewServerBuilder("pagestats", 8050).
		WithLogger(logger.NewNop()).
		WithMiddleware(func(c *ginpkg.Context) { hit = true; c.Next() }).
		WithRoutes(func(r *ginpkg.Engine) {
			r.GET("/ping", func(c *ginpkg.Context) { c.String(http.StatusOK, "pong") })
		}).
		Build()

	w := serve(srv.Router(), httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
	assert.Equal(t, "pong", w.Body.String())
	assert.True(t, hit)
	assert.Equal(t, ":8050", srv.Addr())
}
