package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/pagestats/infrastructure/metrics"
)

func TestHTTPMetrics_Middleware(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg, "test")

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/page/:id/", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/page/1/", "/page/2/", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	assert.Equal(t, 2, testutil.CollectAndCount(reg, "test_http_requests_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "test_http_requests_in_flight"))

	expected := `
# HELP test_http_requests_total HTTP requests handled, by method, route and status.
# TYPE test_http_requests_total counter
test_http_requests_total{method="GET",route="/page/:id/",status="404"} 2
test_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_http_requests_total"))
}

