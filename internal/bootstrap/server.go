package bootstrap

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	infragin "github.com/jonesrussell/pagestats/infrastructure/gin"
	infralogger "github.com/jonesrussell/pagestats/infrastructure/logger"
	inframetrics "github.com/jonesrussell/pagestats/infrastructure/metrics"
	"github.com/jonesrussell/pagestats/internal/api"
	"github.com/jonesrussell/pagestats/internal/config"
	"github.com/jonesrussell/pagestats/internal/database"
	"github.com/jonesrussell/pagestats/internal/events"
	"github.com/jonesrussell/pagestats/internal/fetcher"
	"github.com/jonesrussell/pagestats/internal/metrics"
	"github.com/jonesrussell/pagestats/internal/service"
)

const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 60 * time.Second
	defaultIdleTimeout  = 120 * time.Second
	healthCheckTimeout  = 2 * time.Second
)

// Deps are the long-lived resources the HTTP server is built on.
type Deps struct {
	DB        *sql.DB
	Publisher *events.Publisher
	Metrics   *metrics.Metrics
	Registry  *prometheus.Registry
}

// SetupHTTPServer creates the HTTP server with all handlers wired.
func SetupHTTPServer(cfg *config.Config, deps Deps, log infralogger.Logger) *infragin.Server {
	repo := database.NewPageRepository(deps.DB)
	pageFetcher := fetcher.New(fetcher.Config{
		Timeout:      cfg.Fetcher.Timeout,
		MaxBodyBytes: cfg.Fetcher.MaxBodyBytes,
		UserAgent:    cfg.Fetcher.UserAgent,
	}, log)

	var publisher service.EventPublisher
	if deps.Publisher != nil {
		publisher = deps.Publisher
	}
	pageSvc := service.NewPageService(repo, pageFetcher, publisher, deps.Metrics, log)
	pageHandler := api.NewPageHandler(pageSvc, log)

	builder := infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithTimeouts(defaultReadTimeout, defaultWriteTimeout, defaultIdleTimeout).
		WithDatabaseHealthCheck(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
			defer cancel()
			return repo.Ping(ctx)
		})

	if deps.Publisher != nil {
		builder = builder.WithRedisHealthCheck(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
			defer cancel()
			return deps.Publisher.Ping(ctx)
		})
	}

	if deps.Registry != nil {
		httpMetrics := inframetrics.NewHTTPMetrics(deps.Registry, metrics.Namespace)
		builder = builder.WithMiddleware(httpMetrics.Middleware())
	}

	return builder.
		WithRoutes(func(router *gin.Engine) {
			if deps.Registry != nil {
				router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
			}
			api.SetupRoutes(router, pageHandler)
		}).
		Build()
}
