// Package bootstrap handles application initialization and lifecycle management
// for the pagestats service.
package bootstrap

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	infralogger "github.com/jonesrussell/pagestats/infrastructure/logger"
	"github.com/jonesrussell/pagestats/infrastructure/profiling"
	"github.com/jonesrussell/pagestats/internal/metrics"
)

// Start initializes and runs the pagestats service until it is stopped.
func Start() error {
	cfg, configErr := LoadConfig()
	if configErr != nil {
		return fmt.Errorf("config: %w", configErr)
	}

	log, logErr := CreateLogger(cfg)
	if logErr != nil {
		return fmt.Errorf("logger: %w", logErr)
	}
	defer func() { _ = log.Sync() }()

	profiling.StartPprofServer(log)
	profiler, profErr := profiling.StartPyroscope(cfg.Service.Name, log)
	if profErr != nil {
		log.Warn("Pyroscope disabled", infralogger.Error(profErr))
	}
	defer func() { _ = profiler.Stop() }()

	log.Info("Starting pagestats service",
		infralogger.String("name", cfg.Service.Name),
		infralogger.String("version", cfg.Service.Version),
		infralogger.Int("port", cfg.Service.Port),
	)

	db, dbErr := SetupDatabase(cfg, log)
	if dbErr != nil {
		return fmt.Errorf("database: %w", dbErr)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", infralogger.Error(closeErr))
		}
	}()

	publisher := SetupEventPublisher(cfg, log)
	defer func() {
		if closeErr := publisher.Close(); closeErr != nil {
			log.Error("Failed to close event publisher", infralogger.Error(closeErr))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server := SetupHTTPServer(cfg, Deps{
		DB:        db,
		Publisher: publisher,
		Metrics:   metrics.NewMetrics(reg),
		Registry:  reg,
	}, log)

	if runErr := server.Run(); runErr != nil {
		log.Error("Server error", infralogger.Error(runErr))
		return fmt.Errorf("server: %w", runErr)
	}

	log.Info("pagestats service stopped")
	return nil
}
