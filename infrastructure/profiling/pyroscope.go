package profiling

import (
	"fmt"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"

	"github.com/jonesrussell/pagestats/infrastructure/logger"
)

const (
	defaultPyroscopeURL = "http://pyroscope:4040"
	applicationPrefix   = "pagestats."
)

// PyroscopeProfiler wraps a running Pyroscope agent. A nil receiver is a
// valid, stopped profiler.
type PyroscopeProfiler struct {
	profiler *pyroscope.Profiler
}

// StartPyroscope starts continuous profiling when
// ENABLE_CONTINUOUS_PROFILING=true and returns (nil, nil) otherwise.
// PYROSCOPE_SERVER_URL, PYROSCOPE_ENVIRONMENT and APP_VERSION tune it.
func StartPyroscope(serviceName string, log logger.Logger) (*PyroscopeProfiler, error) {
	if os.Getenv("ENABLE_CONTINUOUS_PROFILING") != "true" {
		return nil, nil //nolint:nilnil // disabled is not an error
	}

	cfg := pyroscope.Config{
		ApplicationName: applicationPrefix + serviceName,
		ServerAddress:   envOr("PYROSCOPE_SERVER_URL", defaultPyroscopeURL),
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Tags: map[string]string{
			"environment": envOr("PYROSCOPE_ENVIRONMENT", "development"),
			"version":     envOr("APP_VERSION", "unknown"),
			"hostname":    hostname(),
			"go_version":  runtime.Version(),
		},
	}

	p, err := pyroscope.Start(cfg)
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}

	log.Info("Pyroscope profiling started",
		logger.String("application", cfg.ApplicationName),
		logger.String("server", cfg.ServerAddress),
	)
	return &PyroscopeProfiler{profiler: p}, nil
}

func (p *PyroscopeProfiler) Stop() error {
	if p == nil || p.profiler == nil {
		return nil
	}
	return p.profiler.Stop()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
