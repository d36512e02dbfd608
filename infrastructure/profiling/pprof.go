// Package profiling starts optional pprof and Pyroscope profilers. Both
// are off unless switched on through the environment.
package profiling

import (
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/jonesrussell/pagestats/infrastructure/logger"
)

const (
	defaultPprofPort  = "6060"
	pprofReadTimeout  = 10 * time.Second
	pprofWriteTimeout = 60 * time.Second
)

// StartPprofServer serves /debug/pprof on localhost:$PPROF_PORT when
// ENABLE_PROFILING=true. It returns the server, or nil when disabled.
func StartPprofServer(log logger.Logger) *http.Server {
	if os.Getenv("ENABLE_PROFILING") != "true" {
		return nil
	}

	port := os.Getenv("PPROF_PORT")
	if port == "" {
		port = defaultPprofPort
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	srv := &http.Server{
		Addr:         net.JoinHostPort("localhost", port),
		Handler:      mux,
		ReadTimeout:  pprofReadTimeout,
		WriteTimeout: pprofWriteTimeout,
	}

	go func() {
		log.Info("Starting pprof server", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("pprof server stopped", logger.Error(err))
		}
	}()

	return srv
}
