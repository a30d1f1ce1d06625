package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/statuswatch/statuswatch/internal/healthcheck"
	"github.com/statuswatch/statuswatch/internal/metrics"
	"github.com/statuswatch/statuswatch/internal/state"
)

const shutdownTimeout = 5 * time.Second

// Refresher dispatches an out-of-schedule poll cycle.
type Refresher interface {
	ForceRefresh()
}

// Start launches the status API and metrics HTTP servers as configured. The
// API server carries the getStatus/forceRefresh surface consumed by UI
// readers plus the health endpoints.
func Start(ctx context.Context, logger zerolog.Logger, pollInterval time.Duration, store state.Store, refresher Refresher, tracker *healthcheck.Tracker, metricsCollector *metrics.Metrics, apiPort, metricsPort int) {
	if apiPort == 0 && metricsPort == 0 {
		return
	}

	if apiPort > 0 && metricsPort > 0 && apiPort == metricsPort {
		mux := http.NewServeMux()
		registerAPIRoutes(mux, logger, store, refresher)
		registerHealthRoutes(mux, tracker, pollInterval)
		registerMetricsRoute(mux, metricsCollector)
		startServer(ctx, logger, mux, apiPort, "api/metrics")
		return
	}

	if apiPort > 0 {
		mux := http.NewServeMux()
		registerAPIRoutes(mux, logger, store, refresher)
		registerHealthRoutes(mux, tracker, pollInterval)
		startServer(ctx, logger, mux, apiPort, "api")
	}

	if metricsPort > 0 {
		mux := http.NewServeMux()
		registerMetricsRoute(mux, metricsCollector)
		startServer(ctx, logger, mux, metricsPort, "metrics")
	}
}

func registerAPIRoutes(mux *http.ServeMux, logger zerolog.Logger, store state.Store, refresher Refresher) {
	mux.HandleFunc("/api/status", StatusHandler(logger, store))
	mux.HandleFunc("/api/refresh", RefreshHandler(logger, refresher))
}

func registerHealthRoutes(mux *http.ServeMux, tracker *healthcheck.Tracker, pollInterval time.Duration) {
	mux.HandleFunc("/healthz", healthcheck.HealthHandler(tracker, pollInterval))
	mux.HandleFunc("/readyz", healthcheck.ReadyHandler(tracker))
}

func registerMetricsRoute(mux *http.ServeMux, metricsCollector *metrics.Metrics) {
	if metricsCollector == nil {
		return
	}
	mux.Handle("/metrics", metricsCollector.Handler())
}

// StatusHandler serves the current persisted snapshot.
func StatusHandler(logger zerolog.Logger, store state.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		snapshot, err := store.Load(r.Context())
		if err != nil {
			logger.Error().Err(err).Msg("load snapshot for status request failed")
			http.Error(w, "snapshot unavailable", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snapshot)
	}
}

// RefreshHandler dispatches a forced poll cycle and acknowledges once
// dispatched, not once complete.
func RefreshHandler(logger zerolog.Logger, refresher Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if refresher == nil {
			http.Error(w, "refresh unavailable", http.StatusServiceUnavailable)
			return
		}

		refresher.ForceRefresh()
		logger.Debug().Msg("refresh requested")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "refresh dispatched"})
	}
}

func startServer(ctx context.Context, logger zerolog.Logger, handler http.Handler, port int, label string) {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("server", label).Int("port", port).Msg("http server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("server", label).Int("port", port).Msg("http server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Str("server", label).Int("port", port).Msg("http server shutdown failed")
		}
	}()
}
