// Package telemetry provides observability for the venuely API server.
//
// # Components
//
//   - logging: slog-based structured logging with request correlation and key redaction
//   - metrics: Prometheus metrics for requests, admission and lifecycle state
//   - health: liveness, readiness and version endpoints
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  cfg.Telemetry.Logging.Level,
//	    Format: cfg.Telemetry.Logging.Format,
//	    Fields: []logging.ContextFields{middleware.LogFields},
//	})
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, prometheus.NewRegistry())
//	collector.RecordRequest("GET", "GET /health", 200, time.Millisecond)
//
// # Key Protection
//
// Attributes named like secrets (api_key, token, authorization, ...) are
// masked by the logging handler. Key names are logged instead of keys.
package telemetry
